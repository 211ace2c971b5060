package suggest

import (
	"context"
	"strings"
	"sync"
	"time"
	"unicode/utf8"
)

// DefaultDebounce quietud requerida antes de consultar al modelo.
const DefaultDebounce = 300 * time.Millisecond

// Source obtiene sugerencias para un texto parcial. *UseCase la implementa.
type Source interface {
	SuggestMaterials(ctx context.Context, partial, industry string) []string
}

// Tracker sigue lo que el usuario va escribiendo. Cada entrada recibe un número de
// secuencia; una respuesta solo se aplica si su secuencia sigue siendo la última emitida,
// así una respuesta lenta de "wo" nunca pisa la de "woo".
type Tracker struct {
	src      Source
	industry string
	delay    time.Duration
	onResult func(partial string, suggestions []string)

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup

	mu     sync.Mutex
	seq    uint64
	timer  *time.Timer
	latest []string
	stale  int
	closed bool
}

// TrackerOption configura un Tracker.
type TrackerOption func(*Tracker)

// WithDebounce cambia la quietud requerida.
func WithDebounce(d time.Duration) TrackerOption {
	return func(t *Tracker) { t.delay = d }
}

// OnResult se invoca con cada resultado aplicado (nunca con los descartados).
func OnResult(fn func(partial string, suggestions []string)) TrackerOption {
	return func(t *Tracker) { t.onResult = fn }
}

// NewTracker construye el tracker; Close libera sus goroutines.
func NewTracker(src Source, industry string, opts ...TrackerOption) *Tracker {
	ctx, cancel := context.WithCancel(context.Background())
	t := &Tracker{
		src:      src,
		industry: industry,
		delay:    DefaultDebounce,
		ctx:      ctx,
		cancel:   cancel,
		latest:   []string{},
	}
	for _, o := range opts {
		o(t)
	}
	return t
}

// Input registra el texto actual. Un texto corto limpia las sugerencias al instante.
func (t *Tracker) Input(partial string) {
	t.mu.Lock()
	if t.closed {
		t.mu.Unlock()
		return
	}
	t.seq++
	seq := t.seq
	t.stopTimerLocked()

	if utf8.RuneCountInString(strings.TrimSpace(partial)) < MinPartialLength {
		t.latest = []string{}
		t.mu.Unlock()
		t.notify(partial, []string{})
		return
	}

	t.wg.Add(1)
	t.timer = time.AfterFunc(t.delay, func() {
		defer t.wg.Done()
		t.fetch(seq, partial)
	})
	t.mu.Unlock()
}

func (t *Tracker) fetch(seq uint64, partial string) {
	if !t.current(seq) {
		return
	}
	res := t.src.SuggestMaterials(t.ctx, partial, t.industry)

	t.mu.Lock()
	if seq != t.seq || t.closed {
		t.stale++
		t.mu.Unlock()
		return
	}
	t.latest = res
	t.mu.Unlock()
	t.notify(partial, res)
}

func (t *Tracker) current(seq uint64) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return seq == t.seq && !t.closed
}

func (t *Tracker) notify(partial string, res []string) {
	if t.onResult != nil {
		t.onResult(partial, res)
	}
}

// stopTimerLocked cancela la consulta pendiente que aún no arrancó.
func (t *Tracker) stopTimerLocked() {
	if t.timer != nil && t.timer.Stop() {
		t.wg.Done()
	}
	t.timer = nil
}

// Latest últimas sugerencias aplicadas.
func (t *Tracker) Latest() []string {
	t.mu.Lock()
	defer t.mu.Unlock()
	out := make([]string, len(t.latest))
	copy(out, t.latest)
	return out
}

// Discarded cantidad de respuestas descartadas por llegar tarde.
func (t *Tracker) Discarded() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.stale
}

// Wait espera la consulta programada o en curso sin cancelarla. No debe llamarse
// en paralelo con Input.
func (t *Tracker) Wait() { t.wg.Wait() }

// Close cancela consultas en curso y espera a que terminen.
func (t *Tracker) Close() {
	t.mu.Lock()
	t.closed = true
	t.stopTimerLocked()
	t.mu.Unlock()
	t.cancel()
	t.wg.Wait()
}
