// Package submission implementa el envío por lotes de la lista de preparación:
//
//	Idle → Submitting → {Succeeded, Failed}
//
// Succeeded vuelve a Idle tras una ventana fija de confirmación o con la siguiente
// mutación de la lista. Failed conserva la lista para reintentar y no tiene temporizador.
package submission

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/jhoicas/site-logger/internal/application/staging"
	"github.com/jhoicas/site-logger/internal/domain"
	"github.com/jhoicas/site-logger/internal/domain/entity"
)

// State estado del envío.
type State int

const (
	Idle State = iota
	Submitting
	Succeeded
	Failed
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Submitting:
		return "submitting"
	case Succeeded:
		return "succeeded"
	case Failed:
		return "failed"
	}
	return fmt.Sprintf("state(%d)", int(s))
}

// DefaultDisplayWindow tiempo que se muestra la confirmación antes de volver a Idle.
const DefaultDisplayWindow = 5 * time.Second

// Boundary entrega el lote completo al límite de persistencia como una sola unidad de trabajo.
type Boundary[T any] func(ctx context.Context, entries []T, submittedBy string, req Request) (*entity.BatchReceipt, error)

// Request opciones de un envío concreto.
type Request struct {
	Notify bool // encolar el recibo por correo
}

// SubmitOption configura un envío.
type SubmitOption func(*Request)

// WithNotify pide (o no) el recibo por correo para este envío.
func WithNotify(notify bool) SubmitOption { return func(r *Request) { r.Notify = notify } }

// Scheduler programa f después de d y devuelve una función para cancelarlo.
type Scheduler func(d time.Duration, f func()) (stop func() bool)

// AfterFunc Scheduler basado en time.AfterFunc.
func AfterFunc(d time.Duration, f func()) func() bool {
	return time.AfterFunc(d, f).Stop
}

// Option configura una sesión.
type Option func(*options)

type options struct {
	window    time.Duration
	scheduler Scheduler
}

// WithDisplayWindow cambia la ventana de confirmación.
func WithDisplayWindow(d time.Duration) Option { return func(o *options) { o.window = d } }

// WithScheduler reemplaza el temporizador (tests).
func WithScheduler(s Scheduler) Option { return func(o *options) { o.scheduler = s } }

// Session lista de preparación + máquina de estados de envío de un usuario.
// La identidad se recibe al construirla; vacía significa envío bloqueado.
type Session[T any] struct {
	mu          sync.Mutex
	list        *staging.List[T]
	submittedBy string
	boundary    Boundary[T]
	opts        options

	state     State
	lastErr   error
	receipt   *entity.BatchReceipt
	stopTimer func() bool
	epoch     uint64 // invalida temporizadores viejos
}

// NewSession construye la sesión.
func NewSession[T any](submittedBy string, boundary Boundary[T], opts ...Option) *Session[T] {
	o := options{window: DefaultDisplayWindow, scheduler: AfterFunc}
	for _, fn := range opts {
		fn(&o)
	}
	return &Session[T]{
		list:        staging.New[T](),
		submittedBy: submittedBy,
		boundary:    boundary,
		opts:        o,
	}
}

// Stage agrega una entrada ya validada.
func (s *Session[T]) Stage(entry T) (staging.Item[T], error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state == Submitting {
		return staging.Item[T]{}, domain.ErrSubmissionInProgress
	}
	s.touchLocked()
	return s.list.Add(entry), nil
}

// Unstage quita una entrada por id; si no existe no es error.
func (s *Session[T]) Unstage(id string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state == Submitting {
		return false, domain.ErrSubmissionInProgress
	}
	s.touchLocked()
	return s.list.Remove(id), nil
}

// Submit envía todas las entradas preparadas. Sin identidad o con la lista vacía falla con
// ErrPreconditionFailed sin llamar al límite de persistencia.
func (s *Session[T]) Submit(ctx context.Context, opts ...SubmitOption) (*entity.BatchReceipt, error) {
	var req Request
	for _, fn := range opts {
		fn(&req)
	}

	s.mu.Lock()
	if s.state == Submitting {
		s.mu.Unlock()
		return nil, domain.ErrSubmissionInProgress
	}
	if s.submittedBy == "" {
		s.mu.Unlock()
		return nil, fmt.Errorf("%w: usuario no identificado", domain.ErrPreconditionFailed)
	}
	if s.list.Count() == 0 {
		s.mu.Unlock()
		return nil, fmt.Errorf("%w: no hay entradas preparadas", domain.ErrPreconditionFailed)
	}
	s.cancelTimerLocked()
	s.state = Submitting
	s.lastErr = nil
	entries := s.list.Entries()
	s.mu.Unlock()

	receipt, err := s.boundary(ctx, entries, s.submittedBy, req)

	s.mu.Lock()
	defer s.mu.Unlock()
	if err != nil {
		// Cualquier fallo se trata como "nada se guardó": la lista queda intacta.
		s.state = Failed
		s.lastErr = err
		return nil, err
	}
	s.list.Clear()
	s.state = Succeeded
	s.receipt = receipt
	s.epoch++
	epoch := s.epoch
	s.stopTimer = s.opts.scheduler(s.opts.window, func() { s.expire(epoch) })
	return receipt, nil
}

// expire vuelve a Idle si nadie tocó la sesión desde el éxito que programó el temporizador.
func (s *Session[T]) expire(epoch uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.epoch == epoch && s.state == Succeeded {
		s.state = Idle
		s.stopTimer = nil
	}
}

// touchLocked una mutación de la lista devuelve Succeeded/Failed a Idle.
func (s *Session[T]) touchLocked() {
	if s.state == Succeeded || s.state == Failed {
		s.cancelTimerLocked()
		s.state = Idle
		s.lastErr = nil
	}
}

func (s *Session[T]) cancelTimerLocked() {
	s.epoch++
	if s.stopTimer != nil {
		s.stopTimer()
		s.stopTimer = nil
	}
}

// Close detiene el temporizador pendiente, si hay.
func (s *Session[T]) Close() {
	s.mu.Lock()
	s.cancelTimerLocked()
	s.mu.Unlock()
}

// State estado actual.
func (s *Session[T]) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// LastError error del último envío fallido (nil fuera de Failed).
func (s *Session[T]) LastError() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastErr
}

// SubmittedBy identidad de la sesión.
func (s *Session[T]) SubmittedBy() string { return s.submittedBy }

// Snapshot vista de presentación de la sesión.
type Snapshot[T any] struct {
	State       State
	Items       []staging.Item[T]
	LastError   error
	LastReceipt *entity.BatchReceipt
	CanSubmit   bool
}

// Snapshot copia consistente del estado y de las entradas.
func (s *Session[T]) Snapshot() Snapshot[T] {
	s.mu.Lock()
	defer s.mu.Unlock()
	items := s.list.Items()
	return Snapshot[T]{
		State:       s.state,
		Items:       items,
		LastError:   s.lastErr,
		LastReceipt: s.receipt,
		CanSubmit:   s.state != Submitting && len(items) > 0 && s.submittedBy != "",
	}
}
