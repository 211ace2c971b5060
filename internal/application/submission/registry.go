package submission

import (
	"strings"
	"sync"
	"time"

	"github.com/jhoicas/site-logger/internal/domain/entity"
)

// Registry guarda una sesión por identidad en memoria del servidor.
// Al expirar una sesión inactiva se pierden sus entradas no enviadas.
type Registry[T any] struct {
	mu       sync.Mutex
	sessions map[string]*registryEntry[T]
	boundary Boundary[T]
	opts     []Option
	now      func() time.Time
}

type registryEntry[T any] struct {
	session  *Session[T]
	lastSeen time.Time
}

// NewRegistry construye el registro; todas las sesiones comparten el mismo límite de persistencia.
func NewRegistry[T any](boundary Boundary[T], opts ...Option) *Registry[T] {
	return &Registry[T]{
		sessions: make(map[string]*registryEntry[T]),
		boundary: boundary,
		opts:     opts,
		now:      time.Now,
	}
}

// Get devuelve (o crea) la sesión de la identidad y actualiza su última actividad.
// Las identidades se comparan con entity.IdentityKey, igual que el guard de envíos.
func (r *Registry[T]) Get(identity string) *Session[T] {
	key := entity.IdentityKey(identity)
	r.mu.Lock()
	defer r.mu.Unlock()
	e, ok := r.sessions[key]
	if !ok {
		e = &registryEntry[T]{session: NewSession(strings.TrimSpace(identity), r.boundary, r.opts...)}
		r.sessions[key] = e
	}
	e.lastSeen = r.now()
	return e.session
}

// Sweep elimina las sesiones sin actividad por más de maxIdle que no estén enviando.
// Devuelve cuántas eliminó.
func (r *Registry[T]) Sweep(maxIdle time.Duration) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	cutoff := r.now().Add(-maxIdle)
	removed := 0
	for id, e := range r.sessions {
		if e.lastSeen.Before(cutoff) && e.session.State() != Submitting {
			e.session.Close()
			delete(r.sessions, id)
			removed++
		}
	}
	return removed
}

// Len número de sesiones vivas.
func (r *Registry[T]) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.sessions)
}
