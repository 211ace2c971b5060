package inventory

import (
	"context"
	"sync"
	"time"

	"github.com/jhoicas/site-logger/internal/domain"
)

var _ SubmissionGuard = (*MemoryGuard)(nil)

// MemoryGuard SubmissionGuard en proceso; se usa cuando no hay Redis configurado.
type MemoryGuard struct {
	mu   sync.Mutex
	held map[string]time.Time // clave → vencimiento
	now  func() time.Time
}

// NewMemoryGuard construye el guard en memoria.
func NewMemoryGuard() *MemoryGuard {
	return &MemoryGuard{held: make(map[string]time.Time), now: time.Now}
}

// Acquire toma la clave por ttl. Una clave vencida se puede volver a tomar.
func (g *MemoryGuard) Acquire(_ context.Context, key string, ttl time.Duration) (func(), error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	now := g.now()
	if exp, ok := g.held[key]; ok && now.Before(exp) {
		return nil, domain.ErrSubmissionInProgress
	}
	exp := now.Add(ttl)
	g.held[key] = exp
	return func() {
		g.mu.Lock()
		defer g.mu.Unlock()
		// Solo libera si sigue siendo el mismo dueño.
		if cur, ok := g.held[key]; ok && cur.Equal(exp) {
			delete(g.held, key)
		}
	}, nil
}
