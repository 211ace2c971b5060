package submission

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/jhoicas/site-logger/internal/domain/entity"
)

func okBoundary(context.Context, []string, string, Request) (*entity.BatchReceipt, error) {
	return &entity.BatchReceipt{}, nil
}

func TestRegistry_UnaSesionPorIdentidad(t *testing.T) {
	r := NewRegistry[string](okBoundary)

	a1 := r.Get("a@b.com")
	a2 := r.Get("a@b.com")
	b := r.Get("c@d.com")

	assert.Same(t, a1, a2)
	assert.NotSame(t, a1, b)
	assert.Equal(t, "a@b.com", a1.SubmittedBy())
	assert.Equal(t, 2, r.Len())
}

func TestRegistry_MismaIdentidadSinDistinguirMayusculas(t *testing.T) {
	r := NewRegistry[string](okBoundary)

	first := r.Get("A@b.com")
	_, err := first.Stage("Wood")
	assert.NoError(t, err)

	again := r.Get(" a@B.com ")
	assert.Same(t, first, again)
	assert.Len(t, again.Snapshot().Items, 1)
	assert.Equal(t, "A@b.com", again.SubmittedBy())
	assert.Equal(t, 1, r.Len())
}

func TestRegistry_SweepEliminaInactivas(t *testing.T) {
	r := NewRegistry[string](okBoundary)
	now := time.Date(2024, 6, 8, 12, 0, 0, 0, time.UTC)
	r.now = func() time.Time { return now }

	r.Get("viejo@b.com").Stage("Wood")
	now = now.Add(2 * time.Hour)
	r.Get("nuevo@b.com")

	removed := r.Sweep(time.Hour)
	assert.Equal(t, 1, removed)
	assert.Equal(t, 1, r.Len())

	// La sesión recreada empieza vacía: lo no enviado no se persiste.
	assert.Empty(t, r.Get("viejo@b.com").Snapshot().Items)
}
