package suggest_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"go.uber.org/goleak"

	"github.com/jhoicas/site-logger/internal/application/suggest"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

type fakeLLM struct {
	calls    int
	industry string
	out      []string
	err      error
	deadline bool
}

func (f *fakeLLM) SuggestMaterials(ctx context.Context, partial, industry string) ([]string, error) {
	f.calls++
	f.industry = industry
	_, f.deadline = ctx.Deadline()
	return f.out, f.err
}

func TestSuggestMaterials_TextoCortoNoLlamaAlModelo(t *testing.T) {
	llm := &fakeLLM{out: []string{"Wood"}}
	uc := suggest.NewUseCase(llm, "Recycling", zerolog.Nop())

	for _, p := range []string{"", "w", " w "} {
		assert.Empty(t, uc.SuggestMaterials(context.Background(), p, ""))
	}
	assert.Zero(t, llm.calls)
}

func TestSuggestMaterials_NormalizaYLimita(t *testing.T) {
	llm := &fakeLLM{out: []string{" Wood ", "wood", "", "Wood Chips", "Woodland Debris", "Wool", "Wonderboard", "Extra"}}
	uc := suggest.NewUseCase(llm, "Recycling", zerolog.Nop())

	got := uc.SuggestMaterials(context.Background(), "wo", "")
	assert.Equal(t, []string{"Wood", "Wood Chips", "Woodland Debris", "Wool", "Wonderboard"}, got)
	assert.Equal(t, "Recycling", llm.industry, "usa la industria por defecto")
	assert.True(t, llm.deadline, "la llamada lleva timeout")
}

func TestSuggestMaterials_ErrorDevuelveVacio(t *testing.T) {
	llm := &fakeLLM{err: errors.New("quota exceeded")}
	uc := suggest.NewUseCase(llm, "", zerolog.Nop())

	got := uc.SuggestMaterials(context.Background(), "con", "Construction")
	assert.NotNil(t, got)
	assert.Empty(t, got)
	assert.Equal(t, "Construction", llm.industry)
}

func TestSuggestMaterials_SinModelo(t *testing.T) {
	uc := suggest.NewUseCase(nil, "", zerolog.Nop())
	assert.Empty(t, uc.SuggestMaterials(context.Background(), "wood", ""))
}

// Verifica que el timeout del caso de uso corta un modelo colgado.
type hangingLLM struct{}

func (hangingLLM) SuggestMaterials(ctx context.Context, _, _ string) ([]string, error) {
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case <-time.After(time.Minute):
		return []string{"late"}, nil
	}
}

func TestSuggestMaterials_CancelacionDelLlamador(t *testing.T) {
	uc := suggest.NewUseCase(hangingLLM{}, "", zerolog.Nop())
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	assert.Empty(t, uc.SuggestMaterials(ctx, "wood", ""))
}
