// Package suggest completa nombres de material con ayuda de un modelo de lenguaje.
package suggest

import (
	"context"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/rs/zerolog"

	"github.com/jhoicas/site-logger/internal/application/ports"
)

const (
	// MinPartialLength por debajo de este largo no se consulta al modelo.
	MinPartialLength = 2
	// MaxSuggestions tope de sugerencias devueltas.
	MaxSuggestions = 5

	defaultTimeout = 10 * time.Second
)

// UseCase orquesta la consulta al modelo. Nunca devuelve error: cualquier fallo
// se registra y se traduce en una lista vacía.
type UseCase struct {
	llm      ports.MaterialSuggester
	industry string
	timeout  time.Duration
	log      zerolog.Logger
}

// NewUseCase construye el caso de uso. llm puede ser nil (IA deshabilitada).
func NewUseCase(llm ports.MaterialSuggester, defaultIndustry string, log zerolog.Logger) *UseCase {
	return &UseCase{llm: llm, industry: defaultIndustry, timeout: defaultTimeout, log: log}
}

// SuggestMaterials devuelve hasta MaxSuggestions nombres sin duplicados.
func (uc *UseCase) SuggestMaterials(ctx context.Context, partial, industry string) []string {
	partial = strings.TrimSpace(partial)
	if uc.llm == nil || utf8.RuneCountInString(partial) < MinPartialLength {
		return []string{}
	}
	if strings.TrimSpace(industry) == "" {
		industry = uc.industry
	}

	ctx, cancel := context.WithTimeout(ctx, uc.timeout)
	defer cancel()

	raw, err := uc.llm.SuggestMaterials(ctx, partial, industry)
	if err != nil {
		uc.log.Warn().Err(err).Str("partial", partial).Msg("sugerencias de material no disponibles")
		return []string{}
	}
	return normalize(raw)
}

func normalize(raw []string) []string {
	out := make([]string, 0, MaxSuggestions)
	seen := make(map[string]struct{}, len(raw))
	for _, s := range raw {
		s = strings.TrimSpace(s)
		if s == "" {
			continue
		}
		key := strings.ToLower(s)
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, s)
		if len(out) == MaxSuggestions {
			break
		}
	}
	return out
}
