package ports

import "context"

// MaterialSuggester puerto de salida hacia el modelo de lenguaje que completa nombres de material.
// Cualquier adaptador (Gemini, Anthropic, mock) implementa esta interfaz; la aplicación
// solo conoce el contrato.
type MaterialSuggester interface {
	// SuggestMaterials devuelve nombres de material que completan partial dentro de industry.
	// El contexto debe llevar un timeout; el adaptador no aplica reintentos.
	SuggestMaterials(ctx context.Context, partial, industry string) ([]string, error)
}
