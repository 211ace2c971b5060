package ai

import (
	"context"
	"fmt"

	"google.golang.org/genai"

	"github.com/jhoicas/site-logger/internal/application/ports"
)

var _ ports.MaterialSuggester = (*GeminiSuggester)(nil)

// generator lo que usamos de *genai.Models.
type generator interface {
	GenerateContent(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error)
}

// GeminiSuggester adaptador de MaterialSuggester sobre el SDK google.golang.org/genai.
// Pide salida JSON con esquema, así el modelo no puede devolver texto libre.
type GeminiSuggester struct {
	models generator
	model  string
}

// NewGeminiSuggester crea el cliente. model suele ser "gemini-2.0-flash".
func NewGeminiSuggester(ctx context.Context, apiKey, model string) (*GeminiSuggester, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("AI: GEMINI_API_KEY no configurado")
	}
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("AI: crear cliente Gemini: %w", err)
	}
	return &GeminiSuggester{models: client.Models, model: model}, nil
}

var suggestionsSchema = &genai.Schema{
	Type: genai.TypeObject,
	Properties: map[string]*genai.Schema{
		"suggestions": {
			Type:  genai.TypeArray,
			Items: &genai.Schema{Type: genai.TypeString},
		},
	},
	Required: []string{"suggestions"},
}

// SuggestMaterials implementa ports.MaterialSuggester.
func (s *GeminiSuggester) SuggestMaterials(ctx context.Context, partial, industry string) ([]string, error) {
	cfg := &genai.GenerateContentConfig{
		SystemInstruction: genai.NewContentFromText(systemPrompt, genai.RoleUser),
		ResponseMIMEType:  "application/json",
		ResponseSchema:    suggestionsSchema,
		Temperature:       genai.Ptr[float32](0.2),
		MaxOutputTokens:   256,
	}
	contents := []*genai.Content{genai.NewContentFromText(userPrompt(partial, industry), genai.RoleUser)}

	resp, err := s.models.GenerateContent(ctx, s.model, contents, cfg)
	if err != nil {
		if ctx.Err() != nil {
			return nil, fmt.Errorf("AI: timeout o cancelación: %w", ctx.Err())
		}
		return nil, fmt.Errorf("AI: Gemini: %w", err)
	}
	text := resp.Text()
	if text == "" {
		return nil, fmt.Errorf("AI: Gemini devolvió respuesta vacía")
	}
	return parseSuggestions(text)
}
