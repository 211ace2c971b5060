package ai

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"
)

const systemPrompt = `You are an expert inventory management assistant for recycling and material yards.
Your job is to suggest material names that complete what the user is typing, for the industry they work in.
Respond ONLY with JSON of the form {"suggestions": ["<material>", ...]} containing at most 5 short material names.
Do not include any additional text.`

func userPrompt(partial, industry string) string {
	if industry == "" {
		industry = "General"
	}
	return fmt.Sprintf("Industry: %s\nPartial Material Name: %s", industry, partial)
}

type suggestionsPayload struct {
	Suggestions []string `json:"suggestions"`
}

// jsonBlockRe captura desde el primer '{' o '[' hasta el último cierre.
var jsonBlockRe = regexp.MustCompile(`(?s)[\[{].*[\]}]`)

// parseSuggestions acepta {"suggestions":[...]} o un arreglo JSON suelto,
// aunque el modelo lo envuelva en markdown o texto.
func parseSuggestions(raw string) ([]string, error) {
	clean := extractJSON(raw)
	if clean == "" {
		return nil, fmt.Errorf("AI: no se encontró JSON en la respuesta del modelo (respuesta: %s)", raw)
	}
	if strings.HasPrefix(clean, "[") {
		var list []string
		if err := json.Unmarshal([]byte(clean), &list); err != nil {
			return nil, fmt.Errorf("AI: parsear arreglo de sugerencias: %w", err)
		}
		return list, nil
	}
	var p suggestionsPayload
	if err := json.Unmarshal([]byte(clean), &p); err != nil {
		return nil, fmt.Errorf("AI: parsear JSON de sugerencias: %w (JSON extraído: %s)", err, clean)
	}
	return p.Suggestions, nil
}

// extractJSON quita bloques markdown (```json … ```) y devuelve el primer bloque JSON.
func extractJSON(text string) string {
	text = strings.TrimSpace(text)
	if idx := strings.Index(text, "```"); idx != -1 {
		after := text[idx+3:]
		if nl := strings.Index(after, "\n"); nl != -1 {
			after = after[nl+1:]
		}
		if end := strings.LastIndex(after, "```"); end != -1 {
			after = after[:end]
		}
		text = strings.TrimSpace(after)
	}
	if strings.HasPrefix(text, "{") || strings.HasPrefix(text, "[") {
		return text
	}
	return strings.TrimSpace(jsonBlockRe.FindString(text))
}
