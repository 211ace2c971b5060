package dto

// SuggestMaterialsRequest body para POST /api/ai/suggest-materials.
type SuggestMaterialsRequest struct {
	PartialMaterialName string `json:"partialMaterialName"`
	Industry            string `json:"industry"`
}

// SuggestMaterialsResponse siempre se responde con 200; una lista vacía cubre cualquier fallo.
type SuggestMaterialsResponse struct {
	Suggestions []string `json:"suggestions"`
}

// MeResponse identidad resuelta para GET /api/me.
type MeResponse struct {
	Email    string `json:"email"`
	Name     string `json:"name,omitempty"`
	Provider string `json:"provider"`
}
