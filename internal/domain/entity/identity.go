package entity

import "strings"

// Proveedores de identidad reconocidos.
const (
	ProviderAzureSWA = "aad"
	ProviderJWT      = "jwt"
	ProviderBody     = "body" // email declarado por el cliente; solo si no hay principal
)

// Identity usuario autenticado al que se atribuyen las filas enviadas.
type Identity struct {
	Email    string `json:"email"`
	Name     string `json:"name,omitempty"`
	Provider string `json:"provider"`
}

// IsZero indica identidad ausente.
func (i Identity) IsZero() bool { return i.Email == "" }

// IdentityKey clave de una identidad para sesiones y guards: sin espacios y en minúsculas.
func IdentityKey(email string) string { return strings.ToLower(strings.TrimSpace(email)) }
