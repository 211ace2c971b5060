// Package principal decodifica el principal que inyecta Azure Static Web Apps / Entra ID
// en la cabecera X-MS-CLIENT-PRINCIPAL y extrae el email del usuario.
package principal

import (
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// Cabeceras del proveedor.
const (
	HeaderPrincipal     = "X-MS-CLIENT-PRINCIPAL"
	HeaderPrincipalName = "X-MS-CLIENT-PRINCIPAL-NAME"
)

// ErrNoEmail el principal no contiene ningún valor utilizable como email.
var ErrNoEmail = errors.New("principal: sin email")

// Claim par tipo/valor. SWA usa typ/val; Entra ID a veces type/value.
type Claim struct {
	Typ   string `json:"typ"`
	Val   string `json:"val"`
	Type  string `json:"type"`
	Value string `json:"value"`
}

func (c Claim) kind() string  { return strings.ToLower(firstNonEmpty(c.Typ, c.Type)) }
func (c Claim) value() string { return firstNonEmpty(c.Val, c.Value) }

// ClientPrincipal forma del JSON decodificado.
type ClientPrincipal struct {
	IdentityProvider string   `json:"identityProvider"`
	UserID           string   `json:"userId"`
	UserDetails      string   `json:"userDetails"`
	UserRoles        []string `json:"userRoles"`
	Claims           []Claim  `json:"claims"`
}

// Decode decodifica el valor base64 de X-MS-CLIENT-PRINCIPAL.
func Decode(header string) (*ClientPrincipal, error) {
	header = strings.TrimSpace(header)
	if header == "" {
		return nil, fmt.Errorf("principal: cabecera vacía")
	}
	raw, err := base64.StdEncoding.DecodeString(header)
	if err != nil {
		// Algunos proxies eliminan el padding.
		raw, err = base64.RawStdEncoding.DecodeString(strings.TrimRight(header, "="))
		if err != nil {
			return nil, fmt.Errorf("principal: base64 inválido: %w", err)
		}
	}
	var p ClientPrincipal
	if err := json.Unmarshal(raw, &p); err != nil {
		return nil, fmt.Errorf("principal: JSON inválido: %w", err)
	}
	return &p, nil
}

// Email extrae el email: userDetails si parece un email; si no, el primer claim
// de tipo email, .../emailaddress o un UPN con "@".
func (p *ClientPrincipal) Email() (string, error) {
	if p == nil {
		return "", ErrNoEmail
	}
	if d := strings.TrimSpace(p.UserDetails); strings.Contains(d, "@") {
		return d, nil
	}
	for _, c := range p.Claims {
		typ, val := c.kind(), strings.TrimSpace(c.value())
		if val == "" {
			continue
		}
		switch {
		case strings.Contains(typ, "email"):
			return val, nil
		case strings.HasSuffix(typ, "/emailaddress"):
			return val, nil
		case strings.HasSuffix(typ, "/upn") && strings.Contains(val, "@"):
			return val, nil
		}
	}
	return "", ErrNoEmail
}

// Name devuelve el claim "name" si existe.
func (p *ClientPrincipal) Name() string {
	if p == nil {
		return ""
	}
	for _, c := range p.Claims {
		if t := c.kind(); t == "name" || strings.HasSuffix(t, "/name") {
			return strings.TrimSpace(c.value())
		}
	}
	return ""
}

// Encode serializa un principal como lo haría el proveedor. Útil para clientes y pruebas.
func Encode(p ClientPrincipal) (string, error) {
	raw, err := json.Marshal(p)
	if err != nil {
		return "", err
	}
	return base64.StdEncoding.EncodeToString(raw), nil
}

func firstNonEmpty(a, b string) string {
	if a != "" {
		return a
	}
	return b
}
