package http

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/jhoicas/site-logger/internal/application/dto"
	"github.com/jhoicas/site-logger/internal/domain/entity"
	"github.com/jhoicas/site-logger/pkg/jwt"
	"github.com/jhoicas/site-logger/pkg/principal"
)

// LocalIdentity key de Fiber locals con la identidad resuelta.
const LocalIdentity = "identity"

// IdentityMiddleware resuelve la identidad del proveedor y la guarda en c.Locals.
// Orden: X-MS-CLIENT-PRINCIPAL, X-MS-CLIENT-PRINCIPAL-NAME, Authorization Bearer (JWT).
// No rechaza peticiones: las rutas que exigen identidad usan RequireIdentity.
func IdentityMiddleware(jwtSecret string, log zerolog.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if id, ok := resolveIdentity(c, jwtSecret, log); ok {
			c.Locals(LocalIdentity, id)
		}
		return c.Next()
	}
}

func resolveIdentity(c *fiber.Ctx, jwtSecret string, log zerolog.Logger) (entity.Identity, bool) {
	if raw := c.Get(principal.HeaderPrincipal); raw != "" {
		p, err := principal.Decode(raw)
		var email string
		if err == nil {
			email, err = p.Email()
		}
		if err == nil {
			return entity.Identity{Email: email, Name: p.Name(), Provider: entity.ProviderAzureSWA}, true
		}
		log.Warn().Err(err).Str("path", c.Path()).Msg("principal del proveedor ilegible")
	}

	if name := strings.TrimSpace(c.Get(principal.HeaderPrincipalName)); name != "" {
		return entity.Identity{Email: name, Provider: entity.ProviderAzureSWA}, true
	}

	if jwtSecret == "" {
		return entity.Identity{}, false
	}
	parts := strings.SplitN(c.Get(fiber.HeaderAuthorization), " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return entity.Identity{}, false
	}
	token := strings.TrimSpace(parts[1])
	if token == "" {
		return entity.Identity{}, false
	}
	email, name, err := jwt.Parse(jwtSecret, token)
	if err != nil {
		log.Debug().Err(err).Msg("token inválido o expirado")
		return entity.Identity{}, false
	}
	return entity.Identity{Email: email, Name: name, Provider: entity.ProviderJWT}, true
}

// RequireIdentity responde 401 si el middleware no resolvió identidad.
func RequireIdentity() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if GetIdentity(c).IsZero() {
			return unauthorized(c)
		}
		return c.Next()
	}
}

// GetIdentity devuelve la identidad del contexto (vacía si no hay).
func GetIdentity(c *fiber.Ctx) entity.Identity {
	id, _ := c.Locals(LocalIdentity).(entity.Identity)
	return id
}

// submitter decide a quién se atribuye un lote. La identidad del proveedor siempre gana
// sobre el email declarado en el cuerpo; este solo se acepta si allowBody está activo.
func submitter(c *fiber.Ctx, bodyEmail string, allowBody bool) string {
	if id := GetIdentity(c); !id.IsZero() {
		return id.Email
	}
	if allowBody {
		return strings.TrimSpace(bodyEmail)
	}
	return ""
}

// MsgIdentityRequired texto del 401. El userEmail del cuerpo solo cuenta con AUTH_ALLOW_BODY_EMAIL=true.
const MsgIdentityRequired = "usuario no identificado: se requiere identidad del proveedor (X-MS-CLIENT-PRINCIPAL o Authorization Bearer)"

func unauthorized(c *fiber.Ctx) error {
	return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
		Error: MsgIdentityRequired,
		Code:  dto.CodeUnauthorized,
	})
}
