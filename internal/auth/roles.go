package auth

import (
	"github.com/gofiber/fiber/v2"

	"github.com/syndic-console/reclamation-service/internal/domain"
	apperrors "github.com/syndic-console/reclamation-service/pkg/errorutil"
)

// RequireRole ensures the caller holds one of the allowed roles.
func RequireRole(allowed ...domain.Role) fiber.Handler {
	allowedSet := make(map[domain.Role]struct{}, len(allowed))
	for _, role := range allowed {
		allowedSet[role] = struct{}{}
	}

	return func(c *fiber.Ctx) error {
		actor, ok := ActorFromContext(c)
		if !ok {
			return apperrors.NewUnauthorized("authentication required")
		}
		if len(allowedSet) == 0 {
			return c.Next()
		}
		if _, exists := allowedSet[actor.Role]; !exists {
			return apperrors.NewForbidden("insufficient role")
		}
		return c.Next()
	}
}

// RequireSyndic restricts a route to management.
func RequireSyndic() fiber.Handler {
	return RequireRole(domain.RoleSyndic)
}

// RequireResident restricts a route to residents.
func RequireResident() fiber.Handler {
	return RequireRole(domain.RoleResident)
}
