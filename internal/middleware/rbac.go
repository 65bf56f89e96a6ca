package middleware

import (
	"context"
	"slices"

	"chainsync/pkg/utils"

	"github.com/gofiber/fiber/v2"
)

// RoleService is the subset of the role feature the middleware needs.
type RoleService interface {
	GetPermissionsForRoles(ctx context.Context, roleIDHexes []string) ([]string, error)
}

// RequirePermission checks if the user has a specific permission
func RequirePermission(roleService RoleService, skipAuth bool, requiredPermission string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if skipAuth {
			return c.Next()
		}

		claims, ok := c.Locals(utils.UserClaimsKey).(*utils.UserClaims)
		if !ok {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "Unauthorized",
			})
		}

		permissions, err := roleService.GetPermissionsForRoles(c.Context(), claims.Roles)
		if err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "Internal Server Error",
			})
		}

		if !slices.Contains(permissions, requiredPermission) {
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
				"error": "Forbidden: Insufficient permissions",
			})
		}

		return c.Next()
	}
}
