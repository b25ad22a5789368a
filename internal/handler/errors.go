package handler

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"go-facility-api/internal/apperr"
	"go-facility-api/internal/service"
	"go-facility-api/internal/tenant"
)

// Helper to pull user info from JWT context (set by auth middleware)
func getUserID(c *fiber.Ctx) string {
	userID := c.Locals("user_id")
	if userID == nil {
		return "system" // Fallback (shouldn't happen in protected routes)
	}
	return userID.(string)
}

func getUserName(c *fiber.Ctx) string {
	userName := c.Locals("user_name")
	if userName == nil {
		return "Unknown"
	}
	return userName.(string)
}

// requireTenant pulls the tenant scope resolved by the auth middleware.
// Users without an assigned site get a 403 on every site-scoped route.
func requireTenant(c *fiber.Ctx) (tenant.Context, bool) {
	tc, ok := c.Locals("tenant").(tenant.Context)
	return tc, ok
}

func parseUUID(id string) (uuid.UUID, error) {
	return uuid.Parse(id)
}

// respondError maps domain errors onto HTTP statuses so every handler
// reports failures the same way.
func respondError(c *fiber.Ctx, err error) error {
	switch {
	case apperr.IsAuthorization(err):
		return c.Status(403).JSON(fiber.Map{"error": err.Error()})
	case apperr.IsInsufficientStock(err):
		return c.Status(422).JSON(fiber.Map{"error": err.Error()})
	case apperr.IsIntegrity(err):
		return c.Status(409).JSON(fiber.Map{"error": err.Error()})
	case errors.Is(err, gorm.ErrRecordNotFound),
		errors.Is(err, service.ErrItemNotFound),
		errors.Is(err, service.ErrMovementNotFound),
		errors.Is(err, service.ErrSiteNotFound),
		errors.Is(err, service.ErrZoneNotFound),
		errors.Is(err, service.ErrSupplierNotFound),
		errors.Is(err, service.ErrMaintenanceNotFound),
		errors.Is(err, service.ErrUserNotFound):
		return c.Status(404).JSON(fiber.Map{"error": err.Error()})
	default:
		return c.Status(400).JSON(fiber.Map{"error": err.Error()})
	}
}

func respondMissingSite(c *fiber.Ctx) error {
	return c.Status(403).JSON(fiber.Map{"error": "No site assigned to this account"})
}
