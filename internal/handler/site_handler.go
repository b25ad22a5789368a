package handler

import (
	"go-facility-api/internal/service"

	"github.com/gofiber/fiber/v2"
)

type SiteHandler struct {
	siteService service.SiteService
}

func NewSiteHandler(siteService service.SiteService) *SiteHandler {
	return &SiteHandler{siteService: siteService}
}

// CreateSite registers a new site
// POST /api/v1/sites
func (h *SiteHandler) CreateSite(c *fiber.Ctx) error {
	var req service.SiteRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid JSON"})
	}

	site, err := h.siteService.CreateSite(&req, getUserID(c))
	if err != nil {
		return respondError(c, err)
	}

	return c.Status(201).JSON(fiber.Map{"message": "Site created", "data": site})
}

// GetSites lists all sites
// GET /api/v1/sites
func (h *SiteHandler) GetSites(c *fiber.Ctx) error {
	sites, err := h.siteService.GetSites()
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Internal Server Error"})
	}
	return c.JSON(sites)
}

// GetSite fetches a single site
// GET /api/v1/sites/:id
func (h *SiteHandler) GetSite(c *fiber.Ctx) error {
	id, err := parseUUID(c.Params("id"))
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid site ID"})
	}

	site, err := h.siteService.GetSiteByID(id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(site)
}

// UpdateSite updates a site
// PUT /api/v1/sites/:id
func (h *SiteHandler) UpdateSite(c *fiber.Ctx) error {
	id, err := parseUUID(c.Params("id"))
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid site ID"})
	}

	var req service.SiteRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid JSON"})
	}

	site, err := h.siteService.UpdateSite(id, &req, getUserID(c))
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(fiber.Map{"message": "Site updated", "data": site})
}

// DeleteSite soft-deletes a site that owns no zones
// DELETE /api/v1/sites/:id
func (h *SiteHandler) DeleteSite(c *fiber.Ctx) error {
	id, err := parseUUID(c.Params("id"))
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid site ID"})
	}

	if err := h.siteService.DeleteSite(id, getUserID(c)); err != nil {
		return respondError(c, err)
	}

	return c.JSON(fiber.Map{"message": "Site deleted"})
}

// CreateZone adds a zone to the current site
// POST /api/v1/zones
func (h *SiteHandler) CreateZone(c *fiber.Ctx) error {
	tc, ok := requireTenant(c)
	if !ok {
		return respondMissingSite(c)
	}

	var req service.ZoneRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid JSON"})
	}

	zone, err := h.siteService.CreateZone(tc, &req, getUserID(c))
	if err != nil {
		return respondError(c, err)
	}

	return c.Status(201).JSON(fiber.Map{"message": "Zone created", "data": zone})
}

// GetZones lists zones of the current site
// GET /api/v1/zones
func (h *SiteHandler) GetZones(c *fiber.Ctx) error {
	tc, ok := requireTenant(c)
	if !ok {
		return respondMissingSite(c)
	}

	zones, err := h.siteService.GetZones(tc)
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Internal Server Error"})
	}
	return c.JSON(zones)
}

// DeleteZone removes a zone from the current site
// DELETE /api/v1/zones/:id
func (h *SiteHandler) DeleteZone(c *fiber.Ctx) error {
	tc, ok := requireTenant(c)
	if !ok {
		return respondMissingSite(c)
	}

	id, err := parseUUID(c.Params("id"))
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid zone ID"})
	}

	if err := h.siteService.DeleteZone(tc, id, getUserID(c)); err != nil {
		return respondError(c, err)
	}

	return c.JSON(fiber.Map{"message": "Zone deleted"})
}
