package handler

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/transify-app/transify-api/internal/service"
	"github.com/transify-app/transify-api/internal/utils"
)

// OrganizationHandler exposes the tenant lookup endpoints used by the
// connect-your-organization flow.
type OrganizationHandler struct {
	service service.OrganizationService
	logger  zerolog.Logger
}

// NewOrganizationHandler constructs the handler.
func NewOrganizationHandler(service service.OrganizationService, logger zerolog.Logger) *OrganizationHandler {
	return &OrganizationHandler{
		service: service,
		logger:  logger.With().Str("component", "org_handler").Logger(),
	}
}

// Register attaches routes.
func (h *OrganizationHandler) Register(router fiber.Router) {
	router.Get("/lookup", h.lookup)
}

func (h *OrganizationHandler) lookup(c *fiber.Ctx) error {
	if code := c.Query("code"); code != "" {
		org, err := h.service.LookupByCode(c.Context(), code)
		if err != nil {
			if errors.Is(err, service.ErrOrgNotFound) {
				return utils.SendError(c, fiber.StatusNotFound, "organization not found")
			}
			requestLogger(h.logger, c).Error().Err(err).Msg("organization lookup failed")
			return utils.SendError(c, fiber.StatusInternalServerError, "failed to look up organization")
		}
		return utils.SendSuccess(c, "organization found", org)
	}

	if query := c.Query("search"); query != "" {
		limit, err := parseQueryInt(c, "limit")
		if err != nil {
			return utils.SendError(c, fiber.StatusBadRequest, "invalid limit")
		}

		orgs, err := h.service.Search(c.Context(), query, limit)
		if err != nil {
			requestLogger(h.logger, c).Error().Err(err).Msg("organization search failed")
			return utils.SendError(c, fiber.StatusInternalServerError, "failed to search organizations")
		}
		return utils.SendSuccess(c, "organizations retrieved", orgs)
	}

	return utils.SendError(c, fiber.StatusBadRequest, "code or search query is required")
}
