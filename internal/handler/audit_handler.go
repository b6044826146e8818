package handler

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/transify-app/transify-api/internal/service"
	"github.com/transify-app/transify-api/internal/utils"
)

// AuditHandler exposes the audit trail query endpoint.
type AuditHandler struct {
	service service.AuditService
	logger  zerolog.Logger
}

// NewAuditHandler constructs the handler.
func NewAuditHandler(service service.AuditService, logger zerolog.Logger) *AuditHandler {
	return &AuditHandler{
		service: service,
		logger:  logger.With().Str("component", "audit_handler").Logger(),
	}
}

// Register attaches routes.
func (h *AuditHandler) Register(router fiber.Router) {
	router.Get("/audit-logs", h.list)
}

func (h *AuditHandler) list(c *fiber.Ctx) error {
	organizationID := c.Query("organization_id")
	if organizationID == "" {
		return utils.SendError(c, fiber.StatusBadRequest, "organization_id is required")
	}

	limit, err := parseQueryInt(c, "limit")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid limit")
	}

	entries, err := h.service.Query(c.Context(), organizationID, limit)
	if err != nil {
		requestLogger(h.logger, c).Error().Err(err).Msg("failed to query audit logs")
		return utils.SendError(c, fiber.StatusInternalServerError, "failed to retrieve audit logs")
	}

	return utils.SendSuccess(c, "audit logs retrieved", entries)
}
