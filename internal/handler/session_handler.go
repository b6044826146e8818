package handler

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/transify-app/transify-api/internal/service"
	"github.com/transify-app/transify-api/internal/utils"
)

// SessionHandler resolves the current session back into the admin account and
// organization, so clients can restore state from a stored token.
type SessionHandler struct {
	admins service.AdminDirectoryService
	orgs   service.OrganizationService
	logger zerolog.Logger
}

// NewSessionHandler constructs the handler.
func NewSessionHandler(admins service.AdminDirectoryService, orgs service.OrganizationService, logger zerolog.Logger) *SessionHandler {
	return &SessionHandler{
		admins: admins,
		orgs:   orgs,
		logger: logger.With().Str("component", "session_handler").Logger(),
	}
}

// Register attaches routes. The JWT middleware must run before these.
func (h *SessionHandler) Register(router fiber.Router) {
	router.Get("/session", h.session)
}

func (h *SessionHandler) session(c *fiber.Ctx) error {
	userID := userIDFromContext(c)
	if userID == "" {
		return utils.SendError(c, fiber.StatusUnauthorized, "authentication required")
	}

	admin, err := h.admins.Profile(c.Context(), userID)
	if err != nil {
		if errors.Is(err, service.ErrAdminNotFound) {
			return utils.SendError(c, fiber.StatusNotFound, "admin user not found")
		}
		requestLogger(h.logger, c).Error().Err(err).Msg("failed to load session profile")
		return utils.SendError(c, fiber.StatusInternalServerError, "failed to load session")
	}

	payload := fiber.Map{"admin": admin}
	if org, err := h.orgs.Get(c.Context(), admin.OrganizationID); err == nil {
		payload["organization"] = org
	}

	return utils.SendSuccess(c, "session resolved", payload)
}
