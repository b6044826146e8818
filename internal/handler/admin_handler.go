package handler

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/transify-app/transify-api/internal/dto"
	"github.com/transify-app/transify-api/internal/service"
	"github.com/transify-app/transify-api/internal/utils"
)

// AdminHandler exposes the admin directory endpoints: invitations, listing,
// role changes and removal.
type AdminHandler struct {
	service service.AdminDirectoryService
	logger  zerolog.Logger
}

// NewAdminHandler constructs the handler.
func NewAdminHandler(service service.AdminDirectoryService, logger zerolog.Logger) *AdminHandler {
	return &AdminHandler{
		service: service,
		logger:  logger.With().Str("component", "admin_handler").Logger(),
	}
}

// Register attaches routes.
func (h *AdminHandler) Register(router fiber.Router) {
	router.Post("/invite", h.invite)
	router.Get("/list", h.list)
	router.Post("/change-role", h.changeRole)
	router.Post("/remove", h.remove)
	router.Post("/accept-invite", h.acceptInvite)
	router.Put("/accept-invite", h.updateName)
}

func (h *AdminHandler) invite(c *fiber.Ctx) error {
	var payload dto.InviteRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid payload")
	}

	response, err := h.service.Invite(c.Context(), payload)
	if err != nil {
		switch {
		case isValidationError(err), errors.Is(err, service.ErrInvalidRole):
			return utils.SendError(c, fiber.StatusBadRequest, err.Error())
		case errors.Is(err, service.ErrNotSuperAdmin):
			return utils.SendError(c, fiber.StatusForbidden, err.Error())
		case errors.Is(err, service.ErrAlreadyActive):
			return utils.SendError(c, fiber.StatusConflict, err.Error())
		default:
			requestLogger(h.logger, c).Error().Err(err).Msg("failed to send invite")
			return utils.SendError(c, fiber.StatusInternalServerError, "failed to send invite")
		}
	}

	message := "invitation sent"
	if response.EmailError != "" {
		message = "invitation created but email delivery failed"
	}
	return utils.SendSuccess(c, message, response)
}

func (h *AdminHandler) list(c *fiber.Ctx) error {
	organizationID := c.Query("organization_id")
	if organizationID == "" {
		return utils.SendError(c, fiber.StatusBadRequest, "organization_id is required")
	}

	admins, err := h.service.List(c.Context(), organizationID)
	if err != nil {
		requestLogger(h.logger, c).Error().Err(err).Msg("failed to list admins")
		return utils.SendError(c, fiber.StatusInternalServerError, "failed to list admins")
	}

	return utils.SendSuccess(c, "admins retrieved", admins)
}

func (h *AdminHandler) changeRole(c *fiber.Ctx) error {
	var payload dto.ChangeRoleRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid payload")
	}

	if err := h.service.ChangeRole(c.Context(), payload); err != nil {
		switch {
		case isValidationError(err), errors.Is(err, service.ErrInvalidRole):
			return utils.SendError(c, fiber.StatusBadRequest, err.Error())
		case errors.Is(err, service.ErrNotSuperAdmin), errors.Is(err, service.ErrSelfAction):
			return utils.SendError(c, fiber.StatusForbidden, err.Error())
		case errors.Is(err, service.ErrAdminNotFound):
			return utils.SendError(c, fiber.StatusNotFound, err.Error())
		default:
			requestLogger(h.logger, c).Error().Err(err).Msg("failed to change role")
			return utils.SendError(c, fiber.StatusInternalServerError, "failed to change role")
		}
	}

	return utils.SendSuccess(c, "role updated", nil)
}

func (h *AdminHandler) remove(c *fiber.Ctx) error {
	var payload dto.RemoveRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid payload")
	}

	if err := h.service.Remove(c.Context(), payload); err != nil {
		switch {
		case isValidationError(err):
			return utils.SendError(c, fiber.StatusBadRequest, err.Error())
		case errors.Is(err, service.ErrNotSuperAdmin),
			errors.Is(err, service.ErrSelfAction),
			errors.Is(err, service.ErrRemoveSuperAdmin):
			return utils.SendError(c, fiber.StatusForbidden, err.Error())
		case errors.Is(err, service.ErrAdminNotFound):
			return utils.SendError(c, fiber.StatusNotFound, err.Error())
		default:
			requestLogger(h.logger, c).Error().Err(err).Msg("failed to remove admin")
			return utils.SendError(c, fiber.StatusInternalServerError, "failed to remove admin")
		}
	}

	return utils.SendSuccess(c, "admin removed", nil)
}

func (h *AdminHandler) acceptInvite(c *fiber.Ctx) error {
	var payload dto.AcceptInviteRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid payload")
	}

	response, err := h.service.AcceptInvite(c.Context(), payload)
	if err != nil {
		switch {
		case isValidationError(err):
			return utils.SendError(c, fiber.StatusBadRequest, err.Error())
		case errors.Is(err, service.ErrInviteNotFound):
			return utils.SendError(c, fiber.StatusNotFound, err.Error())
		case errors.Is(err, service.ErrInviteExpired):
			return utils.SendError(c, fiber.StatusGone, err.Error())
		default:
			requestLogger(h.logger, c).Error().Err(err).Msg("failed to accept invite")
			return utils.SendError(c, fiber.StatusInternalServerError, "failed to accept invite")
		}
	}

	message := "invitation accepted"
	if response.AlreadyActive {
		message = "invitation already accepted"
	}
	return utils.SendSuccess(c, message, response)
}

func (h *AdminHandler) updateName(c *fiber.Ctx) error {
	var payload dto.UpdateNameRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid payload")
	}

	if err := h.service.UpdateDisplayName(c.Context(), payload); err != nil {
		switch {
		case isValidationError(err), errors.Is(err, service.ErrEmptyName):
			return utils.SendError(c, fiber.StatusBadRequest, err.Error())
		case errors.Is(err, service.ErrAdminNotFound):
			return utils.SendError(c, fiber.StatusNotFound, err.Error())
		default:
			requestLogger(h.logger, c).Error().Err(err).Msg("failed to update display name")
			return utils.SendError(c, fiber.StatusInternalServerError, "failed to update name")
		}
	}

	return utils.SendSuccess(c, "name updated", nil)
}
