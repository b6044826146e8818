package handler

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/transify-app/transify-api/internal/dto"
	"github.com/transify-app/transify-api/internal/service"
	"github.com/transify-app/transify-api/internal/utils"
)

// AuthHandler exposes the OTP login endpoints.
type AuthHandler struct {
	service service.AuthService
	logger  zerolog.Logger
}

// NewAuthHandler constructs the handler.
func NewAuthHandler(service service.AuthService, logger zerolog.Logger) *AuthHandler {
	return &AuthHandler{
		service: service,
		logger:  logger.With().Str("component", "auth_handler").Logger(),
	}
}

// Register attaches routes. The rate limiter on send-otp is applied by the
// router so tests can exercise the handler without it.
func (h *AuthHandler) Register(router fiber.Router, limiter ...fiber.Handler) {
	sendOtp := []fiber.Handler{h.sendOtp}
	router.Post("/send-otp", append(limiter, sendOtp...)...)
	router.Post("/verify-otp", h.verifyOtp)
}

func (h *AuthHandler) sendOtp(c *fiber.Ctx) error {
	var payload dto.SendOtpRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid payload")
	}

	if err := h.service.SendOtp(c.Context(), payload); err != nil {
		switch {
		case isValidationError(err):
			return utils.SendError(c, fiber.StatusBadRequest, err.Error())
		case errors.Is(err, service.ErrNotAuthorized), errors.Is(err, service.ErrAccountDisabled):
			return utils.SendError(c, fiber.StatusForbidden, err.Error())
		default:
			requestLogger(h.logger, c).Error().Err(err).Msg("failed to send verification code")
			return utils.SendError(c, fiber.StatusInternalServerError, "failed to send verification code")
		}
	}

	return utils.SendSuccess(c, "verification code sent", nil)
}

func (h *AuthHandler) verifyOtp(c *fiber.Ctx) error {
	var payload dto.VerifyOtpRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid payload")
	}

	response, err := h.service.VerifyOtp(c.Context(), payload)
	if err != nil {
		switch {
		case isValidationError(err),
			errors.Is(err, service.ErrOtpNotFound),
			errors.Is(err, service.ErrOtpUsed),
			errors.Is(err, service.ErrOtpExpired),
			errors.Is(err, service.ErrOtpMismatch),
			errors.Is(err, service.ErrOtpOrgMismatch):
			return utils.SendError(c, fiber.StatusBadRequest, err.Error())
		case errors.Is(err, service.ErrAccountDisabled):
			return utils.SendError(c, fiber.StatusForbidden, err.Error())
		case errors.Is(err, service.ErrAdminNotFound):
			return utils.SendError(c, fiber.StatusNotFound, err.Error())
		default:
			requestLogger(h.logger, c).Error().Err(err).Msg("failed to verify code")
			return utils.SendError(c, fiber.StatusInternalServerError, "failed to verify code")
		}
	}

	return utils.SendSuccess(c, "login successful", response)
}
