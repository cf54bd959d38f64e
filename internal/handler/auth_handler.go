package handler

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/answerly/answerly-api/internal/dto"
	"github.com/answerly/answerly-api/internal/service"
	"github.com/answerly/answerly-api/internal/utils"
)

// AuthHandler exposes registration and login.
type AuthHandler struct {
	service service.AccountService
	logger  zerolog.Logger
}

// NewAuthHandler constructs an auth handler.
func NewAuthHandler(service service.AccountService, logger zerolog.Logger) *AuthHandler {
	return &AuthHandler{
		service: service,
		logger:  logger.With().Str("component", "auth_handler").Logger(),
	}
}

// Register wires auth routes.
func (h *AuthHandler) Register(router fiber.Router) {
	router.Post("/register", h.register)
	router.Post("/login", h.login)
}

func (h *AuthHandler) register(c *fiber.Ctx) error {
	var payload dto.RegisterRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid request body")
	}

	user, err := h.service.Register(c.UserContext(), payload)
	if err != nil {
		switch {
		case isValidationError(err):
			return utils.SendError(c, fiber.StatusBadRequest, err.Error())
		case errors.Is(err, service.ErrDuplicateAccount):
			return utils.SendError(c, fiber.StatusConflict, err.Error())
		default:
			requestLogger(h.logger, c).Error().Err(err).Msg("registration failed")
			return utils.SendError(c, fiber.StatusInternalServerError, "registration failed")
		}
	}

	return utils.SendSuccessWithStatus(c, fiber.StatusCreated, "user registered successfully", user)
}

func (h *AuthHandler) login(c *fiber.Ctx) error {
	var payload dto.LoginRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid request body")
	}

	result, err := h.service.Login(c.UserContext(), payload)
	if err != nil {
		switch {
		case isValidationError(err):
			return utils.SendError(c, fiber.StatusBadRequest, err.Error())
		case errors.Is(err, service.ErrInvalidCredentials):
			return utils.SendError(c, fiber.StatusUnauthorized, err.Error())
		default:
			requestLogger(h.logger, c).Error().Err(err).Msg("login failed")
			return utils.SendError(c, fiber.StatusInternalServerError, "login failed")
		}
	}

	return utils.SendSuccess(c, "login successful", result)
}
