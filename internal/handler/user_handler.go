package handler

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/answerly/answerly-api/internal/dto"
	"github.com/answerly/answerly-api/internal/service"
	"github.com/answerly/answerly-api/internal/utils"
)

// UserHandler exposes account updates and the student roster.
type UserHandler struct {
	service service.AccountService
	logger  zerolog.Logger
}

// NewUserHandler constructs a user handler.
func NewUserHandler(service service.AccountService, logger zerolog.Logger) *UserHandler {
	return &UserHandler{
		service: service,
		logger:  logger.With().Str("component", "user_handler").Logger(),
	}
}

// Register wires user management routes.
func (h *UserHandler) Register(router fiber.Router) {
	router.Put("/users/:id", h.update)
	router.Get("/students", h.listStudents)
}

func (h *UserHandler) update(c *fiber.Ctx) error {
	id := c.Params("id")
	if id == "" {
		return utils.SendError(c, fiber.StatusBadRequest, "user id is required")
	}

	var payload dto.UpdateAccountRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid request body")
	}

	user, err := h.service.Update(c.UserContext(), id, payload)
	if err != nil {
		switch {
		case isValidationError(err):
			return utils.SendError(c, fiber.StatusBadRequest, err.Error())
		case errors.Is(err, service.ErrAccountNotFound):
			return utils.SendError(c, fiber.StatusNotFound, err.Error())
		default:
			requestLogger(h.logger, c).Error().Err(err).Str("user_id", id).Msg("user update failed")
			return utils.SendError(c, fiber.StatusInternalServerError, "user update failed")
		}
	}

	return utils.SendSuccess(c, "user updated successfully", user)
}

func (h *UserHandler) listStudents(c *fiber.Ctx) error {
	students, err := h.service.ListStudents(c.UserContext())
	if err != nil {
		requestLogger(h.logger, c).Error().Err(err).Msg("student listing failed")
		return utils.SendError(c, fiber.StatusInternalServerError, "failed to list students")
	}

	return utils.SendSuccess(c, "students retrieved", students)
}
