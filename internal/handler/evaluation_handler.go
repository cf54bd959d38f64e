package handler

import (
	"errors"
	"io"
	"mime/multipart"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/answerly/answerly-api/internal/service"
	"github.com/answerly/answerly-api/internal/utils"
)

// EvaluationHandler exposes the answer grading endpoint.
type EvaluationHandler struct {
	service service.EvaluationService
	logger  zerolog.Logger
}

// NewEvaluationHandler constructs an evaluation handler.
func NewEvaluationHandler(service service.EvaluationService, logger zerolog.Logger) *EvaluationHandler {
	return &EvaluationHandler{
		service: service,
		logger:  logger.With().Str("component", "evaluation_handler").Logger(),
	}
}

// Register wires the evaluation route.
func (h *EvaluationHandler) Register(router fiber.Router) {
	router.Post("/", h.evaluate)
}

func (h *EvaluationHandler) evaluate(c *fiber.Ctx) error {
	referenceHeader, err := c.FormFile("reference_file")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "reference_file is required")
	}

	answerHeader, err := c.FormFile("answer_file")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "answer_file is required")
	}

	model := c.FormValue("model")
	if model == "" {
		return utils.SendError(c, fiber.StatusBadRequest, "model is required")
	}

	reference, err := readDocument(referenceHeader)
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "failed to read reference_file")
	}

	answer, err := readDocument(answerHeader)
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "failed to read answer_file")
	}

	result, err := h.service.Evaluate(c.UserContext(), reference, answer, model)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidSelection):
			return utils.SendError(c, fiber.StatusBadRequest, err.Error())
		case errors.Is(err, service.ErrNoTextFound):
			return utils.SendError(c, fiber.StatusBadRequest, err.Error())
		case errors.Is(err, service.ErrExtractionFailed):
			return utils.SendError(c, fiber.StatusUnprocessableEntity, err.Error())
		default:
			requestLogger(h.logger, c).Error().Err(err).Str("model", model).Msg("evaluation failed")
			return utils.SendError(c, fiber.StatusInternalServerError, "evaluation failed")
		}
	}

	return utils.SendSuccess(c, "evaluation completed", result)
}

func readDocument(header *multipart.FileHeader) (service.Document, error) {
	handle, err := header.Open()
	if err != nil {
		return service.Document{}, err
	}
	defer handle.Close()

	data, err := io.ReadAll(handle)
	if err != nil {
		return service.Document{}, err
	}

	return service.Document{
		Filename: header.Filename,
		Data:     data,
	}, nil
}
