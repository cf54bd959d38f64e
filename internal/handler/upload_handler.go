package handler

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/answerly/answerly-api/internal/service"
	"github.com/answerly/answerly-api/internal/utils"
)

// UploadHandler exposes single-file OCR and the extraction history.
type UploadHandler struct {
	service service.UploadService
	logger  zerolog.Logger
}

// NewUploadHandler constructs an upload handler.
func NewUploadHandler(service service.UploadService, logger zerolog.Logger) *UploadHandler {
	return &UploadHandler{
		service: service,
		logger:  logger.With().Str("component", "upload_handler").Logger(),
	}
}

// Register wires the upload route; auth guards the history listing.
func (h *UploadHandler) Register(router fiber.Router, auth fiber.Handler) {
	router.Post("/", h.upload)
	if auth == nil {
		auth = func(c *fiber.Ctx) error { return c.Next() }
	}
	router.Get("/history", auth, h.history)
}

func (h *UploadHandler) upload(c *fiber.Ctx) error {
	file, err := c.FormFile("file")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "file is required")
	}

	result, err := h.service.Upload(c.UserContext(), file)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrUploadTooLarge):
			return utils.SendError(c, fiber.StatusRequestEntityTooLarge, err.Error())
		case errors.Is(err, service.ErrNoTextFound):
			return utils.SendError(c, fiber.StatusBadRequest, err.Error())
		case errors.Is(err, service.ErrExtractionFailed):
			return utils.SendError(c, fiber.StatusUnprocessableEntity, err.Error())
		default:
			requestLogger(h.logger, c).Error().Err(err).Msg("upload extraction failed")
			return utils.SendError(c, fiber.StatusInternalServerError, "upload failed")
		}
	}

	return utils.SendSuccess(c, "OCR completed", result)
}

func (h *UploadHandler) history(c *fiber.Ctx) error {
	entries, err := h.service.History(c.UserContext())
	if err != nil {
		requestLogger(h.logger, c).Error().Err(err).Str("account_id", accountIDFromContext(c)).Msg("history listing failed")
		return utils.SendError(c, fiber.StatusInternalServerError, "failed to list extraction history")
	}

	return utils.SendSuccess(c, "extraction history retrieved", entries)
}
