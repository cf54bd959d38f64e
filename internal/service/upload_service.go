package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"path/filepath"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/answerly/answerly-api/internal/dto"
	"github.com/answerly/answerly-api/internal/models"
	"github.com/answerly/answerly-api/internal/repository"
)

// ErrUploadTooLarge indicates the payload exceeded the configured limit.
var ErrUploadTooLarge = errors.New("file exceeds maximum allowed size")

// UploadService runs OCR over a single uploaded file and records the result.
type UploadService interface {
	Upload(ctx context.Context, file *multipart.FileHeader) (dto.UploadResponse, error)
	History(ctx context.Context) ([]dto.ExtractionHistoryEntry, error)
}

type uploadService struct {
	extractor ExtractionService
	history   repository.ExtractionRepository
	logger    zerolog.Logger
	maxSize   int64
	tracer    trace.Tracer
	now       func() time.Time
}

// NewUploadService constructs an upload service. The history repository may
// be nil; extraction results are then returned without being recorded.
func NewUploadService(extractor ExtractionService, history repository.ExtractionRepository, maxSizeMB int, logger zerolog.Logger) UploadService {
	if maxSizeMB <= 0 {
		maxSizeMB = 10
	}
	return &uploadService{
		extractor: extractor,
		history:   history,
		logger:    logger.With().Str("component", "upload_service").Logger(),
		maxSize:   int64(maxSizeMB) * 1024 * 1024,
		tracer:    otel.Tracer("github.com/answerly/answerly-api/internal/service/upload"),
		now:       time.Now,
	}
}

func (s *uploadService) Upload(ctx context.Context, file *multipart.FileHeader) (dto.UploadResponse, error) {
	ctx, span := s.tracer.Start(ctx, "upload.extract")
	defer span.End()

	if file == nil {
		err := errors.New("file is required")
		span.RecordError(err)
		span.SetStatus(codes.Error, "validation failed")
		return dto.UploadResponse{}, err
	}

	span.SetAttributes(
		attribute.String("upload.original_name", strings.TrimSpace(file.Filename)),
		attribute.Int64("upload.request_size", file.Size),
	)

	if file.Size > s.maxSize {
		span.RecordError(ErrUploadTooLarge)
		span.SetStatus(codes.Error, "payload too large")
		return dto.UploadResponse{}, ErrUploadTooLarge
	}

	handle, err := file.Open()
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "open failed")
		return dto.UploadResponse{}, err
	}
	defer handle.Close()

	buf := bytes.NewBuffer(nil)
	if _, err := io.Copy(buf, io.LimitReader(handle, s.maxSize+1)); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "read failed")
		return dto.UploadResponse{}, err
	}
	if int64(buf.Len()) > s.maxSize {
		span.RecordError(ErrUploadTooLarge)
		span.SetStatus(codes.Error, "payload too large")
		return dto.UploadResponse{}, ErrUploadTooLarge
	}

	sanitizedName := sanitizeFileName(file.Filename)

	text, err := s.extractor.Extract(ctx, buf.Bytes(), sanitizedName)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "extraction failed")
		return dto.UploadResponse{}, err
	}

	if text == "" {
		span.RecordError(ErrNoTextFound)
		span.SetStatus(codes.Error, "no text found")
		return dto.UploadResponse{}, ErrNoTextFound
	}

	s.record(ctx, sanitizedName, text)

	span.SetStatus(codes.Ok, "extracted")
	return dto.UploadResponse{
		FileName:      sanitizedName,
		ExtractedText: text,
	}, nil
}

func (s *uploadService) History(ctx context.Context) ([]dto.ExtractionHistoryEntry, error) {
	if s.history == nil {
		return []dto.ExtractionHistoryEntry{}, nil
	}

	records, err := s.history.List(ctx)
	if err != nil {
		return nil, err
	}

	entries := make([]dto.ExtractionHistoryEntry, 0, len(records))
	for _, record := range records {
		entries = append(entries, dto.ExtractionHistoryEntry{
			ID:        record.ID,
			Text:      record.Text,
			Timestamp: record.Timestamp,
		})
	}

	return entries, nil
}

// record persists the audit row. Failures are logged, not surfaced: the
// extraction already succeeded from the caller's point of view.
func (s *uploadService) record(ctx context.Context, filename, text string) {
	if s.history == nil {
		return
	}

	entry := models.ExtractedRecord{
		ID:        filename,
		Text:      text,
		Timestamp: s.now().UTC(),
	}
	if err := s.history.Save(ctx, entry); err != nil {
		s.logger.Warn().Err(err).Str("filename", filename).Msg("failed to persist extraction record")
	}
}

func sanitizeFileName(name string) string {
	base := strings.TrimSuffix(name, filepath.Ext(name))
	base = strings.ToLower(base)
	base = strings.Map(func(r rune) rune {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			return r
		}
		if r == '-' || r == '_' {
			return r
		}
		return '-'
	}, base)
	base = strings.Trim(base, "-")
	if base == "" {
		base = fmt.Sprintf("upload-%d", time.Now().Unix())
	}
	ext := strings.ToLower(filepath.Ext(name))
	if ext == "" {
		ext = ".bin"
	}
	return base + ext
}
