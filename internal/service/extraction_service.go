package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"github.com/ledongthuc/pdf"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/answerly/answerly-api/internal/observability"
)

// ErrExtractionFailed indicates the OCR service or PDF reader could not
// process the document.
var ErrExtractionFailed = errors.New("text extraction failed")

// TextRecognizer transcribes document bytes into plain text. An empty
// string with a nil error means the recognizer found no text.
type TextRecognizer interface {
	Recognize(ctx context.Context, data []byte, mimeType string) (string, error)
}

// ExtractionService turns raw document bytes into plain text. PDFs are read
// through their text layer; everything else goes to the OCR recognizer.
type ExtractionService interface {
	Extract(ctx context.Context, data []byte, filename string) (string, error)
}

type extractionService struct {
	recognizer TextRecognizer
	logger     zerolog.Logger
	tracer     trace.Tracer
}

// NewExtractionService constructs a text extraction service.
func NewExtractionService(recognizer TextRecognizer, logger zerolog.Logger) ExtractionService {
	return &extractionService{
		recognizer: recognizer,
		logger:     logger.With().Str("component", "extraction_service").Logger(),
		tracer:     otel.Tracer("github.com/answerly/answerly-api/internal/service/extraction"),
	}
}

// Extract returns the whitespace-trimmed text of the document. The content
// kind is detected from the bytes, not the filename. An empty result is not
// an error here; callers decide whether "no text" is fatal.
func (s *extractionService) Extract(ctx context.Context, data []byte, filename string) (string, error) {
	ctx, span := s.tracer.Start(ctx, "extraction.extract")
	defer span.End()

	if len(data) == 0 {
		err := fmt.Errorf("document is empty: %w", ErrExtractionFailed)
		span.RecordError(err)
		span.SetStatus(codes.Error, "empty document")
		return "", err
	}

	mime := mimetype.Detect(data)
	span.SetAttributes(
		attribute.String("extraction.filename", filename),
		attribute.String("extraction.mime", mime.String()),
		attribute.Int("extraction.size_bytes", len(data)),
	)

	var (
		text string
		err  error
		kind string
	)
	if mime.Is("application/pdf") {
		kind = "pdf"
		text, err = extractPDFText(data)
	} else {
		kind = "image"
		text, err = s.recognizer.Recognize(ctx, data, mime.String())
	}
	if err != nil {
		observability.ExtractionFailures().WithLabelValues(kind).Inc()
		span.RecordError(err)
		span.SetStatus(codes.Error, "extraction failed")
		s.logger.Error().Err(err).Str("filename", filename).Str("kind", kind).Msg("extraction failed")
		return "", fmt.Errorf("%w: %s", ErrExtractionFailed, err)
	}

	observability.ExtractionRequests().WithLabelValues(kind).Inc()

	return strings.TrimSpace(text), nil
}

// extractPDFText concatenates the extractable text of every page with
// newline separators. Pages without a text layer contribute nothing.
func extractPDFText(data []byte) (string, error) {
	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("open pdf: %w", err)
	}

	builder := strings.Builder{}
	for i := 1; i <= reader.NumPage(); i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}

		pageText, err := page.GetPlainText(nil)
		if err != nil {
			return "", fmt.Errorf("read pdf page %d: %w", i, err)
		}
		if strings.TrimSpace(pageText) == "" {
			continue
		}

		if builder.Len() > 0 {
			builder.WriteString("\n")
		}
		builder.WriteString(pageText)
	}

	return builder.String(), nil
}
