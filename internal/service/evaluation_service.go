package service

import (
	"context"
	"encoding/json"
	"errors"
	"math"
	"time"

	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/answerly/answerly-api/internal/dto"
	"github.com/answerly/answerly-api/internal/observability"
	"github.com/answerly/answerly-api/pkg/scorer"
)

// EvaluationSubject is the NATS subject completed evaluations are published on.
const EvaluationSubject = "answerly.evaluations"

var (
	// ErrInvalidSelection indicates the requested scorer is unknown.
	ErrInvalidSelection = errors.New("unknown scorer selection")
	// ErrNoTextFound indicates a document yielded no extractable text.
	ErrNoTextFound = errors.New("no text found in document")
)

// Document is one uploaded file in an evaluation request.
type Document struct {
	Filename string
	Data     []byte
}

// EvaluationService grades an answer document against a reference document.
type EvaluationService interface {
	Evaluate(ctx context.Context, reference, answer Document, scorerKind string) (dto.EvaluationResponse, error)
}

// EventPublisher is the slice of the NATS connection the orchestrator uses.
type EventPublisher interface {
	Publish(subject string, data []byte) error
}

type evaluationService struct {
	extractor ExtractionService
	scorers   map[string]scorer.Scorer
	events    EventPublisher
	logger    zerolog.Logger
	tracer    trace.Tracer
	now       func() time.Time
}

type evaluationEvent struct {
	ReferenceFile   string    `json:"reference_file"`
	AnswerFile      string    `json:"answer_file"`
	SimilarityScore float64   `json:"similarity_score"`
	MarksObtained   float64   `json:"marks_obtained"`
	ModelUsed       string    `json:"model_used"`
	EvaluatedAt     time.Time `json:"evaluated_at"`
}

// NewEvaluationService constructs the evaluation orchestrator. The event
// publisher may be nil; completion events are then skipped.
func NewEvaluationService(extractor ExtractionService, scorers []scorer.Scorer, events EventPublisher, logger zerolog.Logger) EvaluationService {
	registry := make(map[string]scorer.Scorer, len(scorers))
	for _, s := range scorers {
		registry[s.Name()] = s
	}

	return &evaluationService{
		extractor: extractor,
		scorers:   registry,
		events:    events,
		logger:    logger.With().Str("component", "evaluation_service").Logger(),
		tracer:    otel.Tracer("github.com/answerly/answerly-api/internal/service/evaluation"),
		now:       time.Now,
	}
}

// Evaluate runs the linear pipeline: validate selection, extract both
// documents, score, convert to marks. Any failure is terminal for the
// request; no step is retried.
func (s *evaluationService) Evaluate(ctx context.Context, reference, answer Document, scorerKind string) (dto.EvaluationResponse, error) {
	ctx, span := s.tracer.Start(ctx, "evaluation.evaluate", trace.WithAttributes(
		attribute.String("evaluation.model", scorerKind),
	))
	defer span.End()

	selected, ok := s.scorers[scorerKind]
	if !ok {
		observability.EvaluationRequests().WithLabelValues(scorerKind, "invalid_selection").Inc()
		span.RecordError(ErrInvalidSelection)
		span.SetStatus(codes.Error, "invalid selection")
		return dto.EvaluationResponse{}, ErrInvalidSelection
	}

	referenceText, err := s.extractor.Extract(ctx, reference.Data, reference.Filename)
	if err != nil {
		observability.EvaluationRequests().WithLabelValues(scorerKind, "extraction_failed").Inc()
		span.RecordError(err)
		span.SetStatus(codes.Error, "reference extraction failed")
		return dto.EvaluationResponse{}, err
	}

	answerText, err := s.extractor.Extract(ctx, answer.Data, answer.Filename)
	if err != nil {
		observability.EvaluationRequests().WithLabelValues(scorerKind, "extraction_failed").Inc()
		span.RecordError(err)
		span.SetStatus(codes.Error, "answer extraction failed")
		return dto.EvaluationResponse{}, err
	}

	if referenceText == "" || answerText == "" {
		observability.EvaluationRequests().WithLabelValues(scorerKind, "no_text").Inc()
		span.RecordError(ErrNoTextFound)
		span.SetStatus(codes.Error, "no text found")
		return dto.EvaluationResponse{}, ErrNoTextFound
	}

	similarity, err := selected.Score(ctx, referenceText, answerText)
	if err != nil {
		observability.EvaluationRequests().WithLabelValues(scorerKind, "scoring_failed").Inc()
		span.RecordError(err)
		span.SetStatus(codes.Error, "scoring failed")
		return dto.EvaluationResponse{}, err
	}

	result := dto.EvaluationResponse{
		ReferenceText:   referenceText,
		AnswerText:      answerText,
		SimilarityScore: similarity,
		MarksObtained:   marksFromSimilarity(similarity),
		ModelUsed:       scorerKind,
	}

	observability.EvaluationRequests().WithLabelValues(scorerKind, "ok").Inc()
	span.SetAttributes(
		attribute.Float64("evaluation.similarity", result.SimilarityScore),
		attribute.Float64("evaluation.marks", result.MarksObtained),
	)

	s.publishCompletion(reference.Filename, answer.Filename, result)

	return result, nil
}

// marksFromSimilarity converts a [0,1] similarity into a 0-100 mark rounded
// to two decimals.
func marksFromSimilarity(similarity float64) float64 {
	return math.Round(similarity*100*100) / 100
}

func (s *evaluationService) publishCompletion(referenceFile, answerFile string, result dto.EvaluationResponse) {
	if s.events == nil {
		return
	}

	event := evaluationEvent{
		ReferenceFile:   referenceFile,
		AnswerFile:      answerFile,
		SimilarityScore: result.SimilarityScore,
		MarksObtained:   result.MarksObtained,
		ModelUsed:       result.ModelUsed,
		EvaluatedAt:     s.now().UTC(),
	}

	payload, err := json.Marshal(event)
	if err != nil {
		s.logger.Warn().Err(err).Msg("failed to encode evaluation event")
		return
	}

	if err := s.events.Publish(EvaluationSubject, payload); err != nil {
		s.logger.Warn().Err(err).Msg("failed to publish evaluation event")
	}
}
