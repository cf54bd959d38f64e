package scorer

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// EmbeddingScorer scores text pairs by encoding each side with a sentence
// embedding model and taking the cosine similarity of the two vectors. The
// embedder is constructed once at startup and shared read-only across
// requests. The raw cosine value is returned without clamping; the model's
// output distribution keeps it effectively within [0,1].
type EmbeddingScorer struct {
	embedder Embedder
	tracer   trace.Tracer
	logger   zerolog.Logger
}

// NewEmbeddingScorer builds an embedding-based scorer.
func NewEmbeddingScorer(embedder Embedder, logger zerolog.Logger) *EmbeddingScorer {
	return &EmbeddingScorer{
		embedder: embedder,
		tracer:   otel.Tracer("github.com/answerly/answerly-api/pkg/scorer/embedding"),
		logger:   logger.With().Str("component", "embedding_scorer").Logger(),
	}
}

// Name reports the model selection value this scorer answers to.
func (s *EmbeddingScorer) Name() string {
	return KindEmbedding
}

// Score encodes both texts and returns their cosine similarity.
func (s *EmbeddingScorer) Score(parent context.Context, reference, answer string) (float64, error) {
	ctx, span := s.tracer.Start(parent, "scorer.embedding", trace.WithAttributes(
		attribute.String("model", KindEmbedding),
	))
	defer span.End()

	start := time.Now()
	defer func() {
		scoreDuration.WithLabelValues(KindEmbedding).Observe(time.Since(start).Seconds())
	}()

	referenceVec, err := s.embedder.Embed(ctx, reference)
	if err != nil {
		scoreFailures.WithLabelValues(KindEmbedding).Inc()
		span.RecordError(err)
		span.SetStatus(codes.Error, "reference encoding failed")
		return 0, fmt.Errorf("encode reference text: %w", err)
	}

	answerVec, err := s.embedder.Embed(ctx, answer)
	if err != nil {
		scoreFailures.WithLabelValues(KindEmbedding).Inc()
		span.RecordError(err)
		span.SetStatus(codes.Error, "answer encoding failed")
		return 0, fmt.Errorf("encode answer text: %w", err)
	}

	similarity, err := cosineSimilarity(referenceVec, answerVec)
	if err != nil {
		scoreFailures.WithLabelValues(KindEmbedding).Inc()
		span.RecordError(err)
		span.SetStatus(codes.Error, "cosine failed")
		return 0, err
	}

	span.SetAttributes(attribute.Float64("scorer.similarity", similarity))
	return similarity, nil
}

func cosineSimilarity(a, b []float32) (float64, error) {
	if len(a) == 0 || len(b) == 0 {
		return 0, fmt.Errorf("empty embedding vector")
	}
	if len(a) != len(b) {
		return 0, fmt.Errorf("embedding dimensions differ: %d vs %d", len(a), len(b))
	}

	var dot, normA, normB float64
	for i := range a {
		x := float64(a[i])
		y := float64(b[i])
		dot += x * y
		normA += x * x
		normB += y * y
	}

	if normA == 0 || normB == 0 {
		return 0, fmt.Errorf("zero-magnitude embedding vector")
	}

	return dot / (math.Sqrt(normA) * math.Sqrt(normB)), nil
}
