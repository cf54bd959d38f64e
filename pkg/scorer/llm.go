package scorer

import (
	"context"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

var decimalPattern = regexp.MustCompile(`[-+]?\d*\.?\d+`)

// LLMScorer delegates similarity judgement to a generative model. Call and
// parse failures degrade to a score of 0.0 instead of propagating: transient
// upstream faults surface as "completely dissimilar". This matches the
// established grading behavior and is logged at warn level when it happens.
type LLMScorer struct {
	generator TextGenerator
	tracer    trace.Tracer
	logger    zerolog.Logger
}

// NewLLMScorer builds a generative-model-backed scorer.
func NewLLMScorer(generator TextGenerator, logger zerolog.Logger) *LLMScorer {
	return &LLMScorer{
		generator: generator,
		tracer:    otel.Tracer("github.com/answerly/answerly-api/pkg/scorer/llm"),
		logger:    logger.With().Str("component", "llm_scorer").Logger(),
	}
}

// Name reports the model selection value this scorer answers to.
func (s *LLMScorer) Name() string {
	return KindLLM
}

// Score prompts the model for a single decimal and clamps the reply into
// [0,1]. It never returns an error.
func (s *LLMScorer) Score(parent context.Context, reference, answer string) (float64, error) {
	ctx, span := s.tracer.Start(parent, "scorer.llm", trace.WithAttributes(
		attribute.String("model", KindLLM),
	))
	defer span.End()

	start := time.Now()
	defer func() {
		scoreDuration.WithLabelValues(KindLLM).Observe(time.Since(start).Seconds())
	}()

	reply, err := s.generator.GenerateText(ctx, buildSimilarityPrompt(reference, answer))
	if err != nil {
		scoreFailures.WithLabelValues(KindLLM).Inc()
		span.RecordError(err)
		s.logger.Warn().Err(err).Msg("llm call failed, defaulting similarity to 0")
		return 0, nil
	}

	similarity, ok := parseSimilarity(reply)
	if !ok {
		scoreFailures.WithLabelValues(KindLLM).Inc()
		s.logger.Warn().Str("reply", truncate(reply, 120)).Msg("llm reply was not numeric, defaulting similarity to 0")
		return 0, nil
	}

	span.SetAttributes(attribute.Float64("scorer.similarity", similarity))
	return similarity, nil
}

func buildSimilarityPrompt(reference, answer string) string {
	builder := strings.Builder{}
	builder.WriteString("You are grading a student answer against a reference answer.\n")
	builder.WriteString("Rate the semantic similarity of the two texts as a single decimal number between 0 and 1.\n")
	builder.WriteString("Reply with the number only.\n\n")
	builder.WriteString("Reference answer:\n")
	builder.WriteString(reference)
	builder.WriteString("\n\nStudent answer:\n")
	builder.WriteString(answer)
	return builder.String()
}

func parseSimilarity(reply string) (float64, bool) {
	match := decimalPattern.FindString(strings.TrimSpace(reply))
	if match == "" {
		return 0, false
	}

	value, err := strconv.ParseFloat(match, 64)
	if err != nil {
		return 0, false
	}

	if value < 0 {
		value = 0
	}
	if value > 1 {
		value = 1
	}

	return value, true
}

func truncate(s string, limit int) string {
	if len(s) <= limit {
		return s
	}
	return s[:limit]
}
