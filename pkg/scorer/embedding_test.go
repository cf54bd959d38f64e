package scorer

import (
	"context"
	"errors"
	"io"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
)

type embedderStub struct {
	vectors map[string][]float32
	err     error
}

func (e *embedderStub) Embed(_ context.Context, text string) ([]float32, error) {
	if e.err != nil {
		return nil, e.err
	}
	return e.vectors[text], nil
}

func testLogger() zerolog.Logger {
	return zerolog.New(io.Discard)
}

func TestEmbeddingScorerIdenticalText(t *testing.T) {
	embedder := &embedderStub{vectors: map[string][]float32{
		"the cat sat on the mat": {0.12, 0.48, 0.31, 0.07},
	}}
	s := NewEmbeddingScorer(embedder, testLogger())

	score, err := s.Score(context.Background(), "the cat sat on the mat", "the cat sat on the mat")
	require.NoError(t, err)
	require.InDelta(t, 1.0, score, 1e-9)
}

func TestEmbeddingScorerOrthogonalVectors(t *testing.T) {
	embedder := &embedderStub{vectors: map[string][]float32{
		"a": {1, 0},
		"b": {0, 1},
	}}
	s := NewEmbeddingScorer(embedder, testLogger())

	score, err := s.Score(context.Background(), "a", "b")
	require.NoError(t, err)
	require.InDelta(t, 0.0, score, 1e-9)
}

func TestEmbeddingScorerOppositeVectorsNotClamped(t *testing.T) {
	embedder := &embedderStub{vectors: map[string][]float32{
		"a": {1, 0},
		"b": {-1, 0},
	}}
	s := NewEmbeddingScorer(embedder, testLogger())

	// The embedding path returns the raw cosine value, negatives included.
	score, err := s.Score(context.Background(), "a", "b")
	require.NoError(t, err)
	require.InDelta(t, -1.0, score, 1e-9)
}

func TestEmbeddingScorerDimensionMismatch(t *testing.T) {
	embedder := &embedderStub{vectors: map[string][]float32{
		"a": {1, 0, 0},
		"b": {0, 1},
	}}
	s := NewEmbeddingScorer(embedder, testLogger())

	_, err := s.Score(context.Background(), "a", "b")
	require.Error(t, err)
}

func TestEmbeddingScorerPropagatesEmbedderFailure(t *testing.T) {
	embedder := &embedderStub{err: errors.New("encode failed")}
	s := NewEmbeddingScorer(embedder, testLogger())

	_, err := s.Score(context.Background(), "a", "b")
	require.Error(t, err)
}

func TestEmbeddingScorerEmptyVector(t *testing.T) {
	embedder := &embedderStub{vectors: map[string][]float32{}}
	s := NewEmbeddingScorer(embedder, testLogger())

	_, err := s.Score(context.Background(), "a", "b")
	require.Error(t, err)
}

func TestCosineSimilarityKnownAngle(t *testing.T) {
	// 45 degrees between (1,0) and (1,1).
	score, err := cosineSimilarity([]float32{1, 0}, []float32{1, 1})
	require.NoError(t, err)
	require.InDelta(t, 0.70710678, score, 1e-6)
}
