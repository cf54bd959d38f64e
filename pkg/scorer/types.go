package scorer

import "context"

// Model selection values accepted by the evaluation endpoint.
const (
	KindEmbedding = "sbert"
	KindLLM       = "gemini"
)

// Scorer computes a semantic similarity for a pair of texts. Implementations
// return a value in [0,1] for this service's model distribution.
type Scorer interface {
	Score(ctx context.Context, reference, answer string) (float64, error)
	Name() string
}

// Embedder encodes a text into a fixed-dimension vector.
type Embedder interface {
	Embed(ctx context.Context, text string) ([]float32, error)
}

// TextGenerator runs a plain text prompt against a generative model.
type TextGenerator interface {
	GenerateText(ctx context.Context, prompt string) (string, error)
}
