package embeddings

import "context"

// Provider maps text to a fixed-dimension vector. The dimension is fixed per
// deployment; the vector index refuses to run against a mismatched column.
type Provider interface {
	Embed(ctx context.Context, text string) ([]float32, error)
	Dimension() int
	Close() error
}
