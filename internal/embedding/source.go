// Package embedding turns images into fixed-length identity vectors.
//
// The face model is a black box behind Source. Two implementations ship: a
// local pixel-grid embedder used in development and tests, and a client for an
// external embedding server.
package embedding

import (
	"context"
	"fmt"

	"github.com/hey-granth/profile-guard/internal/config"
)

// Source maps raw image bytes to a vector, or reports failure for corrupt
// images and model errors.
type Source interface {
	Embed(ctx context.Context, image []byte) ([]float32, error)
}

// SourceFunc adapts a function to Source.
type SourceFunc func(ctx context.Context, image []byte) ([]float32, error)

func (f SourceFunc) Embed(ctx context.Context, image []byte) ([]float32, error) {
	return f(ctx, image)
}

// New builds the Source selected by EMBEDDING_BACKEND.
func New(cfg *config.Config) (Source, error) {
	switch cfg.Embedding.Backend {
	case "", "pixel":
		return NewPixelSource(cfg.Policy.EmbeddingDim), nil
	case "http":
		return NewHTTPSource(cfg.Embedding.URL, cfg.Policy.EmbeddingDim), nil
	default:
		return nil, fmt.Errorf("unknown embedding backend %q", cfg.Embedding.Backend)
	}
}
