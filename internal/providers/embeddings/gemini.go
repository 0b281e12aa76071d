package embeddings

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"
)

const geminiEmbeddingDim = 768

// Gemini embeds text with Google's text-embedding-004 (768 dimensions).
type Gemini struct {
	client *genai.Client
	model  *genai.EmbeddingModel
}

func NewGemini(ctx context.Context, apiKey, modelName string) (*Gemini, error) {
	if apiKey == "" {
		return nil, errors.New("missing API key for embeddings")
	}
	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, err
	}
	if modelName == "" {
		modelName = "text-embedding-004"
	}
	return &Gemini{client: client, model: client.EmbeddingModel(modelName)}, nil
}

func (g *Gemini) Dimension() int { return geminiEmbeddingDim }

func (g *Gemini) Close() error { return g.client.Close() }

func (g *Gemini) Embed(ctx context.Context, text string) ([]float32, error) {
	resp, err := g.model.EmbedContent(ctx, genai.Text(text))
	if err != nil {
		return nil, err
	}
	if resp.Embedding == nil || len(resp.Embedding.Values) == 0 {
		return nil, errors.New("no embedding returned")
	}
	if len(resp.Embedding.Values) != geminiEmbeddingDim {
		return nil, fmt.Errorf("unexpected embedding dimension %d", len(resp.Embedding.Values))
	}
	return resp.Embedding.Values, nil
}
