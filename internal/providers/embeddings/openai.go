package embeddings

import (
	"context"
	"errors"

	openai "github.com/sashabaranov/go-openai"
)

// OpenAI embeds text through an OpenAI-compatible embeddings endpoint. The
// requested dimension is passed through so deployments can match an existing
// index column.
type OpenAI struct {
	cli   *openai.Client
	model string
	dim   int
}

func NewOpenAI(apiKey, baseURL, modelName string, dim int) *OpenAI {
	cfg := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		cfg.BaseURL = baseURL
	}
	if modelName == "" {
		modelName = string(openai.SmallEmbedding3)
	}
	if dim <= 0 {
		dim = 768
	}
	return &OpenAI{cli: openai.NewClientWithConfig(cfg), model: modelName, dim: dim}
}

func (o *OpenAI) Dimension() int { return o.dim }

func (o *OpenAI) Close() error { return nil }

func (o *OpenAI) Embed(ctx context.Context, text string) ([]float32, error) {
	resp, err := o.cli.CreateEmbeddings(ctx, openai.EmbeddingRequest{
		Model:      openai.EmbeddingModel(o.model),
		Input:      []string{text},
		Dimensions: o.dim,
	})
	if err != nil {
		return nil, err
	}
	if len(resp.Data) == 0 {
		return nil, errors.New("no embeddings returned")
	}
	return resp.Data[0].Embedding, nil
}
