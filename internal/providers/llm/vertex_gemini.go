package llm

import (
	"context"
	"errors"
	"strings"

	vertexgenai "cloud.google.com/go/vertexai/genai"
	"google.golang.org/api/iterator"
)

type VertexGemini struct {
	client    *vertexgenai.Client
	model     *vertexgenai.GenerativeModel
	jsonModel *vertexgenai.GenerativeModel
}

func NewVertexGemini(ctx context.Context, projectID, location, modelName string, temperature float32) (*VertexGemini, error) {
	c, err := vertexgenai.NewClient(ctx, projectID, location)
	if err != nil {
		return nil, err
	}

	if modelName == "" {
		modelName = "gemini-2.5-flash"
	}

	m := c.GenerativeModel(modelName)
	m.SetTemperature(temperature)

	// Separate handle for structured output: same model, JSON-constrained.
	jm := c.GenerativeModel(modelName)
	jm.SetTemperature(temperature)
	jm.GenerationConfig.ResponseMIMEType = "application/json"

	return &VertexGemini{client: c, model: m, jsonModel: jm}, nil
}

func (v *VertexGemini) Name() string { return "gemini" }

func (v *VertexGemini) Close() error { return v.client.Close() }

func (v *VertexGemini) Complete(ctx context.Context, prompt string) (string, error) {
	return generate(ctx, v.model, prompt)
}

func (v *VertexGemini) CompleteJSON(ctx context.Context, prompt string) (string, error) {
	return generate(ctx, v.jsonModel, prompt)
}

func generate(ctx context.Context, m *vertexgenai.GenerativeModel, prompt string) (string, error) {
	resp, err := m.GenerateContent(ctx, vertexgenai.Text(prompt))
	if err != nil {
		return "", err
	}

	var b strings.Builder
	for _, cand := range resp.Candidates {
		if cand.Content == nil {
			continue
		}
		for _, part := range cand.Content.Parts {
			if t, ok := part.(vertexgenai.Text); ok {
				b.WriteString(string(t))
			}
		}
	}
	out := strings.TrimSpace(b.String())
	if out == "" {
		return "", errors.New("empty model response")
	}
	return out, nil
}

func (v *VertexGemini) Stream(ctx context.Context, prompt string) (<-chan string, <-chan error) {
	out := make(chan string, 32)
	errs := make(chan error, 1)

	go func() {
		defer close(out)
		defer close(errs)

		it := v.model.GenerateContentStream(ctx, vertexgenai.Text(prompt))
		for {
			resp, err := it.Next()
			if err == iterator.Done {
				return
			}
			if err != nil {
				errs <- err
				return
			}

			for _, cand := range resp.Candidates {
				if cand.Content == nil {
					continue
				}
				for _, part := range cand.Content.Parts {
					t, ok := part.(vertexgenai.Text)
					if !ok || string(t) == "" {
						continue
					}
					if !emit(ctx, out, string(t)) {
						return
					}
				}
			}
		}
	}()

	return out, errs
}
