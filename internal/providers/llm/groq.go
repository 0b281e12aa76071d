package llm

import (
	"context"
	"errors"
	"io"
	"strings"

	openai "github.com/sashabaranov/go-openai"
)

const groqBaseURL = "https://api.groq.com/openai/v1"

// Groq is the second chat backend, reached through Groq's OpenAI-compatible
// API.
type Groq struct {
	cli         *openai.Client
	model       string
	temperature float32
}

func NewGroq(apiKey, modelName string, temperature float32) *Groq {
	cfg := openai.DefaultConfig(apiKey)
	cfg.BaseURL = groqBaseURL

	if modelName == "" {
		modelName = "qwen/qwen3-32b"
	}
	return &Groq{
		cli:         openai.NewClientWithConfig(cfg),
		model:       modelName,
		temperature: temperature,
	}
}

func (g *Groq) Name() string { return "groq" }

func (g *Groq) Close() error { return nil }

func (g *Groq) Complete(ctx context.Context, prompt string) (string, error) {
	return g.complete(ctx, prompt, nil)
}

func (g *Groq) CompleteJSON(ctx context.Context, prompt string) (string, error) {
	return g.complete(ctx, prompt, &openai.ChatCompletionResponseFormat{
		Type: openai.ChatCompletionResponseFormatTypeJSONObject,
	})
}

func (g *Groq) complete(ctx context.Context, prompt string, format *openai.ChatCompletionResponseFormat) (string, error) {
	resp, err := g.cli.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:          g.model,
		Temperature:    g.temperature,
		ResponseFormat: format,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
	})
	if err != nil {
		return "", err
	}
	if len(resp.Choices) == 0 {
		return "", errors.New("empty model response")
	}
	out := strings.TrimSpace(resp.Choices[0].Message.Content)
	if out == "" {
		return "", errors.New("empty model response")
	}
	return out, nil
}

func (g *Groq) Stream(ctx context.Context, prompt string) (<-chan string, <-chan error) {
	out := make(chan string, 32)
	errs := make(chan error, 1)

	go func() {
		defer close(out)
		defer close(errs)

		stream, err := g.cli.CreateChatCompletionStream(ctx, openai.ChatCompletionRequest{
			Model:       g.model,
			Temperature: g.temperature,
			Messages: []openai.ChatCompletionMessage{
				{Role: openai.ChatMessageRoleUser, Content: prompt},
			},
		})
		if err != nil {
			errs <- err
			return
		}
		defer stream.Close()

		for {
			resp, err := stream.Recv()
			if errors.Is(err, io.EOF) {
				return
			}
			if err != nil {
				errs <- err
				return
			}
			for _, c := range resp.Choices {
				if c.Delta.Content == "" {
					continue
				}
				if !emit(ctx, out, c.Delta.Content) {
					return
				}
			}
		}
	}()

	return out, errs
}
