package stt

import (
	"context"
	"fmt"
	"strings"

	openai "github.com/sashabaranov/go-openai"
)

// whisperModel talks to a whisper.cpp-compatible server over the OpenAI audio
// API. The server keeps the weights resident after the first request, so one
// client per model size behaves like a loaded local model.
type whisperModel struct {
	cli   *openai.Client
	model string
}

// WhisperLoader returns a Loader backed by an OpenAI-compatible transcription
// endpoint. baseURL points at the local whisper server (or the hosted API);
// the model name is derived from the requested size.
func WhisperLoader(baseURL, apiKey string) Loader {
	return func(ctx context.Context, size ModelSize) (Model, error) {
		cfg := openai.DefaultConfig(apiKey)
		if baseURL != "" {
			cfg.BaseURL = baseURL
		}
		cli := openai.NewClientWithConfig(cfg)

		m := &whisperModel{cli: cli, model: "whisper-" + string(size)}

		// Warm the model: the server loads weights on first use, and we want
		// that cost paid once here rather than on a user request.
		if _, err := cli.ListModels(ctx); err != nil {
			return nil, fmt.Errorf("whisper backend unreachable: %w", err)
		}
		return m, nil
	}
}

func (w *whisperModel) Transcribe(ctx context.Context, wavPath string) ([]Segment, error) {
	resp, err := w.cli.CreateTranscription(ctx, openai.AudioRequest{
		Model:    w.model,
		FilePath: wavPath,
		Format:   openai.AudioResponseFormatVerboseJSON,
	})
	if err != nil {
		return nil, err
	}

	if len(resp.Segments) > 0 {
		segs := make([]Segment, 0, len(resp.Segments))
		for _, s := range resp.Segments {
			segs = append(segs, Segment{Start: s.Start, End: s.End, Text: s.Text})
		}
		return segs, nil
	}

	text := strings.TrimSpace(resp.Text)
	if text == "" {
		return nil, nil
	}
	return []Segment{{Start: 0, End: resp.Duration, Text: text}}, nil
}
