package services

import (
	"context"
	"strings"

	"github.com/convoxai/convoxai/internal/chunker"
	"github.com/convoxai/convoxai/internal/utils"
)

// Indexer is the write side of the vector store; satisfied by
// vectorindex.Index.
type Indexer interface {
	Upsert(ctx context.Context, contents []string, metadata map[string]any) error
	Clear(ctx context.Context) error
}

type IngestService interface {
	// Ingest splits text into chunks, embeds them, and appends them to the
	// vector index. Returns the number of chunks stored.
	Ingest(ctx context.Context, text string, metadata map[string]any) (int, error)
	// Clear drops the entire index.
	Clear(ctx context.Context) error
}

type ingestService struct {
	splitter *chunker.Splitter
	index    Indexer
}

func NewIngestService(splitter *chunker.Splitter, index Indexer) IngestService {
	return &ingestService{splitter: splitter, index: index}
}

func (s *ingestService) Ingest(ctx context.Context, text string, metadata map[string]any) (int, error) {
	const op = "IngestService.Ingest"

	if strings.TrimSpace(text) == "" {
		return 0, utils.E(utils.CodeInvalidArgument, op, "text is required", nil)
	}

	chunks := s.splitter.Split(text)
	contents := make([]string, 0, len(chunks))
	for _, c := range chunks {
		contents = append(contents, c.Text)
	}
	if err := s.index.Upsert(ctx, contents, metadata); err != nil {
		return 0, err
	}
	return len(contents), nil
}

func (s *ingestService) Clear(ctx context.Context) error {
	return s.index.Clear(ctx)
}
