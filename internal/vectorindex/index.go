// Package vectorindex stores transcript chunks with pgvector embeddings and
// serves cosine similarity retrieval for the chat engine.
package vectorindex

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/pgvector/pgvector-go"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/convoxai/convoxai/internal/models"
	"github.com/convoxai/convoxai/internal/providers/embeddings"
	"github.com/convoxai/convoxai/internal/utils"
)

const DefaultTopK = 5

// ScoredChunk is a retrieval hit with its cosine similarity in [0, 1].
type ScoredChunk struct {
	Content  string
	Metadata map[string]any
	Score    float64
}

type Index struct {
	db       *gorm.DB
	embedder embeddings.Provider
	dim      int
	topK     int
}

func New(db *gorm.DB, embedder embeddings.Provider, topK int) *Index {
	if topK <= 0 {
		topK = DefaultTopK
	}
	return &Index{db: db, embedder: embedder, dim: embedder.Dimension(), topK: topK}
}

// EnsureSchema creates the pgvector extension and the chunk table, then
// verifies the embedding column dimension matches the configured embedder.
// A mismatch means the index was built with a different model and reindexing
// is required, so startup fails rather than silently mixing vector spaces.
func (i *Index) EnsureSchema(ctx context.Context) error {
	const op = "VectorIndex.EnsureSchema"

	db := i.db.WithContext(ctx)
	if err := db.Exec("CREATE EXTENSION IF NOT EXISTS vector").Error; err != nil {
		return utils.E(utils.CodeInvalidConfiguration, op, "failed to enable pgvector extension", err)
	}
	createStmt := fmt.Sprintf(`CREATE TABLE IF NOT EXISTS transcript_chunks (
		id BIGSERIAL PRIMARY KEY,
		content TEXT NOT NULL,
		embedding VECTOR(%d) NOT NULL,
		metadata JSONB,
		created_at TIMESTAMPTZ NOT NULL DEFAULT now()
	)`, i.dim)
	if err := db.Exec(createStmt).Error; err != nil {
		return utils.E(utils.CodeInvalidConfiguration, op, "failed to create chunk table", err)
	}

	var dim int
	err := db.Raw(`SELECT atttypmod FROM pg_attribute
		WHERE attrelid = 'transcript_chunks'::regclass AND attname = 'embedding'`).Scan(&dim).Error
	if err != nil {
		return utils.E(utils.CodeInvalidConfiguration, op, "failed to inspect embedding column", err)
	}
	if dim != i.dim {
		return utils.E(utils.CodeInvalidConfiguration, op,
			fmt.Sprintf("embedding column has dimension %d, embedder produces %d", dim, i.dim), nil)
	}

	if err := db.Exec(`CREATE INDEX IF NOT EXISTS idx_transcript_chunks_embedding
		ON transcript_chunks USING ivfflat (embedding vector_cosine_ops) WITH (lists = 100)`).Error; err != nil {
		return utils.E(utils.CodeInvalidConfiguration, op, "failed to create vector index", err)
	}
	return nil
}

// Upsert embeds each chunk and appends it to the index. Insertion order is
// preserved through the serial id, which also breaks retrieval score ties.
func (i *Index) Upsert(ctx context.Context, contents []string, metadata map[string]any) error {
	const op = "VectorIndex.Upsert"

	var meta datatypes.JSON
	if metadata != nil {
		raw, err := json.Marshal(metadata)
		if err != nil {
			return utils.E(utils.CodeInternal, op, "failed to encode chunk metadata", err)
		}
		meta = datatypes.JSON(raw)
	}

	for _, content := range contents {
		if content == "" {
			continue
		}
		vec, err := i.embedder.Embed(ctx, content)
		if err != nil {
			return utils.E(utils.CodeUnavailable, op, "failed to embed chunk", err)
		}
		chunk := models.TranscriptChunk{
			Content:   content,
			Embedding: pgvector.NewVector(vec),
			Metadata:  meta,
		}
		if err := i.db.WithContext(ctx).Create(&chunk).Error; err != nil {
			return utils.E(utils.CodeInternal, op, "failed to store chunk", err)
		}
	}
	return nil
}

// Retrieve returns the k nearest chunks by cosine similarity, highest first.
// k <= 0 falls back to the configured default. Ties are broken by insertion
// order so results are deterministic.
func (i *Index) Retrieve(ctx context.Context, query string, k int) ([]ScoredChunk, error) {
	const op = "VectorIndex.Retrieve"

	if query == "" {
		return nil, utils.E(utils.CodeInvalidArgument, op, "query must not be empty", nil)
	}
	if k <= 0 {
		k = i.topK
	}

	vec, err := i.embedder.Embed(ctx, query)
	if err != nil {
		return nil, utils.E(utils.CodeRetrievalFailed, op, "failed to embed query", err)
	}

	var rows []struct {
		Content  string
		Metadata datatypes.JSON
		Score    float64
	}
	qv := pgvector.NewVector(vec)
	err = i.db.WithContext(ctx).Raw(`SELECT content, metadata, 1 - (embedding <=> ?) AS score
		FROM transcript_chunks
		ORDER BY embedding <=> ?, id
		LIMIT ?`, qv, qv, k).Scan(&rows).Error
	if err != nil {
		return nil, utils.E(utils.CodeRetrievalFailed, op, "similarity search failed", err)
	}

	out := make([]ScoredChunk, 0, len(rows))
	for _, r := range rows {
		sc := ScoredChunk{Content: r.Content, Score: r.Score}
		if len(r.Metadata) > 0 {
			_ = json.Unmarshal(r.Metadata, &sc.Metadata)
		}
		out = append(out, sc)
	}
	return out, nil
}

// Clear drops every indexed chunk. Admin only; used when switching embedding
// models.
func (i *Index) Clear(ctx context.Context) error {
	const op = "VectorIndex.Clear"

	if err := i.db.WithContext(ctx).Exec("TRUNCATE transcript_chunks RESTART IDENTITY").Error; err != nil {
		return utils.E(utils.CodeInternal, op, "failed to clear index", err)
	}
	return nil
}
