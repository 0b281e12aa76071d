package services

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/convoxai/convoxai/internal/models"
	"github.com/convoxai/convoxai/internal/vectorindex"
)

// fakeLLM returns canned responses and records the prompts it saw.
type fakeLLM struct {
	name     string
	response string
	err      error

	mu      sync.Mutex
	prompts []string
}

func (p *fakeLLM) Name() string { return p.name }

func (p *fakeLLM) record(prompt string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.prompts = append(p.prompts, prompt)
}

func (p *fakeLLM) lastPrompt() string {
	p.mu.Lock()
	defer p.mu.Unlock()
	if len(p.prompts) == 0 {
		return ""
	}
	return p.prompts[len(p.prompts)-1]
}

func (p *fakeLLM) Complete(ctx context.Context, prompt string) (string, error) {
	p.record(prompt)
	return p.response, p.err
}

func (p *fakeLLM) CompleteJSON(ctx context.Context, prompt string) (string, error) {
	p.record(prompt)
	return p.response, p.err
}

func (p *fakeLLM) Stream(ctx context.Context, prompt string) (<-chan string, <-chan error) {
	p.record(prompt)
	out := make(chan string, 1)
	errs := make(chan error, 1)
	if p.err != nil {
		errs <- p.err
	} else if p.response != "" {
		out <- p.response
	}
	close(out)
	close(errs)
	return out, errs
}

func (p *fakeLLM) Close() error { return nil }

// fakeRetriever serves fixed hits or a fixed error.
type fakeRetriever struct {
	hits []vectorindex.ScoredChunk
	err  error

	lastQuery string
	lastK     int
}

func (r *fakeRetriever) Retrieve(ctx context.Context, query string, k int) ([]vectorindex.ScoredChunk, error) {
	r.lastQuery = query
	r.lastK = k
	if r.err != nil {
		return nil, r.err
	}
	return r.hits, nil
}

// fakeIndexer collects upserted contents.
type fakeIndexer struct {
	contents []string
	metadata map[string]any
	err      error
	cleared  bool
}

func (i *fakeIndexer) Upsert(ctx context.Context, contents []string, metadata map[string]any) error {
	if i.err != nil {
		return i.err
	}
	i.contents = append(i.contents, contents...)
	i.metadata = metadata
	return nil
}

func (i *fakeIndexer) Clear(ctx context.Context) error {
	i.cleared = true
	return i.err
}

// memCache is an in-memory cache.Cache.
type memCache struct {
	mu   sync.Mutex
	data map[string][]byte
}

func newMemCache() *memCache {
	return &memCache{data: map[string][]byte{}}
}

func (c *memCache) GetJSON(ctx context.Context, key string, dst any) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	b, ok := c.data[key]
	if !ok {
		return false, nil
	}
	return true, json.Unmarshal(b, dst)
}

func (c *memCache) SetJSON(ctx context.Context, key string, val any, ttl time.Duration) error {
	b, err := json.Marshal(val)
	if err != nil {
		return err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.data[key] = b
	return nil
}

func (c *memCache) Del(ctx context.Context, keys ...string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, k := range keys {
		delete(c.data, k)
	}
	return nil
}

// memSummaryRepo records inserted summaries.
type memSummaryRepo struct {
	rows []models.SummaryRecord
}

func (r *memSummaryRepo) Insert(ctx context.Context, s *models.SummaryRecord) error {
	r.rows = append(r.rows, *s)
	return nil
}

func (r *memSummaryRepo) GetByID(ctx context.Context, userID, summaryID string) (*models.SummaryRecord, error) {
	for i := range r.rows {
		if r.rows[i].ID == summaryID && r.rows[i].UserID == userID {
			return &r.rows[i], nil
		}
	}
	return nil, nil
}

func (r *memSummaryRepo) ListByUser(ctx context.Context, userID string, limit int) ([]models.SummaryRecord, error) {
	return r.rows, nil
}
