package llm

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

type fakeProvider struct {
	name string
}

func (p *fakeProvider) Name() string { return p.name }
func (p *fakeProvider) Complete(ctx context.Context, prompt string) (string, error) {
	return "ok", nil
}
func (p *fakeProvider) CompleteJSON(ctx context.Context, prompt string) (string, error) {
	return "{}", nil
}
func (p *fakeProvider) Stream(ctx context.Context, prompt string) (<-chan string, <-chan error) {
	out := make(chan string)
	errs := make(chan error)
	close(out)
	close(errs)
	return out, errs
}
func (p *fakeProvider) Close() error { return nil }

func TestRegistryPick(t *testing.T) {
	gemini := &fakeProvider{name: "gemini"}
	groq := &fakeProvider{name: "groq"}
	r := NewRegistry(gemini, groq)

	assert.Same(t, gemini, r.Pick("gemini"))
	assert.Same(t, groq, r.Pick("groq"))
	assert.Same(t, groq, r.Pick(" Groq "))
}

func TestRegistryPickFallsBackToDefault(t *testing.T) {
	gemini := &fakeProvider{name: "gemini"}
	r := NewRegistry(gemini, &fakeProvider{name: "groq"})

	assert.Same(t, gemini, r.Pick(""))
	assert.Same(t, gemini, r.Pick("claude"))
}

func TestRegistryNamesDefaultFirst(t *testing.T) {
	r := NewRegistry(&fakeProvider{name: "gemini"}, &fakeProvider{name: "groq"})
	names := r.Names()
	assert.Equal(t, "gemini", names[0])
	assert.Len(t, names, 2)
	assert.Contains(t, names, "groq")
}

func TestEmitDelivers(t *testing.T) {
	out := make(chan string, 1)
	assert.True(t, emit(context.Background(), out, "chunk"))
	assert.Equal(t, "chunk", <-out)
}

func TestEmitUnblocksOnCancel(t *testing.T) {
	// Full buffer and no consumer: the send can never complete, so only the
	// context can release the producer.
	out := make(chan string, 1)
	out <- "unconsumed"

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	done := make(chan bool, 1)
	go func() { done <- emit(ctx, out, "chunk") }()

	select {
	case delivered := <-done:
		assert.False(t, delivered)
	case <-time.After(time.Second):
		t.Fatal("emit blocked on an abandoned channel")
	}
}
