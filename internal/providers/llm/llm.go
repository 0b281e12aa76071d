package llm

import (
	"context"
	"strings"
)

// Provider is a chat-completion model: it accepts a prompt and returns text.
// CompleteJSON additionally constrains the response to a JSON object so the
// caller can decode-and-validate it against a schema.
type Provider interface {
	// Name is the stable identifier reported back to callers ("gemini", "groq").
	Name() string
	Complete(ctx context.Context, prompt string) (string, error)
	CompleteJSON(ctx context.Context, prompt string) (string, error)
	// Stream returns incremental text chunks. The error channel carries at
	// most one value and both channels close when generation ends.
	Stream(ctx context.Context, prompt string) (chunks <-chan string, errs <-chan error)
	Close() error
}

// emit delivers one streamed fragment, or reports false when the context is
// done. Consumers may abandon the chunk channel without draining it, so a
// producer must never block on a bare send.
func emit(ctx context.Context, out chan<- string, s string) bool {
	select {
	case out <- s:
		return true
	case <-ctx.Done():
		return false
	}
}

// Registry holds the configured backends. An unrecognized choice falls back
// to the default provider rather than failing.
type Registry struct {
	providers map[string]Provider
	def       string
}

func NewRegistry(def Provider, others ...Provider) *Registry {
	r := &Registry{
		providers: map[string]Provider{def.Name(): def},
		def:       def.Name(),
	}
	for _, p := range others {
		r.providers[p.Name()] = p
	}
	return r
}

// Pick resolves a model choice to a provider, defaulting when the choice is
// empty or unknown.
func (r *Registry) Pick(choice string) Provider {
	if p, ok := r.providers[strings.ToLower(strings.TrimSpace(choice))]; ok {
		return p
	}
	return r.providers[r.def]
}

// Names lists the configured backends, default first.
func (r *Registry) Names() []string {
	out := []string{r.def}
	for name := range r.providers {
		if name != r.def {
			out = append(out, name)
		}
	}
	return out
}

func (r *Registry) Close() error {
	var first error
	for _, p := range r.providers {
		if err := p.Close(); err != nil && first == nil {
			first = err
		}
	}
	return first
}
