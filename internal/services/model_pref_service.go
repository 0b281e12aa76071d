package services

import (
	"context"
	"strings"

	"github.com/convoxai/convoxai/internal/cache"
	"github.com/convoxai/convoxai/internal/providers/llm"
	"github.com/convoxai/convoxai/internal/utils"
)

// ModelPrefService remembers each user's chat backend choice. Requests that
// name a model explicitly bypass the preference; requests that do not fall
// back to it, then to the registry default.
type ModelPrefService interface {
	Set(ctx context.Context, userID, choice string) (string, error)
	Get(ctx context.Context, userID string) string
	Available() []string
}

type modelPrefService struct {
	registry *llm.Registry
	cache    cache.Cache
}

func NewModelPrefService(registry *llm.Registry, c cache.Cache) ModelPrefService {
	return &modelPrefService{registry: registry, cache: c}
}

// numeric aliases kept for clients that select by index
var choiceAliases = map[string]string{
	"1": "gemini",
	"2": "groq",
}

func (s *modelPrefService) Set(ctx context.Context, userID, choice string) (string, error) {
	const op = "ModelPrefService.Set"

	choice = strings.ToLower(strings.TrimSpace(choice))
	if alias, ok := choiceAliases[choice]; ok {
		choice = alias
	}

	known := false
	for _, name := range s.registry.Names() {
		if name == choice {
			known = true
			break
		}
	}
	if !known {
		return "", utils.E(utils.CodeInvalidArgument, op,
			"unknown model choice "+choice+" (want "+strings.Join(s.registry.Names(), "|")+")", nil)
	}

	if err := s.cache.SetJSON(ctx, "model_pref:"+userID, choice, 0); err != nil {
		return "", utils.E(utils.CodeInternal, op, "failed to store model preference", err)
	}
	return choice, nil
}

func (s *modelPrefService) Get(ctx context.Context, userID string) string {
	var pref string
	if hit, err := s.cache.GetJSON(ctx, "model_pref:"+userID, &pref); err == nil && hit {
		return pref
	}
	return ""
}

func (s *modelPrefService) Available() []string {
	return s.registry.Names()
}
