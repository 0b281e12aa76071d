package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/convoxai/convoxai/internal/providers/llm"
	"github.com/convoxai/convoxai/internal/utils"
)

func newPrefService() ModelPrefService {
	registry := llm.NewRegistry(&fakeLLM{name: "gemini"}, &fakeLLM{name: "groq"})
	return NewModelPrefService(registry, newMemCache())
}

func TestModelPrefSetByName(t *testing.T) {
	svc := newPrefService()

	name, err := svc.Set(context.Background(), "u1", "groq")
	require.NoError(t, err)
	assert.Equal(t, "groq", name)
	assert.Equal(t, "groq", svc.Get(context.Background(), "u1"))
}

func TestModelPrefNumericAliases(t *testing.T) {
	svc := newPrefService()

	name, err := svc.Set(context.Background(), "u1", "1")
	require.NoError(t, err)
	assert.Equal(t, "gemini", name)

	name, err = svc.Set(context.Background(), "u1", "2")
	require.NoError(t, err)
	assert.Equal(t, "groq", name)
}

func TestModelPrefUnknownChoice(t *testing.T) {
	svc := newPrefService()

	_, err := svc.Set(context.Background(), "u1", "claude")
	assert.True(t, utils.IsCode(err, utils.CodeInvalidArgument))
}

func TestModelPrefUnsetUser(t *testing.T) {
	svc := newPrefService()
	assert.Empty(t, svc.Get(context.Background(), "nobody"))
}

func TestModelPrefAvailableDefaultFirst(t *testing.T) {
	svc := newPrefService()
	names := svc.Available()
	assert.Equal(t, "gemini", names[0])
	assert.Contains(t, names, "groq")
}
