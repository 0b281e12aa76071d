package services

import (
	"context"
	"strings"
	"time"

	"github.com/convoxai/convoxai/internal/models"
	"github.com/convoxai/convoxai/internal/prompts"
	"github.com/convoxai/convoxai/internal/providers/llm"
	"github.com/convoxai/convoxai/internal/utils"
	"github.com/convoxai/convoxai/internal/vectorindex"
)

// maxHistoryTurns bounds how much chat history is replayed into the prompt.
const maxHistoryTurns = 10

// hard deadline on one answer generation call; streaming is client-paced and
// bounded by the request context instead
const answerTimeout = time.Minute

// Retriever is the similarity-search dependency; satisfied by
// vectorindex.Index.
type Retriever interface {
	Retrieve(ctx context.Context, query string, k int) ([]vectorindex.ScoredChunk, error)
}

type ChatService interface {
	Answer(ctx context.Context, question string, history []models.ChatTurn, modelChoice string, topK int) (*models.ChatAnswer, error)
	// AnswerStream retrieves context like Answer but streams the generated
	// text. Sources are resolved before streaming starts.
	AnswerStream(ctx context.Context, question string, history []models.ChatTurn, modelChoice string) ([]models.SourceDocument, <-chan string, <-chan error, error)
}

type chatService struct {
	index    Retriever
	registry *llm.Registry
}

func NewChatService(index Retriever, registry *llm.Registry) ChatService {
	return &chatService{index: index, registry: registry}
}

func (s *chatService) Answer(ctx context.Context, question string, history []models.ChatTurn, modelChoice string, topK int) (*models.ChatAnswer, error) {
	const op = "ChatService.Answer"

	question = strings.TrimSpace(question)
	if question == "" {
		return nil, utils.E(utils.CodeInvalidArgument, op, "question is required", nil)
	}

	sources, prompt, err := s.ground(ctx, question, history, topK)
	if err != nil {
		return nil, err
	}

	provider := s.registry.Pick(modelChoice)
	genCtx, cancel := context.WithTimeout(ctx, answerTimeout)
	defer cancel()
	answer, err := provider.Complete(genCtx, prompt)
	if err != nil {
		return nil, utils.E(utils.CodeGenerationFailed, op, "answer generation failed", err)
	}
	answer = strings.TrimSpace(answer)
	if answer == "" {
		return nil, utils.E(utils.CodeGenerationFailed, op, "model returned an empty answer", nil)
	}

	return &models.ChatAnswer{
		Answer:    answer,
		Sources:   sources,
		ModelUsed: provider.Name(),
	}, nil
}

func (s *chatService) AnswerStream(ctx context.Context, question string, history []models.ChatTurn, modelChoice string) ([]models.SourceDocument, <-chan string, <-chan error, error) {
	const op = "ChatService.AnswerStream"

	question = strings.TrimSpace(question)
	if question == "" {
		return nil, nil, nil, utils.E(utils.CodeInvalidArgument, op, "question is required", nil)
	}

	sources, prompt, err := s.ground(ctx, question, history, 0)
	if err != nil {
		return nil, nil, nil, err
	}

	provider := s.registry.Pick(modelChoice)
	chunks, errs := provider.Stream(ctx, prompt)
	return sources, chunks, errs, nil
}

// ground runs retrieval and renders the chat prompt. Retrieval failures are
// surfaced, not papered over with an ungrounded answer.
func (s *chatService) ground(ctx context.Context, question string, history []models.ChatTurn, topK int) ([]models.SourceDocument, string, error) {
	hits, err := s.index.Retrieve(ctx, question, topK)
	if err != nil {
		return nil, "", err
	}

	passages := make([]string, 0, len(hits))
	sources := make([]models.SourceDocument, 0, len(hits))
	for _, h := range hits {
		passages = append(passages, h.Content)
		sources = append(sources, models.SourceDocument{Content: h.Content, Metadata: h.Metadata})
	}

	if len(history) > maxHistoryTurns {
		history = history[len(history)-maxHistoryTurns:]
	}
	lines := make([]string, 0, len(history))
	for _, t := range history {
		lines = append(lines, t.Role+": "+t.Content)
	}

	return sources, prompts.ChatPrompt(passages, lines, question), nil
}
