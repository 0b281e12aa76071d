package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/convoxai/convoxai/internal/models"
	"github.com/convoxai/convoxai/internal/utils"
)

// memConversationRepo is an in-memory pgrepo.ConversationRepo.
type memConversationRepo struct {
	convos   map[string]models.ChatConversation
	messages map[string][]models.ChatMessage
}

func newMemConversationRepo() *memConversationRepo {
	return &memConversationRepo{
		convos:   map[string]models.ChatConversation{},
		messages: map[string][]models.ChatMessage{},
	}
}

func (r *memConversationRepo) InsertConversation(ctx context.Context, c *models.ChatConversation) error {
	r.convos[c.ID] = *c
	return nil
}

func (r *memConversationRepo) InsertMessages(ctx context.Context, msgs []models.ChatMessage) error {
	for _, m := range msgs {
		r.messages[m.ConversationID] = append(r.messages[m.ConversationID], m)
	}
	return nil
}

func (r *memConversationRepo) GetByID(ctx context.Context, userID, conversationID string) (*models.ChatConversation, error) {
	c, ok := r.convos[conversationID]
	if !ok || c.UserID != userID {
		return nil, utils.ErrNotFound
	}
	return &c, nil
}

func (r *memConversationRepo) ListByUser(ctx context.Context, userID string, limit int) ([]models.ChatConversation, error) {
	var out []models.ChatConversation
	for _, c := range r.convos {
		if c.UserID == userID {
			out = append(out, c)
		}
	}
	return out, nil
}

func (r *memConversationRepo) ListMessages(ctx context.Context, conversationID string, limit int) ([]models.ChatMessage, error) {
	return r.messages[conversationID], nil
}

func (r *memConversationRepo) Touch(ctx context.Context, conversationID string) error {
	c, ok := r.convos[conversationID]
	if ok {
		c.UpdatedAt = time.Now().UTC()
		r.convos[conversationID] = c
	}
	return nil
}

func (r *memConversationRepo) Delete(ctx context.Context, userID, conversationID string) error {
	c, ok := r.convos[conversationID]
	if !ok || c.UserID != userID {
		return utils.ErrNotFound
	}
	delete(r.convos, conversationID)
	delete(r.messages, conversationID)
	return nil
}

func TestSaveCreatesConversationWithDefaultTitle(t *testing.T) {
	repo := newMemConversationRepo()
	svc := NewConversationService(repo)

	turns := []models.ChatTurn{
		{Role: "user", Content: "What was the refund amount?"},
		{Role: "assistant", Content: "It was $150."},
	}
	convo, err := svc.Save(context.Background(), "u1", "", "", turns, nil)
	require.NoError(t, err)

	assert.Equal(t, "What was the refund amount?", convo.Title)
	msgs := repo.messages[convo.ID]
	require.Len(t, msgs, 2)
	assert.Equal(t, "user", msgs[0].Role)
	assert.Equal(t, "assistant", msgs[1].Role)
	assert.True(t, msgs[0].CreatedAt.Before(msgs[1].CreatedAt), "turn order must be preserved")
}

func TestSaveAppendsToExistingConversation(t *testing.T) {
	repo := newMemConversationRepo()
	svc := NewConversationService(repo)

	first, err := svc.Save(context.Background(), "u1", "", "Billing", []models.ChatTurn{
		{Role: "user", Content: "hi"},
	}, nil)
	require.NoError(t, err)

	second, err := svc.Save(context.Background(), "u1", first.ID, "", []models.ChatTurn{
		{Role: "assistant", Content: "hello"},
	}, nil)
	require.NoError(t, err)

	assert.Equal(t, first.ID, second.ID)
	assert.Len(t, repo.messages[first.ID], 2)
}

func TestSaveRequiresMessages(t *testing.T) {
	svc := NewConversationService(newMemConversationRepo())

	_, err := svc.Save(context.Background(), "u1", "", "t", nil, nil)
	assert.True(t, utils.IsCode(err, utils.CodeInvalidArgument))
}

func TestSaveUnknownConversation(t *testing.T) {
	svc := NewConversationService(newMemConversationRepo())

	_, err := svc.Save(context.Background(), "u1", "missing", "", []models.ChatTurn{
		{Role: "user", Content: "hi"},
	}, nil)
	assert.True(t, utils.IsCode(err, utils.CodeNotFound))
}

func TestGetScopedToOwner(t *testing.T) {
	repo := newMemConversationRepo()
	svc := NewConversationService(repo)

	convo, err := svc.Save(context.Background(), "u1", "", "", []models.ChatTurn{
		{Role: "user", Content: "hi"},
	}, nil)
	require.NoError(t, err)

	out, err := svc.Get(context.Background(), "u1", convo.ID)
	require.NoError(t, err)
	assert.Len(t, out.Messages, 1)

	_, err = svc.Get(context.Background(), "u2", convo.ID)
	assert.True(t, utils.IsCode(err, utils.CodeNotFound))
}

func TestDeleteConversation(t *testing.T) {
	repo := newMemConversationRepo()
	svc := NewConversationService(repo)

	convo, err := svc.Save(context.Background(), "u1", "", "", []models.ChatTurn{
		{Role: "user", Content: "hi"},
	}, nil)
	require.NoError(t, err)

	require.NoError(t, svc.Delete(context.Background(), "u1", convo.ID))
	_, err = svc.Get(context.Background(), "u1", convo.ID)
	assert.True(t, utils.IsCode(err, utils.CodeNotFound))

	err = svc.Delete(context.Background(), "u1", convo.ID)
	assert.True(t, utils.IsCode(err, utils.CodeNotFound))
}
