package services

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/convoxai/convoxai/internal/models"
	pgrepo "github.com/convoxai/convoxai/internal/repositories/postgres"
	"github.com/convoxai/convoxai/internal/utils"
)

// ConversationWithMessages is the full detail view of a saved conversation.
type ConversationWithMessages struct {
	Conversation models.ChatConversation `json:"conversation"`
	Messages     []models.ChatMessage    `json:"messages"`
}

type ConversationService interface {
	Save(ctx context.Context, userID, conversationID, title string, turns []models.ChatTurn, audioFileID *string) (*models.ChatConversation, error)
	History(ctx context.Context, userID string, limit int) ([]models.ChatConversation, error)
	Get(ctx context.Context, userID, conversationID string) (*ConversationWithMessages, error)
	Delete(ctx context.Context, userID, conversationID string) error
}

type conversationService struct {
	convos pgrepo.ConversationRepo
}

func NewConversationService(convos pgrepo.ConversationRepo) ConversationService {
	return &conversationService{convos: convos}
}

// Save appends turns to a conversation, creating it when conversationID is
// empty. The title defaults to the first user turn when absent.
func (s *conversationService) Save(ctx context.Context, userID, conversationID, title string, turns []models.ChatTurn, audioFileID *string) (*models.ChatConversation, error) {
	const op = "ConversationService.Save"

	if userID == "" {
		return nil, utils.E(utils.CodeInvalidArgument, op, "user_id is required", nil)
	}
	if len(turns) == 0 {
		return nil, utils.E(utils.CodeInvalidArgument, op, "at least one message is required", nil)
	}

	var convo *models.ChatConversation
	if conversationID == "" {
		if title == "" {
			title = defaultTitle(turns)
		}
		now := time.Now().UTC()
		convo = &models.ChatConversation{
			ID:        uuid.NewString(),
			UserID:    userID,
			Title:     title,
			CreatedAt: now,
			UpdatedAt: now,
		}
		if err := s.convos.InsertConversation(ctx, convo); err != nil {
			return nil, utils.E(utils.CodeInternal, op, "failed to create conversation", err)
		}
	} else {
		existing, err := s.convos.GetByID(ctx, userID, conversationID)
		if err == utils.ErrNotFound {
			return nil, utils.E(utils.CodeNotFound, op, "conversation not found", nil)
		}
		if err != nil {
			return nil, utils.E(utils.CodeInternal, op, "failed to load conversation", err)
		}
		convo = existing
	}

	msgs := make([]models.ChatMessage, 0, len(turns))
	base := time.Now().UTC()
	for i, t := range turns {
		msgs = append(msgs, models.ChatMessage{
			ID:             uuid.NewString(),
			ConversationID: convo.ID,
			Role:           t.Role,
			Content:        t.Content,
			AudioFileID:    audioFileID,
			// preserve turn order under a single timestamp resolution
			CreatedAt: base.Add(time.Duration(i) * time.Microsecond),
		})
	}
	if err := s.convos.InsertMessages(ctx, msgs); err != nil {
		return nil, utils.E(utils.CodeInternal, op, "failed to store messages", err)
	}
	if err := s.convos.Touch(ctx, convo.ID); err != nil {
		return nil, utils.E(utils.CodeInternal, op, "failed to update conversation", err)
	}
	return convo, nil
}

func (s *conversationService) History(ctx context.Context, userID string, limit int) ([]models.ChatConversation, error) {
	const op = "ConversationService.History"

	if userID == "" {
		return nil, utils.E(utils.CodeInvalidArgument, op, "user_id is required", nil)
	}
	rows, err := s.convos.ListByUser(ctx, userID, limit)
	if err != nil {
		return nil, utils.E(utils.CodeInternal, op, "failed to list conversations", err)
	}
	return rows, nil
}

func (s *conversationService) Get(ctx context.Context, userID, conversationID string) (*ConversationWithMessages, error) {
	const op = "ConversationService.Get"

	if userID == "" || conversationID == "" {
		return nil, utils.E(utils.CodeInvalidArgument, op, "user_id and conversation_id are required", nil)
	}

	convo, err := s.convos.GetByID(ctx, userID, conversationID)
	if err == utils.ErrNotFound {
		return nil, utils.E(utils.CodeNotFound, op, "conversation not found", nil)
	}
	if err != nil {
		return nil, utils.E(utils.CodeInternal, op, "failed to load conversation", err)
	}

	msgs, err := s.convos.ListMessages(ctx, conversationID, 0)
	if err != nil {
		return nil, utils.E(utils.CodeInternal, op, "failed to load messages", err)
	}
	return &ConversationWithMessages{Conversation: *convo, Messages: msgs}, nil
}

func (s *conversationService) Delete(ctx context.Context, userID, conversationID string) error {
	const op = "ConversationService.Delete"

	if userID == "" || conversationID == "" {
		return utils.E(utils.CodeInvalidArgument, op, "user_id and conversation_id are required", nil)
	}

	err := s.convos.Delete(ctx, userID, conversationID)
	if err == utils.ErrNotFound {
		return utils.E(utils.CodeNotFound, op, "conversation not found", nil)
	}
	if err != nil {
		return utils.E(utils.CodeInternal, op, "failed to delete conversation", err)
	}
	return nil
}

func defaultTitle(turns []models.ChatTurn) string {
	for _, t := range turns {
		if t.Role == "user" && t.Content != "" {
			if len(t.Content) > 80 {
				return t.Content[:80]
			}
			return t.Content
		}
	}
	return "Untitled conversation"
}
