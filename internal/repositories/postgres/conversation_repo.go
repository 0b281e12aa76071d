package postgres

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/convoxai/convoxai/internal/models"
	"github.com/convoxai/convoxai/internal/utils"
)

type ConversationRepo interface {
	InsertConversation(ctx context.Context, c *models.ChatConversation) error
	InsertMessages(ctx context.Context, msgs []models.ChatMessage) error
	GetByID(ctx context.Context, userID, conversationID string) (*models.ChatConversation, error)
	ListByUser(ctx context.Context, userID string, limit int) ([]models.ChatConversation, error)
	ListMessages(ctx context.Context, conversationID string, limit int) ([]models.ChatMessage, error)
	Touch(ctx context.Context, conversationID string) error
	Delete(ctx context.Context, userID, conversationID string) error
}

type conversationRepo struct {
	db *gorm.DB
}

func NewConversationRepo(db *gorm.DB) ConversationRepo {
	return &conversationRepo{db: db}
}

func (r *conversationRepo) InsertConversation(ctx context.Context, c *models.ChatConversation) error {
	return r.db.WithContext(ctx).Create(c).Error
}

func (r *conversationRepo) InsertMessages(ctx context.Context, msgs []models.ChatMessage) error {
	if len(msgs) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Create(&msgs).Error
}

func (r *conversationRepo) GetByID(ctx context.Context, userID, conversationID string) (*models.ChatConversation, error) {
	var row models.ChatConversation
	err := r.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", conversationID, userID).
		Take(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, utils.ErrNotFound
	}
	return &row, err
}

func (r *conversationRepo) ListByUser(ctx context.Context, userID string, limit int) ([]models.ChatConversation, error) {
	if limit <= 0 {
		limit = 50
	}

	var rows []models.ChatConversation
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("updated_at DESC").
		Limit(limit).
		Find(&rows).Error
	return rows, err
}

func (r *conversationRepo) ListMessages(ctx context.Context, conversationID string, limit int) ([]models.ChatMessage, error) {
	if limit <= 0 {
		limit = 200
	}

	var rows []models.ChatMessage
	err := r.db.WithContext(ctx).
		Where("conversation_id = ?", conversationID).
		Order("created_at ASC").
		Limit(limit).
		Find(&rows).Error
	return rows, err
}

func (r *conversationRepo) Touch(ctx context.Context, conversationID string) error {
	return r.db.WithContext(ctx).
		Model(&models.ChatConversation{}).
		Where("id = ?", conversationID).
		Update("updated_at", gorm.Expr("now()")).Error
}

func (r *conversationRepo) Delete(ctx context.Context, userID, conversationID string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Where("id = ? AND user_id = ?", conversationID, userID).
			Delete(&models.ChatConversation{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return utils.ErrNotFound
		}
		return tx.Where("conversation_id = ?", conversationID).
			Delete(&models.ChatMessage{}).Error
	})
}
