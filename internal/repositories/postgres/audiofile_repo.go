package postgres

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/convoxai/convoxai/internal/models"
	"github.com/convoxai/convoxai/internal/utils"
)

type AudioFileRepo interface {
	Insert(ctx context.Context, f *models.AudioFile) error
	GetByID(ctx context.Context, userID, fileID string) (*models.AudioFile, error)
	ListByUser(ctx context.Context, userID string, limit int) ([]models.AudioFile, error)
	Delete(ctx context.Context, userID, fileID string) error
}

type audioFileRepo struct {
	db *gorm.DB
}

func NewAudioFileRepo(db *gorm.DB) AudioFileRepo {
	return &audioFileRepo{db: db}
}

func (r *audioFileRepo) Insert(ctx context.Context, f *models.AudioFile) error {
	return r.db.WithContext(ctx).Create(f).Error
}

func (r *audioFileRepo) GetByID(ctx context.Context, userID, fileID string) (*models.AudioFile, error) {
	var row models.AudioFile
	err := r.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", fileID, userID).
		Take(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, utils.ErrNotFound
	}
	return &row, err
}

func (r *audioFileRepo) ListByUser(ctx context.Context, userID string, limit int) ([]models.AudioFile, error) {
	if limit <= 0 {
		limit = 100
	}

	var rows []models.AudioFile
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Limit(limit).
		Find(&rows).Error
	return rows, err
}

func (r *audioFileRepo) Delete(ctx context.Context, userID, fileID string) error {
	res := r.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", fileID, userID).
		Delete(&models.AudioFile{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return utils.ErrNotFound
	}
	return nil
}
