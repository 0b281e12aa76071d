package postgres

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/convoxai/convoxai/internal/models"
	"github.com/convoxai/convoxai/internal/utils"
)

type SummaryRepo interface {
	Insert(ctx context.Context, s *models.SummaryRecord) error
	GetByID(ctx context.Context, userID, summaryID string) (*models.SummaryRecord, error)
	ListByUser(ctx context.Context, userID string, limit int) ([]models.SummaryRecord, error)
}

type summaryRepo struct {
	db *gorm.DB
}

func NewSummaryRepo(db *gorm.DB) SummaryRepo {
	return &summaryRepo{db: db}
}

func (r *summaryRepo) Insert(ctx context.Context, s *models.SummaryRecord) error {
	return r.db.WithContext(ctx).Create(s).Error
}

func (r *summaryRepo) GetByID(ctx context.Context, userID, summaryID string) (*models.SummaryRecord, error) {
	var row models.SummaryRecord
	err := r.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", summaryID, userID).
		Take(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, utils.ErrNotFound
	}
	return &row, err
}

func (r *summaryRepo) ListByUser(ctx context.Context, userID string, limit int) ([]models.SummaryRecord, error) {
	if limit <= 0 {
		limit = 50
	}

	var rows []models.SummaryRecord
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Limit(limit).
		Find(&rows).Error
	return rows, err
}
