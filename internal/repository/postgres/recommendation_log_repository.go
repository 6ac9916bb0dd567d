package postgres

import (
	"context"
	"fmt"

	"github.com/IronRon/Adaptive-Landing-AI/business/recommend"
	"github.com/IronRon/Adaptive-Landing-AI/domain"

	"gorm.io/gorm"
)

type RecommendationLogRepository struct {
	DB *gorm.DB
}

var _ recommend.AuditLog = (*RecommendationLogRepository)(nil)

func NewRecommendationLogRepository(db *gorm.DB) *RecommendationLogRepository {
	return &RecommendationLogRepository{DB: db}
}

// Record stores an accepted model answer. visitorID 0 is stored as NULL.
func (r *RecommendationLogRepository) Record(ctx context.Context, pageID uint, visitorID uint, result map[string]any) error {
	row := domain.AIRecommendation{
		PageID:       pageID,
		ResponseJSON: result,
	}
	if visitorID != 0 {
		row.VisitorID = &visitorID
	}

	if err := r.DB.WithContext(ctx).Create(&row).Error; err != nil {
		return fmt.Errorf("failed to save ai_recommendations: %w", err)
	}

	return nil
}

// Latest returns the newest audit rows for a page, newest first.
func (r *RecommendationLogRepository) Latest(ctx context.Context, pageID uint, limit int) ([]domain.AIRecommendation, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("context error: %w", err)
	}

	if limit <= 0 {
		limit = 20
	}

	var rows []domain.AIRecommendation
	q := r.DB.WithContext(ctx).Order("created_at DESC").Limit(limit)
	if pageID != 0 {
		q = q.Where("page_id = ?", pageID)
	}
	if err := q.Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to query ai_recommendations: %w", err)
	}

	return rows, nil
}
