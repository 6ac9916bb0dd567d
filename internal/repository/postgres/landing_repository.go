package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/IronRon/Adaptive-Landing-AI/domain"

	"gorm.io/gorm"
)

type LandingRepository struct {
	DB *gorm.DB
}

func NewLandingRepository(db *gorm.DB) *LandingRepository {
	return &LandingRepository{DB: db}
}

func orderedSections(db *gorm.DB) *gorm.DB {
	return db.Order(`"order" ASC, id ASC`)
}

// GetPage loads a page with its sections in display order. pageID 0 picks the
// first page.
func (r *LandingRepository) GetPage(ctx context.Context, pageID uint) (domain.LandingPage, error) {
	var page domain.LandingPage

	q := r.DB.WithContext(ctx).Preload("Sections", orderedSections)
	var err error
	if pageID == 0 {
		err = q.Order("id ASC").First(&page).Error
	} else {
		err = q.First(&page, pageID).Error
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return domain.LandingPage{}, domain.ErrPageNotFound
	}
	if err != nil {
		return domain.LandingPage{}, fmt.Errorf("failed to query landing_pages: %w", err)
	}

	return page, nil
}

func (r *LandingRepository) ListPages(ctx context.Context, limit int) ([]domain.LandingPage, error) {
	if limit <= 0 {
		limit = 10
	}

	var pages []domain.LandingPage
	if err := r.DB.WithContext(ctx).
		Preload("Sections", orderedSections).
		Order("id ASC").
		Limit(limit).
		Find(&pages).Error; err != nil {
		return nil, fmt.Errorf("failed to query landing_pages: %w", err)
	}

	return pages, nil
}
