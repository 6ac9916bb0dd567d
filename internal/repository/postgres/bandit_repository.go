package postgres

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/IronRon/Adaptive-Landing-AI/business/bandit"
	"github.com/IronRon/Adaptive-Landing-AI/domain"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type ArmRepository struct {
	DB *gorm.DB
}

var _ bandit.ArmRepository = (*ArmRepository)(nil)

func NewArmRepository(db *gorm.DB) *ArmRepository {
	return &ArmRepository{DB: db}
}

func (r *ArmRepository) ListArms(ctx context.Context) ([]domain.BanditArm, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("context error: %w", err)
	}

	var arms []domain.BanditArm
	if err := r.DB.WithContext(ctx).Order("section ASC").Find(&arms).Error; err != nil {
		return nil, fmt.Errorf("failed to query bandit_arms: %w", err)
	}

	return arms, nil
}

func (r *ArmRepository) GetArm(ctx context.Context, section string) (domain.BanditArm, error) {
	var arm domain.BanditArm

	err := r.DB.WithContext(ctx).Where("section = ?", section).First(&arm).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return domain.BanditArm{}, fmt.Errorf("%w: %s", bandit.ErrUnknownArm, section)
	}
	if err != nil {
		return domain.BanditArm{}, fmt.Errorf("failed to query bandit_arms: %w", err)
	}

	return arm, nil
}

// IncrementArms runs one UPDATE per arm inside a transaction. The increment
// happens in SQL so concurrent writers never overwrite each other; an unknown
// section rolls the whole batch back.
func (r *ArmRepository) IncrementArms(ctx context.Context, rewards map[string]float64) error {
	return r.updateArms(ctx, rewards, true)
}

// CreditRewards is IncrementArms without counting a pull.
func (r *ArmRepository) CreditRewards(ctx context.Context, rewards map[string]float64) error {
	return r.updateArms(ctx, rewards, false)
}

func (r *ArmRepository) updateArms(ctx context.Context, rewards map[string]float64, pull bool) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("context error: %w", err)
	}

	// fixed lock order across concurrent batches
	sections := make([]string, 0, len(rewards))
	for s := range rewards {
		sections = append(sections, s)
	}
	sort.Strings(sections)

	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, section := range sections {
			updates := map[string]any{
				"reward": gorm.Expr("reward + ?", rewards[section]),
			}
			if pull {
				updates["pulls"] = gorm.Expr("pulls + 1")
			}

			res := tx.Model(&domain.BanditArm{}).
				Where("section = ?", section).
				Updates(updates)
			if res.Error != nil {
				return fmt.Errorf("failed to update arm %s: %w", section, res.Error)
			}
			if res.RowsAffected == 0 {
				return fmt.Errorf("%w: %s", bandit.ErrUnknownArm, section)
			}
		}
		return nil
	})
}

func (r *ArmRepository) SeedArms(ctx context.Context, sections []string) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, fmt.Errorf("context error: %w", err)
	}
	if len(sections) == 0 {
		return 0, nil
	}

	arms := make([]domain.BanditArm, 0, len(sections))
	for _, s := range sections {
		arms = append(arms, domain.BanditArm{Section: s})
	}

	res := r.DB.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "section"}},
			DoNothing: true,
		}).
		Create(&arms)
	if res.Error != nil {
		return 0, fmt.Errorf("failed to seed bandit_arms: %w", res.Error)
	}

	return int(res.RowsAffected), nil
}
