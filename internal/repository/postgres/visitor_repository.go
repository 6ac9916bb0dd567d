package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/IronRon/Adaptive-Landing-AI/business/personal"
	"github.com/IronRon/Adaptive-Landing-AI/business/tracking"
	"github.com/IronRon/Adaptive-Landing-AI/domain"

	"gorm.io/gorm"
)

type VisitorRepository struct {
	DB *gorm.DB
}

var (
	_ personal.VisitorRepository = (*VisitorRepository)(nil)
	_ tracking.Repository        = (*VisitorRepository)(nil)
)

func NewVisitorRepository(db *gorm.DB) *VisitorRepository {
	return &VisitorRepository{DB: db}
}

// ---- Visitors ----

func (r *VisitorRepository) CreateVisitor(ctx context.Context, cookieID uuid.UUID) (domain.Visitor, error) {
	v := domain.Visitor{CookieID: cookieID}
	if err := r.DB.WithContext(ctx).Create(&v).Error; err != nil {
		return domain.Visitor{}, fmt.Errorf("failed to create visitor: %w", err)
	}
	return v, nil
}

func (r *VisitorRepository) FindVisitorByCookie(ctx context.Context, cookieID uuid.UUID) (domain.Visitor, error) {
	var v domain.Visitor

	err := r.DB.WithContext(ctx).Where("cookie_id = ?", cookieID).First(&v).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return domain.Visitor{}, tracking.ErrVisitorNotFound
	}
	if err != nil {
		return domain.Visitor{}, err
	}

	return v, nil
}

// ListVisitors returns the newest visitors with their sessions and
// interactions. A non-nil cookieID narrows the result to that visitor.
func (r *VisitorRepository) ListVisitors(ctx context.Context, limit int, cookieID *uuid.UUID) ([]VisitorDump, error) {
	if limit <= 0 {
		limit = 10
	}

	q := r.DB.WithContext(ctx).Order("created_at DESC").Limit(limit)
	if cookieID != nil {
		q = q.Where("cookie_id = ?", *cookieID)
	}

	var visitors []domain.Visitor
	if err := q.Find(&visitors).Error; err != nil {
		return nil, fmt.Errorf("failed to query visitors: %w", err)
	}

	out := make([]VisitorDump, 0, len(visitors))
	for _, v := range visitors {
		sessions, err := r.SessionsOf(ctx, v.ID)
		if err != nil {
			return nil, err
		}
		dump := VisitorDump{Visitor: v}
		for _, s := range sessions {
			var events []domain.Interaction
			if err := r.DB.WithContext(ctx).
				Where("session_id = ?", s.ID).
				Order("timestamp DESC").
				Limit(limit).
				Find(&events).Error; err != nil {
				return nil, fmt.Errorf("failed to query interactions: %w", err)
			}
			dump.Sessions = append(dump.Sessions, SessionDump{Session: s, Interactions: events})
		}
		out = append(out, dump)
	}

	return out, nil
}

type VisitorDump struct {
	domain.Visitor
	Sessions []SessionDump `json:"sessions"`
}

type SessionDump struct {
	domain.Session
	Interactions []domain.Interaction `json:"interactions"`
}

// ---- Sessions ----

func (r *VisitorRepository) SessionsOf(ctx context.Context, visitorID uint) ([]domain.Session, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("context error: %w", err)
	}

	var sessions []domain.Session
	if err := r.DB.WithContext(ctx).
		Where("visitor_id = ?", visitorID).
		Order("started_at DESC").
		Find(&sessions).Error; err != nil {
		return nil, fmt.Errorf("failed to query sessions: %w", err)
	}

	return sessions, nil
}

func (r *VisitorRepository) StartSession(ctx context.Context, session domain.Session) (domain.Session, error) {
	now := time.Now()

	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&domain.Session{}).
			Where("visitor_id = ? AND is_active = ?", session.VisitorID, true).
			Updates(map[string]any{"is_active": false, "ended_at": now}).Error; err != nil {
			return fmt.Errorf("failed to close sessions: %w", err)
		}

		session.IsActive = true
		if err := tx.Create(&session).Error; err != nil {
			return fmt.Errorf("failed to create session: %w", err)
		}

		return tx.Model(&domain.Visitor{}).
			Where("id = ?", session.VisitorID).
			Update("last_seen", now).Error
	})
	if err != nil {
		return domain.Session{}, err
	}

	return session, nil
}

func (r *VisitorRepository) FindSession(ctx context.Context, sessionID uuid.UUID) (domain.Session, error) {
	var s domain.Session

	err := r.DB.WithContext(ctx).Where("session_id = ?", sessionID).First(&s).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return domain.Session{}, fmt.Errorf("%w: %s", tracking.ErrSessionNotFound, sessionID)
	}
	if err != nil {
		return domain.Session{}, err
	}

	return s, nil
}

// ---- Interactions ----

func (r *VisitorRepository) SaveInteractions(ctx context.Context, events []domain.Interaction) error {
	if len(events) == 0 {
		return nil
	}
	if err := r.DB.WithContext(ctx).CreateInBatches(&events, 100).Error; err != nil {
		return fmt.Errorf("failed to save interactions: %w", err)
	}
	return nil
}

func (r *VisitorRepository) ClicksIn(ctx context.Context, sessionIDs []uint) ([]domain.Interaction, error) {
	if len(sessionIDs) == 0 {
		return nil, nil
	}

	var clicks []domain.Interaction
	if err := r.DB.WithContext(ctx).
		Where("session_id IN ? AND event_type = ? AND element IS NOT NULL", sessionIDs, domain.EventTypeClick).
		Find(&clicks).Error; err != nil {
		return nil, fmt.Errorf("failed to query interactions: %w", err)
	}

	return clicks, nil
}
