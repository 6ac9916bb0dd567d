package tracking

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/IronRon/Adaptive-Landing-AI/domain"
	"github.com/IronRon/Adaptive-Landing-AI/pkg/logger"
)

var (
	ErrVisitorNotFound = errors.New("visitor not found")
	ErrSessionNotFound = errors.New("session not found")
	ErrNoEvents        = errors.New("no events")
)

// ---- Repository interfaces ----

type Repository interface {
	CreateVisitor(ctx context.Context, cookieID uuid.UUID) (domain.Visitor, error)
	FindVisitorByCookie(ctx context.Context, cookieID uuid.UUID) (domain.Visitor, error)
	// StartSession ends the visitor's active sessions and opens a new one.
	StartSession(ctx context.Context, session domain.Session) (domain.Session, error)
	FindSession(ctx context.Context, sessionID uuid.UUID) (domain.Session, error)
	SaveInteractions(ctx context.Context, events []domain.Interaction) error
}

// RewardRecorder credits tracked events to bandit arms.
type RewardRecorder interface {
	RecordInteractions(ctx context.Context, events []domain.Interaction) (int, error)
}

// ---- DTOs ----

type Event struct {
	EventType      string         `json:"event_type" validate:"required,max=50"`
	Element        string         `json:"element" validate:"max=255"`
	X              *float64       `json:"x"`
	Y              *float64       `json:"y"`
	AdditionalData map[string]any `json:"additional_data"`
}

type Batch struct {
	SessionID string  `json:"session_id" validate:"required,uuid"`
	Events    []Event `json:"events" validate:"required,min=1,dive"`
}

type Client struct {
	UserAgent string
	Referrer  string
}

// ---- Service ----

type Service struct {
	repo    Repository
	rewards RewardRecorder
}

func NewService(repo Repository, rewards RewardRecorder) *Service {
	return &Service{repo: repo, rewards: rewards}
}

// AcceptCookies registers a new visitor and opens their first session.
func (s *Service) AcceptCookies(ctx context.Context, client Client) (domain.Visitor, domain.Session, error) {
	if err := ctx.Err(); err != nil {
		return domain.Visitor{}, domain.Session{}, fmt.Errorf("context error: %w", err)
	}

	visitor, err := s.repo.CreateVisitor(ctx, uuid.New())
	if err != nil {
		return domain.Visitor{}, domain.Session{}, fmt.Errorf("create visitor: %w", err)
	}

	session, err := s.startSession(ctx, visitor.ID, client)
	if err != nil {
		return domain.Visitor{}, domain.Session{}, err
	}

	logger.Info("visitor registered", "visitor_id", visitor.ID, "session_id", session.SessionID.String())
	return visitor, session, nil
}

// Resume finds the visitor behind a cookie id and starts a fresh session,
// closing whatever was still active.
func (s *Service) Resume(ctx context.Context, cookieID uuid.UUID, client Client) (domain.Visitor, domain.Session, error) {
	visitor, err := s.repo.FindVisitorByCookie(ctx, cookieID)
	if err != nil {
		return domain.Visitor{}, domain.Session{}, err
	}

	session, err := s.startSession(ctx, visitor.ID, client)
	if err != nil {
		return domain.Visitor{}, domain.Session{}, err
	}
	return visitor, session, nil
}

func (s *Service) startSession(ctx context.Context, visitorID uint, client Client) (domain.Session, error) {
	session, err := s.repo.StartSession(ctx, domain.Session{
		VisitorID: visitorID,
		SessionID: uuid.New(),
		UserAgent: client.UserAgent,
		Referrer:  client.Referrer,
		IsActive:  true,
	})
	if err != nil {
		return domain.Session{}, fmt.Errorf("start session: %w", err)
	}
	return session, nil
}

// Track stores a batch of events for a session and credits clicks to the
// bandit. A reward failure is logged; the events stay stored.
func (s *Service) Track(ctx context.Context, batch Batch) (int, error) {
	if len(batch.Events) == 0 {
		return 0, ErrNoEvents
	}

	sid, err := uuid.Parse(batch.SessionID)
	if err != nil {
		return 0, fmt.Errorf("%w: %s", ErrSessionNotFound, batch.SessionID)
	}

	session, err := s.repo.FindSession(ctx, sid)
	if err != nil {
		return 0, err
	}

	events := make([]domain.Interaction, 0, len(batch.Events))
	for _, ev := range batch.Events {
		it := domain.Interaction{
			SessionID:      session.ID,
			EventType:      strings.TrimSpace(ev.EventType),
			X:              ev.X,
			Y:              ev.Y,
			AdditionalData: ev.AdditionalData,
		}
		if el := strings.TrimSpace(ev.Element); el != "" {
			it.Element = &el
		}
		events = append(events, it)
	}

	if err := s.repo.SaveInteractions(ctx, events); err != nil {
		return 0, fmt.Errorf("save interactions: %w", err)
	}

	if s.rewards != nil {
		if n, err := s.rewards.RecordInteractions(ctx, events); err != nil {
			logger.Error("failed to credit interactions to bandit", err)
		} else if n > 0 {
			logger.Debug("bandit_credited", "session_id", session.ID, "sections", n)
		}
	}

	return len(events), nil
}
