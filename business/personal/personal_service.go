package personal

import (
	"context"
	"fmt"

	"github.com/IronRon/Adaptive-Landing-AI/domain"
)

// VisitorRepository is the read side of visitor/session/interaction storage.
type VisitorRepository interface {
	// SessionsOf returns the visitor's sessions, most recent first.
	SessionsOf(ctx context.Context, visitorID uint) ([]domain.Session, error)
	// ClicksIn returns click interactions that belong to the given sessions.
	ClicksIn(ctx context.Context, sessionIDs []uint) ([]domain.Interaction, error)
}

type Service struct {
	visitorRepo VisitorRepository
}

func NewService(visitorRepo VisitorRepository) *Service {
	return &Service{visitorRepo: visitorRepo}
}

// ScoreForVisitor returns the visitor's normalised click frequency per
// section across all of their sessions.
func (s *Service) ScoreForVisitor(ctx context.Context, visitorID uint) (domain.ScoreMap, error) {
	meta, err := s.Snapshot(ctx, visitorID)
	if err != nil {
		return nil, err
	}
	return meta.ClickCounts, nil
}

// Snapshot returns the visitor's session count together with their
// normalised click frequencies.
func (s *Service) Snapshot(ctx context.Context, visitorID uint) (domain.VisitorMeta, error) {
	meta := domain.VisitorMeta{VisitorID: visitorID, ClickCounts: domain.ScoreMap{}}

	if err := ctx.Err(); err != nil {
		return meta, fmt.Errorf("context error: %w", err)
	}

	sessions, err := s.visitorRepo.SessionsOf(ctx, visitorID)
	if err != nil {
		return meta, fmt.Errorf("load sessions: %w", err)
	}
	meta.SessionCount = len(sessions)
	if len(sessions) == 0 {
		return meta, nil
	}

	ids := make([]uint, 0, len(sessions))
	for _, sess := range sessions {
		ids = append(ids, sess.ID)
	}

	clicks, err := s.visitorRepo.ClicksIn(ctx, ids)
	if err != nil {
		return meta, fmt.Errorf("load clicks: %w", err)
	}

	meta.ClickCounts = ClickFrequencies(clicks)
	return meta, nil
}

// ClickFrequencies counts click events per element and divides by the total.
// Non-click events and events without an element are ignored. Returns an
// empty map when there is nothing to count.
func ClickFrequencies(events []domain.Interaction) domain.ScoreMap {
	counts := make(map[string]int)
	total := 0
	for _, ev := range events {
		if ev.EventType != domain.EventTypeClick || ev.Element == nil {
			continue
		}
		counts[*ev.Element]++
		total++
	}

	out := make(domain.ScoreMap, len(counts))
	if total == 0 {
		return out
	}
	for el, c := range counts {
		out[el] = float64(c) / float64(total)
	}
	return out
}
