package tracking

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/IronRon/Adaptive-Landing-AI/domain"
)

type memRepo struct {
	visitors     []domain.Visitor
	sessions     []domain.Session
	interactions []domain.Interaction
	saveErr      error
}

func (m *memRepo) CreateVisitor(_ context.Context, cookieID uuid.UUID) (domain.Visitor, error) {
	v := domain.Visitor{ID: uint(len(m.visitors) + 1), CookieID: cookieID}
	m.visitors = append(m.visitors, v)
	return v, nil
}

func (m *memRepo) FindVisitorByCookie(_ context.Context, cookieID uuid.UUID) (domain.Visitor, error) {
	for _, v := range m.visitors {
		if v.CookieID == cookieID {
			return v, nil
		}
	}
	return domain.Visitor{}, ErrVisitorNotFound
}

func (m *memRepo) StartSession(_ context.Context, s domain.Session) (domain.Session, error) {
	for i := range m.sessions {
		if m.sessions[i].VisitorID == s.VisitorID {
			m.sessions[i].IsActive = false
		}
	}
	s.ID = uint(len(m.sessions) + 1)
	m.sessions = append(m.sessions, s)
	return s, nil
}

func (m *memRepo) FindSession(_ context.Context, sid uuid.UUID) (domain.Session, error) {
	for _, s := range m.sessions {
		if s.SessionID == sid {
			return s, nil
		}
	}
	return domain.Session{}, ErrSessionNotFound
}

func (m *memRepo) SaveInteractions(_ context.Context, events []domain.Interaction) error {
	if m.saveErr != nil {
		return m.saveErr
	}
	m.interactions = append(m.interactions, events...)
	return nil
}

type spyRewards struct {
	events []domain.Interaction
	err    error
}

func (s *spyRewards) RecordInteractions(_ context.Context, events []domain.Interaction) (int, error) {
	s.events = append(s.events, events...)
	return len(events), s.err
}

func TestAcceptCookies_CreatesVisitorAndSession(t *testing.T) {
	repo := &memRepo{}
	svc := NewService(repo, nil)

	v, s, err := svc.AcceptCookies(context.Background(), Client{UserAgent: "ua", Referrer: "ref"})
	require.NoError(t, err)

	assert.NotEqual(t, uuid.Nil, v.CookieID)
	assert.Equal(t, v.ID, s.VisitorID)
	assert.True(t, s.IsActive)
	assert.Equal(t, "ua", s.UserAgent)
	assert.Len(t, repo.sessions, 1)
}

func TestResume_ClosesActiveSessions(t *testing.T) {
	repo := &memRepo{}
	svc := NewService(repo, nil)
	ctx := context.Background()

	v, first, err := svc.AcceptCookies(ctx, Client{})
	require.NoError(t, err)

	_, second, err := svc.Resume(ctx, v.CookieID, Client{})
	require.NoError(t, err)

	assert.NotEqual(t, first.SessionID, second.SessionID)
	require.Len(t, repo.sessions, 2)
	assert.False(t, repo.sessions[0].IsActive)
	assert.True(t, repo.sessions[1].IsActive)
}

func TestResume_UnknownCookie(t *testing.T) {
	svc := NewService(&memRepo{}, nil)

	_, _, err := svc.Resume(context.Background(), uuid.New(), Client{})
	assert.ErrorIs(t, err, ErrVisitorNotFound)
}

func TestTrack_StoresEventsAndCreditsBandit(t *testing.T) {
	repo := &memRepo{}
	rewards := &spyRewards{}
	svc := NewService(repo, rewards)
	ctx := context.Background()

	_, s, err := svc.AcceptCookies(ctx, Client{})
	require.NoError(t, err)

	n, err := svc.Track(ctx, Batch{
		SessionID: s.SessionID.String(),
		Events: []Event{
			{EventType: "click", Element: " pricing "},
			{EventType: "scroll", AdditionalData: map[string]any{"depth": 0.5}},
		},
	})
	require.NoError(t, err)

	assert.Equal(t, 2, n)
	require.Len(t, repo.interactions, 2)
	require.NotNil(t, repo.interactions[0].Element)
	assert.Equal(t, "pricing", *repo.interactions[0].Element)
	assert.Nil(t, repo.interactions[1].Element)
	assert.Equal(t, s.ID, repo.interactions[1].SessionID)
	assert.Len(t, rewards.events, 2)
}

func TestTrack_UnknownSession(t *testing.T) {
	svc := NewService(&memRepo{}, nil)

	_, err := svc.Track(context.Background(), Batch{SessionID: uuid.NewString(), Events: []Event{{EventType: "click"}}})
	assert.ErrorIs(t, err, ErrSessionNotFound)

	_, err = svc.Track(context.Background(), Batch{SessionID: "nope", Events: []Event{{EventType: "click"}}})
	assert.ErrorIs(t, err, ErrSessionNotFound)
}

func TestTrack_NoEvents(t *testing.T) {
	svc := NewService(&memRepo{}, nil)

	_, err := svc.Track(context.Background(), Batch{SessionID: uuid.NewString()})
	assert.ErrorIs(t, err, ErrNoEvents)
}

func TestTrack_RewardFailureKeepsEvents(t *testing.T) {
	repo := &memRepo{}
	svc := NewService(repo, &spyRewards{err: errors.New("db down")})
	ctx := context.Background()

	_, s, err := svc.AcceptCookies(ctx, Client{})
	require.NoError(t, err)

	n, err := svc.Track(ctx, Batch{SessionID: s.SessionID.String(), Events: []Event{{EventType: "click", Element: "cta"}}})
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	assert.Len(t, repo.interactions, 1)
}

func TestTrack_SaveFailure(t *testing.T) {
	repo := &memRepo{}
	svc := NewService(repo, nil)
	ctx := context.Background()

	_, s, err := svc.AcceptCookies(ctx, Client{})
	require.NoError(t, err)
	repo.saveErr = errors.New("disk full")

	_, err = svc.Track(ctx, Batch{SessionID: s.SessionID.String(), Events: []Event{{EventType: "click"}}})
	assert.Error(t, err)
}
