package recommend

import (
	"context"
	"errors"
	"sync"

	"github.com/IronRon/Adaptive-Landing-AI/domain"
)

type stubGlobal struct {
	scores domain.ScoreMap
	err    error
}

func (s stubGlobal) GlobalScores(context.Context) (domain.ScoreMap, error) {
	return s.scores, s.err
}

type stubVisitor struct {
	meta  domain.VisitorMeta
	err   error
	calls int
}

func (s *stubVisitor) Snapshot(_ context.Context, visitorID uint) (domain.VisitorMeta, error) {
	s.calls++
	m := s.meta
	m.VisitorID = visitorID
	return m, s.err
}

type stubModel struct {
	raw    string
	err    error
	block  bool
	calls  int
	prompt PromptContext
}

func (s *stubModel) Complete(ctx context.Context, prompt PromptContext) (string, error) {
	s.calls++
	s.prompt = prompt
	if s.block {
		<-ctx.Done()
		return "", ctx.Err()
	}
	return s.raw, s.err
}

type memAudit struct {
	mu      sync.Mutex
	records []map[string]any
	err     error
}

func (m *memAudit) Record(_ context.Context, _ uint, _ uint, result map[string]any) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	m.records = append(m.records, result)
	return nil
}

var errBoom = errors.New("boom")

func sections(keys ...string) []domain.LandingSection {
	out := make([]domain.LandingSection, 0, len(keys))
	for i, k := range keys {
		out = append(out, domain.LandingSection{ID: uint(i + 1), PageID: 1, Key: k, Order: i, HTML: "<section>" + k + "</section>"})
	}
	return out
}
