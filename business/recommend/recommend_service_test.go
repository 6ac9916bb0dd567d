package recommend

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/IronRon/Adaptive-Landing-AI/business/scoring"
	"github.com/IronRon/Adaptive-Landing-AI/domain"
)

func newTestService(model ModelClient, audit AuditLog, visitor *stubVisitor, global domain.ScoreMap) *Service {
	if visitor == nil {
		visitor = &stubVisitor{}
	}
	cfg := DefaultConfig()
	cfg.ModelTimeout = 50 * time.Millisecond
	return NewService(stubGlobal{scores: global}, visitor, model, audit, cfg)
}

func pageRequest(visitorID uint) Request {
	return Request{PageID: 1, VisitorID: visitorID, Sections: sections("header", "services", "pricing")}
}

func TestRecommend_ModelUnavailableFallsBackToScores(t *testing.T) {
	model := &stubModel{err: errBoom}
	global := domain.ScoreMap{"pricing": 0.9, "services": 0.1, "header": 0}
	svc := newTestService(model, &memAudit{}, &stubVisitor{meta: domain.VisitorMeta{SessionCount: 1}}, global)

	res := svc.Recommend(context.Background(), pageRequest(7))

	assert.Equal(t, []string{"pricing", "services", "header"}, res.Layout)
	assert.Equal(t, domain.Customization{"text": "Fast. Clean. Reliable.", "style": "default"}, res.Customizations["header"])
	assert.Equal(t, true, res.Debug["fallback"])
	assert.Equal(t, "transport", res.Debug["fallback_reason"])
	assert.Equal(t, 1, model.calls, "no retries")
}

func TestRecommend_AcceptsModelOutput(t *testing.T) {
	model := &stubModel{raw: `{
		"layout": ["pricing", "header", "pricing", "unknown", 3],
		"customizations": {"header": {"text": "Hi", "style": "bold", "nested": {"x": 1}}, "cta": "oops"},
		"debug": {"from_model": true}
	}`}
	audit := &memAudit{}
	svc := newTestService(model, audit, &stubVisitor{meta: domain.VisitorMeta{SessionCount: 2, ClickCounts: domain.ScoreMap{"pricing": 1}}}, domain.ScoreMap{"header": 1})

	res := svc.Recommend(context.Background(), pageRequest(3))

	assert.Equal(t, []string{"pricing", "header"}, res.Layout)
	assert.Equal(t, domain.Customization{"text": "Hi", "style": "bold"}, res.Customizations["header"])
	assert.NotContains(t, res.Customizations, "cta")
	assert.Equal(t, true, res.Debug["used_llm"])
	assert.Equal(t, map[string]float64{"header": 1}, res.Debug["global_scores"])
	assert.Equal(t, map[string]float64{"pricing": 1}, res.Debug["user_scores"])
	assert.NotContains(t, res.Debug, "from_model")
	assert.NotContains(t, res.Debug, "fallback")

	require.Len(t, audit.records, 1)
	assert.Contains(t, audit.records[0], "layout")
}

func TestRecommend_PromptCarriesContext(t *testing.T) {
	model := &stubModel{raw: `{"layout":["header"]}`}
	svc := newTestService(model, nil, &stubVisitor{meta: domain.VisitorMeta{SessionCount: 4, ClickCounts: domain.ScoreMap{"services": 1}}}, domain.ScoreMap{"pricing": 0.5})

	req := pageRequest(9)
	req.CombinedCSS = "body{}"
	svc.Recommend(context.Background(), req)

	p := model.prompt
	assert.Equal(t, []string{"header", "services", "pricing"}, p.DefaultLayout)
	assert.Equal(t, domain.ScoreMap{"pricing": 0.5}, p.GlobalScores)
	assert.Equal(t, domain.ScoreMap{"services": 1}, p.UserScores)
	assert.Equal(t, 4, p.VisitorMeta.SessionCount)
	assert.Equal(t, "<section>pricing</section>", p.Assets["pricing"].HTML)
	assert.Equal(t, "body{}", p.CombinedCSS)
}

func TestRecommend_FencedOutputAccepted(t *testing.T) {
	model := &stubModel{raw: "```json\n{\"layout\":[\"services\",\"header\",\"pricing\"]}\n```"}
	svc := newTestService(model, &memAudit{}, nil, nil)

	res := svc.Recommend(context.Background(), pageRequest(1))

	assert.Equal(t, []string{"services", "header", "pricing"}, res.Layout)
	assert.Equal(t, true, res.Debug["used_llm"])
}

func TestRecommend_RejectedOutputsFallBack(t *testing.T) {
	tests := []struct {
		name   string
		raw    string
		reason string
	}{
		{name: "malformed", raw: "not json at all", reason: "parse"},
		{name: "empty answer", raw: "", reason: "parse"},
		{name: "empty object", raw: "{}", reason: "invalid"},
		{name: "missing layout", raw: `{"customizations":{}}`, reason: "invalid"},
		{name: "layout not a list", raw: `{"layout":"header"}`, reason: "invalid"},
		{name: "no known sections", raw: `{"layout":["Pricing","HEADER","nav"]}`, reason: "invalid"},
		{name: "empty layout", raw: `{"layout":[]}`, reason: "invalid"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			audit := &memAudit{}
			svc := newTestService(&stubModel{raw: tt.raw}, audit, nil, domain.ScoreMap{"pricing": 1})

			res := svc.Recommend(context.Background(), pageRequest(1))

			assert.Equal(t, []string{"pricing", "header", "services"}, res.Layout)
			assert.Equal(t, true, res.Debug["fallback"])
			assert.Equal(t, tt.reason, res.Debug["fallback_reason"])
			assert.Empty(t, audit.records)
		})
	}
}

func TestRecommend_AuditFailureStillAccepted(t *testing.T) {
	model := &stubModel{raw: `{"layout":["pricing"]}`}
	svc := newTestService(model, &memAudit{err: errBoom}, nil, nil)

	res := svc.Recommend(context.Background(), pageRequest(1))

	assert.Equal(t, []string{"pricing"}, res.Layout)
	assert.Equal(t, true, res.Debug["used_llm"])
}

func TestRecommend_ModelTimeoutFallsBack(t *testing.T) {
	model := &stubModel{block: true}
	svc := newTestService(model, nil, nil, nil)

	start := time.Now()
	res := svc.Recommend(context.Background(), pageRequest(1))

	assert.Less(t, time.Since(start), 2*time.Second)
	assert.Equal(t, []string{"header", "services", "pricing"}, res.Layout)
	assert.Equal(t, "transport", res.Debug["fallback_reason"])
}

func TestRecommend_NilModelFallsBack(t *testing.T) {
	svc := newTestService(nil, nil, nil, nil)

	res := svc.Recommend(context.Background(), pageRequest(1))

	assert.Equal(t, true, res.Debug["fallback"])
}

func TestRecommend_RulesStrategySkipsModel(t *testing.T) {
	model := &stubModel{raw: `{"layout":["pricing"]}`}
	svc := NewService(stubGlobal{scores: domain.ScoreMap{"services": 1}}, &stubVisitor{}, model, nil, Config{Strategy: StrategyRules})

	res := svc.Recommend(context.Background(), pageRequest(1))

	assert.Zero(t, model.calls)
	assert.Equal(t, []string{"services", "header", "pricing"}, res.Layout)
	assert.Equal(t, true, res.Debug["fallback"])
}

func TestRecommend_WeightedStrategy(t *testing.T) {
	model := &stubModel{}
	visitor := &stubVisitor{meta: domain.VisitorMeta{SessionCount: 2, ClickCounts: domain.ScoreMap{"header": 1}}}
	cfg := Config{Strategy: StrategyWeighted, Weights: scoring.Weights{Global: 0.2, User: 0.8}}
	svc := NewService(stubGlobal{scores: domain.ScoreMap{"pricing": 1}}, visitor, model, nil, cfg)

	res := svc.Recommend(context.Background(), pageRequest(5))

	assert.Zero(t, model.calls)
	assert.Equal(t, []string{"header", "pricing", "services"}, res.Layout)
	assert.Equal(t, "Welcome back!", res.Customizations["header"]["text"])
	assert.Equal(t, cfg.Weights, res.Debug["weights"])
}

func TestRecommend_ScorerFailuresDegradeToDefaultOrder(t *testing.T) {
	visitor := &stubVisitor{err: errBoom}
	svc := NewService(stubGlobal{err: errBoom}, visitor, nil, nil, Config{Strategy: StrategyRules})

	res := svc.Recommend(context.Background(), pageRequest(2))

	assert.Equal(t, []string{"header", "services", "pricing"}, res.Layout)
	assert.Equal(t, "Fast. Clean. Reliable.", res.Customizations["header"]["text"])
}

func TestRecommend_AnonymousVisitorSkipsPersonalScores(t *testing.T) {
	visitor := &stubVisitor{}
	svc := NewService(stubGlobal{}, visitor, nil, nil, Config{Strategy: StrategyRules})

	svc.Recommend(context.Background(), pageRequest(0))

	assert.Zero(t, visitor.calls)
}
