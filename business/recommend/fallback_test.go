package recommend

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/IronRon/Adaptive-Landing-AI/business/scoring"
	"github.com/IronRon/Adaptive-Landing-AI/domain"
)

func TestRankFallback_OrdersBySummedScore(t *testing.T) {
	layout := []string{"header", "services", "pricing"}
	global := domain.ScoreMap{"pricing": 0.9, "services": 0.1, "header": 0}
	user := domain.ScoreMap{"header": 1.5}

	res := RankFallback(layout, domain.VisitorMeta{SessionCount: 1}, global, user)

	assert.Equal(t, []string{"header", "pricing", "services"}, res.Layout)
	assert.Equal(t, true, res.Debug["fallback"])
	assert.Equal(t, []string{"header", "services", "pricing"}, layout, "input must not be reordered")
}

func TestRankFallback_TiesKeepDefaultOrder(t *testing.T) {
	layout := []string{"a", "b", "c", "d"}
	res := RankFallback(layout, domain.VisitorMeta{}, domain.ScoreMap{"c": 1}, nil)

	assert.Equal(t, []string{"c", "a", "b", "d"}, res.Layout)
}

func TestRankFallback_HeaderFraming(t *testing.T) {
	first := RankFallback([]string{"header"}, domain.VisitorMeta{SessionCount: 1}, nil, nil)
	assert.Equal(t, domain.Customization{"text": "Fast. Clean. Reliable.", "style": "default"}, first.Customizations["header"])

	returning := RankFallback([]string{"header"}, domain.VisitorMeta{SessionCount: 2}, nil, nil)
	assert.Equal(t, domain.Customization{"text": "Welcome back!", "style": "highlight"}, returning.Customizations["header"])
}

func TestRankFallback_Deterministic(t *testing.T) {
	layout := []string{"header", "services", "pricing", "cta"}
	global := domain.ScoreMap{"pricing": 0.4, "cta": 0.4, "services": 0.2}
	user := domain.ScoreMap{"services": 0.2}

	want := RankFallback(layout, domain.VisitorMeta{SessionCount: 3}, global, user)
	for i := 0; i < 20; i++ {
		assert.Equal(t, want, RankFallback(layout, domain.VisitorMeta{SessionCount: 3}, global, user))
	}
}

func TestRankWeighted_UsesWeights(t *testing.T) {
	layout := []string{"header", "pricing"}
	global := domain.ScoreMap{"pricing": 1}
	user := domain.ScoreMap{"header": 1}

	globalHeavy := RankWeighted(layout, domain.VisitorMeta{}, global, user, scoring.Weights{Global: 0.9, User: 0.1})
	assert.Equal(t, []string{"pricing", "header"}, globalHeavy.Layout)
	assert.Equal(t, false, globalHeavy.Debug["used_llm"])

	userHeavy := RankWeighted(layout, domain.VisitorMeta{}, global, user, scoring.Weights{Global: 0.1, User: 0.9})
	assert.Equal(t, []string{"header", "pricing"}, userHeavy.Layout)
}
