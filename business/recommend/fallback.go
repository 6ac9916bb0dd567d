package recommend

import (
	"github.com/IronRon/Adaptive-Landing-AI/business/scoring"
	"github.com/IronRon/Adaptive-Landing-AI/domain"
)

const (
	returningHeaderText  = "Welcome back!"
	returningHeaderStyle = "highlight"
	firstVisitHeaderText = "Fast. Clean. Reliable."
	firstVisitStyle      = "default"
)

// RankFallback orders the default layout by global+user score (stable on
// ties) and frames the header by whether the visitor has been here before.
// It is a pure function of its inputs.
func RankFallback(defaultLayout []string, visitor domain.VisitorMeta, global, user domain.ScoreMap) domain.RecommendationResult {
	return domain.RecommendationResult{
		Layout:         scoring.RankByScore(defaultLayout, scoring.Sum(global, user)),
		Customizations: headerCustomization(visitor),
		Debug:          map[string]any{"fallback": true},
	}
}

// RankWeighted orders the default layout by the weighted blend.
func RankWeighted(defaultLayout []string, visitor domain.VisitorMeta, global, user domain.ScoreMap, w scoring.Weights) domain.RecommendationResult {
	combined := scoring.Combine(global, user, w)
	return domain.RecommendationResult{
		Layout:         scoring.RankByScore(defaultLayout, combined),
		Customizations: headerCustomization(visitor),
		Debug: map[string]any{
			"global_scores":   plainScores(global),
			"user_scores":     plainScores(user),
			"combined_scores": plainScores(combined),
			"weights":         w,
			"used_llm":        false,
		},
	}
}

func headerCustomization(visitor domain.VisitorMeta) map[string]domain.Customization {
	header := domain.Customization{"text": firstVisitHeaderText, "style": firstVisitStyle}
	if visitor.SessionCount > 1 {
		header = domain.Customization{"text": returningHeaderText, "style": returningHeaderStyle}
	}
	return map[string]domain.Customization{"header": header}
}

// plainScores copies a score map so debug output never aliases live state.
func plainScores(m domain.ScoreMap) map[string]float64 {
	out := make(map[string]float64, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}
