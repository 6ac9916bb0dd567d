// Package scoring blends global and per-visitor section scores.
package scoring

import (
	"sort"

	"github.com/IronRon/Adaptive-Landing-AI/domain"
)

const (
	defaultWGlobal = 0.7
	defaultWUser   = 0.3
)

// Weights controls how much global vs user scores matter.
type Weights struct {
	Global float64 `json:"w_global"`
	User   float64 `json:"w_user"`
}

func DefaultWeights() Weights {
	return Weights{Global: defaultWGlobal, User: defaultWUser}
}

// Combine returns w.Global*global + w.User*user over the union of keys.
// Missing keys count as zero.
func Combine(global, user domain.ScoreMap, w Weights) domain.ScoreMap {
	out := make(domain.ScoreMap, len(global)+len(user))
	for k := range global {
		out[k] = 0
	}
	for k := range user {
		out[k] = 0
	}
	for k := range out {
		out[k] = w.Global*global[k] + w.User*user[k]
	}
	return out
}

// Sum is the unweighted global+user blend used by the rule-based ranker.
func Sum(global, user domain.ScoreMap) domain.ScoreMap {
	return Combine(global, user, Weights{Global: 1, User: 1})
}

// RankByScore orders layout by descending score. Ties keep their original
// relative order. The input slice is not modified.
func RankByScore(layout []string, scores domain.ScoreMap) []string {
	out := make([]string, len(layout))
	copy(out, layout)
	sort.SliceStable(out, func(i, j int) bool {
		return scores[out[i]] > scores[out[j]]
	})
	return out
}
