package bandit

import (
	"math"

	"github.com/IronRon/Adaptive-Landing-AI/domain"
)

// ScoreAll returns the UCB1 score of every arm.
//
// The log term uses total_pulls + n_arms so untried arms get a finite,
// positive exploration bonus instead of +Inf; scores stay JSON-encodable.
func ScoreAll(arms []domain.BanditArm) domain.ScoreMap {
	nArms := max(1, len(arms))

	totalPulls := 0
	for _, a := range arms {
		totalPulls += a.Pulls
	}

	baseLog := math.Log(math.Max(1, float64(totalPulls+nArms)))

	scores := make(domain.ScoreMap, len(arms))
	for _, a := range arms {
		mean := 0.0
		denom := 1.0
		if a.Pulls > 0 {
			mean = a.Reward / float64(a.Pulls)
			denom = float64(a.Pulls)
		}
		scores[a.Section] = mean + math.Sqrt(2*baseLog/denom)
	}

	return scores
}
