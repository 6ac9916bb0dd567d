package bandit

import (
	"github.com/IronRon/Adaptive-Landing-AI/domain"
)

// RewardPolicy maps an interaction event type to the reward credited to the
// clicked section. Event types not in the map earn nothing.
type RewardPolicy map[string]float64

func DefaultRewardPolicy() RewardPolicy {
	return RewardPolicy{
		domain.EventTypeClick: 1.0,
	}
}

// RewardsForInteractions sums rewards per section. Events without an element
// or with a zero reward are skipped.
func (p RewardPolicy) RewardsForInteractions(events []domain.Interaction) map[string]float64 {
	out := make(map[string]float64)
	for _, ev := range events {
		if ev.Element == nil || *ev.Element == "" {
			continue
		}
		r, ok := p[ev.EventType]
		if !ok || r == 0 {
			continue
		}
		out[*ev.Element] += r
	}
	return out
}
