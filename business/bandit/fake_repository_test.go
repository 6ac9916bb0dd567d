package bandit

import (
	"context"
	"fmt"
	"sync"

	"github.com/IronRon/Adaptive-Landing-AI/domain"
)

// memArmRepo mirrors the atomic contract of the Postgres repository.
type memArmRepo struct {
	mu      sync.Mutex
	arms    map[string]*domain.BanditArm
	listErr error
}

func newMemArmRepo(sections ...string) *memArmRepo {
	r := &memArmRepo{arms: make(map[string]*domain.BanditArm)}
	for i, s := range sections {
		r.arms[s] = &domain.BanditArm{ID: uint(i + 1), Section: s}
	}
	return r
}

func (r *memArmRepo) ListArms(ctx context.Context) ([]domain.BanditArm, error) {
	if r.listErr != nil {
		return nil, r.listErr
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]domain.BanditArm, 0, len(r.arms))
	for _, a := range r.arms {
		out = append(out, *a)
	}
	return out, nil
}

func (r *memArmRepo) GetArm(ctx context.Context, section string) (domain.BanditArm, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	a, ok := r.arms[section]
	if !ok {
		return domain.BanditArm{}, fmt.Errorf("%w: %s", ErrUnknownArm, section)
	}
	return *a, nil
}

func (r *memArmRepo) IncrementArms(ctx context.Context, rewards map[string]float64) error {
	return r.apply(rewards, true)
}

func (r *memArmRepo) CreditRewards(ctx context.Context, rewards map[string]float64) error {
	return r.apply(rewards, false)
}

func (r *memArmRepo) apply(rewards map[string]float64, pull bool) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for s := range rewards {
		if _, ok := r.arms[s]; !ok {
			return fmt.Errorf("%w: %s", ErrUnknownArm, s)
		}
	}
	for s, v := range rewards {
		if pull {
			r.arms[s].Pulls++
		}
		r.arms[s].Reward += v
	}
	return nil
}

func (r *memArmRepo) SeedArms(ctx context.Context, sections []string) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for _, s := range sections {
		if _, ok := r.arms[s]; ok {
			continue
		}
		r.arms[s] = &domain.BanditArm{ID: uint(len(r.arms) + 1), Section: s}
		n++
	}
	return n, nil
}
