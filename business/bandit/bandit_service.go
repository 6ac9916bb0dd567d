package bandit

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sort"

	"github.com/IronRon/Adaptive-Landing-AI/domain"
	"github.com/IronRon/Adaptive-Landing-AI/pkg/logger"
)

// ---- Repository interfaces ----

// ArmRepository is the durable arm store.
//
// IncrementArms must apply every entry as pulls += 1, reward += value in a
// single statement per arm, and must apply nothing if any section is unknown
// (returning an error wrapping ErrUnknownArm). CreditRewards follows the same
// rules but leaves pulls untouched.
type ArmRepository interface {
	ListArms(ctx context.Context) ([]domain.BanditArm, error)
	GetArm(ctx context.Context, section string) (domain.BanditArm, error)
	IncrementArms(ctx context.Context, rewards map[string]float64) error
	CreditRewards(ctx context.Context, rewards map[string]float64) error
	SeedArms(ctx context.Context, sections []string) (int, error)
}

// ---- Service ----

type BanditService struct {
	armRepo ArmRepository
	rewards RewardPolicy
}

func NewBanditService(armRepo ArmRepository, rewards RewardPolicy) *BanditService {
	if rewards == nil {
		rewards = DefaultRewardPolicy()
	}
	return &BanditService{
		armRepo: armRepo,
		rewards: rewards,
	}
}

// GlobalScores scores the current arm snapshot.
func (s *BanditService) GlobalScores(ctx context.Context) (domain.ScoreMap, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("context error: %w", err)
	}

	arms, err := s.armRepo.ListArms(ctx)
	if err != nil {
		return nil, fmt.Errorf("load arms: %w", err)
	}

	return ScoreAll(arms), nil
}

// ListScored returns every arm with its score, ordered by section.
func (s *BanditService) ListScored(ctx context.Context) ([]domain.ArmScore, error) {
	arms, err := s.armRepo.ListArms(ctx)
	if err != nil {
		return nil, fmt.Errorf("load arms: %w", err)
	}

	scores := ScoreAll(arms)
	out := make([]domain.ArmScore, 0, len(arms))
	for _, a := range arms {
		out = append(out, domain.ArmScore{BanditArm: a, Score: scores[a.Section]})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Section < out[j].Section })

	return out, nil
}

// Arm returns a single arm; missing sections wrap ErrUnknownArm.
func (s *BanditService) Arm(ctx context.Context, section string) (domain.BanditArm, error) {
	arm, err := s.armRepo.GetArm(ctx, section)
	if err != nil {
		return domain.BanditArm{}, err
	}
	return arm, nil
}

// RecordOutcome credits one pull and the given reward to each section.
// Every section must already have an arm.
func (s *BanditService) RecordOutcome(ctx context.Context, rewards map[string]float64) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("context error: %w", err)
	}
	if len(rewards) == 0 {
		return ErrNoRewards
	}
	for section, r := range rewards {
		if section == "" {
			return fmt.Errorf("%w: empty section", ErrUnknownArm)
		}
		if math.IsNaN(r) || math.IsInf(r, 0) {
			return fmt.Errorf("%w: %s=%v", ErrInvalidReward, section, r)
		}
	}

	if err := s.armRepo.IncrementArms(ctx, rewards); err != nil {
		ArmUpdateErrorsTotal.Inc()
		if errors.Is(err, ErrUnknownArm) {
			return err
		}
		return fmt.Errorf("failed to update arms: %w", err)
	}

	for section := range rewards {
		ArmUpdatesTotal.WithLabelValues(section).Inc()
	}

	logger.Debug("bandit_record_outcome",
		"trace_id", TraceIDFromContext(ctx),
		"sections", len(rewards),
	)

	return nil
}

// RecordExposure counts one pull for every section the visitor was shown.
// Sections without an arm are skipped.
func (s *BanditService) RecordExposure(ctx context.Context, sections []string) (int, error) {
	if len(sections) == 0 {
		return 0, nil
	}

	known, err := s.knownSections(ctx)
	if err != nil {
		return 0, err
	}

	pulls := make(map[string]float64, len(sections))
	for _, sec := range sections {
		if _, ok := known[sec]; ok {
			pulls[sec] = 0
		}
	}
	if len(pulls) == 0 {
		return 0, nil
	}

	if err := s.RecordOutcome(ctx, pulls); err != nil {
		return 0, err
	}

	return len(pulls), nil
}

// RecordInteractions converts tracked events into rewards using the reward
// policy and credits them to the sections that have arms. Pulls are counted
// by RecordExposure when the layout is served, so this adds reward only.
// Sections without an arm are skipped, so raw browser events never fail the batch.
func (s *BanditService) RecordInteractions(ctx context.Context, events []domain.Interaction) (int, error) {
	rewards := s.rewards.RewardsForInteractions(events)
	if len(rewards) == 0 {
		return 0, nil
	}

	known, err := s.knownSections(ctx)
	if err != nil {
		return 0, err
	}

	for section := range rewards {
		if _, ok := known[section]; !ok {
			logger.Debug("bandit_skip_unknown_section", "section", section)
			delete(rewards, section)
		}
	}
	if len(rewards) == 0 {
		return 0, nil
	}

	if err := s.armRepo.CreditRewards(ctx, rewards); err != nil {
		ArmUpdateErrorsTotal.Inc()
		if errors.Is(err, ErrUnknownArm) {
			return 0, err
		}
		return 0, fmt.Errorf("failed to credit rewards: %w", err)
	}

	for section := range rewards {
		ArmUpdatesTotal.WithLabelValues(section).Inc()
	}

	return len(rewards), nil
}

func (s *BanditService) knownSections(ctx context.Context) (map[string]struct{}, error) {
	arms, err := s.armRepo.ListArms(ctx)
	if err != nil {
		return nil, fmt.Errorf("load arms: %w", err)
	}
	known := make(map[string]struct{}, len(arms))
	for _, a := range arms {
		known[a.Section] = struct{}{}
	}
	return known, nil
}

// SeedArms creates zero-valued arms for sections that have none.
func (s *BanditService) SeedArms(ctx context.Context, sections []string) (int, error) {
	uniq := make([]string, 0, len(sections))
	seen := make(map[string]struct{}, len(sections))
	for _, sec := range sections {
		if sec == "" {
			continue
		}
		if _, ok := seen[sec]; ok {
			continue
		}
		seen[sec] = struct{}{}
		uniq = append(uniq, sec)
	}
	if len(uniq) == 0 {
		return 0, nil
	}

	n, err := s.armRepo.SeedArms(ctx, uniq)
	if err != nil {
		return 0, fmt.Errorf("seed arms: %w", err)
	}

	if n > 0 {
		logger.Info("bandit arms seeded", "created", n)
	}

	return n, nil
}
