package recommend

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/IronRon/Adaptive-Landing-AI/domain"
	"github.com/IronRon/Adaptive-Landing-AI/pkg/logger"
)

type Service struct {
	global GlobalScorer
	user   VisitorScorer
	model  ModelClient
	audit  AuditLog
	cfg    Config
}

// NewService wires the orchestrator. model and audit may be nil: a nil model
// makes every model-strategy call fall back, a nil audit skips logging.
func NewService(global GlobalScorer, user VisitorScorer, model ModelClient, audit AuditLog, cfg Config) *Service {
	if cfg.Strategy == "" {
		cfg.Strategy = StrategyModel
	}
	return &Service{
		global: global,
		user:   user,
		model:  model,
		audit:  audit,
		cfg:    cfg,
	}
}

// run tracks one Recommend call for logging.
type run struct {
	req    Request
	states []State
	reason string
}

func (r *run) enter(s State) {
	r.states = append(r.states, s)
}

// Recommend always returns a usable layout. Failures of the scorers, the
// model or the audit log are logged and degrade to the rule-based ranker.
func (s *Service) Recommend(ctx context.Context, req Request) domain.RecommendationResult {
	r := &run{req: req}
	r.enter(StateStart)

	defaultLayout := domain.DefaultLayout(req.Sections)
	global := s.globalScores(ctx)
	visitor := s.visitorMeta(ctx, req.VisitorID)
	user := visitor.ClickCounts

	var res domain.RecommendationResult
	switch s.cfg.Strategy {
	case StrategyRules:
		r.enter(StateFallbackRun)
		res = RankFallback(defaultLayout, visitor, global, user)
		OutcomesTotal.WithLabelValues(string(StrategyRules), "").Inc()
	case StrategyWeighted:
		res = RankWeighted(defaultLayout, visitor, global, user, s.cfg.Weights)
		OutcomesTotal.WithLabelValues(string(StrategyWeighted), "").Inc()
	default:
		res = s.viaModel(ctx, r, defaultLayout, visitor, global, user)
	}

	r.enter(StateDone)
	logger.Debug("recommend_done",
		"page_id", req.PageID,
		"visitor_id", req.VisitorID,
		"strategy", string(s.cfg.Strategy),
		"states", r.states,
		"reason", r.reason,
		"layout", res.Layout,
	)

	return res
}

func (s *Service) viaModel(ctx context.Context, r *run, defaultLayout []string, visitor domain.VisitorMeta, global, user domain.ScoreMap) domain.RecommendationResult {
	prompt := PromptContext{
		DefaultLayout: defaultLayout,
		GlobalScores:  global,
		UserScores:    user,
		VisitorMeta:   visitor,
		Assets:        assetsOf(r.req.Sections),
		CombinedCSS:   r.req.CombinedCSS,
	}

	parsed, err := s.askModel(ctx, r, prompt)
	if err != nil {
		r.enter(StateModelRejected)
		r.reason = rejectReason(err)
		logger.Warn("model recommendation rejected, using fallback", "page_id", r.req.PageID, "reason", r.reason, err)

		r.enter(StateFallbackRun)
		OutcomesTotal.WithLabelValues("fallback", r.reason).Inc()
		res := RankFallback(defaultLayout, visitor, global, user)
		res.Debug["fallback_reason"] = r.reason
		return res
	}

	r.enter(StateModelAccepted)
	OutcomesTotal.WithLabelValues(string(StrategyModel), "").Inc()
	s.recordAudit(ctx, r.req, parsed)

	return domain.RecommendationResult{
		Layout:         sanitizeLayout(parsed["layout"], defaultLayout),
		Customizations: sanitizeCustomizations(parsed["customizations"]),
		Debug: map[string]any{
			"global_scores": plainScores(global),
			"user_scores":   plainScores(user),
			"weights":       s.cfg.Weights,
			"used_llm":      true,
		},
	}
}

// askModel performs exactly one model call. The returned error wraps one of
// ErrModelTransport, ErrModelParse or ErrInvalidModelOutput.
func (s *Service) askModel(ctx context.Context, r *run, prompt PromptContext) (map[string]any, error) {
	if s.model == nil {
		return nil, fmt.Errorf("%w: model disabled", ErrModelTransport)
	}

	callCtx := ctx
	if s.cfg.ModelTimeout > 0 {
		var cancel context.CancelFunc
		callCtx, cancel = context.WithTimeout(ctx, s.cfg.ModelTimeout)
		defer cancel()
	}

	r.enter(StateModelCalled)
	start := time.Now()
	raw, err := s.model.Complete(callCtx, prompt)
	ModelLatency.Observe(time.Since(start).Seconds())
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrModelTransport, err)
	}

	parsed, ok := ParseModelOutput(raw)
	if !ok {
		return nil, ErrModelParse
	}
	if err := validateModelOutput(parsed, prompt.DefaultLayout); err != nil {
		return nil, err
	}
	return parsed, nil
}

// validateModelOutput requires a layout array that still names at least one
// known section once sanitized.
func validateModelOutput(out map[string]any, known []string) error {
	if len(out) == 0 {
		return fmt.Errorf("%w: empty object", ErrInvalidModelOutput)
	}
	layout, ok := out["layout"]
	if !ok {
		return ErrInvalidModelOutput
	}
	if _, ok := layout.([]any); !ok {
		return fmt.Errorf("%w: layout is %T", ErrInvalidModelOutput, layout)
	}
	if len(known) > 0 && len(sanitizeLayout(layout, known)) == 0 {
		return fmt.Errorf("%w: layout names no known section", ErrInvalidModelOutput)
	}
	return nil
}

func (s *Service) recordAudit(ctx context.Context, req Request, parsed map[string]any) {
	if s.audit == nil {
		return
	}
	snapshot := make(map[string]any, len(parsed))
	for k, v := range parsed {
		snapshot[k] = v
	}
	if err := s.audit.Record(ctx, req.PageID, req.VisitorID, snapshot); err != nil {
		logger.Error("failed to store model recommendation", fmt.Errorf("%w: %v", ErrPersistence, err))
	}
}

func (s *Service) globalScores(ctx context.Context) domain.ScoreMap {
	if s.global == nil {
		return domain.ScoreMap{}
	}
	scores, err := s.global.GlobalScores(ctx)
	if err != nil {
		logger.Warn("global scores unavailable", err)
		return domain.ScoreMap{}
	}
	if scores == nil {
		return domain.ScoreMap{}
	}
	return scores
}

// visitorMeta treats visitor 0 as anonymous.
func (s *Service) visitorMeta(ctx context.Context, visitorID uint) domain.VisitorMeta {
	empty := domain.VisitorMeta{VisitorID: visitorID, ClickCounts: domain.ScoreMap{}}
	if s.user == nil || visitorID == 0 {
		return empty
	}
	meta, err := s.user.Snapshot(ctx, visitorID)
	if err != nil {
		if !errors.Is(err, context.Canceled) {
			logger.Warn("visitor scores unavailable", "visitor_id", visitorID, err)
		}
		return empty
	}
	if meta.ClickCounts == nil {
		meta.ClickCounts = domain.ScoreMap{}
	}
	return meta
}

func assetsOf(sections []domain.LandingSection) map[string]SectionAsset {
	out := make(map[string]SectionAsset, len(sections))
	for _, sec := range sections {
		out[sec.Key] = SectionAsset{HTML: sec.HTML}
	}
	return out
}

// sanitizeLayout keeps string entries naming known sections, in the model's
// order, without duplicates. With no known sections every string is kept.
func sanitizeLayout(raw any, known []string) []string {
	items, _ := raw.([]any)
	allowed := make(map[string]struct{}, len(known))
	for _, k := range known {
		allowed[k] = struct{}{}
	}

	out := make([]string, 0, len(items))
	seen := make(map[string]struct{}, len(items))
	for _, it := range items {
		key, ok := it.(string)
		if !ok {
			continue
		}
		if len(allowed) > 0 {
			if _, ok := allowed[key]; !ok {
				continue
			}
		}
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, key)
	}
	return out
}

// sanitizeCustomizations keeps per-section objects and their scalar values.
func sanitizeCustomizations(raw any) map[string]domain.Customization {
	out := map[string]domain.Customization{}
	sections, ok := raw.(map[string]any)
	if !ok {
		return out
	}
	for section, v := range sections {
		fields, ok := v.(map[string]any)
		if !ok {
			continue
		}
		c := domain.Customization{}
		for k, fv := range fields {
			switch fv.(type) {
			case string, float64, bool, nil:
				c[k] = fv
			}
		}
		out[section] = c
	}
	return out
}
