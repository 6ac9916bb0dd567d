package recommend

import (
	"context"
	"time"

	"github.com/IronRon/Adaptive-Landing-AI/business/scoring"
	"github.com/IronRon/Adaptive-Landing-AI/domain"
)

// Strategy selects how a layout is produced.
type Strategy string

const (
	// StrategyModel asks the external model and falls back to the rule-based
	// ranker when it fails or answers with something unusable.
	StrategyModel Strategy = "model"
	// StrategyWeighted ranks by the weighted global/user blend.
	StrategyWeighted Strategy = "weighted"
	// StrategyRules always uses the rule-based ranker.
	StrategyRules Strategy = "rules"
)

// State is a step of a single Recommend call.
type State string

const (
	StateStart         State = "start"
	StateModelCalled   State = "model_called"
	StateModelAccepted State = "model_accepted"
	StateModelRejected State = "model_rejected"
	StateFallbackRun   State = "fallback_run"
	StateDone          State = "done"
)

// ---- collaborators ----

type GlobalScorer interface {
	GlobalScores(ctx context.Context) (domain.ScoreMap, error)
}

type VisitorScorer interface {
	Snapshot(ctx context.Context, visitorID uint) (domain.VisitorMeta, error)
}

// ModelClient submits the prompt context to the external model and returns
// its raw text answer.
type ModelClient interface {
	Complete(ctx context.Context, prompt PromptContext) (string, error)
}

// AuditLog stores accepted model answers.
type AuditLog interface {
	Record(ctx context.Context, pageID uint, visitorID uint, result map[string]any) error
}

// ---- payloads ----

type SectionAsset struct {
	HTML string `json:"html"`
}

// PromptContext is everything the model sees about the page and the visitor.
type PromptContext struct {
	DefaultLayout []string                `json:"default_layout"`
	GlobalScores  domain.ScoreMap         `json:"global_scores"`
	UserScores    domain.ScoreMap         `json:"user_scores"`
	VisitorMeta   domain.VisitorMeta      `json:"visitor_meta"`
	Assets        map[string]SectionAsset `json:"assets,omitempty"`
	CombinedCSS   string                  `json:"combined_css,omitempty"`
}

// Request identifies the page and visitor to personalise for.
type Request struct {
	PageID      uint
	VisitorID   uint
	Sections    []domain.LandingSection
	CombinedCSS string
}

type Config struct {
	Strategy     Strategy
	Weights      scoring.Weights
	ModelTimeout time.Duration
}

func DefaultConfig() Config {
	return Config{
		Strategy:     StrategyModel,
		Weights:      scoring.DefaultWeights(),
		ModelTimeout: 15 * time.Second,
	}
}
