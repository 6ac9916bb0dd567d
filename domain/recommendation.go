package domain

import (
	"time"

	"gorm.io/datatypes"
)

// Customization is a per-section override such as {"text": ..., "style": ...}.
type Customization map[string]any

// RecommendationResult is what the presentation layer receives. It only holds
// plain JSON values.
type RecommendationResult struct {
	Layout         []string                 `json:"layout"`
	Customizations map[string]Customization `json:"customizations"`
	Debug          map[string]any           `json:"debug"`
}

// AIRecommendation is an audit record of an accepted model response.
type AIRecommendation struct {
	ID           uint              `gorm:"primaryKey" json:"id"`
	PageID       uint              `gorm:"column:page_id;index;not null" json:"page_id"`
	VisitorID    *uint             `gorm:"column:visitor_id;index" json:"visitor_id"`
	CreatedAt    time.Time         `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	ResponseJSON datatypes.JSONMap `gorm:"column:response_json;type:jsonb;not null" json:"response_json"`
}

func (AIRecommendation) TableName() string {
	return "ai_recommendations"
}
