package domain

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

const EventTypeClick = "click"

// Visitor is a browser identified by its cookie id.
type Visitor struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	CookieID  uuid.UUID `gorm:"column:cookie_id;type:uuid;uniqueIndex;not null" json:"cookie_id"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	LastSeen  time.Time `gorm:"column:last_seen;autoUpdateTime" json:"last_seen"`
}

func (Visitor) TableName() string {
	return "visitors"
}

// Session is one browsing session of a visitor.
type Session struct {
	ID        uint       `gorm:"primaryKey" json:"id"`
	VisitorID uint       `gorm:"column:visitor_id;index;not null" json:"visitor_id"`
	SessionID uuid.UUID  `gorm:"column:session_id;type:uuid;uniqueIndex;not null" json:"session_id"`
	StartedAt time.Time  `gorm:"column:started_at;autoCreateTime" json:"started_at"`
	EndedAt   *time.Time `gorm:"column:ended_at" json:"ended_at"`
	UserAgent string     `gorm:"column:user_agent" json:"user_agent"`
	Referrer  string     `gorm:"column:referrer" json:"referrer"`
	IsActive  bool       `gorm:"column:is_active;default:true" json:"is_active"`
}

func (Session) TableName() string {
	return "sessions"
}

// Interaction is a tracked browser event (click, scroll, ...).
type Interaction struct {
	ID             uint              `gorm:"primaryKey" json:"id"`
	SessionID      uint              `gorm:"column:session_id;index;not null" json:"session_id"`
	EventType      string            `gorm:"column:event_type;size:50;not null" json:"event_type"`
	Element        *string           `gorm:"column:element;size:255" json:"element"`
	Timestamp      time.Time         `gorm:"column:timestamp;autoCreateTime" json:"timestamp"`
	X              *float64          `gorm:"column:x" json:"x"`
	Y              *float64          `gorm:"column:y" json:"y"`
	AdditionalData datatypes.JSONMap `gorm:"column:additional_data;type:jsonb" json:"additional_data"`
}

func (Interaction) TableName() string {
	return "interactions"
}

// VisitorMeta is the per-visitor context handed to rankers and the model.
type VisitorMeta struct {
	VisitorID    uint     `json:"-"`
	SessionCount int      `json:"session_count"`
	ClickCounts  ScoreMap `json:"click_counts"`
}
