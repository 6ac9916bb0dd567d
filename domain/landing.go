package domain

import (
	"errors"
	"strings"
	"time"
)

var ErrPageNotFound = errors.New("landing page not found")

type LandingPage struct {
	ID        uint             `gorm:"primaryKey" json:"id"`
	Name      string           `gorm:"column:name;size:255;not null" json:"name"`
	GlobalCSS string           `gorm:"column:global_css" json:"global_css"`
	CreatedAt time.Time        `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	Sections  []LandingSection `gorm:"foreignKey:PageID" json:"sections,omitempty"`
}

func (LandingPage) TableName() string {
	return "landing_pages"
}

type LandingSection struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	PageID    uint      `gorm:"column:page_id;index;not null" json:"page_id"`
	Key       string    `gorm:"column:key;size:50;not null" json:"key"`
	Order     int       `gorm:"column:order;default:0" json:"order"`
	HTML      string    `gorm:"column:html" json:"html"`
	CSS       string    `gorm:"column:css" json:"css"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
}

func (LandingSection) TableName() string {
	return "landing_sections"
}

// DefaultLayout returns section keys in stored order.
func DefaultLayout(sections []LandingSection) []string {
	out := make([]string, 0, len(sections))
	for _, s := range sections {
		out = append(out, s.Key)
	}
	return out
}

// CombinedCSS joins the page stylesheet with each non-empty section stylesheet.
func CombinedCSS(page LandingPage) string {
	parts := make([]string, 0, len(page.Sections)+1)
	if page.GlobalCSS != "" {
		parts = append(parts, page.GlobalCSS)
	}
	for _, s := range page.Sections {
		if strings.TrimSpace(s.CSS) != "" {
			parts = append(parts, s.CSS)
		}
	}
	return strings.Join(parts, "\n\n")
}
