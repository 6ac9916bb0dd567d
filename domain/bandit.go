package domain

// BanditArm tracks aggregate engagement for one landing section.
type BanditArm struct {
	ID      uint    `gorm:"primaryKey" json:"id"`
	Section string  `gorm:"column:section;size:50;uniqueIndex;not null" json:"section"`
	Pulls   int     `gorm:"column:pulls;not null;default:0" json:"pulls"`
	Reward  float64 `gorm:"column:reward;not null;default:0" json:"reward"`
}

func (BanditArm) TableName() string {
	return "bandit_arms"
}

// ArmScore is an arm together with its current UCB1 score.
type ArmScore struct {
	BanditArm
	Score float64 `json:"score"`
}

// ScoreMap maps a section key to a score.
type ScoreMap map[string]float64
