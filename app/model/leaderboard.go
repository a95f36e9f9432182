package model

import "github.com/google/uuid"

// LeaderboardEntry is the per-member aggregate over approved achievements.
type LeaderboardEntry struct {
	MemberID         uuid.UUID `gorm:"column:member_id" json:"member_id"`
	FullName         string    `gorm:"column:full_name" json:"full_name"`
	PhotoURL         *string   `gorm:"column:photo_url" json:"photo_url,omitempty"`
	Department       string    `gorm:"column:department" json:"department"`
	TotalPoints      int       `gorm:"column:total_points" json:"total_points"`
	AchievementCount int       `gorm:"column:achievement_count" json:"achievement_count"`
}

type Medal string

const (
	MedalNone   Medal = ""
	MedalGold   Medal = "gold"
	MedalSilver Medal = "silver"
	MedalBronze Medal = "bronze"
)

type RankedEntry struct {
	LeaderboardEntry
	Rank  int   `json:"rank"`
	Medal Medal `json:"medal,omitempty"`
}

type LeaderboardResponse struct {
	Entries      []RankedEntry `json:"entries"`
	TotalMembers int           `json:"total_members"`
}
