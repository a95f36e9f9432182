package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Member is the read side of a provisioned member profile.
type Member struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	FullName   string    `gorm:"size:150;not null" json:"full_name"`
	PhotoURL   *string   `gorm:"type:text" json:"photo_url"`
	Department string    `gorm:"size:100" json:"department"`
	CreatedAt  time.Time `json:"created_at"`

	Achievements []Achievement `gorm:"foreignKey:MemberID" json:"achievements,omitempty"`
}

func (Member) TableName() string {
	return "members"
}

func (m *Member) BeforeCreate(tx *gorm.DB) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	return nil
}
