package model

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Category string

const (
	CategoryAcademic     Category = "academic"
	CategorySports       Category = "sports"
	CategoryLeadership   Category = "leadership"
	CategoryArts         Category = "arts"
	CategoryCommunity    Category = "community"
	CategoryInnovation   Category = "innovation"
	CategoryProfessional Category = "professional"
	CategoryOther        Category = "other"
)

// Categories lists the recognized achievement categories in display order.
var Categories = []Category{
	CategoryAcademic,
	CategorySports,
	CategoryLeadership,
	CategoryArts,
	CategoryCommunity,
	CategoryInnovation,
	CategoryProfessional,
	CategoryOther,
}

// ParseCategory normalizes s and reports whether it names a known category.
func ParseCategory(s string) (Category, bool) {
	c := Category(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range Categories {
		if c == known {
			return c, true
		}
	}
	return "", false
}

type ReviewStatus string

const (
	StatusPending  ReviewStatus = "pending"
	StatusApproved ReviewStatus = "approved"
	StatusRejected ReviewStatus = "rejected"
)

func ParseReviewStatus(s string) (ReviewStatus, bool) {
	switch st := ReviewStatus(strings.ToLower(strings.TrimSpace(s))); st {
	case StatusPending, StatusApproved, StatusRejected:
		return st, true
	}
	return "", false
}

// Terminal reports whether no review transition may leave the status.
func (s ReviewStatus) Terminal() bool {
	return s == StatusApproved || s == StatusRejected
}

// DateLayout is the wire format of achievement dates.
const DateLayout = "2006-01-02"

type Achievement struct {
	ID              uuid.UUID    `gorm:"type:uuid;primaryKey" json:"id"`
	MemberID        uuid.UUID    `gorm:"type:uuid;not null;index;uniqueIndex:idx_achievements_member_idem,priority:1" json:"member_id"`
	Title           string       `gorm:"type:text;not null" json:"title"`
	Description     *string      `gorm:"type:text" json:"description"`
	Category        Category     `gorm:"type:varchar(32);not null" json:"category"`
	AchievementDate *time.Time   `gorm:"type:date" json:"achievement_date"`
	FileURL         *string      `gorm:"type:text" json:"file_url"`
	Points          int          `gorm:"not null;default:0" json:"points"`
	Status          ReviewStatus `gorm:"type:varchar(16);not null;default:'pending';index" json:"status"`
	AdminFeedback   *string      `gorm:"type:text" json:"admin_feedback"`
	ReviewedBy      *uuid.UUID   `gorm:"type:uuid" json:"reviewed_by"`
	ReviewedAt      *time.Time   `json:"reviewed_at"`
	AddedBy         *uuid.UUID   `gorm:"type:uuid" json:"added_by"`
	IdempotencyKey  *string      `gorm:"type:varchar(64);uniqueIndex:idx_achievements_member_idem,priority:2" json:"-"`
	CreatedAt       time.Time    `json:"created_at"`
	UpdatedAt       time.Time    `json:"updated_at"`
}

func (Achievement) TableName() string {
	return "achievements"
}

func (a *Achievement) BeforeCreate(tx *gorm.DB) error {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	return nil
}

// SelfSubmitted reports whether the owning member created the record.
func (a *Achievement) SelfSubmitted() bool {
	return a.AddedBy == nil
}

// EditableBy reports whether memberID may still change or remove the record.
func (a *Achievement) EditableBy(memberID uuid.UUID) bool {
	return a.MemberID == memberID && a.SelfSubmitted() && a.Status == StatusPending
}

type SubmitAchievementRequest struct {
	Title           string  `json:"title" form:"title" validate:"required,notblank,max=200"`
	Description     *string `json:"description,omitempty" form:"description" validate:"omitempty,max=4000"`
	Category        string  `json:"category" form:"category" validate:"required,category"`
	AchievementDate *string `json:"achievement_date,omitempty" form:"achievement_date" validate:"omitempty,datetime=2006-01-02"`
	FileURL         *string `json:"file_url,omitempty" form:"file_url" validate:"omitempty,url"`
	IdempotencyKey  string  `json:"-" validate:"omitempty,max=64"`
}

type UpdateAchievementRequest struct {
	Title           *string `json:"title,omitempty" validate:"omitempty,notblank,max=200"`
	Description     *string `json:"description,omitempty" validate:"omitempty,max=4000"`
	Category        *string `json:"category,omitempty" validate:"omitempty,category"`
	AchievementDate *string `json:"achievement_date,omitempty" validate:"omitempty,datetime=2006-01-02"`
	FileURL         *string `json:"file_url,omitempty" validate:"omitempty,url"`
}

// Empty reports whether the request changes nothing.
func (r UpdateAchievementRequest) Empty() bool {
	return r.Title == nil && r.Description == nil && r.Category == nil &&
		r.AchievementDate == nil && r.FileURL == nil
}

type ApproveRequest struct {
	Points   int     `json:"points" validate:"required,gt=0"`
	Feedback *string `json:"feedback,omitempty" validate:"omitempty,max=2000"`
}

type RejectRequest struct {
	Feedback string `json:"feedback" validate:"required,notblank,max=2000"`
}

type CreateOnBehalfRequest struct {
	Title           string  `json:"title" validate:"required,notblank,max=200"`
	Description     *string `json:"description,omitempty" validate:"omitempty,max=4000"`
	Category        string  `json:"category" validate:"required,category"`
	AchievementDate *string `json:"achievement_date,omitempty" validate:"omitempty,datetime=2006-01-02"`
	FileURL         *string `json:"file_url,omitempty" validate:"omitempty,url"`
	Points          int     `json:"points" validate:"gte=0"`
	Feedback        *string `json:"feedback,omitempty" validate:"omitempty,max=2000"`
}

// AchievementFilter narrows achievement listings. Zero values mean "any".
type AchievementFilter struct {
	MemberID *uuid.UUID
	Status   *ReviewStatus
	Page     int
	Limit    int
}

// CertificateFile is an uploaded certificate held in memory for validation.
type CertificateFile struct {
	FileName    string
	ContentType string
	Size        int64
	Data        []byte
}

type CertificateResponse struct {
	FileURL string `json:"file_url"`
}
