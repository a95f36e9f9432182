package model

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type ReviewDecision string

const (
	DecisionApproved        ReviewDecision = "approved"
	DecisionRejected        ReviewDecision = "rejected"
	DecisionCreatedApproved ReviewDecision = "created_approved"
)

// ReviewEvent is one entry of the append-only review audit trail.
type ReviewEvent struct {
	ID            primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	AchievementID string             `bson:"achievementId" json:"achievement_id"`
	MemberID      string             `bson:"memberId" json:"member_id"`
	ReviewerID    string             `bson:"reviewerId" json:"reviewer_id"`
	Decision      ReviewDecision     `bson:"decision" json:"decision"`
	Points        int                `bson:"points" json:"points"`
	Feedback      string             `bson:"feedback,omitempty" json:"feedback,omitempty"`
	OccurredAt    time.Time          `bson:"occurredAt" json:"occurred_at"`
}

type PointTier struct {
	Label  string `json:"label"`
	Points int    `json:"points"`
}
