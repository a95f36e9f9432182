package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"

	"github.com/shanismunderi/ahsas-studentsunion-sub000/app/model"
	"github.com/shanismunderi/ahsas-studentsunion-sub000/app/repo"
)

// ReviewService moves achievements out of pending. Every transition is a
// single conditional write; losing a race with another reviewer yields
// ErrConflict and leaves the row untouched.
type ReviewService struct {
	achievements repo.AchievementRepository
	members      repo.MemberRepository
	reviews      repo.ReviewLogRepository
	tiers        *PointTiers
	deps         Deps
}

func NewReviewService(achievements repo.AchievementRepository, members repo.MemberRepository, reviews repo.ReviewLogRepository, tiers *PointTiers, deps Deps) *ReviewService {
	return &ReviewService{
		achievements: achievements,
		members:      members,
		reviews:      reviews,
		tiers:        tiers,
		deps:         deps.withDefaults(),
	}
}

// PointTiers returns the configured award scale.
func (s *ReviewService) PointTiers() []model.PointTier {
	return s.tiers.List()
}

func (s *ReviewService) Approve(ctx context.Context, achievementID uuid.UUID, reviewer model.Actor, req model.ApproveRequest) (*model.Achievement, error) {
	ctx, span := s.deps.Tracer.Start(ctx, "ReviewService.Approve")
	defer span.End()
	span.SetAttributes(
		attribute.String("achievement_id", achievementID.String()),
		attribute.Int("points", req.Points),
	)

	if err := requireAdmin(reviewer, "review achievements"); err != nil {
		return nil, err
	}
	if err := validateRequest(req); err != nil {
		return nil, err
	}
	if !s.tiers.Allowed(req.Points) {
		return nil, invalid("points", "must be one of "+s.tiers.describe())
	}

	feedback := trimmedOrNil(req.Feedback)
	return s.decide(ctx, achievementID, reviewer, model.StatusApproved, req.Points, feedback)
}

func (s *ReviewService) Reject(ctx context.Context, achievementID uuid.UUID, reviewer model.Actor, req model.RejectRequest) (*model.Achievement, error) {
	ctx, span := s.deps.Tracer.Start(ctx, "ReviewService.Reject")
	defer span.End()
	span.SetAttributes(attribute.String("achievement_id", achievementID.String()))

	if err := requireAdmin(reviewer, "review achievements"); err != nil {
		return nil, err
	}
	if err := validateRequest(req); err != nil {
		return nil, err
	}

	feedback := strings.TrimSpace(req.Feedback)
	return s.decide(ctx, achievementID, reviewer, model.StatusRejected, 0, &feedback)
}

func (s *ReviewService) decide(ctx context.Context, achievementID uuid.UUID, reviewer model.Actor, status model.ReviewStatus, points int, feedback *string) (*model.Achievement, error) {
	now := s.deps.Clock()
	patch := map[string]any{
		"status":         status,
		"points":         points,
		"admin_feedback": feedback,
		"reviewed_by":    reviewer.ID,
		"reviewed_at":    now,
		"updated_at":     now,
	}

	updated, err := s.achievements.UpdatePending(ctx, achievementID, nil, patch)
	if err != nil {
		if errors.Is(err, repo.ErrNoRowsAffected) {
			return nil, s.explainReviewed(ctx, achievementID)
		}
		s.deps.Logger.ErrorContext(ctx, "review write failed",
			"achievement_id", achievementID, "status", status, "error", err)
		return nil, storeError("review achievement", err)
	}

	decision := model.DecisionApproved
	if status == model.StatusRejected {
		decision = model.DecisionRejected
	}
	s.record(ctx, updated, reviewer.ID, decision)

	s.deps.Logger.InfoContext(ctx, "achievement reviewed",
		"achievement_id", updated.ID,
		"member_id", updated.MemberID,
		"reviewer_id", reviewer.ID,
		"status", updated.Status,
		"points", updated.Points,
	)
	return updated, nil
}

func (s *ReviewService) explainReviewed(ctx context.Context, achievementID uuid.UUID) error {
	current, err := s.achievements.FindByID(ctx, achievementID)
	if err != nil {
		return storeError("review achievement", err)
	}
	s.deps.Metrics.ReviewConflict()
	s.deps.Logger.WarnContext(ctx, "review lost to an earlier decision",
		"achievement_id", achievementID, "status", current.Status)
	return fmt.Errorf("achievement is %s: %w", current.Status, ErrConflict)
}

// CreateOnBehalf inserts an achievement that is approved from the start,
// authored and reviewed by the same admin. Points are not bound to the tier
// table here.
func (s *ReviewService) CreateOnBehalf(ctx context.Context, memberID uuid.UUID, reviewer model.Actor, req model.CreateOnBehalfRequest) (*model.Achievement, error) {
	ctx, span := s.deps.Tracer.Start(ctx, "ReviewService.CreateOnBehalf")
	defer span.End()
	span.SetAttributes(attribute.String("member_id", memberID.String()))

	if err := requireAdmin(reviewer, "add achievements for members"); err != nil {
		return nil, err
	}
	if err := validateRequest(req); err != nil {
		return nil, err
	}
	category, _ := model.ParseCategory(req.Category)
	date, err := parseDate(req.AchievementDate)
	if err != nil {
		return nil, err
	}

	if _, err := s.members.FindByID(ctx, memberID); err != nil {
		return nil, storeError("create achievement", err)
	}

	now := s.deps.Clock()
	reviewerID := reviewer.ID
	a := &model.Achievement{
		MemberID:        memberID,
		Title:           strings.TrimSpace(req.Title),
		Description:     trimmedOrNil(req.Description),
		Category:        category,
		AchievementDate: date,
		FileURL:         trimmedOrNil(req.FileURL),
		Points:          req.Points,
		Status:          model.StatusApproved,
		AdminFeedback:   trimmedOrNil(req.Feedback),
		ReviewedBy:      &reviewerID,
		ReviewedAt:      &now,
		AddedBy:         &reviewerID,
	}
	if err := s.achievements.Create(ctx, a); err != nil {
		s.deps.Logger.ErrorContext(ctx, "failed to store achievement", "member_id", memberID, "error", err)
		return nil, storeError("create achievement", err)
	}

	s.record(ctx, a, reviewer.ID, model.DecisionCreatedApproved)
	s.deps.Logger.InfoContext(ctx, "achievement added for member",
		"achievement_id", a.ID, "member_id", memberID, "reviewer_id", reviewer.ID, "points", a.Points)
	return a, nil
}

// ListQueue pages through achievements for the review queue. A nil status
// defaults to pending.
func (s *ReviewService) ListQueue(ctx context.Context, reviewer model.Actor, status *model.ReviewStatus, page, limit int) ([]model.Achievement, int64, error) {
	if err := requireAdmin(reviewer, "list the review queue"); err != nil {
		return nil, 0, err
	}
	if status == nil {
		pending := model.StatusPending
		status = &pending
	}
	items, total, err := s.achievements.FindAll(ctx, model.AchievementFilter{
		Status: status,
		Page:   page,
		Limit:  limit,
	})
	if err != nil {
		return nil, 0, storeError("list review queue", err)
	}
	return items, total, nil
}

// History returns the recorded review decisions for an achievement, oldest first.
func (s *ReviewService) History(ctx context.Context, achievementID uuid.UUID, reviewer model.Actor) ([]model.ReviewEvent, error) {
	if err := requireAdmin(reviewer, "read review history"); err != nil {
		return nil, err
	}
	if _, err := s.achievements.FindByID(ctx, achievementID); err != nil {
		return nil, storeError("review history", err)
	}
	events, err := s.reviews.FindByAchievement(ctx, achievementID)
	if err != nil {
		return nil, fmt.Errorf("review history: %w: %w", ErrStoreUnavailable, err)
	}
	return events, nil
}

// record appends to the audit trail. The row is already committed, so a
// failure here is logged and not returned.
func (s *ReviewService) record(ctx context.Context, a *model.Achievement, reviewerID uuid.UUID, decision model.ReviewDecision) {
	s.deps.Metrics.ReviewDecided(decision)

	event := model.ReviewEvent{
		AchievementID: a.ID.String(),
		MemberID:      a.MemberID.String(),
		ReviewerID:    reviewerID.String(),
		Decision:      decision,
		Points:        a.Points,
		OccurredAt:    s.deps.Clock(),
	}
	if a.AdminFeedback != nil {
		event.Feedback = *a.AdminFeedback
	}
	if err := s.reviews.Record(ctx, &event); err != nil {
		s.deps.Logger.WarnContext(ctx, "failed to record review event",
			"achievement_id", a.ID, "decision", decision, "error", err)
	}
}

func requireAdmin(actor model.Actor, action string) error {
	if !actor.IsAdmin() {
		return fmt.Errorf("%w: only admins may %s", ErrForbidden, action)
	}
	return nil
}
