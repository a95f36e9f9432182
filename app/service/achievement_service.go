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
	"github.com/shanismunderi/ahsas-studentsunion-sub000/storage"
)

// AchievementService is the member side of the workflow: submitting,
// editing and withdrawing achievements while they wait for review.
type AchievementService struct {
	achievements repo.AchievementRepository
	members      repo.MemberRepository
	blobs        storage.BlobStore
	bucket       string
	deps         Deps
}

func NewAchievementService(achievements repo.AchievementRepository, members repo.MemberRepository, blobs storage.BlobStore, bucket string, deps Deps) *AchievementService {
	if bucket == "" {
		bucket = CertificateBucket
	}
	return &AchievementService{
		achievements: achievements,
		members:      members,
		blobs:        blobs,
		bucket:       bucket,
		deps:         deps.withDefaults(),
	}
}

// Submit stores a new pending achievement for memberID. Replaying a request
// with the same idempotency key returns the achievement created first.
func (s *AchievementService) Submit(ctx context.Context, memberID uuid.UUID, req model.SubmitAchievementRequest) (*model.Achievement, error) {
	ctx, span := s.deps.Tracer.Start(ctx, "AchievementService.Submit")
	defer span.End()
	span.SetAttributes(attribute.String("member_id", memberID.String()))

	if err := validateRequest(req); err != nil {
		return nil, err
	}
	category, _ := model.ParseCategory(req.Category)
	date, err := parseDate(req.AchievementDate)
	if err != nil {
		return nil, err
	}

	if _, err := s.members.FindByID(ctx, memberID); err != nil {
		return nil, storeError("submit achievement", err)
	}

	key := strings.TrimSpace(req.IdempotencyKey)
	if key != "" {
		existing, err := s.achievements.FindByIdempotencyKey(ctx, memberID, key)
		if err == nil {
			s.deps.Logger.InfoContext(ctx, "achievement submission replayed",
				"achievement_id", existing.ID, "member_id", memberID)
			return existing, nil
		}
		if !errors.Is(err, repo.ErrNotFound) {
			return nil, storeError("submit achievement", err)
		}
	}

	a := &model.Achievement{
		MemberID:        memberID,
		Title:           strings.TrimSpace(req.Title),
		Description:     trimmedOrNil(req.Description),
		Category:        category,
		AchievementDate: date,
		FileURL:         trimmedOrNil(req.FileURL),
		Points:          0,
		Status:          model.StatusPending,
	}
	if key != "" {
		a.IdempotencyKey = &key
	}

	if err := s.achievements.Create(ctx, a); err != nil {
		if key != "" && errors.Is(err, repo.ErrDuplicate) {
			if existing, ferr := s.achievements.FindByIdempotencyKey(ctx, memberID, key); ferr == nil {
				return existing, nil
			}
		}
		s.deps.Logger.ErrorContext(ctx, "failed to store achievement", "member_id", memberID, "error", err)
		return nil, storeError("submit achievement", err)
	}

	s.deps.Metrics.AchievementSubmitted()
	s.deps.Logger.InfoContext(ctx, "achievement submitted",
		"achievement_id", a.ID, "member_id", memberID, "category", a.Category)
	return a, nil
}

// Update changes a pending, self-submitted achievement owned by memberID.
func (s *AchievementService) Update(ctx context.Context, achievementID, memberID uuid.UUID, req model.UpdateAchievementRequest) (*model.Achievement, error) {
	ctx, span := s.deps.Tracer.Start(ctx, "AchievementService.Update")
	defer span.End()
	span.SetAttributes(attribute.String("achievement_id", achievementID.String()))

	if err := validateRequest(req); err != nil {
		return nil, err
	}
	if req.Empty() {
		return nil, invalid("body", "must change at least one field")
	}

	patch := map[string]any{}
	if req.Title != nil {
		patch["title"] = strings.TrimSpace(*req.Title)
	}
	if req.Description != nil {
		patch["description"] = trimmedOrNil(req.Description)
	}
	if req.Category != nil {
		category, _ := model.ParseCategory(*req.Category)
		patch["category"] = category
	}
	if req.AchievementDate != nil {
		date, err := parseDate(req.AchievementDate)
		if err != nil {
			return nil, err
		}
		patch["achievement_date"] = date
	}
	if req.FileURL != nil {
		patch["file_url"] = trimmedOrNil(req.FileURL)
	}

	updated, err := s.achievements.UpdatePending(ctx, achievementID, &memberID, patch)
	if err != nil {
		if errors.Is(err, repo.ErrNoRowsAffected) {
			return nil, s.explainLockedRecord(ctx, achievementID, memberID, "update")
		}
		return nil, storeError("update achievement", err)
	}

	s.deps.Logger.InfoContext(ctx, "achievement updated", "achievement_id", achievementID, "member_id", memberID)
	return updated, nil
}

// Delete withdraws a pending, self-submitted achievement owned by memberID.
func (s *AchievementService) Delete(ctx context.Context, achievementID, memberID uuid.UUID) error {
	ctx, span := s.deps.Tracer.Start(ctx, "AchievementService.Delete")
	defer span.End()
	span.SetAttributes(attribute.String("achievement_id", achievementID.String()))

	if err := s.achievements.DeletePending(ctx, achievementID, memberID); err != nil {
		if errors.Is(err, repo.ErrNoRowsAffected) {
			return s.explainLockedRecord(ctx, achievementID, memberID, "delete")
		}
		return storeError("delete achievement", err)
	}

	s.deps.Logger.InfoContext(ctx, "achievement deleted", "achievement_id", achievementID, "member_id", memberID)
	return nil
}

// explainLockedRecord reports why a conditional member write matched nothing.
func (s *AchievementService) explainLockedRecord(ctx context.Context, achievementID, memberID uuid.UUID, action string) error {
	a, err := s.achievements.FindByID(ctx, achievementID)
	if err != nil {
		return storeError(action+" achievement", err)
	}
	switch {
	case a.MemberID != memberID:
		return fmt.Errorf("%w: you cannot %s another member's achievement", ErrForbidden, action)
	case !a.SelfSubmitted():
		return fmt.Errorf("%w: achievements added by an admin cannot be changed", ErrForbidden)
	case a.Status != model.StatusPending:
		return fmt.Errorf("%w: achievement is %s and can no longer be changed", ErrForbidden, a.Status)
	}
	// The row became writable again between the two statements; let the
	// caller retry against fresh state.
	return fmt.Errorf("%w: achievement changed concurrently", ErrConflict)
}

// UploadCertificate stores a certificate file for memberID and returns its
// public URL. Invalid files are rejected before the blob store is contacted.
func (s *AchievementService) UploadCertificate(ctx context.Context, memberID uuid.UUID, file model.CertificateFile) (string, error) {
	ctx, span := s.deps.Tracer.Start(ctx, "AchievementService.UploadCertificate")
	defer span.End()

	contentType, ext, err := ValidateCertificate(file)
	if err != nil {
		return "", err
	}

	path := certificatePath(memberID, file.FileName, ext)
	if err := s.blobs.Upload(ctx, s.bucket, path, file.Data, contentType); err != nil {
		s.deps.Logger.ErrorContext(ctx, "certificate upload failed", "member_id", memberID, "path", path, "error", err)
		return "", fmt.Errorf("upload certificate: %w: %w", ErrStoreUnavailable, err)
	}

	s.deps.Metrics.CertificateUploaded()
	s.deps.Logger.InfoContext(ctx, "certificate uploaded", "member_id", memberID, "path", path, "content_type", contentType)
	return s.blobs.PublicURL(s.bucket, path), nil
}

// Get returns an achievement visible to actor: admins see everything,
// members see their own records and anyone's approved ones.
func (s *AchievementService) Get(ctx context.Context, achievementID uuid.UUID, actor model.Actor) (*model.Achievement, error) {
	a, err := s.achievements.FindByID(ctx, achievementID)
	if err != nil {
		return nil, storeError("get achievement", err)
	}
	if !actor.IsAdmin() && a.MemberID != actor.ID && a.Status != model.StatusApproved {
		return nil, fmt.Errorf("%w: achievement belongs to another member", ErrForbidden)
	}
	return a, nil
}

// ListByMember pages through memberID's achievements, optionally by status.
func (s *AchievementService) ListByMember(ctx context.Context, memberID uuid.UUID, status *model.ReviewStatus, page, limit int) ([]model.Achievement, int64, error) {
	items, total, err := s.achievements.FindAll(ctx, model.AchievementFilter{
		MemberID: &memberID,
		Status:   status,
		Page:     page,
		Limit:    limit,
	})
	if err != nil {
		return nil, 0, storeError("list achievements", err)
	}
	return items, total, nil
}
