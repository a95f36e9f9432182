package repo

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/shanismunderi/ahsas-studentsunion-sub000/app/model"
)

const (
	defaultPageSize = 10
	maxPageSize     = 100
)

// AchievementRepository persists achievement rows.
//
// Error semantics:
//   - ErrNotFound: no row with the given id (or key)
//   - ErrNoRowsAffected: a conditional write matched nothing
//   - ErrDuplicate: idempotency key already used by the member
type AchievementRepository interface {
	Create(ctx context.Context, a *model.Achievement) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Achievement, error)
	FindByIdempotencyKey(ctx context.Context, memberID uuid.UUID, key string) (*model.Achievement, error)
	FindAll(ctx context.Context, filter model.AchievementFilter) ([]model.Achievement, int64, error)

	// UpdatePending applies patch only while the row is still pending.
	// When owner is non-nil the row must also be self-submitted by owner.
	UpdatePending(ctx context.Context, id uuid.UUID, owner *uuid.UUID, patch map[string]any) (*model.Achievement, error)

	// DeletePending removes a pending, self-submitted row owned by owner.
	DeletePending(ctx context.Context, id, owner uuid.UUID) error

	// PendingBacklog returns the number of pending rows and the creation
	// time of the oldest one (nil when there are none).
	PendingBacklog(ctx context.Context) (int64, *time.Time, error)
}

type AchievementRepo struct {
	DB *gorm.DB
}

func NewAchievementRepo(db *gorm.DB) *AchievementRepo {
	return &AchievementRepo{DB: db}
}

func (r *AchievementRepo) Create(ctx context.Context, a *model.Achievement) error {
	return translate(r.DB.WithContext(ctx).Create(a).Error, "achievementrepo.Create")
}

func (r *AchievementRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Achievement, error) {
	var a model.Achievement
	if err := r.DB.WithContext(ctx).Where("id = ?", id).First(&a).Error; err != nil {
		return nil, translate(err, "achievementrepo.FindByID")
	}
	return &a, nil
}

func (r *AchievementRepo) FindByIdempotencyKey(ctx context.Context, memberID uuid.UUID, key string) (*model.Achievement, error) {
	var a model.Achievement
	err := r.DB.WithContext(ctx).
		Where("member_id = ? AND idempotency_key = ?", memberID, key).
		First(&a).Error
	if err != nil {
		return nil, translate(err, "achievementrepo.FindByIdempotencyKey")
	}
	return &a, nil
}

func (r *AchievementRepo) FindAll(ctx context.Context, filter model.AchievementFilter) ([]model.Achievement, int64, error) {
	page, limit := normalizePage(filter.Page, filter.Limit)

	q := r.DB.WithContext(ctx).Model(&model.Achievement{})
	if filter.MemberID != nil {
		q = q.Where("member_id = ?", *filter.MemberID)
	}
	if filter.Status != nil {
		q = q.Where("status = ?", *filter.Status)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, translate(err, "achievementrepo.FindAll count")
	}

	items := []model.Achievement{}
	err := q.Order("created_at DESC").Order("id ASC").
		Limit(limit).
		Offset((page - 1) * limit).
		Find(&items).Error
	if err != nil {
		return nil, 0, translate(err, "achievementrepo.FindAll")
	}
	return items, total, nil
}

func (r *AchievementRepo) UpdatePending(ctx context.Context, id uuid.UUID, owner *uuid.UUID, patch map[string]any) (*model.Achievement, error) {
	var updated model.Achievement
	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if _, ok := patch["updated_at"]; !ok {
			patch["updated_at"] = time.Now().UTC()
		}

		q := tx.Model(&model.Achievement{}).Where("id = ? AND status = ?", id, model.StatusPending)
		if owner != nil {
			q = q.Where("member_id = ? AND added_by IS NULL", *owner)
		}

		res := q.Updates(patch)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrNoRowsAffected
		}
		return tx.Where("id = ?", id).First(&updated).Error
	})
	if err != nil {
		return nil, translate(err, "achievementrepo.UpdatePending")
	}
	return &updated, nil
}

func (r *AchievementRepo) DeletePending(ctx context.Context, id, owner uuid.UUID) error {
	res := r.DB.WithContext(ctx).
		Where("id = ? AND member_id = ? AND status = ? AND added_by IS NULL", id, owner, model.StatusPending).
		Delete(&model.Achievement{})
	if res.Error != nil {
		return translate(res.Error, "achievementrepo.DeletePending")
	}
	if res.RowsAffected == 0 {
		return translate(ErrNoRowsAffected, "achievementrepo.DeletePending")
	}
	return nil
}

func (r *AchievementRepo) PendingBacklog(ctx context.Context) (int64, *time.Time, error) {
	var count int64
	q := r.DB.WithContext(ctx).Model(&model.Achievement{}).Where("status = ?", model.StatusPending)
	if err := q.Count(&count).Error; err != nil {
		return 0, nil, translate(err, "achievementrepo.PendingBacklog count")
	}
	if count == 0 {
		return 0, nil, nil
	}

	var oldest model.Achievement
	err := r.DB.WithContext(ctx).
		Where("status = ?", model.StatusPending).
		Order("created_at ASC").
		First(&oldest).Error
	if err != nil {
		return 0, nil, translate(err, "achievementrepo.PendingBacklog oldest")
	}
	return count, &oldest.CreatedAt, nil
}

func normalizePage(page, limit int) (int, int) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = defaultPageSize
	}
	if limit > maxPageSize {
		limit = maxPageSize
	}
	return page, limit
}
