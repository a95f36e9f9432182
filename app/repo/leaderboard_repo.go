package repo

import (
	"context"

	"gorm.io/gorm"

	"github.com/shanismunderi/ahsas-studentsunion-sub000/app/model"
)

// LeaderboardRepository computes per-member point totals.
type LeaderboardRepository interface {
	// Aggregate returns one entry per member, including members without
	// approved achievements (zero totals). Order is unspecified.
	Aggregate(ctx context.Context) ([]model.LeaderboardEntry, error)
}

type LeaderboardRepo struct {
	DB *gorm.DB
}

func NewLeaderboardRepo(db *gorm.DB) *LeaderboardRepo {
	return &LeaderboardRepo{DB: db}
}

// Aggregate reads the member_points view created by db.Migrate.
func (r *LeaderboardRepo) Aggregate(ctx context.Context) ([]model.LeaderboardEntry, error) {
	entries := []model.LeaderboardEntry{}
	if err := r.DB.WithContext(ctx).Table("member_points").Scan(&entries).Error; err != nil {
		return nil, translate(err, "leaderboardrepo.Aggregate")
	}
	return entries, nil
}
