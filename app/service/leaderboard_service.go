package service

import (
	"context"
	"fmt"
	"io"

	"github.com/google/uuid"
	"github.com/xuri/excelize/v2"

	"github.com/shanismunderi/ahsas-studentsunion-sub000/app/model"
	"github.com/shanismunderi/ahsas-studentsunion-sub000/app/repo"
)

const leaderboardSheet = "Leaderboard"

var leaderboardHeader = []interface{}{"Rank", "Member", "Department", "Points", "Achievements", "Medal"}

// LeaderboardService ranks members by approved points. Nothing is cached:
// every call aggregates from the current achievement rows.
type LeaderboardService struct {
	leaderboard repo.LeaderboardRepository
	members     repo.MemberRepository
	deps        Deps
}

func NewLeaderboardService(leaderboard repo.LeaderboardRepository, members repo.MemberRepository, deps Deps) *LeaderboardService {
	return &LeaderboardService{
		leaderboard: leaderboard,
		members:     members,
		deps:        deps.withDefaults(),
	}
}

// GetLeaderboard returns the ranked members, truncated to limit when limit > 0.
func (s *LeaderboardService) GetLeaderboard(ctx context.Context, limit int) (*model.LeaderboardResponse, error) {
	ranked, err := s.ranked(ctx)
	if err != nil {
		return nil, err
	}
	return &model.LeaderboardResponse{
		Entries:      Top(ranked, limit),
		TotalMembers: len(ranked),
	}, nil
}

// MemberStanding returns the ranked entry of a single member.
func (s *LeaderboardService) MemberStanding(ctx context.Context, memberID uuid.UUID) (*model.RankedEntry, error) {
	if _, err := s.members.FindByID(ctx, memberID); err != nil {
		return nil, storeError("member standing", err)
	}
	ranked, err := s.ranked(ctx)
	if err != nil {
		return nil, err
	}
	for i := range ranked {
		if ranked[i].MemberID == memberID {
			return &ranked[i], nil
		}
	}
	return nil, fmt.Errorf("member standing: %w", ErrNotFound)
}

// ExportXLSX writes the full leaderboard as a single-sheet workbook.
func (s *LeaderboardService) ExportXLSX(ctx context.Context, w io.Writer) error {
	ctx, span := s.deps.Tracer.Start(ctx, "LeaderboardService.ExportXLSX")
	defer span.End()

	ranked, err := s.ranked(ctx)
	if err != nil {
		return err
	}

	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName(f.GetSheetName(f.GetActiveSheetIndex()), leaderboardSheet); err != nil {
		return fmt.Errorf("export leaderboard: %w", err)
	}
	if err := f.SetSheetRow(leaderboardSheet, "A1", &leaderboardHeader); err != nil {
		return fmt.Errorf("export leaderboard: %w", err)
	}
	for i, e := range ranked {
		axis, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return fmt.Errorf("export leaderboard: %w", err)
		}
		row := []interface{}{e.Rank, e.FullName, e.Department, e.TotalPoints, e.AchievementCount, string(e.Medal)}
		if err := f.SetSheetRow(leaderboardSheet, axis, &row); err != nil {
			return fmt.Errorf("export leaderboard: %w", err)
		}
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("export leaderboard: %w", err)
	}
	s.deps.Logger.InfoContext(ctx, "leaderboard exported", "rows", len(ranked))
	return nil
}

func (s *LeaderboardService) ranked(ctx context.Context) ([]model.RankedEntry, error) {
	ctx, span := s.deps.Tracer.Start(ctx, "LeaderboardService.Aggregate")
	defer span.End()

	entries, err := s.leaderboard.Aggregate(ctx)
	if err != nil {
		s.deps.Logger.ErrorContext(ctx, "leaderboard aggregation failed", "error", err)
		return nil, storeError("leaderboard", err)
	}
	return Rank(entries), nil
}
