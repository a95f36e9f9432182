package service

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/shanismunderi/ahsas-studentsunion-sub000/app/model"
)

func TestLeaderboardService_Aggregation(t *testing.T) {
	ctx := context.Background()
	f := newFixture()
	rina := f.store.addMember("Rina")
	budi := f.store.addMember("Budi")

	for _, p := range []int{50, 100, 25} {
		f.store.put(model.Achievement{MemberID: rina, Title: "ok", Category: model.CategoryArts, Status: model.StatusApproved, Points: p})
	}
	f.store.put(model.Achievement{MemberID: rina, Title: "no", Category: model.CategoryArts, Status: model.StatusRejected, AdminFeedback: ptr("x")})
	f.store.put(model.Achievement{MemberID: rina, Title: "wait", Category: model.CategoryArts, Status: model.StatusPending})

	board, err := f.leaderboard.GetLeaderboard(ctx, 0)
	require.NoError(t, err)
	require.Len(t, board.Entries, 2)
	assert.Equal(t, 2, board.TotalMembers)

	top := board.Entries[0]
	assert.Equal(t, rina, top.MemberID)
	assert.Equal(t, 175, top.TotalPoints)
	assert.Equal(t, 3, top.AchievementCount)
	assert.Equal(t, 1, top.Rank)
	assert.Equal(t, model.MedalGold, top.Medal)

	// Members without history are listed with zero totals.
	assert.Equal(t, budi, board.Entries[1].MemberID)
	assert.Zero(t, board.Entries[1].TotalPoints)
	assert.Zero(t, board.Entries[1].AchievementCount)
	assert.Equal(t, model.MedalNone, board.Entries[1].Medal)
}

func TestLeaderboardService_IsIdempotent(t *testing.T) {
	ctx := context.Background()
	f := newFixture()
	for _, name := range []string{"A", "B", "C", "D"} {
		id := f.store.addMember(name)
		f.store.put(model.Achievement{MemberID: id, Title: "t", Category: model.CategoryOther, Status: model.StatusApproved, Points: 100})
	}

	first, err := f.leaderboard.GetLeaderboard(ctx, 0)
	require.NoError(t, err)
	second, err := f.leaderboard.GetLeaderboard(ctx, 0)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestLeaderboardService_TieBreak(t *testing.T) {
	ctx := context.Background()
	f := newFixture()
	f.store.addMemberWithID(memberA, "A")
	f.store.addMemberWithID(memberB, "B")
	f.store.addMemberWithID(memberC, "C")
	f.store.put(model.Achievement{MemberID: memberA, Title: "t", Category: model.CategoryOther, Status: model.StatusApproved, Points: 100})
	f.store.put(model.Achievement{MemberID: memberB, Title: "t", Category: model.CategoryOther, Status: model.StatusApproved, Points: 150})
	f.store.put(model.Achievement{MemberID: memberC, Title: "t", Category: model.CategoryOther, Status: model.StatusApproved, Points: 100})

	for i := 0; i < 5; i++ {
		board, err := f.leaderboard.GetLeaderboard(ctx, 0)
		require.NoError(t, err)
		require.Len(t, board.Entries, 3)
		assert.Equal(t, []uuid.UUID{memberB, memberA, memberC}, []uuid.UUID{
			board.Entries[0].MemberID, board.Entries[1].MemberID, board.Entries[2].MemberID,
		})
	}
}

func TestLeaderboardService_ChessChampionScenario(t *testing.T) {
	ctx := context.Background()
	f := newFixture()
	memberID := f.store.addMember("Rina")

	before, err := f.leaderboard.MemberStanding(ctx, memberID)
	require.NoError(t, err)

	a, err := f.achievement.Submit(ctx, memberID, model.SubmitAchievementRequest{
		Title:    "Regional Chess Champion",
		Category: "sports",
	})
	require.NoError(t, err)
	assert.Equal(t, model.StatusPending, a.Status)
	assert.Zero(t, a.Points)

	pendingStanding, err := f.leaderboard.MemberStanding(ctx, memberID)
	require.NoError(t, err)
	assert.Equal(t, before.TotalPoints, pendingStanding.TotalPoints, "pending achievements do not count")

	approved, err := f.review.Approve(ctx, a.ID, f.admin, model.ApproveRequest{Points: 100, Feedback: ptr("Great job")})
	require.NoError(t, err)
	assert.Equal(t, model.StatusApproved, approved.Status)
	assert.Equal(t, 100, approved.Points)

	after, err := f.leaderboard.MemberStanding(ctx, memberID)
	require.NoError(t, err)
	assert.Equal(t, before.TotalPoints+100, after.TotalPoints)
	assert.Equal(t, before.AchievementCount+1, after.AchievementCount)
}

func TestLeaderboardService_Limit(t *testing.T) {
	ctx := context.Background()
	f := newFixture()
	for i := 0; i < 5; i++ {
		f.store.addMember("m")
	}

	board, err := f.leaderboard.GetLeaderboard(ctx, 3)
	require.NoError(t, err)
	assert.Len(t, board.Entries, 3)
	assert.Equal(t, 5, board.TotalMembers)
}

func TestLeaderboardService_Errors(t *testing.T) {
	ctx := context.Background()

	t.Run("unknown member standing", func(t *testing.T) {
		f := newFixture()
		_, err := f.leaderboard.MemberStanding(ctx, uuid.New())
		require.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("store failure", func(t *testing.T) {
		f := newFixture()
		f.store.Err = errors.New("timeout")
		_, err := f.leaderboard.GetLeaderboard(ctx, 0)
		require.ErrorIs(t, err, ErrStoreUnavailable)
	})
}

func TestLeaderboardService_ExportXLSX(t *testing.T) {
	ctx := context.Background()
	f := newFixture()
	f.store.addMemberWithID(memberA, "Alya")
	f.store.addMemberWithID(memberB, "Bima")
	f.store.put(model.Achievement{MemberID: memberB, Title: "t", Category: model.CategoryOther, Status: model.StatusApproved, Points: 150})

	var buf bytes.Buffer
	require.NoError(t, f.leaderboard.ExportXLSX(ctx, &buf))

	wb, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer wb.Close()

	rows, err := wb.GetRows(leaderboardSheet)
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, []string{"Rank", "Member", "Department", "Points", "Achievements", "Medal"}, rows[0])
	assert.Equal(t, "1", rows[1][0])
	assert.Equal(t, "Bima", rows[1][1])
	assert.Equal(t, "150", rows[1][3])
	assert.Equal(t, "gold", rows[1][5])
	assert.Equal(t, "Alya", rows[2][1])
	assert.Equal(t, "0", rows[2][3])
}
