package service

import (
	"cmp"
	"slices"
	"strings"

	"github.com/shanismunderi/ahsas-studentsunion-sub000/app/model"
)

// Rank orders entries by total points descending, breaking ties by approved
// achievement count descending and then member id ascending, and numbers
// them by position starting at 1. Equal scores still get distinct ranks.
// The input slice is not modified.
func Rank(entries []model.LeaderboardEntry) []model.RankedEntry {
	sorted := slices.Clone(entries)
	slices.SortFunc(sorted, compareEntries)

	ranked := make([]model.RankedEntry, len(sorted))
	for i, e := range sorted {
		ranked[i] = model.RankedEntry{
			LeaderboardEntry: e,
			Rank:             i + 1,
			Medal:            medalFor(i+1, e.TotalPoints),
		}
	}
	return ranked
}

// Top returns at most limit entries. A non-positive limit means all.
func Top(ranked []model.RankedEntry, limit int) []model.RankedEntry {
	if limit <= 0 || limit >= len(ranked) {
		return ranked
	}
	return ranked[:limit]
}

func compareEntries(a, b model.LeaderboardEntry) int {
	if c := cmp.Compare(b.TotalPoints, a.TotalPoints); c != 0 {
		return c
	}
	if c := cmp.Compare(b.AchievementCount, a.AchievementCount); c != 0 {
		return c
	}
	return strings.Compare(a.MemberID.String(), b.MemberID.String())
}

// medalFor marks the podium. Members without points never get a medal.
func medalFor(rank, points int) model.Medal {
	if points <= 0 {
		return model.MedalNone
	}
	switch rank {
	case 1:
		return model.MedalGold
	case 2:
		return model.MedalSilver
	case 3:
		return model.MedalBronze
	}
	return model.MedalNone
}
