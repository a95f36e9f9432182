package service

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/shanismunderi/ahsas-studentsunion-sub000/app/model"
)

// DefaultPointTiers is the award scale used when none is configured.
func DefaultPointTiers() map[string]int {
	return map[string]int{
		"participation": 25,
		"merit":         50,
		"distinction":   75,
		"excellence":    100,
		"outstanding":   150,
		"exceptional":   200,
	}
}

// PointTiers is the closed set of point values a reviewer may award.
type PointTiers struct {
	tiers   []model.PointTier
	allowed map[int]struct{}
}

func NewPointTiers(table map[string]int) (*PointTiers, error) {
	if len(table) == 0 {
		return nil, fmt.Errorf("point tier table is empty")
	}

	pt := &PointTiers{allowed: make(map[int]struct{}, len(table))}
	for label, points := range table {
		label = strings.TrimSpace(label)
		if label == "" {
			return nil, fmt.Errorf("point tier with empty label")
		}
		if points <= 0 {
			return nil, fmt.Errorf("point tier %q must award positive points, got %d", label, points)
		}
		if _, dup := pt.allowed[points]; dup {
			return nil, fmt.Errorf("point tier %q duplicates %d points", label, points)
		}
		pt.allowed[points] = struct{}{}
		pt.tiers = append(pt.tiers, model.PointTier{Label: label, Points: points})
	}

	sort.Slice(pt.tiers, func(i, j int) bool { return pt.tiers[i].Points < pt.tiers[j].Points })
	return pt, nil
}

func (t *PointTiers) Allowed(points int) bool {
	_, ok := t.allowed[points]
	return ok
}

// List returns the tiers ordered by points ascending.
func (t *PointTiers) List() []model.PointTier {
	out := make([]model.PointTier, len(t.tiers))
	copy(out, t.tiers)
	return out
}

func (t *PointTiers) describe() string {
	values := make([]string, len(t.tiers))
	for i, tier := range t.tiers {
		values[i] = strconv.Itoa(tier.Points)
	}
	return strings.Join(values, ", ")
}
