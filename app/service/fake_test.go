package service

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/shanismunderi/ahsas-studentsunion-sub000/app/model"
	"github.com/shanismunderi/ahsas-studentsunion-sub000/app/repo"
)

// ------------------------
// In-memory store
// ------------------------

// fakeStore keeps members, achievements and review events in memory and
// applies the same conditional-write rules as the gorm repositories.
type fakeStore struct {
	mu           sync.Mutex
	members      map[uuid.UUID]model.Member
	achievements map[uuid.UUID]model.Achievement
	events       []model.ReviewEvent
	seq          int

	// Err, when set, fails every call.
	Err error
	// RecordErr fails only review log writes.
	RecordErr error

	trace []string
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		members:      map[uuid.UUID]model.Member{},
		achievements: map[uuid.UUID]model.Achievement{},
	}
}

func (s *fakeStore) Trace() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]string, len(s.trace))
	copy(out, s.trace)
	return out
}

func (s *fakeStore) addMember(name string) uuid.UUID {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := uuid.New()
	s.members[id] = model.Member{ID: id, FullName: name, Department: "Engineering"}
	return id
}

func (s *fakeStore) addMemberWithID(id uuid.UUID, name string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.members[id] = model.Member{ID: id, FullName: name}
}

func (s *fakeStore) put(a model.Achievement) uuid.UUID {
	s.mu.Lock()
	defer s.mu.Unlock()
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	s.seq++
	a.CreatedAt = time.Date(2025, 1, 1, 0, 0, s.seq, 0, time.UTC)
	a.UpdatedAt = a.CreatedAt
	s.achievements[a.ID] = a
	return a.ID
}

func (s *fakeStore) get(id uuid.UUID) (model.Achievement, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	a, ok := s.achievements[id]
	return a, ok
}

func (s *fakeStore) count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.achievements)
}

// ------------------------
// Achievement repository
// ------------------------

type fakeAchievements struct{ *fakeStore }

func (f fakeAchievements) Create(ctx context.Context, a *model.Achievement) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.trace = append(f.trace, "Create")
	if f.Err != nil {
		return f.Err
	}
	if a.IdempotencyKey != nil {
		for _, existing := range f.achievements {
			if existing.MemberID == a.MemberID && existing.IdempotencyKey != nil && *existing.IdempotencyKey == *a.IdempotencyKey {
				return errors.Wrap(repo.ErrDuplicate, "fake.Create")
			}
		}
	}
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	f.seq++
	a.CreatedAt = time.Date(2025, 1, 1, 0, 0, f.seq, 0, time.UTC)
	a.UpdatedAt = a.CreatedAt
	f.achievements[a.ID] = *a
	return nil
}

func (f fakeAchievements) FindByID(ctx context.Context, id uuid.UUID) (*model.Achievement, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.trace = append(f.trace, "FindByID")
	if f.Err != nil {
		return nil, f.Err
	}
	a, ok := f.achievements[id]
	if !ok {
		return nil, errors.Wrap(repo.ErrNotFound, "fake.FindByID")
	}
	return &a, nil
}

func (f fakeAchievements) FindByIdempotencyKey(ctx context.Context, memberID uuid.UUID, key string) (*model.Achievement, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.trace = append(f.trace, "FindByIdempotencyKey")
	if f.Err != nil {
		return nil, f.Err
	}
	for _, a := range f.achievements {
		if a.MemberID == memberID && a.IdempotencyKey != nil && *a.IdempotencyKey == key {
			return &a, nil
		}
	}
	return nil, errors.Wrap(repo.ErrNotFound, "fake.FindByIdempotencyKey")
}

func (f fakeAchievements) FindAll(ctx context.Context, filter model.AchievementFilter) ([]model.Achievement, int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.trace = append(f.trace, "FindAll")
	if f.Err != nil {
		return nil, 0, f.Err
	}

	matched := []model.Achievement{}
	for _, a := range f.achievements {
		if filter.MemberID != nil && a.MemberID != *filter.MemberID {
			continue
		}
		if filter.Status != nil && a.Status != *filter.Status {
			continue
		}
		matched = append(matched, a)
	}
	sort.Slice(matched, func(i, j int) bool { return matched[i].CreatedAt.After(matched[j].CreatedAt) })

	page, limit := filter.Page, filter.Limit
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 10
	}
	start := (page - 1) * limit
	if start > len(matched) {
		start = len(matched)
	}
	end := start + limit
	if end > len(matched) {
		end = len(matched)
	}
	return matched[start:end], int64(len(matched)), nil
}

func (f fakeAchievements) UpdatePending(ctx context.Context, id uuid.UUID, owner *uuid.UUID, patch map[string]any) (*model.Achievement, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.trace = append(f.trace, "UpdatePending")
	if f.Err != nil {
		return nil, f.Err
	}

	a, ok := f.achievements[id]
	if !ok || a.Status != model.StatusPending {
		return nil, errors.Wrap(repo.ErrNoRowsAffected, "fake.UpdatePending")
	}
	if owner != nil && (a.MemberID != *owner || a.AddedBy != nil) {
		return nil, errors.Wrap(repo.ErrNoRowsAffected, "fake.UpdatePending")
	}
	if err := applyPatch(&a, patch); err != nil {
		return nil, err
	}
	f.achievements[id] = a
	return &a, nil
}

func (f fakeAchievements) DeletePending(ctx context.Context, id, owner uuid.UUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.trace = append(f.trace, "DeletePending")
	if f.Err != nil {
		return f.Err
	}
	a, ok := f.achievements[id]
	if !ok || a.Status != model.StatusPending || a.MemberID != owner || a.AddedBy != nil {
		return errors.Wrap(repo.ErrNoRowsAffected, "fake.DeletePending")
	}
	delete(f.achievements, id)
	return nil
}

func (f fakeAchievements) PendingBacklog(ctx context.Context) (int64, *time.Time, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.trace = append(f.trace, "PendingBacklog")
	if f.Err != nil {
		return 0, nil, f.Err
	}
	var count int64
	var oldest *time.Time
	for _, a := range f.achievements {
		if a.Status != model.StatusPending {
			continue
		}
		count++
		if oldest == nil || a.CreatedAt.Before(*oldest) {
			t := a.CreatedAt
			oldest = &t
		}
	}
	return count, oldest, nil
}

func applyPatch(a *model.Achievement, patch map[string]any) error {
	for key, value := range patch {
		switch key {
		case "title":
			a.Title = value.(string)
		case "description":
			a.Description = value.(*string)
		case "category":
			a.Category = value.(model.Category)
		case "achievement_date":
			a.AchievementDate = value.(*time.Time)
		case "file_url":
			a.FileURL = value.(*string)
		case "status":
			a.Status = value.(model.ReviewStatus)
		case "points":
			a.Points = value.(int)
		case "admin_feedback":
			a.AdminFeedback = value.(*string)
		case "reviewed_by":
			id := value.(uuid.UUID)
			a.ReviewedBy = &id
		case "reviewed_at":
			t := value.(time.Time)
			a.ReviewedAt = &t
		case "updated_at":
			a.UpdatedAt = value.(time.Time)
		default:
			return fmt.Errorf("fake: unexpected patch column %q", key)
		}
	}
	return nil
}

// ------------------------
// Member repository
// ------------------------

type fakeMembers struct{ *fakeStore }

func (f fakeMembers) FindByID(ctx context.Context, id uuid.UUID) (*model.Member, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.trace = append(f.trace, "Members.FindByID")
	if f.Err != nil {
		return nil, f.Err
	}
	m, ok := f.members[id]
	if !ok {
		return nil, errors.Wrap(repo.ErrNotFound, "fake.Members.FindByID")
	}
	return &m, nil
}

// ------------------------
// Leaderboard repository
// ------------------------

type fakeLeaderboard struct{ *fakeStore }

func (f fakeLeaderboard) Aggregate(ctx context.Context) ([]model.LeaderboardEntry, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.trace = append(f.trace, "Aggregate")
	if f.Err != nil {
		return nil, f.Err
	}

	byMember := make(map[uuid.UUID]*model.LeaderboardEntry, len(f.members))
	for id, m := range f.members {
		byMember[id] = &model.LeaderboardEntry{MemberID: id, FullName: m.FullName, Department: m.Department}
	}
	for _, a := range f.achievements {
		e, ok := byMember[a.MemberID]
		if !ok || a.Status != model.StatusApproved {
			continue
		}
		e.TotalPoints += a.Points
		e.AchievementCount++
	}

	out := make([]model.LeaderboardEntry, 0, len(byMember))
	for _, e := range byMember {
		out = append(out, *e)
	}
	return out, nil
}

// ------------------------
// Review log repository
// ------------------------

type fakeReviewLog struct{ *fakeStore }

func (f fakeReviewLog) Record(ctx context.Context, event *model.ReviewEvent) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.trace = append(f.trace, "Record")
	if f.RecordErr != nil {
		return f.RecordErr
	}
	f.events = append(f.events, *event)
	return nil
}

func (f fakeReviewLog) FindByAchievement(ctx context.Context, achievementID uuid.UUID) ([]model.ReviewEvent, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.trace = append(f.trace, "FindByAchievement")
	if f.RecordErr != nil {
		return nil, f.RecordErr
	}
	out := []model.ReviewEvent{}
	for _, e := range f.events {
		if e.AchievementID == achievementID.String() {
			out = append(out, e)
		}
	}
	return out, nil
}

// ------------------------
// Blob store
// ------------------------

type fakeBlobs struct {
	mu      sync.Mutex
	objects map[string][]byte
	types   map[string]string
	Err     error
}

func newFakeBlobs() *fakeBlobs {
	return &fakeBlobs{objects: map[string][]byte{}, types: map[string]string{}}
}

func (b *fakeBlobs) Upload(ctx context.Context, bucket, path string, body []byte, contentType string) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.Err != nil {
		return b.Err
	}
	b.objects[bucket+"/"+path] = body
	b.types[bucket+"/"+path] = contentType
	return nil
}

func (b *fakeBlobs) PublicURL(bucket, path string) string {
	return "https://cdn.test/" + bucket + "/" + path
}

func (b *fakeBlobs) uploads() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.objects)
}

// ------------------------
// Metrics
// ------------------------

type fakeMetrics struct {
	mu         sync.Mutex
	submitted  int
	uploaded   int
	decisions  map[model.ReviewDecision]int
	conflicts  int
	pending    int64
	pendingAge time.Duration
}

func newFakeMetrics() *fakeMetrics {
	return &fakeMetrics{decisions: map[model.ReviewDecision]int{}}
}

func (m *fakeMetrics) AchievementSubmitted() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.submitted++
}

func (m *fakeMetrics) CertificateUploaded() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.uploaded++
}

func (m *fakeMetrics) ReviewConflict() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.conflicts++
}

func (m *fakeMetrics) ReviewDecided(decision model.ReviewDecision) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.decisions[decision]++
}

func (m *fakeMetrics) PendingBacklog(count int64, oldestAge time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.pending = count
	m.pendingAge = oldestAge
}

// ------------------------
// Fixture
// ------------------------

var fixedNow = time.Date(2025, 3, 14, 9, 30, 0, 0, time.UTC)

type fixture struct {
	store       *fakeStore
	blobs       *fakeBlobs
	metrics     *fakeMetrics
	achievement *AchievementService
	review      *ReviewService
	leaderboard *LeaderboardService
	admin       model.Actor
}

func newFixture() *fixture {
	store := newFakeStore()
	blobs := newFakeBlobs()
	metrics := newFakeMetrics()
	deps := Deps{Metrics: metrics, Clock: func() time.Time { return fixedNow }}

	tiers, err := NewPointTiers(DefaultPointTiers())
	if err != nil {
		panic(err)
	}

	return &fixture{
		store:       store,
		blobs:       blobs,
		metrics:     metrics,
		achievement: NewAchievementService(fakeAchievements{store}, fakeMembers{store}, blobs, "", deps),
		review:      NewReviewService(fakeAchievements{store}, fakeMembers{store}, fakeReviewLog{store}, tiers, deps),
		leaderboard: NewLeaderboardService(fakeLeaderboard{store}, fakeMembers{store}, deps),
		admin:       model.Actor{ID: uuid.New(), Role: model.RoleAdmin},
	}
}

func ptr[T any](v T) *T { return &v }
