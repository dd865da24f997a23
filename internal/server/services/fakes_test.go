package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/dmitrijs2005/postsets/internal/common"
	"github.com/dmitrijs2005/postsets/internal/dbx"
	"github.com/dmitrijs2005/postsets/internal/logging"
	"github.com/dmitrijs2005/postsets/internal/server/cache"
	"github.com/dmitrijs2005/postsets/internal/server/config"
	"github.com/dmitrijs2005/postsets/internal/server/models"
	"github.com/dmitrijs2005/postsets/internal/server/repositories/posts"
	"github.com/dmitrijs2005/postsets/internal/server/repositories/reference"
	"github.com/dmitrijs2005/postsets/internal/server/repositories/setposts"
	"github.com/dmitrijs2005/postsets/internal/server/repositories/sets"
	"github.com/dmitrijs2005/postsets/internal/server/repositories/users"
)

var privacyIDs = map[models.Privacy]int{
	models.PrivacyPublic:      1,
	models.PrivacyUnlisted:    2,
	models.PrivacyPrivate:     3,
	models.PrivacyUnpublished: 4,
	models.PrivacyDraft:       5,
}

// memStore is an in-memory repository manager. It enforces the uniqueness
// of (set, post) and (set, index) so that a broken shift shows up as an error.
type memStore struct {
	mu      sync.Mutex
	clock   time.Time
	sets    map[models.SetID]*models.SetRecord
	entries map[models.SetID]map[models.PostID]int
	posts   map[models.PostID]*models.PostRecord
	users   map[string]int64

	setGets     int
	handleCalls int
	calls       []string
}

func newMemStore() *memStore {
	return &memStore{
		clock:   time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		sets:    map[models.SetID]*models.SetRecord{},
		entries: map[models.SetID]map[models.PostID]int{},
		posts:   map[models.PostID]*models.PostRecord{},
		users:   map[string]int64{},
	}
}

func (m *memStore) tick() time.Time {
	m.clock = m.clock.Add(time.Second)
	return m.clock
}

func (m *memStore) addUser(handle string, id int64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.users[handle] = id
}

func (m *memStore) addPost(id models.PostID, uploader int64, privacy models.Privacy) {
	m.mu.Lock()
	defer m.mu.Unlock()
	w, h := 640, 480
	m.posts[id] = &models.PostRecord{
		ID:        id,
		RatingID:  1,
		Width:     &w,
		Height:    &h,
		Uploader:  uploader,
		PrivacyID: privacyIDs[privacy],
		Created:   m.tick(),
	}
}

// order returns the post ids of a set by index, failing the test if the
// indices are not exactly 0..count-1.
func (m *memStore) order(t *testing.T, id models.SetID) []models.PostID {
	t.Helper()
	m.mu.Lock()
	defer m.mu.Unlock()

	byIndex := make(map[int]models.PostID)
	for p, idx := range m.entries[id] {
		if _, dup := byIndex[idx]; dup {
			t.Fatalf("set %d: duplicate index %d", id, idx)
		}
		byIndex[idx] = p
	}
	out := make([]models.PostID, len(byIndex))
	for i := range out {
		p, ok := byIndex[i]
		if !ok {
			t.Fatalf("set %d: indices not dense: %v", id, m.entries[id])
		}
		out[i] = p
	}
	return out
}

func (m *memStore) revision(id models.SetID) int64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	if s, ok := m.sets[id]; ok {
		return s.Revision
	}
	return 0
}

// takeCalls returns the membership repository calls made since the last
// call and resets the log.
func (m *memStore) takeCalls() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := m.calls
	m.calls = nil
	return out
}

func (m *memStore) gets() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.setGets
}

func (m *memStore) RunMigrations(context.Context, *sql.DB) error { return nil }
func (m *memStore) Sets(dbx.DBTX) sets.Repository               { return fakeSets{m} }
func (m *memStore) SetPosts(dbx.DBTX) setposts.Repository       { return fakeSetPosts{m} }
func (m *memStore) Posts(dbx.DBTX) posts.Repository             { return fakePosts{m} }
func (m *memStore) Users(dbx.DBTX) users.Repository             { return fakeUsers{m} }
func (m *memStore) Reference(dbx.DBTX) reference.Repository     { return fakeReference{} }

type fakeSets struct{ m *memStore }

func (f fakeSets) Exists(_ context.Context, id models.SetID) (bool, error) {
	f.m.mu.Lock()
	defer f.m.mu.Unlock()
	_, ok := f.m.sets[id]
	return ok, nil
}

func (f fakeSets) Create(_ context.Context, set *models.Set) error {
	f.m.mu.Lock()
	defer f.m.mu.Unlock()
	if _, ok := f.m.sets[set.ID]; ok {
		return common.ErrorConflict
	}
	now := f.m.tick()
	set.Created, set.Updated, set.Revision = now, now, 1
	rec := &models.SetRecord{Set: *set.Clone(), PrivacyID: privacyIDs[set.Privacy]}
	rec.Privacy = ""
	f.m.sets[set.ID] = rec
	f.m.entries[set.ID] = map[models.PostID]int{}
	return nil
}

// summaryLocked fills count, first and last like the SQL subqueries do.
func (f fakeSets) summaryLocked(rec *models.SetRecord) *models.SetRecord {
	out := &models.SetRecord{Set: *rec.Set.Clone(), PrivacyID: rec.PrivacyID}
	out.First, out.Last, out.Count = nil, nil, len(f.m.entries[rec.ID])
	for p, idx := range f.m.entries[rec.ID] {
		if idx == 0 {
			out.First = &p
		}
		if idx == out.Count-1 {
			out.Last = &p
		}
	}
	return out
}

func (f fakeSets) Get(_ context.Context, id models.SetID) (*models.SetRecord, error) {
	f.m.mu.Lock()
	defer f.m.mu.Unlock()
	f.m.setGets++
	rec, ok := f.m.sets[id]
	if !ok {
		return nil, common.ErrorNotFound
	}
	return f.summaryLocked(rec), nil
}

func (f fakeSets) Update(_ context.Context, id models.SetID, changes []sets.Assignment) (time.Time, int64, error) {
	f.m.mu.Lock()
	defer f.m.mu.Unlock()
	rec, ok := f.m.sets[id]
	if !ok {
		return time.Time{}, 0, common.ErrorNotFound
	}
	for _, c := range changes {
		switch c.Field {
		case sets.FieldOwner:
			rec.Owner = c.Value.(int64)
		case sets.FieldTitle:
			rec.Title = c.Value.(*string)
		case sets.FieldDescription:
			rec.Description = c.Value.(*string)
		case sets.FieldPrivacy:
			rec.PrivacyID = privacyIDs[models.Privacy(c.Value.(string))]
		default:
			return time.Time{}, 0, fmt.Errorf("unknown set field %q", c.Field)
		}
	}
	rec.Updated = f.m.tick()
	rec.Revision++
	return rec.Updated, rec.Revision, nil
}

func (f fakeSets) Delete(_ context.Context, id models.SetID) error {
	f.m.mu.Lock()
	defer f.m.mu.Unlock()
	if _, ok := f.m.sets[id]; !ok {
		return common.ErrorNotFound
	}
	delete(f.m.sets, id)
	delete(f.m.entries, id)
	return nil
}

func (f fakeSets) LockForMutation(_ context.Context, id models.SetID) (int64, error) {
	f.m.mu.Lock()
	defer f.m.mu.Unlock()
	f.m.calls = append(f.m.calls, "lock")
	rec, ok := f.m.sets[id]
	if !ok {
		return 0, common.ErrorNotFound
	}
	rec.Revision++
	return rec.Revision, nil
}

func (f fakeSets) sortedLocked() []*models.SetRecord {
	out := make([]*models.SetRecord, 0, len(f.m.sets))
	for _, rec := range f.m.sets {
		out = append(out, rec)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Created.Equal(out[j].Created) {
			return out[i].ID < out[j].ID
		}
		return out[i].Created.Before(out[j].Created)
	})
	return out
}

func (f fakeSets) ListByOwner(_ context.Context, owner int64) ([]*models.SetRecord, error) {
	f.m.mu.Lock()
	defer f.m.mu.Unlock()
	var out []*models.SetRecord
	for _, rec := range f.sortedLocked() {
		if rec.Owner == owner {
			out = append(out, f.summaryLocked(rec))
		}
	}
	return out, nil
}

func (f fakeSets) ListByPost(_ context.Context, postID models.PostID) ([]sets.Membership, error) {
	f.m.mu.Lock()
	defer f.m.mu.Unlock()
	var out []sets.Membership
	for _, rec := range f.sortedLocked() {
		if idx, ok := f.m.entries[rec.ID][postID]; ok {
			out = append(out, sets.Membership{Set: f.summaryLocked(rec), Index: idx})
		}
	}
	return out, nil
}

type fakeSetPosts struct{ m *memStore }

func (f fakeSetPosts) Count(_ context.Context, setID models.SetID) (int, error) {
	f.m.mu.Lock()
	defer f.m.mu.Unlock()
	f.m.calls = append(f.m.calls, "count")
	return len(f.m.entries[setID]), nil
}

func (f fakeSetPosts) IndexOf(_ context.Context, setID models.SetID, postID models.PostID) (int, bool, error) {
	f.m.mu.Lock()
	defer f.m.mu.Unlock()
	f.m.calls = append(f.m.calls, "indexOf")
	idx, ok := f.m.entries[setID][postID]
	return idx, ok, nil
}

func (f fakeSetPosts) ShiftUp(_ context.Context, setID models.SetID, from int) error {
	f.m.mu.Lock()
	defer f.m.mu.Unlock()
	f.m.calls = append(f.m.calls, "shiftUp")
	for p, idx := range f.m.entries[setID] {
		if idx >= from {
			f.m.entries[setID][p] = idx + 1
		}
	}
	return nil
}

func (f fakeSetPosts) ShiftDown(_ context.Context, setID models.SetID, after int) error {
	f.m.mu.Lock()
	defer f.m.mu.Unlock()
	f.m.calls = append(f.m.calls, "shiftDown")
	for p, idx := range f.m.entries[setID] {
		if idx > after {
			f.m.entries[setID][p] = idx - 1
		}
	}
	return nil
}

func (f fakeSetPosts) Insert(_ context.Context, e models.SetEntry) error {
	f.m.mu.Lock()
	defer f.m.mu.Unlock()
	f.m.calls = append(f.m.calls, "insert")
	entries, ok := f.m.entries[e.SetID]
	if !ok {
		return errors.New("foreign key violation")
	}
	if _, dup := entries[e.PostID]; dup {
		return common.ErrorConflict
	}
	for _, idx := range entries {
		if idx == e.Index {
			return common.ErrorConflict
		}
	}
	entries[e.PostID] = e.Index
	return nil
}

func (f fakeSetPosts) Delete(_ context.Context, setID models.SetID, postID models.PostID) (int, bool, error) {
	f.m.mu.Lock()
	defer f.m.mu.Unlock()
	f.m.calls = append(f.m.calls, "delete")
	idx, ok := f.m.entries[setID][postID]
	if ok {
		delete(f.m.entries[setID], postID)
	}
	return idx, ok, nil
}

func (f fakeSetPosts) Window(_ context.Context, setID models.SetID, index, radius int) ([]models.IndexedPostRecord, error) {
	f.m.mu.Lock()
	defer f.m.mu.Unlock()
	var out []models.IndexedPostRecord
	for p, idx := range f.m.entries[setID] {
		if idx == index || idx < index-radius || idx > index+radius {
			continue
		}
		post, ok := f.m.posts[p]
		if !ok {
			continue
		}
		out = append(out, models.IndexedPostRecord{Index: idx, Post: *post})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Index < out[j].Index })
	return out, nil
}

type fakePosts struct{ m *memStore }

func (f fakePosts) Get(_ context.Context, id models.PostID) (*models.PostRecord, error) {
	f.m.mu.Lock()
	defer f.m.mu.Unlock()
	p, ok := f.m.posts[id]
	if !ok {
		return nil, common.ErrorNotFound
	}
	cp := *p
	return &cp, nil
}

type fakeUsers struct{ m *memStore }

func (f fakeUsers) GetIDByHandle(_ context.Context, handle string) (int64, error) {
	f.m.mu.Lock()
	defer f.m.mu.Unlock()
	f.m.handleCalls++
	id, ok := f.m.users[handle]
	if !ok {
		return 0, common.ErrorNotFound
	}
	return id, nil
}

type fakeReference struct{}

func (fakeReference) Privacy(_ context.Context, id int) (models.Privacy, error) {
	for p, pid := range privacyIDs {
		if pid == id {
			return p, nil
		}
	}
	return "", fmt.Errorf("privacy %d: %w", id, common.ErrorNotFound)
}

func (fakeReference) Rating(_ context.Context, id int) (models.Rating, error) {
	ratings := map[int]models.Rating{1: "general", 2: "mature", 3: "explicit"}
	if r, ok := ratings[id]; ok {
		return r, nil
	}
	return "", fmt.Errorf("rating %d: %w", id, common.ErrorNotFound)
}

func (fakeReference) MediaType(_ context.Context, id int) (models.MediaType, error) {
	return models.MediaType{FileType: "png", MimeType: "image/png"}, nil
}

// failingCache fails every operation, as an unreachable cache would.
type failingCache struct{}

func (failingCache) Get(context.Context, models.SetID) (*models.Set, bool, error) {
	return nil, false, errors.New("cache down")
}
func (failingCache) Put(context.Context, *models.Set) error     { return errors.New("cache down") }
func (failingCache) Remove(context.Context, models.SetID) error { return errors.New("cache down") }

type testEnv struct {
	svc   *SetService
	store *memStore
	mock  sqlmock.Sqlmock
	cache cache.SetCache
}

func newTestEnv(t *testing.T, setCache cache.SetCache) *testEnv {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New error: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	if setCache == nil {
		setCache = cache.NewSieveSetCache(128, 0)
	}
	store := newMemStore()
	svc := NewSetService(db, store, setCache, cache.NewReferences(store.Reference(db)), logging.Nop(), &config.Config{})
	t.Cleanup(svc.Wait)

	return &testEnv{svc: svc, store: store, mock: mock, cache: setCache}
}

// tx expects one committed transaction.
func (e *testEnv) tx() {
	e.mock.ExpectBegin()
	e.mock.ExpectCommit()
}

// rolledBack expects one transaction that rolls back.
func (e *testEnv) rolledBack() {
	e.mock.ExpectBegin()
	e.mock.ExpectRollback()
}

func (e *testEnv) done(t *testing.T) {
	t.Helper()
	if err := e.mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("sql expectations: %v", err)
	}
}
