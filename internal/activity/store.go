package activity

import (
	"context"
	"errors"
	"sync"
)

var (
	ErrActivityNotFound  = errors.New("activity not found")
	ErrScoreItemNotFound = errors.New("score item not found")
	ErrContextNotFound   = errors.New("context not found")
)

// Store is the persistence surface for activities and the externally managed
// state the resolver reads: score items, grades, completion, enrollments.
type Store interface {
	PutActivity(ctx context.Context, a Activity) error
	GetActivity(ctx context.Context, id string) (Activity, error)
	GetActivityByContext(ctx context.Context, contextID string) (Activity, error)

	PutScoreItem(ctx context.Context, it ScoreItem) error
	GetScoreItem(ctx context.Context, activityID string) (ScoreItem, error)

	PutGrade(ctx context.Context, g Grade) error
	GradesFor(ctx context.Context, activityID, userID string) ([]Grade, error)

	CompletionFor(ctx context.Context, activityID, userID string) (CompletionState, error)
	SetCompletion(ctx context.Context, activityID, userID string, st CompletionState) error

	Enroll(ctx context.Context, userID, courseID string) error
	IsEnrolled(ctx context.Context, userID, courseID string) (bool, error)
}

type memoryStore struct {
	mu          sync.RWMutex
	activities  map[string]Activity
	byContext   map[string]string // contextID -> activityID
	items       map[string]ScoreItem
	grades      map[string][]Grade // activityID|userID
	completion  map[string]CompletionState
	enrollments map[string]struct{} // userID|courseID
}

// NewInMemoryStore returns a Store backed by process memory. Used in tests and
// offline development; the gateway runs on the SQL store.
func NewInMemoryStore() Store {
	return &memoryStore{
		activities:  map[string]Activity{},
		byContext:   map[string]string{},
		items:       map[string]ScoreItem{},
		grades:      map[string][]Grade{},
		completion:  map[string]CompletionState{},
		enrollments: map[string]struct{}{},
	}
}

func pairKey(a, b string) string { return a + "|" + b }

func (m *memoryStore) PutActivity(_ context.Context, a Activity) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if old, ok := m.activities[a.ID]; ok && old.ContextID != a.ContextID {
		delete(m.byContext, old.ContextID)
	}
	m.activities[a.ID] = a
	if a.ContextID != "" {
		m.byContext[a.ContextID] = a.ID
	}
	return nil
}

func (m *memoryStore) GetActivity(_ context.Context, id string) (Activity, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	a, ok := m.activities[id]
	if !ok {
		return Activity{}, ErrActivityNotFound
	}
	return a, nil
}

func (m *memoryStore) GetActivityByContext(_ context.Context, contextID string) (Activity, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	id, ok := m.byContext[contextID]
	if !ok {
		return Activity{}, ErrContextNotFound
	}
	return m.activities[id], nil
}

func (m *memoryStore) PutScoreItem(_ context.Context, it ScoreItem) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.items[it.ActivityID] = it
	return nil
}

func (m *memoryStore) GetScoreItem(_ context.Context, activityID string) (ScoreItem, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	it, ok := m.items[activityID]
	if !ok {
		return ScoreItem{}, ErrScoreItemNotFound
	}
	return it, nil
}

func (m *memoryStore) PutGrade(_ context.Context, g Grade) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	k := pairKey(g.ActivityID, g.UserID)
	for i, old := range m.grades[k] {
		if old.ActivityID == g.ActivityID && old.UserID == g.UserID {
			m.grades[k][i] = g
			return nil
		}
	}
	m.grades[k] = append(m.grades[k], g)
	return nil
}

func (m *memoryStore) GradesFor(_ context.Context, activityID, userID string) ([]Grade, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	gs := m.grades[pairKey(activityID, userID)]
	out := make([]Grade, len(gs))
	copy(out, gs)
	return out, nil
}

func (m *memoryStore) CompletionFor(_ context.Context, activityID, userID string) (CompletionState, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	st, ok := m.completion[pairKey(activityID, userID)]
	if !ok {
		return Incomplete, nil
	}
	return st, nil
}

func (m *memoryStore) SetCompletion(_ context.Context, activityID, userID string, st CompletionState) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.completion[pairKey(activityID, userID)] = st
	return nil
}

func (m *memoryStore) Enroll(_ context.Context, userID, courseID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.enrollments[pairKey(userID, courseID)] = struct{}{}
	return nil
}

func (m *memoryStore) IsEnrolled(_ context.Context, userID, courseID string) (bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	_, ok := m.enrollments[pairKey(userID, courseID)]
	return ok, nil
}
