package backend

import (
	"context"
	"sync"

	"github.com/adwate/lessonloop/internal/plan"
)

// Mock is an in-memory Client for tests. Calls are counted and the last
// saved snapshot retained so supervisor tests can assert on coalescing and
// teardown behavior.
type Mock struct {
	mu sync.Mutex

	Plan           *plan.LessonPlan
	Snapshot       *Snapshot
	UnfinishedList []Unfinished
	Locked         bool

	SaveCalls      int
	LastSaved      *Snapshot
	RecordCalls    int
	LastRecord     *AnswerRecord
	TerminateCalls int
	FinishCalls    int

	// Err, when set, is returned by every mutating call.
	Err error
}

var _ Client = (*Mock)(nil)

func (m *Mock) Supertopics(ctx context.Context) ([]string, error) {
	return []string{"General"}, nil
}

func (m *Mock) Topics(ctx context.Context, supertopic string) ([]Topic, error) {
	if m.Plan == nil {
		return nil, nil
	}
	return []Topic{{ID: m.Plan.TopicID, Name: m.Plan.TopicName, Supertopic: supertopic}}, nil
}

func (m *Mock) FetchLessonPlan(ctx context.Context, learner, topicID string) (*plan.LessonPlan, error) {
	if m.Plan == nil {
		return nil, ErrNotFound
	}
	return m.Plan, nil
}

func (m *Mock) StartSession(ctx context.Context, learner, topicID string) (string, error) {
	if m.Err != nil {
		return "", m.Err
	}
	return "mock-session", nil
}

func (m *Mock) FetchResumeSnapshot(ctx context.Context, learner, topicID string) (*Snapshot, error) {
	if m.Snapshot == nil {
		return nil, ErrNotFound
	}
	return m.Snapshot, nil
}

func (m *Mock) RecordAnswer(ctx context.Context, rec AnswerRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return m.Err
	}
	m.RecordCalls++
	m.LastRecord = &rec
	return nil
}

func (m *Mock) SaveSnapshot(ctx context.Context, learner, topicID string, snap Snapshot) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return m.Err
	}
	m.SaveCalls++
	m.LastSaved = &snap
	return nil
}

func (m *Mock) FinishSession(ctx context.Context, learner, topicID, sessionID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.FinishCalls++
	return m.Err
}

func (m *Mock) LockStatus(ctx context.Context, learner string) (bool, error) {
	return m.Locked, nil
}

func (m *Mock) UnfinishedSessions(ctx context.Context, learner string) ([]Unfinished, error) {
	return m.UnfinishedList, nil
}

func (m *Mock) TerminateSession(ctx context.Context, learner, topicID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.TerminateCalls++
	return m.Err
}

func (m *Mock) Dashboard(ctx context.Context, learner string) ([]SessionSummary, error) {
	return nil, nil
}

// Saves returns the save-call count under the lock.
func (m *Mock) Saves() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.SaveCalls
}
