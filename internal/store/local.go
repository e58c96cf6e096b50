package store

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/adwate/lessonloop/internal/backend"
	"github.com/adwate/lessonloop/internal/plan"
	"github.com/adwate/lessonloop/internal/session"
)

// Local adapts the store to the backend contract, making the app fully
// usable without a server: plans come from the imported library and
// snapshots live in the same database.
type Local struct {
	st *Store
}

var _ backend.Client = (*Local)(nil)

// NewLocal wraps a store as a backend client.
func NewLocal(st *Store) *Local {
	return &Local{st: st}
}

func (l *Local) Supertopics(ctx context.Context) ([]string, error) {
	return l.st.Supertopics()
}

func (l *Local) Topics(ctx context.Context, supertopic string) ([]backend.Topic, error) {
	return l.st.Topics(supertopic)
}

func (l *Local) FetchLessonPlan(ctx context.Context, learner, topicID string) (*plan.LessonPlan, error) {
	return l.st.Plan(topicID)
}

func (l *Local) StartSession(ctx context.Context, learner, topicID string) (string, error) {
	if _, err := l.st.Plan(topicID); err != nil {
		return "", err
	}
	sessionID := uuid.New().String()
	if err := l.st.CreateSession(sessionID, learner, topicID); err != nil {
		return "", err
	}
	return sessionID, nil
}

func (l *Local) FetchResumeSnapshot(ctx context.Context, learner, topicID string) (*backend.Snapshot, error) {
	return l.st.Snapshot(learner, topicID)
}

func (l *Local) RecordAnswer(ctx context.Context, rec backend.AnswerRecord) error {
	return l.st.AppendAttempt(rec.SessionID, attemptFromRecord(rec))
}

func (l *Local) SaveSnapshot(ctx context.Context, learner, topicID string, snap backend.Snapshot) error {
	// RecordAnswer normally appends attempts as they happen, but a failed
	// report would leave the log short of the snapshot's history. The log
	// is append-only and both sides are in log order, so any missing tail
	// starts where the stored rows end.
	existing, err := l.st.Attempts(snap.SessionID)
	if err != nil {
		return err
	}
	for _, a := range snap.Attempts[min(len(existing), len(snap.Attempts)):] {
		if err := l.st.AppendAttempt(snap.SessionID, a); err != nil {
			return err
		}
	}
	return l.st.SaveCursors(learner, topicID, snap.Cursors)
}

func (l *Local) FinishSession(ctx context.Context, learner, topicID, sessionID string) error {
	return l.st.Finish(learner, topicID)
}

func (l *Local) LockStatus(ctx context.Context, learner string) (bool, error) {
	list, err := l.st.Unfinished(learner)
	if err != nil {
		return false, err
	}
	return len(list) > 0, nil
}

func (l *Local) UnfinishedSessions(ctx context.Context, learner string) ([]backend.Unfinished, error) {
	return l.st.Unfinished(learner)
}

func (l *Local) TerminateSession(ctx context.Context, learner, topicID string) error {
	return l.st.Terminate(learner, topicID)
}

func (l *Local) Dashboard(ctx context.Context, learner string) ([]backend.SessionSummary, error) {
	return l.st.FinishedSummaries(learner)
}

func attemptFromRecord(rec backend.AnswerRecord) session.Attempt {
	return session.Attempt{
		SubtopicID:  rec.SubtopicID,
		QuestionID:  rec.QuestionID,
		VariantNo:   rec.VariantNo,
		ChosenIndex: rec.ChosenIndex,
		Correct:     rec.Correct,
		At:          time.Now().UTC(),
	}
}
