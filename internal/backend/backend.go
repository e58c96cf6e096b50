// Package backend defines the collaborator contract the session core
// depends on: fetching plans, recording answers, saving snapshots, and the
// lock/resume surface. Two implementations exist — the HTTP client in this
// package and the local store adapter — and the core never knows which one
// it holds.
package backend

import (
	"context"
	"errors"
	"fmt"

	"github.com/adwate/lessonloop/internal/plan"
	"github.com/adwate/lessonloop/internal/session"
)

// ErrNotFound is returned when a requested topic, plan, or snapshot does
// not exist.
var ErrNotFound = errors.New("not found")

// Topic is one entry of the browsable topic library.
type Topic struct {
	ID         string `json:"topic_id"`
	Name       string `json:"topic_name"`
	Supertopic string `json:"supertopic"`
}

// Cursors is the auxiliary navigation tuple persisted with every
// snapshot, alongside the plan-position cursor.
type Cursors struct {
	Subtopic int    `json:"subtopic_index"`
	Question int    `json:"question_index"`
	Slot     int    `json:"attempt_index"`
	View     string `json:"view"`
	Tab      int    `json:"tab"`
}

// Snapshot is the durable image of an in-progress session: the only
// artifact a resume depends on besides the immutable plan.
type Snapshot struct {
	SessionID string            `json:"session_id"`
	Cursors   Cursors           `json:"cursors"`
	Attempts  []session.Attempt `json:"attempts"`
}

// Unfinished describes one resumable session.
type Unfinished struct {
	TopicID   string `json:"topic_id"`
	TopicName string `json:"topic_name"`
	SessionID string `json:"session_id"`
}

// Valid reports whether the record carries the identifiers a resume needs.
// A record failing this check is corrupted state; the client resets rather
// than attempting partial recovery.
func (u Unfinished) Valid() bool {
	return u.TopicID != "" && u.TopicName != ""
}

// AnswerRecord is one submission reported to the backend. Fire-and-forget:
// a failure is logged, never retried inline, and never blocks local state.
type AnswerRecord struct {
	SessionID   string `json:"session_id"`
	TopicID     string `json:"topic_id"`
	SubtopicID  string `json:"subtopic_id"`
	QuestionID  string `json:"question_id"`
	VariantNo   int    `json:"variant_no"`
	ChosenIndex int    `json:"chosen_index"`
	Correct     bool   `json:"correct"`
}

// SessionSummary is a finished-session row for the dashboard.
type SessionSummary struct {
	SessionID  string `json:"session_id"`
	TopicID    string `json:"topic_id"`
	TopicName  string `json:"topic_name"`
	Attempts   int    `json:"attempts"`
	Correct    int    `json:"correct"`
	FinishedAt string `json:"finished_at"`
}

// Client is the full collaborator surface. Every call takes a context;
// transport mechanics live behind it.
type Client interface {
	// Supertopics lists the top-level topic groups.
	Supertopics(ctx context.Context) ([]string, error)

	// Topics lists topics under one supertopic.
	Topics(ctx context.Context, supertopic string) ([]Topic, error)

	// FetchLessonPlan returns the immutable plan for a topic.
	FetchLessonPlan(ctx context.Context, learner, topicID string) (*plan.LessonPlan, error)

	// StartSession opens a new session and returns its id.
	StartSession(ctx context.Context, learner, topicID string) (string, error)

	// FetchResumeSnapshot returns the snapshot of an unfinished session.
	FetchResumeSnapshot(ctx context.Context, learner, topicID string) (*Snapshot, error)

	// RecordAnswer reports one submission.
	RecordAnswer(ctx context.Context, rec AnswerRecord) error

	// SaveSnapshot overwrites the live snapshot for (learner, topic).
	SaveSnapshot(ctx context.Context, learner, topicID string, snap Snapshot) error

	// FinishSession supersedes the snapshot when the lesson completes.
	FinishSession(ctx context.Context, learner, topicID, sessionID string) error

	// LockStatus reports the server-side view of the learner's lock.
	LockStatus(ctx context.Context, learner string) (bool, error)

	// UnfinishedSessions lists the learner's resumable sessions.
	UnfinishedSessions(ctx context.Context, learner string) ([]Unfinished, error)

	// TerminateSession abandons an unfinished session, deleting its
	// snapshot.
	TerminateSession(ctx context.Context, learner, topicID string) error

	// Dashboard lists finished sessions with score summaries.
	Dashboard(ctx context.Context, learner string) ([]SessionSummary, error)
}

// SnapshotFromState builds the wire snapshot for the current state.
func SnapshotFromState(s *session.State) Snapshot {
	return Snapshot{
		SessionID: s.SessionID,
		Cursors: Cursors{
			Subtopic: s.Cursor.Subtopic,
			Question: s.Cursor.Question,
			Slot:     s.Cursor.Slot,
			View:     s.View.String(),
			Tab:      s.Tab,
		},
		Attempts: s.Attempts,
	}
}

// RecordFromAttempt builds the answer record for one logged attempt.
func RecordFromAttempt(s *session.State, a session.Attempt) AnswerRecord {
	return AnswerRecord{
		SessionID:   s.SessionID,
		TopicID:     s.Topic,
		SubtopicID:  a.SubtopicID,
		QuestionID:  a.QuestionID,
		VariantNo:   a.VariantNo,
		ChosenIndex: a.ChosenIndex,
		Correct:     a.Correct,
	}
}

// Validate checks an unfinished-session list for corrupted records,
// returning an error naming the first invalid entry.
func Validate(list []Unfinished) error {
	for i, u := range list {
		if !u.Valid() {
			return fmt.Errorf("unfinished session %d is missing identifiers (topic=%q name=%q)", i, u.TopicID, u.TopicName)
		}
	}
	return nil
}
