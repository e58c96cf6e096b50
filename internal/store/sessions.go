package store

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/adwate/lessonloop/internal/backend"
	"github.com/adwate/lessonloop/internal/session"
)

// CreateSession opens a live session row for (learner, topic). An existing
// unfinished row for the pair is replaced: at most one snapshot may be
// live per (learner, topic). Finished rows for the topic are untouched.
func (s *Store) CreateSession(sessionID, learner, topicID string) error {
	if _, err := s.db.Exec(
		`DELETE FROM sessions WHERE learner_id = ? AND topic_id = ? AND finished = 0`,
		learner, topicID,
	); err != nil {
		return fmt.Errorf("create session: %w", err)
	}
	_, err := s.db.Exec(
		`INSERT INTO sessions (session_id, learner_id, topic_id, cursors_json, finished, saved_at)
		 VALUES (?, ?, ?, '{}', 0, ?)`,
		sessionID, learner, topicID, time.Now().UTC().Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("create session: %w", err)
	}
	return nil
}

// SaveCursors overwrites the snapshot cursors for the live session.
func (s *Store) SaveCursors(learner, topicID string, cursors backend.Cursors) error {
	raw, err := json.Marshal(cursors)
	if err != nil {
		return fmt.Errorf("encode cursors: %w", err)
	}
	res, err := s.db.Exec(
		`UPDATE sessions SET cursors_json = ?, saved_at = ? WHERE learner_id = ? AND topic_id = ? AND finished = 0`,
		string(raw), time.Now().UTC().Format(time.RFC3339), learner, topicID,
	)
	if err != nil {
		return fmt.Errorf("save cursors: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("session for %s/%s: %w", learner, topicID, backend.ErrNotFound)
	}
	return nil
}

// AppendAttempt appends one attempt row. Rows are never updated or
// deleted; seq orders them totally.
func (s *Store) AppendAttempt(sessionID string, a session.Attempt) error {
	correct := 0
	if a.Correct {
		correct = 1
	}
	at := a.At
	if at.IsZero() {
		at = time.Now().UTC()
	}
	_, err := s.db.Exec(
		`INSERT INTO attempts (session_id, subtopic_id, question_id, variant_no, chosen_index, correct, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		sessionID, a.SubtopicID, a.QuestionID, a.VariantNo, a.ChosenIndex, correct,
		at.Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("append attempt: %w", err)
	}
	return nil
}

// Attempts returns a session's attempts in log order.
func (s *Store) Attempts(sessionID string) ([]session.Attempt, error) {
	rows, err := s.db.Query(
		`SELECT subtopic_id, question_id, variant_no, chosen_index, correct, created_at
		 FROM attempts WHERE session_id = ? ORDER BY seq`, sessionID)
	if err != nil {
		return nil, fmt.Errorf("query attempts: %w", err)
	}
	defer rows.Close()

	var out []session.Attempt
	for rows.Next() {
		var a session.Attempt
		var correct int
		var at string
		if err := rows.Scan(&a.SubtopicID, &a.QuestionID, &a.VariantNo, &a.ChosenIndex, &correct, &at); err != nil {
			return nil, fmt.Errorf("scan attempt: %w", err)
		}
		a.Correct = correct == 1
		a.At, _ = time.Parse(time.RFC3339Nano, at)
		out = append(out, a)
	}
	return out, rows.Err()
}

// Snapshot reconstructs the resume snapshot of the live session for
// (learner, topic).
func (s *Store) Snapshot(learner, topicID string) (*backend.Snapshot, error) {
	var sessionID, cursorsJSON string
	err := s.db.QueryRow(
		`SELECT session_id, cursors_json FROM sessions
		 WHERE learner_id = ? AND topic_id = ? AND finished = 0`,
		learner, topicID,
	).Scan(&sessionID, &cursorsJSON)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("snapshot for %s/%s: %w", learner, topicID, backend.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("load snapshot: %w", err)
	}

	var cursors backend.Cursors
	if err := json.Unmarshal([]byte(cursorsJSON), &cursors); err != nil {
		return nil, fmt.Errorf("decode cursors: %w", err)
	}

	attempts, err := s.Attempts(sessionID)
	if err != nil {
		return nil, err
	}

	return &backend.Snapshot{SessionID: sessionID, Cursors: cursors, Attempts: attempts}, nil
}

// Unfinished lists the learner's resumable sessions with topic names.
func (s *Store) Unfinished(learner string) ([]backend.Unfinished, error) {
	rows, err := s.db.Query(
		`SELECT se.topic_id, COALESCE(t.topic_name, ''), se.session_id
		 FROM sessions se LEFT JOIN topics t ON t.topic_id = se.topic_id
		 WHERE se.learner_id = ? AND se.finished = 0
		 ORDER BY se.saved_at DESC`, learner)
	if err != nil {
		return nil, fmt.Errorf("query unfinished sessions: %w", err)
	}
	defer rows.Close()

	var out []backend.Unfinished
	for rows.Next() {
		var u backend.Unfinished
		if err := rows.Scan(&u.TopicID, &u.TopicName, &u.SessionID); err != nil {
			return nil, fmt.Errorf("scan unfinished session: %w", err)
		}
		out = append(out, u)
	}
	return out, rows.Err()
}

// Finish marks the live session finished, superseding its snapshot.
func (s *Store) Finish(learner, topicID string) error {
	_, err := s.db.Exec(
		`UPDATE sessions SET finished = 1, saved_at = ? WHERE learner_id = ? AND topic_id = ? AND finished = 0`,
		time.Now().UTC().Format(time.RFC3339), learner, topicID,
	)
	if err != nil {
		return fmt.Errorf("finish session: %w", err)
	}
	return nil
}

// Terminate deletes the live session row for (learner, topic). The
// attempt log stays: attempts are never removed.
func (s *Store) Terminate(learner, topicID string) error {
	_, err := s.db.Exec(
		`DELETE FROM sessions WHERE learner_id = ? AND topic_id = ? AND finished = 0`,
		learner, topicID,
	)
	if err != nil {
		return fmt.Errorf("terminate session: %w", err)
	}
	return nil
}

// FinishedSummaries lists finished sessions with attempt/correct counts,
// newest first.
func (s *Store) FinishedSummaries(learner string) ([]backend.SessionSummary, error) {
	rows, err := s.db.Query(
		`SELECT se.session_id, se.topic_id, COALESCE(t.topic_name, ''), se.saved_at,
		        COUNT(a.seq), COALESCE(SUM(a.correct), 0)
		 FROM sessions se
		 LEFT JOIN topics t ON t.topic_id = se.topic_id
		 LEFT JOIN attempts a ON a.session_id = se.session_id
		 WHERE se.learner_id = ? AND se.finished = 1
		 GROUP BY se.session_id
		 ORDER BY se.saved_at DESC`, learner)
	if err != nil {
		return nil, fmt.Errorf("query finished sessions: %w", err)
	}
	defer rows.Close()

	var out []backend.SessionSummary
	for rows.Next() {
		var r backend.SessionSummary
		if err := rows.Scan(&r.SessionID, &r.TopicID, &r.TopicName, &r.FinishedAt, &r.Attempts, &r.Correct); err != nil {
			return nil, fmt.Errorf("scan finished session: %w", err)
		}
		out = append(out, r)
	}
	return out, rows.Err()
}
