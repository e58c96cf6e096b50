package store

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/adwate/lessonloop/internal/backend"
	"github.com/adwate/lessonloop/internal/plan"
)

// ImportPlan validates and stores a lesson plan document in the local
// library, replacing any previous version of the topic.
func (s *Store) ImportPlan(raw []byte) (*plan.LessonPlan, error) {
	p, err := plan.Parse(raw)
	if err != nil {
		return nil, err
	}

	// Store the normalized form, not the input bytes.
	normalized, err := json.Marshal(p)
	if err != nil {
		return nil, fmt.Errorf("encode plan: %w", err)
	}

	_, err = s.db.Exec(
		`INSERT INTO topics (topic_id, topic_name, supertopic, plan_json, imported_at)
		 VALUES (?, ?, ?, ?, ?)
		 ON CONFLICT(topic_id) DO UPDATE SET
		   topic_name = excluded.topic_name,
		   supertopic = excluded.supertopic,
		   plan_json = excluded.plan_json,
		   imported_at = excluded.imported_at`,
		p.TopicID, p.TopicName, p.Supertopic, string(normalized),
		time.Now().UTC().Format(time.RFC3339),
	)
	if err != nil {
		return nil, fmt.Errorf("store topic %s: %w", p.TopicID, err)
	}
	return p, nil
}

// Supertopics lists the distinct supertopic groups in the library.
func (s *Store) Supertopics() ([]string, error) {
	rows, err := s.db.Query(`SELECT DISTINCT supertopic FROM topics ORDER BY supertopic`)
	if err != nil {
		return nil, fmt.Errorf("query supertopics: %w", err)
	}
	defer rows.Close()

	var out []string
	for rows.Next() {
		var st string
		if err := rows.Scan(&st); err != nil {
			return nil, fmt.Errorf("scan supertopic: %w", err)
		}
		out = append(out, st)
	}
	return out, rows.Err()
}

// Topics lists the topics under one supertopic, or all topics when
// supertopic is empty.
func (s *Store) Topics(supertopic string) ([]backend.Topic, error) {
	query := `SELECT topic_id, topic_name, supertopic FROM topics`
	args := []any{}
	if supertopic != "" {
		query += ` WHERE supertopic = ?`
		args = append(args, supertopic)
	}
	query += ` ORDER BY topic_name`

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("query topics: %w", err)
	}
	defer rows.Close()

	var out []backend.Topic
	for rows.Next() {
		var t backend.Topic
		if err := rows.Scan(&t.ID, &t.Name, &t.Supertopic); err != nil {
			return nil, fmt.Errorf("scan topic: %w", err)
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

// Plan loads one topic's lesson plan from the library.
func (s *Store) Plan(topicID string) (*plan.LessonPlan, error) {
	var raw string
	err := s.db.QueryRow(`SELECT plan_json FROM topics WHERE topic_id = ?`, topicID).Scan(&raw)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("topic %s: %w", topicID, backend.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("load topic %s: %w", topicID, err)
	}

	var p plan.LessonPlan
	if err := json.Unmarshal([]byte(raw), &p); err != nil {
		return nil, fmt.Errorf("decode stored plan %s: %w", topicID, err)
	}
	return &p, nil
}
