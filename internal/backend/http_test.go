package backend

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHTTPClient_UnfinishedSessions(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/resume-status/learner-1", r.URL.Path)
		json.NewEncoder(w).Encode(map[string]any{
			"unfinished": []map[string]string{
				{"topic_id": "t-1", "topic_name": "Asthma", "session_id": "s-1"},
			},
		})
	}))
	defer srv.Close()

	c := NewHTTP(srv.URL)
	list, err := c.UnfinishedSessions(context.Background(), "learner-1")
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "t-1", list[0].TopicID)
	assert.True(t, list[0].Valid())
}

func TestHTTPClient_RecordAnswerPostsBody(t *testing.T) {
	var got AnswerRecord
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/answer", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	c := NewHTTP(srv.URL)
	rec := AnswerRecord{
		SessionID:   "s-1",
		TopicID:     "t-1",
		SubtopicID:  "sub-1",
		QuestionID:  "q-1",
		VariantNo:   1,
		ChosenIndex: 2,
	}
	require.NoError(t, c.RecordAnswer(context.Background(), rec))
	assert.Equal(t, rec, got)
}

func TestHTTPClient_FetchLessonPlan_RejectsInvalid(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// Missing topic_id: must fail the schema gate, not produce a
		// half-usable plan.
		w.Write([]byte(`{"topic_name": "broken", "subtopics": []}`))
	}))
	defer srv.Close()

	c := NewHTTP(srv.URL)
	_, err := c.FetchLessonPlan(context.Background(), "learner-1", "t-1")
	assert.Error(t, err)
}

func TestHTTPClient_NotFound(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	defer srv.Close()

	c := NewHTTP(srv.URL)
	_, err := c.FetchResumeSnapshot(context.Background(), "learner-1", "t-1")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestHTTPClient_LockStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]bool{"locked": true})
	}))
	defer srv.Close()

	c := NewHTTP(srv.URL)
	locked, err := c.LockStatus(context.Background(), "learner-1")
	require.NoError(t, err)
	assert.True(t, locked)
}

func TestValidate_FlagsCorruptedRecords(t *testing.T) {
	ok := []Unfinished{{TopicID: "t", TopicName: "n", SessionID: "s"}}
	assert.NoError(t, Validate(ok))

	bad := []Unfinished{{TopicID: "", TopicName: "n"}}
	assert.Error(t, Validate(bad))
}
