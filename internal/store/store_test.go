package store

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/adwate/lessonloop/internal/backend"
	"github.com/adwate/lessonloop/internal/session"
)

const testPlanJSON = `{
  "topic_id": "t-jaundice",
  "topic_name": "Neonatal Jaundice",
  "supertopic": "Neonatology",
  "subtopics": [
    {
      "subtopic_id": "s-1",
      "subtopic_title": "Physiological jaundice",
      "concept": "Most newborns develop visible jaundice...",
      "questions": [
        {
          "question_id": "q-1",
          "stem": "Most appropriate next step?",
          "correct_choice_index": 1,
          "choices": [
            {"choice_index": 0, "choice_text": "Observe"},
            {"choice_index": 1, "choice_text": "Measure bilirubin"}
          ]
        }
      ]
    }
  ]
}`

func openTestStore(t *testing.T) *Store {
	t.Helper()
	st, err := Open(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() })
	return st
}

func TestImportPlanAndLoad(t *testing.T) {
	st := openTestStore(t)

	p, err := st.ImportPlan([]byte(testPlanJSON))
	require.NoError(t, err)
	assert.Equal(t, "t-jaundice", p.TopicID)

	got, err := st.Plan("t-jaundice")
	require.NoError(t, err)
	assert.Equal(t, p.TopicName, got.TopicName)
	assert.Len(t, got.Subtopics, 1)

	supers, err := st.Supertopics()
	require.NoError(t, err)
	assert.Equal(t, []string{"Neonatology"}, supers)

	topics, err := st.Topics("Neonatology")
	require.NoError(t, err)
	require.Len(t, topics, 1)
	assert.Equal(t, "t-jaundice", topics[0].ID)
}

func TestImportPlan_ReplacesExisting(t *testing.T) {
	st := openTestStore(t)

	_, err := st.ImportPlan([]byte(testPlanJSON))
	require.NoError(t, err)
	_, err = st.ImportPlan([]byte(testPlanJSON))
	require.NoError(t, err)

	topics, err := st.Topics("")
	require.NoError(t, err)
	assert.Len(t, topics, 1)
}

func TestPlan_NotFound(t *testing.T) {
	st := openTestStore(t)

	_, err := st.Plan("missing")
	assert.ErrorIs(t, err, backend.ErrNotFound)
}

func TestSessionLifecycle(t *testing.T) {
	st := openTestStore(t)
	_, err := st.ImportPlan([]byte(testPlanJSON))
	require.NoError(t, err)

	require.NoError(t, st.CreateSession("sess-1", "alex", "t-jaundice"))

	cursors := backend.Cursors{Subtopic: 0, Question: 0, Slot: 1, View: "questions", Tab: 1}
	require.NoError(t, st.SaveCursors("alex", "t-jaundice", cursors))

	require.NoError(t, st.AppendAttempt("sess-1", session.Attempt{
		SubtopicID: "s-1", QuestionID: "q-1", VariantNo: 0, ChosenIndex: 0,
	}))
	require.NoError(t, st.AppendAttempt("sess-1", session.Attempt{
		SubtopicID: "s-1", QuestionID: "q-1", VariantNo: 1, ChosenIndex: 1, Correct: true,
	}))

	snap, err := st.Snapshot("alex", "t-jaundice")
	require.NoError(t, err)
	assert.Equal(t, "sess-1", snap.SessionID)
	assert.Equal(t, cursors, snap.Cursors)
	require.Len(t, snap.Attempts, 2)
	assert.False(t, snap.Attempts[0].Correct)
	assert.True(t, snap.Attempts[1].Correct)

	unfinished, err := st.Unfinished("alex")
	require.NoError(t, err)
	require.Len(t, unfinished, 1)
	assert.Equal(t, "Neonatal Jaundice", unfinished[0].TopicName)

	require.NoError(t, st.Finish("alex", "t-jaundice"))

	unfinished, err = st.Unfinished("alex")
	require.NoError(t, err)
	assert.Empty(t, unfinished)

	summaries, err := st.FinishedSummaries("alex")
	require.NoError(t, err)
	require.Len(t, summaries, 1)
	assert.Equal(t, 2, summaries[0].Attempts)
	assert.Equal(t, 1, summaries[0].Correct)
}

func TestCreateSession_ReplacesLiveRow(t *testing.T) {
	st := openTestStore(t)
	_, err := st.ImportPlan([]byte(testPlanJSON))
	require.NoError(t, err)

	require.NoError(t, st.CreateSession("sess-1", "alex", "t-jaundice"))
	require.NoError(t, st.CreateSession("sess-2", "alex", "t-jaundice"))

	snap, err := st.Snapshot("alex", "t-jaundice")
	require.NoError(t, err)
	assert.Equal(t, "sess-2", snap.SessionID)

	unfinished, err := st.Unfinished("alex")
	require.NoError(t, err)
	assert.Len(t, unfinished, 1)
}

func TestSaveCursors_NoLiveSession(t *testing.T) {
	st := openTestStore(t)

	err := st.SaveCursors("alex", "t-jaundice", backend.Cursors{})
	assert.ErrorIs(t, err, backend.ErrNotFound)
}

func TestTerminate_KeepsAttemptLog(t *testing.T) {
	st := openTestStore(t)
	_, err := st.ImportPlan([]byte(testPlanJSON))
	require.NoError(t, err)

	require.NoError(t, st.CreateSession("sess-1", "alex", "t-jaundice"))
	require.NoError(t, st.AppendAttempt("sess-1", session.Attempt{
		SubtopicID: "s-1", QuestionID: "q-1", ChosenIndex: 1, Correct: true,
	}))

	require.NoError(t, st.Terminate("alex", "t-jaundice"))

	_, err = st.Snapshot("alex", "t-jaundice")
	assert.ErrorIs(t, err, backend.ErrNotFound)

	attempts, err := st.Attempts("sess-1")
	require.NoError(t, err)
	assert.Len(t, attempts, 1)
}

func TestSaveSnapshot_RepairsMissingAttempts(t *testing.T) {
	st := openTestStore(t)
	_, err := st.ImportPlan([]byte(testPlanJSON))
	require.NoError(t, err)

	ctx := context.Background()
	local := NewLocal(st)

	id, err := local.StartSession(ctx, "alex", "t-jaundice")
	require.NoError(t, err)

	// The first attempt reached the log through RecordAnswer; the second
	// never did, as after a failed report. The snapshot carries both.
	first := backend.AnswerRecord{
		SessionID: id, TopicID: "t-jaundice",
		SubtopicID: "s-1", QuestionID: "q-1", ChosenIndex: 0,
	}
	require.NoError(t, local.RecordAnswer(ctx, first))

	snap := backend.Snapshot{
		SessionID: id,
		Cursors:   backend.Cursors{View: "questions", Slot: 1},
		Attempts: []session.Attempt{
			{SubtopicID: "s-1", QuestionID: "q-1", VariantNo: 0, ChosenIndex: 0},
			{SubtopicID: "s-1", QuestionID: "q-1", VariantNo: 1, ChosenIndex: 1, Correct: true},
		},
	}
	require.NoError(t, local.SaveSnapshot(ctx, "alex", "t-jaundice", snap))

	got, err := local.FetchResumeSnapshot(ctx, "alex", "t-jaundice")
	require.NoError(t, err)
	require.Len(t, got.Attempts, 2)
	assert.True(t, got.Attempts[1].Correct)

	// A second save of the same snapshot must not duplicate rows.
	require.NoError(t, local.SaveSnapshot(ctx, "alex", "t-jaundice", snap))

	got, err = local.FetchResumeSnapshot(ctx, "alex", "t-jaundice")
	require.NoError(t, err)
	assert.Len(t, got.Attempts, 2)
}

func TestRetake_KeepsFinishedSummaries(t *testing.T) {
	st := openTestStore(t)
	_, err := st.ImportPlan([]byte(testPlanJSON))
	require.NoError(t, err)

	require.NoError(t, st.CreateSession("sess-1", "alex", "t-jaundice"))
	require.NoError(t, st.AppendAttempt("sess-1", session.Attempt{
		SubtopicID: "s-1", QuestionID: "q-1", ChosenIndex: 1, Correct: true,
	}))
	require.NoError(t, st.Finish("alex", "t-jaundice"))

	// Retaking the topic opens a fresh session without disturbing the
	// finished record of the first one.
	require.NoError(t, st.CreateSession("sess-2", "alex", "t-jaundice"))

	summaries, err := st.FinishedSummaries("alex")
	require.NoError(t, err)
	require.Len(t, summaries, 1)
	assert.Equal(t, "sess-1", summaries[0].SessionID)
	assert.Equal(t, 1, summaries[0].Attempts)

	require.NoError(t, st.Finish("alex", "t-jaundice"))

	summaries, err = st.FinishedSummaries("alex")
	require.NoError(t, err)
	require.Len(t, summaries, 2)
}

func TestSettings(t *testing.T) {
	st := openTestStore(t)

	v, err := st.Setting("learner_name")
	require.NoError(t, err)
	assert.Empty(t, v)

	require.NoError(t, st.SetSetting("learner_name", "Alex"))
	require.NoError(t, st.SetSetting("learner_name", "Sam"))

	v, err = st.Setting("learner_name")
	require.NoError(t, err)
	assert.Equal(t, "Sam", v)
}

func TestLocal_ImplementsBackendContract(t *testing.T) {
	st := openTestStore(t)
	_, err := st.ImportPlan([]byte(testPlanJSON))
	require.NoError(t, err)

	ctx := context.Background()
	local := NewLocal(st)

	id, err := local.StartSession(ctx, "alex", "t-jaundice")
	require.NoError(t, err)
	require.NotEmpty(t, id)

	_, err = local.StartSession(ctx, "alex", "missing")
	assert.ErrorIs(t, err, backend.ErrNotFound)

	locked, err := local.LockStatus(ctx, "alex")
	require.NoError(t, err)
	assert.True(t, locked)

	require.NoError(t, local.RecordAnswer(ctx, backend.AnswerRecord{
		SessionID: id, TopicID: "t-jaundice",
		SubtopicID: "s-1", QuestionID: "q-1", ChosenIndex: 1, Correct: true,
	}))
	require.NoError(t, local.SaveSnapshot(ctx, "alex", "t-jaundice", backend.Snapshot{
		SessionID: id,
		Cursors:   backend.Cursors{View: "questions"},
	}))

	snap, err := local.FetchResumeSnapshot(ctx, "alex", "t-jaundice")
	require.NoError(t, err)
	assert.Equal(t, id, snap.SessionID)
	assert.Len(t, snap.Attempts, 1)

	require.NoError(t, local.FinishSession(ctx, "alex", "t-jaundice", id))

	locked, err = local.LockStatus(ctx, "alex")
	require.NoError(t, err)
	assert.False(t, locked)

	_, err = local.FetchResumeSnapshot(ctx, "alex", "t-jaundice")
	assert.True(t, errors.Is(err, backend.ErrNotFound))
}
