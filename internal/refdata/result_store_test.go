package refdata

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sahajm/bidscope/internal/contract"
	"github.com/sahajm/bidscope/schema"
)

func newSQLiteStore(t *testing.T) contract.ResultStore {
	t.Helper()
	store, err := NewResultStore(schema.SQLiteBackend, filepath.Join(t.TempDir(), "results.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func sampleScoreRecord(projectID string, composite float64) schema.TenderScoreRecord {
	return schema.TenderScoreRecord{
		ProjectID:       projectID,
		EvaluationTime:  time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC),
		ScoreTechnical:  88.5,
		ScorePrice:      72.0,
		ScoreDelivery:   90.0,
		ScoreCompliance: 65.0,
		ScoreRisk:       80.0,
		Composite:       composite,
		Grade:           "Very Good",
		GrandTotal:      1234567.89,
		LineItems:       3,
		BestPick:        true,
	}
}

func TestResultStoreRoundTrip(t *testing.T) {
	store := newSQLiteStore(t)

	start := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	runID, err := store.BeginRun(start, map[string]any{"limit": 10})
	require.NoError(t, err)
	assert.Positive(t, runID)

	require.NoError(t, store.RecordTenderScore(runID, sampleScoreRecord("TND-2025-001", 81.2)))
	require.NoError(t, store.RecordTenderScore(runID, sampleScoreRecord("TND-2025-002", 64.7)))
	require.NoError(t, store.EndRun(runID, start.Add(3*time.Second), 2))

	status, err := store.GetStatus()
	require.NoError(t, err)
	assert.True(t, status.Connected)
	assert.Equal(t, 1, status.TotalRuns)
	assert.Equal(t, runID, status.LastRunID)
	assert.Equal(t, 2, status.TendersEvaluated)
	assert.Equal(t, int64(2), status.TableSizes[tenderScoresTable])

	scores, err := store.ListTenderScores(10)
	require.NoError(t, err)
	require.Len(t, scores, 2)
	// Within a run, highest composite first.
	assert.Equal(t, "TND-2025-001", scores[0].ProjectID)
	assert.InDelta(t, 81.2, scores[0].Composite, 1e-9)
	assert.Equal(t, "Very Good", scores[0].Grade)
	assert.True(t, scores[0].BestPick)
	assert.Equal(t, int32(3), scores[0].LineItems)
}

func TestResultStoreListLimit(t *testing.T) {
	store := newSQLiteStore(t)

	runID, err := store.BeginRun(time.Now(), nil)
	require.NoError(t, err)
	for i, id := range []string{"TND-A", "TND-B", "TND-C"} {
		require.NoError(t, store.RecordTenderScore(runID, sampleScoreRecord(id, float64(50+i))))
	}

	scores, err := store.ListTenderScores(2)
	require.NoError(t, err)
	assert.Len(t, scores, 2)
}

func TestResultStoreClearRuns(t *testing.T) {
	store := newSQLiteStore(t)

	runID, err := store.BeginRun(time.Now(), nil)
	require.NoError(t, err)
	require.NoError(t, store.RecordTenderScore(runID, sampleScoreRecord("TND-2025-001", 81.2)))

	removed, err := store.ClearRuns()
	require.NoError(t, err)
	assert.Equal(t, int64(1), removed)

	status, err := store.GetStatus()
	require.NoError(t, err)
	assert.Equal(t, 0, status.TotalRuns)
}

func TestResultStoreNoneBackend(t *testing.T) {
	store, err := NewResultStore(schema.NoneBackend, "")
	require.NoError(t, err)
	defer func() { _ = store.Close() }()

	runID, err := store.BeginRun(time.Now(), nil)
	require.NoError(t, err)
	assert.Zero(t, runID)

	require.NoError(t, store.RecordTenderScore(runID, sampleScoreRecord("TND-X", 50)))
	require.NoError(t, store.EndRun(runID, time.Now(), 0))

	status, err := store.GetStatus()
	require.NoError(t, err)
	assert.False(t, status.Connected)

	scores, err := store.ListTenderScores(10)
	require.NoError(t, err)
	assert.Nil(t, scores)
}

func TestNewResultStoreUnsupportedBackend(t *testing.T) {
	_, err := NewResultStore(schema.DatabaseBackend("oracle"), "")
	assert.Error(t, err)
}
