// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package ledger

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/newsriver/internal/registry"
	"github.com/pdiddy/newsriver/pkg/types"
)

func openTestLedger(t *testing.T, maxResults int) *Ledger {
	t.Helper()
	l, err := Open(types.LedgerConfig{
		Path:       filepath.Join(t.TempDir(), "ledger", "runs.db"),
		MaxResults: maxResults,
	})
	require.NoError(t, err)
	t.Cleanup(func() { l.Close() })
	return l
}

func TestRecordAndListRuns(t *testing.T) {
	l := openTestLedger(t, 0)
	ctx := context.Background()

	started := time.Date(2023, 6, 1, 10, 0, 0, 0, time.UTC)
	run := Run{
		Command:     "articles",
		Filters:     registry.Query{Keywords: []string{"fusion"}, DateStart: "2023-01-01"},
		OutputPath:  "out/articles.json",
		Records:     120,
		ResumedFrom: "2023-03-15",
		StartedAt:   started,
		FinishedAt:  started.Add(2 * time.Minute),
	}
	require.NoError(t, l.RecordRun(ctx, run))
	require.NoError(t, l.RecordRun(ctx, Run{
		Command:    "events",
		Records:    5,
		StartedAt:  started.Add(time.Hour),
		FinishedAt: started.Add(time.Hour + time.Minute),
	}))

	runs, err := l.ListRuns(ctx, "")
	require.NoError(t, err)
	require.Len(t, runs, 2)

	// Newest first.
	assert.Equal(t, "events", runs[0].Command)
	assert.Equal(t, "articles", runs[1].Command)

	got := runs[1]
	assert.Equal(t, run.Filters, got.Filters)
	assert.Equal(t, "out/articles.json", got.OutputPath)
	assert.Equal(t, 120, got.Records)
	assert.Equal(t, "2023-03-15", got.ResumedFrom)
	assert.True(t, got.StartedAt.Equal(run.StartedAt))
	assert.True(t, got.FinishedAt.Equal(run.FinishedAt))
}

func TestListRunsFiltersByCommand(t *testing.T) {
	l := openTestLedger(t, 0)
	ctx := context.Background()
	now := time.Now()

	for _, cmd := range []string{"articles", "events", "articles"} {
		require.NoError(t, l.RecordRun(ctx, Run{Command: cmd, StartedAt: now, FinishedAt: now}))
	}

	runs, err := l.ListRuns(ctx, "articles")
	require.NoError(t, err)
	require.Len(t, runs, 2)
	for _, r := range runs {
		assert.Equal(t, "articles", r.Command)
	}
}

func TestListRunsHonorsMaxResults(t *testing.T) {
	l := openTestLedger(t, 2)
	ctx := context.Background()
	now := time.Now()

	for i := 0; i < 5; i++ {
		require.NoError(t, l.RecordRun(ctx, Run{Command: "articles", Records: i, StartedAt: now, FinishedAt: now}))
	}

	runs, err := l.ListRuns(ctx, "")
	require.NoError(t, err)
	require.Len(t, runs, 2)
	assert.Equal(t, 4, runs[0].Records)
	assert.Equal(t, 3, runs[1].Records)
}

func TestOpenRequiresPath(t *testing.T) {
	_, err := Open(types.LedgerConfig{})
	assert.Error(t, err)
}
