// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package collect

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/newsriver/internal/registry"
)

func TestQueryFileRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "query.yaml")

	q := registry.Query{
		Keywords:  []string{"fusion", "tokamak"},
		Concepts:  []string{"nuclear fusion"},
		Languages: []string{"eng"},
		DateStart: "2023-01-01",
		DateEnd:   "2023-06-30",
	}
	opts := registry.FetchOptions{SortBy: "date", SortAsc: true, MaxItems: 500}
	sum := Summary{Written: 42, ResumedFrom: "2023-03-15"}

	require.NoError(t, WriteQueryFile(path, q, opts, sum))

	qf, err := ReadQueryFile(path)
	require.NoError(t, err)

	assert.Equal(t, q, qf.Filters.ToQuery())
	assert.Equal(t, opts, qf.Fetch.ToFetchOptions())
	assert.Equal(t, 42, qf.Summary.Written)
	assert.Equal(t, "2023-03-15", qf.Summary.ResumedFrom)
	assert.False(t, qf.Summary.Timestamp.IsZero())
}

func TestReadQueryFileMissing(t *testing.T) {
	_, err := ReadQueryFile(filepath.Join(t.TempDir(), "absent.yaml"))
	assert.Error(t, err)
}

func TestReadQueryFileMalformed(t *testing.T) {
	path := writeIDsFile(t, "filters: [unclosed")
	_, err := ReadQueryFile(path)
	assert.Error(t, err)
}
