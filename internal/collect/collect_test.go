// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package collect

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/newsriver/internal/registry"
	"github.com/pdiddy/newsriver/internal/sink"
)

// stubQuerier records the queries it receives and answers them from canned
// record slices.
type stubQuerier struct {
	queries   []registry.Query
	eventURIs []string
	records   []json.RawMessage
	perEvent  map[string][]json.RawMessage
	err       error
}

func (s *stubQuerier) Articles(_ context.Context, q registry.Query, _ registry.FetchOptions) (*registry.Iter, error) {
	s.queries = append(s.queries, q)
	if s.err != nil {
		return nil, s.err
	}
	return registry.SliceIter(s.records), nil
}

func (s *stubQuerier) Events(_ context.Context, q registry.Query, _ registry.FetchOptions) (*registry.Iter, error) {
	s.queries = append(s.queries, q)
	if s.err != nil {
		return nil, s.err
	}
	return registry.SliceIter(s.records), nil
}

func (s *stubQuerier) EventArticles(_ context.Context, eventURI string, q registry.Query, _ registry.FetchOptions) (*registry.Iter, error) {
	s.queries = append(s.queries, q)
	s.eventURIs = append(s.eventURIs, eventURI)
	if s.err != nil {
		return nil, s.err
	}
	if s.perEvent != nil {
		return registry.SliceIter(s.perEvent[eventURI]), nil
	}
	return registry.SliceIter(s.records), nil
}

func records(vals ...string) []json.RawMessage {
	out := make([]json.RawMessage, len(vals))
	for i, v := range vals {
		out[i] = json.RawMessage(v)
	}
	return out
}

func TestArticlesResumesFromLastSavedDate(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "articles.json")
	prior := `{"uri":"a1","date":"2023-05-01"}` + "\n" + `{"uri":"a2","date":"2023-05-03"}` + "\n"
	require.NoError(t, os.WriteFile(path, []byte(prior), 0o644))

	stub := &stubQuerier{records: records(`{"uri":"a3","date":"2023-05-04"}`)}
	c := New(stub, nil)

	q := registry.Query{Keywords: []string{"fusion"}, DateStart: "2023-01-01"}
	sum, err := c.Articles(context.Background(), q, registry.FetchOptions{MaxItems: -1}, SaveOptions{Path: path, Format: sink.FormatLine})
	require.NoError(t, err)

	require.Len(t, stub.queries, 1)
	assert.Equal(t, "2023-05-03", stub.queries[0].DateStart)
	assert.Equal(t, "2023-05-03", sum.ResumedFrom)
	assert.Equal(t, 1, sum.Written)
}

func TestArticlesFreshFileKeepsConfiguredStart(t *testing.T) {
	path := filepath.Join(t.TempDir(), "articles.json")
	stub := &stubQuerier{records: records(`{"uri":"a1","date":"2023-05-01"}`)}
	c := New(stub, nil)

	q := registry.Query{DateStart: "2023-01-01"}
	sum, err := c.Articles(context.Background(), q, registry.FetchOptions{MaxItems: -1}, SaveOptions{Path: path, Format: sink.FormatLine})
	require.NoError(t, err)

	require.Len(t, stub.queries, 1)
	assert.Equal(t, "2023-01-01", stub.queries[0].DateStart)
	assert.Empty(t, sum.ResumedFrom)
}

func TestEventsResumeUsesEventDateField(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "events.json")
	prior := `{"uri":"e1","eventDate":"2023-06-10"}` + "\n"
	require.NoError(t, os.WriteFile(path, []byte(prior), 0o644))

	stub := &stubQuerier{records: records(`{"uri":"e2","eventDate":"2023-06-11"}`)}
	c := New(stub, nil)

	_, err := c.Events(context.Background(), registry.Query{}, registry.FetchOptions{MaxItems: -1}, SaveOptions{Path: path, Format: sink.FormatLine})
	require.NoError(t, err)

	require.Len(t, stub.queries, 1)
	assert.Equal(t, "2023-06-10", stub.queries[0].DateStart)
}

func TestArticlesNoPathDrainsWithoutSaving(t *testing.T) {
	stub := &stubQuerier{records: records(`{"uri":"a1"}`, `{"uri":"a2"}`)}
	c := New(stub, nil)

	sum, err := c.Articles(context.Background(), registry.Query{}, registry.FetchOptions{MaxItems: -1}, SaveOptions{})
	require.NoError(t, err)
	assert.Equal(t, 2, sum.Written)

	// Resume never applies without an output file.
	assert.Empty(t, stub.queries[0].DateStart)
}

func TestEventArticlesNeverResumes(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "ev1.json")
	prior := `{"uri":"a1","date":"2023-05-01"}` + "\n"
	require.NoError(t, os.WriteFile(path, []byte(prior), 0o644))

	stub := &stubQuerier{records: records(`{"uri":"a2","date":"2023-05-02"}`)}
	c := New(stub, nil)

	q := registry.Query{DateStart: "2023-01-01"}
	articles, err := c.EventArticles(context.Background(), "ev1", q, registry.FetchOptions{MaxItems: -1}, SaveOptions{Path: path, Format: sink.FormatLine})
	require.NoError(t, err)
	assert.Len(t, articles, 1)

	require.Len(t, stub.queries, 1)
	assert.Equal(t, "2023-01-01", stub.queries[0].DateStart)
}

func TestEventArticlesFromFileQueriesEachIDInOrder(t *testing.T) {
	dir := t.TempDir()
	idsPath := filepath.Join(dir, "events.json")
	events := `{"uri":"ev-a","eventDate":"2023-06-01"}` + "\n" + `{"uri":"ev-b","eventDate":"2023-06-02"}` + "\n"
	require.NoError(t, os.WriteFile(idsPath, []byte(events), 0o644))

	stub := &stubQuerier{perEvent: map[string][]json.RawMessage{
		"ev-a": records(`{"uri":"a1"}`, `{"uri":"a2"}`),
		"ev-b": records(`{"uri":"b1"}`),
	}}
	c := New(stub, nil)

	outDir := filepath.Join(dir, "out")
	results, err := c.EventArticlesFromFile(context.Background(), idsPath, IDsEvents, registry.Query{}, registry.FetchOptions{MaxItems: -1}, outDir, sink.FormatLine)
	require.NoError(t, err)

	assert.Equal(t, []string{"ev-a", "ev-b"}, stub.eventURIs)
	require.Len(t, results, 2)
	assert.Equal(t, "ev-a", results[0].EventID)
	assert.Len(t, results[0].Articles, 2)
	assert.Equal(t, "ev-b", results[1].EventID)
	assert.Len(t, results[1].Articles, 1)

	for _, id := range []string{"ev-a", "ev-b"} {
		_, err := os.Stat(filepath.Join(outDir, id+".json"))
		assert.NoError(t, err, "expected per-event output for %s", id)
	}
}

func TestEventArticlesFromFileAbortsBatchOnError(t *testing.T) {
	dir := t.TempDir()
	idsPath := filepath.Join(dir, "ids.txt")
	require.NoError(t, os.WriteFile(idsPath, []byte("ev-a\nev-b\n"), 0o644))

	stub := &stubQuerier{err: fmt.Errorf("service unavailable")}
	c := New(stub, nil)

	results, err := c.EventArticlesFromFile(context.Background(), idsPath, IDsPlain, registry.Query{}, registry.FetchOptions{MaxItems: -1}, "", sink.FormatLine)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "event ev-a")
	assert.Empty(t, results)
	assert.Equal(t, []string{"ev-a"}, stub.eventURIs)
}
