// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package collect orchestrates Event Registry queries and file persistence:
// it derives resume points from existing output, executes queries through the
// registry client, and streams results into the sink.
package collect

import (
	"context"
	"encoding/json"
	"fmt"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/pdiddy/newsriver/internal/registry"
	"github.com/pdiddy/newsriver/internal/sink"
)

// Date fields inspected for resume points. Articles carry "date", events
// carry "eventDate"; nothing else in a record is ever interpreted.
const (
	articleDateField = "date"
	eventDateField   = "eventDate"
)

// Querier executes remote queries. *registry.Client is the production
// implementation; tests substitute a stub built on registry.SliceIter.
type Querier interface {
	Articles(ctx context.Context, q registry.Query, opts registry.FetchOptions) (*registry.Iter, error)
	Events(ctx context.Context, q registry.Query, opts registry.FetchOptions) (*registry.Iter, error)
	EventArticles(ctx context.Context, eventURI string, q registry.Query, opts registry.FetchOptions) (*registry.Iter, error)
}

// SaveOptions name the output target. An empty Path means results are
// fetched and counted but not persisted.
type SaveOptions struct {
	Path   string
	Format sink.Format
}

// Summary reports one collection run.
type Summary struct {
	// Written is the number of records persisted (or drained when no path
	// was given).
	Written int
	// ResumedFrom is the date taken from the output file's last record,
	// when resume replaced the configured start date.
	ResumedFrom string
}

// Collector ties the registry client to the sink.
type Collector struct {
	q   Querier
	log *zap.SugaredLogger
}

// New builds a Collector. A nil logger disables logging.
func New(q Querier, log *zap.SugaredLogger) *Collector {
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	return &Collector{q: q, log: log}
}

// Articles fetches articles matching q and persists them per save. When the
// output file already has records, the date of its last record silently
// replaces q.DateStart so repeated runs resume where they left off.
func (c *Collector) Articles(ctx context.Context, q registry.Query, opts registry.FetchOptions, save SaveOptions) (Summary, error) {
	return c.collect(ctx, q, opts, save, articleDateField, c.q.Articles)
}

// Events fetches events matching q, resuming from the last record's
// eventDate on repeated runs against the same file.
func (c *Collector) Events(ctx context.Context, q registry.Query, opts registry.FetchOptions, save SaveOptions) (Summary, error) {
	return c.collect(ctx, q, opts, save, eventDateField, c.q.Events)
}

func (c *Collector) collect(
	ctx context.Context,
	q registry.Query,
	opts registry.FetchOptions,
	save SaveOptions,
	dateField string,
	run func(context.Context, registry.Query, registry.FetchOptions) (*registry.Iter, error),
) (Summary, error) {
	var summary Summary

	if save.Path != "" {
		resume, err := sink.ResumePoint(save.Path, dateField)
		if err != nil {
			return summary, err
		}
		if resume != "" {
			summary.ResumedFrom = resume
			q.DateStart = resume
			c.log.Infow("resuming from last saved record", "path", save.Path, "date_start", resume)
		}
	}

	it, err := run(ctx, q, opts)
	if err != nil {
		return summary, err
	}

	if save.Path == "" {
		records, err := it.Drain()
		summary.Written = len(records)
		return summary, err
	}

	n, err := sink.Append(save.Path, save.Format, it)
	summary.Written = n
	if err != nil {
		return summary, err
	}
	c.log.Infow("collection finished", "path", save.Path, "records", n)
	return summary, nil
}

// EventArticles fetches the articles of a single event, optionally persists
// them, and returns them. Per-event queries never resume from existing
// output.
func (c *Collector) EventArticles(ctx context.Context, eventURI string, q registry.Query, opts registry.FetchOptions, save SaveOptions) ([]json.RawMessage, error) {
	it, err := c.q.EventArticles(ctx, eventURI, q, opts)
	if err != nil {
		return nil, err
	}

	records, err := it.Drain()
	if err != nil {
		return nil, err
	}

	if save.Path != "" {
		if _, err := sink.Append(save.Path, save.Format, registry.SliceIter(records)); err != nil {
			return nil, err
		}
		c.log.Infow("event articles saved", "event", eventURI, "path", save.Path, "records", len(records))
	}
	return records, nil
}

// EventArticles pairs an event identifier with its fetched article
// collection.
type EventArticles struct {
	EventID  string            `json:"event_id"`
	Articles []json.RawMessage `json:"articles"`
}

// EventArticlesFromFile reads event identifiers from idsPath (see
// ReadEventIDs) and fetches each event's articles in sequence, one query per
// identifier, each saved to <folder>/<id>.json when folder is set. There is
// no partial-failure isolation: an error in one event's query aborts the
// remaining batch.
func (c *Collector) EventArticlesFromFile(ctx context.Context, idsPath string, idsType IDFileType, q registry.Query, opts registry.FetchOptions, folder string, format sink.Format) ([]EventArticles, error) {
	ids, err := ReadEventIDs(idsPath, idsType)
	if err != nil {
		return nil, err
	}

	results := make([]EventArticles, 0, len(ids))
	for _, id := range ids {
		save := SaveOptions{Format: format}
		if folder != "" {
			save.Path = filepath.Join(folder, id+".json")
		}

		articles, err := c.EventArticles(ctx, id, q, opts, save)
		if err != nil {
			return results, fmt.Errorf("event %s: %w", id, err)
		}
		results = append(results, EventArticles{EventID: id, Articles: articles})
	}
	return results, nil
}
