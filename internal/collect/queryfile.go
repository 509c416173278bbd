// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package collect

import (
	"fmt"
	"os"
	"time"

	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/newsriver/internal/registry"
)

// QueryFile is the on-disk representation of a collection query. A saved
// query can be reloaded later to repeat the same collection without
// retyping the filter flags.
type QueryFile struct {
	Filters QueryFilters `yaml:"filters"`
	Fetch   FetchParams  `yaml:"fetch"`
	Summary RunSummary   `yaml:"summary"`
}

// QueryFilters stores the query filters in a serializable form.
type QueryFilters struct {
	Keywords   []string `yaml:"keywords,omitempty"`
	Concepts   []string `yaml:"concepts,omitempty"`
	Categories []string `yaml:"categories,omitempty"`
	Sources    []string `yaml:"sources,omitempty"`
	Languages  []string `yaml:"languages,omitempty"`
	DateStart  string   `yaml:"date_start,omitempty"`
	DateEnd    string   `yaml:"date_end,omitempty"`
}

// FetchParams stores the fetch settings that shaped the run.
type FetchParams struct {
	SortBy   string `yaml:"sort_by"`
	SortAsc  bool   `yaml:"sort_asc"`
	MaxItems int    `yaml:"max_items"`
}

// RunSummary stores run statistics and a timestamp.
type RunSummary struct {
	Written     int       `yaml:"written"`
	ResumedFrom string    `yaml:"resumed_from,omitempty"`
	Timestamp   time.Time `yaml:"timestamp"`
}

// WriteQueryFile saves query filters, fetch settings, and a run summary to
// a YAML file.
func WriteQueryFile(path string, q registry.Query, opts registry.FetchOptions, sum Summary) error {
	qf := QueryFile{
		Filters: QueryFilters{
			Keywords:   q.Keywords,
			Concepts:   q.Concepts,
			Categories: q.Categories,
			Sources:    q.Sources,
			Languages:  q.Languages,
			DateStart:  q.DateStart,
			DateEnd:    q.DateEnd,
		},
		Fetch: FetchParams{
			SortBy:   opts.SortBy,
			SortAsc:  opts.SortAsc,
			MaxItems: opts.MaxItems,
		},
		Summary: RunSummary{
			Written:     sum.Written,
			ResumedFrom: sum.ResumedFrom,
			Timestamp:   time.Now(),
		},
	}

	data, err := yaml.Marshal(&qf)
	if err != nil {
		return fmt.Errorf("marshaling query file: %w", err)
	}
	return os.WriteFile(path, data, 0o644)
}

// ReadQueryFile loads a previously saved query file from disk.
func ReadQueryFile(path string) (*QueryFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading query file: %w", err)
	}
	var qf QueryFile
	if err := yaml.Unmarshal(data, &qf); err != nil {
		return nil, fmt.Errorf("parsing query file: %w", err)
	}
	return &qf, nil
}

// ToQuery converts stored filters back into a registry.Query.
func (f QueryFilters) ToQuery() registry.Query {
	return registry.Query{
		Keywords:   f.Keywords,
		Concepts:   f.Concepts,
		Categories: f.Categories,
		Sources:    f.Sources,
		Languages:  f.Languages,
		DateStart:  f.DateStart,
		DateEnd:    f.DateEnd,
	}
}

// ToFetchOptions converts stored fetch parameters back into
// registry.FetchOptions.
func (p FetchParams) ToFetchOptions() registry.FetchOptions {
	return registry.FetchOptions{
		SortBy:   p.SortBy,
		SortAsc:  p.SortAsc,
		MaxItems: p.MaxItems,
	}
}
