// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package registry

import (
	"context"
	"encoding/json"
	"fmt"
)

// Result endpoints and their page sizes. The service caps article pages at
// 100 records and event pages at 50.
const (
	articlesPath      = "/api/v1/article/getArticles"
	eventsPath        = "/api/v1/event/getEvents"
	eventArticlesPath = "/api/v1/event/getArticlesForEvent"

	articlesPageSize = 100
	eventsPageSize   = 50
)

// Query is the filter set for one request. Every list is optional; dates are
// opaque strings handed to the service unparsed (malformed input fails the
// whole query remotely, never locally).
type Query struct {
	Keywords   []string
	Concepts   []string
	Categories []string
	Sources    []string
	Languages  []string
	DateStart  string
	DateEnd    string
}

// FetchOptions control result ordering and the total cap.
type FetchOptions struct {
	// SortBy is the service-side sort attribute, e.g. "date" or "rel".
	SortBy string
	// SortAsc selects ascending order when true.
	SortAsc bool
	// MaxItems caps the total records yielded; -1 means unbounded.
	MaxItems int
}

// filterBody is the wire form of a Query. Keywords, concepts and categories
// are conjunctive (all must match); sources and languages are disjunctive.
// That asymmetry is the service's filter semantics and is preserved exactly.
// An absent filter marshals to no key at all.
type filterBody struct {
	Keyword      []string `json:"keyword,omitempty"`
	KeywordOper  string   `json:"keywordOper,omitempty"`
	ConceptURI   []string `json:"conceptUri,omitempty"`
	ConceptOper  string   `json:"conceptOper,omitempty"`
	CategoryURI  []string `json:"categoryUri,omitempty"`
	CategoryOper string   `json:"categoryOper,omitempty"`
	SourceURI    []string `json:"sourceUri,omitempty"`
	SourceOper   string   `json:"sourceOper,omitempty"`
	Lang         []string `json:"lang,omitempty"`
	DateStart    string   `json:"dateStart,omitempty"`
	DateEnd      string   `json:"dateEnd,omitempty"`
}

// buildFilter resolves the query's labels through r and assembles the wire
// filter. Unresolvable labels come back as empty URIs and are passed through
// unchanged.
func buildFilter(ctx context.Context, r Resolver, q Query) (filterBody, error) {
	var body filterBody

	if len(q.Keywords) > 0 {
		body.Keyword = q.Keywords
		body.KeywordOper = "and"
	}
	if len(q.Concepts) > 0 {
		pairs, err := resolveAll(ctx, q.Concepts, r.ConceptURI)
		if err != nil {
			return filterBody{}, fmt.Errorf("resolving concepts: %w", err)
		}
		body.ConceptURI = uris(pairs)
		body.ConceptOper = "and"
	}
	if len(q.Categories) > 0 {
		pairs, err := resolveAll(ctx, q.Categories, r.CategoryURI)
		if err != nil {
			return filterBody{}, fmt.Errorf("resolving categories: %w", err)
		}
		body.CategoryURI = uris(pairs)
		body.CategoryOper = "and"
	}
	if len(q.Sources) > 0 {
		pairs, err := resolveAll(ctx, q.Sources, r.SourceURI)
		if err != nil {
			return filterBody{}, fmt.Errorf("resolving sources: %w", err)
		}
		body.SourceURI = uris(pairs)
		body.SourceOper = "or"
	}
	// Languages are already service codes ("eng", "deu"); no lookup.
	body.Lang = q.Languages
	body.DateStart = q.DateStart
	body.DateEnd = q.DateEnd

	return body, nil
}

// articlesRequest pages the getArticles endpoint.
type articlesRequest struct {
	filterBody
	ResultType string `json:"resultType"`
	Page       int    `json:"articlesPage"`
	Count      int    `json:"articlesCount"`
	SortBy     string `json:"articlesSortBy"`
	SortAsc    bool   `json:"articlesSortByAsc"`
	APIKey     string `json:"apiKey"`
}

// eventsRequest pages the getEvents endpoint.
type eventsRequest struct {
	filterBody
	ResultType string `json:"resultType"`
	Page       int    `json:"eventsPage"`
	Count      int    `json:"eventsCount"`
	SortBy     string `json:"eventsSortBy"`
	SortAsc    bool   `json:"eventsSortByAsc"`
	APIKey     string `json:"apiKey"`
}

// eventArticlesRequest pages a single event's articles.
type eventArticlesRequest struct {
	filterBody
	EventURI   string `json:"eventUri"`
	ResultType string `json:"resultType"`
	Page       int    `json:"articlesPage"`
	Count      int    `json:"articlesCount"`
	SortBy     string `json:"articlesSortBy"`
	SortAsc    bool   `json:"articlesSortByAsc"`
	APIKey     string `json:"apiKey"`
}

// pageResult is one page of opaque records plus paging metadata.
type pageResult struct {
	Results      []json.RawMessage `json:"results"`
	TotalResults int               `json:"totalResults"`
	Page         int               `json:"page"`
	Pages        int               `json:"pages"`
}

type articlesEnvelope struct {
	Articles pageResult `json:"articles"`
	Error    string     `json:"error,omitempty"`
}

type eventsEnvelope struct {
	Events pageResult `json:"events"`
	Error  string     `json:"error,omitempty"`
}

// Articles executes an article query and returns an iterator over the
// matching records, sorted and capped per opts.
func (c *Client) Articles(ctx context.Context, q Query, opts FetchOptions) (*Iter, error) {
	filter, err := buildFilter(ctx, c, q)
	if err != nil {
		return nil, err
	}

	fetch := func(ctx context.Context, page int) (pageResult, error) {
		req := articlesRequest{
			filterBody: filter,
			ResultType: "articles",
			Page:       page,
			Count:      articlesPageSize,
			SortBy:     opts.SortBy,
			SortAsc:    opts.SortAsc,
			APIKey:     c.cfg.APIKey,
		}
		var env articlesEnvelope
		if err := c.post(ctx, articlesPath, req, &env); err != nil {
			return pageResult{}, err
		}
		if env.Error != "" {
			return pageResult{}, fmt.Errorf("event registry: %s", env.Error)
		}
		return env.Articles, nil
	}

	return newIter(ctx, fetch, opts.MaxItems), nil
}

// Events executes an event query and returns an iterator over the matching
// records.
func (c *Client) Events(ctx context.Context, q Query, opts FetchOptions) (*Iter, error) {
	filter, err := buildFilter(ctx, c, q)
	if err != nil {
		return nil, err
	}

	fetch := func(ctx context.Context, page int) (pageResult, error) {
		req := eventsRequest{
			filterBody: filter,
			ResultType: "events",
			Page:       page,
			Count:      eventsPageSize,
			SortBy:     opts.SortBy,
			SortAsc:    opts.SortAsc,
			APIKey:     c.cfg.APIKey,
		}
		var env eventsEnvelope
		if err := c.post(ctx, eventsPath, req, &env); err != nil {
			return pageResult{}, err
		}
		if env.Error != "" {
			return pageResult{}, fmt.Errorf("event registry: %s", env.Error)
		}
		return env.Events, nil
	}

	return newIter(ctx, fetch, opts.MaxItems), nil
}

// EventArticles executes an article query scoped to a single event URI.
func (c *Client) EventArticles(ctx context.Context, eventURI string, q Query, opts FetchOptions) (*Iter, error) {
	if eventURI == "" {
		return nil, fmt.Errorf("event URI is required")
	}

	filter, err := buildFilter(ctx, c, q)
	if err != nil {
		return nil, err
	}

	fetch := func(ctx context.Context, page int) (pageResult, error) {
		req := eventArticlesRequest{
			filterBody: filter,
			EventURI:   eventURI,
			ResultType: "articles",
			Page:       page,
			Count:      articlesPageSize,
			SortBy:     opts.SortBy,
			SortAsc:    opts.SortAsc,
			APIKey:     c.cfg.APIKey,
		}
		var env articlesEnvelope
		if err := c.post(ctx, eventArticlesPath, req, &env); err != nil {
			return pageResult{}, err
		}
		if env.Error != "" {
			return pageResult{}, fmt.Errorf("event registry: %s", env.Error)
		}
		return env.Articles, nil
	}

	return newIter(ctx, fetch, opts.MaxItems), nil
}
