// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package registry

import (
	"context"
)

// Suggestion endpoints. One lookup is issued per label; the service does not
// batch these.
const (
	suggestConceptsPath   = "/api/v1/suggestConceptsFast"
	suggestCategoriesPath = "/api/v1/suggestCategoriesFast"
	suggestSourcesPath    = "/api/v1/suggestSourcesFast"
)

// URIPair holds a user-supplied label together with the canonical URI the
// service resolved it to. The URI may be empty when the service has no
// suggestion for the label; such pairs are passed through to queries
// unchanged rather than rejected locally.
type URIPair struct {
	Label string
	URI   string
}

// Equal compares pairs by URI only; the label is metadata.
func (p URIPair) Equal(o URIPair) bool {
	return p.URI == o.URI
}

// Resolver resolves human-readable labels to canonical URIs. *Client is the
// production implementation; tests substitute a stub.
type Resolver interface {
	ConceptURI(ctx context.Context, label string) (string, error)
	CategoryURI(ctx context.Context, label string) (string, error)
	SourceURI(ctx context.Context, label string) (string, error)
}

type suggestRequest struct {
	Prefix string `json:"prefix"`
	Count  int    `json:"count"`
	APIKey string `json:"apiKey"`
}

type suggestion struct {
	URI   string `json:"uri"`
	Label string `json:"label,omitempty"`
}

// suggest returns the URI of the top suggestion for label, or "" when the
// service has none.
func (c *Client) suggest(ctx context.Context, path, label string) (string, error) {
	var out []suggestion
	req := suggestRequest{Prefix: label, Count: 1, APIKey: c.cfg.APIKey}
	if err := c.post(ctx, path, req, &out); err != nil {
		return "", err
	}
	if len(out) == 0 {
		return "", nil
	}
	return out[0].URI, nil
}

// ConceptURI resolves a concept label (e.g. "artificial intelligence") to a
// concept URI.
func (c *Client) ConceptURI(ctx context.Context, label string) (string, error) {
	return c.suggest(ctx, suggestConceptsPath, label)
}

// CategoryURI resolves a category label (e.g. "business") to a category URI.
func (c *Client) CategoryURI(ctx context.Context, label string) (string, error) {
	return c.suggest(ctx, suggestCategoriesPath, label)
}

// SourceURI resolves a source label (e.g. "bbc.co.uk") to a source URI.
func (c *Client) SourceURI(ctx context.Context, label string) (string, error) {
	return c.suggest(ctx, suggestSourcesPath, label)
}

// Concepts resolves each label through one remote lookup and returns the
// label/URI pairs in input order.
func (c *Client) Concepts(ctx context.Context, labels []string) ([]URIPair, error) {
	return resolveAll(ctx, labels, c.ConceptURI)
}

// Categories resolves category labels to label/URI pairs.
func (c *Client) Categories(ctx context.Context, labels []string) ([]URIPair, error) {
	return resolveAll(ctx, labels, c.CategoryURI)
}

// Sources resolves source labels to label/URI pairs.
func (c *Client) Sources(ctx context.Context, labels []string) ([]URIPair, error) {
	return resolveAll(ctx, labels, c.SourceURI)
}

func resolveAll(ctx context.Context, labels []string, lookup func(context.Context, string) (string, error)) ([]URIPair, error) {
	pairs := make([]URIPair, 0, len(labels))
	for _, label := range labels {
		uri, err := lookup(ctx, label)
		if err != nil {
			return nil, err
		}
		pairs = append(pairs, URIPair{Label: label, URI: uri})
	}
	return pairs, nil
}

// uris projects the URI column of pairs, keeping unresolved (empty) entries
// in place.
func uris(pairs []URIPair) []string {
	out := make([]string, len(pairs))
	for i, p := range pairs {
		out[i] = p.URI
	}
	return out
}
