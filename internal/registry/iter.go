// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package registry

import (
	"context"
	"encoding/json"
)

// Iter pulls records page by page from a result endpoint. Usage follows the
// sql.Rows pattern:
//
//	for it.Next() {
//	    rec := it.Record()
//	    ...
//	}
//	if err := it.Err(); err != nil { ... }
type Iter struct {
	ctx   context.Context
	fetch func(ctx context.Context, page int) (pageResult, error)

	page  int // next page to request, 1-based
	pages int // total pages reported by the service, 0 until first fetch

	buf []json.RawMessage
	cur json.RawMessage

	maxItems int // -1 = unbounded
	yielded  int

	err  error
	done bool
}

func newIter(ctx context.Context, fetch func(ctx context.Context, page int) (pageResult, error), maxItems int) *Iter {
	return &Iter{ctx: ctx, fetch: fetch, page: 1, maxItems: maxItems}
}

// SliceIter wraps pre-fetched records in an Iter. Tests use it to stand in
// for a live query.
func SliceIter(records []json.RawMessage) *Iter {
	it := newIter(context.Background(), nil, -1)
	it.buf = records
	it.pages = 1
	it.page = 2
	return it
}

// Next advances to the next record, fetching further pages as needed. It
// returns false once the page count or the item cap is exhausted, or on
// error.
func (it *Iter) Next() bool {
	if it.done || it.err != nil {
		return false
	}
	if it.maxItems >= 0 && it.yielded >= it.maxItems {
		it.done = true
		return false
	}

	for len(it.buf) == 0 {
		if it.pages > 0 && it.page > it.pages {
			it.done = true
			return false
		}
		if it.fetch == nil {
			it.done = true
			return false
		}
		res, err := it.fetch(it.ctx, it.page)
		if err != nil {
			it.err = err
			return false
		}
		it.page++
		it.pages = res.Pages
		if len(res.Results) == 0 {
			it.done = true
			return false
		}
		it.buf = res.Results
	}

	it.cur = it.buf[0]
	it.buf = it.buf[1:]
	it.yielded++
	return true
}

// Record returns the record positioned by the last successful Next call.
func (it *Iter) Record() json.RawMessage {
	return it.cur
}

// Err returns the first error encountered while paging, if any.
func (it *Iter) Err() error {
	return it.err
}

// Drain consumes the remaining records into memory.
func (it *Iter) Drain() ([]json.RawMessage, error) {
	var out []json.RawMessage
	for it.Next() {
		out = append(out, it.Record())
	}
	return out, it.Err()
}
