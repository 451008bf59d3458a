package ads

import (
	"context"
	"errors"
	"fmt"
	"iter"
)

// Static errors for err113 compliance.
var (
	ErrNoMoreItems     = errors.New("no more items")
	ErrIndexOutOfRange = errors.New("index out of range")
	ErrUnexpectedItem  = errors.New("collection item is not an object")
	ErrNoDataMember    = errors.New("response has no data collection")
)

// cursorParam is the query parameter carrying the next page token.
const cursorParam = "cursor"

// BuildFunc turns a decoded collection item into a typed value.
type BuildFunc[T any] func(item map[string]any) (T, error)

// Cursor iterates lazily over a paginated collection, following the
// next_cursor token of each page. A Cursor is not safe for concurrent use.
type Cursor[T any] struct {
	ctx   context.Context //nolint:containedctx
	doer  Doer
	req   *Request
	build BuildFunc[T]

	buffer     []any
	pos        int
	nextToken  string
	fetched    bool
	exhausted  bool
	initErr    error
	err        error
	requests   int
	yielded    int
	totalCount int64
	hasTotal   bool
}

// NewCursor creates a cursor that builds each item with build. No request is
// sent until the first advance.
func NewCursor[T any](ctx context.Context, doer Doer, req *Request, build BuildFunc[T]) *Cursor[T] {
	return &Cursor[T]{
		ctx:   ctx,
		doer:  doer,
		req:   req.Clone(),
		build: build,
	}
}

// NewRawCursor creates a cursor yielding the decoded items unchanged.
func NewRawCursor(ctx context.Context, doer Doer, req *Request) *Cursor[map[string]any] {
	return NewCursor(ctx, doer, req, func(item map[string]any) (map[string]any, error) {
		return item, nil
	})
}

// HasNext reports whether Next will return an item or an error. It may fetch
// the next page.
func (c *Cursor[T]) HasNext() bool {
	if err := c.fill(); err != nil {
		return true
	}

	return c.pos < len(c.buffer)
}

// Next returns the next item. It returns ErrNoMoreItems once the collection
// is exhausted; a failed page request is returned unchanged and repeated on
// every later call until Reset.
func (c *Cursor[T]) Next() (T, error) {
	var zero T

	if err := c.fill(); err != nil {
		return zero, err
	}

	if c.pos >= len(c.buffer) {
		return zero, ErrNoMoreItems
	}

	raw := c.buffer[c.pos]
	c.pos++
	c.yielded++

	item, ok := raw.(map[string]any)
	if !ok {
		return zero, fmt.Errorf("%w: %T", ErrUnexpectedItem, raw)
	}

	return c.build(item)
}

// All drains the remaining items.
func (c *Cursor[T]) All() ([]T, error) {
	var out []T

	for c.HasNext() {
		item, err := c.Next()
		if err != nil {
			return out, err
		}

		out = append(out, item)
	}

	return out, nil
}

// ForEach calls fn for every remaining item, stopping at the first error.
func (c *Cursor[T]) ForEach(fn func(T) error) error {
	for c.HasNext() {
		item, err := c.Next()
		if err != nil {
			return err
		}

		if err := fn(item); err != nil {
			return err
		}
	}

	return nil
}

// Items returns the remaining items as an iterator. Iteration stops after the
// first error is yielded.
func (c *Cursor[T]) Items() iter.Seq2[T, error] {
	return func(yield func(T, error) bool) {
		for c.HasNext() {
			item, err := c.Next()
			if !yield(item, err) || err != nil {
				return
			}
		}
	}
}

// Count drains the cursor and returns the number of items it produced in
// total, including those already consumed.
func (c *Cursor[T]) Count() (int, error) {
	for c.HasNext() {
		if _, err := c.Next(); err != nil {
			return c.yielded, err
		}
	}

	return c.yielded, nil
}

// At returns the item at index i. It restarts the cursor and re-fetches every
// page up to i.
func (c *Cursor[T]) At(i int) (T, error) {
	var zero T

	if i < 0 {
		return zero, fmt.Errorf("%w: %d", ErrIndexOutOfRange, i)
	}

	c.Reset()

	for n := 0; ; n++ {
		if !c.HasNext() {
			return zero, fmt.Errorf("%w: %d", ErrIndexOutOfRange, i)
		}

		item, err := c.Next()
		if err != nil {
			return zero, err
		}

		if n == i {
			return item, nil
		}
	}
}

// Reset discards all state so the next advance reissues the initial request.
// A cursor that could not be built keeps reporting its construction error.
func (c *Cursor[T]) Reset() {
	c.buffer = nil
	c.pos = 0
	c.nextToken = ""
	c.fetched = false
	c.exhausted = false
	c.err = nil
	c.yielded = 0
	c.totalCount = 0
	c.hasTotal = false
}

// Exhausted reports whether the last page has been consumed.
func (c *Cursor[T]) Exhausted() bool {
	return c.exhausted
}

// Requests returns the number of page requests issued.
func (c *Cursor[T]) Requests() int {
	return c.requests
}

// TotalCount returns the total_count member of the latest page when present.
func (c *Cursor[T]) TotalCount() (int64, bool) {
	return c.totalCount, c.hasTotal
}

// Err returns the error that stopped the cursor, if any.
func (c *Cursor[T]) Err() error {
	if c.initErr != nil {
		return c.initErr
	}

	return c.err
}

func (c *Cursor[T]) fill() error {
	if c.initErr != nil {
		return c.initErr
	}

	for c.pos >= len(c.buffer) {
		if c.err != nil {
			return c.err
		}

		if c.exhausted {
			return nil
		}

		if c.fetched && c.nextToken == "" {
			c.exhausted = true

			return nil
		}

		if err := c.fetchPage(); err != nil {
			c.err = err

			return err
		}
	}

	return nil
}

func (c *Cursor[T]) fetchPage() error {
	req := c.req
	if c.fetched {
		req = c.req.WithParam(cursorParam, c.nextToken)
	}

	c.requests++

	resp, err := req.Perform(c.ctx, c.doer)
	if err != nil {
		return err
	}

	body, err := resp.Body()
	if err != nil {
		return fmt.Errorf("reading collection page: %w", err)
	}

	items, err := collectionItems(body)
	if err != nil {
		return err
	}

	c.buffer = items
	c.pos = 0
	c.fetched = true
	c.nextToken = stringify(body["next_cursor"])

	if total, ok := coerceInt64(body["total_count"]); ok {
		c.totalCount = total
		c.hasTotal = true
	}

	return nil
}

func collectionItems(body map[string]any) ([]any, error) {
	data, ok := body["data"]
	if !ok || data == nil {
		return nil, nil
	}

	switch v := data.(type) {
	case []any:
		return v, nil
	case map[string]any:
		return []any{v}, nil
	default:
		return nil, fmt.Errorf("%w: %T", ErrNoDataMember, data)
	}
}
