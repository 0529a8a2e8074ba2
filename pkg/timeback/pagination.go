package timeback

import (
	"context"
	"fmt"

	"github.com/fivetwenty-io/timeback/internal/constants"
)

// ListFunc fetches one page of a collection.
type ListFunc[T any] func(ctx context.Context, params *QueryParams) (*ListResponse[T], error)

// PaginationIterator walks a collection page by page using limit and offset.
type PaginationIterator[T any] struct {
	ctx     context.Context //nolint:containedctx
	list    ListFunc[T]
	params  *QueryParams
	current []T
	index   int
	total   int
	started bool
	done    bool
	err     error
}

// NewPaginationIterator iterates list starting at params' offset. A zero limit uses the default page size.
func NewPaginationIterator[T any](ctx context.Context, list ListFunc[T], params *QueryParams) *PaginationIterator[T] {
	if params == nil {
		params = NewQueryParams()
	} else {
		params = params.Clone()
	}

	if params.Limit == 0 {
		params.Limit = constants.DefaultPageSize
	}

	return &PaginationIterator[T]{ctx: ctx, list: list, params: params}
}

// HasNext reports whether Next will return an item. Fetch errors surface through Err.
func (p *PaginationIterator[T]) HasNext() bool {
	if p.index < len(p.current) {
		return true
	}

	if p.done || p.err != nil {
		return false
	}

	p.err = p.fetch()
	if p.err != nil {
		return false
	}

	return p.index < len(p.current)
}

// Next returns the next item.
func (p *PaginationIterator[T]) Next() (T, error) {
	var zero T

	if !p.HasNext() {
		if p.err != nil {
			return zero, p.err
		}

		return zero, ErrNoMoreItems
	}

	item := p.current[p.index]
	p.index++

	return item, nil
}

// Err returns the first fetch error.
func (p *PaginationIterator[T]) Err() error {
	return p.err
}

// Total is the collection size reported by the last page, or -1 before the first fetch.
func (p *PaginationIterator[T]) Total() int {
	if !p.started {
		return -1
	}

	return p.total
}

// All drains the iterator.
func (p *PaginationIterator[T]) All() ([]T, error) {
	var items []T

	for p.HasNext() {
		items = append(items, p.current[p.index])
		p.index++
	}

	if p.err != nil {
		return items, p.err
	}

	return items, nil
}

// ForEach calls fn for every item, stopping at the first error.
func (p *PaginationIterator[T]) ForEach(fn func(T) error) error {
	for p.HasNext() {
		item := p.current[p.index]
		p.index++

		err := fn(item)
		if err != nil {
			return err
		}
	}

	return p.err
}

func (p *PaginationIterator[T]) fetch() error {
	err := p.ctx.Err()
	if err != nil {
		return err
	}

	page, err := p.list(p.ctx, p.params)
	if err != nil {
		return fmt.Errorf("fetching page at offset %d: %w", p.params.Offset, err)
	}

	p.started = true
	p.current = page.Items
	p.index = 0
	p.total = page.TotalCount
	p.params.Offset += len(page.Items)

	switch {
	case len(page.Items) == 0:
		p.done = true
	case p.total > 0:
		// Servers may cap the page below the requested limit, so only totalCount ends the walk.
		p.done = p.params.Offset >= p.total
	default:
		p.done = len(page.Items) < p.params.Limit
	}

	return nil
}

// FetchAll collects every item of a collection.
func FetchAll[T any](ctx context.Context, list ListFunc[T], params *QueryParams) ([]T, error) {
	return NewPaginationIterator(ctx, list, params).All()
}
