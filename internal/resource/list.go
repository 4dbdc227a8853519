// Package resource holds per-screen state containers that bridge the
// backend services to views: the fetched data, a loading flag, the last
// error message and, for lists, the pagination.
//
// Every fetch takes a sequence number and only the latest one may write
// its result; a slow earlier response never overwrites a later one. Writes
// are followed by a full re-read of the list.
package resource

import (
	"context"
	"sync"

	"github.com/tecsupnav/placesadmin/internal/platform"
)

// Query is a filter set that can be layered and paged.
type Query[Q any] interface {
	Merge(other Q) Q
	WithPage(n int) Q
}

// FetchFunc loads one page.
type FetchFunc[T any, Q any] func(ctx context.Context, q Q) (*platform.Page[T], error)

// ListState is a snapshot of a List.
type ListState[T any] struct {
	Items      []T
	Loading    bool
	Err        string
	Pagination platform.Pagination
	// Search is the free-text query whose results Items holds, or "" when
	// Items is a filtered page.
	Search string
}

// List is a paginated list container.
type List[T any, Q Query[Q]] struct {
	mu      sync.Mutex
	fetch   FetchFunc[T, Q]
	initial Q
	filters Q
	state   ListState[T]
	seq     uint64
	subs    subscribers[ListState[T]]
}

// NewList creates a list whose fetches always start from initial.
func NewList[T any, Q Query[Q]](fetch FetchFunc[T, Q], initial Q) *List[T, Q] {
	return &List[T, Q]{
		fetch:   fetch,
		initial: initial,
		filters: initial,
		state:   ListState[T]{Pagination: platform.DefaultPagination()},
	}
}

// State returns a snapshot.
func (l *List[T, Q]) State() ListState[T] {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.snapshot()
}

// Filters returns the filters of the last fetch.
func (l *List[T, Q]) Filters() Q {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.filters
}

// Subscribe calls fn after every state change. The returned function
// unsubscribes.
func (l *List[T, Q]) Subscribe(fn func(ListState[T])) func() {
	return l.subs.add(fn)
}

// Fetch loads q merged over the initial filters and remembers the result
// as the current filters.
func (l *List[T, Q]) Fetch(ctx context.Context, q Q) error {
	l.mu.Lock()
	l.filters = l.initial.Merge(q)
	filters := l.filters
	l.mu.Unlock()
	return l.run(ctx, filters)
}

// Filter replaces the filters like Fetch and goes back to the first page.
func (l *List[T, Q]) Filter(ctx context.Context, q Q) error {
	return l.Fetch(ctx, q.WithPage(1))
}

// SetPage loads page n with the current filters.
func (l *List[T, Q]) SetPage(ctx context.Context, n int) error {
	l.mu.Lock()
	l.filters = l.filters.WithPage(n)
	filters := l.filters
	l.mu.Unlock()
	return l.run(ctx, filters)
}

// Refetch reloads the current filters.
func (l *List[T, Q]) Refetch(ctx context.Context) error {
	return l.run(ctx, l.Filters())
}

// ClearError drops the error message.
func (l *List[T, Q]) ClearError() {
	l.mu.Lock()
	if l.state.Err == "" {
		l.mu.Unlock()
		return
	}
	l.state.Err = ""
	snap := l.snapshot()
	l.mu.Unlock()
	l.subs.notify(snap)
}

func (l *List[T, Q]) run(ctx context.Context, q Q) error {
	seq := l.begin()
	page, err := l.fetch(ctx, q)
	l.finish(seq, func(st *ListState[T]) {
		if err != nil {
			st.Err = err.Error()
			return
		}
		st.Items = page.Items
		st.Pagination = page.Pagination
		st.Search = ""
	})
	return err
}

// begin marks the list loading, clears the error and returns the new
// sequence number.
func (l *List[T, Q]) begin() uint64 {
	l.mu.Lock()
	l.seq++
	seq := l.seq
	l.state.Loading = true
	l.state.Err = ""
	snap := l.snapshot()
	l.mu.Unlock()
	l.subs.notify(snap)
	return seq
}

// finish applies a result if seq is still the latest. It reports whether
// the result was applied.
func (l *List[T, Q]) finish(seq uint64, apply func(*ListState[T])) bool {
	l.mu.Lock()
	if seq != l.seq {
		l.mu.Unlock()
		return false
	}
	apply(&l.state)
	l.state.Loading = false
	snap := l.snapshot()
	l.mu.Unlock()
	l.subs.notify(snap)
	return true
}

func (l *List[T, Q]) snapshot() ListState[T] {
	s := l.state
	s.Items = append([]T(nil), l.state.Items...)
	return s
}

// mutate runs a write against the list's resource. On success the list is
// re-read; a failed re-read shows up in Err only, since the write itself
// went through. On failure Err is set and the error returned.
func mutate[T any, Q Query[Q], R any](ctx context.Context, l *List[T, Q], op func(context.Context) (R, error)) (R, error) {
	seq := l.begin()
	r, err := op(ctx)
	if err != nil {
		l.finish(seq, func(st *ListState[T]) { st.Err = err.Error() })
		var zero R
		return zero, err
	}
	_ = l.Refetch(ctx)
	return r, nil
}
