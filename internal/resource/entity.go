package resource

import (
	"context"
	"sync"
)

// EntityState is a snapshot of an Entity or Stats container.
type EntityState[T any] struct {
	Data    *T
	Loading bool
	Err     string
}

// cell is the single-value state machine shared by Entity and Stats.
type cell[T any] struct {
	mu    sync.Mutex
	load  func(ctx context.Context) (*T, error)
	state EntityState[T]
	seq   uint64
	subs  subscribers[EntityState[T]]
}

// State returns a snapshot.
func (c *cell[T]) State() EntityState[T] {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Subscribe calls fn after every state change.
func (c *cell[T]) Subscribe(fn func(EntityState[T])) func() {
	return c.subs.add(fn)
}

// ClearError drops the error message.
func (c *cell[T]) ClearError() {
	c.mu.Lock()
	if c.state.Err == "" {
		c.mu.Unlock()
		return
	}
	c.state.Err = ""
	snap := c.state
	c.mu.Unlock()
	c.subs.notify(snap)
}

func (c *cell[T]) run(ctx context.Context, op func(context.Context) (*T, error)) (*T, error) {
	c.mu.Lock()
	c.seq++
	seq := c.seq
	c.state.Loading = true
	c.state.Err = ""
	snap := c.state
	c.mu.Unlock()
	c.subs.notify(snap)

	v, err := op(ctx)

	c.mu.Lock()
	if seq != c.seq {
		c.mu.Unlock()
		return v, err
	}
	if err != nil {
		c.state.Err = err.Error()
	} else {
		c.state.Data = v
	}
	c.state.Loading = false
	snap = c.state
	c.mu.Unlock()
	c.subs.notify(snap)
	return v, err
}

// Entity holds one record addressed by id.
type Entity[T any] struct {
	cell[T]
	id string
}

// NewEntity creates a container for the record id.
func NewEntity[T any](id string, get func(ctx context.Context, id string) (*T, error)) *Entity[T] {
	e := &Entity[T]{id: id}
	e.load = func(ctx context.Context) (*T, error) { return get(ctx, id) }
	return e
}

// ID returns the record id.
func (e *Entity[T]) ID() string {
	return e.id
}

// Fetch loads the record. An empty id fails with ErrNoID and sends
// nothing.
func (e *Entity[T]) Fetch(ctx context.Context) error {
	if e.id == "" {
		return ErrNoID
	}
	_, err := e.run(ctx, e.load)
	return err
}

// Refetch is Fetch.
func (e *Entity[T]) Refetch(ctx context.Context) error {
	return e.Fetch(ctx)
}

// update runs a write that returns the new version of the record.
func (e *Entity[T]) update(ctx context.Context, op func(ctx context.Context, id string) (*T, error)) (*T, error) {
	if e.id == "" {
		return nil, ErrNoID
	}
	return e.run(ctx, func(ctx context.Context) (*T, error) { return op(ctx, e.id) })
}

// Stats holds a server-computed aggregate.
type Stats[T any] struct {
	cell[T]
}

// NewStats creates a stats container.
func NewStats[T any](load func(ctx context.Context) (*T, error)) *Stats[T] {
	s := &Stats[T]{}
	s.load = load
	return s
}

// Fetch loads the aggregate.
func (s *Stats[T]) Fetch(ctx context.Context) error {
	_, err := s.run(ctx, s.load)
	return err
}

// Refetch is Fetch.
func (s *Stats[T]) Refetch(ctx context.Context) error {
	return s.Fetch(ctx)
}
