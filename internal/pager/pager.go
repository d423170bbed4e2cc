// Package pager implements the per-screen pagination state machine shared
// by every list endpoint: page/pageSize/total tracking, next/prev/refresh,
// and the full-page "maybe more" heuristic when the server omits a total.
package pager

import (
	"context"
	"sync"
)

type State string

const (
	StateIdle    State = "idle"
	StateLoading State = "loading"
	StateLoaded  State = "loaded"
	StateErrored State = "errored"
)

// Page is what one load of the underlying list endpoint produced. Total
// is 0 when the server did not report one; Page and PageSize fall back to
// the requested values when absent from the response.
type Page[T any] struct {
	Items    []T
	Page     int
	PageSize int
	Total    int
	Dropped  int // rows discarded during entity parsing
}

// LoadFunc issues the underlying list request for one page.
type LoadFunc[T any] func(ctx context.Context, page, pageSize int) (Page[T], error)

// Pager drives one list endpoint. It is re-entrant: Load may be called
// from any state and from concurrent goroutines; each call takes a
// generation number, and a response is applied only when its generation
// is still the latest, so a slow response finishing after a newer request
// never overwrites newer state.
//
// Filter parameters are owned by the caller and baked into the LoadFunc;
// the pager is filter-agnostic.
type Pager[T any] struct {
	load LoadFunc[T]

	mu         sync.Mutex
	state      State
	generation uint64

	items    []T
	page     int
	pageSize int
	total    int
	dropped  int
	lastErr  error

	// lastFull records whether the most recent successful load returned a
	// full page; it backs CanNext when the server omits a total. A page
	// that happens to be exactly full with no further data makes this
	// wrong by one boundary — inherent without server cooperation.
	lastFull bool
}

func New[T any](pageSize int, load LoadFunc[T]) *Pager[T] {
	if pageSize < 1 {
		pageSize = 10
	}
	return &Pager[T]{
		load:     load,
		state:    StateIdle,
		page:     1,
		pageSize: pageSize,
	}
}

func (p *Pager[T]) State() State {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.state
}

func (p *Pager[T]) Items() []T {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.items
}

func (p *Pager[T]) Page() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.page
}

func (p *Pager[T]) PageSize() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.pageSize
}

func (p *Pager[T]) Total() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.total
}

func (p *Pager[T]) Dropped() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.dropped
}

func (p *Pager[T]) Err() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.lastErr
}

// Load fetches the given page (clamped to >= 1). A failed load keeps the
// previously loaded items so the screen does not blank out on error. A
// load that was superseded while in flight is discarded and reports nil.
func (p *Pager[T]) Load(ctx context.Context, page int) error {
	if page < 1 {
		page = 1
	}

	p.mu.Lock()
	p.generation++
	generation := p.generation
	p.state = StateLoading
	pageSize := p.pageSize
	p.mu.Unlock()

	result, err := p.load(ctx, page, pageSize)

	p.mu.Lock()
	defer p.mu.Unlock()

	if generation != p.generation {
		return nil
	}

	if err != nil {
		p.state = StateErrored
		p.lastErr = err
		return err
	}

	p.state = StateLoaded
	p.lastErr = nil
	p.items = result.Items
	p.dropped = result.Dropped

	p.page = page
	if result.Page > 0 {
		p.page = result.Page
	}
	if result.PageSize > 0 {
		p.pageSize = result.PageSize
	}
	p.total = 0
	if result.Total > 0 {
		p.total = result.Total
	}
	p.lastFull = p.pageSize > 0 && len(result.Items) == p.pageSize

	return nil
}

// CanNext reports whether a further page is known (total present) or
// suspected (last page came back full).
func (p *Pager[T]) CanNext() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.total > 0 {
		return p.page*p.pageSize < p.total
	}
	return p.lastFull
}

func (p *Pager[T]) CanPrev() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.page > 1
}

func (p *Pager[T]) Next(ctx context.Context) error {
	return p.Load(ctx, p.Page()+1)
}

func (p *Pager[T]) Prev(ctx context.Context) error {
	return p.Load(ctx, p.Page()-1)
}

func (p *Pager[T]) Refresh(ctx context.Context) error {
	return p.Load(ctx, p.Page())
}

// SetPageSize changes the page size and reloads from the first page.
func (p *Pager[T]) SetPageSize(ctx context.Context, pageSize int) error {
	if pageSize < 1 {
		pageSize = 1
	}
	p.mu.Lock()
	p.pageSize = pageSize
	p.mu.Unlock()
	return p.Load(ctx, 1)
}
