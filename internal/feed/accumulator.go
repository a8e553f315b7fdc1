// Package feed keeps the client side state of an infinitely scrolling
// product list: the accumulated items, the page cursor and the view
// derived from them.
package feed

import (
	"context"
	"fmt"
	"sync"

	"storefront/internal/model"

	"github.com/rs/zerolog"
)

// User facing messages.
const (
	RetryMessage = "Something went wrong while loading more products. Please try again."
	EndMessage   = "You have seen all available products"
)

const (
	defaultPageSize      = 8
	defaultSkeletonCount = 4
	firstPage            = 1
	// Page 1 arrives with Reset, so the cursor starts on the page after it.
	resumePage = 2
)

// Fetcher returns one page of the product feed.
type Fetcher interface {
	FetchPage(ctx context.Context, slug string, page, pageSize int) (model.ProductPage, error)
}

// Options configures an Accumulator.
type Options struct {
	PageSize      int
	SkeletonCount int
	Scroll        ScrollPolicy
}

// Accumulator merges successive feed pages into one de-duplicated list.
// Fetches are strictly sequential: LoadMore does nothing while another
// fetch is in flight.
type Accumulator struct {
	fetcher Fetcher
	opts    Options
	logger  zerolog.Logger

	mu         sync.Mutex
	filter     string
	items      []model.Product
	seen       map[string]struct{}
	cursor     int
	hasMore    bool
	loading    bool
	lastErr    string
	generation uint64
}

// New creates an empty accumulator. Call Reset or Start before LoadMore.
func New(fetcher Fetcher, opts Options, logger zerolog.Logger) *Accumulator {
	if opts.PageSize <= 0 {
		opts.PageSize = defaultPageSize
	}
	if opts.SkeletonCount <= 0 {
		opts.SkeletonCount = defaultSkeletonCount
	}
	opts.Scroll = opts.Scroll.normalized()

	return &Accumulator{
		fetcher: fetcher,
		opts:    opts,
		logger:  logger.With().Str("component", "feed_accumulator").Logger(),
		seen:    make(map[string]struct{}),
		cursor:  firstPage,
		hasMore: true,
	}
}

// Reset replaces the list with an already fetched first page for filter.
// Any fetch still in flight is discarded when it completes.
func (a *Accumulator) Reset(filter string, first []model.Product) {
	a.mu.Lock()
	defer a.mu.Unlock()

	a.reinit(filter, resumePage)
	a.merge(first)

	a.logger.Debug().
		Str("filter", filter).
		Int("items", len(a.items)).
		Uint64("generation", a.generation).
		Msg("feed reset")
}

// Start clears the list for filter and fetches the first page itself.
func (a *Accumulator) Start(ctx context.Context, filter string) error {
	a.mu.Lock()
	a.reinit(filter, firstPage)
	a.mu.Unlock()

	return a.LoadMore(ctx)
}

// reinit must be called with mu held.
func (a *Accumulator) reinit(filter string, cursor int) {
	a.generation++
	a.filter = filter
	a.items = nil
	a.seen = make(map[string]struct{})
	a.cursor = cursor
	a.hasMore = true
	a.loading = false
	a.lastErr = ""
}

// LoadMore fetches the page at the cursor and appends its unseen items.
// It is a no-op while a fetch is in flight or once the end was reached.
// A failed fetch keeps the cursor so a retry asks for the same page.
func (a *Accumulator) LoadMore(ctx context.Context) error {
	a.mu.Lock()
	if a.loading || !a.hasMore {
		a.mu.Unlock()
		return nil
	}
	a.loading = true
	a.lastErr = ""
	gen, filter, cursor := a.generation, a.filter, a.cursor
	a.mu.Unlock()

	page, err := a.fetcher.FetchPage(ctx, filter, cursor, a.opts.PageSize)

	a.mu.Lock()
	defer a.mu.Unlock()

	if gen != a.generation {
		a.logger.Debug().
			Str("filter", filter).
			Int("page", cursor).
			Msg("discarding page fetched for a previous filter")
		return nil
	}
	a.loading = false

	if err != nil {
		a.lastErr = RetryMessage
		a.logger.Warn().Err(err).Str("filter", filter).Int("page", cursor).Msg("failed to load feed page")
		return fmt.Errorf("failed to load page %d: %w", cursor, err)
	}

	if len(page.Items) == 0 {
		a.hasMore = false
		return nil
	}

	added := a.merge(page.Items)
	a.cursor++
	a.hasMore = page.HasMore

	a.logger.Debug().
		Str("filter", filter).
		Int("page", cursor).
		Int("received", len(page.Items)).
		Int("added", added).
		Bool("has_more", a.hasMore).
		Msg("feed page merged")

	return nil
}

// Retry re-runs LoadMore after a failure.
func (a *Accumulator) Retry(ctx context.Context) error {
	return a.LoadMore(ctx)
}

// merge appends products whose id has not been seen and reports how many
// were added. Must be called with mu held.
func (a *Accumulator) merge(products []model.Product) int {
	added := 0
	for _, p := range products {
		if _, dup := a.seen[p.ID]; dup {
			continue
		}
		a.seen[p.ID] = struct{}{}
		a.items = append(a.items, p)
		added++
	}
	return added
}

// Items returns a copy of the accumulated products.
func (a *Accumulator) Items() []model.Product {
	a.mu.Lock()
	defer a.mu.Unlock()

	out := make([]model.Product, len(a.items))
	copy(out, a.items)
	return out
}

// Cursor returns the next page that LoadMore will request.
func (a *Accumulator) Cursor() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.cursor
}

// HasMore reports whether more pages may exist.
func (a *Accumulator) HasMore() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.hasMore
}

// Filter returns the active supplier slug.
func (a *Accumulator) Filter() string {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.filter
}
