package controller

import (
	"context"
	"fmt"
	"sync"
	"time"

	"velorent/internal/entities"

	"go.uber.org/zap"
)

// DefaultSearchDebounce is the quiet period after the last keystroke
// before a search actually fires.
const DefaultSearchDebounce = 300 * time.Millisecond

const catalogErrorMessage = "Could not load vehicles. Please try again later."

// CatalogFetcher is the slice of the API client the catalog needs.
type CatalogFetcher interface {
	Vehicles(ctx context.Context, q entities.CatalogQuery) (*entities.VehiclePage, error)
}

// Catalog drives the paginated, filterable, searchable vehicle
// listing. Every triggering event (initial load, filter click, search
// quiet period, pagination click) issues exactly one fetch; responses
// carry a sequence number so a slow stale response can never overwrite
// a newer one.
type Catalog struct {
	fetcher  CatalogFetcher
	view     CatalogView
	log      *zap.Logger
	debounce *Debounce

	mu          sync.Mutex
	page        int
	filter      string
	search      string
	issuedSeq   uint64
	renderedSeq uint64
	hasPrevious bool
	hasNext     bool
}

func NewCatalog(fetcher CatalogFetcher, view CatalogView, log *zap.Logger, searchDelay time.Duration) *Catalog {
	if log == nil {
		log = zap.NewNop()
	}
	if searchDelay <= 0 {
		searchDelay = DefaultSearchDebounce
	}
	return &Catalog{
		fetcher:  fetcher,
		view:     view,
		log:      log,
		debounce: NewDebounce(searchDelay),
		page:     1,
		filter:   "all",
	}
}

// Load performs the initial catalog fetch.
func (c *Catalog) Load(ctx context.Context) {
	c.fetch(ctx)
}

// SelectFilter applies a filter button click. The page resets to 1.
func (c *Catalog) SelectFilter(ctx context.Context, filter string) {
	c.mu.Lock()
	c.filter = filter
	c.page = 1
	c.mu.Unlock()
	c.fetch(ctx)
}

// SearchInput records a keystroke in the search box. The fetch fires
// only after the quiet period with no further input; each keystroke
// supersedes the previous pending trigger.
func (c *Catalog) SearchInput(ctx context.Context, text string) {
	c.debounce.Trigger(func() {
		c.mu.Lock()
		c.search = text
		c.page = 1
		c.mu.Unlock()
		c.fetch(ctx)
	})
}

// NextPage advances one page if the last response said one exists.
func (c *Catalog) NextPage(ctx context.Context) {
	c.mu.Lock()
	if !c.hasNext {
		c.mu.Unlock()
		return
	}
	c.page++
	c.mu.Unlock()
	c.fetch(ctx)
}

// PreviousPage goes back one page if the last response said one exists.
func (c *Catalog) PreviousPage(ctx context.Context) {
	c.mu.Lock()
	if !c.hasPrevious {
		c.mu.Unlock()
		return
	}
	c.page--
	c.mu.Unlock()
	c.fetch(ctx)
}

// SetQuery seeds the query state before the initial Load, e.g. from
// CLI flags or a bookmarked URL. It does not fetch.
func (c *Catalog) SetQuery(q entities.CatalogQuery) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if q.Page >= 1 {
		c.page = q.Page
	}
	if q.Filter != "" {
		c.filter = q.Filter
	}
	c.search = q.Search
}

// Query returns the query the next fetch would use.
func (c *Catalog) Query() entities.CatalogQuery {
	c.mu.Lock()
	defer c.mu.Unlock()
	return entities.CatalogQuery{Page: c.page, Filter: c.filter, Search: c.search}
}

// Stop cancels a pending debounced search. In-flight fetches are not
// cancelled; their responses are simply dropped by the sequence guard
// if something newer rendered meanwhile.
func (c *Catalog) Stop() {
	c.debounce.Stop()
}

func (c *Catalog) fetch(ctx context.Context) {
	c.mu.Lock()
	c.issuedSeq++
	seq := c.issuedSeq
	q := entities.CatalogQuery{Page: c.page, Filter: c.filter, Search: c.search}
	c.mu.Unlock()

	page, err := c.fetcher.Vehicles(ctx, q)

	c.mu.Lock()
	defer c.mu.Unlock()
	if seq < c.renderedSeq {
		// A later request already rendered; this response is stale.
		c.log.Debug("dropping stale catalog response",
			zap.Uint64("seq", seq), zap.Uint64("rendered", c.renderedSeq))
		return
	}
	c.renderedSeq = seq

	if err != nil {
		c.log.Warn("could not load vehicles", zap.Error(err))
		c.view.RenderCatalogError(catalogErrorMessage)
		return
	}

	c.page = page.CurrentPage
	c.hasPrevious = page.HasPrevious
	c.hasNext = page.HasNext
	c.view.RenderVehicles(page.Vehicles)
	c.view.RenderPagination(paginationFor(page))
}

func paginationFor(page *entities.VehiclePage) Pagination {
	if page.TotalPages <= 1 {
		return Pagination{}
	}
	return Pagination{
		Visible:     true,
		PrevEnabled: page.HasPrevious,
		NextEnabled: page.HasNext,
		Label:       fmt.Sprintf("Page %d of %d", page.CurrentPage, page.TotalPages),
	}
}
