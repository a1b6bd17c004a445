package controller

import (
	"context"
	"sync"
	"time"

	"velorent/internal/entities"
)

// fakeCatalogView records everything the catalog controller renders.
type fakeCatalogView struct {
	mu          sync.Mutex
	grids       [][]entities.Vehicle
	paginations []Pagination
	errors      []string
}

func (v *fakeCatalogView) RenderVehicles(vehicles []entities.Vehicle) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.grids = append(v.grids, vehicles)
}

func (v *fakeCatalogView) RenderPagination(p Pagination) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.paginations = append(v.paginations, p)
}

func (v *fakeCatalogView) RenderCatalogError(message string) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.errors = append(v.errors, message)
}

func (v *fakeCatalogView) lastGrid() []entities.Vehicle {
	v.mu.Lock()
	defer v.mu.Unlock()
	if len(v.grids) == 0 {
		return nil
	}
	return v.grids[len(v.grids)-1]
}

func (v *fakeCatalogView) lastPagination() Pagination {
	v.mu.Lock()
	defer v.mu.Unlock()
	if len(v.paginations) == 0 {
		return Pagination{}
	}
	return v.paginations[len(v.paginations)-1]
}

// fakeFetcher serves canned pages and records the queries it saw.
type fakeFetcher struct {
	mu      sync.Mutex
	queries []entities.CatalogQuery
	pages   map[int]*entities.VehiclePage
	err     error
	// block, when non-nil, is received from before answering; it lets
	// a test hold an early response while a later one completes.
	block chan struct{}
}

func (f *fakeFetcher) Vehicles(ctx context.Context, q entities.CatalogQuery) (*entities.VehiclePage, error) {
	f.mu.Lock()
	f.queries = append(f.queries, q)
	block := f.block
	f.block = nil
	page := f.pages[q.Page]
	err := f.err
	f.mu.Unlock()

	if block != nil {
		<-block
	}
	if err != nil {
		return nil, err
	}
	if page == nil {
		return &entities.VehiclePage{CurrentPage: q.Page, TotalPages: 1}, nil
	}
	return page, nil
}

func (f *fakeFetcher) queryCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.queries)
}

func (f *fakeFetcher) lastQuery() entities.CatalogQuery {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.queries) == 0 {
		return entities.CatalogQuery{}
	}
	return f.queries[len(f.queries)-1]
}

// fakeBookingAPI is a scriptable BookingAPI.
type fakeBookingAPI struct {
	dates    []string
	datesErr error
	result   *entities.RentalResult
	rentErr  error
	drafts   []entities.RentalDraft
}

func (f *fakeBookingAPI) BookedDates(ctx context.Context, vehicleID int) ([]string, error) {
	return f.dates, f.datesErr
}

func (f *fakeBookingAPI) Rent(ctx context.Context, draft entities.RentalDraft) (*entities.RentalResult, error) {
	f.drafts = append(f.drafts, draft)
	return f.result, f.rentErr
}

// fakeBookingView records dialog activity.
type fakeBookingView struct {
	opened    []entities.Vehicle
	closed    int
	resets    int
	summaries []RentalSummary
	alerts    []string
	navigated []string
}

func (v *fakeBookingView) OpenRentalDialog(veh entities.Vehicle) { v.opened = append(v.opened, veh) }
func (v *fakeBookingView) CloseRentalDialog()                    { v.closed++ }
func (v *fakeBookingView) ResetForm()                            { v.resets++ }
func (v *fakeBookingView) RenderSummary(s RentalSummary)         { v.summaries = append(v.summaries, s) }
func (v *fakeBookingView) Alert(message string)                  { v.alerts = append(v.alerts, message) }
func (v *fakeBookingView) Navigate(url string)                   { v.navigated = append(v.navigated, url) }

func (v *fakeBookingView) lastSummary() RentalSummary {
	if len(v.summaries) == 0 {
		return RentalSummary{}
	}
	return v.summaries[len(v.summaries)-1]
}

// fakePicker tracks its own lifecycle.
type fakePicker struct {
	field    string
	min      time.Time
	disabled []string
	mins     []time.Time
	dead     bool
}

func (p *fakePicker) SetMinDate(min time.Time) {
	p.min = min
	p.mins = append(p.mins, min)
}

func (p *fakePicker) Destroy() { p.dead = true }

// fakePickerFactory hands out fakePickers and keeps every one built.
type fakePickerFactory struct {
	created []*fakePicker
}

func (f *fakePickerFactory) NewPicker(field string, min time.Time, disabled []string) Picker {
	p := &fakePicker{field: field, min: min, disabled: disabled}
	f.created = append(f.created, p)
	return p
}

func (f *fakePickerFactory) alive() []*fakePicker {
	var out []*fakePicker
	for _, p := range f.created {
		if !p.dead {
			out = append(out, p)
		}
	}
	return out
}
