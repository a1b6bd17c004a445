package controller

import (
	"context"
	"errors"
	"testing"
	"time"

	"velorent/internal/entities"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testVehicle = entities.Vehicle{ID: 7, Name: "Summit SUV", Price: 55, PriceUnit: "day"}

func newTestBooking(api *fakeBookingAPI) (*Booking, *fakeBookingView, *fakePickerFactory) {
	view := &fakeBookingView{}
	pickers := &fakePickerFactory{}
	b := NewBooking(api, view, pickers, nil)
	b.now = func() time.Time {
		return time.Date(2024, 6, 10, 15, 30, 0, 0, time.UTC)
	}
	return b, view, pickers
}

func TestBookingOpenBuildsPickersFromBookedDates(t *testing.T) {
	api := &fakeBookingAPI{dates: []string{"2024-06-12", "2024-06-13"}}
	b, view, pickers := newTestBooking(api)

	b.Open(context.Background(), testVehicle)

	assert.Equal(t, BookingOpen, b.State())
	require.Len(t, view.opened, 1)
	assert.Equal(t, 1, view.resets)
	require.Len(t, pickers.created, 2)

	pickup, ret := pickers.created[0], pickers.created[1]
	assert.Equal(t, "pickupDate", pickup.field)
	assert.Equal(t, time.Date(2024, 6, 10, 0, 0, 0, 0, time.UTC), pickup.min)
	assert.Equal(t, []string{"2024-06-12", "2024-06-13"}, pickup.disabled)
	assert.Equal(t, "returnDate", ret.field)
	assert.Equal(t, time.Date(2024, 6, 11, 0, 0, 0, 0, time.UTC), ret.min)
	assert.Equal(t, []string{"2024-06-12", "2024-06-13"}, ret.disabled)
}

func TestBookingOpenFallsBackWhenDatesFetchFails(t *testing.T) {
	api := &fakeBookingAPI{datesErr: errors.New("boom")}
	b, view, pickers := newTestBooking(api)

	b.Open(context.Background(), testVehicle)

	// The dialog still opens, with default minimums and no
	// booked-date restrictions.
	assert.Equal(t, BookingOpen, b.State())
	assert.Len(t, view.opened, 1)
	require.Len(t, pickers.created, 2)
	today := time.Date(2024, 6, 10, 0, 0, 0, 0, time.UTC)
	assert.Equal(t, today, pickers.created[0].min)
	assert.Equal(t, today, pickers.created[1].min)
	assert.Empty(t, pickers.created[0].disabled)
	assert.Empty(t, pickers.created[1].disabled)
}

func TestBookingReopenNeverLeaksPickers(t *testing.T) {
	api := &fakeBookingAPI{}
	b, _, pickers := newTestBooking(api)
	ctx := context.Background()

	b.Open(ctx, testVehicle)
	b.Open(ctx, entities.Vehicle{ID: 8, Name: "Town Scooter", Price: 10, PriceUnit: "day"})
	assert.Len(t, pickers.alive(), 2)
	assert.Len(t, pickers.created, 4)

	b.Close()
	assert.Empty(t, pickers.alive())
	assert.Nil(t, b.SelectedVehicle())
	assert.Equal(t, BookingClosed, b.State())

	// Closing again is safe.
	b.Close()
	assert.Equal(t, BookingClosed, b.State())
}

func TestBookingPickupChangePushesReturnMinimum(t *testing.T) {
	api := &fakeBookingAPI{}
	b, _, pickers := newTestBooking(api)

	b.Open(context.Background(), testVehicle)
	b.SetPickupDate("2024-06-20")

	ret := pickers.created[1]
	require.Len(t, ret.mins, 1)
	assert.Equal(t, time.Date(2024, 6, 21, 0, 0, 0, 0, time.UTC), ret.mins[0])
}

func TestBookingSummary(t *testing.T) {
	tests := []struct {
		name     string
		pickup   string
		ret      string
		duration string
		total    string
	}{
		{"three days", "2024-01-01", "2024-01-04", "3 days", "$165"},
		{"reversed dates", "2024-01-05", "2024-01-01", "Invalid dates", "-"},
		{"missing return", "2024-01-01", "", "-", "-"},
		{"unparseable return", "2024-01-01", "not-a-date", "-", "-"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			api := &fakeBookingAPI{}
			b, view, _ := newTestBooking(api)
			b.Open(context.Background(), testVehicle)

			b.SetPickupDate(tt.pickup)
			b.SetReturnDate(tt.ret)

			s := view.lastSummary()
			assert.Equal(t, "Summit SUV", s.Vehicle)
			assert.Equal(t, "$55/day", s.Rate)
			assert.Equal(t, tt.duration, s.Duration)
			assert.Equal(t, tt.total, s.Total)
		})
	}
}

func TestBookingSubmitSuccessNavigates(t *testing.T) {
	api := &fakeBookingAPI{result: &entities.RentalResult{
		Status:      "success",
		RedirectURL: "/pay/1",
	}}
	b, view, pickers := newTestBooking(api)
	ctx := context.Background()

	b.Open(ctx, testVehicle)
	b.SetPickupDate("2024-06-20")
	b.SetReturnDate("2024-06-22")
	b.Submit(ctx, "Downtown")

	require.Len(t, api.drafts, 1)
	assert.Equal(t, entities.RentalDraft{
		VehicleID:      7,
		StartDate:      "2024-06-20",
		EndDate:        "2024-06-22",
		PickupLocation: "Downtown",
	}, api.drafts[0])
	assert.Equal(t, []string{"/pay/1"}, view.navigated)
	assert.Equal(t, BookingClosed, b.State())
	assert.Empty(t, pickers.alive())
}

func TestBookingSubmitRejectionKeepsDialogOpen(t *testing.T) {
	api := &fakeBookingAPI{result: &entities.RentalResult{
		Status:  "error",
		Message: "Conflict",
	}}
	b, view, _ := newTestBooking(api)
	ctx := context.Background()

	b.Open(ctx, testVehicle)
	b.Submit(ctx, "Downtown")

	require.Len(t, view.alerts, 1)
	assert.Contains(t, view.alerts[0], "Conflict")
	assert.Empty(t, view.navigated)
	assert.Equal(t, BookingOpen, b.State())
	assert.NotNil(t, b.SelectedVehicle())
}

func TestBookingSubmitTransportErrorAlerts(t *testing.T) {
	api := &fakeBookingAPI{rentErr: errors.New("connection refused")}
	b, view, _ := newTestBooking(api)
	ctx := context.Background()

	b.Open(ctx, testVehicle)
	b.Submit(ctx, "Airport")

	require.Len(t, view.alerts, 1)
	assert.Contains(t, view.alerts[0], "unexpected error")
	assert.Equal(t, BookingOpen, b.State())

	// Submitting while not open is a no-op.
	b.Close()
	b.Submit(ctx, "Airport")
	assert.Len(t, api.drafts, 1)
}
