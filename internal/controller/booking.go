package controller

import (
	"context"
	"fmt"
	"strconv"
	"sync"
	"time"

	"velorent/internal/entities"

	"go.uber.org/zap"
)

// BookingState is the rental dialog's lifecycle position.
type BookingState int

const (
	BookingClosed BookingState = iota
	BookingOpening
	BookingOpen
	BookingSubmitting
)

const dateLayout = "2006-01-02"

// BookingAPI is the slice of the API client the booking flow needs.
type BookingAPI interface {
	BookedDates(ctx context.Context, vehicleID int) ([]string, error)
	Rent(ctx context.Context, draft entities.RentalDraft) (*entities.RentalResult, error)
}

// Booking owns the rental dialog: vehicle selection, the pair of date
// pickers, the duration/price summary and the reservation submission.
// At most one picker pair is alive at a time; any transition that
// would create a new pair releases the prior one first.
type Booking struct {
	api     BookingAPI
	view    BookingView
	pickers PickerFactory
	log     *zap.Logger
	now     func() time.Time

	mu           sync.Mutex
	state        BookingState
	selected     *entities.Vehicle
	pickupPicker Picker
	returnPicker Picker
	pickupDate   string
	returnDate   string
}

func NewBooking(api BookingAPI, view BookingView, pickers PickerFactory, log *zap.Logger) *Booking {
	if log == nil {
		log = zap.NewNop()
	}
	return &Booking{
		api:     api,
		view:    view,
		pickers: pickers,
		log:     log,
		now:     time.Now,
	}
}

// State reports the current lifecycle position.
func (b *Booking) State() BookingState {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.state
}

// SelectedVehicle returns the vehicle the open dialog is for, or nil.
func (b *Booking) SelectedVehicle() *entities.Vehicle {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.selected
}

// Open runs the Closed→Opening→Open transition for a "Rent Now" click:
// capture the vehicle, reset the form, fetch the vehicle's booked
// dates and rebuild both pickers. If the booked-dates fetch fails the
// dialog still opens, with default minimum dates and no disabled days.
func (b *Booking) Open(ctx context.Context, v entities.Vehicle) {
	b.mu.Lock()
	b.state = BookingOpening
	b.selected = &v
	b.pickupDate = ""
	b.returnDate = ""
	b.mu.Unlock()

	b.view.ResetForm()
	b.view.RenderSummary(b.summary())

	disabled, err := b.api.BookedDates(ctx, v.ID)
	if err != nil {
		b.log.Warn("could not fetch booked dates", zap.Int("vehicle_id", v.ID), zap.Error(err))
		disabled = nil
	}

	today := b.today()
	tomorrow := today.AddDate(0, 0, 1)

	b.mu.Lock()
	b.destroyPickersLocked()
	b.pickupPicker = b.pickers.NewPicker("pickupDate", today, disabled)
	if err != nil {
		// Fallback: default minimum-date behavior, no restrictions.
		b.returnPicker = b.pickers.NewPicker("returnDate", today, nil)
	} else {
		b.returnPicker = b.pickers.NewPicker("returnDate", tomorrow, disabled)
	}
	b.state = BookingOpen
	b.mu.Unlock()

	b.view.OpenRentalDialog(v)
}

// SetPickupDate records a pickup-date change, pushes the day after it
// as the return picker's new minimum and recomputes the summary.
func (b *Booking) SetPickupDate(value string) {
	b.mu.Lock()
	b.pickupDate = value
	ret := b.returnPicker
	b.mu.Unlock()

	if picked, err := time.Parse(dateLayout, value); err == nil && ret != nil {
		ret.SetMinDate(picked.AddDate(0, 0, 1))
	}
	b.view.RenderSummary(b.summary())
}

// SetReturnDate records a return-date change and recomputes the summary.
func (b *Booking) SetReturnDate(value string) {
	b.mu.Lock()
	b.returnDate = value
	b.mu.Unlock()
	b.view.RenderSummary(b.summary())
}

// Submit assembles the rental draft and posts it. On acceptance the
// front end navigates to the server's payment page; on any other
// outcome the user gets an alert and the dialog stays open unchanged.
func (b *Booking) Submit(ctx context.Context, pickupLocation string) {
	b.mu.Lock()
	if b.state != BookingOpen || b.selected == nil {
		b.mu.Unlock()
		return
	}
	b.state = BookingSubmitting
	draft := entities.RentalDraft{
		VehicleID:      b.selected.ID,
		StartDate:      b.pickupDate,
		EndDate:        b.returnDate,
		PickupLocation: pickupLocation,
	}
	b.mu.Unlock()

	result, err := b.api.Rent(ctx, draft)
	if err != nil {
		b.log.Warn("rental submission failed", zap.Error(err))
		b.setState(BookingOpen)
		b.view.Alert("An unexpected error occurred. Please try again.")
		return
	}
	if result.Status == entities.RentalStatusSuccess && result.RedirectURL != "" {
		b.mu.Lock()
		b.destroyPickersLocked()
		b.selected = nil
		b.state = BookingClosed
		b.mu.Unlock()
		b.view.Navigate(result.RedirectURL)
		return
	}
	message := result.Message
	if message == "" {
		message = "An unknown error occurred."
	}
	b.setState(BookingOpen)
	b.view.Alert("Error: " + message)
}

// Close handles an explicit close/cancel click: the selection is
// cleared and both pickers released. Safe to call when already closed.
func (b *Booking) Close() {
	b.mu.Lock()
	b.destroyPickersLocked()
	b.selected = nil
	b.state = BookingClosed
	b.mu.Unlock()
	b.view.CloseRentalDialog()
}

// summary computes the display state of the dialog's summary fields
// from the currently entered dates.
func (b *Booking) summary() RentalSummary {
	b.mu.Lock()
	defer b.mu.Unlock()

	s := RentalSummary{Vehicle: "-", Rate: "-", Duration: "-", Total: "-"}
	if b.selected == nil {
		return s
	}
	s.Vehicle = b.selected.Name
	s.Rate = fmt.Sprintf("$%s/%s", formatPrice(b.selected.Price), b.selected.PriceUnit)

	days, ok := rentalDays(b.pickupDate, b.returnDate)
	if !ok {
		return s
	}
	if days <= 0 {
		s.Duration = "Invalid dates"
		return s
	}
	s.Duration = fmt.Sprintf("%d days", days)
	s.Total = "$" + formatPrice(b.selected.Price*float64(days))
	return s
}

// rentalDays returns the trip duration in whole calendar days,
// rounding partial days up. ok is false when either date is missing
// or unparseable.
func rentalDays(pickup, ret string) (days int, ok bool) {
	start, err := time.Parse(dateLayout, pickup)
	if err != nil {
		return 0, false
	}
	end, err := time.Parse(dateLayout, ret)
	if err != nil {
		return 0, false
	}
	diff := end.Sub(start)
	days = int(diff / (24 * time.Hour))
	if diff%(24*time.Hour) > 0 {
		days++
	}
	return days, true
}

func (b *Booking) setState(s BookingState) {
	b.mu.Lock()
	b.state = s
	b.mu.Unlock()
}

func (b *Booking) destroyPickersLocked() {
	if b.pickupPicker != nil {
		b.pickupPicker.Destroy()
		b.pickupPicker = nil
	}
	if b.returnPicker != nil {
		b.returnPicker.Destroy()
		b.returnPicker = nil
	}
}

func (b *Booking) today() time.Time {
	n := b.now()
	return time.Date(n.Year(), n.Month(), n.Day(), 0, 0, 0, 0, n.Location())
}

func formatPrice(p float64) string {
	return strconv.FormatFloat(p, 'f', -1, 64)
}
