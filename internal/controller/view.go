package controller

import (
	"time"

	"velorent/internal/entities"
)

// The interfaces below form the rendering boundary between the
// controllers and whatever front end hosts them. Controllers never
// reach into a page structure directly; they hand the front end fully
// decided state and let it draw.

// Pagination is the fully computed state of the pagination controls.
// When Visible is false the front end renders nothing at all.
type Pagination struct {
	Visible     bool
	PrevEnabled bool
	NextEnabled bool
	Label       string
}

// CatalogView renders the vehicle listing area.
type CatalogView interface {
	// RenderVehicles replaces the whole card grid. An empty slice
	// means "no vehicles found".
	RenderVehicles(vehicles []entities.Vehicle)
	// RenderPagination replaces the pagination controls.
	RenderPagination(p Pagination)
	// RenderCatalogError replaces the card grid with an error
	// message. Pagination controls are left untouched.
	RenderCatalogError(message string)
}

// RentalSummary is the display state of the booking dialog's summary
// fields. All values are preformatted; "-" marks a field that cannot
// be computed yet.
type RentalSummary struct {
	Vehicle  string
	Rate     string
	Duration string
	Total    string
}

// BookingView renders the rental dialog.
type BookingView interface {
	OpenRentalDialog(v entities.Vehicle)
	CloseRentalDialog()
	ResetForm()
	RenderSummary(s RentalSummary)
	// Alert surfaces a blocking message to the user.
	Alert(message string)
	// Navigate leaves the current page for the given URL.
	Navigate(url string)
}

// Picker is one date-input widget owned by the booking controller. It
// holds its own internal state (minimum date, disabled dates) between
// configuration calls.
type Picker interface {
	SetMinDate(min time.Time)
	Destroy()
}

// PickerFactory constructs pickers bound to a named form field.
// Disabled holds YYYY-MM-DD dates the user must not select.
type PickerFactory interface {
	NewPicker(field string, min time.Time, disabled []string) Picker
}

// Element is a page node whose visual state is driven by a class
// list, e.g. the "active" class on a modal container.
type Element interface {
	AddClass(name string)
	RemoveClass(name string)
}

// Toggleable is a page node that can be shown or hidden outright.
type Toggleable interface {
	Show()
	Hide()
}

// Navigator leaves the current page.
type Navigator interface {
	Navigate(url string)
}
