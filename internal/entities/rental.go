package entities

// RentalDraft is the reservation request assembled from the booking
// form at submit time. Dates are YYYY-MM-DD strings.
type RentalDraft struct {
	VehicleID      int    `json:"vehicle_id"`
	StartDate      string `json:"start_date"`
	EndDate        string `json:"end_date"`
	PickupLocation string `json:"pickup_location"`
}

// RentalResult is the server's answer to a rental submission.
// Status is "success" on acceptance, anything else on rejection.
type RentalResult struct {
	Status      string `json:"status"`
	Message     string `json:"message,omitempty"`
	RedirectURL string `json:"redirect_url,omitempty"`
}

const RentalStatusSuccess = "success"
