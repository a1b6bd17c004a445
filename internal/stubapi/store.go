package stubapi

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"velorent/internal/entities"

	"github.com/google/uuid"
)

const pageSize = 6

const (
	statusPendingPayment = "pending_payment"
	statusActive         = "active"
	statusCompleted      = "completed"
	statusCancelled      = "cancelled"
)

var (
	ErrMissingFields   = errors.New("Missing required fields.")
	ErrVehicleNotFound = errors.New("Vehicle not found.")
	ErrInvalidDates    = errors.New("Invalid date range.")
	ErrConflict        = errors.New("This vehicle is already booked for some of the selected dates. Please choose different dates.")
)

// Vehicle is a seeded fleet record. The catalog endpoint serializes
// it into the wire shape, deriving the feature list from the type.
type Vehicle struct {
	ID           int
	Name         string
	Type         string
	FuelType     string
	Transmission string
	Seats        int
	PricePerDay  float64
	ImageURL     string
}

// Reservation is one rental held in memory.
type Reservation struct {
	ID             int
	Code           string
	VehicleID      int
	StartDate      time.Time
	EndDate        time.Time
	PickupLocation string
	TotalCost      float64
	Status         string
	CreatedAt      time.Time
}

// Store holds the fleet and its reservations in memory, guarded by a
// single mutex. It exists so the CLI and the tests can run against a
// faithful copy of the backend contract with zero infrastructure.
type Store struct {
	mu           sync.Mutex
	now          func() time.Time
	vehicles     []Vehicle
	reservations []*Reservation
	nextID       int
}

func NewStore(vehicles []Vehicle) *Store {
	return &Store{now: time.Now, vehicles: vehicles, nextID: 1}
}

// SeedFleet is a small default fleet for development.
func SeedFleet() []Vehicle {
	return []Vehicle{
		{ID: 1, Name: "City Hatch", Type: "car", FuelType: "petrol", Transmission: "manual", Seats: 5, PricePerDay: 25, ImageURL: "/static/images/city-hatch.png"},
		{ID: 2, Name: "Commuter Bike", Type: "bike", FuelType: "manual", Transmission: "none", Seats: 1, PricePerDay: 8, ImageURL: "/static/images/commuter-bike.png"},
		{ID: 3, Name: "Estate Tourer", Type: "car", FuelType: "diesel", Transmission: "automatic", Seats: 5, PricePerDay: 40, ImageURL: "/static/images/estate-tourer.png"},
		{ID: 4, Name: "Metro EV", Type: "car", FuelType: "electric", Transmission: "automatic", Seats: 4, PricePerDay: 45, ImageURL: "/static/images/metro-ev.png"},
		{ID: 5, Name: "Road Cruiser", Type: "car", FuelType: "hybrid", Transmission: "automatic", Seats: 7, PricePerDay: 60, ImageURL: "/static/images/road-cruiser.png"},
		{ID: 6, Name: "Sprint E-Bike", Type: "bike", FuelType: "electric", Transmission: "none", Seats: 1, PricePerDay: 12, ImageURL: "/static/images/sprint-ebike.png"},
		{ID: 7, Name: "Summit SUV", Type: "car", FuelType: "petrol", Transmission: "automatic", Seats: 7, PricePerDay: 55, ImageURL: "/static/images/summit-suv.png"},
		{ID: 8, Name: "Town Scooter", Type: "bike", FuelType: "petrol", Transmission: "none", Seats: 2, PricePerDay: 10, ImageURL: "/static/images/town-scooter.png"},
	}
}

// ListVehicles applies the filter, search and pagination rules of the
// catalog endpoint: name ordering, type filters (with "electric"
// matching on fuel), case-insensitive substring search, six vehicles
// per page and out-of-range pages clamped to the last page.
func (s *Store) ListVehicles(filter, search string, page int) entities.VehiclePage {
	s.mu.Lock()
	defer s.mu.Unlock()

	matched := make([]Vehicle, 0, len(s.vehicles))
	for _, v := range s.vehicles {
		if !matchesFilter(v, filter) {
			continue
		}
		if search != "" && !strings.Contains(strings.ToLower(v.Name), strings.ToLower(search)) {
			continue
		}
		matched = append(matched, v)
	}
	sort.Slice(matched, func(i, j int) bool { return matched[i].Name < matched[j].Name })

	totalPages := (len(matched) + pageSize - 1) / pageSize
	if totalPages == 0 {
		totalPages = 1
	}
	if page < 1 {
		page = 1
	}
	if page > totalPages {
		page = totalPages
	}

	start := (page - 1) * pageSize
	end := start + pageSize
	if start > len(matched) {
		start = len(matched)
	}
	if end > len(matched) {
		end = len(matched)
	}

	result := entities.VehiclePage{
		Vehicles:    make([]entities.Vehicle, 0, end-start),
		CurrentPage: page,
		TotalPages:  totalPages,
		HasPrevious: page > 1,
		HasNext:     page < totalPages,
	}
	for _, v := range matched[start:end] {
		result.Vehicles = append(result.Vehicles, serializeVehicle(v))
	}
	return result
}

// BookedDates returns every day covered by an active reservation of
// the vehicle, inclusive of both endpoints, as YYYY-MM-DD strings.
func (s *Store) BookedDates(vehicleID int) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.findVehicle(vehicleID) == nil {
		return nil, ErrVehicleNotFound
	}
	dates := []string{}
	for _, r := range s.reservations {
		if r.VehicleID != vehicleID || r.Status != statusActive {
			continue
		}
		for d := r.StartDate; !d.After(r.EndDate); d = d.AddDate(0, 0, 1) {
			dates = append(dates, d.Format("2006-01-02"))
		}
	}
	sort.Strings(dates)
	return dates, nil
}

// CreateRental validates a draft and records a pending-payment
// reservation. An overlap with an active reservation is a conflict:
// existing_start < new_end && existing_end > new_start.
func (s *Store) CreateRental(draft entities.RentalDraft) (*Reservation, error) {
	if draft.VehicleID == 0 || draft.StartDate == "" || draft.EndDate == "" || draft.PickupLocation == "" {
		return nil, ErrMissingFields
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	vehicle := s.findVehicle(draft.VehicleID)
	if vehicle == nil {
		return nil, ErrVehicleNotFound
	}
	start, err := time.Parse("2006-01-02", draft.StartDate)
	if err != nil {
		return nil, ErrInvalidDates
	}
	end, err := time.Parse("2006-01-02", draft.EndDate)
	if err != nil {
		return nil, ErrInvalidDates
	}
	today := truncateToDay(s.now())
	if start.Before(today) || !end.After(start) {
		return nil, ErrInvalidDates
	}

	for _, r := range s.reservations {
		if r.VehicleID != draft.VehicleID || r.Status != statusActive {
			continue
		}
		if r.StartDate.Before(end) && r.EndDate.After(start) {
			return nil, ErrConflict
		}
	}

	days := int(end.Sub(start) / (24 * time.Hour))
	reservation := &Reservation{
		ID:             s.nextID,
		Code:           uuid.NewString(),
		VehicleID:      draft.VehicleID,
		StartDate:      start,
		EndDate:        end,
		PickupLocation: capitalize(draft.PickupLocation),
		TotalCost:      vehicle.PricePerDay * float64(days),
		Status:         statusPendingPayment,
		CreatedAt:      s.now(),
	}
	s.nextID++
	s.reservations = append(s.reservations, reservation)
	return reservation, nil
}

// Reservation looks a reservation up by ID.
func (s *Store) Reservation(id int) (*Reservation, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, r := range s.reservations {
		if r.ID == id {
			return r, true
		}
	}
	return nil, false
}

// Activate marks a reservation active, as the payment step would.
func (s *Store) Activate(id int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, r := range s.reservations {
		if r.ID == id {
			r.Status = statusActive
			return nil
		}
	}
	return fmt.Errorf("reservation %d not found", id)
}

// SweepFinished marks active reservations whose end date has passed
// as completed, and reports how many it touched.
func (s *Store) SweepFinished() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	today := truncateToDay(s.now())
	touched := 0
	for _, r := range s.reservations {
		if r.Status == statusActive && r.EndDate.Before(today) {
			r.Status = statusCompleted
			touched++
		}
	}
	return touched
}

// DeleteStalePending drops pending-payment reservations created
// before the given time, freeing their dates again.
func (s *Store) DeleteStalePending(before time.Time) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	kept := s.reservations[:0]
	dropped := 0
	for _, r := range s.reservations {
		if r.Status == statusPendingPayment && r.CreatedAt.Before(before) {
			dropped++
			continue
		}
		kept = append(kept, r)
	}
	s.reservations = kept
	return dropped
}

func (s *Store) findVehicle(id int) *Vehicle {
	for i := range s.vehicles {
		if s.vehicles[i].ID == id {
			return &s.vehicles[i]
		}
	}
	return nil
}

func matchesFilter(v Vehicle, filter string) bool {
	switch filter {
	case "", "all":
		return true
	case "electric":
		return v.FuelType == "electric"
	default:
		return v.Type == filter
	}
}

func serializeVehicle(v Vehicle) entities.Vehicle {
	var features []string
	if v.Type == "car" {
		features = append(features, capitalize(v.Transmission))
		features = append(features, fmt.Sprintf("%d Seats", v.Seats))
	}
	features = append(features, "Fuel: "+capitalize(v.FuelType))

	out := entities.Vehicle{
		ID:        v.ID,
		Name:      v.Name,
		Type:      v.Type,
		Image:     v.ImageURL,
		Price:     v.PricePerDay,
		PriceUnit: "day",
		Features:  features,
	}
	if out.Image == "" {
		out.Image = "/static/images/default.png"
	}
	if v.FuelType == "electric" {
		out.Tags = []string{"electric"}
	}
	return out
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + strings.ToLower(s[1:])
}

func truncateToDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
