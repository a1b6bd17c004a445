package stubapi

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"velorent/internal/entities"

	"github.com/google/uuid"
	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"
	"go.uber.org/zap"
)

const csrfCookieName = "csrftoken"

// Server exposes the rental API contract over an in-memory store, for
// development and tests. It issues a csrftoken cookie on catalog
// requests and verifies the X-CSRFToken header on rent submissions,
// the way the real backend's CSRF middleware does.
type Server struct {
	store  *Store
	log    *zap.Logger
	router *mux.Router
}

func NewServer(store *Store, log *zap.Logger) *Server {
	if log == nil {
		log = zap.NewNop()
	}
	s := &Server{store: store, log: log}

	r := mux.NewRouter()
	r.HandleFunc("/api/vehicles/", s.handleVehicles).Methods("GET")
	r.HandleFunc("/api/vehicle/{id:[0-9]+}/booked-dates/", s.handleBookedDates).Methods("GET")
	r.HandleFunc("/api/rent/", s.handleRent).Methods("POST")
	r.HandleFunc("/payment/{id:[0-9]+}/", s.handlePayment).Methods("GET")
	s.router = r
	return s
}

// Handler returns the routed handler with CORS applied, so a browser
// front end served from another origin can develop against the stub.
func (s *Server) Handler() http.Handler {
	return handlers.CORS(
		handlers.AllowedOrigins([]string{"*"}),
		handlers.AllowedMethods([]string{"GET", "POST", "OPTIONS"}),
		handlers.AllowedHeaders([]string{"Content-Type", "X-CSRFToken"}),
	)(s.router)
}

func (s *Server) handleVehicles(w http.ResponseWriter, r *http.Request) {
	s.ensureCSRFCookie(w, r)

	query := r.URL.Query()
	page, err := strconv.Atoi(query.Get("page"))
	if err != nil {
		// Non-integer pages deliver the first page.
		page = 1
	}
	result := s.store.ListVehicles(query.Get("filter"), query.Get("search"), page)
	writeJSON(w, http.StatusOK, result)
}

func (s *Server) handleBookedDates(w http.ResponseWriter, r *http.Request) {
	id, _ := strconv.Atoi(mux.Vars(r)["id"])
	dates, err := s.store.BookedDates(id)
	if err != nil {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "Vehicle not found"})
		return
	}
	writeJSON(w, http.StatusOK, dates)
}

func (s *Server) handleRent(w http.ResponseWriter, r *http.Request) {
	if !s.csrfOK(r) {
		writeJSON(w, http.StatusForbidden, entities.RentalResult{
			Status:  "error",
			Message: "CSRF verification failed.",
		})
		return
	}

	var draft entities.RentalDraft
	if err := json.NewDecoder(r.Body).Decode(&draft); err != nil {
		writeJSON(w, http.StatusBadRequest, entities.RentalResult{
			Status:  "error",
			Message: "Invalid request body.",
		})
		return
	}

	reservation, err := s.store.CreateRental(draft)
	if err != nil {
		writeJSON(w, rentalErrorStatus(err), entities.RentalResult{
			Status:  "error",
			Message: err.Error(),
		})
		return
	}

	s.log.Info("reservation created",
		zap.Int("reservation_id", reservation.ID),
		zap.Int("vehicle_id", reservation.VehicleID),
		zap.Float64("total_cost", reservation.TotalCost))
	writeJSON(w, http.StatusOK, entities.RentalResult{
		Status:      entities.RentalStatusSuccess,
		Message:     "Reservation initiated. Please proceed to payment.",
		RedirectURL: fmt.Sprintf("/payment/%d/", reservation.ID),
	})
}

func (s *Server) handlePayment(w http.ResponseWriter, r *http.Request) {
	id, _ := strconv.Atoi(mux.Vars(r)["id"])
	reservation, ok := s.store.Reservation(id)
	if !ok {
		http.Error(w, "Reservation not found", http.StatusNotFound)
		return
	}
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	fmt.Fprintf(w, "Payment due for reservation %s: $%.2f\n", reservation.Code, reservation.TotalCost)
}

// ensureCSRFCookie issues a csrftoken cookie if the request carries
// none, mirroring the backend's ensure-csrf-cookie behavior.
func (s *Server) ensureCSRFCookie(w http.ResponseWriter, r *http.Request) {
	if _, err := r.Cookie(csrfCookieName); err == nil {
		return
	}
	http.SetCookie(w, &http.Cookie{
		Name:  csrfCookieName,
		Value: uuid.NewString(),
		Path:  "/",
	})
}

// csrfOK accepts the request when the X-CSRFToken header matches the
// csrftoken cookie. A request without the cookie is unauthenticated;
// the stub rejects it, which is this server's decision to make.
func (s *Server) csrfOK(r *http.Request) bool {
	cookie, err := r.Cookie(csrfCookieName)
	if err != nil {
		return false
	}
	return r.Header.Get("X-CSRFToken") == cookie.Value
}

func rentalErrorStatus(err error) int {
	switch {
	case errors.Is(err, ErrVehicleNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrConflict):
		return http.StatusConflict
	default:
		return http.StatusBadRequest
	}
}

func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}
