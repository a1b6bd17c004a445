package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strconv"
	"time"

	"velorent/internal/entities"

	"go.uber.org/zap"
)

// CSRFCookieName is the cookie the backend issues and expects echoed
// back in the X-CSRFToken header on mutating requests.
const CSRFCookieName = "csrftoken"

// Client is a typed client for the rental backend API. It keeps a
// cookie jar so the server-issued csrftoken survives between the
// catalog fetch that sets it and the rental submission that needs it.
type Client struct {
	baseURL *url.URL
	http    *http.Client
	log     *zap.Logger
}

func New(baseURL string, log *zap.Logger) (*Client, error) {
	u, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("invalid API base URL %q: %w", baseURL, err)
	}
	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, fmt.Errorf("could not create cookie jar: %w", err)
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Client{
		baseURL: u,
		http:    &http.Client{Timeout: 10 * time.Second, Jar: jar},
		log:     log,
	}, nil
}

// SetCSRFToken seeds the jar with a csrftoken cookie, for callers that
// obtained one out of band (e.g. from a prior browser session).
func (c *Client) SetCSRFToken(token string) {
	c.http.Jar.SetCookies(c.baseURL, []*http.Cookie{{Name: CSRFCookieName, Value: token}})
}

// Vehicles fetches one catalog page for the given query.
func (c *Client) Vehicles(ctx context.Context, q entities.CatalogQuery) (*entities.VehiclePage, error) {
	u := c.endpoint("/api/vehicles/")
	params := url.Values{}
	params.Set("page", strconv.Itoa(q.Page))
	params.Set("filter", q.Filter)
	params.Set("search", q.Search)
	u.RawQuery = params.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, err
	}
	resp, err := c.http.Do(req)
	if err != nil {
		c.log.Warn("catalog fetch failed", zap.Error(err))
		return nil, NewAPIError(0, err.Error())
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		c.log.Warn("catalog fetch rejected", zap.Int("status", resp.StatusCode))
		return nil, NewAPIError(resp.StatusCode, "could not load vehicles")
	}
	var page entities.VehiclePage
	if err := json.NewDecoder(resp.Body).Decode(&page); err != nil {
		return nil, NewAPIError(resp.StatusCode, "malformed vehicle listing: "+err.Error())
	}
	return &page, nil
}

// BookedDates fetches the unavailable dates for a vehicle as a list of
// YYYY-MM-DD strings.
func (c *Client) BookedDates(ctx context.Context, vehicleID int) ([]string, error) {
	u := c.endpoint(fmt.Sprintf("/api/vehicle/%d/booked-dates/", vehicleID))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, err
	}
	resp, err := c.http.Do(req)
	if err != nil {
		c.log.Warn("booked dates fetch failed", zap.Int("vehicle_id", vehicleID), zap.Error(err))
		return nil, NewAPIError(0, err.Error())
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, NewAPIError(resp.StatusCode, "could not fetch booked dates")
	}
	var dates []string
	if err := json.NewDecoder(resp.Body).Decode(&dates); err != nil {
		return nil, NewAPIError(resp.StatusCode, "malformed booked dates: "+err.Error())
	}
	return dates, nil
}

// Rent submits a reservation draft. The csrftoken cookie, if present
// in the jar, is echoed in the X-CSRFToken header; without it the
// request goes out unauthenticated and the server decides.
//
// Application-level rejections (a parseable body with a non-success
// status) are returned as a RentalResult, not an error, so the caller
// can surface the server's message.
func (c *Client) Rent(ctx context.Context, draft entities.RentalDraft) (*entities.RentalResult, error) {
	body, err := json.Marshal(draft)
	if err != nil {
		return nil, err
	}
	u := c.endpoint("/api/rent/")
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, u.String(), bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	if token := c.csrfToken(); token != "" {
		req.Header.Set("X-CSRFToken", token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		c.log.Warn("rental submission failed", zap.Int("vehicle_id", draft.VehicleID), zap.Error(err))
		return nil, NewAPIError(0, err.Error())
	}
	defer resp.Body.Close()

	var result entities.RentalResult
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, NewAPIError(resp.StatusCode, "malformed rental response: "+err.Error())
	}
	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return &result, nil
	}
	// The backend reports validation and conflict rejections with an
	// error status plus a message in the body. Pass them through.
	if result.Status != "" {
		return &result, nil
	}
	return nil, NewAPIError(resp.StatusCode, "rental submission rejected")
}

func (c *Client) csrfToken() string {
	for _, cookie := range c.http.Jar.Cookies(c.baseURL) {
		if cookie.Name == CSRFCookieName {
			return cookie.Value
		}
	}
	return ""
}

func (c *Client) endpoint(path string) *url.URL {
	u := *c.baseURL
	u.Path = path
	return &u
}
