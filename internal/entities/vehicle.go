package entities

// Vehicle is one rentable unit as served by the catalog endpoint.
type Vehicle struct {
	ID        int      `json:"id"`
	Name      string   `json:"name"`
	Type      string   `json:"type,omitempty"`
	Image     string   `json:"image"`
	Price     float64  `json:"price"`
	PriceUnit string   `json:"priceUnit"`
	Features  []string `json:"features"`
	Tags      []string `json:"tags,omitempty"`
}

// VehiclePage is one page of catalog results together with the
// pagination metadata the server computed for it.
type VehiclePage struct {
	Vehicles    []Vehicle `json:"vehicles"`
	CurrentPage int       `json:"current_page"`
	TotalPages  int       `json:"total_pages"`
	HasPrevious bool      `json:"has_previous"`
	HasNext     bool      `json:"has_next"`
}

// CatalogQuery drives a single catalog fetch.
type CatalogQuery struct {
	Page   int
	Filter string
	Search string
}
