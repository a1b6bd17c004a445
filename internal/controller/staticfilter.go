package controller

import "net/url"

// Card is one pre-rendered vehicle card on the static listing page,
// tagged with the vehicle type it shows.
type Card interface {
	Toggleable
	Type() string
}

// ApplyStaticFilter reads the "filter" query parameter from the page
// URL and hides every card whose type does not match it. A value of
// "all" shows everything; an absent parameter leaves the cards as
// rendered. Pure client-side visibility, no fetch.
func ApplyStaticFilter(pageURL string, cards []Card) error {
	u, err := url.Parse(pageURL)
	if err != nil {
		return err
	}
	filter := u.Query().Get("filter")
	if filter == "" {
		return nil
	}
	for _, card := range cards {
		if filter == "all" || card.Type() == filter {
			card.Show()
		} else {
			card.Hide()
		}
	}
	return nil
}
