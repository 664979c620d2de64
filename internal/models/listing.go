package models

import (
	"strconv"
	"time"

	"github.com/google/uuid"
)

// Price types.
const (
	PriceFixed      = "fixed"
	PriceFree       = "free"
	PriceNegotiable = "negotiable"
)

// Listing statuses. Sold exists in the schema but no route moves a listing there on its own.
const (
	StatusActive    = "active"
	StatusSold      = "sold"
	StatusSuspended = "suspended"
)

// Listing is an item or service offered on the marketplace.
type Listing struct {
	ID          uuid.UUID `json:"id"`
	UserID      string    `json:"userId"`
	CategoryID  uuid.UUID `json:"categoryId"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Price       *float64  `json:"price"`
	PriceType   string    `json:"priceType"`
	Location    string    `json:"location"`
	Images      []string  `json:"images"`
	Status      string    `json:"status"`
	IsPromoted  bool      `json:"isPromoted"`
	ViewCount   int       `json:"viewCount"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`

	User     *UserSummary     `json:"user,omitempty"`
	Category *CategorySummary `json:"category,omitempty"`
}

// ValidPriceType reports whether t is one of the known price types.
func ValidPriceType(t string) bool {
	return t == PriceFixed || t == PriceFree || t == PriceNegotiable
}

// DisplayPrice renders the price the way clients show it. Free listings are
// always "Free", whatever price is stored.
func (l *Listing) DisplayPrice() string {
	switch {
	case l.PriceType == PriceFree:
		return "Free"
	case l.Price == nil && l.PriceType == PriceNegotiable:
		return "Negotiable"
	case l.Price == nil:
		return "Contact seller"
	}
	amount := "$" + strconv.FormatFloat(*l.Price, 'f', 2, 64)
	if l.PriceType == PriceNegotiable {
		return amount + " (negotiable)"
	}
	return amount
}

// ListingView is the JSON shape returned by the API: the listing plus the
// rendered price.
type ListingView struct {
	*Listing
	DisplayPrice string `json:"displayPrice"`
}

// View wraps the listing for output.
func (l *Listing) View() ListingView {
	return ListingView{Listing: l, DisplayPrice: l.DisplayPrice()}
}

// Views wraps a page of listings for output.
func Views(listings []Listing) []ListingView {
	out := make([]ListingView, 0, len(listings))
	for i := range listings {
		out = append(out, listings[i].View())
	}
	return out
}

// ListingSummary is the denormalized listing attached to messages and cart items.
type ListingSummary struct {
	ID        uuid.UUID `json:"id"`
	Title     string    `json:"title"`
	Price     *float64  `json:"price"`
	PriceType string    `json:"priceType"`
	Images    []string  `json:"images"`
	Status    string    `json:"status"`
}
