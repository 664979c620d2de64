package models

import (
	"time"

	"github.com/google/uuid"
)

// Comment is a public remark on a listing.
type Comment struct {
	ID        uuid.UUID `json:"id"`
	ListingID uuid.UUID `json:"listingId"`
	UserID    string    `json:"userId"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`

	User *UserSummary `json:"user,omitempty"`
}

// Review rates a seller from 1 to 5.
type Review struct {
	ID         uuid.UUID  `json:"id"`
	ReviewerID string     `json:"reviewerId"`
	SellerID   string     `json:"sellerId"`
	ListingID  *uuid.UUID `json:"listingId"`
	Rating     int        `json:"rating"`
	Comment    string     `json:"comment"`
	CreatedAt  time.Time  `json:"createdAt"`
	UpdatedAt  time.Time  `json:"updatedAt"`

	Reviewer *UserSummary `json:"reviewer,omitempty"`
}

// ForumPost is a community discussion thread starter.
type ForumPost struct {
	ID        uuid.UUID `json:"id"`
	UserID    string    `json:"userId"`
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	Topic     string    `json:"topic"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`

	User *UserSummary `json:"user,omitempty"`
}

// WishlistItem is a listing a user saved for later.
type WishlistItem struct {
	ID        uuid.UUID `json:"id"`
	UserID    string    `json:"userId"`
	ListingID uuid.UUID `json:"listingId"`
	CreatedAt time.Time `json:"createdAt"`

	Listing *ListingSummary `json:"listing,omitempty"`
}

// CartItem is a listing in a user's cart with a quantity.
type CartItem struct {
	ID        uuid.UUID `json:"id"`
	UserID    string    `json:"userId"`
	ListingID uuid.UUID `json:"listingId"`
	Quantity  int       `json:"quantity"`
	CreatedAt time.Time `json:"createdAt"`

	Listing *ListingSummary `json:"listing,omitempty"`
}
