package models

import (
	"time"

	"github.com/google/uuid"
)

// Message is a note from one user to another, optionally about a listing.
type Message struct {
	ID         uuid.UUID  `json:"id"`
	SenderID   string     `json:"senderId"`
	ReceiverID string     `json:"receiverId"`
	ListingID  *uuid.UUID `json:"listingId"`
	Content    string     `json:"content"`
	IsRead     bool       `json:"isRead"`
	CreatedAt  time.Time  `json:"createdAt"`

	Sender   *UserSummary    `json:"sender,omitempty"`
	Receiver *UserSummary    `json:"receiver,omitempty"`
	Listing  *ListingSummary `json:"listing,omitempty"`
}
