package models

import (
	"time"

	"github.com/google/uuid"
)

// Report statuses as used by the admin UI. The backend stores whatever an admin sends.
const (
	ReportPending   = "pending"
	ReportResolved  = "resolved"
	ReportDismissed = "dismissed"
)

// Report flags a listing and/or a user for moderation.
type Report struct {
	ID             uuid.UUID  `json:"id"`
	ReporterID     string     `json:"reporterId"`
	ListingID      *uuid.UUID `json:"listingId"`
	ReportedUserID *string    `json:"reportedUserId"`
	Reason         string     `json:"reason"`
	Description    string     `json:"description"`
	Status         string     `json:"status"`
	CreatedAt      time.Time  `json:"createdAt"`

	Reporter *UserSummary `json:"reporter,omitempty"`
}

// AdminStats are the moderation dashboard counters.
type AdminStats struct {
	UsersCount          int `json:"usersCount"`
	ListingsCount       int `json:"listingsCount"`
	ReportsCount        int `json:"reportsCount"`
	PendingReportsCount int `json:"pendingReportsCount"`
}
