package models

import "github.com/google/uuid"

// Category groups listings. Managed by admins.
type Category struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	Slug        string    `json:"slug"`
	Description string    `json:"description"`
	Icon        string    `json:"icon"`
	Color       string    `json:"color"`
	IsActive    bool      `json:"isActive"`
}

// CategorySummary is the denormalized category attached to listings.
type CategorySummary struct {
	ID    uuid.UUID `json:"id"`
	Name  string    `json:"name"`
	Slug  string    `json:"slug"`
	Icon  string    `json:"icon"`
	Color string    `json:"color"`
}
