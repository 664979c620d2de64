package models

import "time"

// User is a marketplace member. The id is issued by the identity provider.
type User struct {
	ID              string    `json:"id"`
	Email           string    `json:"email,omitempty"`
	FirstName       string    `json:"firstName"`
	LastName        string    `json:"lastName"`
	ProfileImageURL *string   `json:"profileImageUrl"`
	Phone           *string   `json:"phone"`
	IsVerified      bool      `json:"isVerified"`
	IsAdmin         bool      `json:"isAdmin"`
	CreatedAt       time.Time `json:"createdAt"`
	UpdatedAt       time.Time `json:"updatedAt"`
}

// UserSummary is the denormalized user attached to listings, messages and posts.
type UserSummary struct {
	ID              string  `json:"id"`
	FirstName       string  `json:"firstName"`
	LastName        string  `json:"lastName"`
	ProfileImageURL *string `json:"profileImageUrl"`
	IsVerified      bool    `json:"isVerified"`
}

// Rating aggregates the reviews a seller received.
type Rating struct {
	TotalPoints   int     `json:"totalPoints"`
	TotalReviews  int     `json:"totalReviews"`
	AverageRating float64 `json:"averageRating"`
}

// NewRating computes the average, zero when there are no reviews.
func NewRating(totalPoints, totalReviews int) Rating {
	r := Rating{TotalPoints: totalPoints, TotalReviews: totalReviews}
	if totalReviews > 0 {
		r.AverageRating = float64(totalPoints) / float64(totalReviews)
	}
	return r
}
