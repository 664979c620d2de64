package wishlist

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/SitNav/Market-1.0-sub000/internal/db"
	"github.com/SitNav/Market-1.0-sub000/internal/models"
)

// Repository is the wishlist storage used by WishlistService.
type Repository interface {
	List(ctx context.Context, userID string) ([]models.WishlistItem, error)
	Add(ctx context.Context, item *models.WishlistItem) error
	Remove(ctx context.Context, userID string, listingID uuid.UUID) error
}

// PgRepository implements Repository on Postgres.
type PgRepository struct {
	db db.DBTX
}

// NewPgRepository creates a PgRepository.
func NewPgRepository(pool db.DBTX) *PgRepository {
	return &PgRepository{db: pool}
}

// List returns the saved listings of a user, most recently saved first.
func (r *PgRepository) List(ctx context.Context, userID string) ([]models.WishlistItem, error) {
	rows, err := r.db.Query(ctx, `
		SELECT w.id, w.user_id, w.listing_id, w.created_at,
		       l.id, l.title, l.price::float8, l.price_type, l.images, l.status
		FROM wishlist_items w
		JOIN listings l ON l.id = w.listing_id
		WHERE w.user_id = $1
		ORDER BY w.created_at DESC
	`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := []models.WishlistItem{}
	for rows.Next() {
		var (
			item models.WishlistItem
			l    models.ListingSummary
		)
		if err := rows.Scan(&item.ID, &item.UserID, &item.ListingID, &item.CreatedAt,
			&l.ID, &l.Title, &l.Price, &l.PriceType, &l.Images, &l.Status); err != nil {
			return nil, err
		}
		item.Listing = &l
		items = append(items, item)
	}
	return items, rows.Err()
}

// Add saves a listing. Saving the same listing twice is a conflict.
func (r *PgRepository) Add(ctx context.Context, item *models.WishlistItem) error {
	if item.ID == uuid.Nil {
		item.ID = uuid.New()
	}
	err := r.db.QueryRow(ctx, `
		INSERT INTO wishlist_items (id, user_id, listing_id)
		VALUES ($1, $2, $3)
		RETURNING created_at
	`, item.ID, item.UserID, item.ListingID).Scan(&item.CreatedAt)
	return db.Translate(err, "wishlist item")
}

func (r *PgRepository) Remove(ctx context.Context, userID string, listingID uuid.UUID) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM wishlist_items WHERE user_id = $1 AND listing_id = $2`, userID, listingID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return db.Translate(pgx.ErrNoRows, "wishlist item")
	}
	return nil
}
