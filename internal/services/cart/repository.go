package cart

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/SitNav/Market-1.0-sub000/internal/db"
	"github.com/SitNav/Market-1.0-sub000/internal/models"
)

// Repository is the cart storage used by CartService.
type Repository interface {
	List(ctx context.Context, userID string) ([]models.CartItem, error)
	Add(ctx context.Context, item *models.CartItem) error
	SetQuantity(ctx context.Context, userID string, listingID uuid.UUID, quantity int) (*models.CartItem, error)
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

func (r *PgRepository) List(ctx context.Context, userID string) ([]models.CartItem, error) {
	rows, err := r.db.Query(ctx, `
		SELECT ci.id, ci.user_id, ci.listing_id, ci.quantity, ci.created_at,
		       l.id, l.title, l.price::float8, l.price_type, l.images, l.status
		FROM cart_items ci
		JOIN listings l ON l.id = ci.listing_id
		WHERE ci.user_id = $1
		ORDER BY ci.created_at
	`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := []models.CartItem{}
	for rows.Next() {
		var (
			item models.CartItem
			l    models.ListingSummary
		)
		if err := rows.Scan(&item.ID, &item.UserID, &item.ListingID, &item.Quantity, &item.CreatedAt,
			&l.ID, &l.Title, &l.Price, &l.PriceType, &l.Images, &l.Status); err != nil {
			return nil, err
		}
		item.Listing = &l
		items = append(items, item)
	}
	return items, rows.Err()
}

// Add puts a listing in the cart. Adding it again raises the quantity instead.
func (r *PgRepository) Add(ctx context.Context, item *models.CartItem) error {
	if item.ID == uuid.Nil {
		item.ID = uuid.New()
	}
	err := r.db.QueryRow(ctx, `
		INSERT INTO cart_items (id, user_id, listing_id, quantity)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (user_id, listing_id) DO UPDATE SET quantity = cart_items.quantity + EXCLUDED.quantity
		RETURNING id, quantity, created_at
	`, item.ID, item.UserID, item.ListingID, item.Quantity).Scan(&item.ID, &item.Quantity, &item.CreatedAt)
	return db.Translate(err, "cart item")
}

func (r *PgRepository) SetQuantity(ctx context.Context, userID string, listingID uuid.UUID, quantity int) (*models.CartItem, error) {
	item := models.CartItem{UserID: userID, ListingID: listingID}
	err := r.db.QueryRow(ctx, `
		UPDATE cart_items SET quantity = $1
		WHERE user_id = $2 AND listing_id = $3
		RETURNING id, quantity, created_at
	`, quantity, userID, listingID).Scan(&item.ID, &item.Quantity, &item.CreatedAt)
	if err != nil {
		return nil, db.Translate(err, "cart item")
	}
	return &item, nil
}

func (r *PgRepository) Remove(ctx context.Context, userID string, listingID uuid.UUID) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM cart_items WHERE user_id = $1 AND listing_id = $2`, userID, listingID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return db.Translate(pgx.ErrNoRows, "cart item")
	}
	return nil
}
