package listing

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/SitNav/Market-1.0-sub000/internal/db"
	"github.com/SitNav/Market-1.0-sub000/internal/models"
)

// Repository is the listing storage used by ListingService.
type Repository interface {
	List(ctx context.Context, f Filter) ([]models.Listing, error)
	Get(ctx context.Context, id uuid.UUID) (*models.Listing, error)
	GetAndCountView(ctx context.Context, id uuid.UUID) (*models.Listing, error)
	Create(ctx context.Context, l *models.Listing) error
	Update(ctx context.Context, l *models.Listing) error
	Delete(ctx context.Context, id uuid.UUID) error
	SetStatus(ctx context.Context, id uuid.UUID, status string) error
}

// PgRepository implements Repository on Postgres.
type PgRepository struct {
	db db.DBTX
}

// NewPgRepository creates a PgRepository.
func NewPgRepository(pool db.DBTX) *PgRepository {
	return &PgRepository{db: pool}
}

// List returns one page of listings with user and category summaries.
func (r *PgRepository) List(ctx context.Context, f Filter) ([]models.Listing, error) {
	query, args := buildListQuery(f)
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	listings := []models.Listing{}
	for rows.Next() {
		l, err := scanListing(rows)
		if err != nil {
			return nil, err
		}
		listings = append(listings, *l)
	}
	return listings, rows.Err()
}

// Get loads a listing without touching its view counter.
func (r *PgRepository) Get(ctx context.Context, id uuid.UUID) (*models.Listing, error) {
	row := r.db.QueryRow(ctx, `SELECT`+listingColumns+`
	FROM listings l`+listingJoins+`
	WHERE l.id = $1`, id)
	l, err := scanListing(row)
	return l, db.Translate(err, "listing")
}

// GetAndCountView bumps view_count and returns the updated listing in one statement.
func (r *PgRepository) GetAndCountView(ctx context.Context, id uuid.UUID) (*models.Listing, error) {
	row := r.db.QueryRow(ctx, `WITH l AS (
		UPDATE listings SET view_count = view_count + 1 WHERE id = $1 RETURNING *
	)
	SELECT`+listingColumns+`
	FROM l`+listingJoins, id)
	l, err := scanListing(row)
	return l, db.Translate(err, "listing")
}

// Create inserts the listing and fills in server-generated fields.
func (r *PgRepository) Create(ctx context.Context, l *models.Listing) error {
	if l.ID == uuid.Nil {
		l.ID = uuid.New()
	}
	if l.Images == nil {
		l.Images = []string{}
	}
	err := r.db.QueryRow(ctx, `
		INSERT INTO listings (id, user_id, category_id, title, description, price, price_type, location, images, status, is_promoted)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		RETURNING view_count, created_at, updated_at
	`, l.ID, l.UserID, l.CategoryID, l.Title, l.Description, l.Price, l.PriceType,
		l.Location, l.Images, l.Status, l.IsPromoted).Scan(&l.ViewCount, &l.CreatedAt, &l.UpdatedAt)
	return db.Translate(err, "listing")
}

// Update writes the editable fields. Status and view count are left alone.
func (r *PgRepository) Update(ctx context.Context, l *models.Listing) error {
	if l.Images == nil {
		l.Images = []string{}
	}
	err := r.db.QueryRow(ctx, `
		UPDATE listings
		SET category_id = $1, title = $2, description = $3, price = $4, price_type = $5,
		    location = $6, images = $7, is_promoted = $8, updated_at = NOW()
		WHERE id = $9
		RETURNING updated_at
	`, l.CategoryID, l.Title, l.Description, l.Price, l.PriceType,
		l.Location, l.Images, l.IsPromoted, l.ID).Scan(&l.UpdatedAt)
	return db.Translate(err, "listing")
}

// Delete removes the listing row.
func (r *PgRepository) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM listings WHERE id = $1`, id)
	if err != nil {
		return db.Translate(err, "listing")
	}
	if tag.RowsAffected() == 0 {
		return db.Translate(pgx.ErrNoRows, "listing")
	}
	return nil
}

// SetStatus overwrites the status with whatever string it is given.
func (r *PgRepository) SetStatus(ctx context.Context, id uuid.UUID, status string) error {
	tag, err := r.db.Exec(ctx, `UPDATE listings SET status = $1, updated_at = NOW() WHERE id = $2`, status, id)
	if err != nil {
		return db.Translate(err, "listing")
	}
	if tag.RowsAffected() == 0 {
		return db.Translate(pgx.ErrNoRows, "listing")
	}
	return nil
}

func scanListing(row pgx.Row) (*models.Listing, error) {
	var (
		l models.Listing
		u models.UserSummary
		c models.CategorySummary
	)
	if err := row.Scan(
		&l.ID, &l.UserID, &l.CategoryID, &l.Title, &l.Description, &l.Price, &l.PriceType,
		&l.Location, &l.Images, &l.Status, &l.IsPromoted, &l.ViewCount, &l.CreatedAt, &l.UpdatedAt,
		&u.ID, &u.FirstName, &u.LastName, &u.ProfileImageURL, &u.IsVerified,
		&c.ID, &c.Name, &c.Slug, &c.Icon, &c.Color,
	); err != nil {
		return nil, err
	}
	l.User = &u
	l.Category = &c
	return &l, nil
}
