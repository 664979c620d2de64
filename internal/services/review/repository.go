package review

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/SitNav/Market-1.0-sub000/internal/db"
	"github.com/SitNav/Market-1.0-sub000/internal/models"
)

// Repository is the review storage used by ReviewService.
type Repository interface {
	ListBySeller(ctx context.Context, sellerID string) ([]models.Review, error)
	Get(ctx context.Context, id uuid.UUID) (*models.Review, error)
	Create(ctx context.Context, r *models.Review) error
	Update(ctx context.Context, r *models.Review) error
	Delete(ctx context.Context, id uuid.UUID) error
}

// PgRepository implements Repository on Postgres.
type PgRepository struct {
	db db.DBTX
}

// NewPgRepository creates a PgRepository.
func NewPgRepository(pool db.DBTX) *PgRepository {
	return &PgRepository{db: pool}
}

const reviewSelect = `
	SELECT r.id, r.reviewer_id, r.seller_id, r.listing_id, r.rating, r.comment, r.created_at, r.updated_at,
	       u.id, u.first_name, u.last_name, u.profile_image_url, u.is_verified
	FROM reviews r
	JOIN users u ON u.id = r.reviewer_id`

// ListBySeller returns the reviews a seller received, newest first.
func (r *PgRepository) ListBySeller(ctx context.Context, sellerID string) ([]models.Review, error) {
	rows, err := r.db.Query(ctx, reviewSelect+`
	WHERE r.seller_id = $1
	ORDER BY r.created_at DESC`, sellerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	reviews := []models.Review{}
	for rows.Next() {
		rv, err := scanReview(rows)
		if err != nil {
			return nil, err
		}
		reviews = append(reviews, *rv)
	}
	return reviews, rows.Err()
}

func (r *PgRepository) Get(ctx context.Context, id uuid.UUID) (*models.Review, error) {
	rv, err := scanReview(r.db.QueryRow(ctx, reviewSelect+`
	WHERE r.id = $1`, id))
	return rv, db.Translate(err, "review")
}

func (r *PgRepository) Create(ctx context.Context, rv *models.Review) error {
	if rv.ID == uuid.Nil {
		rv.ID = uuid.New()
	}
	err := r.db.QueryRow(ctx, `
		INSERT INTO reviews (id, reviewer_id, seller_id, listing_id, rating, comment)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING created_at, updated_at
	`, rv.ID, rv.ReviewerID, rv.SellerID, rv.ListingID, rv.Rating, rv.Comment).Scan(&rv.CreatedAt, &rv.UpdatedAt)
	return db.Translate(err, "review")
}

func (r *PgRepository) Update(ctx context.Context, rv *models.Review) error {
	err := r.db.QueryRow(ctx, `
		UPDATE reviews SET rating = $1, comment = $2, updated_at = NOW() WHERE id = $3 RETURNING updated_at
	`, rv.Rating, rv.Comment, rv.ID).Scan(&rv.UpdatedAt)
	return db.Translate(err, "review")
}

func (r *PgRepository) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM reviews WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return db.Translate(pgx.ErrNoRows, "review")
	}
	return nil
}

func scanReview(row pgx.Row) (*models.Review, error) {
	var (
		rv models.Review
		u  models.UserSummary
	)
	if err := row.Scan(&rv.ID, &rv.ReviewerID, &rv.SellerID, &rv.ListingID, &rv.Rating, &rv.Comment,
		&rv.CreatedAt, &rv.UpdatedAt,
		&u.ID, &u.FirstName, &u.LastName, &u.ProfileImageURL, &u.IsVerified); err != nil {
		return nil, err
	}
	rv.Reviewer = &u
	return &rv, nil
}
