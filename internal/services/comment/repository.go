package comment

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/SitNav/Market-1.0-sub000/internal/db"
	"github.com/SitNav/Market-1.0-sub000/internal/models"
)

// Repository is the comment storage used by CommentService.
type Repository interface {
	ListByListing(ctx context.Context, listingID uuid.UUID) ([]models.Comment, error)
	Get(ctx context.Context, id uuid.UUID) (*models.Comment, error)
	Create(ctx context.Context, c *models.Comment) error
	Update(ctx context.Context, c *models.Comment) error
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

const commentSelect = `
	SELECT c.id, c.listing_id, c.user_id, c.content, c.created_at, c.updated_at,
	       u.id, u.first_name, u.last_name, u.profile_image_url, u.is_verified
	FROM comments c
	JOIN users u ON u.id = c.user_id`

// ListByListing returns the comments of a listing, oldest first.
func (r *PgRepository) ListByListing(ctx context.Context, listingID uuid.UUID) ([]models.Comment, error) {
	rows, err := r.db.Query(ctx, commentSelect+`
	WHERE c.listing_id = $1
	ORDER BY c.created_at`, listingID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	comments := []models.Comment{}
	for rows.Next() {
		c, err := scanComment(rows)
		if err != nil {
			return nil, err
		}
		comments = append(comments, *c)
	}
	return comments, rows.Err()
}

func (r *PgRepository) Get(ctx context.Context, id uuid.UUID) (*models.Comment, error) {
	c, err := scanComment(r.db.QueryRow(ctx, commentSelect+`
	WHERE c.id = $1`, id))
	return c, db.Translate(err, "comment")
}

func (r *PgRepository) Create(ctx context.Context, c *models.Comment) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	err := r.db.QueryRow(ctx, `
		INSERT INTO comments (id, listing_id, user_id, content)
		VALUES ($1, $2, $3, $4)
		RETURNING created_at, updated_at
	`, c.ID, c.ListingID, c.UserID, c.Content).Scan(&c.CreatedAt, &c.UpdatedAt)
	return db.Translate(err, "comment")
}

func (r *PgRepository) Update(ctx context.Context, c *models.Comment) error {
	err := r.db.QueryRow(ctx, `
		UPDATE comments SET content = $1, updated_at = NOW() WHERE id = $2 RETURNING updated_at
	`, c.Content, c.ID).Scan(&c.UpdatedAt)
	return db.Translate(err, "comment")
}

func (r *PgRepository) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM comments WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return db.Translate(pgx.ErrNoRows, "comment")
	}
	return nil
}

func scanComment(row pgx.Row) (*models.Comment, error) {
	var (
		c models.Comment
		u models.UserSummary
	)
	if err := row.Scan(&c.ID, &c.ListingID, &c.UserID, &c.Content, &c.CreatedAt, &c.UpdatedAt,
		&u.ID, &u.FirstName, &u.LastName, &u.ProfileImageURL, &u.IsVerified); err != nil {
		return nil, err
	}
	c.User = &u
	return &c, nil
}
