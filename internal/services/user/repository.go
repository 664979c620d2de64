package user

import (
	"context"

	"github.com/jackc/pgx/v5"

	"github.com/SitNav/Market-1.0-sub000/internal/db"
	"github.com/SitNav/Market-1.0-sub000/internal/models"
)

// Repository is the user storage shared by the user and auth services.
type Repository interface {
	Get(ctx context.Context, id string) (*models.User, error)
	Upsert(ctx context.Context, u *models.User) error
	UpdateProfile(ctx context.Context, u *models.User) error
	Rating(ctx context.Context, sellerID string) (models.Rating, error)
}

// PgRepository implements Repository on Postgres.
type PgRepository struct {
	db db.DBTX
}

// NewPgRepository creates a PgRepository.
func NewPgRepository(pool db.DBTX) *PgRepository {
	return &PgRepository{db: pool}
}

const userColumns = `id, COALESCE(email, ''), first_name, last_name, profile_image_url, phone,
	is_verified, is_admin, created_at, updated_at`

func (r *PgRepository) Get(ctx context.Context, id string) (*models.User, error) {
	u, err := scanUser(r.db.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, id))
	return u, db.Translate(err, "user")
}

// Upsert inserts the user or refreshes the identity fields of an existing one.
// Admin and verified flags are only ever raised here, never cleared.
func (r *PgRepository) Upsert(ctx context.Context, u *models.User) error {
	row := r.db.QueryRow(ctx, `
		INSERT INTO users (id, email, first_name, last_name, profile_image_url, is_verified, is_admin)
		VALUES ($1, NULLIF($2, ''), $3, $4, $5, $6, $7)
		ON CONFLICT (id) DO UPDATE SET
			email             = COALESCE(EXCLUDED.email, users.email),
			first_name        = EXCLUDED.first_name,
			last_name         = EXCLUDED.last_name,
			profile_image_url = COALESCE(EXCLUDED.profile_image_url, users.profile_image_url),
			is_verified       = users.is_verified OR EXCLUDED.is_verified,
			is_admin          = users.is_admin OR EXCLUDED.is_admin,
			updated_at        = NOW()
		RETURNING `+userColumns,
		u.ID, u.Email, u.FirstName, u.LastName, u.ProfileImageURL, u.IsVerified, u.IsAdmin)
	stored, err := scanUser(row)
	if err != nil {
		return db.Translate(err, "user")
	}
	*u = *stored
	return nil
}

// UpdateProfile writes the user-editable fields.
func (r *PgRepository) UpdateProfile(ctx context.Context, u *models.User) error {
	err := r.db.QueryRow(ctx, `
		UPDATE users
		SET first_name = $1, last_name = $2, phone = $3, profile_image_url = $4, updated_at = NOW()
		WHERE id = $5
		RETURNING updated_at
	`, u.FirstName, u.LastName, u.Phone, u.ProfileImageURL, u.ID).Scan(&u.UpdatedAt)
	return db.Translate(err, "user")
}

// Rating sums the reviews a seller received. Unknown sellers are not found.
func (r *PgRepository) Rating(ctx context.Context, sellerID string) (models.Rating, error) {
	var points, count int
	err := r.db.QueryRow(ctx, `
		SELECT COALESCE(SUM(r.rating), 0), COUNT(r.id)
		FROM users u
		LEFT JOIN reviews r ON r.seller_id = u.id
		WHERE u.id = $1
		GROUP BY u.id
	`, sellerID).Scan(&points, &count)
	if err != nil {
		return models.Rating{}, db.Translate(err, "user")
	}
	return models.NewRating(points, count), nil
}

func scanUser(row pgx.Row) (*models.User, error) {
	var u models.User
	if err := row.Scan(&u.ID, &u.Email, &u.FirstName, &u.LastName, &u.ProfileImageURL, &u.Phone,
		&u.IsVerified, &u.IsAdmin, &u.CreatedAt, &u.UpdatedAt); err != nil {
		return nil, err
	}
	return &u, nil
}
