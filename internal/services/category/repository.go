package category

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/SitNav/Market-1.0-sub000/internal/apperr"
	"github.com/SitNav/Market-1.0-sub000/internal/db"
	"github.com/SitNav/Market-1.0-sub000/internal/models"
)

// Repository is the category storage used by CategoryService.
type Repository interface {
	List(ctx context.Context, includeInactive bool) ([]models.Category, error)
	Get(ctx context.Context, id uuid.UUID) (*models.Category, error)
	Create(ctx context.Context, c *models.Category) error
	Update(ctx context.Context, c *models.Category) error
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

const categoryColumns = `id, name, slug, description, icon, color, is_active`

func (r *PgRepository) List(ctx context.Context, includeInactive bool) ([]models.Category, error) {
	query := `SELECT ` + categoryColumns + ` FROM categories`
	if !includeInactive {
		query += ` WHERE is_active`
	}
	query += ` ORDER BY name`

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	categories := []models.Category{}
	for rows.Next() {
		c, err := scanCategory(rows)
		if err != nil {
			return nil, err
		}
		categories = append(categories, *c)
	}
	return categories, rows.Err()
}

func (r *PgRepository) Get(ctx context.Context, id uuid.UUID) (*models.Category, error) {
	c, err := scanCategory(r.db.QueryRow(ctx, `SELECT `+categoryColumns+` FROM categories WHERE id = $1`, id))
	return c, db.Translate(err, "category")
}

func (r *PgRepository) Create(ctx context.Context, c *models.Category) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	_, err := r.db.Exec(ctx, `
		INSERT INTO categories (`+categoryColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`, c.ID, c.Name, c.Slug, c.Description, c.Icon, c.Color, c.IsActive)
	return db.Translate(err, "category")
}

func (r *PgRepository) Update(ctx context.Context, c *models.Category) error {
	tag, err := r.db.Exec(ctx, `
		UPDATE categories
		SET name = $1, slug = $2, description = $3, icon = $4, color = $5, is_active = $6
		WHERE id = $7
	`, c.Name, c.Slug, c.Description, c.Icon, c.Color, c.IsActive, c.ID)
	if err != nil {
		return db.Translate(err, "category")
	}
	if tag.RowsAffected() == 0 {
		return db.Translate(pgx.ErrNoRows, "category")
	}
	return nil
}

// Delete fails with a conflict while listings still reference the category.
func (r *PgRepository) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM categories WHERE id = $1`, id)
	if db.IsForeignKeyViolation(err) {
		return apperr.Conflict("category is still used by listings")
	}
	if err != nil {
		return db.Translate(err, "category")
	}
	if tag.RowsAffected() == 0 {
		return db.Translate(pgx.ErrNoRows, "category")
	}
	return nil
}

func scanCategory(row pgx.Row) (*models.Category, error) {
	var c models.Category
	if err := row.Scan(&c.ID, &c.Name, &c.Slug, &c.Description, &c.Icon, &c.Color, &c.IsActive); err != nil {
		return nil, err
	}
	return &c, nil
}
