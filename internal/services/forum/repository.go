package forum

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/SitNav/Market-1.0-sub000/internal/db"
	"github.com/SitNav/Market-1.0-sub000/internal/models"
)

// Repository is the forum storage used by ForumService.
type Repository interface {
	List(ctx context.Context, topic string, limit, offset int) ([]models.ForumPost, error)
	Get(ctx context.Context, id uuid.UUID) (*models.ForumPost, error)
	Create(ctx context.Context, p *models.ForumPost) error
	Update(ctx context.Context, p *models.ForumPost) error
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

const postSelect = `
	SELECT p.id, p.user_id, p.title, p.content, p.topic, p.created_at, p.updated_at,
	       u.id, u.first_name, u.last_name, u.profile_image_url, u.is_verified
	FROM forum_posts p
	JOIN users u ON u.id = p.user_id`

// List returns posts newest first. An empty topic matches every post.
func (r *PgRepository) List(ctx context.Context, topic string, limit, offset int) ([]models.ForumPost, error) {
	rows, err := r.db.Query(ctx, postSelect+`
	WHERE ($1 = '' OR p.topic = $1)
	ORDER BY p.created_at DESC
	LIMIT $2 OFFSET $3`, topic, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	posts := []models.ForumPost{}
	for rows.Next() {
		p, err := scanPost(rows)
		if err != nil {
			return nil, err
		}
		posts = append(posts, *p)
	}
	return posts, rows.Err()
}

func (r *PgRepository) Get(ctx context.Context, id uuid.UUID) (*models.ForumPost, error) {
	p, err := scanPost(r.db.QueryRow(ctx, postSelect+`
	WHERE p.id = $1`, id))
	return p, db.Translate(err, "post")
}

func (r *PgRepository) Create(ctx context.Context, p *models.ForumPost) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	err := r.db.QueryRow(ctx, `
		INSERT INTO forum_posts (id, user_id, title, content, topic)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING created_at, updated_at
	`, p.ID, p.UserID, p.Title, p.Content, p.Topic).Scan(&p.CreatedAt, &p.UpdatedAt)
	return db.Translate(err, "post")
}

func (r *PgRepository) Update(ctx context.Context, p *models.ForumPost) error {
	err := r.db.QueryRow(ctx, `
		UPDATE forum_posts SET title = $1, content = $2, topic = $3, updated_at = NOW()
		WHERE id = $4
		RETURNING updated_at
	`, p.Title, p.Content, p.Topic, p.ID).Scan(&p.UpdatedAt)
	return db.Translate(err, "post")
}

func (r *PgRepository) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM forum_posts WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return db.Translate(pgx.ErrNoRows, "post")
	}
	return nil
}

func scanPost(row pgx.Row) (*models.ForumPost, error) {
	var (
		p models.ForumPost
		u models.UserSummary
	)
	if err := row.Scan(&p.ID, &p.UserID, &p.Title, &p.Content, &p.Topic, &p.CreatedAt, &p.UpdatedAt,
		&u.ID, &u.FirstName, &u.LastName, &u.ProfileImageURL, &u.IsVerified); err != nil {
		return nil, err
	}
	p.User = &u
	return &p, nil
}
