package message

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/SitNav/Market-1.0-sub000/internal/db"
	"github.com/SitNav/Market-1.0-sub000/internal/models"
)

// Repository is the message storage used by MessageService.
type Repository interface {
	ListForUser(ctx context.Context, userID string, listingID *uuid.UUID) ([]models.Message, error)
	Get(ctx context.Context, id uuid.UUID) (*models.Message, error)
	Create(ctx context.Context, m *models.Message) error
	MarkRead(ctx context.Context, id uuid.UUID) error
	UserExists(ctx context.Context, id string) (bool, error)
	ListingExists(ctx context.Context, id uuid.UUID) (bool, error)
}

// PgRepository implements Repository on Postgres.
type PgRepository struct {
	db db.DBTX
}

// NewPgRepository creates a PgRepository.
func NewPgRepository(pool db.DBTX) *PgRepository {
	return &PgRepository{db: pool}
}

const messageSelect = `
	SELECT m.id, m.sender_id, m.receiver_id, m.listing_id, m.content, m.is_read, m.created_at,
	       s.id, s.first_name, s.last_name, s.profile_image_url, s.is_verified,
	       r.id, r.first_name, r.last_name, r.profile_image_url, r.is_verified,
	       l.id, l.title, l.price::float8, l.price_type, l.images, l.status
	FROM messages m
	JOIN users s ON s.id = m.sender_id
	JOIN users r ON r.id = m.receiver_id
	LEFT JOIN listings l ON l.id = m.listing_id`

// ListForUser returns every message the user sent or received, newest first.
// A non-nil listingID narrows it to that listing.
func (r *PgRepository) ListForUser(ctx context.Context, userID string, listingID *uuid.UUID) ([]models.Message, error) {
	query := messageSelect + `
	WHERE (m.sender_id = $1 OR m.receiver_id = $1)`
	args := []any{userID}
	if listingID != nil {
		query += ` AND m.listing_id = $2`
		args = append(args, *listingID)
	}
	query += `
	ORDER BY m.created_at DESC`

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	messages := []models.Message{}
	for rows.Next() {
		m, err := scanMessage(rows)
		if err != nil {
			return nil, err
		}
		messages = append(messages, *m)
	}
	return messages, rows.Err()
}

func (r *PgRepository) Get(ctx context.Context, id uuid.UUID) (*models.Message, error) {
	m, err := scanMessage(r.db.QueryRow(ctx, messageSelect+`
	WHERE m.id = $1`, id))
	return m, db.Translate(err, "message")
}

func (r *PgRepository) Create(ctx context.Context, m *models.Message) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	err := r.db.QueryRow(ctx, `
		INSERT INTO messages (id, sender_id, receiver_id, listing_id, content)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING is_read, created_at
	`, m.ID, m.SenderID, m.ReceiverID, m.ListingID, m.Content).Scan(&m.IsRead, &m.CreatedAt)
	return db.Translate(err, "message")
}

func (r *PgRepository) MarkRead(ctx context.Context, id uuid.UUID) error {
	tag, err := r.db.Exec(ctx, `UPDATE messages SET is_read = true WHERE id = $1`, id)
	if err != nil {
		return db.Translate(err, "message")
	}
	if tag.RowsAffected() == 0 {
		return db.Translate(pgx.ErrNoRows, "message")
	}
	return nil
}

func (r *PgRepository) UserExists(ctx context.Context, id string) (bool, error) {
	var exists bool
	err := r.db.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM users WHERE id = $1)`, id).Scan(&exists)
	return exists, err
}

func (r *PgRepository) ListingExists(ctx context.Context, id uuid.UUID) (bool, error) {
	var exists bool
	err := r.db.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM listings WHERE id = $1)`, id).Scan(&exists)
	return exists, err
}

func scanMessage(row pgx.Row) (*models.Message, error) {
	var (
		m         models.Message
		sender    models.UserSummary
		receiver  models.UserSummary
		listingID *uuid.UUID
		title     *string
		price     *float64
		priceType *string
		images    []string
		status    *string
	)
	if err := row.Scan(
		&m.ID, &m.SenderID, &m.ReceiverID, &m.ListingID, &m.Content, &m.IsRead, &m.CreatedAt,
		&sender.ID, &sender.FirstName, &sender.LastName, &sender.ProfileImageURL, &sender.IsVerified,
		&receiver.ID, &receiver.FirstName, &receiver.LastName, &receiver.ProfileImageURL, &receiver.IsVerified,
		&listingID, &title, &price, &priceType, &images, &status,
	); err != nil {
		return nil, err
	}
	m.Sender = &sender
	m.Receiver = &receiver
	// General messages carry no listing, the outer join yields NULLs.
	if listingID != nil {
		m.Listing = &models.ListingSummary{
			ID:        *listingID,
			Title:     deref(title),
			Price:     price,
			PriceType: deref(priceType),
			Images:    images,
			Status:    deref(status),
		}
	}
	return &m, nil
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
