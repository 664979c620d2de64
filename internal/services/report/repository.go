package report

import (
	"context"

	"github.com/google/uuid"

	"github.com/SitNav/Market-1.0-sub000/internal/db"
	"github.com/SitNav/Market-1.0-sub000/internal/models"
)

// Repository is the report storage used by ReportService.
type Repository interface {
	List(ctx context.Context, status *string) ([]models.Report, error)
	Create(ctx context.Context, r *models.Report) error
	SetStatus(ctx context.Context, id uuid.UUID, status string) (*models.Report, error)
}

// PgRepository implements Repository on Postgres.
type PgRepository struct {
	db db.DBTX
}

// NewPgRepository creates a PgRepository.
func NewPgRepository(pool db.DBTX) *PgRepository {
	return &PgRepository{db: pool}
}

// List returns reports newest first with the reporter attached.
func (r *PgRepository) List(ctx context.Context, status *string) ([]models.Report, error) {
	query := `
		SELECT rp.id, rp.reporter_id, rp.listing_id, rp.reported_user_id, rp.reason, rp.description, rp.status, rp.created_at,
		       u.id, u.first_name, u.last_name, u.profile_image_url, u.is_verified
		FROM reports rp
		JOIN users u ON u.id = rp.reporter_id`
	var args []any
	if status != nil {
		query += ` WHERE rp.status = $1`
		args = append(args, *status)
	}
	query += ` ORDER BY rp.created_at DESC`

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	reports := []models.Report{}
	for rows.Next() {
		var (
			rp models.Report
			u  models.UserSummary
		)
		if err := rows.Scan(&rp.ID, &rp.ReporterID, &rp.ListingID, &rp.ReportedUserID, &rp.Reason,
			&rp.Description, &rp.Status, &rp.CreatedAt,
			&u.ID, &u.FirstName, &u.LastName, &u.ProfileImageURL, &u.IsVerified); err != nil {
			return nil, err
		}
		rp.Reporter = &u
		reports = append(reports, rp)
	}
	return reports, rows.Err()
}

func (r *PgRepository) Create(ctx context.Context, rp *models.Report) error {
	if rp.ID == uuid.Nil {
		rp.ID = uuid.New()
	}
	err := r.db.QueryRow(ctx, `
		INSERT INTO reports (id, reporter_id, listing_id, reported_user_id, reason, description, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING created_at
	`, rp.ID, rp.ReporterID, rp.ListingID, rp.ReportedUserID, rp.Reason, rp.Description, rp.Status).Scan(&rp.CreatedAt)
	return db.Translate(err, "report")
}

// SetStatus overwrites the status with whatever string it is given.
func (r *PgRepository) SetStatus(ctx context.Context, id uuid.UUID, status string) (*models.Report, error) {
	var rp models.Report
	err := r.db.QueryRow(ctx, `
		UPDATE reports SET status = $1 WHERE id = $2
		RETURNING id, reporter_id, listing_id, reported_user_id, reason, description, status, created_at
	`, status, id).Scan(&rp.ID, &rp.ReporterID, &rp.ListingID, &rp.ReportedUserID, &rp.Reason,
		&rp.Description, &rp.Status, &rp.CreatedAt)
	if err != nil {
		return nil, db.Translate(err, "report")
	}
	return &rp, nil
}

