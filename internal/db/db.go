package db

import (
	"context"
	_ "embed"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"github.com/SitNav/Market-1.0-sub000/internal/apperr"
	"github.com/SitNav/Market-1.0-sub000/internal/config"
)

//go:embed schema.sql
var schemaSQL string

// DBTX is the part of pgxpool.Pool (and pgx.Tx) the repositories use.
type DBTX interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// Connect opens the connection pool and checks it with a ping.
func Connect(ctx context.Context, cfg *config.Config, log *zap.SugaredLogger) (*pgxpool.Pool, error) {
	log.Infow("connecting to database", "host", cfg.DatabaseConfig.Host, "database", cfg.DatabaseConfig.Name)

	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	poolConfig, err := pgxpool.ParseConfig(cfg.DatabaseURL)
	if err != nil {
		return nil, fmt.Errorf("parse database url: %w", err)
	}
	poolConfig.MaxConns = cfg.DatabaseConfig.MaxConns
	poolConfig.MinConns = cfg.DatabaseConfig.MinConns

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return nil, fmt.Errorf("create pool: %w", err)
	}

	if err = pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	log.Info("database connection established")
	return pool, nil
}

// EnsureSchema creates missing tables and indexes. Every statement is idempotent.
func EnsureSchema(ctx context.Context, pool DBTX) error {
	if _, err := pool.Exec(ctx, schemaSQL); err != nil {
		return fmt.Errorf("apply schema: %w", err)
	}
	return nil
}

// Postgres error codes the repositories translate.
const (
	codeUniqueViolation     = "23505"
	codeForeignKeyViolation = "23503"
	codeCheckViolation      = "23514"
	codeInvalidText         = "22P02"
)

// Translate turns driver errors into apperr values. what names the resource
// for not-found messages. Other errors are returned unchanged.
func Translate(err error, what string) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, pgx.ErrNoRows) {
		return apperr.NotFound(what)
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case codeUniqueViolation:
			return apperr.Conflict(what + " already exists")
		case codeForeignKeyViolation:
			return apperr.Invalid(fkField(pgErr.ConstraintName), "references a missing record")
		case codeCheckViolation:
			return apperr.Invalid(pgErr.ColumnName, "value out of range")
		case codeInvalidText:
			return apperr.NotFound(what)
		}
	}
	return err
}

// IsForeignKeyViolation reports whether err is a Postgres foreign key violation.
func IsForeignKeyViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == codeForeignKeyViolation
}

// fkField guesses the request field from a constraint name such as
// "listings_category_id_fkey". Longer column names are checked first so
// reported_user_id does not match as user_id.
func fkField(constraint string) string {
	columns := []struct{ col, field string }{
		{"reported_user_id", "reportedUserId"},
		{"category_id", "categoryId"},
		{"receiver_id", "receiverId"},
		{"reviewer_id", "reviewerId"},
		{"reporter_id", "reporterId"},
		{"listing_id", "listingId"},
		{"sender_id", "senderId"},
		{"seller_id", "sellerId"},
		{"user_id", "userId"},
	}
	for _, c := range columns {
		if strings.Contains(constraint, c.col) {
			return c.field
		}
	}
	return "reference"
}

// QueryContext returns a context bounded by the configured query timeout.
func QueryContext(timeout time.Duration) (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), timeout)
}
