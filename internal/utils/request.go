package utils

import (
	"strconv"

	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"

	"github.com/SitNav/Market-1.0-sub000/internal/apperr"
)

// Pagination defaults.
const (
	DefaultLimit = 20
	MaxLimit     = 100
)

// ParamUUID reads a path parameter as a UUID. A malformed id cannot name an
// existing row, so it is reported as not found.
func ParamUUID(c fiber.Ctx, name, what string) (uuid.UUID, error) {
	id, err := uuid.Parse(c.Params(name))
	if err != nil {
		return uuid.Nil, apperr.NotFound(what)
	}
	return id, nil
}

// ParseOptionalUUID parses a body or query field that may be empty.
func ParseOptionalUUID(raw, field string) (*uuid.UUID, error) {
	if raw == "" {
		return nil, nil
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return nil, apperr.Invalid(field, "must be a valid id")
	}
	return &id, nil
}

// Pagination reads limit and offset query parameters.
func Pagination(c fiber.Ctx) (limit, offset int, err error) {
	limit = DefaultLimit
	if raw := c.Query("limit"); raw != "" {
		limit, err = strconv.Atoi(raw)
		if err != nil || limit < 1 {
			return 0, 0, apperr.Invalid("limit", "must be a positive integer")
		}
		if limit > MaxLimit {
			limit = MaxLimit
		}
	}
	if raw := c.Query("offset"); raw != "" {
		offset, err = strconv.Atoi(raw)
		if err != nil || offset < 0 {
			return 0, 0, apperr.Invalid("offset", "must be a non-negative integer")
		}
	}
	return limit, offset, nil
}
