package apperr

import (
	"errors"
	"sort"
	"strings"

	"github.com/gofiber/fiber/v3"
	"go.uber.org/zap"
)

var (
	ErrUnauthorized = errors.New("unauthorized")
	ErrForbidden    = errors.New("forbidden")
	ErrNotFound     = errors.New("not found")
	ErrConflict     = errors.New("conflict")
)

// ValidationError carries per-field problems of a rejected request.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+": "+e.Fields[k])
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// Validation starts an empty ValidationError to collect field errors into.
func Validation() *ValidationError {
	return &ValidationError{Fields: map[string]string{}}
}

// Add records a problem for a field and returns the receiver.
func (e *ValidationError) Add(field, msg string) *ValidationError {
	e.Fields[field] = msg
	return e
}

// Err returns nil when no field was added.
func (e *ValidationError) Err() error {
	if len(e.Fields) == 0 {
		return nil
	}
	return e
}

// Invalid is a shortcut for a single-field validation error.
func Invalid(field, msg string) error {
	return Validation().Add(field, msg)
}

// NotFound wraps ErrNotFound with the missing resource name, e.g. "listing not found".
func NotFound(what string) error {
	return &statusError{err: ErrNotFound, msg: what + " not found"}
}

// Forbidden wraps ErrForbidden with a message for the client.
func Forbidden(msg string) error {
	return &statusError{err: ErrForbidden, msg: msg}
}

// Conflict wraps ErrConflict with a message for the client.
func Conflict(msg string) error {
	return &statusError{err: ErrConflict, msg: msg}
}

type statusError struct {
	err error
	msg string
}

func (e *statusError) Error() string { return e.msg }
func (e *statusError) Unwrap() error { return e.err }

// ErrorHandler maps handler errors to JSON responses. Anything it does not
// recognise becomes a 500 with a generic message and is logged.
func ErrorHandler(log *zap.SugaredLogger) fiber.ErrorHandler {
	return func(c fiber.Ctx, err error) error {
		var ve *ValidationError
		if errors.As(err, &ve) {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error":  "validation failed",
				"fields": ve.Fields,
			})
		}

		var fe *fiber.Error
		if errors.As(err, &fe) {
			return c.Status(fe.Code).JSON(fiber.Map{"error": fe.Message})
		}

		code := 0
		switch {
		case errors.Is(err, ErrUnauthorized):
			code = fiber.StatusUnauthorized
		case errors.Is(err, ErrForbidden):
			code = fiber.StatusForbidden
		case errors.Is(err, ErrNotFound):
			code = fiber.StatusNotFound
		case errors.Is(err, ErrConflict):
			code = fiber.StatusConflict
		}
		if code != 0 {
			return c.Status(code).JSON(fiber.Map{"error": clientMessage(err)})
		}

		log.Errorw("unhandled error",
			"method", c.Method(),
			"path", c.Path(),
			"err", err,
		)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "internal server error",
		})
	}
}

// clientMessage picks the outermost statusError message so that wrapping
// context added for logs stays out of responses.
func clientMessage(err error) string {
	var se *statusError
	if errors.As(err, &se) {
		return se.msg
	}
	switch {
	case errors.Is(err, ErrUnauthorized):
		return "unauthorized"
	case errors.Is(err, ErrForbidden):
		return "forbidden"
	case errors.Is(err, ErrNotFound):
		return "not found"
	default:
		return "conflict"
	}
}
