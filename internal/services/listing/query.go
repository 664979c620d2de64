package listing

import (
	"strconv"
	"strings"

	"github.com/google/uuid"
)

// Filter narrows a listing page. Nil fields are not filtered on.
type Filter struct {
	CategoryID *uuid.UUID
	UserID     *string
	Search     string
	Status     *string
	Limit      int
	Offset     int
}

const listingColumns = `
	l.id, l.user_id, l.category_id, l.title, l.description, l.price::float8, l.price_type,
	l.location, l.images, l.status, l.is_promoted, l.view_count, l.created_at, l.updated_at,
	u.id, u.first_name, u.last_name, u.profile_image_url, u.is_verified,
	c.id, c.name, c.slug, c.icon, c.color`

const listingJoins = `
	JOIN users u ON u.id = l.user_id
	JOIN categories c ON c.id = l.category_id`

// buildListQuery assembles the page query. Conditions are ANDed; search
// matches title OR description as a literal, case-sensitive substring.
func buildListQuery(f Filter) (string, []any) {
	var (
		where []string
		args  []any
	)
	arg := func(v any) string {
		args = append(args, v)
		return "$" + strconv.Itoa(len(args))
	}

	if f.CategoryID != nil {
		where = append(where, "l.category_id = "+arg(*f.CategoryID))
	}
	if f.UserID != nil {
		where = append(where, "l.user_id = "+arg(*f.UserID))
	}
	if f.Status != nil {
		where = append(where, "l.status = "+arg(*f.Status))
	}
	if f.Search != "" {
		p := arg("%" + escapeLike(f.Search) + "%")
		where = append(where, "(l.title LIKE "+p+" OR l.description LIKE "+p+")")
	}

	var b strings.Builder
	b.WriteString("SELECT")
	b.WriteString(listingColumns)
	b.WriteString("\n\tFROM listings l")
	b.WriteString(listingJoins)
	if len(where) > 0 {
		b.WriteString("\n\tWHERE ")
		b.WriteString(strings.Join(where, " AND "))
	}
	b.WriteString("\n\tORDER BY l.is_promoted DESC, l.created_at DESC")
	b.WriteString("\n\tLIMIT " + arg(f.Limit) + " OFFSET " + arg(f.Offset))
	return b.String(), args
}

// escapeLike makes %, _ and the escape character itself match literally.
func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}
