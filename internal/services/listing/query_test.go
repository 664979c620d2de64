package listing

import (
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func sp(s string) *string { return &s }

func normalize(q string) string {
	return strings.Join(strings.Fields(q), " ")
}

func TestBuildListQuery_NoFilters(t *testing.T) {
	q, args := buildListQuery(Filter{Limit: 20})
	q = normalize(q)

	assert.NotContains(t, q, "WHERE")
	assert.True(t, strings.HasSuffix(q, "ORDER BY l.is_promoted DESC, l.created_at DESC LIMIT $1 OFFSET $2"))
	assert.Equal(t, []any{20, 0}, args)
}

func TestBuildListQuery_AllFilters(t *testing.T) {
	cat := uuid.New()
	q, args := buildListQuery(Filter{
		CategoryID: &cat,
		UserID:     sp("tg_1"),
		Status:     sp("active"),
		Search:     "chair",
		Limit:      10,
		Offset:     30,
	})
	q = normalize(q)

	assert.Contains(t, q, "WHERE l.category_id = $1 AND l.user_id = $2 AND l.status = $3 AND (l.title LIKE $4 OR l.description LIKE $4)")
	assert.Contains(t, q, "LIMIT $5 OFFSET $6")
	assert.Equal(t, []any{cat, "tg_1", "active", "%chair%", 10, 30}, args)
}

func TestBuildListQuery_StatusOnly(t *testing.T) {
	q, args := buildListQuery(Filter{Status: sp("suspended"), Limit: 5})
	assert.Contains(t, normalize(q), "WHERE l.status = $1 ORDER BY")
	assert.Equal(t, []any{"suspended", 5, 0}, args)
}

func TestBuildListQuery_JoinsUserAndCategory(t *testing.T) {
	q, _ := buildListQuery(Filter{Limit: 1})
	q = normalize(q)
	assert.Contains(t, q, "JOIN users u ON u.id = l.user_id")
	assert.Contains(t, q, "JOIN categories c ON c.id = l.category_id")
}

func TestEscapeLike(t *testing.T) {
	assert.Equal(t, `100\% cotton`, escapeLike("100% cotton"))
	assert.Equal(t, `a\_b`, escapeLike("a_b"))
	assert.Equal(t, `c:\\dir`, escapeLike(`c:\dir`))
	assert.Equal(t, "chair", escapeLike("chair"))
}
