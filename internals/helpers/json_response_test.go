package helper

import (
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func resolveOn(t *testing.T, target string, defaultPerPage, maxPerPage int) Paging {
	t.Helper()
	app := fiber.New()

	var got Paging
	app.Get("/items", func(c *fiber.Ctx) error {
		got = ResolvePaging(c, defaultPerPage, maxPerPage)
		return c.SendStatus(fiber.StatusOK)
	})

	resp, err := app.Test(httptest.NewRequest("GET", target, nil))
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	return got
}

func TestResolvePaging(t *testing.T) {
	t.Run("default", func(t *testing.T) {
		p := resolveOn(t, "/items", 20, 100)
		assert.Equal(t, Paging{Page: 1, PerPage: 20, Offset: 0, Limit: 20}, p)
	})

	t.Run("page dan per_page", func(t *testing.T) {
		p := resolveOn(t, "/items?page=3&per_page=10", 20, 100)
		assert.Equal(t, Paging{Page: 3, PerPage: 10, Offset: 20, Limit: 10}, p)
	})

	t.Run("alias limit", func(t *testing.T) {
		p := resolveOn(t, "/items?limit=5", 20, 100)
		assert.Equal(t, 5, p.PerPage)
	})

	t.Run("dibatasi maxPerPage", func(t *testing.T) {
		p := resolveOn(t, "/items?per_page=9999", 20, 100)
		assert.Equal(t, 100, p.PerPage)
	})

	t.Run("input ngawur → fallback", func(t *testing.T) {
		p := resolveOn(t, "/items?page=-2&per_page=abc", 20, 100)
		assert.Equal(t, 1, p.Page)
		assert.Equal(t, 20, p.PerPage)
	})
}

func TestBuildPaginationFromPage(t *testing.T) {
	p := BuildPaginationFromPage(45, 2, 20)
	assert.Equal(t, 3, p.TotalPages)
	assert.True(t, p.HasNext)
	assert.True(t, p.HasPrev)

	last := BuildPaginationFromPage(45, 3, 20)
	assert.False(t, last.HasNext)

	empty := BuildPaginationFromPage(0, 1, 20)
	assert.Equal(t, 1, empty.TotalPages)
	assert.False(t, empty.HasNext)
	assert.False(t, empty.HasPrev)
}

func TestStatusToErrorCode(t *testing.T) {
	assert.Equal(t, "GONE", statusToErrorCode(fiber.StatusGone))
	assert.Equal(t, "NOT_FOUND", statusToErrorCode(fiber.StatusNotFound))
	assert.Equal(t, "BAD_REQUEST", statusToErrorCode(fiber.StatusBadRequest))
	assert.Equal(t, "VALIDATION_ERROR", statusToErrorCode(fiber.StatusUnprocessableEntity))
	assert.Equal(t, "INTERNAL_ERROR", statusToErrorCode(fiber.StatusBadGateway))
}
