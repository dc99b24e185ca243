package router_test

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/lumenlearn/objecthub/internal/domain"
	"github.com/lumenlearn/objecthub/internal/library"
	"github.com/lumenlearn/objecthub/internal/router"
	"github.com/lumenlearn/objecthub/internal/storage/in_mem"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestServer(t *testing.T, releasedCount int) *echo.Echo {
	t.Helper()
	records := in_mem.NewStore()
	author := domain.Author{ID: uuid.New(), Username: "mcurie", Name: "Marie Curie"}
	for i := 0; i < releasedCount; i++ {
		records.SeedReleased(domain.ReleasedRecord{
			ID:         uuid.New(),
			Cuid:       fmt.Sprintf("lesson-%02d", i),
			Author:     author,
			Name:       fmt.Sprintf("Radioactivity Lesson %02d", i),
			Collection: "physics",
			ReleasedAt: time.Now().UTC(),
			UpdatedAt:  time.Now().UTC(),
		})
	}
	svc := library.NewService(records, in_mem.NewOutcomeStore(), in_mem.NewChangelogStore())

	e := echo.New()
	router.NewObjectRouter(e, svc).Bind()
	return e
}

func doSearch(t *testing.T, e *echo.Echo, target string) library.SearchResult {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, target, nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var res library.SearchResult
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &res))
	return res
}

func TestSearchHandler_OmittedLimitReturnsFullSet(t *testing.T) {
	// more seeded objects than any default page size would cover
	e := newTestServer(t, 25)

	res := doSearch(t, e, "/learning-objects")

	assert.Equal(t, 25, res.Total)
	assert.Len(t, res.Objects, 25)
}

func TestSearchHandler_ExplicitLimitPages(t *testing.T) {
	e := newTestServer(t, 25)

	res := doSearch(t, e, "/learning-objects?page=2&limit=10")

	assert.Equal(t, 25, res.Total)
	assert.Len(t, res.Objects, 10)
}
