// Package router binds the learning object API onto the Echo server.
package router

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/lumenlearn/objecthub/internal/auth"
	"github.com/lumenlearn/objecthub/internal/domain"
	"github.com/lumenlearn/objecthub/internal/library"
	"github.com/lumenlearn/objecthub/internal/query"
	"github.com/lumenlearn/objecthub/pkg/pagination"
)

type ObjectRouter struct {
	e       *echo.Echo
	service *library.Service
}

func NewObjectRouter(e *echo.Echo, service *library.Service) *ObjectRouter {
	return &ObjectRouter{
		e:       e,
		service: service,
	}
}

func (r *ObjectRouter) Bind() {
	r.e.GET("/learning-objects", r.searchHandler)
	r.e.POST("/learning-objects", r.createHandler)
	r.e.GET("/learning-objects/:cuid", r.getHandler)
	r.e.PATCH("/learning-objects/:key", r.updateHandler)
	r.e.DELETE("/learning-objects/:key", r.deleteHandler)
	r.e.GET("/learning-objects/:cuid/changelog", r.changelogHandler)
}

// searchHandler godoc
// @Summary Search learning objects
// @Description Searches the working and released record sets and returns one reconciled summary per object
// @Tags learning-objects
// @Produce json
// @Param text query string false "free text query; presence selects text search even when empty"
// @Param name query string false "filter by name"
// @Param author query string false "filter by author username or display name"
// @Param status query []string false "filter by status" collectionFormat(multi)
// @Param length query []string false "filter by length" collectionFormat(multi)
// @Param level query []string false "filter by level" collectionFormat(multi)
// @Param collection query string false "filter by collection tag"
// @Param standardOutcomes query []string false "filter by standard outcome ids" collectionFormat(multi)
// @Param releasedOnly query bool false "exclude download-restricted objects"
// @Param page query int false "page number, 1-based"
// @Param limit query int false "page size; omitted or 0 returns the full matching set"
// @Param orderBy query string false "sort field for field searches" Enums(name, date, length, collection, status)
// @Param sortType query string false "sort direction" Enums(asc, desc)
// @Success 200 {object} library.SearchResult
// @Failure 400 {object} map[string]string
// @Router /learning-objects [get]
func (r *ObjectRouter) searchHandler(c echo.Context) error {
	params := c.QueryParams()

	filter := query.Filter{
		Name:               c.QueryParam("name"),
		Author:             c.QueryParam("author"),
		Statuses:           multiParam(params, "status"),
		Lengths:            multiParam(params, "length"),
		Levels:             multiParam(params, "level"),
		Collection:         c.QueryParam("collection"),
		StandardOutcomeIDs: multiParam(params, "standardOutcomes"),
		ReleasedOnly:       c.QueryParam("releasedOnly") == "true",
	}
	// presence of the text parameter selects text search, even when the
	// value is empty
	if params.Has("text") {
		text := c.QueryParam("text")
		filter.Text = &text
	}

	var pageReq pagination.OffsetRequest
	if err := (&echo.DefaultBinder{}).BindQueryParams(c, &pageReq); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid pagination parameters")
	}
	pageReq.Validate()
	page := library.Page{
		Number: pageReq.Page,
		Limit:  pageReq.Size,
	}
	sortOpt := library.SortOption{
		OrderBy: c.QueryParam("orderBy"),
		Desc:    c.QueryParam("sortType") == "desc",
	}

	result, err := r.service.Search(c.Request().Context(), filter, auth.RequesterFrom(c), page, sortOpt)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, result)
}

// getHandler godoc
// @Summary Get one learning object
// @Tags learning-objects
// @Produce json
// @Param cuid path string true "object identity"
// @Success 200 {object} domain.Summary
// @Failure 404 {object} map[string]string
// @Router /learning-objects/{cuid} [get]
func (r *ObjectRouter) getHandler(c echo.Context) error {
	summary, err := r.service.GetByCuid(c.Request().Context(), c.Param("cuid"), auth.RequesterFrom(c))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, summary)
}

type createRequest struct {
	Name        string            `json:"name"`
	Description string            `json:"description"`
	Collection  string            `json:"collection"`
	Length      string            `json:"length"`
	Levels      []string          `json:"levels"`
	Materials   []domain.Material `json:"materials"`
}

// createHandler godoc
// @Summary Author a new learning object
// @Tags learning-objects
// @Accept json
// @Produce json
// @Param object body createRequest true "object payload"
// @Success 201 {object} domain.WorkingRecord
// @Failure 400 {object} map[string]string
// @Failure 403 {object} map[string]string
// @Router /learning-objects [post]
func (r *ObjectRouter) createHandler(c echo.Context) error {
	var req createRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	rec, err := r.service.Create(c.Request().Context(), auth.RequesterFrom(c), library.CreateInput{
		Name:        req.Name,
		Description: req.Description,
		Collection:  req.Collection,
		Length:      req.Length,
		Levels:      req.Levels,
		Materials:   req.Materials,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, rec)
}

type updateRequest struct {
	Name        *string            `json:"name"`
	Description *string            `json:"description"`
	Length      *string            `json:"length"`
	Levels      *[]string          `json:"levels"`
	Materials   *[]domain.Material `json:"materials"`
}

// updateHandler godoc
// @Summary Update a working copy
// @Description Mutates the working record only; the released snapshot is untouched
// @Tags learning-objects
// @Accept json
// @Produce json
// @Param key path string true "record id or name"
// @Param object body updateRequest true "fields to change"
// @Success 200 {object} domain.WorkingRecord
// @Failure 403 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /learning-objects/{key} [patch]
func (r *ObjectRouter) updateHandler(c echo.Context) error {
	var req updateRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	rec, err := r.service.Update(c.Request().Context(), auth.RequesterFrom(c), c.Param("key"), library.UpdateInput{
		Name:        req.Name,
		Description: req.Description,
		Length:      req.Length,
		Levels:      req.Levels,
		Materials:   req.Materials,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, rec)
}

// deleteHandler godoc
// @Summary Delete a working copy
// @Description Removes the working record, its outcomes, and its changelog; released snapshots are immutable
// @Tags learning-objects
// @Param key path string true "record id or name"
// @Success 204
// @Failure 403 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /learning-objects/{key} [delete]
func (r *ObjectRouter) deleteHandler(c echo.Context) error {
	if err := r.service.Delete(c.Request().Context(), auth.RequesterFrom(c), c.Param("key")); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

// changelogHandler godoc
// @Summary Read the change history of an object
// @Tags learning-objects
// @Produce json
// @Param cuid path string true "object identity"
// @Success 200 {array} domain.ChangelogEntry
// @Failure 403 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /learning-objects/{cuid}/changelog [get]
func (r *ObjectRouter) changelogHandler(c echo.Context) error {
	entries, err := r.service.Changelog(c.Request().Context(), auth.RequesterFrom(c), c.Param("cuid"))
	if err != nil {
		return err
	}
	if entries == nil {
		entries = []domain.ChangelogEntry{}
	}
	return c.JSON(http.StatusOK, entries)
}

// multiParam collects a repeated query parameter, additionally
// splitting comma-separated values.
func multiParam(params map[string][]string, name string) []string {
	var out []string
	for _, raw := range params[name] {
		for _, v := range strings.Split(raw, ",") {
			if v = strings.TrimSpace(v); v != "" {
				out = append(out, v)
			}
		}
	}
	return out
}
