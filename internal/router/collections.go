package router

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/lumenlearn/objecthub/internal/collections"
)

type CollectionRouter struct {
	e        *echo.Echo
	registry *collections.Registry
}

func NewCollectionRouter(e *echo.Echo, registry *collections.Registry) *CollectionRouter {
	return &CollectionRouter{
		e:        e,
		registry: registry,
	}
}

func (r *CollectionRouter) Bind() {
	r.e.GET("/collections", r.listHandler)
	r.e.GET("/collections/:tag", r.getHandler)
}

// listHandler godoc
// @Summary List editorial collections
// @Tags collections
// @Produce json
// @Success 200 {array} domain.Collection
// @Router /collections [get]
func (r *CollectionRouter) listHandler(c echo.Context) error {
	return c.JSON(http.StatusOK, r.registry.All())
}

// getHandler godoc
// @Summary Get one collection by tag
// @Tags collections
// @Produce json
// @Param tag path string true "collection tag"
// @Success 200 {object} domain.Collection
// @Failure 404 {object} map[string]string
// @Router /collections/{tag} [get]
func (r *CollectionRouter) getHandler(c echo.Context) error {
	collection, ok := r.registry.Get(c.Param("tag"))
	if !ok {
		return echo.NewHTTPError(http.StatusNotFound, "collection not found")
	}
	return c.JSON(http.StatusOK, collection)
}
