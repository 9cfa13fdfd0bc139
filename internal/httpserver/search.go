package httpserver

import (
	"net/http"
	"strconv"

	"github.com/elastic/go-elasticsearch/v9"
	"github.com/labstack/echo/v4"

	"github.com/pulsebrief/newsletter-api/internal/service/search"
)

type SearchHandler struct {
	ES    *elasticsearch.Client
	Index string
}

func (h *SearchHandler) Search(c echo.Context) error {
	if h.ES == nil {
		return apiError(http.StatusServiceUnavailable, "service_unavailable", "Content search is not configured")
	}
	query := c.QueryParam("q")
	if query == "" {
		return apiError(http.StatusUnprocessableEntity, CodeValidationError, "Query parameter q is required")
	}
	from := queryInt(c, "from", 0)
	size := queryInt(c, "size", 20)

	total, items, err := search.Search(c.Request().Context(), h.ES, h.Index, query, from, size)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, echo.Map{
		"total": total,
		"items": items,
	})
}

func queryInt(c echo.Context, name string, def int) int {
	v := c.QueryParam(name)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil || n < 0 {
		return def
	}
	return n
}
