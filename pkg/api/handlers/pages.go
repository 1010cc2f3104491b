package handlers

import (
	stderrors "errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/thecloudsteward/proposals/pkg/api/errors"
	"github.com/thecloudsteward/proposals/pkg/metrics"
	"github.com/thecloudsteward/proposals/pkg/pages"
)

// PageHandler serves client-facing proposal pages
type PageHandler struct {
	store   *pages.Store
	metrics *metrics.Metrics
}

// NewPageHandler creates a new page handler
func NewPageHandler(store *pages.Store, m *metrics.Metrics) *PageHandler {
	return &PageHandler{
		store:   store,
		metrics: m,
	}
}

// GetPage returns the proposal record for a slug. Expired pages are
// indistinguishable from missing ones.
func (h *PageHandler) GetPage(c echo.Context) error {
	rec, err := h.store.Get(c.Request().Context(), c.Param("slug"))
	if err != nil {
		if stderrors.Is(err, pages.ErrNotFound) {
			return errors.NotFound(c)
		}
		return errors.Internal(c, err)
	}

	h.metrics.RecordPageServed()
	return c.JSON(http.StatusOK, rec)
}
