package handlers

import (
	stderrors "errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/thecloudsteward/proposals/pkg/api/errors"
	"github.com/thecloudsteward/proposals/pkg/pages"
)

// AdminHandler manages proposal records. Routes using it are guarded by
// the admin token middleware.
type AdminHandler struct {
	store *pages.Store
}

// NewAdminHandler creates a new admin handler
func NewAdminHandler(store *pages.Store) *AdminHandler {
	return &AdminHandler{store: store}
}

// CreatePage creates a proposal record. The slug is assigned on save
// when the request leaves it blank.
func (h *AdminHandler) CreatePage(c echo.Context) error {
	var rec pages.ProposalRecord
	if err := c.Bind(&rec); err != nil {
		return errors.ValidationError(c, err)
	}

	if err := h.store.Save(c.Request().Context(), &rec); err != nil {
		return errors.Internal(c, err)
	}

	return c.JSON(http.StatusCreated, rec)
}

// UpdatePage applies changes to an existing record. The slug in the
// path wins over any slug in the body; slugs are immutable.
func (h *AdminHandler) UpdatePage(c echo.Context) error {
	slug := c.Param("slug")

	rec, err := h.store.GetAny(c.Request().Context(), slug)
	if err != nil {
		if stderrors.Is(err, pages.ErrNotFound) {
			return errors.NotFound(c)
		}
		return errors.Internal(c, err)
	}

	if err := c.Bind(rec); err != nil {
		return errors.ValidationError(c, err)
	}
	rec.Slug = slug

	if err := h.store.Save(c.Request().Context(), rec); err != nil {
		return errors.Internal(c, err)
	}

	return c.JSON(http.StatusOK, rec)
}

// DeletePage removes a record.
func (h *AdminHandler) DeletePage(c echo.Context) error {
	if err := h.store.Delete(c.Request().Context(), c.Param("slug")); err != nil {
		return errors.Internal(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}
