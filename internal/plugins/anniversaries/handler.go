package anniversaries

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/keyxmakerx/kinenbi/internal/apperror"
	"github.com/keyxmakerx/kinenbi/internal/datecalc"
)

// defaultUpcomingDays is the window used when ?within= is absent.
const defaultUpcomingDays = 30

// Handler processes HTTP requests for the anniversaries plugin.
type Handler struct {
	svc  AnniversaryService
	calc *datecalc.Calc
}

// NewHandler creates a new anniversaries Handler.
func NewHandler(svc AnniversaryService, calc *datecalc.Calc) *Handler {
	return &Handler{svc: svc, calc: calc}
}

func parseID(c echo.Context) (int64, error) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, apperror.NewBadRequest("invalid anniversary id")
	}
	return id, nil
}

// --- Collections ---

// ListCollections returns every collection.
// GET /api/v1/collections
func (h *Handler) ListCollections(c echo.Context) error {
	cols, err := h.svc.ListCollections(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, cols)
}

// CreateCollection creates a collection.
// POST /api/v1/collections
func (h *Handler) CreateCollection(c echo.Context) error {
	var req CollectionInput
	if err := c.Bind(&req); err != nil {
		return apperror.NewBadRequest("invalid request body")
	}
	col, err := h.svc.CreateCollection(c.Request().Context(), req)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, col)
}

// GetCollection returns one collection.
// GET /api/v1/collections/:id
func (h *Handler) GetCollection(c echo.Context) error {
	col, err := h.svc.GetCollection(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, col)
}

// UpdateCollection edits a collection.
// PUT /api/v1/collections/:id
func (h *Handler) UpdateCollection(c echo.Context) error {
	var req CollectionInput
	if err := c.Bind(&req); err != nil {
		return apperror.NewBadRequest("invalid request body")
	}
	col, err := h.svc.UpdateCollection(c.Request().Context(), c.Param("id"), req)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, col)
}

// DeleteCollection removes a collection and its anniversaries.
// DELETE /api/v1/collections/:id
func (h *Handler) DeleteCollection(c echo.Context) error {
	if err := h.svc.DeleteCollection(c.Request().Context(), c.Param("id")); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

// ListByCollection returns a collection's decorated anniversaries.
// GET /api/v1/collections/:id/anniversaries
func (h *Handler) ListByCollection(c echo.Context) error {
	entries, err := h.svc.ListByCollection(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, entries)
}

// --- Anniversaries ---

// Create adds an anniversary.
// POST /api/v1/anniversaries
func (h *Handler) Create(c echo.Context) error {
	var req AnniversaryInput
	if err := c.Bind(&req); err != nil {
		return apperror.NewBadRequest("invalid request body")
	}
	a, err := h.svc.Create(c.Request().Context(), req)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, a)
}

// Get returns one decorated anniversary.
// GET /api/v1/anniversaries/:id
func (h *Handler) Get(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}
	e, err := h.svc.Get(c.Request().Context(), id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, e)
}

// Update edits an anniversary.
// PUT /api/v1/anniversaries/:id
func (h *Handler) Update(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}
	var req AnniversaryInput
	if err := c.Bind(&req); err != nil {
		return apperror.NewBadRequest("invalid request body")
	}
	a, err := h.svc.Update(c.Request().Context(), id, req)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, a)
}

// Delete removes an anniversary.
// DELETE /api/v1/anniversaries/:id
func (h *Handler) Delete(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}
	if err := h.svc.Delete(c.Request().Context(), id); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

// --- Views ---

// Dashboard returns visible collections with decorated entries.
// GET /api/v1/dashboard
func (h *Handler) Dashboard(c echo.Context) error {
	resp, err := h.svc.Dashboard(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, resp)
}

// Upcoming returns anniversaries due soon.
// GET /api/v1/upcoming?within=30
func (h *Handler) Upcoming(c echo.Context) error {
	within := defaultUpcomingDays
	if q := c.QueryParam("within"); q != "" {
		v, err := strconv.Atoi(q)
		if err != nil {
			return apperror.NewBadRequest("within must be a number")
		}
		within = v
	}
	entries, err := h.svc.Upcoming(c.Request().Context(), within)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, UpcomingResponse{Within: within, Entries: entries})
}

// ExportICS serves visible anniversaries as a subscribable calendar feed.
// GET /api/v1/anniversaries.ics
func (h *Handler) ExportICS(c echo.Context) error {
	list, err := h.svc.Visible(c.Request().Context())
	if err != nil {
		return err
	}
	resp := c.Response()
	resp.Header().Set(echo.HeaderContentType, "text/calendar; charset=utf-8")
	resp.WriteHeader(http.StatusOK)
	return WriteICS(resp, list, h.calc.Now())
}
