package anniversaries

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/keyxmakerx/kinenbi/internal/apperror"
)

// stubService overrides only what a test needs; anything else panics
// through the nil embedded interface.
type stubService struct {
	AnniversaryService
	createFn   func(ctx context.Context, input AnniversaryInput) (*Anniversary, error)
	upcomingFn func(ctx context.Context, within int) ([]Entry, error)
	visibleFn  func(ctx context.Context) ([]Anniversary, error)
}

func (s *stubService) Create(ctx context.Context, input AnniversaryInput) (*Anniversary, error) {
	return s.createFn(ctx, input)
}

func (s *stubService) Upcoming(ctx context.Context, within int) ([]Entry, error) {
	return s.upcomingFn(ctx, within)
}

func (s *stubService) Visible(ctx context.Context) ([]Anniversary, error) {
	return s.visibleFn(ctx)
}

func newRouter(svc AnniversaryService) *echo.Echo {
	e := echo.New()
	e.HTTPErrorHandler = func(err error, c echo.Context) {
		_ = c.JSON(apperror.SafeCode(err), map[string]string{"message": apperror.SafeMessage(err)})
	}
	RegisterRoutes(e.Group("/api/v1"), NewHandler(svc, testCalc()))
	return e
}

func serve(e *echo.Echo, method, target, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	if body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func TestHandler_Create(t *testing.T) {
	var got AnniversaryInput
	svc := &stubService{createFn: func(ctx context.Context, input AnniversaryInput) (*Anniversary, error) {
		got = input
		return &Anniversary{ID: 9, CollectionID: input.CollectionID, Name: input.Name, Date: input.Date}, nil
	}}

	rec := serve(newRouter(svc), http.MethodPost, "/api/v1/anniversaries",
		`{"collection_id":"c1","name":"誕生日","date":"1990-12-25"}`)
	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}
	if got.CollectionID != "c1" || got.Name != "誕生日" || got.Date != "1990-12-25" {
		t.Errorf("service received %+v", got)
	}

	var a Anniversary
	if err := json.Unmarshal(rec.Body.Bytes(), &a); err != nil {
		t.Fatalf("decoding: %v", err)
	}
	if a.ID != 9 {
		t.Errorf("body = %+v", a)
	}
}

func TestHandler_CreateValidationError(t *testing.T) {
	svc := &stubService{createFn: func(ctx context.Context, input AnniversaryInput) (*Anniversary, error) {
		return nil, apperror.NewValidation("date must be a valid YYYY-MM-DD date")
	}}
	rec := serve(newRouter(svc), http.MethodPost, "/api/v1/anniversaries", `{"name":"x","date":"bad"}`)
	if rec.Code != http.StatusUnprocessableEntity {
		t.Errorf("status = %d", rec.Code)
	}
}

func TestHandler_InvalidID(t *testing.T) {
	rec := serve(newRouter(&stubService{}), http.MethodGet, "/api/v1/anniversaries/abc", "")
	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d", rec.Code)
	}
}

func TestHandler_Upcoming(t *testing.T) {
	var asked int
	svc := &stubService{upcomingFn: func(ctx context.Context, within int) ([]Entry, error) {
		asked = within
		return []Entry{}, nil
	}}
	e := newRouter(svc)

	rec := serve(e, http.MethodGet, "/api/v1/upcoming", "")
	if rec.Code != http.StatusOK || asked != defaultUpcomingDays {
		t.Errorf("status = %d, within = %d", rec.Code, asked)
	}

	rec = serve(e, http.MethodGet, "/api/v1/upcoming?within=7", "")
	if rec.Code != http.StatusOK || asked != 7 {
		t.Errorf("status = %d, within = %d", rec.Code, asked)
	}
	var body UpcomingResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decoding: %v", err)
	}
	if body.Within != 7 || body.Entries == nil {
		t.Errorf("body = %+v", body)
	}

	rec = serve(e, http.MethodGet, "/api/v1/upcoming?within=soon", "")
	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d", rec.Code)
	}
}

func TestHandler_ExportICS(t *testing.T) {
	svc := &stubService{visibleFn: func(ctx context.Context) ([]Anniversary, error) {
		return []Anniversary{{ID: 1, Name: "結婚記念日", Date: "2020-11-04"}}, nil
	}}
	rec := serve(newRouter(svc), http.MethodGet, "/api/v1/anniversaries.ics", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if ct := rec.Header().Get(echo.HeaderContentType); !strings.HasPrefix(ct, "text/calendar") {
		t.Errorf("content type = %q", ct)
	}
	if !strings.Contains(rec.Body.String(), "SUMMARY:結婚記念日") {
		t.Errorf("body = %s", rec.Body.String())
	}
}
