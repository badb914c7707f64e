package holidays

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/keyxmakerx/kinenbi/internal/apperror"
	"github.com/keyxmakerx/kinenbi/internal/datecalc"
)

// --- Mocks ---

// mockHolidayRepo implements HolidayRepository for testing.
type mockHolidayRepo struct {
	replaceAllFn func(ctx context.Context, holidays []Holiday) error
	listRangeFn  func(ctx context.Context, from, to string) ([]Holiday, error)
	countFn      func(ctx context.Context) (int, error)
}

func (m *mockHolidayRepo) ReplaceAll(ctx context.Context, holidays []Holiday) error {
	if m.replaceAllFn != nil {
		return m.replaceAllFn(ctx, holidays)
	}
	return nil
}

func (m *mockHolidayRepo) ListRange(ctx context.Context, from, to string) ([]Holiday, error) {
	if m.listRangeFn != nil {
		return m.listRangeFn(ctx, from, to)
	}
	return nil, nil
}

func (m *mockHolidayRepo) Count(ctx context.Context) (int, error) {
	if m.countFn != nil {
		return m.countFn(ctx)
	}
	return 0, nil
}

// mockHolidayCache implements HolidayCache with an in-memory map.
type mockHolidayCache struct {
	years       map[int][]Holiday
	getErr      error
	invalidated int
}

func (m *mockHolidayCache) GetYear(ctx context.Context, year int) ([]Holiday, bool, error) {
	if m.getErr != nil {
		return nil, false, m.getErr
	}
	list, ok := m.years[year]
	return list, ok, nil
}

func (m *mockHolidayCache) SetYear(ctx context.Context, year int, holidays []Holiday) error {
	if m.years == nil {
		m.years = map[int][]Holiday{}
	}
	m.years[year] = holidays
	return nil
}

func (m *mockHolidayCache) Invalidate(ctx context.Context) error {
	m.invalidated++
	m.years = nil
	return nil
}

// --- Test Helpers ---

// assertAppError checks that err is an *apperror.AppError with the expected code.
func assertAppError(t *testing.T, err error, expectedCode int) {
	t.Helper()
	if err == nil {
		t.Fatalf("expected error with code %d, got nil", expectedCode)
	}
	var appErr *apperror.AppError
	if !errors.As(err, &appErr) {
		t.Fatalf("expected *apperror.AppError, got %T: %v", err, err)
	}
	if appErr.Code != expectedCode {
		t.Errorf("expected status %d, got %d (message: %s)", expectedCode, appErr.Code, appErr.Message)
	}
}

// --- Import Tests ---

func TestImport_Success(t *testing.T) {
	var stored []Holiday
	repo := &mockHolidayRepo{
		replaceAllFn: func(ctx context.Context, holidays []Holiday) error {
			stored = holidays
			return nil
		},
	}
	cache := &mockHolidayCache{years: map[int][]Holiday{2025: {}}}
	svc := NewHolidayService(repo, cache)

	n, err := svc.Import(context.Background(), []Holiday{
		{Date: "2025-01-01", Name: "元日"},
		{Date: "2025-01-13", Name: "成人の日"},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if n != 2 || len(stored) != 2 {
		t.Errorf("imported %d, stored %d", n, len(stored))
	}
	if cache.invalidated != 1 {
		t.Errorf("cache invalidated %d times, want 1", cache.invalidated)
	}
}

func TestImport_Empty(t *testing.T) {
	svc := NewHolidayService(&mockHolidayRepo{}, nil)
	_, err := svc.Import(context.Background(), nil)
	assertAppError(t, err, http.StatusUnprocessableEntity)
}

func TestImport_InvalidDateRejectsAll(t *testing.T) {
	repo := &mockHolidayRepo{
		replaceAllFn: func(ctx context.Context, holidays []Holiday) error {
			t.Error("repository should not be called")
			return nil
		},
	}
	svc := NewHolidayService(repo, nil)
	_, err := svc.Import(context.Background(), []Holiday{
		{Date: "2025-01-01", Name: "元日"},
		{Date: "2025-02-30", Name: "bogus"},
	})
	assertAppError(t, err, http.StatusUnprocessableEntity)
}

func TestImport_MissingName(t *testing.T) {
	svc := NewHolidayService(&mockHolidayRepo{}, nil)
	_, err := svc.Import(context.Background(), []Holiday{{Date: "2025-01-01"}})
	assertAppError(t, err, http.StatusUnprocessableEntity)
}

func TestImport_RepoError(t *testing.T) {
	boom := errors.New("deadlock")
	repo := &mockHolidayRepo{
		replaceAllFn: func(ctx context.Context, holidays []Holiday) error { return boom },
	}
	svc := NewHolidayService(repo, nil)
	_, err := svc.Import(context.Background(), []Holiday{{Date: "2025-01-01", Name: "元日"}})
	if !errors.Is(err, boom) {
		t.Fatalf("expected wrapped repo error, got %v", err)
	}
}

// --- ListForYear Tests ---

func TestListForYear_MissThenHit(t *testing.T) {
	queries := 0
	repo := &mockHolidayRepo{
		listRangeFn: func(ctx context.Context, from, to string) ([]Holiday, error) {
			queries++
			if from != "2025-01-01" || to != "2025-12-31" {
				t.Errorf("range = %s..%s", from, to)
			}
			return []Holiday{{Date: "2025-01-01", Name: "元日"}}, nil
		},
	}
	svc := NewHolidayService(repo, &mockHolidayCache{})

	for i := 0; i < 3; i++ {
		list, err := svc.ListForYear(context.Background(), 2025)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(list) != 1 {
			t.Fatalf("got %+v", list)
		}
	}
	if queries != 1 {
		t.Errorf("repository queried %d times, want 1", queries)
	}
}

func TestListForYear_CacheErrorFallsBackToDB(t *testing.T) {
	repo := &mockHolidayRepo{
		listRangeFn: func(ctx context.Context, from, to string) ([]Holiday, error) {
			return []Holiday{{Date: "2025-05-05", Name: "こどもの日"}}, nil
		},
	}
	svc := NewHolidayService(repo, &mockHolidayCache{getErr: errors.New("redis down")})

	list, err := svc.ListForYear(context.Background(), 2025)
	if err != nil {
		t.Fatalf("cache failures must not surface: %v", err)
	}
	if len(list) != 1 {
		t.Errorf("got %+v", list)
	}
}

func TestListForYear_EmptyYearIsEmptySlice(t *testing.T) {
	svc := NewHolidayService(&mockHolidayRepo{}, nil)
	list, err := svc.ListForYear(context.Background(), 1800)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if list == nil || len(list) != 0 {
		t.Errorf("got %#v, want empty non-nil slice", list)
	}
}

func TestListForYear_OutOfRange(t *testing.T) {
	svc := NewHolidayService(&mockHolidayRepo{}, nil)
	_, err := svc.ListForYear(context.Background(), 0)
	assertAppError(t, err, http.StatusUnprocessableEntity)
	_, err = svc.ListForYear(context.Background(), 10000)
	assertAppError(t, err, http.StatusUnprocessableEntity)
}

// --- ListForRange Tests ---

func TestListForRange_SpansYears(t *testing.T) {
	byYear := map[string][]Holiday{
		"2024-01-01": {{Date: "2024-12-23", Name: "early"}, {Date: "2024-12-31", Name: "大晦日"}},
		"2025-01-01": {{Date: "2025-01-01", Name: "元日"}, {Date: "2025-02-11", Name: "建国記念の日"}},
	}
	repo := &mockHolidayRepo{
		listRangeFn: func(ctx context.Context, from, to string) ([]Holiday, error) {
			return byYear[from], nil
		},
	}
	svc := NewHolidayService(repo, nil)

	first, last := datecalc.GridRange(2025, 1) // 2024-12-29 .. 2025-02-08
	got, err := svc.ListForRange(context.Background(), first, last)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := []Holiday{{Date: "2024-12-31", Name: "大晦日"}, {Date: "2025-01-01", Name: "元日"}}
	if len(got) != len(want) {
		t.Fatalf("got %+v", got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("%d: got %+v, want %+v", i, got[i], want[i])
		}
	}
}

func TestListForRange_Inverted(t *testing.T) {
	svc := NewHolidayService(&mockHolidayRepo{}, nil)
	got, err := svc.ListForRange(context.Background(), datecalc.NewDate(2025, 2, 1), datecalc.NewDate(2025, 1, 1))
	if err != nil || len(got) != 0 {
		t.Errorf("got %+v, %v", got, err)
	}
}

func TestListForRange_OutsideStoredYears(t *testing.T) {
	var queried []string
	repo := &mockHolidayRepo{
		listRangeFn: func(ctx context.Context, from, to string) ([]Holiday, error) {
			queried = append(queried, from)
			switch from {
			case "0001-01-01":
				return []Holiday{{Date: "0001-01-01", Name: "first"}}, nil
			case "9999-01-01":
				return []Holiday{{Date: "9999-12-31", Name: "last"}}, nil
			}
			return nil, nil
		},
	}
	svc := NewHolidayService(repo, nil)
	ctx := context.Background()

	first, last := datecalc.GridRange(1, 1) // starts in year 0
	got, err := svc.ListForRange(ctx, first, last)
	if err != nil {
		t.Fatalf("year 1: %v", err)
	}
	if len(got) != 1 || got[0].Name != "first" {
		t.Errorf("year 1: got %+v", got)
	}

	first, last = datecalc.GridRange(9999, 12) // ends in year 10000
	got, err = svc.ListForRange(ctx, first, last)
	if err != nil {
		t.Fatalf("year 9999: %v", err)
	}
	if len(got) != 1 || got[0].Name != "last" {
		t.Errorf("year 9999: got %+v", got)
	}

	for _, from := range queried {
		if from != "0001-01-01" && from != "9999-01-01" {
			t.Errorf("queried outside the stored years: %s", from)
		}
	}
}
