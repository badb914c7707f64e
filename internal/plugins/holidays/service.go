package holidays

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/keyxmakerx/kinenbi/internal/apperror"
	"github.com/keyxmakerx/kinenbi/internal/datecalc"
)

// Year bounds accepted by the API; the date format has four year digits.
const (
	minYear = 1
	maxYear = 9999
)

// HolidayService defines business logic for holidays.
type HolidayService interface {
	// Import validates and replaces the stored holiday list, returning the
	// number of holidays written.
	Import(ctx context.Context, holidays []Holiday) (int, error)

	ListForYear(ctx context.Context, year int) ([]Holiday, error)

	// ListForRange returns holidays between two days inclusive. Month grids
	// reach into neighbouring years, so this may span two year lists.
	ListForRange(ctx context.Context, from, to datecalc.Date) ([]Holiday, error)

	Count(ctx context.Context) (int, error)
}

type holidayService struct {
	repo  HolidayRepository
	cache HolidayCache
}

// NewHolidayService creates a HolidayService. cache may be nil.
func NewHolidayService(repo HolidayRepository, cache HolidayCache) HolidayService {
	if cache == nil {
		cache = NewNopCache()
	}
	return &holidayService{repo: repo, cache: cache}
}

// Import rejects the whole list if any entry is malformed.
func (s *holidayService) Import(ctx context.Context, holidays []Holiday) (int, error) {
	if len(holidays) == 0 {
		return 0, apperror.NewValidation("holiday list is empty")
	}
	for i, h := range holidays {
		if _, ok := datecalc.ParseDate(h.Date); !ok {
			return 0, apperror.NewValidation(fmt.Sprintf("holiday %d: invalid date %q", i+1, h.Date))
		}
		if h.Name == "" {
			return 0, apperror.NewValidation(fmt.Sprintf("holiday %d (%s): name is required", i+1, h.Date))
		}
	}

	if err := s.repo.ReplaceAll(ctx, holidays); err != nil {
		return 0, fmt.Errorf("replace holidays: %w", err)
	}
	if err := s.cache.Invalidate(ctx); err != nil {
		slog.Warn("failed to invalidate holiday cache", slog.Any("error", err))
	}

	slog.Info("holidays imported",
		slog.Int("count", len(holidays)),
		slog.String("first", holidays[0].Date),
		slog.String("last", holidays[len(holidays)-1].Date),
	)
	return len(holidays), nil
}

// ListForYear serves from the cache and falls back to the database. Cache
// errors are logged, never returned.
func (s *holidayService) ListForYear(ctx context.Context, year int) ([]Holiday, error) {
	if year < minYear || year > maxYear {
		return nil, apperror.NewValidation(fmt.Sprintf("year must be between %d and %d", minYear, maxYear))
	}

	cached, found, err := s.cache.GetYear(ctx, year)
	if err != nil {
		slog.Warn("holiday cache read failed", slog.Int("year", year), slog.Any("error", err))
	}
	if found {
		return cached, nil
	}

	list, err := s.repo.ListRange(ctx, fmt.Sprintf("%04d-01-01", year), fmt.Sprintf("%04d-12-31", year))
	if err != nil {
		return nil, fmt.Errorf("list holidays for %d: %w", year, err)
	}
	if list == nil {
		list = []Holiday{}
	}

	if err := s.cache.SetYear(ctx, year, list); err != nil {
		slog.Warn("holiday cache write failed", slog.Int("year", year), slog.Any("error", err))
	}
	return list, nil
}

func (s *holidayService) ListForRange(ctx context.Context, from, to datecalc.Date) ([]Holiday, error) {
	if to.Before(from) {
		return []Holiday{}, nil
	}

	// Grids for January of year 1 and December 9999 reach outside the
	// stored range, where there are no holidays to load.
	lo, hi := max(from.Year(), minYear), min(to.Year(), maxYear)
	fromKey, toKey := from.String(), to.String()
	if to.Year() > maxYear {
		toKey = fmt.Sprintf("%04d-12-31", maxYear)
	}
	out := []Holiday{}
	for year := lo; year <= hi; year++ {
		list, err := s.ListForYear(ctx, year)
		if err != nil {
			return nil, err
		}
		for _, h := range list {
			if h.Date >= fromKey && h.Date <= toKey {
				out = append(out, h)
			}
		}
	}
	return out, nil
}

func (s *holidayService) Count(ctx context.Context) (int, error) {
	n, err := s.repo.Count(ctx)
	if err != nil {
		return 0, fmt.Errorf("count holidays: %w", err)
	}
	return n, nil
}
