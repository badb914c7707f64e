package anniversaries

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"unicode/utf8"

	"github.com/google/uuid"

	"github.com/keyxmakerx/kinenbi/internal/apperror"
	"github.com/keyxmakerx/kinenbi/internal/datecalc"
	"github.com/keyxmakerx/kinenbi/internal/sanitize"
)

// MaxUpcomingDays bounds the Upcoming window; every anniversary recurs
// within a year.
const MaxUpcomingDays = 366

// AnniversaryService defines business logic for the anniversaries plugin.
type AnniversaryService interface {
	// Collections.
	CreateCollection(ctx context.Context, input CollectionInput) (*Collection, error)
	GetCollection(ctx context.Context, id string) (*Collection, error)
	ListCollections(ctx context.Context) ([]Collection, error)
	UpdateCollection(ctx context.Context, id string, input CollectionInput) (*Collection, error)
	DeleteCollection(ctx context.Context, id string) error

	// Anniversaries.
	Create(ctx context.Context, input AnniversaryInput) (*Anniversary, error)
	Get(ctx context.Context, id int64) (*Entry, error)
	ListByCollection(ctx context.Context, collectionID string) ([]Entry, error)
	Update(ctx context.Context, id int64, input AnniversaryInput) (*Anniversary, error)
	Delete(ctx context.Context, id int64) error

	// Views.
	Dashboard(ctx context.Context) (*DashboardResponse, error)
	Upcoming(ctx context.Context, withinDays int) ([]Entry, error)
	Visible(ctx context.Context) ([]Anniversary, error)

	// Occurrences returns the anniversaries of visible collections in the
	// form the calendar grid overlays.
	Occurrences(ctx context.Context) ([]datecalc.AnniversaryOccurrence, error)
}

type anniversaryService struct {
	repo AnniversaryRepository
	calc *datecalc.Calc
}

// NewAnniversaryService creates an AnniversaryService. calc supplies "today"
// for every decorated view.
func NewAnniversaryService(repo AnniversaryRepository, calc *datecalc.Calc) AnniversaryService {
	return &anniversaryService{repo: repo, calc: calc}
}

// validateName strips markup and whitespace before checking the name.
func validateName(name string) (string, error) {
	name = sanitize.Text(name)
	if name == "" {
		return "", apperror.NewValidation("name is required")
	}
	if utf8.RuneCountInString(name) > maxNameLength {
		return "", apperror.NewValidation(fmt.Sprintf("name must be at most %d characters", maxNameLength))
	}
	return name, nil
}

// --- Collections ---

func (s *anniversaryService) CreateCollection(ctx context.Context, input CollectionInput) (*Collection, error) {
	name, err := validateName(input.Name)
	if err != nil {
		return nil, err
	}

	col := &Collection{
		ID:          uuid.NewString(),
		Name:        name,
		Description: sanitize.OptionalText(input.Description),
		IsVisible:   input.IsVisible == nil || *input.IsVisible,
		SortOrder:   input.SortOrder,
	}
	if err := s.repo.CreateCollection(ctx, col); err != nil {
		return nil, fmt.Errorf("create collection: %w", err)
	}

	slog.Info("collection created", slog.String("id", col.ID), slog.String("name", col.Name))
	return col, nil
}

func (s *anniversaryService) GetCollection(ctx context.Context, id string) (*Collection, error) {
	col, err := s.repo.GetCollection(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get collection: %w", err)
	}
	if col == nil {
		return nil, apperror.NewNotFound("collection not found")
	}
	return col, nil
}

func (s *anniversaryService) ListCollections(ctx context.Context) ([]Collection, error) {
	cols, err := s.repo.ListCollections(ctx)
	if err != nil {
		return nil, fmt.Errorf("list collections: %w", err)
	}
	if cols == nil {
		cols = []Collection{}
	}
	return cols, nil
}

// UpdateCollection replaces the editable fields. A nil IsVisible keeps the
// current visibility.
func (s *anniversaryService) UpdateCollection(ctx context.Context, id string, input CollectionInput) (*Collection, error) {
	col, err := s.GetCollection(ctx, id)
	if err != nil {
		return nil, err
	}
	name, err := validateName(input.Name)
	if err != nil {
		return nil, err
	}

	col.Name = name
	col.Description = sanitize.OptionalText(input.Description)
	col.SortOrder = input.SortOrder
	if input.IsVisible != nil {
		col.IsVisible = *input.IsVisible
	}
	if err := s.repo.UpdateCollection(ctx, col); err != nil {
		return nil, fmt.Errorf("update collection: %w", err)
	}
	return col, nil
}

func (s *anniversaryService) DeleteCollection(ctx context.Context, id string) error {
	if _, err := s.GetCollection(ctx, id); err != nil {
		return err
	}
	if err := s.repo.DeleteCollection(ctx, id); err != nil {
		return fmt.Errorf("delete collection: %w", err)
	}
	slog.Info("collection deleted", slog.String("id", id))
	return nil
}

// --- Anniversaries ---

// validateAnniversary normalizes input and checks the target collection.
func (s *anniversaryService) validateAnniversary(ctx context.Context, input AnniversaryInput) (AnniversaryInput, error) {
	name, err := validateName(input.Name)
	if err != nil {
		return input, err
	}
	input.Name = name
	input.Description = sanitize.OptionalText(input.Description)

	input.Date = strings.TrimSpace(input.Date)
	if _, ok := datecalc.ParseDate(input.Date); !ok {
		return input, apperror.NewValidation("date must be a valid YYYY-MM-DD date")
	}

	if input.CollectionID == "" {
		return input, apperror.NewValidation("collection_id is required")
	}
	col, err := s.repo.GetCollection(ctx, input.CollectionID)
	if err != nil {
		return input, fmt.Errorf("get collection: %w", err)
	}
	if col == nil {
		return input, apperror.NewValidation("collection does not exist")
	}
	return input, nil
}

func (s *anniversaryService) Create(ctx context.Context, input AnniversaryInput) (*Anniversary, error) {
	input, err := s.validateAnniversary(ctx, input)
	if err != nil {
		return nil, err
	}

	a := &Anniversary{
		CollectionID: input.CollectionID,
		Name:         input.Name,
		Date:         input.Date,
		Description:  input.Description,
	}
	if err := s.repo.Create(ctx, a); err != nil {
		return nil, fmt.Errorf("create anniversary: %w", err)
	}

	slog.Info("anniversary created",
		slog.Int64("id", a.ID),
		slog.String("collection_id", a.CollectionID),
		slog.String("date", a.Date),
	)
	return a, nil
}

func (s *anniversaryService) find(ctx context.Context, id int64) (*Anniversary, error) {
	a, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get anniversary: %w", err)
	}
	if a == nil {
		return nil, apperror.NewNotFound("anniversary not found")
	}
	return a, nil
}

func (s *anniversaryService) Get(ctx context.Context, id int64) (*Entry, error) {
	a, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}
	e := decorate(s.calc, *a)
	return &e, nil
}

// ListByCollection returns the collection's anniversaries, closest first.
func (s *anniversaryService) ListByCollection(ctx context.Context, collectionID string) ([]Entry, error) {
	if _, err := s.GetCollection(ctx, collectionID); err != nil {
		return nil, err
	}
	list, err := s.repo.ListByCollection(ctx, collectionID)
	if err != nil {
		return nil, fmt.Errorf("list anniversaries: %w", err)
	}
	return s.decorateAll(list), nil
}

func (s *anniversaryService) Update(ctx context.Context, id int64, input AnniversaryInput) (*Anniversary, error) {
	a, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}
	input, err = s.validateAnniversary(ctx, input)
	if err != nil {
		return nil, err
	}

	a.CollectionID = input.CollectionID
	a.Name = input.Name
	a.Date = input.Date
	a.Description = input.Description
	if err := s.repo.Update(ctx, a); err != nil {
		return nil, fmt.Errorf("update anniversary: %w", err)
	}
	return a, nil
}

func (s *anniversaryService) Delete(ctx context.Context, id int64) error {
	if _, err := s.find(ctx, id); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete anniversary: %w", err)
	}
	return nil
}

// --- Views ---

// Dashboard groups visible anniversaries under their collections. Every
// entry is decorated against the same "today" so one response never
// straddles midnight.
func (s *anniversaryService) Dashboard(ctx context.Context) (*DashboardResponse, error) {
	cols, err := s.repo.ListCollections(ctx)
	if err != nil {
		return nil, fmt.Errorf("list collections: %w", err)
	}
	visible, err := s.repo.ListVisible(ctx)
	if err != nil {
		return nil, fmt.Errorf("list visible anniversaries: %w", err)
	}

	byCollection := make(map[string][]Anniversary, len(cols))
	for _, a := range visible {
		byCollection[a.CollectionID] = append(byCollection[a.CollectionID], a)
	}

	calc := s.calc.Snapshot()
	resp := &DashboardResponse{
		Today:       calc.Today().String(),
		Header:      calc.TodayHeader(),
		Collections: []CollectionView{},
	}
	for _, col := range cols {
		if !col.IsVisible {
			continue
		}
		entries := make([]Entry, 0, len(byCollection[col.ID]))
		for _, a := range byCollection[col.ID] {
			entries = append(entries, decorate(calc, a))
		}
		resp.Collections = append(resp.Collections, CollectionView{
			Collection: col,
			Entries:    datecalc.SortByClosest(entries, entryKey),
		})
	}
	return resp, nil
}

// Upcoming returns visible anniversaries due within the given number of
// days (0 means today only), closest first.
func (s *anniversaryService) Upcoming(ctx context.Context, withinDays int) ([]Entry, error) {
	if withinDays < 0 || withinDays > MaxUpcomingDays {
		return nil, apperror.NewValidation(fmt.Sprintf("within must be between 0 and %d", MaxUpcomingDays))
	}
	visible, err := s.repo.ListVisible(ctx)
	if err != nil {
		return nil, fmt.Errorf("list visible anniversaries: %w", err)
	}

	calc := s.calc.Snapshot()
	out := []Entry{}
	for _, a := range visible {
		e := decorate(calc, a)
		if e.DiffDays != nil && *e.DiffDays <= withinDays {
			out = append(out, e)
		}
	}
	return datecalc.SortByClosest(out, entryKey), nil
}

func (s *anniversaryService) Visible(ctx context.Context) ([]Anniversary, error) {
	list, err := s.repo.ListVisible(ctx)
	if err != nil {
		return nil, fmt.Errorf("list visible anniversaries: %w", err)
	}
	if list == nil {
		list = []Anniversary{}
	}
	return list, nil
}

func (s *anniversaryService) Occurrences(ctx context.Context) ([]datecalc.AnniversaryOccurrence, error) {
	list, err := s.Visible(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]datecalc.AnniversaryOccurrence, 0, len(list))
	for _, a := range list {
		out = append(out, a.Occurrence())
	}
	return out, nil
}

// --- Decoration ---

func (s *anniversaryService) decorateAll(list []Anniversary) []Entry {
	calc := s.calc.Snapshot()
	out := make([]Entry, 0, len(list))
	for _, a := range list {
		out = append(out, decorate(calc, a))
	}
	return datecalc.SortByClosest(out, entryKey)
}

func decorate(calc *datecalc.Calc, a Anniversary) Entry {
	e := Entry{
		Anniversary:  a,
		Elapsed:      calc.ElapsedYears(a.Date),
		JapaneseDate: datecalc.ToJapaneseDate(a.Date, false),
		JapaneseYear: datecalc.ToJapaneseDate(a.Date, true),
	}
	days, ok := calc.DiffDays(a.Date)
	if ok {
		e.DiffDays = &days
	}
	e.Countdown = datecalc.FormatCountdown(days, ok)
	return e
}

func entryKey(e Entry) (int, bool) {
	if e.DiffDays == nil {
		return 0, false
	}
	return *e.DiffDays, true
}
