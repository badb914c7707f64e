// Package anniversaries stores named dates grouped into collections and
// decorates them with countdowns, elapsed years and Japanese era labels.
package anniversaries

import (
	"time"

	"github.com/keyxmakerx/kinenbi/internal/datecalc"
)

// maxNameLength matches the VARCHAR(100) name columns.
const maxNameLength = 100

// Collection groups anniversaries. Hidden collections are kept but left off
// the dashboard and the calendar.
type Collection struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description *string   `json:"description,omitempty"`
	IsVisible   bool      `json:"is_visible"`
	SortOrder   int       `json:"sort_order"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// Anniversary is one remembered date. Date is YYYY-MM-DD; its year is the
// origin year used for elapsed-year counts.
type Anniversary struct {
	ID           int64     `json:"id"`
	CollectionID string    `json:"collection_id"`
	Name         string    `json:"name"`
	Date         string    `json:"date"`
	Description  *string   `json:"description,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// Occurrence converts the anniversary to the grid overlay form.
func (a Anniversary) Occurrence() datecalc.AnniversaryOccurrence {
	return datecalc.AnniversaryOccurrence{ID: a.ID, Name: a.Name, AnniversaryDate: a.Date}
}

// --- Request DTOs ---

// CollectionInput is the body for creating or updating a collection.
type CollectionInput struct {
	Name        string  `json:"name"`
	Description *string `json:"description"`
	IsVisible   *bool   `json:"is_visible"`
	SortOrder   int     `json:"sort_order"`
}

// AnniversaryInput is the body for creating or updating an anniversary.
type AnniversaryInput struct {
	CollectionID string  `json:"collection_id"`
	Name         string  `json:"name"`
	Date         string  `json:"date"`
	Description  *string `json:"description"`
}

// --- View models ---

// Entry is an anniversary decorated relative to today.
type Entry struct {
	Anniversary
	DiffDays     *int               `json:"diff_days"`
	Countdown    datecalc.Countdown `json:"countdown"`
	Elapsed      string             `json:"elapsed"`
	JapaneseDate string             `json:"japanese_date"`
	JapaneseYear string             `json:"japanese_year"`
}

// CollectionView is a collection with its decorated entries, closest first.
type CollectionView struct {
	Collection
	Entries []Entry `json:"entries"`
}

// DashboardResponse is returned by GET /api/v1/dashboard.
type DashboardResponse struct {
	Today       string           `json:"today"`
	Header      string           `json:"header"`
	Collections []CollectionView `json:"collections"`
}

// UpcomingResponse is returned by GET /api/v1/upcoming.
type UpcomingResponse struct {
	Within  int     `json:"within"`
	Entries []Entry `json:"entries"`
}
