// Package holidays stores Japanese public holidays and serves them per year
// for calendar overlays. The source of truth is the Cabinet Office CSV
// (syukujitsu.csv), refreshed yearly and imported into MariaDB; year lists
// are cached in Redis because every calendar page reads them.
package holidays

import "github.com/keyxmakerx/kinenbi/internal/datecalc"

// Holiday is the overlay record the grid builder consumes.
type Holiday = datecalc.Holiday

// defaultHolidayName is used for CSV rows that carry a date but no name.
const defaultHolidayName = "祝日"

// YearResponse is the JSON body of GET /api/v1/holidays.
type YearResponse struct {
	Year     int       `json:"year"`
	Holidays []Holiday `json:"holidays"`
}
