package holidays

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"
	"unicode/utf8"

	"golang.org/x/text/encoding/japanese"
	"golang.org/x/text/transform"
)

// csvDateLayouts covers the Cabinet Office format (2025/1/1) and the
// zero-padded variants people produce when re-saving the file.
var csvDateLayouts = []string{"2006/1/2", "2006/01/02", "2006-01-02", "2006-1-2"}

// ParseCSV reads a holiday CSV with rows of "date,name". The Cabinet Office
// publishes the file in Shift_JIS; input that is already valid UTF-8 is read
// as is. The header row and rows whose first column is not a date are
// skipped. Dates come back as YYYY-MM-DD in file order.
func ParseCSV(r io.Reader) ([]Holiday, error) {
	raw, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("reading holiday csv: %w", err)
	}

	var src io.Reader = bytes.NewReader(raw)
	if !utf8.Valid(raw) {
		src = transform.NewReader(src, japanese.ShiftJIS.NewDecoder())
	}

	cr := csv.NewReader(src)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	var out []Holiday
	for record := 1; ; record++ {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("holiday csv record %d: %w", record, err)
		}
		if len(rec) == 0 {
			continue
		}

		dateField := strings.TrimPrefix(strings.TrimSpace(rec[0]), "\uFEFF")
		day, ok := parseCSVDate(dateField)
		if !ok {
			continue
		}
		name := ""
		if len(rec) > 1 {
			name = strings.TrimSpace(rec[1])
		}
		if name == "" {
			name = defaultHolidayName
		}
		out = append(out, Holiday{Date: day, Name: name})
	}
	return out, nil
}

func parseCSVDate(s string) (string, bool) {
	for _, layout := range csvDateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.Format("2006-01-02"), true
		}
	}
	return "", false
}

// ReadJSON loads a pre-converted holiday list ([{"date","name"}, ...]).
func ReadJSON(r io.Reader) ([]Holiday, error) {
	var out []Holiday
	if err := json.NewDecoder(r).Decode(&out); err != nil {
		return nil, fmt.Errorf("decoding holiday json: %w", err)
	}
	return out, nil
}

// WriteJSON writes holidays in the pre-converted JSON form.
func WriteJSON(w io.Writer, holidays []Holiday) error {
	if holidays == nil {
		holidays = []Holiday{}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(holidays)
}
