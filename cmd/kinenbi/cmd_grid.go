package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/keyxmakerx/kinenbi/internal/datecalc"
	"github.com/keyxmakerx/kinenbi/internal/plugins/holidays"
)

// gridOptions are the flags of the grid command.
type gridOptions struct {
	holidaysFile string
	asJSON       bool
}

func newGridCmd(root *rootOptions) *cobra.Command {
	opts := &gridOptions{}

	cmd := &cobra.Command{
		Use:   "grid <year> [month]",
		Short: "Print a month grid, or all twelve for a year",
		Long: `Print Sunday-first month grids of six weeks. Days outside the month
show as ".", holidays are marked "*" and today is marked "<".

Holidays come from a JSON list (see "kinenbi holidays convert").`,
		Args: cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			year, err := strconv.Atoi(args[0])
			if err != nil || year < 1 || year > 9999 {
				return fmt.Errorf("invalid year %q", args[0])
			}
			month := 0
			if len(args) == 2 {
				month, err = strconv.Atoi(args[1])
				if err != nil || month < 1 || month > 12 {
					return fmt.Errorf("invalid month %q", args[1])
				}
			}

			calc, err := root.calc()
			if err != nil {
				return err
			}
			hols, err := loadHolidayJSON(opts.holidaysFile)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if month != 0 {
				cells := calc.MonthGrid(year, month, hols, nil)
				if opts.asJSON {
					return writeJSON(out, cells)
				}
				printMonth(out, year, month, cells)
				return nil
			}

			months := calc.YearGrid(year, hols, nil)
			if opts.asJSON {
				return writeJSON(out, months)
			}
			for i, cells := range months {
				if i > 0 {
					fmt.Fprintln(out)
				}
				printMonth(out, year, i+1, cells)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&opts.holidaysFile, "holidays", "", "Holiday list in JSON form")
	cmd.Flags().BoolVar(&opts.asJSON, "json", false, "Print cells as JSON")
	return cmd
}

func loadHolidayJSON(path string) ([]datecalc.Holiday, error) {
	if path == "" {
		return nil, nil
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening holidays: %w", err)
	}
	defer f.Close()
	return holidays.ReadJSON(f)
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// printMonth renders one grid as text followed by the month's holidays.
func printMonth(w io.Writer, year, month int, cells []datecalc.CalendarCell) {
	title := fmt.Sprintf("%d年%d月", year, month)
	if era := datecalc.FormatJapaneseDate(datecalc.NewDate(year, time.Month(month), 1), true); era != "" {
		title += "（" + era + "）"
	}
	fmt.Fprintln(w, title)

	var b strings.Builder
	for _, wd := range datecalc.JapaneseWeekdays {
		fmt.Fprintf(&b, "  %s ", wd)
	}
	fmt.Fprintln(w, strings.TrimRight(b.String(), " "))

	var notes []string
	for i, c := range cells {
		day, mark := ".", " "
		if c.IsCurrentMonth {
			day = strconv.Itoa(c.DayOfMonth)
			for _, h := range c.Holidays {
				notes = append(notes, fmt.Sprintf("%d/%d %s", month, c.DayOfMonth, h.Name))
			}
		}
		switch {
		case c.IsToday:
			mark = "<"
		case c.IsCurrentMonth && len(c.Holidays) > 0:
			mark = "*"
		}
		fmt.Fprintf(w, "%3s%s", day, mark)
		if i%7 == 6 {
			fmt.Fprintln(w)
		} else {
			fmt.Fprint(w, " ")
		}
	}
	for _, n := range notes {
		fmt.Fprintf(w, "  * %s\n", n)
	}
}
