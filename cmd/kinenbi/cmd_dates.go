package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/keyxmakerx/kinenbi/internal/datecalc"
)

func newEraCmd() *cobra.Command {
	var yearOnly bool

	cmd := &cobra.Command{
		Use:   "era <date>",
		Short: "Convert a YYYY-MM-DD date to Japanese era notation",
		Example: `  kinenbi era 2019-05-01          # 令和元年5月1日
  kinenbi era 1989-01-07 --year-only  # 昭和64年`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, ok := datecalc.ParseDate(args[0]); !ok {
				return fmt.Errorf("invalid date %q: want YYYY-MM-DD", args[0])
			}
			s := datecalc.ToJapaneseDate(args[0], yearOnly)
			if s == "" {
				return fmt.Errorf("%s is before the Meiji era", args[0])
			}
			fmt.Fprintln(cmd.OutOrStdout(), s)
			return nil
		},
	}

	cmd.Flags().BoolVar(&yearOnly, "year-only", false, "Print only the era and year")
	return cmd
}

// countdownRow is one line of countdown output.
type countdownRow struct {
	date     string
	days     int
	ok       bool
	japanese string
	elapsed  string
}

func newCountdownCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "countdown <date>...",
		Short: "Days until the next occurrence of each anniversary, closest first",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			calc, err := opts.calc()
			if err != nil {
				return err
			}
			calc = calc.Snapshot()

			rows := make([]countdownRow, 0, len(args))
			for _, s := range args {
				days, ok := calc.DiffDays(s)
				rows = append(rows, countdownRow{
					date:     s,
					days:     days,
					ok:       ok,
					japanese: datecalc.ToJapaneseDate(s, false),
					elapsed:  calc.ElapsedYears(s),
				})
			}
			rows = datecalc.SortByClosest(rows, func(r countdownRow) (int, bool) { return r.days, r.ok })

			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintf(tw, "# %s\n", calc.TodayHeader())
			fmt.Fprintln(tw, "DATE\t和暦\tあと\t経過")
			for _, r := range rows {
				cd := datecalc.FormatCountdown(r.days, r.ok)
				fmt.Fprintf(tw, "%s\t%s\t%s%s\t%s\n", r.date, orDash(r.japanese), cd.Value, cd.Unit, orDash(r.elapsed))
			}
			return tw.Flush()
		},
	}
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
