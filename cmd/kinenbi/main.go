// Package main implements the kinenbi command line tool: Japanese era
// conversion, anniversary countdowns, and month grids from the terminal,
// plus holiday list maintenance for the server's database.
package main

import (
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/keyxmakerx/kinenbi/internal/datecalc"
)

// rootOptions are the persistent flags shared by every subcommand.
type rootOptions struct {
	today   string
	tz      string
	verbose bool
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}

	root := &cobra.Command{
		Use:   "kinenbi",
		Short: "Anniversary and Japanese calendar tools",
		Long: `kinenbi converts dates to Japanese era notation, counts down to
anniversaries, and prints month grids with public holidays.

The holidays subcommands maintain the server's holiday table.`,
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			setupLogging(opts.verbose)
		},
	}

	root.PersistentFlags().StringVar(&opts.today, "today", "", "Treat this date (YYYY-MM-DD) as today")
	root.PersistentFlags().StringVar(&opts.tz, "tz", "Asia/Tokyo", "Time zone today is computed in")
	root.PersistentFlags().BoolVarP(&opts.verbose, "verbose", "v", false, "Enable debug logging")

	root.AddCommand(newEraCmd())
	root.AddCommand(newCountdownCmd(opts))
	root.AddCommand(newGridCmd(opts))
	root.AddCommand(newHolidaysCmd())

	return root
}

// calc builds the calculator for this invocation. --today freezes the
// clock at noon of that day in --tz.
func (o *rootOptions) calc() (*datecalc.Calc, error) {
	loc, err := time.LoadLocation(o.tz)
	if err != nil {
		return nil, fmt.Errorf("--tz %q: %w", o.tz, err)
	}
	if o.today == "" {
		return datecalc.NewCalc(datecalc.SystemClock{Location: loc}), nil
	}
	d, ok := datecalc.ParseDate(o.today)
	if !ok {
		return nil, fmt.Errorf("--today %q: want YYYY-MM-DD", o.today)
	}
	at := time.Date(d.Year(), d.Month(), d.Day(), 12, 0, 0, 0, loc)
	return datecalc.NewCalc(datecalc.FixedClock{At: at}), nil
}

// setupLogging sends logs to stderr so command output stays clean.
func setupLogging(verbose bool) {
	level := slog.LevelWarn
	if verbose {
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))
}
