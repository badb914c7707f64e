package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/keyxmakerx/kinenbi/internal/app"
	"github.com/keyxmakerx/kinenbi/internal/config"
	"github.com/keyxmakerx/kinenbi/internal/database"
	"github.com/keyxmakerx/kinenbi/internal/plugins/holidays"
)

func newHolidaysCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "holidays",
		Short: "Maintain the public holiday list",
		Long: `Convert and import Japanese public holidays.

Subcommands:
  convert  - Cabinet Office syukujitsu.csv to JSON
  import   - Replace the server's holiday table from CSV or JSON`,
	}
	cmd.AddCommand(newHolidaysConvertCmd())
	cmd.AddCommand(newHolidaysImportCmd())
	return cmd
}

func newHolidaysConvertCmd() *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "convert <syukujitsu.csv>",
		Short: "Convert the Cabinet Office holiday CSV to JSON",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := os.Open(args[0])
			if err != nil {
				return fmt.Errorf("opening csv: %w", err)
			}
			defer f.Close()

			list, err := holidays.ParseCSV(f)
			if err != nil {
				return err
			}

			if output == "" {
				return holidays.WriteJSON(cmd.OutOrStdout(), list)
			}
			out, err := os.Create(output)
			if err != nil {
				return fmt.Errorf("creating %s: %w", output, err)
			}
			if err := holidays.WriteJSON(out, list); err != nil {
				out.Close()
				return err
			}
			if err := out.Close(); err != nil {
				return err
			}
			fmt.Fprintf(cmd.ErrOrStderr(), "wrote %d holidays to %s\n", len(list), output)
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "Write JSON here instead of stdout")
	return cmd
}

func newHolidaysImportCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "import <file>",
		Short: "Replace the stored holidays from a CSV or JSON file",
		Long: `Replace the holidays table with the given list. Files ending in .json
are read as converted lists, anything else as Cabinet Office CSV.

Connection settings come from the same environment variables as the
server (DB_HOST, DATABASE_URL, REDIS_URL, ...). The Redis holiday cache
is invalidated when reachable.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			list, err := app.LoadHolidayFile(args[0])
			if err != nil {
				return err
			}

			cfg, err := config.Load()
			if err != nil {
				return err
			}
			ctx := cmd.Context()

			db, err := database.NewMariaDB(ctx, cfg.Database)
			if err != nil {
				return err
			}
			defer db.Close()
			if err := database.RunMigrations(db, cfg.MigrationsPath); err != nil {
				return err
			}

			var cache holidays.HolidayCache
			if rdb, err := database.NewRedis(ctx, cfg.Redis); err != nil {
				slog.Warn("redis unavailable, cache not invalidated", slog.Any("error", err))
			} else {
				defer rdb.Close()
				cache = holidays.NewRedisCache(rdb, cfg.Holidays.CacheTTL)
			}

			svc := holidays.NewHolidayService(holidays.NewHolidayRepository(db), cache)
			n, err := svc.Import(ctx, list)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "imported %d holidays\n", n)
			return nil
		},
	}
}
