package main

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"

	"github.com/finflow/finflow/internal/cli"
	"github.com/finflow/finflow/internal/model"
	"github.com/finflow/finflow/internal/ofx"
)

func importOFXCmd() *cobra.Command {
	var dryRun bool

	cmd := &cobra.Command{
		Use:   "import-ofx [files...]",
		Short: "Import transactions from OFX/QFX files",
		Long: `Import transactions from OFX or QFX (Quicken) files exported from your
bank. Credits become income and debits become expense, filed under the
catch-all default categories until you recategorize them.

Examples:
  finflow import-ofx ~/Downloads/chase_jan_2024.qfx
  finflow import-ofx ~/Downloads/*.qfx --dry-run`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			// Expand globs and collect all files
			var files []string
			for _, pattern := range args {
				matches, err := filepath.Glob(pattern)
				if err != nil {
					return fmt.Errorf("invalid pattern %s: %w", pattern, err)
				}
				if len(matches) == 0 {
					if _, err := os.Stat(pattern); err == nil {
						files = append(files, pattern)
					} else {
						slog.Warn("no files found matching pattern", "pattern", pattern)
					}
				} else {
					files = append(files, matches...)
				}
			}
			if len(files) == 0 {
				return fmt.Errorf("no files found to import")
			}

			store, cleanup, err := openStore(ctx)
			if err != nil {
				return err
			}
			defer cleanup()

			parser := ofx.NewParser()
			seen := make(map[string]bool) // FITID dedup across files
			bar := progressbar.Default(int64(len(files)), "importing")

			var added, skipped int
			for _, path := range files {
				f, err := os.Open(path)
				if err != nil {
					slog.Error("failed to open file", "file", path, "error", err)
					_ = bar.Add(1)
					continue
				}

				entries, err := parser.ParseFile(f)
				_ = f.Close()
				if err != nil {
					slog.Error("failed to parse OFX file", "file", path, "error", err)
					_ = bar.Add(1)
					continue
				}

				for _, e := range entries {
					if e.FITID != "" && seen[e.FITID] {
						skipped++
						continue
					}
					seen[e.FITID] = true

					if dryRun {
						added++
						continue
					}
					_, err := store.AddTransaction(ctx, model.Transaction{
						Type:        e.Type,
						Category:    e.Category,
						Amount:      e.Amount,
						Date:        e.Date,
						Description: e.Description,
					})
					if err != nil {
						slog.Warn("skipping entry", "fitid", e.FITID, "error", err)
						skipped++
						continue
					}
					added++
				}
				_ = bar.Add(1)
			}

			if dryRun {
				fmt.Println(cli.InfoStyle.Render(fmt.Sprintf(
					"Dry run: %d transactions would be imported (%d duplicates skipped).", added, skipped)))
				return nil
			}
			fmt.Println(cli.FormatSuccess(fmt.Sprintf(
				"Imported %d transactions (%d skipped).", added, skipped)))
			return nil
		},
	}

	cmd.Flags().BoolVarP(&dryRun, "dry-run", "d", false, "preview import without saving")
	return cmd
}
