package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/finflow/finflow/internal/backup"
	"github.com/finflow/finflow/internal/cli"
)

func backupCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "backup",
		Short: "Export and import full data backups",
	}

	cmd.AddCommand(exportBackupCmd())
	cmd.AddCommand(importBackupCmd())

	return cmd
}

func exportBackupCmd() *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write all data to a backup file",
		Long:  `Serialize transactions, categories, budgets, and the currency setting to a single JSON document.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			store, cleanup, err := openStore(cmd.Context())
			if err != nil {
				return err
			}
			defer cleanup()

			data, err := backup.Encode(store.Snapshot())
			if err != nil {
				return err
			}

			if output == "" {
				output = fmt.Sprintf("finflow_backup_%s.json", time.Now().Format("2006-01-02"))
			}
			if output == "-" {
				_, err := os.Stdout.Write(append(data, '\n'))
				return err
			}
			if err := os.WriteFile(output, data, 0600); err != nil {
				return fmt.Errorf("failed to write backup: %w", err)
			}

			fmt.Println(cli.FormatSuccess("Backup written to " + output))
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file, or - for stdout (default: finflow_backup_<date>.json)")
	return cmd
}

func importBackupCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "import <file>",
		Short: "Restore all data from a backup file",
		Long: `Validate and restore a backup, replacing every transaction, category,
budget, and the currency setting. An invalid file leaves the current data
untouched.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			data, err := os.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("failed to read backup: %w", err)
			}

			b, err := backup.Decode(data)
			if err != nil {
				return fmt.Errorf("cannot import %s: %w", args[0], err)
			}

			store, cleanup, err := openStore(ctx)
			if err != nil {
				return err
			}
			defer cleanup()

			if !confirm(cmd, "Import this backup? All current data will be overwritten.") {
				fmt.Println(cli.SubtleStyle.Render("Aborted."))
				return nil
			}

			if err := store.Restore(ctx, b); err != nil {
				return fmt.Errorf("failed to restore backup: %w", err)
			}

			fmt.Println(cli.FormatSuccess(fmt.Sprintf(
				"Backup restored: %d transactions, %d categories, %d budgets",
				len(b.Transactions), len(b.Categories), len(b.Budgets))))
			return nil
		},
	}
}

func resetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "reset",
		Short: "Reset all data to defaults",
		Long: `Delete every transaction, custom category, and budget goal, restoring
the default category set. The currency setting is kept. This cannot be undone.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			store, cleanup, err := openStore(ctx)
			if err != nil {
				return err
			}
			defer cleanup()

			if !confirm(cmd, "Really delete all transactions, custom categories, and budgets?") {
				fmt.Println(cli.SubtleStyle.Render("Aborted."))
				return nil
			}

			store.Reset(ctx)
			fmt.Println(cli.FormatSuccess("Application data has been reset to defaults."))
			return nil
		},
	}
}
