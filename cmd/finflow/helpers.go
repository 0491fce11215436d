package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/finflow/finflow/internal/cli"
	"github.com/finflow/finflow/internal/config"
	"github.com/finflow/finflow/internal/ledger"
	"github.com/finflow/finflow/internal/model"
	"github.com/finflow/finflow/internal/storage"
)

// openStore opens the database and loads the ledger. The returned
// cleanup function closes the backend.
func openStore(ctx context.Context) (*ledger.Store, func(), error) {
	dbPath := viper.GetString("database.path")
	if dbPath == "" {
		dbPath = config.DefaultDataPath()
	} else {
		dbPath = config.ExpandPath(dbPath)
	}

	backend, err := storage.NewSQLiteBackend(dbPath)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open database: %w", err)
	}

	store, err := ledger.Open(ctx, backend)
	if err != nil {
		_ = backend.Close()
		return nil, nil, err
	}

	cleanup := func() { _ = backend.Close() }
	return store, cleanup, nil
}

// confirm gates a destructive action. The --yes flag bypasses the
// prompt for scripted use.
func confirm(cmd *cobra.Command, message string) bool {
	if yes, _ := cmd.Root().PersistentFlags().GetBool("yes"); yes {
		return true
	}
	reader := cli.NewReader(os.Stdin)
	return cli.Confirm(cmd.Context(), os.Stdout, reader, message)
}

// resolvePeriod applies an optional --month override to the store's
// selected period and returns it.
func resolvePeriod(cmd *cobra.Command, store *ledger.Store) (model.Period, error) {
	month, _ := cmd.Flags().GetString("month")
	if month == "" {
		return store.Period(), nil
	}
	p, err := model.ParsePeriod(month)
	if err != nil {
		return model.Period{}, err
	}
	store.SetPeriod(p)
	return p, nil
}
