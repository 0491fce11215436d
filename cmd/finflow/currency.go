package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/finflow/finflow/internal/cli"
	"github.com/finflow/finflow/internal/model"
)

func currencyCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "currency [code]",
		Short: "Show or set the display currency",
		Long: `Without an argument, print the active display currency. With one,
switch to it. Stored amounts are never converted; only formatting changes.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			store, cleanup, err := openStore(ctx)
			if err != nil {
				return err
			}
			defer cleanup()

			if len(args) == 0 {
				fmt.Printf("%s (supported:", store.Currency())
				for _, c := range model.Currencies() {
					fmt.Printf(" %s", c)
				}
				fmt.Println(")")
				return nil
			}

			c := model.Currency(args[0])
			if err := store.SetCurrency(ctx, c); err != nil {
				return err
			}

			fmt.Println(cli.FormatSuccess(fmt.Sprintf("Display currency set to %s", c)))
			return nil
		},
	}
	return cmd
}
