package main

import (
	"fmt"
	"os"
	"strconv"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/finflow/finflow/internal/backup"
	"github.com/finflow/finflow/internal/cli"
	"github.com/finflow/finflow/internal/ledger"
	"github.com/finflow/finflow/internal/model"
	"github.com/finflow/finflow/internal/report"
)

func txCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tx",
		Short: "Manage transactions",
		Long:  `Add, list, edit, delete, and export income and expense transactions.`,
	}

	cmd.AddCommand(addTxCmd())
	cmd.AddCommand(listTxCmd())
	cmd.AddCommand(editTxCmd())
	cmd.AddCommand(deleteTxCmd())
	cmd.AddCommand(exportTxCmd())

	return cmd
}

func addTxCmd() *cobra.Command {
	var (
		txType      string
		category    string
		amount      float64
		date        string
		description string
	)

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add a transaction",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			store, cleanup, err := openStore(ctx)
			if err != nil {
				return err
			}
			defer cleanup()

			d, err := model.ParseDate(date)
			if err != nil {
				return err
			}

			tx, err := store.AddTransaction(ctx, model.Transaction{
				Type:        model.TransactionType(txType),
				Category:    category,
				Amount:      amount,
				Date:        d,
				Description: description,
			})
			if err != nil {
				return fmt.Errorf("failed to add transaction: %w", err)
			}

			fmt.Println(cli.FormatSuccess(fmt.Sprintf("Added %s of %s (ID: %d)",
				tx.Type, store.Currency().Format(tx.Amount), tx.ID)))
			return nil
		},
	}

	cmd.Flags().StringVarP(&txType, "type", "t", "expense", "transaction type (income, expense)")
	cmd.Flags().StringVarP(&category, "category", "c", "", "category key")
	cmd.Flags().Float64VarP(&amount, "amount", "a", 0, "amount (positive)")
	cmd.Flags().StringVarP(&date, "date", "d", model.CurrentDateString(), "date (YYYY-MM-DD)")
	cmd.Flags().StringVarP(&description, "description", "m", "", "description")
	_ = cmd.MarkFlagRequired("category")
	_ = cmd.MarkFlagRequired("amount")
	_ = cmd.MarkFlagRequired("description")

	return cmd
}

// listFilter reads the shared filter flags of list/export.
func listFilter(cmd *cobra.Command) report.Filter {
	search, _ := cmd.Flags().GetString("search")
	category, _ := cmd.Flags().GetString("category")
	txType, _ := cmd.Flags().GetString("type")
	sortKey, _ := cmd.Flags().GetString("sort")
	order, _ := cmd.Flags().GetString("order")

	return report.Filter{
		Search:   search,
		Category: category,
		Type:     report.TypeFilter(txType),
		SortKey:  report.SortKey(sortKey),
		Order:    report.SortOrder(order),
	}
}

func addListFlags(cmd *cobra.Command) {
	cmd.Flags().String("month", "", "period to list (YYYY-MM, default: current month)")
	cmd.Flags().Bool("all", false, "ignore the period and include every transaction")
	cmd.Flags().String("search", "", "substring match on description")
	cmd.Flags().String("category", "", "exact category key match")
	cmd.Flags().String("type", "all", "transaction type (all, income, expense)")
	cmd.Flags().String("sort", "none", "sort key (none, date, amount, category)")
	cmd.Flags().String("order", "desc", "sort order (asc, desc)")
}

// selectTransactions applies the period and filter flags to the store's
// transactions.
func selectTransactions(cmd *cobra.Command, store *ledger.Store) ([]model.Transaction, error) {
	txs := store.Transactions()
	if all, _ := cmd.Flags().GetBool("all"); !all {
		period, err := resolvePeriod(cmd, store)
		if err != nil {
			return nil, err
		}
		txs = report.InPeriod(txs, period)
	}
	return report.SortAndFilter(txs, store.Categories(), listFilter(cmd)), nil
}

func listTxCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List transactions",
		Long:  `Display transactions for a period, with optional filtering and sorting.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			store, cleanup, err := openStore(cmd.Context())
			if err != nil {
				return err
			}
			defer cleanup()

			txs, err := selectTransactions(cmd, store)
			if err != nil {
				return err
			}
			if len(txs) == 0 {
				fmt.Println(cli.InfoStyle.Render("No transactions found."))
				return nil
			}

			currency := store.Currency()
			display := make(map[string]string)
			for _, c := range store.Categories() {
				display[c.Value] = c.Display()
			}

			w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			defer w.Flush()

			fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\n",
				cli.HeaderStyle.Render("ID"),
				cli.HeaderStyle.Render("Date"),
				cli.HeaderStyle.Render("Type"),
				cli.HeaderStyle.Render("Description"),
				cli.HeaderStyle.Render("Category"),
				cli.HeaderStyle.Render("Amount"))

			for _, t := range txs {
				category, ok := display[t.Category]
				if !ok {
					category = t.Category
				}
				amount := currency.Format(t.Amount)
				if t.Type == model.TypeExpense {
					amount = "-" + amount
				}
				fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\t%s\n",
					t.ID, t.Date, t.Type, t.Description, category, amount)
			}

			s := report.Summarize(txs)
			fmt.Fprintf(w, "\t\t\t\t%s\t%s\n",
				cli.SubtleStyle.Render("balance"), currency.Format(s.Balance))
			return nil
		},
	}

	addListFlags(cmd)
	return cmd
}

func editTxCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "edit <id>",
		Short: "Edit a transaction",
		Long:  `Replace fields of an existing transaction. Only the provided flags change.`,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			id, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid transaction id %q", args[0])
			}

			store, cleanup, err := openStore(ctx)
			if err != nil {
				return err
			}
			defer cleanup()

			tx, ok := store.Transaction(id)
			if !ok {
				return fmt.Errorf("transaction %d not found", id)
			}

			if cmd.Flags().Changed("type") {
				v, _ := cmd.Flags().GetString("type")
				tx.Type = model.TransactionType(v)
			}
			if cmd.Flags().Changed("category") {
				tx.Category, _ = cmd.Flags().GetString("category")
			}
			if cmd.Flags().Changed("amount") {
				tx.Amount, _ = cmd.Flags().GetFloat64("amount")
			}
			if cmd.Flags().Changed("date") {
				v, _ := cmd.Flags().GetString("date")
				if tx.Date, err = model.ParseDate(v); err != nil {
					return err
				}
			}
			if cmd.Flags().Changed("description") {
				tx.Description, _ = cmd.Flags().GetString("description")
			}

			if err := store.EditTransaction(ctx, tx); err != nil {
				return fmt.Errorf("failed to edit transaction: %w", err)
			}

			fmt.Println(cli.FormatSuccess(fmt.Sprintf("Updated transaction %d", id)))
			return nil
		},
	}

	cmd.Flags().StringP("type", "t", "", "transaction type (income, expense)")
	cmd.Flags().StringP("category", "c", "", "category key")
	cmd.Flags().Float64P("amount", "a", 0, "amount (positive)")
	cmd.Flags().StringP("date", "d", "", "date (YYYY-MM-DD)")
	cmd.Flags().StringP("description", "m", "", "description")

	return cmd
}

func deleteTxCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a transaction",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			id, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid transaction id %q", args[0])
			}

			store, cleanup, err := openStore(ctx)
			if err != nil {
				return err
			}
			defer cleanup()

			tx, ok := store.Transaction(id)
			if !ok {
				fmt.Println(cli.InfoStyle.Render(fmt.Sprintf("Transaction %d does not exist.", id)))
				return nil
			}

			if !confirm(cmd, fmt.Sprintf("Delete transaction %q? This cannot be undone.", tx.Description)) {
				fmt.Println(cli.SubtleStyle.Render("Aborted."))
				return nil
			}

			store.DeleteTransaction(ctx, id)
			fmt.Println(cli.FormatSuccess(fmt.Sprintf("Deleted transaction %d", id)))
			return nil
		},
	}
}

func exportTxCmd() *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export transactions to CSV",
		Long:  `Export the selected transactions as CSV. Filters and sorting match 'tx list'.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			store, cleanup, err := openStore(cmd.Context())
			if err != nil {
				return err
			}
			defer cleanup()

			txs, err := selectTransactions(cmd, store)
			if err != nil {
				return err
			}

			out := os.Stdout
			if output != "-" {
				f, err := os.Create(output)
				if err != nil {
					return fmt.Errorf("failed to create %s: %w", output, err)
				}
				defer f.Close()
				out = f
			}

			if err := backup.WriteCSV(out, txs, store.Categories()); err != nil {
				return err
			}
			if output != "-" {
				fmt.Println(cli.FormatSuccess(fmt.Sprintf("Exported %d transactions to %s", len(txs), output)))
			}
			return nil
		},
	}

	addListFlags(cmd)
	cmd.Flags().StringVarP(&output, "output", "o", "transactions.csv", "output file, or - for stdout")
	return cmd
}
