package main

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/finflow/finflow/internal/cli"
	"github.com/finflow/finflow/internal/report"
)

func dashboardCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "dashboard",
		Short: "Show the monthly overview",
		Long: `Display the selected month's totals, expense breakdown by category,
budget goal progress, and the all-time monthly income/expense trend.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			store, cleanup, err := openStore(cmd.Context())
			if err != nil {
				return err
			}
			defer cleanup()

			period, err := resolvePeriod(cmd, store)
			if err != nil {
				return err
			}

			currency := store.Currency()
			all := store.Transactions()
			inPeriod := report.InPeriod(all, period)
			s := report.Summarize(inPeriod)

			fmt.Println(cli.FormatTitle("Overview for " + period.String()))

			w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			fmt.Fprintf(w, "%s\t%s\n", "Total Income", cli.SuccessStyle.Render(currency.Format(s.Income)))
			fmt.Fprintf(w, "%s\t%s\n", "Total Expenses", cli.ErrorStyle.Render(currency.Format(s.Expense)))
			balance := currency.Format(s.Balance)
			if s.Balance < 0 {
				balance = cli.ErrorStyle.Render(balance)
			}
			fmt.Fprintf(w, "%s\t%s\n", "Balance", balance)
			w.Flush()

			byCategory := report.ExpenseByCategory(inPeriod)
			if len(byCategory) > 0 {
				fmt.Println()
				fmt.Println(cli.HeaderStyle.Render("Expenses by category"))
				w = tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
				for _, c := range store.Categories() {
					if amount, ok := byCategory[c.Value]; ok {
						fmt.Fprintf(w, "%s\t%s\n", c.Display(), currency.Format(amount))
					}
				}
				w.Flush()
			}

			budgets := store.Budgets()
			if len(budgets) > 0 {
				fmt.Println()
				fmt.Println(cli.HeaderStyle.Render("Budget goals"))
				w = tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
				for _, c := range store.Categories() {
					budget, ok := budgets[c.Value]
					if !ok {
						continue
					}
					p := report.BudgetProgress(budget, byCategory[c.Value])
					fmt.Fprintf(w, "%s\t%s\t%.0f%%\n", c.Display(), progressBar(p), p.Percent)
				}
				w.Flush()
			}
			if open := unbudgeted(store.Categories(), budgets); len(open) > 0 {
				fmt.Println(cli.SubtleStyle.Render(
					fmt.Sprintf("%d expense categories have no budget goal yet.", len(open))))
			}

			series := report.MonthlySeries(all)
			if len(series) > 1 {
				fmt.Println()
				fmt.Println(cli.HeaderStyle.Render("Monthly trend"))
				w = tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
				for _, b := range series {
					fmt.Fprintf(w, "%s\t%s\t%s\n", b.Key,
						cli.SuccessStyle.Render(currency.Format(b.Income)),
						cli.ErrorStyle.Render(currency.Format(b.Expense)))
				}
				w.Flush()
			}

			return nil
		},
	}

	cmd.Flags().String("month", "", "period to show (YYYY-MM, default: current month)")
	return cmd
}
