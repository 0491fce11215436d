package main

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/finflow/finflow/internal/cli"
	"github.com/finflow/finflow/internal/model"
	"github.com/finflow/finflow/internal/report"
)

func budgetCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "budget",
		Short: "Manage monthly budget goals",
		Long:  `Set, remove, and track monthly spending ceilings per expense category.`,
	}

	cmd.AddCommand(listBudgetsCmd())
	cmd.AddCommand(setBudgetCmd())
	cmd.AddCommand(removeBudgetCmd())

	return cmd
}

// progressBar renders a fixed-width spend bar colored by status.
func progressBar(p report.Progress) string {
	const width = 20
	filled := int(p.Percent / 100 * width)
	if filled > width {
		filled = width
	}
	bar := strings.Repeat("█", filled) + strings.Repeat("░", width-filled)

	switch p.Status {
	case report.StatusOver:
		return cli.ErrorStyle.Render(bar)
	case report.StatusWarning:
		return cli.WarningStyle.Render(bar)
	default:
		return cli.SuccessStyle.Render(bar)
	}
}

func listBudgetsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "Show budget goals and progress",
		Long:  `Display every budget goal with the month's spend, remaining amount, and progress.`,
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

			budgets := store.Budgets()
			if len(budgets) == 0 {
				fmt.Println(cli.InfoStyle.Render("No budget goals set. Use 'finflow budget set' to create one."))
				return nil
			}

			spent := report.ExpenseByCategory(report.InPeriod(store.Transactions(), period))
			currency := store.Currency()

			fmt.Println(cli.FormatTitle("Budget goals for " + period.String()))

			w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			defer w.Flush()

			for _, c := range store.Categories() {
				budget, ok := budgets[c.Value]
				if !ok {
					continue
				}
				p := report.BudgetProgress(budget, spent[c.Value])

				left := currency.Format(p.Remaining) + " left"
				if p.Remaining < 0 {
					left = cli.ErrorStyle.Render(currency.Format(-p.Remaining) + " over")
				}
				fmt.Fprintf(w, "%s\t%s\t%s of %s\t%s\n",
					c.Display(), progressBar(p),
					currency.Format(p.Spent), currency.Format(p.Budget), left)
			}
			return nil
		},
	}

	cmd.Flags().String("month", "", "period to track (YYYY-MM, default: current month)")
	return cmd
}

func setBudgetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "set <category> <amount>",
		Short: "Set a monthly budget goal",
		Long:  `Create or update the monthly spending ceiling for an expense category.`,
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			amount, err := strconv.ParseFloat(args[1], 64)
			if err != nil {
				return fmt.Errorf("invalid amount %q", args[1])
			}

			store, cleanup, err := openStore(ctx)
			if err != nil {
				return err
			}
			defer cleanup()

			if err := store.SetBudget(ctx, args[0], amount); err != nil {
				return fmt.Errorf("failed to set budget: %w", err)
			}

			cat, _ := store.Category(args[0])
			fmt.Println(cli.FormatSuccess(fmt.Sprintf("Budget for %q set to %s/month",
				cat.Label, store.Currency().Format(amount))))
			return nil
		},
	}
}

func removeBudgetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "remove <category>",
		Short: "Remove a budget goal",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			store, cleanup, err := openStore(ctx)
			if err != nil {
				return err
			}
			defer cleanup()

			label := args[0]
			if cat, ok := store.Category(args[0]); ok {
				label = cat.Label
			}

			if !confirm(cmd, fmt.Sprintf("Remove the budget for %q?", label)) {
				fmt.Println(cli.SubtleStyle.Render("Aborted."))
				return nil
			}

			store.RemoveBudget(ctx, args[0])
			fmt.Println(cli.FormatSuccess(fmt.Sprintf("Removed budget for %q", label)))
			return nil
		},
	}
}

// unbudgeted lists expense categories with no (or zero) budget entry.
func unbudgeted(cats []model.Category, budgets model.Budgets) []model.Category {
	var out []model.Category
	for _, c := range cats {
		if c.Type != model.TypeExpense {
			continue
		}
		if v, ok := budgets[c.Value]; !ok || v == 0 {
			out = append(out, c)
		}
	}
	return out
}
