package main

import (
	"errors"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/finflow/finflow/internal/cli"
	"github.com/finflow/finflow/internal/common"
	"github.com/finflow/finflow/internal/model"
)

func categoriesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "categories",
		Short: "Manage categories",
		Long:  `List, add, edit, delete, and merge the categories transactions are filed under.`,
	}

	cmd.AddCommand(listCategoriesCmd())
	cmd.AddCommand(addCategoryCmd())
	cmd.AddCommand(editCategoryCmd())
	cmd.AddCommand(deleteCategoryCmd())
	cmd.AddCommand(mergeCategoriesCmd())

	return cmd
}

func listCategoriesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List all categories",
		RunE: func(cmd *cobra.Command, _ []string) error {
			store, cleanup, err := openStore(cmd.Context())
			if err != nil {
				return err
			}
			defer cleanup()

			w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			defer w.Flush()

			fmt.Fprintf(w, "%s\t%s\t%s\t%s\n",
				cli.HeaderStyle.Render("Key"),
				cli.HeaderStyle.Render("Label"),
				cli.HeaderStyle.Render("Type"),
				cli.HeaderStyle.Render("Default"))

			for _, c := range store.Categories() {
				isDefault := ""
				if c.IsDefault {
					isDefault = cli.SubtleStyle.Render("yes")
				}
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", c.Value, c.Display(), c.Type, isDefault)
			}
			return nil
		},
	}
}

func addCategoryCmd() *cobra.Command {
	var (
		ctype string
		icon  string
	)

	cmd := &cobra.Command{
		Use:   "add <label>",
		Short: "Add a custom category",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			store, cleanup, err := openStore(ctx)
			if err != nil {
				return err
			}
			defer cleanup()

			cat, err := store.AddCategory(ctx, args[0], model.TransactionType(ctype), icon)
			if err != nil {
				return fmt.Errorf("failed to add category: %w", err)
			}

			fmt.Println(cli.FormatSuccess(fmt.Sprintf("Created category %q (key: %s)", cat.Label, cat.Value)))
			return nil
		},
	}

	cmd.Flags().StringVarP(&ctype, "type", "t", "expense", "category type (income, expense); fixed after creation")
	cmd.Flags().StringVarP(&icon, "icon", "i", "🏷️", "display icon")

	return cmd
}

func editCategoryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "edit <key>",
		Short: "Relabel or re-icon a category",
		Long:  `Change a category's label or icon. The type is fixed at creation and cannot change.`,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			store, cleanup, err := openStore(ctx)
			if err != nil {
				return err
			}
			defer cleanup()

			cat, ok := store.Category(args[0])
			if !ok {
				return fmt.Errorf("category %q not found", args[0])
			}

			if cmd.Flags().Changed("label") {
				cat.Label, _ = cmd.Flags().GetString("label")
			}
			if cmd.Flags().Changed("icon") {
				cat.Icon, _ = cmd.Flags().GetString("icon")
			}

			if err := store.EditCategory(ctx, cat); err != nil {
				return fmt.Errorf("failed to edit category: %w", err)
			}

			fmt.Println(cli.FormatSuccess(fmt.Sprintf("Updated category %s", cat.Value)))
			return nil
		},
	}

	cmd.Flags().StringP("label", "l", "", "new display label")
	cmd.Flags().StringP("icon", "i", "", "new display icon")

	return cmd
}

func deleteCategoryCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <key>",
		Short: "Delete a custom category",
		Long: `Delete a custom category. Default categories and categories still
referenced by transactions are refused; merge the category first to move its
transactions elsewhere. Any budget goal for the category is removed with it.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			store, cleanup, err := openStore(ctx)
			if err != nil {
				return err
			}
			defer cleanup()

			cat, ok := store.Category(args[0])
			if !ok {
				return fmt.Errorf("category %q not found", args[0])
			}

			if !confirm(cmd, fmt.Sprintf("Delete category %q?", cat.Label)) {
				fmt.Println(cli.SubtleStyle.Render("Aborted."))
				return nil
			}

			if err := store.DeleteCategory(ctx, args[0]); err != nil {
				if errors.Is(err, common.ErrCategoryInUse) {
					return common.NewUserError(fmt.Sprintf(
						"%q still has transactions; merge it into another category first", cat.Label), err)
				}
				if errors.Is(err, common.ErrDefaultCategory) {
					return common.NewUserError(fmt.Sprintf(
						"%q is a default category and cannot be deleted", cat.Label), err)
				}
				return fmt.Errorf("failed to delete category: %w", err)
			}

			fmt.Println(cli.FormatSuccess(fmt.Sprintf("Deleted category %q", cat.Label)))
			return nil
		},
	}
}

func mergeCategoriesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "merge <from> <to>",
		Short: "Merge one category into another",
		Long: `Reassign every transaction under <from> to <to>, then delete <from>
and its budget goal. Both categories must have the same type, and <from>
cannot be a default category. <to>'s own budget goal is left untouched.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			from, to := args[0], args[1]

			store, cleanup, err := openStore(ctx)
			if err != nil {
				return err
			}
			defer cleanup()

			if !confirm(cmd, fmt.Sprintf("Merge %q into %q? %q will be deleted.", from, to, from)) {
				fmt.Println(cli.SubtleStyle.Render("Aborted."))
				return nil
			}

			if err := store.MergeCategories(ctx, from, to); err != nil {
				if errors.Is(err, common.ErrTypeMismatch) {
					return common.NewUserError(fmt.Sprintf(
						"%q and %q track different transaction types and cannot be merged", from, to), err)
				}
				return fmt.Errorf("failed to merge categories: %w", err)
			}

			fmt.Println(cli.FormatSuccess(fmt.Sprintf("Merged %q into %q", from, to)))
			return nil
		},
	}
}
