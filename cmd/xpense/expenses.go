package main

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/Veraticus/xpense/internal/cli"
	"github.com/Veraticus/xpense/internal/form"
	"github.com/Veraticus/xpense/internal/model"
	"github.com/Veraticus/xpense/internal/query"
)

func expensesCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "expenses",
		Aliases: []string{"expense", "exp"},
		Short:   "Record and browse expenses",
	}

	cmd.AddCommand(listExpensesCmd(a))
	cmd.AddCommand(addExpenseCmd(a))
	cmd.AddCommand(updateExpenseCmd(a))
	cmd.AddCommand(deleteExpenseCmd(a))
	cmd.AddCommand(importExpensesCmd(a))

	return cmd
}

func listExpensesCmd(a *app) *cobra.Command {
	var (
		categoryID string
		from       string
		to         string
		limit      int
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List expenses, newest first",
		Long: `List expenses, newest first, optionally filtered by category and an
inclusive date range.

Examples:
  xpense expenses list --category cat1
  xpense expenses list --from 2025-03-01 --to 2025-03-31 --limit 50`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			criteria := query.Criteria{CategoryID: categoryID, Location: a.cfg.Location()}
			if from != "" {
				day, err := query.ParseDay(from)
				if err != nil {
					return err
				}
				criteria.From = &day
			}
			if to != "" {
				day, err := query.ParseDay(to)
				if err != nil {
					return err
				}
				criteria.To = &day
			}
			if !cmd.Flags().Changed("limit") {
				limit = a.cfg.PageSize
			}

			if _, err := a.signedIn(ctx); err != nil {
				return err
			}
			defer a.close()

			categories, err := a.repo.GetCategories(ctx)
			if err != nil {
				return fmt.Errorf("failed to get categories: %w", err)
			}
			list, err := a.repo.GetExpenses(ctx)
			if err != nil {
				return fmt.Errorf("failed to get expenses: %w", err)
			}

			matched := query.Filter(list.Items, criteria)
			page := query.Paginate(matched, limit)

			out := cmd.OutOrStdout()
			if len(page.Items) == 0 {
				fmt.Fprintln(out, cli.InfoStyle.Render("No expenses found. Use 'xpense expenses add' to record one."))
				return nil
			}

			if err := renderExpenses(out, page.Items, categories, criteria.Location); err != nil {
				return err
			}

			fmt.Fprintln(out, cli.SubtleStyle.Render(fmt.Sprintf("\nShowing %d of %d", len(page.Items), len(matched))))
			if page.HasMore {
				fmt.Fprintln(out, cli.SubtleStyle.Render(
					fmt.Sprintf("More available, rerun with --limit %d", query.NextLimit(limit, a.cfg.PageSize))))
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&categoryID, "category", query.AllCategories, "category id, or 'all'")
	cmd.Flags().StringVar(&from, "from", "", "first day to include (YYYY-MM-DD)")
	cmd.Flags().StringVar(&to, "to", "", "last day to include (YYYY-MM-DD)")
	cmd.Flags().IntVarP(&limit, "limit", "n", 0, "maximum rows to show (default display.page_size)")

	return cmd
}

func renderExpenses(out io.Writer, expenses []model.Expense, categories []model.Category, loc *time.Location) error {
	table := cli.NewTable(out, "ID", "Date", "Category", "Amount", "Note")
	for _, e := range expenses {
		category := query.CategoryName(categories, e.CategoryID)
		if idx := model.FindCategory(categories, e.CategoryID); idx >= 0 {
			category = cli.Swatch(categories[idx].Color) + " " + category
		}
		table.Row(
			e.ID,
			query.DayOf(e.Date.In(loc)).String(),
			category,
			cli.FormatAmount(e.Currency, e.Amount),
			e.Note,
		)
	}
	return table.Flush()
}

func expenseFlags(cmd *cobra.Command) {
	cmd.Flags().Float64("amount", 0, "amount spent")
	cmd.Flags().String("currency", "", "3-letter currency code (default: your profile currency)")
	cmd.Flags().String("date", "", "day of the expense (YYYY-MM-DD, default: now)")
	cmd.Flags().String("category", "", "category id (default: Other)")
	cmd.Flags().String("note", "", "free-text note")
}

func expenseForm(cmd *cobra.Command) form.ExpenseForm {
	f := form.ExpenseForm{
		Amount:     float64Flag(cmd, "amount"),
		Currency:   stringFlag(cmd, "currency"),
		Date:       stringFlag(cmd, "date"),
		CategoryID: stringFlag(cmd, "category"),
		Note:       stringFlag(cmd, "note"),
	}
	if f.Currency != nil {
		f.Currency = model.Ptr(strings.ToUpper(*f.Currency))
	}
	return f
}

func addExpenseCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "add",
		Short: "Record a new expense",
		Long: `Record a new expense.

Examples:
  xpense expenses add --amount 1200 --category cat1 --note "Dinner at Taj"
  xpense expenses add --amount 450 --date 2025-03-13 --category cat2`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			if !cmd.Flags().Changed("amount") {
				return fmt.Errorf("--amount is required")
			}
			patch, err := expenseForm(cmd).Patch(a.cfg.Location())
			if err != nil {
				return err
			}

			user, err := a.signedIn(ctx)
			if err != nil {
				return err
			}
			defer a.close()

			if patch.Currency == nil {
				patch.Currency = model.Ptr(a.currency(user))
			}

			var expense model.Expense
			err = retryConflicts(ctx, func() error {
				expense, err = a.repo.AddExpense(ctx, patch)
				return err
			})
			if err != nil {
				return fmt.Errorf("failed to add expense: %w", err)
			}

			fmt.Fprintln(cmd.OutOrStdout(), cli.FormatSuccess(fmt.Sprintf("Added %s (ID: %s)",
				cli.FormatAmount(expense.Currency, expense.Amount), expense.ID)))
			return nil
		},
	}

	expenseFlags(cmd)

	return cmd
}

func updateExpenseCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "update <id>",
		Short: "Change an existing expense",
		Long:  `Change an existing expense. Only the flags you pass are changed.`,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			id := args[0]

			f := expenseForm(cmd)
			if f == (form.ExpenseForm{}) {
				return fmt.Errorf("nothing to update, pass at least one of --amount, --currency, --date, --category, --note")
			}
			patch, err := f.Patch(a.cfg.Location())
			if err != nil {
				return err
			}

			if _, err := a.signedIn(ctx); err != nil {
				return err
			}
			defer a.close()

			var expense model.Expense
			err = retryConflicts(ctx, func() error {
				expense, err = a.repo.UpdateExpense(ctx, id, patch)
				return err
			})
			if err != nil {
				return fmt.Errorf("failed to update expense: %w", err)
			}

			fmt.Fprintln(cmd.OutOrStdout(), cli.FormatSuccess(fmt.Sprintf("Updated expense %s: %s",
				expense.ID, cli.FormatAmount(expense.Currency, expense.Amount))))
			return nil
		},
	}

	expenseFlags(cmd)

	return cmd
}

func deleteExpenseCmd(a *app) *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete an expense",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			id := args[0]

			if _, err := a.signedIn(ctx); err != nil {
				return err
			}
			defer a.close()

			expense, err := a.repo.GetExpense(ctx, id)
			if err != nil {
				return err
			}

			question := fmt.Sprintf("Delete %s %s expense from %s?",
				expense.Currency, formatPlain(expense.Amount), query.DayOf(expense.Date.In(a.cfg.Location())))
			ok, err := confirm(cmd, force, question)
			if err != nil || !ok {
				return err
			}

			if err := retryConflicts(ctx, func() error {
				return a.repo.DeleteExpense(ctx, id)
			}); err != nil {
				return fmt.Errorf("failed to delete expense: %w", err)
			}

			fmt.Fprintln(cmd.OutOrStdout(), cli.FormatSuccess("Deleted expense "+id))
			return nil
		},
	}

	cmd.Flags().BoolVarP(&force, "force", "f", false, "Skip confirmation prompt")

	return cmd
}

func formatPlain(amount float64) string {
	s := fmt.Sprintf("%.2f", amount)
	return strings.TrimSuffix(s, ".00")
}
