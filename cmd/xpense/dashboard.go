package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/Veraticus/xpense/internal/cli"
	"github.com/Veraticus/xpense/internal/model"
	"github.com/Veraticus/xpense/internal/query"
)

func dashboardCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:     "dashboard",
		Aliases: []string{"summary"},
		Short:   "Show total spend, spend per category and recent activity",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			user, err := a.signedIn(ctx)
			if err != nil {
				return err
			}
			defer a.close()

			var (
				categories []model.Category
				expenses   model.ExpenseList
			)
			g, gctx := errgroup.WithContext(ctx)
			g.Go(func() error {
				var err error
				categories, err = a.repo.GetCategories(gctx)
				return err
			})
			g.Go(func() error {
				var err error
				expenses, err = a.repo.GetExpenses(gctx)
				return err
			})
			if err := g.Wait(); err != nil {
				return fmt.Errorf("failed to load dashboard: %w", err)
			}

			d := query.Summarize(expenses.Items, categories, a.currency(user))
			renderDashboard(cmd.OutOrStdout(), user, d)
			return nil
		},
	}
}

func renderDashboard(out io.Writer, user model.User, d query.Dashboard) {
	fmt.Fprintln(out, cli.FormatTitle("Hello, "+user.Name))

	total := fmt.Sprintf("%s\n%s",
		cli.FormatAmount(d.Currency, d.Total),
		cli.SubtleStyle.Render(fmt.Sprintf("%d expenses", d.Count)))
	fmt.Fprintln(out, cli.RenderBox("Total spend", total))

	if len(d.Distribution) > 0 {
		fmt.Fprintln(out)
		fmt.Fprintln(out, cli.BoldStyle.Render(cli.ChartIcon+" By category"))
		for _, ct := range d.Distribution {
			fmt.Fprintf(out, "  %s %-12s %s %s\n",
				cli.Swatch(ct.Category.Color),
				ct.Category.Name,
				share(ct.Total, d.Total),
				cli.FormatAmount(d.Currency, ct.Total))
		}
	}

	fmt.Fprintln(out)
	fmt.Fprintln(out, cli.BoldStyle.Render("Recent activity"))
	if len(d.Recent) == 0 {
		fmt.Fprintln(out, cli.SubtleStyle.Render("  Nothing yet. Use 'xpense expenses add' to record an expense."))
		return
	}
	for _, r := range d.Recent {
		note := r.Expense.Note
		if note == "" {
			note = r.Category
		}
		fmt.Fprintf(out, "  %s %s  %s  %s\n",
			cli.Swatch(r.Color),
			note,
			cli.SubtleStyle.Render(r.Category),
			cli.FormatAmount(r.Expense.Currency, r.Expense.Amount))
	}
}

// share renders part as a 20-cell bar of whole.
func share(part, whole float64) string {
	const width = 20
	filled := 0
	if whole > 0 {
		filled = int(part / whole * width)
	}
	filled = min(max(filled, 0), width)
	return strings.Repeat("█", filled) + strings.Repeat("░", width-filled)
}
