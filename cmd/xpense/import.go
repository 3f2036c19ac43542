package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"

	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"

	"github.com/Veraticus/xpense/internal/cli"
	"github.com/Veraticus/xpense/internal/model"
	"github.com/Veraticus/xpense/internal/ofx"
)

func importExpensesCmd(a *app) *cobra.Command {
	var (
		categoryID string
		dryRun     bool
	)

	cmd := &cobra.Command{
		Use:   "import [files...]",
		Short: "Import debits from OFX/QFX statements",
		Long: `Import the debits of OFX or QFX (Quicken) statements exported from your
bank as expenses. Credits are skipped. All files are saved together, or
not at all.

Examples:
  # Import a single statement
  xpense expenses import ~/Downloads/hdfc_mar_2025.ofx

  # Import every statement in a directory into Shopping
  xpense expenses import --category cat3 ~/Downloads/*.qfx`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()

			files, err := expandFiles(args)
			if err != nil {
				return err
			}

			handler := cli.NewInterruptHandler(out)
			ctx, stop := handler.HandleInterrupts(cmd.Context(), "Nothing was imported.")
			defer stop()

			bar := progressbar.NewOptions(len(files),
				progressbar.OptionSetWriter(cmd.ErrOrStderr()),
				progressbar.OptionSetDescription("Parsing statements"),
				progressbar.OptionShowCount(),
				progressbar.OptionSetWidth(40),
				progressbar.OptionClearOnFinish(),
			)

			parser := ofx.NewParser(slog.Default())
			seen := make(map[string]bool)
			var drafts []ofx.Draft

			for _, path := range files {
				found, err := parseStatement(ctx, parser, path)
				if err != nil {
					if ctx.Err() != nil {
						return ctx.Err()
					}
					slog.Error("Failed to parse OFX file", "file", path, "error", err)
				}

				added := 0
				for _, d := range found {
					key := draftKey(d)
					if seen[key] {
						continue
					}
					seen[key] = true
					drafts = append(drafts, d)
					added++
				}
				slog.Debug("Processed file",
					"file", filepath.Base(path),
					"debits", len(found),
					"duplicates", len(found)-added)

				_ = bar.Add(1)
			}
			_ = bar.Finish()

			if len(drafts) == 0 {
				fmt.Fprintln(out, cli.FormatWarning("No debits found to import."))
				return nil
			}

			if dryRun {
				fmt.Fprintln(out, cli.FormatInfo(fmt.Sprintf("Dry run: %d expenses would be imported.", len(drafts))))
				return nil
			}

			user, err := a.signedIn(ctx)
			if err != nil {
				return err
			}
			defer a.close()

			patches := make([]model.ExpensePatch, len(drafts))
			for i, d := range drafts {
				if d.Currency == "" {
					d.Currency = a.currency(user)
				}
				patches[i] = d.Patch(categoryID)
			}

			var created []model.Expense
			err = retryConflicts(ctx, func() error {
				created, err = a.repo.ImportExpenses(ctx, patches)
				return err
			})
			if err != nil {
				return fmt.Errorf("failed to import expenses: %w", err)
			}

			fmt.Fprintln(out, cli.FormatSuccess(fmt.Sprintf("Imported %d expenses from %d files.", len(created), len(files))))
			return nil
		},
	}

	cmd.Flags().StringVar(&categoryID, "category", "", "category id for imported expenses (default: Other)")
	cmd.Flags().BoolVarP(&dryRun, "dry-run", "d", false, "Parse without saving")

	return cmd
}

// expandFiles resolves glob patterns to the files they name.
func expandFiles(patterns []string) ([]string, error) {
	var files []string
	for _, pattern := range patterns {
		matches, err := filepath.Glob(pattern)
		if err != nil {
			return nil, fmt.Errorf("invalid pattern %s: %w", pattern, err)
		}
		if len(matches) == 0 {
			if _, err := os.Stat(pattern); err == nil {
				files = append(files, pattern)
			} else {
				slog.Warn("No files found matching pattern", "pattern", pattern)
			}
			continue
		}
		files = append(files, matches...)
	}

	if len(files) == 0 {
		return nil, fmt.Errorf("no files found to import")
	}
	return files, nil
}

func parseStatement(ctx context.Context, parser *ofx.Parser, path string) ([]ofx.Draft, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	return parser.ParseFile(ctx, f)
}

// draftKey identifies a debit across overlapping statements. FITIDs are
// only unique per account, so date and amount are part of the key.
func draftKey(d ofx.Draft) string {
	id := d.FitID
	if id == "" {
		id = d.Note
	}
	return d.Date.Format("2006-01-02") + "|" + strconv.FormatFloat(d.Amount, 'f', 2, 64) + "|" + id
}
