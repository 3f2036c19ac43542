package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Veraticus/xpense/internal/cli"
	"github.com/Veraticus/xpense/internal/form"
	"github.com/Veraticus/xpense/internal/model"
)

func categoriesCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "categories",
		Aliases: []string{"category", "cat"},
		Short:   "Manage expense categories",
		Long:    `List, add, update, and delete the categories expenses are filed under.`,
	}

	cmd.AddCommand(listCategoriesCmd(a))
	cmd.AddCommand(addCategoryCmd(a))
	cmd.AddCommand(updateCategoryCmd(a))
	cmd.AddCommand(deleteCategoryCmd(a))

	return cmd
}

func listCategoriesCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List all categories",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			if _, err := a.signedIn(ctx); err != nil {
				return err
			}
			defer a.close()

			categories, err := a.repo.GetCategories(ctx)
			if err != nil {
				return fmt.Errorf("failed to get categories: %w", err)
			}

			table := cli.NewTable(cmd.OutOrStdout(), "ID", "Name", "Color")
			for _, c := range categories {
				table.Row(c.ID, cli.Swatch(c.Color)+" "+c.Name, c.Color)
			}
			return table.Flush()
		},
	}
}

func addCategoryCmd(a *app) *cobra.Command {
	var color string

	cmd := &cobra.Command{
		Use:   "add <name>",
		Short: "Add a new category",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			patch, err := form.CategoryForm{
				Name:  model.Ptr(args[0]),
				Color: model.Ptr(color),
			}.Patch()
			if err != nil {
				return err
			}

			if _, err := a.signedIn(ctx); err != nil {
				return err
			}
			defer a.close()

			var category model.Category
			err = retryConflicts(ctx, func() error {
				category, err = a.repo.SaveCategory(ctx, patch)
				return err
			})
			if err != nil {
				return fmt.Errorf("failed to create category: %w", err)
			}

			fmt.Fprintln(cmd.OutOrStdout(), cli.FormatSuccess(
				fmt.Sprintf("Created category %s %q (ID: %s)", cli.Swatch(category.Color), category.Name, category.ID)))
			return nil
		},
	}

	cmd.Flags().StringVar(&color, "color", "#6366f1", "hex color, e.g. #10b981")

	return cmd
}

func updateCategoryCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "update <id>",
		Short: "Rename or recolor a category",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			f := form.CategoryForm{
				ID:    args[0],
				Name:  stringFlag(cmd, "name"),
				Color: stringFlag(cmd, "color"),
			}
			if f.Name == nil && f.Color == nil {
				return fmt.Errorf("must specify --name or --color to update")
			}
			patch, err := f.Patch()
			if err != nil {
				return err
			}

			if _, err := a.signedIn(ctx); err != nil {
				return err
			}
			defer a.close()

			var category model.Category
			err = retryConflicts(ctx, func() error {
				category, err = a.repo.SaveCategory(ctx, patch)
				return err
			})
			if err != nil {
				return fmt.Errorf("failed to update category: %w", err)
			}

			fmt.Fprintln(cmd.OutOrStdout(), cli.FormatSuccess(
				fmt.Sprintf("Updated category %s %q", cli.Swatch(category.Color), category.Name)))
			return nil
		},
	}

	cmd.Flags().String("name", "", "new name")
	cmd.Flags().String("color", "", "new hex color")

	return cmd
}

func deleteCategoryCmd(a *app) *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a category",
		Long: `Delete a category. Its expenses move to the first remaining
category. The last remaining category cannot be deleted.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			id := args[0]

			if _, err := a.signedIn(ctx); err != nil {
				return err
			}
			defer a.close()

			categories, err := a.repo.GetCategories(ctx)
			if err != nil {
				return fmt.Errorf("failed to get categories: %w", err)
			}
			idx := model.FindCategory(categories, id)
			if idx < 0 {
				return fmt.Errorf("category %q not found", id)
			}

			question := fmt.Sprintf("Delete category %q? Its expenses will be moved.", categories[idx].Name)
			ok, err := confirm(cmd, force, question)
			if err != nil || !ok {
				return err
			}

			if err := retryConflicts(ctx, func() error {
				return a.repo.DeleteCategory(ctx, id)
			}); err != nil {
				return fmt.Errorf("failed to delete category: %w", err)
			}

			fmt.Fprintln(cmd.OutOrStdout(), cli.FormatSuccess(fmt.Sprintf("Deleted category %q", categories[idx].Name)))
			return nil
		},
	}

	cmd.Flags().BoolVarP(&force, "force", "f", false, "Skip confirmation prompt")

	return cmd
}
