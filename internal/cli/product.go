package cli

import (
	"fmt"

	"inventory/internal/domain"
	"inventory/internal/editor"
	"inventory/internal/view"

	"github.com/spf13/cobra"
)

func newProductCommand() *cobra.Command {
	productCmd := &cobra.Command{
		Use:   "product",
		Short: "Manage products",
	}

	productCmd.AddCommand(
		newProductAddCommand(),
		newProductListCommand(),
		newProductShowCommand(),
		newProductEditCommand(),
		newProductDeleteCommand(),
	)
	return productCmd
}

func newProductAddCommand() *cobra.Command {
	var (
		quantity int
		category string
	)

	cmd := &cobra.Command{
		Use:   "add <title>",
		Short: "Add a product",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a := appFrom(cmd)

			product, err := a.inventory.AddProduct(cmd.Context(), args[0], quantity, category)
			if rerr := rejected(err); rerr != nil {
				return rerr
			}
			if perr := a.printer.Message(fmt.Sprintf("Added product %d", product.ID), toRow(product)); perr != nil {
				return perr
			}
			return err
		},
	}

	cmd.Flags().IntVarP(&quantity, "quantity", "q", 0, "Quantity in stock, must be positive")
	cmd.Flags().StringVarP(&category, "category", "c", "", "Category title")
	cmd.MarkFlagRequired("quantity")
	cmd.MarkFlagRequired("category")
	return cmd
}

func newProductListCommand() *cobra.Command {
	var search, category, sort string

	cmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List products, filtered and sorted by creation time",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a := appFrom(cmd)

			derived := view.Derive(a.inventory.Products(), view.Criteria{
				Search:   search,
				Category: category,
				Order:    view.ParseSortOrder(sort),
			})
			return a.printer.Products(derived)
		},
	}

	cmd.Flags().StringVarP(&search, "search", "s", "", "Only titles containing this text, ignoring case")
	cmd.Flags().StringVarP(&category, "category", "c", "", "Only this exact category")
	cmd.Flags().StringVar(&sort, "sort", string(view.SortLatest), "Sort order: latest or earliest")
	return cmd
}

func newProductShowCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "show <id>",
		Short: "Show one product",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a := appFrom(cmd)

			session := editor.Open(a.inventory, args[0])
			if session.State() != editor.StateFound {
				return fmt.Errorf("%w: %s", editor.ErrNotFound, args[0])
			}
			return a.printer.Product(session.Product())
		},
	}
}

func newProductEditCommand() *cobra.Command {
	var (
		title, category, description string
		quantity                     int
	)

	cmd := &cobra.Command{
		Use:   "edit <id>",
		Short: "Edit a product's title, quantity, category or description",
		Long: `Edit stages the given fields on top of the stored product and commits them
in one replacement. Fields that are not given keep their stored values. The id
and creation time never change.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a := appFrom(cmd)

			session := editor.Open(a.inventory, args[0])
			if session.State() != editor.StateFound {
				return fmt.Errorf("%w: %s", editor.ErrNotFound, args[0])
			}

			fields := session.Staged()
			flags := cmd.Flags()
			if flags.Changed("title") {
				fields.Title = title
			}
			if flags.Changed("quantity") {
				fields.Quantity = quantity
			}
			if flags.Changed("category") {
				fields.Category = category
			}
			if flags.Changed("description") {
				fields.Description = description
			}
			if err := session.Stage(fields); err != nil {
				return err
			}

			committed, err := session.Commit(cmd.Context())
			if rerr := rejected(err); rerr != nil {
				return rerr
			}
			if committed == nil {
				committed = currentProduct(a, session)
			}
			if perr := a.printer.Message(fmt.Sprintf("Updated product %d", committed.ID), toRow(committed)); perr != nil {
				return perr
			}
			return err
		},
	}

	cmd.Flags().StringVarP(&title, "title", "t", "", "New title")
	cmd.Flags().IntVarP(&quantity, "quantity", "q", 0, "New quantity")
	cmd.Flags().StringVarP(&category, "category", "c", "", "New category")
	cmd.Flags().StringVarP(&description, "description", "d", "", "New description")
	return cmd
}

// currentProduct re-reads a product whose commit was applied but not saved
func currentProduct(a *app, session *editor.Session) *domain.Product {
	loaded := session.Product()
	if stored, ok := a.inventory.FindProduct(loaded.ID); ok {
		return stored
	}
	return loaded
}

func newProductDeleteCommand() *cobra.Command {
	return &cobra.Command{
		Use:     "delete <id>",
		Aliases: []string{"rm"},
		Short:   "Delete a product",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a := appFrom(cmd)

			id, err := editor.ParseID(args[0])
			if err != nil {
				return fmt.Errorf("invalid product id %q", args[0])
			}

			removed, err := a.inventory.DeleteProduct(cmd.Context(), id)
			if rerr := rejected(err); rerr != nil {
				return rerr
			}

			msg := fmt.Sprintf("Deleted product %d", id)
			if !removed {
				msg = fmt.Sprintf("No product with id %d", id)
			}
			if perr := a.printer.Message(msg, map[string]interface{}{"id": id, "removed": removed}); perr != nil {
				return perr
			}
			return err
		},
	}
}
