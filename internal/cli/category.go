package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newCategoryCommand() *cobra.Command {
	categoryCmd := &cobra.Command{
		Use:   "category",
		Short: "Manage product categories",
	}

	var description string
	addCmd := &cobra.Command{
		Use:   "add <title>",
		Short: "Add a category",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a := appFrom(cmd)

			category, err := a.inventory.AddCategory(cmd.Context(), args[0], description)
			if rerr := rejected(err); rerr != nil {
				return rerr
			}
			if perr := a.printer.Message(fmt.Sprintf("Added category %q", category.Title), category); perr != nil {
				return perr
			}
			return err
		},
	}
	addCmd.Flags().StringVarP(&description, "description", "d", "", "Category description")

	listCmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List categories",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a := appFrom(cmd)
			return a.printer.Categories(a.inventory.Categories())
		},
	}

	categoryCmd.AddCommand(addCmd, listCmd)
	return categoryCmd
}
