package cmd

import (
	"github.com/dfryer1193/travelcatalog/catalog/application"
	"github.com/dfryer1193/travelcatalog/catalog/domain"
	"github.com/spf13/cobra"
)

func newCategoryCommand(opts *options) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "category",
		Aliases: []string{"categories"},
		Short:   "List, add and delete categories",
	}

	cmd.AddCommand(
		&cobra.Command{
			Use:   "list",
			Short: "List categories",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				a, err := opts.session(cmd)
				if err != nil {
					return err
				}
				defer a.Close()

				categories := a.Coordinator.Categories()
				return opts.render(cmd, categories, categoryTable(categories))
			},
		},
		newCategoryAddCommand(opts),
		&cobra.Command{
			Use:   "delete <id>",
			Short: "Delete a category",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				id, err := parseID(args[0])
				if err != nil {
					return err
				}

				a, err := opts.session(cmd)
				if err != nil {
					return err
				}
				defer a.Close()

				return deleted(cmd, domain.ResourceCategories, id, a.Coordinator.DeleteCategory(cmd.Context(), id))
			},
		},
	)

	return cmd
}

func newCategoryAddCommand(opts *options) *cobra.Command {
	var name, imagePath string

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add a category",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			img, err := encodeImage(cmd, imagePath)
			if err != nil {
				return err
			}

			a, err := opts.session(cmd)
			if err != nil {
				return err
			}
			defer a.Close()

			rec, err := a.Coordinator.CreateCategory(cmd.Context(), application.CategoryDraft{Name: name, Image: img})
			return created(cmd, opts, rec, err, categoryTable)
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "category name")
	cmd.Flags().StringVar(&imagePath, "image", "", "path of the category image")

	return cmd
}
