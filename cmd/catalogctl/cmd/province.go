package cmd

import (
	"github.com/dfryer1193/travelcatalog/catalog/application"
	"github.com/dfryer1193/travelcatalog/catalog/domain"
	"github.com/spf13/cobra"
)

func newProvinceCommand(opts *options) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "province",
		Aliases: []string{"provinces"},
		Short:   "List, add and delete provinces",
	}

	cmd.AddCommand(
		&cobra.Command{
			Use:   "list",
			Short: "List provinces",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				a, err := opts.session(cmd)
				if err != nil {
					return err
				}
				defer a.Close()

				provinces := a.Coordinator.Provinces()
				return opts.render(cmd, provinces, provinceTable(provinces))
			},
		},
		newProvinceAddCommand(opts),
		&cobra.Command{
			Use:   "delete <id>",
			Short: "Delete a province",
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

				return deleted(cmd, domain.ResourceProvinces, id, a.Coordinator.DeleteProvince(cmd.Context(), id))
			},
		},
	)

	return cmd
}

func newProvinceAddCommand(opts *options) *cobra.Command {
	var (
		draft      application.ProvinceDraft
		category   string
		categoryID int64
		imagePath  string
	)

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add a province to an existing category",
		Example: `  catalogctl province add --name Jakarta --location West --category Java --image jakarta.png
  catalogctl province add --name Jakarta --location West --category-id 1 --image jakarta.png`,
		Args: cobra.NoArgs,
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

			draft.Category = selection(category, categoryID)
			draft.Image = img
			rec, err := a.Coordinator.CreateProvince(cmd.Context(), draft)
			return created(cmd, opts, rec, err, provinceTable)
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&draft.ProvinceName, "name", "", "province name")
	flags.StringVar(&draft.Location, "location", "", "province location")
	flags.StringVar(&category, "category", "", "name of the parent category")
	flags.Int64Var(&categoryID, "category-id", 0, "id of the parent category")
	flags.StringVar(&imagePath, "image", "", "path of the province image")

	return cmd
}
