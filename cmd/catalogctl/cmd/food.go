package cmd

import (
	"github.com/dfryer1193/travelcatalog/catalog/application"
	"github.com/dfryer1193/travelcatalog/catalog/domain"
	"github.com/spf13/cobra"
)

func newFoodCommand(opts *options) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "food",
		Aliases: []string{"foods"},
		Short:   "List, add and delete food",
	}

	cmd.AddCommand(
		&cobra.Command{
			Use:   "list",
			Short: "List food",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				a, err := opts.session(cmd)
				if err != nil {
					return err
				}
				defer a.Close()

				foods := a.Coordinator.Foods()
				return opts.render(cmd, foods, foodTable(foods))
			},
		},
		newFoodAddCommand(opts),
		&cobra.Command{
			Use:   "delete <id>",
			Short: "Delete a food",
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

				return deleted(cmd, domain.ResourceFood, id, a.Coordinator.DeleteFood(cmd.Context(), id))
			},
		},
	)

	return cmd
}

func newFoodAddCommand(opts *options) *cobra.Command {
	var (
		draft      application.FoodDraft
		province   string
		provinceID int64
		imagePath  string
	)

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add a food to an existing province",
		Example: `  catalogctl food add --name "Kerak Telor" --description "Spicy omelette" \
    --ingredient "Glutinous rice, duck egg" --location Jakarta --province Jakarta --image telor.jpg`,
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

			draft.Province = selection(province, provinceID)
			draft.Image = img
			rec, err := a.Coordinator.CreateFood(cmd.Context(), draft)
			return created(cmd, opts, rec, err, foodTable)
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&draft.FoodName, "name", "", "food name")
	flags.StringVar(&draft.FoodDescription, "description", "", "food description")
	flags.StringVar(&draft.FoodIngredient, "ingredient", "", "food ingredients")
	flags.StringVar(&draft.FoodLocation, "location", "", "where the food is found")
	flags.StringVar(&province, "province", "", "name of the parent province")
	flags.Int64Var(&provinceID, "province-id", 0, "id of the parent province")
	flags.StringVar(&imagePath, "image", "", "path of the food image")

	return cmd
}
