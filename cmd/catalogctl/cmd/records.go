package cmd

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/dfryer1193/travelcatalog/catalog/application"
	"github.com/dfryer1193/travelcatalog/catalog/domain"
	"github.com/dfryer1193/travelcatalog/catalog/imagecodec"
	"github.com/dfryer1193/travelcatalog/internal/output"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

func parseID(arg string) (int64, error) {
	id, err := strconv.ParseInt(arg, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid id %q", arg)
	}
	return id, nil
}

// encodeImage reads the file named by --image. An empty path yields an
// empty image so validation reports it like any other missing field.
func encodeImage(cmd *cobra.Command, path string) (domain.EncodedImage, error) {
	if path == "" {
		return domain.EncodedImage{}, nil
	}

	select {
	case res := <-imagecodec.EncodeAsync(cmd.Context(), path):
		return res.Image, res.Err
	case <-cmd.Context().Done():
		return domain.EncodedImage{}, cmd.Context().Err()
	}
}

// selection builds a parent selection from the --<parent> and
// --<parent>-id flags. The id wins when both are set.
func selection(label string, id int64) application.Selection {
	if id != 0 {
		return application.SelectID(id)
	}
	return application.SelectLabel(label)
}

// created reports a new record. A cache failure is only a warning: the
// record exists remotely and the next session refetches.
func created[T domain.Record](cmd *cobra.Command, opts *options, rec T, err error, table func([]T) output.Data) error {
	if err != nil && !errors.Is(err, domain.ErrCache) {
		return err
	}
	if err != nil {
		log.Warn().Err(err).Msg("Record created but the local cache could not be updated")
	}
	return opts.render(cmd, rec, table([]T{rec}))
}

func deleted(cmd *cobra.Command, kind domain.ResourceType, id int64, err error) error {
	if err != nil && !errors.Is(err, domain.ErrCache) {
		return err
	}
	if err != nil {
		log.Warn().Err(err).Msg("Record deleted but the local cache could not be updated")
	}
	fmt.Fprintf(cmd.OutOrStdout(), "deleted %s %d\n", kind, id)
	return nil
}

func imageCell(img domain.EncodedImage) string {
	if img.IsZero() {
		return "-"
	}
	return fmt.Sprintf("%s (%s)", img.FileName, img.MimeType)
}

func idCell(id int64) string {
	return strconv.FormatInt(id, 10)
}

func categoryTable(categories []domain.Category) output.Data {
	data := output.Data{Headers: []string{"ID", "NAME", "IMAGE"}}
	for _, c := range categories {
		data.Rows = append(data.Rows, []string{idCell(c.ID), c.Name, imageCell(c.Image())})
	}
	return data
}

func provinceTable(provinces []domain.Province) output.Data {
	data := output.Data{Headers: []string{"ID", "NAME", "LOCATION", "CATEGORY", "IMAGE"}}
	for _, p := range provinces {
		category := "-"
		if p.Category != nil {
			category = p.Category.Name
		}
		data.Rows = append(data.Rows, []string{idCell(p.ID), p.ProvinceName, p.Location, category, imageCell(p.Image())})
	}
	return data
}

func foodTable(foods []domain.Food) output.Data {
	data := output.Data{Headers: []string{"ID", "NAME", "DESCRIPTION", "INGREDIENTS", "LOCATION", "PROVINCE", "IMAGE"}}
	for _, f := range foods {
		province := "-"
		if f.Province != nil {
			province = f.Province.ProvinceName
		}
		data.Rows = append(data.Rows, []string{
			idCell(f.ID), f.FoodName, f.FoodDescription, f.FoodIngredient, f.FoodLocation, province, imageCell(f.Image()),
		})
	}
	return data
}
