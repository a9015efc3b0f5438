package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/dfryer1193/travelcatalog/catalog/domain"
	"github.com/dfryer1193/travelcatalog/catalog/imagecodec"
	"github.com/dfryer1193/travelcatalog/internal/output"
	"github.com/spf13/cobra"
)

type imageInfo struct {
	FileName string `json:"fileName" yaml:"fileName"`
	MimeType string `json:"mimeType" yaml:"mimeType"`
	Size     int    `json:"size" yaml:"size"`
	DataURL  string `json:"dataUrl,omitempty" yaml:"dataUrl,omitempty"`
}

func newImageCommand(opts *options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "image",
		Short: "Inspect encoded images",
	}
	cmd.AddCommand(newImageShowCommand(opts), newImageExportCommand(opts))
	return cmd
}

func newImageShowCommand(opts *options) *cobra.Command {
	var withDataURL bool

	cmd := &cobra.Command{
		Use:   "show <data-url|file>",
		Short: "Show the media type and size of an image file or data URL",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			info, err := describeImage(cmd, args[0])
			if err != nil {
				return err
			}
			if !withDataURL {
				info.DataURL = ""
			}

			table := output.Data{
				Headers: []string{"FILE", "TYPE", "SIZE"},
				Rows:    [][]string{{info.FileName, info.MimeType, fmt.Sprint(info.Size)}},
			}
			return opts.render(cmd, info, table)
		},
	}

	cmd.Flags().BoolVar(&withDataURL, "data-url", false, "include the data URL in json and yaml output")
	return cmd
}

func describeImage(cmd *cobra.Command, src string) (imageInfo, error) {
	if strings.HasPrefix(src, "data:") {
		mimeType, content, err := imagecodec.ParseDataURL(src)
		if err != nil {
			return imageInfo{}, err
		}
		return imageInfo{FileName: "-", MimeType: mimeType, Size: len(content), DataURL: src}, nil
	}

	img, err := encodeImage(cmd, src)
	if err != nil {
		return imageInfo{}, err
	}
	content, err := imagecodec.Decode(img)
	if err != nil {
		return imageInfo{}, err
	}
	return imageInfo{FileName: img.FileName, MimeType: img.MimeType, Size: len(content), DataURL: img.DataURL()}, nil
}

func newImageExportCommand(opts *options) *cobra.Command {
	var out string

	cmd := &cobra.Command{
		Use:   "export <category|province|food> <id>",
		Short: "Write the image attached to a record to a file",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[1])
			if err != nil {
				return err
			}

			a, err := opts.session(cmd)
			if err != nil {
				return err
			}
			defer a.Close()

			var (
				img   domain.EncodedImage
				found bool
			)
			switch args[0] {
			case "category", "categories":
				img, found = findImage(a.Coordinator.Categories(), id, domain.Category.Image)
			case "province", "provinces":
				img, found = findImage(a.Coordinator.Provinces(), id, domain.Province.Image)
			case "food", "foods":
				img, found = findImage(a.Coordinator.Foods(), id, domain.Food.Image)
			default:
				return fmt.Errorf("unknown resource %q", args[0])
			}
			if !found {
				return fmt.Errorf("%s %d: %w", args[0], id, domain.ErrNotFound)
			}

			content, err := imagecodec.Decode(img)
			if err != nil {
				return err
			}

			path := out
			if path == "" {
				path = img.FileName
			}
			if err := os.WriteFile(path, content, 0o644); err != nil {
				return fmt.Errorf("failed to write image: %w", err)
			}

			fmt.Fprintf(cmd.OutOrStdout(), "wrote %s (%s, %d bytes)\n", path, img.MimeType, len(content))
			return nil
		},
	}

	cmd.Flags().StringVar(&out, "out", "", "output path (default is the stored file name)")
	return cmd
}

func findImage[T domain.Record](records []T, id int64, image func(T) domain.EncodedImage) (domain.EncodedImage, bool) {
	for _, r := range records {
		if r.GetID() == id {
			return image(r), true
		}
	}
	return domain.EncodedImage{}, false
}
