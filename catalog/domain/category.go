package domain

// Category is the top level of the catalog.
type Category struct {
	ID        int64  `json:"id,omitempty" yaml:"id,omitempty"`
	Name      string `json:"name" yaml:"name"`
	ImageName string `json:"categoryImageName" yaml:"categoryImageName"`
	ImageType string `json:"categoryImageType" yaml:"categoryImageType"`
	ImageData string `json:"categoryImageData" yaml:"-"`
}

func NewCategory(name string, img EncodedImage) Category {
	return Category{
		Name:      name,
		ImageName: img.FileName,
		ImageType: img.MimeType,
		ImageData: img.Data,
	}
}

func (c Category) GetID() int64  { return c.ID }
func (c Category) Label() string { return c.Name }

func (c *Category) SetID(id int64) { c.ID = id }

// Image returns the attached image payload.
func (c Category) Image() EncodedImage {
	return EncodedImage{FileName: c.ImageName, MimeType: c.ImageType, Data: c.ImageData}
}

func (c Category) Validate() error {
	if blank(c.Name) {
		return NewValidationError(ResourceCategories, "name", "name is required")
	}
	if c.Image().IsZero() {
		return NewValidationError(ResourceCategories, "image", "an image must be uploaded")
	}
	return nil
}
