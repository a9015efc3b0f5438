package domain

// Province belongs to exactly one persisted Category. The parent travels
// as a full object on the wire.
type Province struct {
	ID           int64     `json:"id,omitempty" yaml:"id,omitempty"`
	ProvinceName string    `json:"provinceName" yaml:"provinceName"`
	Location     string    `json:"location" yaml:"location"`
	Category     *Category `json:"category" yaml:"category"`
	ImageName    string    `json:"provinceImageName" yaml:"provinceImageName"`
	ImageType    string    `json:"provinceImageType" yaml:"provinceImageType"`
	ImageData    string    `json:"provinceImageData" yaml:"-"`
}

func NewProvince(name, location string, category *Category, img EncodedImage) Province {
	return Province{
		ProvinceName: name,
		Location:     location,
		Category:     category,
		ImageName:    img.FileName,
		ImageType:    img.MimeType,
		ImageData:    img.Data,
	}
}

func (p Province) GetID() int64  { return p.ID }
func (p Province) Label() string { return p.ProvinceName }

func (p *Province) SetID(id int64) { p.ID = id }

// Image returns the attached image payload.
func (p Province) Image() EncodedImage {
	return EncodedImage{FileName: p.ImageName, MimeType: p.ImageType, Data: p.ImageData}
}

// ParentID returns the id of the referenced category, or zero.
func (p Province) ParentID() int64 {
	if p.Category == nil {
		return 0
	}
	return p.Category.ID
}

func (p Province) Validate() error {
	switch {
	case blank(p.ProvinceName):
		return NewValidationError(ResourceProvinces, "provinceName", "province name is required")
	case blank(p.Location):
		return NewValidationError(ResourceProvinces, "location", "location is required")
	case p.ParentID() == 0:
		return NewValidationError(ResourceProvinces, "category", "a persisted category must be selected")
	case p.Image().IsZero():
		return NewValidationError(ResourceProvinces, "image", "an image must be uploaded")
	}
	return nil
}
