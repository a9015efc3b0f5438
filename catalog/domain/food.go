package domain

// Food belongs to exactly one persisted Province.
type Food struct {
	ID              int64     `json:"id,omitempty" yaml:"id,omitempty"`
	FoodName        string    `json:"foodName" yaml:"foodName"`
	FoodDescription string    `json:"foodDescription" yaml:"foodDescription"`
	FoodIngredient  string    `json:"foodIngredient" yaml:"foodIngredient"`
	FoodLocation    string    `json:"foodLocation" yaml:"foodLocation"`
	Province        *Province `json:"province" yaml:"province"`
	ImageName       string    `json:"foodImageName" yaml:"foodImageName"`
	ImageType       string    `json:"foodImageType" yaml:"foodImageType"`
	ImageData       string    `json:"foodImageData" yaml:"-"`
}

func (f Food) GetID() int64  { return f.ID }
func (f Food) Label() string { return f.FoodName }

func (f *Food) SetID(id int64) { f.ID = id }

// Image returns the attached image payload.
func (f Food) Image() EncodedImage {
	return EncodedImage{FileName: f.ImageName, MimeType: f.ImageType, Data: f.ImageData}
}

// AttachImage copies the payload fields onto the record.
func (f *Food) AttachImage(img EncodedImage) {
	f.ImageName = img.FileName
	f.ImageType = img.MimeType
	f.ImageData = img.Data
}

// ParentID returns the id of the referenced province, or zero.
func (f Food) ParentID() int64 {
	if f.Province == nil {
		return 0
	}
	return f.Province.ID
}

func (f Food) Validate() error {
	required := []struct {
		field string
		value string
	}{
		{"foodName", f.FoodName},
		{"foodDescription", f.FoodDescription},
		{"foodIngredient", f.FoodIngredient},
		{"foodLocation", f.FoodLocation},
	}
	for _, r := range required {
		if blank(r.value) {
			return NewValidationError(ResourceFood, r.field, r.field+" is required")
		}
	}

	if f.ParentID() == 0 {
		return NewValidationError(ResourceFood, "province", "a persisted province must be selected")
	}
	if f.Image().IsZero() {
		return NewValidationError(ResourceFood, "image", "an image must be uploaded")
	}
	return nil
}
