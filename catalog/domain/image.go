package domain

import "strings"

// EncodedImage is the wire and cache representation of an uploaded image.
// Data holds the base64 text of the file bytes, without any data: prefix.
type EncodedImage struct {
	FileName string
	MimeType string
	Data     string
}

// IsZero reports whether no image bytes are attached.
func (i EncodedImage) IsZero() bool {
	return strings.TrimSpace(i.Data) == ""
}

// DataURL renders the image as a displayable source.
func (i EncodedImage) DataURL() string {
	return "data:" + i.MimeType + ";base64," + i.Data
}
