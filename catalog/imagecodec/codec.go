// Package imagecodec turns a user-selected file into the base64 payload that
// travels inside a record, and turns a display source back into bytes.
package imagecodec

import (
	"bytes"
	"context"
	"encoding/base64"
	"fmt"
	"io"
	"mime"
	"os"
	"path/filepath"
	"strings"

	"github.com/dfryer1193/travelcatalog/catalog/domain"
	"github.com/gabriel-vasile/mimetype"
)

// DecodeError reports a failed read or decode. Callers treat the upload as
// missing.
type DecodeError struct {
	Op   string
	Path string
	Err  error
}

func (e *DecodeError) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("image %s %s: %v", e.Op, e.Path, e.Err)
	}
	return fmt.Sprintf("image %s: %v", e.Op, e.Err)
}

func (e *DecodeError) Unwrap() error {
	return e.Err
}

// Result is delivered by EncodeAsync.
type Result struct {
	Image domain.EncodedImage
	Err   error
}

// Encode reads r to the end and returns its base64 payload. declaredType
// wins when set; otherwise the type comes from the file extension and, as a
// last resort, from the content itself. No type is rejected.
func Encode(ctx context.Context, fileName, declaredType string, r io.Reader) (domain.EncodedImage, error) {
	if err := ctx.Err(); err != nil {
		return domain.EncodedImage{}, &DecodeError{Op: "read", Path: fileName, Err: err}
	}

	content, err := io.ReadAll(r)
	if err != nil {
		return domain.EncodedImage{}, &DecodeError{Op: "read", Path: fileName, Err: err}
	}

	return domain.EncodedImage{
		FileName: fileName,
		MimeType: mediaType(fileName, declaredType, content),
		Data:     base64.StdEncoding.EncodeToString(content),
	}, nil
}

// EncodeFile opens path and encodes it under its base name.
func EncodeFile(ctx context.Context, path string) (domain.EncodedImage, error) {
	f, err := os.Open(path)
	if err != nil {
		return domain.EncodedImage{}, &DecodeError{Op: "open", Path: path, Err: err}
	}
	defer f.Close()

	return Encode(ctx, filepath.Base(path), "", f)
}

// EncodeAsync runs EncodeFile on its own goroutine. The channel receives
// exactly one Result and is then closed.
func EncodeAsync(ctx context.Context, path string) <-chan Result {
	out := make(chan Result, 1)
	go func() {
		defer close(out)
		img, err := EncodeFile(ctx, path)
		out <- Result{Image: img, Err: err}
	}()
	return out
}

// ParseDataURL reverses domain.EncodedImage.DataURL.
func ParseDataURL(src string) (string, []byte, error) {
	rest, ok := strings.CutPrefix(src, "data:")
	if !ok {
		return "", nil, &DecodeError{Op: "parse", Err: fmt.Errorf("missing data: scheme")}
	}

	meta, payload, ok := strings.Cut(rest, ",")
	if !ok {
		return "", nil, &DecodeError{Op: "parse", Err: fmt.Errorf("missing payload separator")}
	}

	mimeType, ok := strings.CutSuffix(meta, ";base64")
	if !ok {
		return "", nil, &DecodeError{Op: "parse", Err: fmt.Errorf("only base64 data URLs are supported")}
	}

	content, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return "", nil, &DecodeError{Op: "decode", Err: err}
	}

	return mimeType, content, nil
}

// Decode returns the raw bytes of an encoded image.
func Decode(img domain.EncodedImage) ([]byte, error) {
	content, err := base64.StdEncoding.DecodeString(img.Data)
	if err != nil {
		return nil, &DecodeError{Op: "decode", Path: img.FileName, Err: err}
	}
	return content, nil
}

func mediaType(fileName, declared string, content []byte) string {
	if declared != "" {
		return declared
	}

	if byExt := mime.TypeByExtension(filepath.Ext(fileName)); byExt != "" {
		if parsed, _, err := mime.ParseMediaType(byExt); err == nil {
			return parsed
		}
		return byExt
	}

	detected, err := mimetype.DetectReader(bytes.NewReader(content))
	if err != nil {
		return "application/octet-stream"
	}
	return detected.String()
}
