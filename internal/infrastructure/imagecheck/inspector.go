// Package imagecheck verifies that uploaded bytes are an image.
package imagecheck

import (
	"bytes"
	"errors"
	"fmt"
	"strings"

	"github.com/disintegration/imaging"
	"github.com/gabriel-vasile/mimetype"
)

var ErrNotAnImage = errors.New("file is not a supported image")

// decodable lists the types imaging can decode; other image/* types are accepted on sniffing alone.
var decodable = map[string]bool{
	"image/jpeg": true,
	"image/png":  true,
	"image/gif":  true,
	"image/bmp":  true,
	"image/tiff": true,
}

// Inspector sniffs the MIME type and, where possible, decodes the image.
type Inspector struct {
	maxPixels int
}

// NewInspector rejects decodable images larger than maxPixels (width*height); 0 disables the check.
func NewInspector(maxPixels int) *Inspector {
	return &Inspector{maxPixels: maxPixels}
}

func (i *Inspector) Inspect(data []byte) (string, error) {
	if len(data) == 0 {
		return "", fmt.Errorf("%w: empty file", ErrNotAnImage)
	}

	mt := mimetype.Detect(data)
	contentType := strings.ToLower(strings.SplitN(mt.String(), ";", 2)[0])
	if !strings.HasPrefix(contentType, "image/") {
		return "", fmt.Errorf("%w: detected %s", ErrNotAnImage, contentType)
	}

	if decodable[contentType] {
		img, err := imaging.Decode(bytes.NewReader(data))
		if err != nil {
			return "", fmt.Errorf("%w: %s could not be decoded", ErrNotAnImage, contentType)
		}
		b := img.Bounds()
		if b.Dx() == 0 || b.Dy() == 0 {
			return "", fmt.Errorf("%w: image has no pixels", ErrNotAnImage)
		}
		if i.maxPixels > 0 && b.Dx()*b.Dy() > i.maxPixels {
			return "", fmt.Errorf("%w: %dx%d exceeds the pixel limit", ErrNotAnImage, b.Dx(), b.Dy())
		}
	}

	return contentType, nil
}
