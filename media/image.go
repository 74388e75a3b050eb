// Package media normalises images picked on the device before they are
// uploaded, and builds thumbnails on the dev backend.
package media

import (
	"bytes"
	"errors"
	"fmt"

	"github.com/disintegration/imaging"
)

const (
	// ProductMaxDim bounds product photos; the card renders them small.
	ProductMaxDim = 1280
	LogoMaxDim    = 512
	ThumbWidth    = 300

	jpegQuality = 85
)

var ErrEmptyImage = errors.New("media: empty image")

// PrepareUpload decodes data, applies EXIF orientation, shrinks it to fit in
// maxDim x maxDim and re-encodes it as JPEG.
func PrepareUpload(data []byte, maxDim int) ([]byte, error) {
	if len(data) == 0 {
		return nil, ErrEmptyImage
	}
	img, err := imaging.Decode(bytes.NewReader(data), imaging.AutoOrientation(true))
	if err != nil {
		return nil, fmt.Errorf("media: decode image: %w", err)
	}
	b := img.Bounds()
	if b.Dx() > maxDim || b.Dy() > maxDim {
		img = imaging.Fit(img, maxDim, maxDim, imaging.Lanczos)
	}

	var buf bytes.Buffer
	if err := imaging.Encode(&buf, img, imaging.JPEG, imaging.JPEGQuality(jpegQuality)); err != nil {
		return nil, fmt.Errorf("media: encode jpeg: %w", err)
	}
	return buf.Bytes(), nil
}

// SaveWithThumb writes the image to path and a ThumbWidth wide copy to thumbPath.
func SaveWithThumb(data []byte, path, thumbPath string) error {
	img, err := imaging.Decode(bytes.NewReader(data), imaging.AutoOrientation(true))
	if err != nil {
		return fmt.Errorf("media: decode image: %w", err)
	}
	if err := imaging.Save(img, path); err != nil {
		return fmt.Errorf("media: save original: %w", err)
	}
	thumb := imaging.Resize(img, ThumbWidth, 0, imaging.Lanczos)
	if err := imaging.Save(thumb, thumbPath); err != nil {
		return fmt.Errorf("media: save thumbnail: %w", err)
	}
	return nil
}
