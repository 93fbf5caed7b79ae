package imagevariant

import (
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"io"

	"github.com/chai2010/webp"
	"golang.org/x/image/draw"
	_ "golang.org/x/image/webp"
)

// Codec decodes, resizes and re-encodes images.
type Codec interface {
	Decode(r io.Reader) (image.Image, error)
	Resize(img image.Image, width int) image.Image
	Encode(w io.Writer, img image.Image, quality int) error
}

// WebPCodec decodes any registered raster format and encodes lossy WebP.
type WebPCodec struct{}

func (WebPCodec) Decode(r io.Reader) (image.Image, error) {
	img, _, err := image.Decode(r)
	if err != nil {
		return nil, fmt.Errorf("decode image: %w", err)
	}
	return img, nil
}

// Resize scales img down to width preserving aspect ratio. Images already
// narrower than width are returned unscaled.
func (WebPCodec) Resize(img image.Image, width int) image.Image {
	bounds := img.Bounds()
	w, h := bounds.Dx(), bounds.Dy()
	if w <= width {
		return img
	}
	newH := h * width / w
	if newH < 1 {
		newH = 1
	}
	dst := image.NewRGBA(image.Rect(0, 0, width, newH))
	draw.CatmullRom.Scale(dst, dst.Bounds(), img, bounds, draw.Over, nil)
	return dst
}

func (WebPCodec) Encode(w io.Writer, img image.Image, quality int) error {
	if err := webp.Encode(w, img, &webp.Options{Quality: float32(quality)}); err != nil {
		return fmt.Errorf("encode webp: %w", err)
	}
	return nil
}
