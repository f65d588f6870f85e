// Package imaging normalizes uploaded images to bounded WebP.
package imaging

import (
	"bytes"
	"errors"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"io"

	"github.com/chai2010/webp"
	"golang.org/x/image/draw"
	_ "golang.org/x/image/webp"
)

var ErrUnsupportedImage = errors.New("imaging: unsupported or corrupt image")

const ContentTypeWebP = "image/webp"

// ToWebP decodes a PNG, JPEG or WebP image, shrinks it so that neither side
// exceeds maxSide and re-encodes it as lossy WebP.
func ToWebP(r io.Reader, maxSide int, quality float32) ([]byte, error) {
	src, _, err := image.Decode(r)
	if err != nil {
		return nil, ErrUnsupportedImage
	}

	img := fit(src, maxSide)

	var buf bytes.Buffer
	if err := webp.Encode(&buf, img, &webp.Options{Quality: quality}); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func fit(src image.Image, maxSide int) image.Image {
	b := src.Bounds()
	w, h := b.Dx(), b.Dy()
	if maxSide <= 0 || (w <= maxSide && h <= maxSide) {
		return src
	}

	if w >= h {
		h = h * maxSide / w
		w = maxSide
	} else {
		w = w * maxSide / h
		h = maxSide
	}
	if w < 1 {
		w = 1
	}
	if h < 1 {
		h = 1
	}

	dst := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.CatmullRom.Scale(dst, dst.Bounds(), src, b, draw.Over, nil)
	return dst
}
