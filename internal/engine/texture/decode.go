// Package texture decodes images and uploads them as OpenGL textures.
package texture

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	_ "image/jpeg" // register JPEG decoder
	_ "image/png"  // register PNG decoder
	"path"
	"strings"

	"github.com/go-gl/gl/v4.1-core/gl"
	_ "golang.org/x/image/bmp" // register BMP decoder
	"golang.org/x/image/draw"

	"github.com/Faultbox/shadowlab/internal/fault"
)

// Image is decoded pixel data, tightly packed, first row at the top.
type Image struct {
	Width    int
	Height   int
	Channels int // 1, 3 or 4
	Pix      []byte
}

// Decode decodes PNG, JPEG, BMP or TGA data. name is only used to pick
// the TGA decoder, which has no magic number, and for error messages.
func Decode(name string, data []byte) (*Image, error) {
	var (
		src      image.Image
		channels int
		err      error
	)
	if strings.EqualFold(path.Ext(name), ".tga") {
		src, channels, err = DecodeTGA(data)
	} else {
		src, _, err = image.Decode(bytes.NewReader(data))
	}
	if err != nil {
		return nil, fault.Wrap(fault.AssetLoad, "texture.Decode", fmt.Errorf("%s: %w", name, err))
	}
	if channels == 0 {
		channels = channelCount(src)
	}
	return pack(src, channels), nil
}

// channelCount reports how many channels an image needs: 1 for gray,
// 4 when any pixel is translucent, 3 otherwise.
func channelCount(img image.Image) int {
	switch img.ColorModel() {
	case color.GrayModel, color.Gray16Model:
		return 1
	}
	if o, ok := img.(interface{ Opaque() bool }); ok && o.Opaque() {
		return 3
	}
	b := img.Bounds()
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			if _, _, _, a := img.At(x, y).RGBA(); a != 0xffff {
				return 4
			}
		}
	}
	return 3
}

// pack converts img to tightly packed bytes with the given channel count.
func pack(img image.Image, channels int) *Image {
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	out := &Image{Width: w, Height: h, Channels: channels}

	if channels == 1 {
		gray := image.NewGray(image.Rect(0, 0, w, h))
		draw.Draw(gray, gray.Bounds(), img, b.Min, draw.Src)
		out.Pix = gray.Pix
		return out
	}

	nrgba, ok := img.(*image.NRGBA)
	if !ok || nrgba.Rect.Min != (image.Point{}) || nrgba.Stride != 4*w {
		nrgba = image.NewNRGBA(image.Rect(0, 0, w, h))
		draw.Draw(nrgba, nrgba.Bounds(), img, b.Min, draw.Src)
	}
	if channels == 4 {
		out.Pix = nrgba.Pix
		return out
	}

	out.Pix = make([]byte, 0, w*h*3)
	for i := 0; i < len(nrgba.Pix); i += 4 {
		out.Pix = append(out.Pix, nrgba.Pix[i], nrgba.Pix[i+1], nrgba.Pix[i+2])
	}
	return out
}

// Formats maps a channel count to the GL internal format and pixel format.
// With srgb set, color textures are stored gamma-encoded so sampling
// returns linear values.
func Formats(channels int, srgb bool) (internal int32, format uint32, err error) {
	switch channels {
	case 1:
		return gl.RED, gl.RED, nil
	case 3:
		if srgb {
			return gl.SRGB, gl.RGB, nil
		}
		return gl.RGB, gl.RGB, nil
	case 4:
		if srgb {
			return gl.SRGB_ALPHA, gl.RGBA, nil
		}
		return gl.RGBA, gl.RGBA, nil
	default:
		return 0, 0, fault.New(fault.AssetLoad, "texture.Formats", "unknown texture format (channels=%d)", channels)
	}
}
