package texture

import (
	"fmt"
	"image"
	"image/color"
)

// TGA image type constants.
const (
	TGATypeUncompressed = 2  // Uncompressed true-color
	TGATypeGray         = 3  // Uncompressed grayscale
	TGATypeRLE          = 10 // RLE compressed true-color
	TGATypeGrayRLE      = 11 // RLE compressed grayscale
)

// DecodeTGA decodes a TGA image file.
// Supports true-color (types 2 and 10, 24 or 32 bit) and grayscale
// (types 3 and 11, 8 bit) images, raw or run-length encoded. The second
// return value is the number of channels stored in the file.
func DecodeTGA(data []byte) (image.Image, int, error) {
	if len(data) < 18 {
		return nil, 0, fmt.Errorf("TGA data too short")
	}

	idLength := int(data[0])
	colorMapType := data[1]
	imageType := data[2]
	width := int(data[12]) | int(data[13])<<8
	height := int(data[14]) | int(data[15])<<8
	bpp := int(data[16])
	descriptor := data[17]

	if colorMapType != 0 {
		return nil, 0, fmt.Errorf("color-mapped TGA not supported")
	}
	gray := imageType == TGATypeGray || imageType == TGATypeGrayRLE
	switch {
	case imageType == TGATypeUncompressed || imageType == TGATypeRLE:
		if bpp != 24 && bpp != 32 {
			return nil, 0, fmt.Errorf("unsupported TGA bit depth %d", bpp)
		}
	case gray:
		if bpp != 8 {
			return nil, 0, fmt.Errorf("unsupported grayscale TGA bit depth %d", bpp)
		}
	default:
		return nil, 0, fmt.Errorf("unsupported TGA type %d", imageType)
	}
	if width == 0 || height == 0 {
		return nil, 0, fmt.Errorf("TGA has empty size %dx%d", width, height)
	}

	offset := 18 + idLength
	if offset > len(data) {
		return nil, 0, fmt.Errorf("TGA data truncated")
	}

	d := tgaDecoder{
		pix:         data[offset:],
		width:       width,
		height:      height,
		bpp:         bpp / 8,
		topToBottom: descriptor&0x20 != 0,
	}
	if gray {
		d.gray = image.NewGray(image.Rect(0, 0, width, height))
	} else {
		d.rgba = image.NewNRGBA(image.Rect(0, 0, width, height))
	}

	var err error
	if imageType == TGATypeRLE || imageType == TGATypeGrayRLE {
		err = d.decodeRLE()
	} else {
		err = d.decodeRaw()
	}
	if err != nil {
		return nil, 0, err
	}

	if gray {
		return d.gray, 1, nil
	}
	return d.rgba, d.bpp, nil
}

type tgaDecoder struct {
	pix           []byte
	width, height int
	bpp           int
	topToBottom   bool

	rgba *image.NRGBA
	gray *image.Gray
}

// set writes the pixel at src index i to the n-th pixel of the image.
// TGA rows run bottom-to-top unless the descriptor says otherwise.
func (d *tgaDecoder) set(n, i int) {
	x := n % d.width
	y := n / d.width
	if !d.topToBottom {
		y = d.height - 1 - y
	}
	if d.gray != nil {
		d.gray.SetGray(x, y, color.Gray{Y: d.pix[i]})
		return
	}
	a := uint8(255)
	if d.bpp == 4 {
		a = d.pix[i+3]
	}
	// stored as BGR(A)
	d.rgba.SetNRGBA(x, y, color.NRGBA{R: d.pix[i+2], G: d.pix[i+1], B: d.pix[i], A: a})
}

func (d *tgaDecoder) decodeRaw() error {
	count := d.width * d.height
	if len(d.pix) < count*d.bpp {
		return fmt.Errorf("TGA pixel data truncated")
	}
	for n := 0; n < count; n++ {
		d.set(n, n*d.bpp)
	}
	return nil
}

func (d *tgaDecoder) decodeRLE() error {
	count := d.width * d.height
	n := 0
	i := 0
	for n < count {
		if i >= len(d.pix) {
			return fmt.Errorf("TGA RLE data truncated at pixel %d of %d", n, count)
		}
		packet := d.pix[i]
		i++
		run := int(packet&0x7F) + 1

		if packet&0x80 != 0 {
			// one pixel repeated run times
			if i+d.bpp > len(d.pix) {
				return fmt.Errorf("TGA RLE data truncated")
			}
			for k := 0; k < run && n < count; k++ {
				d.set(n, i)
				n++
			}
			i += d.bpp
			continue
		}

		// run raw pixels
		for k := 0; k < run && n < count; k++ {
			if i+d.bpp > len(d.pix) {
				return fmt.Errorf("TGA RLE data truncated")
			}
			d.set(n, i)
			i += d.bpp
			n++
		}
	}
	return nil
}
