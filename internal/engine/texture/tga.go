package texture

import (
	"errors"
	"fmt"
	"image"
	"image/color"
)

// TGA image types.
const (
	tgaTrueColor    = 2
	tgaTrueColorRLE = 10
)

var errTGATruncated = errors.New("tga: pixel data truncated")

// tgaReader walks BGR(A) pixels and places them in scanline order.
type tgaReader struct {
	img         *image.RGBA
	data        []byte
	pos         int
	bpp         int
	topToBottom bool
}

func (r *tgaReader) next() (color.RGBA, bool) {
	if r.pos+r.bpp > len(r.data) {
		return color.RGBA{}, false
	}
	p := r.data[r.pos : r.pos+r.bpp]
	r.pos += r.bpp
	c := color.RGBA{R: p[2], G: p[1], B: p[0], A: 255}
	if r.bpp == 4 {
		c.A = p[3]
	}
	return c, true
}

func (r *tgaReader) put(i int, c color.RGBA) {
	w, h := r.img.Rect.Dx(), r.img.Rect.Dy()
	x, y := i%w, i/w
	if !r.topToBottom {
		y = h - 1 - y
	}
	r.img.SetRGBA(x, y, c)
}

// DecodeTGA decodes uncompressed (type 2) and run-length encoded (type 10)
// true-color TGA images with 24 or 32 bits per pixel.
func DecodeTGA(data []byte) (*image.RGBA, error) {
	if len(data) < 18 {
		return nil, errors.New("tga: header too short")
	}

	idLength := int(data[0])
	colorMapType := data[1]
	imageType := data[2]
	width := int(data[12]) | int(data[13])<<8
	height := int(data[14]) | int(data[15])<<8
	bpp := int(data[16])
	descriptor := data[17]

	if colorMapType != 0 {
		return nil, errors.New("tga: color-mapped images not supported")
	}
	if imageType != tgaTrueColor && imageType != tgaTrueColorRLE {
		return nil, fmt.Errorf("tga: unsupported image type %d", imageType)
	}
	if bpp != 24 && bpp != 32 {
		return nil, fmt.Errorf("tga: unsupported bit depth %d", bpp)
	}
	if width == 0 || height == 0 {
		return nil, errors.New("tga: empty image")
	}
	if 18+idLength > len(data) {
		return nil, errTGATruncated
	}

	r := &tgaReader{
		img:         image.NewRGBA(image.Rect(0, 0, width, height)),
		data:        data[18+idLength:],
		bpp:         bpp / 8,
		topToBottom: descriptor&0x20 != 0,
	}

	total := width * height
	if imageType == tgaTrueColor {
		if len(r.data) < total*r.bpp {
			return nil, errTGATruncated
		}
		for i := 0; i < total; i++ {
			c, _ := r.next()
			r.put(i, c)
		}
		return r.img, nil
	}

	for i := 0; i < total; {
		if r.pos >= len(r.data) {
			return nil, errTGATruncated
		}
		header := r.data[r.pos]
		r.pos++
		count := int(header&0x7F) + 1

		if header&0x80 != 0 {
			c, ok := r.next()
			if !ok {
				return nil, errTGATruncated
			}
			for ; count > 0 && i < total; count-- {
				r.put(i, c)
				i++
			}
			continue
		}

		for ; count > 0 && i < total; count-- {
			c, ok := r.next()
			if !ok {
				return nil, errTGATruncated
			}
			r.put(i, c)
			i++
		}
	}
	return r.img, nil
}
