package quant

import (
	"image"
	"image/color"
	"testing"

	"github.com/stretchr/testify/assert"
	"golang.org/x/image/draw"
)

var _ draw.Quantizer = MedianCut{}

func TestMedianCut_ExactWhenFewColors(t *testing.T) {
	img := image.NewNRGBA(image.Rect(0, 0, 4, 4))
	want := []color.NRGBA{
		{R: 255, A: 255},
		{G: 255, A: 255},
		{B: 255, A: 255},
	}
	for y := 0; y < 4; y++ {
		for x := 0; x < 4; x++ {
			img.SetNRGBA(x, y, want[(x+y)%3])
		}
	}
	// transparent pixels do not take a palette slot
	img.SetNRGBA(0, 0, color.NRGBA{R: 1, G: 2, B: 3})

	p := MedianCut{}.Quantize(make(color.Palette, 0, 16), img)
	assert.Len(t, p, 3)
	for _, c := range want {
		assert.Contains(t, p, color.Color(c))
	}
}

func TestMedianCut_Reduces(t *testing.T) {
	img := image.NewNRGBA(image.Rect(0, 0, 64, 64))
	for y := 0; y < 64; y++ {
		for x := 0; x < 64; x++ {
			img.SetNRGBA(x, y, color.NRGBA{R: uint8(x * 4), G: uint8(y * 4), B: 128, A: 255})
		}
	}

	tests := []struct {
		name string
		k    int
	}{
		{"2 colors", 2},
		{"16 colors", 16},
		{"255 colors", 255},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := MedianCut{}.Quantize(make(color.Palette, 0, tt.k), img)
			assert.NotEmpty(t, p)
			assert.LessOrEqual(t, len(p), tt.k)
			for _, c := range p {
				_, _, _, a := c.RGBA()
				assert.Equal(t, uint32(0xffff), a)
			}
		})
	}
}

func TestMedianCut_KeepsExistingEntries(t *testing.T) {
	img := image.NewNRGBA(image.Rect(0, 0, 2, 1))
	img.SetNRGBA(0, 0, color.NRGBA{R: 9, A: 255})
	img.SetNRGBA(1, 0, color.NRGBA{G: 9, A: 255})

	p := make(color.Palette, 1, 4)
	p[0] = color.Transparent
	p = MedianCut{}.Quantize(p, img)
	assert.Len(t, p, 3)
	assert.Equal(t, color.Transparent, p[0])

	full := color.Palette{color.Black}
	assert.Equal(t, full, MedianCut{}.Quantize(full, img))
}

func TestMedianCut_IgnoresTransparent(t *testing.T) {
	img := image.NewNRGBA(image.Rect(0, 0, 8, 8))
	assert.Empty(t, MedianCut{}.Quantize(make(color.Palette, 0, 4), img), "fully transparent image")

	// 64 opaque colors reduced to 4, plus a transparent row of a color that
	// appears nowhere else
	for y := 0; y < 8; y++ {
		for x := 0; x < 8; x++ {
			img.SetNRGBA(x, y, color.NRGBA{R: uint8(x * 32), G: uint8(y * 32), A: 0xff})
		}
	}
	for x := 0; x < 8; x++ {
		img.SetNRGBA(x, 7, color.NRGBA{B: 0xff})
	}
	p := MedianCut{}.Quantize(make(color.Palette, 0, 4), img)
	assert.NotEmpty(t, p)
	for _, c := range p {
		nc := color.NRGBAModel.Convert(c).(color.NRGBA)
		assert.Equal(t, uint8(0xff), nc.A)
		assert.Zero(t, nc.B, "color of transparent pixels leaked into %v", nc)
	}
}
