// Package quant builds reduced color palettes for indexed icon entries.
package quant

import (
	"image"
	"image/color"
	"sort"

	"github.com/ericpauley/go-quantize/quantize"
)

// MedianCut adapts quantize.MedianCutQuantizer to icon palettes. Alpha is
// dropped before quantizing because the AND mask carries transparency, and
// fully transparent pixels do not get a palette slot. Images with no more
// distinct colors than free palette slots keep their exact colors.
//
// MedianCut implements draw.Quantizer.
type MedianCut struct{}

// Quantize appends up to cap(p)-len(p) colors representative of m to p.
func (MedianCut) Quantize(p color.Palette, m image.Image) color.Palette {
	k := cap(p) - len(p)
	if k <= 0 {
		return p
	}
	opaque, colors := flatten(m)
	if len(colors) == 0 {
		return p
	}
	if len(colors) <= k {
		for _, c := range colors {
			p = append(p, c)
		}
		return p
	}

	for _, c := range (quantize.MedianCutQuantizer{}).Quantize(make(color.Palette, 0, k), opaque) {
		nc := color.NRGBAModel.Convert(c).(color.NRGBA)
		nc.A = 0xff
		p = append(p, nc)
	}
	return p
}

// flatten 返回不透明的副本和其中的颜色(排序后)，全透明像素用第一个不透明颜色填充
// flatten returns an opaque copy of m together with its distinct colors in a
// stable order. Fully transparent pixels are painted with the first opaque
// color so they add no color of their own.
func flatten(m image.Image) (*image.NRGBA, []color.NRGBA) {
	b := m.Bounds()
	dst := image.NewNRGBA(b)
	seen := make(map[color.NRGBA]bool)
	var colors []color.NRGBA
	var holes []image.Point
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			c := color.NRGBAModel.Convert(m.At(x, y)).(color.NRGBA)
			if c.A == 0 {
				holes = append(holes, image.Point{X: x, Y: y})
				continue
			}
			c.A = 0xff
			dst.SetNRGBA(x, y, c)
			if !seen[c] {
				seen[c] = true
				colors = append(colors, c)
			}
		}
	}
	if len(colors) == 0 {
		return dst, nil
	}
	for _, pt := range holes {
		dst.SetNRGBA(pt.X, pt.Y, colors[0])
	}
	sort.Slice(colors, func(i, j int) bool {
		a, b := colors[i], colors[j]
		if a.R != b.R {
			return a.R < b.R
		}
		if a.G != b.G {
			return a.G < b.G
		}
		return a.B < b.B
	})
	return dst, colors
}
