/*
   _____       __   __             _  __
  ╱ ____|     |  ╲/   |           | |/ /
 | |  __  ___ |  ╲ /  | __  _ _ __| ' /
 | | |_ |/ _ ╲| |╲ /| |/ _`  | '__|  <
 | |__| |  __/| |   | (  _|  | |  | . ╲
  ╲_____|╲___ |_|   |_|╲__,_ |_|  |_|╲_╲
 可爱飞行猪❤: golang83@outlook.com  💯💯💯
 Author Name: GeMarK.VK.Chow奥迪哥  🚗🔞🈲
 Creaet Time: 2026/10/14 - 10:21:09
 ProgramFile: encode.go
 Description:
			  将图像编码为icon图标数据(BMP 或 PNG)
*/

package ico

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"log/slog"

	"golang.org/x/image/draw"

	"icollator/internal/quant"
)

// Format 图标数据的格式
// Format selects the payload layout produced by Encode.
type Format int

const (
	// ClassicBitmap DIB头 + XOR图像 + AND掩码
	ClassicBitmap Format = iota
	// EmbeddedPNG 完整的PNG数据
	EmbeddedPNG
)

func (f Format) String() string {
	switch f {
	case ClassicBitmap:
		return "bmp"
	case EmbeddedPNG:
		return "png"
	}
	return fmt.Sprintf("Format(%d)", int(f))
}

type encoder struct {
	quantizer draw.Quantizer
	logger    *slog.Logger
}

// EncodeOption 编码选项
// EncodeOption configures Encode.
type EncodeOption func(*encoder)

// WithQuantizer 设置索引色使用的量化器，默认为中位切分
// WithQuantizer sets the palette builder for 4 and 8 bit entries. The default
// is a median cut quantizer.
func WithQuantizer(q draw.Quantizer) EncodeOption {
	return func(e *encoder) {
		if q != nil {
			e.quantizer = q
		}
	}
}

// WithEncodeLogger 设置日志
func WithEncodeLogger(logger *slog.Logger) EncodeOption {
	return func(e *encoder) {
		if logger != nil {
			e.logger = logger
		}
	}
}

// Encode 将图像编码为一个图标，d 的宽高必须与图像一致，d.SizeInBytes 会被改写
// Encode turns img into an icon entry described by d. Width and height of img
// must equal d's and d.BitCount must be 1, 4, 8, 24 or 32. The returned entry's
// descriptor carries the exact payload size.
//
// Indexed depths quantize to at most min(255, 2^BitCount) colors, except that
// 1 bit is always a black and white reduction. Classic entries get an AND mask
// with a bit set for every pixel whose alpha is zero.
func Encode(img image.Image, d Descriptor, f Format, opts ...EncodeOption) (Entry, error) {
	enc := &encoder{
		quantizer: quant.MedianCut{},
		logger:    slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(enc)
	}

	if !validBitCount(d.BitCount) {
		return nil, fmt.Errorf("%w: %d bits", ErrUnsupportedBitDepth, d.BitCount)
	}
	if d.Width < 1 || d.Width > 256 || d.Height < 1 || d.Height > 256 {
		return nil, fmt.Errorf("%w: descriptor is %dx%d, icons are 1 to 256 pixels",
			ErrDimensionMismatch, d.Width, d.Height)
	}
	b := img.Bounds()
	if b.Dx() != d.Width || b.Dy() != d.Height {
		return nil, fmt.Errorf("%w: image is %dx%d, descriptor is %dx%d",
			ErrDimensionMismatch, b.Dx(), b.Dy(), d.Width, d.Height)
	}
	src := toNRGBA(img)
	if d.Planes == 0 {
		d.Planes = 1
	}

	var (
		data []byte
		err  error
	)
	switch f {
	case ClassicBitmap:
		data = enc.classic(src, d)
	case EmbeddedPNG:
		data, err = enc.png(src, d.BitCount)
	default:
		err = fmt.Errorf("ico: unknown format %v", f)
	}
	if err != nil {
		return nil, err
	}

	d.SizeInBytes = len(data)
	enc.logger.Debug("encoded entry", "format", f, "width", d.Width, "height", d.Height,
		"bits", d.BitCount, "bytes", len(data))
	return newEntry(d, data, 0, enc.logger)
}

// classic DIB头 + 调色板 + XOR图像 + AND掩码
func (enc *encoder) classic(img *image.NRGBA, d Descriptor) []byte {
	var xor []byte
	if d.BitCount >= 24 {
		xor = fullColorBytes(img, d.BitCount)
	} else {
		xor = enc.indexedBytes(img, d.BitCount)
	}
	and := maskBytes(img)

	size := len(xor) + len(and)
	h := createDIBHeader(d.Width, d.Height*2, d.BitCount, size)
	h.planes = uint16(d.Planes)

	buf := bytes.NewBuffer(make([]byte, 0, dibHeaderSize+size))
	buf.Write(h.HeaderToBytes())
	buf.Write(xor)
	buf.Write(and)
	return buf.Bytes()
}

// fullColorBytes 24位或32位的XOR图像，从下到上，每像素 B,G,R[,A]
func fullColorBytes(img *image.NRGBA, bitCount int) []byte {
	w, h := img.Rect.Dx(), img.Rect.Dy()
	bpp := bitCount / 8
	stride := rowStride(w, bitCount)
	out := make([]byte, h*stride)
	for r := 0; r < h; r++ {
		y := h - 1 - r
		for x := 0; x < w; x++ {
			c := img.NRGBAAt(x, y)
			o := r*stride + x*bpp
			out[o] = c.B
			out[o+1] = c.G
			out[o+2] = c.R
			if bpp == 4 {
				out[o+3] = c.A
			}
		}
	}
	return out
}

// indexedBytes 调色板(2^bitCount 个 BGRA) + 打包后的索引
func (enc *encoder) indexedBytes(img *image.NRGBA, bitCount int) []byte {
	pm := enc.palettize(img, bitCount, min(255, 1<<bitCount))
	w, h := img.Rect.Dx(), img.Rect.Dy()
	stride := rowStride(w, bitCount)
	n := colorTableEntries(bitCount)

	out := make([]byte, n*4, n*4+h*stride)
	for i, c := range pm.Palette {
		nc := color.NRGBAModel.Convert(c).(color.NRGBA)
		out[i*4] = nc.B
		out[i*4+1] = nc.G
		out[i*4+2] = nc.R
		out[i*4+3] = 0xff
	}
	for r := 0; r < h; r++ {
		y := h - 1 - r
		out = append(out, JoinBits(pm.Pix[y*pm.Stride:y*pm.Stride+w], bitCount, stride)...)
	}
	return out
}

// palettize 将图像映射到最多 maxColors 种颜色，1位时固定为黑白两色
// palettize maps the opaque colors of img onto a palette of at most maxColors
// entries. Alpha is ignored; the AND mask carries transparency.
func (enc *encoder) palettize(img *image.NRGBA, bitCount, maxColors int) *image.Paletted {
	var pal color.Palette
	if bitCount == 1 {
		pal = color.Palette{blackWhite[0], blackWhite[1]}
	} else {
		pal = enc.quantizer.Quantize(make(color.Palette, 0, maxColors), img)
		if len(pal) > maxColors {
			pal = pal[:maxColors]
		}
	}
	if len(pal) == 0 {
		pal = color.Palette{blackWhite[0]}
	}

	opaque := opaqueCopy(img)
	dst := image.NewPaletted(opaque.Rect, pal)
	draw.Draw(dst, dst.Rect, opaque, opaque.Rect.Min, draw.Src)
	return dst
}

// opaqueCopy 按行复制 img 并将 alpha 置为 255
// opaqueCopy copies img row by row into a packed image with alpha forced to
// 255. Rows are addressed through PixOffset so sub-images copy correctly.
func opaqueCopy(img *image.NRGBA) *image.NRGBA {
	b := img.Rect
	dst := image.NewNRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	for y := 0; y < b.Dy(); y++ {
		i := img.PixOffset(b.Min.X, b.Min.Y+y)
		row := dst.Pix[y*dst.Stride : (y+1)*dst.Stride]
		copy(row, img.Pix[i:i+4*b.Dx()])
		for j := 3; j < len(row); j += 4 {
			row[j] = 0xff
		}
	}
	return dst
}

// maskBytes AND掩码，alpha 为 0 的像素置 1，填充位重复每行最后一个像素
func maskBytes(img *image.NRGBA) []byte {
	w, h := img.Rect.Dx(), img.Rect.Dy()
	stride := rowStride(w, 1)
	out := make([]byte, h*stride)
	bits := make([]bool, w)
	for r := 0; r < h; r++ {
		y := h - 1 - r
		for x := 0; x < w; x++ {
			bits[x] = img.NRGBAAt(x, y).A == 0
		}
		copy(out[r*stride:], maskRow(bits, stride))
	}
	return out
}

// png 编码为PNG，颜色类型由位数决定：<=8 索引色，24 RGB，32 RGBA
// Encode img as PNG with the color type implied by bitCount. A fully opaque
// 32 bit image is written as RGB because image/png picks the smallest lossless
// color type.
func (enc *encoder) png(img *image.NRGBA, bitCount int) ([]byte, error) {
	var src image.Image
	switch bitCount {
	case 32:
		src = img
	case 24:
		src = opaqueCopy(img)
	default:
		src = enc.pngPaletted(img, bitCount)
	}

	buf := new(bytes.Buffer)
	pe := &png.Encoder{CompressionLevel: png.BestCompression}
	if err := pe.Encode(buf, src); err != nil {
		return nil, fmt.Errorf("ico: png encode: %w", err)
	}
	return buf.Bytes(), nil
}

// pngPaletted 索引色的PNG图像，透明像素使用单独的透明颜色，
// 调色板补齐到 2^bitCount 以便PNG使用对应的位深
func (enc *encoder) pngPaletted(img *image.NRGBA, bitCount int) *image.Paletted {
	maxColors := min(255, 1<<bitCount)
	transparent := bitCount > 1 && hasTransparency(img)
	if transparent {
		maxColors--
	}
	pm := enc.palettize(img, bitCount, maxColors)

	pal := make(color.Palette, 0, 1<<bitCount)
	pal = append(pal, pm.Palette...)
	if transparent {
		ti := uint8(len(pal))
		pal = append(pal, color.NRGBA{})
		for y := 0; y < img.Rect.Dy(); y++ {
			for x := 0; x < img.Rect.Dx(); x++ {
				if img.NRGBAAt(x, y).A == 0 {
					pm.SetColorIndex(x, y, ti)
				}
			}
		}
	}
	for len(pal) < 1<<bitCount {
		pal = append(pal, blackWhite[0])
	}
	pm.Palette = pal
	return pm
}

func hasTransparency(img *image.NRGBA) bool {
	b := img.Rect
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			if img.NRGBAAt(x, y).A == 0 {
				return true
			}
		}
	}
	return false
}
