/*
   _____       __   __             _  __
  ╱ ____|     |  ╲/   |           | |/ /
 | |  __  ___ |  ╲ /  | __  _ _ __| ' /
 | | |_ |/ _ ╲| |╲ /| |/ _`  | '__|  <
 | |__| |  __/| |   | (  _|  | |  | . ╲
  ╲_____|╲___ |_|   |_|╲__,_ |_|  |_|╲_╲
 可爱飞行猪❤: golang83@outlook.com  💯💯💯
 Author Name: GeMarK.VK.Chow奥迪哥  🚗🔞🈲
 Creaet Time: 2026/10/13 - 16:02:41
 ProgramFile: bitmap.go
 Description:
			  BMP格式的icon图标解码
*/

package ico

import (
	"encoding/binary"
	"fmt"
	"image"
	"image/color"
	"log/slog"
	"sync"
)

// BitmapEntry BMP格式的图标：DIB头 + 调色板 + XOR图像 + AND掩码
// BitmapEntry is a classic icon entry: DIB header, optional color table, XOR
// image and AND mask.
type BitmapEntry struct {
	desc      Descriptor
	data      []byte
	synthetic int
	logger    *slog.Logger

	header   dibHeader
	ihHeight int
	xorStart int
	andStart int

	xorOnce sync.Once
	xorImg  *image.NRGBA
	xorErr  error

	andOnce sync.Once
	andImg  *image.NRGBA
	andErr  error

	imgOnce sync.Once
	img     *image.NRGBA
	imgErr  error
}

func (*BitmapEntry) isEntry() {}

// Descriptor 返回修正后的描述符
func (e *BitmapEntry) Descriptor() Descriptor { return e.desc }

// Bytes 返回(已修正的)原始数据
func (e *BitmapEntry) Bytes() []byte { return e.data }

// Synthetic 返回补零的字节数
func (e *BitmapEntry) Synthetic() int { return e.synthetic }

// HeaderSize 返回DIB头的大小
func (e *BitmapEntry) HeaderSize() int { return int(e.header.dibSize) }

// HeaderHeight 返回DIB头中的高度(XOR + AND)，已修正
// HeaderHeight is the combined XOR+AND height from the bitmap header, after the
// height-doubling correction.
func (e *BitmapEntry) HeaderHeight() int { return e.ihHeight }

// Compression 返回压缩方式
func (e *BitmapEntry) Compression() int { return int(e.header.compression) }

// ImageSize 返回DIB头记录的图像数据大小
func (e *BitmapEntry) ImageSize() int { return int(e.header.imageSize) }

// Resolution 返回每米的像素数
func (e *BitmapEntry) Resolution() (x, y int) {
	return int(e.header.xPixelsPerM), int(e.header.yPixelsPerM)
}

// ColorsUsed 返回使用的颜色数及重要的颜色数
func (e *BitmapEntry) ColorsUsed() (used, important int) {
	return int(e.header.colorsUsed), int(e.header.colorsImportant)
}

// decodeBitmap 读取DIB头，修正高度和描述符，并计算XOR和AND图像的位置
// decodeBitmap reads the entry's DIB header and reconciles d with it. A header
// height equal to the icon height is a known encoder mistake; it is doubled and
// patched in raw so the bytes written back carry the fix. raw is resized to the
// length the header implies.
func decodeBitmap(d Descriptor, raw []byte, synthetic int, logger *slog.Logger) (*BitmapEntry, error) {
	h, ok := parseDIBHeader(raw)
	if !ok {
		return nil, fmt.Errorf("%w: %d bytes, need a %d byte header", ErrMalformedEntry, len(raw), dibHeaderSize)
	}
	if h.dibSize < dibHeaderSize || h.dibSize > maxDIBHeaderSize {
		return nil, fmt.Errorf("%w: header size %d", ErrMalformedEntry, h.dibSize)
	}
	if h.width <= 0 || h.width > maxBitmapWidth {
		return nil, fmt.Errorf("%w: width %d", ErrMalformedEntry, h.width)
	}
	if !validBitCount(int(h.bitCount)) {
		return nil, fmt.Errorf("%w: %d bits", ErrUnsupportedBitDepth, h.bitCount)
	}

	ihHeight := int(h.height)
	if ihHeight == d.Height {
		ihHeight = d.Height * 2
		h.height = int32(ihHeight)
		binary.LittleEndian.PutUint32(raw[8:12], uint32(ihHeight))
		logger.Debug("corrected bitmap header height", "entry", d.Key(), "height", ihHeight)
	}

	width := int(h.width)
	bitCount := int(h.bitCount)
	xorStart := int(h.dibSize)
	xorBytes := d.Height * rowStride(width, bitCount)
	andStart := xorStart + colorTableEntries(bitCount)*4 + xorBytes
	andBytes := d.Height * rowStride(width, 1)
	size := andStart + andBytes

	if size != d.SizeInBytes {
		logger.Debug("index size disagrees with bitmap header",
			"entry", d.Key(), "recorded", d.SizeInBytes, "calculated", size)
	}
	if size != len(raw) {
		corrected := make([]byte, size)
		copy(corrected, raw)
		raw = corrected
	}

	return &BitmapEntry{
		desc:      reconcile(d, h, size),
		data:      raw,
		synthetic: synthetic,
		logger:    logger,
		header:    *h,
		ihHeight:  ihHeight,
		xorStart:  xorStart,
		andStart:  andStart,
	}, nil
}

// XORImage 返回彩色图像，只解码一次
// XORImage returns the color image. A non-nil error comes with a partially
// filled image.
func (e *BitmapEntry) XORImage() (*image.NRGBA, error) {
	e.xorOnce.Do(func() {
		e.xorImg, e.xorErr = readImage(e.data, e.xorStart, e.desc.Width, e.desc.Height, e.desc.BitCount, true)
		if e.xorErr != nil {
			e.logger.Warn("partial XOR image", "entry", e.desc.Key(), "error", e.xorErr)
		}
	})
	return e.xorImg, e.xorErr
}

// ANDImage 返回透明掩码图像，白色为透明，黑色为不透明
// ANDImage returns the transparency mask as a black and white image; white
// pixels are transparent.
func (e *BitmapEntry) ANDImage() (*image.NRGBA, error) {
	e.andOnce.Do(func() {
		e.andImg, e.andErr = readImage(e.data, e.andStart, e.desc.Width, e.desc.Height, 1, false)
		if e.andErr != nil {
			e.logger.Warn("partial AND image", "entry", e.desc.Key(), "error", e.andErr)
		}
	})
	return e.andImg, e.andErr
}

// Image 返回应用了透明掩码的图像
// Image returns the XOR image with alpha cleared wherever the AND mask is set.
func (e *BitmapEntry) Image() (*image.NRGBA, error) {
	e.imgOnce.Do(func() {
		xor, xerr := e.XORImage()
		and, aerr := e.ANDImage()
		img := image.NewNRGBA(xor.Rect)
		copy(img.Pix, xor.Pix)
		for y := 0; y < img.Rect.Dy(); y++ {
			for x := 0; x < img.Rect.Dx(); x++ {
				if and.NRGBAAt(x, y).R != 0 {
					img.Pix[img.PixOffset(x, y)+3] = 0
				}
			}
		}
		e.img = img
		if xerr != nil {
			e.imgErr = xerr
		} else {
			e.imgErr = aerr
		}
	})
	return e.img, e.imgErr
}

var blackWhite = []color.NRGBA{
	{0, 0, 0, 0xff},
	{0xff, 0xff, 0xff, 0xff},
}

// readImage 从 data 的 off 处读取一个 width x height 的图像，行是从下到上存放的
// readImage decodes width x height pixels stored bottom-up at data[off:]. With
// hasColorTable false and 1 bit per pixel it reads an AND mask using a black
// and white palette. Reads past the end of data stop decoding and return what
// was filled so far.
func readImage(data []byte, off, width, height, bitCount int, hasColorTable bool) (*image.NRGBA, error) {
	img := image.NewNRGBA(image.Rect(0, 0, width, height))
	if off < 0 || off > len(data) {
		return img, fmt.Errorf("%w: offset %d outside %d bytes", ErrPixelData, off, len(data))
	}
	stride := rowStride(width, bitCount)

	switch {
	case bitCount <= 8:
		palette := blackWhite
		if hasColorTable {
			n := colorTableEntries(bitCount)
			if off+n*4 > len(data) {
				return img, fmt.Errorf("%w: color table of %d entries at %d", ErrPixelData, n, off)
			}
			palette = make([]color.NRGBA, n)
			for i := range palette {
				q := data[off+i*4:]
				palette[i] = color.NRGBA{R: q[2], G: q[1], B: q[0], A: 0xff}
			}
			off += n * 4
		}
		for i := 0; i < height; i++ {
			start := off + i*stride
			if start+stride > len(data) {
				return img, fmt.Errorf("%w: row %d at %d", ErrPixelData, i, start)
			}
			pixels := SplitBytes(data[start:start+stride], bitCount, width)
			for j, p := range pixels {
				if int(p) >= len(palette) {
					return img, fmt.Errorf("%w: index %d outside palette of %d", ErrPixelData, p, len(palette))
				}
				img.SetNRGBA(j, height-1-i, palette[p])
			}
		}
	case bitCount == 24 || bitCount == 32:
		bpp := bitCount / 8
		hasAlpha := false
		for i := 0; i < height; i++ {
			start := off + i*stride
			if start+width*bpp > len(data) {
				return img, fmt.Errorf("%w: row %d at %d", ErrPixelData, i, start)
			}
			row := data[start : start+width*bpp]
			for j := 0; j < width; j++ {
				p := row[j*bpp:]
				c := color.NRGBA{R: p[2], G: p[1], B: p[0], A: 0xff}
				if bpp == 4 {
					c.A = p[3]
					if c.A != 0 {
						hasAlpha = true
					}
				}
				img.SetNRGBA(j, height-1-i, c)
			}
		}
		// 旧的编码器把 alpha 全写为 0，表示不透明
		if bpp == 4 && !hasAlpha {
			for i := 3; i < len(img.Pix); i += 4 {
				img.Pix[i] = 0xff
			}
		}
	default:
		return img, fmt.Errorf("%w: %d bits", ErrUnsupportedBitDepth, bitCount)
	}
	return img, nil
}

func validBitCount(b int) bool {
	switch b {
	case 1, 4, 8, 24, 32:
		return true
	}
	return false
}
