/*
   _____       __   __             _  __
  ╱ ____|     |  ╲/   |           | |/ /
 | |  __  ___ |  ╲ /  | __  _ _ __| ' /
 | | |_ |/ _ ╲| |╲ /| |/ _`  | '__|  <
 | |__| |  __/| |   | (  _|  | |  | . ╲
  ╲_____|╲___ |_|   |_|╲__,_ |_|  |_|╲_╲
 可爱飞行猪❤: golang83@outlook.com  💯💯💯
 Author Name: GeMarK.VK.Chow奥迪哥  🚗🔞🈲
 Creaet Time: 2019/05/27 - 21:14:05
 ProgramFile: import.go
 Description:
			  将BMP和PNG文件直接转换为icon图标，不重新编码
*/

package ico

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"log/slog"
	"os"

	ipng "icollator/png"
)

// FromBMP 将BMP文件转换为BMP格式的icon图标
// 去掉BITMAPFILEHEADER，高度加倍，并添加全部不透明的AND掩码
// 目前仅支持非压缩、从下到上存放的位图
// FromBMP turns the bytes of a .bmp file into a classic entry without touching
// its pixels: the file header is dropped, the height doubled, the color table
// padded to 2^BitCount entries and an all-opaque AND mask appended. Only
// uncompressed bottom-up bitmaps of at most 256x256 pixels are accepted.
func FromBMP(b []byte) (Entry, error) {
	if len(b) < bitmapHeaderSize+dibHeaderSize || !bytes.Equal(b[0:2], BMPHEADERID) {
		return nil, fmt.Errorf("%w: not a bmp file", ErrMalformedEntry)
	}
	dataOffset := int(binary.LittleEndian.Uint32(b[10:14]))
	h, _ := parseDIBHeader(b[bitmapHeaderSize:])
	switch {
	case h.dibSize != dibHeaderSize:
		return nil, fmt.Errorf("%w: bmp info header of %d bytes", ErrMalformedEntry, h.dibSize)
	case h.compression != 0:
		return nil, fmt.Errorf("%w: compressed bmp", ErrMalformedEntry)
	case h.width < 1 || h.width > 256 || h.height < 1 || h.height > 256:
		return nil, fmt.Errorf("%w: bmp is %dx%d", ErrDimensionMismatch, h.width, h.height)
	case !validBitCount(int(h.bitCount)):
		return nil, fmt.Errorf("%w: %d bits", ErrUnsupportedBitDepth, h.bitCount)
	}

	width, height, bits := int(h.width), int(h.height), int(h.bitCount)
	entries := colorTableEntries(bits)
	used := entries
	if h.colorsUsed > 0 && int(h.colorsUsed) < entries {
		used = int(h.colorsUsed)
	}
	tableStart := bitmapHeaderSize + dibHeaderSize
	pixels := height * rowStride(width, bits)
	if tableStart+used*4 > len(b) || dataOffset < tableStart+used*4 || dataOffset+pixels > len(b) {
		return nil, fmt.Errorf("%w: bmp pixel data out of range", ErrMalformedEntry)
	}

	masks := height * rowStride(width, 1)
	dib := *h
	dib.height = int32(height * 2)
	dib.imageSize = uint32(pixels + masks)
	dib.colorsUsed, dib.colorsImportant = 0, 0

	raw := make([]byte, 0, dibHeaderSize+entries*4+pixels+masks)
	raw = append(raw, dib.HeaderToBytes()...)
	raw = append(raw, b[tableStart:tableStart+used*4]...)
	raw = append(raw, make([]byte, (entries-used)*4)...)
	raw = append(raw, b[dataOffset:dataOffset+pixels]...)
	raw = append(raw, make([]byte, masks)...)

	d := Descriptor{
		Width:       width,
		Height:      height,
		Planes:      1,
		BitCount:    bits,
		SizeInBytes: len(raw),
	}
	if bits <= 8 {
		d.ColorCount = used & 0xff
	}
	return newEntry(d, raw, 0, slog.New(slog.DiscardHandler))
}

// FromPNG 将PNG文件作为PNG格式的icon图标，数据不变
// FromPNG wraps the bytes of a .png file as a PNG entry. The stream is kept as
// is; width, height and bit count come from its IHDR chunk.
func FromPNG(b []byte) (Entry, error) {
	img, err := ipng.Parse(b)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedEntry, err)
	}
	h := img.Header
	if h.Width < 1 || h.Width > 256 || h.Height < 1 || h.Height > 256 {
		return nil, fmt.Errorf("%w: png is %dx%d", ErrDimensionMismatch, h.Width, h.Height)
	}
	d := Descriptor{
		Width:       int(h.Width),
		Height:      int(h.Height),
		Planes:      1,
		BitCount:    32,
		SizeInBytes: len(b),
	}
	switch h.ColorType {
	case ipng.ColorPaletted:
		d.BitCount = int(h.BitDepth)
		d.ColorCount = img.Palette & 0xff
	case ipng.ColorRGB:
		d.BitCount = 24
	}
	return newEntry(d, b, 0, slog.New(slog.DiscardHandler))
}

// LoadImageFile 读取BMP或PNG文件并转换为icon图标，根据文件头判断类型
// LoadImageFile reads a .bmp or .png file and converts it with FromBMP or
// FromPNG, picked by the file signature.
func LoadImageFile(path string) (Entry, error) {
	fi, err := os.Stat(path)
	if err != nil {
		return nil, err
	}
	if fi.IsDir() {
		return nil, ErrIcoFileType
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var e Entry
	switch {
	case checkPNGHeader(b):
		e, err = FromPNG(b)
	case len(b) >= 2 && bytes.Equal(b[0:2], BMPHEADERID):
		e, err = FromBMP(b)
	default:
		err = fmt.Errorf("%w: neither bmp nor png", ErrMalformedEntry)
	}
	if err != nil {
		return nil, fmt.Errorf("ico: load %s: %w", path, err)
	}
	return e, nil
}
