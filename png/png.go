/*
   _____       __   __             _  __
  ╱ ____|     |  ╲/   |           | |/ /
 | |  __  ___ |  ╲ /  | __  _ _ __| ' /
 | | |_ |/ _ ╲| |╲ /| |/ _`  | '__|  <
 | |__| |  __/| |   | (  _|  | |  | . ╲
  ╲_____|╲___ |_|   |_|╲__,_ |_|  |_|╲_╲
 可爱飞行猪❤: golang83@outlook.com  💯💯💯
 Author Name: GeMarK.VK.Chow奥迪哥  🚗🔞🈲
 Creaet Time: 2019/06/04 - 18:32:33
 ProgramFile: png.go
 Description: PNG图片解析工具

*/

package png

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"hash/crc32"
	"io"
)

const (
	// 数据长度的定义 Data length or size
	PNGHEADSIZE = 8
	CTLENGTH    = 4
	CIHDRLEN    = 13
	// 关键块 Critical chunks
	CIHDR = "IHDR" // IHDR必须是第一块(顺序的总共13个数据字节)
	CIDAT = "IDAT" // IDAT块包含实际图像数据，可以在多个IDAT块之间进行分割，它是压缩算法的输出流
	CIEND = "IEND" // 标志着图像结束。(内容是固定的，见变量定义的`ChunkIEND`)
	CPLTE = "PLTE" // PLTE 块是彩色类型3(基本索引颜色)
)

// 颜色类型 IHDR color types
const (
	ColorGray      = 0
	ColorRGB       = 2
	ColorPaletted  = 3
	ColorGrayAlpha = 4
	ColorRGBA      = 6
)

var (
	PNGHEAD = []byte{
		0x89, 0x50, 0x4E, 0x47, // 0x89 PNG
		0x0D, 0x0A, 0x1A, 0x0A,
	} // PNG 文件的头(固定大小固定内容)
	ChunkIEND = []byte{
		0x00, 0x00, 0x00, 0x00, // Length alawys 0
		0x49, 0x45, 0x4E, 0x44, // IEND string
		0xAE, 0x42, 0x60, 0x82, // CRC32 value
	} // PNG 文件的数据结尾(固定大小固定内容)
)

// 错误信息
var (
	ErrHeader    = errors.New("png: invalid header data")
	ErrTruncated = errors.New("png: truncated chunk")
	ErrCRC       = errors.New("png: chunk crc error")
	ErrNoIHDR    = errors.New("png: " + CIHDR + " chunk not found")
	ErrNoIDAT    = errors.New("png: " + CIDAT + " chunk not found")
)

// 定义更清晰的类型 :)
// Well-defined type definition
type (
	PNGImage  pngStruct   // PNGImage为PNG图像结构
	Chunk     chunkStruct // Chunk为PNG图像的块结构
	Chunks    []Chunk
	ChunkData []byte      // 块数据
	CRC32     []byte      // 循环冗余检测数据
	ImageData []byte      // 图像数据
	IDATS     []ImageData // 图像数据(PNG可能会有多个IDAT块)
	PNGBODY   []byte      // 整个PNG文件的数据
)

// PNG 图像的二进制数据实际上是以文件头 file header 以及 chunk 块组合而成。
// 块数据的以大端序在组成，分别为：Length,ChunkType，Data，CRC四个元素组成。
// The binary data of a PNG image is actually a combination of
// a file header file header and a chunk block.
// The block data is composed of big endian, They are composed
// of four elements: Length, ChunkType, Data, and CRC.
type chunkStruct struct {
	Length    int       // 块数据长度 chunk data length
	ChunkType string    // 块数据类型 chunk type
	Data      ChunkData // 块数据 chunk data
	Crc       CRC32     // 块数据的CRC32验证数据 CRC32 of chunk data
}

// Header IHDR块的内容
// Header holds the fields of the IHDR chunk.
type Header struct {
	Width       uint32
	Height      uint32
	BitDepth    uint8
	ColorType   uint8
	Compression uint8
	Filter      uint8
	Interlace   uint8
}

// BitsPerPixel 每像素的位数
// BitsPerPixel is the bit depth times the number of samples per pixel.
func (h *Header) BitsPerPixel() int {
	samples := 1
	switch h.ColorType {
	case ColorRGB:
		samples = 3
	case ColorGrayAlpha:
		samples = 2
	case ColorRGBA:
		samples = 4
	}
	return samples * int(h.BitDepth)
}

// PNG 的整体结构
// Overall structure
type pngStruct struct {
	Header  *Header // IHDR
	Chunks  Chunks  // At least 3 chunk: IHDR, IDAT, IEND or more chunk
	IDAT    IDATS   // IDAT datas
	Palette int     // PLTE 中的颜色数
}

// New 创建一个PNGImage对象返回对象的指针
// create PNGImage Object Pointer
func New() *PNGImage {
	return new(PNGImage)
}

// NewChunk 创建一个Chunk对象返回对象的指针
// create Chunk object and return object pointer
func NewChunk(length int, chunkName string, data ChunkData, crc CRC32) *Chunk {
	return &Chunk{
		Length:    length,
		ChunkType: chunkName,
		Data:      data,
		Crc:       crc,
	}
}

// IsPNG 检测文件头
// IsPNG reports whether b starts with the PNG signature.
func IsPNG(b []byte) bool {
	return len(b) >= PNGHEADSIZE && bytes.Equal(b[:PNGHEADSIZE], PNGHEAD)
}

// Parse 解析PNG数据
// Parse walks the chunks of a PNG stream.
func Parse(b []byte) (*PNGImage, error) {
	img := New()
	if err := PNGBODY(b).ParsePNGImage(img); err != nil {
		return nil, err
	}
	return img, nil
}

// ParsePNGImage 按顺序解析PNG图像数据的所有块，直到 IEND
// Parse PNG Image chunk in order, up to IEND.
func (pb PNGBODY) ParsePNGImage(img *PNGImage) error {
	if !IsPNG(pb) {
		return ErrHeader
	}
	offset := PNGHEADSIZE
	for offset < len(pb) {
		ch, next, err := pb.getChunk(offset)
		if err != nil {
			return err
		}
		offset = next
		if len(img.Chunks) == 0 && ch.ChunkType != CIHDR {
			return ErrNoIHDR
		}
		img.Chunks = append(img.Chunks, *ch)
		switch ch.ChunkType {
		case CIHDR:
			if ch.Length != CIHDRLEN {
				return fmt.Errorf("%w: %s length %d", ErrHeader, CIHDR, ch.Length)
			}
			img.Header = parseIHDR(ch.Data)
		case CPLTE:
			img.Palette = ch.Length / 3
		case CIDAT:
			img.IDAT = append(img.IDAT, ImageData(ch.Data))
		}
		if ch.ChunkType == CIEND {
			break
		}
	}
	if img.Header == nil {
		return ErrNoIHDR
	}
	if len(img.IDAT) == 0 {
		return ErrNoIDAT
	}
	return nil
}

// getChunk 读取 offset 处的块，返回下一块的偏移量
// Read the chunk at offset and return the offset of the next one.
func (pb PNGBODY) getChunk(offset int) (*Chunk, int, error) {
	if offset+2*CTLENGTH > len(pb) {
		return nil, 0, fmt.Errorf("%w at %d", ErrTruncated, offset)
	}
	l := int(binary.BigEndian.Uint32(pb[offset : offset+CTLENGTH]))
	name := string(pb[offset+CTLENGTH : offset+2*CTLENGTH])
	i := offset + 2*CTLENGTH
	o := i + l
	if l < 0 || o+CTLENGTH > len(pb) {
		return nil, 0, fmt.Errorf("%w: %s at %d", ErrTruncated, name, offset)
	}
	ch := NewChunk(l, name, ChunkData(pb[i:o]), CRC32(pb[o:o+CTLENGTH]))
	if !ch.Crc.check(ch) {
		return nil, 0, fmt.Errorf("%w: %s", ErrCRC, name)
	}
	return ch, o + CTLENGTH, nil
}

func parseIHDR(d ChunkData) *Header {
	return &Header{
		Width:       binary.BigEndian.Uint32(d[0:4]),
		Height:      binary.BigEndian.Uint32(d[4:8]),
		BitDepth:    d[8],
		ColorType:   d[9],
		Compression: d[10],
		Filter:      d[11],
		Interlace:   d[12],
	}
}

// check CRC32 循环冗余检测
// 将chunk中的crc32数据与我们自己生成的crc32数据进行比对
// cyclic redundancy check(32bit)
// Compare the crc32 data in the chunk
// with our own generated crc32 data.
func (c CRC32) check(ck *Chunk) bool {
	if len(c) != CTLENGTH {
		return false
	}
	crc := crc32.NewIEEE()
	crc.Write([]byte(ck.ChunkType))
	crc.Write(ck.Data)
	return binary.BigEndian.Uint32(c) == crc.Sum32()
}

// GetPNGSize 获取已得到的文件数据大小
// Get the size of the obtained file data
func (pb PNGBODY) GetPNGSize() int {
	return len(pb)
}

// LoadPNGFile 载入 PNG 文件的数据(包含解析)
// load png file data, and parse chunk data.
func (img *PNGImage) LoadPNGFile(rd io.Reader) error {
	b, err := io.ReadAll(rd)
	if err != nil {
		return err
	}
	return PNGBODY(b).ParsePNGImage(img)
}
