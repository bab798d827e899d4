/*
   _____       __   __             _  __
  ╱ ____|     |  ╲/   |           | |/ /
 | |  __  ___ |  ╲ /  | __  _ _ __| ' /
 | | |_ |/ _ ╲| |╲ /| |/ _`  | '__|  <
 | |__| |  __/| |   | (  _|  | |  | . ╲
  ╲_____|╲___ |_|   |_|╲__,_ |_|  |_|╲_╲
 可爱飞行猪❤: golang83@outlook.com  💯💯💯
 Author Name: GeMarK.VK.Chow奥迪哥  🚗🔞🈲
 Creaet Time: 2019/05/25 - 07:51:34
 ProgramFile: dib.go
 Description:
			  位图头结构(DIB 和 BITMAPFILEHEADER)
*/

package ico

import (
	"bytes"
	"encoding/binary"
)

// 定义常量
// Constant definition
const (
	fileHeaderSize    = 6     // 文件头的大小
	pngFileHeaderSize = 8     // png文件头大小
	headerSize        = 16    // icon图标的头结构大小
	bitmapHeaderSize  = 14    // 位图文件头
	dibHeaderSize     = 40    // dib结构头
	maxDIBHeaderSize  = 65536 // 允许的最大dib头
	maxBitmapWidth    = 4096  // 允许的最大位图宽度
)

var (
	// PNGHEADER PNG 文件头
	PNGHEADER = []byte{0x89, 0x50, 0x4E, 0x47, 0x0D, 0x0A, 0x1A, 0x0A}
	// BMPHEADERID 位图文件的标记 "BM"
	BMPHEADERID = []byte{0x42, 0x4d}
)

// bitmap 的 DIB 头结构
// DIB header (bitmap information header)
// 参考维基百科：
// https://en.wikipedia.org/wiki/BMP_file_format
type dibHeader struct {
	dibSize         uint32 // 0x28 00 00 00 -> 40bytes (DIB Header Size)
	width           int32  // Width of the bitmap in pixels -> left to right order
	height          int32  // XOR + AND height in pixels -> bottom to top order
	planes          uint16 // Number of color planes being used
	bitCount        uint16 // Number of bits per pixel
	compression     uint32 // BI_RGB, no pixel array compression used
	imageSize       uint32 // Size of the raw bitmap data (including padding)
	xPixelsPerM     int32  // horizontal resolution
	yPixelsPerM     int32  // vertical resolution
	colorsUsed      uint32 // 0 or palette size
	colorsImportant uint32 // 0 or palette size
}

// createDIBHeader 创建DIB头结构
// create DIB header structure
func createDIBHeader(width, height, bit, size int) *dibHeader {
	return &dibHeader{
		dibSize:   dibHeaderSize,
		width:     int32(width),
		height:    int32(height),
		planes:    1,
		bitCount:  uint16(bit),
		imageSize: uint32(size),
	}
}

// parseDIBHeader 从字节切片读取40字节的DIB头
// Read the 40-byte DIB header at the start of b.
func parseDIBHeader(b []byte) (*dibHeader, bool) {
	if len(b) < dibHeaderSize {
		return nil, false
	}
	return &dibHeader{
		dibSize:         binary.LittleEndian.Uint32(b[0:4]),
		width:           int32(binary.LittleEndian.Uint32(b[4:8])),
		height:          int32(binary.LittleEndian.Uint32(b[8:12])),
		planes:          binary.LittleEndian.Uint16(b[12:14]),
		bitCount:        binary.LittleEndian.Uint16(b[14:16]),
		compression:     binary.LittleEndian.Uint32(b[16:20]),
		imageSize:       binary.LittleEndian.Uint32(b[20:24]),
		xPixelsPerM:     int32(binary.LittleEndian.Uint32(b[24:28])),
		yPixelsPerM:     int32(binary.LittleEndian.Uint32(b[28:32])),
		colorsUsed:      binary.LittleEndian.Uint32(b[32:36]),
		colorsImportant: binary.LittleEndian.Uint32(b[36:40]),
	}, true
}

// HeaderToBytes 将DIB的头结构转换为字节切片
// Convert the DIB header structure to a byte slice
func (dh *dibHeader) HeaderToBytes() []byte {
	d := make([]byte, dibHeaderSize)
	binary.LittleEndian.PutUint32(d[0:4], dh.dibSize)
	binary.LittleEndian.PutUint32(d[4:8], uint32(dh.width))
	binary.LittleEndian.PutUint32(d[8:12], uint32(dh.height))
	binary.LittleEndian.PutUint16(d[12:14], dh.planes)
	binary.LittleEndian.PutUint16(d[14:16], dh.bitCount)
	binary.LittleEndian.PutUint32(d[16:20], dh.compression)
	binary.LittleEndian.PutUint32(d[20:24], dh.imageSize)
	binary.LittleEndian.PutUint32(d[24:28], uint32(dh.xPixelsPerM))
	binary.LittleEndian.PutUint32(d[28:32], uint32(dh.yPixelsPerM))
	binary.LittleEndian.PutUint32(d[32:36], dh.colorsUsed)
	binary.LittleEndian.PutUint32(d[36:40], dh.colorsImportant)
	return d
}

// bitmap 的 BITMAP 头结构
// BITMAPFILEHEADER(14bytes)
// 参考维基百科：
// https://en.wikipedia.org/wiki/BMP_file_format
type bitmapHeader struct {
	bitmapID         uint16 // 0x42 0x4d "BM"
	fileSize         uint32 // 整个BMP文件的大小
	unusedA          uint16 // 0x00 00
	unusedB          uint16 // 0x00 00
	bitmapDataOffset uint32 // Bitmap Data 偏移量
}

// createBitmapHeader 创建位图文件头结构
// datasize 为DIB头之后的数据大小，tableSize 为调色板大小
// Create a bitmap file header structure
func createBitmapHeader(datasize, tableSize int) *bitmapHeader {
	return &bitmapHeader{
		bitmapID:         binary.LittleEndian.Uint16(BMPHEADERID),
		fileSize:         uint32(bitmapHeaderSize + dibHeaderSize + datasize),
		bitmapDataOffset: uint32(bitmapHeaderSize + dibHeaderSize + tableSize),
	}
}

// headerToBytes 将bitmapHeader位图头结构转换为字节切片
// Convert BITMAPFILEHEADER bitmap header structure to byte slice
func (bmh *bitmapHeader) headerToBytes() []byte {
	d := make([]byte, bitmapHeaderSize)
	binary.LittleEndian.PutUint16(d[0:2], bmh.bitmapID)
	binary.LittleEndian.PutUint32(d[2:6], bmh.fileSize)
	binary.LittleEndian.PutUint16(d[6:8], bmh.unusedA)
	binary.LittleEndian.PutUint16(d[8:10], bmh.unusedB)
	binary.LittleEndian.PutUint32(d[10:14], bmh.bitmapDataOffset)
	return d
}

// checkPNGHeader 检测是否是png ico数据
// Check if it is png ico data
func checkPNGHeader(d []byte) bool {
	if len(d) < pngFileHeaderSize {
		return false
	}
	return bytes.Equal(d[:pngFileHeaderSize], PNGHEADER)
}
