/*
   _____       __   __             _  __
  ╱ ____|     |  ╲/   |           | |/ /
 | |  __  ___ |  ╲ /  | __  _ _ __| ' /
 | | |_ |/ _ ╲| |╲ /| |/ _`  | '__|  <
 | |__| |  __/| |   | (  _|  | |  | . ╲
  ╲_____|╲___ |_|   |_|╲__,_ |_|  |_|╲_╲
 可爱飞行猪❤: golang83@outlook.com  💯💯💯
 Author Name: GeMarK.VK.Chow奥迪哥  🚗🔞🈲
 Creaet Time: 2026/10/12 - 21:31:50
 ProgramFile: descriptor.go
 Description:
			  icon图标索引表的结构
*/

package ico

import (
	"encoding/binary"
	"fmt"
)

// 描述符的状态
// Reconciliation state of a Descriptor.
type descState uint8

const (
	unverified descState = iota
	headerReconciled
)

// Descriptor 描述ico文件索引表中的一个图标
// 参考维基百科：
// https://en.wikipedia.org/wiki/ICO_(file_format)
// Descriptor is one row of the icon index table. Width and Height are already
// normalized, so a stored 0 reads as 256.
//
// Width, Planes, BitCount and SizeInBytes may be corrected once from the entry's
// own bitmap header; see BitmapEntry.
type Descriptor struct {
	Width       int    // 图像宽度 1-256
	Height      int    // 图像高度 1-256
	ColorCount  int    // 调色板颜色数，不使用调色版为 0
	Reserved    uint8  // 保留字段
	Planes      int    // 颜色平面
	BitCount    int    // 每像素的位数
	SizeInBytes int    // 图像数据的大小，单位字节
	FileOffset  int    // 图像数据的偏移量
	Source      string // 来源标记(一般为文件名)
	SourceIndex int    // 在来源文件中的索引

	state descState
}

// Reconciled 是否已经根据位图头修正过
// Reconciled reports whether the descriptor has been checked against the
// entry's bitmap header.
func (d Descriptor) Reconciled() bool {
	return d.state == headerReconciled
}

// Equal 比较所有属性，包括来源
// Equal reports whether every attribute matches, provenance included.
func (d Descriptor) Equal(o Descriptor) bool {
	return d.Width == o.Width &&
		d.Height == o.Height &&
		d.ColorCount == o.ColorCount &&
		d.Reserved == o.Reserved &&
		d.Planes == o.Planes &&
		d.BitCount == o.BitCount &&
		d.SizeInBytes == o.SizeInBytes &&
		d.FileOffset == o.FileOffset &&
		d.Source == o.Source &&
		d.SourceIndex == o.SourceIndex
}

// Compare 宽度升序，相同宽度时颜色位数降序
// Compare orders by ascending width, then by descending bit count.
func Compare(a, b Descriptor) int {
	switch {
	case a.Width < b.Width:
		return -1
	case a.Width > b.Width:
		return 1
	case a.BitCount > b.BitCount:
		return -1
	case a.BitCount < b.BitCount:
		return 1
	}
	return 0
}

// Key 产生描述符的唯一字符串
// Key renders the descriptor as source[index]@WxH,Nbit,Ccolors,Sbytes,fileOffset=O.
func (d Descriptor) Key() string {
	return fmt.Sprintf("%s[%d]@%dx%d,%dbit,%dcolors,%dbytes,fileOffset=%d",
		d.Source, d.SourceIndex, d.Width, d.Height, d.BitCount,
		d.ColorCount, d.SizeInBytes, d.FileOffset)
}

func (d Descriptor) String() string {
	return d.Key()
}

// Descriptors 实现排序接口
// Descriptors sorts with Compare.
type Descriptors []Descriptor

// Len 实现go语言的排序算法接口中Len方法
func (ds Descriptors) Len() int {
	return len(ds)
}

// Less 实现go语言的排序算法接口中Less方法
func (ds Descriptors) Less(i, j int) bool {
	return Compare(ds[i], ds[j]) < 0
}

// Swap 实现go语言的排序算法接口中的Swap方法
func (ds Descriptors) Swap(i, j int) {
	ds[i], ds[j] = ds[j], ds[i]
}

// dimension 0 表示 256
func dimension(b byte) int {
	if b == 0 {
		return 256
	}
	return int(b)
}

// parseIndexRow 解析16字节的索引表行
// Parse one 16-byte index table row.
func parseIndexRow(s []byte, source string, index int) Descriptor {
	return Descriptor{
		Width:       dimension(s[0]),
		Height:      dimension(s[1]),
		ColorCount:  int(s[2]),
		Reserved:    s[3],
		Planes:      int(binary.LittleEndian.Uint16(s[4:6])),
		BitCount:    int(binary.LittleEndian.Uint16(s[6:8])),
		SizeInBytes: int(binary.LittleEndian.Uint32(s[8:12])),
		FileOffset:  int(binary.LittleEndian.Uint32(s[12:16])),
		Source:      source,
		SourceIndex: index,
	}
}

// putIndexRow 将描述符写入16字节的索引表行，256 写为 0
// Write d into a 16-byte index row with the given size and offset.
func putIndexRow(s []byte, d Descriptor, size, offset int) {
	s[0] = uint8(d.Width)
	s[1] = uint8(d.Height)
	s[2] = uint8(d.ColorCount)
	s[3] = d.Reserved
	binary.LittleEndian.PutUint16(s[4:6], uint16(d.Planes))
	binary.LittleEndian.PutUint16(s[6:8], uint16(d.BitCount))
	binary.LittleEndian.PutUint32(s[8:12], uint32(size))
	binary.LittleEndian.PutUint32(s[12:16], uint32(offset))
}

// reconcile 根据位图头修正描述符，返回新的值
// reconcile returns a copy of d with the bitmap header's width, planes and bit
// count and the recomputed size. d itself is left untouched.
func reconcile(d Descriptor, h *dibHeader, size int) Descriptor {
	d.Width = int(h.width)
	d.Planes = int(h.planes)
	d.BitCount = int(h.bitCount)
	d.SizeInBytes = size
	d.state = headerReconciled
	return d
}
