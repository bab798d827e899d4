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
 ProgramFile: writer.go
 Description:
			  将icon图标打包为ico文件
*/

package ico

import (
	"encoding/binary"
	"fmt"
	"io"
	"math"
	"os"
)

// Entries 按宽度升序、颜色位数降序排序
// Entries sorts with Compare on each entry's descriptor.
type Entries []Entry

// Len 实现go语言的排序算法接口中Len方法
func (es Entries) Len() int {
	return len(es)
}

// Less 实现go语言的排序算法接口中Less方法
func (es Entries) Less(i, j int) bool {
	return Compare(es[i].Descriptor(), es[j].Descriptor()) < 0
}

// Swap 实现go语言的排序算法接口中的Swap方法
func (es Entries) Swap(i, j int) {
	es[i], es[j] = es[j], es[i]
}

// generateOffset 产生对应的数据偏移量，第一个图标紧跟在索引表之后
// Offsets of each payload: a running total of payload sizes starting right
// after the index table.
func generateOffset(entries []Entry) ([]int, error) {
	offsets := make([]int, len(entries))
	c := fileHeaderSize + len(entries)*headerSize
	for i, e := range entries {
		offsets[i] = c
		c += len(e.Bytes())
	}
	if int64(c) > math.MaxUint32 {
		return nil, fmt.Errorf("ico: %d bytes do not fit a 32 bit offset", c)
	}
	return offsets, nil
}

// Write 写入文件头、索引表，然后按相同顺序写入所有图标数据
// Write writes an icon file holding entries in the given order: the 6-byte
// header (reserved 0, type 1, count), one index row per entry from its current
// descriptor, then the payloads back to back. Each row's size and offset come
// from the payload actually written. An entry wider or taller than 256 pixels
// fails with ErrDimensionMismatch before anything is written.
func Write(w io.Writer, entries ...Entry) error {
	if len(entries) > math.MaxUint16 {
		return fmt.Errorf("ico: %d entries, at most %d fit an icon file", len(entries), math.MaxUint16)
	}
	offsets, err := generateOffset(entries)
	if err != nil {
		return err
	}

	ih := make([]byte, fileHeaderSize+len(entries)*headerSize)
	binary.LittleEndian.PutUint16(ih[0:2], 0)
	binary.LittleEndian.PutUint16(ih[2:4], 1)
	binary.LittleEndian.PutUint16(ih[4:6], uint16(len(entries)))
	for i, e := range entries {
		d := e.Descriptor()
		if d.Width < 1 || d.Width > 256 || d.Height < 1 || d.Height > 256 {
			return &EntryError{Index: i, Err: fmt.Errorf("%w: %dx%d does not fit an index row",
				ErrDimensionMismatch, d.Width, d.Height)}
		}
		row := ih[fileHeaderSize+i*headerSize:]
		putIndexRow(row, d, len(e.Bytes()), offsets[i])
	}
	if _, err := w.Write(ih); err != nil {
		return err
	}
	for _, e := range entries {
		if _, err := w.Write(e.Bytes()); err != nil {
			return err
		}
	}
	return nil
}

// WriteIcoFile 将icon图标打包数据写入磁盘文件
// WriteIcoFile writes entries to a new icon file at path.
func WriteIcoFile(path string, entries ...Entry) (err error) {
	fs, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := fs.Close(); err == nil {
			err = cerr
		}
	}()
	return Write(fs, entries...)
}
