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
 ProgramFile: export.go
 Description:
			  提取icon图标到 bmp/png 文件
*/

package ico

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// WriteBMP 将XOR图像写为独立的BMP文件
// bmp格式的icon图标，是没有BITMAPFILEHEADER的，所以导出的时候，我们给其添加一个头结构，
// 并把高度改为单个图像的高度，去掉AND掩码
// WriteBMP writes the XOR image as a stand-alone BMP file: a BITMAPFILEHEADER,
// a 40-byte DIB header with the single image height, the color table and the
// XOR rows. The AND mask is dropped.
func (e *BitmapEntry) WriteBMP(w io.Writer) error {
	d := e.desc
	table := e.data[e.xorStart : e.xorStart+colorTableEntries(d.BitCount)*4]
	pixels := e.data[e.xorStart+len(table) : e.andStart]

	dib := createDIBHeader(d.Width, d.Height, d.BitCount, len(pixels))
	dib.planes = 1
	dib.xPixelsPerM = e.header.xPixelsPerM
	dib.yPixelsPerM = e.header.yPixelsPerM
	bmh := createBitmapHeader(len(table)+len(pixels), len(table))

	for _, b := range [][]byte{bmh.headerToBytes(), dib.HeaderToBytes(), table, pixels} {
		if _, err := w.Write(b); err != nil {
			return err
		}
	}
	return nil
}

// WritePNG 写入PNG数据
// WritePNG writes the PNG payload verbatim.
func (e *PNGEntry) WritePNG(w io.Writer) error {
	_, err := w.Write(e.data)
	return err
}

// FileName 产生文件名
// FileName returns prefix_iconWxH@Nbit.ext, ext being bmp or png after the
// entry's payload type.
func FileName(prefix string, e Entry) string {
	d := e.Descriptor()
	return fmt.Sprintf("%s_icon%dx%d@%dbit.%s", prefix, d.Width, d.Height, d.BitCount, GetIconType(e))
}

// FileNamer 为同一批图标产生不重复的文件名
// FileNamer hands out FileName results that are unique within one batch. A
// name already handed out gets the entry index appended before the extension.
type FileNamer struct {
	Prefix string
	used   map[string]bool
}

// Name 返回第 index 个图标的文件名
func (n *FileNamer) Name(index int, e Entry) string {
	if n.used == nil {
		n.used = make(map[string]bool)
	}
	name := FileName(n.Prefix, e)
	ext := filepath.Ext(name)
	base := strings.TrimSuffix(name, ext)
	for k := 0; n.used[name]; k++ {
		if k == 0 {
			name = fmt.Sprintf("%s_%d%s", base, index, ext)
		} else {
			name = fmt.Sprintf("%s_%d_%d%s", base, index, k, ext)
		}
	}
	n.used[name] = true
	return name
}

// Export 按图标类型写出：BMP图标写为位图文件，PNG图标直接写入
// Export writes e as a stand-alone image file: bitmap entries as BMP, PNG
// entries as is.
func Export(w io.Writer, e Entry) error {
	switch v := e.(type) {
	case *BitmapEntry:
		return v.WriteBMP(w)
	case *PNGEntry:
		return v.WritePNG(w)
	}
	return fmt.Errorf("ico: unknown entry type %T", e)
}

// IconToFile 将图标写入文件
// IconToFile writes e to path with Export.
func IconToFile(path string, e Entry) (err error) {
	fs, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := fs.Close(); err == nil {
			err = cerr
		}
	}()
	return Export(fs, e)
}

// ExtractIconToFile 提取 ico 中所有图标到 dir 目录，文件名见 FileNamer
// 某个图标出错时继续提取其他图标
// ExtractIconToFile writes every entry of c into dir and returns the paths
// written. A failing entry does not stop the others; all errors are joined.
func ExtractIconToFile(c *Container, dir, prefix string) ([]string, error) {
	var (
		paths []string
		errs  []error
		names = FileNamer{Prefix: prefix}
	)
	for i := 0; i < c.Len(); i++ {
		e, err := c.Entry(i)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		p := filepath.Join(dir, names.Name(i, e))
		if err := IconToFile(p, e); err != nil {
			errs = append(errs, &EntryError{Index: i, Err: err})
			continue
		}
		paths = append(paths, p)
	}
	return paths, errors.Join(errs...)
}
