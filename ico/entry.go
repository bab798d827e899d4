/*
   _____       __   __             _  __
  ╱ ____|     |  ╲/   |           | |/ /
 | |  __  ___ |  ╲ /  | __  _ _ __| ' /
 | | |_ |/ _ ╲| |╲ /| |/ _`  | '__|  <
 | |__| |  __/| |   | (  _|  | |  | . ╲
  ╲_____|╲___ |_|   |_|╲__,_ |_|  |_|╲_╲
 可爱飞行猪❤: golang83@outlook.com  💯💯💯
 Author Name: GeMarK.VK.Chow奥迪哥  🚗🔞🈲
 Creaet Time: 2026/10/13 - 14:40:26
 ProgramFile: entry.go
 Description:
			  icon图标数据(BMP 或 PNG)
*/

package ico

import (
	"image"
	"log/slog"
)

// 定义icon图标数据的类型
// Define the type of icon data
type ICONTYPE int

const (
	typeUKN ICONTYPE = iota // unknow type
	typeBMP                 // bmp file
	typePNG                 // png file
)

func (t ICONTYPE) String() string {
	switch t {
	case typeBMP:
		return "bmp"
	case typePNG:
		return "png"
	}
	return "unknown"
}

// GetIconType 获取icon的数据类型
// Get the image type of the icon
func GetIconType(e Entry) ICONTYPE {
	switch e.(type) {
	case *BitmapEntry:
		return typeBMP
	case *PNGEntry:
		return typePNG
	}
	return typeUKN
}

// Entry 是一个图标的数据，只有 *BitmapEntry 和 *PNGEntry 两种
// Entry is a single icon image. It is either a *BitmapEntry or a *PNGEntry.
type Entry interface {
	// Descriptor 返回当前的描述符(可能已修正)
	// Descriptor returns the entry's current, possibly reconciled, descriptor.
	Descriptor() Descriptor
	// Bytes 返回写入ico文件的原始数据，不能修改
	// Bytes returns the payload written to an icon file. It must not be modified.
	Bytes() []byte
	// Image 返回可见的图像
	// Image returns the visible image, decoded once and cached.
	Image() (*image.NRGBA, error)
	// Synthetic 返回补零的字节数
	// Synthetic returns how many trailing payload bytes were zero filled.
	Synthetic() int

	isEntry()
}

// HasMask 是否有AND透明掩码
// HasMask reports whether e carries an AND mask.
func HasMask(e Entry) bool {
	_, ok := e.(*BitmapEntry)
	return ok
}

// newEntry 根据数据类型创建图标
// Build the entry variant that matches raw.
func newEntry(d Descriptor, raw []byte, synthetic int, logger *slog.Logger) (Entry, error) {
	if checkPNGHeader(raw) {
		return &PNGEntry{
			desc:      d,
			data:      raw,
			synthetic: synthetic,
			logger:    logger,
		}, nil
	}
	be, err := decodeBitmap(d, raw, synthetic, logger)
	if err != nil {
		return nil, err
	}
	return be, nil
}

// NewEntry 根据描述符和原始数据创建图标
// NewEntry decodes a single payload described by d. For a bitmap payload the
// header height fix is written into raw itself, and the returned entry's
// descriptor is reconciled with the header. Pixel data is decoded lazily.
func NewEntry(d Descriptor, raw []byte) (Entry, error) {
	return newEntry(d, raw, 0, slog.New(slog.DiscardHandler))
}
