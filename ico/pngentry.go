/*
   _____       __   __             _  __
  ╱ ____|     |  ╲/   |           | |/ /
 | |  __  ___ |  ╲ /  | __  _ _ __| ' /
 | | |_ |/ _ ╲| |╲ /| |/ _`  | '__|  <
 | |__| |  __/| |   | (  _|  | |  | . ╲
  ╲_____|╲___ |_|   |_|╲__,_ |_|  |_|╲_╲
 可爱飞行猪❤: golang83@outlook.com  💯💯💯
 Author Name: GeMarK.VK.Chow奥迪哥  🚗🔞🈲
 Creaet Time: 2026/10/13 - 17:55:12
 ProgramFile: pngentry.go
 Description:
			  PNG格式的icon图标
*/

package ico

import (
	"bytes"
	"fmt"
	"image"
	"image/png"
	"log/slog"
	"sync"

	"golang.org/x/image/draw"

	ipng "icollator/png"
)

// PNGEntry 内嵌PNG的图标，没有AND掩码，索引表记录的大小直接使用
// PNGEntry is an icon entry whose payload is a complete PNG stream. It has no
// AND mask and its recorded size is trusted as is.
type PNGEntry struct {
	desc      Descriptor
	data      []byte
	synthetic int
	logger    *slog.Logger

	once   sync.Once
	img    *image.NRGBA
	imgErr error
}

func (*PNGEntry) isEntry() {}

// Descriptor 返回索引表中的描述符
func (e *PNGEntry) Descriptor() Descriptor { return e.desc }

// Bytes 返回PNG数据
func (e *PNGEntry) Bytes() []byte { return e.data }

// Synthetic 返回补零的字节数
func (e *PNGEntry) Synthetic() int { return e.synthetic }

// Image 解码PNG数据
// Image decodes the PNG payload once.
func (e *PNGEntry) Image() (*image.NRGBA, error) {
	e.once.Do(func() {
		e.img, e.imgErr = decodePNG(e.data)
		if e.imgErr != nil {
			e.logger.Warn("could not decode png entry", "entry", e.desc.Key(), "error", e.imgErr)
		}
	})
	return e.img, e.imgErr
}

// Header 读取PNG的IHDR块并检查所有块的CRC
// Header parses the PNG chunk structure and returns its IHDR fields.
func (e *PNGEntry) Header() (*ipng.Header, error) {
	img, err := ipng.Parse(e.data)
	if err != nil {
		return nil, fmt.Errorf("ico: png entry %s: %w", e.desc.Key(), err)
	}
	return img.Header, nil
}

// decodePNG 解码PNG并转换为NRGBA
func decodePNG(b []byte) (*image.NRGBA, error) {
	src, err := png.Decode(bytes.NewReader(b))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPixelData, err)
	}
	return toNRGBA(src), nil
}

// toNRGBA 将任意图像复制为原点在(0,0)的NRGBA
// Copy any image into an NRGBA whose bounds start at the origin.
func toNRGBA(src image.Image) *image.NRGBA {
	b := src.Bounds()
	if m, ok := src.(*image.NRGBA); ok && b.Min == (image.Point{}) && m.Stride == 4*b.Dx() {
		return m
	}
	dst := image.NewNRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(dst, dst.Bounds(), src, b.Min, draw.Src)
	return dst
}
