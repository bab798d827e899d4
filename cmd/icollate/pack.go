/*
   _____       __   __             _  __
  ╱ ____|     |  ╲/   |           | |/ /
 | |  __  ___ |  ╲ /  | __  _ _ __| ' /
 | | |_ |/ _ ╲| |╲ /| |/ _`  | '__|  <
 | |__| |  __/| |   | (  _|  | |  | . ╲
  ╲_____|╲___ |_|   |_|╲__,_ |_|  |_|╲_╲
 可爱飞行猪❤: golang83@outlook.com  💯💯💯
 Author Name: GeMarK.VK.Chow奥迪哥  🚗🔞🈲
 Creaet Time: 2026/10/16 - 11:05:44
 ProgramFile: pack.go
 Description:
			  将图片打包为ico文件
*/

package main

import (
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"log/slog"
	"os"
	"runtime"
	"sort"

	_ "golang.org/x/image/bmp"
	"golang.org/x/image/draw"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
	"golang.org/x/sync/errgroup"

	"icollator/ico"
)

type PackCmd struct {
	Out     string   `arg:"" help:"Icon file to write"`
	Images  []string `arg:"" type:"existingfile" help:"Source images; each size is scaled from the smallest image that is at least as large"`
	Sizes   []int    `help:"Icon sizes to generate" default:"16,24,32,48,256"`
	Bits    []int    `help:"Bit depths to generate (1, 4, 8, 24, 32)" default:"32"`
	PNGFrom int      `name:"png-from" help:"Store entries at least this wide as PNG, 0 stores every entry as bitmap" default:"256"`
	Jobs    int      `help:"Parallel encoders, 0 means one per CPU" default:"0"`
}

func (c *PackCmd) Validate() error {
	for _, s := range c.Sizes {
		if s < 1 || s > 256 {
			return fmt.Errorf("invalid icon size %d, icons are 1 to 256 pixels", s)
		}
	}
	for _, b := range c.Bits {
		switch b {
		case 1, 4, 8, 24, 32:
		default:
			return fmt.Errorf("invalid bit depth %d", b)
		}
	}
	if c.PNGFrom < 0 {
		return fmt.Errorf("invalid png threshold %d", c.PNGFrom)
	}
	return nil
}

func (c *PackCmd) Run(logger *slog.Logger) error {
	sources := make([]image.Image, 0, len(c.Images))
	for _, path := range c.Images {
		img, err := decodeImage(path)
		if err != nil {
			return err
		}
		logger.Debug("loaded image", "file", path, "width", img.Bounds().Dx(), "height", img.Bounds().Dy())
		sources = append(sources, img)
	}

	jobs := c.Jobs
	if jobs < 1 {
		jobs = runtime.GOMAXPROCS(0)
	}
	entries := make([]ico.Entry, len(c.Sizes)*len(c.Bits))
	var g errgroup.Group
	g.SetLimit(jobs)
	for i, size := range c.Sizes {
		scaled := fit(pickSource(sources, size), size)
		for j, bits := range c.Bits {
			g.Go(func() error {
				format := ico.ClassicBitmap
				if c.PNGFrom > 0 && size >= c.PNGFrom {
					format = ico.EmbeddedPNG
				}
				d := ico.Descriptor{Width: size, Height: size, Planes: 1, BitCount: bits}
				if bits <= 8 {
					d.ColorCount = (1 << bits) & 0xff
				}
				e, err := ico.Encode(scaled, d, format, ico.WithEncodeLogger(logger))
				if err != nil {
					return fmt.Errorf("could not encode %dx%d@%dbit: %w", size, size, bits, err)
				}
				logger.Info("encoded", "entry", e.Descriptor().Key(), "format", format)
				entries[i*len(c.Bits)+j] = e
				return nil
			})
		}
	}
	if err := g.Wait(); err != nil {
		return err
	}

	sort.Stable(ico.Entries(entries))
	if err := ico.WriteIcoFile(c.Out, entries...); err != nil {
		return fmt.Errorf("could not write %q: %w", c.Out, err)
	}
	logger.Info("stats", "entries", len(entries), "file", c.Out)
	return nil
}

func decodeImage(path string) (image.Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("could not open image %q: %w", path, err)
	}
	defer f.Close()
	img, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("could not decode image %q: %w", path, err)
	}
	return img, nil
}

// pickSource 选择不小于 size 的最小图片，都比 size 小时选择最大的
func pickSource(sources []image.Image, size int) image.Image {
	var best image.Image
	bestSide := 0
	for _, img := range sources {
		side := min(img.Bounds().Dx(), img.Bounds().Dy())
		switch {
		case best == nil:
		case bestSide >= size && side >= size && side < bestSide:
		case bestSide < size && side > bestSide:
		default:
			continue
		}
		best, bestSide = img, side
	}
	return best
}

// fit 等比例缩放到 size x size 的透明画布中央
// fit scales img to fit a size x size transparent square, keeping its aspect
// ratio and centering it.
func fit(img image.Image, size int) *image.NRGBA {
	b := img.Bounds()
	w, h := size, size
	if b.Dx() > b.Dy() {
		h = max(1, size*b.Dy()/b.Dx())
	} else if b.Dy() > b.Dx() {
		w = max(1, size*b.Dx()/b.Dy())
	}
	dst := image.NewNRGBA(image.Rect(0, 0, size, size))
	x0, y0 := (size-w)/2, (size-h)/2
	r := image.Rect(x0, y0, x0+w, y0+h)
	if b.Dx() == w && b.Dy() == h {
		draw.Draw(dst, r, img, b.Min, draw.Src)
		return dst
	}
	draw.CatmullRom.Scale(dst, r, img, b, draw.Src, nil)
	return dst
}
