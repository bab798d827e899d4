package ico

import (
	"bytes"
	"encoding/binary"
	"image"
	"image/color"
	"io"
	"testing"

	"github.com/stretchr/testify/require"
)

var (
	red   = color.NRGBA{R: 0xff, A: 0xff}
	green = color.NRGBA{G: 0xff, A: 0xff}
	blue  = color.NRGBA{B: 0xff, A: 0xff}
)

func solid(w, h int, c color.NRGBA) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetNRGBA(x, y, c)
		}
	}
	return img
}

// pattern has many colors and fully transparent pixels on every fifth diagonal.
func pattern(w, h int) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			c := color.NRGBA{R: uint8(x * 7), G: uint8(y * 11), B: uint8((x + y) * 5), A: 0xff}
			if (x+y)%5 == 0 {
				c.A = 0
			}
			img.SetNRGBA(x, y, c)
		}
	}
	return img
}

// fewColors uses five opaque colors plus transparent pixels.
func fewColors(w, h int) *image.NRGBA {
	colors := []color.NRGBA{red, green, blue, {R: 0x80, G: 0x40, B: 0x20, A: 0xff}, {R: 0xff, G: 0xff, A: 0xff}}
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			c := colors[(x*3+y)%len(colors)]
			if x == y {
				c = color.NRGBA{}
			}
			img.SetNRGBA(x, y, c)
		}
	}
	return img
}

// rawBitmap assembles a classic payload by hand.
func rawBitmap(width, headerHeight, bitCount int, table []color.NRGBA, xor, and []byte) []byte {
	h := createDIBHeader(width, headerHeight, bitCount, len(xor)+len(and))
	var buf bytes.Buffer
	buf.Write(h.HeaderToBytes())
	if bitCount <= 8 {
		quads := make([]byte, colorTableEntries(bitCount)*4)
		for i, c := range table {
			quads[i*4], quads[i*4+1], quads[i*4+2] = c.B, c.G, c.R
		}
		buf.Write(quads)
	}
	buf.Write(xor)
	buf.Write(and)
	return buf.Bytes()
}

// buildIcon lays out an icon file without using Write.
func buildIcon(descs []Descriptor, payloads [][]byte) []byte {
	var buf bytes.Buffer
	head := make([]byte, 6)
	binary.LittleEndian.PutUint16(head[2:4], 1)
	binary.LittleEndian.PutUint16(head[4:6], uint16(len(descs)))
	buf.Write(head)
	off := 6 + 16*len(descs)
	for i, d := range descs {
		row := make([]byte, 16)
		putIndexRow(row, d, len(payloads[i]), off)
		buf.Write(row)
		off += len(payloads[i])
	}
	for _, p := range payloads {
		buf.Write(p)
	}
	return buf.Bytes()
}

// streamOnly hides io.ReaderAt so the container reads forward only.
type streamOnly struct {
	io.Reader
}

type countingCloser struct {
	*bytes.Reader
	closed int
}

func (c *countingCloser) Close() error {
	c.closed++
	return nil
}

func requireSamePixels(t *testing.T, want, got *image.NRGBA) {
	t.Helper()
	require.Equal(t, want.Rect, got.Rect)
	for y := 0; y < want.Rect.Dy(); y++ {
		for x := 0; x < want.Rect.Dx(); x++ {
			require.Equal(t, want.NRGBAAt(x, y), got.NRGBAAt(x, y), "pixel (%d,%d)", x, y)
		}
	}
}
