package ico

import (
	"bytes"
	"encoding/binary"
	"image/color"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func redSquare(alpha byte) []byte {
	xor := bytes.Repeat([]byte{0, 0, 0xff, alpha}, 32*32)
	and := make([]byte, 32*rowStride(32, 1))
	return rawBitmap(32, 64, 32, nil, xor, and)
}

func TestDecodeRedSquare(t *testing.T) {
	raw := redSquare(0xff)
	d := Descriptor{Width: 32, Height: 32, Planes: 1, BitCount: 32, SizeInBytes: len(raw)}
	file := buildIcon([]Descriptor{d}, [][]byte{raw})

	c, err := Read("red.ico", bytes.NewReader(file))
	require.NoError(t, err)
	require.Equal(t, 1, c.Len())

	e, err := c.Entry(0)
	require.NoError(t, err)
	require.IsType(t, &BitmapEntry{}, e)
	assert.True(t, HasMask(e))
	assert.Equal(t, 64, e.(*BitmapEntry).HeaderHeight())

	img, err := e.Image()
	require.NoError(t, err)
	requireSamePixels(t, solid(32, 32, red), img)

	got := e.Descriptor()
	assert.True(t, got.Reconciled())
	assert.Equal(t, 32, got.Width)
	assert.Equal(t, 32, got.BitCount)
	assert.Equal(t, 40+32*32*4+32*4, got.SizeInBytes)
}

func TestDecodeZeroAlphaIsOpaque(t *testing.T) {
	raw := redSquare(0)
	e, err := NewEntry(Descriptor{Width: 32, Height: 32, BitCount: 32, SizeInBytes: len(raw)}, raw)
	require.NoError(t, err)

	img, err := e.Image()
	require.NoError(t, err)
	requireSamePixels(t, solid(32, 32, red), img)
	assert.Equal(t, byte(0), e.Bytes()[40+3], "payload alpha is left alone")
}

func TestDecodeKeepsPartialAlpha(t *testing.T) {
	xor := []byte{
		0, 0, 0xff, 0x80, 0, 0xff, 0, 0, // bottom row
		0xff, 0, 0, 0xff, 0x10, 0x20, 0x30, 0x40, // top row
	}
	and := make([]byte, 2*4)
	raw := rawBitmap(2, 4, 32, nil, xor, and)
	e, err := NewEntry(Descriptor{Width: 2, Height: 2, BitCount: 32}, raw)
	require.NoError(t, err)

	img, err := e.Image()
	require.NoError(t, err)
	assert.Equal(t, color.NRGBA{R: 0xff, A: 0x80}, img.NRGBAAt(0, 1))
	assert.Equal(t, color.NRGBA{G: 0xff, A: 0}, img.NRGBAAt(1, 1))
	assert.Equal(t, color.NRGBA{B: 0xff, A: 0xff}, img.NRGBAAt(0, 0))
	assert.Equal(t, color.NRGBA{R: 0x30, G: 0x20, B: 0x10, A: 0x40}, img.NRGBAAt(1, 0))
}

func TestHeightDoubling(t *testing.T) {
	xor := bytes.Repeat([]byte{0, 0, 0xff, 0xff}, 16*16)
	and := make([]byte, 16*4)
	// header height equals the icon height, which is the encoder mistake
	raw := rawBitmap(16, 16, 32, nil, xor, and)
	d := Descriptor{Width: 16, Height: 16, Planes: 1, BitCount: 32, SizeInBytes: len(raw)}

	e, err := NewEntry(d, raw)
	require.NoError(t, err)
	be := e.(*BitmapEntry)
	assert.Equal(t, 32, be.HeaderHeight())
	assert.Equal(t, uint32(32), binary.LittleEndian.Uint32(be.Bytes()[8:12]))
	assert.Equal(t, uint32(0), binary.LittleEndian.Uint32(be.Bytes()[16:20]), "compression is untouched")

	again, err := NewEntry(d, be.Bytes())
	require.NoError(t, err)
	assert.Equal(t, 32, again.(*BitmapEntry).HeaderHeight())
	assert.Equal(t, be.Bytes(), again.Bytes())
	assert.True(t, e.Descriptor().Equal(again.Descriptor()))
}

func TestSizeRecompute(t *testing.T) {
	xor := bytes.Repeat([]byte{0x10, 0x20, 0x30, 0xff}, 4*4)
	and := make([]byte, 4*4)
	raw := rawBitmap(4, 8, 32, nil, xor, and)
	want := len(raw)

	tests := []struct {
		name     string
		raw      []byte
		declared int
	}{
		{"exact", raw, want},
		{"trailing junk", append(append([]byte(nil), raw...), 1, 2, 3, 4, 5), want + 5},
		{"short payload", append([]byte(nil), raw[:want-10]...), want - 10},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e, err := NewEntry(Descriptor{Width: 4, Height: 4, BitCount: 32, SizeInBytes: tt.declared}, tt.raw)
			require.NoError(t, err)
			assert.Equal(t, want, e.Descriptor().SizeInBytes)
			assert.Len(t, e.Bytes(), want)
			if tt.declared < want {
				assert.Equal(t, make([]byte, 10), e.Bytes()[want-10:], "missing bytes are zero")
			}
			_, err = e.Image()
			assert.NoError(t, err)
		})
	}
}

func TestReconcileFromHeader(t *testing.T) {
	xor := make([]byte, 4*rowStride(8, 24))
	and := make([]byte, 4*4)
	raw := rawBitmap(8, 8, 24, nil, xor, and)
	binary.LittleEndian.PutUint32(raw[24:28], 2835)
	binary.LittleEndian.PutUint32(raw[28:32], 3780)
	binary.LittleEndian.PutUint32(raw[32:36], 7)
	binary.LittleEndian.PutUint32(raw[36:40], 3)

	// index claims 4 bits and width 4, the header says 24 bits and width 8
	d := Descriptor{Width: 4, Height: 4, ColorCount: 16, Planes: 0, BitCount: 4, SizeInBytes: 1, Source: "x.ico", SourceIndex: 5}
	e, err := NewEntry(d, raw)
	require.NoError(t, err)

	got := e.Descriptor()
	assert.Equal(t, 8, got.Width)
	assert.Equal(t, 4, got.Height)
	assert.Equal(t, 24, got.BitCount)
	assert.Equal(t, 1, got.Planes)
	assert.Equal(t, 16, got.ColorCount)
	assert.Equal(t, len(raw), got.SizeInBytes)
	assert.Equal(t, "x.ico", got.Source)
	assert.Equal(t, 5, got.SourceIndex)

	be := e.(*BitmapEntry)
	assert.Equal(t, dibHeaderSize, be.HeaderSize())
	assert.Equal(t, 0, be.Compression())
	assert.Equal(t, len(xor)+len(and), be.ImageSize())
	x, y := be.Resolution()
	assert.Equal(t, []int{2835, 3780}, []int{x, y})
	used, important := be.ColorsUsed()
	assert.Equal(t, []int{7, 3}, []int{used, important})
}

func TestDecodePaletted(t *testing.T) {
	// 4x2 at 8 bits: top row uses entry 0 (blue), bottom row entry 1 (green)
	xor := []byte{
		1, 1, 1, 1,
		0, 0, 0, 0,
	}
	// left column transparent
	and := []byte{
		0x80, 0, 0, 0,
		0x80, 0, 0, 0,
	}
	raw := rawBitmap(4, 4, 8, []color.NRGBA{blue, green}, xor, and)
	e, err := NewEntry(Descriptor{Width: 4, Height: 2, BitCount: 8}, raw)
	require.NoError(t, err)
	be := e.(*BitmapEntry)

	xi, err := be.XORImage()
	require.NoError(t, err)
	for x := 0; x < 4; x++ {
		assert.Equal(t, blue, xi.NRGBAAt(x, 0))
		assert.Equal(t, green, xi.NRGBAAt(x, 1))
	}

	ai, err := be.ANDImage()
	require.NoError(t, err)
	assert.Equal(t, blackWhite[1], ai.NRGBAAt(0, 0))
	assert.Equal(t, blackWhite[0], ai.NRGBAAt(1, 0))

	img, err := e.Image()
	require.NoError(t, err)
	assert.Equal(t, uint8(0), img.NRGBAAt(0, 0).A)
	assert.Equal(t, uint8(0), img.NRGBAAt(0, 1).A)
	assert.Equal(t, blue, img.NRGBAAt(3, 0))
}

func TestDecodeOneBit(t *testing.T) {
	// 3x1, pixel values 1,0,1 against a white/black table
	xor := []byte{0b10100000, 0, 0, 0}
	and := []byte{0, 0, 0, 0}
	raw := rawBitmap(3, 2, 1, []color.NRGBA{blackWhite[1], blackWhite[0]}, xor, and)
	e, err := NewEntry(Descriptor{Width: 3, Height: 1, BitCount: 1}, raw)
	require.NoError(t, err)

	img, err := e.Image()
	require.NoError(t, err)
	assert.Equal(t, blackWhite[0], img.NRGBAAt(0, 0))
	assert.Equal(t, blackWhite[1], img.NRGBAAt(1, 0))
	assert.Equal(t, blackWhite[0], img.NRGBAAt(2, 0))
}

func TestDecodeBitmapErrors(t *testing.T) {
	good := rawBitmap(2, 4, 32, nil, make([]byte, 16), make([]byte, 8))
	withBits := func(bits uint16) []byte {
		b := append([]byte(nil), good...)
		binary.LittleEndian.PutUint16(b[14:16], bits)
		return b
	}
	withWidth := func(w int32) []byte {
		b := append([]byte(nil), good...)
		binary.LittleEndian.PutUint32(b[4:8], uint32(w))
		return b
	}

	tests := []struct {
		name string
		raw  []byte
		want error
	}{
		{"short header", good[:20], ErrMalformedEntry},
		{"16 bits", withBits(16), ErrUnsupportedBitDepth},
		{"zero width", withWidth(0), ErrMalformedEntry},
		{"negative width", withWidth(-2), ErrMalformedEntry},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewEntry(Descriptor{Width: 2, Height: 2, BitCount: 32}, tt.raw)
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestReadImagePartial(t *testing.T) {
	// two rows of 2 pixels at 32 bits need 16 bytes
	data := bytes.Repeat([]byte{0, 0, 0xff, 0xff}, 2)
	img, err := readImage(data, 0, 2, 2, 32, true)
	assert.ErrorIs(t, err, ErrPixelData)
	require.NotNil(t, img)
	assert.Equal(t, red, img.NRGBAAt(0, 1), "rows before the cut are kept")
	assert.Equal(t, color.NRGBA{}, img.NRGBAAt(0, 0))

	_, err = readImage(data, 100, 2, 2, 32, true)
	assert.ErrorIs(t, err, ErrPixelData)

	_, err = readImage(data, 0, 2, 2, 8, true)
	assert.ErrorIs(t, err, ErrPixelData, "color table does not fit")
}
