package ico

import (
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseIndexRow(t *testing.T) {
	tests := []struct {
		name          string
		row           []byte
		width, height int
	}{
		{"both stored", []byte{16, 32, 0, 0, 1, 0, 32, 0, 0, 1, 0, 0, 22, 0, 0, 0}, 16, 32},
		{"width zero", []byte{0, 48, 0, 0, 1, 0, 32, 0, 0, 1, 0, 0, 22, 0, 0, 0}, 256, 48},
		{"height zero", []byte{48, 0, 0, 0, 1, 0, 32, 0, 0, 1, 0, 0, 22, 0, 0, 0}, 48, 256},
		{"both zero", []byte{0, 0, 0, 0, 1, 0, 32, 0, 0, 1, 0, 0, 22, 0, 0, 0}, 256, 256},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := parseIndexRow(tt.row, "a.ico", 3)
			assert.Equal(t, tt.width, d.Width)
			assert.Equal(t, tt.height, d.Height)
			assert.Equal(t, 1, d.Planes)
			assert.Equal(t, 32, d.BitCount)
			assert.Equal(t, 256, d.SizeInBytes)
			assert.Equal(t, 22, d.FileOffset)
			assert.Equal(t, "a.ico", d.Source)
			assert.Equal(t, 3, d.SourceIndex)
			assert.False(t, d.Reconciled())

			row := make([]byte, 16)
			putIndexRow(row, d, d.SizeInBytes, d.FileOffset)
			assert.Equal(t, tt.row, row)
		})
	}
}

func TestDescriptorEqual(t *testing.T) {
	a := Descriptor{Width: 16, Height: 16, Planes: 1, BitCount: 32, SizeInBytes: 1128, FileOffset: 22, Source: "a.ico"}
	b := a
	assert.True(t, a.Equal(b))

	b.state = headerReconciled
	assert.True(t, a.Equal(b), "reconciliation state is not an attribute")

	b.Source = "b.ico"
	assert.False(t, a.Equal(b), "provenance takes part in equality")

	c := a
	c.SourceIndex = 1
	assert.False(t, a.Equal(c))
}

func TestCompareSort(t *testing.T) {
	ds := Descriptors{
		{Width: 48, BitCount: 8},
		{Width: 16, BitCount: 4},
		{Width: 32, BitCount: 32},
		{Width: 16, BitCount: 32},
		{Width: 256, BitCount: 32},
		{Width: 16, BitCount: 8},
	}
	sort.Stable(ds)

	type wb struct{ w, b int }
	var got []wb
	for _, d := range ds {
		got = append(got, wb{d.Width, d.BitCount})
	}
	assert.Equal(t, []wb{{16, 32}, {16, 8}, {16, 4}, {32, 32}, {48, 8}, {256, 32}}, got)

	assert.Zero(t, Compare(Descriptor{Width: 16, BitCount: 8}, Descriptor{Width: 16, BitCount: 8, Source: "x"}))
}

func TestDescriptorKey(t *testing.T) {
	d := Descriptor{Width: 32, Height: 32, ColorCount: 16, BitCount: 4, SizeInBytes: 744, FileOffset: 54, Source: "app.ico", SourceIndex: 2}
	assert.Equal(t, "app.ico[2]@32x32,4bit,16colors,744bytes,fileOffset=54", d.Key())
	assert.Equal(t, d.Key(), d.String())
}

func TestReconcile(t *testing.T) {
	d := Descriptor{Width: 16, Height: 16, Planes: 0, BitCount: 0, SizeInBytes: 10}
	h := createDIBHeader(32, 32, 8, 0)
	r := reconcile(d, h, 2000)

	require.True(t, r.Reconciled())
	assert.Equal(t, 32, r.Width)
	assert.Equal(t, 16, r.Height, "height comes from the index")
	assert.Equal(t, 1, r.Planes)
	assert.Equal(t, 8, r.BitCount)
	assert.Equal(t, 2000, r.SizeInBytes)
	assert.False(t, d.Reconciled(), "input is not modified")
}
