/*
   _____       __   __             _  __
  ╱ ____|     |  ╲/   |           | |/ /
 | |  __  ___ |  ╲ /  | __  _ _ __| ' /
 | | |_ |/ _ ╲| |╲ /| |/ _`  | '__|  <
 | |__| |  __/| |   | (  _|  | |  | . ╲
  ╲_____|╲___ |_|   |_|╲__,_ |_|  |_|╲_╲
 可爱飞行猪❤: golang83@outlook.com  💯💯💯
 Author Name: GeMarK.VK.Chow奥迪哥  🚗🔞🈲
 Creaet Time: 2026/10/13 - 09:12:03
 ProgramFile: bits.go
 Description:
			  调色板索引和透明掩码的位打包工具
*/

package ico

// rowStride 每行的字节数，行的位数向上取整到32的倍数
// Byte length of one row of width pixels at bitCount bits each, padded to 32 bits.
func rowStride(width, bitCount int) int {
	return (width*bitCount + 31) / 32 * 4
}

// colorTableEntries 调色板的颜色数量
// Number of color table entries that precede the XOR image.
func colorTableEntries(bitCount int) int {
	if bitCount <= 8 {
		return 1 << bitCount
	}
	return 0
}

// SplitBytes 将一行数据拆分为 width 个 bitCount 位的值，高位在前
// SplitBytes unpacks width values of bitCount bits from row, most significant
// group first. Values beyond width are padding and are dropped. bitCount must
// divide 8.
func SplitBytes(row []byte, bitCount, width int) []uint8 {
	per := 8 / bitCount
	mask := uint8(0xff >> (8 - bitCount))
	out := make([]uint8, 0, width)
	for _, b := range row {
		for j := per - 1; j >= 0 && len(out) < width; j-- {
			out = append(out, (b>>(uint(j*bitCount)))&mask)
		}
		if len(out) == width {
			break
		}
	}
	return out
}

// JoinBits 将 bitCount 位的值打包到 stride 字节的一行，高位在前，剩余位为0
// JoinBits packs values into a row of stride bytes, most significant group
// first. Unused trailing bits stay zero.
func JoinBits(values []uint8, bitCount, stride int) []byte {
	per := 8 / bitCount
	mask := uint8(0xff >> (8 - bitCount))
	row := make([]byte, stride)
	for i, v := range values {
		shift := uint((per - 1 - i%per) * bitCount)
		row[i/per] |= (v & mask) << shift
	}
	return row
}

// maskRow 打包一行透明掩码，填充位重复该行最后一个像素的值
// maskRow packs one row of AND mask bits (true means transparent) into stride
// bytes. Pad bits repeat the row's last real bit.
func maskRow(bits []bool, stride int) []byte {
	row := make([]byte, stride)
	last := false
	for i := 0; i < stride*8; i++ {
		if i < len(bits) {
			last = bits[i]
		}
		if last {
			row[i/8] |= 0x80 >> uint(i%8)
		}
	}
	return row
}
