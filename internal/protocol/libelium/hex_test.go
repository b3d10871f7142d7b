package libelium

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHexASCII_RoundTripAllBytes(t *testing.T) {
	for i := 0; i <= 0xFF; i++ {
		hi, lo := ByteToHexASCII(byte(i))
		assert.Equal(t, byte(i), HexASCIIToByte(hi, lo), "byte 0x%02X", i)
	}
}

func TestByteToHexASCII_Uppercase(t *testing.T) {
	hi, lo := ByteToHexASCII(0xAF)
	assert.Equal(t, byte('A'), hi)
	assert.Equal(t, byte('F'), lo)

	hi, lo = ByteToHexASCII(0x05)
	assert.Equal(t, byte('0'), hi)
	assert.Equal(t, byte('5'), lo)
}

func TestHexASCIIToByte_Leniency(t *testing.T) {
	tests := []struct {
		name   string
		hi, lo byte
		want   byte
	}{
		{"小写字母", 'a', 'f', 0xAF},
		{"大小写混合", 'B', 'c', 0xBC},
		{"非法高位按0计", 'G', '7', 0x07},
		{"非法低位按0计", '3', '*', 0x30},
		{"全部非法", '*', '*', 0x00},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, HexASCIIToByte(tt.hi, tt.lo))
		})
	}
}

func TestRender(t *testing.T) {
	assert.Equal(t, `\0x01READ\0x0D\0x0A2A31\0x04`, Render(BuildReadCommand()))
	assert.Equal(t, " ~", Render([]byte{0x20, 0x7E}))
	assert.Equal(t, `\0x1F\0x7F\0xFF`, Render([]byte{0x1F, 0x7F, 0xFF}))
	assert.Equal(t, "", Render(nil))
}
