package libelium

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCompute_KnownVectors(t *testing.T) {
	tests := []struct {
		name   string
		data   []byte
		lo, hi byte
	}{
		{"空输入返回种子", nil, 0xFF, 0xFF},
		{"标准校验串", []byte("123456789"), 0x37, 0x4B},
		{"READ", []byte("READ"), 0x31, 0x2A},
		{"SET 示例", []byte("SET#FREC:CH_10_868;ADDR:5;BW:BW_125;CR:CR_5;SF:SF_6"), 0xB3, 0x8C},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			lo, hi := Compute(tt.data)
			assert.Equal(t, tt.lo, lo, "low byte")
			assert.Equal(t, tt.hi, hi, "high byte")
		})
	}
}

func TestCompute_Deterministic(t *testing.T) {
	data := []byte{0x00, 0x7F, 0x80, 0xFF, 'R', 'E', 'A', 'D'}
	lo1, hi1 := Compute(data)
	lo2, hi2 := Compute(data)
	assert.Equal(t, lo1, lo2)
	assert.Equal(t, hi1, hi2)
}

func TestCompute_MatchesBitwiseModbus(t *testing.T) {
	// 与逐位算法（多项式 0xA001）对照
	bitwise := func(data []byte) uint16 {
		crc := uint16(0xFFFF)
		for _, b := range data {
			crc ^= uint16(b)
			for i := 0; i < 8; i++ {
				if crc&1 != 0 {
					crc = crc>>1 ^ 0xA001
				} else {
					crc >>= 1
				}
			}
		}
		return crc
	}
	data := make([]byte, 256)
	for i := range data {
		data[i] = byte(i)
	}
	for n := 0; n <= len(data); n += 17 {
		want := bitwise(data[:n])
		lo, hi := Compute(data[:n])
		assert.Equal(t, want, uint16(hi)<<8|uint16(lo), "len=%d", n)
	}
}

func TestEncodeCRC_HighByteFirst(t *testing.T) {
	digits := EncodeCRC(0x31, 0x2A)
	assert.Equal(t, [4]byte{'2', 'A', '3', '1'}, digits)
}

func TestDecodeCRC_RoundTrip(t *testing.T) {
	for _, v := range []uint16{0x0000, 0x2A31, 0x8CB3, 0xFFFF, 0x00FF, 0xFF00} {
		lo, hi := DecodeCRC(EncodeCRC(byte(v), byte(v>>8)))
		assert.Equal(t, byte(v), lo)
		assert.Equal(t, byte(v>>8), hi)
	}
}

func TestDecodeCRC_LowercaseDigits(t *testing.T) {
	lo, hi := DecodeCRC([4]byte{'8', 'c', 'b', '3'})
	assert.Equal(t, byte(0xB3), lo)
	assert.Equal(t, byte(0x8C), hi)
}
