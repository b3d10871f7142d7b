package libelium

import "github.com/sigurn/crc16"

// modbusTable CRC-16/MODBUS 查表（种子 0xFFFF，反射多项式 0xA001）
var modbusTable = crc16.MakeTable(crc16.CRC16_MODBUS)

// Compute 计算 CRC-16/MODBUS，返回 (低字节, 高字节)
// 空输入返回种子值 (0xFF, 0xFF)
func Compute(data []byte) (lo, hi byte) {
	crc := crc16.Checksum(data, modbusTable)
	return byte(crc), byte(crc >> 8)
}

// EncodeCRC 把 CRC 编码为线上的 4 个 ASCII 十六进制字符
// 注意字节序：线上先发高字节，再发低字节；Compute 返回的是低字节在前
func EncodeCRC(lo, hi byte) [crcHexLen]byte {
	var out [crcHexLen]byte
	out[0], out[1] = ByteToHexASCII(hi)
	out[2], out[3] = ByteToHexASCII(lo)
	return out
}

// DecodeCRC 按 EncodeCRC 的顺序还原 (低字节, 高字节)
func DecodeCRC(digits [crcHexLen]byte) (lo, hi byte) {
	hi = HexASCIIToByte(digits[0], digits[1])
	lo = HexASCIIToByte(digits[2], digits[3])
	return lo, hi
}

// appendCRC 计算 data 的 CRC 并以线上格式追加到 dst
func appendCRC(dst, data []byte) []byte {
	digits := EncodeCRC(Compute(data))
	return append(dst, digits[:]...)
}
