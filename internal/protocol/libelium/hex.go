package libelium

import "strings"

var hexDigits = [16]byte{'0', '1', '2', '3', '4', '5', '6', '7', '8', '9', 'A', 'B', 'C', 'D', 'E', 'F'}

// hexPrefix 不可打印字节的显示前缀，例如 SOH 显示为 \0x01
const hexPrefix = `\0x`

// ByteToHexASCII 返回字节的两位大写十六进制 ASCII 字符，高半字节在前
func ByteToHexASCII(b byte) (hi, lo byte) {
	return hexDigits[b>>4], hexDigits[b&0x0F]
}

// HexASCIIToByte ByteToHexASCII 的逆运算，大小写字母均可
// 兼容旧网关：非十六进制字符按 0 计算，不报错
func HexASCIIToByte(hi, lo byte) byte {
	return nibble(hi)<<4 | nibble(lo)
}

func nibble(c byte) byte {
	switch {
	case c >= '0' && c <= '9':
		return c - '0'
	case c >= 'A' && c <= 'F':
		return c - 'A' + 10
	case c >= 'a' && c <= 'f':
		return c - 'a' + 10
	}
	return 0
}

// Render 把帧转换为可读文本：0x20-0x7E 原样输出，其余字节输出为 \0xHH
func Render(b []byte) string {
	var sb strings.Builder
	sb.Grow(len(b))
	for _, c := range b {
		if c >= 0x20 && c <= 0x7E {
			sb.WriteByte(c)
			continue
		}
		hi, lo := ByteToHexASCII(c)
		sb.WriteString(hexPrefix)
		sb.WriteByte(hi)
		sb.WriteByte(lo)
	}
	return sb.String()
}
