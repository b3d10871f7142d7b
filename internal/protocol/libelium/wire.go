package libelium

// 控制字符与帧标记
const (
	SOH byte = 0x01
	EOT byte = 0x04
	LF  byte = 0x0A
	CR  byte = 0x0D

	hashMark      byte = '#' // 0x23 远端 ASCII 帧字段分隔符
	semicolon     byte = ';' // 0x3B SET 参数分隔符
	remoteLT      byte = '<' // 0x3C 远端帧头
	remoteEqual   byte = '=' // 0x3D
	remoteGT      byte = '>' // 0x3E
	asciiTypeMask byte = 0x80 // 类型字节最高位：1=ASCII 帧，0=二进制帧
)

// MaxPayloadLen 单帧最大载荷长度（Libelium SX1272 组网手册规定 250 字节）
const MaxPayloadLen = 250

// ResetSignal 传输层请求复位的哨兵值（读到 EOF 或 I/O 错误）
const ResetSignal = -1

// firstFieldHashes 远端 ASCII 帧首字段之前固定的 '#' 个数
const firstFieldHashes = 4

// crcHexLen 网关帧 CRC 的 ASCII 十六进制字符数（高字节在前）
const crcHexLen = 4
