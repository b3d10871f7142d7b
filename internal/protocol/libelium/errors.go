package libelium

import "errors"

var (
	// ErrUnexpectedByte 当前状态下收到不符合预期的字节
	ErrUnexpectedByte = errors.New("unexpected byte")
	// ErrPayloadTooLong 载荷超过 MaxPayloadLen
	ErrPayloadTooLong = errors.New("payload too long")
	// ErrBadCRC 网关帧 CRC 校验失败
	ErrBadCRC = errors.New("bad CRC")
	// ErrUnsupportedFrame 远端二进制帧（未实现解码）
	ErrUnsupportedFrame = errors.New("binary frame decoding not implemented")
	// ErrReset 传输层请求复位
	ErrReset = errors.New("reset requested")
	// ErrInvalidConfig 配置枚举值没有对应的协议 token
	ErrInvalidConfig = errors.New("invalid configuration")
)
