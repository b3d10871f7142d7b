package libelium

import (
	"fmt"
	"strconv"
)

const (
	readCommand = "READ"
	setCommand  = "SET#"
	addrPrefix  = "ADDR:"
)

// BuildReadCommand 构造读取网关配置的命令帧
// 格式：SOH "READ" CR LF <CRC 高字节 hex><CRC 低字节 hex> EOT
func BuildReadCommand() []byte {
	return buildGatewayFrame([]byte(readCommand))
}

// BuildSetCommand 构造设置网关无线参数的命令帧
// 格式：SOH "SET#" 信道 ";" "ADDR:"地址 ";" 带宽 ";" 编码率 ";" 扩频因子 CR LF <CRC> EOT
// 地址范围由调用方校验（RadioConfig.Validate）；枚举值无对应 token 时返回 ErrInvalidConfig
func BuildSetCommand(cfg RadioConfig) ([]byte, error) {
	ch, ok := cfg.Channel.Token()
	if !ok {
		return nil, fmt.Errorf("%w: channel %d", ErrInvalidConfig, int(cfg.Channel))
	}
	bw, ok := cfg.Bandwidth.Token()
	if !ok {
		return nil, fmt.Errorf("%w: bandwidth %d", ErrInvalidConfig, int(cfg.Bandwidth))
	}
	cr, ok := cfg.CodingRate.Token()
	if !ok {
		return nil, fmt.Errorf("%w: coding rate %d", ErrInvalidConfig, int(cfg.CodingRate))
	}
	sf, ok := cfg.SpreadingFactor.Token()
	if !ok {
		return nil, fmt.Errorf("%w: spreading factor %d", ErrInvalidConfig, int(cfg.SpreadingFactor))
	}

	body := make([]byte, 0, 64)
	body = append(body, setCommand...)
	body = append(body, ch...)
	body = append(body, semicolon)
	body = append(body, addrPrefix...)
	body = strconv.AppendInt(body, int64(cfg.Address), 10)
	body = append(body, semicolon)
	body = append(body, bw...)
	body = append(body, semicolon)
	body = append(body, cr...)
	body = append(body, semicolon)
	body = append(body, sf...)
	return buildGatewayFrame(body), nil
}

// buildGatewayFrame SOH + body + CR LF + CRC(body) + EOT
func buildGatewayFrame(body []byte) []byte {
	frame := make([]byte, 0, 1+len(body)+2+crcHexLen+1)
	frame = append(frame, SOH)
	frame = append(frame, body...)
	frame = append(frame, CR, LF)
	frame = appendCRC(frame, body)
	frame = append(frame, EOT)
	return frame
}
