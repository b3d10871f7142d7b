package serial

import (
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/tarm/serial"

	cfgpkg "github.com/taoyao-code/loragw/internal/config"
)

// Port 串口抽象：真实串口或测试替身
type Port interface {
	io.ReadWriteCloser
}

// ErrNoDevice 未配置设备路径
var ErrNoDevice = errors.New("serial device not configured")

// Libelium LoRa 网关串口参数：8 数据位，1 停止位，无校验
const (
	dataBits = 8
	stopBits = serial.Stop1
	parity   = serial.ParityNone
)

// Options 转换为 tarm/serial 配置
func Options(cfg cfgpkg.SerialConfig) (*serial.Config, error) {
	if cfg.Device == "" {
		return nil, ErrNoDevice
	}
	return &serial.Config{
		Name:        cfg.Device,
		Baud:        cfg.Baud,
		Size:        dataBits,
		StopBits:    stopBits,
		Parity:      parity,
		ReadTimeout: Timeout(cfg),
	}, nil
}

// Open 打开并配置串口
func Open(cfg cfgpkg.SerialConfig) (Port, error) {
	sc, err := Options(cfg)
	if err != nil {
		return nil, err
	}
	p, err := serial.OpenPort(sc)
	if err != nil {
		return nil, fmt.Errorf("open serial port %s: %w", cfg.Device, err)
	}
	return p, nil
}

// IsTimeout 读超时：tarm/serial 在超时后返回 0 字节与 io.EOF（Unix）或 nil（Windows）
func IsTimeout(n int, err error) bool {
	return n == 0 && (err == nil || errors.Is(err, io.EOF))
}

// Timeout 返回配置中的读超时，未配置时使用 500ms；读循环依赖超时返回来检查 ctx
func Timeout(cfg cfgpkg.SerialConfig) time.Duration {
	if cfg.ReadTimeout <= 0 {
		return 500 * time.Millisecond
	}
	return cfg.ReadTimeout
}
