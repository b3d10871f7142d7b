package app

import (
	"io"

	cfgpkg "github.com/taoyao-code/loragw/internal/config"
	"github.com/taoyao-code/loragw/internal/gateway"
	"github.com/taoyao-code/loragw/internal/serial"
)

// NewSerialOpener 按配置打开网关串口
func NewSerialOpener(cfg cfgpkg.SerialConfig) gateway.Opener {
	return func() (io.ReadWriteCloser, error) {
		return serial.Open(cfg)
	}
}
