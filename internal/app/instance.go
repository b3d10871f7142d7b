package app

import (
	"os"

	cfgpkg "github.com/taoyao-code/loragw/internal/config"
)

// InstanceID 实例标识：优先配置 app.instance，否则 "<app.name>-<hostname>"
// 同一主机重启后标识不变
func InstanceID(cfg cfgpkg.AppConfig) string {
	if cfg.Instance != "" {
		return cfg.Instance
	}
	hostname, err := os.Hostname()
	if err != nil || hostname == "" {
		hostname = "unknown"
	}
	name := cfg.Name
	if name == "" {
		name = "loragw"
	}
	return name + "-" + hostname
}
