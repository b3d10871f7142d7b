package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// AppConfig 应用基础信息
type AppConfig struct {
	Name     string `mapstructure:"name"`
	Env      string `mapstructure:"env"`
	Instance string `mapstructure:"instance"` // 实例标识，多个控制器共用 Redis 时区分历史记录
}

// HTTPConfig HTTP 控制面配置
type HTTPConfig struct {
	Addr         string        `mapstructure:"addr"`
	ReadTimeout  time.Duration `mapstructure:"readTimeout"`
	WriteTimeout time.Duration `mapstructure:"writeTimeout"`
}

// SerialConfig 网关串口配置（Libelium LoRa 网关：38400 8N1，无流控）
type SerialConfig struct {
	Device      string        `mapstructure:"device"`
	Baud        int           `mapstructure:"baud"`
	ReadTimeout time.Duration `mapstructure:"readTimeout"`
}

// LumberjackConfig 日志滚动（lumberjack）配置
type LumberjackConfig struct {
	Filename   string `mapstructure:"filename"`
	MaxSizeMB  int    `mapstructure:"maxSize"`
	MaxBackups int    `mapstructure:"maxBackups"`
	MaxAgeDays int    `mapstructure:"maxAge"`
	Compress   bool   `mapstructure:"compress"`
}

// LoggingConfig 日志级别与输出配置
type LoggingConfig struct {
	Level  string           `mapstructure:"level"`
	Format string           `mapstructure:"format"`
	File   LumberjackConfig `mapstructure:"file"`
}

// MetricsConfig Prometheus 指标暴露配置
type MetricsConfig struct {
	Enable bool   `mapstructure:"enable"`
	Path   string `mapstructure:"path"`
}

// RedisConfig 历史记录共享存储（可选）
type RedisConfig struct {
	Enabled      bool          `mapstructure:"enabled"`
	Addr         string        `mapstructure:"addr"`
	Password     string        `mapstructure:"password"`
	DB           int           `mapstructure:"db"`
	PoolSize     int           `mapstructure:"poolSize"`
	DialTimeout  time.Duration `mapstructure:"dialTimeout"`
	ReadTimeout  time.Duration `mapstructure:"readTimeout"`
	WriteTimeout time.Duration `mapstructure:"writeTimeout"`
	KeyPrefix    string        `mapstructure:"keyPrefix"`
}

// GatewayConfig 网关命令与历史记录配置
type GatewayConfig struct {
	CommandRate   float64 `mapstructure:"commandRate"`  // 每秒允许下发的命令数
	CommandBurst  int     `mapstructure:"commandBurst"` // 突发容量
	MaxFrames     int     `mapstructure:"maxFrames"`    // 保留的最近帧数
	MaxLogs       int     `mapstructure:"maxLogs"`      // 保留的最近日志数
	DiagQueueSize int     `mapstructure:"diagQueueSize"`
	PresetsPath   string  `mapstructure:"presetsPath"` // 无线参数预设文件（YAML），可为空
}

// AuthConfig API Key 认证配置
type AuthConfig struct {
	Enabled bool     `mapstructure:"enabled"`
	APIKeys []string `mapstructure:"apiKeys"`
}

// APIConfig HTTP API 配置
type APIConfig struct {
	Auth AuthConfig `mapstructure:"auth"`
	CORS bool       `mapstructure:"cors"`
}

// WebhookConfig 帧转发到第三方 Webhook
type WebhookConfig struct {
	Enabled   bool          `mapstructure:"enabled"`
	URL       string        `mapstructure:"url"`
	APIKey    string        `mapstructure:"apiKey"`
	Secret    string        `mapstructure:"secret"` // HMAC-SHA256 签名密钥
	Timeout   time.Duration `mapstructure:"timeout"`
	Retries   int           `mapstructure:"retries"`
	QueueSize int           `mapstructure:"queueSize"`
	Kinds     []string      `mapstructure:"kinds"` // gateway / remote_ascii，为空表示全部
}

// Config 顶层配置结构
type Config struct {
	App     AppConfig     `mapstructure:"app"`
	HTTP    HTTPConfig    `mapstructure:"http"`
	Serial  SerialConfig  `mapstructure:"serial"`
	Logging LoggingConfig `mapstructure:"logging"`
	Metrics MetricsConfig `mapstructure:"metrics"`
	Redis   RedisConfig   `mapstructure:"redis"`
	Gateway GatewayConfig `mapstructure:"gateway"`
	API     APIConfig     `mapstructure:"api"`
	Webhook WebhookConfig `mapstructure:"webhook"`
}

// Load 从 YAML/TOML/JSON 文件与环境变量加载配置。
// 若 path 为空，则尝试从环境变量 LORAGW_CONFIG 读取；否则回退到 configs/loragw.yaml。
func Load(path string) (*Config, error) {
	v := viper.New()

	// 环境变量覆盖：前缀 LORAGW_，并将点号替换为下划线
	v.SetEnvPrefix("LORAGW")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path == "" {
		path = v.GetString("CONFIG")
	}

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.AddConfigPath(".")
		v.AddConfigPath("./configs")
		v.SetConfigName("loragw")
		v.SetConfigType("yaml")
	}

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		// 首次运行允许缺少配置文件，依赖默认值与环境变量
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate 校验必须项
func (c *Config) Validate() error {
	if c.Serial.Device == "" {
		return errors.New("serial.device is required")
	}
	if c.Serial.Baud <= 0 {
		return fmt.Errorf("serial.baud must be positive, got %d", c.Serial.Baud)
	}
	if c.Gateway.MaxFrames <= 0 || c.Gateway.MaxLogs <= 0 {
		return errors.New("gateway.maxFrames and gateway.maxLogs must be positive")
	}
	if c.API.Auth.Enabled && len(c.API.Auth.APIKeys) == 0 {
		return errors.New("api.auth.apiKeys is required when api.auth.enabled is true")
	}
	if c.Webhook.Enabled && c.Webhook.URL == "" {
		return errors.New("webhook.url is required when webhook.enabled is true")
	}
	return nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("app.name", "loragw")
	v.SetDefault("app.env", "dev")

	v.SetDefault("http.addr", ":8080")
	v.SetDefault("http.readTimeout", "5s")
	v.SetDefault("http.writeTimeout", "10s")

	v.SetDefault("serial.device", "/dev/ttyUSB0")
	v.SetDefault("serial.baud", 38400)
	v.SetDefault("serial.readTimeout", "500ms")

	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "json")
	v.SetDefault("logging.file.filename", "logs/loragw.log")
	v.SetDefault("logging.file.maxSize", 50)
	v.SetDefault("logging.file.maxBackups", 5)
	v.SetDefault("logging.file.maxAge", 14)
	v.SetDefault("logging.file.compress", true)

	v.SetDefault("metrics.enable", true)
	v.SetDefault("metrics.path", "/metrics")

	v.SetDefault("redis.enabled", false)
	v.SetDefault("redis.addr", "localhost:6379")
	v.SetDefault("redis.db", 0)
	v.SetDefault("redis.poolSize", 10)
	v.SetDefault("redis.dialTimeout", "5s")
	v.SetDefault("redis.readTimeout", "3s")
	v.SetDefault("redis.writeTimeout", "3s")
	v.SetDefault("redis.keyPrefix", "loragw")

	v.SetDefault("gateway.commandRate", 2)
	v.SetDefault("gateway.commandBurst", 1)
	v.SetDefault("gateway.maxFrames", 100)
	v.SetDefault("gateway.maxLogs", 200)
	v.SetDefault("gateway.diagQueueSize", 256)
	v.SetDefault("gateway.presetsPath", "")

	v.SetDefault("api.auth.enabled", false)
	v.SetDefault("api.cors", true)

	v.SetDefault("webhook.enabled", false)
	v.SetDefault("webhook.timeout", "5s")
	v.SetDefault("webhook.retries", 3)
	v.SetDefault("webhook.queueSize", 256)
	v.SetDefault("webhook.kinds", []string{"remote_ascii"})
}
