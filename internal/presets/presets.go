package presets

import (
	"fmt"
	"os"
	"sort"

	"gopkg.in/yaml.v3"

	"github.com/taoyao-code/loragw/internal/protocol/libelium"
)

// Preset 预设文件中的一项，枚举值使用名称（CH_10_868）或协议 token（FREC:CH_10_868）
type Preset struct {
	Channel         string `yaml:"channel" json:"channel"`
	Address         int    `yaml:"address" json:"address"`
	Bandwidth       string `yaml:"bandwidth" json:"bandwidth"`
	CodingRate      string `yaml:"codingRate" json:"codingRate"`
	SpreadingFactor string `yaml:"spreadingFactor" json:"spreadingFactor"`
}

// RadioConfig 转换并校验为 SET 命令参数
func (p Preset) RadioConfig() (libelium.RadioConfig, error) {
	var cfg libelium.RadioConfig
	var err error
	if cfg.Channel, err = libelium.ParseChannel(p.Channel); err != nil {
		return cfg, err
	}
	if cfg.Bandwidth, err = libelium.ParseBandwidth(p.Bandwidth); err != nil {
		return cfg, err
	}
	if cfg.CodingRate, err = libelium.ParseCodingRate(p.CodingRate); err != nil {
		return cfg, err
	}
	if cfg.SpreadingFactor, err = libelium.ParseSpreadingFactor(p.SpreadingFactor); err != nil {
		return cfg, err
	}
	cfg.Address = p.Address
	return cfg, cfg.Validate()
}

// Set 已校验的预设集合
type Set struct {
	configs map[string]libelium.RadioConfig
}

// file 预设文件结构：
//
//	presets:
//	  field-test:
//	    channel: CH_12_868
//	    address: 3
//	    bandwidth: BW_250
//	    codingRate: CR_6
//	    spreadingFactor: SF_9
type file struct {
	Presets map[string]Preset `yaml:"presets"`
}

// Empty 无预设
func Empty() *Set { return &Set{configs: map[string]libelium.RadioConfig{}} }

// Parse 解析 YAML 内容，任何一项非法都返回错误
func Parse(b []byte) (*Set, error) {
	var f file
	if err := yaml.Unmarshal(b, &f); err != nil {
		return nil, fmt.Errorf("unmarshal presets: %w", err)
	}
	s := Empty()
	for name, p := range f.Presets {
		cfg, err := p.RadioConfig()
		if err != nil {
			return nil, fmt.Errorf("preset %q: %w", name, err)
		}
		s.configs[name] = cfg
	}
	return s, nil
}

// Load 读取预设文件；path 为空时返回空集合
func Load(path string) (*Set, error) {
	if path == "" {
		return Empty(), nil
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read presets: %w", err)
	}
	return Parse(b)
}

// Get 按名称查找
func (s *Set) Get(name string) (libelium.RadioConfig, bool) {
	if s == nil {
		return libelium.RadioConfig{}, false
	}
	cfg, ok := s.configs[name]
	return cfg, ok
}

// Names 全部预设名称（排序）
func (s *Set) Names() []string {
	if s == nil {
		return nil
	}
	names := make([]string, 0, len(s.configs))
	for n := range s.configs {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}
