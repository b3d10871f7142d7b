package libelium

import (
	"fmt"
	"strconv"
)

// Channel 频点信道（868MHz 频段）
type Channel int

const (
	Ch10_868 Channel = iota
	Ch11_868
	Ch12_868
	Ch13_868
	Ch14_868
	Ch15_868
	Ch16_868
	Ch17_868
)

// Bandwidth 带宽
type Bandwidth int

const (
	BW125 Bandwidth = iota
	BW250
	BW500
)

// CodingRate 编码率
type CodingRate int

const (
	CR5 CodingRate = iota
	CR6
	CR7
	CR8
)

// SpreadingFactor 扩频因子
type SpreadingFactor int

const (
	SF6 SpreadingFactor = iota
	SF7
	SF8
	SF9
	SF10
	SF11
	SF12
)

// 枚举 -> 协议 token（按枚举序号索引）
var (
	channelTokens = [...]string{
		"FREC:CH_10_868", "FREC:CH_11_868", "FREC:CH_12_868", "FREC:CH_13_868",
		"FREC:CH_14_868", "FREC:CH_15_868", "FREC:CH_16_868", "FREC:CH_17_868",
	}
	bandwidthTokens       = [...]string{"BW:BW_125", "BW:BW_250", "BW:BW_500"}
	codingRateTokens      = [...]string{"CR:CR_5", "CR:CR_6", "CR:CR_7", "CR:CR_8"}
	spreadingFactorTokens = [...]string{"SF:SF_6", "SF:SF_7", "SF:SF_8", "SF:SF_9", "SF:SF_10", "SF:SF_11", "SF:SF_12"}
)

// 枚举名称（HTTP API / 预设文件中使用）
var (
	channelNames         = [...]string{"CH_10_868", "CH_11_868", "CH_12_868", "CH_13_868", "CH_14_868", "CH_15_868", "CH_16_868", "CH_17_868"}
	bandwidthNames       = [...]string{"BW_125", "BW_250", "BW_500"}
	codingRateNames      = [...]string{"CR_5", "CR_6", "CR_7", "CR_8"}
	spreadingFactorNames = [...]string{"SF_6", "SF_7", "SF_8", "SF_9", "SF_10", "SF_11", "SF_12"}
)

// 反向查找表：token 或名称 -> 枚举
var (
	channelByKey         = indexKeys(channelTokens[:], channelNames[:])
	bandwidthByKey       = indexKeys(bandwidthTokens[:], bandwidthNames[:])
	codingRateByKey      = indexKeys(codingRateTokens[:], codingRateNames[:])
	spreadingFactorByKey = indexKeys(spreadingFactorTokens[:], spreadingFactorNames[:])
)

func indexKeys(tokens, names []string) map[string]int {
	m := make(map[string]int, len(tokens)+len(names))
	for i, t := range tokens {
		m[t] = i
	}
	for i, n := range names {
		m[n] = i
	}
	return m
}

func lookup[T ~int](table []string, v T) (string, bool) {
	if v < 0 || int(v) >= len(table) {
		return "", false
	}
	return table[v], true
}

// Token 返回协议 token，例如 "FREC:CH_10_868"
func (c Channel) Token() (string, bool) { return lookup(channelTokens[:], c) }

// Token 返回协议 token，例如 "BW:BW_125"
func (b Bandwidth) Token() (string, bool) { return lookup(bandwidthTokens[:], b) }

// Token 返回协议 token，例如 "CR:CR_5"
func (r CodingRate) Token() (string, bool) { return lookup(codingRateTokens[:], r) }

// Token 返回协议 token，例如 "SF:SF_6"
func (s SpreadingFactor) Token() (string, bool) { return lookup(spreadingFactorTokens[:], s) }

func (c Channel) String() string         { return nameOf(channelNames[:], c) }
func (b Bandwidth) String() string       { return nameOf(bandwidthNames[:], b) }
func (r CodingRate) String() string      { return nameOf(codingRateNames[:], r) }
func (s SpreadingFactor) String() string { return nameOf(spreadingFactorNames[:], s) }

func nameOf[T ~int](names []string, v T) string {
	if n, ok := lookup(names, v); ok {
		return n
	}
	return "UNKNOWN(" + strconv.Itoa(int(v)) + ")"
}

// ParseChannel 接受名称（CH_10_868）或协议 token（FREC:CH_10_868）
func ParseChannel(s string) (Channel, error) {
	v, ok := channelByKey[s]
	if !ok {
		return 0, fmt.Errorf("%w: unknown channel %q", ErrInvalidConfig, s)
	}
	return Channel(v), nil
}

// ParseBandwidth 接受名称（BW_125）或协议 token（BW:BW_125）
func ParseBandwidth(s string) (Bandwidth, error) {
	v, ok := bandwidthByKey[s]
	if !ok {
		return 0, fmt.Errorf("%w: unknown bandwidth %q", ErrInvalidConfig, s)
	}
	return Bandwidth(v), nil
}

// ParseCodingRate 接受名称（CR_5）或协议 token（CR:CR_5）
func ParseCodingRate(s string) (CodingRate, error) {
	v, ok := codingRateByKey[s]
	if !ok {
		return 0, fmt.Errorf("%w: unknown coding rate %q", ErrInvalidConfig, s)
	}
	return CodingRate(v), nil
}

// ParseSpreadingFactor 接受名称（SF_6）或协议 token（SF:SF_6）
func ParseSpreadingFactor(s string) (SpreadingFactor, error) {
	v, ok := spreadingFactorByKey[s]
	if !ok {
		return 0, fmt.Errorf("%w: unknown spreading factor %q", ErrInvalidConfig, s)
	}
	return SpreadingFactor(v), nil
}

// Options 各参数可选值（名称），供界面展示
type Options struct {
	Channels         []string `json:"channels"`
	Bandwidths       []string `json:"bandwidths"`
	CodingRates      []string `json:"codingRates"`
	SpreadingFactors []string `json:"spreadingFactors"`
}

// AvailableOptions 返回全部可选值
func AvailableOptions() Options {
	return Options{
		Channels:         append([]string(nil), channelNames[:]...),
		Bandwidths:       append([]string(nil), bandwidthNames[:]...),
		CodingRates:      append([]string(nil), codingRateNames[:]...),
		SpreadingFactors: append([]string(nil), spreadingFactorNames[:]...),
	}
}

// MinAddress / MaxAddress 网关无线地址范围
const (
	MinAddress = 1
	MaxAddress = 255
)

// RadioConfig 一次 SET 命令的全部参数
type RadioConfig struct {
	Channel         Channel
	Address         int
	Bandwidth       Bandwidth
	CodingRate      CodingRate
	SpreadingFactor SpreadingFactor
}

// DefaultRadioConfig 界面默认值：各枚举第一项，地址 1
func DefaultRadioConfig() RadioConfig {
	return RadioConfig{Channel: Ch10_868, Address: MinAddress, Bandwidth: BW125, CodingRate: CR5, SpreadingFactor: SF6}
}

// Validate 调用方在构造 SET 帧之前负责校验地址范围
func (c RadioConfig) Validate() error {
	if c.Address < MinAddress || c.Address > MaxAddress {
		return fmt.Errorf("%w: address must be an integer between %d and %d", ErrInvalidConfig, MinAddress, MaxAddress)
	}
	return nil
}
