package libelium

import (
	"fmt"
	"strconv"
)

// State 组帧状态机状态
type State int

const (
	// 网关帧
	AwaitHeader State = iota
	AwaitGatewayPayload
	AwaitLF
	AwaitCRCDigit1
	AwaitCRCDigit2
	AwaitCRCDigit3
	AwaitCRCDigit4
	AwaitEOT
	// 远端设备帧公共部分
	AwaitEqual
	AwaitGT
	AwaitType
	// 远端 ASCII 帧（结尾有一个文档未说明的 CR LF）
	AwaitFieldCount
	AwaitFirstField
	AwaitTrailingHashes
	AwaitFinalCR
	AwaitFinalLF
	// 远端二进制帧（未实现）
	AwaitByteCount
)

var stateNames = [...]string{
	"AwaitHeader", "AwaitGatewayPayload", "AwaitLF",
	"AwaitCRCDigit1", "AwaitCRCDigit2", "AwaitCRCDigit3", "AwaitCRCDigit4", "AwaitEOT",
	"AwaitEqual", "AwaitGT", "AwaitType",
	"AwaitFieldCount", "AwaitFirstField", "AwaitTrailingHashes", "AwaitFinalCR", "AwaitFinalLF",
	"AwaitByteCount",
}

func (s State) String() string { return nameOf(stateNames[:], s) }

// Kind 已组装消息的来源
type Kind int

const (
	KindGateway     Kind = iota // 网关本地帧（SOH ... EOT）
	KindRemoteASCII             // 远端设备 ASCII 帧（<=> ...）
)

func (k Kind) String() string {
	switch k {
	case KindGateway:
		return "gateway"
	case KindRemoteASCII:
		return "remote_ascii"
	}
	return "unknown"
}

// Message 一帧完整载荷（不含帧定界符与 CRC）
type Message struct {
	Kind    Kind
	Payload []byte
}

// RejectFunc 组帧失败回调，err 为 errors.Is 可判别的哨兵错误
type RejectFunc func(state State, err error)

// Assembler 逐字节组帧状态机
// 非并发安全：同一时刻只能由一个读循环驱动
type Assembler struct {
	diag     Diagnostics
	onReject RejectFunc

	state  State
	buf    []byte
	crcHex [crcHexLen]byte
	// 远端 ASCII 帧：声明的字段数与已收到的 '#' 个数
	nbFields int
	nbHash   int
}

// AssemblerOption 构造选项
type AssemblerOption func(*Assembler)

// WithRejectHook 安装组帧失败回调（用于指标统计）
func WithRejectHook(fn RejectFunc) AssemblerOption {
	return func(a *Assembler) { a.onReject = fn }
}

// NewAssembler 创建组帧状态机，diag 为空时丢弃诊断输出
func NewAssembler(diag Diagnostics, opts ...AssemblerOption) *Assembler {
	if diag == nil {
		diag = NopDiagnostics{}
	}
	a := &Assembler{diag: diag, state: AwaitHeader, buf: make([]byte, 0, MaxPayloadLen)}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// State 当前状态
func (a *Assembler) State() State { return a.state }

// Buffered 当前接收缓冲区长度
func (a *Assembler) Buffered() int { return len(a.buf) }

// Process 处理一个字节；b == ResetSignal 时复位
// 组帧完成时返回消息，否则返回 nil
func (a *Assembler) Process(b int) *Message {
	if b == ResetSignal {
		a.Reset()
		return nil
	}
	return a.Feed(byte(b))
}

// Reset 传输层请求复位（EOF、读错误），无条件回到初始状态
func (a *Assembler) Reset() {
	a.diag.LogLater(strconv.Itoa(ResetSignal) + " passed to frame assembler")
	a.fail(ErrReset)
}

// Feed 处理一个协议字节
func (a *Assembler) Feed(b byte) *Message {
	switch a.state {
	case AwaitHeader:
		switch b {
		case SOH:
			a.buf = a.buf[:0]
			a.state = AwaitGatewayPayload
		case remoteLT:
			a.buf = append(a.buf[:0], remoteLT)
			a.state = AwaitEqual
		default:
			// 帧外字节：忽略，状态不变
			a.diag.LogLater("incorrect byte received: " + strconv.Itoa(int(b)))
			a.notify(ErrUnexpectedByte)
		}

	// 网关帧
	case AwaitGatewayPayload:
		if b == CR {
			a.state = AwaitLF
			break
		}
		a.push(b)
	case AwaitLF:
		if b != LF {
			a.reject(ErrUnexpectedByte, "!= LF received")
			break
		}
		a.state = AwaitCRCDigit1
	case AwaitCRCDigit1, AwaitCRCDigit2, AwaitCRCDigit3:
		a.crcHex[a.state-AwaitCRCDigit1] = b
		a.state++
	case AwaitCRCDigit4:
		a.crcHex[3] = b
		if !a.checkCRC() {
			a.reject(ErrBadCRC, "bad CRC")
			break
		}
		a.state = AwaitEOT
	case AwaitEOT:
		if b != EOT {
			a.reject(ErrUnexpectedByte, "!= EOT received")
			break
		}
		return a.accept(KindGateway)

	// 远端设备帧
	case AwaitEqual:
		if b != remoteEqual {
			a.reject(ErrUnexpectedByte, "!= = received")
			break
		}
		if a.push(b) {
			a.state = AwaitGT
		}
	case AwaitGT:
		if b != remoteGT {
			a.reject(ErrUnexpectedByte, "!= > received")
			break
		}
		if a.push(b) {
			a.state = AwaitType
		}
	case AwaitType:
		if !a.push(b) {
			break
		}
		if b&asciiTypeMask != 0 {
			a.state = AwaitFieldCount
		} else {
			a.state = AwaitByteCount
		}

	// 远端 ASCII 帧
	case AwaitFieldCount:
		if !a.push(b) {
			break
		}
		a.nbFields = int(b)
		a.nbHash = 0
		a.state = AwaitFirstField
	case AwaitFirstField:
		// 先等 4 个 '#'，之后才是第一个字段
		if a.push(b) && b == hashMark {
			a.nbHash++
			if a.nbHash >= firstFieldHashes {
				a.nbHash = 0
				a.state = AwaitTrailingHashes
				if a.nbFields == 0 {
					a.state = AwaitFinalCR
				}
			}
		}
	case AwaitTrailingHashes:
		// 每个字段以 '#' 结尾，共 nbFields 个
		if a.push(b) && b == hashMark {
			a.nbHash++
			if a.nbHash >= a.nbFields {
				a.state = AwaitFinalCR
			}
		}
	case AwaitFinalCR:
		if b != CR {
			a.reject(ErrUnexpectedByte, "!= CR received")
			break
		}
		a.state = AwaitFinalLF
	case AwaitFinalLF:
		if b != LF {
			a.reject(ErrUnexpectedByte, "!= LF received")
			break
		}
		if a.push(b) {
			return a.accept(KindRemoteASCII)
		}

	// 远端二进制帧
	case AwaitByteCount:
		a.reject(ErrUnsupportedFrame, "binary frame decoding not implemented yet, ignoring frame")

	default:
		a.reject(ErrUnexpectedByte, fmt.Sprintf("unknown state for frame assembler: %d", a.state))
	}
	return nil
}

// push 追加到接收缓冲区；溢出时丢弃整帧并返回 false
func (a *Assembler) push(b byte) bool {
	if len(a.buf) >= MaxPayloadLen {
		a.reject(ErrPayloadTooLong, fmt.Sprintf("payload longer than %d bytes, frame dropped", MaxPayloadLen))
		return false
	}
	a.buf = append(a.buf, b)
	return true
}

// checkCRC 比较缓冲载荷的 CRC 与收到的 4 位十六进制 CRC
func (a *Assembler) checkCRC() bool {
	lo, hi := Compute(a.buf)
	recLo, recHi := DecodeCRC(a.crcHex)
	return lo == recLo && hi == recHi
}

func (a *Assembler) accept(kind Kind) *Message {
	payload := make([]byte, len(a.buf))
	copy(payload, a.buf)
	a.state = AwaitHeader
	a.buf = a.buf[:0]
	return &Message{Kind: kind, Payload: payload}
}

// reject 输出一条诊断并复位
func (a *Assembler) reject(err error, msg string) {
	a.diag.LogLater(msg)
	a.fail(err)
}

func (a *Assembler) fail(err error) {
	a.notify(err)
	a.state = AwaitHeader
	a.buf = a.buf[:0]
	a.nbFields = 0
	a.nbHash = 0
}

func (a *Assembler) notify(err error) {
	if a.onReject != nil {
		a.onReject(a.state, err)
	}
}
