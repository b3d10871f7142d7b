package libelium

// Diagnostics 展示侧能力接口：日志文本与帧文本各有两种投递方式
//   - Log / Frame：调用方保证处于展示侧可直接调用的上下文
//   - LogLater / FrameLater：任何上下文均可调用，由实现自行转投
//
// 编解码器只调用该接口，不关心实现是同步输出还是异步排队
type Diagnostics interface {
	Log(msg string)
	LogLater(msg string)
	Frame(text string)
	FrameLater(text string)
}

// NopDiagnostics 丢弃全部输出
type NopDiagnostics struct{}

func (NopDiagnostics) Log(string)        {}
func (NopDiagnostics) LogLater(string)   {}
func (NopDiagnostics) Frame(string)      {}
func (NopDiagnostics) FrameLater(string) {}
