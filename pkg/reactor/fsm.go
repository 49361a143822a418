package reactor

// FSM 封装状态机的转换逻辑。
//
// E 为事件类型，S 为状态类型，R 为转换输出类型。S 的零值是初始状态，
// 需要其他初始状态时实现 Initializer。Transit 与 Respond 只会在 worker
// 协程上串行调用。
type FSM[E comparable, S comparable, R any] interface {
	// Transit 将当前状态与事件映射为下一状态与可选输出。
	// 返回 Terminate 时状态机结束，Response 作为最终结果由 Join 返回。
	Transit(old S, ev E) Transition[S, R]

	// Respond 在产生输出的转换之后、状态提交之前调用，终止转换也会调用。
	// next 为 nil 表示该转换终止状态机。
	Respond(old S, next *S, resp R)
}

// Transition 是一次转换的结果
type Transition[S comparable, R any] struct {
	Next        S    // 下一状态，Terminate 时忽略
	Response    R    // 输出，仅 HasResponse 时有效
	HasResponse bool // 是否产生输出
	Terminate   bool // 终止状态机
}

// Initializer 可选接口，指定非零值的初始状态
type Initializer[S comparable] interface {
	InitialState() S
}

func initialState[E comparable, S comparable, R any](m FSM[E, S, R]) S {
	if init, ok := m.(Initializer[S]); ok {
		return init.InitialState()
	}
	var zero S
	return zero
}
