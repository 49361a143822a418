// Package reactor 在独立的 worker 协程上运行有限状态机。
//
// 调用方只需实现 FSM：给定当前状态与事件，返回下一状态（或终止）以及可选输出。
// Reactor 负责创建状态机、按投递顺序串行处理事件，并在状态机终止或
// 所有投递端关闭后通过 Join 返回最终输出。
//
//	r := reactor.New(newDoorFSM, reactor.WithName("door"))
//	_ = r.Send(Open)
//	_ = r.Send(Lock)
//	resp, ok, err := r.Join()
//
// 状态与状态机实例只被 worker 访问，实现方无需任何同步原语。
package reactor
