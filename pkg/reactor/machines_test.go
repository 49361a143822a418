package reactor

import "fmt"

type testEvent int

const (
	E1 testEvent = iota + 1
	E2
)

func (e testEvent) String() string { return fmt.Sprintf("E%d", int(e)) }

type testState int

const (
	S1 testState = iota
	S2
)

func (s testState) String() string { return fmt.Sprintf("S%d", int(s)+1) }

type step = Transition[testState, string]

type respondCall struct {
	old  testState
	next *testState
	resp string
}

// twoStateFSM 两状态示例机：S1 收到 E1 退出
type twoStateFSM struct {
	outputs   []*string
	responded []respondCall
}

func (m *twoStateFSM) Transit(old testState, ev testEvent) step {
	var t step
	switch {
	case old == S1 && ev == E1:
		t = step{Terminate: true, Response: "Quitting", HasResponse: true}
	case old == S1 && ev == E2:
		t = step{Next: S2}
	case old == S2 && ev == E1:
		t = step{Next: S1, Response: "S2@E1->S1", HasResponse: true}
	case old == S2 && ev == E2:
		t = step{Next: S2, Response: "S2@E2->S2", HasResponse: true}
	default:
		panic(fmt.Sprintf("unhandled %v on %v", ev, old))
	}

	if t.HasResponse {
		r := t.Response
		m.outputs = append(m.outputs, &r)
	} else {
		m.outputs = append(m.outputs, nil)
	}
	return t
}

func (m *twoStateFSM) Respond(old testState, next *testState, resp string) {
	m.responded = append(m.responded, respondCall{old: old, next: next, resp: resp})
}

// counterFSM 状态为计数器；事件为负数时终止并输出当前计数
type counterFSM struct {
	start   int
	seen    []int
	trace   []respondTrace
	panicOn int
}

type respondTrace struct {
	old  int
	next int
}

func (m *counterFSM) InitialState() int { return m.start }

func (m *counterFSM) Transit(old int, ev int) Transition[int, int] {
	if m.panicOn != 0 && ev == m.panicOn {
		panic("boom")
	}
	m.seen = append(m.seen, ev)
	if ev < 0 {
		return Transition[int, int]{Terminate: true, Response: old, HasResponse: true}
	}
	return Transition[int, int]{Next: old + 1, Response: old, HasResponse: true}
}

func (m *counterFSM) Respond(old int, next *int, _ int) {
	n := -1
	if next != nil {
		n = *next
	}
	m.trace = append(m.trace, respondTrace{old: old, next: n})
}

type tagged struct {
	producer int
	seq      int
}

// collectFSM 记录所有事件，从不终止
type collectFSM struct {
	got []tagged
}

func (m *collectFSM) Transit(old int, ev tagged) Transition[int, struct{}] {
	m.got = append(m.got, ev)
	return Transition[int, struct{}]{Next: old + 1}
}

func (m *collectFSM) Respond(int, *int, struct{}) {}
