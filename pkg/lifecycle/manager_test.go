package lifecycle

import (
	"bytes"
	"context"
	"errors"
	"net"
	"net/http"
	"sync"
	"sync/atomic"
	"syscall"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/junbin-yang/go-fsmreactor/pkg/logger"
)

// runAsync 在后台运行管理器，返回 Run 的结果通道
func runAsync(m *Manager) <-chan error {
	done := make(chan error, 1)
	go func() { done <- m.Run() }()
	return done
}

func waitRun(t *testing.T, done <-chan error) error {
	t.Helper()
	select {
	case err := <-done:
		return err
	case <-time.After(3 * time.Second):
		t.Fatal("Run 未在预期时间内返回")
		return nil
	}
}

func TestAddWorkerDuplicate(t *testing.T) {
	m := NewManager()
	noop := func(ctx context.Context) error { return nil }

	require.NoError(t, m.AddWorker("test", noop))
	assert.ErrorIs(t, m.AddWorker("test", noop), ErrWorkerExists)
	assert.ErrorIs(t, m.StopWorker("missing"), ErrWorkerNotFound)
}

func TestShutdownOnExit(t *testing.T) {
	m := NewManager(WithSignals())

	var cancelled atomic.Bool
	require.NoError(t, m.AddWorker("server", func(ctx context.Context) error {
		<-ctx.Done()
		cancelled.Store(true)
		return ctx.Err()
	}))
	require.NoError(t, m.AddWorker("job", func(ctx context.Context) error {
		return nil
	}, WithShutdownOnExit()))

	var (
		mu     sync.Mutex
		exited []string
	)
	m.OnWorkerExit(func(name string, _ error) {
		mu.Lock()
		defer mu.Unlock()
		exited = append(exited, name)
	})

	require.NoError(t, waitRun(t, runAsync(m)))
	assert.True(t, cancelled.Load(), "其余任务应被取消")
	assert.ElementsMatch(t, []string{"job", "server"}, exited)
}

func TestStopFuncsRunInReverseOrder(t *testing.T) {
	m := NewManager(WithSignals())

	var order []string
	block := func(ctx context.Context) error {
		<-ctx.Done()
		return nil
	}
	stopper := func(name string) WorkerOption {
		return WithStopFunc(func(context.Context) error {
			order = append(order, name)
			return nil
		})
	}
	require.NoError(t, m.AddWorker("first", block, stopper("first")))
	require.NoError(t, m.AddWorker("second", block, stopper("second")))

	started := make(chan struct{})
	m.OnStartup(func(context.Context) error {
		close(started)
		return nil
	})

	done := runAsync(m)
	<-started
	time.Sleep(20 * time.Millisecond)
	require.NoError(t, m.Shutdown())
	require.NoError(t, waitRun(t, done))
	assert.Equal(t, []string{"second", "first"}, order)
}

func TestWorkerErrorStopsManager(t *testing.T) {
	m := NewManager(WithSignals())
	boom := errors.New("boom")

	var stopped atomic.Bool
	require.NoError(t, m.AddWorker("idle", func(ctx context.Context) error {
		<-ctx.Done()
		return nil
	}, WithStopFunc(func(context.Context) error {
		stopped.Store(true)
		return nil
	})))
	require.NoError(t, m.AddWorker("failing", func(context.Context) error { return boom }))

	err := waitRun(t, runAsync(m))
	assert.ErrorIs(t, err, boom)
	assert.True(t, stopped.Load(), "出错后仍应执行退出流程")
}

func TestWorkerPanicBecomesError(t *testing.T) {
	m := NewManager(WithSignals())
	require.NoError(t, m.AddWorker("panicky", func(context.Context) error { panic("bad") }))

	err := waitRun(t, runAsync(m))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "panicky")
}

func TestRunTwice(t *testing.T) {
	m := NewManager(WithSignals())
	require.NoError(t, m.AddWorker("job", func(context.Context) error { return nil }, WithShutdownOnExit()))

	require.NoError(t, waitRun(t, runAsync(m)))
	assert.ErrorIs(t, m.Run(), ErrAlreadyRunning)
}

func TestStartupHookError(t *testing.T) {
	m := NewManager(WithSignals())
	var ran atomic.Bool
	require.NoError(t, m.AddWorker("job", func(context.Context) error {
		ran.Store(true)
		return nil
	}))
	m.OnStartup(func(context.Context) error { return errors.New("not ready") })

	assert.EqualError(t, m.Run(), "not ready")
	assert.False(t, ran.Load())
}

func TestShutdownTimeout(t *testing.T) {
	m := NewManager(WithSignals(), WithShutdownTimeout(50*time.Millisecond))
	release := make(chan struct{})
	defer close(release)

	require.NoError(t, m.AddWorker("stuck", func(context.Context) error {
		<-release
		return nil
	}))

	var timedOut atomic.Bool
	m.OnTimeout(func(context.Context) error {
		timedOut.Store(true)
		return nil
	})
	var shutdownCalled atomic.Bool
	m.OnShutdown(func(context.Context) error {
		shutdownCalled.Store(true)
		return nil
	})

	done := runAsync(m)
	time.Sleep(20 * time.Millisecond)
	assert.ErrorIs(t, m.Shutdown(), ErrShutdownTimeout)
	assert.ErrorIs(t, waitRun(t, done), ErrShutdownTimeout)
	assert.True(t, timedOut.Load())
	assert.False(t, shutdownCalled.Load())
}

func TestAddWorkerWhileRunning(t *testing.T) {
	m := NewManager(WithSignals())
	started := make(chan struct{})
	m.OnStartup(func(context.Context) error {
		close(started)
		return nil
	})
	done := runAsync(m)
	<-started

	ran := make(chan struct{})
	require.NoError(t, m.AddWorker("late", func(context.Context) error {
		close(ran)
		return nil
	}, WithShutdownOnExit()))

	select {
	case <-ran:
	case <-time.After(time.Second):
		t.Fatal("运行中注册的任务未启动")
	}
	require.NoError(t, waitRun(t, done))
}

func TestStopWorker(t *testing.T) {
	m := NewManager(WithSignals())
	stopped := make(chan struct{})
	require.NoError(t, m.AddWorker("test", func(ctx context.Context) error {
		<-ctx.Done()
		close(stopped)
		return ctx.Err()
	}))
	started := make(chan struct{})
	m.OnStartup(func(context.Context) error {
		close(started)
		return nil
	})

	done := runAsync(m)
	<-started
	time.Sleep(20 * time.Millisecond)
	require.NoError(t, m.StopWorker("test"))

	select {
	case <-stopped:
	case <-time.After(time.Second):
		t.Fatal("任务未被停止")
	}
	require.NoError(t, m.Shutdown())
	require.NoError(t, waitRun(t, done))
}

func TestSignalTriggersShutdown(t *testing.T) {
	var buf bytes.Buffer
	m := NewManager(WithSignals(syscall.SIGUSR1), WithLogger(logger.New(&buf, logger.InfoLevel)))

	running := make(chan struct{})
	require.NoError(t, m.AddWorker("wait", func(ctx context.Context) error {
		close(running)
		<-ctx.Done()
		return nil
	}))

	done := runAsync(m)
	<-running
	require.NoError(t, syscall.Kill(syscall.Getpid(), syscall.SIGUSR1))

	require.NoError(t, waitRun(t, done))
	assert.Contains(t, buf.String(), "signal received")
	assert.Contains(t, buf.String(), "stopped")
}

func TestContextCancelStopsManager(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	m := NewManager(WithSignals(), WithContext(ctx))
	require.NoError(t, m.AddWorker("wait", func(ctx context.Context) error {
		<-ctx.Done()
		return nil
	}))

	done := runAsync(m)
	cancel()
	require.NoError(t, waitRun(t, done))
}

func TestHTTPServerShutdown(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	m := NewManager(WithSignals(), WithShutdownTimeout(5*time.Second))
	server := &http.Server{Handler: http.NotFoundHandler()}

	require.NoError(t, m.AddWorker("http-server",
		func(context.Context) error {
			if err := server.Serve(ln); !errors.Is(err, http.ErrServerClosed) {
				return err
			}
			return nil
		},
		WithStopFunc(server.Shutdown),
	))

	var shutdownCalled atomic.Bool
	m.OnShutdown(func(context.Context) error {
		shutdownCalled.Store(true)
		return nil
	})

	done := runAsync(m)
	time.Sleep(50 * time.Millisecond)

	start := time.Now()
	require.NoError(t, m.Shutdown())
	require.NoError(t, waitRun(t, done))
	assert.Less(t, time.Since(start), 2*time.Second)
	assert.True(t, shutdownCalled.Load())
}
