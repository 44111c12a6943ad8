package fonts

import (
	"context"
	"errors"
	"log/slog"
	"sync"
)

// State 是字体缓存的加载状态。
type State int

const (
	StateNotStarted State = iota
	StatePending
	StateReady
	// StateFailed 表示上一次加载失败；下一次 Get 会重新加载。
	StateFailed
)

func (s State) String() string {
	switch s {
	case StateNotStarted:
		return "not-started"
	case StatePending:
		return "pending"
	case StateReady:
		return "ready"
	case StateFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// Cache 对字体加载做进程级记忆：同一时刻最多只有一次加载在进行，
// 并发调用者等待同一个结果；成功后永久缓存，失败后允许下一次调用重试。
type Cache struct {
	loader Loader
	logger *slog.Logger

	mu      sync.Mutex
	state   State
	pending *call
	data    []byte
}

type call struct {
	done chan struct{}
	data []byte
	err  error
}

// NewCache 创建字体缓存。logger 为空时使用 slog.Default()。
func NewCache(loader Loader, logger *slog.Logger) *Cache {
	if logger == nil {
		logger = slog.Default()
	}
	return &Cache{loader: loader, logger: logger}
}

// State 返回当前状态。
func (c *Cache) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Get 返回字体数据。加载本身不受 ctx 取消影响（其他调用者可能在等待同一结果），
// ctx 只决定当前调用者愿意等待多久。
func (c *Cache) Get(ctx context.Context) ([]byte, error) {
	if c == nil || c.loader == nil {
		return nil, errors.New("fonts: 未配置字体加载器")
	}

	c.mu.Lock()
	switch c.state {
	case StateReady:
		data := c.data
		c.mu.Unlock()
		return data, nil
	case StatePending:
		cl := c.pending
		c.mu.Unlock()
		return wait(ctx, cl)
	}
	cl := &call{done: make(chan struct{})}
	c.pending = cl
	c.state = StatePending
	c.mu.Unlock()

	go c.fetch(context.WithoutCancel(ctx), cl)
	return wait(ctx, cl)
}

func (c *Cache) fetch(ctx context.Context, cl *call) {
	data, err := c.loader.Load(ctx)
	if err == nil {
		err = Validate(data)
	}

	c.mu.Lock()
	c.pending = nil
	if err != nil {
		c.state = StateFailed
		c.data = nil
		c.logger.Error("加载自定义字体失败，下次导出时重试", "error", err)
	} else {
		c.state = StateReady
		c.data = data
		c.logger.Debug("自定义字体已加载", "bytes", len(data))
	}
	cl.data, cl.err = data, err
	c.mu.Unlock()
	close(cl.done)
}

func wait(ctx context.Context, cl *call) ([]byte, error) {
	select {
	case <-cl.done:
		if cl.err != nil {
			return nil, cl.err
		}
		return cl.data, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}
