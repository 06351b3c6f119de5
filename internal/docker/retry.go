package docker

import (
	"context"
	"fmt"
	"strings"
	"time"
)

// 默认重试参数
const (
	DefaultAttempts = 3
	DefaultInterval = time.Second
)

// RetryPolicy 查询守护进程时的重试策略
type RetryPolicy interface {
	Attempts() int
	Delay(attempt int) time.Duration
}

// FixedPolicy 固定次数、固定间隔
type FixedPolicy struct {
	MaxAttempts int
	Interval    time.Duration
}

// NewFixedPolicy 创建固定间隔策略，次数至少为 1
func NewFixedPolicy(attempts int, interval time.Duration) FixedPolicy {
	if attempts < 1 {
		attempts = 1
	}
	if interval < 0 {
		interval = 0
	}
	return FixedPolicy{MaxAttempts: attempts, Interval: interval}
}

// DefaultPolicy 3 次，每次间隔 1 秒
func DefaultPolicy() FixedPolicy {
	return NewFixedPolicy(DefaultAttempts, DefaultInterval)
}

func (p FixedPolicy) Attempts() int {
	if p.MaxAttempts < 1 {
		return 1
	}
	return p.MaxAttempts
}

func (p FixedPolicy) Delay(int) time.Duration {
	return p.Interval
}

// DaemonError 守护进程命令最终失败
type DaemonError struct {
	Args      []string
	ExitCode  int
	Stderr    string
	Transient bool
	Attempts  int
	Err       error // 调用失败时的底层错误
}

func (e *DaemonError) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s 失败", strings.Join(e.Args, " "))
	if e.Err != nil {
		fmt.Fprintf(&b, ": %v", e.Err)
	} else {
		fmt.Fprintf(&b, " (exit %d)", e.ExitCode)
		if e.Stderr != "" {
			fmt.Fprintf(&b, ": %s", e.Stderr)
		}
	}
	if e.Attempts > 1 {
		fmt.Fprintf(&b, "，已尝试 %d 次", e.Attempts)
	}
	return b.String()
}

func (e *DaemonError) Unwrap() error {
	return e.Err
}

func sleepContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
