package docker

import (
	"context"
	"fmt"
	"math"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/YangQing-Lin/cc-devbox/internal/compose"
	"github.com/YangQing-Lin/cc-devbox/internal/devcontainer"
	"github.com/YangQing-Lin/cc-devbox/internal/logging"
)

// WorkspaceLabel 开发容器记录工作区路径的标签
const WorkspaceLabel = "devcontainer.local_folder"

// DefaultStopTimeout docker stop 的默认等待时间
const DefaultStopTimeout = 10 * time.Second

// Manager 容器生命周期管理
type Manager struct {
	runner Runner
	policy RetryPolicy
	sleep  func(ctx context.Context, d time.Duration) error
}

// NewManager 创建管理器；policy 为 nil 时使用默认策略
func NewManager(runner Runner, policy RetryPolicy) *Manager {
	if policy == nil {
		policy = DefaultPolicy()
	}
	return &Manager{runner: runner, policy: policy, sleep: sleepContext}
}

// StopFailure 单个容器停止失败
type StopFailure struct {
	ID  string
	Err error
}

// StopResult 停止操作的汇总
type StopResult struct {
	UsedCompose bool
	Stopped     []string
	AlreadyGone []string
	Failed      []StopFailure
}

// PartialFailure 是否有容器停止失败
func (r *StopResult) PartialFailure() bool {
	return len(r.Failed) > 0
}

// query 执行查询类命令，临时故障按策略重试
func (m *Manager) query(ctx context.Context, args ...string) (Result, error) {
	attempts := m.policy.Attempts()
	if attempts < 1 {
		attempts = 1
	}

	var lastErr *DaemonError
	for attempt := 1; attempt <= attempts; attempt++ {
		res, err := m.runner.Run(ctx, args)
		switch {
		case err != nil:
			lastErr = &DaemonError{Args: args, ExitCode: -1, Transient: true, Err: err}
		case res.ExitCode == 0:
			return res, nil
		default:
			lastErr = &DaemonError{
				Args:      args,
				ExitCode:  res.ExitCode,
				Stderr:    strings.TrimSpace(res.Stderr),
				Transient: IsTransient(res.Stderr),
			}
			if !lastErr.Transient {
				lastErr.Attempts = attempt
				return res, lastErr
			}
		}

		if attempt < attempts {
			logging.Debugf("%s 第 %d 次失败，准备重试: %v", strings.Join(args, " "), attempt, lastErr)
			if err := m.sleep(ctx, m.policy.Delay(attempt)); err != nil {
				lastErr.Attempts = attempt
				return Result{}, fmt.Errorf("%w: %v", lastErr, err)
			}
		}
	}

	lastErr.Attempts = attempts
	return Result{}, lastErr
}

// Discover 查找工作区对应的运行中容器：先按标签查询，无结果时按容器名匹配
func (m *Manager) Discover(ctx context.Context, workspace string) ([]string, error) {
	abs, err := filepath.Abs(workspace)
	if err != nil {
		return nil, fmt.Errorf("解析工作区路径失败: %w", err)
	}

	res, err := m.query(ctx, "ps", "-q", "--filter", "label="+WorkspaceLabel+"="+abs)
	if err != nil {
		return nil, err
	}
	if ids := strings.Fields(res.Stdout); len(ids) > 0 {
		logging.Debugf("按标签找到 %d 个容器", len(ids))
		return ids, nil
	}

	res, err = m.query(ctx, "ps", "--format", "{{.ID}}\t{{.Names}}")
	if err != nil {
		return nil, err
	}

	base := filepath.Base(abs)
	var ids []string
	for _, line := range strings.Split(res.Stdout, "\n") {
		id, names, ok := strings.Cut(strings.TrimSpace(line), "\t")
		if !ok || id == "" {
			continue
		}
		for _, name := range strings.Split(names, ",") {
			if MatchesWorkspace(strings.TrimSpace(name), base) {
				ids = append(ids, id)
				break
			}
		}
	}
	if len(ids) > 0 {
		logging.Debugf("按容器名找到 %d 个容器", len(ids))
	}
	return ids, nil
}

// MatchesWorkspace 容器名中是否以 _ 或 - 为边界包含工作区目录名（忽略大小写）
func MatchesWorkspace(name, base string) bool {
	if base == "" || name == "" {
		return false
	}
	re := regexp.MustCompile(`(?i)(^|[_-])` + regexp.QuoteMeta(base) + `($|[_-])`)
	return re.MatchString(name)
}

// Stop 停止工作区的开发容器。
// .devcontainer 下有 compose 文件时先整体 down，失败再逐个停止；
// 单个容器失败不中断，结果中记录
func (m *Manager) Stop(ctx context.Context, workspace string, timeout time.Duration) (*StopResult, error) {
	abs, err := filepath.Abs(workspace)
	if err != nil {
		return nil, fmt.Errorf("解析工作区路径失败: %w", err)
	}
	if timeout <= 0 {
		timeout = DefaultStopTimeout
	}

	if m.composeDown(ctx, abs) {
		return &StopResult{UsedCompose: true}, nil
	}

	ids, err := m.Discover(ctx, abs)
	if err != nil {
		return nil, err
	}
	if len(ids) == 0 {
		logging.Infof("没有找到 %s 的运行中容器", abs)
	}

	seconds := strconv.Itoa(int(math.Ceil(timeout.Seconds())))
	result := &StopResult{}
	for _, id := range ids {
		res, err := m.runner.Run(ctx, []string{"stop", "-t", seconds, id})
		if err == nil && res.ExitCode == 0 {
			logging.Infof("已停止容器 %s", id)
			result.Stopped = append(result.Stopped, id)
			continue
		}

		stopErr := err
		if stopErr == nil {
			stopErr = &DaemonError{
				Args:     []string{"stop", "-t", seconds, id},
				ExitCode: res.ExitCode,
				Stderr:   strings.TrimSpace(res.Stderr),
				Attempts: 1,
			}
		}
		if IsBenignStop(stopErr.Error()) {
			logging.Infof("容器 %s 已停止或不存在", id)
			result.AlreadyGone = append(result.AlreadyGone, id)
			continue
		}
		logging.Warnf("停止容器 %s 失败: %v", id, stopErr)
		result.Failed = append(result.Failed, StopFailure{ID: id, Err: stopErr})
	}

	return result, nil
}

// composeDown 执行一次 compose down；成功返回 true
func (m *Manager) composeDown(ctx context.Context, workspace string) bool {
	dir := devcontainer.ConfigDir(workspace)
	det := compose.Detect(dir)
	if !det.Found {
		return false
	}

	args := []string{"compose", "-f", det.Path(dir), "-p", compose.ProjectName(workspace), "down"}
	res, err := m.runner.Run(ctx, args)
	if err == nil && res.ExitCode == 0 {
		logging.Infof("已通过 compose 停止 %s", compose.ProjectName(workspace))
		return true
	}
	if err != nil {
		logging.Warnf("compose down 失败，改为逐个停止容器: %v", err)
	} else {
		logging.Warnf("compose down 失败 (exit %d)，改为逐个停止容器: %s", res.ExitCode, strings.TrimSpace(res.Stderr))
	}
	return false
}
