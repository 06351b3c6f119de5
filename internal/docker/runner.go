// Package docker 通过容器守护进程的命令行管理开发容器的生命周期
package docker

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"
)

// Result 一次命令调用的结果
type Result struct {
	ExitCode int
	Stdout   string
	Stderr   string
}

// Runner 执行守护进程子命令；返回 error 表示无法调用，非零退出码放在 Result 中
type Runner interface {
	Run(ctx context.Context, args []string) (Result, error)
}

// ExecRunner 以子进程方式调用 CLI
type ExecRunner struct {
	Command []string // 如 ["docker"] 或 ["podman", "--remote"]
}

// NewExecRunner 创建 ExecRunner，command 为空时使用 docker
func NewExecRunner(command []string) *ExecRunner {
	if len(command) == 0 {
		command = []string{"docker"}
	}
	return &ExecRunner{Command: command}
}

// Run 执行 Command + args，捕获标准输出与标准错误
func (r *ExecRunner) Run(ctx context.Context, args []string) (Result, error) {
	if len(r.Command) == 0 {
		return Result{ExitCode: -1}, errors.New("未配置容器命令")
	}

	argv := append(append([]string{}, r.Command[1:]...), args...)
	cmd := exec.CommandContext(ctx, r.Command[0], argv...)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Start(); err != nil {
		return Result{ExitCode: -1}, fmt.Errorf("启动 %s 失败: %w", r.Command[0], err)
	}

	err := cmd.Wait()
	res := Result{Stdout: stdout.String(), Stderr: stderr.String()}
	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) && ctx.Err() == nil {
			res.ExitCode = exitErr.ExitCode()
			return res, nil
		}
		res.ExitCode = -1
		return res, fmt.Errorf("执行 %s %s 失败: %w", r.Command[0], strings.Join(args, " "), err)
	}
	return res, nil
}
