package cmd

import (
	"context"
	"time"

	"github.com/YangQing-Lin/cc-devbox/internal/docker"
	"github.com/YangQing-Lin/cc-devbox/internal/prompt"
	"github.com/YangQing-Lin/cc-devbox/internal/scaffold"
	"github.com/YangQing-Lin/cc-devbox/internal/settings"
	"github.com/YangQing-Lin/cc-devbox/internal/template"
)

// prompter init 过程中需要的交互
type prompter interface {
	scaffold.Chooser
	Confirm(question string) (bool, error)
}

// stopper 容器停止
type stopper interface {
	Stop(ctx context.Context, workspace string, timeout time.Duration) (*docker.StopResult, error)
}

// 以下变量便于测试替换
var (
	newCatalog   = template.NewBuiltinCatalog
	loadSettings = settings.NewManager
	newPrompter  = func() prompter { return prompt.New() }

	newDockerManager = func(s *settings.Manager) (stopper, error) {
		command, err := s.DockerCommand()
		if err != nil {
			return nil, err
		}
		policy := docker.NewFixedPolicy(s.RetryAttempts(), s.RetryDelay())
		return docker.NewManager(docker.NewExecRunner(command), policy), nil
	}
)

// workspaceArg 第一个位置参数为工作区，缺省为当前目录
func workspaceArg(args []string) string {
	if len(args) > 0 && args[0] != "" {
		return args[0]
	}
	return "."
}
