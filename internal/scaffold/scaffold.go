// Package scaffold 串起检测、模板选择、落盘与配置修补，完成一次 init
package scaffold

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/YangQing-Lin/cc-devbox/internal/compose"
	"github.com/YangQing-Lin/cc-devbox/internal/devcontainer"
	"github.com/YangQing-Lin/cc-devbox/internal/logging"
	"github.com/YangQing-Lin/cc-devbox/internal/project"
	"github.com/YangQing-Lin/cc-devbox/internal/template"
	"github.com/YangQing-Lin/cc-devbox/internal/utils"
)

// 默认值
const (
	DefaultService      = "app"
	FirewallScript      = "init-firewall.sh"
	ClaudeConfigMount   = "source=claude-code-config-${devcontainerId},target=/home/node/.claude,type=volume"
	ClaudeConfigPattern = "target=/home/node/.claude"
)

var (
	// ErrAlreadyInitialized 工作区已有 devcontainer.json
	ErrAlreadyInitialized = errors.New("devcontainer.json already exists")
	// ErrUnknownService 指定的服务不在 compose 文件中
	ErrUnknownService = errors.New("unknown compose service")
)

// Chooser 多个 compose 服务时由调用方决定使用哪一个
type Chooser interface {
	ChooseService(services []string, details map[string]string) (string, error)
}

// firstService 总是选第一个
type firstService struct{}

func (firstService) ChooseService(services []string, _ map[string]string) (string, error) {
	return services[0], nil
}

// Options init 参数
type Options struct {
	Workspace  string
	Template   string   // 显式指定的模板 ID
	Service    string   // 显式指定的 compose 服务
	Mounts     []string // 额外的挂载声明
	RemoteUser string
	NoFirewall bool
	Force      bool
}

// Deps 外部依赖
type Deps struct {
	Catalog *template.Catalog
	Chooser Chooser // 为 nil 时选第一个服务
}

// Inspection 工作区检测结果
type Inspection struct {
	Workspace      string
	Classification project.Classification
	Compose        compose.Detection
	Services       []string
	TemplateID     string
}

// Result init 结果
type Result struct {
	Inspection
	Files       *template.MaterializeResult
	ConfigPath  string
	Service     string
	MountsAdded []string
	Firewall    bool
	Warnings    []string
}

func (r *Result) warn(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	logging.Warnf("%s", msg)
	r.Warnings = append(r.Warnings, msg)
}

// Inspect 分类项目、检测 compose 文件并选出模板，不写任何文件
func Inspect(workspace string, catalog *template.Catalog, override string) (*Inspection, error) {
	abs, err := filepath.Abs(workspace)
	if err != nil {
		return nil, fmt.Errorf("解析工作区路径失败: %w", err)
	}
	if !utils.DirExists(abs) {
		return nil, fmt.Errorf("工作区不存在: %s", abs)
	}

	in := &Inspection{
		Workspace:      abs,
		Classification: project.Classify(abs),
		Compose:        compose.Detect(abs),
	}
	if in.Compose.Found {
		in.Services = compose.ExtractServices(in.Compose.Path(abs))
	}

	in.TemplateID, err = template.Select(catalog, template.SelectionInput{
		Override:       override,
		Kind:           in.Classification.Kind,
		ComposePresent: in.Compose.Found,
	})
	if err != nil {
		return nil, err
	}
	return in, nil
}

// Run 为工作区生成 .devcontainer
func Run(ctx context.Context, opts Options, deps Deps) (*Result, error) {
	if deps.Catalog == nil {
		return nil, errors.New("未提供模板目录")
	}
	chooser := deps.Chooser
	if chooser == nil {
		chooser = firstService{}
	}

	in, err := Inspect(opts.Workspace, deps.Catalog, opts.Template)
	if err != nil {
		return nil, err
	}
	logging.Debugf("项目类型 %s，模板 %s", in.Classification.Kind, in.TemplateID)

	result := &Result{Inspection: *in, ConfigPath: devcontainer.ConfigPath(in.Workspace)}
	if utils.FileExists(result.ConfigPath) && !opts.Force {
		return nil, fmt.Errorf("%w: %s (use --force to overwrite)", ErrAlreadyInitialized, result.ConfigPath)
	}

	// 交互选择放在写文件之前，取消时工作区保持原样
	if in.Compose.Found {
		result.Service, err = chooseService(in, opts.Service, chooser, result)
		if err != nil {
			return nil, err
		}
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	entry, err := deps.Catalog.Get(in.TemplateID)
	if err != nil {
		return nil, err
	}
	result.Files, err = deps.Catalog.Materialize(entry, devcontainer.ConfigDir(in.Workspace), opts.Force)
	if err != nil {
		return nil, fmt.Errorf("写入模板 %s 失败: %w", entry.ID, err)
	}

	if _, err := devcontainer.Load(result.ConfigPath); err != nil {
		return nil, fmt.Errorf("模板 %s 未生成可用的 %s: %w", entry.ID, devcontainer.FileName, err)
	}

	if in.Compose.Found {
		if _, err := devcontainer.WireCompose(result.ConfigPath, "../"+in.Compose.FileName, result.Service); err != nil {
			return nil, err
		}
	}

	mounts := append([]string{ClaudeConfigMount}, opts.Mounts...)
	for i, spec := range mounts {
		pattern := ClaudeConfigPattern
		if i > 0 {
			pattern = MountPattern(spec)
		}
		added, err := devcontainer.AddMount(result.ConfigPath, spec, pattern)
		if err != nil {
			return nil, err
		}
		if added {
			result.MountsAdded = append(result.MountsAdded, spec)
		}
	}

	if !opts.NoFirewall {
		result.Firewall = true
		if err := deps.Catalog.CopyShared(FirewallScript, devcontainer.ConfigDir(in.Workspace)); err != nil {
			result.warn("复制 %s 失败: %v", FirewallScript, err)
			result.Firewall = false
		}
		if _, err := devcontainer.EnableFirewall(result.ConfigPath); err != nil {
			result.warn("启用防火墙失败: %v", err)
			result.Firewall = false
		}
	}

	if opts.RemoteUser != "" {
		if _, err := devcontainer.MergeDefaults(result.ConfigPath, []devcontainer.Field{
			{Key: devcontainer.KeyRemoteUser, Value: opts.RemoteUser},
		}); err != nil {
			return nil, err
		}
	}

	return result, nil
}

func chooseService(in *Inspection, explicit string, chooser Chooser, result *Result) (string, error) {
	services := in.Services
	if explicit != "" {
		if len(services) == 0 {
			return explicit, nil
		}
		for _, s := range services {
			if s == explicit {
				return explicit, nil
			}
		}
		return "", fmt.Errorf("%w: %s (available: %s)", ErrUnknownService, explicit, strings.Join(services, ", "))
	}

	switch len(services) {
	case 0:
		result.warn("%s 中没有找到服务，使用默认服务 %q", in.Compose.FileName, DefaultService)
		return DefaultService, nil
	case 1:
		return services[0], nil
	}
	details := compose.DescribeServices(in.Compose.Path(in.Workspace))
	return chooser.ChooseService(services, details)
}

// MountPattern 取挂载声明中的 target= 段用于去重，没有时用整个声明
func MountPattern(spec string) string {
	for _, part := range strings.Split(spec, ",") {
		part = strings.TrimSpace(part)
		if strings.HasPrefix(part, "target=") {
			return part
		}
	}
	return spec
}
