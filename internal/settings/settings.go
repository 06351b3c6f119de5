package settings

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/mattn/go-shellwords"

	"github.com/YangQing-Lin/cc-devbox/internal/utils"
)

// 环境变量
const (
	EnvNonInteractive = "CC_DEVBOX_NONINTERACTIVE"
	EnvDockerCommand  = "CC_DEVBOX_DOCKER"
	EnvRetryAttempts  = "CC_DEVBOX_RETRY_ATTEMPTS"
	EnvRetryDelayMs   = "CC_DEVBOX_RETRY_DELAY_MS"
)

// 默认值
const (
	DefaultDockerCommand      = "docker"
	DefaultRetryAttempts      = 3
	DefaultRetryDelayMs       = 1000
	DefaultStopTimeoutSeconds = 10
)

// AppSettings 应用设置
type AppSettings struct {
	DockerCommand      string `json:"dockerCommand"`      // 容器守护进程 CLI，如 "docker" 或 "podman --remote"
	RetryAttempts      int    `json:"retryAttempts"`      // 查询守护进程的最大尝试次数
	RetryDelayMs       int    `json:"retryDelayMs"`       // 每次重试之间的固定间隔
	StopTimeoutSeconds int    `json:"stopTimeoutSeconds"` // docker stop -t
}

// Manager 设置管理器
type Manager struct {
	settings     *AppSettings
	settingsPath string
}

func defaultSettings() *AppSettings {
	return &AppSettings{
		DockerCommand:      DefaultDockerCommand,
		RetryAttempts:      DefaultRetryAttempts,
		RetryDelayMs:       DefaultRetryDelayMs,
		StopTimeoutSeconds: DefaultStopTimeoutSeconds,
	}
}

// NewManager 创建设置管理器（~/.cc-devbox/settings.json）
func NewManager() (*Manager, error) {
	settingsPath, err := GetSettingsPath()
	if err != nil {
		return nil, fmt.Errorf("获取设置文件路径失败: %w", err)
	}
	return NewManagerWithPath(settingsPath)
}

// NewManagerWithPath 使用指定路径创建设置管理器
func NewManagerWithPath(settingsPath string) (*Manager, error) {
	manager := &Manager{
		settingsPath: settingsPath,
	}

	if err := manager.Load(); err != nil {
		return nil, err
	}

	return manager, nil
}

// GetSettingsPath 获取设置文件路径
func GetSettingsPath() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("获取用户主目录失败: %w", err)
	}

	return filepath.Join(homeDir, ".cc-devbox", "settings.json"), nil
}

// Load 加载设置文件
func (m *Manager) Load() error {
	// 如果设置文件不存在，创建默认设置
	if !utils.FileExists(m.settingsPath) {
		m.settings = defaultSettings()
		return m.Save()
	}

	// 缺失字段保留默认值
	m.settings = defaultSettings()
	if err := utils.ReadJSONFile(m.settingsPath, m.settings); err != nil {
		return fmt.Errorf("加载设置文件 %s 失败: %w", m.settingsPath, err)
	}

	return nil
}

// Save 保存设置文件
func (m *Manager) Save() error {
	dir := filepath.Dir(m.settingsPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("创建设置目录失败: %w", err)
	}

	return utils.WriteJSONFile(m.settingsPath, m.settings, 0600)
}

// Get 获取文件中的设置（不含环境变量覆盖）
func (m *Manager) Get() *AppSettings {
	return m.settings
}

// DockerCommand 返回守护进程 CLI 的参数向量，环境变量优先
func (m *Manager) DockerCommand() ([]string, error) {
	raw := m.settings.DockerCommand
	if env := strings.TrimSpace(os.Getenv(EnvDockerCommand)); env != "" {
		raw = env
	}
	if strings.TrimSpace(raw) == "" {
		raw = DefaultDockerCommand
	}

	args, err := shellwords.Parse(raw)
	if err != nil {
		return nil, fmt.Errorf("解析 docker 命令失败 %q: %w", raw, err)
	}
	if len(args) == 0 {
		return []string{DefaultDockerCommand}, nil
	}
	return args, nil
}

// RetryAttempts 查询重试次数，环境变量优先
func (m *Manager) RetryAttempts() int {
	if n, ok := envInt(EnvRetryAttempts); ok {
		return n
	}
	return m.settings.RetryAttempts
}

// RetryDelay 重试间隔，环境变量优先
func (m *Manager) RetryDelay() time.Duration {
	ms := m.settings.RetryDelayMs
	if n, ok := envInt(EnvRetryDelayMs); ok {
		ms = n
	}
	if ms < 0 {
		ms = 0
	}
	return time.Duration(ms) * time.Millisecond
}

// StopTimeout docker stop 的默认超时
func (m *Manager) StopTimeout() time.Duration {
	secs := m.settings.StopTimeoutSeconds
	if secs <= 0 {
		secs = DefaultStopTimeoutSeconds
	}
	return time.Duration(secs) * time.Second
}

// NonInteractive 是否禁用交互式提示
func NonInteractive() bool {
	return strings.TrimSpace(os.Getenv(EnvNonInteractive)) != ""
}

func envInt(key string) (int, bool) {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return 0, false
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, false
	}
	return n, true
}
