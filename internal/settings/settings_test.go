package settings

import (
	"os"
	"path/filepath"
	"reflect"
	"runtime"
	"testing"
	"time"

	"github.com/YangQing-Lin/cc-devbox/internal/utils"
)

func TestNewManager(t *testing.T) {
	tmpDir := t.TempDir()
	t.Setenv("HOME", tmpDir)
	t.Setenv("USERPROFILE", tmpDir)

	manager, err := NewManager()
	if err != nil {
		t.Fatalf("NewManager() error = %v", err)
	}

	got := manager.Get()
	if got.DockerCommand != DefaultDockerCommand || got.RetryAttempts != DefaultRetryAttempts {
		t.Errorf("默认设置不正确: %+v", got)
	}

	settingsPath := filepath.Join(tmpDir, ".cc-devbox", "settings.json")
	if !utils.FileExists(settingsPath) {
		t.Error("设置文件未被创建")
	}
	if runtime.GOOS != "windows" {
		info, err := os.Stat(settingsPath)
		if err != nil {
			t.Fatalf("获取文件信息失败: %v", err)
		}
		if info.Mode().Perm() != 0600 {
			t.Errorf("设置文件权限应为 0600，实际 %o", info.Mode().Perm())
		}
	}
}

func TestLoadKeepsDefaultsForMissingFields(t *testing.T) {
	path := filepath.Join(t.TempDir(), "settings.json")
	if err := os.WriteFile(path, []byte(`{"retryAttempts": 5}`), 0600); err != nil {
		t.Fatalf("写入设置文件失败: %v", err)
	}

	manager, err := NewManagerWithPath(path)
	if err != nil {
		t.Fatalf("NewManagerWithPath() error = %v", err)
	}
	if manager.RetryAttempts() != 5 {
		t.Errorf("RetryAttempts() = %d, want 5", manager.RetryAttempts())
	}
	if manager.RetryDelay() != time.Second {
		t.Errorf("RetryDelay() = %v, want 1s", manager.RetryDelay())
	}
	if manager.StopTimeout() != 10*time.Second {
		t.Errorf("StopTimeout() = %v, want 10s", manager.StopTimeout())
	}
}

func TestLoadInvalidJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "settings.json")
	if err := os.WriteFile(path, []byte(`{not json`), 0600); err != nil {
		t.Fatalf("写入设置文件失败: %v", err)
	}
	if _, err := NewManagerWithPath(path); err == nil {
		t.Fatal("无效 JSON 应返回错误")
	}
}

func TestEnvironmentOverrides(t *testing.T) {
	manager, err := NewManagerWithPath(filepath.Join(t.TempDir(), "settings.json"))
	if err != nil {
		t.Fatalf("NewManagerWithPath() error = %v", err)
	}

	t.Setenv(EnvDockerCommand, `podman --url "unix:///run/podman sock"`)
	t.Setenv(EnvRetryAttempts, "7")
	t.Setenv(EnvRetryDelayMs, "0")

	args, err := manager.DockerCommand()
	if err != nil {
		t.Fatalf("DockerCommand() error = %v", err)
	}
	want := []string{"podman", "--url", "unix:///run/podman sock"}
	if !reflect.DeepEqual(args, want) {
		t.Errorf("DockerCommand() = %q, want %q", args, want)
	}
	if manager.RetryAttempts() != 7 {
		t.Errorf("RetryAttempts() = %d, want 7", manager.RetryAttempts())
	}
	if manager.RetryDelay() != 0 {
		t.Errorf("RetryDelay() = %v, want 0", manager.RetryDelay())
	}

	t.Setenv(EnvRetryAttempts, "many")
	if manager.RetryAttempts() != DefaultRetryAttempts {
		t.Errorf("非法环境变量应回退到文件设置，实际 %d", manager.RetryAttempts())
	}

	t.Setenv(EnvDockerCommand, `docker "unterminated`)
	if _, err := manager.DockerCommand(); err == nil {
		t.Error("未闭合引号应返回错误")
	}
}

func TestNonInteractive(t *testing.T) {
	t.Setenv(EnvNonInteractive, "")
	if NonInteractive() {
		t.Error("未设置时不应禁用交互")
	}
	t.Setenv(EnvNonInteractive, "1")
	if !NonInteractive() {
		t.Error("设置后应禁用交互")
	}
}
