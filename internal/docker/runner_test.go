package docker

import (
	"context"
	"runtime"
	"strings"
	"testing"
)

func TestExecRunner(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("需要 sh")
	}

	r := NewExecRunner([]string{"sh", "-c", `echo "out $0"; echo err >&2; exit 3`})
	res, err := r.Run(context.Background(), []string{"arg"})
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if res.ExitCode != 3 {
		t.Fatalf("ExitCode = %d, want 3", res.ExitCode)
	}
	if strings.TrimSpace(res.Stdout) != "out arg" || strings.TrimSpace(res.Stderr) != "err" {
		t.Fatalf("Result = %+v", res)
	}
}

func TestExecRunnerMissingBinary(t *testing.T) {
	r := NewExecRunner([]string{"cc-devbox-no-such-binary"})
	res, err := r.Run(context.Background(), []string{"ps"})
	if err == nil {
		t.Fatal("期望返回调用错误")
	}
	if res.ExitCode != -1 {
		t.Fatalf("ExitCode = %d, want -1", res.ExitCode)
	}
}

func TestNewExecRunnerDefault(t *testing.T) {
	if got := NewExecRunner(nil).Command; len(got) != 1 || got[0] != "docker" {
		t.Fatalf("Command = %v", got)
	}
	if _, err := (&ExecRunner{}).Run(context.Background(), nil); err == nil {
		t.Fatal("空命令应返回错误")
	}
}
