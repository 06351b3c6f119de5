package scaffold

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/YangQing-Lin/cc-devbox/internal/devcontainer"
	"github.com/YangQing-Lin/cc-devbox/internal/project"
	"github.com/YangQing-Lin/cc-devbox/internal/template"
	"github.com/YangQing-Lin/cc-devbox/internal/testutil"
)

type stubChooser struct {
	pick    string
	err     error
	called  bool
	details map[string]string
}

func (s *stubChooser) ChooseService(services []string, details map[string]string) (string, error) {
	s.called = true
	s.details = details
	return s.pick, s.err
}

func builtin(t *testing.T) *template.Catalog {
	t.Helper()
	c, err := template.NewBuiltinCatalog()
	if err != nil {
		t.Fatalf("NewBuiltinCatalog() error = %v", err)
	}
	return c
}

func loadFields(t *testing.T, ws string) map[string]any {
	t.Helper()
	data, err := os.ReadFile(devcontainer.ConfigPath(ws))
	if err != nil {
		t.Fatalf("读取配置失败: %v", err)
	}
	var fields map[string]any
	if err := json.Unmarshal(data, &fields); err != nil {
		t.Fatalf("配置不是合法 JSON: %v", err)
	}
	return fields
}

func TestRunPythonProject(t *testing.T) {
	ws := t.TempDir()
	testutil.CreateTree(t, ws, map[string]string{"pyproject.toml": "[project]\nname = \"demo\"\n"})

	res, err := Run(context.Background(), Options{Workspace: ws, Mounts: []string{"source=/data,target=/data,type=bind"}}, Deps{Catalog: builtin(t)})
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if res.Classification.Kind != project.KindPython || res.TemplateID != "python" {
		t.Fatalf("kind=%s template=%s", res.Classification.Kind, res.TemplateID)
	}

	testutil.AssertFileExists(t, filepath.Join(ws, ".devcontainer", "Dockerfile"))
	testutil.AssertFileMode(t, filepath.Join(ws, ".devcontainer", FirewallScript), 0755)

	fields := loadFields(t, ws)
	mounts := fields["mounts"].([]any)
	want := []any{ClaudeConfigMount, "source=/data,target=/data,type=bind"}
	if !reflect.DeepEqual(mounts, want) {
		t.Fatalf("mounts = %v", mounts)
	}
	if fields["postStartCommand"] != devcontainer.FirewallCommand || fields["waitFor"] != devcontainer.DefaultWaitFor {
		t.Fatalf("防火墙未启用: %v", fields)
	}
	if _, ok := fields["build"]; !ok {
		t.Fatal("非 compose 项目应保留 build")
	}
	if !res.Firewall || len(res.Warnings) != 0 {
		t.Fatalf("result = %+v", res)
	}
}

func TestRunRefusesExistingConfig(t *testing.T) {
	ws := t.TempDir()
	testutil.CreateTempFile(t, ws, filepath.Join(".devcontainer", "devcontainer.json"), `{"name": "mine"}`)

	_, err := Run(context.Background(), Options{Workspace: ws}, Deps{Catalog: builtin(t)})
	if !errors.Is(err, ErrAlreadyInitialized) {
		t.Fatalf("error = %v, want ErrAlreadyInitialized", err)
	}
	testutil.AssertFileContent(t, devcontainer.ConfigPath(ws), `{"name": "mine"}`)

	if _, err := Run(context.Background(), Options{Workspace: ws, Force: true}, Deps{Catalog: builtin(t)}); err != nil {
		t.Fatalf("Run(force) error = %v", err)
	}
	if loadFields(t, ws)["name"] == "mine" {
		t.Fatal("--force 应覆盖模板文件")
	}
}

func TestRunIsIdempotentWithForce(t *testing.T) {
	ws := t.TempDir()
	opts := Options{Workspace: ws, Force: true, RemoteUser: "dev"}
	for i := 0; i < 2; i++ {
		if _, err := Run(context.Background(), opts, Deps{Catalog: builtin(t)}); err != nil {
			t.Fatalf("Run() #%d error = %v", i, err)
		}
	}
	fields := loadFields(t, ws)
	if len(fields["mounts"].([]any)) != 1 {
		t.Fatalf("mounts = %v", fields["mounts"])
	}
	// 模板自带 remoteUser，不覆盖
	if fields["remoteUser"] != "node" {
		t.Fatalf("remoteUser = %v", fields["remoteUser"])
	}
}

func TestRunCompose(t *testing.T) {
	const doc = "services:\n  web:\n    build: .\n  db:\n    image: postgres:16\n"

	t.Run("chooser picks among several services", func(t *testing.T) {
		ws := t.TempDir()
		testutil.CreateTree(t, ws, map[string]string{"compose.yaml": doc, "package.json": "{}"})
		chooser := &stubChooser{pick: "db"}

		res, err := Run(context.Background(), Options{Workspace: ws, NoFirewall: true}, Deps{Catalog: builtin(t), Chooser: chooser})
		if err != nil {
			t.Fatalf("Run() error = %v", err)
		}
		if res.TemplateID != template.ComposeID || res.Service != "db" || !chooser.called {
			t.Fatalf("result = %+v", res)
		}
		if chooser.details["db"] != "image: postgres:16" {
			t.Fatalf("details = %v", chooser.details)
		}

		fields := loadFields(t, ws)
		if fields["dockerComposeFile"] != "../compose.yaml" || fields["service"] != "db" {
			t.Fatalf("fields = %v", fields)
		}
		if fields["workspaceFolder"] != devcontainer.DefaultWorkspaceFolder {
			t.Fatalf("workspaceFolder = %v", fields["workspaceFolder"])
		}
		if _, ok := fields["postStartCommand"]; ok {
			t.Fatal("--no-firewall 不应写入 postStartCommand")
		}
		testutil.AssertFileNotExists(t, filepath.Join(ws, ".devcontainer", FirewallScript))
	})

	t.Run("explicit service", func(t *testing.T) {
		ws := t.TempDir()
		testutil.CreateTree(t, ws, map[string]string{"docker-compose.yml": doc})
		chooser := &stubChooser{}

		res, err := Run(context.Background(), Options{Workspace: ws, Service: "web"}, Deps{Catalog: builtin(t), Chooser: chooser})
		if err != nil || res.Service != "web" || chooser.called {
			t.Fatalf("Run() = %+v, %v", res, err)
		}
	})

	t.Run("unknown explicit service writes nothing", func(t *testing.T) {
		ws := t.TempDir()
		testutil.CreateTree(t, ws, map[string]string{"docker-compose.yml": doc})

		_, err := Run(context.Background(), Options{Workspace: ws, Service: "api"}, Deps{Catalog: builtin(t)})
		if !errors.Is(err, ErrUnknownService) {
			t.Fatalf("error = %v, want ErrUnknownService", err)
		}
		testutil.AssertFileNotExists(t, devcontainer.ConfigDir(ws))
	})

	t.Run("no services falls back to app", func(t *testing.T) {
		ws := t.TempDir()
		testutil.CreateTree(t, ws, map[string]string{"docker-compose.yml": "version: '3'\n"})

		res, err := Run(context.Background(), Options{Workspace: ws}, Deps{Catalog: builtin(t)})
		if err != nil || res.Service != DefaultService || len(res.Warnings) != 1 {
			t.Fatalf("Run() = %+v, %v", res, err)
		}
	})

	t.Run("chooser abort writes nothing", func(t *testing.T) {
		ws := t.TempDir()
		testutil.CreateTree(t, ws, map[string]string{"docker-compose.yml": doc})
		boom := errors.New("aborted")

		_, err := Run(context.Background(), Options{Workspace: ws}, Deps{Catalog: builtin(t), Chooser: &stubChooser{err: boom}})
		if !errors.Is(err, boom) {
			t.Fatalf("error = %v", err)
		}
		testutil.AssertFileNotExists(t, devcontainer.ConfigDir(ws))
	})

	t.Run("template override beats compose", func(t *testing.T) {
		ws := t.TempDir()
		testutil.CreateTree(t, ws, map[string]string{"docker-compose.yml": doc})

		res, err := Run(context.Background(), Options{Workspace: ws, Template: "go", Service: "web"}, Deps{Catalog: builtin(t)})
		if err != nil || res.TemplateID != "go" {
			t.Fatalf("Run() = %+v, %v", res, err)
		}
		if _, ok := loadFields(t, ws)["build"]; ok {
			t.Fatal("compose 项目应移除 build")
		}
	})
}

func TestRunErrors(t *testing.T) {
	if _, err := Run(context.Background(), Options{Workspace: t.TempDir()}, Deps{}); err == nil {
		t.Fatal("缺少模板目录应返回错误")
	}
	if _, err := Run(context.Background(), Options{Workspace: filepath.Join(t.TempDir(), "missing")}, Deps{Catalog: builtin(t)}); err == nil {
		t.Fatal("工作区不存在应返回错误")
	}
	_, err := Run(context.Background(), Options{Workspace: t.TempDir(), Template: "nope"}, Deps{Catalog: builtin(t)})
	if !errors.Is(err, template.ErrUnknownTemplate) {
		t.Fatalf("error = %v, want ErrUnknownTemplate", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	ws := t.TempDir()
	if _, err := Run(ctx, Options{Workspace: ws}, Deps{Catalog: builtin(t)}); !errors.Is(err, context.Canceled) {
		t.Fatalf("error = %v, want context.Canceled", err)
	}
	testutil.AssertFileNotExists(t, devcontainer.ConfigDir(ws))
}

func TestInspect(t *testing.T) {
	ws := t.TempDir()
	testutil.CreateTree(t, ws, map[string]string{
		"backend/pyproject.toml": "[project]\n",
		"frontend/package.json":  "{}",
		"package.json":           "{}",
	})
	in, err := Inspect(ws, builtin(t), "")
	if err != nil {
		t.Fatalf("Inspect() error = %v", err)
	}
	if in.Classification.Kind != project.KindFullstack || in.TemplateID != "django-nextjs" || in.Compose.Found {
		t.Fatalf("Inspect() = %+v", in)
	}
	testutil.AssertFileNotExists(t, devcontainer.ConfigDir(ws))
}

func TestMountPattern(t *testing.T) {
	tests := map[string]string{
		"source=/a,target=/b,type=bind": "target=/b",
		"type=volume, target=/x":        "target=/x",
		"source=/a,destination=/b":      "source=/a,destination=/b",
		"/host:/container":              "/host:/container",
	}
	for spec, want := range tests {
		if got := MountPattern(spec); got != want {
			t.Errorf("MountPattern(%q) = %q, want %q", spec, got, want)
		}
	}
}
