// Package project 根据目录中的清单文件推断项目类型
package project

import (
	"bytes"
	"errors"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/pelletier/go-toml/v2"

	"github.com/YangQing-Lin/cc-devbox/internal/logging"
	"github.com/YangQing-Lin/cc-devbox/internal/utils"
)

// Kind 项目类型
type Kind string

const (
	KindFullstack     Kind = "fullstack"
	KindPython        Kind = "python"
	KindPythonManaged Kind = "python-managed"
	KindNode          Kind = "node"
	KindGo            Kind = "go"
	KindRust          Kind = "rust"
	KindGeneric       Kind = "generic"
)

// 探测用到的文件
const (
	PythonManifest = "pyproject.toml"
	PythonLockFile = "uv.lock"
	Requirements   = "requirements.txt"
	NodeManifest   = "package.json"
	GoModule       = "go.mod"
	RustManifest   = "Cargo.toml"

	BackendDir  = "backend"
	FrontendDir = "frontend"
)

// managedMarkers pyproject.toml 中表示依赖由工具管理的段落头
var managedMarkers = [][]byte{
	[]byte("[tool.uv]"),
	[]byte("[dependency-groups]"),
}

// Classification 分类结果，Evidence 记录命中的依据
type Classification struct {
	Kind     Kind
	Evidence map[string]string
}

// readFile 便于测试替换
var readFile = os.ReadFile

// Classify 按固定优先级推断 dir 的项目类型，首个命中即返回
func Classify(dir string) Classification {
	evidence := map[string]string{}

	rootManifest := filepath.Join(dir, PythonManifest)
	backendManifest := filepath.Join(dir, BackendDir, PythonManifest)
	manifest := ""
	switch {
	case utils.FileExists(rootManifest):
		manifest = rootManifest
	case utils.FileExists(backendManifest):
		manifest = backendManifest
	}

	backendReqs := filepath.Join(dir, BackendDir, Requirements)
	frontendPkg := filepath.Join(dir, FrontendDir, NodeManifest)

	hasBackend := manifest != "" || utils.FileExists(backendReqs)
	if hasBackend && utils.FileExists(frontendPkg) {
		if manifest != "" {
			evidence["backend"] = manifest
		} else {
			evidence["backend"] = backendReqs
		}
		evidence["frontend"] = frontendPkg
		return Classification{Kind: KindFullstack, Evidence: evidence}
	}

	if manifest != "" {
		evidence["manifest"] = manifest
		return Classification{Kind: classifyPython(dir, manifest, evidence), Evidence: evidence}
	}

	simple := []struct {
		file string
		kind Kind
	}{
		{NodeManifest, KindNode},
		{GoModule, KindGo},
		{RustManifest, KindRust},
	}
	for _, probe := range simple {
		path := filepath.Join(dir, probe.file)
		if utils.FileExists(path) {
			evidence["manifest"] = path
			return Classification{Kind: probe.kind, Evidence: evidence}
		}
	}

	return Classification{Kind: KindGeneric, Evidence: evidence}
}

// classifyPython 区分托管 / 普通 Python 项目：先看锁文件，再做子串匹配
func classifyPython(dir, manifest string, evidence map[string]string) Kind {
	for _, lock := range []string{
		filepath.Join(dir, PythonLockFile),
		filepath.Join(dir, BackendDir, PythonLockFile),
	} {
		if utils.FileExists(lock) {
			evidence["lockFile"] = lock
			return KindPythonManaged
		}
	}

	data, err := readFile(manifest)
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			logging.Warnf("读取 %s 失败，按普通 Python 项目处理: %v", manifest, err)
		}
		return KindPython
	}

	recordPyprojectEvidence(data, evidence)

	for _, marker := range managedMarkers {
		if bytes.Contains(data, marker) {
			evidence["marker"] = string(marker)
			return KindPythonManaged
		}
	}
	return KindPython
}

type pyproject struct {
	Project struct {
		Name           string `toml:"name"`
		RequiresPython string `toml:"requires-python"`
	} `toml:"project"`
}

// recordPyprojectEvidence 仅补充证据，解析失败直接忽略
func recordPyprojectEvidence(data []byte, evidence map[string]string) {
	var doc pyproject
	if err := toml.Unmarshal(data, &doc); err != nil {
		return
	}
	if doc.Project.Name != "" {
		evidence["pythonProjectName"] = doc.Project.Name
	}
	if doc.Project.RequiresPython != "" {
		evidence["requiresPython"] = doc.Project.RequiresPython
	}
}
