// Package devcontainer 读改写 .devcontainer/devcontainer.json
//
// 所有修改都是"读取 -> 内存中修补顶层字段 -> 两空格缩进写回"，只新增或替换已知字段，
// 未知字段及其顺序原样保留；重复执行结果不变。
package devcontainer

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/YangQing-Lin/cc-devbox/internal/utils"
)

const (
	// Dir 项目中的配置目录
	Dir = ".devcontainer"
	// FileName 配置文件名
	FileName = "devcontainer.json"
)

// 已知字段
const (
	KeyMounts            = "mounts"
	KeyBuild             = "build"
	KeyDockerComposeFile = "dockerComposeFile"
	KeyService           = "service"
	KeyWorkspaceFolder   = "workspaceFolder"
	KeyRemoteUser        = "remoteUser"
	KeyPostStartCommand  = "postStartCommand"
	KeyWaitFor           = "waitFor"
)

// ErrInvalidConfig 配置文件不是合法的 JSON 对象
var ErrInvalidConfig = errors.New("invalid devcontainer.json")

// ConfigDir 返回工作区下的配置目录
func ConfigDir(workspace string) string {
	return filepath.Join(workspace, Dir)
}

// ConfigPath 返回工作区下的配置文件路径
func ConfigPath(workspace string) string {
	return filepath.Join(workspace, Dir, FileName)
}

// Document 已加载的配置文件
type Document struct {
	path   string
	raw    []byte
	fields map[string]json.RawMessage
}

// Load 读取并校验配置文件
func Load(path string) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("读取 %s 失败: %w", path, err)
	}

	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrInvalidConfig, path, err)
	}
	if fields == nil {
		return nil, fmt.Errorf("%w: %s: top-level value must be an object", ErrInvalidConfig, path)
	}

	return &Document{path: path, raw: data, fields: fields}, nil
}

// Path 文件路径
func (d *Document) Path() string {
	return d.path
}

// Has 字段是否存在
func (d *Document) Has(key string) bool {
	_, ok := d.fields[key]
	return ok
}

// String 读取字符串字段
func (d *Document) String(key string) (string, bool) {
	raw, ok := d.fields[key]
	if !ok {
		return "", false
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return "", false
	}
	return s, true
}

// Mounts 返回 mounts 数组的原始元素；字段不存在时返回空
func (d *Document) Mounts() ([]json.RawMessage, error) {
	raw, ok := d.fields[KeyMounts]
	if !ok || string(raw) == "null" {
		return nil, nil
	}
	var mounts []json.RawMessage
	if err := json.Unmarshal(raw, &mounts); err != nil {
		return nil, fmt.Errorf("%w: %s: mounts must be an array", ErrInvalidConfig, d.path)
	}
	return mounts, nil
}

// Bytes 当前文件内容
func (d *Document) Bytes() []byte {
	return d.raw
}

// set 生成字段赋值；值与现有值一致时返回 false
func (d *Document) set(key string, value any) (fieldUpdate, bool, error) {
	encoded, err := encodeValue(value)
	if err != nil {
		return fieldUpdate{}, false, err
	}
	if existing, ok := d.fields[key]; ok && sameJSON(existing, encoded) {
		return fieldUpdate{}, false, nil
	}
	return fieldUpdate{key: key, value: encoded}, true, nil
}

// apply 应用修改并写回；无修改时不写文件
func (d *Document) apply(updates []fieldUpdate) (bool, error) {
	if len(updates) == 0 {
		return false, nil
	}

	patched, err := patchObject(d.raw, updates)
	if err != nil {
		return false, fmt.Errorf("%w: %s: %v", ErrInvalidConfig, d.path, err)
	}

	var out bytes.Buffer
	if err := json.Indent(&out, bytes.TrimSpace(patched), "", "  "); err != nil {
		return false, fmt.Errorf("%w: %s: %v", ErrInvalidConfig, d.path, err)
	}
	out.WriteByte('\n')

	if err := utils.AtomicWriteFile(d.path, out.Bytes(), 0); err != nil {
		return false, fmt.Errorf("写入 %s 失败: %w", d.path, err)
	}

	var fields map[string]json.RawMessage
	if err := json.Unmarshal(out.Bytes(), &fields); err != nil {
		return false, fmt.Errorf("%w: %s: %v", ErrInvalidConfig, d.path, err)
	}
	d.raw = out.Bytes()
	d.fields = fields
	return true, nil
}

// encodeValue 编码 JSON 值，不转义 & < >（命令行里常见）
func encodeValue(v any) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return nil, fmt.Errorf("序列化 JSON 失败: %w", err)
	}
	return bytes.TrimRight(buf.Bytes(), "\n"), nil
}

func sameJSON(a, b []byte) bool {
	var ca, cb bytes.Buffer
	if json.Compact(&ca, a) != nil || json.Compact(&cb, b) != nil {
		return false
	}
	return bytes.Equal(ca.Bytes(), cb.Bytes())
}
