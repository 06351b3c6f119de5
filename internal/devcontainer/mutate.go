package devcontainer

import (
	"encoding/json"
	"strings"
)

// 防火墙钩子
const (
	FirewallCommand = "sudo /usr/local/bin/init-firewall.sh"
	DefaultWaitFor  = "postStartCommand"
)

// DefaultWorkspaceFolder 接入 compose 时缺省的工作目录
const DefaultWorkspaceFolder = "/workspaces/${localWorkspaceFolderBasename}"

// AddMount 追加挂载声明；已有任一挂载包含 pattern 时跳过
func AddMount(path, spec, pattern string) (bool, error) {
	doc, err := Load(path)
	if err != nil {
		return false, err
	}

	mounts, err := doc.Mounts()
	if err != nil {
		return false, err
	}
	if pattern == "" {
		pattern = spec
	}
	for _, m := range mounts {
		if mountContains(m, pattern) {
			return false, nil
		}
	}

	encoded, err := encodeValue(spec)
	if err != nil {
		return false, err
	}
	mounts = append(mounts, json.RawMessage(encoded))
	value, err := encodeValue(mounts)
	if err != nil {
		return false, err
	}

	return doc.apply([]fieldUpdate{{key: KeyMounts, value: value}})
}

// mountContains 字符串元素按解码后的文本匹配，对象元素按原始 JSON 匹配
func mountContains(raw json.RawMessage, pattern string) bool {
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return strings.Contains(s, pattern)
	}
	return strings.Contains(string(raw), pattern)
}

// WireCompose 改为通过 compose 启动：移除 build，设置 compose 文件与服务，
// workspaceFolder 仅在缺失时补默认值
func WireCompose(path, composeFile, service string) (bool, error) {
	doc, err := Load(path)
	if err != nil {
		return false, err
	}

	var updates []fieldUpdate
	if doc.Has(KeyBuild) {
		updates = append(updates, fieldUpdate{key: KeyBuild, remove: true})
	}

	for _, kv := range []struct {
		key   string
		value string
	}{
		{KeyDockerComposeFile, composeFile},
		{KeyService, service},
	} {
		u, changed, err := doc.set(kv.key, kv.value)
		if err != nil {
			return false, err
		}
		if changed {
			updates = append(updates, u)
		}
	}

	if !doc.Has(KeyWorkspaceFolder) {
		u, _, err := doc.set(KeyWorkspaceFolder, DefaultWorkspaceFolder)
		if err != nil {
			return false, err
		}
		updates = append(updates, u)
	}

	return doc.apply(updates)
}

// EnableFirewall 设置 postStartCommand 为防火墙脚本，waitFor 仅在缺失时补默认值
func EnableFirewall(path string) (bool, error) {
	doc, err := Load(path)
	if err != nil {
		return false, err
	}

	var updates []fieldUpdate
	u, changed, err := doc.set(KeyPostStartCommand, FirewallCommand)
	if err != nil {
		return false, err
	}
	if changed {
		updates = append(updates, u)
	}

	if !doc.Has(KeyWaitFor) {
		u, _, err := doc.set(KeyWaitFor, DefaultWaitFor)
		if err != nil {
			return false, err
		}
		updates = append(updates, u)
	}

	return doc.apply(updates)
}

// Field 一个顶层字段
type Field struct {
	Key   string
	Value any
}

// MergeDefaults 依次写入缺失的字段，已有字段不覆盖
func MergeDefaults(path string, defaults []Field) (bool, error) {
	doc, err := Load(path)
	if err != nil {
		return false, err
	}

	var updates []fieldUpdate
	for _, f := range defaults {
		if doc.Has(f.Key) {
			continue
		}
		u, _, err := doc.set(f.Key, f.Value)
		if err != nil {
			return false, err
		}
		updates = append(updates, u)
	}

	return doc.apply(updates)
}
