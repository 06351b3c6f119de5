package template

import "errors"

// 目录中约定的特殊模板
const (
	GenericID = "generic" // 兜底模板，目录中必须存在
	ComposeID = "compose" // 检测到编排文件时优先使用
)

var (
	// ErrUnknownTemplate 模板 ID 不存在
	ErrUnknownTemplate = errors.New("unknown template")
	// ErrMalformedCatalog 目录缺少兜底模板或存在重复 ID
	ErrMalformedCatalog = errors.New("malformed template catalog")
)

// Entry 模板目录条目
type Entry struct {
	ID          string `json:"id"`          // 唯一标识
	Label       string `json:"label"`       // 显示名称
	Description string `json:"description"` // 说明文字
	Path        string `json:"path"`        // 相对 manifest 所在目录的模板目录
}

// Manifest 模板清单文件格式（templates/manifest.json）
type Manifest struct {
	Templates []Entry `json:"templates"`
}
