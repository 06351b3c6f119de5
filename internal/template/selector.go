package template

import (
	"fmt"

	"github.com/YangQing-Lin/cc-devbox/internal/project"
)

// kindTemplates 项目类型 -> 模板 ID；generic 不在表中，走兜底
var kindTemplates = map[project.Kind]string{
	project.KindFullstack:     "django-nextjs",
	project.KindPython:        "python",
	project.KindPythonManaged: "python-uv",
	project.KindNode:          "node",
	project.KindGo:            "go",
	project.KindRust:          "rust",
}

// SelectionInput 模板选择的输入
type SelectionInput struct {
	Override       string       // 用户显式指定的模板 ID
	Kind           project.Kind // 项目分类结果
	ComposePresent bool         // 是否检测到编排文件
}

// Select 选择模板，优先级：显式指定 > 编排感知 > 类型映射 > generic
func Select(c *Catalog, in SelectionInput) (string, error) {
	if in.Override != "" {
		if !c.Has(in.Override) {
			return "", fmt.Errorf("%w: %s (available: %v)", ErrUnknownTemplate, in.Override, c.IDs())
		}
		return in.Override, nil
	}

	if in.ComposePresent {
		if e, ok := c.ComposeAware(); ok {
			return e.ID, nil
		}
	}

	if id, ok := kindTemplates[in.Kind]; ok && c.Has(id) {
		return id, nil
	}

	generic, ok := c.Generic()
	if !ok {
		return "", fmt.Errorf("%w: no %q template", ErrMalformedCatalog, GenericID)
	}
	return generic.ID, nil
}

// TemplateForKind 返回类型映射表中的模板 ID（仅供展示）
func TemplateForKind(kind project.Kind) (string, bool) {
	id, ok := kindTemplates[kind]
	return id, ok
}
