package template

import (
	"embed"
	"encoding/json"
	"fmt"
	"io/fs"
	"path"
	"sort"
)

//go:embed templates
var builtinTemplatesFS embed.FS

// BuiltinManifest 内置清单在 builtinTemplatesFS 中的路径
const BuiltinManifest = "templates/manifest.json"

// SharedDir 与 manifest 同级的共享资源目录
const SharedDir = "shared"

// Catalog 模板目录：启动时构造一次，作为依赖向下传递
type Catalog struct {
	fsys    fs.FS
	baseDir string
	entries map[string]Entry
	order   []string
}

// NewBuiltinCatalog 从内嵌文件系统加载模板目录
func NewBuiltinCatalog() (*Catalog, error) {
	return LoadCatalog(builtinTemplatesFS, BuiltinManifest)
}

// LoadCatalog 从 fsys 中的 manifestPath 加载模板目录
func LoadCatalog(fsys fs.FS, manifestPath string) (*Catalog, error) {
	data, err := fs.ReadFile(fsys, manifestPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read template manifest: %w", err)
	}

	var manifest Manifest
	if err := json.Unmarshal(data, &manifest); err != nil {
		return nil, fmt.Errorf("failed to parse template manifest: %w", err)
	}

	c := &Catalog{
		fsys:    fsys,
		baseDir: path.Dir(manifestPath),
		entries: make(map[string]Entry, len(manifest.Templates)),
	}

	for _, e := range manifest.Templates {
		if e.ID == "" {
			return nil, fmt.Errorf("%w: template without id", ErrMalformedCatalog)
		}
		if _, exists := c.entries[e.ID]; exists {
			return nil, fmt.Errorf("%w: duplicate template id %q", ErrMalformedCatalog, e.ID)
		}
		if e.Path == "" {
			e.Path = e.ID
		}
		c.entries[e.ID] = e
		c.order = append(c.order, e.ID)
	}

	return c, nil
}

// Get 根据 ID 获取模板
func (c *Catalog) Get(id string) (Entry, error) {
	e, exists := c.entries[id]
	if !exists {
		return Entry{}, fmt.Errorf("%w: %s", ErrUnknownTemplate, id)
	}
	return e, nil
}

// Has 模板是否存在
func (c *Catalog) Has(id string) bool {
	_, exists := c.entries[id]
	return exists
}

// List 按清单顺序列出全部模板
func (c *Catalog) List() []Entry {
	out := make([]Entry, 0, len(c.order))
	for _, id := range c.order {
		out = append(out, c.entries[id])
	}
	return out
}

// IDs 返回排序后的模板 ID，用于错误提示
func (c *Catalog) IDs() []string {
	ids := append([]string(nil), c.order...)
	sort.Strings(ids)
	return ids
}

// Generic 兜底模板
func (c *Catalog) Generic() (Entry, bool) {
	e, ok := c.entries[GenericID]
	return e, ok
}

// ComposeAware 编排感知模板
func (c *Catalog) ComposeAware() (Entry, bool) {
	e, ok := c.entries[ComposeID]
	return e, ok
}

func (c *Catalog) dir(e Entry) string {
	return path.Join(c.baseDir, e.Path)
}

// Files 列出模板目录下的全部文件（相对路径，已排序）
func (c *Catalog) Files(e Entry) ([]string, error) {
	root := c.dir(e)
	var files []string
	err := fs.WalkDir(c.fsys, root, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		rel := p[len(root)+1:]
		files = append(files, rel)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list template %s: %w", e.ID, err)
	}
	sort.Strings(files)
	return files, nil
}

// ReadFile 读取模板中的单个文件
func (c *Catalog) ReadFile(e Entry, name string) ([]byte, error) {
	data, err := fs.ReadFile(c.fsys, path.Join(c.dir(e), name))
	if err != nil {
		return nil, fmt.Errorf("failed to read %s from template %s: %w", name, e.ID, err)
	}
	return data, nil
}

// ReadShared 读取共享资源（如 init-firewall.sh）
func (c *Catalog) ReadShared(name string) ([]byte, error) {
	data, err := fs.ReadFile(c.fsys, path.Join(c.baseDir, SharedDir, name))
	if err != nil {
		return nil, fmt.Errorf("failed to read shared asset %s: %w", name, err)
	}
	return data, nil
}
