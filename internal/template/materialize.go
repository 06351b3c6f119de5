package template

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/YangQing-Lin/cc-devbox/internal/utils"
)

// MaterializeResult 写入结果
type MaterializeResult struct {
	Written []string // 新写入或覆盖的文件（相对 destDir）
	Skipped []string // 已存在而保留的文件
}

// Materialize 将模板文件写入 destDir；已存在的文件仅在 force 时覆盖
func (c *Catalog) Materialize(e Entry, destDir string, force bool) (*MaterializeResult, error) {
	files, err := c.Files(e)
	if err != nil {
		return nil, err
	}

	result := &MaterializeResult{}
	for _, name := range files {
		target := filepath.Join(destDir, filepath.FromSlash(name))
		if !force && utils.FileExists(target) {
			result.Skipped = append(result.Skipped, name)
			continue
		}

		data, err := c.ReadFile(e, name)
		if err != nil {
			return result, err
		}
		if err := writeAsset(target, data, name); err != nil {
			return result, err
		}
		result.Written = append(result.Written, name)
	}

	return result, nil
}

// CopyShared 将共享资源写入 destDir/name（总是覆盖）
func (c *Catalog) CopyShared(name, destDir string) error {
	data, err := c.ReadShared(name)
	if err != nil {
		return err
	}
	return writeAsset(filepath.Join(destDir, name), data, name)
}

func writeAsset(target string, data []byte, name string) error {
	// 确保目录存在
	if err := os.MkdirAll(filepath.Dir(target), 0755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}

	perm := os.FileMode(0644)
	if strings.HasSuffix(name, ".sh") {
		perm = 0755
	}
	if err := utils.AtomicWriteFile(target, data, perm); err != nil {
		return fmt.Errorf("failed to write %s: %w", name, err)
	}
	return nil
}
