package template

import (
	"fmt"
	"os"
	"strings"

	"github.com/sergi/go-diff/diffmatchpatch"
)

// NoDifferences GenerateDiff 在内容一致时返回的文本
const NoDifferences = "No differences found."

// GenerateDiff 生成两个文本之间的逐行 diff
func GenerateDiff(oldText, newText, oldLabel, newLabel string) string {
	if oldText == newText {
		return NoDifferences
	}

	dmp := diffmatchpatch.New()
	a, b, lines := dmp.DiffLinesToChars(oldText, newText)
	diffs := dmp.DiffCharsToLines(dmp.DiffMain(a, b, false), lines)

	var result strings.Builder
	result.WriteString(fmt.Sprintf("--- %s\n", oldLabel))
	result.WriteString(fmt.Sprintf("+++ %s\n", newLabel))

	for _, d := range diffs {
		prefix := " "
		switch d.Type {
		case diffmatchpatch.DiffDelete:
			prefix = "-"
		case diffmatchpatch.DiffInsert:
			prefix = "+"
		}
		for _, line := range strings.SplitAfter(d.Text, "\n") {
			if line == "" {
				continue
			}
			result.WriteString(prefix + strings.TrimSuffix(line, "\n") + "\n")
		}
	}

	return result.String()
}

// FormatDiffForCLI 为 CLI 输出格式化 diff（带颜色）
func FormatDiffForCLI(diff string) string {
	lines := strings.Split(diff, "\n")
	var result strings.Builder

	for _, line := range lines {
		if strings.HasPrefix(line, "---") || strings.HasPrefix(line, "+++") {
			result.WriteString("\033[1m" + line + "\033[0m\n") // Bold
		} else if strings.HasPrefix(line, "-") {
			result.WriteString("\033[31m" + line + "\033[0m\n") // Red
		} else if strings.HasPrefix(line, "+") {
			result.WriteString("\033[32m" + line + "\033[0m\n") // Green
		} else if strings.HasPrefix(line, "@@") {
			result.WriteString("\033[36m" + line + "\033[0m\n") // Cyan
		} else {
			result.WriteString(line + "\n")
		}
	}

	return result.String()
}

// Diff 比较模板中的 name 文件与项目中的 targetPath（不存在视为空文件）
func (c *Catalog) Diff(e Entry, name, targetPath string) (string, error) {
	templateContent, err := c.ReadFile(e, name)
	if err != nil {
		return "", err
	}

	currentContent := ""
	if data, err := os.ReadFile(targetPath); err == nil {
		currentContent = string(data)
	} else if !os.IsNotExist(err) {
		return "", fmt.Errorf("failed to read %s: %w", targetPath, err)
	}

	return GenerateDiff(currentContent, string(templateContent), "Current", "Template: "+e.Label), nil
}
