// Package compose 识别多服务编排文件并提取其中声明的服务名
package compose

import (
	"path/filepath"
	"regexp"
	"strings"

	"github.com/YangQing-Lin/cc-devbox/internal/utils"
)

// CandidateFiles 候选文件名，按优先级排列
var CandidateFiles = []string{
	"docker-compose.yml",
	"docker-compose.yaml",
	"compose.yml",
	"compose.yaml",
}

// Detection 检测结果
type Detection struct {
	Found    bool
	FileName string
}

// Path 返回编排文件在 dir 下的完整路径；未找到时返回空串
func (d Detection) Path(dir string) string {
	if !d.Found {
		return ""
	}
	return filepath.Join(dir, d.FileName)
}

// Detect 返回 dir 中第一个存在的候选文件
func Detect(dir string) Detection {
	for _, name := range CandidateFiles {
		if utils.FileExists(filepath.Join(dir, name)) {
			return Detection{Found: true, FileName: name}
		}
	}
	return Detection{}
}

var projectNameInvalid = regexp.MustCompile(`[^a-z0-9_-]`)

// ProjectName 由工作区目录名推导 compose 项目名
func ProjectName(workspace string) string {
	base := strings.ToLower(filepath.Base(filepath.Clean(workspace)))
	base = projectNameInvalid.ReplaceAllString(base, "")
	return base + "_devcontainer"
}
