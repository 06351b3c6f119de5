package compose

import (
	"bufio"
	"bytes"
	"os"
	"regexp"
	"strings"
)

// 行扫描规则：
//   - "services:" 独占一行时开始收集
//   - 恰好缩进两个空格的 "name:" 行视为服务名
//   - 之后第一个以字母开头的行视为新的顶层段落，停止收集
//
// 不做完整 YAML 解析，缩进方式不同的文档可能读错。
var serviceLine = regexp.MustCompile(`^  ([A-Za-z0-9._-]+):\s*$`)

// ExtractServices 按文档顺序返回 services 段下声明的服务名；读取失败返回空切片
func ExtractServices(path string) []string {
	data, err := os.ReadFile(path)
	if err != nil {
		return []string{}
	}
	return scanServices(data)
}

func scanServices(data []byte) []string {
	services := []string{}
	inServices := false

	scanner := bufio.NewScanner(bytes.NewReader(data))
	scanner.Buffer(make([]byte, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := strings.TrimRight(scanner.Text(), "\r")

		if !inServices {
			if strings.TrimRight(line, " \t") == "services:" {
				inServices = true
			}
			continue
		}

		if line != "" && isASCIILetter(line[0]) {
			break
		}
		if m := serviceLine.FindStringSubmatch(line); m != nil {
			services = append(services, m[1])
		}
	}

	return services
}

func isASCIILetter(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}
