package compose

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

type serviceDoc struct {
	Image string    `yaml:"image"`
	Build yaml.Node `yaml:"build"`
}

type composeDoc struct {
	Services map[string]serviceDoc `yaml:"services"`
}

// DescribeServices 返回 服务名 -> 简短说明（image 或 build），仅用于展示
// 文档无法解析时返回空 map，不影响 ExtractServices 的结果
func DescribeServices(path string) map[string]string {
	out := map[string]string{}

	data, err := os.ReadFile(path)
	if err != nil {
		return out
	}

	var doc composeDoc
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return out
	}

	for name, svc := range doc.Services {
		switch {
		case svc.Image != "":
			out[name] = "image: " + svc.Image
		case svc.Build.Kind == yaml.ScalarNode:
			out[name] = "build: " + svc.Build.Value
		case svc.Build.Kind == yaml.MappingNode:
			out[name] = "build: " + buildContext(&svc.Build)
		}
	}
	return out
}

func buildContext(node *yaml.Node) string {
	var b struct {
		Context    string `yaml:"context"`
		Dockerfile string `yaml:"dockerfile"`
	}
	if err := node.Decode(&b); err != nil {
		return "?"
	}
	ctx := b.Context
	if ctx == "" {
		ctx = "."
	}
	if b.Dockerfile != "" {
		return fmt.Sprintf("%s (%s)", ctx, b.Dockerfile)
	}
	return ctx
}
