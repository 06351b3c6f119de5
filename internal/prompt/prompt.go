// Package prompt 处理需要用户决定的地方；非交互环境下使用确定的默认值
package prompt

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/term"

	"github.com/YangQing-Lin/cc-devbox/internal/settings"
	"github.com/YangQing-Lin/cc-devbox/internal/tui"
)

// ErrAborted 用户取消了选择
var ErrAborted = errors.New("操作已取消")

var stdinIsTerminal = func() bool {
	return term.IsTerminal(int(os.Stdin.Fd()))
}

// Interactive 是否可以向用户提问：未设置 CC_DEVBOX_NONINTERACTIVE 且标准输入是终端
func Interactive() bool {
	return !settings.NonInteractive() && stdinIsTerminal()
}

// Prompter 向用户提问
type Prompter struct {
	In          io.Reader
	Out         io.Writer
	Interactive bool

	reader    *bufio.Reader
	runPicker func(tui.Picker, io.Reader, io.Writer) (tui.Option, bool, error)
}

// New 使用标准输入输出创建 Prompter
func New() *Prompter {
	return &Prompter{In: os.Stdin, Out: os.Stdout, Interactive: Interactive()}
}

// Confirm 询问 y/N；非交互时返回 false
func (p *Prompter) Confirm(question string) (bool, error) {
	if !p.Interactive {
		return false, nil
	}

	fmt.Fprintf(p.Out, "%s [y/N]: ", question)
	if p.reader == nil {
		p.reader = bufio.NewReader(p.In)
	}
	input, err := p.reader.ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return false, fmt.Errorf("读取输入失败: %w", err)
	}
	input = strings.ToLower(strings.TrimSpace(input))
	return input == "y" || input == "yes", nil
}

// ChooseService 从多个 compose 服务中选择一个；非交互或只有一个候选时返回第一个
func (p *Prompter) ChooseService(services []string, details map[string]string) (string, error) {
	if len(services) == 0 {
		return "", errors.New("没有可选的服务")
	}
	if !p.Interactive || len(services) == 1 {
		return services[0], nil
	}

	options := make([]tui.Option, 0, len(services))
	for _, name := range services {
		options = append(options, tui.Option{Value: name, Detail: details[name]})
	}

	run := p.runPicker
	if run == nil {
		run = tui.Run
	}
	opt, ok, err := run(tui.NewPicker("选择 devcontainer 使用的 compose 服务", options, 0), p.In, p.Out)
	if err != nil {
		return "", err
	}
	if !ok {
		return "", ErrAborted
	}
	return opt.Value, nil
}
