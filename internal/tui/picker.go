// Package tui 终端交互组件
package tui

import (
	"fmt"
	"io"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
)

// Option 一个候选项
type Option struct {
	Value  string
	Detail string // 可选的补充说明，如服务的镜像
}

// Picker 单选列表
type Picker struct {
	title   string
	options []Option
	cursor  int
	done    bool
	aborted bool
}

// NewPicker 创建单选列表，光标停在 initial 上
func NewPicker(title string, options []Option, initial int) Picker {
	if initial < 0 || initial >= len(options) {
		initial = 0
	}
	return Picker{title: title, options: options, cursor: initial}
}

func (p Picker) Init() tea.Cmd {
	return nil
}

func (p Picker) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return p, nil
	}

	switch key.String() {
	case "esc", "q", "ctrl+c":
		p.aborted = true
		return p, tea.Quit
	case "up", "k":
		if p.cursor > 0 {
			p.cursor--
		} else {
			p.cursor = len(p.options) - 1
		}
	case "down", "j":
		if p.cursor < len(p.options)-1 {
			p.cursor++
		} else {
			p.cursor = 0
		}
	case "enter":
		if len(p.options) > 0 {
			p.done = true
			return p, tea.Quit
		}
	default:
		// 数字键直接选择
		s := key.String()
		if len(s) == 1 && s[0] >= '1' && s[0] <= '9' {
			if idx := int(s[0] - '1'); idx < len(p.options) {
				p.cursor = idx
				p.done = true
				return p, tea.Quit
			}
		}
	}
	return p, nil
}

func (p Picker) View() string {
	if p.done || p.aborted {
		return ""
	}

	var s strings.Builder
	s.WriteString(titleStyle.Render(p.title) + "\n\n")

	for i, opt := range p.options {
		marker := "○"
		style := normalItemStyle
		if i == p.cursor {
			marker = "●"
			style = selectedItemStyle
		}
		line := fmt.Sprintf("%s %s", marker, style.Render(fmt.Sprintf("%d. %s", i+1, opt.Value)))
		if opt.Detail != "" {
			line += " " + detailStyle.Render(opt.Detail)
		}
		s.WriteString(line + "\n")
	}

	s.WriteString("\n")
	s.WriteString(helpStyle.Render("↑/↓: 选择 • Enter: 确认 • ESC: 取消"))
	s.WriteString("\n")
	return s.String()
}

// Choice 返回已确认的选项
func (p Picker) Choice() (Option, bool) {
	if !p.done || p.aborted || len(p.options) == 0 {
		return Option{}, false
	}
	return p.options[p.cursor], true
}

// Run 运行单选列表直到确认或取消；取消时 ok 为 false
func Run(picker Picker, in io.Reader, out io.Writer) (Option, bool, error) {
	program := tea.NewProgram(picker, tea.WithInput(in), tea.WithOutput(out))
	final, err := program.Run()
	if err != nil {
		return Option{}, false, fmt.Errorf("运行选择界面失败: %w", err)
	}
	p, ok := final.(Picker)
	if !ok {
		return Option{}, false, nil
	}
	opt, ok := p.Choice()
	return opt, ok, nil
}
