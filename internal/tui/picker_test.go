package tui

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
)

func key(s string) tea.KeyMsg {
	switch s {
	case "up":
		return tea.KeyMsg{Type: tea.KeyUp}
	case "down":
		return tea.KeyMsg{Type: tea.KeyDown}
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func press(t *testing.T, p Picker, keys ...string) (Picker, tea.Cmd) {
	t.Helper()
	var cmd tea.Cmd
	for _, k := range keys {
		var m tea.Model
		m, cmd = p.Update(key(k))
		p = m.(Picker)
	}
	return p, cmd
}

func testOptions() []Option {
	return []Option{
		{Value: "app", Detail: "build: ."},
		{Value: "db", Detail: "image: postgres:16"},
		{Value: "cache"},
	}
}

func TestPickerNavigation(t *testing.T) {
	tests := []struct {
		name string
		keys []string
		want string
	}{
		{name: "enter picks initial", keys: []string{"enter"}, want: "app"},
		{name: "down", keys: []string{"down", "enter"}, want: "db"},
		{name: "vim keys", keys: []string{"j", "j", "k", "enter"}, want: "db"},
		{name: "up wraps", keys: []string{"up", "enter"}, want: "cache"},
		{name: "down wraps", keys: []string{"down", "down", "down", "enter"}, want: "app"},
		{name: "number key", keys: []string{"3"}, want: "cache"},
		{name: "out of range number ignored", keys: []string{"9", "enter"}, want: "app"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, cmd := press(t, NewPicker("选择服务", testOptions(), 0), tt.keys...)
			opt, ok := p.Choice()
			if !ok || opt.Value != tt.want {
				t.Fatalf("Choice() = %+v, %v, want %s", opt, ok, tt.want)
			}
			if cmd == nil {
				t.Fatal("确认后应返回退出命令")
			}
		})
	}
}

func TestPickerAbort(t *testing.T) {
	for _, k := range []string{"esc", "q"} {
		p, cmd := press(t, NewPicker("选择服务", testOptions(), 1), "down", k)
		if _, ok := p.Choice(); ok {
			t.Fatalf("%s 后不应有选择", k)
		}
		if cmd == nil {
			t.Fatalf("%s 应返回退出命令", k)
		}
	}
}

func TestPickerInitialOutOfRange(t *testing.T) {
	p, _ := press(t, NewPicker("x", testOptions(), 7), "enter")
	if opt, _ := p.Choice(); opt.Value != "app" {
		t.Fatalf("Choice() = %+v", opt)
	}
}

func TestPickerEmpty(t *testing.T) {
	p, cmd := press(t, NewPicker("x", nil, 0), "enter")
	if _, ok := p.Choice(); ok || cmd != nil {
		t.Fatal("空列表不能确认")
	}
}

func TestPickerView(t *testing.T) {
	p := NewPicker("选择服务", testOptions(), 1)
	view := p.View()
	for _, want := range []string{"选择服务", "1. app", "2. db", "image: postgres:16", "●", "ESC"} {
		if !strings.Contains(view, want) {
			t.Errorf("View() missing %q:\n%s", want, view)
		}
	}

	p, _ = press(t, p, "enter")
	if p.View() != "" {
		t.Fatal("确认后应清空界面")
	}
}

func TestPickerIgnoresOtherMessages(t *testing.T) {
	p := NewPicker("x", testOptions(), 0)
	m, cmd := p.Update(tea.WindowSizeMsg{Width: 80, Height: 24})
	if cmd != nil || m.(Picker).cursor != 0 {
		t.Fatal("非按键消息不应改变状态")
	}
}
