package tui

import "github.com/charmbracelet/lipgloss"

var (
	// 颜色定义
	primaryColor   = lipgloss.Color("#007AFF")
	subtleColor    = lipgloss.Color("#8E8E93")
	selectedFg     = lipgloss.Color("#FFFFFF")
	mutedTextColor = lipgloss.Color("#6C6C70")

	// 标题样式
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(primaryColor).
			Padding(0, 1)

	// 帮助文本样式
	helpStyle = lipgloss.NewStyle().
			Foreground(subtleColor)

	// 选中项样式
	selectedItemStyle = lipgloss.NewStyle().
				Background(primaryColor).
				Foreground(selectedFg).
				Bold(true).
				Padding(0, 1)

	// 普通项样式
	normalItemStyle = lipgloss.NewStyle().
			Padding(0, 1)

	// 选项说明样式
	detailStyle = lipgloss.NewStyle().
			Foreground(mutedTextColor)
)
