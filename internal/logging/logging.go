// Package logging 提供分级日志：控制台彩色输出 + 可选的日志文件
package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fatih/color"
	"github.com/google/uuid"
)

// Level 日志级别
type Level int

const (
	LevelDebug Level = iota
	LevelInfo
	LevelWarn
	LevelError
)

func (l Level) String() string {
	switch l {
	case LevelDebug:
		return "DEBUG"
	case LevelInfo:
		return "INFO"
	case LevelWarn:
		return "WARN"
	default:
		return "ERROR"
	}
}

var levelColors = map[Level]*color.Color{
	LevelDebug: color.New(color.FgHiBlack),
	LevelInfo:  color.New(color.FgCyan),
	LevelWarn:  color.New(color.FgYellow),
	LevelError: color.New(color.FgRed),
}

// Logger 日志记录器
type Logger struct {
	mu    sync.Mutex
	out   io.Writer
	level Level
	file  *os.File
	runID string
}

// New 创建写入 out 的日志记录器，默认级别 Info
func New(out io.Writer) *Logger {
	return &Logger{
		out:   out,
		level: LevelInfo,
		runID: uuid.NewString()[:8],
	}
}

var (
	stdMu sync.RWMutex
	std   = New(os.Stderr)
)

// Default 返回进程级默认日志记录器
func Default() *Logger {
	stdMu.RLock()
	defer stdMu.RUnlock()
	return std
}

// SetDefault 替换默认日志记录器
func SetDefault(l *Logger) {
	if l == nil {
		return
	}
	stdMu.Lock()
	std = l
	stdMu.Unlock()
}

// SetLevel 设置最低输出级别（仅影响控制台，文件始终记录全部级别）
func (l *Logger) SetLevel(level Level) {
	l.mu.Lock()
	l.level = level
	l.mu.Unlock()
}

// RunID 本次调用的标识，写入日志文件的每一行
func (l *Logger) RunID() string {
	return l.runID
}

// OpenFile 追加写入日志文件
func (l *Logger) OpenFile(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("创建日志目录失败: %w", err)
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
	if err != nil {
		return fmt.Errorf("打开日志文件失败: %w", err)
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	if l.file != nil {
		l.file.Close()
	}
	l.file = f
	return nil
}

// Close 关闭日志文件
func (l *Logger) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.file == nil {
		return nil
	}
	err := l.file.Close()
	l.file = nil
	return err
}

func (l *Logger) logf(level Level, format string, args ...any) {
	if l == nil {
		return
	}
	line := strings.TrimRight(fmt.Sprintf(format, args...), "\n")

	l.mu.Lock()
	defer l.mu.Unlock()

	if l.file != nil {
		fmt.Fprintf(l.file, "[%s] [%s] %-5s %s\n", time.Now().Format(time.RFC3339), l.runID, level, line)
	}
	if level < l.level || l.out == nil {
		return
	}
	prefix := strings.ToLower(level.String()) + ":"
	levelColors[level].Fprint(l.out, prefix)
	fmt.Fprintf(l.out, " %s\n", line)
}

func (l *Logger) Debugf(format string, args ...any) { l.logf(LevelDebug, format, args...) }
func (l *Logger) Infof(format string, args ...any)  { l.logf(LevelInfo, format, args...) }
func (l *Logger) Warnf(format string, args ...any)  { l.logf(LevelWarn, format, args...) }
func (l *Logger) Errorf(format string, args ...any) { l.logf(LevelError, format, args...) }

// Debugf 使用默认日志记录器
func Debugf(format string, args ...any) { Default().Debugf(format, args...) }

// Infof 使用默认日志记录器
func Infof(format string, args ...any) { Default().Infof(format, args...) }

// Warnf 使用默认日志记录器
func Warnf(format string, args ...any) { Default().Warnf(format, args...) }

// Errorf 使用默认日志记录器
func Errorf(format string, args ...any) { Default().Errorf(format, args...) }
