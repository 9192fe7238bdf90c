package logger

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"github.com/fatih/color"
)

// Level orders log lines by severity.
type Level int

const (
	DEBUG Level = iota
	INFO
	WARN
	ERROR
)

func (l Level) String() string {
	switch l {
	case DEBUG:
		return "DEBUG"
	case INFO:
		return "INFO"
	case WARN:
		return "WARN"
	case ERROR:
		return "ERROR"
	default:
		return fmt.Sprintf("LEVEL(%d)", int(l))
	}
}

func (l Level) color() *color.Color {
	switch l {
	case DEBUG:
		return color.New(color.FgWhite, color.Italic)
	case INFO:
		return color.New(color.FgWhite)
	case WARN:
		return color.New(color.FgYellow)
	case ERROR:
		return color.New(color.FgHiRed, color.Bold)
	default:
		return color.New(color.Reset)
	}
}

// Logger writes leveled lines tagged with a component name.
type Logger struct {
	name string
}

type manager struct {
	mu     sync.Mutex
	out    io.Writer
	min    Level
	offset int
}

var mgr = &manager{out: os.Stderr, min: INFO}

// Get returns the logger for a named component.
func Get(name string) *Logger {
	return &Logger{name: name}
}

// SetOutput redirects every logger to w.
func SetOutput(w io.Writer) {
	mgr.mu.Lock()
	defer mgr.mu.Unlock()
	mgr.out = w
}

// SetLevel drops lines below min.
func SetLevel(min Level) {
	mgr.mu.Lock()
	defer mgr.mu.Unlock()
	mgr.min = min
}

func (l *Logger) Debugf(format string, args ...any) { l.emit(DEBUG, format, args...) }
func (l *Logger) Infof(format string, args ...any)  { l.emit(INFO, format, args...) }
func (l *Logger) Warnf(format string, args ...any)  { l.emit(WARN, format, args...) }
func (l *Logger) Errorf(format string, args ...any) { l.emit(ERROR, format, args...) }

func (l *Logger) emit(level Level, format string, args ...any) {
	mgr.mu.Lock()
	defer mgr.mu.Unlock()

	if level < mgr.min {
		return
	}

	// Keep messages aligned across component names of different lengths
	if len(l.name) > mgr.offset {
		mgr.offset = len(l.name)
	}
	padding := strings.Repeat(" ", mgr.offset-len(l.name))

	line := fmt.Sprintf("%s: [%s] %s%s\n", level, l.name, padding, fmt.Sprintf(format, args...))
	level.color().Fprint(mgr.out, line)
}
