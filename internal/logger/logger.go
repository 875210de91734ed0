package logger

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"
	"time"
)

var (
	mu  sync.Mutex
	out io.Writer = os.Stdout
)

// Init redirects log output to a dated file under logDir, in addition to stdout.
func Init(logDir string) error {
	if err := os.MkdirAll(logDir, 0o755); err != nil {
		return fmt.Errorf("mkdir log dir: %w", err)
	}
	name := filepath.Join(logDir, time.Now().Format("2006-01-02")+".log")
	f, err := os.OpenFile(name, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("open log file: %w", err)
	}
	mu.Lock()
	out = io.MultiWriter(os.Stdout, f)
	mu.Unlock()
	return nil
}

func write(level, msg string) {
	mu.Lock()
	defer mu.Unlock()
	fmt.Fprintf(out, "[%s] %s\n", level, msg)
}

func Infof(format string, args ...interface{}) {
	write("INFO", fmt.Sprintf(format, args...))
}

func Info(args ...interface{}) {
	write("INFO", fmt.Sprint(args...))
}

func Warnf(format string, args ...interface{}) {
	write("WARN", fmt.Sprintf(format, args...))
}

func Warn(args ...interface{}) {
	write("WARN", fmt.Sprint(args...))
}

func Errorf(format string, args ...interface{}) {
	write("ERROR", fmt.Sprintf(format, args...))
}

func Debugf(format string, args ...interface{}) {
	write("DEBUG", fmt.Sprintf(format, args...))
}
