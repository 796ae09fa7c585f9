// Package logging points the standard logger at the console and an optional
// rotating log file.
package logging

import (
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"sync/atomic"

	"gopkg.in/natefinch/lumberjack.v2"
)

var verbose atomic.Bool

// Options describes where log output goes. An empty File disables the
// rotating file.
type Options struct {
	File       string
	MaxSizeMB  int
	MaxBackups int
	MaxAgeDays int
	Verbose    bool
}

// Setup configures the standard logger. console may be nil, in which case
// only the log file (if any) receives output. The returned closer flushes
// and closes the log file.
func Setup(cfg Options, console io.Writer) (io.Closer, error) {
	var writers []io.Writer
	if console != nil {
		writers = append(writers, console)
	}

	var closer io.Closer = nopCloser{}
	if cfg.File != "" {
		if dir := filepath.Dir(cfg.File); dir != "." {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return nil, fmt.Errorf("create log dir: %w", err)
			}
		}
		rotator := &lumberjack.Logger{
			Filename:   cfg.File,
			MaxSize:    cfg.MaxSizeMB,
			MaxBackups: cfg.MaxBackups,
			MaxAge:     cfg.MaxAgeDays,
			Compress:   true,
		}
		writers = append(writers, rotator)
		closer = rotator
	}

	switch len(writers) {
	case 0:
		log.SetOutput(io.Discard)
	case 1:
		log.SetOutput(writers[0])
	default:
		log.SetOutput(io.MultiWriter(writers...))
	}
	log.SetFlags(log.LstdFlags | log.Lmicroseconds)
	verbose.Store(cfg.Verbose)

	return closer, nil
}

// Debugf logs only when verbose logging is enabled.
func Debugf(format string, args ...any) {
	if verbose.Load() {
		log.Printf(format, args...)
	}
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }
