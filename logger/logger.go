// Copyright 2018 The Fuchsia Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package logger provides leveled logging carried on a context.Context.
package logger

import (
	"context"
	"fmt"
	"io"
	goLog "log"
	"os"

	"github.com/CestLucas/HDD-simulation/color"
)

type loggerKey struct{}

// WithLogger returns the context with its logger set as the provided Logger.
func WithLogger(ctx context.Context, logger *Logger) context.Context {
	return context.WithValue(ctx, loggerKey{}, logger)
}

// LoggerFromContext returns the context logger if configured, otherwise nil.
func LoggerFromContext(ctx context.Context) *Logger {
	if v, ok := ctx.Value(loggerKey{}).(*Logger); ok && v != nil {
		return v
	}
	return nil
}

// LogLevel represents different levels for logging depending on the amount of detail wanted.
type LogLevel int

const (
	NoLogLevel LogLevel = iota
	FatalLevel
	ErrorLevel
	WarningLevel
	InfoLevel
	DebugLevel
	TraceLevel
)

var levelToName = map[LogLevel]string{
	NoLogLevel:   "no",
	FatalLevel:   "fatal",
	ErrorLevel:   "error",
	WarningLevel: "warning",
	InfoLevel:    "info",
	DebugLevel:   "debug",
	TraceLevel:   "trace",
}

// String returns the level name, or "" for an unknown level.
func (l *LogLevel) String() string {
	return levelToName[*l]
}

// Set sets the LogLevel from its name.
func (l *LogLevel) Set(s string) error {
	for level, name := range levelToName {
		if name == s {
			*l = level
			return nil
		}
	}
	return fmt.Errorf("%s is not a valid level", s)
}

// Flags for the underlying log.Logger; LstdFlags matches the standard logger.
const (
	Ldate         = goLog.Ldate
	Ltime         = goLog.Ltime
	Lmicroseconds = goLog.Lmicroseconds
	Lshortfile    = goLog.Lshortfile
	LstdFlags     = Ldate | Lmicroseconds
)

// Logger writes messages at or below its level. Errors and fatal messages go
// to a separate writer.
type Logger struct {
	LoggerLevel LogLevel
	out         *goLog.Logger
	errOut      *goLog.Logger
	color       color.Color
	prefix      string
}

// NewLogger creates a logger. Nil writers default to stdout and stderr. The
// prefix is written before every message.
func NewLogger(level LogLevel, c color.Color, outWriter, errWriter io.Writer, prefix string) *Logger {
	if outWriter == nil {
		outWriter = os.Stdout
	}
	if errWriter == nil {
		errWriter = os.Stderr
	}
	return &Logger{
		LoggerLevel: level,
		out:         goLog.New(outWriter, "", LstdFlags),
		errOut:      goLog.New(errWriter, "", LstdFlags),
		color:       c,
		prefix:      prefix,
	}
}

func (l *Logger) SetFlags(flags int) {
	l.out.SetFlags(flags)
	l.errOut.SetFlags(flags)
}

func (l *Logger) emit(depth int, level LogLevel, format string, a ...interface{}) {
	if l.LoggerLevel < level {
		return
	}
	var tag string
	dst := l.out
	switch level {
	case FatalLevel:
		tag, dst = l.color.Red("FATAL: "), l.errOut
	case ErrorLevel:
		tag, dst = l.color.Red("ERROR: "), l.errOut
	case WarningLevel:
		tag = l.color.Yellow("WARN: ")
	case DebugLevel:
		tag = l.color.Cyan("DEBUG: ")
	case TraceLevel:
		tag = l.color.Blue("TRACE: ")
	}
	dst.Output(depth+2, l.prefix+tag+fmt.Sprintf(format, a...))
	if level == FatalLevel {
		os.Exit(1)
	}
}

// Fatalf logs the message and exits the process.
func (l *Logger) Fatalf(format string, a ...interface{}) { l.emit(1, FatalLevel, format, a...) }

func (l *Logger) Errorf(format string, a ...interface{})   { l.emit(1, ErrorLevel, format, a...) }
func (l *Logger) Warningf(format string, a ...interface{}) { l.emit(1, WarningLevel, format, a...) }
func (l *Logger) Infof(format string, a ...interface{})    { l.emit(1, InfoLevel, format, a...) }
func (l *Logger) Debugf(format string, a ...interface{})   { l.emit(1, DebugLevel, format, a...) }
func (l *Logger) Tracef(format string, a ...interface{})   { l.emit(1, TraceLevel, format, a...) }

// Logf logs through the context logger, or the standard logger when the
// context has none.
func Logf(ctx context.Context, level LogLevel, format string, a ...interface{}) {
	logf(ctx, level, format, a...)
}

func logf(ctx context.Context, level LogLevel, format string, a ...interface{}) {
	if l := LoggerFromContext(ctx); l != nil {
		l.emit(2, level, format, a...)
		return
	}
	// Without a logger only warnings and worse are shown.
	if level <= WarningLevel {
		goLog.Output(3, fmt.Sprintf(format, a...))
	}
}

func Fatalf(ctx context.Context, format string, a ...interface{})   { logf(ctx, FatalLevel, format, a...) }
func Errorf(ctx context.Context, format string, a ...interface{})   { logf(ctx, ErrorLevel, format, a...) }
func Warningf(ctx context.Context, format string, a ...interface{}) { logf(ctx, WarningLevel, format, a...) }
func Infof(ctx context.Context, format string, a ...interface{})    { logf(ctx, InfoLevel, format, a...) }
func Debugf(ctx context.Context, format string, a ...interface{})   { logf(ctx, DebugLevel, format, a...) }
func Tracef(ctx context.Context, format string, a ...interface{})   { logf(ctx, TraceLevel, format, a...) }
