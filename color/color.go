// Copyright 2018 The Fuchsia Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package color wraps log prefixes in ANSI color escapes when the output is
// a terminal that can render them.
package color

import (
	"fmt"
	"os"
)

const (
	escape = "\033["
	clear  = escape + "0m"
)

// Code is an ANSI foreground color code.
type Code int

// Foreground text colors
const (
	RedFg Code = iota + 31
	GreenFg
	YellowFg
	BlueFg
	MagentaFg
	CyanFg
	DefaultFg Code = 39
)

// Color renders strings in color, or verbatim when disabled. The zero value
// is disabled.
type Color struct {
	enabled bool
}

// Enabled reports whether escapes are emitted.
func (c Color) Enabled() bool { return c.enabled }

func (c Color) Red(format string, a ...interface{}) string    { return c.With(RedFg, format, a...) }
func (c Color) Green(format string, a ...interface{}) string  { return c.With(GreenFg, format, a...) }
func (c Color) Yellow(format string, a ...interface{}) string { return c.With(YellowFg, format, a...) }
func (c Color) Blue(format string, a ...interface{}) string   { return c.With(BlueFg, format, a...) }
func (c Color) Cyan(format string, a ...interface{}) string   { return c.With(CyanFg, format, a...) }

// With formats the string and wraps it in the given color.
func (c Color) With(code Code, format string, a ...interface{}) string {
	s := fmt.Sprintf(format, a...)
	if !c.enabled || code == DefaultFg {
		return s
	}
	return fmt.Sprintf("%s%dm%s%s", escape, code, s, clear)
}

// Mode selects when color is used. It implements flag.Value.
type Mode int

const (
	Never Mode = iota
	Auto
	Always
)

// New returns a Color for the given mode. Auto enables color only when stdout
// is a terminal and TERM is not "dumb".
func New(mode Mode) Color {
	switch mode {
	case Always:
		return Color{enabled: true}
	case Auto:
		switch os.Getenv("TERM") {
		case "", "dumb":
			return Color{}
		}
		return Color{enabled: isTerminal(os.Stdout.Fd())}
	}
	return Color{}
}

func (m *Mode) String() string {
	switch *m {
	case Never:
		return "never"
	case Auto:
		return "auto"
	case Always:
		return "always"
	}
	return ""
}

func (m *Mode) Set(s string) error {
	switch s {
	case "never":
		*m = Never
	case "auto":
		*m = Auto
	case "always":
		*m = Always
	default:
		return fmt.Errorf("%s is not a valid color value", s)
	}
	return nil
}
