// Copyright 2018 The Fuchsia Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package color

import (
	"fmt"
	"testing"
)

func TestColors(t *testing.T) {
	c := New(Always)
	fns := []func(string, ...interface{}) string{c.Red, c.Green, c.Yellow, c.Blue, c.Cyan}
	codes := []Code{RedFg, GreenFg, YellowFg, BlueFg, CyanFg}

	for i, code := range codes {
		str := fmt.Sprintf("block %d", i)
		want := fmt.Sprintf("%v%vm%v%v", escape, code, str, clear)
		if got := fns[i]("block %d", i); got != want {
			t.Errorf("color %d: got %q, want %q", code, got, want)
		}
	}
	if got := c.With(DefaultFg, "plain"); got != "plain" {
		t.Errorf("default color should not be escaped, got %q", got)
	}
}

func TestColorsDisabled(t *testing.T) {
	c := New(Never)
	if c.Enabled() {
		t.Fatal("Never mode returned an enabled color")
	}
	if got := c.Red("block %d", 7); got != "block 7" {
		t.Errorf("got %q, want %q", got, "block 7")
	}
}

func TestModeFlag(t *testing.T) {
	var m Mode
	for _, s := range []string{"never", "auto", "always"} {
		if err := m.Set(s); err != nil {
			t.Fatalf("Set(%q): %v", s, err)
		}
		if got := m.String(); got != s {
			t.Errorf("String() = %q after Set(%q)", got, s)
		}
	}
	if err := m.Set("sometimes"); err == nil {
		t.Error("Set accepted an invalid mode")
	}
}
