// Copyright 2026 The Fuchsia Authors. All rights reserved.
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

package hddproto

import (
	"errors"
	"io/ioutil"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestDefaultProfileValid(t *testing.T) {
	if err := DefaultProfile().Validate(); err != nil {
		t.Fatalf("default profile invalid: %v", err)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Profile)
	}{
		{"op too wide", func(p *Profile) { p.BlockRead = 4 }},
		{"device too wide", func(p *Profile) { p.Device = 5 }},
		{"flag too wide", func(p *Profile) { p.FlagFormat = 8 }},
		{"ops collide", func(p *Profile) { p.BlockRead = p.BlockCreate }},
		{"flags collide", func(p *Profile) { p.FlagInit = p.FlagMetaBlock }},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			p := DefaultProfile()
			test.mutate(&p)
			if err := p.Validate(); !errors.Is(err, ErrInvalidProfile) {
				t.Errorf("Validate() = %v, want ErrInvalidProfile", err)
			}
		})
	}
}

func TestClassify(t *testing.T) {
	p := DefaultProfile()
	tests := []struct {
		cmd  Command
		want Verb
	}{
		{Command{Op: p.BlockCreate, Flag: p.FlagNone}, VerbCreate},
		{Command{Op: p.BlockCreate, Flag: p.FlagMetaBlock}, VerbCreate},
		{Command{Op: p.BlockRead}, VerbRead},
		{Command{Op: p.BlockOverwrite}, VerbOverwrite},
		{Command{Op: p.BlockDelete, Flag: p.FlagNone}, VerbDelete},
		{Command{Op: p.Device, Flag: p.FlagInit}, VerbInit},
		{Command{Op: p.Device, Flag: p.FlagFormat}, VerbFormat},
		{Command{Op: p.Device, Flag: p.FlagSaveAndClose}, VerbSaveAndClose},
	}
	for _, test := range tests {
		if got := p.Classify(test.cmd); got != test.want {
			t.Errorf("Classify(%v) = %v, want %v", test.cmd, got, test.want)
		}
	}
	if !VerbCreate.HasPayload() || !VerbOverwrite.HasPayload() || VerbRead.HasPayload() {
		t.Error("HasPayload disagrees with the wire format")
	}
}

func TestParseProfile(t *testing.T) {
	got, err := ParseProfile([]byte("flag_init: 5\nflag_save_and_close: 6\n"))
	if err != nil {
		t.Fatal(err)
	}
	want := DefaultProfile()
	want.FlagInit = 5
	want.FlagSaveAndClose = 6
	if d := cmp.Diff(want, got); d != "" {
		t.Errorf("ParseProfile: mismatch (-want +got)\n%s", d)
	}

	if _, err := ParseProfile([]byte("flag_init: 1\n")); !errors.Is(err, ErrInvalidProfile) {
		t.Errorf("colliding flags: got %v, want ErrInvalidProfile", err)
	}
	if _, err := ParseProfile([]byte("no_such_key: 1\n")); err == nil {
		t.Error("unknown key accepted")
	}
}

func TestLoadProfile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "profile.yaml")
	if err := ioutil.WriteFile(path, []byte("block_delete: 0\nblock_create: 3\ndevice: 0\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	p, err := LoadProfile(path)
	if err != nil {
		t.Fatal(err)
	}
	if p.BlockCreate != 3 || p.BlockDelete != 0 || p.Device != 0 {
		t.Errorf("LoadProfile() = %+v", p)
	}
	if _, err := LoadProfile(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("missing file accepted")
	}
}
