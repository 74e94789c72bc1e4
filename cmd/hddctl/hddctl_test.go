// Copyright 2026 The Fuchsia Authors. All rights reserved.
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

package main

import (
	"bytes"
	"context"
	"net"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"golang.org/x/sync/errgroup"

	"github.com/CestLucas/HDD-simulation/hddfs"
	"github.com/CestLucas/HDD-simulation/net/hddserver"
)

func startServer(t *testing.T) string {
	t.Helper()
	l, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("failed to listen: %v", err)
	}
	s := hddserver.New(hddserver.Options{})
	ctx, cancel := context.WithCancel(context.Background())
	var eg errgroup.Group
	eg.Go(func() error { return s.Serve(ctx, l) })
	t.Cleanup(func() {
		cancel()
		eg.Wait()
	})
	return l.Addr().String()
}

func formatDevice(t *testing.T, d device) {
	t.Helper()
	ctx := context.Background()
	fs, err := d.open()
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	if err := d.withRetries(ctx, "format", fs.Format); err != nil {
		t.Fatalf("Format: %v", err)
	}
	if err := fs.Unmount(ctx); err != nil {
		t.Fatalf("Unmount: %v", err)
	}
}

func TestPutAndCat(t *testing.T) {
	d := device{addr: startServer(t)}
	formatDevice(t, d)
	ctx := context.Background()

	err := d.run(ctx, func(fs *hddfs.FS) error {
		return putFile(ctx, fs, "greeting", []byte("hello, world"))
	})
	if err != nil {
		t.Fatalf("put: %v", err)
	}

	var out bytes.Buffer
	err = d.run(ctx, func(fs *hddfs.FS) error {
		return catFile(ctx, &out, fs, "greeting")
	})
	if err != nil {
		t.Fatalf("cat: %v", err)
	}
	if got := out.String(); got != "hello, world" {
		t.Errorf("cat = %q", got)
	}

	err = d.run(ctx, func(fs *hddfs.FS) error {
		return catFile(ctx, &out, fs, "missing")
	})
	if err == nil {
		t.Errorf("cat of a missing file succeeded")
	}
	err = d.run(ctx, func(fs *hddfs.FS) error {
		if infos := fs.List(); len(infos) != 1 {
			t.Errorf("cat of a missing file created an entry: %+v", infos)
		}
		return nil
	})
	if err != nil {
		t.Fatalf("run: %v", err)
	}
}

func TestListFiles(t *testing.T) {
	infos := []hddfs.FileInfo{
		{Handle: 1, Name: "a", Size: 2048, BlockID: 3, Position: 10, Open: true},
		{Handle: 2, Name: "bb", Size: 5, BlockID: 4},
	}
	var short bytes.Buffer
	if err := listFiles(&short, infos, false); err != nil {
		t.Fatal(err)
	}
	want := "a   2.0 KiB\nbb  5 B\n"
	if d := cmp.Diff(want, short.String()); d != "" {
		t.Errorf("short listing (-want +got):\n%s", d)
	}

	var long bytes.Buffer
	if err := listFiles(&long, infos, true); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(long.String(), "block 3") || !strings.Contains(long.String(), "closed") {
		t.Errorf("long listing missing fields:\n%s", long.String())
	}
}

func TestShell(t *testing.T) {
	d := device{addr: startServer(t)}
	formatDevice(t, d)
	ctx := context.Background()

	script := `
open notes
write 1 "hello there"
seek 1 6
read 1 100
seek 1 99
bogus
read 1 x
quit
open never-reached
`
	var out bytes.Buffer
	err := d.run(ctx, func(fs *hddfs.FS) error {
		sh := &shell{fs: fs, out: &out}
		return sh.run(ctx, strings.NewReader(script))
	})
	if err != nil {
		t.Fatalf("shell: %v", err)
	}
	want := strings.Join([]string{
		"1",
		"11",
		`"there"`,
		"error: seek to 99 outside [0, 11]: invalid argument",
		`error: unknown command "bogus" or missing handle`,
		`error: bad count "x"`,
	}, "\n") + "\n"
	if diff := cmp.Diff(want, out.String()); diff != "" {
		t.Errorf("shell output (-want +got):\n%s", diff)
	}

	err = d.run(ctx, func(fs *hddfs.FS) error {
		for _, info := range fs.List() {
			if info.Name == "never-reached" {
				t.Errorf("commands after quit were run")
			}
		}
		return nil
	})
	if err != nil {
		t.Fatalf("run: %v", err)
	}
}

func TestExportImport(t *testing.T) {
	ctx := context.Background()
	src := device{addr: startServer(t)}
	formatDevice(t, src)
	err := src.run(ctx, func(fs *hddfs.FS) error {
		if err := putFile(ctx, fs, "one", []byte("first file")); err != nil {
			return err
		}
		return putFile(ctx, fs, "two", bytes.Repeat([]byte{0xBB}, 300))
	})
	if err != nil {
		t.Fatalf("put: %v", err)
	}

	var archive bytes.Buffer
	if err := src.run(ctx, func(fs *hddfs.FS) error { return exportFiles(ctx, &archive, fs) }); err != nil {
		t.Fatalf("export: %v", err)
	}

	dst := device{addr: startServer(t)}
	formatDevice(t, dst)
	if err := dst.run(ctx, func(fs *hddfs.FS) error { return importFiles(ctx, &archive, fs) }); err != nil {
		t.Fatalf("import: %v", err)
	}

	var got bytes.Buffer
	err = dst.run(ctx, func(fs *hddfs.FS) error {
		for _, name := range []string{"one", "two"} {
			if err := catFile(ctx, &got, fs, name); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		t.Fatalf("cat: %v", err)
	}
	want := append([]byte("first file"), bytes.Repeat([]byte{0xBB}, 300)...)
	if d := cmp.Diff(want, got.Bytes()); d != "" {
		t.Errorf("imported contents (-want +got):\n%s", d)
	}
}
