// Copyright 2019 The Fuchsia Authors. All rights reserved.
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

package tarutil

import (
	"archive/tar"
	"bytes"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestTarAndUntar(t *testing.T) {
	files := map[string][]byte{
		"a":     []byte("alpha"),
		"empty": {},
		"b":     bytes.Repeat([]byte{0xBB}, 1000),
	}
	order := []string{"a", "empty", "b"}

	var buf bytes.Buffer
	tw := tar.NewWriter(&buf)
	for _, name := range order {
		if err := TarBuffer(tw, files[name], name); err != nil {
			t.Fatalf("TarBuffer(%s): %v", name, err)
		}
	}
	// Directories are skipped on the way back.
	if err := tw.WriteHeader(&tar.Header{Name: "dir/", Typeflag: tar.TypeDir, Mode: 0755}); err != nil {
		t.Fatal(err)
	}
	if err := tw.Close(); err != nil {
		t.Fatal(err)
	}

	got := make(map[string][]byte)
	var gotOrder []string
	err := Untar(bytes.NewReader(buf.Bytes()), 1000, func(path string, data []byte) error {
		got[path] = data
		gotOrder = append(gotOrder, path)
		return nil
	})
	if err != nil {
		t.Fatalf("Untar: %v", err)
	}
	if d := cmp.Diff(order, gotOrder); d != "" {
		t.Errorf("entry order (-want +got):\n%s", d)
	}
	if d := cmp.Diff(files, got); d != "" {
		t.Errorf("contents (-want +got):\n%s", d)
	}

	if err := Untar(bytes.NewReader(buf.Bytes()), 999, func(string, []byte) error { return nil }); err == nil {
		t.Errorf("Untar accepted an entry over the size limit")
	}
}
