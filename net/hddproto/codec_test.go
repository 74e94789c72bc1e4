// Copyright 2026 The Fuchsia Authors. All rights reserved.
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

package hddproto

import (
	"bytes"
	"math/rand"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestRoundTrip(t *testing.T) {
	r := rand.New(rand.NewSource(311))
	for i := 0; i < 1000; i++ {
		want := Command{
			Op:        uint8(r.Intn(4)),
			BlockSize: uint32(r.Intn(MaxBlockSize + 1)),
			Flag:      uint8(r.Intn(8)),
			Result:    uint8(r.Intn(2)),
			BlockID:   r.Uint32(),
		}
		got := Decode(Encode(want))
		if d := cmp.Diff(want, got); d != "" {
			t.Fatalf("Decode(Encode()): mismatch (-want +got)\n%s", d)
		}
	}
}

func TestFieldBoundaries(t *testing.T) {
	all := Command{Op: 3, BlockSize: MaxBlockSize, Flag: 7, Result: 1, BlockID: 0xffffffff}
	if got := Encode(all); got != Word(^uint64(0)) {
		t.Errorf("Encode(all ones) = %#x, want all bits set", uint64(got))
	}
	if got := Encode(Command{}); got != 0 {
		t.Errorf("Encode(zero) = %#x, want 0", uint64(got))
	}

	tests := []struct {
		name string
		cmd  Command
		want Word
	}{
		{"op", Command{Op: 1}, 1 << 62},
		{"size", Command{BlockSize: 1}, 1 << 36},
		{"flag", Command{Flag: 1}, 1 << 33},
		{"result", Command{Result: 1}, 1 << 32},
		{"block", Command{BlockID: 1}, 1},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			if got := Encode(test.cmd); got != test.want {
				t.Errorf("Encode() = %#x, want %#x", uint64(got), uint64(test.want))
			}
		})
	}
}

func TestMasking(t *testing.T) {
	// Every field is given a value one bit wider than it holds; the extra bit
	// must be dropped rather than land in a neighbor.
	w := Pack(0x4|0x1, 0x2, 0x8|0x5, 1<<26|0x123, 0xabcd)
	want := Command{Op: 1, BlockSize: 0x123, Flag: 5, Result: 0, BlockID: 0xabcd}
	if d := cmp.Diff(want, Decode(w)); d != "" {
		t.Errorf("masked fields: mismatch (-want +got)\n%s", d)
	}
	if Decode(Pack(0, 0, 0xff, 0, 0)).Op != 0 {
		t.Error("oversized flag spilled into op")
	}
	if Decode(Pack(0, 0xff, 0, 0, 0)).Flag != 0 {
		t.Error("oversized result spilled into flag")
	}
}

func TestByteOrder(t *testing.T) {
	w := Pack(2, 1, 3, 0x10, 0x01020304)
	b := w.Bytes()
	if len(b) != WordSize {
		t.Fatalf("len(Bytes()) = %d, want %d", len(b), WordSize)
	}
	// Op lives in the most significant byte, which is sent first.
	if b[0]>>6 != 2 {
		t.Errorf("first byte %#x does not carry the op", b[0])
	}
	if !bytes.Equal(b[4:], []byte{1, 2, 3, 4}) {
		t.Errorf("block id bytes = %x, want 01020304", b[4:])
	}
	if got := ReadWord(b); got != w {
		t.Errorf("ReadWord(Bytes()) = %#x, want %#x", uint64(got), uint64(w))
	}
}

func TestFailed(t *testing.T) {
	if (Command{}).Failed() {
		t.Error("zero command reports failure")
	}
	if !Decode(Pack(0, 1, 0, 0, 0)).Failed() {
		t.Error("result bit not reported as failure")
	}
}
