// Copyright 2026 The Fuchsia Authors. All rights reserved.
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

package hddfs

import (
	"bytes"
	"encoding/binary"

	"github.com/pkg/errors"
)

// The file table is stored as Options.MaxFiles fixed-size records:
//
//	offset  size  field
//	0       4     block_id  (little-endian)
//	4       4     size      (little-endian)
//	8       4     position  (little-endian)
//	12      1     open      (0 or 1)
//	13      3     reserved
//	16      N     name, NUL padded to Options.MaxNameLength
//
// A free slot has an empty name.
const recordHeaderSize = 16

// record is one slot of the file table.
type record struct {
	name     string
	blockID  uint32
	size     uint32
	position uint32
	open     bool
}

func encodeTable(records []*record, o Options) []byte {
	rs := o.recordSize()
	b := make([]byte, o.ImageSize())
	for i, r := range records {
		if r == nil {
			continue
		}
		rec := b[i*rs : (i+1)*rs]
		binary.LittleEndian.PutUint32(rec[0:], r.blockID)
		binary.LittleEndian.PutUint32(rec[4:], r.size)
		binary.LittleEndian.PutUint32(rec[8:], r.position)
		if r.open {
			rec[12] = 1
		}
		copy(rec[recordHeaderSize:], r.name)
	}
	return b
}

// decodeTable parses an image produced by encodeTable. Slot 0 is skipped; the
// caller rebuilds it from the meta block itself.
func decodeTable(b []byte, o Options) ([]*record, error) {
	if len(b) != o.ImageSize() {
		return nil, errors.Wrapf(ErrProtocol, "file table is %d bytes, want %d", len(b), o.ImageSize())
	}
	rs := o.recordSize()
	records := make([]*record, o.MaxFiles)
	seen := make(map[string]int)
	for i := 1; i < o.MaxFiles; i++ {
		rec := b[i*rs : (i+1)*rs]
		name := rec[recordHeaderSize:]
		if n := bytes.IndexByte(name, 0); n >= 0 {
			name = name[:n]
		}
		if len(name) == 0 {
			continue
		}
		r := &record{
			name:     string(name),
			blockID:  binary.LittleEndian.Uint32(rec[0:]),
			size:     binary.LittleEndian.Uint32(rec[4:]),
			position: binary.LittleEndian.Uint32(rec[8:]),
			open:     rec[12] != 0,
		}
		switch {
		case r.name == MetaBlockName:
			return nil, errors.Wrapf(ErrProtocol, "slot %d uses the reserved name", i)
		case r.position > r.size:
			return nil, errors.Wrapf(ErrProtocol, "slot %d: position %d beyond size %d", i, r.position, r.size)
		case r.blockID == 0 && r.size != 0:
			return nil, errors.Wrapf(ErrProtocol, "slot %d: size %d without a block", i, r.size)
		}
		if j, ok := seen[r.name]; ok {
			return nil, errors.Wrapf(ErrProtocol, "slots %d and %d share name %q", j, i, r.name)
		}
		seen[r.name] = i
		records[i] = r
	}
	return records, nil
}
