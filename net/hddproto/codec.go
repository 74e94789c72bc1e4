// Copyright 2026 The Fuchsia Authors. All rights reserved.
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

// Package hddproto implements the HDD block-storage wire format: every request
// and response is a single 64-bit command word, sent big-endian, optionally
// followed by a raw payload.
//
//	bits 63-62  op          verb selector
//	bits 61-36  block_size  payload length in bytes
//	bits 35-33  flag        session-control modifier
//	bit  32     result      0 success, 1 failure (responses only)
//	bits 31-0   block_id    server-assigned block identifier, 0 if unallocated
package hddproto

import (
	"encoding/binary"
	"fmt"
)

// WordSize is the encoded length of a command word.
const WordSize = 8

const (
	opShift     = 62
	sizeShift   = 36
	flagShift   = 33
	resultShift = 32

	opMask     = 0x3
	sizeMask   = 1<<26 - 1
	flagMask   = 0x7
	resultMask = 0x1
	idMask     = 1<<32 - 1
)

// MaxBlockSize is the largest payload length the block_size field can carry.
const MaxBlockSize = sizeMask

// Word is a packed command or response word.
type Word uint64

// Command is the decoded form of a Word. Field values wider than their wire
// width are masked on encode.
type Command struct {
	Op        uint8
	BlockSize uint32
	Flag      uint8
	Result    uint8
	BlockID   uint32
}

// Failed reports whether the result bit is set.
func (c Command) Failed() bool { return c.Result&resultMask != 0 }

func (c Command) String() string {
	return fmt.Sprintf("op=%d size=%d flag=%d result=%d block=%d", c.Op, c.BlockSize, c.Flag, c.Result, c.BlockID)
}

// Pack builds a word from its fields. Each field is masked to its width so an
// out-of-range value cannot spill into a neighbor.
func Pack(op, result, flag uint8, blockSize, blockID uint32) Word {
	return Word(uint64(op&opMask)<<opShift |
		uint64(blockSize&sizeMask)<<sizeShift |
		uint64(flag&flagMask)<<flagShift |
		uint64(result&resultMask)<<resultShift |
		uint64(blockID))
}

// Encode packs c into a word.
func Encode(c Command) Word {
	return Pack(c.Op, c.Result, c.Flag, c.BlockSize, c.BlockID)
}

// Decode unpacks a word.
func Decode(w Word) Command {
	return Command{
		Op:        uint8(w>>opShift) & opMask,
		BlockSize: uint32(w>>sizeShift) & sizeMask,
		Flag:      uint8(w>>flagShift) & flagMask,
		Result:    uint8(w>>resultShift) & resultMask,
		BlockID:   uint32(w & idMask),
	}
}

// PutWord writes w into b in network byte order. b must hold WordSize bytes.
func PutWord(b []byte, w Word) {
	binary.BigEndian.PutUint64(b, uint64(w))
}

// ReadWord reads a word in network byte order from the first WordSize bytes of b.
func ReadWord(b []byte) Word {
	return Word(binary.BigEndian.Uint64(b))
}

// Bytes returns the network byte order encoding of w.
func (w Word) Bytes() []byte {
	b := make([]byte, WordSize)
	PutWord(b, w)
	return b
}
