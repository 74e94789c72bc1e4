// Copyright 2026 The Fuchsia Authors. All rights reserved.
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

package hddfs

import (
	"github.com/pkg/errors"

	"github.com/CestLucas/HDD-simulation/net/hddproto"
)

const (
	DefaultMaxFiles      = 1024
	DefaultMaxNameLength = 128
	DefaultMaxBlockSize  = 1 << 20
)

// MetaBlockName is the name of the reserved slot 0, which holds the file
// table. It cannot be opened.
const MetaBlockName = "Meta Block"

// Options size the file table. Zero fields take their defaults.
type Options struct {
	// MaxFiles is the number of table slots, including the reserved slot 0.
	MaxFiles int
	// MaxNameLength is the longest file name in bytes.
	MaxNameLength int
	// MaxBlockSize is the largest size a file may grow to.
	MaxBlockSize int
}

func (o Options) withDefaults() Options {
	if o.MaxFiles == 0 {
		o.MaxFiles = DefaultMaxFiles
	}
	if o.MaxNameLength == 0 {
		o.MaxNameLength = DefaultMaxNameLength
	}
	if o.MaxBlockSize == 0 {
		o.MaxBlockSize = DefaultMaxBlockSize
	}
	return o
}

func (o Options) validate() error {
	switch {
	case o.MaxFiles < 2:
		return errors.Errorf("MaxFiles %d leaves no room for files", o.MaxFiles)
	case o.MaxNameLength < len(MetaBlockName):
		return errors.Errorf("MaxNameLength %d is shorter than %q", o.MaxNameLength, MetaBlockName)
	case o.MaxBlockSize < 1 || o.MaxBlockSize > hddproto.MaxBlockSize:
		return errors.Errorf("MaxBlockSize %d is outside [1, %d]", o.MaxBlockSize, hddproto.MaxBlockSize)
	case o.ImageSize() > hddproto.MaxBlockSize:
		return errors.Errorf("file table of %d bytes does not fit in one block", o.ImageSize())
	}
	return nil
}

// ImageSize is the length of the serialized file table.
func (o Options) ImageSize() int { return o.MaxFiles * o.recordSize() }

func (o Options) recordSize() int { return recordHeaderSize + o.MaxNameLength }
