// Copyright 2026 The Fuchsia Authors. All rights reserved.
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

package hddfs

import (
	"github.com/pkg/errors"

	"github.com/CestLucas/HDD-simulation/net/hddclient"
)

// Errors that may be returned by FS methods, in addition to the transport
// errors of package hddclient. Test for them with errors.Is.
var (
	// ErrInvalidHandle indicates a handle outside the file table.
	ErrInvalidHandle = errors.New("invalid file handle")

	// ErrInvalidArgument indicates a bad name, count or seek location.
	ErrInvalidArgument = errors.New("invalid argument")

	// ErrNotOpen indicates an operation on a file that is not open.
	ErrNotOpen = errors.New("file not open")

	// ErrCapacityExceeded indicates that a write would grow a file past the
	// maximum block size, or that the file table is full.
	ErrCapacityExceeded = errors.New("capacity exceeded")

	// ErrNotMounted indicates an operation that needs an initialized device.
	ErrNotMounted = errors.New("device not initialized")

	// ErrOrphanedBlock indicates a growing write that created its new block
	// but could not delete the old one. The file is left unchanged and the
	// new block is reported by Orphans.
	ErrOrphanedBlock = errors.New("orphaned block")

	// ErrProtocol indicates a corrupt file table or a block whose length
	// does not match its record.
	ErrProtocol = hddclient.ErrProtocol
)
