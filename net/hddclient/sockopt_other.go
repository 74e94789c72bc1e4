// Copyright 2026 The Fuchsia Authors. All rights reserved.
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

//go:build !linux
// +build !linux

package hddclient

import (
	"syscall"
	"time"
)

func socketControl(ioTimeout time.Duration) func(network, address string, c syscall.RawConn) error {
	return nil
}
