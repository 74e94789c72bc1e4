// Copyright 2026 The Fuchsia Authors. All rights reserved.
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

//go:build linux
// +build linux

package hddclient

import (
	"syscall"
	"time"

	"golang.org/x/sys/unix"
)

// socketControl bounds how long sent data may stay unacknowledged before the
// kernel drops the connection, so a vanished peer fails writes instead of
// blocking them.
func socketControl(ioTimeout time.Duration) func(network, address string, c syscall.RawConn) error {
	if ioTimeout <= 0 {
		return nil
	}
	return func(network, address string, c syscall.RawConn) error {
		var sockErr error
		err := c.Control(func(fd uintptr) {
			sockErr = unix.SetsockoptInt(int(fd), unix.IPPROTO_TCP, unix.TCP_USER_TIMEOUT, int(ioTimeout/time.Millisecond))
		})
		if err != nil {
			return err
		}
		return sockErr
	}
}
