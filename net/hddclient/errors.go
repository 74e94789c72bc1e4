// Copyright 2026 The Fuchsia Authors. All rights reserved.
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

package hddclient

import (
	"fmt"

	"github.com/pkg/errors"
)

// Errors that may be returned by functions in this package. Test for them
// with errors.Is.
var (
	// ErrConnection indicates that connecting, sending or receiving failed.
	// The session is closed when it is returned.
	ErrConnection = errors.New("connection error")

	// ErrTimeout indicates that a socket operation missed its deadline. The
	// session is closed when it is returned.
	ErrTimeout = errors.New("timed out")

	// ErrProtocol indicates a response that does not match its request.
	ErrProtocol = errors.New("protocol error")

	// ErrServerRejected indicates that the server set the result bit.
	ErrServerRejected = errors.New("rejected by server")
)

// transportError carries the kind of a transport failure alongside the
// underlying cause, so both can be matched with errors.Is.
type transportError struct {
	kind error
	op   string
	err  error
}

func (e *transportError) Error() string {
	return fmt.Sprintf("%s: %v: %v", e.op, e.kind, e.err)
}

func (e *transportError) Is(target error) bool { return target == e.kind }

func (e *transportError) Unwrap() error { return e.err }
