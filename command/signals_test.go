// Copyright 2018 The Fuchsia Authors. All rights reserved.
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

package command

import (
	"context"
	"syscall"
	"testing"
	"time"
)

func TestCancelOnSignals(t *testing.T) {
	ctx, stop := CancelOnSignals(context.Background(), syscall.SIGUSR1)
	defer stop()

	if err := syscall.Kill(syscall.Getpid(), syscall.SIGUSR1); err != nil {
		t.Fatal(err)
	}
	select {
	case <-ctx.Done():
	case <-time.After(5 * time.Second):
		t.Fatal("context was not canceled by SIGUSR1")
	}
}

func TestStopCancels(t *testing.T) {
	ctx, stop := CancelOnSignals(context.Background(), syscall.SIGUSR2)
	stop()
	if ctx.Err() == nil {
		t.Fatal("stop did not cancel the context")
	}
}
