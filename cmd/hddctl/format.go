// Copyright 2026 The Fuchsia Authors. All rights reserved.
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

package main

import (
	"context"
	"flag"

	"github.com/google/subcommands"

	"github.com/CestLucas/HDD-simulation/logger"
)

type formatCmd struct{}

func (*formatCmd) Name() string     { return "format" }
func (*formatCmd) Synopsis() string { return "wipes the device and writes an empty file table" }
func (*formatCmd) Usage() string {
	return `hddctl format

Deletes every block on the server and stores an empty file table.
`
}

func (*formatCmd) SetFlags(*flag.FlagSet) {}

func (*formatCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() != 0 {
		f.Usage()
		return subcommands.ExitUsageError
	}
	d := globalDevice()
	fs, err := d.open()
	if err != nil {
		logger.Errorf(ctx, "%v", err)
		return subcommands.ExitFailure
	}
	if err := d.withRetries(ctx, "format", fs.Format); err != nil {
		logger.Errorf(ctx, "format: %v", err)
		return subcommands.ExitFailure
	}
	if err := fs.Unmount(ctx); err != nil {
		logger.Errorf(ctx, "unmount: %v", err)
		return subcommands.ExitFailure
	}
	return subcommands.ExitSuccess
}
