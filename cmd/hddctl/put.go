// Copyright 2026 The Fuchsia Authors. All rights reserved.
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

package main

import (
	"context"
	"flag"
	"io/ioutil"

	"github.com/google/subcommands"

	"github.com/CestLucas/HDD-simulation/hddfs"
	"github.com/CestLucas/HDD-simulation/logger"
)

type putCmd struct{}

func (*putCmd) Name() string     { return "put" }
func (*putCmd) Synopsis() string { return "copies a local file onto the device" }
func (*putCmd) Usage() string {
	return `hddctl put LOCAL NAME

Writes LOCAL to the start of NAME, creating NAME if needed. Bytes of NAME
past the length of LOCAL are kept.
`
}

func (*putCmd) SetFlags(*flag.FlagSet) {}

func (*putCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() != 2 {
		f.Usage()
		return subcommands.ExitUsageError
	}
	data, err := ioutil.ReadFile(f.Arg(0))
	if err != nil {
		logger.Errorf(ctx, "%v", err)
		return subcommands.ExitFailure
	}
	err = globalDevice().run(ctx, func(fs *hddfs.FS) error {
		return putFile(ctx, fs, f.Arg(1), data)
	})
	if err != nil {
		logger.Errorf(ctx, "put: %v", err)
		return subcommands.ExitFailure
	}
	return subcommands.ExitSuccess
}

func putFile(ctx context.Context, fs *hddfs.FS, name string, data []byte) error {
	h, err := fs.Open(name)
	if err != nil {
		return err
	}
	if err := fs.Seek(h, 0); err != nil {
		return err
	}
	if _, err := fs.Write(ctx, h, data); err != nil {
		return err
	}
	logger.Debugf(ctx, "wrote %d bytes to %s", len(data), name)
	return fs.Close(h)
}
