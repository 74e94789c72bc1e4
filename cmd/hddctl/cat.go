// Copyright 2026 The Fuchsia Authors. All rights reserved.
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

package main

import (
	"context"
	"flag"
	"io"
	"os"

	"github.com/google/subcommands"

	"github.com/CestLucas/HDD-simulation/hddfs"
	"github.com/CestLucas/HDD-simulation/logger"
)

type catCmd struct{}

func (*catCmd) Name() string     { return "cat" }
func (*catCmd) Synopsis() string { return "prints files from the device" }
func (*catCmd) Usage() string {
	return `hddctl cat NAME...
`
}

func (*catCmd) SetFlags(*flag.FlagSet) {}

func (*catCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() == 0 {
		f.Usage()
		return subcommands.ExitUsageError
	}
	err := globalDevice().run(ctx, func(fs *hddfs.FS) error {
		for _, name := range f.Args() {
			if err := catFile(ctx, os.Stdout, fs, name); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		logger.Errorf(ctx, "cat: %v", err)
		return subcommands.ExitFailure
	}
	return subcommands.ExitSuccess
}

func catFile(ctx context.Context, w io.Writer, fs *hddfs.FS, name string) error {
	h, err := lookup(fs, name)
	if err != nil {
		return err
	}
	if err := fs.Seek(h, 0); err != nil {
		return err
	}
	buf := make([]byte, fs.Options().MaxBlockSize)
	for {
		n, err := fs.Read(ctx, h, buf)
		if err != nil {
			return err
		}
		if n == 0 {
			break
		}
		if _, err := w.Write(buf[:n]); err != nil {
			return err
		}
	}
	return fs.Close(h)
}
