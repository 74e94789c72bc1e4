// Copyright 2026 The Fuchsia Authors. All rights reserved.
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

package main

import (
	"archive/tar"
	"bytes"
	"context"
	"flag"
	"io"
	"os"

	"github.com/google/subcommands"

	"github.com/CestLucas/HDD-simulation/hddfs"
	"github.com/CestLucas/HDD-simulation/logger"
	"github.com/CestLucas/HDD-simulation/tarutil"
)

type exportCmd struct{}

func (*exportCmd) Name() string     { return "export" }
func (*exportCmd) Synopsis() string { return "writes every file on the device to a tar archive" }
func (*exportCmd) Usage() string {
	return `hddctl export ARCHIVE

Writes a tar archive holding one entry per file. ARCHIVE "-" means stdout.
`
}

func (*exportCmd) SetFlags(*flag.FlagSet) {}

func (*exportCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() != 1 {
		f.Usage()
		return subcommands.ExitUsageError
	}
	var w io.Writer = os.Stdout
	if path := f.Arg(0); path != "-" {
		out, err := os.Create(path)
		if err != nil {
			logger.Errorf(ctx, "%v", err)
			return subcommands.ExitFailure
		}
		defer out.Close()
		w = out
	}
	err := globalDevice().run(ctx, func(fs *hddfs.FS) error {
		return exportFiles(ctx, w, fs)
	})
	if err != nil {
		logger.Errorf(ctx, "export: %v", err)
		return subcommands.ExitFailure
	}
	return subcommands.ExitSuccess
}

func exportFiles(ctx context.Context, w io.Writer, fs *hddfs.FS) error {
	tw := tar.NewWriter(w)
	for _, info := range fs.List() {
		var buf bytes.Buffer
		if err := catFile(ctx, &buf, fs, info.Name); err != nil {
			return err
		}
		if err := tarutil.TarBuffer(tw, buf.Bytes(), info.Name); err != nil {
			return err
		}
	}
	return tw.Close()
}

type importCmd struct{}

func (*importCmd) Name() string     { return "import" }
func (*importCmd) Synopsis() string { return "copies every file of a tar archive onto the device" }
func (*importCmd) Usage() string {
	return `hddctl import ARCHIVE

Puts each regular file of the tar archive under its entry name. ARCHIVE "-"
means stdin.
`
}

func (*importCmd) SetFlags(*flag.FlagSet) {}

func (*importCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() != 1 {
		f.Usage()
		return subcommands.ExitUsageError
	}
	var r io.Reader = os.Stdin
	if path := f.Arg(0); path != "-" {
		in, err := os.Open(path)
		if err != nil {
			logger.Errorf(ctx, "%v", err)
			return subcommands.ExitFailure
		}
		defer in.Close()
		r = in
	}
	err := globalDevice().run(ctx, func(fs *hddfs.FS) error {
		return importFiles(ctx, r, fs)
	})
	if err != nil {
		logger.Errorf(ctx, "import: %v", err)
		return subcommands.ExitFailure
	}
	return subcommands.ExitSuccess
}

func importFiles(ctx context.Context, r io.Reader, fs *hddfs.FS) error {
	return tarutil.Untar(r, int64(fs.Options().MaxBlockSize), func(name string, data []byte) error {
		return putFile(ctx, fs, name, data)
	})
}
