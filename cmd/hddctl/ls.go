// Copyright 2026 The Fuchsia Authors. All rights reserved.
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"github.com/dustin/go-humanize"
	"github.com/google/subcommands"

	"github.com/CestLucas/HDD-simulation/hddfs"
	"github.com/CestLucas/HDD-simulation/logger"
)

type lsCmd struct {
	long bool
}

func (*lsCmd) Name() string     { return "ls" }
func (*lsCmd) Synopsis() string { return "lists the files in the file table" }
func (*lsCmd) Usage() string {
	return `hddctl ls [-l]

flags:
`
}

func (c *lsCmd) SetFlags(f *flag.FlagSet) {
	f.BoolVar(&c.long, "l", false, "also show handle, block id, position and open state")
}

func (c *lsCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	err := globalDevice().run(ctx, func(fs *hddfs.FS) error {
		return listFiles(os.Stdout, fs.List(), c.long)
	})
	if err != nil {
		logger.Errorf(ctx, "ls: %v", err)
		return subcommands.ExitFailure
	}
	return subcommands.ExitSuccess
}

func listFiles(w io.Writer, infos []hddfs.FileInfo, long bool) error {
	tw := tabwriter.NewWriter(w, 0, 8, 2, ' ', 0)
	for _, info := range infos {
		if long {
			state := "closed"
			if info.Open {
				state = "open"
			}
			fmt.Fprintf(tw, "%d\t%s\t%s\tblock %d\tat %d\t%s\n", info.Handle, info.Name, humanize.IBytes(uint64(info.Size)), info.BlockID, info.Position, state)
		} else {
			fmt.Fprintf(tw, "%s\t%s\n", info.Name, humanize.IBytes(uint64(info.Size)))
		}
	}
	return tw.Flush()
}
