// Copyright 2026 The Fuchsia Authors. All rights reserved.
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/google/shlex"
	"github.com/google/subcommands"
	"github.com/pkg/errors"

	"github.com/CestLucas/HDD-simulation/hddfs"
	"github.com/CestLucas/HDD-simulation/logger"
)

type shellCmd struct {
	prompt string
}

func (*shellCmd) Name() string     { return "shell" }
func (*shellCmd) Synopsis() string { return "runs file operations interactively over one mount" }
func (*shellCmd) Usage() string {
	return `hddctl shell [-prompt STRING]

Reads commands from stdin until EOF or "quit", then unmounts. Type "help"
for the list of commands.

flags:
`
}

func (c *shellCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.prompt, "prompt", "hdd> ", "prompt printed before each command")
}

func (c *shellCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	err := globalDevice().run(ctx, func(fs *hddfs.FS) error {
		sh := &shell{fs: fs, out: os.Stdout, prompt: c.prompt}
		return sh.run(ctx, os.Stdin)
	})
	if err != nil {
		logger.Errorf(ctx, "shell: %v", err)
		return subcommands.ExitFailure
	}
	return subcommands.ExitSuccess
}

const shellHelp = `commands:
  open NAME          open or create NAME and print its handle
  close H            close handle H
  read H N           read up to N bytes from H
  write H TEXT...    write TEXT at the position of H
  seek H LOC         move the position of H to LOC
  stat H             describe handle H
  ls                 list all files
  orphans            list blocks leaked by failed growth
  quit               unmount and exit
`

type shell struct {
	fs     *hddfs.FS
	out    io.Writer
	prompt string
}

// run executes commands from in. Errors from individual commands are printed
// and do not end the session.
func (s *shell) run(ctx context.Context, in io.Reader) error {
	scanner := bufio.NewScanner(in)
	for {
		fmt.Fprint(s.out, s.prompt)
		if !scanner.Scan() {
			break
		}
		args, err := shlex.Split(scanner.Text())
		if err != nil {
			fmt.Fprintf(s.out, "error: %v\n", err)
			continue
		}
		if len(args) == 0 {
			continue
		}
		if args[0] == "quit" || args[0] == "exit" {
			return nil
		}
		if err := s.exec(ctx, args); err != nil {
			fmt.Fprintf(s.out, "error: %v\n", err)
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}
	}
	return scanner.Err()
}

func (s *shell) exec(ctx context.Context, args []string) error {
	cmd, args := args[0], args[1:]
	switch cmd {
	case "help":
		fmt.Fprint(s.out, shellHelp)
		return nil
	case "ls":
		return listFiles(s.out, s.fs.List(), true)
	case "orphans":
		for _, id := range s.fs.Orphans() {
			fmt.Fprintln(s.out, id)
		}
		return nil
	case "open":
		if len(args) != 1 {
			return errors.New("usage: open NAME")
		}
		h, err := s.fs.Open(args[0])
		if err != nil {
			return err
		}
		fmt.Fprintln(s.out, h)
		return nil
	}

	if len(args) == 0 {
		return errors.Errorf("unknown command %q or missing handle", cmd)
	}
	n, err := strconv.Atoi(args[0])
	if err != nil {
		return errors.Errorf("bad handle %q", args[0])
	}
	h, args := hddfs.Handle(n), args[1:]
	switch cmd {
	case "close":
		return s.fs.Close(h)
	case "stat":
		info, err := s.fs.Stat(h)
		if err != nil {
			return err
		}
		return listFiles(s.out, []hddfs.FileInfo{info}, true)
	case "read":
		if len(args) != 1 {
			return errors.New("usage: read H N")
		}
		count, err := strconv.Atoi(args[0])
		if err != nil || count < 0 {
			return errors.Errorf("bad count %q", args[0])
		}
		buf := make([]byte, count)
		n, err := s.fs.Read(ctx, h, buf)
		if err != nil {
			return err
		}
		fmt.Fprintf(s.out, "%q\n", buf[:n])
		return nil
	case "write":
		n, err := s.fs.Write(ctx, h, []byte(strings.Join(args, " ")))
		if err != nil {
			return err
		}
		fmt.Fprintln(s.out, n)
		return nil
	case "seek":
		if len(args) != 1 {
			return errors.New("usage: seek H LOC")
		}
		loc, err := strconv.ParseInt(args[0], 10, 64)
		if err != nil {
			return errors.Errorf("bad location %q", args[0])
		}
		return s.fs.Seek(h, loc)
	}
	return errors.Errorf("unknown command %q", cmd)
}
