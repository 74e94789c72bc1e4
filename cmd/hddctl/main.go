// Copyright 2026 The Fuchsia Authors. All rights reserved.
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

// hddctl inspects and edits the files stored on an HDD block server.
package main

import (
	"context"
	"flag"
	"os"
	"syscall"

	"github.com/google/subcommands"

	"github.com/CestLucas/HDD-simulation/color"
	"github.com/CestLucas/HDD-simulation/command"
	"github.com/CestLucas/HDD-simulation/logger"
)

var (
	colors     color.Mode
	level      logger.LogLevel
	addr       string
	configPath string
	retries    uint64
)

func init() {
	colors = color.Auto
	level = logger.InfoLevel

	flag.Var(&colors, "color", "use color in output, can be never, auto, always")
	flag.Var(&level, "level", "output verbosity, can be fatal, error, warning, info, debug or trace")
	flag.StringVar(&addr, "addr", "", "server address; overrides the config file")
	flag.StringVar(&configPath, "config", "", "path to a YAML client config")
	flag.Uint64Var(&retries, "retries", 3, "how many times to retry mounting or formatting on connection failures")
}

func main() {
	subcommands.Register(subcommands.HelpCommand(), "")
	subcommands.Register(subcommands.CommandsCommand(), "")
	subcommands.Register(subcommands.FlagsCommand(), "")
	subcommands.Register(&formatCmd{}, "")
	subcommands.Register(&lsCmd{}, "")
	subcommands.Register(&putCmd{}, "")
	subcommands.Register(&catCmd{}, "")
	subcommands.Register(&shellCmd{}, "")
	subcommands.Register(&exportCmd{}, "")
	subcommands.Register(&importCmd{}, "")

	flag.Parse()

	log := logger.NewLogger(level, color.New(colors), os.Stdout, os.Stderr, "hddctl: ")
	ctx := logger.WithLogger(context.Background(), log)
	ctx, stop := command.CancelOnSignals(ctx, syscall.SIGTERM, syscall.SIGINT)
	status := subcommands.Execute(ctx)
	stop()
	os.Exit(int(status))
}
