// Copyright 2026 The Fuchsia Authors. All rights reserved.
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

// hddserver serves an in-memory HDD block device over TCP.
package main

import (
	"context"
	goflag "flag"
	"net"
	"os"
	"syscall"

	"github.com/golang/glog"
	flag "github.com/spf13/pflag"

	"github.com/CestLucas/HDD-simulation/color"
	"github.com/CestLucas/HDD-simulation/command"
	"github.com/CestLucas/HDD-simulation/logger"
	"github.com/CestLucas/HDD-simulation/net/hddclient"
	"github.com/CestLucas/HDD-simulation/net/hddproto"
	"github.com/CestLucas/HDD-simulation/net/hddserver"
)

var (
	addr        = flag.String("addr", hddclient.DefaultAddress, "address to listen on")
	profilePath = flag.String("profile", "", "path to a YAML protocol profile")
	level       = logger.WarningLevel
)

func main() {
	goflag.Var(&level, "level", "request logging verbosity, can be fatal, error, warning, info, debug or trace")
	flag.CommandLine.AddGoFlagSet(goflag.CommandLine)
	flag.Parse()
	// glog checks that the standard flag set was parsed.
	goflag.CommandLine.Parse(nil)
	defer glog.Flush()

	opts := hddserver.Options{Profile: hddproto.DefaultProfile()}
	if *profilePath != "" {
		p, err := hddproto.LoadProfile(*profilePath)
		if err != nil {
			glog.Fatalf("Unable to load profile: %v", err)
		}
		opts.Profile = p
	}

	l, err := net.Listen("tcp", *addr)
	if err != nil {
		glog.Fatalf("Unable to listen on %s: %v", *addr, err)
	}
	glog.Infof("Serving on %s", l.Addr())

	log := logger.NewLogger(level, color.New(color.Auto), os.Stdout, os.Stderr, "hddserver: ")
	ctx := logger.WithLogger(context.Background(), log)
	ctx, stop := command.CancelOnSignals(ctx, syscall.SIGTERM, syscall.SIGINT)
	defer stop()

	if err := hddserver.New(opts).Serve(ctx, l); err != nil {
		glog.Errorf("Serve: %v", err)
		glog.Flush()
		os.Exit(1)
	}
	glog.Info("Shutting down")
}
