// Copyright 2026 The Fuchsia Authors. All rights reserved.
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

package main

import (
	"context"
	"time"

	"github.com/pkg/errors"

	"github.com/CestLucas/HDD-simulation/hddfs"
	"github.com/CestLucas/HDD-simulation/logger"
	"github.com/CestLucas/HDD-simulation/net/hddclient"
	"github.com/CestLucas/HDD-simulation/retry"
)

// device holds the global connection settings.
type device struct {
	addr       string
	configPath string
	retries    uint64
}

func globalDevice() device {
	return device{addr: addr, configPath: configPath, retries: retries}
}

func (d device) config() (hddclient.Config, error) {
	cfg := hddclient.DefaultConfig()
	if d.configPath != "" {
		var err error
		if cfg, err = hddclient.LoadConfig(d.configPath); err != nil {
			return cfg, err
		}
	}
	if d.addr != "" {
		cfg.Address = d.addr
	}
	return cfg, nil
}

func (d device) open() (*hddfs.FS, error) {
	cfg, err := d.config()
	if err != nil {
		return nil, err
	}
	c, err := hddclient.New(cfg)
	if err != nil {
		return nil, err
	}
	return hddfs.New(c, hddfs.Options{})
}

// withRetries runs f, retrying transport failures with exponential backoff.
// Any other failure is returned at once.
func (d device) withRetries(ctx context.Context, what string, f func(context.Context) error) error {
	b := retry.WithMaxRetries(retry.NewExponentialBackoff(200*time.Millisecond, 5*time.Second, 2), d.retries)
	return retry.Retry(ctx, b, func() error {
		err := f(ctx)
		if err == nil {
			return nil
		}
		if errors.Is(err, hddclient.ErrConnection) || errors.Is(err, hddclient.ErrTimeout) {
			logger.Warningf(ctx, "%s: %v", what, err)
			return err
		}
		return retry.Permanent(err)
	})
}

// mount opens and mounts the device.
func (d device) mount(ctx context.Context) (*hddfs.FS, error) {
	fs, err := d.open()
	if err != nil {
		return nil, err
	}
	if err := d.withRetries(ctx, "mount", fs.Mount); err != nil {
		return nil, err
	}
	return fs, nil
}

// run mounts the device, calls f, and unmounts even if f fails.
func (d device) run(ctx context.Context, f func(*hddfs.FS) error) error {
	fs, err := d.mount(ctx)
	if err != nil {
		return err
	}
	ferr := f(fs)
	if err := fs.Unmount(ctx); err != nil {
		if ferr == nil {
			return err
		}
		logger.Errorf(ctx, "unmount: %v", err)
	}
	return ferr
}

// lookup returns the handle of an existing file without creating one.
func lookup(fs *hddfs.FS, name string) (hddfs.Handle, error) {
	for _, info := range fs.List() {
		if info.Name == name {
			return fs.Open(name)
		}
	}
	return 0, errors.Errorf("no such file %q", name)
}
