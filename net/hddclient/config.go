// Copyright 2026 The Fuchsia Authors. All rights reserved.
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

package hddclient

import (
	"io/ioutil"
	"time"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v2"

	"github.com/CestLucas/HDD-simulation/net/hddproto"
)

// DefaultAddress is the server address used when none is configured.
const DefaultAddress = "127.0.0.1:19876"

// Config describes how to reach a server and which protocol profile it speaks.
//
// Example:
//
//	address: 10.0.0.7:19876
//	connect_timeout: 5s
//	io_timeout: 1m
//	profile:
//	  block_delete: 3
//	  device: 3
type Config struct {
	Address        string           `yaml:"address"`
	ConnectTimeout time.Duration    `yaml:"connect_timeout"`
	IOTimeout      time.Duration    `yaml:"io_timeout"`
	Profile        hddproto.Profile `yaml:"profile"`
}

// DefaultConfig returns the configuration used when no file is given.
func DefaultConfig() Config {
	return Config{
		Address:        DefaultAddress,
		ConnectTimeout: 10 * time.Second,
		IOTimeout:      30 * time.Second,
		Profile:        hddproto.DefaultProfile(),
	}
}

// Validate checks the address and profile.
func (c Config) Validate() error {
	if c.Address == "" {
		return errors.New("config: address is empty")
	}
	if c.ConnectTimeout < 0 || c.IOTimeout < 0 {
		return errors.New("config: timeouts must not be negative")
	}
	return c.Profile.Validate()
}

// ParseConfig decodes YAML over DefaultConfig. Absent keys keep their
// defaults, including individual profile entries.
func ParseConfig(data []byte) (Config, error) {
	c := DefaultConfig()
	if err := yaml.UnmarshalStrict(data, &c); err != nil {
		return Config{}, errors.Wrap(err, "parsing config")
	}
	if err := c.Validate(); err != nil {
		return Config{}, err
	}
	return c, nil
}

// LoadConfig reads a YAML config from path.
func LoadConfig(path string) (Config, error) {
	data, err := ioutil.ReadFile(path)
	if err != nil {
		return Config{}, errors.Wrapf(err, "reading config %s", path)
	}
	return ParseConfig(data)
}
