// Copyright 2026 The Fuchsia Authors. All rights reserved.
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

package hddproto

import (
	"io/ioutil"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v2"
)

// ErrInvalidProfile is returned when opcode or flag assignments collide or do
// not fit their fields.
var ErrInvalidProfile = errors.New("invalid protocol profile")

// Profile holds the numeric op and flag values a server speaks. Only two bits
// of op exist for five verbs, so Device shares a code with one block verb and
// device requests are told apart by their flag.
type Profile struct {
	BlockCreate    uint8 `yaml:"block_create"`
	BlockRead      uint8 `yaml:"block_read"`
	BlockOverwrite uint8 `yaml:"block_overwrite"`
	BlockDelete    uint8 `yaml:"block_delete"`
	Device         uint8 `yaml:"device"`

	FlagNone         uint8 `yaml:"flag_none"`
	FlagMetaBlock    uint8 `yaml:"flag_meta_block"`
	FlagInit         uint8 `yaml:"flag_init"`
	FlagFormat       uint8 `yaml:"flag_format"`
	FlagSaveAndClose uint8 `yaml:"flag_save_and_close"`
}

// DefaultProfile returns the assignments used when none are configured.
func DefaultProfile() Profile {
	return Profile{
		BlockCreate:    0,
		BlockRead:      1,
		BlockOverwrite: 2,
		BlockDelete:    3,
		Device:         3,

		FlagNone:         0,
		FlagMetaBlock:    1,
		FlagInit:         2,
		FlagFormat:       3,
		FlagSaveAndClose: 4,
	}
}

// Validate checks field widths and uniqueness.
func (p Profile) Validate() error {
	ops := map[string]uint8{
		"block_create":    p.BlockCreate,
		"block_read":      p.BlockRead,
		"block_overwrite": p.BlockOverwrite,
		"block_delete":    p.BlockDelete,
	}
	if err := distinct(ops, opMask); err != nil {
		return err
	}
	if p.Device > opMask {
		return errors.Wrapf(ErrInvalidProfile, "device op %d does not fit in 2 bits", p.Device)
	}
	flags := map[string]uint8{
		"flag_none":           p.FlagNone,
		"flag_meta_block":     p.FlagMetaBlock,
		"flag_init":           p.FlagInit,
		"flag_format":         p.FlagFormat,
		"flag_save_and_close": p.FlagSaveAndClose,
	}
	return distinct(flags, flagMask)
}

func distinct(values map[string]uint8, mask uint8) error {
	seen := make(map[uint8]string)
	for name, v := range values {
		if v > mask {
			return errors.Wrapf(ErrInvalidProfile, "%s=%d exceeds field width", name, v)
		}
		if other, ok := seen[v]; ok {
			// Report in a stable order regardless of map iteration.
			if other > name {
				other, name = name, other
			}
			return errors.Wrapf(ErrInvalidProfile, "%s and %s share value %d", other, name, v)
		}
		seen[v] = name
	}
	return nil
}

// Verb is the meaning of a request once op and flag are interpreted together.
type Verb int

const (
	VerbUnknown Verb = iota
	VerbCreate
	VerbRead
	VerbOverwrite
	VerbDelete
	VerbInit
	VerbFormat
	VerbSaveAndClose
)

var verbNames = map[Verb]string{
	VerbUnknown:      "unknown",
	VerbCreate:       "create",
	VerbRead:         "read",
	VerbOverwrite:    "overwrite",
	VerbDelete:       "delete",
	VerbInit:         "init",
	VerbFormat:       "format",
	VerbSaveAndClose: "save-and-close",
}

func (v Verb) String() string { return verbNames[v] }

// HasPayload reports whether requests of this verb are followed by block_size
// bytes of data.
func (v Verb) HasPayload() bool { return v == VerbCreate || v == VerbOverwrite }

// Classify interprets a request under p.
func (p Profile) Classify(c Command) Verb {
	if c.Op == p.Device {
		switch c.Flag {
		case p.FlagInit:
			return VerbInit
		case p.FlagFormat:
			return VerbFormat
		case p.FlagSaveAndClose:
			return VerbSaveAndClose
		}
	}
	switch c.Op {
	case p.BlockCreate:
		return VerbCreate
	case p.BlockRead:
		return VerbRead
	case p.BlockOverwrite:
		return VerbOverwrite
	case p.BlockDelete:
		return VerbDelete
	}
	return VerbUnknown
}

// ParseProfile decodes YAML over the default profile and validates the result.
// Keys that are absent keep their default values.
func ParseProfile(data []byte) (Profile, error) {
	p := DefaultProfile()
	if err := yaml.UnmarshalStrict(data, &p); err != nil {
		return Profile{}, errors.Wrap(err, "parsing profile")
	}
	if err := p.Validate(); err != nil {
		return Profile{}, err
	}
	return p, nil
}

// LoadProfile reads a YAML profile from path.
func LoadProfile(path string) (Profile, error) {
	data, err := ioutil.ReadFile(path)
	if err != nil {
		return Profile{}, errors.Wrapf(err, "reading profile %s", path)
	}
	return ParseProfile(data)
}
