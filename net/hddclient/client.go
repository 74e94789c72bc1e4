// Copyright 2026 The Fuchsia Authors. All rights reserved.
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

// Package hddclient talks to an HDD block server: it owns the connection and
// turns block verbs into command words and payloads.
package hddclient

import (
	"context"

	"github.com/kr/pretty"
	"github.com/pkg/errors"

	"github.com/CestLucas/HDD-simulation/logger"
	"github.com/CestLucas/HDD-simulation/net/hddproto"
)

// Target selects between ordinary blocks and the meta block.
type Target int

const (
	// Data addresses an ordinary block.
	Data Target = iota
	// Meta addresses the file-table block.
	Meta
)

// Client issues block requests over a Session. It is not safe for concurrent
// use.
type Client struct {
	session *Session
	profile hddproto.Profile
}

// New returns a disconnected client for cfg.
func New(cfg Config) (*Client, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return NewClient(NewSession(cfg.Address, cfg.ConnectTimeout, cfg.IOTimeout), cfg.Profile), nil
}

// NewClient returns a client speaking profile p over s.
func NewClient(s *Session, p hddproto.Profile) *Client {
	return &Client{session: s, profile: p}
}

// Profile returns the protocol profile in use.
func (c *Client) Profile() hddproto.Profile { return c.profile }

// Connected reports whether the session is connected.
func (c *Client) Connected() bool { return c.session.Connected() }

// Session returns the underlying session.
func (c *Client) Session() *Session { return c.session }

// Close closes the session without notifying the server.
func (c *Client) Close() error { return c.session.Close() }

// Do sends req, followed by payload for create and overwrite, and returns the
// decoded response. A read response's payload is received into into, which
// must be large enough to hold it. An init request connects the session
// first; a save-and-close request closes it afterwards whatever the result.
//
// Transport failures close the session. A response with the result bit set
// is returned along with ErrServerRejected.
func (c *Client) Do(ctx context.Context, req hddproto.Command, payload, into []byte) (hddproto.Command, error) {
	verb := c.profile.Classify(req)
	if verb == hddproto.VerbUnknown {
		return hddproto.Command{}, errors.Errorf("unknown request %v", req)
	}
	if verb.HasPayload() && uint32(len(payload)) != req.BlockSize {
		return hddproto.Command{}, errors.Errorf("%s: payload is %d bytes, block_size is %d", verb, len(payload), req.BlockSize)
	}
	if req.BlockSize > hddproto.MaxBlockSize {
		return hddproto.Command{}, errors.Errorf("%s: block_size %d exceeds %d", verb, req.BlockSize, hddproto.MaxBlockSize)
	}
	if verb == hddproto.VerbInit {
		if err := c.session.EnsureConnected(ctx); err != nil {
			return hddproto.Command{}, err
		}
	}

	logger.Tracef(ctx, "%s request: %# v", verb, pretty.Formatter(req))
	if err := c.session.SendExact(ctx, hddproto.Encode(req).Bytes()); err != nil {
		return hddproto.Command{}, errors.Wrapf(err, "%s", verb)
	}
	if verb.HasPayload() {
		if err := c.session.SendExact(ctx, payload); err != nil {
			return hddproto.Command{}, errors.Wrapf(err, "%s payload", verb)
		}
	}

	var word [hddproto.WordSize]byte
	if err := c.session.RecvExact(ctx, word[:]); err != nil {
		return hddproto.Command{}, errors.Wrapf(err, "%s response", verb)
	}
	resp := hddproto.Decode(hddproto.ReadWord(word[:]))
	logger.Tracef(ctx, "%s response: %# v", verb, pretty.Formatter(resp))

	if resp.Op != req.Op {
		c.session.Close()
		return resp, errors.Wrapf(ErrProtocol, "%s: response op %d does not match request op %d", verb, resp.Op, req.Op)
	}
	if resp.Op == c.profile.BlockRead && resp.BlockSize > 0 {
		if int(resp.BlockSize) > len(into) {
			c.session.Close()
			return resp, errors.Wrapf(ErrProtocol, "%s: response carries %d bytes, buffer holds %d", verb, resp.BlockSize, len(into))
		}
		if err := c.session.RecvExact(ctx, into[:resp.BlockSize]); err != nil {
			return resp, errors.Wrapf(err, "%s payload", verb)
		}
	}
	if verb == hddproto.VerbSaveAndClose {
		if err := c.session.Close(); err != nil {
			logger.Debugf(ctx, "closing after save: %v", err)
		}
	}
	if resp.Failed() {
		return resp, errors.Wrapf(ErrServerRejected, "%s block %d", verb, req.BlockID)
	}
	return resp, nil
}

func (c *Client) device(ctx context.Context, flag uint8) error {
	_, err := c.Do(ctx, hddproto.Command{Op: c.profile.Device, Flag: flag}, nil, nil)
	return err
}

// Initialize connects if necessary and announces the client to the server.
func (c *Client) Initialize(ctx context.Context) error {
	return c.device(ctx, c.profile.FlagInit)
}

// Format asks the server to drop every block.
func (c *Client) Format(ctx context.Context) error {
	return c.device(ctx, c.profile.FlagFormat)
}

// SaveAndClose asks the server to persist its state and ends the session.
func (c *Client) SaveAndClose(ctx context.Context) error {
	return c.device(ctx, c.profile.FlagSaveAndClose)
}

func (c *Client) flag(t Target) uint8 {
	if t == Meta {
		return c.profile.FlagMetaBlock
	}
	return c.profile.FlagNone
}

// Create stores data in a new block and returns its id.
func (c *Client) Create(ctx context.Context, t Target, data []byte) (uint32, error) {
	req := hddproto.Command{
		Op:        c.profile.BlockCreate,
		Flag:      c.flag(t),
		BlockSize: uint32(len(data)),
	}
	resp, err := c.Do(ctx, req, data, nil)
	if err != nil {
		return 0, err
	}
	return resp.BlockID, nil
}

// Read fetches block id into buf. The response carries the number of bytes
// sent and the id the server actually read, which for the meta block may
// differ from id; id 0 lets the server resolve the meta block on its own.
func (c *Client) Read(ctx context.Context, t Target, id uint32, buf []byte) (hddproto.Command, error) {
	req := hddproto.Command{
		Op:        c.profile.BlockRead,
		Flag:      c.flag(t),
		BlockSize: uint32(len(buf)),
		BlockID:   id,
	}
	return c.Do(ctx, req, nil, buf)
}

// Overwrite replaces the contents of block id. data must be exactly the
// block's stored size.
func (c *Client) Overwrite(ctx context.Context, t Target, id uint32, data []byte) error {
	req := hddproto.Command{
		Op:        c.profile.BlockOverwrite,
		Flag:      c.flag(t),
		BlockSize: uint32(len(data)),
		BlockID:   id,
	}
	_, err := c.Do(ctx, req, data, nil)
	return err
}

// Delete frees block id.
func (c *Client) Delete(ctx context.Context, id uint32) error {
	req := hddproto.Command{
		Op:      c.profile.BlockDelete,
		Flag:    c.profile.FlagNone,
		BlockID: id,
	}
	_, err := c.Do(ctx, req, nil, nil)
	return err
}
