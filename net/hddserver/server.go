// Copyright 2026 The Fuchsia Authors. All rights reserved.
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

// Package hddserver implements an in-memory HDD block server. It answers
// every request with exactly one response word, keeps block ids stable across
// connections, and never truncates a stored payload.
package hddserver

import (
	"context"
	"errors"
	"io"
	"net"
	"sort"
	"sync"

	"github.com/kr/pretty"
	"go.uber.org/multierr"
	"golang.org/x/sync/errgroup"

	"github.com/CestLucas/HDD-simulation/logger"
	"github.com/CestLucas/HDD-simulation/net/hddproto"
)

// Options parametrize a Server.
type Options struct {
	// Profile is the protocol profile to speak. The zero value selects
	// hddproto.DefaultProfile.
	Profile hddproto.Profile

	// Reject, if set, is called for every request before it is applied. When
	// it returns true the request is answered with the result bit set and
	// the server state is left untouched.
	Reject func(hddproto.Command) bool
}

// Server holds blocks in memory. It may serve any number of connections; all
// of them share the same blocks.
type Server struct {
	opts Options

	mu     sync.Mutex
	blocks map[uint32][]byte
	nextID uint32
	metaID uint32
	saves  int
}

// New returns an empty server.
func New(opts Options) *Server {
	if opts.Profile == (hddproto.Profile{}) {
		opts.Profile = hddproto.DefaultProfile()
	}
	return &Server{
		opts:   opts,
		blocks: make(map[uint32][]byte),
		nextID: 1,
	}
}

// Serve accepts connections on l until ctx is done or accepting fails, then
// closes l and every open connection.
func (s *Server) Serve(ctx context.Context, l net.Listener) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	go func() {
		<-ctx.Done()
		l.Close()
	}()

	var eg errgroup.Group
	var acceptErr error
	for {
		conn, err := l.Accept()
		if err != nil {
			if ctx.Err() == nil {
				acceptErr = err
			}
			break
		}
		logger.Debugf(ctx, "accepted connection from %s", conn.RemoteAddr())
		eg.Go(func() error {
			return s.serveConn(ctx, conn)
		})
	}
	cancel()
	return multierr.Append(acceptErr, eg.Wait())
}

func (s *Server) serveConn(ctx context.Context, conn net.Conn) error {
	done := make(chan struct{})
	defer close(done)
	go func() {
		select {
		case <-ctx.Done():
		case <-done:
		}
		conn.Close()
	}()

	for {
		open, err := s.handle(ctx, conn)
		if err != nil {
			if !errors.Is(err, io.EOF) && ctx.Err() == nil {
				logger.Debugf(ctx, "connection from %s: %v", conn.RemoteAddr(), err)
			}
			return nil
		}
		if !open {
			logger.Debugf(ctx, "closing connection from %s after save", conn.RemoteAddr())
			return nil
		}
	}
}

// handle serves one request. It reports whether the connection stays open.
func (s *Server) handle(ctx context.Context, conn net.Conn) (bool, error) {
	var word [hddproto.WordSize]byte
	if _, err := io.ReadFull(conn, word[:]); err != nil {
		return false, err
	}
	req := hddproto.Decode(hddproto.ReadWord(word[:]))
	verb := s.opts.Profile.Classify(req)
	var payload []byte
	if verb.HasPayload() {
		payload = make([]byte, req.BlockSize)
		if _, err := io.ReadFull(conn, payload); err != nil {
			return false, err
		}
	}
	logger.Tracef(ctx, "%s request: %# v", verb, pretty.Formatter(req))

	resp, data := s.apply(req, verb, payload)
	logger.Tracef(ctx, "%s response: %# v", verb, pretty.Formatter(resp))
	if _, err := conn.Write(append(hddproto.Encode(resp).Bytes(), data...)); err != nil {
		return false, err
	}
	return verb != hddproto.VerbSaveAndClose, nil
}

// apply runs req against the block store and returns the response word and
// any payload that follows it.
func (s *Server) apply(req hddproto.Command, verb hddproto.Verb, payload []byte) (hddproto.Command, []byte) {
	resp := hddproto.Command{Op: req.Op, Flag: req.Flag, BlockID: req.BlockID}
	fail := func() (hddproto.Command, []byte) {
		resp.Result = 1
		resp.BlockSize = 0
		return resp, nil
	}
	if s.opts.Reject != nil && s.opts.Reject(req) {
		return fail()
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	meta := req.Flag == s.opts.Profile.FlagMetaBlock
	switch verb {
	case hddproto.VerbInit:
	case hddproto.VerbFormat:
		s.blocks = make(map[uint32][]byte)
		s.metaID = 0
	case hddproto.VerbSaveAndClose:
		s.saves++
	case hddproto.VerbCreate:
		id := s.nextID
		s.nextID++
		s.blocks[id] = payload
		if meta {
			s.metaID = id
		}
		resp.BlockID = id
		resp.BlockSize = uint32(len(payload))
	case hddproto.VerbRead:
		id := s.resolve(req.BlockID, meta)
		b, ok := s.blocks[id]
		if !ok {
			return fail()
		}
		if uint32(len(b)) > req.BlockSize {
			b = b[:req.BlockSize]
		}
		resp.BlockID = id
		resp.BlockSize = uint32(len(b))
		return resp, append([]byte(nil), b...)
	case hddproto.VerbOverwrite:
		id := s.resolve(req.BlockID, meta)
		b, ok := s.blocks[id]
		if !ok || len(b) != len(payload) {
			return fail()
		}
		copy(b, payload)
		resp.BlockID = id
		resp.BlockSize = uint32(len(payload))
	case hddproto.VerbDelete:
		if _, ok := s.blocks[req.BlockID]; !ok {
			return fail()
		}
		delete(s.blocks, req.BlockID)
		if req.BlockID == s.metaID {
			s.metaID = 0
		}
	default:
		return fail()
	}
	return resp, nil
}

// resolve maps a meta block request to the current meta block.
func (s *Server) resolve(id uint32, meta bool) uint32 {
	if meta && s.metaID != 0 {
		return s.metaID
	}
	return id
}

// Block returns a copy of block id.
func (s *Server) Block(id uint32) ([]byte, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	b, ok := s.blocks[id]
	if !ok {
		return nil, false
	}
	return append([]byte(nil), b...), true
}

// BlockIDs returns the ids of all stored blocks in ascending order.
func (s *Server) BlockIDs() []uint32 {
	s.mu.Lock()
	defer s.mu.Unlock()
	ids := make([]uint32, 0, len(s.blocks))
	for id := range s.blocks {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

// MetaID returns the id of the current meta block, or 0 if there is none.
func (s *Server) MetaID() uint32 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.metaID
}

// Saves returns the number of save-and-close requests served.
func (s *Server) Saves() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.saves
}
