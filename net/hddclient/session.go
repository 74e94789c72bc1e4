// Copyright 2026 The Fuchsia Authors. All rights reserved.
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

package hddclient

import (
	"context"
	"errors"
	"net"
	"time"

	"go.uber.org/multierr"

	"github.com/CestLucas/HDD-simulation/logger"
)

// Session owns the single stream connection to the server. It starts
// disconnected, is connected by EnsureConnected, and returns to disconnected
// on Close or on any transport failure.
//
// A Session is not safe for concurrent use; the protocol allows one request
// in flight.
type Session struct {
	addr           string
	connectTimeout time.Duration
	ioTimeout      time.Duration
	conn           net.Conn
}

// NewSession returns a disconnected session for addr. A zero ioTimeout leaves
// socket operations bounded only by the caller's context.
func NewSession(addr string, connectTimeout, ioTimeout time.Duration) *Session {
	return &Session{
		addr:           addr,
		connectTimeout: connectTimeout,
		ioTimeout:      ioTimeout,
	}
}

// Addr returns the server address.
func (s *Session) Addr() string { return s.addr }

// Connected reports whether the session holds an open connection.
func (s *Session) Connected() bool { return s.conn != nil }

// EnsureConnected dials the server if the session is disconnected. On failure
// the session stays disconnected.
func (s *Session) EnsureConnected(ctx context.Context) error {
	if s.conn != nil {
		return nil
	}
	d := net.Dialer{
		Timeout: s.connectTimeout,
		Control: socketControl(s.ioTimeout),
	}
	conn, err := d.DialContext(ctx, "tcp", s.addr)
	if err != nil {
		return s.classify(ctx, "connect "+s.addr, err)
	}
	s.conn = conn
	logger.Debugf(ctx, "connected to %s", s.addr)
	return nil
}

// SendExact writes all of b. A failed or zero-length write aborts the
// transfer and closes the session.
func (s *Session) SendExact(ctx context.Context, b []byte) error {
	if s.conn == nil {
		return &transportError{kind: ErrConnection, op: "send", err: errNotConnected}
	}
	disarm, err := s.arm(ctx)
	if err != nil {
		return s.fail(ctx, "send", err)
	}
	defer disarm()
	for sent := 0; sent < len(b); {
		n, err := s.conn.Write(b[sent:])
		if err != nil {
			return s.fail(ctx, "send", err)
		}
		if n <= 0 {
			return s.fail(ctx, "send", errNoProgress)
		}
		sent += n
	}
	return nil
}

// RecvExact fills b. A failed or zero-length read before b is full aborts
// the transfer and closes the session.
func (s *Session) RecvExact(ctx context.Context, b []byte) error {
	if s.conn == nil {
		return &transportError{kind: ErrConnection, op: "receive", err: errNotConnected}
	}
	disarm, err := s.arm(ctx)
	if err != nil {
		return s.fail(ctx, "receive", err)
	}
	defer disarm()
	for got := 0; got < len(b); {
		n, err := s.conn.Read(b[got:])
		got += n
		if got == len(b) {
			break
		}
		if err != nil {
			return s.fail(ctx, "receive", err)
		}
		if n <= 0 {
			return s.fail(ctx, "receive", errNoProgress)
		}
	}
	return nil
}

// Close closes the connection, if any. The session can be reconnected with
// EnsureConnected.
func (s *Session) Close() error {
	if s.conn == nil {
		return nil
	}
	err := s.conn.Close()
	s.conn = nil
	return err
}

var (
	errNotConnected = errors.New("session is not connected")
	errNoProgress   = errors.New("no bytes transferred")
)

// arm bounds the next socket operations by the earlier of the io timeout and
// the context deadline, and interrupts them if the context is canceled.
func (s *Session) arm(ctx context.Context) (func(), error) {
	var deadline time.Time
	if s.ioTimeout > 0 {
		deadline = time.Now().Add(s.ioTimeout)
	}
	if d, ok := ctx.Deadline(); ok && (deadline.IsZero() || d.Before(deadline)) {
		deadline = d
	}
	conn := s.conn
	if err := conn.SetDeadline(deadline); err != nil {
		return nil, err
	}
	if ctx.Done() == nil {
		return func() {}, nil
	}
	stop := make(chan struct{})
	done := make(chan struct{})
	go func() {
		defer close(done)
		select {
		case <-ctx.Done():
			conn.SetDeadline(time.Unix(1, 0))
		case <-stop:
		}
	}()
	return func() {
		close(stop)
		<-done
	}, nil
}

func (s *Session) fail(ctx context.Context, op string, err error) error {
	err = s.classify(ctx, op, err)
	if cerr := s.Close(); cerr != nil {
		err = multierr.Append(err, cerr)
	}
	logger.Debugf(ctx, "closed connection to %s: %v", s.addr, err)
	return err
}

func (s *Session) classify(ctx context.Context, op string, err error) error {
	if ctx.Err() == context.Canceled {
		return &transportError{kind: ErrConnection, op: op, err: ctx.Err()}
	}
	var ne net.Error
	timeout := errors.As(err, &ne) && ne.Timeout()
	// The socket deadline may fire before the context records its own.
	if d, ok := ctx.Deadline(); ctx.Err() != nil || (timeout && ok && !time.Now().Before(d)) {
		return &transportError{kind: ErrTimeout, op: op, err: context.DeadlineExceeded}
	}
	if timeout {
		return &transportError{kind: ErrTimeout, op: op, err: err}
	}
	return &transportError{kind: ErrConnection, op: op, err: err}
}
