// Copyright 2026 The Fuchsia Authors. All rights reserved.
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

// Package hddfs presents a small set of named files on top of an HDD block
// server. Each file lives in exactly one block; a write that outgrows the
// block moves the file to a larger one. The file table itself is stored in a
// reserved meta block.
package hddfs

import (
	"context"
	"sync"

	"github.com/pkg/errors"

	"github.com/CestLucas/HDD-simulation/logger"
	"github.com/CestLucas/HDD-simulation/net/hddclient"
	"github.com/CestLucas/HDD-simulation/net/hddproto"
)

// BlockClient is the block interface the file layer needs. *hddclient.Client
// implements it.
type BlockClient interface {
	Connected() bool
	Close() error
	Initialize(ctx context.Context) error
	Format(ctx context.Context) error
	SaveAndClose(ctx context.Context) error
	Create(ctx context.Context, t hddclient.Target, data []byte) (uint32, error)
	Read(ctx context.Context, t hddclient.Target, id uint32, buf []byte) (hddproto.Command, error)
	Overwrite(ctx context.Context, t hddclient.Target, id uint32, data []byte) error
	Delete(ctx context.Context, id uint32) error
}

// Handle identifies an entry of the file table. Valid handles are in
// [1, Options.MaxFiles).
type Handle int

// FileInfo describes one entry of the file table.
type FileInfo struct {
	Handle   Handle
	Name     string
	BlockID  uint32
	Size     uint32
	Position uint32
	Open     bool
}

// FS is the file layer. It is safe for concurrent use; requests to the
// server are still issued one at a time.
type FS struct {
	client BlockClient
	opts   Options

	mu          sync.Mutex
	initialized bool
	stale       bool // the table may differ from the one on the device
	records     []*record
	names       map[string]Handle
	metaID      uint32
	orphans     []uint32
}

// New returns a file layer over c. The device is not contacted until Format,
// Mount, Read or Write.
func New(c BlockClient, opts Options) (*FS, error) {
	opts = opts.withDefaults()
	if err := opts.validate(); err != nil {
		return nil, err
	}
	f := &FS{client: c, opts: opts}
	f.reset()
	return f, nil
}

// Options returns the table dimensions in use.
func (f *FS) Options() Options { return f.opts }

func (f *FS) reset() {
	f.records = make([]*record, f.opts.MaxFiles)
	f.names = make(map[string]Handle)
}

// initialize announces the client to the server if that has not happened
// yet, or if the connection has since been lost.
func (f *FS) initialize(ctx context.Context) error {
	if f.initialized && f.client.Connected() {
		return nil
	}
	if err := f.client.Initialize(ctx); err != nil {
		return errors.Wrap(err, "initializing device")
	}
	f.initialized = true
	logger.Infof(ctx, "device initialized")
	return nil
}

// Format wipes the device and stores an empty file table.
func (f *FS) Format(ctx context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.initialize(ctx); err != nil {
		return err
	}
	if err := f.client.Format(ctx); err != nil {
		return errors.Wrap(err, "formatting device")
	}
	f.reset()
	f.stale = false
	image := encodeTable(f.records, f.opts)
	id, err := f.client.Create(ctx, hddclient.Meta, image)
	if err != nil {
		return errors.Wrap(err, "creating meta block")
	}
	f.setMeta(id, len(image))
	logger.Infof(ctx, "formatted device, meta block %d", id)
	return nil
}

// Mount loads the file table from the meta block.
func (f *FS) Mount(ctx context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.initialize(ctx); err != nil {
		return err
	}
	resp, records, err := f.loadTable(ctx)
	if err != nil {
		f.initialized = false
		f.stale = true
		return err
	}
	f.stale = false
	f.records = records
	f.names = make(map[string]Handle)
	for i, r := range records {
		if r != nil {
			f.names[r.name] = Handle(i)
		}
	}
	f.setMeta(resp.BlockID, f.opts.ImageSize())
	logger.Infof(ctx, "mounted %d files from meta block %d", len(f.names), resp.BlockID)
	return nil
}

func (f *FS) loadTable(ctx context.Context) (hddproto.Command, []*record, error) {
	image := make([]byte, f.opts.ImageSize())
	resp, err := f.client.Read(ctx, hddclient.Meta, f.metaID, image)
	if err != nil {
		return resp, nil, errors.Wrap(err, "reading meta block")
	}
	if int(resp.BlockSize) != len(image) {
		return resp, nil, errors.Wrapf(ErrProtocol, "meta block is %d bytes, want %d", resp.BlockSize, len(image))
	}
	records, err := decodeTable(image, f.opts)
	if err != nil {
		return resp, nil, err
	}
	return resp, records, nil
}

func (f *FS) setMeta(id uint32, size int) {
	f.metaID = id
	f.records[0] = &record{
		name:    MetaBlockName,
		blockID: id,
		size:    uint32(size),
		open:    true,
	}
}

// Unmount writes the file table back to the meta block and asks the server
// to save and close.
func (f *FS) Unmount(ctx context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if !f.initialized || f.stale {
		return ErrNotMounted
	}
	image := encodeTable(f.records, f.opts)
	if err := f.client.Overwrite(ctx, hddclient.Meta, f.metaID, image); err != nil {
		return errors.Wrap(err, "saving file table")
	}
	if err := f.client.SaveAndClose(ctx); err != nil {
		return errors.Wrap(err, "closing device")
	}
	f.initialized = false
	logger.Infof(ctx, "unmounted")
	return nil
}

// Open returns the handle of the named file, creating an empty entry if
// there is none. Opening a closed file rewinds it; opening an open file
// returns its handle unchanged.
func (f *FS) Open(name string) (Handle, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if !f.initialized {
		return 0, ErrNotMounted
	}
	if err := f.checkName(name); err != nil {
		return 0, err
	}
	if h, ok := f.names[name]; ok {
		r := f.records[h]
		if !r.open {
			r.open = true
			r.position = 0
		}
		return h, nil
	}
	for i := 1; i < len(f.records); i++ {
		if f.records[i] == nil {
			f.records[i] = &record{name: name, open: true}
			f.names[name] = Handle(i)
			return Handle(i), nil
		}
	}
	return 0, errors.Wrapf(ErrCapacityExceeded, "no free slot for %q", name)
}

func (f *FS) checkName(name string) error {
	switch {
	case name == "":
		return errors.Wrap(ErrInvalidArgument, "empty name")
	case len(name) > f.opts.MaxNameLength:
		return errors.Wrapf(ErrInvalidArgument, "name is %d bytes, limit %d", len(name), f.opts.MaxNameLength)
	case name == MetaBlockName:
		return errors.Wrapf(ErrInvalidArgument, "%q is reserved", name)
	}
	for i := 0; i < len(name); i++ {
		if name[i] == 0 {
			return errors.Wrap(ErrInvalidArgument, "name contains NUL")
		}
	}
	return nil
}

// Close closes an open file and rewinds it.
func (f *FS) Close(h Handle) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if !f.initialized {
		return ErrNotMounted
	}
	r, err := f.lookup(h)
	if err != nil {
		return err
	}
	r.open = false
	r.position = 0
	return nil
}

// lookup returns the open record for h.
func (f *FS) lookup(h Handle) (*record, error) {
	if h < 1 || int(h) >= len(f.records) {
		return nil, errors.Wrapf(ErrInvalidHandle, "handle %d", h)
	}
	r := f.records[h]
	if r == nil || !r.open {
		return nil, errors.Wrapf(ErrNotOpen, "handle %d", h)
	}
	return r, nil
}

// Read copies up to len(p) bytes from the current position and advances it.
// It returns the number of bytes copied, which is short at the end of the
// file and 0 once the position reaches the size.
func (f *FS) Read(ctx context.Context, h Handle, p []byte) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.initialize(ctx); err != nil {
		return 0, err
	}
	r, err := f.lookup(h)
	if err != nil {
		return 0, err
	}
	if len(p) > f.opts.MaxBlockSize {
		return 0, errors.Wrapf(ErrInvalidArgument, "read of %d bytes exceeds %d", len(p), f.opts.MaxBlockSize)
	}
	n := len(p)
	if rest := int(r.size - r.position); rest < n {
		n = rest
	}
	if n == 0 {
		return 0, nil
	}
	buf, err := f.fetch(ctx, r)
	if err != nil {
		return 0, err
	}
	copy(p, buf[r.position:int(r.position)+n])
	r.position += uint32(n)
	return n, nil
}

// fetch reads the whole block of r.
func (f *FS) fetch(ctx context.Context, r *record) ([]byte, error) {
	buf := make([]byte, r.size)
	resp, err := f.client.Read(ctx, hddclient.Data, r.blockID, buf)
	if err != nil {
		return nil, errors.Wrapf(err, "reading %q", r.name)
	}
	if resp.BlockSize != r.size {
		return nil, errors.Wrapf(ErrProtocol, "block %d of %q is %d bytes, want %d", r.blockID, r.name, resp.BlockSize, r.size)
	}
	return buf, nil
}

// Write stores p at the current position and advances it. Writing past the
// end of the file grows it: the contents move to a new block sized to the
// end of the write and the old block is deleted. It returns len(p) on
// success.
func (f *FS) Write(ctx context.Context, h Handle, p []byte) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.initialize(ctx); err != nil {
		return 0, err
	}
	r, err := f.lookup(h)
	if err != nil {
		return 0, err
	}
	end := uint64(r.position) + uint64(len(p))
	if end > uint64(f.opts.MaxBlockSize) {
		return 0, errors.Wrapf(ErrCapacityExceeded, "write to %d exceeds %d", end, f.opts.MaxBlockSize)
	}
	if len(p) == 0 {
		return 0, nil
	}

	switch {
	case r.blockID == 0:
		id, err := f.client.Create(ctx, hddclient.Data, p)
		if err != nil {
			return 0, errors.Wrapf(err, "creating block for %q", r.name)
		}
		r.blockID = id
		r.size = uint32(len(p))
		r.position = r.size
	case end < uint64(r.size):
		buf, err := f.fetch(ctx, r)
		if err != nil {
			return 0, err
		}
		copy(buf[r.position:], p)
		if err := f.client.Overwrite(ctx, hddclient.Data, r.blockID, buf); err != nil {
			return 0, errors.Wrapf(err, "overwriting block %d of %q", r.blockID, r.name)
		}
		r.position = uint32(end)
	default:
		if err := f.grow(ctx, r, p, int(end)); err != nil {
			return 0, err
		}
	}
	return len(p), nil
}

// grow moves r to a new block of the given size holding its old contents with
// p spliced in at the current position. The record changes only once the old
// block is gone.
func (f *FS) grow(ctx context.Context, r *record, p []byte, size int) error {
	old, err := f.fetch(ctx, r)
	if err != nil {
		return err
	}
	buf := make([]byte, size)
	copy(buf, old)
	copy(buf[r.position:], p)
	id, err := f.client.Create(ctx, hddclient.Data, buf)
	if err != nil {
		return errors.Wrapf(err, "creating %d byte block for %q", size, r.name)
	}
	if err := f.client.Delete(ctx, r.blockID); err != nil {
		f.orphans = append(f.orphans, id)
		logger.Warningf(ctx, "orphaned block %d while growing %q: %v", id, r.name, err)
		return errors.Wrapf(ErrOrphanedBlock, "block %d: deleting block %d of %q: %v", id, r.blockID, r.name, err)
	}
	logger.Debugf(ctx, "moved %q from block %d (%d bytes) to block %d (%d bytes)", r.name, r.blockID, r.size, id, size)
	r.blockID = id
	r.size = uint32(size)
	r.position = uint32(size)
	return nil
}

// Seek sets the position of an open file. The location must be within
// [0, size].
func (f *FS) Seek(h Handle, loc int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if !f.initialized {
		return ErrNotMounted
	}
	r, err := f.lookup(h)
	if err != nil {
		return err
	}
	if loc < 0 || loc > int64(r.size) {
		return errors.Wrapf(ErrInvalidArgument, "seek to %d outside [0, %d]", loc, r.size)
	}
	r.position = uint32(loc)
	return nil
}

// Stat describes the file at h, open or not.
func (f *FS) Stat(h Handle) (FileInfo, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if h < 1 || int(h) >= len(f.records) {
		return FileInfo{}, errors.Wrapf(ErrInvalidHandle, "handle %d", h)
	}
	r := f.records[h]
	if r == nil {
		return FileInfo{}, errors.Wrapf(ErrInvalidHandle, "handle %d is free", h)
	}
	return r.info(h), nil
}

// List describes every file in the table in handle order. The meta block is
// not included.
func (f *FS) List() []FileInfo {
	f.mu.Lock()
	defer f.mu.Unlock()
	var infos []FileInfo
	for i := 1; i < len(f.records); i++ {
		if r := f.records[i]; r != nil {
			infos = append(infos, r.info(Handle(i)))
		}
	}
	return infos
}

// Orphans returns the blocks leaked by failed growth in this process.
func (f *FS) Orphans() []uint32 {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]uint32(nil), f.orphans...)
}

func (r *record) info(h Handle) FileInfo {
	return FileInfo{
		Handle:   h,
		Name:     r.name,
		BlockID:  r.blockID,
		Size:     r.size,
		Position: r.position,
		Open:     r.open,
	}
}
