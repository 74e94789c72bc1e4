// Copyright 2019 The Fuchsia Authors. All rights reserved.
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

// Package tarutil moves whole file contents in and out of tar archives.
package tarutil

import (
	"archive/tar"
	"io"
	"io/ioutil"

	"github.com/pkg/errors"
)

// TarBuffer writes the given bytes to a given path within an archive.
func TarBuffer(tw *tar.Writer, buf []byte, path string) error {
	hdr := &tar.Header{
		Name:     path,
		Size:     int64(len(buf)),
		Mode:     0666,
		Typeflag: tar.TypeReg,
	}
	if err := tw.WriteHeader(hdr); err != nil {
		return errors.Wrapf(err, "writing header for %s", path)
	}
	_, err := tw.Write(buf)
	return err
}

// Untar calls f with the name and contents of every regular file in the
// archive, in archive order. Entries larger than maxSize are rejected before
// they are read.
func Untar(r io.Reader, maxSize int64, f func(path string, data []byte) error) error {
	tr := tar.NewReader(r)
	for {
		hdr, err := tr.Next()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return errors.Wrap(err, "reading archive")
		}
		if hdr.Typeflag != tar.TypeReg {
			continue
		}
		if hdr.Size > maxSize {
			return errors.Errorf("%s is %d bytes, limit %d", hdr.Name, hdr.Size, maxSize)
		}
		data, err := ioutil.ReadAll(tr)
		if err != nil {
			return errors.Wrapf(err, "reading %s", hdr.Name)
		}
		if err := f(hdr.Name, data); err != nil {
			return err
		}
	}
}
