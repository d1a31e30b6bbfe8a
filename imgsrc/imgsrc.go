// Copyright 2025 Vadim Vygonets.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package imgsrc resolves overlay image URIs to decoded images.
//
// A Loader does the resolving.  Start runs a Loader in the background
// and returns a Pending, which a renderer may keep across renders of
// the same URI and Wait on when it needs the pixels.
package imgsrc // import "github.com/unixdj/qrimage/imgsrc"

import (
	"bytes"
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"image"
	"net/url"
	"path/filepath"
	"strings"

	"github.com/disintegration/imaging"
)

var (
	ErrScheme  = errors.New("imgsrc: unsupported URI scheme")
	ErrDataURI = errors.New("imgsrc: malformed data URI")
)

// A Loader loads the image at a URI.
type Loader interface {
	Load(ctx context.Context, uri string) (image.Image, error)
}

// A LoaderFunc is a function used as a Loader.
type LoaderFunc func(ctx context.Context, uri string) (image.Image, error)

// Load calls f.
func (f LoaderFunc) Load(ctx context.Context, uri string) (image.Image, error) {
	return f(ctx, uri)
}

// Files loads images from the local file system and from base64
// data: URIs.  URIs are file paths, relative to Dir if not absolute,
// or file: URLs.
type Files struct {
	Dir string

	// AutoOrient applies the EXIF orientation of JPEG files.
	AutoOrient bool
}

// Load implements Loader.
func (f Files) Load(ctx context.Context, uri string) (image.Image, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if strings.HasPrefix(uri, "data:") {
		return decodeData(uri[len("data:"):])
	}
	path := uri
	if u, err := url.Parse(uri); err == nil && len(u.Scheme) > 1 {
		if u.Scheme != "file" {
			return nil, fmt.Errorf("%w %q", ErrScheme, u.Scheme)
		}
		path = u.Path
	}
	if f.Dir != "" && !filepath.IsAbs(path) {
		path = filepath.Join(f.Dir, path)
	}
	img, err := imaging.Open(path, imaging.AutoOrientation(f.AutoOrient))
	if err != nil {
		return nil, fmt.Errorf("imgsrc: %w", err)
	}
	return img, nil
}

// decodeData decodes the part of a data: URI after the scheme.
// Only base64 payloads are accepted.
func decodeData(s string) (image.Image, error) {
	meta, payload, ok := strings.Cut(s, ",")
	if !ok || !strings.HasSuffix(meta, ";base64") {
		return nil, ErrDataURI
	}
	b, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDataURI, err)
	}
	img, err := imaging.Decode(bytes.NewReader(b))
	if err != nil {
		return nil, fmt.Errorf("imgsrc: %w", err)
	}
	return img, nil
}
