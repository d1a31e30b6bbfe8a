// Copyright 2025 Vadim Vygonets.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package imgsrc

import (
	"context"
	"image"
	"sync"
)

// State is the state of a Pending load.
type State int

const (
	Loading State = iota
	Resolved
	Failed
)

func (s State) String() string {
	switch s {
	case Loading:
		return "loading"
	case Resolved:
		return "resolved"
	case Failed:
		return "failed"
	}
	return "State(?)"
}

// A Pending is an image load in progress or finished.
// Its methods may be called concurrently.
type Pending struct {
	uri  string
	done chan struct{}

	mu    sync.Mutex
	state State
	img   image.Image
	err   error
}

// Start loads uri with l in a new goroutine.  Cancelling ctx
// abandons the load if l honours it.
func Start(ctx context.Context, l Loader, uri string) *Pending {
	p := &Pending{uri: uri, done: make(chan struct{})}
	go func() {
		img, err := l.Load(ctx, uri)
		p.mu.Lock()
		p.img, p.err = img, err
		if err != nil {
			p.state = Failed
		} else {
			p.state = Resolved
		}
		p.mu.Unlock()
		close(p.done)
	}()
	return p
}

// Resolve returns a Pending already resolved to img.
func Resolve(uri string, img image.Image) *Pending {
	p := &Pending{uri: uri, done: make(chan struct{}), state: Resolved, img: img}
	close(p.done)
	return p
}

// URI returns the URI being loaded.
func (p *Pending) URI() string { return p.uri }

// State returns the current state of the load.
func (p *Pending) State() State {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.state
}

// Wait blocks until the load finishes or ctx is done, and returns the
// image or the error.  A done ctx leaves the load running.
func (p *Pending) Wait(ctx context.Context) (image.Image, error) {
	select {
	case <-p.done:
	case <-ctx.Done():
		return nil, ctx.Err()
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.img, p.err
}
