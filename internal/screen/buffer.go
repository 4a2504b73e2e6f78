// Package screen holds the live RGB desktop image the receive loop builds
// from server bitmap updates.
package screen

import (
	"sync"
	"time"
)

// Buffer is the session's shared desktop image: width x height x 3 bytes,
// always RGB, updated exclusively by the receive loop and read via
// copy-on-read Snapshot calls from any other goroutine.
type Buffer struct {
	mu sync.Mutex

	width, height int
	rgb           []byte
	version       uint64
	lastUpdated   time.Time
}

// NewBuffer allocates a black width x height RGB buffer.
func NewBuffer(width, height int) *Buffer {
	return &Buffer{
		width:  width,
		height: height,
		rgb:    make([]byte, width*height*3),
	}
}

// Snapshot returns a copy of the current buffer contents. Safe to call
// concurrently with the receive loop.
func (b *Buffer) Snapshot() (width, height int, version uint64, rgb []byte) {
	b.mu.Lock()
	defer b.mu.Unlock()

	rgb = make([]byte, len(b.rgb))
	copy(rgb, b.rgb)

	return b.width, b.height, b.version, rgb
}

// Version returns the current version without copying the pixel data.
func (b *Buffer) Version() uint64 {
	b.mu.Lock()
	defer b.mu.Unlock()

	return b.version
}

// ApplyRect blits an RGB rectangle at (destLeft, destTop). It clips silently
// to the buffer bounds since a server is free to send updates that
// momentarily disagree with the negotiated desktop size. Callers wanting
// the version bump for a whole record should call BumpVersion once after
// all rectangles in that record have been applied.
func (b *Buffer) ApplyRect(destLeft, destTop, width, height int, rgb []byte) {
	b.mu.Lock()
	defer b.mu.Unlock()

	for row := 0; row < height; row++ {
		y := destTop + row
		if y < 0 || y >= b.height {
			continue
		}

		for col := 0; col < width; col++ {
			x := destLeft + col
			if x < 0 || x >= b.width {
				continue
			}

			srcOff := (row*width + col) * 3
			if srcOff+3 > len(rgb) {
				return
			}

			dstOff := (y*b.width + x) * 3
			copy(b.rgb[dstOff:dstOff+3], rgb[srcOff:srcOff+3])
		}
	}
}

// BumpVersion increments the buffer version and refreshes LastUpdated. It
// must be called exactly once per applied fast-path or slow-path record,
// after every rectangle in that record has been applied (invariant P5).
func (b *Buffer) BumpVersion(now time.Time) uint64 {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.version++
	b.lastUpdated = now

	return b.version
}

// LastUpdated returns the wall-clock time of the most recent BumpVersion call.
func (b *Buffer) LastUpdated() time.Time {
	b.mu.Lock()
	defer b.mu.Unlock()

	return b.lastUpdated
}
