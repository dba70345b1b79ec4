package ratelimit

import (
	"context"

	"github.com/sdejongh/dircompare/pkg/storage"
)

// File throttles reads of an open storage file through a shared Limiter
type File struct {
	file    storage.File
	limiter *Limiter
	ctx     context.Context
}

// NewFile wraps f. A nil limiter returns f unchanged.
func NewFile(ctx context.Context, f storage.File, limiter *Limiter) storage.File {
	if limiter == nil {
		return f
	}
	return &File{file: f, limiter: limiter, ctx: ctx}
}

// Read implements io.Reader, reading at most one bucket per call
func (f *File) Read(p []byte) (int, error) {
	if len(p) == 0 {
		return f.file.Read(p)
	}
	p = p[:f.limiter.chunk(len(p))]

	if err := f.limiter.reserve(f.ctx, int64(len(p))); err != nil {
		return 0, err
	}
	n, err := f.file.Read(p)
	f.limiter.release(int64(len(p) - n))
	return n, err
}

// ReadAt implements io.ReaderAt. Large requests are split into bucket
// sized reads so the contract of filling p is kept.
func (f *File) ReadAt(p []byte, off int64) (int, error) {
	total := 0
	for total < len(p) {
		chunk := p[total : total+f.limiter.chunk(len(p)-total)]

		if err := f.limiter.reserve(f.ctx, int64(len(chunk))); err != nil {
			return total, err
		}
		n, err := f.file.ReadAt(chunk, off+int64(total))
		f.limiter.release(int64(len(chunk) - n))
		total += n
		if err != nil {
			return total, err
		}
	}
	return total, nil
}

// Close closes the underlying file
func (f *File) Close() error {
	return f.file.Close()
}

// Backend is a storage.Backend whose file reads are throttled.
// Listings and metadata lookups pass through untouched.
type Backend struct {
	storage.Backend
	limiter *Limiter
}

// WrapBackend throttles reads of b. A nil limiter returns b unchanged.
func WrapBackend(b storage.Backend, limiter *Limiter) storage.Backend {
	if limiter == nil {
		return b
	}
	return &Backend{Backend: b, limiter: limiter}
}

// Read opens a throttled file
func (b *Backend) Read(ctx context.Context, path string) (storage.File, error) {
	f, err := b.Backend.Read(ctx, path)
	if err != nil {
		return nil, err
	}
	return NewFile(ctx, f, b.limiter), nil
}
