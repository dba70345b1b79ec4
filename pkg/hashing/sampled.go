// Package hashing computes content digests for compared files: a
// fixed-cost sampled fingerprint and streamed full-content hashes.
package hashing

import (
	"context"
	"crypto/sha256"
	"encoding/binary"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/sdejongh/dircompare/pkg/storage"
)

const (
	// SampleSize is the length of each sampled window. It is prime so
	// windows do not line up with filesystem block sizes.
	SampleSize = 431
	// SampleCount is the number of windows read from large files
	SampleCount = 7

	// smallFileLimit is the size below which the whole file is hashed
	smallFileLimit = SampleCount * SampleSize
)

// sentinelPrefix can never start a hex digest
const sentinelPrefix = "error:"

// Sentinel returns the digest of an unreadable file identified by key.
// It is not hex so it never equals a valid digest. Callers pass a key
// unique to the file within one comparison, so two unreadable files never
// match and repeated runs yield the same digest.
func Sentinel(key string) string {
	return sentinelPrefix + key
}

// IsSentinel reports whether digest was produced by Sentinel
func IsSentinel(digest string) bool {
	return strings.HasPrefix(digest, sentinelPrefix)
}

// SampleOffsets returns the window start offsets for a file of the given
// size, in the order they are hashed. It returns nil for files hashed whole.
func SampleOffsets(size int64) []int64 {
	if size < smallFileLimit {
		return nil
	}

	offsets := make([]int64, 0, SampleCount)
	offsets = append(offsets, 0)

	lastStart := size - 2*SampleSize
	step := lastStart / (SampleCount - 1)
	for i := int64(1); i <= SampleCount-2; i++ {
		offsets = append(offsets, min(SampleSize+i*step, lastStart))
	}

	return append(offsets, size-SampleSize)
}

// Sampled computes the sampled hash of a file: SHA-256 over the size as
// 8 big-endian bytes followed by either the whole content (small files)
// or SampleCount windows of SampleSize bytes.
func Sampled(ctx context.Context, backend storage.Backend, path string) (string, error) {
	f, err := backend.Read(ctx, path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	info, err := backend.Stat(ctx, path)
	if err != nil {
		return "", err
	}

	return sampledDigest(ctx, f, info.Size)
}

// SampledFile computes the sampled hash of a file on the local
// filesystem. Unreadable files yield a sentinel digest.
func SampledFile(path string) string {
	digest, err := sampledFile(path)
	if err != nil {
		if abs, absErr := filepath.Abs(path); absErr == nil {
			path = abs
		}
		return Sentinel(path)
	}
	return digest
}

func sampledFile(path string) (string, error) {
	f, err := os.Open(filepath.Clean(path))
	if err != nil {
		return "", err
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return "", err
	}

	return sampledDigest(context.Background(), f, info.Size())
}

func sampledDigest(ctx context.Context, f storage.File, size int64) (string, error) {
	hasher := sha256.New()

	var prefix [8]byte
	binary.BigEndian.PutUint64(prefix[:], uint64(size))
	hasher.Write(prefix[:])

	offsets := SampleOffsets(size)
	if offsets == nil {
		if _, err := io.Copy(hasher, f); err != nil {
			return "", fmt.Errorf("failed to read file: %w", err)
		}
		return fmt.Sprintf("%x", hasher.Sum(nil)), nil
	}

	window := make([]byte, SampleSize)
	for _, off := range offsets {
		select {
		case <-ctx.Done():
			return "", ctx.Err()
		default:
		}

		n, err := f.ReadAt(window, off)
		if n < SampleSize {
			if err == nil {
				err = io.ErrUnexpectedEOF
			}
			return "", fmt.Errorf("failed to read window at %d: %w", off, err)
		}
		hasher.Write(window)
	}

	return fmt.Sprintf("%x", hasher.Sum(nil)), nil
}
