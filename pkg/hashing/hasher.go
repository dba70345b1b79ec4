package hashing

import (
	"context"
	"crypto/sha256"
	"fmt"
	"hash"
	"io"
	"strings"
	"sync"

	"github.com/cespare/xxhash/v2"
	"github.com/zeebo/blake3"

	"github.com/sdejongh/dircompare/pkg/storage"
)

// Algorithm names a full-content hash function
type Algorithm string

const (
	// XXHash is the fast non-cryptographic hash (64-bit)
	XXHash Algorithm = "xxhash"
	// SHA256 is the cryptographic hash used for verification
	SHA256 Algorithm = "sha256"
	// BLAKE3 is a fast cryptographic alternative to SHA-256
	BLAKE3 Algorithm = "blake3"
)

// DefaultBufferSize is the read buffer used when none is configured
const DefaultBufferSize = 8192

// ParseAlgorithm resolves an algorithm name
func ParseAlgorithm(s string) (Algorithm, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "xxhash", "xxh64", "fast":
		return XXHash, nil
	case "sha256", "sha-256":
		return SHA256, nil
	case "blake3":
		return BLAKE3, nil
	default:
		return "", fmt.Errorf("unknown hash algorithm %q (valid: xxhash, sha256, blake3)", s)
	}
}

// New returns a fresh hash.Hash for the algorithm
func (a Algorithm) New() hash.Hash {
	switch a {
	case XXHash:
		return xxhash.New()
	case BLAKE3:
		return blake3.New()
	default:
		return sha256.New()
	}
}

// Hasher streams whole files through one algorithm
type Hasher struct {
	algorithm  Algorithm
	bufferSize int
	bufferPool *sync.Pool
}

// NewHasher creates a full-content hasher
func NewHasher(algorithm Algorithm, bufferSize int) *Hasher {
	if bufferSize < 4096 {
		bufferSize = DefaultBufferSize
	}
	return &Hasher{
		algorithm:  algorithm,
		bufferSize: bufferSize,
		bufferPool: &sync.Pool{
			New: func() interface{} {
				buf := make([]byte, bufferSize)
				return &buf
			},
		},
	}
}

// Algorithm returns the hash algorithm in use
func (h *Hasher) Algorithm() Algorithm {
	return h.algorithm
}

// Sum computes the lowercase hex digest of a file's full content
func (h *Hasher) Sum(ctx context.Context, backend storage.Backend, path string) (string, error) {
	reader, err := backend.Read(ctx, path)
	if err != nil {
		return "", err
	}
	defer reader.Close()

	hasher := h.algorithm.New()

	// Get buffer from pool
	bufPtr := h.bufferPool.Get().(*[]byte)
	buffer := *bufPtr
	defer h.bufferPool.Put(bufPtr)

	for {
		// Check context cancellation
		select {
		case <-ctx.Done():
			return "", ctx.Err()
		default:
		}

		n, err := reader.Read(buffer)
		if n > 0 {
			hasher.Write(buffer[:n])
		}
		if err == io.EOF {
			break
		}
		if err != nil {
			return "", fmt.Errorf("failed to read file: %w", err)
		}
	}

	return fmt.Sprintf("%x", hasher.Sum(nil)), nil
}
