package compare

import (
	"context"
	"os"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sdejongh/dircompare/pkg/hashing"
	"github.com/sdejongh/dircompare/pkg/models"
	"github.com/sdejongh/dircompare/pkg/storage"
)

// lockedBackend lists files normally but refuses to open the locked ones.
// A nil locked set refuses every file.
type lockedBackend struct {
	storage.Backend
	locked map[string]bool
}

func (b lockedBackend) Read(ctx context.Context, path string) (storage.File, error) {
	if b.locked == nil || b.locked[path] {
		return nil, &os.PathError{Op: "open", Path: path, Err: os.ErrPermission}
	}
	return b.Backend.Read(ctx, path)
}

func findGroup(t *testing.T, result *models.FlatComparisonResult, member string) models.ContentGroup {
	t.Helper()
	for _, g := range result.Groups {
		for _, f := range append(append([]string{}, g.FilesInA...), g.FilesInB...) {
			if f == member {
				return g
			}
		}
	}
	t.Fatalf("no group contains %s", member)
	return models.ContentGroup{}
}

func TestCompareFlatMovedFile(t *testing.T) {
	a := memTree(t, map[string]string{"documents/report.txt": "quarterly numbers"})
	b := memTree(t, map[string]string{"archive/report.txt": "quarterly numbers"})

	result, err := CompareFlat(context.Background(), a, b, FlatOptions{})
	require.NoError(t, err)

	require.Len(t, result.Groups, 1)
	g := result.Groups[0]
	assert.Equal(t, []string{"documents/report.txt"}, g.FilesInA)
	assert.Equal(t, []string{"archive/report.txt"}, g.FilesInB)
	assert.Equal(t, models.StatusMoved, g.Status())
	assert.Equal(t, int64(len("quarterly numbers")), g.Size)
	assert.Equal(t, 1, result.TotalFilesA)
	assert.Equal(t, 1, result.TotalFilesB)
	assert.Equal(t, 1, result.UniqueHashes)
	assert.Equal(t, 1, result.DuplicateCount)
}

func TestCompareFlatDuplicates(t *testing.T) {
	a := memTree(t, map[string]string{
		"one.txt":    "dup",
		"nested/two": "dup",
		"unique_a":   "only in a",
		"copies/x":   "dup",
	})
	b := memTree(t, map[string]string{
		"three.txt": "dup",
		"unique_b":  "only in b",
	})

	result, err := CompareFlat(context.Background(), a, b, FlatOptions{})
	require.NoError(t, err)

	dup := findGroup(t, result, "one.txt")
	assert.Equal(t, []string{"copies/x", "nested/two", "one.txt"}, dup.FilesInA)
	assert.Equal(t, []string{"three.txt"}, dup.FilesInB)
	assert.Equal(t, 4, dup.FileCount())
	assert.Equal(t, models.StatusDuplicate, dup.Status())

	assert.Equal(t, models.StatusAOnly, findGroup(t, result, "unique_a").Status())
	assert.Equal(t, models.StatusBOnly, findGroup(t, result, "unique_b").Status())

	assert.Equal(t, 4, result.TotalFilesA)
	assert.Equal(t, 2, result.TotalFilesB)
	assert.Equal(t, 3, result.UniqueHashes)
	assert.Equal(t, 1, result.DuplicateCount)
}

func TestCompareFlatTwoCopiesInAOneInB(t *testing.T) {
	a := memTree(t, map[string]string{"first.txt": "shared", "second.txt": "shared"})
	b := memTree(t, map[string]string{"third.txt": "shared"})

	result, err := CompareFlat(context.Background(), a, b, FlatOptions{})
	require.NoError(t, err)

	require.Len(t, result.Groups, 1)
	g := result.Groups[0]
	assert.Equal(t, []string{"first.txt", "second.txt"}, g.FilesInA)
	assert.Equal(t, []string{"third.txt"}, g.FilesInB)
	assert.Equal(t, 3, g.FileCount())
	assert.True(t, g.IsDuplicate())
	assert.False(t, g.IsMoved())
	assert.Equal(t, models.StatusDuplicate, g.Status())
	assert.Equal(t, 1, result.UniqueHashes)
	assert.Equal(t, 1, result.DuplicateCount)
}

func TestCompareFlatUnreadableFiles(t *testing.T) {
	// Identical content, so only the read failure keeps them apart
	a := lockedBackend{Backend: memTree(t, map[string]string{"x": "same", "y": "same", "z": "same"})}
	b := lockedBackend{
		Backend: memTree(t, map[string]string{"x": "same", "w": "same"}),
		locked:  map[string]bool{"x": true},
	}

	for _, full := range []bool{false, true} {
		opts := FlatOptions{UseFullHash: full, Workers: 4}
		result, err := CompareFlat(context.Background(), a, b, opts)
		require.NoError(t, err)

		assert.Equal(t, 3, result.TotalFilesA)
		assert.Equal(t, 2, result.TotalFilesB)
		require.Len(t, result.Groups, 5, "every unreadable file is a group of its own")
		assert.Equal(t, 0, result.DuplicateCount)

		unreadable := 0
		for _, g := range result.Groups {
			assert.Equal(t, 1, g.FileCount())
			if hashing.IsSentinel(g.Hash) {
				unreadable++
			}
		}
		assert.Equal(t, 4, unreadable)
		assert.Equal(t, []string{"w"}, findGroup(t, result, "w").FilesInB)
		assert.Equal(t, "error:A:y", findGroup(t, result, "y").Hash)

		// Same order and digests on every run, whatever the scheduling
		for _, workers := range []int{1, 8} {
			opts.Workers = workers
			again, err := CompareFlat(context.Background(), a, b, opts)
			require.NoError(t, err)
			assert.Equal(t, result, again, "full=%v workers=%d", full, workers)
		}
	}
}

func TestCompareFlatDuplicateCount(t *testing.T) {
	a := memTree(t, map[string]string{"x1": "x", "x2": "x", "y1": "y", "y2": "y"})
	b := memTree(t, map[string]string{"z1": "z", "z2": "z", "w": "w"})

	result, err := CompareFlat(context.Background(), a, b, FlatOptions{})
	require.NoError(t, err)
	assert.Equal(t, 4, result.UniqueHashes)
	assert.Equal(t, 3, result.DuplicateCount)
}

func TestCompareFlatEmptyTrees(t *testing.T) {
	result, err := CompareFlat(context.Background(), memTree(t, nil, "sub"), memTree(t, nil), FlatOptions{})
	require.NoError(t, err)
	assert.NotNil(t, result.Groups)
	assert.Empty(t, result.Groups)
	assert.Zero(t, result.TotalFilesA)
	assert.Zero(t, result.UniqueHashes)
}

func TestCompareFlatGroupsSorted(t *testing.T) {
	files := map[string]string{}
	for i := 0; i < 20; i++ {
		files[strings.Repeat("f", i+1)] = strings.Repeat("c", i)
	}
	result, err := CompareFlat(context.Background(), memTree(t, files), memTree(t, nil), FlatOptions{})
	require.NoError(t, err)

	for i := 1; i < len(result.Groups); i++ {
		prev, cur := result.Groups[i-1], result.Groups[i]
		assert.True(t, prev.Hash < cur.Hash || (prev.Hash == cur.Hash && prev.Size <= cur.Size))
	}
}

func TestCompareFlatDeterministicAcrossWorkers(t *testing.T) {
	files := map[string]string{}
	for i := 0; i < 40; i++ {
		files[strings.Repeat("d/", i%4)+strings.Repeat("n", i+1)] = strings.Repeat("v", i%7)
	}
	a := memTree(t, files)
	b := memTree(t, files)

	base, err := CompareFlat(context.Background(), a, b, FlatOptions{Workers: 1})
	require.NoError(t, err)

	for _, workers := range []int{2, 8, 0} {
		got, err := CompareFlat(context.Background(), a, b, FlatOptions{Workers: workers})
		require.NoError(t, err)
		assert.Equal(t, base, got, "workers=%d", workers)
	}
}

func TestCompareFlatFullHash(t *testing.T) {
	a := memTree(t, map[string]string{"a": "content"})
	b := memTree(t, map[string]string{"b": "content"})

	for _, alg := range []hashing.Algorithm{hashing.SHA256, hashing.BLAKE3, hashing.XXHash, ""} {
		result, err := CompareFlat(context.Background(), a, b, FlatOptions{UseFullHash: true, Algorithm: alg})
		require.NoError(t, err)
		require.Len(t, result.Groups, 1, "algorithm %q", alg)
		assert.True(t, result.Groups[0].IsMoved())
	}

	sha, err := CompareFlat(context.Background(), a, b, FlatOptions{UseFullHash: true})
	require.NoError(t, err)
	assert.Equal(t, "ed7002b439e9ac845f22357d822bac1444730fbdb6016d3ec9432297b9ec9f73", sha.Groups[0].Hash)
}

func TestCompareFlatProgressCallbacks(t *testing.T) {
	a := memTree(t, map[string]string{"1": "a", "2": "b"}, "dir")
	b := memTree(t, map[string]string{"3": "c"})

	var mu sync.Mutex
	hashed := map[Side]int{}
	scanned := -1

	_, err := CompareFlat(context.Background(), a, b, FlatOptions{
		Workers:   2,
		OnScanned: func(n int) { scanned = n },
		OnHashed: func(side Side, rel string) {
			mu.Lock()
			defer mu.Unlock()
			hashed[side]++
		},
	})
	require.NoError(t, err)
	assert.Equal(t, 3, scanned)
	assert.Equal(t, 2, hashed[SideA])
	assert.Equal(t, 1, hashed[SideB])
}

func TestCompareDirectoriesFlat(t *testing.T) {
	h := NewTestHelper(t)
	defer h.Cleanup()

	h.CreateFileA("documents/report.txt", []byte("report"))
	h.CreateFileB("archive/report.txt", []byte("report"))

	result, err := CompareDirectoriesFlat(context.Background(), h.DirA(), h.DirB(), FlatOptions{})
	require.NoError(t, err)
	require.Len(t, result.Groups, 1)
	assert.True(t, result.Groups[0].IsMoved())
}

func TestCompareFlatCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := CompareFlat(ctx, memTree(t, map[string]string{"f": "1"}), memTree(t, nil), FlatOptions{})
	assert.ErrorIs(t, err, context.Canceled)
}
