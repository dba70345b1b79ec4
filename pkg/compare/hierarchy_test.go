package compare

import (
	"context"
	"errors"
	"sort"
	"testing"

	"github.com/go-git/go-billy/v5/memfs"
	"github.com/go-git/go-billy/v5/util"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sdejongh/dircompare/pkg/hashing"
	"github.com/sdejongh/dircompare/pkg/models"
	"github.com/sdejongh/dircompare/pkg/storage"
)

func paths(entries []models.Entry) []string {
	out := make([]string, 0, len(entries))
	for _, e := range entries {
		out = append(out, e.RelativePath)
	}
	return out
}

func pairPaths(pairs []models.EntryPair) []string {
	out := make([]string, 0, len(pairs))
	for _, p := range pairs {
		out = append(out, p.A.RelativePath)
	}
	return out
}

func memTree(t *testing.T, files map[string]string, dirs ...string) storage.Backend {
	t.Helper()
	fs := memfs.New()
	require.NoError(t, fs.MkdirAll("root", 0755))
	for _, d := range dirs {
		require.NoError(t, fs.MkdirAll("root/"+d, 0755))
	}
	for name, content := range files {
		require.NoError(t, util.WriteFile(fs, "root/"+name, []byte(content), 0644))
	}
	backend, err := storage.NewBilly(fs, "root")
	require.NoError(t, err)
	return backend
}

func TestTraverse(t *testing.T) {
	backend := memTree(t, map[string]string{
		"a.txt":       "a",
		"sub/b.txt":   "bb",
		"sub/c.log":   "ccc",
		"build/x.bin": "x",
	}, "empty")

	entries, err := Traverse(context.Background(), backend, TraverseOptions{})
	require.NoError(t, err)
	assert.Equal(t, []string{"a.txt", "build", "build/x.bin", "empty", "sub", "sub/b.txt", "sub/c.log"}, paths(entries))

	for _, e := range entries {
		switch e.RelativePath {
		case "sub", "empty", "build":
			assert.True(t, e.IsDir(), e.RelativePath)
			assert.Zero(t, e.Size)
		case "sub/b.txt":
			assert.True(t, e.IsFile())
			assert.Equal(t, int64(2), e.Size)
		}
	}

	ignore := func(rel string, isDir bool) bool {
		return (isDir && rel == "build") || rel == "build/x.bin" || rel == "sub/c.log"
	}
	entries, err = Traverse(context.Background(), backend, TraverseOptions{Ignore: ignore})
	require.NoError(t, err)
	assert.Equal(t, []string{"a.txt", "empty", "sub", "sub/b.txt"}, paths(entries))
}

func TestTraverseDirMissingRoot(t *testing.T) {
	_, err := TraverseDir(context.Background(), "/nonexistent/dircompare/root", TraverseOptions{})
	require.Error(t, err)
	var rootErr *models.RootError
	assert.True(t, errors.As(err, &rootErr))
}

func TestCompareHierarchy(t *testing.T) {
	a := memTree(t, map[string]string{
		"common.txt":  "same",
		"changed.txt": "short",
		"only_a.txt":  "a",
		"kind":        "file in A",
	}, "dir")
	b := memTree(t, map[string]string{
		"common.txt":  "same",
		"changed.txt": "much longer",
		"only_b.txt":  "b",
	}, "dir", "kind")

	result, err := CompareHierarchy(context.Background(), a, b, NewNameAndSize(false), Options{})
	require.NoError(t, err)

	assert.Equal(t, []string{"changed.txt", "kind", "only_a.txt"}, paths(result.AOnly))
	assert.Equal(t, []string{"changed.txt", "kind", "only_b.txt"}, paths(result.BOnly))
	assert.Equal(t, []string{"common.txt", "dir"}, pairPaths(result.Both))
	assert.Equal(t, []string{"changed.txt", "kind"}, result.Divergent())
	assert.True(t, result.HasDifferences())
}

// Every path of both trees lands in exactly the expected buckets
func TestCompareHierarchyCoversAllPaths(t *testing.T) {
	a := memTree(t, map[string]string{"x": "1", "y/z": "22", "w": "3"})
	b := memTree(t, map[string]string{"x": "1", "y/z": "2", "v": "4"})

	result, err := CompareHierarchy(context.Background(), a, b, NewNameAndFastHash(StrategyOptions{}), Options{})
	require.NoError(t, err)

	seenA := append(paths(result.AOnly), pairPaths(result.Both)...)
	seenB := append(paths(result.BOnly), pairPaths(result.Both)...)
	sort.Strings(seenA)
	sort.Strings(seenB)

	assert.Equal(t, []string{"w", "x", "y", "y/z"}, seenA)
	assert.Equal(t, []string{"v", "x", "y", "y/z"}, seenB)
}

func TestCompareHierarchyVerify(t *testing.T) {
	ctx := context.Background()

	contentA := make([]byte, 5000)
	for i := range contentA {
		contentA[i] = byte(i % 251)
	}
	contentB := append([]byte(nil), contentA...)
	// Between the first and second sample windows
	contentB[hashing.SampleSize+100] ^= 0xff

	a := memTree(t, map[string]string{"big.bin": string(contentA), "same.txt": "s"})
	b := memTree(t, map[string]string{"big.bin": string(contentB), "same.txt": "s"})

	result, err := CompareHierarchy(ctx, a, b, NewNameAndSampledHash(StrategyOptions{}), Options{})
	require.NoError(t, err)
	assert.Equal(t, []string{"big.bin", "same.txt"}, pairPaths(result.Both))
	assert.Empty(t, result.AOnly)
	assert.Empty(t, result.BOnly)

	result, err = CompareHierarchy(ctx, a, b, NewNameAndSampledHash(StrategyOptions{Verify: true}), Options{})
	require.NoError(t, err)
	assert.Equal(t, []string{"same.txt"}, pairPaths(result.Both))
	assert.Equal(t, []string{"big.bin"}, paths(result.AOnly))
	assert.Equal(t, []string{"big.bin"}, paths(result.BOnly))
}

func TestCompareHierarchyIdenticalTrees(t *testing.T) {
	files := map[string]string{"a": "1", "b/c": "2", "b/d/e": "3"}
	a := memTree(t, files)
	b := memTree(t, files)

	for _, s := range allStrategies() {
		t.Run(s.Name(), func(t *testing.T) {
			result, err := CompareHierarchy(context.Background(), a, b, s, Options{})
			require.NoError(t, err)
			assert.Empty(t, result.AOnly)
			assert.Empty(t, result.BOnly)
			assert.Len(t, result.Both, 5)
			assert.False(t, result.HasDifferences())
		})
	}
}

func TestCompareHierarchyEmptyTrees(t *testing.T) {
	result, err := CompareHierarchy(context.Background(), memTree(t, nil), memTree(t, nil), NewNameOnly(false), Options{})
	require.NoError(t, err)
	assert.NotNil(t, result.AOnly)
	assert.NotNil(t, result.BOnly)
	assert.NotNil(t, result.Both)
	assert.Empty(t, result.AOnly)
	assert.Empty(t, result.BOnly)
	assert.Empty(t, result.Both)
}

func TestCompareHierarchyIgnore(t *testing.T) {
	a := memTree(t, map[string]string{"keep.txt": "1", "skip.tmp": "x"})
	b := memTree(t, map[string]string{"keep.txt": "1"})

	opts := Options{Ignore: func(rel string, isDir bool) bool { return rel == "skip.tmp" }}
	result, err := CompareHierarchy(context.Background(), a, b, NewNameOnly(false), opts)
	require.NoError(t, err)
	assert.Empty(t, result.AOnly)
	assert.Equal(t, []string{"keep.txt"}, pairPaths(result.Both))
}

// Case folding never pairs entries whose exact paths differ
func TestCompareHierarchyCaseInsensitive(t *testing.T) {
	a := memTree(t, map[string]string{"Readme.md": "x"})
	b := memTree(t, map[string]string{"readme.md": "x"})

	result, err := CompareHierarchy(context.Background(), a, b, NewNameOnly(true), Options{})
	require.NoError(t, err)
	assert.Equal(t, []string{"Readme.md"}, paths(result.AOnly))
	assert.Equal(t, []string{"readme.md"}, paths(result.BOnly))
}

func TestCompareDirectories(t *testing.T) {
	h := NewTestHelper(t)
	defer h.Cleanup()

	h.CreateFileA("same.txt", []byte("hello"))
	h.CreateFileB("same.txt", []byte("hello"))
	h.CreateFileA("only_a.txt", []byte("a"))
	h.CreateDirB("empty")

	result, err := CompareDirectories(context.Background(), h.DirA(), h.DirB(), NewNameAndSampledHash(StrategyOptions{}), Options{})
	require.NoError(t, err)
	assert.Equal(t, []string{"only_a.txt"}, paths(result.AOnly))
	assert.Equal(t, []string{"empty"}, paths(result.BOnly))
	assert.Equal(t, []string{"same.txt"}, pairPaths(result.Both))

	_, err = CompareDirectories(context.Background(), h.DirA(), "/nonexistent/dircompare", NewNameOnly(false), Options{})
	require.Error(t, err)
}

func TestCompareHierarchyCancelled(t *testing.T) {
	a := memTree(t, map[string]string{"f": "1"})
	b := memTree(t, map[string]string{"f": "1"})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := CompareHierarchy(ctx, a, b, NewNameAndFastHash(StrategyOptions{}), Options{})
	assert.ErrorIs(t, err, context.Canceled)
}
