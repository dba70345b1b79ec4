package ignore

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	input := `
# build output
*.log
node_modules/

!keep.log
`
	m, errs := Parse(strings.NewReader(input))
	require.Empty(t, errs)
	require.NotNil(t, m)
	assert.Equal(t, []string{"*.log", "node_modules/", "!keep.log"}, m.Patterns())

	tests := []struct {
		path  string
		isDir bool
		want  bool
	}{
		{"debug.log", false, true},
		{"logs/app.log", false, true},
		{"keep.log", false, false},
		{"main.go", false, false},
		{"node_modules", true, true},
		{"node_modules/pkg/index.js", false, true},
		{"src/node_modules/x.js", false, true},
		{"src/main.go", false, false},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			assert.Equal(t, tt.want, m.Ignored(tt.path, tt.isDir))
		})
	}
}

func TestParseMalformedLines(t *testing.T) {
	m, errs := Parse(strings.NewReader("*.tmp\n[abc\n*.bak\n"))

	require.Len(t, errs, 1)
	var lineErr *LineError
	require.True(t, errors.As(errs[0], &lineErr))
	assert.Equal(t, 2, lineErr.Line)
	assert.Equal(t, "[abc", lineErr.Pattern)

	// Remaining lines still apply
	assert.True(t, m.Ignored("a.tmp", false))
	assert.True(t, m.Ignored("a.bak", false))
	assert.False(t, m.Ignored("abc", false))
}

func TestNilMatcher(t *testing.T) {
	m, errs := Parse(strings.NewReader("# only comments\n\n"))
	assert.Empty(t, errs)
	assert.Nil(t, m)
	assert.False(t, m.Ignored("anything", false))
	assert.Nil(t, m.Func())
	assert.Nil(t, m.Patterns())
}

func TestFromPatternsAndMerge(t *testing.T) {
	a, errs := FromPatterns([]string{"*.tmp"})
	require.Empty(t, errs)
	b, errs := FromPatterns([]string{".git/"})
	require.Empty(t, errs)

	m := Merge(a, nil, b)
	assert.True(t, m.Ignored("x.tmp", false))
	assert.True(t, m.Ignored(".git/config", false))
	assert.False(t, m.Ignored("README.md", false))

	fn := m.Func()
	require.NotNil(t, fn)
	assert.True(t, fn("x.tmp", false))
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".dircompareignore")
	require.NoError(t, os.WriteFile(path, []byte("*.o\n"), 0644))

	m, errs, err := LoadFile(path)
	require.NoError(t, err)
	assert.Empty(t, errs)
	assert.True(t, m.Ignored("obj/main.o", false))

	_, _, err = LoadFile(filepath.Join(t.TempDir(), "missing"))
	assert.Error(t, err)
}
