// Package ignore builds the path filter applied during traversal from
// gitignore-style glob lines such as "*.log" or "node_modules/".
package ignore

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path"
	"strings"

	gitignore "github.com/monochromegane/go-gitignore"
)

// LineError reports a pattern line that was dropped
type LineError struct {
	Line    int
	Pattern string
	Err     error
}

func (e *LineError) Error() string {
	return fmt.Sprintf("line %d: invalid pattern %q: %v", e.Line, e.Pattern, e.Err)
}

func (e *LineError) Unwrap() error {
	return e.Err
}

// Matcher decides whether a relative path is ignored. A nil *Matcher
// ignores nothing.
type Matcher struct {
	patterns []string
	matcher  gitignore.IgnoreMatcher
}

// Parse reads pattern lines from r. Blank lines and "#" comments are
// skipped. Malformed patterns are left out and reported, one LineError
// each; the returned Matcher uses the remaining lines.
func Parse(r io.Reader) (*Matcher, []error) {
	var (
		valid []string
		errs  []error
	)

	scanner := bufio.NewScanner(r)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		if err := validate(line); err != nil {
			errs = append(errs, &LineError{Line: lineNo, Pattern: line, Err: err})
			continue
		}
		valid = append(valid, line)
	}
	if err := scanner.Err(); err != nil {
		errs = append(errs, fmt.Errorf("failed to read patterns: %w", err))
	}

	return newMatcher(valid), errs
}

// FromPatterns builds a Matcher from individual patterns, such as repeated
// command-line flags
func FromPatterns(patterns []string) (*Matcher, []error) {
	return Parse(strings.NewReader(strings.Join(patterns, "\n")))
}

// LoadFile reads an ignore file. A missing or unreadable file is returned
// as an error; the caller decides whether to continue without a filter.
func LoadFile(filename string) (*Matcher, []error, error) {
	f, err := os.Open(filename)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open ignore file: %w", err)
	}
	defer f.Close()

	m, errs := Parse(f)
	return m, errs, nil
}

// Merge combines matchers; a path is ignored when any of them ignores it
func Merge(matchers ...*Matcher) *Matcher {
	var patterns []string
	for _, m := range matchers {
		if m != nil {
			patterns = append(patterns, m.patterns...)
		}
	}
	return newMatcher(patterns)
}

func newMatcher(patterns []string) *Matcher {
	if len(patterns) == 0 {
		return nil
	}
	var m gitignore.IgnoreMatcher = gitignore.NewGitIgnoreFromReader(".", strings.NewReader(strings.Join(patterns, "\n")))
	return &Matcher{patterns: patterns, matcher: m}
}

// Patterns returns the accepted pattern lines
func (m *Matcher) Patterns() []string {
	if m == nil {
		return nil
	}
	return append([]string(nil), m.patterns...)
}

// Ignored reports whether a slash-separated relative path is excluded,
// either directly or because one of its parent directories is
func (m *Matcher) Ignored(relativePath string, isDir bool) bool {
	if m == nil || relativePath == "" {
		return false
	}

	if m.matcher.Match(relativePath, isDir) {
		return true
	}

	for dir := path.Dir(relativePath); dir != "." && dir != "/"; dir = path.Dir(dir) {
		if m.matcher.Match(dir, true) {
			return true
		}
	}
	return false
}

// Func returns the matcher as a traversal predicate. It returns nil for
// a nil matcher.
func (m *Matcher) Func() func(relativePath string, isDir bool) bool {
	if m == nil {
		return nil
	}
	return m.Ignored
}

func validate(pattern string) error {
	glob := strings.TrimPrefix(pattern, "!")
	glob = strings.Trim(glob, "/")
	if glob == "" {
		return fmt.Errorf("empty pattern")
	}
	_, err := path.Match(glob, "")
	return err
}
