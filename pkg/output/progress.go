package output

import (
	"io"
	"os"
	"sync"

	"github.com/cheggaaa/pb/v3"
	"golang.org/x/term"
)

const progressTemplate = `{{string . "prefix"}}{{counters . }} {{bar . }} {{percent . }} {{rtime . "ETA %s"}}`

// HashProgress shows a progress bar while flat mode hashes files.
// It is safe for concurrent use; Increment may be called from several
// hashing goroutines.
type HashProgress struct {
	mu      sync.Mutex
	writer  io.Writer
	bar     *pb.ProgressBar
	enabled bool
}

// NewHashProgress creates a progress bar writing to w. The bar stays
// silent unless enabled is set and w is a terminal.
func NewHashProgress(w io.Writer, enabled bool) *HashProgress {
	if w == nil {
		w = os.Stderr
	}
	return &HashProgress{
		writer:  w,
		enabled: enabled && IsTerminal(w),
	}
}

// IsTerminal reports whether w is attached to a terminal
func IsTerminal(w io.Writer) bool {
	file, ok := w.(*os.File)
	if !ok {
		return false
	}
	return term.IsTerminal(int(file.Fd()))
}

// Enabled reports whether the bar renders anything
func (p *HashProgress) Enabled() bool {
	return p.enabled
}

// Start shows the bar for total files
func (p *HashProgress) Start(total int) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if !p.enabled || p.bar != nil {
		return
	}

	p.bar = pb.New(total).
		SetTemplateString(progressTemplate).
		SetWriter(p.writer).
		Set("prefix", "Hashing ").
		Start()
}

// Increment advances the bar by one file
func (p *HashProgress) Increment() {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.bar != nil {
		p.bar.Increment()
	}
}

// Finish stops the bar
func (p *HashProgress) Finish() {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.bar != nil {
		p.bar.Finish()
		p.bar = nil
	}
}
