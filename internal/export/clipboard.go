// Package export delivers a finished workflow to the clipboard or to disk.
package export

import (
	"io"
	"os"
	"sync"

	"github.com/atotto/clipboard"
	"github.com/aymanbagabas/go-osc52/v2"

	"github.com/zjrosen/flowgen/internal/log"
)

// Clipboard defines the interface for clipboard operations.
type Clipboard interface {
	Copy(text string) error
}

// SystemClipboard copies through the platform clipboard locally and through
// an OSC 52 terminal sequence inside SSH, tmux or screen sessions, where the
// local clipboard belongs to the wrong machine.
type SystemClipboard struct {
	// Out receives OSC 52 sequences. Defaults to os.Stderr.
	Out io.Writer
}

// Copy copies text to the clipboard.
func (c SystemClipboard) Copy(text string) error {
	if shouldUseOSC52() || clipboard.Unsupported {
		return c.copyOSC52(text)
	}
	if err := clipboard.WriteAll(text); err != nil {
		log.Warn(log.CatExport, "System clipboard failed, falling back to OSC 52", "error", err)
		return c.copyOSC52(text)
	}
	log.Debug(log.CatExport, "Copied to system clipboard", "bytes", len(text))
	return nil
}

func (c SystemClipboard) copyOSC52(text string) error {
	out := c.Out
	if out == nil {
		out = os.Stderr
	}
	_, err := oscSequence(text).WriteTo(out)
	if err == nil {
		log.Debug(log.CatExport, "Copied via OSC 52", "bytes", len(text))
	}
	return err
}

func oscSequence(text string) osc52.Sequence {
	seq := osc52.New(text)
	switch {
	case os.Getenv("TMUX") != "":
		seq = seq.Tmux()
	case os.Getenv("STY") != "":
		seq = seq.Screen()
	}
	return seq
}

// shouldUseOSC52 reports whether the process runs inside a remote or
// multiplexed terminal.
func shouldUseOSC52() bool {
	for _, env := range []string{"SSH_TTY", "SSH_CLIENT", "SSH_CONNECTION", "TMUX", "STY"} {
		if os.Getenv(env) != "" {
			return true
		}
	}
	return false
}

// MockClipboard records copied text for tests.
type MockClipboard struct {
	mu     sync.Mutex
	copies []string
	Err    error
}

// Copy records text, or returns Err if set.
func (m *MockClipboard) Copy(text string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return m.Err
	}
	m.copies = append(m.copies, text)
	return nil
}

// Last returns the most recently copied text.
func (m *MockClipboard) Last() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.copies) == 0 {
		return ""
	}
	return m.copies[len(m.copies)-1]
}

// Count returns how many copies succeeded.
func (m *MockClipboard) Count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.copies)
}
