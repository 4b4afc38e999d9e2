package host

import (
	"sync"

	"github.com/user-none/emhomebrew/emu"
	"golang.design/x/clipboard"
)

// maxPaste caps a single clipboard paste.
const maxPaste = 4096

var (
	clipboardOnce sync.Once
	clipboardOK   bool
)

// readClipboard returns the clipboard text, or nil if no clipboard is available.
func readClipboard() []byte {
	clipboardOnce.Do(func() {
		clipboardOK = clipboard.Init() == nil
	})
	if !clipboardOK {
		return nil
	}
	return clipboard.Read(clipboard.FmtText)
}

// PasteQueue types text into the PC keyboard one key per frame. Each
// character is delivered as a press on one frame and a release on the next
// so polling ROMs see every transition.
type PasteQueue struct {
	pending []byte
	held    bool
}

// Add queues text. Line endings become carriage returns and bytes outside
// printable ASCII are dropped.
func (q *PasteQueue) Add(text []byte) {
	for i := 0; i < len(text) && len(q.pending) < maxPaste; i++ {
		c := text[i]
		switch {
		case c == '\r':
			if i+1 < len(text) && text[i+1] == '\n' {
				i++
			}
			q.pending = append(q.pending, emu.PCCharReturn)
		case c == '\n':
			q.pending = append(q.pending, emu.PCCharReturn)
		case c == '\t', c >= 0x20 && c < 0x7F:
			q.pending = append(q.pending, c)
		}
	}
}

// Len returns the number of characters not yet released.
func (q *PasteQueue) Len() int { return len(q.pending) }

// Step advances the queue by one frame.
func (q *PasteQueue) Step(kb *emu.PCKeyboard) {
	if len(q.pending) == 0 {
		return
	}
	ch := q.pending[0]
	if !q.held {
		kb.KeyEvent(ch, 0, true)
		q.held = true
		return
	}
	kb.KeyEvent(ch, 0, false)
	q.held = false
	q.pending = q.pending[1:]
}
