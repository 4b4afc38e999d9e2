package host

import (
	"bytes"
	"io"
	"testing"

	"github.com/user-none/emhomebrew/emu"
)

// TestRingBuffer_Wrap tests reads and writes across the end of the buffer
func TestRingBuffer_Wrap(t *testing.T) {
	rb := NewRingBuffer(8)
	rb.Write([]byte{1, 2, 3, 4, 5, 6})

	p := make([]byte, 4)
	if n, _ := rb.Read(p); n != 4 || !bytes.Equal(p, []byte{1, 2, 3, 4}) {
		t.Fatalf("First read: got %d %v", n, p[:n])
	}
	rb.Write([]byte{7, 8, 9, 10})
	if rb.Buffered() != 6 {
		t.Errorf("Buffered: expected 6, got %d", rb.Buffered())
	}
	p = make([]byte, 8)
	if n, _ := rb.Read(p); n != 6 || !bytes.Equal(p[:n], []byte{5, 6, 7, 8, 9, 10}) {
		t.Errorf("Second read: got %v", p[:n])
	}
}

// TestRingBuffer_Overflow tests that the oldest bytes are dropped
func TestRingBuffer_Overflow(t *testing.T) {
	rb := NewRingBuffer(4)
	rb.Write([]byte{1, 2, 3})
	rb.Write([]byte{4, 5, 6})

	p := make([]byte, 4)
	if n, _ := rb.Read(p); n != 4 || !bytes.Equal(p, []byte{3, 4, 5, 6}) {
		t.Errorf("Expected [3 4 5 6], got %v", p[:n])
	}

	rb.Write([]byte{1, 2, 3, 4, 5, 6, 7})
	if n, _ := rb.Read(p); n != 4 || !bytes.Equal(p, []byte{4, 5, 6, 7}) {
		t.Errorf("Oversized write: expected [4 5 6 7], got %v", p[:n])
	}
}

// TestRingBuffer_Close tests draining after close and then EOF
func TestRingBuffer_Close(t *testing.T) {
	rb := NewRingBuffer(4)
	rb.Write([]byte{9})
	rb.Close()
	rb.Write([]byte{1})

	p := make([]byte, 4)
	if n, err := rb.Read(p); n != 1 || err != nil || p[0] != 9 {
		t.Errorf("Drain: got %d %v", n, err)
	}
	if _, err := rb.Read(p); err != io.EOF {
		t.Errorf("Expected io.EOF, got %v", err)
	}
}

// TestPasteQueue_Normalize tests line endings and filtering
func TestPasteQueue_Normalize(t *testing.T) {
	var q PasteQueue
	q.Add([]byte("A\r\nb\nc\r\x01\xC3"))

	want := []byte{'A', emu.PCCharReturn, 'b', emu.PCCharReturn, 'c', emu.PCCharReturn}
	if !bytes.Equal(q.pending, want) {
		t.Errorf("Expected %v, got %v", want, q.pending)
	}
}

// TestPasteQueue_Step tests one press or release per frame
func TestPasteQueue_Step(t *testing.T) {
	var q PasteQueue
	kb := emu.NewPCKeyboard()
	q.Add([]byte("hi"))

	steps := []struct {
		down, up uint8
	}{
		{'h', 0},
		{0xFF, 'h'},
		{'i', 0},
		{0xFF, 'i'},
	}
	for i, s := range steps {
		q.Step(kb)
		down, _ := kb.Read(emu.PCKeyDown)
		up, _ := kb.Read(emu.PCKeyUp)
		if down != s.down || up != s.up {
			t.Errorf("Step %d: expected down 0x%02X up 0x%02X, got 0x%02X 0x%02X", i, s.down, s.up, down, up)
		}
	}
	if q.Len() != 0 {
		t.Errorf("Expected empty queue, got %d", q.Len())
	}
	q.Step(kb)
	if down, _ := kb.Read(emu.PCKeyDown); down != 0xFF {
		t.Errorf("Idle step changed the key register: 0x%02X", down)
	}
}

// TestPasteQueue_Limit tests the paste size cap
func TestPasteQueue_Limit(t *testing.T) {
	var q PasteQueue
	q.Add(bytes.Repeat([]byte{'x'}, maxPaste+10))
	if q.Len() != maxPaste {
		t.Errorf("Expected %d queued, got %d", maxPaste, q.Len())
	}
}

// TestFit tests scaling and centering
func TestFit(t *testing.T) {
	testCases := []struct {
		w, h, sw, sh int
		scale        float64
		ox, oy       float64
	}{
		{272, 208, 544, 416, 2, 0, 0},
		{272, 208, 816, 416, 2, 136, 0},
		{256, 208, 512, 832, 2, 0, 208},
	}
	for _, tc := range testCases {
		scale, ox, oy := fit(tc.w, tc.h, tc.sw, tc.sh)
		if scale != tc.scale || ox != tc.ox || oy != tc.oy {
			t.Errorf("fit(%d,%d,%d,%d): expected %v %v %v, got %v %v %v",
				tc.w, tc.h, tc.sw, tc.sh, tc.scale, tc.ox, tc.oy, scale, ox, oy)
		}
	}
}

// TestRingBuffer_Clear tests that Clear drops unread bytes
func TestRingBuffer_Clear(t *testing.T) {
	rb := NewRingBuffer(8)
	rb.Write([]byte{1, 2, 3, 4, 5, 6})
	rb.Clear()
	if rb.Buffered() != 0 {
		t.Fatalf("Buffered after clear: expected 0, got %d", rb.Buffered())
	}

	rb.Write([]byte{7, 8})
	p := make([]byte, 4)
	if n, _ := rb.Read(p); n != 2 || !bytes.Equal(p[:n], []byte{7, 8}) {
		t.Errorf("Read after clear: expected [7 8], got %v", p[:n])
	}
}

// TestRunner_Reset tests that a reset restarts the CPU and drops pending paste
func TestRunner_Reset(t *testing.T) {
	m, err := emu.NewMachine([]byte{0x00, 0x00, 0x18, 0xFE}, emu.DefaultOptions()) // NOP, NOP, JR $
	if err != nil {
		t.Fatal(err)
	}
	r := &Runner{machine: m}
	r.paste.Add([]byte("RUN\n"))
	m.RunFrame()

	r.reset()
	if m.PC() != 0 {
		t.Errorf("PC after reset: expected 0, got 0x%04X", m.PC())
	}
	if r.paste.Len() != 0 {
		t.Errorf("Paste after reset: expected 0 queued, got %d", r.paste.Len())
	}
}
