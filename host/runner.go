// Package host runs a Machine in an ebiten window: it presents frames,
// routes host keys to the board keyboards, plays audio and types
// clipboard text.
package host

import (
	"log"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/user-none/emhomebrew/emu"
)

// Options configures a Runner.
type Options struct {
	Keyboard KeyboardMode
	Volume   float64
	Muted    bool
}

// Runner wraps a Machine as an ebiten.Game.
// Update polls input and runs one emulated frame; Draw scales the last
// frame into the window.
type Runner struct {
	machine  *emu.Machine
	keyboard *Keyboard
	paste    PasteQueue
	audio    *AudioPlayer

	offscreen *ebiten.Image
	pixels    []byte
	drawOpts  ebiten.DrawImageOptions
	lastErr   error
	unfocused bool
}

// NewRunner creates a runner for m. Audio failures are logged and the
// runner continues silently.
func NewRunner(m *emu.Machine, opts Options) *Runner {
	r := &Runner{
		machine:  m,
		keyboard: NewKeyboard(opts.Keyboard, m.KeyMatrix(), m.PCKeyboard()),
	}
	player, err := NewAudioPlayer(m.SampleRate(), opts.Volume, opts.Muted)
	if err != nil {
		log.Printf("warning: %v", err)
	} else {
		r.audio = player
	}
	return r
}

// Close releases audio resources.
func (r *Runner) Close() {
	if r.audio != nil {
		r.audio.Close()
		r.audio = nil
	}
}

// Update implements ebiten.Game.
func (r *Runner) Update() error {
	if !ebiten.IsFocused() {
		// Release events are not delivered while unfocused
		if !r.unfocused {
			r.machine.KeyMatrix().Release()
			r.unfocused = true
		}
		return nil
	}
	r.unfocused = false

	if key, ok := r.hotkey(); ok {
		r.keyboard.Poll(key)
	} else {
		r.keyboard.Poll()
	}
	r.paste.Step(r.machine.PCKeyboard())

	if err := r.machine.RunFrame(); err != nil {
		// Report each distinct render failure once
		if r.lastErr == nil || err.Error() != r.lastErr.Error() {
			log.Printf("render: %v", err)
		}
		r.lastErr = err
	} else {
		r.lastErr = nil
	}

	if r.audio != nil {
		r.audio.Queue(r.machine.AudioSamples())
	}
	return nil
}

// hotkey handles runner shortcuts. It returns the key that triggered one so
// its press is kept from the board.
func (r *Runner) hotkey() (ebiten.Key, bool) {
	ctrl := ebiten.IsKeyPressed(ebiten.KeyControlLeft) || ebiten.IsKeyPressed(ebiten.KeyControlRight)
	shift := ebiten.IsKeyPressed(ebiten.KeyShiftLeft) || ebiten.IsKeyPressed(ebiten.KeyShiftRight)
	if !ctrl || !shift {
		return 0, false
	}

	switch {
	case inpututil.IsKeyJustPressed(ebiten.KeyV):
		r.paste.Add(readClipboard())
		return ebiten.KeyV, true
	case inpututil.IsKeyJustPressed(ebiten.KeyR):
		r.reset()
		return ebiten.KeyR, true
	case inpututil.IsKeyJustPressed(ebiten.KeyM):
		if r.audio != nil {
			r.audio.SetMuted(!r.audio.Muted())
		}
		return ebiten.KeyM, true
	}
	return 0, false
}

// reset restarts the machine, dropping pending paste text and queued audio.
func (r *Runner) reset() {
	r.machine.Reset()
	r.paste = PasteQueue{}
	if r.audio != nil {
		r.audio.Flush()
	}
}

// Draw implements ebiten.Game. The frame is scaled to fit the window,
// keeping its aspect ratio, and centered.
func (r *Runner) Draw(screen *ebiten.Image) {
	w, h := r.machine.FrameSize()
	if r.offscreen == nil || r.offscreen.Bounds().Dx() != w || r.offscreen.Bounds().Dy() != h {
		r.offscreen = ebiten.NewImage(w, h)
		r.pixels = make([]byte, w*h*4)
	}
	n := r.machine.Renderer().CopyRGBA(r.pixels)
	if n != len(r.pixels) {
		return
	}
	r.offscreen.WritePixels(r.pixels)

	sw, sh := screen.Bounds().Dx(), screen.Bounds().Dy()
	scale, ox, oy := fit(w, h, sw, sh)

	r.drawOpts = ebiten.DrawImageOptions{}
	r.drawOpts.GeoM.Scale(scale, scale)
	r.drawOpts.GeoM.Translate(ox, oy)
	r.drawOpts.Filter = ebiten.FilterNearest
	screen.DrawImage(r.offscreen, &r.drawOpts)
}

// Layout implements ebiten.Game. The window size is used as is so Draw
// controls scaling.
func (r *Runner) Layout(outsideWidth, outsideHeight int) (int, int) {
	return outsideWidth, outsideHeight
}

// fit returns the uniform scale and offsets centering a w x h image in a
// sw x sh screen.
func fit(w, h, sw, sh int) (scale, ox, oy float64) {
	sx := float64(sw) / float64(w)
	sy := float64(sh) / float64(h)
	scale = min(sx, sy)
	ox = (float64(sw) - float64(w)*scale) / 2
	oy = (float64(sh) - float64(h)*scale) / 2
	return scale, ox, oy
}
