package host

import (
	"fmt"
	"sync"
	"time"

	"github.com/ebitengine/oto/v3"
)

// ringCapacity holds about 170ms of 48kHz 16-bit stereo.
const ringCapacity = 32768

var (
	otoCtx     *oto.Context
	otoOnce    sync.Once
	otoInitErr error
	otoRate    int
)

// audioContext opens the process wide oto context on first use.
func audioContext(sampleRate int) (*oto.Context, error) {
	otoOnce.Do(func() {
		var ready chan struct{}
		otoCtx, ready, otoInitErr = oto.NewContext(&oto.NewContextOptions{
			SampleRate:   sampleRate,
			ChannelCount: 2,
			Format:       oto.FormatSignedInt16LE,
			BufferSize:   50 * time.Millisecond,
		})
		if otoInitErr != nil {
			return
		}
		otoRate = sampleRate
		<-ready
	})
	if otoInitErr == nil && otoRate != sampleRate {
		return nil, fmt.Errorf("audio context already open at %d Hz", otoRate)
	}
	return otoCtx, otoInitErr
}

// AudioPlayer feeds the machine's int16 stereo output to oto through a
// ring buffer that oto's player pulls from.
type AudioPlayer struct {
	player *oto.Player
	ring   *RingBuffer
	bytes  []byte
	muted  bool
	volume float64
}

// NewAudioPlayer opens audio output at sampleRate.
func NewAudioPlayer(sampleRate int, volume float64, muted bool) (*AudioPlayer, error) {
	ctx, err := audioContext(sampleRate)
	if err != nil {
		return nil, fmt.Errorf("audio not available: %w", err)
	}

	ring := NewRingBuffer(ringCapacity)
	player := ctx.NewPlayer(ring)
	player.SetBufferSize(sampleRate / 10 * 4)
	a := &AudioPlayer{
		player: player,
		ring:   ring,
		bytes:  make([]byte, 0, 4096),
		volume: volume,
	}
	a.SetMuted(muted)
	player.Play()
	return a, nil
}

// Queue converts samples to little-endian bytes and appends them to the ring.
func (a *AudioPlayer) Queue(samples []int16) {
	if len(samples) == 0 {
		return
	}
	a.bytes = a.bytes[:0]
	for _, s := range samples {
		a.bytes = append(a.bytes, byte(s), byte(s>>8))
	}
	a.ring.Write(a.bytes)
}

// SetMuted silences output without stopping the stream. Muting drops
// queued samples.
func (a *AudioPlayer) SetMuted(muted bool) {
	a.muted = muted
	if muted {
		a.ring.Clear()
		a.player.SetVolume(0)
	} else {
		a.player.SetVolume(a.volume)
	}
}

// Muted reports whether output is silenced.
func (a *AudioPlayer) Muted() bool { return a.muted }

// Flush drops samples queued but not yet handed to the player.
func (a *AudioPlayer) Flush() {
	a.ring.Clear()
}

// Close stops playback.
func (a *AudioPlayer) Close() {
	a.ring.Close()
	a.player.Close()
}
