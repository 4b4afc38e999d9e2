package emu

import (
	"sync"

	"github.com/user-none/go-chip-sn76489"
)

const (
	psgBufferSize = 2048
	psgGain       = 1898.0
)

// SoundDevice puts an SN76489 on the bus as a single write-only port.
type SoundDevice struct {
	mu      sync.Mutex
	psg     *sn76489.SN76489
	samples []int16 // stereo, reused every frame
}

// NewSoundDevice creates a sound chip clocked at clockHz producing
// sampleRate mono samples, returned as duplicated stereo pairs.
func NewSoundDevice(clockHz, sampleRate int) *SoundDevice {
	psg := sn76489.New(clockHz, sampleRate, psgBufferSize, sn76489.Sega)
	psg.SetGain(psgGain)
	s := &SoundDevice{
		psg:     psg,
		samples: make([]int16, 0, psgBufferSize*2),
	}
	s.silence()
	return s
}

func (s *SoundDevice) Name() string { return "SN76489" }

// Read returns $FF: the chip has no readable registers.
func (s *SoundDevice) Read(offset uint16) (uint8, error) {
	return 0xFF, nil
}

func (s *SoundDevice) Write(offset uint16, value uint8) error {
	s.mu.Lock()
	s.psg.Write(value)
	s.mu.Unlock()
	return nil
}

// Run advances the chip by the given number of clock cycles.
func (s *SoundDevice) Run(cycles int) {
	s.mu.Lock()
	s.psg.Run(cycles)
	s.mu.Unlock()
}

// Samples drains the generated samples as 16-bit stereo PCM. The returned
// slice is reused by the next call.
func (s *SoundDevice) Samples() []int16 {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.samples = s.samples[:0]
	buf, count := s.psg.GetBuffer()
	for i := 0; i < count; i++ {
		v := buf[i]
		if v > 32767 {
			v = 32767
		} else if v < -32768 {
			v = -32768
		}
		s.samples = append(s.samples, int16(v), int16(v))
	}
	s.psg.ResetBuffer()
	return s.samples
}

// Reset mutes all four channels.
func (s *SoundDevice) Reset() {
	s.mu.Lock()
	s.silence()
	s.psg.ResetBuffer()
	s.mu.Unlock()
}

// silence sets every channel to attenuation 15. Caller holds the lock or
// owns s exclusively.
func (s *SoundDevice) silence() {
	s.psg.Write(0x9F)
	s.psg.Write(0xBF)
	s.psg.Write(0xDF)
	s.psg.Write(0xFF)
}
