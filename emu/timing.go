package emu

// VideoStandard selects the VDP variant fitted to the board. The TMS9918A
// drives NTSC displays; the TMS9929A is the PAL part.
type VideoStandard int

const (
	VideoNTSC VideoStandard = iota
	VideoPAL
)

func (s VideoStandard) String() string {
	switch s {
	case VideoNTSC:
		return "ntsc"
	case VideoPAL:
		return "pal"
	default:
		return "unknown"
	}
}

// ParseVideoStandard maps "ntsc" and "pal" to a standard.
func ParseVideoStandard(s string) (VideoStandard, bool) {
	switch s {
	case "ntsc":
		return VideoNTSC, true
	case "pal":
		return VideoPAL, true
	}
	return VideoNTSC, false
}

// Timing holds the frame timing of a video standard
type Timing struct {
	CPUClockHz int // Z80 clock frequency
	Scanlines  int // Total scanlines per frame
	FPS        int // Frames per second
}

// NTSC timing: 3.579545 MHz, 262 scanlines, 60 Hz
var NTSCTiming = Timing{
	CPUClockHz: 3579545,
	Scanlines:  262,
	FPS:        60,
}

// PAL timing: 3.546893 MHz, 313 scanlines, 50 Hz
var PALTiming = Timing{
	CPUClockHz: 3546893,
	Scanlines:  313,
	FPS:        50,
}

// Timing returns the timing constants for s
func (s VideoStandard) Timing() Timing {
	if s == VideoPAL {
		return PALTiming
	}
	return NTSCTiming
}

// LineCycles returns the CPU cycles in one scanline.
func (t Timing) LineCycles() int {
	if t.FPS <= 0 || t.Scanlines <= 0 {
		return 0
	}
	return t.CPUClockHz / t.FPS / t.Scanlines
}
