package storage

// CurrentVersion is the config.json layout written by this build.
const CurrentVersion = 1

// Keyboard interfaces a ROM can read host keys through
const (
	KeyboardVIA = "via" // key matrix scanned through the 6522
	KeyboardPC  = "pc"  // PC virtual keyboard registers
)

// Config represents the application configuration stored in config.json
type Config struct {
	Version int           `json:"version"`
	Video   VideoConfig   `json:"video"`
	Audio   AudioConfig   `json:"audio"`
	Input   InputConfig   `json:"input"`
	Machine MachineConfig `json:"machine"`
}

// VideoConfig contains video-related settings
type VideoConfig struct {
	Scale   int  `json:"scale"`
	VRAM16K bool `json:"vram16k"`
}

// AudioConfig contains audio-related settings
type AudioConfig struct {
	Volume float64 `json:"volume"`
	Muted  bool    `json:"muted"`
}

// InputConfig selects where host key presses are delivered
type InputConfig struct {
	Keyboard string `json:"keyboard"` // "via" or "pc"
}

// MachineConfig contains board timing. Zero clock and frame rate take the
// video standard's values.
type MachineConfig struct {
	Video      string `json:"video"` // "ntsc" or "pal"
	CPUClockHz int    `json:"cpuClockHz,omitempty"`
	FPS        int    `json:"fps,omitempty"`
}

// DefaultConfig returns the configuration used when no file exists
func DefaultConfig() *Config {
	return &Config{
		Version: CurrentVersion,
		Video: VideoConfig{
			Scale:   3,
			VRAM16K: true,
		},
		Audio: AudioConfig{
			Volume: 1.0,
		},
		Input: InputConfig{
			Keyboard: KeyboardVIA,
		},
		Machine: MachineConfig{
			Video: "ntsc",
		},
	}
}
