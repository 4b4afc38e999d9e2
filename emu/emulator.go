package emu

import (
	"fmt"

	"github.com/user-none/go-chip-z80"
)

// Memory map
const (
	ROMStart = 0x0000
	ROMEnd   = 0x7FFF
	ROMSize  = ROMEnd - ROMStart + 1
	RAMStart = 0x8000
	RAMEnd   = 0xFEFF

	VIAStart        = 0xFF40
	VIAEnd          = 0xFF4F
	GPIOStart       = 0xFF50
	GPIOEnd         = 0xFF5F
	VDPStart        = 0xFF60
	VDPEnd          = 0xFF63
	PCKeyboardStart = 0xFFA0
	PCKeyboardEnd   = 0xFFA3
	SoundPort       = 0xFFB0
)

// Defaults for Options
const (
	DefaultCPUClockHz = 3579545
	DefaultFPS        = 60
	DefaultSampleRate = 48000
)

// Options configures a Machine.
type Options struct {
	CPUClockHz int
	FPS        int
	Scanlines  int
	SampleRate int
	VRAM16K    bool
	Palette    *Palette

	// OnBusError receives every failed CPU bus access. nil drops them.
	OnBusError func(error)
}

// DefaultOptions returns the stock NTSC board configuration.
func DefaultOptions() Options {
	return OptionsFor(VideoNTSC)
}

// OptionsFor returns the stock configuration for a board fitted with the
// VDP variant for std.
func OptionsFor(std VideoStandard) Options {
	t := std.Timing()
	return Options{
		CPUClockHz: t.CPUClockHz,
		FPS:        t.FPS,
		Scanlines:  t.Scanlines,
		SampleRate: DefaultSampleRate,
		VRAM16K:    true,
	}
}

// Machine is the assembled board: a Z80 running ROM code against the bus,
// with the VDP, keyboard interfaces, a spare VIA and sound chip mapped into it.
type Machine struct {
	cpu      *z80.CPU
	bus      *Bus
	cpuBus   *CPUBus
	rom      *ROM
	ram      *RAM
	vdp      *VDP
	renderer *Renderer
	matrix   *KeyMatrix
	via      *VIAKeyboard
	gpio     *VIA
	pcKeys   *PCKeyboard
	sound    *SoundDevice

	cyclesPerFrame int
	lineCycles     int
	sampleRate     int
	audio          []int16
}

// NewMachine assembles a machine running rom.
func NewMachine(rom []byte, opts Options) (*Machine, error) {
	if len(rom) > ROMSize {
		return nil, fmt.Errorf("rom is %d bytes, limit is %d", len(rom), ROMSize)
	}
	def := DefaultOptions()
	if opts.CPUClockHz <= 0 {
		opts.CPUClockHz = def.CPUClockHz
	}
	if opts.FPS <= 0 {
		opts.FPS = def.FPS
	}
	if opts.Scanlines <= 0 {
		opts.Scanlines = def.Scanlines
	}
	if opts.SampleRate <= 0 {
		opts.SampleRate = def.SampleRate
	}
	palette := DefaultPalette
	if opts.Palette != nil {
		palette = *opts.Palette
	}

	m := &Machine{
		bus:            NewBus(),
		rom:            NewROM(ROMSize, rom),
		ram:            NewRAM("RAM", RAMEnd-RAMStart+1),
		vdp:            NewVDP(opts.VRAM16K),
		renderer:       NewRenderer(palette),
		matrix:         NewKeyMatrix(),
		gpio:           NewVIA(),
		pcKeys:         NewPCKeyboard(),
		sound:          NewSoundDevice(opts.CPUClockHz, opts.SampleRate),
		cyclesPerFrame: opts.CPUClockHz / opts.FPS,
		lineCycles:     max(Timing{opts.CPUClockHz, opts.Scanlines, opts.FPS}.LineCycles(), 1),
		sampleRate:     opts.SampleRate,
	}
	m.via = NewVIAKeyboard(m.matrix)

	mappings := []struct {
		dev        AddressableDevice
		start, end uint16
	}{
		{m.rom, ROMStart, ROMEnd},
		{m.ram, RAMStart, RAMEnd},
		{m.via, VIAStart, VIAEnd},
		{m.gpio, GPIOStart, GPIOEnd},
		{m.vdp, VDPStart, VDPEnd},
		{m.pcKeys, PCKeyboardStart, PCKeyboardEnd},
		{m.sound, SoundPort, SoundPort},
	}
	for _, mp := range mappings {
		if err := m.bus.Map(mp.dev, mp.start, mp.end); err != nil {
			return nil, err
		}
	}

	m.cpuBus = NewCPUBus(m.bus)
	m.cpuBus.OnError = opts.OnBusError
	m.cpu = z80.New(m.cpuBus)
	return m, nil
}

// updateINT drives the CPU INT line from the VDP. The line is level
// triggered, so it is refreshed after every instruction and drops as soon
// as the status register is read.
func (m *Machine) updateINT() {
	m.cpu.INT(m.vdp.InterruptPending(), 0xFF)
}

// RunFrame executes one frame: raises the frame interrupt, runs the CPU
// for the frame's cycle budget, renders the display and collects audio.
// The sound chip is brought up to date once per scanline.
// A render error leaves the previous frame in place and is returned.
func (m *Machine) RunFrame() error {
	if m.vdp.InterruptEnabled() && !m.vdp.IsInterrupted() {
		m.vdp.SetInterruptFlag()
	}
	m.updateINT()

	consumed, pending := 0, 0
	for consumed < m.cyclesPerFrame {
		n := m.cpu.Step()
		if n <= 0 {
			n = 4
		}
		consumed += n
		pending += n
		m.updateINT()
		if pending >= m.lineCycles {
			m.sound.Run(pending)
			pending = 0
		}
	}
	if pending > 0 {
		m.sound.Run(pending)
	}

	m.audio = m.sound.Samples()
	_, err := m.renderer.Render(m.vdp)
	return err
}

// Reset resets the CPU and sound chip and releases all keys. Memory and
// VDP contents are kept, as on a reset button press.
func (m *Machine) Reset() {
	m.cpu.Reset()
	m.cpu.INT(false, 0xFF)
	m.sound.Reset()
	m.matrix.Release()
}

// Frame returns the last rendered frame as 0xAARRGGBB pixels.
func (m *Machine) Frame() []uint32 { return m.renderer.Frame() }

// FrameSize returns the frame dimensions including the border.
func (m *Machine) FrameSize() (width, height int) {
	return m.renderer.Width(), m.renderer.Height()
}

// AudioSamples returns the last frame's 16-bit stereo PCM samples.
func (m *Machine) AudioSamples() []int16 { return m.audio }

// SampleRate returns the audio output rate.
func (m *Machine) SampleRate() int { return m.sampleRate }

func (m *Machine) Bus() *Bus               { return m.bus }
func (m *Machine) VDP() *VDP               { return m.vdp }
func (m *Machine) Renderer() *Renderer     { return m.renderer }
func (m *Machine) KeyMatrix() *KeyMatrix   { return m.matrix }
func (m *Machine) VIA() *VIAKeyboard       { return m.via }
func (m *Machine) GPIO() *VIA              { return m.gpio }
func (m *Machine) PCKeyboard() *PCKeyboard { return m.pcKeys }
func (m *Machine) RAM() *RAM               { return m.ram }

// PC returns the CPU program counter.
func (m *Machine) PC() uint16 { return m.cpu.Registers().PC }
