package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/user-none/emhomebrew/emu"
	"github.com/user-none/emhomebrew/host"
	"github.com/user-none/emhomebrew/romloader"
	"github.com/user-none/emhomebrew/storage"
)

func main() {
	romPath := flag.String("rom", "", "path to ROM image or archive (required)")
	configPath := flag.String("config", "", "config file (default: user config dir)")
	scale := flag.Int("scale", 0, "window scale")
	keyboard := flag.String("keyboard", "", "keyboard device: via or pc")
	video := flag.String("video", "", "VDP variant: ntsc (TMS9918A) or pal (TMS9929A)")
	vram4k := flag.Bool("vram4k", false, "power up with 4K VRAM")
	mute := flag.Bool("mute", false, "start with audio muted")
	saveConfig := flag.Bool("save-config", false, "write the effective settings back to the config file")
	flag.Parse()

	if *romPath == "" {
		fmt.Println("Usage: homebrew -rom <file> [-config file] [-scale n] [-keyboard via|pc] [-video ntsc|pal] [-vram4k] [-mute] [-save-config]")
		os.Exit(1)
	}

	if *configPath == "" {
		p, err := storage.GetConfigPath()
		if err != nil {
			log.Fatalf("Failed to locate config: %v", err)
		}
		*configPath = p
	}
	config, err := storage.LoadConfigFile(*configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// Flags given on the command line override the file
	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "scale":
			config.Video.Scale = *scale
		case "keyboard":
			config.Input.Keyboard = *keyboard
		case "video":
			config.Machine.Video = *video
		case "vram4k":
			config.Video.VRAM16K = !*vram4k
		case "mute":
			config.Audio.Muted = *mute
		}
	})
	mode, ok := host.ParseKeyboardMode(config.Input.Keyboard)
	if !ok {
		log.Fatalf("Invalid keyboard: %s (use via or pc)", config.Input.Keyboard)
	}
	std, ok := emu.ParseVideoStandard(config.Machine.Video)
	if !ok {
		log.Fatalf("Invalid video: %s (use ntsc or pal)", config.Machine.Video)
	}
	if config.Video.Scale < 1 {
		log.Fatalf("Invalid scale: %d", config.Video.Scale)
	}
	if *saveConfig {
		if err := storage.SaveConfigFile(*configPath, config); err != nil {
			log.Fatalf("Failed to save config: %v", err)
		}
	}

	romData, name, err := romloader.LoadROM(*romPath)
	if err != nil {
		log.Fatalf("Failed to load ROM: %v", err)
	}

	opts := emu.OptionsFor(std)
	if config.Machine.CPUClockHz > 0 {
		opts.CPUClockHz = config.Machine.CPUClockHz
	}
	if config.Machine.FPS > 0 {
		opts.FPS = config.Machine.FPS
	}
	opts.VRAM16K = config.Video.VRAM16K
	opts.OnBusError = busErrorLogger()
	m, err := emu.NewMachine(romData, opts)
	if err != nil {
		log.Fatalf("Failed to initialize machine: %v", err)
	}

	runner := host.NewRunner(m, host.Options{
		Keyboard: mode,
		Volume:   config.Audio.Volume,
		Muted:    config.Audio.Muted,
	})
	defer runner.Close()

	w, h := m.FrameSize()
	ebiten.SetWindowSize(w*config.Video.Scale, h*config.Video.Scale)
	ebiten.SetWindowTitle("Homebrew - " + name)
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	ebiten.SetTPS(opts.FPS)

	if err := ebiten.RunGame(runner); err != nil {
		log.Fatal(err)
	}
}

// busErrorLogger logs the first few unmapped CPU accesses. A runaway
// program would otherwise flood the log.
func busErrorLogger() func(error) {
	const limit = 16
	count := 0
	return func(err error) {
		count++
		switch {
		case count < limit:
			log.Printf("bus: %v", err)
		case count == limit:
			log.Printf("bus: %v (further bus errors suppressed)", err)
		}
	}
}
