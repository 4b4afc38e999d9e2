package storage

import (
	"errors"
	"os"
)

// LoadConfig loads config.json from the user config directory.
func LoadConfig() (*Config, error) {
	path, err := GetConfigPath()
	if err != nil {
		return nil, err
	}
	return LoadConfigFile(path)
}

// LoadConfigFile loads the configuration at path.
// If the file doesn't exist, it returns default configuration.
// If the file is corrupted, it returns an error.
func LoadConfigFile(path string) (*Config, error) {
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		return DefaultConfig(), nil
	}

	// Fields absent from the file keep their defaults
	config := DefaultConfig()
	config.Version = 0
	if err := ReadJSON(path, config); err != nil {
		return nil, err
	}
	return migrateConfig(config), nil
}

// SaveConfig saves the configuration to config.json atomically
func SaveConfig(config *Config) error {
	path, err := GetConfigPath()
	if err != nil {
		return err
	}
	return SaveConfigFile(path, config)
}

// SaveConfigFile saves the configuration to path atomically
func SaveConfigFile(path string, config *Config) error {
	return AtomicWriteJSON(path, config)
}

// migrateConfig upgrades older layouts and repairs out of range values
func migrateConfig(config *Config) *Config {
	def := DefaultConfig()

	if config.Version == 0 {
		config.Version = CurrentVersion
	}
	if config.Video.Scale < 1 {
		config.Video.Scale = def.Video.Scale
	}
	if config.Audio.Volume < 0 || config.Audio.Volume > 1 {
		config.Audio.Volume = def.Audio.Volume
	}
	if config.Input.Keyboard != KeyboardVIA && config.Input.Keyboard != KeyboardPC {
		config.Input.Keyboard = def.Input.Keyboard
	}
	if config.Machine.Video != "ntsc" && config.Machine.Video != "pal" {
		config.Machine.Video = def.Machine.Video
	}
	if config.Machine.CPUClockHz < 0 {
		config.Machine.CPUClockHz = 0
	}
	if config.Machine.FPS < 0 {
		config.Machine.FPS = 0
	}
	return config
}
