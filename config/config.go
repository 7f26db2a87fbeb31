// Package config loads and validates the AC100 toolchain's optional TOML
// configuration: default video geometry, debug-dump formatting, and the
// assembler's default output settings. Shape (DefaultConfig/Load/
// LoadFrom/Save/SaveTo/GetConfigPath/GetLogPath) is carried over from the
// teacher's own config package; the schema is the AC100's.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"

	"github.com/BurntSushi/toml"
	"github.com/chunga2020/ac100/arch"
)

// Config is the AC100 toolchain's full configuration surface.
type Config struct {
	Execution struct {
		// DefaultEntry documents the address execution begins at; the
		// AC100 has no configurable entry point (PC always starts at
		// CodeStart), so this is informational only, carried over from
		// the original's behavior of printing it at startup.
		DefaultEntry string `toml:"default_entry"`
		// MaxIterations bounds the fetch/execute loop as a runaway-
		// program guard, generalizing the teacher's MaxCycles: the
		// AC100 ISA has no interrupt or timer to break an infinite
		// loop, so the loop itself must cap iterations.
		MaxIterations uint64 `toml:"max_iterations"`
	} `toml:"execution"`

	Display struct {
		Rows          int    `toml:"rows"`
		Columns       int    `toml:"columns"`
		DumpMode      string `toml:"dump_mode"` // none, registers, ram, flags, all
		NumberFormat  string `toml:"number_format"`
	} `toml:"display"`

	Assembler struct {
		OutputFile string `toml:"output_file"`
		Listing    bool   `toml:"listing"`
	} `toml:"assembler"`
}

// DefaultConfig returns a Config populated with the AC100's out-of-the-box
// defaults.
func DefaultConfig() *Config {
	cfg := &Config{}

	cfg.Execution.DefaultEntry = fmt.Sprintf("0x%04x", arch.CodeStart)
	cfg.Execution.MaxIterations = 1_000_000

	cfg.Display.Rows = arch.DefaultVideoRows
	cfg.Display.Columns = arch.DefaultVideoColumns
	cfg.Display.DumpMode = "none"
	cfg.Display.NumberFormat = "hex"

	cfg.Assembler.OutputFile = "out.bin"
	cfg.Assembler.Listing = false

	return cfg
}

// NegativeVideoDimensionError reports a configured row or column count
// below zero (spec §4.9).
type NegativeVideoDimensionError struct {
	Rows, Columns int
}

func (e *NegativeVideoDimensionError) Error() string {
	return fmt.Sprintf("video dimensions must be non-negative: rows=%d columns=%d", e.Rows, e.Columns)
}

// VRAMTooLargeError reports a configured video geometry that would push
// VRAM_START below STACK_MIN, leaving no room for code (spec §4.9).
type VRAMTooLargeError struct {
	Rows, Columns int
}

func (e *VRAMTooLargeError) Error() string {
	return fmt.Sprintf("video geometry %dx%d leaves no room for code (VRAM_START would fall below 0x%04x)",
		e.Rows, e.Columns, arch.StackMin)
}

// VRAMLayout validates a configured video geometry and returns the
// resulting VRAM_START. On failure the caller should log the error and
// fall back to the default geometry (spec §4.9: "on any failure, defaults
// are used and the event is logged" — recovery is the caller's job so it
// can choose how to log it).
func VRAMLayout(rows, columns int) (vramStart int, err error) {
	if rows < 0 || columns < 0 {
		return 0, &NegativeVideoDimensionError{Rows: rows, Columns: columns}
	}
	start := arch.VRAMStartFor(rows, columns)
	if start < arch.StackMin {
		return 0, &VRAMTooLargeError{Rows: rows, Columns: columns}
	}
	return start, nil
}

// GetConfigPath returns the platform-specific config file path.
func GetConfigPath() string {
	var configDir string

	switch runtime.GOOS {
	case "windows":
		configDir = os.Getenv("APPDATA")
		if configDir == "" {
			configDir = filepath.Join(os.Getenv("USERPROFILE"), "AppData", "Roaming")
		}
		configDir = filepath.Join(configDir, "ac100")

	case "darwin", "linux":
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return "config.toml"
		}
		configDir = filepath.Join(homeDir, ".config", "ac100")

	default:
		return "config.toml"
	}

	if err := os.MkdirAll(configDir, 0750); err != nil {
		return "config.toml"
	}

	return filepath.Join(configDir, "config.toml")
}

// GetLogPath returns the platform-specific log directory path.
func GetLogPath() string {
	var logDir string

	switch runtime.GOOS {
	case "windows":
		logDir = os.Getenv("APPDATA")
		if logDir == "" {
			logDir = filepath.Join(os.Getenv("USERPROFILE"), "AppData", "Roaming")
		}
		logDir = filepath.Join(logDir, "ac100", "logs")

	case "darwin", "linux":
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return "logs"
		}
		logDir = filepath.Join(homeDir, ".local", "share", "ac100", "logs")

	default:
		return "logs"
	}

	if err := os.MkdirAll(logDir, 0750); err != nil {
		return "logs"
	}

	return logDir
}

// Load loads configuration from the default config file.
func Load() (*Config, error) {
	return LoadFrom(GetConfigPath())
}

// LoadFrom loads configuration from the specified file. A missing file is
// not an error: the defaults are returned. A present but malformed file
// is a hard error, unlike an invalid video dimension, which is recovered
// locally by the caller via VRAMLayout.
func LoadFrom(path string) (*Config, error) {
	cfg := DefaultConfig()

	if _, err := os.Stat(path); os.IsNotExist(err) {
		return cfg, nil
	}

	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	return cfg, nil
}

// Save saves configuration to the default config file.
func (c *Config) Save() error {
	return c.SaveTo(GetConfigPath())
}

// SaveTo saves configuration to the specified file.
func (c *Config) SaveTo(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0750); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	f, err := os.Create(path) // #nosec G304 -- user config file path
	if err != nil {
		return fmt.Errorf("failed to create config file: %w", err)
	}
	defer f.Close()

	enc := toml.NewEncoder(f)
	if err := enc.Encode(c); err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}

	return nil
}
