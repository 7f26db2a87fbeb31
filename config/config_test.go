package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/chunga2020/ac100/arch"
	"github.com/chunga2020/ac100/config"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfig(t *testing.T) {
	cfg := config.DefaultConfig()

	require.Equal(t, arch.DefaultVideoRows, cfg.Display.Rows)
	require.Equal(t, arch.DefaultVideoColumns, cfg.Display.Columns)
	require.Equal(t, "none", cfg.Display.DumpMode)
	require.Equal(t, "hex", cfg.Display.NumberFormat)
	require.Equal(t, "out.bin", cfg.Assembler.OutputFile)
	require.False(t, cfg.Assembler.Listing)
	require.EqualValues(t, 1_000_000, cfg.Execution.MaxIterations)
}

func TestSaveToAndLoadFromRoundTrip(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")

	cfg := config.DefaultConfig()
	cfg.Display.Rows = 30
	cfg.Display.Columns = 80
	cfg.Assembler.OutputFile = "program.bin"
	cfg.Assembler.Listing = true

	require.NoError(t, cfg.SaveTo(path))

	loaded, err := config.LoadFrom(path)
	require.NoError(t, err)
	require.Equal(t, cfg.Display.Rows, loaded.Display.Rows)
	require.Equal(t, cfg.Display.Columns, loaded.Display.Columns)
	require.Equal(t, cfg.Assembler.OutputFile, loaded.Assembler.OutputFile)
	require.True(t, loaded.Assembler.Listing)
}

func TestLoadFromMissingFileReturnsDefaults(t *testing.T) {
	cfg, err := config.LoadFrom(filepath.Join(t.TempDir(), "does-not-exist.toml"))
	require.NoError(t, err)
	require.Equal(t, config.DefaultConfig(), cfg)
}

func TestLoadFromMalformedFileIsAHardError(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "bad.toml")
	require.NoError(t, os.WriteFile(path, []byte("this is not valid toml :::"), 0644))

	_, err := config.LoadFrom(path)
	require.Error(t, err)
}

func TestVRAMLayout(t *testing.T) {
	start, err := config.VRAMLayout(arch.DefaultVideoRows, arch.DefaultVideoColumns)
	require.NoError(t, err)
	require.Equal(t, arch.VRAMStart, start)

	_, err = config.VRAMLayout(-1, 10)
	require.Error(t, err)
	var negErr *config.NegativeVideoDimensionError
	require.ErrorAs(t, err, &negErr)

	_, err = config.VRAMLayout(1000, 1000)
	require.Error(t, err)
	var tooLargeErr *config.VRAMTooLargeError
	require.ErrorAs(t, err, &tooLargeErr)
}
