package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/beanboi7/chyp-8/emu/system"
	homedir "github.com/mitchellh/go-homedir"
	"github.com/retroenv/retrogolib/assert"
	"github.com/retroenv/retrogolib/log"
	"github.com/spf13/viper"
)

func newViper() *viper.Viper {
	v := viper.New()
	SetDefaults(v)
	return v
}

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load(newViper())
	assert.NoError(t, err)

	assert.Equal(t, 60, cfg.Refresh)
	assert.Equal(t, 10, cfg.Cycles)
	assert.Equal(t, 8, cfg.Scale)
	assert.Equal(t, FrontendWindow, cfg.Frontend)
	assert.Equal(t, system.PolicyHalt, cfg.OnError)
	assert.Equal(t, uint8(0), cfg.DelayTimer)
	assert.Equal(t, uint8(0), cfg.SoundTimer)
	assert.Equal(t, int64(0), cfg.Seed)
	assert.False(t, cfg.Trace)
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		key string
		val any
	}{
		{KeyRefresh, 0},
		{KeyCycles, -1},
		{KeyScale, 0},
		{KeyFrontend, "vga"},
		{KeyOnError, "ignore"},
		{KeyDelayTimer, 256},
		{KeySoundTimer, -1},
	}

	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			v := newViper()
			v.Set(tt.key, tt.val)

			_, err := Load(v)
			assert.True(t, errors.Is(err, ErrInvalid))
			assert.ErrorContains(t, err, tt.key)
		})
	}
}

func TestReadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "chyp8.yaml")
	content := "cycles: 20\non-error: skip\nfrontend: terminal\ndelay-timer: 30\n"
	assert.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	v := newViper()
	used, err := ReadFile(v, path)
	assert.NoError(t, err)
	assert.Equal(t, path, used)

	cfg, err := Load(v)
	assert.NoError(t, err)
	assert.Equal(t, 20, cfg.Cycles)
	assert.Equal(t, system.PolicySkip, cfg.OnError)
	assert.Equal(t, FrontendTerminal, cfg.Frontend)
	assert.Equal(t, uint8(30), cfg.DelayTimer)
	assert.Equal(t, 60, cfg.Refresh)
}

func TestReadFile_Missing(t *testing.T) {
	_, err := ReadFile(newViper(), filepath.Join(t.TempDir(), "missing.yaml"))
	assert.ErrorContains(t, err, "reading config file")
}

func TestReadFile_Environment(t *testing.T) {
	homedir.DisableCache = true
	t.Setenv("HOME", t.TempDir())
	t.Setenv("CHYP8_REFRESH", "120")
	t.Setenv("CHYP8_ON_ERROR", "skip")

	v := newViper()
	used, err := ReadFile(v, "")
	assert.NoError(t, err)
	assert.Equal(t, "", used)

	cfg, err := Load(v)
	assert.NoError(t, err)
	assert.Equal(t, 120, cfg.Refresh)
	assert.Equal(t, system.PolicySkip, cfg.OnError)
}

func TestSystemOptions(t *testing.T) {
	logger := log.NewTestLogger(t)

	cfg := Config{DelayTimer: 5, SoundTimer: 7, Seed: 42, OnError: system.PolicySkip}
	opts := cfg.SystemOptions(logger)
	assert.Equal(t, uint8(5), opts.Machine.DelayTimer)
	assert.Equal(t, uint8(7), opts.Machine.SoundTimer)
	assert.Equal(t, int64(42), opts.Machine.Seed)
	assert.Equal(t, system.PolicySkip, opts.Policy)
	assert.Nil(t, opts.Tracer)

	cfg = Config{Trace: true}
	opts = cfg.SystemOptions(logger)
	assert.True(t, opts.Machine.Seed != 0)
	assert.NotNil(t, opts.Tracer)

	run := Config{Refresh: 30, Cycles: 4}.RunOptions()
	assert.Equal(t, 30, run.Refresh)
	assert.Equal(t, 4, run.Cycles)
}
