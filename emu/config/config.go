// Package config resolves the emulator settings from flags, the environment
// and the optional $HOME/.chyp8.yaml file.
package config

import (
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/beanboi7/chyp-8/emu/cpu"
	"github.com/beanboi7/chyp-8/emu/system"
	homedir "github.com/mitchellh/go-homedir"
	"github.com/retroenv/retrogolib/log"
	"github.com/spf13/viper"
)

// Setting keys, also used as flag names.
const (
	KeyRefresh    = "refresh"
	KeyCycles     = "cycles"
	KeyScale      = "scale"
	KeyFrontend   = "frontend"
	KeyOnError    = "on-error"
	KeyDelayTimer = "delay-timer"
	KeySoundTimer = "sound-timer"
	KeySeed       = "seed"
	KeyTrace      = "trace"
	KeyDebug      = "debug"
	KeyQuiet      = "quiet"
)

const (
	FrontendWindow   = "window"
	FrontendTerminal = "terminal"
)

const (
	DefaultRefresh = 60
	DefaultCycles  = 10
	DefaultScale   = 8
)

const (
	envPrefix = "CHYP8"
	fileName  = ".chyp8"
)

var ErrInvalid = errors.New("invalid setting")

// Config holds the resolved settings.
type Config struct {
	Refresh    int
	Cycles     int
	Scale      int
	Frontend   string
	OnError    system.Policy
	DelayTimer uint8
	SoundTimer uint8
	Seed       int64
	Trace      bool
	Debug      bool
	Quiet      bool
}

// SetDefaults registers the default of every setting.
func SetDefaults(v *viper.Viper) {
	v.SetDefault(KeyRefresh, DefaultRefresh)
	v.SetDefault(KeyCycles, DefaultCycles)
	v.SetDefault(KeyScale, DefaultScale)
	v.SetDefault(KeyFrontend, FrontendWindow)
	v.SetDefault(KeyOnError, system.PolicyHalt.String())
	v.SetDefault(KeyDelayTimer, 0)
	v.SetDefault(KeySoundTimer, 0)
	v.SetDefault(KeySeed, 0)
	v.SetDefault(KeyTrace, false)
	v.SetDefault(KeyDebug, false)
	v.SetDefault(KeyQuiet, false)
}

// ReadFile enables CHYP8_* environment variables and reads the config file.
// An empty path searches the home directory for .chyp8.yaml, a missing file
// there is not an error. The used file name is returned.
func ReadFile(v *viper.Viper, path string) (string, error) {
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
	} else {
		home, err := homedir.Dir()
		if err != nil {
			return "", fmt.Errorf("finding home directory: %w", err)
		}
		v.AddConfigPath(home)
		v.SetConfigName(fileName)
		v.SetConfigType("yaml")
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path == "" && errors.As(err, &notFound) {
			return "", nil
		}
		return "", fmt.Errorf("reading config file: %w", err)
	}
	return v.ConfigFileUsed(), nil
}

// Load resolves and validates all settings.
func Load(v *viper.Viper) (Config, error) {
	cfg := Config{
		Refresh:  v.GetInt(KeyRefresh),
		Cycles:   v.GetInt(KeyCycles),
		Scale:    v.GetInt(KeyScale),
		Frontend: strings.ToLower(v.GetString(KeyFrontend)),
		Seed:     v.GetInt64(KeySeed),
		Trace:    v.GetBool(KeyTrace),
		Debug:    v.GetBool(KeyDebug),
		Quiet:    v.GetBool(KeyQuiet),
	}

	for key, val := range map[string]int{
		KeyRefresh: cfg.Refresh,
		KeyCycles:  cfg.Cycles,
		KeyScale:   cfg.Scale,
	} {
		if val <= 0 {
			return Config{}, fmt.Errorf("%w: %s must be positive, got %d", ErrInvalid, key, val)
		}
	}

	switch cfg.Frontend {
	case FrontendWindow, FrontendTerminal:
	default:
		return Config{}, fmt.Errorf("%w: unsupported %s '%s'", ErrInvalid, KeyFrontend, cfg.Frontend)
	}

	policy, err := system.ParsePolicy(v.GetString(KeyOnError))
	if err != nil {
		return Config{}, fmt.Errorf("%w: %s: %w", ErrInvalid, KeyOnError, err)
	}
	cfg.OnError = policy

	if cfg.DelayTimer, err = timerValue(v, KeyDelayTimer); err != nil {
		return Config{}, err
	}
	if cfg.SoundTimer, err = timerValue(v, KeySoundTimer); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func timerValue(v *viper.Viper, key string) (uint8, error) {
	val := v.GetInt(key)
	if val < 0 || val > math.MaxUint8 {
		return 0, fmt.Errorf("%w: %s must be in 0-255, got %d", ErrInvalid, key, val)
	}
	return uint8(val), nil
}

// SystemOptions converts the settings into the options of a new system.
// A zero seed is replaced by the current time.
func (c Config) SystemOptions(logger *log.Logger) system.Options {
	seed := c.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}

	opts := system.Options{
		Machine: cpu.Options{
			DelayTimer: c.DelayTimer,
			SoundTimer: c.SoundTimer,
			Seed:       seed,
		},
		Policy: c.OnError,
	}
	if c.Trace {
		opts.Tracer = system.NewLogTracer(logger)
	}
	return opts
}

// RunOptions returns the frame loop settings.
func (c Config) RunOptions() system.RunOptions {
	return system.RunOptions{
		Refresh: c.Refresh,
		Cycles:  c.Cycles,
	}
}

// NewLogger creates a logger for the requested verbosity.
func NewLogger(debug, quiet bool) *log.Logger {
	cfg := log.DefaultConfig()
	if debug {
		cfg.Level = log.DebugLevel
	} else if quiet {
		cfg.Level = log.ErrorLevel
	}
	return log.NewWithConfig(cfg)
}
