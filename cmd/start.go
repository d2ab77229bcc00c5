package cmd

import (
	"context"
	"fmt"

	"github.com/beanboi7/chyp-8/emu/config"
	"github.com/beanboi7/chyp-8/emu/rom"
	"github.com/beanboi7/chyp-8/emu/screen"
	"github.com/beanboi7/chyp-8/emu/system"
	"github.com/beanboi7/chyp-8/emu/term"
	"github.com/faiface/pixel/pixelgl"
	"github.com/retroenv/retrogolib/app"
	"github.com/retroenv/retrogolib/log"
	"github.com/spf13/cobra"
)

var startCmd = &cobra.Command{
	Use:   "start path/ROM",
	Short: "load and start the emulator",
	Args:  cobra.ExactArgs(1),
	RunE:  start,
}

func init() {
	flags := startCmd.Flags()
	flags.IntP(config.KeyRefresh, "r", config.DefaultRefresh, "sets the refresh rate of the display in Hz")
	flags.IntP(config.KeyCycles, "c", config.DefaultCycles, "instructions executed per frame")
	flags.StringP(config.KeyFrontend, "f", config.FrontendWindow, "frontend to use: window or terminal")
	flags.IntP(config.KeyScale, "s", config.DefaultScale, "window pixels per CHIP-8 pixel")
}

// chyp8 start path/to/ROM -r 120
func start(_ *cobra.Command, args []string) error {
	sys, err := loadSystem(args[0])
	if err != nil {
		return err
	}

	ctx := app.Context()

	logger.Info("Starting emulator",
		log.String("rom", args[0]),
		log.String("frontend", settings.Frontend),
	)

	if settings.Frontend == config.FrontendTerminal {
		return runTerminal(ctx, sys)
	}
	return runWindow(ctx, sys)
}

func loadSystem(path string) (*system.System, error) {
	data, err := rom.Load(path)
	if err != nil {
		return nil, err
	}

	sys := system.New(logger, settings.SystemOptions(logger))
	if err := sys.LoadROM(data); err != nil {
		return nil, fmt.Errorf("loading ROM '%s': %w", path, err)
	}
	return sys, nil
}

// runWindow runs the system in a window, it has to be called from the main
// goroutine.
func runWindow(ctx context.Context, sys *system.System) error {
	var err error
	pixelgl.Run(func() {
		var win *screen.Window
		win, err = screen.New(settings.Scale)
		if err != nil {
			return
		}
		defer win.Close()

		err = sys.Run(ctx, win, settings.RunOptions())
	})
	return err
}

func runTerminal(ctx context.Context, sys *system.System) (err error) {
	t, err := term.New()
	if err != nil {
		return err
	}
	defer func() {
		if cerr := t.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}()

	return sys.Run(ctx, t, settings.RunOptions())
}
