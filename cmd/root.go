package cmd

import (
	"fmt"

	"github.com/beanboi7/chyp-8/emu/config"
	"github.com/beanboi7/chyp-8/emu/system"
	"github.com/retroenv/retrogolib/log"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	cfgFile  string
	settings config.Config
	logger   *log.Logger
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "chyp8 [command]",
	Short: "Chip-8 emulator using Go",
	Long: "A Chip-8 emulator written from scratch that mimics the functionalities of a Chip-8, " +
		"an interpreted language originally written for the COSMAC VIP / Telmac 8 bit systems.",
	SilenceUsage:      true,
	SilenceErrors:     true,
	PersistentPreRunE: initConfig,
}

func init() {
	rootCmd.AddCommand(startCmd, disasmCmd, versionCmd)

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&cfgFile, "config", "", "config file (default is $HOME/.chyp8.yaml)")
	flags.Bool(config.KeyDebug, false, "enable debug logging")
	flags.BoolP(config.KeyQuiet, "q", false, "only log errors")
	flags.Bool(config.KeyTrace, false, "log every executed instruction, needs --debug")
	flags.String(config.KeyOnError, system.PolicyHalt.String(), "what to do on a failing instruction: halt or skip")
	flags.Int64(config.KeySeed, 0, "seed of the random number generator, 0 uses the current time")
	flags.Uint8(config.KeyDelayTimer, 0, "delay timer value at power on")
	flags.Uint8(config.KeySoundTimer, 0, "sound timer value at power on")
}

// Execute runs the command line.
func Execute() error {
	return rootCmd.Execute()
}

// initConfig reads in config file and ENV variables if set and resolves the
// settings of the command about to run.
func initConfig(cmd *cobra.Command, _ []string) error {
	v := viper.New()
	config.SetDefaults(v)

	used, err := config.ReadFile(v, cfgFile)
	if err != nil {
		return err
	}
	if err := v.BindPFlags(cmd.Flags()); err != nil {
		return fmt.Errorf("binding flags: %w", err)
	}

	settings, err = config.Load(v)
	if err != nil {
		return err
	}

	logger = config.NewLogger(settings.Debug, settings.Quiet)
	if used != "" {
		logger.Debug("Using config file", log.String("file", used))
	}
	return nil
}
