package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"racer/internal/game"
	"racer/log"
	"racer/pkg/config"
)

const envPrefix = "RACER"

var cfgFile string

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "racer",
	Short: "Top-down lap racer with editable checkpoint gates",
	Long: `Drive a car around a track image with the arrow keys.
Left-click twice to add a checkpoint gate, right-click to move the spawn point,
press C to clear all gates. Gates and spawn are saved to the data file.`,
	SilenceUsage: true,
	Args:         cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return run(cmd.Context())
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "",
		"config file (default is $HOME/.racer.yml)")

	rootCmd.Flags().StringVar(&config.TrackFile, "track", "track.png",
		"Track image; near-black pixels are walls")
	rootCmd.Flags().StringVar(&config.DataFile, "data", "track_data.txt",
		"File holding the spawn point and checkpoint gates")
	rootCmd.Flags().IntVar(&config.TickRate, "tick-rate", 60,
		"Simulation rate in ticks per second")
	rootCmd.Flags().StringVar(&config.LogLevel, "log-level", "info",
		"controls the log level (debug, info, warn, error, fatal)")
	rootCmd.Flags().StringVar(&config.LogFormat, "log-format", "text",
		"controls the log output format (json, text)")
	rootCmd.Flags().BoolVar(&config.Mute, "mute", false,
		"Disable sound effects")
	rootCmd.Flags().BoolVar(&config.Watch, "watch", true,
		"Reload the data file when it is changed by another program")
}

func run(ctx context.Context) error {
	if err := log.Init(config.LogLevel, config.LogFormat); err != nil {
		return err
	}
	//nolint:errcheck // stderr sync fails on some terminals
	defer log.Logger.Sync()

	if config.TickRate <= 0 {
		return fmt.Errorf("tick-rate must be positive, got %d", config.TickRate)
	}
	if ctx == nil {
		ctx = context.Background()
	}
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	log.Logger.Debug("starting",
		zap.String("track", config.TrackFile),
		zap.String("data", config.DataFile),
		zap.Int("tickRate", config.TickRate),
		zap.Bool("mute", config.Mute),
		zap.Bool("watch", config.Watch))

	return game.RunDesktop(ctx, game.Options{
		TrackFile: config.TrackFile,
		DataFile:  config.DataFile,
		Tick:      config.TickInterval(),
		Mute:      config.Mute,
		Watch:     config.Watch,
		Log:       log.Logger,
	})
}

// initConfig reads in config file and ENV variables if set.
func initConfig() {
	if cfgFile != "" {
		// Use config file from the flag.
		viper.SetConfigFile(cfgFile)
	} else {
		// Find home directory.
		home, err := os.UserHomeDir()
		cobra.CheckErr(err)

		// Search config in home directory with name ".racer" (without extension).
		viper.AddConfigPath(home)
		viper.AddConfigPath(".")
		viper.SetConfigType("yaml")
		viper.SetConfigName(".racer")
	}

	viper.SetEnvPrefix(envPrefix)
	viper.AutomaticEnv() // read in environment variables that match

	// If a config file is found, read it in.
	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}

	bindFlags(rootCmd, viper.GetViper())
}

// Bind each cobra flag to its associated viper configuration
// (config file and environment variable)
func bindFlags(cmd *cobra.Command, v *viper.Viper) {
	cmd.Flags().VisitAll(func(f *pflag.Flag) {
		// Environment variables can't have dashes in them, so bind them to their
		// equivalent keys with underscores, e.g. --tick-rate to RACER_TICK_RATE
		if strings.Contains(f.Name, "-") {
			envVarSuffix := strings.ToUpper(strings.ReplaceAll(f.Name, "-", "_"))
			if err := v.BindEnv(f.Name,
				fmt.Sprintf("%s_%s", envPrefix, envVarSuffix)); err != nil {
				fmt.Fprintf(os.Stderr, "Could not bind env var %s: %v", f.Name, err)
			}
		}
		// Apply the viper config value to the flag when the flag is not set and viper
		// has a value
		if !f.Changed && v.IsSet(f.Name) {
			val := v.Get(f.Name)
			if err := cmd.Flags().Set(f.Name, fmt.Sprintf("%v", val)); err != nil {
				fmt.Fprintf(os.Stderr, "Could set flag value for %s: %v", f.Name, err)
			}
		}
	})
}
