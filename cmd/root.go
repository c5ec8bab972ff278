package cmd

import (
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/Seann-Moser/joyarm/internal/log"
	"github.com/Seann-Moser/joyarm/pkg/controller"
)

var (
	configFile string
	logOptions log.Options
	debug      bool

	logger  *slog.Logger
	closers []io.Closer
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "joyarm",
	Short: "Drive a servo robot arm from an analog joystick",
	Long: `joyarm reads a two-axis analog joystick through an ADS1115 ADC and
steers two PCA9685 servo channels with it. Releasing the joystick button
returns the arm to its center position.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if debug && logOptions.Level == "info" {
			logOptions.Level = "debug"
		}
		var err error
		logger, closers, err = log.SetupLogger(logOptions)
		if err != nil {
			return err
		}
		slog.SetDefault(logger)
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		for _, c := range closers {
			_ = c.Close()
		}
	},
	SilenceUsage: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configFile, "config", controller.DefaultConfigFile, "config file (yaml or json)")
	rootCmd.PersistentFlags().StringVar(&logOptions.Level, "log-level", "info", "log level: trace, debug, info, warn, error")
	rootCmd.PersistentFlags().StringVar(&logOptions.File, "log-file", "", "also write logs to this file")
	rootCmd.PersistentFlags().StringVar(&logOptions.Serial, "serial-log", "", "mirror logs to this serial port")
	rootCmd.PersistentFlags().IntVar(&logOptions.Baud, "serial-baud", 115200, "baud rate of the serial log port")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "trace every raw joystick sample")
}

func openController() (*controller.Controller, error) {
	config, err := controller.LoadConfiguration(configFile)
	if err != nil {
		return nil, err
	}
	return controller.Open(config, logger, debug)
}
