package cmd

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
)

// runCmd represents the run command
var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Steer the arm with the joystick",
	Long: `Polls the joystick and moves the servos until interrupted. The joystick
center is calibrated at startup unless calibrateOnStart is false.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		c, err := openController()
		if err != nil {
			return err
		}
		defer c.Close()

		c.Run(ctx)
		logger.Info("joyarm finished")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(runCmd)
}
