package cmd

import (
	"context"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/spf13/cobra"
)

var serveAddr string

// serverCmd runs the control loop together with the HTTP API.
var serverCmd = &cobra.Command{
	Use:   "serve",
	Short: "Steer the arm and expose its state over HTTP",
	Long: `Runs the same loop as "run" and also serves:

  GET  /api/state      motor positions and joystick calibration
  POST /api/calibrate  recalibrate the joystick center`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		c, err := openController()
		if err != nil {
			return err
		}
		defer c.Close()

		addr := serveAddr
		if addr == "" {
			addr = c.Configuration.HTTPAddr
		}
		ctx, cancel := context.WithCancel(ctx)
		defer cancel()
		wg := sync.WaitGroup{}
		wg.Add(2)
		go func() {
			defer wg.Done()
			c.Run(ctx)
		}()
		go func() {
			defer wg.Done()
			err = c.StartServer(ctx, addr)
			cancel()
		}()
		wg.Wait()
		logger.Info("joyarm finished")
		return err
	},
}

func init() {
	serverCmd.Flags().StringVar(&serveAddr, "addr", "", "listen address (defaults to httpAddr from the config)")
	rootCmd.AddCommand(serverCmd)
}
