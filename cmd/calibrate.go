package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Seann-Moser/joyarm/pkg/controller"
	"github.com/Seann-Moser/joyarm/pkg/joystick"
)

var saveCalibration bool

// calibrateCmd captures the joystick center once and prints it.
var calibrateCmd = &cobra.Command{
	Use:   "calibrate",
	Short: "Capture the joystick center while it rests in neutral",
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := openController()
		if err != nil {
			return err
		}
		defer c.Close()

		if !c.Configuration.Joystick.CalibrateOnStart {
			if err := c.Calibrate(); err != nil {
				return err
			}
		}
		st := c.State()
		fmt.Fprintf(cmd.OutOrStdout(), "x_mid: %d, y_mid: %d\n", st.CalibrationX.RawMid, st.CalibrationY.RawMid)

		if !saveCalibration {
			return nil
		}
		config := c.Configuration
		config.Joystick.CalibrationX = c.Joystick.Calibration(joystick.X)
		config.Joystick.CalibrationY = c.Joystick.Calibration(joystick.Y)
		config.Joystick.CalibrateOnStart = false
		return controller.SaveConfiguration(configFile, config)
	},
}

func init() {
	calibrateCmd.Flags().BoolVar(&saveCalibration, "save", false, "write the captured center to the config file")
	rootCmd.AddCommand(calibrateCmd)
}
