package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "kiteview",
	Short: "kiteview flies a recolorable SVG sprite over the kite camera grid",
	Long: `kiteview opens a window with a keyboard-driven subject tracked by the kite camera.
WASD or the arrow keys move, Space shakes the camera, R snaps home, Tab cycles sprites
and a click recolors the current sprite.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		opts, err := viewerOptionsFromFlags(cmd)
		if err != nil {
			return err
		}
		return runViewer(cmd.Context(), opts)
	},
	SilenceUsage: true,
}

// Execute runs the root command and exits non-zero on failure.
func Execute() {
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.Flags().StringP("config", "c", "", "YAML config file layered over the defaults")
	rootCmd.Flags().String("assets", "", "Directory of SVG sprites (defaults to the embedded set)")
	rootCmd.Flags().StringSlice("sprite", []string{"kite.svg", "dart.svg"}, "Sprite paths to cycle through with Tab")
	rootCmd.Flags().String("script", "", "YAML or JSON test script to drive the viewer; exits when done")
	rootCmd.Flags().String("metrics-addr", "", "Serve prometheus metrics on this address, e.g. :9090")
	rootCmd.Flags().String("log-level", "warn", "Log level: debug, info, warn or error")
	rootCmd.Flags().Bool("debug", false, "Show the diagnostics overlay")
}
