package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/phanxgames/crossmath"
)

// scriptCommand runs an input script without a window.
func (c *CLI) scriptCommand() *cobra.Command {
	var tps, maxFrames int
	cmd := &cobra.Command{
		Use:   "script [script.json]",
		Short: "Run an input script headlessly",
		Long: `Run an input script headlessly.

The script drives the same session and gesture tracker as the window, with a
fixed clock of --tps ticks per second. The command fails if any expectation
fails or the script does not finish within --max-frames.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := c.loadConfig()
			if err != nil {
				return err
			}
			return c.runScript(withLogger(cmd.Context(), c.Logger), cmd, cfg, args[0], tps, maxFrames)
		},
	}
	cmd.Flags().IntVar(&tps, "tps", 60, "simulated ticks per second")
	cmd.Flags().IntVar(&maxFrames, "max-frames", 0, "frame budget (default: one minute of ticks)")
	return cmd
}

func (c *CLI) runScript(ctx context.Context, cmd *cobra.Command, cfg crossmath.Config, path string, tps, maxFrames int) error {
	logger := loggerFromContext(ctx)
	runner, err := readScript(path)
	if err != nil {
		return err
	}
	s, _, err := cfg.NewSession(crossmath.DefaultPuzzle, crossmath.DefaultRoster, logger)
	if err != nil {
		return err
	}

	prog := newProgress(logger)
	frames, err := crossmath.Headless{
		Gestures:  cfg.NewGestures(s),
		Runner:    runner,
		TPS:       tps,
		MaxFrames: maxFrames,
	}.Run(ctx)

	out := cmd.OutOrStdout()
	if err != nil {
		printError(out, "Script %s failed after %d frames", path, frames)
		return fmt.Errorf("script %s: %w", path, err)
	}
	prog.done("Script finished")
	printSuccess(out, "Script %s passed", path)
	printKV(out, "frames", StyleNumber.Render(fmt.Sprint(frames)))
	printKV(out, "placed", crossmath.FormatPlacements(s.Placements()))
	return nil
}
