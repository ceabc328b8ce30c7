package cli

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/phanxgames/crossmath"
	"github.com/phanxgames/crossmath/gfx"
	"github.com/phanxgames/crossmath/sound"
)

// playCommand opens the game window.
func (c *CLI) playCommand() *cobra.Command {
	var (
		scriptPath string
		noSound    bool
		showFPS    bool
	)
	cmd := &cobra.Command{
		Use:   "play",
		Short: "Play in a window",
		Long: `Play in a window.

Drag tiles from the tray onto the blank cells. Press R or click Reset to send
every tile back. With --script, a JSON input script is replayed on top of the
live window and its expectations are reported when it finishes.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := c.loadConfig()
			if err != nil {
				return err
			}
			if noSound {
				cfg.Sound.Enabled = false
			}
			if cmd.Flags().Changed("fps") {
				cfg.Window.ShowFPS = showFPS
			}
			return c.runPlay(withLogger(cmd.Context(), c.Logger), cfg, scriptPath)
		},
	}
	cmd.Flags().StringVar(&scriptPath, "script", "", "JSON input script to replay")
	cmd.Flags().BoolVar(&noSound, "no-sound", false, "disable sound effects")
	cmd.Flags().BoolVar(&showFPS, "fps", false, "show the FPS overlay")
	return cmd
}

func (c *CLI) runPlay(ctx context.Context, cfg crossmath.Config, scriptPath string) error {
	logger := loggerFromContext(ctx)
	opts := gfx.Options{
		Config: cfg,
		Logger: logger,
		Sound:  sound.New(cfg.Sound, logger),
	}
	if scriptPath != "" {
		r, err := readScript(scriptPath)
		if err != nil {
			return err
		}
		opts.Script = r
	}
	return gfx.Run(ctx, opts)
}
