package cli

import (
	"fmt"
	"io"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/phanxgames/crossmath"
	"github.com/phanxgames/crossmath/term"
)

// tuiCommand plays in the terminal.
func (c *CLI) tuiCommand() *cobra.Command {
	var logFile string
	cmd := &cobra.Command{
		Use:   "tui",
		Short: "Play in the terminal",
		Long: `Play in the terminal with the mouse.

The terminal owns the screen while playing, so logs are discarded unless
--log-file names a file to append them to.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := c.loadConfig()
			if err != nil {
				return err
			}
			var w io.Writer = io.Discard
			if logFile != "" {
				f, err := os.OpenFile(logFile, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
				if err != nil {
					return fmt.Errorf("open log file: %w", err)
				}
				defer f.Close()
				w = f
			}
			logger := newLogger(w, c.Logger.GetLevel())

			m, err := term.New(term.Config(cfg), crossmath.DefaultPuzzle, crossmath.DefaultRoster, logger)
			if err != nil {
				return err
			}
			ctx := cmd.Context()
			if err := term.Run(m, tea.WithContext(ctx)); err != nil {
				if ctx.Err() != nil {
					return ctx.Err()
				}
				return fmt.Errorf("terminal: %w", err)
			}
			logger.Info("quit", "placed", crossmath.FormatPlacements(m.Session().Placements()))
			return nil
		},
	}
	cmd.Flags().StringVar(&logFile, "log-file", "", "append logs to this file")
	return cmd
}
