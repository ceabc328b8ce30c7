// Package cli implements the crossmath command-line interface.
package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/phanxgames/crossmath"
	"github.com/phanxgames/crossmath/gfx"
	"github.com/phanxgames/crossmath/internal/buildinfo"
)

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger

	configPath string
	profile    string
	verbose    bool
}

// New creates a new CLI instance logging to w.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{Logger: newLogger(w, level)}
}

// SetLogLevel updates the logger's level. A debug level set here is kept
// even when the config file names another.
func (c *CLI) SetLogLevel(level log.Level) {
	c.verbose = level <= log.DebugLevel
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   "crossmath",
		Short: "Cross Math is a drag-and-drop arithmetic tile puzzle",
		Long: `Cross Math is a number puzzle: drag numbered tiles from the tray into the
blank cells of a grid of equations. Play it in a window, in a terminal, or
in the browser via the wasm build.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
	}
	root.SetVersionTemplate(buildinfo.Template())

	root.PersistentFlags().StringVarP(&c.configPath, "config", "c", "", "TOML config file")
	root.PersistentFlags().StringVarP(&c.profile, "profile", "p", "", "config profile: native, web (default depends on platform)")

	root.AddCommand(c.playCommand())
	root.AddCommand(c.tuiCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.scriptCommand())
	root.AddCommand(c.layoutCommand())
	root.AddCommand(c.versionCommand())

	return root
}

// loadConfig reads --config over the --profile defaults and applies the
// configured log level unless --verbose asked for debug.
func (c *CLI) loadConfig() (crossmath.Config, error) {
	profile := crossmath.Profile(c.profile)
	if profile == "" {
		profile = gfx.DefaultProfile
	}
	cfg, err := crossmath.LoadConfig(c.configPath, profile)
	if err != nil {
		return crossmath.Config{}, err
	}
	if c.profile != "" && cfg.Profile != profile {
		return crossmath.Config{}, fmt.Errorf("%w: --profile %s conflicts with config profile %s",
			crossmath.ErrInvalidConfig, profile, cfg.Profile)
	}
	if !c.verbose {
		if lvl, err := log.ParseLevel(cfg.Log.Level); err == nil {
			c.Logger.SetLevel(lvl)
		}
	}
	c.Logger.Debug("config loaded", "path", c.configPath, "profile", cfg.Profile)
	return cfg, nil
}

// readScript loads a JSON input script from path.
func readScript(path string) (*crossmath.Runner, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read script: %w", err)
	}
	return crossmath.LoadScript(data)
}
