package cli

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/phanxgames/crossmath"
)

// layoutJSON is the --json output of the layout command.
type layoutJSON struct {
	Profile   crossmath.Profile `json:"profile"`
	Threshold float64           `json:"threshold"`
	Layout    crossmath.Layout  `json:"layout"`
	Staging   []crossmath.Vec2  `json:"staging"`
	Button    crossmath.Rect    `json:"button"`
}

// layoutCommand prints the computed geometry.
func (c *CLI) layoutCommand() *cobra.Command {
	var asJSON bool
	cmd := &cobra.Command{
		Use:   "layout",
		Short: "Print the computed grid layout",
		Long: `Print the computed grid layout for the selected profile: every droppable
cell with its centre, the snap threshold and the tray positions.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := c.loadConfig()
			if err != nil {
				return err
			}
			geo, err := cfg.Geometry(crossmath.DefaultPuzzle, len(crossmath.DefaultRoster))
			if err != nil {
				return err
			}
			if asJSON {
				return writeLayoutJSON(cmd.OutOrStdout(), cfg.Profile, geo)
			}
			printLayout(cmd.OutOrStdout(), cfg.Profile, geo)
			return nil
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "print JSON instead of a table")
	return cmd
}

func writeLayoutJSON(w io.Writer, p crossmath.Profile, geo crossmath.Geometry) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(layoutJSON{Profile: p, Threshold: geo.Threshold, Layout: geo.Layout, Staging: geo.Staging, Button: geo.Button}); err != nil {
		return fmt.Errorf("encode layout: %w", err)
	}
	return nil
}

func printLayout(w io.Writer, p crossmath.Profile, geo crossmath.Geometry) {
	l := geo.Layout
	fmt.Fprintln(w, StyleTitle.Render(fmt.Sprintf("Layout (%s)", p)))
	printKV(w, "grid", fmt.Sprintf("%dx%d", l.Rows, l.Cols))
	printKV(w, "cell", fmt.Sprintf("%.1f gap %.1f", l.CellSize, l.Gap))
	printKV(w, "threshold", fmt.Sprintf("%.1f", geo.Threshold))
	printKV(w, "tray", fmt.Sprintf("%d tiles", len(geo.Staging)))
	fmt.Fprintln(w)

	rows := make([][]string, 0, len(l.Cells))
	for _, cell := range l.Cells {
		rows = append(rows, []string{
			fmt.Sprint(cell.Row),
			fmt.Sprint(cell.Col),
			fmt.Sprintf("%.1f", cell.X),
			fmt.Sprintf("%.1f", cell.Y),
		})
	}
	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(StyleDim).
		Headers("Row", "Col", "X", "Y").
		Rows(rows...).
		StyleFunc(func(row, _ int) lipgloss.Style {
			if row == -1 {
				return styleHeader
			}
			return lipgloss.NewStyle().Padding(0, 1)
		})
	fmt.Fprintln(w, t.Render())
}
