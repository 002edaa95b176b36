package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"photogrid/internal/layout"
)

func demoNames() []string {
	var names []string
	for _, d := range layout.Demos() {
		names = append(names, d.Name)
	}
	return names
}

func newLayoutsCommand() *cobra.Command {
	var width, height int

	cmd := &cobra.Command{
		Use:       "layouts [name]",
		Short:     "Print the layout demos",
		Long:      "Print one layout demo, or all of them, as it would appear in a terminal of the given size.",
		Args:      cobra.MaximumNArgs(1),
		ValidArgs: demoNames(),
		RunE: func(cmd *cobra.Command, args []string) error {
			if width < 1 || height < 1 {
				return fmt.Errorf("width and height must be positive")
			}

			demos := layout.Demos()
			if len(args) == 1 {
				d, ok := layout.Lookup(args[0])
				if !ok {
					return fmt.Errorf("unknown layout %q (available: %s)", args[0], strings.Join(demoNames(), ", "))
				}
				demos = []layout.Demo{d}
			}

			env := layout.TerminalEnvironment(width, height)
			out := cmd.OutOrStdout()
			for i, d := range demos {
				snap, err := d.Snapshot()
				if err != nil {
					return fmt.Errorf("failed to build %s snapshot: %w", d.Name, err)
				}
				if i > 0 {
					fmt.Fprintln(out)
				}
				fmt.Fprintf(out, "== %s ==\n\n%s\n", d.Title, d.Render(snap, env, nil, nil))
			}
			return nil
		},
	}

	cmd.Flags().IntVarP(&width, "width", "W", 80, "terminal width in columns")
	cmd.Flags().IntVarP(&height, "height", "H", 24, "terminal height in rows")
	return cmd
}
