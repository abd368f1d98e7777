package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/yaklabco/gobricklayer/internal/ui/pretty"
	"github.com/yaklabco/gobricklayer/pkg/dialect"
)

func newDialectsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "dialects",
		Short: "List the slicer dialects gobricklayer understands",
		Long: `List the slicer dialects and the markers each one is recognised by.
"auto" detects the dialect from the file content and is the default.`,
		Args: usageArgs(cobra.NoArgs),
		RunE: func(cmd *cobra.Command, _ []string) error {
			colorMode, _ := cmd.Flags().GetString("color")
			out := cmd.OutOrStdout()
			styles := pretty.NewStyles(pretty.IsColorEnabled(colorMode, out))

			names := append([]dialect.Dialect{dialect.Auto}, dialect.All()...)
			width := 0
			for _, d := range names {
				width = max(width, len(d.String()))
			}

			for _, d := range names {
				name := fmt.Sprintf("%-*s", width, d.String())
				fmt.Fprintf(out, "  %s  %s\n", styles.Bold.Render(name), d.Description())
			}
			return nil
		},
	}
}
