package cmd

import (
	"fmt"

	formatting "github.com/inference-gateway/pasteboard/internal/formatting"
	pasteboard "github.com/inference-gateway/pasteboard/internal/pasteboard"
	typegate "github.com/inference-gateway/pasteboard/internal/typegate"
	cobra "github.com/spf13/cobra"
)

var typesCmd = &cobra.Command{
	Use:   "types",
	Short: "List the types on the pasteboard",
	Long: `List the types a page at --origin may see. With --unsafe, list every
type available to legacy bindings instead.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		origin, _ := cmd.Flags().GetString("origin")
		if !cmd.Flags().Changed("origin") {
			origin = cfg.Pasteboard.Origin
		}
		unsafe, _ := cmd.Flags().GetBool("unsafe")

		return withPasteboard(cmd, func(pb *pasteboard.Pasteboard) error {
			ctx := cmd.Context()

			var types []string
			if unsafe {
				types = pb.TypesForLegacyUnsafeBindings(ctx)
			} else {
				var err error
				types, err = pb.TypesSafeForBindings(ctx, origin)
				if err != nil {
					return err
				}
			}

			out := cmd.OutOrStdout()
			fmt.Fprintln(out, formatting.HeaderStyle.Render(fmt.Sprintf("%s (%d types)", pb.Name(), len(types))))
			for _, typ := range types {
				value, err := pb.ReadString(ctx, typ)
				if err != nil {
					return err
				}
				fmt.Fprintln(out, formatting.TypeLine(typ, typegate.Classify(typ), len(value)))
			}
			return nil
		})
	},
}

func init() {
	typesCmd.Flags().String("origin", "", "origin of the reading page (defaults to pasteboard.origin)")
	typesCmd.Flags().Bool("unsafe", false, "list types for legacy bindings")
	rootCmd.AddCommand(typesCmd)
}
