package cmd

import (
	"fmt"

	formatting "github.com/inference-gateway/pasteboard/internal/formatting"
	pasteboard "github.com/inference-gateway/pasteboard/internal/pasteboard"
	cobra "github.com/spf13/cobra"
)

var clearCmd = &cobra.Command{
	Use:   "clear [type]",
	Short: "Clear the pasteboard or a single type",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withPasteboard(cmd, func(pb *pasteboard.Pasteboard) error {
			ctx := cmd.Context()
			if len(args) == 1 {
				if err := pb.ClearType(ctx, args[0]); err != nil {
					return err
				}
			} else if err := pb.Clear(ctx); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), formatting.SuccessStyle.Render("cleared "+pb.Name()))
			return nil
		})
	},
}

func init() {
	rootCmd.AddCommand(clearCmd)
}
