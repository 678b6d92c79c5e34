package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	formatting "github.com/inference-gateway/pasteboard/internal/formatting"
	logger "github.com/inference-gateway/pasteboard/internal/logger"
	pasteboard "github.com/inference-gateway/pasteboard/internal/pasteboard"
	cobra "github.com/spf13/cobra"
)

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Print the pasteboard types whenever the content changes",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		interval, _ := cmd.Flags().GetDuration("interval")
		if !cmd.Flags().Changed("interval") {
			interval = time.Duration(cfg.Pasteboard.PollInterval) * time.Millisecond
		}
		if interval <= 0 {
			return fmt.Errorf("invalid watch interval %s", interval)
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		return withPasteboard(cmd, func(pb *pasteboard.Pasteboard) error {
			return watch(ctx, cmd, pb, interval)
		})
	},
}

func watch(ctx context.Context, cmd *cobra.Command, pb *pasteboard.Pasteboard, interval time.Duration) error {
	out := cmd.OutOrStdout()
	last := int64(-1)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		token, err := pb.ChangeToken(ctx)
		if err != nil {
			logger.Warn("Failed to poll pasteboard", "pasteboard", pb.Name(), "error", err)
		} else if token != last {
			last = token
			types := pb.TypesForLegacyUnsafeBindings(ctx)
			fmt.Fprintf(out, "%s  %s  %s\n",
				formatting.DimStyle.Render(time.Now().Format(time.TimeOnly)),
				formatting.HeaderStyle.Render(fmt.Sprintf("#%d", token)),
				strings.Join(types, ", "))
		}

		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
		}
	}
}

func init() {
	watchCmd.Flags().Duration("interval", 0, "poll interval (defaults to pasteboard.poll_interval)")
	rootCmd.AddCommand(watchCmd)
}
