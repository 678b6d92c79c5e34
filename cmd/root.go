package cmd

import (
	"fmt"
	"os"

	config "github.com/inference-gateway/pasteboard/config"
	container "github.com/inference-gateway/pasteboard/internal/container"
	logger "github.com/inference-gateway/pasteboard/internal/logger"
	pasteboard "github.com/inference-gateway/pasteboard/internal/pasteboard"
	cobra "github.com/spf13/cobra"
)

var cfg *config.Config

var rootCmd = &cobra.Command{
	Use:   "pbctl",
	Short: "Inspect and exchange pasteboard content",
	Long: `pbctl reads and writes typed pasteboard content: plain text, markup,
links, images and origin-scoped custom data, on the system clipboard or on a
shared SQLite, PostgreSQL or Redis backend.`,
	SilenceUsage: true,
}

func Execute() {
	defer logger.Close()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringP("config", "c", "", "config file (default is .pasteboard/config.yaml)")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "verbose output")
	rootCmd.PersistentFlags().StringP("name", "n", pasteboard.GeneralName, "pasteboard name")

	cobra.OnInitialize(initConfig)
}

func initConfig() {
	configPath, _ := rootCmd.PersistentFlags().GetString("config")
	loaded, err := config.LoadConfig(configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}
	cfg = loaded

	verbose, _ := rootCmd.PersistentFlags().GetBool("verbose")
	if err := logger.Init(verbose || cfg.Logging.Debug, cfg.Logging.Path); err != nil {
		fmt.Fprintf(os.Stderr, "failed to initialize logger: %v\n", err)
	}
}

// withPasteboard opens the container and the pasteboard selected by --name
func withPasteboard(cmd *cobra.Command, fn func(pb *pasteboard.Pasteboard) error) error {
	switch cfg.Backend.Type {
	case "", "memory":
		return fmt.Errorf("backend type %q does not outlive a single pbctl invocation, use system, sqlite, postgres or redis", cfg.Backend.Type)
	}

	c, err := container.NewServiceContainer(cfg)
	if err != nil {
		return err
	}
	defer func() { _ = c.Close() }()

	name, _ := cmd.Flags().GetString("name")
	pb, err := c.Pasteboard(name)
	if err != nil {
		return err
	}
	return fn(pb)
}
