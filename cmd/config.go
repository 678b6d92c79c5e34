package cmd

import (
	"fmt"
	"os"

	config "github.com/inference-gateway/pasteboard/config"
	formatting "github.com/inference-gateway/pasteboard/internal/formatting"
	cobra "github.com/spf13/cobra"
	yaml "gopkg.in/yaml.v3"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage pbctl configuration",
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize a new project configuration",
	Long: `Initialize a new .pasteboard/config.yaml configuration file in the current
directory with default settings.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		configPath, _ := cmd.Flags().GetString("config")
		if configPath == "" {
			configPath = config.DefaultConfigPath()
		}

		if _, err := os.Stat(configPath); err == nil {
			overwrite, _ := cmd.Flags().GetBool("overwrite")
			if !overwrite {
				return fmt.Errorf("configuration file %s already exists (use --overwrite to replace)", configPath)
			}
		}

		if err := config.DefaultConfig().SaveConfig(configPath); err != nil {
			return fmt.Errorf("failed to create config file: %w", err)
		}

		fmt.Fprintln(cmd.OutOrStdout(), formatting.SuccessStyle.Render("Successfully created "+configPath))
		return nil
	},
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the effective configuration",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		shown := *cfg
		if shown.Backend.Postgres.Password != "" {
			shown.Backend.Postgres.Password = "********"
		}
		if shown.Backend.Redis.Password != "" {
			shown.Backend.Redis.Password = "********"
		}

		encoder := yaml.NewEncoder(cmd.OutOrStdout())
		encoder.SetIndent(2)
		if err := encoder.Encode(&shown); err != nil {
			return fmt.Errorf("failed to marshal config: %w", err)
		}
		return encoder.Close()
	},
}

func init() {
	configInitCmd.Flags().Bool("overwrite", false, "overwrite an existing configuration file")
	configCmd.AddCommand(configInitCmd)
	configCmd.AddCommand(configShowCmd)
	rootCmd.AddCommand(configCmd)
}
