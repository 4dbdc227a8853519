package cmd

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"strings"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/tecsupnav/placesadmin/internal/config"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "View or edit placesadmin configuration",
	Long: `Manage the configuration stored at ~/.placesadmin/config.yaml

Configuration includes:
  • Backend URL and environment
  • Request timeout and rate limit
  • Default output format and page size
  • Logging and metrics settings

Examples:
  # View current configuration
  placesadmin config view

  # Point at a local backend
  placesadmin config set api_url http://localhost:3000/api

  # Get a specific value
  placesadmin config get timeout

  # List every key
  placesadmin config keys`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return cmd.Help()
	},
}

var configViewCmd = &cobra.Command{
	Use:   "view",
	Short: "Display current configuration",
	Args:  cobra.NoArgs,
	RunE:  withEnv(runConfigView),
}

var configEditCmd = &cobra.Command{
	Use:   "edit",
	Short: "Edit configuration in $EDITOR",
	Args:  cobra.NoArgs,
	RunE:  withEnv(runConfigEdit),
}

var configGetCmd = &cobra.Command{
	Use:   "get <key>",
	Short: "Get a specific configuration value",
	Long:  `Print the value of a configuration key using dot notation (e.g., logging.level).`,
	Args:  cobra.ExactArgs(1),
	RunE:  withEnv(runConfigGet),
}

var configSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Set a specific configuration value",
	Long:  `Set a configuration key using dot notation (e.g., defaults.format json).`,
	Args:  cobra.ExactArgs(2),
	RunE:  withEnv(runConfigSet),
}

var configKeysCmd = &cobra.Command{
	Use:   "keys",
	Short: "List configuration keys",
	Args:  cobra.NoArgs,
	RunE:  withEnv(runConfigKeys),
}

var configPathCmd = &cobra.Command{
	Use:   "path",
	Short: "Show configuration file path",
	Args:  cobra.NoArgs,
	RunE:  withEnv(runConfigPath),
}

func init() {
	configCmd.AddCommand(configViewCmd, configEditCmd, configGetCmd, configSetCmd, configKeysCmd, configPathCmd)
	rootCmd.AddCommand(configCmd)
}

func runConfigView(_ context.Context, env *environment, cmd *cobra.Command, _ []string) error {
	if env.cc.Format != "" && env.cc.Format != "text" {
		return env.print(env.cfg)
	}
	data, err := yaml.Marshal(env.cfg)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "# %s\n%s", env.cfgPath, data)
	return nil
}

func runConfigEdit(ctx context.Context, env *environment, cmd *cobra.Command, _ []string) error {
	if _, err := os.Stat(env.cfgPath); os.IsNotExist(err) {
		if err := config.Save(env.cfg, env.cfgPath); err != nil {
			return err
		}
	}

	editor := os.Getenv("EDITOR")
	if editor == "" {
		editor = "vi"
	}
	editorCmd := exec.CommandContext(ctx, editor, env.cfgPath)
	editorCmd.Stdin = cmd.InOrStdin()
	editorCmd.Stdout = cmd.OutOrStdout()
	editorCmd.Stderr = cmd.ErrOrStderr()
	if err := editorCmd.Run(); err != nil {
		return fmt.Errorf("failed to run editor: %w", err)
	}

	if _, err := config.Load(env.cfgPath); err != nil {
		fmt.Fprintln(cmd.ErrOrStderr(), "Warning: the configuration contains errors; fix the file before running other commands.")
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "%s Configuration updated\n", env.theme.Success.Render("✓"))
	return nil
}

func runConfigGet(_ context.Context, env *environment, cmd *cobra.Command, args []string) error {
	value, err := env.cfg.Get(args[0])
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), value)
	return nil
}

func runConfigSet(_ context.Context, env *environment, cmd *cobra.Command, args []string) error {
	key, value := args[0], args[1]
	if err := env.cfg.Set(key, value); err != nil {
		return err
	}
	if err := config.Save(env.cfg, env.cfgPath); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "%s %s = %s\n", env.theme.Success.Render("✓"), key, value)
	return nil
}

func runConfigKeys(_ context.Context, _ *environment, cmd *cobra.Command, _ []string) error {
	fmt.Fprintln(cmd.OutOrStdout(), strings.Join(config.Keys(), "\n"))
	return nil
}

func runConfigPath(_ context.Context, env *environment, cmd *cobra.Command, _ []string) error {
	fmt.Fprintln(cmd.OutOrStdout(), env.cfgPath)
	return nil
}
