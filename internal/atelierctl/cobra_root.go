package atelierctl

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// buildRootCmd is a convenience for help-only fallbacks.
func buildRootCmd() *cobra.Command { return buildRootCmdWith(&Config{LogLvl: "info"}) }

// buildRootCmdWith constructs the Cobra command tree wired to the fn* actions.
func buildRootCmdWith(cfg *Config) *cobra.Command {
	root := &cobra.Command{
		Use:           "atelierctl",
		Short:         "Provision and launch the creative pipeline daemon",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	// Persistent flags -> Config
	root.PersistentFlags().StringVar(&cfg.ConfigPath, "config", cfg.ConfigPath, "Path to config file (yaml|json|toml)")
	root.PersistentFlags().StringVar(&cfg.Root, "root", cfg.Root, "Deployment root directory (defaults ATELIER_ROOT or .)")
	root.PersistentFlags().StringVar(&cfg.Addr, "addr", cfg.Addr, "Daemon listen address (defaults ATELIER_ADDR or :8888)")
	root.PersistentFlags().StringVar(&cfg.LogLvl, "log-level", cfg.LogLvl, "Log level: debug|info|warn|error (defaults ATELIERCTL_LOG_LEVEL or info)")
	root.PersistentPreRun = func(cmd *cobra.Command, args []string) {
		SetLogLevel(cfg.LogLvl)
	}

	// provision group
	provisionCmd := &cobra.Command{Use: "provision", Short: "Run deployment steps", RunE: func(cmd *cobra.Command, args []string) error {
		return fmt.Errorf("provision requires a subcommand: all|check|dirs|deps|model")
	}}
	provisionAllCmd := &cobra.Command{Use: "all", Short: "Run every step in order: check, dirs, deps, model", Example: "  atelierctl provision all --config atelier.yaml", RunE: func(cmd *cobra.Command, args []string) error {
		return fnProvisionAll(cfg)
	}}
	provisionCheck := &cobra.Command{Use: "check", Short: "Verify the build toolchain is on PATH", RunE: func(cmd *cobra.Command, args []string) error {
		return fnCheckTools(cfg)
	}}
	provisionDirs := &cobra.Command{Use: "dirs", Short: "Create the models/ and datastore/ layout", RunE: func(cmd *cobra.Command, args []string) error {
		return fnEnsureDirs(cfg)
	}}
	provisionDeps := &cobra.Command{Use: "deps", Short: "Download module dependencies", RunE: func(cmd *cobra.Command, args []string) error {
		return fnInstallDeps(cfg)
	}}
	provisionModel := &cobra.Command{Use: "model", Short: "Fetch and verify the model weights", Example: "  atelierctl provision model --config atelier.yaml", RunE: func(cmd *cobra.Command, args []string) error {
		return fnFetchModel(cfg)
	}}
	provisionCmd.AddCommand(provisionAllCmd, provisionCheck, provisionDirs, provisionDeps, provisionModel)
	root.AddCommand(provisionCmd)

	// up: provision then run the daemon in the foreground
	upCmd := &cobra.Command{Use: "up", Short: "Provision, start the daemon and wait for readiness", Example: "  atelierctl up --config atelier.yaml", RunE: func(cmd *cobra.Command, args []string) error {
		return fnUpDaemon(cfg)
	}}
	root.AddCommand(upCmd)

	// completion command
	completionCmd := &cobra.Command{Use: "completion", Short: "Generate the autocompletion script for the specified shell"}
	completionCmd.AddCommand(&cobra.Command{Use: "bash", Short: "Bash completion", RunE: func(cmd *cobra.Command, args []string) error { return root.GenBashCompletion(os.Stdout) }})
	completionCmd.AddCommand(&cobra.Command{Use: "zsh", Short: "Zsh completion", RunE: func(cmd *cobra.Command, args []string) error { return root.GenZshCompletion(os.Stdout) }})
	completionCmd.AddCommand(&cobra.Command{Use: "fish", Short: "Fish completion", RunE: func(cmd *cobra.Command, args []string) error { return root.GenFishCompletion(os.Stdout, true) }})
	completionCmd.AddCommand(&cobra.Command{Use: "powershell", Short: "PowerShell completion", RunE: func(cmd *cobra.Command, args []string) error { return root.GenPowerShellCompletionWithDesc(os.Stdout) }})
	root.AddCommand(completionCmd)

	return root
}
