// Package cmd holds the lawassistant command line: the HTTP server and
// a one-shot local analysis.
package cmd

import (
	"github.com/AnTengye/lawassistant/config"
	"github.com/AnTengye/lawassistant/pkg/logger"
	"github.com/AnTengye/lawassistant/service"
	"github.com/spf13/cobra"
)

var Version = "dev"

func newRootCmd() *cobra.Command {
	var configPath string

	root := &cobra.Command{
		Use:          "lawassistant",
		Short:        "Contract risk analysis service",
		SilenceUsage: true,
		Version:      Version,
	}
	root.PersistentFlags().StringVarP(&configPath, "config", "c", "config.yaml", "Path to the YAML config file")

	root.AddCommand(newServeCmd(&configPath))
	root.AddCommand(newAnalyzeCmd(&configPath))

	// running the binary without a subcommand starts the server
	serve := newServeCmd(&configPath)
	root.RunE = serve.RunE

	return root
}

// Execute runs the root command
func Execute() error {
	return newRootCmd().Execute()
}

func loadConfig(path string, cmd *cobra.Command) (*config.Config, error) {
	cfg, err := config.Load(path)
	if err != nil {
		return nil, err
	}
	logger.Init(&logger.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		Output: cmd.ErrOrStderr(),
	})
	return cfg, nil
}

func analyzerConfig(cfg *config.Config) service.AnalyzerConfig {
	ac := service.DefaultAnalyzerConfig()
	ac.AdvisoryTimeout = cfg.Advisor.Timeout()
	return ac
}
