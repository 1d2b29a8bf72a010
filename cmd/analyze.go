package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/AnTengye/lawassistant/pkg/logger"
	"github.com/AnTengye/lawassistant/report"
	"github.com/AnTengye/lawassistant/service"
	"github.com/spf13/cobra"
)

func newAnalyzeCmd(configPath *string) *cobra.Command {
	var (
		htmlPath string
		noAI     bool
	)

	cmd := &cobra.Command{
		Use:   "analyze <file>",
		Short: "Analyse a local contract and print the JSON report",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(*configPath, cmd)
			if err != nil {
				return err
			}

			path := args[0]
			data, err := os.ReadFile(path)
			if err != nil {
				return fmt.Errorf("failed to read %s: %w", path, err)
			}

			var opts []service.AnalyzerOption
			if cfg.Advisor.Enabled && !noAI {
				opts = append(opts, service.WithAdvisor(service.NewAnthropicAdvisor(&cfg.Advisor)))
			}
			analyzer := service.NewAnalyzer(analyzerConfig(cfg), opts...)

			ctx := logger.With(cmd.Context(), logger.RequestIDKey, "cli")
			result, err := analyzer.Analyze(ctx, filepath.Base(path), data)
			if err != nil {
				return err
			}

			out, err := report.RenderJSON(result)
			if err != nil {
				return err
			}
			if _, err := cmd.OutOrStdout().Write(out); err != nil {
				return err
			}

			if htmlPath != "" {
				page, err := report.RenderHTML(result)
				if err != nil {
					return err
				}
				if err := os.WriteFile(htmlPath, page, 0o644); err != nil {
					return fmt.Errorf("failed to write %s: %w", htmlPath, err)
				}
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&htmlPath, "html", "", "Also write the HTML report to this path")
	cmd.Flags().BoolVar(&noAI, "no-ai", false, "Skip the advisory analysis even if it is configured")
	return cmd
}
