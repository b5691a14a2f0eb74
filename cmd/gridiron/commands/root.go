package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/pcroft/gridiron/internal/pipelineconfig"
	"github.com/pcroft/gridiron/pkg/config"
	"github.com/pcroft/gridiron/pkg/logger"
)

var (
	// Global flags
	pipelineFile string
	verbose      bool
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "gridiron",
	Short: "Fantasy football over/under prediction pipeline",
	Long: `Gridiron CLI

Weekly fantasy football pipeline: collect stat and projection CSVs,
engineer features, train an over/under classifier, and score upcoming
weeks.

Usage:
  go run ./cmd/gridiron [command]

Examples:
  go run ./cmd/gridiron collect 2023
  go run ./cmd/gridiron dataset build
  go run ./cmd/gridiron train
  go run ./cmd/gridiron predict --season 2023 --week 9
  go run ./cmd/gridiron status`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	// Global flags
	rootCmd.PersistentFlags().StringVar(&pipelineFile, "pipeline", "", "pipeline config file (default is built-in)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
}

// loadDeps reads the environment configuration and builds the logger
// every command starts from.
func loadDeps() (*config.Config, *logger.Logger, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, fmt.Errorf("load config: %w", err)
	}
	if verbose {
		cfg.LogLevel = "debug"
	}
	return cfg, logger.New(cfg), nil
}

// loadPipeline returns the pipeline config: the --pipeline YAML when
// given, otherwise the built-in default.
func loadPipeline() (*pipelineconfig.Config, error) {
	if pipelineFile == "" {
		return pipelineconfig.Default(), nil
	}
	pcfg, err := pipelineconfig.Load(pipelineFile)
	if err != nil {
		return nil, fmt.Errorf("load pipeline config %s: %w", pipelineFile, err)
	}
	return pcfg, nil
}
