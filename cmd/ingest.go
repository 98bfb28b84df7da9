package cmd

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/ilyakaznacheev/cleanenv"
	"github.com/spf13/cobra"

	"github.com/snova-jorgep/sambaparse/internal/config"
	"github.com/snova-jorgep/sambaparse/internal/ingest"
)

var (
	ingestConfigPath string
	ingestSource     string
	ingestInputPath  string
	ingestMetadata   []string
)

// ingestCmd represents the ingest command
var ingestCmd = &cobra.Command{
	Use:   "ingest",
	Short: "Run one ingestion pass for the given source",
	Long: `Run one ingestion pass: clear the configured output directory,
invoke unstructured-ingest for the selected source, and (when
additional_processing is enabled) normalize the emitted element files.

The configured output_dir is deleted recursively before every run.
Point it at a directory owned by this pipeline only.`,
	Run: func(cmd *cobra.Command, args []string) {
		ctx := context.Background()

		// Load command configuration from environment variables
		var cmdConf cmdConfig
		if err := cleanenv.ReadEnv(&cmdConf); err != nil {
			fmt.Fprintf(os.Stderr, "Failed to load command config: %v\n", err)
			os.Exit(1)
		}

		// Create logger
		logger := createLogger(cmdConf)

		source, err := ingest.ParseSourceType(ingestSource)
		if err != nil {
			logger.ErrorContext(ctx, "invalid source type",
				"error", err,
			)
			os.Exit(1)
		}

		cfg, err := config.Load(ingestConfigPath)
		if err != nil {
			logger.ErrorContext(ctx, "failed to load config",
				"path", ingestConfigPath,
				"error", err,
			)
			os.Exit(1)
		}

		additionalMetadata, err := parseMetadataFlags(ingestMetadata)
		if err != nil {
			logger.ErrorContext(ctx, "invalid metadata flag",
				"error", err,
			)
			os.Exit(1)
		}

		pipeline := ingest.NewPipeline(ingest.PipelineConfig{
			Config: cfg,
			Logger: logger,
		})

		result, err := pipeline.Run(ctx, source, ingestInputPath, additionalMetadata)
		if err != nil {
			logger.ErrorContext(ctx, "ingest run failed",
				"error", err,
			)
			os.Exit(1)
		}

		if result != nil {
			fmt.Printf("Normalized %d elements (%d retrieval documents)\n", len(result.Texts), len(result.Docs))
		}
	},
}

// parseMetadataFlags converts repeated key=value flags into the
// additional-metadata mapping merged into every element.
func parseMetadataFlags(pairs []string) (map[string]any, error) {
	if len(pairs) == 0 {
		return nil, nil
	}
	metadata := make(map[string]any, len(pairs))
	for _, pair := range pairs {
		key, value, found := strings.Cut(pair, "=")
		if !found || key == "" {
			return nil, fmt.Errorf("metadata flag %q is not key=value", pair)
		}
		metadata[key] = value
	}
	return metadata, nil
}

func init() {
	ingestCmd.Flags().StringVarP(&ingestConfigPath, "config", "c", "config.yaml", "Path to the pipeline YAML config")
	ingestCmd.Flags().StringVarP(&ingestSource, "source", "s", "", "Source type: local, confluence, github or google-drive")
	ingestCmd.Flags().StringVarP(&ingestInputPath, "input-path", "i", "", "Input path (required for the local source)")
	ingestCmd.Flags().StringArrayVarP(&ingestMetadata, "metadata", "m", nil, "Extra metadata as key=value (repeatable)")
	_ = ingestCmd.MarkFlagRequired("source")

	rootCmd.AddCommand(ingestCmd)
}
