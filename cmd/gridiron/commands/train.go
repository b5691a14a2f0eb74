package commands

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pcroft/gridiron/internal/features"
	"github.com/pcroft/gridiron/internal/model"
	"github.com/pcroft/gridiron/internal/pipelineconfig"
)

// trainCmd represents the train command
var trainCmd = &cobra.Command{
	Use:   "train",
	Short: "Train the over/under classifier",
	Long: `Trains a random forest on the labeled dataset and writes the
model artifact plus its feature_columns.txt sidecar to the models
directory. The chronologically latest slice of the data is held out
for validation.

Example:
  go run ./cmd/gridiron train
  go run ./cmd/gridiron train --pipeline config/pipeline.yaml`,
	RunE: runTrain,
}

func init() {
	rootCmd.AddCommand(trainCmd)
}

func runTrain(cmd *cobra.Command, args []string) error {
	cfg, log, err := loadDeps()
	if err != nil {
		return err
	}
	pcfg, err := loadPipeline()
	if err != nil {
		return err
	}

	path := labeledDatasetPath(cfg, pcfg)
	rows, names, err := features.ReadLabeledCSV(path)
	if err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("labeled dataset %s not found (run dataset build first)", path)
		}
		return err
	}

	PrintHeader("Model Trainer")
	PrintKV("Dataset", path)
	PrintKV("Rows", len(rows))
	PrintKV("Features", len(names))
	PrintKV("Trees", pcfg.Model.NumTrees)
	PrintKV("CV folds", pcfg.Model.CVFolds)

	opts := model.Options{
		NumTrees:        pcfg.Model.NumTrees,
		MaxDepth:        pcfg.Model.MaxDepth,
		MinSamplesSplit: pcfg.Model.MinSamplesSplit,
		MinSamplesLeaf:  pcfg.Model.MinSamplesLeaf,
		Seed:            pcfg.Model.Seed,
		TestSize:        pcfg.Model.TestSize,
		CVFolds:         pcfg.Model.CVFolds,
	}

	artifact, err := model.NewTrainer(log.Zerolog()).Train(rows, names, opts)
	if err != nil {
		return err
	}

	configHash, err := pipelineconfig.Hash(pcfg)
	if err != nil {
		return err
	}
	artifact.ConfigHash = configHash

	saved, err := artifact.Save(cfg.Data.ModelsDir)
	if err != nil {
		return err
	}

	eval := artifact.Evaluation
	fmt.Println()
	PrintSeparator()
	PrintKV("Accuracy", fmt.Sprintf("%.3f", eval.Accuracy))
	PrintKV("AUC", fmt.Sprintf("%.3f", eval.AUC))
	PrintKV("CV accuracy", fmt.Sprintf("%.3f ± %.3f", eval.CVAccuracyMean, eval.CVAccuracyStd))
	PrintKV("Model hash", artifact.Hash())
	PrintKV("Saved to", saved)
	return nil
}
