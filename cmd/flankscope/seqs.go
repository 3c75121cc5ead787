package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/metaflank/flankscope/internal/fasta"
	"github.com/metaflank/flankscope/internal/flank"
	"github.com/metaflank/flankscope/internal/seqs"
)

func newSeqsCmd() *cobra.Command {
	var (
		summaryPath   string
		outPath       string
		missingLog    string
		sourceMapFile string
		mapFlags      []string
		workers       int
	)

	cmd := &cobra.Command{
		Use:   "seqs",
		Short: "Extract the target sequences themselves into one FASTA",
		Long: `Pull each summary row's target sequence out of its source archive
by record id and merge everything into one FASTA. Ids that cannot be
found are written to a log instead of failing the run.`,
		Example: `  flankscope seqs -i summary.tsv -o targets.fasta --missing-log missing.tsv`,
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			logger, err := newLogger()
			if err != nil {
				return err
			}
			defer logger.Sync()

			roots, err := resolveSourceMap(sourceMapFile, mapFlags)
			if err != nil {
				return err
			}

			targets, err := flank.ReadTargetsFile(summaryPath)
			if err != nil {
				return err
			}

			extractor := seqs.NewExtractor(roots, workers)
			extractor.SetLogger(logger)

			records, missing := extractor.Extract(seqs.GroupTargets(targets))

			if err := fasta.WriteFile(outPath, records); err != nil {
				return err
			}

			if missingLog != "" && len(missing) > 0 {
				f, err := os.Create(missingLog)
				if err != nil {
					return fmt.Errorf("create missing log: %w", err)
				}
				for _, m := range missing {
					fmt.Fprintf(f, "%s\t%s\t%s\t%s\n", m.Source, m.File, m.ID, m.Reason)
				}
				if err := f.Close(); err != nil {
					return err
				}
			}

			logger.Info("sequence extraction complete",
				zap.Int("extracted", len(records)),
				zap.Int("missing", len(missing)),
				zap.String("out", outPath))
			return nil
		},
	}

	cmd.Flags().StringVarP(&summaryPath, "summary", "i", "", "Input summary TSV")
	cmd.Flags().StringVarP(&outPath, "out", "o", "", "Merged FASTA output path")
	cmd.Flags().StringVar(&missingLog, "missing-log", "", "TSV log of ids that could not be extracted")
	cmd.Flags().StringVar(&sourceMapFile, "source-map", "", "JSON or YAML file mapping source tags to archive root directories")
	cmd.Flags().StringArrayVar(&mapFlags, "map", nil, "Single source mapping key=/abs/path (repeatable)")
	cmd.Flags().IntVar(&workers, "workers", 0, "Worker pool size (default: number of CPUs)")

	_ = cmd.MarkFlagRequired("summary")
	_ = cmd.MarkFlagRequired("out")

	return cmd
}
