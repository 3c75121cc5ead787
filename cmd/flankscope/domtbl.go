package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/metaflank/flankscope/internal/domtbl"
)

func newDomtblCmd() *cobra.Command {
	var (
		inputDir string
		outPath  string
		workers  int
	)

	cmd := &cobra.Command{
		Use:   "domtbl",
		Short: "Merge hmmsearch domtblout files into one table",
		Long: `Walk a directory tree for hmmsearch --domtblout result files,
parse them in parallel and merge all hits into a single TSV with a
target_file column naming the originating result file.`,
		Example: `  flankscope domtbl -i results/hmmsearch -o merged_domtblout.tsv`,
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			logger, err := newLogger()
			if err != nil {
				return err
			}
			defer logger.Sync()

			merger := domtbl.NewMerger(workers)
			merger.SetLogger(logger)

			rows, err := merger.MergeDir(inputDir)
			if err != nil {
				return err
			}

			if dir := filepath.Dir(outPath); dir != "." {
				if err := os.MkdirAll(dir, 0o755); err != nil {
					return fmt.Errorf("create output directory: %w", err)
				}
			}
			f, err := os.Create(outPath)
			if err != nil {
				return fmt.Errorf("create output table: %w", err)
			}
			defer f.Close()
			if err := domtbl.WriteTable(f, rows); err != nil {
				return err
			}

			logger.Info("domtblout merge complete",
				zap.Int("hits", len(rows)),
				zap.String("out", outPath))
			return nil
		},
	}

	cmd.Flags().StringVarP(&inputDir, "input-dir", "i", "", "Directory tree holding .domtblout files")
	cmd.Flags().StringVarP(&outPath, "out", "o", "", "Output TSV path")
	cmd.Flags().IntVar(&workers, "workers", 0, "Worker pool size (default: number of CPUs)")

	_ = cmd.MarkFlagRequired("input-dir")
	_ = cmd.MarkFlagRequired("out")

	return cmd
}
