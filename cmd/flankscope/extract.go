package main

import (
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/metaflank/flankscope/internal/flank"
	"github.com/metaflank/flankscope/internal/gff"
	"github.com/metaflank/flankscope/internal/resolve"
)

func newExtractCmd() *cobra.Command {
	var (
		summaryPath   string
		outDir        string
		tableOut      string
		sourceMapFile string
		mapFlags      []string
		filterSpec    string
		workers       int
		upstream      int
		downstream    int
		overwrite     bool
	)

	cmd := &cobra.Command{
		Use:   "extract",
		Short: "Extract flanking neighbor genes for each target row",
		Long: `Read the target summary table, resolve each target's genome
neighborhood, match gene calls against the flanking window, write one
FASTA artifact per target and emit the row-indexed result table.`,
		Example: `  flankscope extract -i summary.tsv -o out/fasta
  flankscope extract -i summary.tsv -o out/fasta --map MGnify=/data/MGnify/faa
  flankscope extract -i summary.tsv -o out/fasta --upstream 5000 --downstream 5000 --workers 16`,
		Args: cobra.NoArgs,
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

			keep := filterSources(filterSpec, roots)
			filtered := targets[:0:0]
			for _, t := range targets {
				if keep[t.Source] {
					filtered = append(filtered, t)
				}
			}

			resolver := resolve.NewResolver(gff.NewCache())
			resolver.SetLogger(logger)

			exec, err := flank.NewExecutor(resolver, flank.Options{
				Roots:      roots,
				Upstream:   upstream,
				Downstream: downstream,
				OutDir:     outDir,
				Overwrite:  overwrite,
				Workers:    workers,
			})
			if err != nil {
				return err
			}
			exec.SetLogger(logger)

			logger.Info("extracting flanking neighbors",
				zap.Int("rows", len(filtered)),
				zap.Int("workers", workers),
				zap.Int("upstream", upstream),
				zap.Int("downstream", downstream))

			results, err := exec.Run(filtered)
			if err != nil {
				return err
			}

			skipped, failed := 0, 0
			for _, r := range results {
				if r.Skip != "" {
					skipped++
				}
				if r.Err != nil {
					failed++
				}
			}

			out := tableOut
			if out == "" {
				out = filepath.Join(outDir, "flanking_segments.tsv")
			}
			if err := flank.WriteTableFile(out, results); err != nil {
				return err
			}

			logger.Info("extraction complete",
				zap.Int("rows", len(results)),
				zap.Int("skipped", skipped),
				zap.Int("failed", failed),
				zap.String("table", out))
			return nil
		},
	}

	cmd.Flags().StringVarP(&summaryPath, "summary", "i", "", "Input summary TSV with target_name/target_file/source/prot_start/prot_end/strand columns")
	cmd.Flags().StringVarP(&outDir, "out-dir", "o", "", "Output directory for per-target FASTA artifacts")
	cmd.Flags().StringVar(&tableOut, "table-out", "", "Result table path (default <out-dir>/flanking_segments.tsv)")
	cmd.Flags().StringVar(&sourceMapFile, "source-map", "", "JSON or YAML file mapping source tags to archive root directories")
	cmd.Flags().StringArrayVar(&mapFlags, "map", nil, "Single source mapping key=/abs/path (repeatable)")
	cmd.Flags().StringVar(&filterSpec, "filter-sources", "", "Only process these sources (comma-separated; default: all mapped sources)")
	cmd.Flags().IntVar(&workers, "workers", 0, "Worker pool size (default: number of CPUs)")
	cmd.Flags().IntVar(&upstream, "upstream", defaultWindow, "Upstream window size in bp")
	cmd.Flags().IntVar(&downstream, "downstream", defaultWindow, "Downstream window size in bp")
	cmd.Flags().BoolVar(&overwrite, "overwrite", false, "Overwrite existing per-target FASTA artifacts")

	_ = cmd.MarkFlagRequired("summary")
	_ = cmd.MarkFlagRequired("out-dir")

	// Config file values apply when the flags are left at defaults.
	cmd.PreRun = func(cmd *cobra.Command, args []string) {
		if !cmd.Flags().Changed("upstream") && viper.IsSet("window.upstream") {
			upstream = viper.GetInt("window.upstream")
		}
		if !cmd.Flags().Changed("downstream") && viper.IsSet("window.downstream") {
			downstream = viper.GetInt("window.downstream")
		}
	}

	return cmd
}

// defaultWindow is the flanking window size applied when neither the
// flag nor the config provides one.
const defaultWindow = 10000
