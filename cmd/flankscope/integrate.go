package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/metaflank/flankscope/internal/integrate"
)

func newIntegrateCmd() *cobra.Command {
	var (
		segmentsPath string
		domainPath   string
		orthologPath string
		outPath      string
	)

	cmd := &cobra.Command{
		Use:   "integrate",
		Short: "Join external annotations onto extracted flanking matches",
		Long: `Expand the flanking_segments column of an extract result table
into one row per match, compute relative distances to the target, and
left-join domain-search and ortholog-mapper annotation tables by gene
id. Matches without external annotation keep empty fields.`,
		Example: `  flankscope integrate --segments out/flanking_segments.tsv \
      --domains merged_pfam.tsv --orthologs merged_emapper.tsv \
      -o flanking_annotated.tsv`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			logger, err := newLogger()
			if err != nil {
				return err
			}
			defer logger.Sync()

			rows, err := integrate.ReadSegmentRows(segmentsPath)
			if err != nil {
				return err
			}

			domains := map[string]integrate.DomainAnnotation{}
			if domainPath != "" {
				domains, err = integrate.LoadDomainTable(domainPath)
				if err != nil {
					return err
				}
			}
			orthologs := map[string]integrate.OrthologAnnotation{}
			if orthologPath != "" {
				orthologs, err = integrate.LoadOrthologTable(orthologPath)
				if err != nil {
					return err
				}
			}

			joined := integrate.Join(rows, domains, orthologs)
			if len(joined) == 0 {
				logger.Warn("no flanking segments to integrate; writing header-only table")
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
			if err := integrate.WriteJoined(f, joined); err != nil {
				return err
			}

			logger.Info("integration complete",
				zap.Int("targets", len(rows)),
				zap.Int("matches", len(joined)),
				zap.Int("domain_annotated", len(domains)),
				zap.Int("ortholog_annotated", len(orthologs)),
				zap.String("out", outPath))
			return nil
		},
	}

	cmd.Flags().StringVar(&segmentsPath, "segments", "", "Extract result table with the flanking_segments column")
	cmd.Flags().StringVar(&domainPath, "domains", "", "Merged domain-search TSV (domtbl merge output)")
	cmd.Flags().StringVar(&orthologPath, "orthologs", "", "Merged ortholog-mapper TSV")
	cmd.Flags().StringVarP(&outPath, "out", "o", "", "Output TSV path")

	_ = cmd.MarkFlagRequired("segments")
	_ = cmd.MarkFlagRequired("out")

	return cmd
}
