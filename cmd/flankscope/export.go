package main

import (
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/metaflank/flankscope/internal/integrate"
	"github.com/metaflank/flankscope/internal/store"
)

func newExportCmd() *cobra.Command {
	var (
		segmentsPath string
		domainPath   string
		orthologPath string
		dbPath       string
		clear        bool
	)

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Load an integrated flanking table into DuckDB",
		Long: `Join external annotations onto extracted flanking matches (as
"integrate" does) and append the result to a DuckDB database for ad-hoc
SQL analysis.`,
		Example: `  flankscope export --segments out/flanking_segments.tsv \
      --domains merged_pfam.tsv --db flanking.duckdb`,
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

			s, err := store.Open(dbPath)
			if err != nil {
				return err
			}
			defer s.Close()

			if clear {
				if err := s.Clear(); err != nil {
					return err
				}
			}
			if err := s.InsertJoined(joined); err != nil {
				return err
			}

			total, err := s.Count()
			if err != nil {
				return err
			}
			logger.Info("export complete",
				zap.Int("inserted", len(joined)),
				zap.Int64("total", total),
				zap.String("db", dbPath))
			return nil
		},
	}

	cmd.Flags().StringVar(&segmentsPath, "segments", "", "Extract result table with the flanking_segments column")
	cmd.Flags().StringVar(&domainPath, "domains", "", "Merged domain-search TSV")
	cmd.Flags().StringVar(&orthologPath, "orthologs", "", "Merged ortholog-mapper TSV")
	cmd.Flags().StringVar(&dbPath, "db", "", "DuckDB database path")
	cmd.Flags().BoolVar(&clear, "clear", false, "Clear existing rows before inserting")

	_ = cmd.MarkFlagRequired("segments")
	_ = cmd.MarkFlagRequired("db")

	return cmd
}
