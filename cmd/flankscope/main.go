// Package main provides the flankscope command-line tool.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Version information (set at build time)
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

var verbose bool

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "flankscope",
		Short: "Locate and annotate the gene neighborhood of protein hits",
		Long: `flankscope locates, for a set of protein "hit" features, the
neighboring gene calls that fall within a configurable up-/down-stream
window across heterogeneously-annotated genome sources, and integrates
external per-gene annotation tables onto the matched neighbors.`,
		Version:       fmt.Sprintf("%s (%s) built %s", version, commit, date),
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cobra.OnInitialize(initConfig)

	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")

	root.AddCommand(newExtractCmd())
	root.AddCommand(newIntegrateCmd())
	root.AddCommand(newDomtblCmd())
	root.AddCommand(newSeqsCmd())
	root.AddCommand(newExportCmd())
	root.AddCommand(newConfigCmd())

	return root
}

// initConfig loads ~/.flankscope.yaml if present. Missing config is
// fine; all settings have flag equivalents.
func initConfig() {
	home, err := os.UserHomeDir()
	if err != nil {
		return
	}
	viper.AddConfigPath(home)
	viper.SetConfigName(".flankscope")
	viper.SetConfigType("yaml")
	_ = viper.ReadInConfig()
}

// newLogger builds the CLI console logger.
func newLogger() (*zap.Logger, error) {
	cfg := zap.NewDevelopmentConfig()
	cfg.Level = zap.NewAtomicLevelAt(zapcore.InfoLevel)
	if verbose {
		cfg.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
	}
	cfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	return cfg.Build()
}
