// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the pdf2jpg CLI: batch conversion of
// PDF first pages to JPEG, plus the browser upload service.
package main

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/pdiddy/pdf2jpg/internal/secrets"
	"github.com/pdiddy/pdf2jpg/pkg/types"
)

// version is set at build time via ldflags.
var version = "dev"

var (
	// loadedSecrets holds credentials loaded from .secrets/ at startup.
	loadedSecrets map[string]string

	logger = zap.NewNop()
)

// rootCmd is the base command for the pdf2jpg CLI.
var rootCmd = &cobra.Command{
	Use:   "pdf2jpg",
	Short: "Convert the first page of PDF files to JPEG images",
	Long: `pdf2jpg renders the first page of each PDF at a chosen DPI, scales it and
writes it as a JPEG. Inputs may be files, directories (searched recursively)
or glob patterns; files are converted in parallel.

The serve subcommand runs a small web interface for uploading PDFs and
downloading the results.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		verbose, _ := cmd.Flags().GetBool("verbose")
		l, err := newLogger(verbose, zap.WarnLevel)
		if err != nil {
			return fmt.Errorf("building logger: %w", err)
		}
		logger = l

		s, err := secrets.Load(".secrets/")
		if err != nil {
			return err
		}
		loadedSecrets = s
		if len(s) > 0 {
			keys := make([]string, 0, len(s))
			for k := range s {
				keys = append(keys, k)
			}
			sort.Strings(keys)
			fmt.Fprintf(os.Stderr, "Loaded secrets: %v\n", keys)
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		_ = logger.Sync()
	},
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().String("config", "", "config file (default: ./pdf2jpg.yaml or ~/.config/pdf2jpg/config.yaml)")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "log debug output to stderr")
	rootCmd.PersistentFlags().String("backend", string(types.BackendPoppler), "rasterizer backend: poppler or mupdf")
	rootCmd.PersistentFlags().String("poppler-path", "", "directory containing pdftoppm (default: search $PATH)")

	mustBind("render.backend", rootCmd.PersistentFlags().Lookup("backend"))
	mustBind("render.poppler_path", rootCmd.PersistentFlags().Lookup("poppler-path"))

	setDefaults(types.DefaultConfig())
}

func initConfig() {
	// A missing .env is normal.
	_ = godotenv.Load()

	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("pdf2jpg")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "pdf2jpg"))
		}
	}

	viper.SetEnvPrefix("PDF2JPG")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

// newLogger returns a development logger when verbose, otherwise a JSON
// production logger at level.
func newLogger(verbose bool, level zapcore.Level) (*zap.Logger, error) {
	if verbose {
		return zap.NewDevelopment()
	}
	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevelAt(level)
	return cfg.Build()
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
