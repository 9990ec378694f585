package main

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"strconv"

	"github.com/couchcryptid/festival-guide/internal/adapter/csvfile"
	"github.com/couchcryptid/festival-guide/internal/catalog"
	"github.com/couchcryptid/festival-guide/internal/config"
	"github.com/couchcryptid/festival-guide/internal/observability"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
)

// app is the state shared by all subcommands, built in PersistentPreRunE.
type app struct {
	dataPath  string
	encodings string
	seed      string
	jsonOut   bool

	cfg     *config.Config
	logger  *slog.Logger
	catalog *catalog.Catalog
}

func newRootCmd() *cobra.Command {
	a := &app{}

	root := &cobra.Command{
		Use:           "festctl",
		Short:         "Query the Korean regional festival dataset",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.init(cmd)
		},
	}

	root.PersistentFlags().StringVar(&a.dataPath, "data", "", "dataset path, .csv or .xlsx (default $FESTIVAL_DATA_PATH)")
	root.PersistentFlags().StringVar(&a.encodings, "encodings", "", "CSV encodings to try in order (default $FESTIVAL_ENCODINGS)")
	root.PersistentFlags().StringVar(&a.seed, "seed", "", "jitter seed for reproducible coordinates (default $JITTER_SEED)")
	root.PersistentFlags().BoolVar(&a.jsonOut, "json", false, "print JSON instead of a table")

	root.AddCommand(
		newFilterCmd(a),
		newRankingCmd(a),
		newSeasonalCmd(a),
		newChatCmd(a),
		newQualityCmd(a),
		newExportCmd(a),
	)
	return root
}

func (a *app) init(cmd *cobra.Command) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if a.dataPath != "" {
		cfg.DataPath = a.dataPath
	}
	if a.encodings != "" {
		encs, err := csvfile.ParseEncodings(a.encodings)
		if err != nil {
			return fmt.Errorf("invalid --encodings: %w", err)
		}
		cfg.Encodings = encs
	}
	if a.seed != "" {
		seed, err := strconv.ParseUint(a.seed, 10, 64)
		if err != nil {
			return fmt.Errorf("invalid --seed: %w", err)
		}
		cfg.JitterSeed = &seed
	}

	a.cfg = cfg
	a.logger = observability.NewCLILogger(cmd.ErrOrStderr(), cfg)
	a.catalog = catalog.New(catalog.OpenSource(cfg.DataPath, cfg.Encodings), catalog.Options{
		SourceName:     cfg.DataPath,
		JitterSigma:    cfg.JitterSigma,
		JitterSeed:     cfg.JitterSeed,
		QueryCacheSize: cfg.QueryCacheSize,
		LoadOnDemand:   true,
	}, a.logger, observability.NewMetricsWithRegisterer(prometheus.NewRegistry()))
	return nil
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	return enc.Encode(v)
}
