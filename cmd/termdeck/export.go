package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/kailas-cloud/termdeck/internal/config"
	"github.com/kailas-cloud/termdeck/internal/metrics"
	"github.com/kailas-cloud/termdeck/internal/repository/deckfile"
	exportuc "github.com/kailas-cloud/termdeck/internal/usecase/export"
	searchuc "github.com/kailas-cloud/termdeck/internal/usecase/search"
)

const keyExportCollections = "export.collections"

var errSelectionNotReady = errors.New("select at least one collection and one target language other than the source")

func newExportCmd(v *viper.Viper) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Search the selected collections and write a TSV flashcard deck",
		Example: "  termdeck export -s IT -t DE,FR -c 12 -c 40 -o decks/\n" +
			"  termdeck export -c 12 -o - > deck.tsv",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, logger, err := setup(v)
			if err != nil {
				return err
			}
			defer func() { _ = logger.Sync() }()

			metrics.RegisterUpstreamMetrics()

			f, err := defaultSelection(cfg, v.GetIntSlice(keyExportCollections))
			if err != nil {
				return err
			}
			if !f.Ready() {
				return errSelectionNotReady
			}

			d, err := buildDeps(cmd.Context(), cfg, logger)
			if err != nil {
				return err
			}
			defer d.Close()

			svc := exportuc.New(searchuc.New(d.api), cfg.Export.Limit)
			writer := deckfile.NewWriter(cfg.Export.OutputDir, cmd.OutOrStdout(), logger)

			path, deck, err := svc.ExportSelection(cmd.Context(), f, writer)
			if err != nil {
				return fmt.Errorf("export deck: %w", err)
			}
			logger.Info("Export finished",
				zap.Int("entries", deck.Entries),
				zap.Int("rows", len(deck.Rows)),
				zap.String("path", path),
			)
			switch {
			case deck.Empty():
				cmd.PrintErrln("No entries matched the selection, nothing written")
			case path != deckfile.StdoutDir:
				cmd.PrintErrf("Wrote %d cards to %s\n", len(deck.Rows), path)
			}
			return nil
		},
	}

	cmd.Flags().IntSliceP("collections", "c", nil, "collection ids to search, comma separated or repeated")
	cmd.Flags().StringP("output", "o", "", `output directory, "-" writes to stdout`)
	cmd.Flags().Int("limit", 0, "maximum number of entries exported")

	bindFlagToViper(v, keyExportCollections, cmd.Flags().Lookup("collections"))
	bindFlagToViper(v, config.KeyExportOutputDir, cmd.Flags().Lookup("output"))
	bindFlagToViper(v, config.KeyExportLimit, cmd.Flags().Lookup("limit"))
	return cmd
}
