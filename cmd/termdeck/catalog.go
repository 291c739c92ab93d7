package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/kailas-cloud/termdeck/internal/domain"
	"github.com/kailas-cloud/termdeck/internal/domain/collection"
)

func newCollectionsCmd(v *viper.Viper) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "collections [term]",
		Short: "List the subject collections available for the source language",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logger, err := setup(v)
			if err != nil {
				return err
			}
			defer func() { _ = logger.Sync() }()

			source, err := domain.ParseLanguage(cfg.Session.DefaultSource)
			if err != nil {
				return err //nolint:wrapcheck // validated already, message is explicit
			}

			d, err := buildDeps(cmd.Context(), cfg, logger)
			if err != nil {
				return err
			}
			defer d.Close()

			cols, err := d.api.FetchCollections(cmd.Context(), source)
			if err != nil {
				return fmt.Errorf("fetch collections: %w", err)
			}

			term := ""
			if len(args) == 1 {
				term = args[0]
			}
			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "ID\tCODE\tNAME")
			for _, c := range collection.Match(collection.SortByName(cols), term) {
				fmt.Fprintf(tw, "%d\t%s\t%s\n", c.ID, c.Code, c.Name)
			}
			return tw.Flush() //nolint:wrapcheck // stdout write
		},
	}
	return cmd
}

func newLanguagesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "languages",
		Short: "List the supported language codes",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "CODE\tLANGUAGE\tAPI ID")
			for _, o := range domain.LanguageOptions() {
				id, _ := domain.LanguageID(o.Code)
				fmt.Fprintf(tw, "%s\t%s\t%d\n", o.Code, o.Label, id)
			}
			return tw.Flush() //nolint:wrapcheck // stdout write
		},
	}
}
