package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/nexo-digital/site/internal/cms"
)

var errProblemsFound = errors.New("content problems found")

func newValidateCmd(flags *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "validate",
		Short: "Check content for parse errors and duplicate slugs",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := flags.config(cmd)
			if err != nil {
				return err
			}
			logger := flags.logger(cmd)
			store, generator := sources(cfg, logger)

			problems, err := cms.Validate(cmd.Context(), store)
			if err != nil {
				return err
			}
			// Broken taxonomy files surface as sitemap failures, so check them here too.
			if _, err := generator.ServiceLocationPairs(cmd.Context()); err != nil {
				problems = append(problems, cms.Problem{Kind: "seo", Message: err.Error()})
			}
			if _, err := generator.IndustrySolutionPairs(cmd.Context()); err != nil {
				problems = append(problems, cms.Problem{Kind: "seo", Message: err.Error()})
			}

			out := cmd.OutOrStdout()
			for _, p := range problems {
				fmt.Fprintln(out, p.String())
			}
			if len(problems) > 0 {
				return fmt.Errorf("%w: %d", errProblemsFound, len(problems))
			}
			logger.Info("content ok", zap.String("dir", cfg.Content.Dir))
			return nil
		},
	}
}
