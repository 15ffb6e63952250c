package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/nexo-digital/site/internal/cms"
	"github.com/nexo-digital/site/internal/platform/config"
	"github.com/nexo-digital/site/internal/platform/observability"
	"github.com/nexo-digital/site/internal/programmatic"
	"github.com/nexo-digital/site/internal/seodata"
)

// globalFlags are shared by every subcommand. Non-empty values override the
// environment.
type globalFlags struct {
	envFile    string
	contentDir string
	dataDir    string
	baseURL    string
	verbose    bool
}

func newRootCmd() *cobra.Command {
	flags := &globalFlags{}
	root := &cobra.Command{
		Use:           "sitectl",
		Short:         "Build-time tooling for the marketing site",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return cmd.Help()
		},
	}

	pf := root.PersistentFlags()
	pf.StringVar(&flags.envFile, "env-file", ".env", "dotenv file with local overrides")
	pf.StringVar(&flags.contentDir, "content-dir", "", "content root (overrides SITE_CONTENT_DIR)")
	pf.StringVar(&flags.dataDir, "data-dir", "", "SEO data directory (overrides SITE_DATA_DIR)")
	pf.StringVar(&flags.baseURL, "base-url", "", "public base URL (overrides SITE_BASE_URL)")
	pf.BoolVarP(&flags.verbose, "verbose", "v", false, "log debug output")

	root.AddCommand(
		newSitemapCmd(flags),
		newRoutesCmd(flags),
		newValidateCmd(flags),
		newImportWordPressCmd(flags),
	)
	return root
}

func (f *globalFlags) config(cmd *cobra.Command) (config.Config, error) {
	overrides := map[string]string{}
	if f.contentDir != "" {
		overrides["SITE_CONTENT_DIR"] = f.contentDir
	}
	if f.dataDir != "" {
		overrides["SITE_DATA_DIR"] = f.dataDir
	}
	if f.baseURL != "" {
		overrides["SITE_BASE_URL"] = f.baseURL
	}
	cfg, err := config.Load(cmd.Context(), config.WithEnvFile(f.envFile), config.WithEnvMap(overrides))
	if err != nil {
		return config.Config{}, fmt.Errorf("load config: %w", err)
	}
	return cfg, nil
}

// logger writes to the command's stderr so stdout stays clean for generated
// output.
func (f *globalFlags) logger(cmd *cobra.Command) *zap.Logger {
	return observability.NewConsoleLogger(cmd.ErrOrStderr(), f.verbose).Named("sitectl")
}

// sources opens the content store and programmatic generator for cfg.
func sources(cfg config.Config, logger *zap.Logger) (*cms.Store, *programmatic.Generator) {
	store := cms.NewStore(cfg.Content.Dir, cms.WithLogger(logger.Named("cms")))
	return store, programmatic.NewGenerator(seodata.NewStore(cfg.Content.DataDir))
}
