package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/nexo-digital/site/internal/wpimport"
)

func newImportWordPressCmd(flags *globalFlags) *cobra.Command {
	var (
		file   string
		dryRun bool
	)
	cmd := &cobra.Command{
		Use:   "import-wordpress",
		Short: "Convert a WordPress WXR export into markdown posts",
		Long: `Reads a WordPress export (Tools > Export) and writes one markdown file per
published post under <content-dir>/posts. Existing files are never overwritten.`,
		Example: `  sitectl import-wordpress --file export.xml --dry-run`,
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := flags.config(cmd)
			if err != nil {
				return err
			}
			logger := flags.logger(cmd)

			f, err := os.Open(file)
			if err != nil {
				return fmt.Errorf("open export: %w", err)
			}
			defer f.Close()

			importer := wpimport.New(cfg.Content.Dir,
				wpimport.WithLogger(logger.Named("wpimport")),
				wpimport.WithDryRun(dryRun),
			)
			summary, err := importer.Run(cmd.Context(), f)
			if err != nil {
				return err
			}
			logger.Info("import finished",
				zap.String("run_id", summary.RunID),
				zap.Bool("dry_run", dryRun),
			)
			fmt.Fprintf(cmd.OutOrStdout(), "created=%d skipped=%d errored=%d ignored=%d\n",
				summary.Created, summary.Skipped, summary.Errored, summary.Ignored)
			return nil
		},
	}
	cmd.Flags().StringVarP(&file, "file", "f", "", "path to the WXR export")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "convert without writing files")
	_ = cmd.MarkFlagRequired("file")
	return cmd
}
