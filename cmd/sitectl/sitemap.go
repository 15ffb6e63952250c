package main

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"net/url"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/nexo-digital/site/internal/sitemap"
	"github.com/nexo-digital/site/internal/tools"
)

func newSitemapCmd(flags *globalFlags) *cobra.Command {
	var (
		out    string
		asJSON bool
	)
	cmd := &cobra.Command{
		Use:   "sitemap",
		Short: "Generate sitemap.xml from content and SEO data",
		Example: `  sitectl sitemap --out public/sitemap.xml
  sitectl sitemap --json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			entries, err := buildRoutes(cmd, flags)
			if err != nil {
				return err
			}

			w := cmd.OutOrStdout()
			if out != "" && out != "-" {
				f, err := os.Create(out)
				if err != nil {
					return fmt.Errorf("create %s: %w", out, err)
				}
				defer f.Close()
				w = f
			}
			bw := bufio.NewWriter(w)
			if asJSON {
				enc := json.NewEncoder(bw)
				enc.SetIndent("", "  ")
				err = enc.Encode(entries)
			} else {
				err = sitemap.WriteXML(bw, entries)
			}
			if err != nil {
				return err
			}
			if err := bw.Flush(); err != nil {
				return fmt.Errorf("write sitemap: %w", err)
			}
			if out != "" && out != "-" {
				flags.logger(cmd).Info("sitemap written", zap.String("path", out), zap.Int("urls", len(entries)))
			}
			return nil
		},
	}
	cmd.Flags().StringVarP(&out, "out", "o", "", "output file (default stdout)")
	cmd.Flags().BoolVar(&asJSON, "json", false, "emit the route entries as JSON")
	return cmd
}

func newRoutesCmd(flags *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "routes",
		Short: "List every public route path, one per line",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			entries, err := buildRoutes(cmd, flags)
			if err != nil {
				return err
			}
			return printPaths(cmd.OutOrStdout(), entries)
		},
	}
}

func buildRoutes(cmd *cobra.Command, flags *globalFlags) ([]sitemap.RouteEntry, error) {
	cfg, err := flags.config(cmd)
	if err != nil {
		return nil, err
	}
	logger := flags.logger(cmd)
	store, generator := sources(cfg, logger)
	builder := sitemap.Builder{
		BaseURL:        cfg.Site.BaseURL,
		Content:        store,
		Programmatic:   generator,
		Tools:          tools.Slugs(),
		KeepDuplicates: cfg.Sitemap.KeepDuplicates,
	}
	entries, err := builder.Build(cmd.Context())
	if err != nil {
		return nil, err
	}
	logger.Debug("routes built", zap.Int("count", len(entries)))
	return entries, nil
}

func printPaths(w io.Writer, entries []sitemap.RouteEntry) error {
	bw := bufio.NewWriter(w)
	for _, e := range entries {
		path := e.URL
		if u, err := url.Parse(e.URL); err == nil && u.Path != "" {
			path = u.Path
		}
		if _, err := fmt.Fprintln(bw, path); err != nil {
			return err
		}
	}
	return bw.Flush()
}
