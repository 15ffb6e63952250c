// Command sitectl runs build-time tasks against the site's content:
// sitemap generation, route listing, content validation and WordPress import.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "sitectl:", err)
		stop()
		os.Exit(1)
	}
}
