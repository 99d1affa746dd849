// Package main is the entry point for the psclink CLI.
//
// psclink provisions Private Service Connect topologies on Google Cloud: a
// producer project publishing a Cloud Run service behind an internal load
// balancer and service attachment, and a consumer project reaching it
// through a PSC endpoint. Resources are managed by the Pulumi engine through
// its Automation API.
//
// Commands: init, validate, preview, apply, refresh, destroy, outputs,
// doctor, render.
//
// For detailed usage information, run:
//
//	psclink --help
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/imamik/psclink/cmd/psclink/commands"
)

// Version information set by goreleaser at build time.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	commands.SetVersionInfo(version, commit, date)
	if err := commands.Root().ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		stop()
		os.Exit(1)
	}
}
