// Package main implements the main entry point for the Zelda64 sequence master volume editor
package main

import (
	"context"
	"errors"
	"os"

	"github.com/retroenv/retrogolib/app"
	"github.com/retroenv/seqvol/internal/cli"
	"github.com/retroenv/seqvol/internal/config"
	"github.com/retroenv/seqvol/internal/fileprocessor"
	"github.com/retroenv/seqvol/internal/pipeline"
	"github.com/retroenv/seqvol/internal/prompt"
)

var (
	version = "dev"
	commit  = ""
	date    = ""
)

func main() {
	ctx := app.Context()

	opts, editor, err := cli.ParseFlags()
	if err != nil {
		logger := config.CreateLogger(opts.Debug, opts.Quiet)
		var usageErr *cli.UsageError
		if errors.As(err, &usageErr) {
			fileprocessor.PrintBanner(logger, opts, version, commit, date)
			usageErr.ShowUsage()
		} else {
			logger.Fatal(err.Error())
		}
		os.Exit(1)
	}

	logger := config.CreateLogger(opts.Debug, opts.Quiet)
	fileprocessor.PrintBanner(logger, opts, version, commit, date)

	if _, err := fileprocessor.ProcessFile(ctx, logger, opts, editor, pipeline.StdIO()); err != nil {
		switch {
		// Handle context cancellation (Ctrl+C) gracefully
		case errors.Is(err, context.Canceled):
			logger.Info("Operation cancelled")
			return
		case errors.Is(err, prompt.ErrExit):
			logger.Info("Closing sequence and exiting process")
			os.Exit(1)
		default:
			logger.Fatal(err.Error())
		}
	}
}
