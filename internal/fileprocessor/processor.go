// Package fileprocessor handles the processing of a single input file
package fileprocessor

import (
	"context"
	"fmt"
	"strings"

	"github.com/retroenv/retrogolib/log"
	"github.com/retroenv/seqvol/internal/options"
	"github.com/retroenv/seqvol/internal/pipeline"
)

// ProcessFile handles the complete file processing workflow
func ProcessFile(ctx context.Context, logger *log.Logger, opts options.Program,
	editor options.Editor, streams pipeline.IO) (*pipeline.Summary, error) {

	p := pipeline.New(logger, streams)
	summary, err := p.Execute(ctx, opts, editor)
	if err != nil {
		return nil, fmt.Errorf("processing %s: %w", opts.Input, err)
	}
	return summary, nil
}

// PrintBanner prints the tool version and the selected editing defaults.
// Archives override the game at processing time.
func PrintBanner(logger *log.Logger, opts options.Program, version, commit, date string) {
	if opts.Quiet {
		return
	}

	logger.Info("Zelda64 sequence volume editor",
		log.String("version", versionString(version, commit, date)),
		log.String("game", opts.Game),
		log.String("mode", opts.Mode))
}

// versionString joins the version with the short commit hash and the build
// date, skipping parts the linker did not set.
func versionString(version, commit, date string) string {
	var parts []string
	if len(commit) > 7 {
		commit = commit[:7]
	}
	if commit != "" {
		parts = append(parts, commit)
	}
	if date != "" && !strings.Contains(date, "unknown") {
		parts = append(parts, date)
	}

	if len(parts) == 0 {
		return version
	}
	return fmt.Sprintf("%s (%s)", version, strings.Join(parts, ", "))
}
