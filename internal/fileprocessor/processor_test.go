package fileprocessor

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/retroenv/retrogolib/assert"
	"github.com/retroenv/retrogolib/log"
	"github.com/retroenv/seqvol/internal/game"
	"github.com/retroenv/seqvol/internal/options"
	"github.com/retroenv/seqvol/internal/pipeline"
)

func TestProcessFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "song.seq")
	assert.NoError(t, os.WriteFile(path, []byte{0xDB, 0x40, 0xF9, 0x00, 0x02, 0xFF}, 0o644))

	opts := options.Program{Parameters: options.Parameters{Input: path}}
	editor := options.Editor{Variant: game.MM, Mode: options.ModePrompt, Volume: 64, SetVolume: true, FixJumps: true}
	streams := pipeline.IO{In: strings.NewReader(""), Out: &bytes.Buffer{}}

	summary, err := ProcessFile(context.Background(), log.NewTestLogger(t), opts, editor, streams)
	assert.NoError(t, err)
	assert.Equal(t, pipeline.MessageVolumeAndJumps, summary.Message)

	data, err := os.ReadFile(path)
	assert.NoError(t, err)
	assert.Equal(t, []byte{0xDB, 0x40, 0xFB, 0x00, 0x02, 0xFF}, data)
}

func TestProcessFile_Error(t *testing.T) {
	opts := options.Program{Parameters: options.Parameters{Input: "missing.seq"}}
	streams := pipeline.IO{In: strings.NewReader(""), Out: &bytes.Buffer{}}

	_, err := ProcessFile(context.Background(), log.NewTestLogger(t), opts, options.Editor{FixJumps: true}, streams)
	assert.ErrorContains(t, err, "processing missing.seq")
}

func TestPrintBanner(t *testing.T) {
	logger := log.NewTestLogger(t)

	PrintBanner(logger, options.Program{}, "1.0.0", "0123456789abcdef", "2024-01-01")
	PrintBanner(logger, options.Program{Flags: options.Flags{Quiet: true}}, "dev", "", "")
}

func TestVersionString(t *testing.T) {
	tests := []struct {
		name    string
		version string
		commit  string
		date    string
		want    string
	}{
		{name: "version only", version: "dev", want: "dev"},
		{name: "short commit", version: "1.0.0", commit: "0123456789abcdef", want: "1.0.0 (0123456)"},
		{name: "commit and date", version: "1.0.0", commit: "abc", date: "2024-01-01", want: "1.0.0 (abc, 2024-01-01)"},
		{name: "unknown date", version: "1.0.0", date: "unknown", want: "1.0.0"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, versionString(tt.version, tt.commit, tt.date))
		})
	}
}
