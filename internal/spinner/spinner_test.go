package spinner

import (
	"bytes"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/retroenv/retrogolib/assert"
)

func finished(err error) <-chan error {
	done := make(chan error, 1)
	done <- err
	return done
}

func TestRun_Disabled(t *testing.T) {
	buf := &bytes.Buffer{}
	s := New(buf, false, false)

	assert.NoError(t, s.Run(finished(nil), "Parsing", "Parsing complete"))
	assert.Equal(t, "  Parsing complete\n", buf.String())
}

func TestRun_Enabled(t *testing.T) {
	buf := &bytes.Buffer{}
	s := New(buf, true, false)
	s.interval = time.Millisecond

	done := make(chan error, 1)
	go func() {
		time.Sleep(20 * time.Millisecond)
		done <- nil
	}()

	assert.NoError(t, s.Run(done, "Parsing", "Parsing complete"))

	output := buf.String()
	assert.True(t, strings.Contains(output, Frames[0]+" Parsing\r"), "output %q", output)
	assert.True(t, strings.HasSuffix(output, "  Parsing complete\n"), "output %q", output)
}

func TestRun_StageFailed(t *testing.T) {
	errDecode := errors.New("decode failed")

	t.Run("disabled", func(t *testing.T) {
		buf := &bytes.Buffer{}
		assert.NoError(t, New(buf, false, false).Run(finished(errDecode), "Parsing", "Parsing complete"))
		assert.Empty(t, buf.String())
	})

	t.Run("enabled", func(t *testing.T) {
		buf := &bytes.Buffer{}
		assert.NoError(t, New(buf, true, false).Run(finished(errDecode), "Parsing", "Parsing complete"))
		assert.False(t, strings.Contains(buf.String(), "Parsing complete"), "output %q", buf.String())
	})
}

func TestRun_NoCompletionMessage(t *testing.T) {
	buf := &bytes.Buffer{}

	assert.NoError(t, New(buf, false, false).Run(finished(nil), "Parsing", ""))
	assert.Empty(t, buf.String())
}
