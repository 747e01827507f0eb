package mutation

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/retroenv/retrogolib/assert"
	"github.com/retroenv/retrogolib/log"
	"github.com/retroenv/seqvol/internal/addrset"
	"github.com/retroenv/seqvol/internal/decoder"
	"github.com/retroenv/seqvol/internal/game"
	"github.com/retroenv/seqvol/internal/patcher"
)

// fixture decodes data from a temporary file and returns an orchestrator
// patching that file.
func fixture(t *testing.T, data []byte) (*Orchestrator, *addrset.Sets, string) {
	t.Helper()

	path := filepath.Join(t.TempDir(), "test.seq")
	assert.NoError(t, os.WriteFile(path, data, 0o644))

	file, err := os.OpenFile(path, os.O_RDWR, 0)
	assert.NoError(t, err)
	t.Cleanup(func() { _ = file.Close() })

	logger := log.NewTestLogger(t)
	result, err := decoder.New(logger, game.MM).Decode(file)
	assert.NoError(t, err)

	return New(logger, patcher.New(file, int64(len(data)))), result.Sets, path
}

func redecode(t *testing.T, path string) *decoder.Result {
	t.Helper()

	data, err := os.ReadFile(path)
	assert.NoError(t, err)
	result, err := decoder.New(log.NewTestLogger(t), game.MM).Decode(bytes.NewReader(data))
	assert.NoError(t, err)
	return result
}

func TestApply_Volume(t *testing.T) {
	orch, sets, path := fixture(t, []byte{0xDB, 0x40, 0xFF})

	report, err := orch.Apply(sets, Request{Volume: Uniform(0x7F)})
	assert.NoError(t, err)
	assert.False(t, report.NoVolume)
	assert.True(t, report.Changed())
	assert.Len(t, report.Volume, 1)

	data, err := os.ReadFile(path)
	assert.NoError(t, err)
	assert.Equal(t, []byte{0xDB, 0x7F, 0xFF}, data)

	result := redecode(t, path)
	arg, ok := result.Instructions[0].Arg(0)
	assert.True(t, ok)
	assert.Equal(t, int32(0x7F), arg.Value)
}

func TestApply_VolumeMultiple(t *testing.T) {
	orch, sets, path := fixture(t, []byte{0xDB, 0x40, 0xDB, 0x50, 0xFF})

	values := map[int64]byte{1: 0x10, 3: 0x20}
	report, err := orch.Apply(sets, Request{Volume: func(address int64) (byte, error) {
		return values[address], nil
	}})
	assert.NoError(t, err)
	assert.Len(t, report.Volume, 2)

	data, err := os.ReadFile(path)
	assert.NoError(t, err)
	assert.Equal(t, []byte{0xDB, 0x10, 0xDB, 0x20, 0xFF}, data)
}

func TestApply_NoVolume(t *testing.T) {
	orch, sets, path := fixture(t, []byte{0xFA, 0x00, 0x10, 0xFF})

	report, err := orch.Apply(sets, Request{Volume: Uniform(0x7F), FixJumps: true})
	assert.NoError(t, err)
	assert.True(t, report.NoVolume)
	assert.True(t, report.FixedJumps)
	assert.Empty(t, report.Volume)
	assert.Len(t, report.Jumps, 1)

	data, err := os.ReadFile(path)
	assert.NoError(t, err)
	assert.Equal(t, []byte{0xFB, 0x00, 0x10, 0xFF}, data)
}

func TestApply_NothingRequested(t *testing.T) {
	orch, sets, path := fixture(t, []byte{0xDB, 0x40, 0xFA, 0x00, 0x10, 0xFF})

	report, err := orch.Apply(sets, Request{})
	assert.NoError(t, err)
	assert.False(t, report.Changed())
	assert.False(t, report.NoVolume)

	data, err := os.ReadFile(path)
	assert.NoError(t, err)
	assert.Equal(t, []byte{0xDB, 0x40, 0xFA, 0x00, 0x10, 0xFF}, data)
}

func TestFixJumps(t *testing.T) {
	input := []byte{
		0xFB, 0x00, 0x20, // jump
		0xFA, 0x00, 0x21, // eqjump
		0xF9, 0x00, 0x22, // ltjump
		0xF5, 0x00, 0x23, // gteqjump
		0xF4, 0x02, // rjump
		0xF3, 0x03, // reqjump
		0xF2, 0x04, // rltjump
		0xFF,
	}
	orch, sets, path := fixture(t, input)
	before := redecode(t, path)

	changes, err := orch.FixJumps(sets)
	assert.NoError(t, err)
	assert.Len(t, changes, 5)

	data, err := os.ReadFile(path)
	assert.NoError(t, err)
	assert.Equal(t, []byte{
		0xFB, 0x00, 0x20,
		0xFB, 0x00, 0x21,
		0xFB, 0x00, 0x22,
		0xFB, 0x00, 0x23,
		0xF4, 0x02,
		0xF4, 0x03,
		0xF4, 0x04,
		0xFF,
	}, data)

	after := redecode(t, path)
	assert.Equal(t, len(before.Instructions), len(after.Instructions))
	for i, ins := range after.Instructions {
		assert.Equal(t, before.Instructions[i].Address, ins.Address)
		assert.Equal(t, before.Instructions[i].Advance, ins.Advance)
		assert.Equal(t, before.Instructions[i].Args, ins.Args)
	}
	for _, kind := range ConditionalJumps {
		assert.Equal(t, 0, after.Sets.Len(kind), "kind %s", kind)
	}
}

type failingPatcher struct{}

var errWrite = errors.New("write failed")

func (failingPatcher) Patch(int64, byte) error { return errWrite }

func TestApply_PatchError(t *testing.T) {
	sets := addrset.New()
	sets.Add(addrset.Volume, 1)

	orch := New(log.NewTestLogger(t), failingPatcher{})
	_, err := orch.Apply(sets, Request{Volume: Uniform(0x10)})
	assert.True(t, errors.Is(err, errWrite))
}

func TestApplyVolume_SourceError(t *testing.T) {
	orch, sets, path := fixture(t, []byte{0xDB, 0x40, 0xDB, 0x50, 0xFF})

	errStop := errors.New("stop")
	calls := 0
	changes, err := orch.ApplyVolume(sets, func(int64) (byte, error) {
		calls++
		if calls == 2 {
			return 0, errStop
		}
		return 0x01, nil
	})
	assert.True(t, errors.Is(err, errStop))
	assert.Len(t, changes, 1)

	data, err := os.ReadFile(path)
	assert.NoError(t, err)
	assert.Equal(t, []byte{0xDB, 0x01, 0xDB, 0x50, 0xFF}, data)
}
