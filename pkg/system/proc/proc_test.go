package proc

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const limitsFixture = `Limit                     Soft Limit           Hard Limit           Units
Max cpu time              unlimited            unlimited            seconds
Max file size             unlimited            unlimited            bytes
Max open files            1024                 4096                 files
Max locked memory         8388608              8388608              bytes
`

// writeTree creates files under a fresh directory. Keys are slash paths
// relative to the root; a trailing slash creates an empty directory.
func writeTree(t *testing.T, files map[string]string) string {
	t.Helper()
	root := t.TempDir()
	for name, body := range files {
		p := filepath.Join(root, filepath.FromSlash(name))
		if strings.HasSuffix(name, "/") {
			require.NoError(t, os.MkdirAll(p, 0o755))
			continue
		}
		require.NoError(t, os.MkdirAll(filepath.Dir(p), 0o755))
		require.NoError(t, os.WriteFile(p, []byte(body), 0o644))
	}
	return root
}

// statLine builds a 52-field stat line with the given 1-based positions
// overridden; every other numeric field is 0.
func statLine(comm string, vals map[int]int64) string {
	parts := []string{"123", "(" + comm + ")", "S"}
	for pos := 4; pos <= 52; pos++ {
		parts = append(parts, strconv.FormatInt(vals[pos], 10))
	}
	return strings.Join(parts, " ") + "\n"
}

func TestClockTicksAndPageSize(t *testing.T) {
	t.Setenv("CLK_TCK", "")
	t.Setenv("PAGE_SIZE", "")
	assert.Equal(t, DefaultClockTicks, ClockTicks())
	assert.Equal(t, DefaultPageSize, PageSize())

	t.Setenv("CLK_TCK", "250")
	t.Setenv("PAGE_SIZE", "16384")
	assert.Equal(t, 250, ClockTicks())
	assert.Equal(t, 16384, PageSize())

	t.Setenv("CLK_TCK", "nope")
	t.Setenv("PAGE_SIZE", "-1")
	assert.Equal(t, DefaultClockTicks, ClockTicks())
	assert.Equal(t, DefaultPageSize, PageSize())
}

func TestNewFS(t *testing.T) {
	assert.Equal(t, DefaultRoot, NewFS("").Root())
	fsys := NewFS("/tmp/x")
	assert.Equal(t, filepath.Join("/tmp/x", "stat"), fsys.Path("stat"))
	assert.Equal(t, filepath.Join("/tmp/x", "self", "fd", "3"), fsys.SelfPath("fd", "3"))
}

func TestParseStat(t *testing.T) {
	vals := map[int]int64{
		FieldUTime:     250,
		FieldSTime:     125,
		FieldStartTime: 500,
		FieldVSize:     123456789,
		FieldRSS:       10,
	}

	t.Run("simple_comm", func(t *testing.T) {
		s, err := ParseStat(statLine("my cmd", vals))
		require.NoError(t, err)
		assert.Equal(t, Stat{UTime: 250, STime: 125, StartTime: 500, VSize: 123456789, RSS: 10}, s)
	})

	t.Run("comm_with_paren_space", func(t *testing.T) {
		s, err := ParseStat(statLine("evil) 7 8 (x", vals))
		require.NoError(t, err)
		assert.Equal(t, int64(250), s.UTime)
		assert.Equal(t, int64(10), s.RSS)
	})

	t.Run("no_separator", func(t *testing.T) {
		_, err := ParseStat("123 cmd S 1 2 3")
		require.ErrorIs(t, err, ErrNoStat)
	})

	t.Run("short", func(t *testing.T) {
		_, err := ParseStat("123 (cmd) S 1 2 3 4 5 6 7 8 9 10 11 12 13 14 15 16 17 18 19")
		require.ErrorIs(t, err, ErrShortStat)
	})

	t.Run("not_numeric", func(t *testing.T) {
		line := strings.Replace(statLine("cmd", vals), " 250 ", " x ", 1)
		_, err := ParseStat(line)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "field 14")
	})
}

func TestReadStat(t *testing.T) {
	root := writeTree(t, map[string]string{
		"self/stat": statLine("cmd", map[int]int64{FieldUTime: 7, FieldRSS: 3}),
	})
	s, err := ReadStat(NewFS(root))
	require.NoError(t, err)
	assert.Equal(t, int64(7), s.UTime)
	assert.Equal(t, int64(3), s.RSS)

	_, err = ReadStat(NewFS(t.TempDir()))
	require.True(t, errors.Is(err, fs.ErrNotExist))
}

func TestReadBootTime(t *testing.T) {
	t.Run("present", func(t *testing.T) {
		root := writeTree(t, map[string]string{
			"stat": "cpu  1 2 3 4\ncpu0 1 2 3 4\nintr 5\nbtime 1000000000\nprocesses 12\n",
		})
		bt, err := ReadBootTime(NewFS(root))
		require.NoError(t, err)
		assert.Equal(t, int64(1000000000), bt)
	})

	t.Run("no_btime_line", func(t *testing.T) {
		root := writeTree(t, map[string]string{"stat": "cpu  1 2 3 4\nbtimex 5\n"})
		_, err := ReadBootTime(NewFS(root))
		require.ErrorIs(t, err, ErrNoBootTime)
	})

	t.Run("malformed", func(t *testing.T) {
		root := writeTree(t, map[string]string{"stat": "btime soon\n"})
		_, err := ReadBootTime(NewFS(root))
		require.Error(t, err)
		assert.NotErrorIs(t, err, ErrNoBootTime)
	})

	t.Run("missing_file", func(t *testing.T) {
		_, err := ReadBootTime(NewFS(t.TempDir()))
		require.True(t, errors.Is(err, fs.ErrNotExist))
	})
}

func TestReadMaxFDs(t *testing.T) {
	t.Run("fourth_token", func(t *testing.T) {
		root := writeTree(t, map[string]string{"self/limits": limitsFixture})
		v, err := ReadMaxFDs(NewFS(root))
		require.NoError(t, err)
		assert.Equal(t, int64(1024), v)
	})

	t.Run("no_line", func(t *testing.T) {
		root := writeTree(t, map[string]string{"self/limits": "Limit Soft Hard Units\nMax processes 10 10 processes\n"})
		_, err := ReadMaxFDs(NewFS(root))
		require.ErrorIs(t, err, ErrNoOpenFilesLimit)
	})

	t.Run("unlimited", func(t *testing.T) {
		root := writeTree(t, map[string]string{"self/limits": "Max open files            unlimited            unlimited            files\n"})
		_, err := ReadMaxFDs(NewFS(root))
		require.ErrorIs(t, err, ErrNoOpenFilesLimit)
	})

	t.Run("rereads_every_call", func(t *testing.T) {
		root := writeTree(t, map[string]string{"self/limits": limitsFixture})
		fsys := NewFS(root)
		v, err := ReadMaxFDs(fsys)
		require.NoError(t, err)
		assert.Equal(t, int64(1024), v)

		updated := strings.Replace(limitsFixture, "1024 ", "2048 ", 1)
		require.NoError(t, os.WriteFile(fsys.SelfPath("limits"), []byte(updated), 0o644))
		v, err = ReadMaxFDs(fsys)
		require.NoError(t, err)
		assert.Equal(t, int64(2048), v)
	})
}

func TestDetectCapabilities(t *testing.T) {
	t.Run("empty_root", func(t *testing.T) {
		assert.Equal(t, Capabilities{}, DetectCapabilities(NewFS(t.TempDir())))
	})

	t.Run("all", func(t *testing.T) {
		root := writeTree(t, map[string]string{
			"stat":        "btime 1\n",
			"self/stat":   statLine("cmd", nil),
			"self/limits": limitsFixture,
			"self/fd/":    "",
		})
		assert.Equal(t, Capabilities{
			ProcStat: true, ProcSelfStat: true, ProcSelfLimits: true, ProcSelfFD: true,
		}, DetectCapabilities(NewFS(root)))
	})

	cases := map[string]struct {
		files map[string]string
		want  Capabilities
	}{
		"stat_only":   {map[string]string{"stat": ""}, Capabilities{ProcStat: true}},
		"self_stat":   {map[string]string{"self/stat": ""}, Capabilities{ProcSelfStat: true}},
		"self_limits": {map[string]string{"self/limits": ""}, Capabilities{ProcSelfLimits: true}},
		"self_fd":     {map[string]string{"self/fd/": ""}, Capabilities{ProcSelfFD: true}},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			assert.Equal(t, tc.want, DetectCapabilities(NewFS(writeTree(t, tc.files))))
		})
	}
}

func TestClassifyFDs_NoDir(t *testing.T) {
	counts, err := ClassifyFDs(NewFS(t.TempDir()), nil)
	require.NoError(t, err)
	require.Len(t, counts, len(FDTypes))
	for _, typ := range FDTypes {
		v, ok := counts[typ]
		assert.True(t, ok, typ)
		assert.Zero(t, v, typ)
	}
	assert.Zero(t, counts.Total())
}

func TestFDCounts(t *testing.T) {
	c := NewFDCounts()
	c[FDRegular] = 3
	c[FDOther] = 2
	assert.Equal(t, 5, c.Total())

	cp := c.Clone()
	cp[FDRegular] = 10
	assert.Equal(t, 3, c[FDRegular])
}
