package download

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"video-replacer-bot/internal/config"
)

func newTestRunner(t *testing.T, maxMB int64) *Runner {
	t.Helper()
	cfg := &config.Config{
		DownloadDir:        t.TempDir(),
		MaxFileMB:          maxMB,
		TargetQuality:      720,
		DownloadTimeoutSec: 5,
	}
	return NewRunner(cfg, zerolog.Nop())
}

func TestFinish_WithinLimit(t *testing.T) {
	t.Parallel()
	r := newTestRunner(t, 50)

	path := filepath.Join(r.cfg.DownloadDir, "youtube_test.mp4")
	data := bytes.Repeat([]byte("v"), 2<<20) // 2 MB при лимите 50
	require.NoError(t, os.WriteFile(path, data, 0o644))

	res := r.finish(path)
	require.True(t, res.OK())
	require.Equal(t, path, res.Path)
	require.Equal(t, int64(len(data)), res.Size)
	require.FileExists(t, path)
}

func TestFinish_TooLarge(t *testing.T) {
	t.Parallel()
	r := newTestRunner(t, 1)

	path := filepath.Join(r.cfg.DownloadDir, "youtube_big.mp4")
	require.NoError(t, os.WriteFile(path, bytes.Repeat([]byte("v"), 2<<20), 0o644))

	res := r.finish(path)
	require.False(t, res.OK())
	require.Equal(t, ReasonTooLarge, res.Reason)
	// файл сверх лимита удаляется сразу, до стадии отправки
	require.NoFileExists(t, path)
}

func TestFinish_MissingFile(t *testing.T) {
	t.Parallel()
	r := newTestRunner(t, 50)

	res := r.finish(filepath.Join(r.cfg.DownloadDir, "nope.mp4"))
	require.False(t, res.OK())
	require.Equal(t, ReasonUnknown, res.Reason)
}

func TestRemoveLeftovers(t *testing.T) {
	t.Parallel()
	r := newTestRunner(t, 50)

	keep := filepath.Join(r.cfg.DownloadDir, "tiktok_other.mp4")
	part := filepath.Join(r.cfg.DownloadDir, "youtube_abc.mp4.part")
	full := filepath.Join(r.cfg.DownloadDir, "youtube_abc.mp4")
	for _, p := range []string{keep, part, full} {
		require.NoError(t, os.WriteFile(p, []byte("x"), 0o644))
	}

	r.removeLeftovers("youtube_abc")
	require.NoFileExists(t, part)
	require.NoFileExists(t, full)
	require.FileExists(t, keep)
}

func TestParsePrintedPath(t *testing.T) {
	t.Parallel()
	cases := []struct {
		in   string
		want string
	}{
		{"/tmp/dl/youtube_x.mp4\n", "/tmp/dl/youtube_x.mp4"},
		{"warning line\n/tmp/dl/youtube_x.mp4\n\n", "/tmp/dl/youtube_x.mp4"},
		{"", ""},
	}
	for i, tc := range cases {
		if got := parsePrintedPath([]byte(tc.in)); got != tc.want {
			t.Fatalf("case %d: parsePrintedPath(%q) = %q; want %q", i, tc.in, got, tc.want)
		}
	}
}

func TestTruncate(t *testing.T) {
	t.Parallel()
	cases := []struct {
		in   string
		n    int
		want string
	}{
		{"short", 10, "short"},
		{"exactly10!", 10, "exactly10!"},
		{"0123456789ab", 10, "0123456789"},
		// граница среза попадает на середину многобайтового символа
		{"ошибка сети", 3, "о"},
		{"подключение", 11, "подкл"},
	}
	for i, tc := range cases {
		if got := truncate(tc.in, tc.n); got != tc.want {
			t.Fatalf("case %d: truncate(%q, %d) = %q; want %q", i, tc.in, tc.n, got, tc.want)
		}
	}
}
