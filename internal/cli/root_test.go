package cli

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/handiism/music-player/internal/audio"
	"github.com/handiism/music-player/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// execute runs the command tree with args and an empty config file.
func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	root := NewRootCmd()
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(append([]string{"--config", filepath.Join(t.TempDir(), "none.yaml")}, args...))
	err := root.Execute()
	return out.String(), err
}

func TestListCmd(t *testing.T) {
	root := writeLibrary(t, "b.mp3", "A.flac", "notes.txt")

	out, err := execute(t, "list", "--no-durations", root)
	require.NoError(t, err)

	assert.Contains(t, out, "A.flac")
	assert.Contains(t, out, "b.mp3")
	assert.Contains(t, out, "2 tracks")
	assert.NotContains(t, out, "notes.txt")
	assert.NotContains(t, out, "LENGTH")
}

func TestListCmd_ExtensionsFlag(t *testing.T) {
	root := writeLibrary(t, "b.mp3", "c.ogg")

	out, err := execute(t, "ls", "--no-durations", "--extensions", "ogg", root)
	require.NoError(t, err)
	assert.Contains(t, out, "c.ogg")
	assert.NotContains(t, out, "b.mp3")
}

func TestListCmd_MissingFolder(t *testing.T) {
	_, err := execute(t, "list", filepath.Join(t.TempDir(), "missing"))
	require.Error(t, err)
}

func TestExportCmd(t *testing.T) {
	root := writeLibrary(t, "b.mp3", "sub/a.mp3")

	out, err := execute(t, "export", "--format", "pls", root)
	require.NoError(t, err)
	assert.Contains(t, out, "Wrote 2 tracks")

	data, err := os.ReadFile(filepath.Join(root, "playlist.pls"))
	require.NoError(t, err)
	assert.Contains(t, string(data), "File1=b.mp3")
	assert.Contains(t, string(data), "File2=sub/a.mp3")
	assert.Contains(t, string(data), "NumberOfEntries=2")
}

func TestExportCmd_Stdout(t *testing.T) {
	root := writeLibrary(t, "a.mp3")

	out, err := execute(t, "export", "--stdout", root)
	require.NoError(t, err)
	assert.Contains(t, out, "#EXTM3U")
	assert.Contains(t, out, "a.mp3")

	_, err = os.Stat(filepath.Join(root, "playlist.m3u"))
	assert.True(t, errors.Is(err, os.ErrNotExist), "--stdout must not write a file")
}

func TestPlayCmd_RejectsBadTrack(t *testing.T) {
	_, err := execute(t, "play", "0")
	assert.ErrorContains(t, err, "positive number")
}

type fixedDurations map[string]float64

func (d fixedDurations) Duration(path string) (float64, error) {
	if s, ok := d[path]; ok {
		return s, nil
	}
	return 0, errors.New("unknown")
}

func TestRenderTracks(t *testing.T) {
	tracks := []model.Track{
		model.NewTrack("/m/a.mp3", "a.mp3"),
		model.NewTrack("/m/b.mp3", "b.mp3"),
	}

	var out bytes.Buffer
	RenderTracks(&out, tracks, fixedDurations{"/m/a.mp3": 125})

	assert.Contains(t, out.String(), "02:05")
	assert.Contains(t, out.String(), "--:--")
	assert.Contains(t, out.String(), "2 tracks")
}

func TestFormatTime(t *testing.T) {
	assert.Equal(t, "00:00", formatTime(-1))
	assert.Equal(t, "01:01", formatTime(61.9))
	assert.Equal(t, "62:05", formatTime(3725))
}

func TestCoverCmd_NoArtwork(t *testing.T) {
	root := writeLibrary(t, "a.mp3")

	_, err := execute(t, "cover", "--music-dir", root, "-o", filepath.Join(t.TempDir(), "c.jpg"), "1")
	assert.ErrorIs(t, err, audio.ErrNoArtwork)

	_, err = execute(t, "cover", "--music-dir", root, "2")
	assert.ErrorContains(t, err, "does not exist")
}
