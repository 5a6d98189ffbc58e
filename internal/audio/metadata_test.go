package audio

import (
	"errors"
	"math"
	"os"
	"path/filepath"
	"testing"

	pcm "github.com/go-audio/audio"
	"github.com/go-audio/wav"
)

// writeWAV writes a mono 16-bit PCM file of silence.
func writeWAV(t *testing.T, path string, sampleRate, frames int) {
	t.Helper()

	f, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()

	enc := wav.NewEncoder(f, sampleRate, 16, 1, 1)
	buf := &pcm.IntBuffer{
		Format:         &pcm.Format{NumChannels: 1, SampleRate: sampleRate},
		Data:           make([]int, frames),
		SourceBitDepth: 16,
	}
	if err := enc.Write(buf); err != nil {
		t.Fatal(err)
	}
	if err := enc.Close(); err != nil {
		t.Fatal(err)
	}
}

func TestMetadataReader_DurationWAV(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tone.wav")
	writeWAV(t, path, 8000, 12000)

	seconds, err := NewMetadataReader().Duration(path)
	if err != nil {
		t.Fatalf("Duration() error = %v", err)
	}
	if math.Abs(seconds-1.5) > 0.01 {
		t.Errorf("Duration() = %v, want 1.5", seconds)
	}
}

func TestMetadataReader_DurationUnsupported(t *testing.T) {
	path := filepath.Join(t.TempDir(), "notes.txt")
	if err := os.WriteFile(path, []byte("not audio"), 0o644); err != nil {
		t.Fatal(err)
	}

	_, err := NewMetadataReader().Duration(path)

	var metaErr *MetadataError
	if !errors.As(err, &metaErr) {
		t.Fatalf("Duration() error = %v, want *MetadataError", err)
	}
	if !errors.Is(err, ErrUnsupportedFormat) {
		t.Errorf("Duration() error = %v, want ErrUnsupportedFormat", err)
	}
}

func TestMetadataReader_DurationMissingFile(t *testing.T) {
	_, err := NewMetadataReader().Duration(filepath.Join(t.TempDir(), "gone.flac"))
	if !errors.Is(err, os.ErrNotExist) {
		t.Errorf("Duration() error = %v, want os.ErrNotExist", err)
	}
}

func TestMetadataReader_DurationCorruptMP3(t *testing.T) {
	path := filepath.Join(t.TempDir(), "broken.mp3")
	if err := os.WriteFile(path, []byte("garbage"), 0o644); err != nil {
		t.Fatal(err)
	}

	if _, err := NewMetadataReader().Duration(path); err == nil {
		t.Error("Duration() on a corrupt mp3 should fail")
	}
}

func TestMetadataReader_InfoFallsBackToFileName(t *testing.T) {
	path := filepath.Join(t.TempDir(), "Quiet Song.wav")
	writeWAV(t, path, 8000, 800)

	info, _ := NewMetadataReader().Info(path)
	if info.Title != "Quiet Song" {
		t.Errorf("Info().Title = %q, want %q", info.Title, "Quiet Song")
	}
}
