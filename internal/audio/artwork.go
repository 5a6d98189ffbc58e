package audio

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/jpeg"
	_ "image/png" // PNG decoder registration
	"os"

	"github.com/bogem/id3v2"
	"github.com/dhowden/tag"
	"golang.org/x/image/draw"
)

// ErrNoArtwork is returned when a file carries no embedded picture.
var ErrNoArtwork = errors.New("no embedded artwork")

// Artwork returns the raw bytes of the picture embedded in the file,
// usually the front cover. ID3v2 APIC frames are read directly when the
// generic tag reader finds nothing.
//
// Returns a *MetadataError wrapping ErrNoArtwork when there is none.
func (r *MetadataReader) Artwork(path string) ([]byte, error) {
	if data, err := readPicture(path); err == nil && len(data) > 0 {
		return data, nil
	}

	t, err := id3v2.Open(path, id3v2.Options{Parse: true})
	if err != nil {
		return nil, &MetadataError{Path: path, Err: err}
	}
	defer t.Close()

	for _, f := range t.GetFrames(t.CommonID("Attached picture")) {
		if pic, ok := f.(id3v2.PictureFrame); ok && len(pic.Picture) > 0 {
			return pic.Picture, nil
		}
	}
	return nil, &MetadataError{Path: path, Err: ErrNoArtwork}
}

func readPicture(path string) ([]byte, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	m, err := tag.ReadFrom(f)
	if err != nil {
		return nil, err
	}
	if pic := m.Picture(); pic != nil {
		return pic.Data, nil
	}
	return nil, ErrNoArtwork
}

// Thumbnail scales an image to fit within maxWidth x maxHeight and returns
// it as JPEG. The aspect ratio is kept; smaller images keep their size and
// are only re-encoded.
//
//	// A 1500x1000 cover with a 500x500 bound becomes 500x333.
//	thumb, err := Thumbnail(cover, 500, 500)
func Thumbnail(data []byte, maxWidth, maxHeight int) ([]byte, error) {
	if maxWidth <= 0 || maxHeight <= 0 {
		return nil, fmt.Errorf("thumbnail bounds must be positive, got %dx%d", maxWidth, maxHeight)
	}

	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("decode artwork: %w", err)
	}

	bounds := img.Bounds()
	width, height := bounds.Dx(), bounds.Dy()
	if width > maxWidth || height > maxHeight {
		ratio := float64(width) / float64(height)
		if float64(maxWidth)/float64(maxHeight) > ratio {
			width = max(1, int(float64(maxHeight)*ratio))
			height = maxHeight
		} else {
			height = max(1, int(float64(maxWidth)/ratio))
			width = maxWidth
		}
	}

	dst := image.NewRGBA(image.Rect(0, 0, width, height))
	draw.CatmullRom.Scale(dst, dst.Bounds(), img, bounds, draw.Over, nil)

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, dst, &jpeg.Options{Quality: 90}); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
