// Package audio provides the audio-facing collaborators of the player:
// sound output, file metadata, cover art and playlist export.
//
// # Playback
//
// Speaker implements the player's Backend contract. With an audio device
// (cgo on Linux, or Windows/macOS) it plays through gopxl/beep, resampling
// every file to a fixed 44.1 kHz output:
//
//	spk := audio.NewSpeaker(log)
//	if err := spk.Load("/music/song.flac"); err != nil { ... }
//	spk.PlayFrom(30) // start 30 seconds in
//	fmt.Println(spk.Elapsed()) // seconds since PlayFrom, pauses excluded
//
// Other builds get a silent Speaker that keeps time against the wall clock
// so the rest of the program behaves the same. AudioAvailable reports which
// one was compiled in.
//
// # Metadata
//
// MetadataReader reads durations and tags:
//
//	reader := audio.NewMetadataReader()
//	seconds, err := reader.Duration(path)
//	info, _ := reader.Info(path)
//
// Supported formats:
//   - MP3 (ID3v2 TLEN frame when present, otherwise decoded)
//   - WAV
//   - FLAC
//
// # Cover Art
//
// Artwork returns the embedded picture; Thumbnail scales it down and
// re-encodes it as JPEG:
//
//	art, err := reader.Artwork(path)
//	thumb, err := audio.Thumbnail(art, 500, 500)
//
// # Playlist Export
//
// Write the loaded library as a playlist:
//
//	creator := audio.NewPlaylistCreator(audio.FormatM3U, true, reader)
//	path, err := creator.Export("/music", tracks)
//
// Supported formats:
//   - M3U (with optional extended info)
//   - PLS
package audio
