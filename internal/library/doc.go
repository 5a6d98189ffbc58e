// Package library builds the playable track list from a folder tree.
//
// # Scanning
//
// Scanner walks a directory recursively, keeps audio files by extension
// (case-insensitive, default mp3, wav and flac) and returns them sorted by
// display name, compared case-insensitively. Unreadable subtrees are skipped;
// only an inaccessible root fails the scan.
//
//	scanner := library.NewScanner(library.DefaultExtensions, log)
//	tracks, err := scanner.Scan("/home/me/Music")
//
// # Background scans
//
// Start runs the same walk on a worker goroutine. The finished list is
// handed off as one Result on Results(); nothing is delivered before the
// list is complete and sorted. While a scan is in flight further Start calls
// fail with ErrScanInProgress:
//
//	if err := scanner.Start(root); errors.Is(err, library.ErrScanInProgress) {
//	    // keep the current library, tell the user to wait
//	}
//	res := <-scanner.Results()
//	if res.Err != nil {
//	    // res.Err is a *ScanError, the previous library stays untouched
//	}
//
// A scan counts as in flight until its Result has been received, so two
// results can never race to replace the playlist.
//
// # Watching
//
// Watch follows the tree with fsnotify and calls back, debounced, when audio
// files or directories change. The callback is expected to call Start.
package library
