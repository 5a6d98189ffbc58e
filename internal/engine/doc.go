// Package engine runs the player's control loop.
//
// An Engine owns a player.Coordinator, its playlist and a search.Navigator,
// and touches them from exactly one goroutine, the one running Run. Three
// kinds of work are serialised there:
//
//   - commands from a user interface, sent over a channel and answered with
//     a result value
//   - poll ticks, which reconcile end of track and publish a snapshot
//   - finished library scans, handed off by the library.Scanner
//
// Frontends call the command methods from any goroutine and read
// notifications from Events:
//
//	eng := engine.New(coord, scanner, engine.Options{}, log)
//	go eng.Run(ctx)
//
//	eng.Scan(ctx, "/music")
//	for ev := range eng.Events() {
//		switch ev := ev.(type) {
//		case engine.ScanEvent:
//			fmt.Println(len(ev.Names), "tracks loaded")
//		case engine.TickEvent:
//			fmt.Println(ev.Snapshot.Elapsed)
//		}
//	}
//
// Once Run returns, every command fails with ErrClosed.
package engine
