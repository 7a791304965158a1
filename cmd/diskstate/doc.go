// Package main hosts the diskstate CLI.
//
// The Cobra command tree opens the persisted queue directory named by the
// configuration and surfaces read-only inspection (queue, articles, feeds)
// alongside the maintenance passes (discard, temp cleanup). Every command
// that touches the queue directory holds its lock for the duration of the
// pass so it never races a running daemon.
//
// Keep this package lean: the record formats and passes live in
// internal/diskstate; commands only wire configuration and render results.
package main
