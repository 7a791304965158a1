// Package diskstate saves the download queue to the queue directory and
// restores it on startup.
//
// The main record ("queue") is a line-oriented stream that starts with a
// signature line carrying the format version, followed by the job list, the
// file queue, the post-processing queue, the fetch queue, the history and the
// parked file queue. Each file queue entry keeps its heavy detail (subject,
// groups, article manifest) in a side record named after its numeric ID.
// Subscription state lives in a separate "feeds" record with its own version.
//
// Writers always emit the current layout. Readers accept every layout from
// MinQueueVersion to QueueVersion; the per-version differences are kept in
// the tables in versions.go and migrations.go rather than in the codecs.
//
// Cross references from file, post and history entries to jobs are stored as
// 1-based positions in the job list. They are computed fresh on each save and
// bounds-checked on load.
package diskstate
