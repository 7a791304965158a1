// Package queue holds the in-memory download queue that the disk state layer
// mirrors to and from storage.
//
// Jobs live in a single arena (Queue.Jobs). Every dependent entity (file queue
// entries, post-processing entries, history records) refers to its job by ID
// rather than by pointer, so the queue can be walked, saved and rebuilt without
// reference bookkeeping. The only structure that may be touched concurrently
// with a save pass is a job's MessageLog, which carries its own lock.
package queue
