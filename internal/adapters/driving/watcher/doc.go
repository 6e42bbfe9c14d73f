// Package watcher uploads files as they appear in a directory.
//
// Events are debounced per path so a file is only sent once it has stopped
// changing. Settled files are queued and sent one at a time through the
// pipeline service.
package watcher
