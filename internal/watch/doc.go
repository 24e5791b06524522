// Package watch keeps a directory organized by running passes on a timer.
//
// A flock-backed lock file in the log directory prevents two watchers from
// fighting over the same target.
package watch
