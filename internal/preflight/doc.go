// Package preflight provides readiness checks for the filesystem paths an
// organize pass depends on.
//
// The organize and watch commands call RunAll before touching anything so a
// bad target or unusable log directory fails fast instead of mid-pass.
package preflight
