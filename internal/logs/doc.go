// Package logs reads the run log back for the CLI.
//
// Tail prints the last lines of the log file and can keep following appended
// lines, polling on a short interval with bounded memory use.
package logs
