package preflight

import "shelf/internal/config"

// Result reports the outcome of a single preflight check.
type Result struct {
	Name   string
	Passed bool
	Detail string
}

// RunAll executes the checks an organize pass depends on: the target
// directory must be accessible, and the log directory must be usable for
// the run log and journal.
func RunAll(cfg *config.Config, target string) []Result {
	var results []Result
	results = append(results, CheckDirectoryAccess("Target directory", target))
	if cfg != nil {
		results = append(results, CheckLogDir("Log directory", cfg.Paths.LogDir))
	}
	return results
}

// FirstFailure returns the first failed check, or nil when all passed.
func FirstFailure(results []Result) *Result {
	for i := range results {
		if !results[i].Passed {
			return &results[i]
		}
	}
	return nil
}
