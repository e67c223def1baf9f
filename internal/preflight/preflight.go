package preflight

import (
	"context"

	"superforge/internal/config"
)

// Result reports the outcome of a single preflight check.
type Result struct {
	Name   string `json:"name"`
	Passed bool   `json:"passed"`
	Detail string `json:"detail"`
}

// Pinger is satisfied by the content store.
type Pinger interface {
	Ping(ctx context.Context) error
}

// RunAll executes all applicable preflight checks for the given config.
// store may be nil when the content database could not be opened; the
// database check then reports openErr.
func RunAll(ctx context.Context, cfg *config.Config, store Pinger, openErr error) []Result {
	if cfg == nil {
		return nil
	}

	results := []Result{
		CheckPartitionTables(),
		CheckDirectoryAccess("Books directory", cfg.Paths.BooksDir),
		CheckDirectoryAccess("Log directory", cfg.Paths.LogDir),
	}
	if cfg.Paths.AssetsDir != "" {
		results = append(results, CheckDirectoryReadable("Assets directory", cfg.Paths.AssetsDir))
	}
	results = append(results, CheckStore(ctx, store, openErr))
	results = append(results, CheckConverter(ctx, cfg))
	return results
}

// Failed returns the results that did not pass.
func Failed(results []Result) []Result {
	var out []Result
	for _, r := range results {
		if !r.Passed {
			out = append(out, r)
		}
	}
	return out
}
