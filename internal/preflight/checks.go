package preflight

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"golang.org/x/sys/unix"

	"superforge/internal/config"
	"superforge/internal/deps"
	"superforge/internal/partition"
)

const storeCheckTimeout = 5 * time.Second

// CheckDirectoryAccess verifies that the directory exists and is readable/writable.
func CheckDirectoryAccess(name, path string) Result {
	return checkDirectory(name, path, unix.R_OK|unix.W_OK|unix.X_OK, "read/write ok")
}

// CheckDirectoryReadable verifies that the directory exists and can be listed.
func CheckDirectoryReadable(name, path string) Result {
	return checkDirectory(name, path, unix.R_OK|unix.X_OK, "read ok")
}

func checkDirectory(name, path string, mode uint32, okDetail string) Result {
	if path == "" {
		return Result{Name: name, Detail: "not configured"}
	}
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Result{Name: name, Detail: fmt.Sprintf("%s (error: does not exist)", path)}
		}
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: stat: %v)", path, err)}
	}
	if !info.IsDir() {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: is not a directory)", path)}
	}
	if err := unix.Access(path, mode); err != nil {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: insufficient permissions: %v)", path, err)}
	}
	return Result{Name: name, Passed: true, Detail: fmt.Sprintf("%s (%s)", path, okDetail)}
}

// CheckPartitionTables verifies the built-in chapter and section tables.
func CheckPartitionTables() Result {
	const name = "Partition tables"
	if err := partition.Verify(); err != nil {
		return Result{Name: name, Detail: err.Error()}
	}
	return Result{
		Name:   name,
		Passed: true,
		Detail: fmt.Sprintf("%d chapters in %d sections across %d books", partition.ChapterTotal(), partition.SectionCount, partition.BookCount),
	}
}

// CheckStore pings the content database.
func CheckStore(ctx context.Context, store Pinger, openErr error) Result {
	const name = "Content database"
	if openErr != nil {
		return Result{Name: name, Detail: fmt.Sprintf("open failed (%v)", openErr)}
	}
	if store == nil {
		return Result{Name: name, Detail: "not opened"}
	}
	checkCtx, cancel := context.WithTimeout(ctx, storeCheckTimeout)
	defer cancel()
	if err := store.Ping(checkCtx); err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return Result{Name: name, Detail: "ping timed out (database locked?)"}
		}
		return Result{Name: name, Detail: fmt.Sprintf("ping failed (%v)", err)}
	}
	return Result{Name: name, Passed: true, Detail: "Reachable"}
}

// CheckConverter verifies the configured converter binary is on PATH.
func CheckConverter(ctx context.Context, cfg *config.Config) Result {
	const name = "Converter"
	statuses := CheckSystemDeps(ctx, cfg)
	if len(statuses) == 0 {
		return Result{Name: name, Detail: "not configured"}
	}
	status := statuses[0]
	if !status.Available {
		return Result{Name: name, Detail: status.Detail}
	}
	detail := status.Path
	if status.Version != "" {
		detail = fmt.Sprintf("%s (%s)", status.Path, status.Version)
	} else if status.Detail != "" {
		detail = fmt.Sprintf("%s (%s)", status.Path, status.Detail)
	}
	return Result{Name: name, Passed: true, Detail: detail}
}

// CheckSystemDeps evaluates the external binaries for the given config.
func CheckSystemDeps(ctx context.Context, cfg *config.Config) []deps.Status {
	if cfg == nil {
		return nil
	}
	return deps.CheckBinaries(ctx, []deps.Requirement{
		{
			Name:        "Converter",
			Command:     cfg.Converter.Binary,
			Description: "Required for EPUB conversion",
			VersionArgs: []string{"--version"},
		},
	})
}
