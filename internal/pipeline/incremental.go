package pipeline

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/theirongolddev/budgetbuddy/internal/source"
	"github.com/theirongolddev/budgetbuddy/internal/store"
)

// ImportResult extends LoadResult with change-tracking metadata.
type ImportResult struct {
	LoadResult
	Unchanged int
	Reparsed  int
	Removed   int
}

// LoadWithStore discovers CSV statements under dir, re-parses only the
// files whose mtime or size changed since the last import, and persists
// their rows. Tracked files under dir that no longer exist are forgotten.
// Transactions holds only the freshly parsed rows; the store holds the rest.
func LoadWithStore(dir string, st *store.Store, progressFn ProgressFunc) (*ImportResult, error) {
	absDir, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("resolving %s: %w", dir, err)
	}
	dir = absDir

	files, err := source.ScanDir(dir)
	if err != nil {
		return nil, fmt.Errorf("scanning %s: %w", dir, err)
	}

	tracked, err := st.GetTrackedFiles()
	if err != nil {
		return nil, fmt.Errorf("reading tracked files: %w", err)
	}

	result := &ImportResult{LoadResult: LoadResult{TotalFiles: len(files)}}

	type stat struct{ mtime, size int64 }
	stats := make(map[string]stat, len(files))
	seen := make(map[string]struct{}, len(files))

	var toReparse []source.DiscoveredFile
	for _, f := range files {
		seen[f.Path] = struct{}{}
		info, err := os.Stat(f.Path)
		if err != nil {
			continue
		}
		s := stat{info.ModTime().UnixNano(), info.Size()}
		stats[f.Path] = s

		cached, ok := tracked[f.Path]
		if ok && cached.MtimeNs == s.mtime && cached.SizeBytes == s.size {
			result.Unchanged++
			continue
		}
		toReparse = append(toReparse, f)
	}
	result.Reparsed = len(toReparse)

	for path := range tracked {
		if _, ok := seen[path]; ok || !within(dir, path) {
			continue
		}
		if _, err := os.Stat(path); os.IsNotExist(err) {
			if err := st.ForgetFile(path); err != nil {
				return nil, fmt.Errorf("forgetting %s: %w", path, err)
			}
			result.Removed++
		}
	}

	if len(toReparse) == 0 {
		return result, nil
	}

	results := parseAll(toReparse, result.Unchanged, result.TotalFiles, progressFn)
	for i, pr := range results {
		result.add(pr)
		if pr.Err != nil {
			continue
		}
		s := stats[toReparse[i].Path]
		if err := st.ReplaceFileTransactions(toReparse[i].Path, pr.Transactions, s.mtime, s.size); err != nil {
			return nil, fmt.Errorf("saving %s: %w", toReparse[i].Path, err)
		}
	}

	return result, nil
}

func within(dir, path string) bool {
	abs, err := filepath.Abs(path)
	return err == nil && strings.HasPrefix(abs, dir+string(filepath.Separator))
}

// DataDir returns the platform-appropriate data directory.
func DataDir() string {
	if xdg := os.Getenv("XDG_DATA_HOME"); xdg != "" {
		return filepath.Join(xdg, "budgetbuddy")
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".local", "share", "budgetbuddy")
}

// DBPath returns the full path to the budget database.
func DBPath() string {
	return filepath.Join(DataDir(), "budget.db")
}
