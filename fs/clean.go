package fs

import (
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
)

// CleanResult summarizes a Cleaner run.
type CleanResult struct {
	Files        int
	Modified     int
	LinesRemoved int
}

// Cleaner removes lines containing configured substrings from the
// archive's markdown files, in place. Re-running is a no-op once every
// matching line is gone.
type Cleaner struct {
	Matches []string
	Logger  *slog.Logger
}

// Run walks root and cleans every .md file.
func (c *Cleaner) Run(root string) (*CleanResult, error) {
	var res CleanResult

	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !strings.HasSuffix(d.Name(), ".md") {
			return nil
		}
		res.Files++

		removed, err := c.cleanFile(path)
		if err != nil {
			if c.Logger != nil {
				c.Logger.Error("clean failed", "path", path, "error", err)
			}
			return nil
		}
		if removed > 0 {
			res.Modified++
			res.LinesRemoved += removed
			if c.Logger != nil {
				c.Logger.Info("cleaned", "path", path, "lines_removed", removed)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &res, nil
}

// cleanFile rewrites one file without its matching lines and returns the
// number of lines removed. Files without matches are left untouched.
func (c *Cleaner) cleanFile(path string) (int, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return 0, err
	}

	lines := strings.Split(string(data), "\n")
	kept := lines[:0]
	removed := 0
	for _, line := range lines {
		if c.matches(line) {
			removed++
			continue
		}
		kept = append(kept, line)
	}
	if removed == 0 {
		return 0, nil
	}

	if err := writeFileAtomic(path, []byte(strings.Join(kept, "\n"))); err != nil {
		return 0, err
	}
	return removed, nil
}

func (c *Cleaner) matches(line string) bool {
	for _, m := range c.Matches {
		if m != "" && strings.Contains(line, m) {
			return true
		}
	}
	return false
}
