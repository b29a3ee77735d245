package fs

import (
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"regexp"
	"strings"
)

// idSuffixRE matches the " [p<digits>]" marker embedded in saved
// filenames (with any surrounding whitespace).
var idSuffixRE = regexp.MustCompile(`\s*\[p\d+\]\s*`)

// RenameResult summarizes a Renamer run.
type RenameResult struct {
	Considered int
	Renamed    int
	Skipped    int
}

// Renamer strips the article-id suffix from archive filenames. It runs in
// dry-run mode unless Execute is set, and never renames over an existing
// file.
type Renamer struct {
	// Execute performs the renames; when false the Renamer only logs
	// what it would do.
	Execute bool

	// Extensions restricts processing; defaults to .md only.
	Extensions []string

	Logger *slog.Logger
}

func (r *Renamer) extensions() []string {
	if len(r.Extensions) > 0 {
		return r.Extensions
	}
	return []string{".md"}
}

// StripIDSuffix removes the " [p<digits>]" marker from a filename.
func StripIDSuffix(name string) string {
	return idSuffixRE.ReplaceAllString(name, "")
}

// Run walks root and processes every file with a configured extension.
func (r *Renamer) Run(root string) (*RenameResult, error) {
	var res RenameResult

	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !r.wantExt(d.Name()) {
			return nil
		}
		res.Considered++

		cleaned := StripIDSuffix(d.Name())
		if cleaned == d.Name() {
			return nil
		}
		target := filepath.Join(filepath.Dir(path), cleaned)

		if _, statErr := os.Stat(target); statErr == nil {
			res.Skipped++
			if r.Logger != nil {
				r.Logger.Warn("target exists, skipping", "from", path, "to", target)
			}
			return nil
		}

		if !r.Execute {
			res.Renamed++
			if r.Logger != nil {
				r.Logger.Info("would rename", "from", path, "to", target)
			}
			return nil
		}

		if renameErr := os.Rename(path, target); renameErr != nil {
			res.Skipped++
			if r.Logger != nil {
				r.Logger.Error("rename failed", "from", path, "error", renameErr)
			}
			return nil
		}
		res.Renamed++
		if r.Logger != nil {
			r.Logger.Info("renamed", "from", path, "to", target)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &res, nil
}

func (r *Renamer) wantExt(name string) bool {
	ext := strings.ToLower(filepath.Ext(name))
	for _, want := range r.extensions() {
		if ext == strings.ToLower(want) {
			return true
		}
	}
	return false
}
