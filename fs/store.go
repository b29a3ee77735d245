// Package fs provides the filesystem persistence layer: the article
// archive with its done markers, plus the batch tools that post-process
// an existing archive (line cleaning, image localization, renaming).
package fs

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/cespare/xxhash/v2"
	"github.com/chuchengzhi/blogmirror"
)

// maxNameLen caps sanitized filename components.
const maxNameLen = 180

// doneDirName holds resume markers inside each tag directory.
const doneDirName = ".done"

var (
	illegalChars = regexp.MustCompile(`[\\/:*?"<>|]`)
	whitespace   = regexp.MustCompile(`\s+`)
)

// SanitizeName turns a tag name or title into a filesystem-safe component:
// illegal path characters become underscores, whitespace collapses to
// single spaces, and the result is trimmed and capped at 180 characters.
func SanitizeName(name string) string {
	s := illegalChars.ReplaceAllString(name, "_")
	s = whitespace.ReplaceAllString(s, " ")
	s = strings.TrimSpace(s)
	if runes := []rune(s); len(runes) > maxNameLen {
		s = string(runes[:maxNameLen])
	}
	return s
}

// Ensure Store implements blogmirror.ArchiveStore at compile time.
var _ blogmirror.ArchiveStore = (*Store)(nil)

// Store persists articles under root/<tag>/ and records done markers
// under root/<tag>/.done/. It is safe for concurrent writers targeting
// the same tag directory.
type Store struct {
	root string
}

// NewStore creates a Store rooted at dir.
func NewStore(dir string) *Store {
	return &Store{root: dir}
}

func (s *Store) tagDir(tag string) string {
	return filepath.Join(s.root, SanitizeName(tag))
}

// markerPath keys the done marker by article id when known, else by a hash
// of the URL so non-standard article URLs still resume.
func (s *Store) markerPath(tag string, link blogmirror.ArticleLink) string {
	name := "u" + fmt.Sprintf("%016x", xxhash.Sum64String(link.URL)) + ".done"
	if link.ID != "" {
		name = "p" + link.ID + ".done"
	}
	return filepath.Join(s.tagDir(tag), doneDirName, name)
}

// SaveArticle writes markdown to root/<tag>/<title>[ [p<id>]][ (<n>)].md.
// The path is reserved with O_EXCL before writing so concurrent workers
// never pick the same name, and the content lands via temp file + rename
// so a partially written file is never observable.
func (s *Store) SaveArticle(tag string, article *blogmirror.Article, markdown string) (string, error) {
	dir := s.tagDir(tag)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", err
	}

	name := SanitizeName(article.Title)
	if name == "" {
		name = "untitled"
	}
	if article.ID != "" {
		name += " [p" + article.ID + "]"
	}

	path, err := reservePath(dir, name, ".md")
	if err != nil {
		return "", err
	}

	if err := writeFileAtomic(path, []byte(normalizeNewlines(markdown))); err != nil {
		// Leave no empty reservation behind on failure.
		_ = os.Remove(path)
		return "", err
	}
	return path, nil
}

// reservePath claims the first free "<name>[ (<n>)]<ext>" in dir by
// creating it exclusively.
func reservePath(dir, name, ext string) (string, error) {
	for n := 0; ; n++ {
		candidate := filepath.Join(dir, name+ext)
		if n > 0 {
			candidate = filepath.Join(dir, fmt.Sprintf("%s (%d)%s", name, n, ext))
		}
		f, err := os.OpenFile(candidate, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0644)
		if errors.Is(err, os.ErrExist) {
			continue
		} else if err != nil {
			return "", err
		}
		if err := f.Close(); err != nil {
			return "", err
		}
		return candidate, nil
	}
}

// writeFileAtomic writes data to a temp file in the same directory and
// renames it over path.
func writeFileAtomic(path string, data []byte) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".tmp*")
	if err != nil {
		return err
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		_ = os.Remove(tmp.Name())
		return err
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmp.Name())
		return err
	}
	return os.Rename(tmp.Name(), path)
}

func normalizeNewlines(s string) string {
	return strings.ReplaceAll(s, "\r\n", "\n")
}

// MarkDone records the resume marker for (tag, link), containing the
// source URL. Callers must save the article first.
func (s *Store) MarkDone(tag string, link blogmirror.ArticleLink) error {
	path := s.markerPath(tag, link)
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}
	return writeFileAtomic(path, []byte(link.URL))
}

// IsDone reports whether a resume marker exists for (tag, link).
func (s *Store) IsDone(tag string, link blogmirror.ArticleLink) bool {
	_, err := os.Stat(s.markerPath(tag, link))
	return err == nil
}
