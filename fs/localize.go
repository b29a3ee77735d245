package fs

import (
	"context"
	"fmt"
	"io/fs"
	"log/slog"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/cespare/xxhash/v2"
	"github.com/chuchengzhi/blogmirror"
)

// imageLinkRE matches markdown image links with an absolute http(s) URL.
var imageLinkRE = regexp.MustCompile(`!\[([^\]]*)\]\((https?://[^)]+)\)`)

// knownImageExts are extensions trusted when inferred from an image URL.
var knownImageExts = map[string]bool{
	".jpg": true, ".jpeg": true, ".png": true, ".gif": true,
	".bmp": true, ".webp": true, ".svg": true,
}

// LocalizeResult summarizes a Localizer run.
type LocalizeResult struct {
	Files      int
	Modified   int
	Downloaded int
	Failed     int
}

// Localizer downloads remote images referenced by the archive's markdown
// files into a sibling images/ directory and rewrites the links to local
// relative paths. Images already on disk are not re-downloaded, so
// re-running is idempotent.
type Localizer struct {
	Downloader blogmirror.Downloader
	Logger     *slog.Logger

	// ImagesDirName defaults to "images".
	ImagesDirName string

	// Attempts per image download; defaults to 3.
	Attempts int

	// RetryWait between download attempts; defaults to 2s.
	RetryWait time.Duration
}

func (l *Localizer) imagesDir() string {
	if l.ImagesDirName != "" {
		return l.ImagesDirName
	}
	return "images"
}

func (l *Localizer) attempts() int {
	if l.Attempts > 0 {
		return l.Attempts
	}
	return 3
}

func (l *Localizer) retryWait() time.Duration {
	if l.RetryWait > 0 {
		return l.RetryWait
	}
	return 2 * time.Second
}

// Run walks root and localizes the images of every .md file.
func (l *Localizer) Run(ctx context.Context, root string) (*LocalizeResult, error) {
	var res LocalizeResult

	err := filepath.WalkDir(root, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !strings.HasSuffix(d.Name(), ".md") {
			return nil
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}
		res.Files++

		modified, downloaded, failed, err := l.localizeFile(ctx, p)
		if err != nil {
			if l.Logger != nil {
				l.Logger.Error("localize failed", "path", p, "error", err)
			}
			return nil
		}
		if modified {
			res.Modified++
		}
		res.Downloaded += downloaded
		res.Failed += failed
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &res, nil
}

func (l *Localizer) localizeFile(ctx context.Context, mdPath string) (modified bool, downloaded, failed int, err error) {
	data, err := os.ReadFile(mdPath)
	if err != nil {
		return false, 0, 0, err
	}
	content := string(data)

	matches := imageLinkRE.FindAllStringSubmatch(content, -1)
	if len(matches) == 0 {
		return false, 0, 0, nil
	}

	dir := filepath.Dir(mdPath)
	localDir := filepath.Join(dir, l.imagesDir())

	for _, m := range matches {
		alt, imgURL := m[1], m[2]

		name := LocalImageName(imgURL)
		localPath := filepath.Join(localDir, name)

		if _, statErr := os.Stat(localPath); statErr != nil {
			if dlErr := l.download(ctx, imgURL, localPath); dlErr != nil {
				failed++
				if l.Logger != nil {
					l.Logger.Error("image download failed", "url", imgURL, "error", dlErr)
				}
				continue
			}
			downloaded++
		}

		oldLink := fmt.Sprintf("![%s](%s)", alt, imgURL)
		newLink := fmt.Sprintf("![%s](%s/%s)", alt, l.imagesDir(), name)
		content = strings.ReplaceAll(content, oldLink, newLink)
	}

	if content == string(data) {
		return false, downloaded, failed, nil
	}
	if err := writeFileAtomic(mdPath, []byte(content)); err != nil {
		return false, downloaded, failed, err
	}
	if l.Logger != nil {
		l.Logger.Info("localized", "path", mdPath, "downloaded", downloaded, "failed", failed)
	}
	return true, downloaded, failed, nil
}

func (l *Localizer) download(ctx context.Context, imgURL, localPath string) error {
	if err := os.MkdirAll(filepath.Dir(localPath), 0755); err != nil {
		return err
	}

	var lastErr error
	for attempt := 0; attempt < l.attempts(); attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(l.retryWait()):
			}
		}

		data, err := l.Downloader.Download(ctx, imgURL)
		if err != nil {
			lastErr = err
			continue
		}
		return writeFileAtomic(localPath, data)
	}
	return lastErr
}

// LocalImageName builds the local filename for a remote image URL: a hash
// of the URL plus the extension inferred from its path (default .jpg).
func LocalImageName(imgURL string) string {
	return fmt.Sprintf("image_%016x%s", xxhash.Sum64String(imgURL), imageExt(imgURL))
}

func imageExt(imgURL string) string {
	u, err := url.Parse(imgURL)
	if err != nil {
		return ".jpg"
	}
	ext := strings.ToLower(path.Ext(u.Path))
	if knownImageExts[ext] {
		return ext
	}
	return ".jpg"
}
