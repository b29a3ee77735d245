package blogmirror

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
)

// Configuration defaults. The tag index URL points at the blog's tag listing
// root and can be overridden by a JSON config file.
const (
	DefaultRootDir     = "MyArticles"
	DefaultDelayMin    = 1.0
	DefaultDelayMax    = 2.0
	DefaultRetries     = 3
	DefaultTagIndexURL = "https://www.cnblogs.com/chuchengzhi/tag/"

	// MaxWorkers caps tag-level concurrency to stay within the target
	// site's tolerance.
	MaxWorkers = 8
)

// Config holds the settings for one crawl run. It is constructed once from
// CLI input plus an optional override file and not mutated afterwards.
type Config struct {
	// RootDir is the output directory for the archive.
	RootDir string

	// DelayMin and DelayMax bound the randomized inter-request delay
	// in seconds.
	DelayMin float64
	DelayMax float64

	// Retries is the total number of fetch attempts per URL.
	Retries int

	// Workers is the number of tags crawled concurrently, clamped
	// to [1, MaxWorkers].
	Workers int

	// OnlyTags restricts the crawl to the named tags when non-empty.
	OnlyTags []string

	// Resume skips articles with an existing done marker.
	Resume bool

	// TagIndexURL is the page listing all of the blog's tags.
	TagIndexURL string
}

// DefaultConfig returns a Config populated with defaults.
func DefaultConfig() Config {
	return Config{
		RootDir:     DefaultRootDir,
		DelayMin:    DefaultDelayMin,
		DelayMax:    DefaultDelayMax,
		Retries:     DefaultRetries,
		Workers:     1,
		Resume:      true,
		TagIndexURL: DefaultTagIndexURL,
	}
}

// Normalize fixes invalid settings in place and returns a warning message
// for each correction made.
func (c *Config) Normalize() []string {
	var warnings []string

	if c.DelayMin <= 0 || c.DelayMax <= 0 || c.DelayMin > c.DelayMax {
		warnings = append(warnings, fmt.Sprintf(
			"invalid delay bounds %.2f/%.2f, reset to %.1f/%.1f",
			c.DelayMin, c.DelayMax, DefaultDelayMin, DefaultDelayMax))
		c.DelayMin, c.DelayMax = DefaultDelayMin, DefaultDelayMax
	}

	if c.Workers < 1 {
		warnings = append(warnings, fmt.Sprintf("worker count %d raised to 1", c.Workers))
		c.Workers = 1
	} else if c.Workers > MaxWorkers {
		warnings = append(warnings, fmt.Sprintf("worker count %d clamped to %d", c.Workers, MaxWorkers))
		c.Workers = MaxWorkers
	}

	if c.Retries < 1 {
		c.Retries = 1
	}

	return warnings
}

// Allowed reports whether a tag name passes the allow-list filter.
func (c *Config) Allowed(name string) bool {
	if len(c.OnlyTags) == 0 {
		return true
	}
	for _, t := range c.OnlyTags {
		if t == name {
			return true
		}
	}
	return false
}

// configOverrides is the shape of the optional JSON config file.
type configOverrides struct {
	BaseTagURL string `json:"base_tag_url"`
}

// LoadOverrides applies settings from a JSON config file to the Config.
// A missing file is not an error; a malformed file returns EINVALID so the
// caller can warn and continue with defaults.
func (c *Config) LoadOverrides(path string) error {
	if path == "" {
		return nil
	}
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil
	} else if err != nil {
		return Errorf(EINVALID, "config file %s: %v", path, err)
	}

	var o configOverrides
	if err := json.Unmarshal(data, &o); err != nil {
		return Errorf(EINVALID, "config file %s: %v", path, err)
	}
	if u := strings.TrimSpace(o.BaseTagURL); u != "" {
		c.TagIndexURL = u
	}
	return nil
}
