package blogmirror

// ArchiveStore persists converted articles and the done markers that gate
// re-fetching on later runs. Implementations must be safe for concurrent
// use by workers writing into the same tag directory.
type ArchiveStore interface {
	// SaveArticle writes markdown under the tag's directory at a
	// sanitized, collision-safe path and returns the path written.
	// Existing files are never overwritten.
	SaveArticle(tag string, article *Article, markdown string) (path string, err error)

	// MarkDone records a completion marker for (tag, link) containing
	// the source URL. Called only after a successful save.
	MarkDone(tag string, link ArticleLink) error

	// IsDone reports whether a completion marker exists for (tag, link).
	IsDone(tag string, link ArticleLink) bool
}
