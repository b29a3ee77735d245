package crawl

// nonNavigableHrefs are placeholder next-page targets that would loop the
// pagination walk forever.
var nonNavigableHrefs = map[string]bool{
	"#":                  true,
	"javascript:void(0)": true,
}

// FollowNext reports whether the pagination walk should continue from
// currentURL to nextURL. It rejects empty targets, self-references, and
// non-navigable placeholders.
func FollowNext(currentURL, nextURL string) bool {
	if nextURL == "" || nextURL == currentURL {
		return false
	}
	return !nonNavigableHrefs[nextURL]
}
