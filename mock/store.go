package mock

import "github.com/chuchengzhi/blogmirror"

var _ blogmirror.ArchiveStore = (*ArchiveStore)(nil)

// ArchiveStore is a mock implementation of blogmirror.ArchiveStore.
type ArchiveStore struct {
	SaveArticleFn func(tag string, article *blogmirror.Article, markdown string) (string, error)
	MarkDoneFn    func(tag string, link blogmirror.ArticleLink) error
	IsDoneFn      func(tag string, link blogmirror.ArticleLink) bool
}

func (s *ArchiveStore) SaveArticle(tag string, article *blogmirror.Article, markdown string) (string, error) {
	return s.SaveArticleFn(tag, article, markdown)
}

func (s *ArchiveStore) MarkDone(tag string, link blogmirror.ArticleLink) error {
	if s.MarkDoneFn == nil {
		return nil
	}
	return s.MarkDoneFn(tag, link)
}

func (s *ArchiveStore) IsDone(tag string, link blogmirror.ArticleLink) bool {
	if s.IsDoneFn == nil {
		return false
	}
	return s.IsDoneFn(tag, link)
}
