package crawl_test

import (
	"testing"

	"github.com/chuchengzhi/blogmirror/crawl"
	"github.com/stretchr/testify/assert"
)

func TestFollowNext(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		current string
		next    string
		want    bool
	}{
		{"new page", "https://b/tag/Go/", "https://b/tag/Go/?page=2", true},
		{"empty target", "https://b/tag/Go/", "", false},
		{"self reference", "https://b/tag/Go/?page=2", "https://b/tag/Go/?page=2", false},
		{"hash placeholder", "https://b/tag/Go/", "#", false},
		{"javascript placeholder", "https://b/tag/Go/", "javascript:void(0)", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, crawl.FollowNext(tt.current, tt.next))
		})
	}
}
