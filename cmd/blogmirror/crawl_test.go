package main_test

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path"
	"path/filepath"
	"strings"
	"testing"

	main "github.com/chuchengzhi/blogmirror/cmd/blogmirror"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newBlogServer serves a minimal blog: a tag index with one tag and a
// single listing page with two articles.
func newBlogServer(t *testing.T) *httptest.Server {
	t.Helper()

	mux := http.NewServeMux()
	mux.HandleFunc("/chuchengzhi/tag/", func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/chuchengzhi/tag/":
			fmt.Fprint(w, `<html><body><div id="sideBar">
<h3>我的标签</h3>
<ul><li><a href="/chuchengzhi/tag/Go/">Go(2)</a></li></ul>
</div></body></html>`)
		case "/chuchengzhi/tag/Go/":
			fmt.Fprint(w, `<html><body><div id="mainContent">
<a class="postTitle2" href="/chuchengzhi/p/200.html">Post 200</a>
<a class="postTitle2" href="/chuchengzhi/p/201.html">Post 201</a>
</div></body></html>`)
		default:
			http.NotFound(w, r)
		}
	})
	mux.HandleFunc("/chuchengzhi/p/", func(w http.ResponseWriter, r *http.Request) {
		id := strings.TrimSuffix(path.Base(r.URL.Path), ".html")
		fmt.Fprintf(w, `<html><body>
<a id="cb_post_title_url" href="%s">Post %s</a>
<div id="cnblogs_post_body"><p>Body of post %s.</p></div>
</body></html>`, r.URL.Path, id, id)
	})

	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func TestMain_Run_Crawl(t *testing.T) {
	t.Parallel()

	srv := newBlogServer(t)
	root := t.TempDir()

	// The target blog is pinned in code; the settings file points the
	// crawl at the test server instead.
	cfgPath := filepath.Join(t.TempDir(), "config.json")
	override := fmt.Sprintf(`{"base_tag_url": %q}`, srv.URL+"/chuchengzhi/tag/")
	require.NoError(t, os.WriteFile(cfgPath, []byte(override), 0644))

	m := main.NewMain()
	var stdout, stderr bytes.Buffer

	err := m.Run(context.Background(), []string{
		"crawl",
		"--root", root,
		"--delay-min", "0.01",
		"--delay-max", "0.02",
		"--config", cfgPath,
	}, &stdout, &stderr)

	require.NoError(t, err)
	assert.Contains(t, stdout.String(), "Crawled 1 tags: 2 saved, 0 skipped, 0 failed")

	for _, name := range []string{"Post 200 [p200].md", "Post 201 [p201].md"} {
		_, err := os.Stat(filepath.Join(root, "Go", name))
		assert.NoError(t, err, name)
	}
}

func TestMain_Run_Crawl_UnreachableIndex(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "down", http.StatusServiceUnavailable)
	}))
	t.Cleanup(srv.Close)

	cfgPath := filepath.Join(t.TempDir(), "config.json")
	override := fmt.Sprintf(`{"base_tag_url": %q}`, srv.URL+"/tag/")
	require.NoError(t, os.WriteFile(cfgPath, []byte(override), 0644))

	m := main.NewMain()
	var stdout, stderr bytes.Buffer

	err := m.Run(context.Background(), []string{
		"crawl",
		"--root", t.TempDir(),
		"--delay-min", "0.01",
		"--delay-max", "0.02",
		"--retries", "1",
		"--config", cfgPath,
	}, &stdout, &stderr)

	assert.Error(t, err)
	assert.Contains(t, stderr.String(), "error:")
}
