package search

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hackinsight/internal/dom"
	"hackinsight/internal/extractor"
)

const listingURL = "https://devpost.com/hackathons?search=ai"

func collector(pages map[string]string) (*Collector, *dom.StaticLoader) {
	l := &dom.StaticLoader{Pages: pages}
	return New(l, extractor.New(nil)), l
}

func TestSearchExcludesNamelessAndProjectEntries(t *testing.T) {
	c, l := collector(map[string]string{listingURL: `<html><body>
<div class="hackathon-tile"><a href="/h/aifest"><h3>AI Fest</h3></a></div>
<div class="hackathon-tile"><a href="/h/empty"><h3></h3></a></div>
<div class="hackathon-tile"><a href="https://x.devpost.com/software/foo"><h3>DevJam</h3></a></div>
</body></html>`})

	results, err := c.Search(context.Background(), listingURL, 10)

	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "AI Fest", results[0].Name)
	assert.Equal(t, "https://devpost.com/h/aifest", results[0].URL)
	assert.Zero(t, l.OpenCount())
}

func TestSearchBoundedByMaxResults(t *testing.T) {
	var b strings.Builder
	b.WriteString("<html><body>")
	for i := 0; i < 8; i++ {
		fmt.Fprintf(&b, `<div class="challenge-card"><a href="https://h%d.devpost.com/"><h2>Hack %d</h2></a></div>`, i, i)
	}
	b.WriteString("</body></html>")
	c, _ := collector(map[string]string{listingURL: b.String()})

	results, err := c.Search(context.Background(), listingURL, 3)

	require.NoError(t, err)
	require.Len(t, results, 3)
	assert.Equal(t, []string{"Hack 0", "Hack 1", "Hack 2"},
		[]string{results[0].Name, results[1].Name, results[2].Name})
}

func TestSearchGenericFallback(t *testing.T) {
	c, _ := collector(map[string]string{listingURL: `<html><body>
<a href="https://quantum.devpost.com/">Quantum Jam</a>
<a href="https://devpost.com/software/thing">A project</a>
<a href="/about">About</a>
</body></html>`})

	results, err := c.Search(context.Background(), listingURL, 5)

	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "Quantum Jam", results[0].Name)
}

func TestSearchDefaultURL(t *testing.T) {
	c, l := collector(map[string]string{DefaultSearchURL: `<html><body></body></html>`})

	results, err := c.Search(context.Background(), "", 0)

	require.NoError(t, err)
	assert.Empty(t, results)
	assert.Equal(t, []string{DefaultSearchURL}, l.Opened())
}

func TestSearchLoadFailure(t *testing.T) {
	l := &dom.StaticLoader{Failures: map[string]error{listingURL: errors.New("timeout")}}

	_, err := New(l, extractor.New(nil)).Search(context.Background(), listingURL, 5)
	assert.Error(t, err)
}

type panicNode struct{}

func (panicNode) QueryAll(string) ([]dom.Node, error) { panic("detached") }

func (panicNode) Text() (string, error) { panic("detached") }

func (panicNode) Attribute(string) (string, error) { panic("detached") }

func TestCandidateReadFailuresDegrade(t *testing.T) {
	c := New(nil, extractor.New(nil))

	r, err := c.candidate(panicNode{}, listingURL)
	assert.Nil(t, r)
	assert.NoError(t, err)
}

func TestGalleryURL(t *testing.T) {
	cases := map[string]string{
		"https://aifest.devpost.com":                      "https://aifest.devpost.com/project-gallery",
		"https://aifest.devpost.com/":                     "https://aifest.devpost.com/project-gallery",
		"https://aifest.devpost.com/?ref=home#rules":      "https://aifest.devpost.com/project-gallery",
		"https://aifest.devpost.com/project-gallery":      "https://aifest.devpost.com/project-gallery",
		"https://devpost.com/hackathons/aifest/overview/": "https://devpost.com/hackathons/aifest/overview/project-gallery",
	}
	for in, want := range cases {
		assert.Equal(t, want, GalleryURL(in), in)
	}
}

func TestDiscoverGallery(t *testing.T) {
	const hack = "https://aifest.devpost.com/"
	c, l := collector(map[string]string{
		hack: `<html><body><a href="/rules">Rules</a><a href="/project-gallery">View gallery</a></body></html>`,
	})

	assert.Equal(t, "https://aifest.devpost.com/project-gallery", c.DiscoverGallery(context.Background(), hack))
	assert.Zero(t, l.OpenCount())

	c, _ = collector(map[string]string{hack: `<html><body><a href="/rules">Rules</a></body></html>`})
	assert.Equal(t, "https://aifest.devpost.com/project-gallery", c.DiscoverGallery(context.Background(), hack))

	c, _ = collector(nil)
	assert.Equal(t, "https://other.devpost.com/project-gallery", c.DiscoverGallery(context.Background(), "https://other.devpost.com"))
}
