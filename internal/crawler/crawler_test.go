package crawler

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hackinsight/internal/dom"
	"hackinsight/internal/extractor"
)

const galleryURL = "https://aifest.devpost.com/project-gallery"

func gallery(links ...string) string {
	var b strings.Builder
	b.WriteString(`<html><head><title>AI Fest | Devpost</title></head><body><h1>AI Fest</h1>`)
	b.WriteString(`<div class="challenge-description">Build with AI.</div>`)
	for _, l := range links {
		fmt.Fprintf(&b, `<a href="%s">p</a>`, l)
	}
	b.WriteString(`</body></html>`)
	return b.String()
}

func projectPage(name string) string {
	return `<html><body><h1>` + name + `</h1><div id="app-details-left"><p>` + name + ` description.</p></div></body></html>`
}

func newCrawler(l *dom.StaticLoader) *Crawler {
	c := New(l, l, extractor.New(nil))
	c.Delay = 0
	return c
}

func TestCrawlHackathonDropsFailedProjects(t *testing.T) {
	links := []string{
		"https://devpost.com/software/a",
		"https://devpost.com/software/b",
		"https://devpost.com/software/c",
		"https://devpost.com/software/d",
		"https://devpost.com/software/e",
	}
	l := &dom.StaticLoader{
		Pages: map[string]string{
			galleryURL: gallery(links...),
			links[0]:   projectPage("A"),
			links[2]:   projectPage("C"),
			links[4]:   projectPage("E"),
		},
		Failures: map[string]error{
			links[1]: errors.New("navigation timeout"),
			links[3]: errors.New("navigation timeout"),
		},
	}

	res := newCrawler(l).CrawlHackathon(context.Background(), galleryURL)

	require.True(t, res.Success)
	require.NoError(t, res.Validate())
	require.NotNil(t, res.Hackathon)
	assert.Equal(t, "AI Fest", res.Hackathon.Name)
	assert.Equal(t, "Build with AI.", res.Hackathon.Description)
	require.Len(t, res.Hackathon.Projects, 3)
	assert.Equal(t, "A", res.Hackathon.Projects[0].Name)
	assert.Equal(t, "C", res.Hackathon.Projects[1].Name)
	assert.Equal(t, "E", res.Hackathon.Projects[2].Name)
	assert.Zero(t, l.OpenCount())
}

func TestCrawlHackathonCapsProjects(t *testing.T) {
	pages := map[string]string{}
	var links []string
	for i := 0; i < 9; i++ {
		u := fmt.Sprintf("https://devpost.com/software/p%d", i)
		links = append(links, u)
		pages[u] = projectPage(fmt.Sprintf("P%d", i))
	}
	pages[galleryURL] = gallery(links...)
	l := &dom.StaticLoader{Pages: pages}

	res := newCrawler(l).CrawlHackathon(context.Background(), galleryURL)

	require.True(t, res.Success)
	assert.Len(t, res.Hackathon.Projects, MaxProjects)
	assert.Len(t, l.Opened(), MaxProjects+1)
	assert.Zero(t, l.OpenCount())
}

func TestCrawlHackathonZeroProjectsIsSuccess(t *testing.T) {
	l := &dom.StaticLoader{Pages: map[string]string{galleryURL: gallery()}}

	res := newCrawler(l).CrawlHackathon(context.Background(), galleryURL)

	require.True(t, res.Success)
	assert.Empty(t, res.Hackathon.Projects)
}

func TestCrawlHackathonPageFailure(t *testing.T) {
	l := &dom.StaticLoader{Failures: map[string]error{galleryURL: errors.New("net::ERR_NAME_NOT_RESOLVED")}}

	res := newCrawler(l).CrawlHackathon(context.Background(), galleryURL)

	assert.False(t, res.Success)
	assert.Nil(t, res.Hackathon)
	assert.Contains(t, res.ErrorMessage, "ERR_NAME_NOT_RESOLVED")
	assert.NoError(t, res.Validate())
}

func TestProjectLinksDedupAndResolve(t *testing.T) {
	doc, err := dom.Parse(galleryURL, gallery(
		"/software/one",
		"https://aifest.devpost.com/software/one",
		"/software/two#comments",
		"/software/two#comments",
	))
	require.NoError(t, err)

	assert.Equal(t, []string{
		"https://aifest.devpost.com/software/one",
		"https://aifest.devpost.com/software/two#comments",
	}, ProjectLinks(doc, galleryURL))
}

func TestProjectLinksFiltersNonProjectURLs(t *testing.T) {
	doc, err := dom.Parse(galleryURL, `<html><body>
<div class="project-card"><a href="https://devpost.com/software/card">c</a></div>
<div class="project-card"><a href="/about">not a project</a></div>
</body></html>`)
	require.NoError(t, err)

	assert.Equal(t, []string{"https://devpost.com/software/card"}, ProjectLinks(doc, galleryURL))

	doc, err = dom.Parse(galleryURL, `<html><body><div class="project-card"><a href="/about">x</a></div></body></html>`)
	require.NoError(t, err)
	assert.Empty(t, ProjectLinks(doc, galleryURL))
}

func TestScrapeProjectHonorsCancellation(t *testing.T) {
	const u = "https://devpost.com/software/a"
	l := &dom.StaticLoader{Pages: map[string]string{u: projectPage("A")}}
	c := newCrawler(l)
	c.Delay = time.Hour

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	p, err := c.ScrapeProject(ctx, u)
	require.Error(t, err)
	assert.Equal(t, "A", p.Name)
	assert.Zero(t, l.OpenCount())
}

func TestCrawlHackathonInterrupted(t *testing.T) {
	l := &dom.StaticLoader{Pages: map[string]string{
		galleryURL: gallery("/software/a", "/software/b"),
		"https://aifest.devpost.com/software/a": projectPage("A"),
		"https://aifest.devpost.com/software/b": projectPage("B"),
	}}
	c := newCrawler(l)
	c.Delay = time.Hour

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	res := c.CrawlHackathon(ctx, galleryURL)

	assert.False(t, res.Success)
	assert.Equal(t, []string{galleryURL, "https://aifest.devpost.com/software/a"}, l.Opened())
	assert.Zero(t, l.OpenCount())
}

func TestScrapeProjectDelaysAfterFailure(t *testing.T) {
	link := "https://devpost.com/software/broken"
	l := &dom.StaticLoader{Failures: map[string]error{link: errors.New("navigation timeout")}}
	c := newCrawler(l)
	c.Delay = 50 * time.Millisecond

	start := time.Now()
	_, err := c.ScrapeProject(context.Background(), link)

	assert.ErrorContains(t, err, "navigation timeout")
	assert.GreaterOrEqual(t, time.Since(start), c.Delay)
}

func TestCrawlHackathonDelaysAfterEveryProject(t *testing.T) {
	links := []string{"https://devpost.com/software/ok", "https://devpost.com/software/broken"}
	l := &dom.StaticLoader{
		Pages:    map[string]string{galleryURL: gallery(links...), links[0]: projectPage("OK")},
		Failures: map[string]error{links[1]: errors.New("navigation timeout")},
	}
	c := newCrawler(l)
	c.Delay = 30 * time.Millisecond

	start := time.Now()
	res := c.CrawlHackathon(context.Background(), galleryURL)

	require.True(t, res.Success)
	assert.Len(t, res.Hackathon.Projects, 1)
	assert.GreaterOrEqual(t, time.Since(start), 2*c.Delay)
}
