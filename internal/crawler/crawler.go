// Package crawler walks a hackathon gallery and scrapes its projects one at
// a time.
package crawler

import (
	"context"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"hackinsight/internal/dom"
	"hackinsight/internal/extractor"
	"hackinsight/internal/model"
	"hackinsight/internal/selector"
)

// MaxProjects caps how many projects one gallery crawl scrapes.
const MaxProjects = 5

// DefaultDelay is the pause after every project scrape.
const DefaultDelay = 2 * time.Second

var (
	projectLinks = selector.Family{
		"a[href*='/software/']",
		".submission-item a",
		".project-card a",
		".challenge-submission a",
		".software-entry a",
	}
	genericProjectLinks = "a[href*='devpost.com/software']"
)

// Crawler scrapes projects sequentially. Pages loads hackathon and gallery
// pages, Projects loads project pages; both may be the same loader.
type Crawler struct {
	Pages     dom.Loader
	Projects  dom.Loader
	Extractor *extractor.Extractor
	Delay     time.Duration
}

// New creates a Crawler with the default delay.
func New(pages, projects dom.Loader, ex *extractor.Extractor) *Crawler {
	return &Crawler{
		Pages:     pages,
		Projects:  projects,
		Extractor: ex,
		Delay:     DefaultDelay,
	}
}

// ScrapeProject loads and extracts a single project page. The page is
// closed before returning and the inter-request delay is always honored.
func (c *Crawler) ScrapeProject(ctx context.Context, url string) (model.Project, error) {
	p, err := c.scrapeProject(ctx, url)
	if werr := c.wait(ctx); werr != nil && err == nil {
		err = werr
	}
	return p, err
}

func (c *Crawler) scrapeProject(ctx context.Context, url string) (model.Project, error) {
	zap.L().Info("scraping project", zap.String("url", url))

	doc, err := c.Projects.Open(ctx, url)
	if err != nil {
		return model.Project{}, eris.Wrapf(err, "crawler: open project %s", url)
	}
	defer closeDoc(doc)

	return c.Extractor.ExtractProject(ctx, doc, url), nil
}

// CrawlHackathon scrapes hackathon metadata and up to MaxProjects projects
// into a result envelope.
func (c *Crawler) CrawlHackathon(ctx context.Context, url string) model.ScrapeResult {
	h, err := c.Crawl(ctx, url)
	if err != nil {
		zap.L().Error("hackathon scrape failed", zap.String("url", url), zap.Error(err))
		return model.NewFailure(url, err.Error())
	}
	return model.NewSuccess(url, h)
}

// Crawl is CrawlHackathon without the envelope. Individual project failures
// are dropped; only a failure to load the hackathon page itself, or
// cancellation, is returned as an error.
func (c *Crawler) Crawl(ctx context.Context, url string) (*model.Hackathon, error) {
	h, links, err := c.discover(ctx, url)
	if err != nil {
		return nil, err
	}

	for _, link := range links {
		p, err := c.ScrapeProject(ctx, link)
		if ctx.Err() != nil {
			return nil, eris.Wrap(ctx.Err(), "crawler: interrupted")
		}
		if err != nil {
			zap.L().Warn("skipping project", zap.String("url", link), zap.Error(err))
			continue
		}
		h.AddProject(p)
	}

	zap.L().Info("hackathon scraped",
		zap.String("name", h.Name),
		zap.Int("projects", len(h.Projects)),
		zap.Int("links", len(links)))
	return h, nil
}

// discover reads the hackathon page and returns its metadata and the
// project URLs to crawl. The page is closed before projects are scraped.
func (c *Crawler) discover(ctx context.Context, url string) (*model.Hackathon, []string, error) {
	zap.L().Info("scraping hackathon", zap.String("url", url))

	doc, err := c.Pages.Open(ctx, url)
	if err != nil {
		return nil, nil, eris.Wrapf(err, "crawler: open hackathon %s", url)
	}
	defer closeDoc(doc)

	if title, err := doc.Title(); err == nil {
		zap.L().Debug("page loaded", zap.String("title", title), zap.String("current", doc.URL()))
	}

	name, description := c.Extractor.ExtractHackathonMetadata(doc)
	h := &model.Hackathon{
		Name:        name,
		Description: description,
		DevpostURL:  url,
		Projects:    []model.Project{},
		ScrapedAt:   time.Now(),
	}
	return h, ProjectLinks(doc, url), nil
}

// ProjectLinks finds project URLs on a gallery page: first family with any
// anchors, then a generic project-link query. Links are made absolute,
// deduplicated in page order, and capped at MaxProjects.
func ProjectLinks(doc dom.Node, baseURL string) []string {
	sel, anchors := selector.New().ResolveAllWith(doc, projectLinks)
	if sel != "" {
		zap.L().Debug("found project links", zap.String("selector", sel), zap.Int("count", len(anchors)))
	} else {
		zap.L().Warn("no project links found, trying generic query")
		anchors = selector.Query(doc, genericProjectLinks)
	}

	seen := make(map[string]bool)
	var urls []string
	for _, a := range anchors {
		link := extractor.Absolute(baseURL, selector.AttrOf(a, "href"))
		if link == "" || seen[link] || !model.IsProjectURL(link) {
			continue
		}
		seen[link] = true
		urls = append(urls, link)
		if len(urls) == MaxProjects {
			break
		}
	}
	return urls
}

func (c *Crawler) wait(ctx context.Context) error {
	if c.Delay <= 0 {
		return nil
	}
	t := time.NewTimer(c.Delay)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return eris.Wrap(ctx.Err(), "crawler: delay")
	case <-t.C:
		return nil
	}
}

func closeDoc(doc dom.Document) {
	if err := doc.Close(); err != nil {
		zap.L().Warn("close page failed", zap.String("url", doc.URL()), zap.Error(err))
	}
}
