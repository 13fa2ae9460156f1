// Package search collects hackathon listings and locates project galleries.
package search

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"hackinsight/internal/dom"
	"hackinsight/internal/extractor"
	"hackinsight/internal/model"
	"hackinsight/internal/selector"
)

// DefaultSearchURL lists ended AI/ML hackathons ordered by deadline.
const DefaultSearchURL = "https://devpost.com/hackathons" +
	"?length[]=days" +
	"&order_by=deadline" +
	"&status[]=ended" +
	"&themes[]=Machine%20Learning%2FAI"

// DefaultMaxResults bounds a search when the caller gives no limit.
const DefaultMaxResults = 10

var (
	cards = selector.Family{
		".challenge-listing",
		".hackathon-tile",
		".challenge-card",
		".listing-item",
		".hackathon-item",
	}
	genericCards = "a[href*='/software/'], a[href*='.devpost.com']"

	// Text-match pseudo selectors are not CSS; on engines that reject them
	// they degrade to no match.
	galleryLinks = selector.Family{
		"a[href*='project-gallery']",
		"a[href*='submissions']",
		"a[href*='projects']",
		"a:has-text('Gallery')",
		"a:has-text('Projects')",
		"a:has-text('Submissions')",
	}
)

// Collector reads listing pages through a Loader.
type Collector struct {
	Loader    dom.Loader
	Extractor *extractor.Extractor
}

// New creates a Collector.
func New(loader dom.Loader, ex *extractor.Extractor) *Collector {
	return &Collector{Loader: loader, Extractor: ex}
}

// Search returns at most maxResults listings from searchURL in page order.
// An empty searchURL uses DefaultSearchURL. A page that cannot be loaded
// yields an error; a card that cannot be read is skipped.
func (c *Collector) Search(ctx context.Context, searchURL string, maxResults int) ([]model.HackathonSearchResult, error) {
	if searchURL == "" {
		searchURL = DefaultSearchURL
	}
	if maxResults <= 0 {
		maxResults = DefaultMaxResults
	}
	log := zap.L().With(zap.String("url", searchURL))
	log.Info("searching hackathons")

	doc, err := c.Loader.Open(ctx, searchURL)
	if err != nil {
		return nil, eris.Wrap(err, "search: open listing")
	}
	defer func() {
		if err := doc.Close(); err != nil {
			log.Warn("close page failed", zap.Error(err))
		}
	}()

	sel, elements := selector.New().ResolveAllWith(doc, cards)
	if sel == "" {
		log.Warn("no hackathon cards found, trying generic links")
		elements = selector.Query(doc, genericCards)
	} else {
		log.Debug("found hackathon cards", zap.String("selector", sel), zap.Int("count", len(elements)))
	}

	results := []model.HackathonSearchResult{}
	for i, el := range elements {
		if len(results) >= maxResults {
			break
		}
		r, err := c.candidate(el, searchURL)
		if err != nil {
			log.Warn("skipping candidate", zap.Int("index", i), zap.Error(err))
			continue
		}
		if r == nil {
			continue
		}
		results = append(results, *r)
	}

	log.Info("search finished", zap.Int("results", len(results)))
	return results, nil
}

func (c *Collector) candidate(el dom.Node, baseURL string) (r *model.HackathonSearchResult, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			r, err = nil, eris.Errorf("search: candidate panicked: %v", rec)
		}
	}()
	return c.Extractor.ExtractSearchResult(el, baseURL), nil
}

// GalleryURL derives the conventional gallery address of a hackathon.
func GalleryURL(hackathonURL string) string {
	u, err := url.Parse(strings.TrimSpace(hackathonURL))
	if err != nil {
		return strings.TrimRight(hackathonURL, "/") + "/project-gallery"
	}
	u.RawQuery = ""
	u.Fragment = ""
	u.Path = strings.TrimRight(u.Path, "/")
	if strings.HasSuffix(u.Path, "/project-gallery") {
		return u.String()
	}
	return fmt.Sprintf("%s/project-gallery", strings.TrimRight(u.String(), "/"))
}

// DiscoverGallery looks for a gallery link on the hackathon page and falls
// back to GalleryURL when the page has none or cannot be loaded.
func (c *Collector) DiscoverGallery(ctx context.Context, hackathonURL string) string {
	log := zap.L().With(zap.String("url", hackathonURL))
	log.Info("finding project gallery")

	fallback := GalleryURL(hackathonURL)

	doc, err := c.Loader.Open(ctx, hackathonURL)
	if err != nil {
		log.Warn("open hackathon page failed, using derived gallery", zap.Error(err))
		return fallback
	}
	defer func() {
		if err := doc.Close(); err != nil {
			log.Warn("close page failed", zap.Error(err))
		}
	}()

	href := selector.New().ResolveAttribute(doc, galleryLinks, "href")
	if link := extractor.Absolute(hackathonURL, href); link != "" {
		log.Info("found gallery link", zap.String("gallery", link))
		return link
	}
	return fallback
}
