// Package scraper dispatches a URL to the matching handler and wraps the
// outcome in a result envelope.
package scraper

import (
	"context"
	"fmt"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"hackinsight/internal/crawler"
	"hackinsight/internal/model"
)

// Handler scrapes one kind of page into a Hackathon.
type Handler interface {
	Name() string
	Match(url string) bool
	Scrape(ctx context.Context, url string) (*model.Hackathon, error)
}

const (
	KindProject   = "project"
	KindHackathon = "hackathon"
)

// Assembler is the single entry point for top-level scrapes. Scrape never
// returns an error or panics; failures become failure envelopes.
type Assembler struct {
	registry *Registry
}

// New wires the project and hackathon handlers around c.
func New(c *crawler.Crawler) *Assembler {
	reg := NewRegistry()
	reg.Register(&projectHandler{crawler: c})
	reg.Register(&hackathonHandler{crawler: c})
	return &Assembler{registry: reg}
}

// NewWithRegistry builds an Assembler over a caller-supplied registry.
func NewWithRegistry(reg *Registry) *Assembler {
	return &Assembler{registry: reg}
}

// Kind reports which handler url dispatches to.
func Kind(url string) string {
	if model.IsProjectURL(url) {
		return KindProject
	}
	return KindHackathon
}

func (a *Assembler) Scrape(ctx context.Context, url string) (res model.ScrapeResult) {
	defer func() {
		if r := recover(); r != nil {
			zap.L().Error("scrape panicked", zap.String("url", url), zap.String("panic", fmt.Sprint(r)))
			res = model.NewFailure(url, fmt.Sprint(r))
		}
	}()

	h, ok := a.registry.Lookup(url)
	if !ok {
		return model.NewFailure(url, fmt.Sprintf("no handler for %s", url))
	}

	start := time.Now()
	hackathon, err := h.Scrape(ctx, url)
	if err != nil {
		zap.L().Error("scrape failed",
			zap.String("url", url), zap.String("handler", h.Name()), zap.Error(err))
		return model.NewFailure(url, err.Error())
	}
	zap.L().Info("scrape finished",
		zap.String("url", url),
		zap.String("handler", h.Name()),
		zap.Duration("elapsed", time.Since(start)))
	return model.NewSuccess(url, hackathon)
}

type projectHandler struct {
	crawler *crawler.Crawler
}

func (h *projectHandler) Name() string { return KindProject }

func (h *projectHandler) Match(url string) bool { return model.IsProjectURL(url) }

// Scrape wraps a single project in a placeholder hackathon.
func (h *projectHandler) Scrape(ctx context.Context, url string) (*model.Hackathon, error) {
	p, err := h.crawler.ScrapeProject(ctx, url)
	if err != nil {
		return nil, eris.Wrap(err, "scraper: project")
	}
	return &model.Hackathon{
		Name:       model.DegenerateHackathonName,
		DevpostURL: url,
		Projects:   []model.Project{p},
		ScrapedAt:  time.Now(),
	}, nil
}

type hackathonHandler struct {
	crawler *crawler.Crawler
}

func (h *hackathonHandler) Name() string { return KindHackathon }

func (h *hackathonHandler) Match(url string) bool { return !model.IsProjectURL(url) }

func (h *hackathonHandler) Scrape(ctx context.Context, url string) (*model.Hackathon, error) {
	return h.crawler.Crawl(ctx, url)
}
