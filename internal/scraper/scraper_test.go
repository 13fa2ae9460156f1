package scraper

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hackinsight/internal/crawler"
	"hackinsight/internal/dom"
	"hackinsight/internal/extractor"
	"hackinsight/internal/model"
)

const (
	projectURL = "https://devpost.com/software/skywatch"
	hackURL    = "https://aifest.devpost.com/project-gallery"
)

func assembler(l *dom.StaticLoader) *Assembler {
	c := crawler.New(l, l, extractor.New(nil))
	c.Delay = 0
	return New(c)
}

func TestScrapeProjectWrapsInPlaceholderHackathon(t *testing.T) {
	l := &dom.StaticLoader{Pages: map[string]string{
		projectURL: `<html><body><h1>SkyWatch</h1><div class="software-description"><p>Fire alerts.</p></div></body></html>`,
	}}

	res := assembler(l).Scrape(context.Background(), projectURL)

	require.True(t, res.Success)
	require.NoError(t, res.Validate())
	assert.Equal(t, model.DegenerateHackathonName, res.Hackathon.Name)
	assert.Equal(t, projectURL, res.Hackathon.DevpostURL)
	require.Len(t, res.Hackathon.Projects, 1)
	assert.Equal(t, "Fire alerts.", res.Hackathon.Projects[0].Description)
	assert.False(t, res.ScrapedAt.IsZero())
}

func TestScrapeDispatchesHackathon(t *testing.T) {
	l := &dom.StaticLoader{Pages: map[string]string{
		hackURL: `<html><body><h1>AI Fest</h1></body></html>`,
	}}

	res := assembler(l).Scrape(context.Background(), hackURL)

	require.True(t, res.Success)
	assert.Equal(t, "AI Fest", res.Hackathon.Name)
	assert.Empty(t, res.Hackathon.Projects)
}

func TestScrapeFailureEnvelope(t *testing.T) {
	l := &dom.StaticLoader{Failures: map[string]error{projectURL: errors.New("navigation timeout")}}

	res := assembler(l).Scrape(context.Background(), projectURL)

	assert.False(t, res.Success)
	assert.Nil(t, res.Hackathon)
	assert.Contains(t, res.ErrorMessage, "navigation timeout")
	assert.NoError(t, res.Validate())
}

type panicHandler struct{}

func (panicHandler) Name() string { return "boom" }

func (panicHandler) Match(string) bool { return true }

func (panicHandler) Scrape(context.Context, string) (*model.Hackathon, error) {
	panic("browser crashed")
}

func TestScrapeRecoversPanics(t *testing.T) {
	reg := NewRegistry()
	reg.Register(panicHandler{})

	res := NewWithRegistry(reg).Scrape(context.Background(), hackURL)

	assert.False(t, res.Success)
	assert.Equal(t, "browser crashed", res.ErrorMessage)
}

func TestScrapeNoHandler(t *testing.T) {
	res := NewWithRegistry(NewRegistry()).Scrape(context.Background(), hackURL)
	assert.False(t, res.Success)
	assert.Contains(t, res.ErrorMessage, "no handler")
}

func TestRegistry(t *testing.T) {
	a := assembler(&dom.StaticLoader{})

	h, ok := a.registry.Get("PROJECT")
	require.True(t, ok)
	assert.Equal(t, KindProject, h.Name())

	h, ok = a.registry.Lookup(projectURL)
	require.True(t, ok)
	assert.Equal(t, KindProject, h.Name())

	h, ok = a.registry.Lookup(hackURL)
	require.True(t, ok)
	assert.Equal(t, KindHackathon, h.Name())

	a.registry.Register(panicHandler{})
	a.registry.Register(panicHandler{})
	assert.Len(t, a.registry.order, 3)
}

func TestKind(t *testing.T) {
	assert.Equal(t, KindProject, Kind(projectURL))
	assert.Equal(t, KindHackathon, Kind(hackURL))
}
