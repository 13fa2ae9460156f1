package dom

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const page = `<html><head><title> Demo | Devpost </title></head>
<body><div id="app-title">Demo</div><a class="x" href="/software/demo">go</a><span></span></body></html>`

func TestParse(t *testing.T) {
	doc, err := Parse("https://devpost.com/software/demo", page)
	require.NoError(t, err)

	assert.Equal(t, "https://devpost.com/software/demo", doc.URL())
	title, err := doc.Title()
	require.NoError(t, err)
	assert.Equal(t, "Demo | Devpost", title)

	html, err := doc.HTML()
	require.NoError(t, err)
	assert.Equal(t, page, html)

	text, err := doc.Text()
	require.NoError(t, err)
	assert.True(t, strings.Contains(text, "Demo"))
	assert.False(t, strings.Contains(text, "Devpost"), "title is outside body")

	links, err := doc.QueryAll("a.x")
	require.NoError(t, err)
	require.Len(t, links, 1)
	href, err := links[0].Attribute("href")
	require.NoError(t, err)
	assert.Equal(t, "/software/demo", href)
	missing, err := links[0].Attribute("title")
	require.NoError(t, err)
	assert.Empty(t, missing)
}

func TestQueryAllMalformedSelector(t *testing.T) {
	doc, err := Parse("u", page)
	require.NoError(t, err)

	_, err = doc.QueryAll("a[href*=")
	assert.Error(t, err)

	// Text-matching pseudo classes are not CSS.
	_, err = doc.QueryAll("a:has-text('Gallery')")
	assert.Error(t, err)
}

func TestStaticLoader(t *testing.T) {
	boom := errors.New("boom")
	l := &StaticLoader{
		Pages:    map[string]string{"a": page},
		Failures: map[string]error{"b": boom},
	}
	ctx := context.Background()

	doc, err := l.Open(ctx, "a")
	require.NoError(t, err)
	assert.Equal(t, 1, l.OpenCount())

	require.NoError(t, doc.Close())
	require.NoError(t, doc.Close())
	assert.Equal(t, 0, l.OpenCount(), "double close counts once")

	_, err = l.Open(ctx, "b")
	assert.ErrorIs(t, err, boom)
	_, err = l.Open(ctx, "c")
	assert.Error(t, err)
	assert.Equal(t, []string{"a"}, l.Opened())

	cancelled, cancel := context.WithCancel(ctx)
	cancel()
	_, err = l.Open(cancelled, "a")
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 0, l.OpenCount())
}
