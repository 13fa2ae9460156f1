package dom

import (
	"context"
	"strings"
	"sync"

	"github.com/PuerkitoBio/goquery"
	"github.com/andybalholm/cascadia"
	"github.com/rotisserie/eris"
)

type staticNode struct {
	sel *goquery.Selection
}

func (n *staticNode) QueryAll(selector string) ([]Node, error) {
	m, err := cascadia.Compile(selector)
	if err != nil {
		return nil, eris.Wrapf(err, "dom: compile selector %q", selector)
	}
	found := n.sel.FindMatcher(m)
	nodes := make([]Node, 0, found.Length())
	found.Each(func(_ int, s *goquery.Selection) {
		nodes = append(nodes, &staticNode{sel: s})
	})
	return nodes, nil
}

func (n *staticNode) Text() (string, error) {
	return n.sel.Text(), nil
}

func (n *staticNode) Attribute(name string) (string, error) {
	v, _ := n.sel.Attr(name)
	return v, nil
}

// StaticDocument is a Document backed by a parsed HTML snapshot.
type StaticDocument struct {
	staticNode
	doc    *goquery.Document
	url    string
	html   string
	onDone func()
}

// Parse builds a StaticDocument from raw HTML.
func Parse(url, html string) (*StaticDocument, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, eris.Wrap(err, "dom: parse html")
	}
	return &StaticDocument{
		staticNode: staticNode{sel: doc.Selection},
		doc:        doc,
		url:        url,
		html:       html,
	}, nil
}

func (d *StaticDocument) URL() string { return d.url }

func (d *StaticDocument) Title() (string, error) {
	return strings.TrimSpace(d.doc.Find("title").First().Text()), nil
}

func (d *StaticDocument) HTML() (string, error) { return d.html, nil }

// Text returns the textContent of body, mirroring a page-level text read.
func (d *StaticDocument) Text() (string, error) {
	return d.doc.Find("body").Text(), nil
}

func (d *StaticDocument) Attribute(string) (string, error) { return "", nil }

func (d *StaticDocument) Close() error {
	if d.onDone != nil {
		d.onDone()
		d.onDone = nil
	}
	return nil
}

// StaticLoader serves HTML snapshots keyed by URL. It tracks how many
// documents are open so callers can verify every page was released.
type StaticLoader struct {
	Pages    map[string]string
	Failures map[string]error

	mu     sync.Mutex
	opened []string
	open   int
}

// Open returns the snapshot for url, or the configured failure.
func (l *StaticLoader) Open(ctx context.Context, url string) (Document, error) {
	if err := ctx.Err(); err != nil {
		return nil, eris.Wrap(err, "dom: open")
	}
	if err, ok := l.Failures[url]; ok {
		return nil, err
	}
	html, ok := l.Pages[url]
	if !ok {
		return nil, eris.Errorf("dom: no snapshot for %s", url)
	}
	doc, err := Parse(url, html)
	if err != nil {
		return nil, err
	}

	l.mu.Lock()
	l.opened = append(l.opened, url)
	l.open++
	l.mu.Unlock()

	doc.onDone = func() {
		l.mu.Lock()
		l.open--
		l.mu.Unlock()
	}
	return doc, nil
}

// Opened lists the URLs opened so far, in order.
func (l *StaticLoader) Opened() []string {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]string(nil), l.opened...)
}

// OpenCount reports documents opened and not yet closed.
func (l *StaticLoader) OpenCount() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.open
}
