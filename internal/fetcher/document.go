package fetcher

import (
	"github.com/go-rod/rod"
	"github.com/rotisserie/eris"

	"hackinsight/internal/dom"
)

// rodNode adapts a rod page or element to dom.Node. When el is nil the node
// is the page itself.
type rodNode struct {
	el   *rod.Element
	page *rod.Page
}

func (n *rodNode) QueryAll(selector string) ([]dom.Node, error) {
	var (
		els rod.Elements
		err error
	)
	if n.el != nil {
		els, err = n.el.Elements(selector)
	} else {
		els, err = n.page.Elements(selector)
	}
	if err != nil {
		return nil, eris.Wrapf(err, "fetcher: query %q", selector)
	}
	nodes := make([]dom.Node, 0, len(els))
	for _, el := range els {
		nodes = append(nodes, &rodNode{el: el, page: n.page})
	}
	return nodes, nil
}

func (n *rodNode) Text() (string, error) {
	if n.el == nil {
		res, err := n.page.Eval(`() => document.body ? document.body.textContent : ''`)
		if err != nil {
			return "", eris.Wrap(err, "fetcher: body text")
		}
		return res.Value.Str(), nil
	}
	v, err := n.el.Property("textContent")
	if err != nil {
		return "", eris.Wrap(err, "fetcher: element text")
	}
	return v.Str(), nil
}

func (n *rodNode) Attribute(name string) (string, error) {
	if n.el == nil {
		return "", nil
	}
	v, err := n.el.Attribute(name)
	if err != nil {
		return "", eris.Wrapf(err, "fetcher: attribute %q", name)
	}
	if v == nil {
		return "", nil
	}
	return *v, nil
}

// pageDocument is a dom.Document over a live page.
type pageDocument struct {
	rodNode
	base *rod.Page
	url  string
}

func (d *pageDocument) URL() string { return d.url }

func (d *pageDocument) Title() (string, error) {
	info, err := d.page.Info()
	if err != nil {
		return "", eris.Wrap(err, "fetcher: page info")
	}
	return info.Title, nil
}

func (d *pageDocument) HTML() (string, error) {
	html, err := d.page.HTML()
	if err != nil {
		return "", eris.Wrap(err, "fetcher: page html")
	}
	return html, nil
}

func (d *pageDocument) Close() error {
	if err := d.base.Close(); err != nil {
		return eris.Wrap(err, "fetcher: close page")
	}
	return nil
}
