// Package selector resolves ordered selector families against a DOM node.
//
// A Family lists alternative selectors for one logical element, from the
// most specific current markup to the most generic legacy markup. The first
// selector that yields data wins; results are never merged across selectors.
package selector

import (
	"fmt"
	"strings"

	"go.uber.org/zap"

	"hackinsight/internal/dom"
)

// DefaultMaxParts bounds how many matched elements ResolveText joins.
const DefaultMaxParts = 5

// Family is an ordered list of alternative selectors.
type Family []string

// Engine applies the fallback policy. The zero value is usable.
type Engine struct {
	MaxParts int
}

// New returns an Engine with default settings.
func New() *Engine {
	return &Engine{MaxParts: DefaultMaxParts}
}

func (e *Engine) maxParts() int {
	if e == nil || e.MaxParts <= 0 {
		return DefaultMaxParts
	}
	return e.MaxParts
}

// ResolveText returns the trimmed text of the first few elements matched by
// the first selector that yields any non-empty text, joined with single
// spaces. It returns "" when no selector yields text.
func (e *Engine) ResolveText(n dom.Node, fam Family) string {
	for _, sel := range fam {
		matches := Query(n, sel)
		if len(matches) == 0 {
			continue
		}
		if len(matches) > e.maxParts() {
			matches = matches[:e.maxParts()]
		}
		parts := make([]string, 0, len(matches))
		for _, m := range matches {
			if t := TextOf(m); t != "" {
				parts = append(parts, t)
			}
		}
		if len(parts) > 0 {
			return strings.Join(parts, " ")
		}
	}
	return ""
}

// ResolveAttribute returns the named attribute of the first element matched
// by the first selector whose first match carries a non-empty value.
func (e *Engine) ResolveAttribute(n dom.Node, fam Family, attr string) string {
	return e.ResolveAttributeFunc(n, fam, attr, func(string) bool { return true })
}

// ResolveAttributeFunc is ResolveAttribute with an extra acceptance test on
// the non-empty value.
func (e *Engine) ResolveAttributeFunc(n dom.Node, fam Family, attr string, accept func(string) bool) string {
	for _, sel := range fam {
		matches := Query(n, sel)
		if len(matches) == 0 {
			continue
		}
		if v := AttrOf(matches[0], attr); v != "" && accept(v) {
			return v
		}
	}
	return ""
}

// ResolveTexts returns the non-empty trimmed texts of every element matched
// by the first selector that yields at least one of them.
func (e *Engine) ResolveTexts(n dom.Node, fam Family) []string {
	var texts []string
	for _, m := range e.ResolveMatching(n, fam, func(m dom.Node) bool { return TextOf(m) != "" }) {
		texts = append(texts, TextOf(m))
	}
	return texts
}

// ResolveMatching returns the elements accepted by keep from the first
// selector for which keep accepts at least one element.
func (e *Engine) ResolveMatching(n dom.Node, fam Family, keep func(dom.Node) bool) []dom.Node {
	for _, sel := range fam {
		var kept []dom.Node
		for _, m := range Query(n, sel) {
			if keep(m) {
				kept = append(kept, m)
			}
		}
		if len(kept) > 0 {
			return kept
		}
	}
	return nil
}

// ResolveAll returns every element matched by the first selector that
// matches at least one element.
func (e *Engine) ResolveAll(n dom.Node, fam Family) []dom.Node {
	sel, matches := e.ResolveAllWith(n, fam)
	if sel == "" {
		return nil
	}
	return matches
}

// ResolveAllWith is ResolveAll that also reports the winning selector.
func (e *Engine) ResolveAllWith(n dom.Node, fam Family) (string, []dom.Node) {
	for _, sel := range fam {
		if matches := Query(n, sel); len(matches) > 0 {
			return sel, matches
		}
	}
	return "", nil
}

// Query runs a single selector and treats every failure as no match,
// including panics raised by the underlying automation library.
func Query(n dom.Node, sel string) (matches []dom.Node) {
	if n == nil {
		return nil
	}
	defer func() {
		if r := recover(); r != nil {
			zap.L().Debug("selector query panicked",
				zap.String("selector", sel), zap.String("panic", fmt.Sprint(r)))
			matches = nil
		}
	}()
	found, err := n.QueryAll(sel)
	if err != nil {
		zap.L().Debug("selector query failed", zap.String("selector", sel), zap.Error(err))
		return nil
	}
	return found
}

// TextOf returns the trimmed text of n, or "" on failure.
func TextOf(n dom.Node) (text string) {
	defer func() {
		if r := recover(); r != nil {
			text = ""
		}
	}()
	t, err := n.Text()
	if err != nil {
		zap.L().Debug("read text failed", zap.Error(err))
		return ""
	}
	return strings.TrimSpace(t)
}

// AttrOf returns the trimmed attribute value of n, or "" on failure.
func AttrOf(n dom.Node, attr string) (value string) {
	defer func() {
		if r := recover(); r != nil {
			value = ""
		}
	}()
	v, err := n.Attribute(attr)
	if err != nil {
		zap.L().Debug("read attribute failed", zap.String("attribute", attr), zap.Error(err))
		return ""
	}
	return strings.TrimSpace(v)
}
