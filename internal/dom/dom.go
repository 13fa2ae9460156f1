// Package dom defines the small DOM surface the extraction policy is written
// against. A live browser page and a parsed HTML snapshot both satisfy it.
package dom

import "context"

// Node is a queryable DOM context: a whole page or a single element on it.
type Node interface {
	// QueryAll returns every element under the node matching selector, in
	// document order. A malformed selector or a detached node is an error.
	QueryAll(selector string) ([]Node, error)
	// Text returns the textContent of the node.
	Text() (string, error)
	// Attribute returns the named attribute, or "" when it is absent.
	Attribute(name string) (string, error)
}

// Document is a loaded page. It must be closed by whoever opened it.
type Document interface {
	Node
	URL() string
	Title() (string, error)
	// HTML returns the full serialized page.
	HTML() (string, error)
	Close() error
}

// Loader opens documents by URL.
type Loader interface {
	Open(ctx context.Context, url string) (Document, error)
}
