package rill

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/andybalholm/cascadia"
	"golang.org/x/net/html"
)

// DefaultMarkup is the document used when a program does not supply its own:
// a single full-screen canvas.
const DefaultMarkup = `<canvas id="canvas"></canvas>`

// Document is the element tree a DOM driver resolves selectors against.
// Elements are laid out by their x, y, width and height attributes, in
// logical pixels; a missing width or height extends the element to the edge
// of the screen.
type Document struct {
	root *html.Node
}

// ParseDocument parses HTML markup.
func ParseDocument(markup string) (*Document, error) {
	root, err := html.Parse(strings.NewReader(markup))
	if err != nil {
		return nil, fmt.Errorf("parse document: %w", err)
	}
	return &Document{root: root}, nil
}

// DefaultDocument returns a document holding DefaultMarkup.
func DefaultDocument() *Document {
	doc, err := ParseDocument(DefaultMarkup)
	if err != nil {
		panic(err)
	}
	return doc
}

// Query returns the first element matching selector, or nil if none does.
// The error is non-nil only for a malformed selector.
func (d *Document) Query(selector string) (*html.Node, error) {
	sel, err := cascadia.ParseGroup(selector)
	if err != nil {
		return nil, fmt.Errorf("selector %q: %w", selector, err)
	}
	if d == nil || d.root == nil {
		return nil, nil
	}
	return cascadia.Query(d.root, sel), nil
}

// attr returns the value of the named attribute of n.
func attr(n *html.Node, key string) (string, bool) {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val, true
		}
	}
	return "", false
}

// numAttr parses a numeric attribute. A missing or malformed value reports
// false; a trailing "px" is accepted.
func numAttr(n *html.Node, key string) (float64, bool) {
	s, ok := attr(n, key)
	if !ok {
		return 0, false
	}
	v, err := strconv.ParseFloat(strings.TrimSuffix(strings.TrimSpace(s), "px"), 64)
	if err != nil {
		return 0, false
	}
	return v, true
}
