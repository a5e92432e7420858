// Package response holds the parsed form of an API response: the XML body as
// an xmlquery document, with XPath lookups used by the object mappers. Paths
// are relative to the node they are evaluated on, e.g. "photosets/photoset",
// "owner/@nsid" or "." for the node itself.
package response

import (
	"bytes"
	"errors"
	"fmt"
	"strings"

	"github.com/antchfx/xmlquery"
)

// Node is a single element of a parsed response document.
type Node struct {
	node *xmlquery.Node
}

// ErrEmptyDocument is returned by Parse when the body holds no root element.
var ErrEmptyDocument = errors.New("response: empty document")

// Parse decodes an XML response body and returns its root element.
func Parse(data []byte) (*Node, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, ErrEmptyDocument
	}
	doc, err := xmlquery.Parse(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("response: decode xml: %w", err)
	}

	var root *xmlquery.Node
	for c := doc.FirstChild; c != nil; c = c.NextSibling {
		if c.Type != xmlquery.ElementNode {
			continue
		}
		if root != nil {
			return nil, errors.New("response: multiple root elements")
		}
		root = c
	}
	if root == nil {
		return nil, ErrEmptyDocument
	}
	return &Node{node: root}, nil
}

func wrap(n *xmlquery.Node) *Node {
	if n == nil {
		return nil
	}
	return &Node{node: n}
}

// Name returns the element's local name.
func (n *Node) Name() string {
	if n == nil {
		return ""
	}
	return n.node.Data
}

// Text returns the element's character data, including that of its
// descendants, with surrounding whitespace trimmed.
func (n *Node) Text() string {
	if n == nil {
		return ""
	}
	return strings.TrimSpace(n.node.InnerText())
}

// Attr returns the value of the named attribute.
func (n *Node) Attr(name string) (string, bool) {
	if n == nil {
		return "", false
	}
	for _, a := range n.node.Attr {
		if a.Name.Local == name {
			return a.Value, true
		}
	}
	return "", false
}

// Child returns the first direct child element with the given name.
func (n *Node) Child(name string) *Node {
	if n == nil {
		return nil
	}
	for c := n.node.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == xmlquery.ElementNode && c.Data == name {
			return wrap(c)
		}
	}
	return nil
}
