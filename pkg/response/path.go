package response

import (
	"fmt"
	"strings"

	"github.com/antchfx/xmlquery"
	"github.com/antchfx/xpath"
	"go.uber.org/zap"
)

// ValidPath reports whether path compiles as an XPath expression. The empty
// path is valid and addresses the node itself.
func ValidPath(path string) error {
	if path == "" {
		return nil
	}
	if _, err := xpath.Compile(path); err != nil {
		return fmt.Errorf("response: invalid path %q: %w", path, err)
	}
	return nil
}

// FindAll returns every element selected by path relative to n, in document
// order. An empty path yields n itself. Non-element results, such as
// attributes, are skipped; use Value to read them.
func (n *Node) FindAll(path string) []*Node {
	if n == nil {
		return nil
	}
	path = strings.Trim(path, "/")
	if path == "" {
		return []*Node{n}
	}
	found, err := xmlquery.QueryAll(n.node, path)
	if err != nil {
		zap.L().Debug("invalid response path", zap.String("path", path), zap.Error(err))
		return nil
	}
	var out []*Node
	for _, f := range found {
		if f.Type == xmlquery.ElementNode {
			out = append(out, wrap(f))
		}
	}
	return out
}

// Find returns the first element selected by path, or nil.
func (n *Node) Find(path string) *Node {
	nodes := n.FindAll(path)
	if len(nodes) == 0 {
		return nil
	}
	return nodes[0]
}

// Value resolves path to a string. Attribute paths ("@id", "owner/@nsid")
// read the attribute; element paths and "." read the element's trimmed text.
// The boolean reports whether the path selected anything; an element that
// exists with empty text resolves to "".
func (n *Node) Value(path string) (string, bool) {
	if n == nil {
		return "", false
	}
	path = strings.Trim(path, "/")
	if path == "" {
		return "", false
	}
	found, err := xmlquery.Query(n.node, path)
	if err != nil {
		zap.L().Debug("invalid response path", zap.String("path", path), zap.Error(err))
		return "", false
	}
	if found == nil {
		return "", false
	}
	if found.Type == xmlquery.AttributeNode {
		return found.InnerText(), true
	}
	return strings.TrimSpace(found.InnerText()), true
}
