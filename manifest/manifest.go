// Package manifest decodes a project manifest into a generic tree of named
// elements.
//
// The tree keeps element order, attributes and trimmed character data, and
// nothing else. Interpretation of the tree belongs to the caller.
package manifest

import (
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"strings"
)

// ErrInvalidXML indicates input that is not a well-formed XML document.
var ErrInvalidXML = errors.New("invalid xml")

// Node is one element of a manifest.
type Node struct {
	Attrs    map[string]string `json:"attrs,omitempty"`
	Name     string            `json:"name"`
	Text     string            `json:"text,omitempty"`
	Children []*Node           `json:"children,omitempty"`
}

// Decode reads the root element of an XML document from r.
func Decode(r io.Reader) (*Node, error) {
	dec := xml.NewDecoder(r)

	var (
		stack []*Node
		text  []*strings.Builder
	)

	for {
		tok, err := dec.Token()
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("%w: no root element", ErrInvalidXML)
		}

		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrInvalidXML, err)
		}

		switch t := tok.(type) {
		case xml.StartElement:
			n := &Node{Name: t.Name.Local}

			for _, a := range t.Attr {
				if n.Attrs == nil {
					n.Attrs = make(map[string]string, len(t.Attr))
				}

				n.Attrs[a.Name.Local] = a.Value
			}

			if len(stack) > 0 {
				parent := stack[len(stack)-1]
				parent.Children = append(parent.Children, n)
			}

			stack = append(stack, n)
			text = append(text, &strings.Builder{})

		case xml.CharData:
			if len(text) > 0 {
				text[len(text)-1].Write(t)
			}

		case xml.EndElement:
			n := stack[len(stack)-1]
			n.Text = strings.TrimSpace(text[len(text)-1].String())

			stack = stack[:len(stack)-1]
			text = text[:len(text)-1]

			if len(stack) == 0 {
				return n, nil
			}
		}
	}
}

// Attr returns the value of the named attribute.
func (n *Node) Attr(name string) (string, bool) {
	v, ok := n.Attrs[name]

	return v, ok
}

// Find follows path through the first child with each name and returns the
// element it ends at, or nil when a step is missing. Find on a nil Node
// returns nil.
func (n *Node) Find(path ...string) *Node {
	if n == nil {
		return nil
	}

	cur := n

	for _, name := range path {
		var next *Node

		for _, c := range cur.Children {
			if c.Name == name {
				next = c

				break
			}
		}

		if next == nil {
			return nil
		}

		cur = next
	}

	return cur
}
