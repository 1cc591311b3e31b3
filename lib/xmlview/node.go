package xmlview

import (
	"encoding/xml"
	"strings"
)

type Kind int

const (
	DocumentNode Kind = iota
	ElementNode
	TextNode
	CommentNode
	ProcInstNode
	DirectiveNode
)

// Node is one node of a parsed markup view. Element names and attributes keep
// their source prefixes so encoding reproduces the input; Space holds the
// namespace URI the prefix resolved to.
type Node struct {
	Kind     Kind
	Prefix   string
	Local    string
	Space    string
	Attrs    []xml.Attr
	Data     string
	Children []*Node
	Parent   *Node
}

func NewElement(prefix, local, space string) *Node {
	return &Node{Kind: ElementNode, Prefix: prefix, Local: local, Space: space}
}

// QualifiedType is the namespace URI joined with the local name, e.g.
// "sap.m.Label". This is how the element type of markup nodes is reported.
func (n *Node) QualifiedType() string {
	if n.Space == "" {
		return n.Local
	}
	return n.Space + "." + n.Local
}

// Attr returns an unprefixed attribute.
func (n *Node) Attr(name string) (string, bool) {
	for _, a := range n.Attrs {
		if a.Name.Space == "" && a.Name.Local == name {
			return a.Value, true
		}
	}
	return "", false
}

func (n *Node) SetAttr(name, value string) {
	for i, a := range n.Attrs {
		if a.Name.Space == "" && a.Name.Local == name {
			n.Attrs[i].Value = value
			return
		}
	}
	n.Attrs = append(n.Attrs, xml.Attr{Name: xml.Name{Local: name}, Value: value})
}

func (n *Node) RemoveAttr(name string) {
	for i, a := range n.Attrs {
		if a.Name.Space == "" && a.Name.Local == name {
			n.Attrs = append(n.Attrs[:i], n.Attrs[i+1:]...)
			return
		}
	}
}

func (n *Node) ID() string {
	id, _ := n.Attr("id")
	return id
}

func (n *Node) AppendChild(child *Node) {
	child.Parent = n
	n.Children = append(n.Children, child)
}

func (n *Node) RemoveChild(child *Node) {
	for i, c := range n.Children {
		if c == child {
			n.Children = append(n.Children[:i], n.Children[i+1:]...)
			child.Parent = nil
			return
		}
	}
}

func (n *Node) ElementChildren() []*Node {
	var out []*Node
	for _, c := range n.Children {
		if c.Kind == ElementNode {
			out = append(out, c)
		}
	}
	return out
}

// ChildElement returns the first element child in namespace space with the
// given local name.
func (n *Node) ChildElement(space, local string) *Node {
	for _, c := range n.Children {
		if c.Kind == ElementNode && c.Space == space && c.Local == local {
			return c
		}
	}
	return nil
}

// Root returns the document element.
func (n *Node) Root() *Node {
	top := n
	for top.Parent != nil {
		top = top.Parent
	}
	if top.Kind != DocumentNode {
		return top
	}
	for _, c := range top.Children {
		if c.Kind == ElementNode {
			return c
		}
	}
	return nil
}

// Walk visits element nodes depth first until fn returns false.
func (n *Node) Walk(fn func(*Node) bool) bool {
	if n.Kind == ElementNode && !fn(n) {
		return false
	}
	for _, c := range n.Children {
		if !c.Walk(fn) {
			return false
		}
	}
	return true
}

func (n *Node) Find(match func(*Node) bool) *Node {
	var found *Node
	n.Walk(func(c *Node) bool {
		if match(c) {
			found = c
			return false
		}
		return true
	})
	return found
}

// LookupPrefix returns the prefix bound to namespace URI space in scope of n.
func (n *Node) LookupPrefix(space string) (string, bool) {
	for cur := n; cur != nil; cur = cur.Parent {
		for _, a := range cur.Attrs {
			if a.Value != space {
				continue
			}
			if a.Name.Space == "xmlns" {
				return a.Name.Local, true
			}
			if a.Name.Space == "" && a.Name.Local == "xmlns" {
				return "", true
			}
		}
	}
	return "", false
}

// LookupNamespace resolves prefix in scope of n.
func (n *Node) LookupNamespace(prefix string) (string, bool) {
	for cur := n; cur != nil; cur = cur.Parent {
		for _, a := range cur.Attrs {
			if prefix == "" && a.Name.Space == "" && a.Name.Local == "xmlns" {
				return a.Value, true
			}
			if prefix != "" && a.Name.Space == "xmlns" && a.Name.Local == prefix {
				return a.Value, true
			}
		}
	}
	return "", false
}

func (n *Node) TextContent() string {
	var b strings.Builder
	var collect func(*Node)
	collect = func(node *Node) {
		if node.Kind == TextNode {
			b.WriteString(node.Data)
		}
		for _, c := range node.Children {
			collect(c)
		}
	}
	collect(n)
	return b.String()
}
