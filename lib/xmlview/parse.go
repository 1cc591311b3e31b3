package xmlview

import (
	"bytes"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
)

var ErrNoRootElement = errors.New("xmlview: document has no root element")

// Parse reads a markup document. Prefixes are resolved against the xmlns
// declarations in scope; an unbound prefix is an error.
func Parse(r io.Reader) (*Node, error) {
	decoder := xml.NewDecoder(r)
	doc := &Node{Kind: DocumentNode}
	current := doc

	for {
		token, err := decoder.RawToken()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("xmlview: %w", err)
		}
		switch t := token.(type) {
		case xml.StartElement:
			el := &Node{Kind: ElementNode, Prefix: t.Name.Space, Local: t.Name.Local}
			el.Attrs = append(el.Attrs, t.Attr...)
			current.AppendChild(el)
			space, ok := el.LookupNamespace(el.Prefix)
			if !ok && el.Prefix != "" {
				return nil, fmt.Errorf("xmlview: unbound prefix %q on <%s:%s>", el.Prefix, el.Prefix, el.Local)
			}
			el.Space = space
			current = el
		case xml.EndElement:
			if current.Kind != ElementNode || current.Local != t.Name.Local || current.Prefix != t.Name.Space {
				return nil, fmt.Errorf("xmlview: unexpected end element </%s>", t.Name.Local)
			}
			current = current.Parent
		case xml.CharData:
			current.AppendChild(&Node{Kind: TextNode, Data: string(t)})
		case xml.Comment:
			current.AppendChild(&Node{Kind: CommentNode, Data: string(t)})
		case xml.ProcInst:
			current.AppendChild(&Node{Kind: ProcInstNode, Local: t.Target, Data: string(t.Inst)})
		case xml.Directive:
			current.AppendChild(&Node{Kind: DirectiveNode, Data: string(t)})
		}
	}
	if current != doc {
		return nil, fmt.Errorf("xmlview: unclosed element <%s>", current.Local)
	}
	if doc.Root() == nil {
		return nil, ErrNoRootElement
	}
	return doc, nil
}

func ParseString(s string) (*Node, error) {
	return Parse(bytes.NewBufferString(s))
}
