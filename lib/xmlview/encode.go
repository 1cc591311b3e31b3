package xmlview

import (
	"bufio"
	"io"
	"strings"
)

var (
	textEscaper = strings.NewReplacer("&", "&amp;", "<", "&lt;", ">", "&gt;")
	attrEscaper = strings.NewReplacer("&", "&amp;", "<", "&lt;", ">", "&gt;", `"`, "&quot;", "\n", "&#xA;", "\t", "&#x9;", "\r", "&#xD;")
)

// Encode writes n back as markup, preserving prefixes and attribute order.
func Encode(w io.Writer, n *Node) error {
	bw := bufio.NewWriter(w)
	if err := encodeNode(bw, n); err != nil {
		return err
	}
	return bw.Flush()
}

func String(n *Node) string {
	var b strings.Builder
	_ = Encode(&b, n)
	return b.String()
}

func encodeNode(w *bufio.Writer, n *Node) error {
	switch n.Kind {
	case DocumentNode:
		for _, c := range n.Children {
			if err := encodeNode(w, c); err != nil {
				return err
			}
		}
	case TextNode:
		_, err := textEscaper.WriteString(w, n.Data)
		return err
	case CommentNode:
		w.WriteString("<!--" + n.Data + "-->")
	case ProcInstNode:
		w.WriteString("<?" + n.Local)
		if n.Data != "" {
			w.WriteString(" " + n.Data)
		}
		w.WriteString("?>")
	case DirectiveNode:
		w.WriteString("<!" + n.Data + ">")
	case ElementNode:
		name := qualify(n.Prefix, n.Local)
		w.WriteString("<" + name)
		for _, a := range n.Attrs {
			w.WriteString(" " + qualify(a.Name.Space, a.Name.Local) + `="`)
			if _, err := attrEscaper.WriteString(w, a.Value); err != nil {
				return err
			}
			w.WriteString(`"`)
		}
		if len(n.Children) == 0 {
			w.WriteString("/>")
			return nil
		}
		w.WriteString(">")
		for _, c := range n.Children {
			if err := encodeNode(w, c); err != nil {
				return err
			}
		}
		w.WriteString("</" + name + ">")
	}
	return nil
}

func qualify(prefix, local string) string {
	if prefix == "" {
		return local
	}
	return prefix + ":" + local
}
