package cleanse

import "bytes"

// htmlEscapeTable maps escapable bytes to an index into htmlEscapes.
// 0 means "no escaping needed"; entries otherwise mirror the
// `"` / `&` / `<` / `>` table the original serializer used.
var htmlEscapeTable = buildHTMLEscapeTable()

var htmlEscapes = []string{
	"", // unused, index 0 means "don't escape"
	"&quot;",
	"&amp;",
	"&lt;",
	"&gt;",
}

func buildHTMLEscapeTable() [256]byte {
	var t [256]byte
	t['"'] = 1
	t['&'] = 2
	t['<'] = 3
	t['>'] = 4
	return t
}

// escapeHTML writes src to out, escaping `&`, `<`, `>` always, and `"` only
// when inAttribute is true (the HTML spec doesn't require escaping `"` in
// text content, only inside a quoted attribute value). Runs of
// non-escapable bytes are copied in bulk rather than byte-by-byte.
func escapeHTML(out *bytes.Buffer, src string, inAttribute bool) {
	i := 0
	for i < len(src) {
		start := i
		for i < len(src) && htmlEscapeTable[src[i]] == 0 {
			i++
		}
		if i > start {
			out.WriteString(src[start:i])
		}
		if i >= len(src) {
			break
		}

		if !inAttribute && src[i] == '"' {
			out.WriteByte('"')
			i++
			continue
		}

		out.WriteString(htmlEscapes[htmlEscapeTable[src[i]]])
		i++
	}
}

// Serializable is implemented by the two tree handles ToHTML accepts: a
// parsed Document or a parsed DocumentFragment.
type Serializable interface {
	serializeRoot() *Node
	serializeAllowDoctype() bool
	isFragment() bool
}

// Serializer turns a (possibly sanitized) Document or DocumentFragment back
// into an HTML byte string.
type Serializer struct {
	target Serializable
}

// NewSerializer returns a Serializer for target.
func NewSerializer(target Serializable) *Serializer {
	return &Serializer{target: target}
}

// ToHTML renders the serializer's target tree to a string.
func (s *Serializer) ToHTML() (string, error) {
	var out bytes.Buffer
	root := s.target.serializeRoot()

	if s.target.isFragment() {
		for _, c := range root.Children {
			serializeNodeIter(&out, c)
		}
		return out.String(), nil
	}

	serializeDocument(&out, root, s.target.serializeAllowDoctype())
	return out.String(), nil
}

func serializeDocument(out *bytes.Buffer, doc *Node, allowDoctype bool) {
	if doc.Doctype.Has {
		out.WriteString("<!DOCTYPE ")
		out.WriteString(doc.Doctype.Name)
		if doc.Doctype.Public != "" {
			out.WriteString(` PUBLIC "`)
			out.WriteString(doc.Doctype.Public)
			out.WriteByte('"')
			if doc.Doctype.System != "" {
				out.WriteString(` "`)
				out.WriteString(doc.Doctype.System)
				out.WriteByte('"')
			}
		} else if doc.Doctype.System != "" {
			out.WriteString(` SYSTEM "`)
			out.WriteString(doc.Doctype.System)
			out.WriteByte('"')
		}
		out.WriteByte('>')
	} else if allowDoctype {
		out.WriteString("<!DOCTYPE html>")
	}

	for _, c := range doc.Children {
		serializeNodeIter(out, c)
	}
}

// serializeFrame is one entry of the explicit work stack serializeNodeIter
// uses in place of native recursion, so adversarially deep nesting can't
// overflow the call stack. started is false until the node's open tag (or
// leaf content) has been emitted once; childIndex then tracks how much of
// its child list has been pushed.
type serializeFrame struct {
	node       *Node
	started    bool
	childIndex int
}

// serializeNodeIter renders node (and everything under it) iteratively.
func serializeNodeIter(out *bytes.Buffer, root *Node) {
	stack := []*serializeFrame{{node: root}}

	for len(stack) > 0 {
		frame := stack[len(stack)-1]
		n := frame.node

		if !frame.started {
			frame.started = true

			switch n.Kind {
			case KindElement, KindTemplate:
				writeStartTag(out, n)
				if isVoidTag(n.Tag) {
					stack = stack[:len(stack)-1]
					continue
				}
				if n.Kind == KindTemplate {
					// Templates serialize as empty: no children, but the
					// close tag still comes out.
					writeEndTag(out, n)
					stack = stack[:len(stack)-1]
					continue
				}
			case KindWhitespace:
				out.WriteString(n.Data)
				stack = stack[:len(stack)-1]
				continue
			case KindText, KindCData:
				writeTextNode(out, n)
				stack = stack[:len(stack)-1]
				continue
			case KindComment:
				out.WriteString("<!--")
				out.WriteString(n.Data)
				out.WriteString("-->")
				stack = stack[:len(stack)-1]
				continue
			}
		}

		if frame.childIndex < len(n.Children) {
			child := n.Children[frame.childIndex]
			frame.childIndex++
			stack = append(stack, &serializeFrame{node: child})
			continue
		}

		writeEndTag(out, n)
		stack = stack[:len(stack)-1]
	}
}

func writeStartTag(out *bytes.Buffer, n *Node) {
	out.WriteByte('<')
	out.WriteString(n.Name())
	for _, a := range n.Attr {
		out.WriteByte(' ')
		out.WriteString(a.Name)
		out.WriteString(`="`)
		escapeHTML(out, a.Value, true)
		out.WriteByte('"')
	}
	out.WriteByte('>')
}

func writeEndTag(out *bytes.Buffer, n *Node) {
	if !n.IsElement() || isVoidTag(n.Tag) {
		return
	}
	out.WriteString("</")
	out.WriteString(n.Name())
	out.WriteByte('>')
}

// writeTextNode emits a Text/CData node's content, raw if its parent is an
// RCDATA/RAWTEXT element, entity-escaped otherwise.
func writeTextNode(out *bytes.Buffer, n *Node) {
	if n.Parent != nil && n.Parent.IsElement() && isRawTextTag(n.Parent.Tag) {
		out.WriteString(n.Data)
		return
	}
	escapeHTML(out, n.Data, false)
}
