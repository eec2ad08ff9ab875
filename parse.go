package cleanse

import (
	"log/slog"
	"strings"
	"unicode/utf8"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// logger is the package-level structured logger used at the parse/config
// boundary. The sanitization walker itself stays silent — malformed input
// is removed, not logged, since logging every removal would be both noisy
// and a side channel on adversarial input. SetLogger lets a host
// application redirect these records.
var logger = slog.Default()

// SetLogger replaces the logger used for parse-boundary diagnostics.
func SetLogger(l *slog.Logger) {
	logger = l
}

// MaxInputBytes bounds the size of text accepted by ParseDocument/
// ParseFragment. 0 means unlimited.
var MaxInputBytes = 10 << 20 // 10 MiB

// MaxNodes bounds how many nodes a single parse may produce. 0 means
// unlimited. Checked while converting the parser's tree into ours, so an
// adversarial document that would blow up node count aborts conversion
// partway through rather than returning a half-built tree.
var MaxNodes = 250_000

// ParseOption configures a ParseDocument/ParseFragment call.
type ParseOption func(*parseConfig)

type parseConfig struct {
	policy *Policy
}

// WithPolicy supplies the Policy to sanitize the parsed tree with. Without
// this option, ParseDocument/ParseFragment parse but do not sanitize.
func WithPolicy(p *Policy) ParseOption {
	return func(c *parseConfig) { c.policy = p }
}

// Document is a parsed (and, if a Policy was supplied, sanitized) HTML
// document.
type Document struct {
	root         *Node // KindDocument
	allowDoctype bool
}

// Root returns the document's root Node (KindDocument).
func (d *Document) Root() *Node { return d.root }

func (d *Document) serializeRoot() *Node        { return d.root }
func (d *Document) serializeAllowDoctype() bool { return d.allowDoctype }
func (d *Document) isFragment() bool            { return false }

// DocumentFragment is a parsed (and, if a Policy was supplied, sanitized)
// HTML fragment: an element (the fragment context) whose children are the
// fragment's contents.
type DocumentFragment struct {
	root *Node // KindElement, fragment context tag; children are the fragment body
}

// Root returns the fragment's synthetic context element; its Children are
// the parsed fragment contents.
func (f *DocumentFragment) Root() *Node { return f.root }

func (f *DocumentFragment) serializeRoot() *Node       { return f.root }
func (f *DocumentFragment) serializeAllowDoctype() bool { return false }
func (f *DocumentFragment) isFragment() bool           { return true }

// ParseDocument parses text as a full HTML document. If WithPolicy is
// given, the resulting tree is sanitized in place before being returned.
func ParseDocument(text string, opts ...ParseOption) (*Document, error) {
	cfg := applyOptions(opts)

	root, doctype, nodeCount, err := parseAndConvert(text, atom.Html)
	if err != nil {
		return nil, err
	}

	doc := &Node{Kind: KindDocument, Children: root.Children, Doctype: doctype}
	readjustChildren(doc, 0)

	allowDoctype := doctype.Has
	if cfg.policy != nil {
		Sanitize(cfg.policy, doc)
		allowDoctype = cfg.policy.allowDoctype || doctype.Has
	}

	logger.Debug("cleanse: parsed document", slog.Int("nodes", nodeCount))

	return &Document{root: doc, allowDoctype: allowDoctype}, nil
}

// ParseFragment parses text as an HTML fragment, simulated as if it
// appeared inside a <div>. If WithPolicy is given, the resulting tree is
// sanitized in place before being returned.
func ParseFragment(text string, opts ...ParseOption) (*DocumentFragment, error) {
	cfg := applyOptions(opts)

	root, _, nodeCount, err := parseAndConvert(text, atom.Div)
	if err != nil {
		return nil, err
	}

	if cfg.policy != nil {
		Sanitize(cfg.policy, root)
	}

	logger.Debug("cleanse: parsed fragment", slog.Int("nodes", nodeCount))

	return &DocumentFragment{root: root}, nil
}

func applyOptions(opts []ParseOption) *parseConfig {
	cfg := &parseConfig{}
	for _, o := range opts {
		o(cfg)
	}
	return cfg
}

// preprocess rewrites raw input before handing it to the HTML5 parser: TAB,
// CR, LF, FF and printable ASCII pass through; valid multi-byte UTF-8
// sequences pass through as-is (the original C extension dropped them —
// see DESIGN.md's Open Question 2 resolution); anything else (lone
// continuation bytes, invalid lead bytes, other control characters, DEL)
// is dropped.
func preprocess(input string) string {
	var b strings.Builder
	b.Grow(len(input))

	for i := 0; i < len(input); {
		c := input[i]

		switch {
		case c == '\t' || c == '\r' || c == '\n' || c == '\f' || (c >= 0x20 && c < 0x7f):
			b.WriteByte(c)
			i++

		case c >= 0x80:
			r, size := utf8.DecodeRuneInString(input[i:])
			if r == utf8.RuneError && size <= 1 {
				i++ // lone/invalid byte: drop it
				continue
			}
			b.WriteString(input[i : i+size])
			i += size

		default:
			i++ // other C0 control character or DEL: drop it
		}
	}

	return b.String()
}

// parseAndConvert preprocesses, validates size, parses with the HTML5
// parser under fragmentCtx, and converts the parser's tree into ours.
func parseAndConvert(text string, fragmentCtx atom.Atom) (*Node, Doctype, int, error) {
	if MaxInputBytes > 0 && len(text) > MaxInputBytes {
		return nil, Doctype{}, 0, &ParseError{Reason: "input exceeds MaxInputBytes"}
	}

	clean := preprocess(text)

	var parsed *html.Node
	var err error
	if fragmentCtx == atom.Html {
		parsed, err = html.Parse(strings.NewReader(clean))
	} else {
		context := &html.Node{Type: html.ElementNode, Data: fragmentCtx.String(), DataAtom: fragmentCtx}
		var nodes []*html.Node
		nodes, err = html.ParseFragment(strings.NewReader(clean), context)
		if err == nil {
			parsed = &html.Node{Type: html.ElementNode, Data: fragmentCtx.String(), DataAtom: fragmentCtx}
			for _, n := range nodes {
				parsed.AppendChild(n)
			}
		}
	}
	if err != nil {
		return nil, Doctype{}, 0, &ParseError{Reason: "html5 parse failed", Err: err}
	}

	conv := &converter{}
	var root *Node
	var doctype Doctype

	if fragmentCtx == atom.Html {
		body := findNode(parsed, html.ElementNode, atom.Html)
		if body == nil {
			body = parsed
		}
		root = conv.convert(body, nil, 0)
		doctype = extractDoctype(parsed)
	} else {
		root = conv.convert(parsed, nil, 0)
	}

	if MaxNodes > 0 && conv.count > MaxNodes {
		return nil, Doctype{}, 0, &ParseError{Reason: "document exceeds MaxNodes"}
	}

	return root, doctype, conv.count, nil
}

func extractDoctype(doc *html.Node) Doctype {
	for c := doc.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.DoctypeNode {
			d := Doctype{Name: c.Data, Has: true}
			for _, a := range c.Attr {
				switch a.Key {
				case "public":
					d.Public = a.Val
				case "system":
					d.System = a.Val
				}
			}
			return d
		}
	}
	return Doctype{}
}

func findNode(n *html.Node, typ html.NodeType, a atom.Atom) *html.Node {
	if n.Type == typ && n.DataAtom == a {
		return n
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if found := findNode(c, typ, a); found != nil {
			return found
		}
	}
	return nil
}

// converter turns a golang.org/x/net/html tree into our own Node tree,
// tracking how many nodes it has produced so parseAndConvert can enforce
// MaxNodes.
type converter struct {
	count int
}

func (cv *converter) convert(src *html.Node, parent *Node, index int) *Node {
	cv.count++

	n := &Node{Parent: parent, Index: index}

	switch src.Type {
	case html.DocumentNode:
		n.Kind = KindDocument
	case html.ElementNode:
		if src.DataAtom == atom.Template {
			n.Kind = KindTemplate
		} else {
			n.Kind = KindElement
		}
		if t, ok := lookupTag(src.Data); ok {
			n.Tag = t
		} else {
			n.Tag = TagUnknown
			n.TagName = strings.ToLower(src.Data)
		}
		n.Attr = convertAttrs(src.Attr)
	case html.CommentNode:
		n.Kind = KindComment
		n.Data = src.Data
	case html.TextNode:
		if isAllWhitespace(src.Data) {
			n.Kind = KindWhitespace
		} else {
			n.Kind = KindText
		}
		n.Data = src.Data
	default:
		n.Kind = KindText
		n.Data = src.Data
	}

	for c := src.FirstChild; c != nil; c = c.NextSibling {
		if MaxNodes > 0 && cv.count > MaxNodes {
			break
		}
		if c.Type == html.DoctypeNode {
			continue
		}
		child := cv.convert(c, n, len(n.Children))
		n.Children = append(n.Children, child)
	}

	return n
}

func convertAttrs(attrs []html.Attribute) []Attribute {
	out := make([]Attribute, len(attrs))
	for i, a := range attrs {
		out[i] = Attribute{
			Namespace: convertNamespace(a.Namespace),
			Name:      strings.ToLower(a.Key),
			Value:     a.Val,
		}
	}
	return out
}

func convertNamespace(ns string) Namespace {
	switch ns {
	case "xlink":
		return NamespaceXLink
	case "xml":
		return NamespaceXML
	case "xmlns":
		return NamespaceXMLNS
	default:
		return NamespaceNone
	}
}

// isAllWhitespace reports whether s consists entirely of HTML "space
// characters" (tab, LF, FF, CR, space), the same class of text node the
// underlying parser tree-construction algorithm treats as insignificant
// whitespace between elements.
func isAllWhitespace(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '\t', '\n', '\f', '\r', ' ':
		default:
			return false
		}
	}
	return true
}
