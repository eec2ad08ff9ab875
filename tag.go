package cleanse

import (
	"strings"

	"golang.org/x/net/html/atom"
)

// Tag identifies an HTML element by its tag name. It reuses the parser's own
// interned atom table (golang.org/x/net/html/atom) instead of a second,
// hand-rolled string-to-int table: every legitimate HTML tag name the parser
// can produce already has an atom, and the zero atom doubles as the
// "unknown tag" sentinel the policy model needs.
type Tag = atom.Atom

// TagUnknown is the sentinel for elements whose tag name isn't one of the
// known HTML tags (custom elements, typos, foreign markup the parser didn't
// recognize). It is the zero value of Tag.
const TagUnknown Tag = 0

// knownTags is the fixed enumeration of element tags a Policy can be
// configured against. It is a curated subset of the parser's atom table —
// atom.Lookup also resolves attribute names (atom.Href, atom.Class, ...) to
// non-zero atoms, so membership in the atom table alone isn't "is this a
// legal element name." This list is cross-checked against bluemonday's
// addDefaultElsWithoutAttrs element inventory.
var knownTags = buildKnownTags()

func buildKnownTags() map[Tag]bool {
	tags := []Tag{
		atom.A, atom.Abbr, atom.Acronym, atom.Address, atom.Area, atom.Article,
		atom.Aside, atom.Audio,
		atom.B, atom.Base, atom.Bdi, atom.Bdo, atom.Big, atom.Blockquote,
		atom.Body, atom.Br, atom.Button,
		atom.Canvas, atom.Caption, atom.Center, atom.Cite, atom.Code, atom.Col,
		atom.Colgroup,
		atom.Data, atom.Datalist, atom.Dd, atom.Del, atom.Details, atom.Dfn,
		atom.Dialog, atom.Div, atom.Dl, atom.Dt,
		atom.Em, atom.Embed,
		atom.Fieldset, atom.Figcaption, atom.Figure, atom.Font, atom.Footer,
		atom.Form,
		atom.H1, atom.H2, atom.H3, atom.H4, atom.H5, atom.H6, atom.Head,
		atom.Header, atom.Hgroup, atom.Hr, atom.Html,
		atom.I, atom.Iframe, atom.Img, atom.Input, atom.Ins,
		atom.Kbd, atom.Keygen,
		atom.Label, atom.Legend, atom.Li, atom.Link,
		atom.Main, atom.Map, atom.Mark, atom.Math, atom.Menu, atom.Menuitem,
		atom.Meta, atom.Meter,
		atom.Nav, atom.Noembed, atom.Noframes, atom.Noscript,
		atom.Object, atom.Ol, atom.Optgroup, atom.Option, atom.Output,
		atom.P, atom.Param, atom.Picture, atom.Plaintext, atom.Pre,
		atom.Progress,
		atom.Q,
		atom.Rp, atom.Rt, atom.Rtc, atom.Ruby,
		atom.S, atom.Samp, atom.Script, atom.Section, atom.Select, atom.Small,
		atom.Source, atom.Span, atom.Strike, atom.Strong, atom.Style, atom.Sub,
		atom.Summary, atom.Sup, atom.Svg,
		atom.Table, atom.Tbody, atom.Td, atom.Template, atom.Textarea,
		atom.Tfoot, atom.Th, atom.Thead, atom.Time, atom.Title, atom.Tr,
		atom.Track, atom.Tt,
		atom.U, atom.Ul,
		atom.Var, atom.Video,
		atom.Wbr,
		atom.Xmp,
	}
	m := make(map[Tag]bool, len(tags))
	for _, t := range tags {
		m[t] = true
	}
	return m
}

// lookupTag resolves a tag name (any case) to a Tag and whether it's a known
// HTML element. Unknown names resolve to TagUnknown, false.
func lookupTag(name string) (Tag, bool) {
	a, ok := atom.Lookup([]byte(strings.ToLower(name)))
	if !ok || !knownTags[a] {
		return TagUnknown, false
	}
	return a, true
}

// tagString returns the normalized (lowercase) name for a known tag.
func tagString(t Tag) string {
	return t.String()
}

// isVoidTag reports whether t is one of the HTML5 void elements: elements
// that can't have children and have no closing tag.
func isVoidTag(t Tag) bool {
	switch t {
	case atom.Area, atom.Base, atom.Br, atom.Col, atom.Embed, atom.Hr,
		atom.Img, atom.Input, atom.Link, atom.Meta, atom.Source, atom.Track,
		atom.Wbr:
		return true
	}
	return false
}

// isRawTextTag reports whether t is an RCDATA/RAWTEXT element: its text
// children are serialized without entity escaping.
func isRawTextTag(t Tag) bool {
	switch t {
	case atom.Title, atom.Textarea, atom.Script, atom.Style, atom.Xmp,
		atom.Iframe, atom.Noembed, atom.Noframes, atom.Noscript,
		atom.Plaintext:
		return true
	}
	return false
}
