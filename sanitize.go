package cleanse

import (
	"strings"

	"golang.org/x/net/html/atom"
)

// sanitizeContext carries the tag→depth counter used to enforce per-element
// nesting limits while descending. An absent entry means depth 0; entries
// are deleted once they return to 0 so "currently inside tag T" is just a
// map-membership check.
type sanitizeContext struct {
	depth map[Tag]int
}

// Sanitize walks node in place, applying policy: disallowed elements are
// removed or unwrapped, attributes are scrubbed, comments are dropped
// unless allowed, and nesting limits are enforced. It mutates node's tree
// and returns nothing — node is the cleaned tree.
func Sanitize(policy *Policy, node *Node) {
	ctx := &sanitizeContext{depth: make(map[Tag]int)}
	sanitizeNode(policy, ctx, node)
}

func sanitizeNode(policy *Policy, ctx *sanitizeContext, node *Node) {
	switch node.Kind {
	case KindDocument, KindElement, KindTemplate:
		walkChildren(policy, ctx, node)
	default:
		// Text, CData, Whitespace, Comment: nothing to recurse into.
		// Comments are decided at the parent's child-visit, in
		// walkChildren/tryRemoveChild.
	}
}

// walkChildren iterates parent.Children by position (never by iterator,
// since mutation happens mid-walk) and decides, for each child, whether to
// remove it, unwrap it, or keep it and recurse.
func walkChildren(policy *Policy, ctx *sanitizeContext, parent *Node) {
	children := parent.Children

	for x := 0; x < len(children); x++ {
		child := children[x]

		if child.IsElement() {
			if ef := policy.findElementPolicy(child.Tag); ef != nil && ef.MaxNested > 0 {
				if ctx.depth[child.Tag] >= ef.MaxNested {
					removeChildWithPolicy(parent, child, x, policy.flagsFor(child.Tag))
					children = parent.Children
					x--
					continue
				}
			}
		}

		if tryRemoveChild(policy, parent, child, x) {
			children = parent.Children
			x--
			continue
		}

		if child.IsElement() {
			ctx.depth[child.Tag]++
			sanitizeNode(policy, ctx, child)
			ctx.depth[child.Tag]--
			if ctx.depth[child.Tag] == 0 {
				delete(ctx.depth, child.Tag)
			}
		}
	}
}

// tryRemoveChild decides whether child must be removed (returning true, in
// which case it has already been detached) or survives (returning false).
func tryRemoveChild(policy *Policy, parent *Node, child *Node, pos int) bool {
	if child.IsElement() {
		tag := child.Tag
		flags := policy.flagsFor(tag)
		shouldRemove := flags&FlagAllow == 0

		if !shouldRemove {
			// An accepted <iframe>'s content is untrusted fallback HTML
			// and is removed wholesale (not just its first child — see
			// DESIGN.md's Open Question 1 resolution).
			if tag == atom.Iframe && len(child.Children) > 0 {
				clearChildren(child)
			}
			if !sanitizeAttributes(policy, child) {
				shouldRemove = true
			}
		}

		if shouldRemove {
			// The contents of these tags are effectively raw text/foreign
			// content and must not survive an unwrap.
			if isTextLikeContainer(tag) && len(child.Children) > 0 {
				clearChildren(child)
			}
			removeChildWithPolicy(parent, child, pos, flags)
			return true
		}
		return false
	}

	if child.Kind == KindComment && !policy.allowComments {
		removeChildAt(parent, pos, false)
		return true
	}

	return false
}

// clearChildren detaches all of node's children, leaving it empty. Used for
// <iframe> content removal and for script/style/math/svg subtrees that are
// about to be discarded.
func clearChildren(node *Node) {
	node.Children = nil
}

func isTextLikeContainer(t Tag) bool {
	switch t {
	case atom.Script, atom.Style, atom.Math, atom.Svg:
		return true
	}
	return false
}

// removeChildWithPolicy removes child from parent at pos according to
// flags: REMOVE_CONTENTS discards it with its children, otherwise its
// children are unwrapped in its place.
func removeChildWithPolicy(parent *Node, child *Node, pos int, flags Flag) {
	wrap := flags&FlagWrapWhitespace != 0
	if flags&FlagRemoveContents != 0 {
		removeChildAt(parent, pos, wrap)
	} else {
		reparentChildrenAt(parent, child, pos, wrap)
	}
}

// sanitizeAttributes scrubs child's attribute list in place and reports
// whether the element still satisfies its required-attribute constraint
// (if any). A false return means the caller must remove the element.
func sanitizeAttributes(policy *Policy, element *Node) bool {
	ef := policy.findElementPolicy(element.Tag)

	for x := 0; x < len(element.Attr); x++ {
		attr := &element.Attr[x]
		if !shouldKeepAttribute(policy, ef, attr) {
			element.removeAttrAt(x)
			x--
			continue
		}

		if element.Tag == atom.Meta && attr.Name == "charset" && attr.Value != "utf-8" {
			attr.Value = "utf-8"
		}
	}

	if ef != nil && !ef.AttrRequired.empty() {
		if ef.AttrRequired.contains("*") {
			return len(element.Attr) > 0
		}
		for _, attr := range element.Attr {
			if ef.AttrRequired.contains(attr.Name) {
				return true
			}
		}
		return false
	}

	return true
}

// shouldKeepAttribute implements the per-attribute decision: is it
// globally or locally allowed, does its protocol (if any) pass, and — for
// class — does at least one class token survive filtering.
func shouldKeepAttribute(policy *Policy, ef *ElementPolicy, attr *Attribute) bool {
	allowed := false
	if ef != nil && ef.AttrAllowed.contains(attr.Name) {
		allowed = true
	}
	if !allowed && policy.attrAllowed.contains(attr.Name) {
		allowed = true
	}
	if !allowed {
		return false
	}

	if ef != nil {
		if pp, ok := ef.Protocols[attr.Name]; ok {
			if !hasAllowedProtocol(pp.Schemes, attr) {
				return false
			}
		}
	}

	if attr.Name == "class" {
		if !sanitizeClassAttribute(policy, ef, attr) {
			return false
		}
	}

	return true
}

// hasAllowedProtocol extracts the scheme from attr.Value (stripping
// leading ASCII whitespace first) and checks it against allowed. As a side
// effect it normalizes attr.Value to the whitespace-stripped form,
// regardless of whether the scheme passes — matching the original
// implementation's unconditional rewrite.
func hasAllowedProtocol(allowed stringSet, attr *Attribute) bool {
	value := strings.TrimLeft(attr.Value, " \t\n\r\f")
	attr.Value = value

	i := 0
	for i < len(value) && value[i] != '/' && value[i] != ':' && value[i] != '#' {
		i++
	}

	if i == len(value) || value[i] == '/' {
		return allowed.contains("/")
	}
	if value[i] == '#' {
		return allowed.contains("#")
	}

	scheme := strings.ToLower(value[:i])
	return allowed.contains(scheme)
}

// sanitizeClassAttribute tokenizes attr.Value on ASCII whitespace, keeps
// tokens present in either the global or per-element class allow-set, and
// rewrites the value to the surviving tokens joined by single spaces. If
// neither allow-set is configured, the attribute passes through unchanged.
func sanitizeClassAttribute(policy *Policy, ef *ElementPolicy, attr *Attribute) bool {
	var allowedGlobal, allowedLocal stringSet
	if !policy.classAllowed.empty() {
		allowedGlobal = policy.classAllowed
	}
	if ef != nil && !ef.ClassAllowed.empty() {
		allowedLocal = ef.ClassAllowed
	}

	if allowedGlobal == nil && allowedLocal == nil {
		return true
	}

	isASCIISpace := func(r rune) bool {
		return r == ' ' || r == '\t' || r == '\n' || r == '\r' || r == '\f'
	}

	var kept []string
	for _, token := range strings.FieldsFunc(attr.Value, isASCIISpace) {
		if (allowedLocal != nil && allowedLocal.contains(token)) ||
			(allowedGlobal != nil && allowedGlobal.contains(token)) {
			kept = append(kept, token)
		}
	}

	if len(kept) == 0 {
		return false
	}

	attr.Value = strings.Join(kept, " ")
	return true
}
