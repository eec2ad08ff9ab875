package cleanse

import "strings"

// Flag is a per-tag bit in a Policy's flag table.
type Flag uint8

const (
	// FlagAllow: if clear, the element is disallowed entirely.
	FlagAllow Flag = 1 << iota
	// FlagRemoveContents: when a disallowed element is removed, its
	// children are discarded along with it. When clear, the children are
	// unwrapped into the parent instead.
	FlagRemoveContents
	// FlagWrapWhitespace: when an element is removed or unwrapped, a
	// single-space text node is inserted in its place to keep adjacent
	// words from coalescing.
	FlagWrapWhitespace
)

const allTag = "all"

// ProtocolPolicy is the allowed-scheme set for one (element, attribute)
// pair, e.g. a:href. The literal "/" means "relative path is OK" and "#"
// means "bare fragment is OK".
type ProtocolPolicy struct {
	Attr    string
	Schemes stringSet
}

// ElementPolicy carries the per-tag overrides layered on top of a Policy's
// global allow-sets.
type ElementPolicy struct {
	MaxNested    int
	AttrAllowed  stringSet
	AttrRequired stringSet
	ClassAllowed stringSet
	Protocols    map[string]*ProtocolPolicy
}

func newElementPolicy() *ElementPolicy {
	return &ElementPolicy{
		AttrAllowed:  newStringSet(),
		AttrRequired: newStringSet(),
		ClassAllowed: newStringSet(),
		Protocols:    make(map[string]*ProtocolPolicy),
	}
}

func (ef *ElementPolicy) protocol(attrName string) *ProtocolPolicy {
	if pp, ok := ef.Protocols[attrName]; ok {
		return pp
	}
	pp := &ProtocolPolicy{Attr: attrName, Schemes: newStringSet()}
	ef.Protocols[attrName] = pp
	return pp
}

// Policy is a sanitization configuration: which tags survive, which
// attributes and classes they may carry, which URL protocols their
// protocol-bearing attributes may use, whether comments survive, and
// whether a doctype is added to documents without one. A Policy is built up via its setter methods and then shared,
// read-only, across any number of Sanitize calls.
//
// Preset policy bundles ("default", "relaxed", ...) are out of scope for
// this package; callers configure a Policy from NewPolicy explicitly.
type Policy struct {
	flags map[Tag]Flag

	attrAllowed  stringSet
	classAllowed stringSet

	elements map[Tag]*ElementPolicy

	allowComments bool
	allowDoctype  bool
}

// NewPolicy returns a blank Policy: no tags allowed, no attributes or
// classes allowed, comments stripped, and no doctype added to documents
// that lack one. Use the setter
// methods to build up an allow-list.
func NewPolicy() *Policy {
	return &Policy{
		flags:        make(map[Tag]Flag),
		attrAllowed:  newStringSet(),
		classAllowed: newStringSet(),
		elements:     make(map[Tag]*ElementPolicy),
	}
}

func (p *Policy) flagsFor(t Tag) Flag {
	return p.flags[t]
}

func (p *Policy) elementPolicy(t Tag) *ElementPolicy {
	ef, ok := p.elements[t]
	if !ok {
		ef = newElementPolicy()
		p.elements[t] = ef
	}
	return ef
}

func (p *Policy) findElementPolicy(t Tag) *ElementPolicy {
	return p.elements[t]
}

func resolveTag(elementName string) (Tag, error) {
	t, ok := lookupTag(elementName)
	if !ok {
		return TagUnknown, &UnknownTagError{Name: elementName}
	}
	return t, nil
}

// SetFlag sets or clears flag on elementName's flag byte.
func (p *Policy) SetFlag(elementName string, flag Flag, on bool) error {
	t, err := resolveTag(elementName)
	if err != nil {
		return err
	}
	if on {
		p.flags[t] |= flag
	} else {
		p.flags[t] &^= flag
	}
	return nil
}

// SetAllFlags applies flag to every known tag except the unknown sentinel.
func (p *Policy) SetAllFlags(flag Flag, on bool) {
	for t := range knownTags {
		if on {
			p.flags[t] |= flag
		} else {
			p.flags[t] &^= flag
		}
	}
}

// SetAllowComments controls whether Comment nodes survive sanitization.
func (p *Policy) SetAllowComments(allow bool) {
	p.allowComments = allow
}

// SetAllowDoctype controls whether a <!DOCTYPE html> is emitted for
// documents that didn't carry one. A doctype the input carried is always
// serialized, whatever this setting.
func (p *Policy) SetAllowDoctype(allow bool) {
	p.allowDoctype = allow
}

// SetAllowedAttribute allows (or revokes) attrName on elementName, or on
// every element when elementName is "all".
func (p *Policy) SetAllowedAttribute(elementName, attrName string, on bool) error {
	if elementName == allTag {
		setMembership(p.attrAllowed, attrName, on)
		return nil
	}
	t, err := resolveTag(elementName)
	if err != nil {
		return err
	}
	setMembership(p.elementPolicy(t).AttrAllowed, attrName, on)
	return nil
}

// SetAllowedClass allows (or revokes) a CSS class token on elementName, or
// on every element when elementName is "all".
func (p *Policy) SetAllowedClass(elementName, class string, on bool) error {
	if elementName == allTag {
		setMembership(p.classAllowed, class, on)
		return nil
	}
	t, err := resolveTag(elementName)
	if err != nil {
		return err
	}
	setMembership(p.elementPolicy(t).ClassAllowed, class, on)
	return nil
}

// SetRequiredAttribute marks attrName as a required attribute of
// elementName: sanitize_attributes rejects the element unless at least one
// required attribute name is present. The literal "*" means "any non-empty
// attribute set is sufficient."
func (p *Policy) SetRequiredAttribute(elementName, attrName string, on bool) error {
	t, err := resolveTag(elementName)
	if err != nil {
		return err
	}
	setMembership(p.elementPolicy(t).AttrRequired, attrName, on)
	return nil
}

// SetMaxNested bounds same-tag nesting for elementName: an element that
// already has max ancestors with the same tag is removed the way a
// disallowed element is, per its flags (together with its contents under
// FlagRemoveContents, otherwise unwrapped). The node passed to Sanitize is
// not counted as an ancestor. 0 means unlimited.
func (p *Policy) SetMaxNested(elementName string, max int) error {
	t, err := resolveTag(elementName)
	if err != nil {
		return err
	}
	p.elementPolicy(t).MaxNested = max
	return nil
}

// relativeScheme is the sentinel scheme name that expands to both "/" and
// "#" in SetAllowedProtocols.
const relativeScheme = "relative"

// SetAllowedProtocols sets the allowed URL schemes for attrName on
// elementName, e.g. SetAllowedProtocols("a", "href", "http", "https"). The
// scheme "relative" expands to both "/" (relative path) and "#" (bare
// fragment).
func (p *Policy) SetAllowedProtocols(elementName, attrName string, schemes ...string) error {
	t, err := resolveTag(elementName)
	if err != nil {
		return err
	}
	pp := p.elementPolicy(t).protocol(attrName)
	for _, s := range schemes {
		s = strings.ToLower(s)
		if s == relativeScheme {
			pp.Schemes.add("/")
			pp.Schemes.add("#")
			continue
		}
		pp.Schemes.add(s)
	}
	return nil
}

func setMembership(s stringSet, v string, on bool) {
	if on {
		s.add(v)
	} else {
		s.remove(v)
	}
}
