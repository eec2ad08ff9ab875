// Package cleanse provides a policy-driven HTML sanitization engine for Go
// applications.
//
// # Overview
//
// cleanse parses an HTML document or fragment using the standard
// golang.org/x/net/html tokenizer, converts the parsed tree into its own
// [Node] representation, walks it against a [Policy], and serializes the
// surviving tree back into HTML. The three stages — parse, sanitize,
// serialize — are independently usable: a caller can parse once, run
// [Sanitize] against several policies, or hand a tree built some other way
// straight to a [Serializer].
//
// # Policies
//
// A [Policy] is a blank allow-list built up with setter methods:
//   - Which element tags survive at all ([Policy.SetFlag] with [FlagAllow])
//   - Whether a disallowed element's children are discarded or unwrapped
//     into its parent ([FlagRemoveContents])
//   - Whether a whitespace node is inserted where an element was removed,
//     to keep adjacent words from coalescing ([FlagWrapWhitespace])
//   - Which attributes are allowed globally or per element
//     ([Policy.SetAllowedAttribute])
//   - Which CSS class tokens survive globally or per element
//     ([Policy.SetAllowedClass])
//   - Which URL schemes a given (element, attribute) pair may carry
//     ([Policy.SetAllowedProtocols])
//   - Which attributes an element must carry at least one of to survive
//     ([Policy.SetRequiredAttribute])
//   - A maximum same-tag nesting depth ([Policy.SetMaxNested])
//   - Whether comments survive, and whether a document without a doctype
//     gets <!DOCTYPE html> ([Policy.SetAllowComments], [Policy.SetAllowDoctype])
//
// There are no built-in preset policies: every caller configures a [Policy]
// explicitly for its own content model.
//
// # Security
//
// cleanse defends against the usual HTML injection vectors: disallowed
// elements (script, style, and similar are content-cleared even when
// unwrapped), event-handler and other attributes outside the allow-list,
// and javascript:/data:-style URLs on href/src-like attributes whose
// scheme isn't in that attribute's [ProtocolPolicy]. It does not sniff CSS
// inside style attributes or blocks; a policy that allows "style" should
// pair it with a Content-Security-Policy header for defence in depth.
//
// # Thread Safety
//
// [Sanitize] and [NewSerializer] are safe for concurrent use over distinct
// trees. A [Policy] should be fully configured before its first use and
// not mutated afterward; built policies are read-only from the walker's
// point of view and may be shared across goroutines.
//
// # Example
//
//	p := cleanse.NewPolicy()
//	p.SetFlag("p", cleanse.FlagAllow, true)
//	p.SetFlag("a", cleanse.FlagAllow, true)
//	p.SetAllowedAttribute("a", "href", true)
//	p.SetAllowedProtocols("a", "href", "http", "https", "relative")
//
//	doc, err := cleanse.ParseFragment(userInput, cleanse.WithPolicy(p))
//	if err != nil {
//		// handle err
//	}
//	clean, err := cleanse.NewSerializer(doc).ToHTML()
package cleanse
