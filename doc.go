// Package htmlsanitizer provides a policy-driven HTML and CSS sanitizer
// for Go applications, built on its own lexical token stream rather
// than a DOM tree.
//
// # Overview
//
// htmlsanitizer lexes an HTML string into a flat token sequence (see
// [Lexer]), feeds it through a [PolicyFactory]-built [Policy] that
// filters elements and attributes, and re-balances the surviving tags
// through a [BalancerStack] before handing them to a [Sink]. The whole
// pipeline runs in a single forward pass with no backtracking and no
// intermediate tree.
//
// # Policies
//
// A [PolicyFactory] maps each allowed element name to an
// [ElementAndAttributePolicies] bundle: an [ElementPolicy] that may
// rename or reject the tag, a map of attribute name to [AttributePolicy]
// governing that attribute's value, and a skip-if-empty flag. Two
// factories combine with [PolicyFactory.And] to form the intersection
// of their element and attribute sets — never their union — so
// composing policies can only narrow which elements and attributes are
// allowed. The styling flag is the exception: the combined factory has
// styling enabled if either input does.
//
// The [Sanitizers] value exposes a handful of ready-made factories
// (FORMATTING, BLOCKS, LINKS, IMAGES, STYLES, TABLES, SCRIPT) covering
// common use cases; [PolicyFactory.Sanitize] runs one directly.
//
// # Attributes and CSS
//
// [URLAttributePolicy] gates href/src-like attributes by scheme.
// [SanitizeStyleAttribute] and [SanitizeCSSProperties] filter a style
// attribute's declarations against a schema keyed by property name
// ([schemaFor]), canonicalizing colors to "#rrggbb" hex along the way
// (shortened to "#rgb" when each channel's two digits repeat).
// [RelNofollowPolicy] and [TargetBlankPolicy] are ready-made
// [ElementPolicy] values for link hardening.
//
// # Security
//
// htmlsanitizer defends against the usual HTML-injection vectors:
// script/style/event-handler content, javascript:/data: URL schemes,
// malformed or attacker-shaped markup (unbalanced tags, bogus comments,
// NUL bytes, encoded entities used to smuggle tag delimiters), and CSS
// property/function values that could carry executable expressions.
// It does not provide a Content-Security-Policy header; pair with
// proper HTTP headers for defence in depth.
//
// # Thread safety
//
// A [PolicyFactory] is immutable after construction and safe for
// concurrent use. [PolicyFactory.Apply] returns a [Policy] that is
// single-use and stateful — one per sanitize call.
//
// # Example
//
//	clean := htmlsanitizer.Sanitizers.FORMATTING.Sanitize(userInput)
package htmlsanitizer
