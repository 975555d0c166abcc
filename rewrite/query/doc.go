/*
Package query parses the placeholder syntax shared by match patterns and
rewrite templates, and substitutes captured text back into templates.

# Overview

A pattern is plain text interspersed with placeholders. The matcher in the
parent package walks the parsed token sequence against source text; the
rewriter expands a parsed template with the captures a match produced. This
package owns both ends: Parse and ApplyCaptures.

# Placeholder Syntax

Placeholders take a single form:

	:[name]

where name is any run of characters excluding ']'. Two names are special:

  - :[_] is the anonymous placeholder. It matches a span like any other
    placeholder but never captures, and may appear any number of times.
  - :[] (an empty name) is treated the same as :[_].

Every other name is a named capture and may appear at most once per
pattern; Parse rejects a repeated name so a pattern cannot silently bind
the same name twice.

# Tokens

Parse produces a Pattern holding an ordered token sequence of exactly two
kinds:

  - Literal: a maximal run of verbatim pattern text
  - Placeholder: one :[name] group

plus Names, the distinct non-anonymous names in first-appearance order.

# Errors

Parse fails only on malformed placeholder syntax:

  - ErrUnterminated: a ":[" with no closing ']' before end of input
  - ErrDuplicateName: a named placeholder repeated within one pattern

Both are wrapped with context and recoverable via errors.Is. ApplyCaptures
never fails: names absent from the capture map, and malformed ":[" groups,
are emitted verbatim.
*/
package query
