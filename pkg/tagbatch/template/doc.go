/*
Package template decomposes value templates into literal text and
references, and renders them against an env.Scope.

# Overview

A template is a string such as

	$(OutDir)/@(Compile->'%(Filename).obj',' ')

which decomposes into ordered parts:

  - Literal: plain text, with %XX escapes decoded
  - PropertyPart: $(Name)
  - ItemPart: @(Item), @(Item->'transform') or @(Item=>'transform'),
    optionally followed by ,'separator'
  - TagPart: %(Key) or %(Item.Key)

Whitespace inside the parentheses is ignored. Text that does not form a
complete reference stays literal.

# Rendering

Render concatenates parts into one string. An item reference renders each
entry (through its transform, or as its spec) and joins them with the
separator, ";" by default:

	parts := template.MustDecompose("@(Src->'%(Filename)',',')")
	template.Render(parts, e) // "a,b"

RenderList produces one element per entry for list outputs. An item
reference without a separator, or with ";", has list semantics. Text and
metadata next to it are rendered once per entry with that entry in scope:

	parts := template.MustDecompose("obj/@(Src->'%(Filename)').o")
	template.RenderList(parts, e) // "obj/a.o", "obj/b.o"

# Missing References

Unresolved properties and metadata render as the empty string by default.
Configure with options:

	r := template.NewRenderer(template.WithMissingAction(template.MissingKeep))
	s, _ := r.Render(template.MustDecompose("$(Missing)"), e)
	// s: "$(Missing)"

	r = template.NewRenderer(template.WithMissingAction(template.MissingError))
	_, err := r.Render(template.MustDecompose("$(Missing)"), e)
	// err: "undefined reference: $(Missing)"

# Escaping

Escape and Unescape convert between raw text and template-safe text using
%XX sequences, so a value such as "a;b" survives as a single element.
*/
package template
