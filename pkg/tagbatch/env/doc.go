/*
Package env holds the property and item environment that expressions and
batch definitions are evaluated against.

# Overview

An Environment owns two collections:

  - Properties: named scalar strings, looked up case-insensitively.
    Setting a property twice keeps the last value.
  - Items: named, ordered lists of entries. Each entry has a spec string
    (usually a file path) and key/value metadata.

The environment is built once by the caller and then treated as read-only
while conditions are parsed, evaluated and batched. Nothing in tagbatch
mutates an environment it is given.

# Building an Environment

	e := env.New().
	    SetProperty("Configuration", "Debug").
	    SetProperty("OutDir", "bin/$(Configuration)")

	e.AddItem("ProjectOutput", "assembly.dll", "Origin", "dirA")
	e.AddFile("Content", "res/logo.png", "src")

	e.ExpandProperties("$(OutDir)/app") // "bin/Debug/app"

# Metadata

Metadata keys are case-insensitive and unique per entry. Besides explicit
metadata every entry exposes well-known values derived from its spec:

	Identity     the spec itself
	Filename     base name without extension
	Extension    extension including the dot
	RelativeDir  directory part of the spec, with trailing slash
	FullPath     FileOrigin joined with the spec, when FileOrigin is set
	Directory    directory part of FullPath without its root

Explicit metadata with the same name wins.

# Scopes

Templates and the expression evaluator resolve references through the
Scope interface. *Environment is a Scope over every entry; WithEntry
narrows metadata lookups to a single entry, which is how per-entry
transforms are rendered.
*/
package env
