/*
Package tagbatch expands batch definitions into grouped result rows.

# Overview

A batch definition is an ordered set of named outputs. Each output is a
template (rendered to a string, an entry, or a list of either) or a
condition (a boolean expression). Running a compiled definition against
an environment groups the entries of every item the definition refers
to by the metadata it references, then evaluates every output once per
group.

The sub-packages do the work:
  - env holds properties, items and their entries
  - template decomposes and renders $(Property), @(Item) and %(Key) templates
  - expr lexes, parses and evaluates conditions
  - config and observability provide the ambient stack

# Basic Usage

	e := env.New()
	e.AddItem("ProjectOutput", "assembly.dll", "Origin", "dirA")
	e.AddItem("ProjectOutput", "assembly.pdb", "Origin", "dirA")
	e.AddItem("ProjectOutput", "res.txt", "Origin", "dirB")

	compiled, err := tagbatch.NewDefinition("copy").
	    AddOutput("src", "@(ProjectOutput)", tagbatch.ItemList).
	    AddOutput("info", "%(Origin)", tagbatch.String).
	    AddCondition("if", "'%(Origin)' == 'dirA'").
	    Compile()
	if err != nil {
	    log.Fatal(err)
	}

	for inst, err := range compiled.Run(ctx, e) {
	    if err != nil {
	        log.Println(err)
	        continue
	    }
	    info, _ := inst.Get("info")
	    fmt.Println(info, inst.ConditionResult("if"))
	}
	// dirA true
	// dirB false

# Grouping

Every metadata reference anywhere in the definition is a constraint,
including references inside item transforms unless
WithoutTransformConstraints is given. Entries are visited item by item
in first-reference order. An entry joins the first row whose constraint
values match its own; a row takes its values from the first entry that
sets them. %(Item.Key) constrains only entries of Item. Metadata an
entry does not have counts as "".

Rows are emitted in first-seen order. A definition without item
references, or an environment without matching entries, yields exactly
one row.

# Output Types

	String      rendered text
	Item        one entry: the row's entry for a bare @(Item) with a
	            single entry, otherwise a new entry from the rendered text
	StringList  one element per entry for list references, split at ";"
	ItemList    like StringList, keeping the source entries where possible
	Condition   a boolean expression

# Errors

Compile joins one *OutputError per failing output. Run yields
(nil, *OutputError) for a row whose output fails and continues with the
next row. The underlying expr errors are preserved:

	var pe *expr.ParserError
	if errors.As(err, &pe) {
	    fmt.Println("at", pe.Pos)
	}

# Engine

Engine caches compiled batches by Definition.Fingerprint. It has no
internal locking and must be used from one goroutine at a time.

# Observability

Runs accept WithObservabilityLogger, WithMetrics and WithTracing. Engines
accept the matching WithEngineLogger, WithEngineMetrics and
WithEngineTracing, which cover compiles too.
*/
package tagbatch
