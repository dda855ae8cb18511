/*
Package model implements an embeddable, in-memory tree store.

Status

Work in progress; the API is settling, but may still change.

Overview

A Model owns a tree of nodes. Clients never hold nodes directly; instead they
hold Entity values, small copyable handles made from a unique id and a tag.
Every operation of a Model is keyed by an Entity and is resolved through the
Model's registry. Ids are never reused within the lifetime of a Model, and
uid 0 always denotes the Model's root.

A node carries three pieces of state: an ordered list of children, an ordered
set of attributes and a scalar data string. Data and children are mutually
exclusive: a node with data may not have children and vice versa.

Node state is kept as immutable snapshots. Mutations derive a new snapshot and
publish it with a compare-and-swap, retrying on conflict. Readers therefore
always see a consistent node, and concurrent writers never lose updates.

Clients may observe a node's children, attributes or data with the Watch…
functions. A watcher receives the current value at once and every later value
in publish order. Slow watchers will see intermediate values skipped, but
never out of order, and publishers never block on watchers.

Canonical Format

A (sub-)tree serializes to an indented, tag-delimited text format:

    <tag attr="value" attr2="value2">
      <child>scalar-data</child>
      <leaf/>
    </tag>

Package parser reads this format back into a Model.

___________________________________________________________________________

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2022 Norbert Pillmayer <norbert@pillmayer.com>

*/
package model

import (
	"github.com/npillmayer/schuko/tracing"
)

// tracer traces with key 'saga.model'.
func tracer() tracing.Trace {
	return tracing.Select("saga.model")
}
