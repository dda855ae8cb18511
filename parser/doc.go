/*
Package parser reads tag-delimited text into a model.

Status

Work in progress.

Overview

The parser is a single-pass, recursive-descent tree builder working on a
stream of code points. It reads the canonical format written by
model.Model.Content, but is tolerant enough to read tag soup in general:

- Elements configured as optional-close end implicitly when a start tag of
the same kind is found in their content (think of <p> or <li> in HTML).

- End tags not matching the current element are matched against the open
ancestors, closing every element in between. Stray end tags are ignored.

- Void elements (<br>, <img>, …) never take children.

- Comments, processing instructions and doctype declarations are read but
not attached to the model. CDATA sections are inlined into surrounding text.

- Named and numeric character references are decoded. Unknown references
are kept literally.

Anything else which cannot be interpreted is taken as text.

A model accepts either data or children for a node. If markup mixes text and
elements, the parser moves text into child nodes of a carrier tag ("text" by
default).

Clients in need of decoding byte streams may use NewSource to create a
code point source for a given charset.

___________________________________________________________________________

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2022 Norbert Pillmayer <norbert@pillmayer.com>

*/
package parser

import (
	"github.com/npillmayer/schuko/tracing"
)

// tracer traces with key 'saga.parser'.
func tracer() tracing.Trace {
	return tracing.Select("saga.parser")
}
