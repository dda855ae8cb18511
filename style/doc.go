/*
Package style computes CSS-like cascades over a model tree.

Status

Work in progress. Only a subset of CSS is understood, which is sufficient for
normalizing the styling of simple documents.

Overview

A Cascade collects rule sets from stylesheets of different origins: external
sheets, referenced by <link> elements, internal sheets embedded in <style>
elements, and inline declarations from style attributes. For each element of a
tree, the cascade selects the declarations matching the element's tag and
classes and resolves conflicts between them by priority. The winning
declarations replace the element's "class" and "style" attributes:

    <p class="note" style="color:red">      <p color="red" margin-top="4px">

Selectors are matched by exact lookup only. A rule applies to an element if one
of its selectors is a bare type ("p"), a bare class (".note") or a qualified
class ("p.note") matching the element. Rules with other selectors are kept, as
they contribute to nothing but diagnostics.

Priority

Declarations for the same property are ranked by a single 64-bit key, see
Priority. Importance ranks first, then origin (external < internal < inline),
then the selector's specificity, then the order of ingestion. Of two
declarations with equal priority, the one seen later wins.

Stylesheets are parsed with the help of github.com/aymerick/douceur. Input it
rejects is handled by a tolerant splitter, which is also used for inline
declarations.

___________________________________________________________________________

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2022 Norbert Pillmayer <norbert@pillmayer.com>

*/
package style

import (
	"github.com/npillmayer/schuko/tracing"
)

// tracer traces with key 'saga.style'.
func tracer() tracing.Trace {
	return tracing.Select("saga.style")
}
