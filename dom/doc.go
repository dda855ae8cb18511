/*
Package dom connects model trees to the world of HTML DOMs.

Status

Early draft. API may change frequently. Please stay patient.

Overview

Package golang.org/x/net/html implements a fully HTML5-compliant parser.
Clients in need of browser-grade error recovery may use it instead of package
parser and import the resulting DOM with FromHTML. In the other direction,
ToHTML and Render convert a model (sub-)tree into an HTML DOM.

Text in mixed content is held by carrier nodes in a model (see package
parser). Carrier nodes are converted from and to HTML text nodes.

Query selects nodes of a model with the full power of CSS selectors,
courtesy of github.com/andybalholm/cascadia.

Node offers a read-only view of a model node, modelled after the W3C DOM
node interface.

___________________________________________________________________________

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2022 Norbert Pillmayer <norbert@pillmayer.com>

*/
package dom

import (
	"github.com/npillmayer/schuko/tracing"
)

// tracer traces with key 'saga.dom'.
func tracer() tracing.Trace {
	return tracing.Select("saga.dom")
}
