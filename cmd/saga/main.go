/*
Command saga reads tag soup into a model tree, optionally applies the
document's stylesheets, and writes the result.

Usage:

    saga parse [flags] [file]

Without a file argument, input is read from stdin. Output formats are the
canonical model format ("content"), a tree drawing ("tree"), GraphViz DOT
("dot") and HTML ("html").

Configuration may be given as a YAML file:

    tracing:
      adapter: go
      root: Info
      saga.parser: Debug
    parser:
      html: true
      optional-close: [ item ]
    style:
      skip: svg, math

___________________________________________________________________________

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2022 Norbert Pillmayer <norbert@pillmayer.com>

*/
package main

func main() {
	Execute()
}
