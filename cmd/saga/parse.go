package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"

	"github.com/npillmayer/saga/dom"
	"github.com/npillmayer/saga/model"
	"github.com/npillmayer/saga/model/modeldbg"
	"github.com/npillmayer/saga/parser"
	"github.com/npillmayer/saga/style"
	"github.com/spf13/cobra"
)

type parseOptions struct {
	root    string
	charset string
	html    bool
	html5   bool
	style   bool
	format  string
}

var popts parseOptions

var parseCmd = &cobra.Command{
	Use:   "parse [file]",
	Short: "Parse a document and print the resulting tree",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		in, base := io.Reader(cmd.InOrStdin()), "."
		if len(args) == 1 {
			f, err := os.Open(args[0])
			if err != nil {
				return err
			}
			defer f.Close()
			in, base = f, filepath.Dir(args[0])
		}
		if popts.html {
			conf.set(parser.ConfigHTML, strconv.FormatBool(true))
		}
		return runParse(cmd.Context(), popts, in, base, cmd.OutOrStdout())
	},
}

func init() {
	parseCmd.Flags().StringVar(&popts.root, "root", "html", "tag of the root element")
	parseCmd.Flags().StringVar(&popts.charset, "charset", "", "character set of the input (default utf-8)")
	parseCmd.Flags().BoolVar(&popts.html, "html", false, "use HTML rules for optional end tags and void elements")
	parseCmd.Flags().BoolVar(&popts.html5, "html5", false, "parse with a standards-compliant HTML5 parser")
	parseCmd.Flags().BoolVar(&popts.style, "style", false, "resolve stylesheets and inline styles")
	parseCmd.Flags().StringVar(&popts.format, "format", "content", "output format: content, tree, dot or html")
	rootCmd.AddCommand(parseCmd)
}

func runParse(ctx context.Context, opts parseOptions, in io.Reader, base string, out io.Writer) error {
	tag, err := model.ToTag(opts.root)
	if err != nil {
		return err
	}
	src, err := parser.NewSource(in, opts.charset)
	if err != nil {
		return err
	}
	m := model.New(tag)
	if opts.html5 {
		r, ok := src.(io.Reader)
		if !ok {
			return fmt.Errorf("source does not support byte reads")
		}
		if err := dom.ParseHTML(m, r); err != nil {
			return err
		}
	} else {
		p := parser.New(m, parser.OptionsFromConfig(conf)...)
		if err := p.Parse(src); err != nil {
			return err
		}
		if dt, ok := p.Doctype(); ok {
			tracer().Infof("document type %s", dt.Name)
		}
	}
	tracer().Infof("parsed %d nodes", m.Len())
	if opts.style {
		sopts := append(style.OptionsFromConfig(conf), style.WithFetcher(newFetcher(base, nil)))
		if err := style.Attach(ctx, m, sopts...); err != nil {
			return err
		}
	}
	return write(out, m, opts.format)
}

func write(w io.Writer, m *model.Model, format string) error {
	switch format {
	case "", "content":
		return m.WriteContent(w, m.Root())
	case "tree":
		_, err := io.WriteString(w, modeldbg.PrintTree(m, m.Root()))
		return err
	case "dot":
		return modeldbg.ToGraphViz(m, m.Root(), w)
	case "html":
		return dom.Render(w, m, m.Root())
	}
	return fmt.Errorf("unknown output format %q", format)
}
