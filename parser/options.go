package parser

import (
	"strings"

	"github.com/npillmayer/saga/model"
	"github.com/npillmayer/schuko"
)

// Configuration keys understood by OptionsFromConfig. Values other than
// ConfigHTML are comma-separated lists of tag names.
const (
	ConfigHTML          = "parser.html"
	ConfigOptionalClose = "parser.optional-close"
	ConfigVoid          = "parser.void"
	ConfigRawText       = "parser.raw-text"
	ConfigCarrier       = "parser.carrier"
)

// DefaultCarrier is the tag of nodes created to hold text next to elements.
var DefaultCarrier = model.MustTag("text")

type config struct {
	optional map[string]bool // end tag may be omitted
	void     map[string]bool // never has content
	raw      map[string]bool // content is read verbatim
	carrier  model.Tag
}

func defaultConfig() config {
	return config{
		optional: map[string]bool{},
		void:     map[string]bool{},
		raw:      map[string]bool{},
		carrier:  DefaultCarrier,
	}
}

// Option configures a parser.
type Option func(*config)

// OptionalClose declares tags whose end tag may be omitted. An element of
// such a tag ends implicitly as soon as another start tag of the same kind
// appears in its content.
func OptionalClose(tags ...string) Option {
	return func(c *config) {
		addNames(c.optional, tags)
	}
}

// Void declares tags which never take children, like <br>.
func Void(tags ...string) Option {
	return func(c *config) {
		addNames(c.void, tags)
	}
}

// RawText declares tags whose content is read verbatim up to the matching
// end tag, like <style>.
func RawText(tags ...string) Option {
	return func(c *config) {
		addNames(c.raw, tags)
	}
}

// Carrier sets the tag of nodes created to hold text next to elements.
func Carrier(tag model.Tag) Option {
	return func(c *config) {
		if !tag.IsZero() {
			c.carrier = tag
		}
	}
}

// Elements with an optional end tag in HTML, which we are able to infer
// without a full content model.
var htmlOptionalClose = []string{
	"p", "li", "dt", "dd", "option", "optgroup", "tr", "td", "th",
	"thead", "tbody", "tfoot", "colgroup", "rt", "rp",
}

var htmlVoid = []string{
	"area", "base", "br", "col", "embed", "hr", "img", "input", "keygen",
	"link", "meta", "param", "source", "track", "wbr",
}

var htmlRawText = []string{"script", "style"}

// HTML configures the parser for HTML-like input.
func HTML() Option {
	return func(c *config) {
		addNames(c.optional, htmlOptionalClose)
		addNames(c.void, htmlVoid)
		addNames(c.raw, htmlRawText)
	}
}

// OptionsFromConfig reads parser options from a configuration. If ConfigHTML
// is set to true, the HTML preset is applied first.
func OptionsFromConfig(conf schuko.Configuration) []Option {
	var opts []Option
	if conf.GetBool(ConfigHTML) {
		opts = append(opts, HTML())
	}
	if l := conf.GetString(ConfigOptionalClose); l != "" {
		opts = append(opts, OptionalClose(splitList(l)...))
	}
	if l := conf.GetString(ConfigVoid); l != "" {
		opts = append(opts, Void(splitList(l)...))
	}
	if l := conf.GetString(ConfigRawText); l != "" {
		opts = append(opts, RawText(splitList(l)...))
	}
	if s := strings.TrimSpace(conf.GetString(ConfigCarrier)); s != "" {
		if tag, err := model.ToTag(s); err == nil {
			opts = append(opts, Carrier(tag))
		} else {
			tracer().Errorf("configuration %s: %v", ConfigCarrier, err)
		}
	}
	return opts
}

func splitList(l string) []string {
	var names []string
	for _, s := range strings.Split(l, ",") {
		if s = strings.TrimSpace(s); s != "" {
			names = append(names, s)
		}
	}
	return names
}

func addNames(set map[string]bool, names []string) {
	for _, n := range names {
		set[strings.ToLower(n)] = true
	}
}
