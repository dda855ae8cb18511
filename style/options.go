package style

import (
	"strings"

	"github.com/npillmayer/schuko"
)

// ConfigSkip is the configuration key for a comma-separated list of tags
// which are excluded from styling, see Skip.
const ConfigSkip = "style.skip"

// Foreign content containers are never styled by default.
var defaultSkip = []string{"svg", "math"}

// Option configures a cascade.
type Option func(*Cascade)

// Skip excludes elements of the given tags from styling, together with
// their subtrees.
func Skip(tags ...string) Option {
	return func(c *Cascade) {
		for _, t := range tags {
			if t = strings.ToLower(strings.TrimSpace(t)); t != "" {
				c.skip[t] = true
			}
		}
	}
}

// WithFetcher sets the collaborator for loading linked stylesheets. Without
// a fetcher, linked stylesheets are ignored.
func WithFetcher(f Fetcher) Option {
	return func(c *Cascade) {
		c.fetcher = f
	}
}

// OptionsFromConfig reads cascade options from a configuration.
func OptionsFromConfig(conf schuko.Configuration) []Option {
	var opts []Option
	if l := conf.GetString(ConfigSkip); l != "" {
		opts = append(opts, Skip(strings.Split(l, ",")...))
	}
	return opts
}
