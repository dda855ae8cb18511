package style

import (
	"context"
	"strings"
	"sync"

	"github.com/npillmayer/saga/model"
)

// Fetcher loads the text of a linked stylesheet.
type Fetcher func(ctx context.Context, href string) (string, error)

var (
	styleTag = model.MustTag("style")
	linkTag  = model.MustTag("link")
	relKey   = model.MustKey("rel")
	hrefKey  = model.MustKey("href")
	typeKey  = model.MustKey("type")
)

// Attach collects the stylesheets of a model and applies them to all of its
// elements, see Cascade.Attach.
func Attach(ctx context.Context, m *model.Model, opts ...Option) error {
	return New(opts...).Attach(ctx, m)
}

// source is a stylesheet found in a document, either embedded or linked.
type source struct {
	origin Origin
	text   string
	href   string
	err    error
}

// Attach adds the stylesheets of a model to the cascade and applies the
// cascade to the whole model. Stylesheets are the data of <style> elements
// (origin Internal) and documents referenced by <link rel="stylesheet">
// elements (origin External). Linked stylesheets are loaded concurrently with
// the cascade's fetcher; they are ingested in document order nevertheless.
// Stylesheets which fail to load are skipped.
func (c *Cascade) Attach(ctx context.Context, m *model.Model) error {
	sources := c.collect(m)
	c.fetch(ctx, sources)
	for _, src := range sources {
		if src.err != nil {
			tracer().Errorf("cannot load stylesheet %q: %v", src.href, src.err)
			continue
		}
		c.AddStylesheet(src.origin, src.text)
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	tracer().Infof("applying %d rule sets", c.Len())
	return c.Apply(m, m.Root())
}

// collect finds stylesheets in document order.
func (c *Cascade) collect(m *model.Model) []*source {
	var sources []*source
	m.Walk(m.Root(), func(e model.Entity, _ int) bool {
		if c.skip[e.Tag.String()] {
			return false
		}
		switch e.Tag {
		case styleTag:
			if t, ok := m.Attribute(e, typeKey); ok && t.String() != "" && !strings.EqualFold(t.String(), "text/css") {
				return false
			}
			if text := textOf(m, e); strings.TrimSpace(text) != "" {
				sources = append(sources, &source{origin: Internal, text: text})
			}
			return false
		case linkTag:
			rel, _ := m.Attribute(e, relKey)
			href, _ := m.Attribute(e, hrefKey)
			if isStylesheetLink(rel.String()) && href.String() != "" {
				sources = append(sources, &source{origin: External, href: href.String()})
			}
		}
		return true
	})
	return sources
}

func isStylesheetLink(rel string) bool {
	for _, r := range strings.Fields(rel) {
		if strings.EqualFold(r, "stylesheet") {
			return true
		}
	}
	return false
}

// textOf concatenates the data of e and its descendants.
func textOf(m *model.Model, e model.Entity) string {
	var sb strings.Builder
	m.Walk(e, func(e model.Entity, _ int) bool {
		sb.WriteString(m.Data(e))
		return true
	})
	return sb.String()
}

// fetch loads all linked sources concurrently and waits for them.
func (c *Cascade) fetch(ctx context.Context, sources []*source) {
	var wg sync.WaitGroup
	for _, src := range sources {
		if src.href == "" {
			continue
		}
		if c.fetcher == nil {
			tracer().Infof("no fetcher, ignoring stylesheet %q", src.href)
			continue
		}
		wg.Add(1)
		go func(src *source) {
			defer wg.Done()
			src.text, src.err = c.fetcher(ctx, src.href)
		}(src)
	}
	wg.Wait()
}
