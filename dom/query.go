package dom

import (
	"fmt"

	"github.com/andybalholm/cascadia"
	"github.com/npillmayer/saga/model"
	"golang.org/x/net/html"
)

// Query returns all nodes in the subtree of e, including e, matching a CSS
// selector. Results are in document order.
func Query(m *model.Model, e model.Entity, selector string) ([]model.Entity, error) {
	sel, err := cascadia.Compile(selector)
	if err != nil {
		return nil, fmt.Errorf("invalid selector %q: %w", selector, err)
	}
	index := make(map[*html.Node]model.Entity)
	h := convert(m, e, index)
	var r []model.Entity
	for _, n := range sel.MatchAll(h) {
		if ent, ok := index[n]; ok {
			r = append(r, ent)
		}
	}
	tracer().Debugf("query %q: %d matches", selector, len(r))
	return r, nil
}

// QueryFirst returns the first node in the subtree of e matching a CSS
// selector.
func QueryFirst(m *model.Model, e model.Entity, selector string) (model.Entity, bool, error) {
	sel, err := cascadia.Compile(selector)
	if err != nil {
		return model.Entity{}, false, fmt.Errorf("invalid selector %q: %w", selector, err)
	}
	index := make(map[*html.Node]model.Entity)
	n := sel.MatchFirst(convert(m, e, index))
	if n == nil {
		return model.Entity{}, false, nil
	}
	ent, ok := index[n]
	return ent, ok, nil
}
