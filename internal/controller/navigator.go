// Package controller holds the storefront's interactive state machines:
// the filter sidebar, the load-more grid and the sort dropdown. Each one
// turns user intent into a canonical URL and hands it to a Navigator; the
// owner of the controllers feeds the resulting URL back through Sync.
package controller

import "errors"

var (
	ErrNoMorePages  = errors.New("no more pages to load")
	ErrUnknownFacet = errors.New("unknown facet")
)

// Navigator applies a URL change. Push adds a history entry, Replace overwrites the current one.
type Navigator interface {
	Push(href string)
	Replace(href string)
}
