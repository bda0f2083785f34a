package controller

import (
	"net/url"
	"sync"

	"github.com/example/shopspot/internal/catalog"
	"github.com/example/shopspot/internal/urlstate"
)

type SortController struct {
	mu      sync.Mutex
	nav     Navigator
	path    string
	current url.Values
}

func NewSortController(nav Navigator, path string) *SortController {
	return &SortController{nav: nav, path: path, current: url.Values{}}
}

func (s *SortController) Sync(v url.Values) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.current = urlstate.Clone(v)
}

// Current is the active order, latest when unset or unrecognized.
func (s *SortController) Current() catalog.SortOption {
	s.mu.Lock()
	defer s.mu.Unlock()
	return catalog.ParseSort(s.current.Get(urlstate.ParamSortBy))
}

// Change switches the order and restarts pagination.
func (s *SortController) Change(sortBy catalog.SortOption) {
	s.mu.Lock()
	href := urlstate.Href(s.path, urlstate.WithSort(s.current, sortBy))
	s.mu.Unlock()

	s.nav.Push(href)
}
