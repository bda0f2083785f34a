// Package session runs one storefront page view: it owns the filter, grid
// and sort controllers, applies their navigations, and loads the catalog
// for each URL it lands on.
package session

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/url"
	"sync"
	"time"

	"github.com/example/shopspot/internal/controller"
	"github.com/example/shopspot/internal/readmodel"
	"github.com/example/shopspot/internal/urlstate"
	"github.com/google/uuid"
)

var ErrNoHistory = errors.New("no earlier page in history")

type Options struct {
	Path         string
	ItemsPerPage int
	Debounce     time.Duration
}

// Session implements controller.Navigator. Each navigation gets a sequence
// token; a load that finishes after a newer navigation is discarded.
type Session struct {
	ID string

	Filters *controller.FilterController
	Grid    *controller.GridController
	Sort    *controller.SortController

	ctx    context.Context
	loader Loader
	path   string
	facets readmodel.FacetsReadModel

	mu      sync.Mutex
	current url.Values
	history []string
	seq     uint64
	lastErr error
}

// New loads the facet catalog and builds the controllers. ctx bounds every
// later load, including ones started by the price debounce timer.
func New(ctx context.Context, loader Loader, opts Options) (*Session, error) {
	facets, err := loader.Facets(ctx)
	if err != nil {
		return nil, fmt.Errorf("load facets: %w", err)
	}
	if opts.Path == "" {
		opts.Path = "/"
	}

	s := &Session{
		ID:      uuid.New().String(),
		ctx:     ctx,
		loader:  loader,
		path:    opts.Path,
		facets:  *facets,
		current: url.Values{},
	}
	s.Filters = controller.NewFilterController(s, opts.Path, facets.MaxPrice, opts.Debounce)
	s.Grid = controller.NewGridController(s, opts.Path, opts.ItemsPerPage)
	s.Sort = controller.NewSortController(s, opts.Path)
	return s, nil
}

func (s *Session) Facets() readmodel.FacetsReadModel {
	return s.facets
}

// Open navigates to href as a new history entry.
func (s *Session) Open(href string) error {
	v, err := parseHref(href)
	if err != nil {
		return err
	}
	s.navigate(v, false)
	return nil
}

func (s *Session) Push(href string) {
	v, err := parseHref(href)
	if err != nil {
		log.Printf("[Browse] Ignoring navigation to %q: %v", href, err)
		return
	}
	s.navigate(v, false)
}

func (s *Session) Replace(href string) {
	v, err := parseHref(href)
	if err != nil {
		log.Printf("[Browse] Ignoring navigation to %q: %v", href, err)
		return
	}
	s.navigate(v, true)
}

// Back returns to the previous history entry.
func (s *Session) Back() error {
	s.mu.Lock()
	if len(s.history) < 2 {
		s.mu.Unlock()
		return ErrNoHistory
	}
	s.history = s.history[:len(s.history)-1]
	href := s.history[len(s.history)-1]
	s.mu.Unlock()

	s.Replace(href)
	return nil
}

// URL is the canonical href of the current page.
func (s *Session) URL() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return urlstate.Href(s.path, s.current)
}

func (s *Session) History() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.history...)
}

// Err is the error of the most recent applied load, if any.
func (s *Session) Err() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastErr
}

func (s *Session) navigate(v url.Values, replace bool) {
	s.mu.Lock()
	s.seq++
	token := s.seq
	s.current = v
	href := urlstate.Href(s.path, v)
	if replace && len(s.history) > 0 {
		s.history[len(s.history)-1] = href
	} else {
		s.history = append(s.history, href)
	}
	s.Filters.Sync(v)
	s.Sort.Sync(v)
	s.Grid.Begin(v)
	s.mu.Unlock()

	list, err := s.loader.Products(s.ctx, v)

	s.mu.Lock()
	defer s.mu.Unlock()
	if token != s.seq {
		return
	}
	s.lastErr = err
	if err != nil {
		log.Printf("[Browse] Error loading %s: %v", href, err)
		s.Grid.Abort()
		return
	}
	s.Grid.Refresh(list.Catalog(), list.Page)
}

func parseHref(href string) (url.Values, error) {
	u, err := url.Parse(href)
	if err != nil {
		return nil, err
	}
	return u.Query(), nil
}
