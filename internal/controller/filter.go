package controller

import (
	"net/url"
	"sync"
	"time"

	"github.com/example/shopspot/internal/urlstate"
	"github.com/shopspring/decimal"
)

// DefaultPriceDebounce is the quiet period before a slider edit is committed.
const DefaultPriceDebounce = 500 * time.Millisecond

type FilterState int

const (
	Idle FilterState = iota
	Editing
	Committing
)

func (s FilterState) String() string {
	switch s {
	case Editing:
		return "editing"
	case Committing:
		return "committing"
	default:
		return "idle"
	}
}

// FilterView is a point-in-time copy of the sidebar.
type FilterView struct {
	Selection urlstate.Selection
	Committed urlstate.PriceRange
	Slider    urlstate.PriceRange
	State     FilterState
}

// FilterController mirrors facet selections and the price range to and
// from the URL. Toggles commit immediately; slider edits commit once the
// debounce interval passes without another edit.
type FilterController struct {
	mu       sync.Mutex
	nav      Navigator
	path     string
	ceiling  decimal.Decimal
	debounce time.Duration

	current   url.Values
	selection urlstate.Selection
	committed urlstate.PriceRange
	slider    urlstate.PriceRange
	state     FilterState

	timer *time.Timer
	gen   uint64
}

func NewFilterController(nav Navigator, path string, ceiling decimal.Decimal, debounce time.Duration) *FilterController {
	if debounce <= 0 {
		debounce = DefaultPriceDebounce
	}
	full := urlstate.FullRange(ceiling)
	return &FilterController{
		nav:       nav,
		path:      path,
		ceiling:   ceiling,
		debounce:  debounce,
		current:   url.Values{},
		committed: full,
		slider:    full,
	}
}

// Sync adopts an externally changed URL. Uncommitted slider edits are dropped.
func (c *FilterController) Sync(v url.Values) {
	p := urlstate.Parse(v, c.ceiling)

	c.mu.Lock()
	defer c.mu.Unlock()

	c.stopTimer()
	c.current = urlstate.Clone(v)
	c.selection = p.Selection.Clone()
	c.committed = p.Price
	c.slider = p.Price
	c.state = Idle
}

// Toggle flips one facet value and commits. A slider edit in progress is committed with it.
func (c *FilterController) Toggle(param, value string) error {
	if !isFacet(param) {
		return ErrUnknownFacet
	}

	c.mu.Lock()
	c.stopTimer()
	c.selection = c.selection.WithFacet(param, urlstate.Toggle(c.selection.Facet(param), value))
	href := c.commitLocked()
	c.mu.Unlock()

	c.nav.Push(href)
	return nil
}

// SetPriceRange moves the slider. The URL is updated after the debounce interval.
func (c *FilterController) SetPriceRange(lo, hi decimal.Decimal) {
	lo = clamp(lo, c.ceiling)
	hi = clamp(hi, c.ceiling)
	if lo.GreaterThan(hi) {
		lo = hi
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	c.slider = urlstate.PriceRange{Min: lo, Max: hi}
	c.state = Editing
	c.stopTimer()
	gen := c.gen
	c.timer = time.AfterFunc(c.debounce, func() { c.fire(gen) })
}

// Flush commits a pending slider edit now. It reports whether anything was committed.
func (c *FilterController) Flush() bool {
	c.mu.Lock()
	if c.state != Editing {
		c.mu.Unlock()
		return false
	}
	c.stopTimer()
	href := c.commitLocked()
	c.mu.Unlock()

	c.nav.Push(href)
	return true
}

// Reset clears every filter and navigates to the bare path.
func (c *FilterController) Reset() {
	c.mu.Lock()
	c.stopTimer()
	full := urlstate.FullRange(c.ceiling)
	c.selection = urlstate.Selection{}
	c.committed = full
	c.slider = full
	c.state = Committing
	href := urlstate.Href(c.path, nil)
	c.mu.Unlock()

	c.nav.Push(href)
}

func (c *FilterController) View() FilterView {
	c.mu.Lock()
	defer c.mu.Unlock()
	return FilterView{
		Selection: c.selection.Clone(),
		Committed: c.committed,
		Slider:    c.slider,
		State:     c.state,
	}
}

func (c *FilterController) State() FilterState {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Selected reports whether value is chosen for the facet.
func (c *FilterController) Selected(param, value string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return urlstate.Contains(c.selection.Facet(param), value)
}

func (c *FilterController) fire(gen uint64) {
	c.mu.Lock()
	if gen != c.gen || c.state != Editing {
		c.mu.Unlock()
		return
	}
	c.timer = nil
	href := c.commitLocked()
	c.mu.Unlock()

	c.nav.Push(href)
}

// commitLocked must be called with c.mu held.
func (c *FilterController) commitLocked() string {
	c.committed = c.slider
	c.state = Committing
	next := urlstate.CommitFilters(c.current, c.selection, c.slider, c.ceiling)
	return urlstate.Href(c.path, next)
}

// stopTimer must be called with c.mu held. Bumping gen invalidates a timer
// whose callback is already waiting on the lock.
func (c *FilterController) stopTimer() {
	c.gen++
	if c.timer != nil {
		c.timer.Stop()
		c.timer = nil
	}
}

func isFacet(param string) bool {
	for _, p := range urlstate.FacetParams {
		if p == param {
			return true
		}
	}
	return false
}

func clamp(d, ceiling decimal.Decimal) decimal.Decimal {
	if d.IsNegative() {
		return decimal.Zero
	}
	if d.GreaterThan(ceiling) {
		return ceiling
	}
	return d
}
