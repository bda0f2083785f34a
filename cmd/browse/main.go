// Command browse is a terminal storefront. It drives the same filter, sort
// and load-more controllers as the page, against a running storefront API.
package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"strings"

	"github.com/example/shopspot/internal/catalog"
	"github.com/example/shopspot/internal/config"
	"github.com/example/shopspot/internal/session"
	"github.com/example/shopspot/internal/urlstate"
	"github.com/shopspring/decimal"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("[Browse] Invalid configuration: %v", err)
	}

	ctx := context.Background()

	loader := session.NewHTTPLoader(cfg.StorefrontURL, nil)
	s, err := session.New(ctx, loader, session.Options{
		ItemsPerPage: cfg.ItemsPerPage,
		Debounce:     cfg.PriceDebounce,
	})
	if err != nil {
		log.Fatalf("[Browse] Cannot reach storefront at %s: %v", cfg.StorefrontURL, err)
	}
	log.Printf("[Browse] Session %s on %s", s.ID, cfg.StorefrontURL)

	start := "/"
	if len(os.Args) > 1 {
		start = os.Args[1]
	}
	if err := s.Open(start); err != nil {
		log.Fatalf("[Browse] Cannot open %s: %v", start, err)
	}

	if err := run(ctx, os.Stdin, os.Stdout, s); err != nil {
		log.Fatalf("[Browse] %v", err)
	}
}

const help = `commands:
  show                      print filters and the product grid
  facets                    list selectable facet values
  toggle <facet> <value>    flip a category, brand, color or size
  price <min> <max>         move the price slider (commits after the debounce)
  apply                     commit a pending price edit now
  sort latest|oldest        change the order
  more                      load the next page
  reset                     clear every filter
  open <url>                navigate to a storefront URL
  back                      previous history entry
  url                       print the current URL
  quit`

func run(ctx context.Context, in io.Reader, out io.Writer, s *session.Session) error {
	scanner := bufio.NewScanner(in)
	fmt.Fprintln(out, "type 'help' for commands")
	for {
		fmt.Fprint(out, "> ")
		if !scanner.Scan() {
			return scanner.Err()
		}
		if err := ctx.Err(); err != nil {
			return err
		}

		fields := strings.Fields(scanner.Text())
		if len(fields) == 0 {
			continue
		}
		cmd, args := fields[0], fields[1:]
		if cmd == "quit" || cmd == "exit" {
			return nil
		}
		if err := dispatch(out, s, cmd, args); err != nil {
			fmt.Fprintf(out, "error: %v\n", err)
		}
	}
}

func dispatch(out io.Writer, s *session.Session, cmd string, args []string) error {
	switch cmd {
	case "help":
		fmt.Fprintln(out, help)
	case "show":
		show(out, s)
	case "facets":
		f := s.Facets()
		fmt.Fprintf(out, "category: %s\n", strings.Join(f.Categories, ", "))
		fmt.Fprintf(out, "brand:    %s\n", strings.Join(f.Brands, ", "))
		fmt.Fprintf(out, "color:    %s\n", strings.Join(f.Colors, ", "))
		fmt.Fprintf(out, "size:     %s\n", strings.Join(f.Sizes, ", "))
		fmt.Fprintf(out, "price:    0 - %s\n", f.MaxPrice)
	case "toggle":
		if len(args) < 2 {
			return errors.New("usage: toggle <facet> <value>")
		}
		if err := s.Filters.Toggle(args[0], strings.Join(args[1:], " ")); err != nil {
			return err
		}
		fmt.Fprintln(out, s.URL())
	case "price":
		if len(args) != 2 {
			return errors.New("usage: price <min> <max>")
		}
		lo, err := decimal.NewFromString(args[0])
		if err != nil {
			return fmt.Errorf("min: %w", err)
		}
		hi, err := decimal.NewFromString(args[1])
		if err != nil {
			return fmt.Errorf("max: %w", err)
		}
		s.Filters.SetPriceRange(lo, hi)
		v := s.Filters.View()
		fmt.Fprintf(out, "slider %s - %s (%s)\n", v.Slider.Min, v.Slider.Max, v.State)
	case "apply":
		if !s.Filters.Flush() {
			fmt.Fprintln(out, "nothing to apply")
			return nil
		}
		fmt.Fprintln(out, s.URL())
	case "sort":
		if len(args) != 1 {
			return errors.New("usage: sort latest|oldest")
		}
		s.Sort.Change(catalog.ParseSort(args[0]))
		fmt.Fprintln(out, s.URL())
	case "more":
		if err := s.Grid.LoadMore(); err != nil {
			return err
		}
		fmt.Fprintf(out, "%s (%d products)\n", s.URL(), len(s.Grid.Products()))
	case "reset":
		s.Filters.Reset()
		fmt.Fprintln(out, s.URL())
	case "open":
		if len(args) != 1 {
			return errors.New("usage: open <url>")
		}
		if err := s.Open(args[0]); err != nil {
			return err
		}
		fmt.Fprintln(out, s.URL())
	case "back":
		if err := s.Back(); err != nil {
			return err
		}
		fmt.Fprintln(out, s.URL())
	case "url":
		fmt.Fprintln(out, s.URL())
	default:
		return fmt.Errorf("unknown command %q", cmd)
	}
	return s.Err()
}

func show(out io.Writer, s *session.Session) {
	v := s.Filters.View()
	fmt.Fprintf(out, "url:    %s\n", s.URL())
	fmt.Fprintf(out, "sort:   %s\n", s.Sort.Current().Label())
	for _, param := range urlstate.FacetParams {
		if set := v.Selection.Facet(param); len(set) > 0 {
			fmt.Fprintf(out, "%-7s %s\n", param+":", strings.Join(set, ", "))
		}
	}
	fmt.Fprintf(out, "price:  %s - %s\n", v.Committed.Min, v.Committed.Max)

	if s.Grid.Pending() {
		fmt.Fprintln(out, "loading...")
		return
	}
	if s.Grid.Empty() {
		fmt.Fprintln(out, "No products found matching your criteria.")
		return
	}
	for _, p := range s.Grid.Products() {
		line := fmt.Sprintf("  #%-3s %-36s %-14s $%s", p.ID, p.Title, p.Brand, p.DisplayPrice().StringFixed(2))
		if p.OnSale() {
			line += fmt.Sprintf(" (was $%s, -%d%%)", p.OriginalPrice.StringFixed(2), p.DiscountPercent())
		}
		fmt.Fprintln(out, line)
	}
	if s.Grid.HasMore() {
		fmt.Fprintln(out, "more available: type 'more'")
	}
}
