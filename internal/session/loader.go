package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/example/shopspot/internal/query"
	"github.com/example/shopspot/internal/readmodel"
)

var ErrLoadFailed = errors.New("catalog load failed")

// Loader fetches catalog data for a storefront query string.
type Loader interface {
	Products(ctx context.Context, q url.Values) (*readmodel.ProductListReadModel, error)
	Facets(ctx context.Context) (*readmodel.FacetsReadModel, error)
}

// HTTPLoader talks to a running storefront API.
type HTTPLoader struct {
	baseURL string
	client  *http.Client
}

func NewHTTPLoader(baseURL string, client *http.Client) *HTTPLoader {
	if client == nil {
		client = &http.Client{Timeout: 10 * time.Second}
	}
	return &HTTPLoader{baseURL: strings.TrimRight(baseURL, "/"), client: client}
}

func (l *HTTPLoader) Products(ctx context.Context, q url.Values) (*readmodel.ProductListReadModel, error) {
	var list readmodel.ProductListReadModel
	target := l.baseURL + "/api/products"
	if enc := q.Encode(); enc != "" {
		target += "?" + enc
	}
	if err := l.getJSON(ctx, target, &list); err != nil {
		return nil, err
	}
	return &list, nil
}

func (l *HTTPLoader) Facets(ctx context.Context) (*readmodel.FacetsReadModel, error) {
	var facets readmodel.FacetsReadModel
	if err := l.getJSON(ctx, l.baseURL+"/api/facets", &facets); err != nil {
		return nil, err
	}
	return &facets, nil
}

func (l *HTTPLoader) getJSON(ctx context.Context, target string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := l.client.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrLoadFailed, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		var body struct {
			Error string `json:"error"`
		}
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		if json.Unmarshal(raw, &body) != nil || body.Error == "" {
			body.Error = http.StatusText(resp.StatusCode)
		}
		return fmt.Errorf("%w: %s: %d %s", ErrLoadFailed, target, resp.StatusCode, body.Error)
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%w: decode %s: %v", ErrLoadFailed, target, err)
	}
	return nil
}

// QueryLoader answers in process from a query.Handler.
type QueryLoader struct {
	handler *query.Handler
}

func NewQueryLoader(handler *query.Handler) *QueryLoader {
	return &QueryLoader{handler: handler}
}

func (l *QueryLoader) Products(ctx context.Context, q url.Values) (*readmodel.ProductListReadModel, error) {
	return l.handler.ListProducts(ctx, l.handler.ParseParams(q))
}

func (l *QueryLoader) Facets(ctx context.Context) (*readmodel.FacetsReadModel, error) {
	return l.handler.Facets(ctx)
}
