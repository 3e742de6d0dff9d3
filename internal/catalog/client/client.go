package client

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/tair/catalog-console/internal/apperror"
	"github.com/tair/catalog-console/internal/catalog/domain"
	"github.com/tair/catalog-console/internal/remote"
	"github.com/tair/catalog-console/pkg/logger"
)

// ProductServiceClient performs catalog operations against the remote service.
// Mutating calls carry the caller's bearer token.
type ProductServiceClient struct {
	remote *remote.Client
	cache  CategoryCache
}

// NewProductServiceClient creates the catalog gateway; cache may be nil
func NewProductServiceClient(rc *remote.Client, cache CategoryCache) *ProductServiceClient {
	if cache == nil {
		cache = noopCache{}
	}
	return &ProductServiceClient{
		remote: rc,
		cache:  cache,
	}
}

// List returns one page of products
func (c *ProductServiceClient) List(ctx context.Context, limit, skip int) (*domain.ProductPage, error) {
	if limit <= 0 || skip < 0 {
		return nil, &apperror.RequestError{
			Op:  "list products",
			Err: fmt.Errorf("invalid page: limit=%d skip=%d", limit, skip),
		}
	}

	var page domain.ProductPage
	err := c.remote.Do(ctx, remote.Request{
		Op:     "list products",
		Method: http.MethodGet,
		Path:   "/products",
		Query:  pageQuery(limit, skip),
	}, &page)
	if err != nil {
		return nil, fmt.Errorf("failed to list products: %w", err)
	}
	return &page, nil
}

// GetByID returns a single product. Any non-success response is reported as not found.
func (c *ProductServiceClient) GetByID(ctx context.Context, id int) (*domain.Product, error) {
	var product domain.Product
	err := c.remote.Do(ctx, remote.Request{
		Op:     "get product",
		Method: http.MethodGet,
		Path:   "/products/" + strconv.Itoa(id),
	}, &product)
	if err != nil {
		var reqErr *apperror.RequestError
		if errors.As(err, &reqErr) && reqErr.Status != 0 && reqErr.Err == nil {
			return nil, &apperror.NotFoundError{Resource: "product", ID: strconv.Itoa(id)}
		}
		return nil, fmt.Errorf("failed to get product: %w", err)
	}
	return &product, nil
}

// Search returns the products matching query as ranked by the remote service.
// Callers fall back to List for a blank query.
func (c *ProductServiceClient) Search(ctx context.Context, query string) (*domain.ProductPage, error) {
	return c.SearchPage(ctx, query, 0, 0)
}

// SearchPage is Search restricted to one page; limit 0 leaves paging to the remote default
func (c *ProductServiceClient) SearchPage(ctx context.Context, query string, limit, skip int) (*domain.ProductPage, error) {
	q := pageQuery(limit, skip)
	q.Set("q", query)

	var page domain.ProductPage
	err := c.remote.Do(ctx, remote.Request{
		Op:     "search products",
		Method: http.MethodGet,
		Path:   "/products/search",
		Query:  q,
	}, &page)
	if err != nil {
		return nil, fmt.Errorf("failed to search products: %w", err)
	}
	return &page, nil
}

// Create adds a product. The demo service echoes the record without persisting it.
func (c *ProductServiceClient) Create(ctx context.Context, token string, data domain.CreateProductData) (*domain.Product, error) {
	var product domain.Product
	err := c.remote.Do(ctx, remote.Request{
		Op:     "create product",
		Method: http.MethodPost,
		Path:   "/products/add",
		Token:  token,
		Body:   data,
	}, &product)
	if err != nil {
		return nil, fmt.Errorf("failed to create product: %w", err)
	}

	logger.Info(ctx).
		Int("product_id", product.ID).
		Str("title", product.Title).
		Msg("Product created")
	return &product, nil
}

// Update sends only the fields set in data
func (c *ProductServiceClient) Update(ctx context.Context, token string, id int, data domain.UpdateProductData) (*domain.Product, error) {
	var product domain.Product
	err := c.remote.Do(ctx, remote.Request{
		Op:     "update product",
		Method: http.MethodPut,
		Path:   "/products/" + strconv.Itoa(id),
		Token:  token,
		Body:   data,
	}, &product)
	if err != nil {
		return nil, fmt.Errorf("failed to update product: %w", err)
	}

	logger.Info(ctx).
		Int("product_id", id).
		Msg("Product updated")
	return &product, nil
}

// Delete removes a product and returns the service's acknowledgment
func (c *ProductServiceClient) Delete(ctx context.Context, token string, id int) (*domain.DeleteResult, error) {
	var result domain.DeleteResult
	err := c.remote.Do(ctx, remote.Request{
		Op:     "delete product",
		Method: http.MethodDelete,
		Path:   "/products/" + strconv.Itoa(id),
		Token:  token,
	}, &result)
	if err != nil {
		return nil, fmt.Errorf("failed to delete product: %w", err)
	}

	logger.Info(ctx).
		Int("product_id", id).
		Bool("is_deleted", result.IsDeleted).
		Msg("Product deleted")
	return &result, nil
}

// Categories returns the category slugs known to the remote service
func (c *ProductServiceClient) Categories(ctx context.Context) ([]string, error) {
	if cached, ok := c.cache.Get(ctx); ok {
		return cached, nil
	}

	var raw []json.RawMessage
	err := c.remote.Do(ctx, remote.Request{
		Op:     "list categories",
		Method: http.MethodGet,
		Path:   "/products/categories",
	}, &raw)
	if err != nil {
		return nil, fmt.Errorf("failed to list categories: %w", err)
	}

	categories, err := decodeCategories(raw)
	if err != nil {
		return nil, &apperror.RequestError{Op: "list categories", Status: http.StatusOK, Err: err}
	}

	c.cache.Set(ctx, categories)
	return categories, nil
}

// ByCategory returns the products of one category
func (c *ProductServiceClient) ByCategory(ctx context.Context, name string) (*domain.ProductPage, error) {
	return c.ByCategoryPage(ctx, name, 0, 0)
}

// ByCategoryPage is ByCategory restricted to one page
func (c *ProductServiceClient) ByCategoryPage(ctx context.Context, name string, limit, skip int) (*domain.ProductPage, error) {
	var page domain.ProductPage
	err := c.remote.Do(ctx, remote.Request{
		Op:     "list category",
		Method: http.MethodGet,
		Path:   "/products/category/" + url.PathEscape(name),
		Query:  pageQuery(limit, skip),
	}, &page)
	if err != nil {
		return nil, fmt.Errorf("failed to list category %q: %w", name, err)
	}
	return &page, nil
}

func pageQuery(limit, skip int) url.Values {
	q := url.Values{}
	if limit > 0 {
		q.Set("limit", strconv.Itoa(limit))
		q.Set("skip", strconv.Itoa(skip))
	}
	return q
}

// decodeCategories accepts both the legacy string list and the {slug,name,url} objects
func decodeCategories(raw []json.RawMessage) ([]string, error) {
	categories := make([]string, 0, len(raw))
	for _, item := range raw {
		var slug string
		if err := json.Unmarshal(item, &slug); err == nil {
			categories = append(categories, slug)
			continue
		}

		var obj struct {
			Slug string `json:"slug"`
			Name string `json:"name"`
		}
		if err := json.Unmarshal(item, &obj); err != nil {
			return nil, fmt.Errorf("unexpected category entry %s", strings.TrimSpace(string(item)))
		}
		if obj.Slug == "" {
			obj.Slug = obj.Name
		}
		categories = append(categories, obj.Slug)
	}
	return categories, nil
}
