package client

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tair/catalog-console/internal/apperror"
	"github.com/tair/catalog-console/internal/catalog/domain"
	"github.com/tair/catalog-console/internal/remote"
)

// --- Mock implementations ---

type recordedRequest struct {
	Method string
	Path   string
	Query  string
	Auth   string
	Body   map[string]interface{}
}

// fakeCatalog mimics the remote catalog with a fixed number of products
type fakeCatalog struct {
	mu         sync.Mutex
	total      int
	requests   []recordedRequest
	categories string
}

func (f *fakeCatalog) record(r *http.Request) {
	var body map[string]interface{}
	_ = json.NewDecoder(r.Body).Decode(&body)

	f.mu.Lock()
	f.requests = append(f.requests, recordedRequest{
		Method: r.Method,
		Path:   r.URL.EscapedPath(),
		Query:  r.URL.RawQuery,
		Auth:   r.Header.Get("Authorization"),
		Body:   body,
	})
	f.mu.Unlock()
}

func (f *fakeCatalog) last() recordedRequest {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.requests[len(f.requests)-1]
}

func (f *fakeCatalog) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.requests)
}

func (f *fakeCatalog) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	f.record(r)
	path := r.URL.Path

	switch {
	case r.Method == http.MethodGet && path == "/products":
		limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
		skip, _ := strconv.Atoi(r.URL.Query().Get("skip"))
		writeJSON(w, f.page(limit, skip))
	case r.Method == http.MethodGet && path == "/products/search":
		writeJSON(w, domain.ProductPage{Products: []domain.Product{{ID: 3, Title: "iPhone 9"}}, Total: 1, Limit: 30})
	case r.Method == http.MethodGet && path == "/products/categories":
		_, _ = w.Write([]byte(f.categories))
	case r.Method == http.MethodGet && strings.HasPrefix(path, "/products/category/"):
		writeJSON(w, domain.ProductPage{Products: []domain.Product{{ID: 5, Category: "smartphones"}}, Total: 1})
	case r.Method == http.MethodPost && path == "/products/add":
		writeJSON(w, domain.Product{ID: 195, Title: "New"})
	case r.Method == http.MethodGet && path == "/products/404":
		w.WriteHeader(http.StatusNotFound)
	case r.Method == http.MethodGet && strings.HasPrefix(path, "/products/"):
		id, _ := strconv.Atoi(strings.TrimPrefix(path, "/products/"))
		writeJSON(w, domain.Product{ID: id, Title: fmt.Sprintf("Product %d", id)})
	case r.Method == http.MethodPut:
		writeJSON(w, domain.Product{ID: 1, Title: "Updated"})
	case r.Method == http.MethodDelete && path == "/products/999":
		w.WriteHeader(http.StatusNotFound)
	case r.Method == http.MethodDelete:
		_, _ = w.Write([]byte(`{"id":1,"title":"Essence Mascara","isDeleted":true,"deletedOn":"2024-05-01T10:00:00.000Z"}`))
	default:
		w.WriteHeader(http.StatusNotFound)
	}
}

func (f *fakeCatalog) page(limit, skip int) domain.ProductPage {
	products := []domain.Product{}
	for i := skip; i < f.total && i < skip+limit; i++ {
		products = append(products, domain.Product{ID: i + 1, Title: fmt.Sprintf("Product %d", i+1)})
	}
	return domain.ProductPage{Products: products, Total: f.total, Skip: skip, Limit: limit}
}

func writeJSON(w http.ResponseWriter, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}

type memoryCache struct {
	categories []string
	sets       int
}

func (m *memoryCache) Get(context.Context) ([]string, bool) {
	return m.categories, m.categories != nil
}

func (m *memoryCache) Set(_ context.Context, categories []string) {
	m.sets++
	m.categories = categories
}

// --- Helpers ---

func setup(t *testing.T, cache CategoryCache) (*ProductServiceClient, *fakeCatalog) {
	t.Helper()
	fake := &fakeCatalog{total: 194, categories: `["beauty","fragrances"]`}
	srv := httptest.NewServer(fake)
	t.Cleanup(srv.Close)
	return NewProductServiceClient(remote.New(remote.Options{BaseURL: srv.URL}), cache), fake
}

// --- Tests ---

func TestList_RequestsExactPage(t *testing.T) {
	c, fake := setup(t, nil)

	page, err := c.List(context.Background(), 10, 20)
	require.NoError(t, err)

	assert.Equal(t, "limit=10&skip=20", fake.last().Query)
	assert.Len(t, page.Products, 10)
	assert.Equal(t, 21, page.Products[0].ID)
	assert.Equal(t, 194, page.Total)
}

func TestList_LastPageIsShort(t *testing.T) {
	c, _ := setup(t, nil)

	page, err := c.List(context.Background(), 10, 190)
	require.NoError(t, err)
	assert.Len(t, page.Products, 4)
}

func TestList_InvalidArgumentsSkipRemoteCall(t *testing.T) {
	c, fake := setup(t, nil)

	_, err := c.List(context.Background(), 0, 0)
	assert.True(t, apperror.IsRequest(err))

	_, err = c.List(context.Background(), 10, -1)
	assert.True(t, apperror.IsRequest(err))

	assert.Zero(t, fake.count())
}

func TestGetByID(t *testing.T) {
	c, fake := setup(t, nil)

	p, err := c.GetByID(context.Background(), 7)
	require.NoError(t, err)
	assert.Equal(t, 7, p.ID)
	assert.Equal(t, "/products/7", fake.last().Path)
}

func TestGetByID_NotFound(t *testing.T) {
	c, _ := setup(t, nil)

	_, err := c.GetByID(context.Background(), 404)
	assert.True(t, apperror.IsNotFound(err))
	assert.False(t, apperror.IsRequest(err))
}

func TestSearch_EncodesQuery(t *testing.T) {
	c, fake := setup(t, nil)

	page, err := c.Search(context.Background(), "phone & case")
	require.NoError(t, err)

	assert.Equal(t, "q=phone+%26+case", fake.last().Query)
	assert.Equal(t, 1, page.Total)
}

func TestSearchPage_SendsPaging(t *testing.T) {
	c, fake := setup(t, nil)

	_, err := c.SearchPage(context.Background(), "phone", 10, 10)
	require.NoError(t, err)
	assert.Equal(t, "limit=10&q=phone&skip=10", fake.last().Query)
}

func TestCreate_SendsBearerToken(t *testing.T) {
	c, fake := setup(t, nil)

	p, err := c.Create(context.Background(), "tok", domain.CreateProductData{
		Title:       "Phone",
		Description: "A good phone",
		Price:       99.5,
		Category:    "smartphones",
		Brand:       "Acme",
		Stock:       3,
	})
	require.NoError(t, err)
	assert.Equal(t, 195, p.ID)

	req := fake.last()
	assert.Equal(t, http.MethodPost, req.Method)
	assert.Equal(t, "Bearer tok", req.Auth)
	assert.Equal(t, "Phone", req.Body["title"])
	assert.Equal(t, 99.5, req.Body["price"])
}

func TestUpdate_SendsPartialBody(t *testing.T) {
	c, fake := setup(t, nil)
	price := 12.0

	_, err := c.Update(context.Background(), "tok", 1, domain.UpdateProductData{Price: &price})
	require.NoError(t, err)

	req := fake.last()
	assert.Equal(t, http.MethodPut, req.Method)
	assert.Equal(t, "/products/1", req.Path)
	assert.Equal(t, map[string]interface{}{"price": 12.0}, req.Body)
}

func TestDelete(t *testing.T) {
	c, fake := setup(t, nil)

	result, err := c.Delete(context.Background(), "tok", 1)
	require.NoError(t, err)
	assert.True(t, result.IsDeleted)
	assert.Equal(t, 1, result.ID)
	assert.Equal(t, 2024, result.DeletedOn.Year())
	assert.Equal(t, "Bearer tok", fake.last().Auth)
}

func TestDelete_FailureIsRequestError(t *testing.T) {
	c, _ := setup(t, nil)

	_, err := c.Delete(context.Background(), "tok", 999)
	assert.True(t, apperror.IsRequest(err))
	assert.False(t, apperror.IsNotFound(err))
}

func TestCategories_AcceptsBothShapes(t *testing.T) {
	c, fake := setup(t, nil)

	cats, err := c.Categories(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"beauty", "fragrances"}, cats)

	fake.categories = `[{"slug":"beauty","name":"Beauty","url":"https://dummyjson.com/products/category/beauty"},{"slug":"home-decoration","name":"Home Decoration"}]`
	cats, err = c.Categories(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"beauty", "home-decoration"}, cats)
}

func TestCategories_UsesCache(t *testing.T) {
	cache := &memoryCache{}
	c, fake := setup(t, cache)

	_, err := c.Categories(context.Background())
	require.NoError(t, err)
	_, err = c.Categories(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 1, fake.count())
	assert.Equal(t, 1, cache.sets)
}

func TestByCategory_EscapesName(t *testing.T) {
	c, fake := setup(t, nil)

	page, err := c.ByCategory(context.Background(), "home decoration")
	require.NoError(t, err)
	assert.Equal(t, "/products/category/home%20decoration", fake.last().Path)
	assert.Len(t, page.Products, 1)
}

func TestNewRedisCategoryCache_NilClient(t *testing.T) {
	assert.Nil(t, NewRedisCategoryCache(nil, "https://dummyjson.com", 0))
}
