package web

import (
	"net/url"
	"strconv"
	"strings"
)

// PageSize is the fixed number of products per listing page
const PageSize = 10

// View modes of the listing
const (
	ViewTable = "table"
	ViewCards = "cards"
)

// ListingState is the listing page state carried in the query string
type ListingState struct {
	Page     int
	PageSize int
	Total    int
	Query    string
	Category string
	ViewMode string
}

// ParseListingState reads the listing state from query parameters. A blank
// query is treated as no query.
func ParseListingState(q url.Values) ListingState {
	page, err := strconv.Atoi(q.Get("page"))
	if err != nil || page < 1 {
		page = 1
	}

	view := q.Get("view")
	if view != ViewCards {
		view = ViewTable
	}

	return ListingState{
		Page:     page,
		PageSize: PageSize,
		Query:    strings.TrimSpace(q.Get("q")),
		Category: strings.TrimSpace(q.Get("category")),
		ViewMode: view,
	}
}

// Skip is the number of products before the current page
func (s ListingState) Skip() int {
	return (s.Page - 1) * s.PageSize
}

// Searching reports whether a non-blank query is active
func (s ListingState) Searching() bool {
	return s.Query != ""
}

// Pages is ceil(Total / PageSize)
func (s ListingState) Pages() int {
	if s.PageSize <= 0 || s.Total <= 0 {
		return 0
	}
	return (s.Total + s.PageSize - 1) / s.PageSize
}

// URL builds the listing URL for this state, dropping defaults
func (s ListingState) URL() string {
	v := url.Values{}
	if s.Page > 1 {
		v.Set("page", strconv.Itoa(s.Page))
	}
	if s.Query != "" {
		v.Set("q", s.Query)
	}
	if s.Category != "" {
		v.Set("category", s.Category)
	}
	if s.ViewMode == ViewCards {
		v.Set("view", ViewCards)
	}
	if len(v) == 0 {
		return "/products"
	}
	return "/products?" + v.Encode()
}

// WithPage returns a copy of s positioned on page
func (s ListingState) WithPage(page int) ListingState {
	s.Page = page
	return s
}

// WithView returns a copy of s using the given view mode
func (s ListingState) WithView(view string) ListingState {
	s.ViewMode = view
	return s
}

// PageLink is one numbered pagination button
type PageLink struct {
	Number  int
	URL     string
	Current bool
}

// Pagination is the footer of the listing
type Pagination struct {
	Page    int
	Pages   int
	Total   int
	From    int
	To      int
	HasPrev bool
	HasNext bool
	PrevURL string
	NextURL string
	Window  []PageLink
}

// Paginate computes the footer for s
func Paginate(s ListingState) Pagination {
	pages := s.Pages()
	p := Pagination{
		Page:  s.Page,
		Pages: pages,
		Total: s.Total,
	}
	if s.Total == 0 {
		return p
	}

	// past the last page: empty range, previous goes back to the last page
	if s.Skip() >= s.Total {
		p.HasPrev = true
		p.PrevURL = s.WithPage(pages).URL()
		for _, n := range PageWindow(pages, pages) {
			p.Window = append(p.Window, PageLink{Number: n, URL: s.WithPage(n).URL()})
		}
		return p
	}

	p.From = s.Skip() + 1
	p.To = min(s.Page*s.PageSize, s.Total)
	p.HasPrev = s.Page > 1
	p.HasNext = s.Page < pages
	if p.HasPrev {
		p.PrevURL = s.WithPage(s.Page - 1).URL()
	}
	if p.HasNext {
		p.NextURL = s.WithPage(s.Page + 1).URL()
	}

	for _, n := range PageWindow(s.Page, pages) {
		p.Window = append(p.Window, PageLink{
			Number:  n,
			URL:     s.WithPage(n).URL(),
			Current: n == s.Page,
		})
	}
	return p
}

// PageWindow returns up to three page numbers around current
func PageWindow(current, pages int) []int {
	n := min(3, pages)
	window := make([]int, 0, n)
	for i := 0; i < n; i++ {
		var number int
		switch {
		case pages <= 3, current <= 2:
			number = i + 1
		case current >= pages-1:
			number = pages - 2 + i
		default:
			number = current - 1 + i
		}
		window = append(window, number)
	}
	return window
}
