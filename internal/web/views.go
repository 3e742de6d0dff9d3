package web

import (
	"strconv"

	"github.com/tair/catalog-console/internal/auth/domain"
	catalog "github.com/tair/catalog-console/internal/catalog/domain"
	"github.com/tair/catalog-console/internal/session"
	"github.com/tair/catalog-console/internal/validation"
)

// Layout carries what every page shows around its content
type Layout struct {
	Title string
	User  *domain.User
	Flash *session.Flash
	Error string // transient banner
}

// LoginView is the login page
type LoginView struct {
	Layout
	Username string
}

// ListingView is the product listing page
type ListingView struct {
	Layout
	State      ListingState
	Products   []catalog.Product
	Pagination Pagination
	Categories []string
	TableURL   string
	CardsURL   string
	ClearURL   string
	AddURL     string
	Form       *FormView
}

// EditURL opens the edit modal for id on top of the current listing
func (v ListingView) EditURL(id int) string {
	return withParams(v.State.URL(), "modal", FormEdit, "id", strconv.Itoa(id))
}

// DetailURL links to the detail page of id
func (v ListingView) DetailURL(id int) string {
	return "/products/" + strconv.Itoa(id)
}

// CategoryURL filters the listing by category, clearing any search
func (v ListingView) CategoryURL(category string) string {
	return ListingState{Page: 1, Category: category, ViewMode: v.State.ViewMode}.URL()
}

// DetailView is the product detail page
type DetailView struct {
	Layout
	Product       *catalog.Product
	Image         int
	ImageURL      string
	PrevImageURL  string
	NextImageURL  string
	Thumbnails    []Thumbnail
	EditURL       string
	ConfirmURL    string
	CancelURL     string
	ConfirmDelete bool
	Form          *FormView
}

// Thumbnail is one gallery thumbnail
type Thumbnail struct {
	URL      string
	Link     string
	Selected bool
}

// Form modes
const (
	FormAdd  = "add"
	FormEdit = "edit"
)

// FormView is the product modal form
type FormView struct {
	Mode       string
	Action     string
	CancelURL  string
	ReturnTo   string
	Origin     string // "listing" or "detail"
	Values     validation.FormValues
	Errors     map[string]string
	Categories []string
	Error      string
}

// Title is the modal heading
func (f *FormView) Title() string {
	if f.Mode == FormEdit {
		return "Edit Product"
	}
	return "Add Product"
}

// SubmitLabel is the submit button caption
func (f *FormView) SubmitLabel() string {
	if f.Mode == FormEdit {
		return "Save Changes"
	}
	return "Create Product"
}

// NotFoundView is the 404 page
type NotFoundView struct {
	Layout
	Message string
	BackURL string
}
