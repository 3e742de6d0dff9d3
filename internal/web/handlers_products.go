package web

import (
	"context"
	"errors"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/gorilla/mux"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"

	"github.com/tair/catalog-console/internal/apperror"
	"github.com/tair/catalog-console/internal/catalog/domain"
	"github.com/tair/catalog-console/internal/session"
	"github.com/tair/catalog-console/internal/validation"
	"github.com/tair/catalog-console/kafka"
	"github.com/tair/catalog-console/pkg/logger"
)

const (
	msgLoadFailed        = "Failed to load products"
	msgSearchFailed      = "Failed to search products"
	msgProductNotFound   = "Product not found"
	msgProductLoadFailed = "Failed to load product"
	msgCreated           = "Product created successfully!"
	msgUpdated           = "Product updated successfully!"
	msgDeleted           = "Product deleted successfully"
	msgCreateFailed      = "Failed to create product. Please try again."
	msgUpdateFailed      = "Failed to update product. Please try again."
	msgDeleteFailed      = "Failed to delete product. Please try again."
)

const (
	originListing = "listing"
	originDetail  = "detail"
)

// handleListing handles GET /products
func (s *Server) handleListing(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	state := ParseListingState(q)

	var (
		form   *FormView
		editID int
	)
	switch q.Get("modal") {
	case FormAdd:
		form = s.newForm(FormAdd, "/products", state.URL(), originListing, validation.FormValues{})
	case FormEdit:
		editID, _ = strconv.Atoi(q.Get("id"))
	}

	s.renderListing(w, r, http.StatusOK, state, form, editID)
}

// renderListing fetches the page (and categories, and the product being edited)
// concurrently under the request context and renders the listing
func (s *Server) renderListing(w http.ResponseWriter, r *http.Request, status int, state ListingState, form *FormView, editID int) {
	ctx := r.Context()

	var (
		page       *domain.ProductPage
		categories []string
		editing    *domain.Product
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		p, err := s.fetchListing(gctx, state)
		page = p
		return err
	})
	g.Go(func() error {
		cats, err := s.catalog.Categories(gctx)
		if err != nil {
			logger.Warn(ctx).Err(err).Msg("Failed to load categories, using defaults")
			cats = domain.Categories
		}
		categories = cats
		return nil
	})
	if editID > 0 {
		g.Go(func() error {
			p, err := s.catalog.GetByID(gctx, editID)
			if err != nil {
				logger.Warn(ctx).Err(err).Int("product_id", editID).Msg("Failed to load product for editing")
				return nil
			}
			editing = p
			return nil
		})
	}
	err := g.Wait()

	view := ListingView{
		Layout:     s.layout(r, "Products"),
		Categories: categories,
		Form:       form,
	}

	if err != nil {
		logger.Error(ctx).
			Err(err).
			Str("query", state.Query).
			Int("page", state.Page).
			Msg("Failed to fetch product listing")
		view.Error = msgLoadFailed
		if state.Searching() {
			view.Error = msgSearchFailed
		}
		if status == http.StatusOK {
			status = http.StatusBadGateway
		}
	} else {
		view.Products = page.Products
		state.Total = page.Total
	}

	if editID > 0 && form == nil {
		if editing != nil {
			view.Form = s.newForm(FormEdit, "/products/"+strconv.Itoa(editID), state.URL(), originListing,
				validation.FormValuesFromProduct(*editing))
		} else if view.Error == "" {
			view.Error = msgProductNotFound
		}
	}

	view.State = state
	view.Pagination = Paginate(state)
	view.TableURL = state.WithView(ViewTable).URL()
	view.CardsURL = state.WithView(ViewCards).URL()
	view.ClearURL = ListingState{Page: 1, ViewMode: state.ViewMode}.URL()
	view.AddURL = withParams(state.URL(), "modal", FormAdd)

	s.views.Render(w, r, status, "products.html", view)
}

// fetchListing picks the gateway call for the state. A blank query never
// reaches the search endpoint.
func (s *Server) fetchListing(ctx context.Context, state ListingState) (*domain.ProductPage, error) {
	switch {
	case state.Searching():
		return s.catalog.SearchPage(ctx, state.Query, state.PageSize, state.Skip())
	case state.Category != "":
		return s.catalog.ByCategoryPage(ctx, state.Category, state.PageSize, state.Skip())
	default:
		return s.catalog.List(ctx, state.PageSize, state.Skip())
	}
}

// handleDetail handles GET /products/{id}
func (s *Server) handleDetail(w http.ResponseWriter, r *http.Request) {
	id := routeID(r)
	q := r.URL.Query()
	image, _ := strconv.Atoi(q.Get("image"))

	s.renderDetail(w, r, detailRender{
		status:        http.StatusOK,
		id:            id,
		image:         image,
		editFromModel: q.Get("modal") == FormEdit,
		confirmDelete: q.Get("confirm") == "delete",
	})
}

type detailRender struct {
	status        int
	id            int
	image         int
	form          *FormView
	editFromModel bool
	confirmDelete bool
	errMsg        string
}

func (s *Server) renderDetail(w http.ResponseWriter, r *http.Request, d detailRender) {
	ctx := r.Context()
	layout := s.layout(r, "Product")

	product, err := s.catalog.GetByID(ctx, d.id)
	if err != nil {
		if apperror.IsNotFound(err) {
			s.views.Render(w, r, http.StatusNotFound, "not_found.html", NotFoundView{
				Layout:  layout,
				Message: msgProductNotFound,
				BackURL: "/products",
			})
			return
		}

		logger.Error(ctx).Err(err).Int("product_id", d.id).Msg("Failed to load product")
		layout.Error = msgProductLoadFailed
		s.views.Render(w, r, http.StatusBadGateway, "detail.html", DetailView{Layout: layout, CancelURL: "/products"})
		return
	}

	base := "/products/" + strconv.Itoa(product.ID)
	layout.Title = product.Title
	if d.errMsg != "" {
		layout.Error = d.errMsg
	}

	view := DetailView{
		Layout:        layout,
		Product:       product,
		EditURL:       withParams(base, "modal", FormEdit),
		ConfirmURL:    withParams(base, "confirm", "delete"),
		CancelURL:     base,
		ConfirmDelete: d.confirmDelete,
		Form:          d.form,
	}

	images := product.Images
	if len(images) == 0 && product.Thumbnail != "" {
		images = []string{product.Thumbnail}
	}
	if n := len(images); n > 0 {
		i := ((d.image % n) + n) % n
		view.Image = i
		view.ImageURL = images[i]
		if n > 1 {
			view.PrevImageURL = withParams(base, "image", strconv.Itoa((i-1+n)%n))
			view.NextImageURL = withParams(base, "image", strconv.Itoa((i+1)%n))
		}
		for k, img := range images {
			view.Thumbnails = append(view.Thumbnails, Thumbnail{
				URL:      img,
				Link:     withParams(base, "image", strconv.Itoa(k)),
				Selected: k == i,
			})
		}
	}

	if d.editFromModel && view.Form == nil {
		view.Form = s.newForm(FormEdit, base, base, originDetail, validation.FormValuesFromProduct(*product))
	}

	s.views.Render(w, r, d.status, "detail.html", view)
}

// handleCreate handles POST /products
func (s *Server) handleCreate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	values := formValues(r)
	returnTo := safeReturn(r.PostFormValue("return"), "/products")
	state := stateFromURL(returnTo)

	form := s.newForm(FormAdd, "/products", returnTo, originListing, values)
	if errs := validation.ValidateForm(values); len(errs) > 0 {
		form.Errors = errs
		s.renderListing(w, r, http.StatusUnprocessableEntity, state, form, 0)
		return
	}

	token, ok := s.bearerToken(w, r)
	if !ok {
		return
	}

	product, err := s.catalog.Create(ctx, token, values.ToCreateData())
	if err != nil {
		logger.Error(ctx).Err(err).Msg("Failed to create product")
		form.Error = msgCreateFailed
		s.renderListing(w, r, http.StatusBadGateway, state, form, 0)
		return
	}

	s.publishChange(r, kafka.EventTypeProductCreated, product.ID, product.Title, &product.Price)
	s.setFlash(r, session.FlashSuccess, msgCreated)
	http.Redirect(w, r, returnTo, http.StatusSeeOther)
}

// handleUpdate handles POST /products/{id}
func (s *Server) handleUpdate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id := routeID(r)
	base := "/products/" + strconv.Itoa(id)
	values := formValues(r)

	origin := originListing
	fallback := "/products"
	if r.PostFormValue("origin") == originDetail {
		origin = originDetail
		fallback = base
	}
	returnTo := safeReturn(r.PostFormValue("return"), fallback)

	form := s.newForm(FormEdit, base, returnTo, origin, values)
	rerender := func(status int) {
		if origin == originDetail {
			s.renderDetail(w, r, detailRender{status: status, id: id, form: form})
			return
		}
		s.renderListing(w, r, status, stateFromURL(returnTo), form, 0)
	}

	if errs := validation.ValidateForm(values); len(errs) > 0 {
		form.Errors = errs
		rerender(http.StatusUnprocessableEntity)
		return
	}

	token, ok := s.bearerToken(w, r)
	if !ok {
		return
	}

	data := values.ToUpdateData()
	product, err := s.catalog.Update(ctx, token, id, data)
	if err != nil {
		logger.Error(ctx).Err(err).Int("product_id", id).Msg("Failed to update product")
		form.Error = msgUpdateFailed
		rerender(http.StatusBadGateway)
		return
	}

	s.publishChange(r, kafka.EventTypeProductUpdated, id, product.Title, data.Price)
	s.setFlash(r, session.FlashSuccess, msgUpdated)
	http.Redirect(w, r, returnTo, http.StatusSeeOther)
}

// handleDelete handles POST /products/{id}/delete and lands on the listing
func (s *Server) handleDelete(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id := routeID(r)

	token, ok := s.bearerToken(w, r)
	if !ok {
		return
	}

	result, err := s.catalog.Delete(ctx, token, id)
	if err != nil {
		logger.Error(ctx).Err(err).Int("product_id", id).Msg("Failed to delete product")
		s.renderDetail(w, r, detailRender{status: http.StatusBadGateway, id: id, errMsg: msgDeleteFailed})
		return
	}

	s.publishChange(r, kafka.EventTypeProductDeleted, id, result.Title, nil)
	s.setFlash(r, session.FlashSuccess, msgDeleted)
	http.Redirect(w, r, "/products", http.StatusSeeOther)
}

// bearerToken loads the persisted token; without one the user is sent to login
func (s *Server) bearerToken(w http.ResponseWriter, r *http.Request) (string, bool) {
	ctx := r.Context()
	token, err := s.sessions.Store().Token(ctx, session.FromContext(ctx).SID)
	if err != nil || token == "" {
		if err != nil && !errors.Is(err, session.ErrNoSession) {
			logger.Error(ctx).Err(err).Msg("Failed to read session token")
		}
		http.Redirect(w, r, "/login", http.StatusSeeOther)
		return "", false
	}
	return token, true
}

// publishChange emits an audit event; failures never affect the response
func (s *Server) publishChange(r *http.Request, eventType string, productID int, title string, price *float64) {
	if s.audit == nil {
		return
	}
	ctx := r.Context()

	event := kafka.ProductChangedEvent{
		EventType: eventType,
		ProductID: productID,
		Title:     title,
		RequestID: logger.RequestIDFromContext(ctx),
	}
	if price != nil {
		d := decimal.NewFromFloat(*price)
		event.Price = &d
	}
	if u := session.FromContext(ctx).User; u != nil {
		event.UserID = u.ID
		event.Username = u.Username
	}

	if err := s.audit.PublishProductChanged(ctx, event); err != nil {
		logger.Warn(ctx).Err(err).Str("event_type", eventType).Msg("Failed to publish audit event")
	}
}

func (s *Server) newForm(mode, action, returnTo, origin string, values validation.FormValues) *FormView {
	return &FormView{
		Mode:       mode,
		Action:     action,
		CancelURL:  returnTo,
		ReturnTo:   returnTo,
		Origin:     origin,
		Values:     values,
		Errors:     map[string]string{},
		Categories: categoryOptions(values.Category),
	}
}

// categoryOptions is the fixed category list, extended with current when the
// product carries a category outside it
func categoryOptions(current string) []string {
	if current == "" || domain.IsKnownCategory(current) {
		return domain.Categories
	}
	return append(append([]string{}, domain.Categories...), current)
}

func formValues(r *http.Request) validation.FormValues {
	return validation.FormValues{
		Title:              r.PostFormValue(validation.FieldTitle),
		Description:        r.PostFormValue(validation.FieldDescription),
		Price:              r.PostFormValue(validation.FieldPrice),
		Category:           r.PostFormValue(validation.FieldCategory),
		Brand:              r.PostFormValue(validation.FieldBrand),
		Stock:              r.PostFormValue(validation.FieldStock),
		DiscountPercentage: r.PostFormValue(validation.FieldDiscountPercentage),
	}
}

func routeID(r *http.Request) int {
	id, _ := strconv.Atoi(mux.Vars(r)["id"])
	return id
}

// safeReturn accepts only local /products URLs and strips modal parameters
func safeReturn(raw, fallback string) string {
	if raw == "" || !strings.HasPrefix(raw, "/products") || strings.HasPrefix(raw, "//") {
		return fallback
	}
	u, err := url.Parse(raw)
	if err != nil || u.IsAbs() || u.Host != "" {
		return fallback
	}

	q := u.Query()
	for _, k := range []string{"modal", "id", "confirm"} {
		q.Del(k)
	}
	u.RawQuery = q.Encode()
	return u.String()
}

func stateFromURL(raw string) ListingState {
	u, err := url.Parse(raw)
	if err != nil || u.Path != "/products" {
		return ParseListingState(url.Values{})
	}
	return ParseListingState(u.Query())
}

// withParams appends key/value pairs to a local URL
func withParams(base string, kv ...string) string {
	u, err := url.Parse(base)
	if err != nil {
		return base
	}
	q := u.Query()
	for i := 0; i+1 < len(kv); i += 2 {
		q.Set(kv[i], kv[i+1])
	}
	u.RawQuery = q.Encode()
	return u.String()
}
