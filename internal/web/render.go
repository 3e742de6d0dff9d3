package web

import (
	"bytes"
	"embed"
	"encoding/json"
	"fmt"
	"html/template"
	"math"
	"net/http"

	"github.com/shopspring/decimal"

	"github.com/tair/catalog-console/internal/catalog/domain"
	"github.com/tair/catalog-console/pkg/logger"
)

//go:embed templates
var templateFS embed.FS

var pageNames = []string{"login.html", "products.html", "detail.html", "not_found.html"}

// Renderer executes the embedded page templates
type Renderer struct {
	pages map[string]*template.Template
}

// NewRenderer parses every page together with the layout and partials
func NewRenderer() (*Renderer, error) {
	r := &Renderer{pages: make(map[string]*template.Template, len(pageNames))}
	for _, name := range pageNames {
		t, err := template.New(name).Funcs(templateFuncs).ParseFS(templateFS,
			"templates/layout.html",
			"templates/partials/*.html",
			"templates/"+name,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to parse template %s: %w", name, err)
		}
		r.pages[name] = t
	}
	return r, nil
}

// Render writes page with status; output is buffered so a template error
// still yields a clean 500
func (r *Renderer) Render(w http.ResponseWriter, req *http.Request, status int, page string, data interface{}) {
	t, ok := r.pages[page]
	if !ok {
		logger.Error(req.Context()).Str("page", page).Msg("Unknown page template")
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	var buf bytes.Buffer
	if err := t.ExecuteTemplate(&buf, "layout", data); err != nil {
		logger.Error(req.Context()).Err(err).Str("page", page).Msg("Failed to render template")
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(status)
	_, _ = buf.WriteTo(w)
}

var templateFuncs = template.FuncMap{
	"money": func(v float64) string {
		return "$" + decimal.NewFromFloat(v).StringFixed(2)
	},
	"percent": func(v float64) string {
		return decimal.NewFromFloat(v).Round(1).String() + "%"
	},
	"rating": func(v float64) string {
		return fmt.Sprintf("%.1f", v)
	},
	// stars reports for each of five stars whether it is filled
	"stars": func(rating float64) []bool {
		filled := int(math.Round(rating))
		out := make([]bool, 5)
		for i := range out {
			out[i] = i < filled
		}
		return out
	},
	"stockClass": func(level string) string {
		switch level {
		case domain.StockHigh:
			return "bg-green-100 text-green-800"
		case domain.StockMedium:
			return "bg-yellow-100 text-yellow-800"
		default:
			return "bg-red-100 text-red-800"
		}
	},
	"add": func(a, b int) int { return a + b },
	"fieldError": func(errs map[string]string, field string) string {
		return errs[field]
	},
}

// respondJSON writes v as JSON with status
func respondJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
