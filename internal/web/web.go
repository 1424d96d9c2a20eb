package web

import (
	"embed"
	"errors"
	"fmt"
	"html/template"
	"io"
	"net/http"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/ytblog/internal/product"
	"github.com/desertthunder/ytblog/internal/render"
	"github.com/desertthunder/ytblog/internal/shared"
)

//go:embed templates/*.html
var templateFS embed.FS

const maxFormBody = 1 << 14

// Pages serves the landing and product pages.
type Pages struct {
	backend product.Backend
	tmpl    *template.Template
	css     string
	logger  *log.Logger
}

// productPage is the data handed to product.html.
type productPage struct {
	View   product.View
	Panel  string
	Notice string
	HTML   template.HTML
	Label  string
}

// NewPages parses the embedded templates.
func NewPages(backend product.Backend, logger *log.Logger) (*Pages, error) {
	if logger == nil {
		logger = log.New(io.Discard)
	}

	tmpl, err := template.ParseFS(templateFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("failed to parse templates: %w", err)
	}

	return &Pages{
		backend: backend,
		tmpl:    tmpl,
		css:     render.Stylesheet(),
		logger:  logger,
	}, nil
}

// Routes returns the HTTP routes this handler serves.
func (p *Pages) Routes() []string {
	return []string{"/{$}", "/product", "/static/highlight.css"}
}

// ServeHTTP dispatches on path and method.
func (p *Pages) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	switch {
	case r.URL.Path == "/" && r.Method == http.MethodGet:
		p.execute(w, http.StatusOK, "landing.html", nil)
	case r.URL.Path == "/product" && r.Method == http.MethodGet:
		p.renderProduct(w, http.StatusOK, product.View{State: product.Idle}, "")
	case r.URL.Path == "/product" && r.Method == http.MethodPost:
		p.generate(w, r)
	case r.URL.Path == "/static/highlight.css" && r.Method == http.MethodGet:
		w.Header().Set("Content-Type", "text/css; charset=utf-8")
		w.Header().Set("Cache-Control", "public, max-age=3600")
		io.WriteString(w, p.css)
	default:
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}

func (p *Pages) generate(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxFormBody)
	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form", http.StatusBadRequest)
		return
	}

	ctrl := product.NewController(product.Options{
		Backend:  p.backend,
		Schedule: product.DefaultSchedule[:1],
		Logger:   p.logger,
	})

	view, err := ctrl.Submit(r.Context(), r.PostFormValue("video_url"))
	switch {
	case errors.Is(err, shared.ErrEmptyInput):
		p.renderProduct(w, http.StatusBadRequest, view, product.EmptyInputNotice)
	case err != nil:
		p.renderProduct(w, http.StatusConflict, view, err.Error())
	default:
		p.renderProduct(w, http.StatusOK, view, "")
	}
}

func (p *Pages) renderProduct(w http.ResponseWriter, status int, view product.View, notice string) {
	p.execute(w, status, "product.html", productPage{
		View:   view,
		Panel:  view.Panel().String(),
		Notice: notice,
		HTML:   template.HTML(view.HTML), // sanitized by render.Markdown
		Label:  product.TriggerLabel,
	})
}

func (p *Pages) execute(w http.ResponseWriter, status int, name string, data any) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if err := p.tmpl.ExecuteTemplate(w, name, data); err != nil {
		p.logger.Error("failed to render template", "template", name, "error", err)
	}
}
