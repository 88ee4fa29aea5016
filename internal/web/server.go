// Package web is the gin front end of the portfolio: the page itself, the
// HTMX fragments and SSE streams behind its animations, the JSON classifier
// API and the admin pages.
package web

import (
	"embed"
	"html/template"
	"log"
	"math/rand"
	"net/http"
	"sync"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/gin-gonic/gin"

	"github.com/yu-ki/portfolio/internal/auth"
	"github.com/yu-ki/portfolio/internal/catalog"
	"github.com/yu-ki/portfolio/internal/classify"
	"github.com/yu-ki/portfolio/internal/mascot"
	"github.com/yu-ki/portfolio/internal/nav"
	"github.com/yu-ki/portfolio/internal/render"
	"github.com/yu-ki/portfolio/internal/store"
	"github.com/yu-ki/portfolio/internal/telemetry"
	"github.com/yu-ki/portfolio/internal/typing"
)

//go:embed templates/*.html
var templateFS embed.FS

// Content is the copy shown on the page.
type Content struct {
	Title     string
	HeroLines []string
	AboutMe   string
	// SectionTitles maps section ids to the headings typed on scroll.
	SectionTitles map[string]string
	// Sections are the default section offsets used when the page does not
	// report its own.
	Sections []nav.Section
	Links    []nav.Link
}

// Options tunes the server's timings and thresholds.
type Options struct {
	ProximityKm float64
	Retention   time.Duration
	Hero        typing.Options
	Section     typing.Options
	// RevealDelay is the pause between the events heading finishing and
	// the event grids fading in.
	RevealDelay time.Duration
}

func DefaultOptions() Options {
	section := typing.DefaultOptions()
	section.StartDelay = 0
	return Options{
		ProximityKm: classify.DefaultThresholdKm,
		Retention:   365 * 24 * time.Hour,
		Hero:        typing.DefaultOptions(),
		Section:     section,
		RevealDelay: 400 * time.Millisecond,
	}
}

// Deps are the collaborators of a Server. Store, Admin and MapData may be
// nil: tracking, admin login and the map API are then disabled.
type Deps struct {
	Catalog *catalog.Catalog
	Bubble  *mascot.Bubble
	Store   *store.Store
	Admin   *auth.Admin
	Content Content
	MapData []byte
}

type Server struct {
	catalog    *catalog.Catalog
	classifier *classify.Classifier
	page       *render.Page
	bubble     *mascot.Bubble
	store      *store.Store
	admin      *auth.Admin
	content    Content
	mapData    []byte
	opts       Options
	templates  *template.Template

	// tracking counts background analytics writes.
	tracking sync.WaitGroup
}

func NewServer(d Deps, opts Options) (*Server, error) {
	tmpl, err := template.New("").Funcs(templateFuncs).ParseFS(templateFS, "templates/*.html")
	if err != nil {
		return nil, err
	}

	cat := d.Catalog
	if cat == nil {
		cat = catalog.Default()
	}
	bubble := d.Bubble
	if bubble == nil {
		bubble = mascot.NewBubble(mascot.DefaultMessages, rand.New(rand.NewSource(time.Now().UnixNano())), nil)
	}

	if opts.ProximityKm <= 0 {
		opts.ProximityKm = classify.DefaultThresholdKm
	}
	if opts.Retention <= 0 {
		opts.Retention = DefaultOptions().Retention
	}

	s := &Server{
		catalog:    cat,
		classifier: classify.New(cat),
		page:       render.NewPage(render.VisitedGridID, render.WishlistGridID),
		bubble:     bubble,
		store:      d.Store,
		admin:      d.Admin,
		content:    d.Content,
		mapData:    d.MapData,
		opts:       opts,
		templates:  tmpl,
	}

	// The catalog never changes, so the grids are rendered once.
	render.NewRenderer(s).RenderCatalog(s.page, cat)
	return s, nil
}

var templateFuncs = template.FuncMap{
	"comma": humanize.Comma,
	"ago":   humanize.Time,
	"km": func(v float64) string {
		return humanize.FtoaWithDigits(v, 1) + " km"
	},
}

// Handler builds the gin engine with every route.
func (s *Server) Handler() *gin.Engine {
	r := gin.Default()
	r.SetHTMLTemplate(s.templates)
	r.Use(telemetry.RequestID(), telemetry.Middleware())
	r.Use(s.visitorTrackingMiddleware())

	r.Static("/static", "./static")

	r.GET("/", s.handleIndex)
	r.GET("/healthz", func(c *gin.Context) { c.String(http.StatusOK, "ok") })
	r.GET("/events/:status/:index", s.handleEventModal)
	r.GET("/typing/hero", s.handleHeroTyping)
	r.GET("/typing/section/:id", s.handleSectionTyping)
	r.GET("/mascot", s.handleMascot)
	r.POST("/mascot/poke", s.handlePoke)
	r.POST("/theme/toggle", s.handleThemeToggle)
	r.GET("/nav", s.handleNav)

	api := r.Group("/api")
	api.GET("/events", s.handleAPIEvents)
	api.GET("/status", s.handleAPIStatus)
	api.GET("/status/point", s.handleAPIPointStatus)
	api.GET("/map", s.handleAPIMap)

	s.setupAdminRoutes(r)
	return r
}

// Wait blocks until background analytics writes have finished.
func (s *Server) Wait() {
	s.tracking.Wait()
}

// track runs fn in the background when analytics are enabled.
func (s *Server) track(fn func(*store.Store)) {
	if s.store == nil {
		return
	}
	s.tracking.Add(1)
	go func() {
		defer s.tracking.Done()
		fn(s.store)
	}()
}

func (s *Server) renderError(c *gin.Context, status int, msg string) {
	c.HTML(status, "error.html", gin.H{"error": msg})
}

func logIf(err error, format string) {
	if err != nil {
		log.Printf(format, err)
	}
}
