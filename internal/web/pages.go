package web

import (
	"context"
	"html/template"
	"io"
	"log"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/yu-ki/portfolio/internal/catalog"
	"github.com/yu-ki/portfolio/internal/nav"
	"github.com/yu-ki/portfolio/internal/render"
	"github.com/yu-ki/portfolio/internal/store"
	"github.com/yu-ki/portfolio/internal/theme"
)

func (s *Server) handleIndex(c *gin.Context) {
	visited, err := s.gridHTML(render.VisitedGridID)
	if err != nil {
		log.Printf("Error rendering visited events: %v", err)
		s.renderError(c, http.StatusInternalServerError, "Failed to render events")
		return
	}
	wishlist, err := s.gridHTML(render.WishlistGridID)
	if err != nil {
		log.Printf("Error rendering wishlist events: %v", err)
		s.renderError(c, http.StatusInternalServerError, "Failed to render events")
		return
	}

	t := theme.Load(cookieStore{c})
	msg, visible := s.bubble.Current()

	c.HTML(http.StatusOK, "index.html", gin.H{
		"title":         s.content.Title,
		"theme":         t,
		"heroLines":     s.content.HeroLines,
		"aboutMe":       s.content.AboutMe,
		"sectionTitles": s.content.SectionTitles,
		"nav":           s.navData(nav.Active(s.content.Sections, 0), nav.Menu{}),
		"mascot":        gin.H{"message": msg, "visible": visible},
		"visitedGrid":   visited,
		"wishlistGrid":  wishlist,
		"visitedCount":  len(s.catalog.Visited()),
		"wishlistCount": len(s.catalog.Wishlist()),
		"mapEnabled":    s.mapData != nil,
	})
}

func (s *Server) gridHTML(id string) (template.HTML, error) {
	container, ok := s.page.Container(id)
	if !ok {
		return "", nil
	}
	return container.HTML()
}

// OpenEventModal writes the event detail fragment.
func (s *Server) OpenEventModal(w io.Writer, rec catalog.TaggedRecord) error {
	return s.templates.ExecuteTemplate(w, "event-modal.html", gin.H{
		"event":      rec,
		"typeLabel":  rec.Type.Label(),
		"statusText": rec.Status.Text(),
		"photo":      rec.FirstPhoto(),
	})
}

func (s *Server) handleEventModal(c *gin.Context) {
	status, ok := catalog.ParseStatus(c.Param("status"))
	if !ok || status == catalog.StatusNone {
		s.renderError(c, http.StatusNotFound, "Unknown event list")
		return
	}
	index, err := strconv.Atoi(c.Param("index"))
	if err != nil {
		s.renderError(c, http.StatusBadRequest, "Invalid event index")
		return
	}

	gridID := render.VisitedGridID
	if status == catalog.StatusWishlist {
		gridID = render.WishlistGridID
	}
	container, _ := s.page.Container(gridID)
	card, ok := container.Card(index)
	if !ok {
		s.renderError(c, http.StatusNotFound, "Event not found")
		return
	}

	c.Header("Content-Type", "text/html; charset=utf-8")
	c.Status(http.StatusOK)
	if err := card.Click(c.Writer); err != nil {
		log.Printf("Error rendering event modal: %v", err)
		return
	}

	if c.GetHeader("DNT") != "1" {
		ctx, ip := context.WithoutCancel(c.Request.Context()), c.ClientIP()
		s.track(func(st *store.Store) {
			logIf(st.RecordEventView(ctx, card.Record, ip), "Error recording event view: %v")
		})
	}
}

func (s *Server) handleMascot(c *gin.Context) {
	msg, visible := s.bubble.Current()
	c.HTML(http.StatusOK, "mascot.html", gin.H{"message": msg, "visible": visible})
}

func (s *Server) handlePoke(c *gin.Context) {
	msg := s.bubble.Poke()
	c.HTML(http.StatusOK, "mascot.html", gin.H{"message": msg, "visible": msg != ""})
}

// cookieStore persists the theme in a cookie. Dark is stored as no cookie.
type cookieStore struct {
	c *gin.Context
}

func (s cookieStore) Get(key string) (string, bool) {
	v, err := s.c.Cookie(key)
	if err != nil {
		return "", false
	}
	return v, true
}

func (s cookieStore) Set(key, value string) {
	if value != string(theme.Light) {
		s.c.SetCookie(key, "", -1, "/", "", false, false)
		return
	}
	s.c.SetCookie(key, value, 365*24*3600, "/", "", false, false)
}

func (s *Server) handleThemeToggle(c *gin.Context) {
	t := theme.Toggle(cookieStore{c})
	c.Header("HX-Trigger", "theme-changed")
	c.HTML(http.StatusOK, "theme-toggle.html", gin.H{"theme": t})
}

func (s *Server) navData(current string, menu nav.Menu) gin.H {
	return gin.H{
		"links":     nav.Highlight(s.content.Links, current),
		"menuClass": menu.Class(),
		"current":   current,
	}
}

func (s *Server) handleNav(c *gin.Context) {
	y, err := strconv.ParseFloat(c.DefaultQuery("y", "0"), 64)
	if err != nil {
		c.HTML(http.StatusBadRequest, "error.html", gin.H{"error": "Invalid scroll position"})
		return
	}

	sections := s.content.Sections
	if raw := c.Query("sections"); raw != "" {
		parsed, err := nav.ParseSections(raw)
		if err != nil {
			log.Printf("Warning: ignoring section offsets: %v", err)
		} else {
			sections = parsed
		}
	}

	// menu=toggle flips the state reported in open=1; menu=close follows a
	// link click.
	menu := nav.Menu{Open: c.Query("open") == "1"}
	switch c.Query("menu") {
	case "open":
		menu.Open = true
	case "toggle":
		menu.Toggle()
	case "close":
		menu.Close()
	}

	c.HTML(http.StatusOK, "nav.html", s.navData(nav.Active(sections, y), menu))
}
