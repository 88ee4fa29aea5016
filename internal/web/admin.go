package web

import (
	"context"
	"errors"
	"log"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/yu-ki/portfolio/internal/auth"
	"github.com/yu-ki/portfolio/internal/store"
)

const (
	adminCookieMaxAge = 3600 * 24
	visitorPageLimit  = 200
)

// hashedClient is the client address as it appears in logs.
func (s *Server) hashedClient(c *gin.Context) string {
	if s.store == nil {
		return "-"
	}
	return s.store.HashIP(c.ClientIP())
}

// Middleware to check admin authentication
func (s *Server) adminAuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		token, err := c.Cookie(auth.CookieName)
		if err != nil || !s.admin.ValidToken(token) {
			c.Redirect(http.StatusFound, "/admin/login")
			c.Abort()
			return
		}
		c.Next()
	}
}

// Privacy-conscious visitor tracking middleware
func (s *Server) visitorTrackingMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		path := c.Request.URL.Path
		if !trackedPath(path) || c.GetHeader("DNT") == "1" {
			c.Next()
			return
		}

		ctx := context.WithoutCancel(c.Request.Context())
		ip, ua := c.ClientIP(), c.GetHeader("User-Agent")
		s.track(func(st *store.Store) {
			logIf(st.RecordVisit(ctx, ip, ua, path), "Error recording visitor: %v")
		})
		c.Next()
	}
}

// trackedPath skips assets, admin pages, the privacy page and the
// fragment endpoints polled by the page itself.
func trackedPath(path string) bool {
	for _, prefix := range []string{
		"/static/", "/images/", "/admin", "/favicon", "/privacy",
		"/typing/", "/mascot", "/nav", "/theme/", "/events/", "/healthz",
	} {
		if strings.HasPrefix(path, prefix) {
			return false
		}
	}
	return true
}

func (s *Server) setupAdminRoutes(r *gin.Engine) {
	r.GET("/privacy", func(c *gin.Context) {
		c.HTML(http.StatusOK, "privacy.html", gin.H{
			"title":         "Privacy Policy",
			"retentionDays": int(s.opts.Retention.Hours() / 24),
		})
	})

	r.GET("/admin/login", func(c *gin.Context) {
		c.HTML(http.StatusOK, "admin-login.html", gin.H{
			"title":    "Admin Login",
			"disabled": s.admin == nil,
		})
	})

	r.POST("/admin/login", func(c *gin.Context) {
		username := c.PostForm("username")
		password := c.PostForm("password")

		if !s.admin.Check(username, password) {
			log.Printf("Failed admin login attempt from %s", s.hashedClient(c))
			c.HTML(http.StatusUnauthorized, "admin-login.html", gin.H{
				"title":    "Admin Login",
				"error":    "Invalid credentials",
				"disabled": s.admin == nil,
			})
			return
		}

		c.SetCookie(auth.CookieName, s.admin.Token(), adminCookieMaxAge, "/admin", "", false, true)
		log.Printf("Admin login successful from %s", s.hashedClient(c))
		c.Redirect(http.StatusFound, "/admin/dashboard")
	})

	r.GET("/admin/logout", func(c *gin.Context) {
		c.SetCookie(auth.CookieName, "", -1, "/admin", "", false, true)
		log.Printf("Admin logout from %s", s.hashedClient(c))
		c.Redirect(http.StatusFound, "/admin/login")
	})

	adminGroup := r.Group("/admin")
	adminGroup.Use(s.adminAuthMiddleware(), s.requireStore())

	adminGroup.GET("/dashboard", func(c *gin.Context) {
		stats, err := s.store.Stats(c.Request.Context())
		if err != nil {
			log.Printf("Error loading admin stats: %v", err)
			c.HTML(http.StatusInternalServerError, "admin-error.html", gin.H{
				"error": "Failed to load statistics",
			})
			return
		}
		c.HTML(http.StatusOK, "admin-dashboard.html", gin.H{
			"stats":         stats,
			"visitedCount":  len(s.catalog.Visited()),
			"wishlistCount": len(s.catalog.Wishlist()),
		})
	})

	adminGroup.GET("/api/stats", func(c *gin.Context) {
		stats, err := s.store.Stats(c.Request.Context())
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, stats)
	})

	adminGroup.GET("/visitors", func(c *gin.Context) {
		visitors, err := s.store.RecentVisitors(c.Request.Context(), visitorPageLimit)
		if err != nil {
			log.Printf("Error loading visitors: %v", err)
			c.HTML(http.StatusInternalServerError, "admin-error.html", gin.H{
				"error": "Failed to load visitors",
			})
			return
		}
		c.HTML(http.StatusOK, "admin-visitors.html", gin.H{
			"visitors": visitors,
		})
	})

	adminGroup.DELETE("/events/:name/views", func(c *gin.Context) {
		name := c.Param("name")

		n, err := s.store.DeleteEventViews(c.Request.Context(), name)
		if errors.Is(err, store.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "No views recorded for event"})
			return
		}
		if err != nil {
			log.Printf("Error deleting views of %s: %v", name, err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete event views"})
			return
		}

		log.Printf("Views of %s deleted by admin from %s", name, s.hashedClient(c))
		c.JSON(http.StatusOK, gin.H{"message": "Event views deleted", "deleted": n})
	})

	adminGroup.POST("/privacy/cleanup", func(c *gin.Context) {
		n, err := s.store.CleanupVisitors(c.Request.Context(), s.opts.Retention)
		if err != nil {
			log.Printf("Error cleaning up visitor data: %v", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Privacy cleanup failed"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "Privacy cleanup complete", "deleted": n})
	})

	adminGroup.GET("/export/stats", func(c *gin.Context) {
		stats, err := s.store.Stats(c.Request.Context())
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}

		c.Header("Content-Disposition", "attachment; filename=admin-stats.json")
		log.Printf("Admin stats exported by %s", s.hashedClient(c))
		c.JSON(http.StatusOK, stats)
	})
}

func (s *Server) requireStore() gin.HandlerFunc {
	return func(c *gin.Context) {
		if s.store == nil {
			c.HTML(http.StatusServiceUnavailable, "admin-error.html", gin.H{
				"error": "Analytics are disabled",
			})
			c.Abort()
			return
		}
		c.Next()
	}
}

// CleanupVisitors deletes analytics older than the retention period. It is
// run daily by the scheduler.
func (s *Server) CleanupVisitors(ctx context.Context) {
	if s.store == nil {
		return
	}
	n, err := s.store.CleanupVisitors(ctx, s.opts.Retention)
	if err != nil {
		log.Printf("Error cleaning up old visitor data: %v", err)
		return
	}
	if n > 0 {
		log.Printf("Privacy cleanup: removed %d records older than %s", n, s.opts.Retention)
	}
}
