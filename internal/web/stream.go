package web

import (
	"context"
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/yu-ki/portfolio/internal/typing"
)

// revealSection is the section whose grids fade in once its title is typed.
const revealSection = "events"

func (s *Server) handleHeroTyping(c *gin.Context) {
	if err := s.streamTyping(c, s.content.HeroLines, s.opts.Hero); err != nil {
		return
	}
	c.SSEvent("done", "hero")
	c.Writer.Flush()
}

func (s *Server) handleSectionTyping(c *gin.Context) {
	id := c.Param("id")
	title, ok := s.content.SectionTitles[id]
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "unknown section"})
		return
	}

	if err := s.streamTyping(c, []string{title}, s.opts.Section); err != nil {
		return
	}
	c.SSEvent("done", id)
	c.Writer.Flush()

	if id != revealSection {
		return
	}
	timer := time.NewTimer(s.opts.RevealDelay)
	defer timer.Stop()
	select {
	case <-c.Request.Context().Done():
		return
	case <-timer.C:
	}
	c.SSEvent("reveal", id)
	c.Writer.Flush()
}

// streamTyping sends one "frame" event per typing tick. The stream ends
// early when the client goes away.
func (s *Server) streamTyping(c *gin.Context, lines []string, opts typing.Options) error {
	c.Header("Content-Type", "text/event-stream")
	c.Header("Cache-Control", "no-cache")
	c.Header("Connection", "keep-alive")
	c.Status(http.StatusOK)

	// Page copy is trusted, so frames go out as HTML.
	task := typing.NewTask(lines, opts, func(f typing.Frame) error {
		c.SSEvent("frame", f.HTML())
		c.Writer.Flush()
		return nil
	})
	task.Start(c.Request.Context())
	<-task.Done()

	err := task.Err()
	if err != nil && !errors.Is(err, context.Canceled) {
		log.Printf("Error streaming typing: %v", err)
	}
	return err
}
