package web

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/Zachkp/devfolio/internal/contact"
	"github.com/Zachkp/devfolio/internal/navigation"
	"github.com/Zachkp/devfolio/internal/typewriter"
)

const themeCookie = "color_mode"

var themeModes = map[string]bool{"light": true, "dark": true, "system": true}

func themeFrom(c *gin.Context) string {
	mode, err := c.Cookie(themeCookie)
	if err != nil || !themeModes[mode] {
		return "system"
	}
	return mode
}

// Home page: every section in order.
func (s *Server) handleHome(c *gin.Context) {
	c.HTML(http.StatusOK, "index.html", gin.H{
		"site":     s.site,
		"sections": s.sections,
		"theme":    themeFrom(c),
		"headline": s.firstFrame(),
		"form":     contactFormData(contact.Notification{}, false),
	})
}

// firstFrame is shown before the typewriter stream connects.
func (s *Server) firstFrame() typewriter.Frame {
	roles := s.site.Roles()
	return typewriter.Frame{Text: roles.Role(0), Phase: typewriter.Typing.String(), Role: roles.Role(0)}
}

// Navbar items and hero buttons ask here to be scrolled to a section.
// Unknown sections get an empty 204 and no scroll.
func (s *Server) handleNavigate(c *gin.Context) {
	id := navigation.Normalize(c.Param("section"))
	surface := s.sections.Bind(c.Writer.Header())
	s.scroll(surface, id)

	if !surface.Requested() {
		s.logger.Debug("navigate to unknown section", zap.String("section", id))
		c.Status(http.StatusNoContent)
		return
	}
	c.Status(http.StatusOK)
}

func (s *Server) handleTheme(c *gin.Context) {
	mode := c.Param("mode")
	if !themeModes[mode] {
		c.String(http.StatusBadRequest, "unknown color mode")
		return
	}
	c.SetCookie(themeCookie, mode, 3600*24*365, "/", "", false, false)
	if c.GetHeader("HX-Request") == "true" {
		c.Header("HX-Refresh", "true")
		c.Status(http.StatusNoContent)
		return
	}
	c.Redirect(http.StatusSeeOther, "/")
}

func contactFormData(n contact.Notification, submitted bool) gin.H {
	h := gin.H{
		"values":    n.Form,
		"submitted": submitted,
	}
	if !submitted {
		return h
	}
	h["message"] = n.Message
	h["missing"] = n.Missing
	switch n.Outcome {
	case contact.Delivered:
		h["kind"] = "success"
	case contact.Invalid:
		h["kind"] = "warning"
	default:
		h["kind"] = "error"
	}
	return h
}

// HTMX contact form fragment.
func (s *Server) handleContactForm(c *gin.Context) {
	c.HTML(http.StatusOK, "contact.html", contactFormData(contact.Notification{}, false))
}

// Handle contact form submission with HTMX. Exactly one notification is
// rendered per attempt.
func (s *Server) handleContactSubmit(c *gin.Context) {
	var sub contact.Submission
	if err := c.ShouldBind(&sub); err != nil {
		s.logger.Debug("contact bind failed", zap.Error(err))
	}
	n := s.contact.Submit(c.Request.Context(), sub)
	c.HTML(http.StatusOK, "contact.html", contactFormData(n, true))
}
