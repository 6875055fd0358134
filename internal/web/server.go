// Package web serves the portfolio page, its htmx fragments, the hero
// typewriter stream and the admin area.
package web

import (
	"embed"
	"html/template"
	"io/fs"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/Zachkp/devfolio/internal/contact"
	"github.com/Zachkp/devfolio/internal/content"
	"github.com/Zachkp/devfolio/internal/navigation"
	"github.com/Zachkp/devfolio/internal/store"
	"github.com/Zachkp/devfolio/internal/typewriter"
)

//go:embed templates/*.html
var templatesFS embed.FS

//go:embed static
var staticFS embed.FS

// Deps are the collaborators a Server needs. Store may be nil, which turns
// off visitor tracking and the admin area.
type Deps struct {
	Site      *content.Site
	Contact   *contact.Service
	Store     *store.Store
	Timing    typewriter.Timing
	Scheduler typewriter.Scheduler
	Admin     AdminCredentials
	Retention time.Duration
	Mode      string
	Logger    *zap.Logger
}

type Server struct {
	site      *content.Site
	contact   *contact.Service
	store     *store.Store
	timing    typewriter.Timing
	scheduler typewriter.Scheduler
	sections  navigation.Sections
	scroll    navigation.ScrollFunc
	admin     *adminAuth
	retention time.Duration
	logger    *zap.Logger
	engine    *gin.Engine
}

// New builds the gin engine and registers every route.
func New(d Deps) (*Server, error) {
	if d.Logger == nil {
		d.Logger = zap.NewNop()
	}
	if d.Scheduler == nil {
		d.Scheduler = typewriter.RealScheduler{}
	}
	if d.Retention <= 0 {
		d.Retention = 365 * 24 * time.Hour
	}
	if d.Mode != "" {
		gin.SetMode(d.Mode)
	}

	s := &Server{
		site:      d.Site,
		contact:   d.Contact,
		store:     d.Store,
		timing:    d.Timing,
		scheduler: d.Scheduler,
		sections:  navigation.DefaultSections(),
		scroll:    navigation.ScrollToSection,
		retention: d.Retention,
		logger:    d.Logger,
	}
	if d.Store != nil {
		auth, err := newAdminAuth(d.Admin, d.Logger)
		if err != nil {
			return nil, err
		}
		s.admin = auth
	}

	tmpl, err := template.New("").Funcs(templateFuncs).ParseFS(templatesFS, "templates/*.html")
	if err != nil {
		return nil, err
	}
	static, err := fs.Sub(staticFS, "static")
	if err != nil {
		return nil, err
	}

	r := gin.New()
	r.Use(gin.Recovery(), requestLogger(d.Logger))
	r.SetHTMLTemplate(tmpl)
	r.StaticFS("/static", http.FS(static))

	if s.store != nil {
		r.Use(s.visitorTracking())
	}

	r.GET("/", s.handleHome)
	r.GET("/healthz", func(c *gin.Context) { c.String(http.StatusOK, "ok") })
	r.GET("/navigate/:section", s.handleNavigate)
	r.GET("/hero/typewriter", s.handleTypewriter)
	r.GET("/contact-form", s.handleContactForm)
	r.POST("/contact", s.handleContactSubmit)
	r.GET("/theme/:mode", s.handleTheme)
	r.GET("/privacy", func(c *gin.Context) {
		c.HTML(http.StatusOK, "privacy.html", gin.H{"title": "Privacy Policy"})
	})

	if s.admin != nil {
		s.setupAdminRoutes(r)
	}

	s.engine = r
	return s, nil
}

// Handler exposes the engine for http.Server and tests.
func (s *Server) Handler() http.Handler { return s.engine }

var templateFuncs = template.FuncMap{
	"lower": strings.ToLower,
	"year":  func() int { return time.Now().Year() },
	"ago": func(t time.Time) string {
		return time.Since(t).Round(time.Minute).String()
	},
}

func requestLogger(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		path := c.Request.URL.Path
		if strings.HasPrefix(path, "/static/") {
			return
		}
		logger.Debug("request",
			zap.String("method", c.Request.Method),
			zap.String("path", path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("latency", time.Since(start)))
	}
}
