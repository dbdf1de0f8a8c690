package main

import (
	"context"
	"embed"
	"errors"
	"fmt"
	"html/template"
	"io/fs"
	"log"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/phaisonvs/portfolio-phaison-sub001/internal/config"
	"github.com/phaisonvs/portfolio-phaison-sub001/internal/session"
	"github.com/phaisonvs/portfolio-phaison-sub001/internal/store"
)

//go:embed templates/*.html
var templatesFS embed.FS

//go:embed static/*
var staticFS embed.FS

type app struct {
	cfg       config.Config
	store     *store.Store
	carousels *session.Registry[store.Project]

	adminToken  string
	hashingSalt string
	sendMail    func(cfg config.Mail, name, email, message string) error
}

func newApp(ctx context.Context, cfg config.Config, db *store.Store) (*app, error) {
	projects, err := db.ListProjects(ctx)
	if err != nil {
		return nil, err
	}
	registry, err := session.NewRegistry(sessionOptions(cfg), projects)
	if err != nil {
		return nil, fmt.Errorf("carousel: %w", err)
	}
	a := &app{
		cfg:       cfg,
		store:     db,
		carousels: registry,
		sendMail:  sendContactEmail,
	}
	a.initAdminToken()
	return a, nil
}

func loadTemplates() *template.Template {
	funcs := template.FuncMap{
		"inc": func(i int) int { return i + 1 },
	}
	return template.Must(template.New("").Funcs(funcs).ParseFS(templatesFS, "templates/*.html"))
}

func newServer(a *app) *gin.Engine {
	r := gin.Default()
	r.SetHTMLTemplate(loadTemplates())

	static, err := fs.Sub(staticFS, "static")
	if err != nil {
		log.Fatal(err)
	}
	r.StaticFS("/static", http.FS(static))
	r.Static("/images", a.cfg.ImagesDir)

	r.Use(a.visitorTrackingMiddleware())

	// Home page route
	r.GET("/", func(c *gin.Context) {
		c.HTML(http.StatusOK, "index.html", gin.H{
			"aboutMeContent": AboutMe,
			"headline":       Headline,
		})
	})

	r.GET("/projects", func(c *gin.Context) {
		projects, err := a.store.ListProjects(c.Request.Context())
		if err != nil {
			log.Printf("Error listing projects: %v", err)
			c.HTML(http.StatusInternalServerError, "error.html", gin.H{"error": "Failed to load projects"})
			return
		}
		c.HTML(http.StatusOK, "projects.html", gin.H{"projects": projects})
	})

	r.GET("/projects/:id", func(c *gin.Context) {
		project, ok := a.projectParam(c)
		if !ok {
			return
		}
		c.HTML(http.StatusOK, "project.html", gin.H{"project": project})
	})

	// Click-through to the external link, counted for the dashboard
	r.GET("/projects/:id/visit", func(c *gin.Context) {
		project, ok := a.projectParam(c)
		if !ok {
			return
		}
		if project.Link == "" {
			c.Redirect(http.StatusFound, "/projects/"+project.Key())
			return
		}
		if err := a.store.RecordClick(c.Request.Context(), project.ID); err != nil {
			log.Printf("Error recording click for project %d: %v", project.ID, err)
		}
		c.Redirect(http.StatusFound, project.Link)
	})

	// HTMX Contact form endpoint - returns just the form HTML
	r.GET("/contact-form", func(c *gin.Context) {
		c.HTML(http.StatusOK, "contact.html", gin.H{
			"title": "Contact Me",
		})
	})

	r.GET("/work-content", func(c *gin.Context) {
		c.HTML(http.StatusOK, "timeline.html", gin.H{"entries": WorkHistory})
	})

	r.GET("/education-content", func(c *gin.Context) {
		c.HTML(http.StatusOK, "timeline.html", gin.H{"entries": Education})
	})

	r.POST("/contact", func(c *gin.Context) {
		name := c.PostForm("fullName")
		email := c.PostForm("email")
		message := c.PostForm("message")

		if err := a.sendMail(a.cfg.Mail, name, email, message); err != nil {
			log.Printf("Error sending contact email: %v", err)
			c.HTML(http.StatusOK, "contact-error.html", gin.H{
				"error": "Sorry, there was an error sending your message. Please try again later.",
			})
			return
		}
		c.HTML(http.StatusOK, "contact-success.html", gin.H{
			"success": "Thank you for your message! I'll get back to you soon.",
		})
	})

	a.setupCarouselRoutes(r)
	a.setupAdminRoutes(r)
	return r
}

// projectParam loads the project named by :id, writing a 404 when missing.
func (a *app) projectParam(c *gin.Context) (store.Project, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.HTML(http.StatusNotFound, "error.html", gin.H{"error": "Project not found"})
		return store.Project{}, false
	}
	project, err := a.store.GetProject(c.Request.Context(), id)
	if errors.Is(err, store.ErrNotFound) {
		c.HTML(http.StatusNotFound, "error.html", gin.H{"error": "Project not found"})
		return store.Project{}, false
	}
	if err != nil {
		log.Printf("Error loading project %d: %v", id, err)
		c.HTML(http.StatusInternalServerError, "error.html", gin.H{"error": "Failed to load project"})
		return store.Project{}, false
	}
	return project, true
}

// refreshCarousels pushes the current project list into every mounted
// carousel after an admin edit.
func (a *app) refreshCarousels(ctx context.Context) {
	projects, err := a.store.ListProjects(ctx)
	if err != nil {
		log.Printf("Error refreshing carousel items: %v", err)
		return
	}
	a.carousels.Refresh(projects)
}
