// admin.go - privacy-conscious admin system and project management
package main

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"errors"
	"log"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/phaisonvs/portfolio-phaison-sub001/internal/store"
)

// visitorRetention is how long visitor rows are kept.
const visitorRetention = 12 * 30 * 24 * time.Hour

// Initialize admin system with privacy considerations
func (a *app) initAdminToken() {
	a.adminToken = generateAdminToken()
	a.hashingSalt = generateAdminToken() // Use for IP hashing

	log.Printf("Admin access available at: /admin/login")
	if gin.Mode() == gin.DebugMode {
		log.Printf("Admin token (dev only): %s", a.adminToken)
	}
	if a.cfg.Admin.DefaultCredentials && gin.Mode() == gin.DebugMode {
		log.Println("WARNING: Using default admin credentials. Set ADMIN_USERNAME and ADMIN_PASSWORD.")
	}
	log.Println("Privacy: Visitor tracking enabled with hashed IP addresses")
}

func generateAdminToken() string {
	bytes := make([]byte, 32)
	if _, err := rand.Read(bytes); err != nil {
		log.Fatal("Failed to generate admin token:", err)
	}
	return hex.EncodeToString(bytes)
}

// Hash IP address for privacy compliance (consistent per IP)
func (a *app) hashIP(ip string) string {
	hash := sha256.New()
	hash.Write([]byte(ip + a.hashingSalt))
	return hex.EncodeToString(hash.Sum(nil))[:16] // Truncate for storage efficiency
}

// Middleware to check admin authentication
func (a *app) adminAuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		token, err := c.Cookie("admin_token")
		if err != nil || subtle.ConstantTimeCompare([]byte(token), []byte(a.adminToken)) != 1 {
			c.Redirect(http.StatusFound, "/admin/login")
			c.Abort()
			return
		}
		c.Next()
	}
}

// Privacy-conscious visitor tracking middleware
func (a *app) visitorTrackingMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		// Skip tracking for static files, carousel traffic and admin pages
		path := c.Request.URL.Path
		if strings.HasPrefix(path, "/static/") ||
			strings.HasPrefix(path, "/images/") ||
			strings.HasPrefix(path, "/admin/") ||
			strings.HasPrefix(path, "/carousel") ||
			strings.HasPrefix(path, "/api/") ||
			strings.HasPrefix(path, "/favicon") ||
			strings.HasPrefix(path, "/privacy") {
			c.Next()
			return
		}

		// Respect Do Not Track header
		if c.GetHeader("DNT") == "1" {
			c.Next()
			return
		}

		visit := store.Visitor{
			HashedIP:  a.hashIP(c.ClientIP()),
			UserAgent: c.GetHeader("User-Agent"),
			Path:      path,
			Timestamp: time.Now(),
		}
		// Track visitor with hashed IP in background
		go func() {
			if err := a.store.RecordVisit(context.Background(), visit); err != nil {
				log.Printf("Error recording visitor: %v", err)
			}
		}()
		c.Next()
	}
}

// Cleanup old visitor data for privacy compliance
func (a *app) cleanupOldVisitors(ctx context.Context) {
	n, err := a.store.CleanupVisitors(ctx, time.Now().Add(-visitorRetention))
	if err != nil {
		log.Printf("Error cleaning up old visitor data: %v", err)
		return
	}
	if n > 0 {
		log.Printf("Privacy cleanup: Removed %d visitor records older than 12 months", n)
	}
}

// cleanupOldVisitorData runs the privacy cleanup at startup and then daily.
func (a *app) cleanupOldVisitorData(ctx context.Context) {
	ticker := time.NewTicker(24 * time.Hour)
	defer ticker.Stop()
	for {
		a.cleanupOldVisitors(ctx)
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}

// projectFromForm reads the admin project form. Tags are comma separated.
func projectFromForm(c *gin.Context) store.Project {
	sortOrder, _ := strconv.Atoi(strings.TrimSpace(c.PostForm("sort_order")))
	return store.Project{
		Title:       c.PostForm("title"),
		Description: c.PostForm("description"),
		ImageURL:    c.PostForm("image_url"),
		Link:        c.PostForm("link"),
		DetailURL:   c.PostForm("detail_url"),
		Tags:        strings.Split(c.PostForm("tags"), ","),
		SortOrder:   sortOrder,
	}
}

// Setup all admin routes
func (a *app) setupAdminRoutes(r *gin.Engine) {
	// Privacy policy route
	r.GET("/privacy", func(c *gin.Context) {
		c.HTML(http.StatusOK, "privacy.html", gin.H{
			"title": "Privacy Policy",
		})
	})

	r.GET("/admin/login", func(c *gin.Context) {
		c.HTML(http.StatusOK, "admin-login.html", gin.H{
			"title": "Admin Login",
		})
	})

	r.POST("/admin/login", func(c *gin.Context) {
		username := c.PostForm("username")
		password := c.PostForm("password")

		userOK := subtle.ConstantTimeCompare([]byte(username), []byte(a.cfg.Admin.Username)) == 1
		passOK := subtle.ConstantTimeCompare([]byte(password), []byte(a.cfg.Admin.Password)) == 1
		if userOK && passOK {
			// Set secure cookie (24 hours)
			c.SetCookie("admin_token", a.adminToken, 3600*24, "/admin", "", false, true)
			log.Printf("Admin login successful from %s", a.hashIP(c.ClientIP()))
			c.Redirect(http.StatusFound, "/admin/dashboard")
			return
		}
		log.Printf("Failed admin login attempt from %s", a.hashIP(c.ClientIP()))
		c.HTML(http.StatusUnauthorized, "admin-login.html", gin.H{
			"error": "Invalid credentials",
		})
	})

	r.GET("/admin/logout", func(c *gin.Context) {
		c.SetCookie("admin_token", "", -1, "/admin", "", false, true)
		log.Printf("Admin logout from %s", a.hashIP(c.ClientIP()))
		c.Redirect(http.StatusFound, "/admin/login")
	})

	// Protected admin routes group
	adminGroup := r.Group("/admin")
	adminGroup.Use(a.adminAuthMiddleware())

	adminGroup.GET("/dashboard", func(c *gin.Context) {
		stats, err := a.store.Stats(c.Request.Context(), time.Now())
		if err != nil {
			log.Printf("Error loading admin stats: %v", err)
			c.HTML(http.StatusInternalServerError, "admin-error.html", gin.H{
				"error": "Failed to load statistics",
			})
			return
		}
		c.HTML(http.StatusOK, "admin-dashboard.html", gin.H{
			"stats":    stats,
			"sessions": a.carousels.Len(),
		})
	})

	// Admin API endpoints for HTMX/AJAX
	adminGroup.GET("/api/stats", func(c *gin.Context) {
		stats, err := a.store.Stats(c.Request.Context(), time.Now())
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, stats)
	})

	adminGroup.GET("/projects", func(c *gin.Context) {
		projects, err := a.store.ListProjects(c.Request.Context())
		if err != nil {
			c.HTML(http.StatusInternalServerError, "admin-error.html", gin.H{
				"error": "Failed to load projects",
			})
			return
		}
		c.HTML(http.StatusOK, "admin-projects.html", gin.H{
			"projects": projects,
		})
	})

	adminGroup.POST("/projects", func(c *gin.Context) {
		project, err := a.store.CreateProject(c.Request.Context(), projectFromForm(c))
		if errors.Is(err, store.ErrInvalidProject) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		if err != nil {
			log.Printf("Error creating project: %v", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create project"})
			return
		}
		a.refreshCarousels(c.Request.Context())
		log.Printf("Project %d created by admin from %s", project.ID, a.hashIP(c.ClientIP()))
		c.Redirect(http.StatusSeeOther, "/admin/projects")
	})

	adminGroup.POST("/projects/:id", func(c *gin.Context) {
		id, err := strconv.ParseInt(c.Param("id"), 10, 64)
		if err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "Project not found"})
			return
		}
		project := projectFromForm(c)
		project.ID = id
		err = a.store.UpdateProject(c.Request.Context(), project)
		switch {
		case errors.Is(err, store.ErrNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "Project not found"})
			return
		case errors.Is(err, store.ErrInvalidProject):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		case err != nil:
			log.Printf("Error updating project %d: %v", id, err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update project"})
			return
		}
		a.refreshCarousels(c.Request.Context())
		c.Redirect(http.StatusSeeOther, "/admin/projects")
	})

	adminGroup.DELETE("/projects/:id", func(c *gin.Context) {
		id, err := strconv.ParseInt(c.Param("id"), 10, 64)
		if err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "Project not found"})
			return
		}
		err = a.store.DeleteProject(c.Request.Context(), id)
		if errors.Is(err, store.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Project not found"})
			return
		}
		if err != nil {
			log.Printf("Error deleting project %d: %v", id, err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete project"})
			return
		}
		a.refreshCarousels(c.Request.Context())
		log.Printf("Project %d deleted by admin from %s", id, a.hashIP(c.ClientIP()))
		c.JSON(http.StatusOK, gin.H{"message": "Project deleted successfully"})
	})

	adminGroup.GET("/visitors", func(c *gin.Context) {
		visitors, err := a.store.RecentVisitors(c.Request.Context(), 200)
		if err != nil {
			c.HTML(http.StatusInternalServerError, "admin-error.html", gin.H{
				"error": "Failed to load visitors",
			})
			return
		}
		c.HTML(http.StatusOK, "admin-visitors.html", gin.H{
			"visitors": visitors,
		})
	})

	// Privacy compliance endpoint
	adminGroup.POST("/privacy/delete-visitor-data", func(c *gin.Context) {
		go a.cleanupOldVisitors(context.Background())
		c.JSON(http.StatusOK, gin.H{"message": "Privacy cleanup initiated"})
	})

	// Admin statistics export (for backups or analysis)
	adminGroup.GET("/export/stats", func(c *gin.Context) {
		stats, err := a.store.Stats(c.Request.Context(), time.Now())
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}

		// Set headers for file download
		c.Header("Content-Type", "application/json")
		c.Header("Content-Disposition", "attachment; filename=admin-stats.json")

		log.Printf("Admin stats exported by %s", a.hashIP(c.ClientIP()))
		c.JSON(http.StatusOK, stats)
	})
}
