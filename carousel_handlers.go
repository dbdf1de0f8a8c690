package main

import (
	"context"
	"fmt"
	"html/template"
	"log"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"github.com/phaisonvs/portfolio-phaison-sub001/internal/carousel"
	"github.com/phaisonvs/portfolio-phaison-sub001/internal/session"
	"github.com/phaisonvs/portfolio-phaison-sub001/internal/store"
)

const carouselCookie = "carousel_sid"

type carouselSession = session.Session[store.Project]

// carouselFragment is what carousel.html renders. Window mode slides a track
// holding every card; item mode renders the wrapped window directly.
type carouselFragment struct {
	View       carousel.View[store.Project]
	Cards      []store.Project
	TrackStyle template.CSS
	CardStyle  template.CSS
}

func newCarouselFragment(v carousel.View[store.Project]) carouselFragment {
	f := carouselFragment{
		View:      v,
		CardStyle: template.CSS(fmt.Sprintf("flex: 0 0 %.4f%%", 100/float64(max(v.VisibleCount, 1)))),
	}
	if v.Mode == carousel.ModeItem.String() {
		for _, slot := range v.Window {
			f.Cards = append(f.Cards, slot.Item)
		}
		f.TrackStyle = "transform: translateX(0%)"
		return f
	}
	f.Cards = v.Items
	f.TrackStyle = template.CSS(fmt.Sprintf("transform: translateX(%.4f%%)", v.Offset))
	return f
}

// socketCommand is one message from the page's carousel socket.
type socketCommand struct {
	Action   string  `json:"action"`
	Index    int     `json:"index"`
	Width    int     `json:"width"`
	Delta    float64 `json:"delta"`
	Viewport float64 `json:"viewport"`
	On       bool    `json:"on"`
}

type socketMessage struct {
	Type string                       `json:"type"`
	View carousel.View[store.Project] `json:"view"`
}

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
}

func (a *app) setupCarouselRoutes(r *gin.Engine) {
	r.GET("/carousel", func(c *gin.Context) {
		s, ok := a.mountCarousel(c)
		if !ok {
			return
		}
		if width, ok := intParam(c, "width"); ok {
			s.Resize(width)
		}
		a.renderCarousel(c, s)
	})

	r.GET("/api/carousel", func(c *gin.Context) {
		s, ok := a.mountCarousel(c)
		if !ok {
			return
		}
		c.JSON(http.StatusOK, s.View())
	})

	r.POST("/carousel/next", a.carouselAction(func(c *gin.Context, s *carouselSession) bool {
		s.Next()
		return true
	}))

	r.POST("/carousel/prev", a.carouselAction(func(c *gin.Context, s *carouselSession) bool {
		s.Prev()
		return true
	}))

	r.POST("/carousel/goto", a.carouselAction(func(c *gin.Context, s *carouselSession) bool {
		index, ok := intParam(c, "index")
		if !ok {
			c.JSON(http.StatusBadRequest, gin.H{"error": "index must be an integer"})
			return false
		}
		s.GoTo(index)
		return true
	}))

	r.POST("/carousel/resize", a.carouselAction(func(c *gin.Context, s *carouselSession) bool {
		width, ok := intParam(c, "width")
		if !ok || width < 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "width must be a non-negative integer"})
			return false
		}
		s.Resize(width)
		return true
	}))

	r.POST("/carousel/drag", a.carouselAction(func(c *gin.Context, s *carouselSession) bool {
		delta, err1 := strconv.ParseFloat(c.PostForm("delta"), 64)
		viewport, err2 := strconv.ParseFloat(c.PostForm("viewport"), 64)
		if err1 != nil || err2 != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "delta and viewport must be numbers"})
			return false
		}
		s.DragRelease(delta, viewport)
		return true
	}))

	r.DELETE("/carousel", func(c *gin.Context) {
		if id, err := c.Cookie(carouselCookie); err == nil {
			a.carousels.Unmount(id)
		}
		c.SetCookie(carouselCookie, "", -1, "/", "", false, true)
		c.Status(http.StatusNoContent)
	})

	r.GET("/carousel/ws", a.carouselSocket)
}

// mountCarousel finds or creates the visitor's carousel. New visitors get a
// session cookie and a carousel sized to the configured default width until
// the page reports its real width.
func (a *app) mountCarousel(c *gin.Context) (*carouselSession, bool) {
	id, err := c.Cookie(carouselCookie)
	if err != nil || id == "" {
		id = session.NewID()
		c.SetCookie(carouselCookie, id, 0, "/", "", false, true)
	}
	width := a.cfg.Carousel.DefaultWidth
	if w, ok := intParam(c, "width"); ok && w >= 0 {
		width = w
	}
	s, err := a.carousels.Mount(id, width)
	if err != nil {
		log.Printf("Error mounting carousel: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "carousel unavailable"})
		return nil, false
	}
	return s, true
}

func (a *app) carouselAction(fn func(c *gin.Context, s *carouselSession) bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		s, ok := a.mountCarousel(c)
		if !ok {
			return
		}
		if fn(c, s) {
			a.renderCarousel(c, s)
		}
	}
}

// renderCarousel answers HTMX and browsers with the fragment and API clients
// with JSON.
func (a *app) renderCarousel(c *gin.Context, s *carouselSession) {
	view := s.View()
	if wantsJSON(c) {
		c.JSON(http.StatusOK, view)
		return
	}
	c.HTML(http.StatusOK, "carousel.html", gin.H{"carousel": newCarouselFragment(view)})
}

// carouselSocket streams state to the page and accepts navigation. Autoplay
// runs only while the socket is open.
func (a *app) carouselSocket(c *gin.Context) {
	header := http.Header{}
	id, err := c.Cookie(carouselCookie)
	if err != nil || id == "" {
		id = session.NewID()
		cookie := &http.Cookie{Name: carouselCookie, Value: id, Path: "/", HttpOnly: true}
		header.Add("Set-Cookie", cookie.String())
	}
	width := a.cfg.Carousel.DefaultWidth
	if w, ok := intParam(c, "width"); ok && w >= 0 {
		width = w
	}
	s, err := a.carousels.Mount(id, width)
	if err != nil {
		log.Printf("Error mounting carousel: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "carousel unavailable"})
		return
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, header)
	if err != nil {
		log.Printf("Carousel socket upgrade failed: %v", err)
		return
	}
	defer conn.Close()

	updates, ok := s.Subscribe()
	if !ok {
		closeSocket(conn, "carousel unmounted")
		return
	}

	ctx, cancel := context.WithCancel(c.Request.Context())
	defer cancel()

	writerDone := make(chan struct{})
	go func() {
		defer close(writerDone)
		if err := conn.WriteJSON(socketMessage{Type: "state", View: s.View()}); err != nil {
			cancel()
			return
		}
		for v := range updates {
			if err := conn.WriteJSON(socketMessage{Type: "state", View: v}); err != nil {
				cancel()
				return
			}
		}
		// The channel only closes on unsubscribe or unmount. After an
		// unmount the reader must stop driving the carousel.
		if s.Closed() {
			closeSocket(conn, "carousel unmounted")
		}
	}()

	var page socketPage
	releaseAutoplay := s.StartAutoplay(ctx)
	defer func() {
		releaseAutoplay()
		page.detach(s)
		s.Unsubscribe(updates)
		<-writerDone
	}()

	for ctx.Err() == nil {
		var cmd socketCommand
		if err := conn.ReadJSON(&cmd); err != nil {
			if !websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) && !s.Closed() {
				log.Printf("Carousel socket closed: %v", err)
			}
			return
		}
		page.apply(s, cmd)
	}
}

// closeSocket sends a close frame and unblocks the pending read.
func closeSocket(conn *websocket.Conn, reason string) {
	msg := websocket.FormatCloseMessage(websocket.CloseNormalClosure, reason)
	_ = conn.WriteControl(websocket.CloseMessage, msg, time.Now().Add(time.Second))
	_ = conn.SetReadDeadline(time.Now())
}

// socketPage is what one connected page holds on the shared session: its
// hover and an unfinished drag. Both are dropped when the page goes away.
type socketPage struct {
	hovering bool
	dragging bool
}

func (p *socketPage) apply(s *carouselSession, cmd socketCommand) {
	switch cmd.Action {
	case "next":
		s.Next()
	case "prev":
		s.Prev()
	case "goto":
		s.GoTo(cmd.Index)
	case "resize":
		s.ScheduleResize(cmd.Width)
	case "hover":
		p.hovering = cmd.On
		s.Hover(cmd.On)
	case "drag_start":
		p.dragging = true
		s.BeginDrag()
	case "drag_move":
		s.DragMove(cmd.Delta)
	case "drag_end":
		p.dragging = false
		s.DragRelease(cmd.Delta, cmd.Viewport)
	default:
		log.Printf("Unknown carousel socket action %q", cmd.Action)
	}
}

func (p *socketPage) detach(s *carouselSession) {
	if p.hovering {
		s.Hover(false)
	}
	if p.dragging {
		s.CancelDrag()
	}
}

func intParam(c *gin.Context, name string) (int, bool) {
	raw := c.Query(name)
	if raw == "" {
		raw = c.PostForm(name)
	}
	if raw == "" {
		return 0, false
	}
	v, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		return 0, false
	}
	return v, true
}

func wantsJSON(c *gin.Context) bool {
	if c.GetHeader("HX-Request") == "true" {
		return false
	}
	return strings.Contains(c.GetHeader("Accept"), "application/json")
}
