package main

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/phaisonvs/portfolio-phaison-sub001/internal/config"
	"github.com/phaisonvs/portfolio-phaison-sub001/internal/store"
)

type testSite struct {
	app    *app
	router *gin.Engine
	sent   []string
}

func newTestSite(t *testing.T, tweaks ...func(*config.Config)) *testSite {
	t.Helper()
	gin.SetMode(gin.TestMode)

	cfg := config.Default()
	cfg.DBPath = filepath.Join(t.TempDir(), "portfolio.db")
	cfg.ImagesDir = t.TempDir()
	cfg.Carousel.AutoplayInterval = time.Hour
	for _, tweak := range tweaks {
		tweak(&cfg)
	}

	ctx := context.Background()
	db, err := openSeededStore(ctx, cfg.DBPath)
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	a, err := newApp(ctx, cfg, db)
	require.NoError(t, err)
	t.Cleanup(a.carousels.Close)

	site := &testSite{app: a}
	a.sendMail = func(_ config.Mail, name, email, message string) error {
		site.sent = append(site.sent, name)
		return nil
	}
	site.router = newServer(a)
	return site
}

type request struct {
	method  string
	path    string
	form    url.Values
	cookies []*http.Cookie
	json    bool
	htmx    bool
}

func (s *testSite) do(t *testing.T, r request) *httptest.ResponseRecorder {
	t.Helper()
	var body *strings.Reader
	if r.form != nil {
		body = strings.NewReader(r.form.Encode())
	} else {
		body = strings.NewReader("")
	}
	req := httptest.NewRequest(r.method, r.path, body)
	if r.form != nil {
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	}
	if r.json {
		req.Header.Set("Accept", "application/json")
	}
	if r.htmx {
		req.Header.Set("HX-Request", "true")
	}
	// Keeps the visit recorder from writing after the test closes the store.
	req.Header.Set("DNT", "1")
	for _, c := range r.cookies {
		req.AddCookie(c)
	}
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	return w
}

func cookieNamed(t *testing.T, w *httptest.ResponseRecorder, name string) *http.Cookie {
	t.Helper()
	for _, c := range w.Result().Cookies() {
		if c.Name == name {
			return c
		}
	}
	t.Fatalf("response has no %s cookie", name)
	return nil
}

type viewJSON struct {
	Index        int             `json:"index"`
	VisibleCount int             `json:"visible_count"`
	Stops        int             `json:"stops"`
	Items        []store.Project `json:"items"`
	Empty        bool            `json:"empty"`
	CanNavigate  bool            `json:"can_navigate"`
	Dragging     bool            `json:"dragging"`
}

type stateMessage struct {
	Type string   `json:"type"`
	View viewJSON `json:"view"`
}

func fastAutoplay(cfg *config.Config) {
	cfg.Carousel.AutoplayInterval = 20 * time.Millisecond
}

// dialCarousel opens the carousel socket for the given session cookie and
// reads the initial state.
func dialCarousel(t *testing.T, srv *httptest.Server, sid string) (*websocket.Conn, stateMessage) {
	t.Helper()
	header := http.Header{"Cookie": {carouselCookie + "=" + sid}}
	conn, _, err := websocket.DefaultDialer.Dial("ws"+strings.TrimPrefix(srv.URL, "http")+"/carousel/ws?width=1200", header)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })

	var msg stateMessage
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	require.NoError(t, conn.ReadJSON(&msg))
	return conn, msg
}

// awaitMove reads state messages until the index leaves from.
func awaitMove(t *testing.T, conn *websocket.Conn, from int) stateMessage {
	t.Helper()
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	for {
		var msg stateMessage
		require.NoError(t, conn.ReadJSON(&msg), "autoplay never advanced")
		if msg.View.Index != from {
			return msg
		}
	}
}

func decodeView(t *testing.T, w *httptest.ResponseRecorder) viewJSON {
	t.Helper()
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var v viewJSON
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &v))
	return v
}

func TestCarousel_NavigationAtDesktopWidth(t *testing.T) {
	site := newTestSite(t)

	w := site.do(t, request{method: http.MethodGet, path: "/api/carousel?width=1200"})
	v := decodeView(t, w)
	sid := cookieNamed(t, w, carouselCookie)
	assert.Equal(t, 3, v.VisibleCount)
	assert.Equal(t, 4, v.Stops)
	assert.Len(t, v.Items, 6)
	assert.True(t, v.CanNavigate)

	jar := []*http.Cookie{sid}
	for want := 1; want <= 3; want++ {
		v = decodeView(t, site.do(t, request{method: http.MethodPost, path: "/carousel/next", cookies: jar, json: true}))
		assert.Equal(t, want, v.Index)
	}

	v = decodeView(t, site.do(t, request{method: http.MethodPost, path: "/carousel/next", cookies: jar, json: true}))
	assert.Equal(t, 0, v.Index, "next from the last stop wraps")

	v = decodeView(t, site.do(t, request{method: http.MethodPost, path: "/carousel/prev", cookies: jar, json: true}))
	assert.Equal(t, 3, v.Index, "prev from the first stop wraps")

	v = decodeView(t, site.do(t, request{method: http.MethodPost, path: "/carousel/goto", cookies: jar, json: true,
		form: url.Values{"index": {"99"}}}))
	assert.Equal(t, 3, v.Index)

	v = decodeView(t, site.do(t, request{method: http.MethodPost, path: "/carousel/goto", cookies: jar, json: true,
		form: url.Values{"index": {"-5"}}}))
	assert.Equal(t, 0, v.Index)
}

func TestCarousel_ResizeClampsIndex(t *testing.T) {
	site := newTestSite(t)

	w := site.do(t, request{method: http.MethodGet, path: "/api/carousel?width=400"})
	jar := []*http.Cookie{cookieNamed(t, w, carouselCookie)}
	v := decodeView(t, w)
	require.Equal(t, 1, v.VisibleCount)

	v = decodeView(t, site.do(t, request{method: http.MethodPost, path: "/carousel/goto", cookies: jar, json: true,
		form: url.Values{"index": {"5"}}}))
	require.Equal(t, 5, v.Index)

	v = decodeView(t, site.do(t, request{method: http.MethodPost, path: "/carousel/resize", cookies: jar, json: true,
		form: url.Values{"width": {"1200"}}}))
	assert.Equal(t, 3, v.VisibleCount)
	assert.Equal(t, 3, v.Index)
}

func TestCarousel_BadInput(t *testing.T) {
	site := newTestSite(t)

	w := site.do(t, request{method: http.MethodPost, path: "/carousel/goto", form: url.Values{"index": {"two"}}})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = site.do(t, request{method: http.MethodPost, path: "/carousel/resize", form: url.Values{"width": {"-1"}}})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = site.do(t, request{method: http.MethodPost, path: "/carousel/drag", form: url.Values{"delta": {"x"}}})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCarousel_DragRelease(t *testing.T) {
	site := newTestSite(t)

	w := site.do(t, request{method: http.MethodGet, path: "/api/carousel?width=1200"})
	jar := []*http.Cookie{cookieNamed(t, w, carouselCookie)}

	// One card of a 1200px viewport is 400px; 90px is under a quarter.
	v := decodeView(t, site.do(t, request{method: http.MethodPost, path: "/carousel/drag", cookies: jar, json: true,
		form: url.Values{"delta": {"-90"}, "viewport": {"1200"}}}))
	assert.Equal(t, 0, v.Index)

	v = decodeView(t, site.do(t, request{method: http.MethodPost, path: "/carousel/drag", cookies: jar, json: true,
		form: url.Values{"delta": {"-250"}, "viewport": {"1200"}}}))
	assert.Equal(t, 1, v.Index)
}

func TestCarousel_RendersFragment(t *testing.T) {
	site := newTestSite(t)

	w := site.do(t, request{method: http.MethodGet, path: "/carousel?width=1200", htmx: true})
	require.Equal(t, http.StatusOK, w.Code)
	body := w.Body.String()
	assert.Contains(t, body, `id="featured-carousel"`)
	assert.Contains(t, body, "Design System Playground")
	assert.Contains(t, body, `aria-label="Go to slide 4"`)
	assert.NotContains(t, body, `aria-label="Go to slide 5"`)
	assert.Contains(t, body, "translateX(0.0000%)")

	jar := []*http.Cookie{cookieNamed(t, w, carouselCookie)}
	w = site.do(t, request{method: http.MethodPost, path: "/carousel/next", cookies: jar, htmx: true})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "translateX(-33.3333%)")
}

func TestCarousel_EmptyState(t *testing.T) {
	site := newTestSite(t)
	site.app.carousels.Refresh(nil)

	w := site.do(t, request{method: http.MethodGet, path: "/carousel?width=1200", htmx: true})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "No projects to show yet.")
	assert.NotContains(t, w.Body.String(), "/carousel/next")
}

func TestCarousel_Unmount(t *testing.T) {
	site := newTestSite(t)

	w := site.do(t, request{method: http.MethodGet, path: "/api/carousel"})
	jar := []*http.Cookie{cookieNamed(t, w, carouselCookie)}
	require.Equal(t, 1, site.app.carousels.Len())

	w = site.do(t, request{method: http.MethodDelete, path: "/carousel", cookies: jar})
	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, 0, site.app.carousels.Len())
	assert.Equal(t, -1, cookieNamed(t, w, carouselCookie).MaxAge)
}

func TestCarousel_Socket(t *testing.T) {
	site := newTestSite(t)
	srv := httptest.NewServer(site.router)
	defer srv.Close()

	header := http.Header{"Dnt": {"1"}}
	conn, _, err := websocket.DefaultDialer.Dial("ws"+strings.TrimPrefix(srv.URL, "http")+"/carousel/ws?width=1200", header)
	require.NoError(t, err)
	defer conn.Close()

	var msg stateMessage
	require.NoError(t, conn.ReadJSON(&msg))
	assert.Equal(t, "state", msg.Type)
	assert.Equal(t, 3, msg.View.VisibleCount)
	assert.Equal(t, 0, msg.View.Index)

	require.NoError(t, conn.WriteJSON(socketCommand{Action: "next"}))
	require.NoError(t, conn.ReadJSON(&msg))
	assert.Equal(t, 1, msg.View.Index)

	require.NoError(t, conn.WriteJSON(socketCommand{Action: "goto", Index: 3}))
	require.NoError(t, conn.ReadJSON(&msg))
	assert.Equal(t, 3, msg.View.Index)
}

func TestPages(t *testing.T) {
	site := newTestSite(t)

	w := site.do(t, request{method: http.MethodGet, path: "/"})
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), Headline)
	assert.Contains(t, w.Body.String(), `hx-get="/carousel"`)

	w = site.do(t, request{method: http.MethodGet, path: "/projects"})
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Terminal Music Player")

	w = site.do(t, request{method: http.MethodGet, path: "/projects/999"})
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = site.do(t, request{method: http.MethodGet, path: "/work-content"})
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), WorkHistory[0].Title)
}

func TestProjectVisitCountsClick(t *testing.T) {
	site := newTestSite(t)
	ctx := context.Background()

	projects, err := site.app.store.ListProjects(ctx)
	require.NoError(t, err)
	target := projects[0]
	require.NotEmpty(t, target.Link)

	w := site.do(t, request{method: http.MethodGet, path: "/projects/" + target.Key() + "/visit"})
	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, target.Link, w.Header().Get("Location"))

	got, err := site.app.store.GetProject(ctx, target.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, got.Clicks)
}

func TestContact(t *testing.T) {
	site := newTestSite(t)

	w := site.do(t, request{method: http.MethodPost, path: "/contact", form: url.Values{
		"fullName": {"Ada"},
		"email":    {"ada@example.com"},
		"message":  {"Hello"},
	}})
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Thank you")
	assert.Equal(t, []string{"Ada"}, site.sent)
}

func TestAdmin_RequiresLogin(t *testing.T) {
	site := newTestSite(t)

	w := site.do(t, request{method: http.MethodGet, path: "/admin/dashboard"})
	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/admin/login", w.Header().Get("Location"))

	w = site.do(t, request{method: http.MethodPost, path: "/admin/login", form: url.Values{
		"username": {"admin"},
		"password": {"wrong"},
	}})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAdmin_ProjectEditsReachMountedCarousels(t *testing.T) {
	site := newTestSite(t)

	w := site.do(t, request{method: http.MethodPost, path: "/admin/login", form: url.Values{
		"username": {"admin"},
		"password": {"admin123"},
	}})
	require.Equal(t, http.StatusFound, w.Code)
	admin := []*http.Cookie{cookieNamed(t, w, "admin_token")}

	w = site.do(t, request{method: http.MethodGet, path: "/api/carousel?width=1200"})
	visitor := []*http.Cookie{cookieNamed(t, w, carouselCookie)}
	require.Len(t, decodeView(t, w).Items, 6)

	w = site.do(t, request{method: http.MethodPost, path: "/admin/projects", cookies: admin, form: url.Values{
		"title":      {"Carousel Lab"},
		"tags":       {"Go, HTMX"},
		"sort_order": {"10"},
	}})
	require.Equal(t, http.StatusSeeOther, w.Code, w.Body.String())

	v := decodeView(t, site.do(t, request{method: http.MethodGet, path: "/api/carousel", cookies: visitor}))
	require.Len(t, v.Items, 7)
	assert.Equal(t, "Carousel Lab", v.Items[6].Title)
	assert.Equal(t, []string{"Go", "HTMX"}, v.Items[6].Tags)
	assert.Equal(t, 5, v.Stops)

	w = site.do(t, request{method: http.MethodDelete, path: "/admin/projects/" + v.Items[6].Key(), cookies: admin})
	require.Equal(t, http.StatusOK, w.Code)
	v = decodeView(t, site.do(t, request{method: http.MethodGet, path: "/api/carousel", cookies: visitor}))
	assert.Len(t, v.Items, 6)

	w = site.do(t, request{method: http.MethodPost, path: "/admin/projects", cookies: admin, form: url.Values{
		"title": {"   "},
	}})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = site.do(t, request{method: http.MethodGet, path: "/admin/dashboard", cookies: admin})
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Live carousels")
}

func TestCarouselSocket_DisconnectMidDragResumesAutoplay(t *testing.T) {
	site := newTestSite(t, fastAutoplay)
	srv := httptest.NewServer(site.router)
	defer srv.Close()

	first, _ := dialCarousel(t, srv, "drag-tab")
	s, ok := site.app.carousels.Get("drag-tab")
	require.True(t, ok)

	require.NoError(t, first.WriteJSON(socketCommand{Action: "drag_start"}))
	require.Eventually(t, s.Carousel.Dragging, time.Second, time.Millisecond)
	require.NoError(t, first.Close())
	require.Eventually(t, func() bool { return !s.Carousel.Dragging() }, time.Second, time.Millisecond)

	second, state := dialCarousel(t, srv, "drag-tab")
	assert.False(t, state.View.Dragging)
	moved := awaitMove(t, second, state.View.Index)
	assert.False(t, moved.View.Dragging)
}

func TestCarouselSocket_AutoplayOutlivesOneOfTwoTabs(t *testing.T) {
	site := newTestSite(t, fastAutoplay)
	srv := httptest.NewServer(site.router)
	defer srv.Close()

	first, _ := dialCarousel(t, srv, "two-tabs")
	second, _ := dialCarousel(t, srv, "two-tabs")
	s, ok := site.app.carousels.Get("two-tabs")
	require.True(t, ok)
	require.Equal(t, 2, s.Subscribers())

	require.NoError(t, first.Close())
	require.Eventually(t, func() bool { return s.Subscribers() == 1 }, time.Second, time.Millisecond)
	assert.True(t, s.Autoplaying())

	from := s.View().Index
	require.Eventually(t, func() bool { return s.View().Index != from }, time.Second, time.Millisecond)

	require.NoError(t, second.Close())
	require.Eventually(t, func() bool { return !s.Autoplaying() }, time.Second, time.Millisecond)
}

func TestCarouselSocket_UnmountClosesSocket(t *testing.T) {
	site := newTestSite(t)
	srv := httptest.NewServer(site.router)
	defer srv.Close()

	conn, _ := dialCarousel(t, srv, "gone")
	w := site.do(t, request{method: http.MethodDelete, path: "/carousel",
		cookies: []*http.Cookie{{Name: carouselCookie, Value: "gone"}}})
	require.Equal(t, http.StatusNoContent, w.Code)

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	var msg stateMessage
	err := conn.ReadJSON(&msg)
	require.Error(t, err)
	assert.True(t, websocket.IsCloseError(err, websocket.CloseNormalClosure), "got %v", err)
	assert.Zero(t, site.app.carousels.Len())
}
