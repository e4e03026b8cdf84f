//go:build integration
// +build integration

// integration/site_test.go
package integration

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/png"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"net/url"
	"path/filepath"
	"strings"
	"testing"

	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"church-site/controllers"
	"church-site/mailer"
	"church-site/middleware"
	"church-site/services"
	"church-site/store"
)

var sessionKey = []byte("0123456789abcdef0123456789abcdef")

// startSite serves the full stack over real HTTP with the real templates.
func startSite(t *testing.T) (*httptest.Server, *store.SQLiteMessageStore) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	root := t.TempDir()
	db, err := store.NewDB(filepath.Join(root, "church.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	require.NoError(t, store.Migrate(db))

	admins := store.NewSQLiteAdminStore(db)
	auth := services.NewAuthService(admins).WithCost(bcrypt.MinCost)
	_, err = auth.EnsureAdmin(context.Background(), "admin", "church123")
	require.NoError(t, err)

	events := store.NewSQLiteEventStore(db)
	leaders := store.NewSQLiteLeaderStore(db)
	messages := store.NewSQLiteMessageStore(db)
	files := services.NewFileStore(filepath.Join(root, "sermons"), filepath.Join(root, "posters"), filepath.Join(root, "staff"))
	metrics := services.NoopMetrics{}

	router := gin.New()
	// plain-HTTP test server: a Secure cookie would never come back from the jar
	cookieStore := cookie.NewStore(sessionKey)
	cookieStore.Options(sessions.Options{
		Path:     "/",
		MaxAge:   3600,
		HttpOnly: true,
		Secure:   false,
		SameSite: http.SameSiteLaxMode,
	})
	router.Use(sessions.Sessions("churchsession", cookieStore))
	router.LoadHTMLGlob(filepath.Join("..", "templates", "*.html"))

	controllers.RegisterRoutes(router, "Harvest Church", controllers.Controllers{
		Pages: &controllers.PageController{Events: events, Leaders: leaders, Files: files, DB: db, AppURL: "http://church.test"},
		Contact: &controllers.ContactController{
			Messages: messages,
			Notifier: services.NewNotifier(mailer.NewNoopSender(), "office@church.test", "Harvest Church"),
			Metrics:  metrics,
		},
		Auth: &controllers.AuthController{Auth: auth},
		Admin: &controllers.AdminController{
			Events:   events,
			Leaders:  leaders,
			Messages: messages,
			Files:    files,
			Uploads:  services.NewUploadInspector(8<<20, 400),
			Metrics:  metrics,
		},
	})

	srv := httptest.NewServer(middleware.Protect(router, middleware.SecurityConfig{AuthKey: sessionKey}))
	t.Cleanup(srv.Close)
	return srv, messages
}

func newClient(t *testing.T) *http.Client {
	t.Helper()
	jar, err := cookiejar.New(nil)
	require.NoError(t, err)
	return &http.Client{Jar: jar}
}

func readBody(t *testing.T, resp *http.Response) string {
	t.Helper()
	defer resp.Body.Close()
	b, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return string(b)
}

// Given: a visitor with no session
// When: they submit the contact form and follow the redirect
// Then: the message is stored and the confirmation flash is shown once
func TestContactRoundTrip(t *testing.T) {
	srv, messages := startSite(t)
	client := newClient(t)

	resp, err := client.PostForm(srv.URL+"/contact", url.Values{
		"name":    {"Jane"},
		"email":   {"jane@x.com"},
		"subject": {"Prayer"},
		"message": {"Please pray for my family."},
		"urgency": {"High"},
	})
	require.NoError(t, err)
	body := readBody(t, resp)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "/contact", resp.Request.URL.Path)
	assert.Contains(t, body, "Your message has been sent!")

	msgs, err := messages.List(context.Background())
	require.NoError(t, err)
	require.Len(t, msgs, 1)
	assert.Equal(t, "Prayer", msgs[0].Subject)

	resp, err = client.Get(srv.URL + "/contact")
	require.NoError(t, err)
	assert.NotContains(t, readBody(t, resp), "Your message has been sent!")
}

// Given: the seeded admin
// When: they log in, add a leader, then log out
// Then: the leader appears on the people page and the dashboard is gated again
func TestAdminSessionRoundTrip(t *testing.T) {
	srv, _ := startSite(t)
	client := newClient(t)

	resp, err := client.Get(srv.URL + "/admin/dashboard")
	require.NoError(t, err)
	readBody(t, resp)
	assert.Equal(t, "/admin/login", resp.Request.URL.Path)

	resp, err = client.PostForm(srv.URL+"/admin/login", url.Values{"username": {"admin"}, "password": {"church123"}})
	require.NoError(t, err)
	assert.Contains(t, readBody(t, resp), "Signed in as admin")

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	for k, v := range map[string]string{"name": "Pastor Joe", "position": "Senior Pastor", "motto": "Grace"} {
		require.NoError(t, mw.WriteField(k, v))
	}
	fw, err := mw.CreateFormFile("image", "joe.png")
	require.NoError(t, err)
	_, err = fw.Write(portrait(t))
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	resp, err = client.Post(srv.URL+"/upload_leader", mw.FormDataContentType(), &buf)
	require.NoError(t, err)
	assert.Contains(t, readBody(t, resp), "Leader &#39;Pastor Joe&#39; uploaded successfully!")

	resp, err = client.Get(srv.URL + "/people")
	require.NoError(t, err)
	assert.Contains(t, readBody(t, resp), "Pastor Joe")

	resp, err = client.Get(srv.URL + "/admin/logout")
	require.NoError(t, err)
	readBody(t, resp)

	resp, err = client.Get(srv.URL + "/admin/dashboard")
	require.NoError(t, err)
	readBody(t, resp)
	assert.Equal(t, "/admin/login", resp.Request.URL.Path)
}

// Given: a browser on another site
// When: it POSTs to the login form
// Then: the request is refused before reaching the handler
func TestCrossSiteLoginRefused(t *testing.T) {
	srv, _ := startSite(t)

	req, err := http.NewRequest(http.MethodPost, srv.URL+"/admin/login",
		strings.NewReader(url.Values{"username": {"admin"}, "password": {"church123"}}.Encode()))
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Sec-Fetch-Site", "cross-site")

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	readBody(t, resp)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
}

func portrait(t *testing.T) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 32, 32))
	for x := 0; x < 32; x++ {
		for y := 0; y < 32; y++ {
			img.Set(x, y, color.RGBA{R: 200, G: 160, B: 90, A: 255})
		}
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}
