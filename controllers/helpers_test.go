// file: controllers/helpers_test.go
package controllers

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/png"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"church-site/services"
	"church-site/store"
)

const (
	testSessionName = "testsession"
	testUsername    = "admin"
	testPassword    = "church123"
)

// fixedNow is the clock every test site runs on.
var fixedNow = time.Date(2026, 10, 15, 12, 0, 0, 0, time.UTC)

// MockAcknowledger records acknowledgement attempts.
type MockAcknowledger struct {
	mock.Mock
}

func (m *MockAcknowledger) Acknowledge(ctx context.Context, name, email string) error {
	args := m.Called(ctx, name, email)
	return args.Error(0)
}

// testSite is a fully wired router over a temp SQLite database and temp file areas.
type testSite struct {
	router   *gin.Engine
	events   *store.SQLiteEventStore
	leaders  *store.SQLiteLeaderStore
	messages *store.SQLiteMessageStore
	files    *services.FileStore
	auth     *services.AuthService
	notifier *MockAcknowledger
	dirs     map[services.Area]string
}

func newTestSite(t *testing.T) *testSite {
	t.Helper()
	gin.SetMode(gin.TestMode)

	root := t.TempDir()
	db, err := store.NewDB(filepath.Join(root, "church.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	require.NoError(t, store.Migrate(db))

	site := &testSite{
		events:   store.NewSQLiteEventStore(db),
		leaders:  store.NewSQLiteLeaderStore(db),
		messages: store.NewSQLiteMessageStore(db),
		notifier: new(MockAcknowledger),
		dirs: map[services.Area]string{
			services.AreaSermons: filepath.Join(root, "sermons"),
			services.AreaPosters: filepath.Join(root, "posters"),
			services.AreaStaff:   filepath.Join(root, "staff"),
		},
	}
	site.files = services.NewFileStore(site.dirs[services.AreaSermons], site.dirs[services.AreaPosters], site.dirs[services.AreaStaff])
	site.auth = services.NewAuthService(store.NewSQLiteAdminStore(db)).WithCost(bcrypt.MinCost)
	_, err = site.auth.EnsureAdmin(context.Background(), testUsername, testPassword)
	require.NoError(t, err)

	router := gin.New()
	router.Use(sessions.Sessions(testSessionName, cookie.NewStore([]byte("test-secret"))))

	// Create minimal templates to avoid panics during testing.
	tmplDir := t.TempDir()
	require.NoError(t, createDummyTemplates(tmplDir))
	router.LoadHTMLGlob(filepath.Join(tmplDir, "*.html"))

	metrics := services.NoopMetrics{}
	RegisterRoutes(router, "Harvest Church", Controllers{
		Pages: &PageController{
			Events:  site.events,
			Leaders: site.leaders,
			Files:   site.files,
			DB:      db,
			AppURL:  "https://church.test",
			Now:     func() time.Time { return fixedNow },
		},
		Contact: &ContactController{Messages: site.messages, Notifier: site.notifier, Metrics: metrics},
		Auth:    &AuthController{Auth: site.auth},
		Admin: &AdminController{
			Events:   site.events,
			Leaders:  site.leaders,
			Messages: site.messages,
			Files:    site.files,
			Uploads:  services.NewUploadInspector(1<<20, 0),
			Metrics:  metrics,
		},
	})
	site.router = router
	return site
}

const flashesTmpl = `{{range $cat, $msgs := .Flashes}}{{range $msgs}}[{{$cat}}] {{.}}
{{end}}{{end}}`

// createDummyTemplates writes templates that print just enough for assertions.
func createDummyTemplates(dir string) error {
	templates := map[string]string{
		"home.html":        `<h1>{{.ChurchName}}</h1>` + flashesTmpl,
		"about.html":       `about {{.ChurchName}}`,
		"sermons.html":     `{{range .Sermons}}sermon:{{.}};{{end}}`,
		"events.html":      `{{range .CurrentEvents}}current:{{.Title}};{{.DescriptionHTML}}{{end}}{{range .ArchivedEvents}}archived:{{.Title}};{{end}}`,
		"people.html":      `{{range .Leaders}}leader:{{.Name}}:{{.ImageFilename}};{{end}}`,
		"contact.html":     `contact {{.Error}}` + flashesTmpl,
		"admin_login.html": `login {{.Error}}` + flashesTmpl,
		"admin_reset.html": `reset {{.Username}}` + flashesTmpl,
		"admin_dashboard.html": `dashboard {{.Username}}` + flashesTmpl +
			`{{range .Sermons}}sermon:{{.}};{{end}}{{range .Posters}}poster:{{.}};{{end}}` +
			`{{range .Leaders}}leader:{{.Name}};{{end}}{{range .Messages}}message:{{.Subject}};{{end}}`,
	}

	for name, content := range templates {
		if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0644); err != nil {
			return err
		}
	}
	return nil
}

// do serves req, attaching session when set, and returns the recorder plus the
// session cookie the response left behind (or the one sent when none was set).
func (s *testSite) do(req *http.Request, session *http.Cookie) (*httptest.ResponseRecorder, *http.Cookie) {
	if session != nil {
		req.AddCookie(session)
	}
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	for _, c := range w.Result().Cookies() {
		if c.Name == testSessionName {
			return w, c
		}
	}
	return w, session
}

func (s *testSite) get(path string, session *http.Cookie) (*httptest.ResponseRecorder, *http.Cookie) {
	return s.do(httptest.NewRequest(http.MethodGet, path, nil), session)
}

func (s *testSite) postForm(path string, form url.Values, session *http.Cookie) (*httptest.ResponseRecorder, *http.Cookie) {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return s.do(req, session)
}

func (s *testSite) postMultipart(t *testing.T, path string, fields map[string]string, fileField, fileName string, content []byte, session *http.Cookie) (*httptest.ResponseRecorder, *http.Cookie) {
	t.Helper()
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	for k, v := range fields {
		require.NoError(t, mw.WriteField(k, v))
	}
	if fileField != "" {
		fw, err := mw.CreateFormFile(fileField, fileName)
		require.NoError(t, err)
		_, err = fw.Write(content)
		require.NoError(t, err)
	}
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, path, &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return s.do(req, session)
}

// login signs in as the seeded admin and returns the session cookie.
func (s *testSite) login(t *testing.T) *http.Cookie {
	t.Helper()
	w, session := s.postForm("/admin/login", url.Values{"username": {testUsername}, "password": {testPassword}}, nil)
	require.Equal(t, http.StatusFound, w.Code)
	require.Equal(t, dashboardPath, w.Header().Get("Location"))
	require.NotNil(t, session)
	return session
}

// pngBytes encodes a solid w x h PNG.
func pngBytes(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for x := 0; x < w; x++ {
		for y := 0; y < h; y++ {
			img.Set(x, y, color.RGBA{R: 90, G: 40, B: 160, A: 255})
		}
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

// mp3Bytes is an ID3-tagged stub that content sniffing recognises as MPEG audio.
func mp3Bytes() []byte {
	return append([]byte("ID3\x03\x00\x00\x00\x00\x00\x0f"), make([]byte, 64)...)
}
