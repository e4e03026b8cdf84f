// main.go
package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/cloudwatch"
	"github.com/aws/aws-xray-sdk-go/xray"
	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"

	"church-site/config"
	"church-site/controllers"
	"church-site/logger"
	"church-site/mailer"
	"church-site/middleware"
	"church-site/services"
	"church-site/store"
)

const usage = `usage: church-site [serve|bootstrap]

  serve      run migrations and serve the site (default)
  bootstrap  run migrations, create the admin account if missing,
             settle interrupted uploads, then exit`

const shutdownTimeout = 15 * time.Second

// mediaPrefix is the URL root of the upload areas; templates link to
// /media/<area>/<file>.
const mediaPrefix = "/media/"

func main() {
	cmd := "serve"
	if len(os.Args) > 1 {
		cmd = os.Args[1]
	}
	if cmd != "serve" && cmd != "bootstrap" {
		fmt.Fprintln(os.Stderr, usage)
		os.Exit(2)
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	if err := logger.InitLogger(cfg.LogDir); err != nil {
		log.Fatalf("Failed to initialise logger: %v", err)
	}
	logger.SetLogLevel(cfg.Env)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a, err := newApp(cfg)
	if err != nil {
		logger.Error.Fatalf("[main] Startup failed: %v", err)
	}
	defer a.db.Close()

	switch cmd {
	case "bootstrap":
		err = a.bootstrap(ctx)
	default:
		err = a.serve(ctx)
	}
	if err != nil {
		logger.Error.Fatalf("[main] %s failed: %v", cmd, err)
	}
}

// app holds the long-lived dependencies shared by both commands.
type app struct {
	cfg      *config.Config
	db       *sql.DB
	admins   *store.SQLiteAdminStore
	events   *store.SQLiteEventStore
	leaders  *store.SQLiteLeaderStore
	messages *store.SQLiteMessageStore
	files    *services.FileStore
	auth     *services.AuthService
}

// newApp opens the database, applies migrations and builds the stores.
func newApp(cfg *config.Config) (*app, error) {
	db, err := store.NewDB(cfg.DBPath)
	if err != nil {
		return nil, err
	}
	if err := store.Migrate(db); err != nil {
		db.Close()
		return nil, err
	}

	admins := store.NewSQLiteAdminStore(db)
	return &app{
		cfg:      cfg,
		db:       db,
		admins:   admins,
		events:   store.NewSQLiteEventStore(db),
		leaders:  store.NewSQLiteLeaderStore(db),
		messages: store.NewSQLiteMessageStore(db),
		files:    services.NewFileStore(cfg.SermonsDir, cfg.PostersDir, cfg.StaffDir),
		auth:     services.NewAuthService(admins),
	}, nil
}

// bootstrap is the explicit, repeatable setup step run on deployment.
func (a *app) bootstrap(ctx context.Context) error {
	created, err := a.auth.EnsureAdmin(ctx, a.cfg.AdminUsername, a.cfg.AdminPassword)
	if err != nil {
		return fmt.Errorf("ensuring admin: %w", err)
	}
	if created {
		logger.Warn.Printf("[bootstrap] Admin %q created with the configured password; change it from /admin/reset", a.cfg.AdminUsername)
	}

	r := &services.Reconciler{Events: a.events, Leaders: a.leaders, Files: a.files}
	if _, err := r.Run(ctx); err != nil {
		return fmt.Errorf("reconciling uploads: %w", err)
	}
	return nil
}

// serve runs the HTTP server until ctx is cancelled.
func (a *app) serve(ctx context.Context) error {
	if n, err := a.admins.Count(ctx); err != nil {
		return err
	} else if n == 0 {
		logger.Warn.Println("[serve] No admin account exists; run `church-site bootstrap` to create one")
	}

	metrics, err := newMetrics(a.cfg)
	if err != nil {
		return err
	}
	notifier := services.NewNotifier(newSender(a.cfg), a.cfg.MailFrom, a.cfg.ChurchName)

	router := a.newRouter(notifier, metrics)
	security := middleware.SecurityConfig{
		AuthKey:        []byte(a.cfg.SessionSecret),
		TrustedOrigins: a.cfg.TrustedOrigins,
	}
	if a.cfg.XRayEnabled {
		security.TracingName = a.cfg.MetricsNamespace
	}

	srv := &http.Server{
		Addr:              a.cfg.Addr,
		Handler:           middleware.Protect(router, security),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       5 * time.Minute, // sermon uploads are large
		WriteTimeout:      5 * time.Minute,
		IdleTimeout:       2 * time.Minute,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info.Printf("[serve] Listening on %s (%s)", a.cfg.Addr, a.cfg.Env)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	logger.Info.Println("[serve] Shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

// newRouter builds the gin engine with sessions, templates, static files and all routes.
func (a *app) newRouter(notifier controllers.Acknowledger, metrics services.MetricsPublisher) *gin.Engine {
	if a.cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.Default()
	router.MaxMultipartMemory = a.cfg.MaxUploadBytes()

	// Initialize session store
	cookieStore := cookie.NewStore([]byte(a.cfg.SessionSecret))
	cookieStore.Options(sessions.Options{
		Path:     "/",
		MaxAge:   int(a.cfg.SessionMaxAge.Seconds()),
		HttpOnly: true,
		Secure:   a.cfg.IsProduction(),
		SameSite: http.SameSiteLaxMode,
	})
	router.Use(sessions.Sessions(a.cfg.SessionName, cookieStore))

	router.LoadHTMLGlob(filepath.Join(a.cfg.TemplatesDir, "*.html"))
	router.Static("/static", a.cfg.StaticDir)
	router.StaticFile("/favicon.ico", filepath.Join(a.cfg.StaticDir, "images", "favicon.ico"))
	// uploaded media is served from wherever each area is configured to live
	for _, area := range []services.Area{services.AreaSermons, services.AreaPosters, services.AreaStaff} {
		router.Static(mediaPrefix+string(area), a.files.Dir(area))
	}

	controllers.RegisterRoutes(router, a.cfg.ChurchName, controllers.Controllers{
		Pages: &controllers.PageController{
			Events:  a.events,
			Leaders: a.leaders,
			Files:   a.files,
			DB:      a.db,
			AppURL:  a.cfg.AppURL,
		},
		Contact: &controllers.ContactController{Messages: a.messages, Notifier: notifier, Metrics: metrics},
		Auth:    &controllers.AuthController{Auth: a.auth},
		Admin: &controllers.AdminController{
			Events:   a.events,
			Leaders:  a.leaders,
			Messages: a.messages,
			Files:    a.files,
			Uploads:  services.NewUploadInspector(a.cfg.MaxUploadBytes(), a.cfg.StaffImageMaxPx),
			Metrics:  metrics,
		},
	})
	return router
}

// newSender picks the mail transport named by the configuration.
func newSender(cfg *config.Config) mailer.Sender {
	switch cfg.MailProvider {
	case config.MailProviderSMTP:
		return mailer.NewSMTPSender(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUsername, cfg.SMTPPassword, cfg.MailFrom)
	case config.MailProviderResend:
		return mailer.NewResendSender(cfg.ResendAPIKey, cfg.MailFrom)
	default:
		return mailer.NewNoopSender()
	}
}

// newMetrics returns CloudWatch metrics when enabled, traced through X-Ray when
// that is enabled too.
func newMetrics(cfg *config.Config) (services.MetricsPublisher, error) {
	if cfg.XRayEnabled {
		if err := xray.Configure(xray.Config{DaemonAddr: cfg.XRayDaemonAddr}); err != nil {
			return nil, fmt.Errorf("configuring x-ray: %w", err)
		}
	}
	if !cfg.CloudWatchEnabled {
		return services.NoopMetrics{}, nil
	}

	sess, err := session.NewSession(&aws.Config{Region: aws.String(cfg.AWSRegion)})
	if err != nil {
		return nil, fmt.Errorf("creating aws session: %w", err)
	}
	if cfg.XRayEnabled {
		sess = xray.AWSSession(sess)
	}
	return services.NewCloudWatchMetrics(cloudwatch.New(sess), cfg.MetricsNamespace), nil
}
