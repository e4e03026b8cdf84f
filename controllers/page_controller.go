// File: controllers/page_controller.go
package controllers

import (
	"context"
	"errors"
	"html/template"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/skip2/go-qrcode"

	"church-site/logger"
	"church-site/models"
	"church-site/services"
	"church-site/store"
)

// Pinger is the slice of *sql.DB the health check needs.
type Pinger interface {
	PingContext(ctx context.Context) error
}

// PageController renders the public, read-only pages.
type PageController struct {
	Events  store.EventStore
	Leaders store.LeaderStore
	Files   *services.FileStore
	DB      Pinger
	AppURL  string
	// Now is the clock used to split current from archived events.
	Now func() time.Time
}

// EventView is an Event with its description rendered for display.
type EventView struct {
	models.Event
	DescriptionHTML template.HTML
	Start           string
	End             string
}

func newEventViews(events []models.Event) []EventView {
	views := make([]EventView, 0, len(events))
	for _, e := range events {
		views = append(views, EventView{
			Event:           e,
			DescriptionHTML: services.RenderMarkdown(e.Description),
			Start:           models.CivilDate(e.StartDate),
			End:             models.CivilDate(e.EndDate),
		})
	}
	return views
}

func (pc *PageController) now() time.Time {
	if pc.Now != nil {
		return pc.Now()
	}
	return time.Now()
}

// Home renders the landing page.
func (pc *PageController) Home(c *gin.Context) {
	render(c, http.StatusOK, "home.html", nil)
}

// About renders the static about page.
func (pc *PageController) About(c *gin.Context) {
	render(c, http.StatusOK, "about.html", nil)
}

// Sermons lists the audio files in the sermons area.
func (pc *PageController) Sermons(c *gin.Context) {
	files, err := pc.Files.List(services.AreaSermons)
	if err != nil {
		logger.Error.Printf("[Sermons] Listing sermons failed: %v", err)
		c.String(http.StatusInternalServerError, "Internal Server Error")
		return
	}
	render(c, http.StatusOK, "sermons.html", gin.H{"Sermons": files})
}

// EventsPage lists ready events split into current and archived on today's date.
func (pc *PageController) EventsPage(c *gin.Context) {
	events, err := pc.Events.List(c.Request.Context())
	if err != nil {
		logger.Error.Printf("[Events] Listing events failed: %v", err)
		c.String(http.StatusInternalServerError, "Internal Server Error")
		return
	}

	current, archived := models.SplitEvents(events, pc.now())
	render(c, http.StatusOK, "events.html", gin.H{
		"CurrentEvents":  newEventViews(current),
		"ArchivedEvents": newEventViews(archived),
	})
}

// People lists the staff.
func (pc *PageController) People(c *gin.Context) {
	leaders, err := pc.Leaders.List(c.Request.Context())
	if err != nil {
		logger.Error.Printf("[People] Listing leaders failed: %v", err)
		c.String(http.StatusInternalServerError, "Internal Server Error")
		return
	}
	render(c, http.StatusOK, "people.html", gin.H{"Leaders": leaders})
}

// QRCode returns a PNG QR code pointing at a page of this site, for printed bulletins.
// The page is chosen with ?path=/contact and defaults to the home page.
func (pc *PageController) QRCode(c *gin.Context) {
	target, err := services.SiteURL(pc.AppURL, c.Query("path"))
	if err != nil {
		c.String(http.StatusBadRequest, "path must be a page of this site")
		return
	}

	size := services.DefaultQRCodeSize
	qrBytes, err := services.GenerateQRCode(target, size, size, qrcode.Encode)
	if err != nil {
		logger.Error.Printf("[QRCode] Error generating QR code for %s: %v", target, err)
		c.String(http.StatusInternalServerError, "QR generation failed")
		return
	}

	c.Header("Content-Disposition", "inline; filename=\"qrcode.png\"")
	c.Data(http.StatusOK, "image/png", qrBytes)
}

// Health reports whether the database answers.
func (pc *PageController) Health(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()

	if err := pc.DB.PingContext(ctx); err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			logger.Warn.Println("[Health] Database ping timed out")
		} else {
			logger.Error.Printf("[Health] Database ping failed: %v", err)
		}
		c.String(http.StatusServiceUnavailable, "database unavailable")
		return
	}
	c.String(http.StatusOK, "OK")
}
