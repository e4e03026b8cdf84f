// File: controllers/admin_controller.go
package controllers

import (
	"bytes"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"church-site/logger"
	"church-site/middleware"
	"church-site/models"
	"church-site/services"
	"church-site/store"
)

// ---------------- Admin Controller ----------------

// AdminController provides the back office: the dashboard, uploads, deletions
// and message triage. Every handler runs behind middleware.AdminRequired.
type AdminController struct {
	Events   store.EventStore
	Leaders  store.LeaderStore
	Messages store.MessageStore
	Files    *services.FileStore
	Uploads  *services.UploadInspector
	Metrics  services.MetricsPublisher
}

type sermonForm struct {
	Title string `form:"title" binding:"required"`
}

type eventForm struct {
	Title       string    `form:"event_title" binding:"required"`
	Description string    `form:"description"`
	Category    string    `form:"category" binding:"required"`
	StartDate   time.Time `form:"start_date" time_format:"2006-01-02" time_utc:"1" binding:"required"`
	EndDate     time.Time `form:"end_date" time_format:"2006-01-02" time_utc:"1" binding:"required,gtefield=StartDate"`
}

type leaderForm struct {
	Name     string `form:"name" binding:"required"`
	Position string `form:"position" binding:"required"`
	Motto    string `form:"motto"`
	Phone    string `form:"phone"`
	Email    string `form:"email" binding:"omitempty,email"`
}

// done redirects to the dashboard with a banner.
func done(c *gin.Context, category, msg string) {
	addFlash(c, category, msg)
	c.Redirect(http.StatusFound, dashboardPath)
}

// fail maps err onto the admin response policy: unknown ids are a plain 404,
// everything else goes back to the dashboard with an error banner.
func fail(c *gin.Context, op string, err error) {
	switch {
	case errors.Is(err, models.ErrNotFound):
		notFound(c)
	case errors.Is(err, models.ErrValidation):
		logger.Warn.Printf("[%s] Rejected: %v", op, err)
		done(c, flashError, validationDetail(err))
	default:
		logger.Error.Printf("[%s] Failed: %v", op, err)
		done(c, flashError, "Something went wrong while saving. Please try again.")
	}
}

// validationDetail turns a models.ErrValidation chain into a banner sentence.
func validationDetail(err error) string {
	msg := strings.TrimPrefix(err.Error(), models.ErrValidation.Error()+": ")
	if msg == "" {
		return "The request was rejected."
	}
	return strings.ToUpper(msg[:1]) + msg[1:] + "."
}

func parseID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		notFound(c)
		return 0, false
	}
	return id, true
}

// ---------------- dashboard ----------------

// Dashboard shows everything the admin manages on one page.
func (ac *AdminController) Dashboard(c *gin.Context) {
	ctx := c.Request.Context()
	id, _ := middleware.CurrentIdentity(c)

	sermons, err := ac.Files.List(services.AreaSermons)
	if err != nil {
		dashboardError(c, err)
		return
	}
	posters, err := ac.Files.List(services.AreaPosters)
	if err != nil {
		dashboardError(c, err)
		return
	}
	events, err := ac.Events.List(ctx)
	if err != nil {
		dashboardError(c, err)
		return
	}
	leaders, err := ac.Leaders.List(ctx)
	if err != nil {
		dashboardError(c, err)
		return
	}
	messages, err := ac.Messages.List(ctx)
	if err != nil {
		dashboardError(c, err)
		return
	}

	render(c, http.StatusOK, "admin_dashboard.html", gin.H{
		"Username": id.Username,
		"Sermons":  sermons,
		"Posters":  posters,
		"Events":   newEventViews(events),
		"Leaders":  leaders,
		"Messages": messages,
	})
}

// dashboardError cannot redirect to the dashboard, so it answers 500.
func dashboardError(c *gin.Context, err error) {
	logger.Error.Printf("[Dashboard] Loading dashboard failed: %v", err)
	c.String(http.StatusInternalServerError, "Internal Server Error")
}

// ---------------- uploads ----------------

// UploadSermon stores an audio file in the sermons area. Sermons have no
// database row; the title only appears in the confirmation banner.
func (ac *AdminController) UploadSermon(c *gin.Context) {
	var form sermonForm
	if err := c.ShouldBind(&form); err != nil {
		done(c, flashError, validationMessage(err))
		return
	}
	fh, _ := c.FormFile("sermon_file")
	up, err := ac.Uploads.Inspect(services.AreaSermons, fh)
	if err != nil {
		fail(c, "UploadSermon", err)
		return
	}

	name, err := ac.Files.Save(services.AreaSermons, up.Filename, bytes.NewReader(up.Data))
	if err != nil {
		fail(c, "UploadSermon", err)
		return
	}

	ac.Metrics.PublishUpload(c.Request.Context(), services.AreaSermons)
	logger.Info.Printf("[UploadSermon] Sermon %q stored as %s", form.Title, name)
	done(c, flashSuccess, fmt.Sprintf("Sermon '%s' uploaded successfully!", form.Title))
}

// UploadEvent records an event and stores its poster. The row stays pending
// until the poster is on disk and is removed again if the save fails.
func (ac *AdminController) UploadEvent(c *gin.Context) {
	ctx := c.Request.Context()

	var form eventForm
	if err := c.ShouldBind(&form); err != nil {
		done(c, flashError, validationMessage(err))
		return
	}
	fh, _ := c.FormFile("poster")
	up, err := ac.Uploads.Inspect(services.AreaPosters, fh)
	if err != nil {
		fail(c, "UploadEvent", err)
		return
	}
	poster, err := services.SanitizeFilename(up.Filename)
	if err != nil {
		fail(c, "UploadEvent", err)
		return
	}

	event := &models.Event{
		Title:          form.Title,
		Description:    form.Description,
		Category:       form.Category,
		PosterFilename: poster,
		StartDate:      form.StartDate,
		EndDate:        form.EndDate,
	}
	if err := ac.Events.Create(ctx, event); err != nil {
		fail(c, "UploadEvent", err)
		return
	}

	if _, err := ac.Files.Save(services.AreaPosters, poster, bytes.NewReader(up.Data)); err != nil {
		if derr := ac.Events.Delete(ctx, event.ID); derr != nil {
			logger.Error.Printf("[UploadEvent] Could not remove pending event %d: %v", event.ID, derr)
		}
		fail(c, "UploadEvent", err)
		return
	}
	if err := ac.Events.MarkReady(ctx, event.ID); err != nil {
		fail(c, "UploadEvent", err)
		return
	}

	ac.Metrics.PublishUpload(ctx, services.AreaPosters)
	logger.Info.Printf("[UploadEvent] Event %d %q published with poster %s", event.ID, event.Title, poster)
	done(c, flashSuccess, fmt.Sprintf("Event '%s' uploaded successfully!", form.Title))
}

// UploadLeader records a staff member and stores their portrait, with the
// same pending protocol as UploadEvent.
func (ac *AdminController) UploadLeader(c *gin.Context) {
	ctx := c.Request.Context()

	var form leaderForm
	if err := c.ShouldBind(&form); err != nil {
		done(c, flashError, validationMessage(err))
		return
	}
	fh, _ := c.FormFile("image")
	up, err := ac.Uploads.Inspect(services.AreaStaff, fh)
	if err != nil {
		fail(c, "UploadLeader", err)
		return
	}
	image, err := services.SanitizeFilename(up.Filename)
	if err != nil {
		fail(c, "UploadLeader", err)
		return
	}

	leader := &models.Leader{
		Name:          form.Name,
		Position:      form.Position,
		Motto:         form.Motto,
		Phone:         form.Phone,
		Email:         form.Email,
		ImageFilename: image,
	}
	if err := ac.Leaders.Create(ctx, leader); err != nil {
		fail(c, "UploadLeader", err)
		return
	}

	if _, err := ac.Files.Save(services.AreaStaff, image, bytes.NewReader(up.Data)); err != nil {
		if derr := ac.Leaders.Delete(ctx, leader.ID); derr != nil {
			logger.Error.Printf("[UploadLeader] Could not remove pending leader %d: %v", leader.ID, derr)
		}
		fail(c, "UploadLeader", err)
		return
	}
	if err := ac.Leaders.MarkReady(ctx, leader.ID); err != nil {
		fail(c, "UploadLeader", err)
		return
	}

	ac.Metrics.PublishUpload(ctx, services.AreaStaff)
	logger.Info.Printf("[UploadLeader] Leader %d %q published with image %s", leader.ID, leader.Name, image)
	done(c, flashSuccess, fmt.Sprintf("Leader '%s' uploaded successfully!", form.Name))
}

// ---------------- deletions ----------------

// DeleteSermon removes a sermon file. A file that is already gone only earns a warning.
func (ac *AdminController) DeleteSermon(c *gin.Context) {
	filename := c.Param("filename")
	removed, err := ac.Files.Delete(services.AreaSermons, filename)
	if err != nil {
		fail(c, "DeleteSermon", err)
		return
	}
	if !removed {
		done(c, flashWarning, fmt.Sprintf("Sermon '%s' was already gone.", filename))
		return
	}

	ac.Metrics.PublishDeletion(c.Request.Context(), "sermon")
	done(c, flashSuccess, fmt.Sprintf("Sermon '%s' deleted.", filename))
}

// DeletePoster removes a poster file together with every event that uses it.
func (ac *AdminController) DeletePoster(c *gin.Context) {
	ctx := c.Request.Context()
	raw := c.Param("filename")
	poster, err := services.SanitizeFilename(raw)
	if err != nil {
		fail(c, "DeletePoster", err)
		return
	}

	// the raw name covers posters copied in by hand; events always hold the sanitized one
	removed, err := ac.Files.Delete(services.AreaPosters, raw)
	if err != nil {
		fail(c, "DeletePoster", err)
		return
	}
	n, err := ac.Events.DeleteByPoster(ctx, poster)
	if err != nil {
		fail(c, "DeletePoster", err)
		return
	}
	if !removed && n == 0 {
		done(c, flashWarning, fmt.Sprintf("Poster '%s' was already gone.", poster))
		return
	}

	ac.Metrics.PublishDeletion(ctx, "poster")
	msg := fmt.Sprintf("Poster '%s' deleted.", poster)
	if n > 0 {
		msg = fmt.Sprintf("Poster '%s' deleted along with %d event(s).", poster, n)
	}
	logger.Info.Printf("[DeletePoster] %s", msg)
	done(c, flashSuccess, msg)
}

// DeleteLeader removes the portrait and then the row.
func (ac *AdminController) DeleteLeader(c *gin.Context) {
	ctx := c.Request.Context()
	id, ok := parseID(c)
	if !ok {
		return
	}

	leader, err := ac.Leaders.Get(ctx, id)
	if err != nil {
		fail(c, "DeleteLeader", err)
		return
	}
	if _, err := ac.Files.Delete(services.AreaStaff, leader.ImageFilename); err != nil && !errors.Is(err, models.ErrValidation) {
		fail(c, "DeleteLeader", err)
		return
	}
	if err := ac.Leaders.Delete(ctx, id); err != nil {
		fail(c, "DeleteLeader", err)
		return
	}

	ac.Metrics.PublishDeletion(ctx, "leader")
	done(c, flashSuccess, fmt.Sprintf("Leader '%s' removed.", leader.Name))
}

// DeleteMessage removes a contact message.
func (ac *AdminController) DeleteMessage(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	if err := ac.Messages.Delete(c.Request.Context(), id); err != nil {
		fail(c, "DeleteMessage", err)
		return
	}

	ac.Metrics.PublishDeletion(c.Request.Context(), "message")
	done(c, flashSuccess, "Message deleted.")
}

// ArchiveMessage flags a message as handled. Archiving twice is harmless.
func (ac *AdminController) ArchiveMessage(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	if err := ac.Messages.Archive(c.Request.Context(), id); err != nil {
		fail(c, "ArchiveMessage", err)
		return
	}
	done(c, flashSuccess, "Message archived.")
}
