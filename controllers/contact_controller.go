// File: controllers/contact_controller.go
package controllers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"church-site/logger"
	"church-site/models"
	"church-site/services"
	"church-site/store"
)

// acknowledgeTimeout bounds the confirmation email so a slow relay cannot hold the visitor.
const acknowledgeTimeout = 10 * time.Second

// Acknowledger sends the confirmation email after a contact submission.
type Acknowledger interface {
	Acknowledge(ctx context.Context, name, email string) error
}

// ContactController handles the public contact form.
type ContactController struct {
	Messages store.MessageStore
	Notifier Acknowledger
	Metrics  services.MetricsPublisher
}

type contactForm struct {
	Name    string `form:"name" binding:"required"`
	Email   string `form:"email" binding:"required,email"`
	Subject string `form:"subject" binding:"required"`
	Message string `form:"message" binding:"required"`
	Urgency string `form:"urgency" binding:"required,oneof=High Medium Low"`
}

// ShowContact renders the empty form.
func (cc *ContactController) ShowContact(c *gin.Context) {
	render(c, http.StatusOK, "contact.html", gin.H{"Form": contactForm{Urgency: string(models.UrgencyMedium)}})
}

// SubmitContact stores the message, then attempts the acknowledgement. A
// failed acknowledgement does not undo the stored message.
func (cc *ContactController) SubmitContact(c *gin.Context) {
	var form contactForm
	if err := c.ShouldBind(&form); err != nil {
		logger.Debug.Printf("[SubmitContact] Rejected form: %v", err)
		render(c, http.StatusBadRequest, "contact.html", gin.H{"Form": form, "Error": validationMessage(err)})
		return
	}

	urgency, err := models.ParseUrgency(form.Urgency)
	if err != nil {
		render(c, http.StatusBadRequest, "contact.html", gin.H{"Form": form, "Error": "Please choose an urgency."})
		return
	}

	msg := &models.Message{
		Name:    form.Name,
		Email:   form.Email,
		Subject: form.Subject,
		Content: form.Message,
		Urgency: urgency,
	}
	if err := cc.Messages.Create(c.Request.Context(), msg); err != nil {
		logger.Error.Printf("[SubmitContact] Saving message from %s failed: %v", form.Email, err)
		render(c, http.StatusInternalServerError, "contact.html", gin.H{
			"Form":  form,
			"Error": "We could not save your message. Please try again later.",
		})
		return
	}
	logger.Info.Printf("[SubmitContact] Stored message %d (%s) from %s", msg.ID, msg.Urgency, msg.Email)
	cc.Metrics.PublishContactMessage(c.Request.Context(), msg.Urgency)

	ctx, cancel := context.WithTimeout(c.Request.Context(), acknowledgeTimeout)
	defer cancel()
	if err := cc.Notifier.Acknowledge(ctx, msg.Name, msg.Email); err != nil {
		logger.Warn.Printf("[SubmitContact] Acknowledgement for message %d failed: %v", msg.ID, err)
		cc.Metrics.PublishAcknowledgementFailure(c.Request.Context())
		addFlash(c, flashWarning, "Your message has been sent, but we could not send a confirmation email.")
	} else {
		addFlash(c, flashSuccess, "Your message has been sent!")
	}

	c.Redirect(http.StatusFound, "/contact")
}
