// Package controllers holds the HTTP handlers for the public pages, the
// contact form and the admin back office.
// File: controllers/view.go
package controllers

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"unicode"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"

	"church-site/logger"
	"church-site/middleware"
)

// Flash categories, rendered as banner styles by the templates.
const (
	flashSuccess = "success"
	flashWarning = "warning"
	flashError   = "error"
)

var flashCategories = []string{flashSuccess, flashWarning, flashError}

const churchNameKey = "church.name"

// SiteInfo exposes the church name to every rendered page.
func SiteInfo(churchName string) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(churchNameKey, churchName)
		c.Next()
	}
}

// addFlash queues a banner for the next rendered page.
func addFlash(c *gin.Context, category, msg string) {
	session := sessions.Default(c)
	session.AddFlash(msg, category)
	if err := session.Save(); err != nil {
		logger.Error.Printf("[addFlash] Failed to save session: %v", err)
	}
}

// render consumes pending flashes and renders name with the shared page data.
func render(c *gin.Context, status int, name string, data gin.H) {
	if data == nil {
		data = gin.H{}
	}
	session := sessions.Default(c)

	flashes := make(map[string][]string, len(flashCategories))
	consumed := false
	for _, cat := range flashCategories {
		for _, f := range session.Flashes(cat) {
			if s, ok := f.(string); ok {
				flashes[cat] = append(flashes[cat], s)
				consumed = true
			}
		}
	}
	if consumed {
		if err := session.Save(); err != nil {
			logger.Error.Printf("[render] Failed to save session after reading flashes: %v", err)
		}
	}

	data["Flashes"] = flashes
	data["ChurchName"] = c.GetString(churchNameKey)
	data["RequestID"] = middleware.GetRequestID(c)
	c.HTML(status, name, data)
}

// notFound is the plain 404 used for unknown ids.
func notFound(c *gin.Context) {
	c.String(http.StatusNotFound, "Not Found")
}

// validationMessage turns a binding error into a sentence fit for a banner.
func validationMessage(err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return "Please check the form and try again."
	}

	parts := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		field := humanize(fe.Field())
		switch fe.Tag() {
		case "required":
			parts = append(parts, field+" is required")
		case "email":
			parts = append(parts, field+" must be a valid email address")
		case "oneof":
			parts = append(parts, fmt.Sprintf("%s must be one of %s", field, strings.ReplaceAll(fe.Param(), " ", ", ")))
		case "gtefield":
			parts = append(parts, fmt.Sprintf("%s must not be before %s", field, humanize(fe.Param())))
		case "min":
			parts = append(parts, fmt.Sprintf("%s must be at least %s characters", field, fe.Param()))
		case "eqfield":
			parts = append(parts, fmt.Sprintf("%s does not match", field))
		default:
			parts = append(parts, field+" is invalid")
		}
	}
	msg := strings.Join(parts, "; ")
	return strings.ToUpper(msg[:1]) + msg[1:] + "."
}

// humanize turns a Go field name like StartDate into "start date".
func humanize(field string) string {
	var b strings.Builder
	for i, r := range field {
		if unicode.IsUpper(r) {
			if i > 0 {
				b.WriteByte(' ')
			}
			r = unicode.ToLower(r)
		}
		b.WriteRune(r)
	}
	return b.String()
}
