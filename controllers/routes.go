// File: controllers/routes.go
package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"church-site/middleware"
)

// Controllers groups the handlers mounted by RegisterRoutes.
type Controllers struct {
	Pages   *PageController
	Contact *ContactController
	Auth    *AuthController
	Admin   *AdminController
}

// RegisterRoutes mounts the public pages, the login flow and the admin back
// office. Every admin route sits behind middleware.AdminRequired.
func RegisterRoutes(router *gin.Engine, churchName string, cs Controllers) {
	router.Use(middleware.RequestID(), SiteInfo(churchName))

	// public pages
	router.GET("/", cs.Pages.Home)
	router.GET("/sermons", cs.Pages.Sermons)
	router.GET("/events", cs.Pages.EventsPage)
	router.GET("/about", cs.Pages.About)
	router.GET("/people", cs.Pages.People)
	router.GET("/qrcode", cs.Pages.QRCode)
	router.GET("/health", cs.Pages.Health)

	router.GET("/contact", cs.Contact.ShowContact)
	router.POST("/contact", cs.Contact.SubmitContact)

	// login flow
	router.GET("/admin/login", cs.Auth.ShowLogin)
	router.POST("/admin/login", cs.Auth.PerformLogin)
	router.GET("/admin/logout", cs.Auth.Logout)

	// admin back office
	admin := router.Group("", middleware.AdminRequired(cs.Auth.Auth))
	{
		admin.GET("/admin", func(c *gin.Context) { c.Redirect(http.StatusFound, dashboardPath) })
		admin.GET(dashboardPath, cs.Admin.Dashboard)
		admin.GET("/admin/reset", cs.Auth.ShowReset)
		admin.POST("/admin/reset", cs.Auth.PerformReset)

		admin.POST("/upload_sermon", cs.Admin.UploadSermon)
		admin.POST("/upload_event", cs.Admin.UploadEvent)
		admin.POST("/upload_leader", cs.Admin.UploadLeader)

		admin.POST("/delete_sermon/:filename", cs.Admin.DeleteSermon)
		admin.POST("/delete_poster/:filename", cs.Admin.DeletePoster)
		admin.POST("/delete_leader/:id", cs.Admin.DeleteLeader)
		admin.POST("/delete_message/:id", cs.Admin.DeleteMessage)
		admin.POST("/archive_message/:id", cs.Admin.ArchiveMessage)
	}
}
