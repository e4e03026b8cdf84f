// File: controllers/auth_controller.go
package controllers

import (
	"errors"
	"net/http"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"

	"church-site/logger"
	"church-site/middleware"
	"church-site/models"
	"church-site/services"
)

const (
	dashboardPath = "/admin/dashboard"
	resetPath     = "/admin/reset"
)

// AuthController handles admin login, logout and password reset.
type AuthController struct {
	Auth services.AuthServiceInterface
}

type loginForm struct {
	Username string `form:"username" binding:"required"`
	Password string `form:"password" binding:"required"`
}

type resetForm struct {
	CurrentPassword string `form:"current_password" binding:"required"`
	NewPassword     string `form:"new_password" binding:"required,min=8"`
	ConfirmPassword string `form:"confirm_password" binding:"required,eqfield=NewPassword"`
}

// ------------------ login handling ------------------

// ShowLogin renders the login form.
func (ac *AuthController) ShowLogin(c *gin.Context) {
	render(c, http.StatusOK, "admin_login.html", nil)
}

// PerformLogin checks the credentials and, on success, starts a fresh admin
// session. Whatever the session held before is discarded first.
func (ac *AuthController) PerformLogin(c *gin.Context) {
	var form loginForm
	if err := c.ShouldBind(&form); err != nil {
		render(c, http.StatusBadRequest, "admin_login.html", gin.H{"Error": "Please enter your username and password."})
		return
	}

	id, err := ac.Auth.Login(c.Request.Context(), form.Username, form.Password)
	if errors.Is(err, models.ErrInvalidCredentials) {
		render(c, http.StatusUnauthorized, "admin_login.html", gin.H{"Error": "Invalid credentials", "Username": form.Username})
		return
	}
	if err != nil {
		logger.Error.Printf("[PerformLogin] Login lookup failed: %v", err)
		render(c, http.StatusInternalServerError, "admin_login.html", gin.H{"Error": "Something went wrong, please try again."})
		return
	}

	session := sessions.Default(c)
	session.Clear()
	session.Set(middleware.SessionKeyLoggedIn, true)
	session.Set(middleware.SessionKeyAdminID, id.AdminID)
	session.Set(middleware.SessionKeyUsername, id.Username)
	session.Set(middleware.SessionKeyVersion, id.SessionVersion)
	if err := session.Save(); err != nil {
		logger.Error.Printf("[PerformLogin] Failed to save session: %v", err)
		render(c, http.StatusInternalServerError, "admin_login.html", gin.H{"Error": "Something went wrong, please try again."})
		return
	}

	logger.Info.Printf("[PerformLogin] Admin %q logged in", id.Username)
	c.Redirect(http.StatusFound, dashboardPath)
}

// Logout clears the session whether or not anyone was logged in.
func (ac *AuthController) Logout(c *gin.Context) {
	session := sessions.Default(c)
	username, _ := session.Get(middleware.SessionKeyUsername).(string)

	session.Clear()
	if err := session.Save(); err != nil {
		logger.Error.Printf("[Logout] Error saving session during logout: %v", err)
	} else if username != "" {
		logger.Info.Printf("[Logout] Admin %q logged out", username)
	}

	c.Redirect(http.StatusFound, middleware.LoginPath)
}

// ------------------ password reset ------------------

// ShowReset renders the password change form.
func (ac *AuthController) ShowReset(c *gin.Context) {
	id, _ := middleware.CurrentIdentity(c)
	render(c, http.StatusOK, "admin_reset.html", gin.H{"Username": id.Username})
}

// PerformReset changes the password after confirming the current one, then
// ends the session so the admin logs in again with the new password.
func (ac *AuthController) PerformReset(c *gin.Context) {
	id, ok := middleware.CurrentIdentity(c)
	if !ok {
		c.Redirect(http.StatusFound, middleware.LoginPath)
		return
	}

	var form resetForm
	if err := c.ShouldBind(&form); err != nil {
		addFlash(c, flashError, validationMessage(err))
		c.Redirect(http.StatusFound, resetPath)
		return
	}

	err := ac.Auth.ResetPassword(c.Request.Context(), id.Username, form.CurrentPassword, form.NewPassword)
	switch {
	case errors.Is(err, models.ErrInvalidCredentials):
		addFlash(c, flashError, "Current password is incorrect.")
		c.Redirect(http.StatusFound, resetPath)
		return
	case errors.Is(err, models.ErrValidation):
		addFlash(c, flashError, "New password must be at least 8 characters.")
		c.Redirect(http.StatusFound, resetPath)
		return
	case err != nil:
		logger.Error.Printf("[PerformReset] Password reset for %q failed: %v", id.Username, err)
		addFlash(c, flashError, "Password could not be updated, please try again.")
		c.Redirect(http.StatusFound, resetPath)
		return
	}

	session := sessions.Default(c)
	session.Clear()
	session.AddFlash("Password updated successfully!", flashSuccess)
	if err := session.Save(); err != nil {
		logger.Error.Printf("[PerformReset] Failed to save session: %v", err)
	}
	c.Redirect(http.StatusFound, middleware.LoginPath)
}
