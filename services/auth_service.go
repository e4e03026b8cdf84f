// File: services/auth_service.go
package services

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"

	"church-site/logger"
	"church-site/models"
	"church-site/store"
)

// MinPasswordLength applies to passwords set through ResetPassword and EnsureAdmin.
const MinPasswordLength = 8

// AuthServiceInterface is the credential logic behind the admin session gate.
type AuthServiceInterface interface {
	Login(ctx context.Context, username, password string) (models.Identity, error)
	ResetPassword(ctx context.Context, username, currentPassword, newPassword string) error
	SessionVersion(ctx context.Context, username string) (string, error)
}

// AuthService checks and rewrites the admin's bcrypt password hash.
type AuthService struct {
	admins store.AdminStore
	cost   int
}

// NewAuthService uses bcrypt.DefaultCost.
func NewAuthService(admins store.AdminStore) *AuthService {
	return &AuthService{admins: admins, cost: bcrypt.DefaultCost}
}

// WithCost overrides the bcrypt cost, mainly so tests stay fast.
func (s *AuthService) WithCost(cost int) *AuthService {
	s.cost = cost
	return s
}

// ComparePasswords checks if the given password matches the hashed password
func ComparePasswords(hashedPassword, plainPassword string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hashedPassword), []byte(plainPassword)) == nil
}

// SessionVersionOf derives the session version from a password hash. The hash
// itself never goes into the cookie.
func SessionVersionOf(passwordHash string) string {
	sum := sha256.Sum256([]byte("session:" + passwordHash))
	return hex.EncodeToString(sum[:8])
}

// SessionVersion returns the version sessions for username must carry, or
// models.ErrInvalidCredentials when the admin no longer exists.
func (s *AuthService) SessionVersion(ctx context.Context, username string) (string, error) {
	admin, err := s.admins.GetByUsername(ctx, username)
	if errors.Is(err, models.ErrNotFound) {
		return "", models.ErrInvalidCredentials
	}
	if err != nil {
		return "", err
	}
	return SessionVersionOf(admin.PasswordHash), nil
}

// Login returns the admin's identity, or models.ErrInvalidCredentials when the
// username is unknown or the password does not match.
func (s *AuthService) Login(ctx context.Context, username, password string) (models.Identity, error) {
	admin, err := s.admins.GetByUsername(ctx, username)
	if errors.Is(err, models.ErrNotFound) {
		logger.Warn.Printf("[AuthService.Login] Unknown username %q", username)
		return models.Identity{}, models.ErrInvalidCredentials
	}
	if err != nil {
		return models.Identity{}, err
	}

	if !ComparePasswords(admin.PasswordHash, password) {
		logger.Warn.Printf("[AuthService.Login] Wrong password for %q", username)
		return models.Identity{}, models.ErrInvalidCredentials
	}

	logger.Info.Printf("[AuthService.Login] Admin %q authenticated", username)
	return models.Identity{AdminID: admin.ID, Username: admin.Username, SessionVersion: SessionVersionOf(admin.PasswordHash)}, nil
}

// ResetPassword replaces the password only after the current one is confirmed.
func (s *AuthService) ResetPassword(ctx context.Context, username, currentPassword, newPassword string) error {
	if len(newPassword) < MinPasswordLength {
		return fmt.Errorf("%w: new password must be at least %d characters", models.ErrValidation, MinPasswordLength)
	}

	admin, err := s.admins.GetByUsername(ctx, username)
	if errors.Is(err, models.ErrNotFound) {
		return models.ErrInvalidCredentials
	}
	if err != nil {
		return err
	}
	if !ComparePasswords(admin.PasswordHash, currentPassword) {
		logger.Warn.Printf("[AuthService.ResetPassword] Current password mismatch for %q", username)
		return models.ErrInvalidCredentials
	}

	hash, err := s.hash(newPassword)
	if err != nil {
		return err
	}
	if err := s.admins.UpdatePasswordHash(ctx, admin.ID, hash); err != nil {
		return err
	}

	logger.Info.Printf("[AuthService.ResetPassword] Password updated for %q", username)
	return nil
}

// EnsureAdmin creates the admin account if it does not exist yet. It is safe
// to run on every deployment and never touches an existing password.
func (s *AuthService) EnsureAdmin(ctx context.Context, username, password string) (bool, error) {
	_, err := s.admins.GetByUsername(ctx, username)
	if err == nil {
		logger.Info.Printf("[AuthService.EnsureAdmin] Admin %q already exists, skipping", username)
		return false, nil
	}
	if !errors.Is(err, models.ErrNotFound) {
		return false, err
	}
	if len(password) < MinPasswordLength {
		return false, fmt.Errorf("%w: admin password must be at least %d characters", models.ErrValidation, MinPasswordLength)
	}

	hash, err := s.hash(password)
	if err != nil {
		return false, err
	}
	if err := s.admins.Create(ctx, &models.Admin{Username: username, PasswordHash: hash}); err != nil {
		return false, err
	}

	logger.Info.Printf("[AuthService.EnsureAdmin] Created admin %q", username)
	return true, nil
}

func (s *AuthService) hash(password string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), s.cost)
	if err != nil {
		return "", fmt.Errorf("hashing password: %w", err)
	}
	return string(hashed), nil
}
