// services/qrcode_service.go
package services

import (
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/skip2/go-qrcode"

	"church-site/models"
)

// QRCodeEncoder matches qrcode.Encode so tests can swap it out.
type QRCodeEncoder func(content string, level qrcode.RecoveryLevel, size int) ([]byte, error)

// DefaultQRCodeSize is the PNG edge length used by the /qrcode page.
const DefaultQRCodeSize = 256

// GenerateQRCode creates a PNG QR code for content at the given dimensions
func GenerateQRCode(content string, width, height int, encode QRCodeEncoder) ([]byte, error) {
	if width <= 0 || height <= 0 {
		return nil, errors.New("invalid dimensions: width and height must be positive")
	}
	if encode == nil {
		encode = qrcode.Encode
	}

	size := width
	if height < size {
		size = height
	}
	png, err := encode(content, qrcode.Medium, size)
	if err != nil {
		return nil, err
	}
	return png, nil
}

// SiteURL joins a site-relative path onto appURL. Absolute URLs and
// protocol-relative paths are rejected so the codes only ever point at this site.
func SiteURL(appURL, path string) (string, error) {
	if path == "" {
		path = "/"
	}
	if !strings.HasPrefix(path, "/") || strings.HasPrefix(path, "//") {
		return "", fmt.Errorf("%w: path must be site-relative", models.ErrValidation)
	}
	ref, err := url.Parse(path)
	if err != nil || ref.IsAbs() || ref.Host != "" {
		return "", fmt.Errorf("%w: bad path %q", models.ErrValidation, path)
	}

	base, err := url.Parse(strings.TrimRight(appURL, "/"))
	if err != nil {
		return "", fmt.Errorf("%w: bad application URL: %w", models.ErrValidation, err)
	}
	base.Path += ref.Path
	base.RawQuery = ref.RawQuery
	return base.String(), nil
}
