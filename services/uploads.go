// File: services/uploads.go
package services

import (
	"bytes"
	"fmt"
	"io"
	"mime/multipart"
	"strings"

	"github.com/disintegration/imaging"
	"github.com/gabriel-vasile/mimetype"

	"church-site/logger"
	"church-site/models"
)

// Upload is an inspected file ready to be handed to the FileStore.
type Upload struct {
	Filename string
	MimeType string
	Data     []byte
}

// UploadInspector reads multipart uploads, checks that their content matches
// the area they are destined for, and downsizes oversized staff portraits.
type UploadInspector struct {
	maxBytes       int64
	staffMaxPx     int
	expectedFamily map[Area]string
}

// NewUploadInspector limits uploads to maxBytes. Staff images wider or taller
// than staffMaxPx are scaled down; zero disables scaling.
func NewUploadInspector(maxBytes int64, staffMaxPx int) *UploadInspector {
	return &UploadInspector{
		maxBytes:   maxBytes,
		staffMaxPx: staffMaxPx,
		expectedFamily: map[Area]string{
			AreaSermons: "audio/",
			AreaPosters: "image/",
			AreaStaff:   "image/",
		},
	}
}

// Inspect opens fh and returns its validated contents.
func (u *UploadInspector) Inspect(area Area, fh *multipart.FileHeader) (Upload, error) {
	if fh == nil || fh.Filename == "" {
		return Upload{}, fmt.Errorf("%w: no file selected", models.ErrValidation)
	}
	if fh.Size > u.maxBytes {
		return Upload{}, fmt.Errorf("%w: %s is larger than %d bytes", models.ErrValidation, fh.Filename, u.maxBytes)
	}

	f, err := fh.Open()
	if err != nil {
		return Upload{}, fmt.Errorf("%w: opening upload: %w", models.ErrStorageFailure, err)
	}
	defer f.Close()

	return u.InspectReader(area, fh.Filename, f)
}

// InspectReader is Inspect for content that is not a multipart file.
func (u *UploadInspector) InspectReader(area Area, filename string, r io.Reader) (Upload, error) {
	family, ok := u.expectedFamily[area]
	if !ok {
		return Upload{}, fmt.Errorf("%w: unknown area %q", models.ErrValidation, area)
	}

	data, err := io.ReadAll(io.LimitReader(r, u.maxBytes+1))
	if err != nil {
		return Upload{}, fmt.Errorf("%w: reading upload: %w", models.ErrStorageFailure, err)
	}
	if int64(len(data)) > u.maxBytes {
		return Upload{}, fmt.Errorf("%w: %s is larger than %d bytes", models.ErrValidation, filename, u.maxBytes)
	}
	if len(data) == 0 {
		return Upload{}, fmt.Errorf("%w: %s is empty", models.ErrValidation, filename)
	}

	mtype := mimetype.Detect(data)
	if !strings.HasPrefix(mtype.String(), family) {
		return Upload{}, fmt.Errorf("%w: %s is %s, expected %s*", models.ErrValidation, filename, mtype.String(), family)
	}

	if area == AreaStaff && u.staffMaxPx > 0 {
		data = u.fitPortrait(filename, data)
	}

	return Upload{Filename: filename, MimeType: mtype.String(), Data: data}, nil
}

// fitPortrait scales data down to the configured bound. Anything it cannot
// decode or re-encode is returned untouched.
func (u *UploadInspector) fitPortrait(filename string, data []byte) []byte {
	format, err := imaging.FormatFromFilename(filename)
	if err != nil {
		return data
	}
	img, err := imaging.Decode(bytes.NewReader(data), imaging.AutoOrientation(true))
	if err != nil {
		logger.Debug.Printf("[UploadInspector.fitPortrait] Cannot decode %s: %v", filename, err)
		return data
	}

	b := img.Bounds()
	if b.Dx() <= u.staffMaxPx && b.Dy() <= u.staffMaxPx {
		return data
	}

	resized := imaging.Fit(img, u.staffMaxPx, u.staffMaxPx, imaging.Lanczos)
	var buf bytes.Buffer
	if err := imaging.Encode(&buf, resized, format); err != nil {
		logger.Warn.Printf("[UploadInspector.fitPortrait] Keeping original %s: %v", filename, err)
		return data
	}
	logger.Info.Printf("[UploadInspector.fitPortrait] Scaled %s from %dx%d", filename, b.Dx(), b.Dy())
	return buf.Bytes()
}
