// file: services/qrcode_service_test.go
package services

import (
	"errors"
	"testing"

	"github.com/skip2/go-qrcode"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"church-site/models"
)

// Mock encoder function (successful)
func mockQRCodeEncoderSuccess(content string, level qrcode.RecoveryLevel, size int) ([]byte, error) {
	return []byte("mock_qr_code_data:" + content), nil
}

// Mock encoder function (failure)
func mockQRCodeEncoderFailure(content string, level qrcode.RecoveryLevel, size int) ([]byte, error) {
	return nil, errors.New("QR code generation failed")
}

// Test: Generate QR Code Successfully
func TestGenerateQRCode_Success(t *testing.T) {
	data, err := GenerateQRCode("https://church.test/contact", 200, 200, mockQRCodeEncoderSuccess)

	assert.NoError(t, err)
	assert.Equal(t, "mock_qr_code_data:https://church.test/contact", string(data))
}

// Test: Fail QR Code Generation Due to Negative Dimensions
func TestGenerateQRCode_InvalidDimensions(t *testing.T) {
	data, err := GenerateQRCode("https://church.test", -100, 200, mockQRCodeEncoderSuccess)

	assert.Error(t, err)
	assert.Nil(t, data)
	assert.Equal(t, "invalid dimensions: width and height must be positive", err.Error())
}

// Test: QR Code Generation Fails Due to Encoder Error
func TestGenerateQRCode_EncoderFails(t *testing.T) {
	data, err := GenerateQRCode("https://church.test", 200, 200, mockQRCodeEncoderFailure)

	assert.Error(t, err)
	assert.Nil(t, data)
	assert.Equal(t, "QR code generation failed", err.Error())
}

// Test: the real encoder produces a PNG
func TestGenerateQRCode_RealEncoder(t *testing.T) {
	data, err := GenerateQRCode("https://church.test/events", 128, 128, nil)

	require.NoError(t, err)
	assert.Equal(t, []byte("\x89PNG"), data[:4])
}

func TestSiteURL(t *testing.T) {
	got, err := SiteURL("https://church.test/", "/contact")
	require.NoError(t, err)
	assert.Equal(t, "https://church.test/contact", got)

	got, err = SiteURL("https://church.test", "")
	require.NoError(t, err)
	assert.Equal(t, "https://church.test/", got)

	got, err = SiteURL("https://church.test", "/events?year=2026")
	require.NoError(t, err)
	assert.Equal(t, "https://church.test/events?year=2026", got)

	for _, bad := range []string{"https://evil.test/", "//evil.test/x", "contact"} {
		_, err := SiteURL("https://church.test", bad)
		assert.ErrorIs(t, err, models.ErrValidation, bad)
	}
}
