// file: controllers/contact_controller_test.go
package controllers

import (
	"context"
	"errors"
	"net/http"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"church-site/models"
)

func janeForm() url.Values {
	return url.Values{
		"name":    {"Jane"},
		"email":   {"jane@x.com"},
		"subject": {"Prayer"},
		"message": {"Please pray"},
		"urgency": {"High"},
	}
}

// Given: Jane fills in the contact form
// When: she submits it
// Then: her message is stored unarchived and an acknowledgement goes to her address
func TestSubmitContact_Jane(t *testing.T) {
	s := newTestSite(t)
	s.notifier.On("Acknowledge", mock.Anything, "Jane", "jane@x.com").Return(nil).Once()

	w, session := s.postForm("/contact", janeForm(), nil)
	require.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/contact", w.Header().Get("Location"))

	messages, err := s.messages.List(context.Background())
	require.NoError(t, err)
	require.Len(t, messages, 1)
	m := messages[0]
	assert.Equal(t, "Jane", m.Name)
	assert.Equal(t, "jane@x.com", m.Email)
	assert.Equal(t, "Prayer", m.Subject)
	assert.Equal(t, "Please pray", m.Content)
	assert.Equal(t, models.UrgencyHigh, m.Urgency)
	assert.False(t, m.IsArchived)
	assert.False(t, m.Timestamp.IsZero())
	s.notifier.AssertExpectations(t)

	w, _ = s.get("/contact", session)
	assert.Contains(t, w.Body.String(), "[success] Your message has been sent!")
}

func TestSubmitContact_AcknowledgementFailureKeepsMessage(t *testing.T) {
	s := newTestSite(t)
	s.notifier.On("Acknowledge", mock.Anything, "Jane", "jane@x.com").Return(errors.New("relay down")).Once()

	w, session := s.postForm("/contact", janeForm(), nil)
	require.Equal(t, http.StatusFound, w.Code)

	messages, err := s.messages.List(context.Background())
	require.NoError(t, err)
	assert.Len(t, messages, 1)

	w, _ = s.get("/contact", session)
	assert.Contains(t, w.Body.String(), "[warning]")
	assert.Contains(t, w.Body.String(), "could not send a confirmation email")
}

func TestSubmitContact_InvalidInput(t *testing.T) {
	s := newTestSite(t)

	cases := map[string]func(url.Values){
		"missing name":  func(v url.Values) { v.Del("name") },
		"bad email":     func(v url.Values) { v.Set("email", "not-an-email") },
		"bad urgency":   func(v url.Values) { v.Set("urgency", "Urgent") },
		"lowercase":     func(v url.Values) { v.Set("urgency", "high") },
		"empty message": func(v url.Values) { v.Set("message", "") },
	}
	for name, mutate := range cases {
		form := janeForm()
		mutate(form)
		w, _ := s.postForm("/contact", form, nil)
		assert.Equal(t, http.StatusBadRequest, w.Code, name)
	}

	messages, err := s.messages.List(context.Background())
	require.NoError(t, err)
	assert.Empty(t, messages)
	s.notifier.AssertNotCalled(t, "Acknowledge", mock.Anything, mock.Anything, mock.Anything)
}
