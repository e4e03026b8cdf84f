// File: models/message.go
package models

import (
	"fmt"
	"time"
)

// Urgency classifies a contact message.
type Urgency string

const (
	UrgencyHigh   Urgency = "High"
	UrgencyMedium Urgency = "Medium"
	UrgencyLow    Urgency = "Low"
)

// ParseUrgency accepts exactly one of the three urgency labels.
func ParseUrgency(s string) (Urgency, error) {
	switch u := Urgency(s); u {
	case UrgencyHigh, UrgencyMedium, UrgencyLow:
		return u, nil
	default:
		return "", fmt.Errorf("%w: unknown urgency %q", ErrValidation, s)
	}
}

// Message is a contact form submission.
type Message struct {
	ID         int64
	Name       string
	Email      string
	Subject    string
	Content    string
	Urgency    Urgency
	Timestamp  time.Time
	IsArchived bool
}
