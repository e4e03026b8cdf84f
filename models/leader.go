// File: models/leader.go
package models

// Leader is a staff member shown on the people page.
type Leader struct {
	ID            int64
	Name          string
	Position      string
	Motto         string
	Phone         string
	Email         string
	ImageFilename string
	Pending       bool
}
