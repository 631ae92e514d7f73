package model

import (
	"regexp"
	"strings"
	"time"
)

// Subject is read-mostly reference data describing a tutoring topic.
type Subject struct {
	ID         string    `json:"id"` // slug, e.g. "algebra1-eoc"
	Name       string    `json:"name"`
	Category   string    `json:"category"` // "ap", "aice", "core", "specialized"
	Icon       string    `json:"icon"`
	Badge      string    `json:"badge,omitempty"`
	TutorCount int       `json:"tutorCount"`
	CreatedAt  time.Time `json:"created_at"`
}

var (
	slugStrip = regexp.MustCompile(`[^a-z0-9]+`)
	slugTrim  = regexp.MustCompile(`(^-+|-+$)`)
)

// SubjectSlug derives a stable subject id from a display name.
func SubjectSlug(name string) string {
	slug := slugStrip.ReplaceAllString(strings.ToLower(name), "-")
	return slugTrim.ReplaceAllString(slug, "")
}
