package repository

import "time"

// Session represents one viewing of a presentation.
type Session struct {
	ID             string
	PresentationID string
	StartedAt      time.Time
	EndedAt        *time.Time
	LastIndex      int
	Views          int
}

// Open reports whether the session has not been ended.
func (s Session) Open() bool { return s.EndedAt == nil }

// SlideView represents a slide shown during a session.
type SlideView struct {
	SessionID string
	Index     int
	SlideID   string
	ViewedAt  time.Time
}
