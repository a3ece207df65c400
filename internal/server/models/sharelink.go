package models

import "time"

// ShareLink grants anonymous read access to one file while it is unexpired.
// A nil ExpiresAt means the link expires DefaultTTL after CreatedAt.
type ShareLink struct {
	Token     string
	FileID    string
	ExpiresAt *time.Time
	CreatedAt time.Time
}

// ExpiresAtOr returns the effective expiry, using CreatedAt+defaultTTL when
// no explicit expiry was stored.
func (l *ShareLink) ExpiresAtOr(defaultTTL time.Duration) time.Time {
	if l.ExpiresAt != nil {
		return *l.ExpiresAt
	}
	return l.CreatedAt.Add(defaultTTL)
}

// Expired reports whether the link is no longer usable at now.
func (l *ShareLink) Expired(now time.Time, defaultTTL time.Duration) bool {
	return !now.Before(l.ExpiresAtOr(defaultTTL))
}

// SharedFile is a share link joined with the file it points at.
type SharedFile struct {
	Link ShareLink
	File File
}
