package models

import "time"

// File is the metadata row for one stored upload.
//
// StoredName is generated by the server and never derived from OriginalName.
// MimeType and SizeBytes describe the bytes actually received.
type File struct {
	ID            string
	OwnerID       string
	OriginalName  string
	StoredName    string
	MimeType      string
	SizeBytes     int64
	UploadedAt    time.Time
	DownloadCount int64
}
