// Package proto holds the filevault wire messages, the gRPC service
// descriptor and a client stub. Messages are plain structs carried by the
// JSON codec registered in codec.go.
package proto

import "time"

type PingRequest struct{}

type PingResponse struct {
	Status string `json:"status"`
}

type RegisterRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type RegisterResponse struct {
	UserID string `json:"user_id"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type LoginResponse struct {
	AccessToken string    `json:"access_token"`
	ExpiresAt   time.Time `json:"expires_at"`
}

// FileInfo describes one stored file as its owner sees it.
type FileInfo struct {
	ID            string    `json:"id"`
	OriginalName  string    `json:"original_name"`
	MimeType      string    `json:"mime_type"`
	SizeBytes     int64     `json:"size_bytes"`
	UploadedAt    time.Time `json:"uploaded_at"`
	DownloadCount int64     `json:"download_count"`
}

type UploadRequest struct {
	Filename string `json:"filename"`
	Content  []byte `json:"content"`
}

type UploadResponse struct {
	File FileInfo `json:"file"`
}

type ListFilesRequest struct{}

type ListFilesResponse struct {
	Files []FileInfo `json:"files"`
}

type RemoveFileRequest struct {
	FileID string `json:"file_id"`
}

type RemoveFileResponse struct {
	FileID       string `json:"file_id"`
	Outcome      string `json:"outcome"`
	RevokedLinks int64  `json:"revoked_links"`
}

type DownloadFileRequest struct {
	FileID string `json:"file_id"`
}

type DownloadSharedRequest struct {
	Token string `json:"token"`
}

type DownloadResponse struct {
	Name     string `json:"name"`
	MimeType string `json:"mime_type"`
	Content  []byte `json:"content"`
}

// ShareLink is a minted link. URL is empty when the server has no public
// base URL configured.
type ShareLink struct {
	Token     string    `json:"token"`
	FileID    string    `json:"file_id"`
	URL       string    `json:"url,omitempty"`
	ExpiresAt time.Time `json:"expires_at"`
	CreatedAt time.Time `json:"created_at"`
}

type CreateShareLinkRequest struct {
	FileID string `json:"file_id"`
	// Expiry is "2006-01-02 15:04:05" (UTC) or RFC 3339. Empty means the default lifetime.
	Expiry string `json:"expiry,omitempty"`
}

type CreateShareLinkResponse struct {
	Link ShareLink `json:"link"`
}

type RevokeShareLinkRequest struct {
	Token string `json:"token"`
}

type RevokeShareLinkResponse struct{}

type ListShareLinksRequest struct {
	FileID string `json:"file_id"`
}

type ListShareLinksResponse struct {
	Links []ShareLink `json:"links"`
}
