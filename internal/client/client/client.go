package client

import (
	"context"
	"time"

	pb "github.com/dmitrijs2005/filevault/internal/proto"
)

type Client interface {
	Close() error
	SetAccessToken(token string)
	Ping(ctx context.Context) error
	Register(ctx context.Context, name, email, password string) (string, error)
	Login(ctx context.Context, email, password string) (string, time.Time, error)
	Upload(ctx context.Context, filename string, content []byte) (*pb.FileInfo, error)
	ListFiles(ctx context.Context) ([]pb.FileInfo, error)
	RemoveFile(ctx context.Context, fileID string) (*pb.RemoveFileResponse, error)
	DownloadFile(ctx context.Context, fileID string) (*pb.DownloadResponse, error)
	DownloadShared(ctx context.Context, token string) (*pb.DownloadResponse, error)
	CreateShareLink(ctx context.Context, fileID, expiry string) (*pb.ShareLink, error)
	RevokeShareLink(ctx context.Context, token string) error
	ListShareLinks(ctx context.Context, fileID string) ([]pb.ShareLink, error)
}
