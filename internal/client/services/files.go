package services

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/dmitrijs2005/filevault/internal/client/client"
	"github.com/dmitrijs2005/filevault/internal/filex"
	"github.com/dmitrijs2005/filevault/internal/netx"
	pb "github.com/dmitrijs2005/filevault/internal/proto"
)

// maxFetchSize caps public downloads over HTTP.
const maxFetchSize = 128 << 20

// FileService covers the owner-side file operations and share links.
type FileService interface {
	Upload(ctx context.Context, path string) (*pb.FileInfo, error)
	List(ctx context.Context) ([]pb.FileInfo, error)
	Remove(ctx context.Context, fileID string) (*pb.RemoveFileResponse, error)
	// Download saves the owner's file into the download directory and
	// returns the written path.
	Download(ctx context.Context, fileID string) (string, error)
	Share(ctx context.Context, fileID, expiry string) (*pb.ShareLink, error)
	Revoke(ctx context.Context, token string) error
	Links(ctx context.Context, fileID string) ([]pb.ShareLink, error)
	// Fetch downloads a shared file by bare token (over gRPC) or by full
	// link URL (over HTTP) and returns the written path.
	Fetch(ctx context.Context, tokenOrURL string) (string, error)
}

type fileService struct {
	client      client.Client
	http        *http.Client
	downloadDir string
}

func NewFileService(c client.Client, httpClient *http.Client, downloadDir string) FileService {
	return &fileService{client: c, http: httpClient, downloadDir: downloadDir}
}

func (s *fileService) Upload(ctx context.Context, path string) (*pb.FileInfo, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return s.client.Upload(ctx, filepath.Base(path), data)
}

func (s *fileService) List(ctx context.Context) ([]pb.FileInfo, error) {
	return s.client.ListFiles(ctx)
}

func (s *fileService) Remove(ctx context.Context, fileID string) (*pb.RemoveFileResponse, error) {
	return s.client.RemoveFile(ctx, fileID)
}

func (s *fileService) Download(ctx context.Context, fileID string) (string, error) {
	d, err := s.client.DownloadFile(ctx, fileID)
	if err != nil {
		return "", err
	}
	return s.save(d.Name, d.Content)
}

func (s *fileService) Share(ctx context.Context, fileID, expiry string) (*pb.ShareLink, error) {
	return s.client.CreateShareLink(ctx, fileID, expiry)
}

func (s *fileService) Revoke(ctx context.Context, token string) error {
	return s.client.RevokeShareLink(ctx, token)
}

func (s *fileService) Links(ctx context.Context, fileID string) ([]pb.ShareLink, error) {
	return s.client.ListShareLinks(ctx, fileID)
}

func (s *fileService) Fetch(ctx context.Context, tokenOrURL string) (string, error) {
	if strings.HasPrefix(tokenOrURL, "http://") || strings.HasPrefix(tokenOrURL, "https://") {
		f, err := netx.FetchShared(ctx, s.http, tokenOrURL, maxFetchSize)
		if err != nil {
			return "", err
		}
		return s.save(f.Name, f.Content)
	}

	d, err := s.client.DownloadShared(ctx, tokenOrURL)
	if err != nil {
		return "", err
	}
	return s.save(d.Name, d.Content)
}

func (s *fileService) save(name string, data []byte) (string, error) {
	dir := s.downloadDir
	if !filepath.IsAbs(dir) {
		var err error
		if dir, err = filex.EnsureSubdDir(dir); err != nil {
			return "", err
		}
	} else if err := os.MkdirAll(dir, 0o770); err != nil {
		return "", fmt.Errorf("mkdir %s: %w", dir, err)
	}
	return filex.WriteNew(dir, name, data)
}
