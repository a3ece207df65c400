package services

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/dmitrijs2005/filevault/internal/client/repositories/session"
	pb "github.com/dmitrijs2005/filevault/internal/proto"
	"github.com/stretchr/testify/require"

	_ "modernc.org/sqlite"
)

var errBoom = errors.New("boom")

func setupSession(t *testing.T) (*sql.DB, session.Repository) {
	t.Helper()
	db, err := sql.Open("sqlite", ":memory:")
	require.NoError(t, err)
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = db.Close() })

	_, err = db.Exec(`
CREATE TABLE session (
  key   TEXT PRIMARY KEY,
  value BLOB NOT NULL
);`)
	require.NoError(t, err)
	return db, session.NewSQLiteRepository(db)
}

// fakeClient implements client.Client for unit tests.
type fakeClient struct {
	token  string
	closed bool

	registerArgs []string
	registerErr  error

	loginToken string
	loginExp   time.Time
	loginErr   error

	pingErr error

	uploaded map[string][]byte
	files    []pb.FileInfo
	removed  []string

	download *pb.DownloadResponse
	shared   map[string]*pb.DownloadResponse
	err      error

	shareArgs [2]string
	links     []pb.ShareLink
	revoked   []string
}

func (f *fakeClient) Close() error { f.closed = true; return nil }

func (f *fakeClient) SetAccessToken(token string) { f.token = token }

func (f *fakeClient) Ping(ctx context.Context) error { return f.pingErr }

func (f *fakeClient) Register(ctx context.Context, name, email, password string) (string, error) {
	f.registerArgs = []string{name, email, password}
	return "u1", f.registerErr
}

func (f *fakeClient) Login(ctx context.Context, email, password string) (string, time.Time, error) {
	if f.loginErr != nil {
		return "", time.Time{}, f.loginErr
	}
	f.token = f.loginToken
	return f.loginToken, f.loginExp, nil
}

func (f *fakeClient) Upload(ctx context.Context, filename string, content []byte) (*pb.FileInfo, error) {
	if f.err != nil {
		return nil, f.err
	}
	if f.uploaded == nil {
		f.uploaded = map[string][]byte{}
	}
	f.uploaded[filename] = content
	return &pb.FileInfo{ID: "f1", OriginalName: filename, SizeBytes: int64(len(content))}, nil
}

func (f *fakeClient) ListFiles(ctx context.Context) ([]pb.FileInfo, error) {
	return f.files, f.err
}

func (f *fakeClient) RemoveFile(ctx context.Context, fileID string) (*pb.RemoveFileResponse, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.removed = append(f.removed, fileID)
	return &pb.RemoveFileResponse{FileID: fileID, Outcome: "deleted"}, nil
}

func (f *fakeClient) DownloadFile(ctx context.Context, fileID string) (*pb.DownloadResponse, error) {
	return f.download, f.err
}

func (f *fakeClient) DownloadShared(ctx context.Context, token string) (*pb.DownloadResponse, error) {
	d, ok := f.shared[token]
	if !ok {
		return nil, errBoom
	}
	return d, nil
}

func (f *fakeClient) CreateShareLink(ctx context.Context, fileID, expiry string) (*pb.ShareLink, error) {
	f.shareArgs = [2]string{fileID, expiry}
	return &pb.ShareLink{Token: "tok", FileID: fileID}, f.err
}

func (f *fakeClient) RevokeShareLink(ctx context.Context, token string) error {
	f.revoked = append(f.revoked, token)
	return f.err
}

func (f *fakeClient) ListShareLinks(ctx context.Context, fileID string) ([]pb.ShareLink, error) {
	return f.links, f.err
}
