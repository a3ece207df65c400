package client

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/dmitrijs2005/filevault/internal/common"
	pb "github.com/dmitrijs2005/filevault/internal/proto"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
)

// maxMsgSize bounds upload and download messages on the client side.
const maxMsgSize = 128 << 20

type GRPCClient struct {
	endpointURL string
	conn        *grpc.ClientConn
	client      pb.FileVaultClient

	mu          sync.RWMutex
	accessToken string
}

func withAccessToken(ctx context.Context, token string) context.Context {
	md, _ := metadata.FromOutgoingContext(ctx)
	md = md.Copy()
	if md == nil {
		md = metadata.MD{}
	}
	md.Delete(common.AccessTokenHeaderName)
	md.Set(common.AccessTokenHeaderName, token)

	return metadata.NewOutgoingContext(ctx, md)
}

func (s *GRPCClient) accessTokenInterceptor(
	ctx context.Context,
	method string,
	req, reply interface{},
	cc *grpc.ClientConn,
	invoker grpc.UnaryInvoker,
	opts ...grpc.CallOption,
) error {
	if token := s.token(); token != "" {
		ctx = withAccessToken(ctx, token)
	}
	return invoker(ctx, method, req, reply, cc, opts...)
}

func NewFileVaultClient(endpointURL string) (*GRPCClient, error) {
	c := &GRPCClient{endpointURL: endpointURL}
	if err := c.InitGRPCClient(); err != nil {
		return nil, err
	}
	return c, nil
}

func (s *GRPCClient) InitGRPCClient() error {
	conn, err := grpc.NewClient(s.endpointURL,
		grpc.WithTransportCredentials(insecure.NewCredentials()),
		grpc.WithUnaryInterceptor(s.accessTokenInterceptor),
		grpc.WithDefaultCallOptions(
			grpc.MaxCallRecvMsgSize(maxMsgSize),
			grpc.MaxCallSendMsgSize(maxMsgSize),
		),
	)
	if err != nil {
		return err
	}
	s.conn = conn
	s.client = pb.NewFileVaultClient(conn)
	return nil
}

func (s *GRPCClient) Close() error {
	if s.conn == nil {
		return nil
	}
	return s.conn.Close()
}

func (s *GRPCClient) SetAccessToken(token string) {
	s.mu.Lock()
	s.accessToken = token
	s.mu.Unlock()
}

func (s *GRPCClient) token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.accessToken
}

func (s *GRPCClient) mapError(err error) error {
	if err == nil {
		return nil
	}
	st, _ := status.FromError(err)
	switch st.Code() {
	case codes.Unauthenticated:
		return ErrUnauthorized
	case codes.PermissionDenied:
		return ErrAccountLocked
	case codes.Unavailable, codes.DeadlineExceeded:
		return ErrUnavailable
	case codes.NotFound:
		return fmt.Errorf("%w: %s", ErrNotFound, st.Message())
	case codes.AlreadyExists:
		return fmt.Errorf("%w: %s", ErrAlreadyExists, st.Message())
	case codes.InvalidArgument:
		return fmt.Errorf("%w: %s", ErrInvalidArgument, st.Message())
	default:
		return fmt.Errorf("rpc error: %w", err)
	}
}

func (s *GRPCClient) Ping(ctx context.Context) error {
	resp, err := s.client.Ping(ctx, &pb.PingRequest{})
	if err != nil {
		return s.mapError(err)
	}
	if resp.Status != "OK" {
		return ErrUnavailable
	}
	return nil
}

func (s *GRPCClient) Register(ctx context.Context, name, email, password string) (string, error) {
	resp, err := s.client.Register(ctx, &pb.RegisterRequest{Name: name, Email: email, Password: password})
	if err != nil {
		return "", s.mapError(err)
	}
	return resp.UserID, nil
}

// Login authenticates and, on success, keeps the access token for later calls.
func (s *GRPCClient) Login(ctx context.Context, email, password string) (string, time.Time, error) {
	resp, err := s.client.Login(ctx, &pb.LoginRequest{Email: email, Password: password})
	if err != nil {
		return "", time.Time{}, s.mapError(err)
	}
	s.SetAccessToken(resp.AccessToken)
	return resp.AccessToken, resp.ExpiresAt, nil
}

func (s *GRPCClient) Upload(ctx context.Context, filename string, content []byte) (*pb.FileInfo, error) {
	resp, err := s.client.Upload(ctx, &pb.UploadRequest{Filename: filename, Content: content})
	if err != nil {
		return nil, s.mapError(err)
	}
	return &resp.File, nil
}

func (s *GRPCClient) ListFiles(ctx context.Context) ([]pb.FileInfo, error) {
	resp, err := s.client.ListFiles(ctx, &pb.ListFilesRequest{})
	if err != nil {
		return nil, s.mapError(err)
	}
	return resp.Files, nil
}

func (s *GRPCClient) RemoveFile(ctx context.Context, fileID string) (*pb.RemoveFileResponse, error) {
	resp, err := s.client.RemoveFile(ctx, &pb.RemoveFileRequest{FileID: fileID})
	if err != nil {
		return nil, s.mapError(err)
	}
	return resp, nil
}

func (s *GRPCClient) DownloadFile(ctx context.Context, fileID string) (*pb.DownloadResponse, error) {
	resp, err := s.client.DownloadFile(ctx, &pb.DownloadFileRequest{FileID: fileID})
	if err != nil {
		return nil, s.mapError(err)
	}
	return resp, nil
}

func (s *GRPCClient) DownloadShared(ctx context.Context, token string) (*pb.DownloadResponse, error) {
	resp, err := s.client.DownloadShared(ctx, &pb.DownloadSharedRequest{Token: token})
	if err != nil {
		return nil, s.mapError(err)
	}
	return resp, nil
}

func (s *GRPCClient) CreateShareLink(ctx context.Context, fileID, expiry string) (*pb.ShareLink, error) {
	resp, err := s.client.CreateShareLink(ctx, &pb.CreateShareLinkRequest{FileID: fileID, Expiry: expiry})
	if err != nil {
		return nil, s.mapError(err)
	}
	return &resp.Link, nil
}

func (s *GRPCClient) RevokeShareLink(ctx context.Context, token string) error {
	_, err := s.client.RevokeShareLink(ctx, &pb.RevokeShareLinkRequest{Token: token})
	return s.mapError(err)
}

func (s *GRPCClient) ListShareLinks(ctx context.Context, fileID string) ([]pb.ShareLink, error) {
	resp, err := s.client.ListShareLinks(ctx, &pb.ListShareLinksRequest{FileID: fileID})
	if err != nil {
		return nil, s.mapError(err)
	}
	return resp.Links, nil
}
