package grpc

import (
	"context"
	"io"
	"strings"

	pb "github.com/dmitrijs2005/filevault/internal/proto"
	"github.com/dmitrijs2005/filevault/internal/server/models"
	"github.com/dmitrijs2005/filevault/internal/server/services"
	"github.com/dmitrijs2005/filevault/internal/server/validation"
)

func (s *GRPCServer) Ping(ctx context.Context, req *pb.PingRequest) (*pb.PingResponse, error) {
	return &pb.PingResponse{Status: "OK"}, nil
}

func (s *GRPCServer) Register(ctx context.Context, req *pb.RegisterRequest) (*pb.RegisterResponse, error) {
	u, err := s.users.Register(ctx, validation.RegisterInput{Name: req.Name, Email: req.Email, Password: req.Password})
	if err != nil {
		return nil, s.toStatus(ctx, err)
	}

	s.logger.Info(ctx, "Registered", "user_id", u.ID)
	return &pb.RegisterResponse{UserID: u.ID}, nil
}

func (s *GRPCServer) Login(ctx context.Context, req *pb.LoginRequest) (*pb.LoginResponse, error) {
	tokens, err := s.users.Login(ctx, validation.LoginInput{Email: req.Email, Password: req.Password})
	if err != nil {
		return nil, s.toStatus(ctx, err)
	}
	return &pb.LoginResponse{AccessToken: tokens.AccessToken, ExpiresAt: tokens.ExpiresAt}, nil
}

func (s *GRPCServer) Upload(ctx context.Context, req *pb.UploadRequest) (*pb.UploadResponse, error) {
	res, err := s.access.Upload(ctx, models.PrincipalFrom(ctx), validation.UploadInput{Filename: req.Filename, Content: req.Content})
	if err != nil {
		return nil, s.toStatus(ctx, err)
	}
	return &pb.UploadResponse{File: pb.FileInfo{
		ID:           res.FileID,
		OriginalName: res.OriginalName,
		MimeType:     res.MimeType,
		SizeBytes:    res.SizeBytes,
		UploadedAt:   res.UploadedAt,
	}}, nil
}

func (s *GRPCServer) ListFiles(ctx context.Context, req *pb.ListFilesRequest) (*pb.ListFilesResponse, error) {
	list, err := s.access.ListFiles(ctx, models.PrincipalFrom(ctx))
	if err != nil {
		return nil, s.toStatus(ctx, err)
	}

	out := make([]pb.FileInfo, 0, len(list))
	for _, f := range list {
		out = append(out, pb.FileInfo{
			ID:            f.ID,
			OriginalName:  f.OriginalName,
			MimeType:      f.MimeType,
			SizeBytes:     f.SizeBytes,
			UploadedAt:    f.UploadedAt,
			DownloadCount: f.DownloadCount,
		})
	}
	return &pb.ListFilesResponse{Files: out}, nil
}

func (s *GRPCServer) RemoveFile(ctx context.Context, req *pb.RemoveFileRequest) (*pb.RemoveFileResponse, error) {
	res, err := s.access.RemoveFile(ctx, models.PrincipalFrom(ctx), validation.FileInput{FileID: req.FileID})
	if err != nil {
		return nil, s.toStatus(ctx, err)
	}
	return &pb.RemoveFileResponse{FileID: res.FileID, Outcome: res.Outcome.String(), RevokedLinks: res.RevokedLinks}, nil
}

func (s *GRPCServer) DownloadFile(ctx context.Context, req *pb.DownloadFileRequest) (*pb.DownloadResponse, error) {
	fs, err := s.access.DownloadOwned(ctx, models.PrincipalFrom(ctx), validation.FileInput{FileID: req.FileID})
	if err != nil {
		return nil, s.toStatus(ctx, err)
	}
	return s.readStream(ctx, fs)
}

func (s *GRPCServer) DownloadShared(ctx context.Context, req *pb.DownloadSharedRequest) (*pb.DownloadResponse, error) {
	fs, err := s.share.DownloadByToken(ctx, validation.TokenInput{Token: req.Token})
	if err != nil {
		return nil, s.toStatus(ctx, err)
	}
	return s.readStream(ctx, fs)
}

func (s *GRPCServer) readStream(ctx context.Context, fs *services.FileStream) (*pb.DownloadResponse, error) {
	defer fs.Close()

	content, err := io.ReadAll(io.LimitReader(fs, int64(s.maxMsgSize)))
	if err != nil {
		s.logger.Warn(ctx, "download counted but not delivered", "file_id", fs.FileID, "error", err)
		return nil, s.toStatus(ctx, err)
	}
	return &pb.DownloadResponse{Name: fs.Name, MimeType: fs.MimeType, Content: content}, nil
}

func (s *GRPCServer) shareLink(info services.ShareLinkInfo) pb.ShareLink {
	l := pb.ShareLink{
		Token:     info.Token,
		FileID:    info.FileID,
		ExpiresAt: info.ExpiresAt,
		CreatedAt: info.CreatedAt,
	}
	if s.publicBaseURL != "" {
		l.URL = strings.TrimRight(s.publicBaseURL, "/") + "/s/" + info.Token
	}
	return l
}

func (s *GRPCServer) CreateShareLink(ctx context.Context, req *pb.CreateShareLinkRequest) (*pb.CreateShareLinkResponse, error) {
	info, err := s.share.CreateShareLink(ctx, models.PrincipalFrom(ctx), validation.ShareLinkInput{FileID: req.FileID, Expiry: req.Expiry})
	if err != nil {
		return nil, s.toStatus(ctx, err)
	}
	return &pb.CreateShareLinkResponse{Link: s.shareLink(*info)}, nil
}

func (s *GRPCServer) RevokeShareLink(ctx context.Context, req *pb.RevokeShareLinkRequest) (*pb.RevokeShareLinkResponse, error) {
	if err := s.share.RevokeShareLink(ctx, models.PrincipalFrom(ctx), validation.TokenInput{Token: req.Token}); err != nil {
		return nil, s.toStatus(ctx, err)
	}
	return &pb.RevokeShareLinkResponse{}, nil
}

func (s *GRPCServer) ListShareLinks(ctx context.Context, req *pb.ListShareLinksRequest) (*pb.ListShareLinksResponse, error) {
	links, err := s.share.ListShareLinks(ctx, models.PrincipalFrom(ctx), validation.FileInput{FileID: req.FileID})
	if err != nil {
		return nil, s.toStatus(ctx, err)
	}

	out := make([]pb.ShareLink, 0, len(links))
	for _, l := range links {
		out = append(out, s.shareLink(l))
	}
	return &pb.ListShareLinksResponse{Links: out}, nil
}
