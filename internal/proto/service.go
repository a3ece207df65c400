package proto

import (
	"context"

	"google.golang.org/grpc"
)

const ServiceName = "filevault.FileVault"

const (
	FileVault_Ping_FullMethodName            = "/filevault.FileVault/Ping"
	FileVault_Register_FullMethodName        = "/filevault.FileVault/Register"
	FileVault_Login_FullMethodName           = "/filevault.FileVault/Login"
	FileVault_Upload_FullMethodName          = "/filevault.FileVault/Upload"
	FileVault_ListFiles_FullMethodName       = "/filevault.FileVault/ListFiles"
	FileVault_RemoveFile_FullMethodName      = "/filevault.FileVault/RemoveFile"
	FileVault_DownloadFile_FullMethodName    = "/filevault.FileVault/DownloadFile"
	FileVault_DownloadShared_FullMethodName  = "/filevault.FileVault/DownloadShared"
	FileVault_CreateShareLink_FullMethodName = "/filevault.FileVault/CreateShareLink"
	FileVault_RevokeShareLink_FullMethodName = "/filevault.FileVault/RevokeShareLink"
	FileVault_ListShareLinks_FullMethodName  = "/filevault.FileVault/ListShareLinks"
)

// FileVaultServer is the server API for the FileVault service.
type FileVaultServer interface {
	Ping(context.Context, *PingRequest) (*PingResponse, error)
	Register(context.Context, *RegisterRequest) (*RegisterResponse, error)
	Login(context.Context, *LoginRequest) (*LoginResponse, error)
	Upload(context.Context, *UploadRequest) (*UploadResponse, error)
	ListFiles(context.Context, *ListFilesRequest) (*ListFilesResponse, error)
	RemoveFile(context.Context, *RemoveFileRequest) (*RemoveFileResponse, error)
	DownloadFile(context.Context, *DownloadFileRequest) (*DownloadResponse, error)
	DownloadShared(context.Context, *DownloadSharedRequest) (*DownloadResponse, error)
	CreateShareLink(context.Context, *CreateShareLinkRequest) (*CreateShareLinkResponse, error)
	RevokeShareLink(context.Context, *RevokeShareLinkRequest) (*RevokeShareLinkResponse, error)
	ListShareLinks(context.Context, *ListShareLinksRequest) (*ListShareLinksResponse, error)
}

func unary[Req, Resp any](name string, call func(FileVaultServer, context.Context, *Req) (*Resp, error)) grpc.MethodDesc {
	return grpc.MethodDesc{
		MethodName: name,
		Handler: func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
			in := new(Req)
			if err := dec(in); err != nil {
				return nil, err
			}
			if interceptor == nil {
				return call(srv.(FileVaultServer), ctx, in)
			}
			info := &grpc.UnaryServerInfo{Server: srv, FullMethod: "/" + ServiceName + "/" + name}
			handler := func(ctx context.Context, req any) (any, error) {
				return call(srv.(FileVaultServer), ctx, req.(*Req))
			}
			return interceptor(ctx, in, info, handler)
		},
	}
}

// FileVault_ServiceDesc is the grpc.ServiceDesc for the FileVault service.
var FileVault_ServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*FileVaultServer)(nil),
	Methods: []grpc.MethodDesc{
		unary("Ping", FileVaultServer.Ping),
		unary("Register", FileVaultServer.Register),
		unary("Login", FileVaultServer.Login),
		unary("Upload", FileVaultServer.Upload),
		unary("ListFiles", FileVaultServer.ListFiles),
		unary("RemoveFile", FileVaultServer.RemoveFile),
		unary("DownloadFile", FileVaultServer.DownloadFile),
		unary("DownloadShared", FileVaultServer.DownloadShared),
		unary("CreateShareLink", FileVaultServer.CreateShareLink),
		unary("RevokeShareLink", FileVaultServer.RevokeShareLink),
		unary("ListShareLinks", FileVaultServer.ListShareLinks),
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "filevault",
}

func RegisterFileVaultServer(s grpc.ServiceRegistrar, srv FileVaultServer) {
	s.RegisterService(&FileVault_ServiceDesc, srv)
}

// FileVaultClient is the client API for the FileVault service.
type FileVaultClient interface {
	Ping(ctx context.Context, in *PingRequest, opts ...grpc.CallOption) (*PingResponse, error)
	Register(ctx context.Context, in *RegisterRequest, opts ...grpc.CallOption) (*RegisterResponse, error)
	Login(ctx context.Context, in *LoginRequest, opts ...grpc.CallOption) (*LoginResponse, error)
	Upload(ctx context.Context, in *UploadRequest, opts ...grpc.CallOption) (*UploadResponse, error)
	ListFiles(ctx context.Context, in *ListFilesRequest, opts ...grpc.CallOption) (*ListFilesResponse, error)
	RemoveFile(ctx context.Context, in *RemoveFileRequest, opts ...grpc.CallOption) (*RemoveFileResponse, error)
	DownloadFile(ctx context.Context, in *DownloadFileRequest, opts ...grpc.CallOption) (*DownloadResponse, error)
	DownloadShared(ctx context.Context, in *DownloadSharedRequest, opts ...grpc.CallOption) (*DownloadResponse, error)
	CreateShareLink(ctx context.Context, in *CreateShareLinkRequest, opts ...grpc.CallOption) (*CreateShareLinkResponse, error)
	RevokeShareLink(ctx context.Context, in *RevokeShareLinkRequest, opts ...grpc.CallOption) (*RevokeShareLinkResponse, error)
	ListShareLinks(ctx context.Context, in *ListShareLinksRequest, opts ...grpc.CallOption) (*ListShareLinksResponse, error)
}

type fileVaultClient struct {
	cc grpc.ClientConnInterface
}

// NewFileVaultClient returns a client that sends every call with the JSON codec.
func NewFileVaultClient(cc grpc.ClientConnInterface) FileVaultClient {
	return &fileVaultClient{cc}
}

func invoke[Resp any](ctx context.Context, cc grpc.ClientConnInterface, method string, in any, opts []grpc.CallOption) (*Resp, error) {
	out := new(Resp)
	opts = append([]grpc.CallOption{grpc.CallContentSubtype(CodecName)}, opts...)
	if err := cc.Invoke(ctx, method, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *fileVaultClient) Ping(ctx context.Context, in *PingRequest, opts ...grpc.CallOption) (*PingResponse, error) {
	return invoke[PingResponse](ctx, c.cc, FileVault_Ping_FullMethodName, in, opts)
}

func (c *fileVaultClient) Register(ctx context.Context, in *RegisterRequest, opts ...grpc.CallOption) (*RegisterResponse, error) {
	return invoke[RegisterResponse](ctx, c.cc, FileVault_Register_FullMethodName, in, opts)
}

func (c *fileVaultClient) Login(ctx context.Context, in *LoginRequest, opts ...grpc.CallOption) (*LoginResponse, error) {
	return invoke[LoginResponse](ctx, c.cc, FileVault_Login_FullMethodName, in, opts)
}

func (c *fileVaultClient) Upload(ctx context.Context, in *UploadRequest, opts ...grpc.CallOption) (*UploadResponse, error) {
	return invoke[UploadResponse](ctx, c.cc, FileVault_Upload_FullMethodName, in, opts)
}

func (c *fileVaultClient) ListFiles(ctx context.Context, in *ListFilesRequest, opts ...grpc.CallOption) (*ListFilesResponse, error) {
	return invoke[ListFilesResponse](ctx, c.cc, FileVault_ListFiles_FullMethodName, in, opts)
}

func (c *fileVaultClient) RemoveFile(ctx context.Context, in *RemoveFileRequest, opts ...grpc.CallOption) (*RemoveFileResponse, error) {
	return invoke[RemoveFileResponse](ctx, c.cc, FileVault_RemoveFile_FullMethodName, in, opts)
}

func (c *fileVaultClient) DownloadFile(ctx context.Context, in *DownloadFileRequest, opts ...grpc.CallOption) (*DownloadResponse, error) {
	return invoke[DownloadResponse](ctx, c.cc, FileVault_DownloadFile_FullMethodName, in, opts)
}

func (c *fileVaultClient) DownloadShared(ctx context.Context, in *DownloadSharedRequest, opts ...grpc.CallOption) (*DownloadResponse, error) {
	return invoke[DownloadResponse](ctx, c.cc, FileVault_DownloadShared_FullMethodName, in, opts)
}

func (c *fileVaultClient) CreateShareLink(ctx context.Context, in *CreateShareLinkRequest, opts ...grpc.CallOption) (*CreateShareLinkResponse, error) {
	return invoke[CreateShareLinkResponse](ctx, c.cc, FileVault_CreateShareLink_FullMethodName, in, opts)
}

func (c *fileVaultClient) RevokeShareLink(ctx context.Context, in *RevokeShareLinkRequest, opts ...grpc.CallOption) (*RevokeShareLinkResponse, error) {
	return invoke[RevokeShareLinkResponse](ctx, c.cc, FileVault_RevokeShareLink_FullMethodName, in, opts)
}

func (c *fileVaultClient) ListShareLinks(ctx context.Context, in *ListShareLinksRequest, opts ...grpc.CallOption) (*ListShareLinksResponse, error) {
	return invoke[ListShareLinksResponse](ctx, c.cc, FileVault_ListShareLinks_FullMethodName, in, opts)
}
