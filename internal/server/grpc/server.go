package grpc

import (
	"context"
	"net"

	"github.com/dmitrijs2005/filevault/internal/logging"
	pb "github.com/dmitrijs2005/filevault/internal/proto"
	"github.com/dmitrijs2005/filevault/internal/server/ratelimit"
	"github.com/dmitrijs2005/filevault/internal/server/services"
	"google.golang.org/grpc"
)

// msgOverhead covers the JSON envelope around base64 file content.
const msgOverhead = 64 * 1024

type GRPCServer struct {
	address       string
	users         *services.UserService
	access        *services.AccessService
	share         *services.ShareService
	logger        logging.Logger
	jwtSecret     []byte
	publicBaseURL string
	maxMsgSize    int
	shareLimiter  *ratelimit.ClientLimiter
}

// NewGRPCServer builds the authenticated API server. maxUpload bounds the
// size of a single message; base64 expansion is accounted for. limiter throttles
// DownloadShared per peer and may be nil.
func NewGRPCServer(a string, l logging.Logger, us *services.UserService, as *services.AccessService,
	ss *services.ShareService, secretKey, publicBaseURL string, maxUpload int64, limiter *ratelimit.ClientLimiter) *GRPCServer {
	return &GRPCServer{
		address:       a,
		logger:        l.With("module", "grpc_server"),
		users:         us,
		access:        as,
		share:         ss,
		jwtSecret:     []byte(secretKey),
		publicBaseURL: publicBaseURL,
		maxMsgSize:    int(maxUpload/3*4) + msgOverhead,
		shareLimiter:  limiter,
	}
}

// newServer creates the grpc.Server with interceptors and the service registered.
func (s *GRPCServer) newServer() *grpc.Server {
	srv := grpc.NewServer(
		grpc.ChainUnaryInterceptor(s.requestLogInterceptor, s.shareRateInterceptor, s.accessTokenInterceptor),
		grpc.MaxRecvMsgSize(s.maxMsgSize),
		grpc.MaxSendMsgSize(s.maxMsgSize),
	)
	pb.RegisterFileVaultServer(srv, s)
	return srv
}

// Serve accepts connections on lis until ctx is cancelled.
func (s *GRPCServer) Serve(ctx context.Context, lis net.Listener) error {
	srv := s.newServer()

	go func() {
		<-ctx.Done()
		s.logger.Info(ctx, "Stopping gRPC server...")
		srv.GracefulStop()
	}()

	s.logger.Info(ctx, "Starting gRPC server", "address", lis.Addr().String())

	return srv.Serve(lis)
}

func (s *GRPCServer) Run(ctx context.Context) error {
	listen, err := net.Listen("tcp", s.address)
	if err != nil {
		return err
	}
	return s.Serve(ctx, listen)
}
