package grpc

import (
	"context"
	"net"

	"github.com/dmitrijs2005/postsets/internal/api"
	"github.com/dmitrijs2005/postsets/internal/logging"
	"github.com/dmitrijs2005/postsets/internal/server/auth"
	"github.com/dmitrijs2005/postsets/internal/server/models"
	"google.golang.org/grpc"
)

// SetService is the business logic the handlers delegate to.
type SetService interface {
	CreateSet(ctx context.Context, caller auth.Caller, title string, privacy models.Privacy, description *string) (*models.Set, error)
	GetSet(ctx context.Context, caller auth.Caller, id models.SetID) (*models.Set, error)
	InternalGetSet(ctx context.Context, caller auth.Caller, id models.SetID) (*models.Set, error)
	UpdateSet(ctx context.Context, caller auth.Caller, id models.SetID, upd models.SetUpdate) error
	DeleteSet(ctx context.Context, caller auth.Caller, id models.SetID) error
	AddPostToSet(ctx context.Context, caller auth.Caller, postID models.PostID, setID models.SetID, index int) error
	RemovePostFromSet(ctx context.Context, caller auth.Caller, postID models.PostID, setID models.SetID) error
	GetPostSets(ctx context.Context, caller auth.Caller, postID models.PostID) ([]*models.PostSet, error)
	GetUserSets(ctx context.Context, caller auth.Caller, handle string) ([]*models.Set, error)
}

type GRPCServer struct {
	address   string
	sets      SetService
	logger    logging.Logger
	jwtSecret []byte
}

var _ api.SetServiceServer = (*GRPCServer)(nil)

func NewGRPCServer(a string, l logging.Logger, sets SetService, secretKey string) *GRPCServer {
	return &GRPCServer{
		address:   a,
		logger:    l.With("module", "grpc_server"),
		sets:      sets,
		jwtSecret: []byte(secretKey),
	}
}

// NewServer returns a grpc.Server with the interceptors and the service
// registered, ready to Serve.
func (s *GRPCServer) NewServer(opts ...grpc.ServerOption) *grpc.Server {
	opts = append(opts, grpc.ChainUnaryInterceptor(s.requestLogInterceptor, s.accessTokenInterceptor))
	srv := grpc.NewServer(opts...)
	api.RegisterSetServiceServer(srv, s)
	return srv
}

// Run serves on the configured address until ctx is cancelled.
func (s *GRPCServer) Run(ctx context.Context) error {
	listen, err := net.Listen("tcp", s.address)
	if err != nil {
		return err
	}

	srv := s.NewServer()

	go func() {
		<-ctx.Done()
		s.logger.Info(ctx, "Stopping gRPC server...")
		srv.GracefulStop()
	}()

	s.logger.Info(ctx, "Starting gRPC server", "address", listen.Addr().String())

	return srv.Serve(listen)
}
