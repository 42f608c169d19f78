package grpc

import (
	"context"
	"net"

	"github.com/dmitrijs2005/gophauth/internal/api"
	"github.com/dmitrijs2005/gophauth/internal/logging"
	"github.com/dmitrijs2005/gophauth/internal/server/models"
	"github.com/dmitrijs2005/gophauth/internal/server/services"
	"google.golang.org/grpc"
)

// AuthFlows runs registration and login.
type AuthFlows interface {
	Register(ctx context.Context, in services.RegisterInput) (*models.PublicAccount, error)
	Login(ctx context.Context, in services.LoginInput) (*services.LoginResult, error)
}

// Authenticator resolves an encrypted session token to its account.
type Authenticator interface {
	Authenticate(ctx context.Context, encryptedToken string) (*models.Account, error)
}

type GRPCServer struct {
	address string
	flows   AuthFlows
	authn   Authenticator
	logger  logging.Logger
}

func NewGRPCServer(a string, l logging.Logger, flows AuthFlows, authn Authenticator) *GRPCServer {
	return &GRPCServer{
		address: a,
		logger:  l.With("module", "grpc_server"),
		flows:   flows,
		authn:   authn,
	}
}

// newServer builds the gRPC server with the auth interceptor and the
// AuthService registered.
func (s *GRPCServer) newServer() *grpc.Server {
	srv := grpc.NewServer(grpc.ChainUnaryInterceptor(s.authTokenInterceptor))
	api.RegisterAuthServiceServer(srv, s)
	return srv
}

// Run listens on the configured address and serves until ctx is cancelled.
func (s *GRPCServer) Run(ctx context.Context) error {

	// announces address
	listen, err := net.Listen("tcp", s.address)
	if err != nil {
		return err
	}

	return s.Serve(ctx, listen)
}

// Serve accepts connections on lis until ctx is cancelled, then stops gracefully.
func (s *GRPCServer) Serve(ctx context.Context, lis net.Listener) error {
	srv := s.newServer()

	go func() {
		<-ctx.Done()
		s.logger.Info(ctx, "Stopping gRPC server...")
		srv.GracefulStop()
	}()

	s.logger.Info(ctx, "Starting gRPC server", "address", lis.Addr().String())

	// starts accepting incoming connections
	if err := srv.Serve(lis); err != nil {
		return err
	}

	return nil
}
