package client

import (
	"context"
	"fmt"
	"sync"

	"github.com/dmitrijs2005/gophauth/internal/api"
	"github.com/dmitrijs2005/gophauth/internal/common"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
)

type GRPCClient struct {
	endpointURL string
	conn        *grpc.ClientConn
	client      api.AuthServiceClient

	mu        sync.RWMutex
	authToken string
}

func withAuthToken(ctx context.Context, token string) context.Context {
	md, _ := metadata.FromOutgoingContext(ctx)
	md = md.Copy()
	if md == nil {
		md = metadata.MD{}
	}
	md.Set(common.AuthTokenHeaderName, token)

	return metadata.NewOutgoingContext(ctx, md)
}

func (s *GRPCClient) authTokenInterceptor(
	ctx context.Context,
	method string,
	req, reply interface{},
	cc *grpc.ClientConn,
	invoker grpc.UnaryInvoker,
	opts ...grpc.CallOption,
) error {

	if token := s.token(); token != "" {
		ctx = withAuthToken(ctx, token)
	}

	return invoker(ctx, method, req, reply, cc, opts...)
}

// NewGRPCClient connects lazily to endpointURL. Extra options are appended
// after the defaults (insecure transport, auth-token interceptor).
func NewGRPCClient(endpointURL string, opts ...grpc.DialOption) (*GRPCClient, error) {
	c := &GRPCClient{endpointURL: endpointURL}

	dialOpts := append([]grpc.DialOption{
		grpc.WithTransportCredentials(insecure.NewCredentials()),
		grpc.WithUnaryInterceptor(c.authTokenInterceptor),
	}, opts...)

	conn, err := grpc.NewClient(endpointURL, dialOpts...)
	if err != nil {
		return nil, err
	}
	c.conn = conn
	c.client = api.NewAuthServiceClient(conn)
	return c, nil
}

func (s *GRPCClient) Register(ctx context.Context, username, email, password string) (*api.Account, error) {

	req := &api.RegisterRequest{Username: username, Email: email, Password: password}

	resp, err := s.client.Register(ctx, req)
	if err != nil {
		return nil, s.mapError(err)
	}
	if resp.Status != api.StatusOK {
		return nil, &ServerError{Message: resp.Message}
	}

	return resp.AddedUser, nil
}

// Login stores the encrypted token from the auth-token response header for
// later private calls. The client never decrypts it.
func (s *GRPCClient) Login(ctx context.Context, username, password string) error {

	req := &api.LoginRequest{Username: username, Password: password}

	var header metadata.MD
	resp, err := s.client.Login(ctx, req, grpc.Header(&header))
	if err != nil {
		return s.mapError(err)
	}
	if resp.Status != api.StatusOK {
		return &ServerError{Message: resp.Message}
	}

	values := header.Get(common.AuthTokenHeaderName)
	if len(values) == 0 || values[0] == "" {
		return ErrNoToken
	}

	s.mu.Lock()
	s.authToken = values[0]
	s.mu.Unlock()

	return nil
}

func (s *GRPCClient) Profile(ctx context.Context) (*api.Account, error) {

	resp, err := s.client.Profile(ctx, &api.ProfileRequest{})
	if err != nil {
		return nil, s.mapError(err)
	}
	if resp.Status != api.StatusOK {
		return nil, &ServerError{Message: resp.Message}
	}

	return resp.User, nil
}

func (s *GRPCClient) Logout() {
	s.mu.Lock()
	s.authToken = ""
	s.mu.Unlock()
}

func (s *GRPCClient) LoggedIn() bool {
	return s.token() != ""
}

func (s *GRPCClient) token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.authToken
}

func (s *GRPCClient) Close() error {
	if s.conn == nil {
		return nil
	}
	return s.conn.Close()
}

func (s *GRPCClient) mapError(err error) error {
	if err == nil {
		return nil
	}
	st, _ := status.FromError(err)
	switch st.Code() {
	case codes.Unauthenticated, codes.PermissionDenied:
		return ErrUnauthorized
	case codes.Unavailable, codes.DeadlineExceeded:
		return ErrUnavailable
	default:
		return fmt.Errorf("rpc error: %w", err)
	}
}
