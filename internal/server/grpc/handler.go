package grpc

import (
	"context"

	"github.com/dmitrijs2005/gophauth/internal/api"
	"github.com/dmitrijs2005/gophauth/internal/common"
	"github.com/dmitrijs2005/gophauth/internal/server/models"
	"github.com/dmitrijs2005/gophauth/internal/server/services"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
)

const (
	msgLoggedIn           = "Logged in! Set header '" + common.AuthTokenHeaderName + "' with the token to access private routes."
	msgInvalidCredentials = "Invalid username or password"
	msgDuplicate          = "This username or email address is already registered"
	msgInternal           = "Internal error"
)

// Flow failures are reported in the body with status -1 and a nil gRPC
// error; only transport-level problems use gRPC status codes.

func (s *GRPCServer) Register(ctx context.Context, req *api.RegisterRequest) (*api.RegisterResponse, error) {

	s.logger.Info(ctx, "Registration request", "username", req.Username)

	acc, err := s.flows.Register(ctx, services.RegisterInput{
		Username: req.Username,
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		return &api.RegisterResponse{Status: api.StatusError, Message: failureMessage(err)}, nil
	}

	return &api.RegisterResponse{Status: api.StatusOK, AddedUser: toAPIAccount(acc)}, nil
}

func (s *GRPCServer) Login(ctx context.Context, req *api.LoginRequest) (*api.LoginResponse, error) {

	s.logger.Info(ctx, "Login request", "username", req.Username)

	res, err := s.flows.Login(ctx, services.LoginInput{Username: req.Username, Password: req.Password})
	if err != nil {
		return &api.LoginResponse{Status: api.StatusError, Message: failureMessage(err)}, nil
	}

	if err := grpc.SetHeader(ctx, metadata.Pairs(common.AuthTokenHeaderName, res.EncryptedToken)); err != nil {
		s.logger.Error(ctx, "failed to set auth-token header", "error", err.Error())
		return nil, status.Error(codes.Internal, "failed to deliver token")
	}

	return &api.LoginResponse{Status: api.StatusOK, Message: msgLoggedIn}, nil
}

// Profile returns the caller's own account. It is a private route: the
// interceptor has already authenticated the token.
func (s *GRPCServer) Profile(ctx context.Context, _ *api.ProfileRequest) (*api.ProfileResponse, error) {
	acc, ok := AccountFromContext(ctx)
	if !ok {
		return nil, status.Error(codes.Unauthenticated, "access denied")
	}
	return &api.ProfileResponse{Status: api.StatusOK, User: toAPIAccount(acc.Public())}, nil
}

func failureMessage(err error) string {
	switch services.KindOf(err) {
	case services.KindValidationFailed:
		return "Validation error: " + services.Detail(err)
	case services.KindDuplicateAccount:
		return msgDuplicate
	case services.KindHashingFailed:
		return "Failed to hash password"
	case services.KindPersistenceFailed:
		return "Error adding user: " + services.Detail(err)
	case services.KindInvalidCredentials:
		return msgInvalidCredentials
	case services.KindSecretDerivationFailed:
		return "Failed to derive signing secret"
	case services.KindSigningFailed:
		return "Failed to sign token"
	case services.KindVerifierPersistFailed:
		return "Failed to store token verifier, login failed"
	case services.KindTransportEncryptFailed:
		return "Failed to encrypt token"
	default:
		return msgInternal
	}
}

func toAPIAccount(a *models.PublicAccount) *api.Account {
	if a == nil {
		return nil
	}
	return &api.Account{
		ID:        a.ID,
		Username:  a.Username,
		Handle:    a.Handle,
		Email:     a.Email,
		CreatedAt: a.CreatedAt,
	}
}
