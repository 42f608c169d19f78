package grpc

import (
	"context"

	"github.com/dmitrijs2005/gophauth/internal/api"
	"github.com/dmitrijs2005/gophauth/internal/common"
	"github.com/dmitrijs2005/gophauth/internal/server/models"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
)

type ctxKey string

const accountKey ctxKey = "account"

// privateMethods require a valid auth-token.
var privateMethods = map[string]bool{
	api.ProfileMethod: true,
}

func (s *GRPCServer) authTokenInterceptor(ctx context.Context, req interface{}, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (interface{}, error) {

	if privateMethods[info.FullMethod] {

		var token string
		if md, ok := metadata.FromIncomingContext(ctx); ok {
			values := md.Get(common.AuthTokenHeaderName)
			if len(values) > 0 {
				token = values[0]
			}
		}
		if len(token) == 0 {
			return nil, status.Error(codes.Unauthenticated, "missing token")
		}

		acc, err := s.authn.Authenticate(ctx, token)
		if err != nil {
			s.logger.Warn(ctx, "access denied", "method", info.FullMethod, "error", err.Error())
			return nil, status.Error(codes.Unauthenticated, "access denied")
		}

		ctx = context.WithValue(ctx, accountKey, acc)
	}

	return handler(ctx, req)
}

// AccountFromContext returns the account authenticated by the interceptor.
func AccountFromContext(ctx context.Context) (*models.Account, bool) {
	acc, ok := ctx.Value(accountKey).(*models.Account)
	return acc, ok && acc != nil
}
