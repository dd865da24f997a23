package grpc

import (
	"context"
	"errors"
	"time"

	"github.com/dmitrijs2005/postsets/internal/common"
	"github.com/dmitrijs2005/postsets/internal/server/auth"
	"github.com/google/uuid"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
)

// accessTokenInterceptor puts the caller identified by the access token into
// the context. Calls without a token run as an anonymous caller; the
// services decide what an anonymous caller may do.
func (s *GRPCServer) accessTokenInterceptor(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {
	var accessToken string
	if md, ok := metadata.FromIncomingContext(ctx); ok {
		values := md.Get(common.AccessTokenHeaderName)
		if len(values) > 0 {
			accessToken = values[0]
		}
	}
	if accessToken == "" {
		return handler(auth.WithCaller(ctx, auth.Caller{}), req)
	}

	caller, err := auth.ParseToken(accessToken, s.jwtSecret)
	if err != nil {
		if errors.Is(err, common.ErrTokenExpired) {
			return nil, status.Error(codes.Unauthenticated, common.ErrTokenExpired.Error())
		}
		return nil, status.Error(codes.Unauthenticated, common.ErrInvalidToken.Error())
	}

	return handler(auth.WithCaller(ctx, caller), req)
}

// requestLogInterceptor tags every call with a request id and logs its
// outcome.
func (s *GRPCServer) requestLogInterceptor(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {
	start := time.Now()
	logger := s.logger.With("request_id", uuid.NewString(), "method", info.FullMethod)

	resp, err := handler(ctx, req)

	code := status.Code(err)
	args := []any{"code", code.String(), "duration", time.Since(start)}
	switch code {
	case codes.OK:
		logger.Debug(ctx, "request served", args...)
	case codes.Internal, codes.Unknown:
		logger.Error(ctx, "request failed", args...)
	default:
		logger.Info(ctx, "request rejected", args...)
	}
	return resp, err
}
