// Package client is a typed gRPC client for the postsets service.
//
// # Overview
//
// GRPCClient manages one connection, injects the access token into the
// outgoing metadata of every call and maps gRPC status codes back to the
// sentinel errors of package common, so callers can match them with
// errors.Is:
//
//   - codes.NotFound         -> common.ErrorNotFound
//   - codes.InvalidArgument  -> common.ErrorBadRequest
//   - codes.AlreadyExists    -> common.ErrorConflict
//   - codes.Unauthenticated  -> common.ErrorUnauthorized
//   - codes.PermissionDenied -> common.ErrorForbidden
//   - codes.Unavailable, codes.DeadlineExceeded -> ErrUnavailable
//
// The server's message is kept in the error text.
//
// A GRPCClient is safe for concurrent use. All operations accept a
// context.Context and honor its cancellation.
package client
