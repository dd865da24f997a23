package client

import (
	"context"
	"fmt"
	"sync"

	"github.com/dmitrijs2005/postsets/internal/api"
	"github.com/dmitrijs2005/postsets/internal/common"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
)

type GRPCClient struct {
	endpointURL string
	conn        *grpc.ClientConn
	client      api.SetServiceClient

	mu          sync.RWMutex
	accessToken string
}

func withAccessToken(ctx context.Context, token string) context.Context {
	md, _ := metadata.FromOutgoingContext(ctx)
	md = md.Copy()
	if md == nil {
		md = metadata.MD{}
	}
	md.Set(common.AccessTokenHeaderName, token)

	return metadata.NewOutgoingContext(ctx, md)
}

func (s *GRPCClient) accessTokenInterceptor(
	ctx context.Context,
	method string,
	req, reply any,
	cc *grpc.ClientConn,
	invoker grpc.UnaryInvoker,
	opts ...grpc.CallOption,
) error {
	if token := s.token(); token != "" {
		ctx = withAccessToken(ctx, token)
	}
	return invoker(ctx, method, req, reply, cc, opts...)
}

// NewSetsClient connects to the service at endpointURL. Extra dial options
// are applied after the defaults.
func NewSetsClient(endpointURL string, opts ...grpc.DialOption) (*GRPCClient, error) {
	c := &GRPCClient{endpointURL: endpointURL}

	opts = append([]grpc.DialOption{
		grpc.WithTransportCredentials(insecure.NewCredentials()),
		grpc.WithUnaryInterceptor(c.accessTokenInterceptor),
	}, opts...)

	conn, err := grpc.NewClient(endpointURL, opts...)
	if err != nil {
		return nil, err
	}
	c.conn = conn
	c.client = api.NewSetServiceClient(conn)
	return c, nil
}

// SetAccessToken sets the token sent with every following call. An empty
// token makes the calls anonymous.
func (s *GRPCClient) SetAccessToken(token string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.accessToken = token
}

func (s *GRPCClient) token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.accessToken
}

func (s *GRPCClient) Close() error {
	return s.conn.Close()
}

func (s *GRPCClient) Ping(ctx context.Context) error {
	resp, err := s.client.Ping(ctx, &api.Empty{})
	if err != nil {
		return s.mapError(err)
	}
	if resp.Status != "OK" {
		return ErrUnavailable
	}
	return nil
}

func (s *GRPCClient) CreateSet(ctx context.Context, title, privacy string, description *string) (*api.Set, error) {
	req := &api.CreateSetRequest{Title: title, Privacy: privacy, Description: description}
	resp, err := s.client.CreateSet(ctx, req)
	if err != nil {
		return nil, s.mapError(err)
	}
	return resp, nil
}

func (s *GRPCClient) GetSet(ctx context.Context, id string) (*api.Set, error) {
	resp, err := s.client.GetSet(ctx, &api.GetSetRequest{ID: id})
	if err != nil {
		return nil, s.mapError(err)
	}
	return resp, nil
}

// InternalGetSet reads a set regardless of its privacy. The token must
// carry the internal scope.
func (s *GRPCClient) InternalGetSet(ctx context.Context, id string) (*api.Set, error) {
	resp, err := s.client.InternalGetSet(ctx, &api.GetSetRequest{ID: id})
	if err != nil {
		return nil, s.mapError(err)
	}
	return resp, nil
}

func (s *GRPCClient) UpdateSet(ctx context.Context, req *api.UpdateSetRequest) error {
	if _, err := s.client.UpdateSet(ctx, req); err != nil {
		return s.mapError(err)
	}
	return nil
}

func (s *GRPCClient) DeleteSet(ctx context.Context, id string) error {
	if _, err := s.client.DeleteSet(ctx, &api.DeleteSetRequest{ID: id}); err != nil {
		return s.mapError(err)
	}
	return nil
}

func (s *GRPCClient) AddPostToSet(ctx context.Context, setID, postID string, index int) error {
	req := &api.AddPostToSetRequest{SetID: setID, PostID: postID, Index: index}
	if _, err := s.client.AddPostToSet(ctx, req); err != nil {
		return s.mapError(err)
	}
	return nil
}

func (s *GRPCClient) RemovePostFromSet(ctx context.Context, setID, postID string) error {
	req := &api.RemovePostFromSetRequest{SetID: setID, PostID: postID}
	if _, err := s.client.RemovePostFromSet(ctx, req); err != nil {
		return s.mapError(err)
	}
	return nil
}

func (s *GRPCClient) GetPostSets(ctx context.Context, postID string) ([]*api.PostSet, error) {
	resp, err := s.client.GetPostSets(ctx, &api.GetPostSetsRequest{PostID: postID})
	if err != nil {
		return nil, s.mapError(err)
	}
	return resp.Sets, nil
}

func (s *GRPCClient) GetUserSets(ctx context.Context, handle string) ([]*api.Set, error) {
	resp, err := s.client.GetUserSets(ctx, &api.GetUserSetsRequest{Handle: handle})
	if err != nil {
		return nil, s.mapError(err)
	}
	return resp.Sets, nil
}

func (s *GRPCClient) mapError(err error) error {
	if err == nil {
		return nil
	}
	st, ok := status.FromError(err)
	if !ok {
		return fmt.Errorf("rpc error: %w", err)
	}

	var sentinel error
	switch st.Code() {
	case codes.NotFound:
		sentinel = common.ErrorNotFound
	case codes.InvalidArgument:
		sentinel = common.ErrorBadRequest
	case codes.AlreadyExists:
		sentinel = common.ErrorConflict
	case codes.Unauthenticated:
		sentinel = common.ErrorUnauthorized
	case codes.PermissionDenied:
		sentinel = common.ErrorForbidden
	case codes.Unavailable, codes.DeadlineExceeded:
		sentinel = ErrUnavailable
	default:
		return fmt.Errorf("rpc error: %w", err)
	}
	return fmt.Errorf("%w: %s", sentinel, st.Message())
}
