package api

import (
	"context"

	"google.golang.org/grpc"
)

func unary[Req, Reply any](method string, call func(SetServiceServer, context.Context, *Req) (*Reply, error)) grpc.MethodDesc {
	return grpc.MethodDesc{
		MethodName: method,
		Handler: func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
			in := new(Req)
			if err := dec(in); err != nil {
				return nil, err
			}
			impl := srv.(SetServiceServer)
			if interceptor == nil {
				return call(impl, ctx, in)
			}
			info := &grpc.UnaryServerInfo{Server: srv, FullMethod: FullMethod(method)}
			return interceptor(ctx, in, info, func(ctx context.Context, req any) (any, error) {
				return call(impl, ctx, req.(*Req))
			})
		},
	}
}

// ServiceDesc describes the service for grpc.Server.RegisterService.
var ServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*SetServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		unary(MethodCreateSet, SetServiceServer.CreateSet),
		unary(MethodGetSet, SetServiceServer.GetSet),
		unary(MethodUpdateSet, SetServiceServer.UpdateSet),
		unary(MethodDeleteSet, SetServiceServer.DeleteSet),
		unary(MethodAddPostToSet, SetServiceServer.AddPostToSet),
		unary(MethodRemovePostFromSet, SetServiceServer.RemovePostFromSet),
		unary(MethodGetPostSets, SetServiceServer.GetPostSets),
		unary(MethodGetUserSets, SetServiceServer.GetUserSets),
		unary(MethodInternalGetSet, SetServiceServer.InternalGetSet),
		unary(MethodPing, SetServiceServer.Ping),
	},
	Streams: []grpc.StreamDesc{},
}

func RegisterSetServiceServer(s grpc.ServiceRegistrar, srv SetServiceServer) {
	s.RegisterService(&ServiceDesc, srv)
}

// SetServiceClient is the client side of the service.
type SetServiceClient interface {
	CreateSet(ctx context.Context, in *CreateSetRequest, opts ...grpc.CallOption) (*Set, error)
	GetSet(ctx context.Context, in *GetSetRequest, opts ...grpc.CallOption) (*Set, error)
	UpdateSet(ctx context.Context, in *UpdateSetRequest, opts ...grpc.CallOption) (*Empty, error)
	DeleteSet(ctx context.Context, in *DeleteSetRequest, opts ...grpc.CallOption) (*Empty, error)
	AddPostToSet(ctx context.Context, in *AddPostToSetRequest, opts ...grpc.CallOption) (*Empty, error)
	RemovePostFromSet(ctx context.Context, in *RemovePostFromSetRequest, opts ...grpc.CallOption) (*Empty, error)
	GetPostSets(ctx context.Context, in *GetPostSetsRequest, opts ...grpc.CallOption) (*GetPostSetsReply, error)
	GetUserSets(ctx context.Context, in *GetUserSetsRequest, opts ...grpc.CallOption) (*GetUserSetsReply, error)
	InternalGetSet(ctx context.Context, in *GetSetRequest, opts ...grpc.CallOption) (*Set, error)
	Ping(ctx context.Context, in *Empty, opts ...grpc.CallOption) (*PingReply, error)
}

type setServiceClient struct {
	cc grpc.ClientConnInterface
}

func NewSetServiceClient(cc grpc.ClientConnInterface) SetServiceClient {
	return &setServiceClient{cc: cc}
}

func invoke[Reply any](ctx context.Context, cc grpc.ClientConnInterface, method string, in any, opts []grpc.CallOption) (*Reply, error) {
	out := new(Reply)
	opts = append([]grpc.CallOption{grpc.CallContentSubtype(CodecName)}, opts...)
	if err := cc.Invoke(ctx, FullMethod(method), in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *setServiceClient) CreateSet(ctx context.Context, in *CreateSetRequest, opts ...grpc.CallOption) (*Set, error) {
	return invoke[Set](ctx, c.cc, MethodCreateSet, in, opts)
}

func (c *setServiceClient) GetSet(ctx context.Context, in *GetSetRequest, opts ...grpc.CallOption) (*Set, error) {
	return invoke[Set](ctx, c.cc, MethodGetSet, in, opts)
}

func (c *setServiceClient) UpdateSet(ctx context.Context, in *UpdateSetRequest, opts ...grpc.CallOption) (*Empty, error) {
	return invoke[Empty](ctx, c.cc, MethodUpdateSet, in, opts)
}

func (c *setServiceClient) DeleteSet(ctx context.Context, in *DeleteSetRequest, opts ...grpc.CallOption) (*Empty, error) {
	return invoke[Empty](ctx, c.cc, MethodDeleteSet, in, opts)
}

func (c *setServiceClient) AddPostToSet(ctx context.Context, in *AddPostToSetRequest, opts ...grpc.CallOption) (*Empty, error) {
	return invoke[Empty](ctx, c.cc, MethodAddPostToSet, in, opts)
}

func (c *setServiceClient) RemovePostFromSet(ctx context.Context, in *RemovePostFromSetRequest, opts ...grpc.CallOption) (*Empty, error) {
	return invoke[Empty](ctx, c.cc, MethodRemovePostFromSet, in, opts)
}

func (c *setServiceClient) GetPostSets(ctx context.Context, in *GetPostSetsRequest, opts ...grpc.CallOption) (*GetPostSetsReply, error) {
	return invoke[GetPostSetsReply](ctx, c.cc, MethodGetPostSets, in, opts)
}

func (c *setServiceClient) GetUserSets(ctx context.Context, in *GetUserSetsRequest, opts ...grpc.CallOption) (*GetUserSetsReply, error) {
	return invoke[GetUserSetsReply](ctx, c.cc, MethodGetUserSets, in, opts)
}

func (c *setServiceClient) InternalGetSet(ctx context.Context, in *GetSetRequest, opts ...grpc.CallOption) (*Set, error) {
	return invoke[Set](ctx, c.cc, MethodInternalGetSet, in, opts)
}

func (c *setServiceClient) Ping(ctx context.Context, in *Empty, opts ...grpc.CallOption) (*PingReply, error) {
	return invoke[PingReply](ctx, c.cc, MethodPing, in, opts)
}
