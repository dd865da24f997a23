// Package api defines the wire contract of the postsets gRPC service: the
// service and method names, the request and reply messages and the JSON codec
// they travel in. Server and client both build on it.
package api

import "context"

// ServiceName is the fully qualified gRPC service name.
const ServiceName = "postsets.SetService"

// Method names.
const (
	MethodCreateSet         = "CreateSet"
	MethodGetSet            = "GetSet"
	MethodUpdateSet         = "UpdateSet"
	MethodDeleteSet         = "DeleteSet"
	MethodAddPostToSet      = "AddPostToSet"
	MethodRemovePostFromSet = "RemovePostFromSet"
	MethodGetPostSets       = "GetPostSets"
	MethodGetUserSets       = "GetUserSets"
	MethodInternalGetSet    = "InternalGetSet"
	MethodPing              = "Ping"
)

// FullMethod returns the path gRPC uses for method, e.g.
// "/postsets.SetService/GetSet".
func FullMethod(method string) string {
	return "/" + ServiceName + "/" + method
}

// SetServiceServer is implemented by the server side of the service.
type SetServiceServer interface {
	CreateSet(context.Context, *CreateSetRequest) (*Set, error)
	GetSet(context.Context, *GetSetRequest) (*Set, error)
	UpdateSet(context.Context, *UpdateSetRequest) (*Empty, error)
	DeleteSet(context.Context, *DeleteSetRequest) (*Empty, error)
	AddPostToSet(context.Context, *AddPostToSetRequest) (*Empty, error)
	RemovePostFromSet(context.Context, *RemovePostFromSetRequest) (*Empty, error)
	GetPostSets(context.Context, *GetPostSetsRequest) (*GetPostSetsReply, error)
	GetUserSets(context.Context, *GetUserSetsRequest) (*GetUserSetsReply, error)
	InternalGetSet(context.Context, *GetSetRequest) (*Set, error)
	Ping(context.Context, *Empty) (*PingReply, error)
}
