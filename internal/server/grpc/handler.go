package grpc

import (
	"context"

	"github.com/dmitrijs2005/postsets/internal/api"
	"github.com/dmitrijs2005/postsets/internal/server/auth"
	"github.com/dmitrijs2005/postsets/internal/server/models"
)

func (s *GRPCServer) CreateSet(ctx context.Context, req *api.CreateSetRequest) (*api.Set, error) {
	set, err := s.sets.CreateSet(ctx, auth.FromContext(ctx), req.Title, models.Privacy(req.Privacy), req.Description)
	if err != nil {
		return nil, s.toStatus(ctx, err)
	}
	return toAPISet(set), nil
}

func (s *GRPCServer) GetSet(ctx context.Context, req *api.GetSetRequest) (*api.Set, error) {
	id, err := models.ParseSetID(req.ID)
	if err != nil {
		return nil, s.toStatus(ctx, err)
	}

	set, err := s.sets.GetSet(ctx, auth.FromContext(ctx), id)
	if err != nil {
		return nil, s.toStatus(ctx, err)
	}
	return toAPISet(set), nil
}

func (s *GRPCServer) InternalGetSet(ctx context.Context, req *api.GetSetRequest) (*api.Set, error) {
	id, err := models.ParseSetID(req.ID)
	if err != nil {
		return nil, s.toStatus(ctx, err)
	}

	set, err := s.sets.InternalGetSet(ctx, auth.FromContext(ctx), id)
	if err != nil {
		return nil, s.toStatus(ctx, err)
	}
	return toAPISet(set), nil
}

func (s *GRPCServer) UpdateSet(ctx context.Context, req *api.UpdateSetRequest) (*api.Empty, error) {
	id, err := models.ParseSetID(req.ID)
	if err != nil {
		return nil, s.toStatus(ctx, err)
	}

	upd := models.SetUpdate{
		Mask:        req.Mask,
		Owner:       req.Owner,
		Title:       req.Title,
		Description: req.Description,
		Privacy:     models.Privacy(req.Privacy),
	}
	if err := s.sets.UpdateSet(ctx, auth.FromContext(ctx), id, upd); err != nil {
		return nil, s.toStatus(ctx, err)
	}
	return &api.Empty{}, nil
}

func (s *GRPCServer) DeleteSet(ctx context.Context, req *api.DeleteSetRequest) (*api.Empty, error) {
	id, err := models.ParseSetID(req.ID)
	if err != nil {
		return nil, s.toStatus(ctx, err)
	}

	if err := s.sets.DeleteSet(ctx, auth.FromContext(ctx), id); err != nil {
		return nil, s.toStatus(ctx, err)
	}
	return &api.Empty{}, nil
}

func (s *GRPCServer) AddPostToSet(ctx context.Context, req *api.AddPostToSetRequest) (*api.Empty, error) {
	setID, postID, err := parseEntry(req.SetID, req.PostID)
	if err != nil {
		return nil, s.toStatus(ctx, err)
	}

	if err := s.sets.AddPostToSet(ctx, auth.FromContext(ctx), postID, setID, req.Index); err != nil {
		return nil, s.toStatus(ctx, err)
	}
	return &api.Empty{}, nil
}

func (s *GRPCServer) RemovePostFromSet(ctx context.Context, req *api.RemovePostFromSetRequest) (*api.Empty, error) {
	setID, postID, err := parseEntry(req.SetID, req.PostID)
	if err != nil {
		return nil, s.toStatus(ctx, err)
	}

	if err := s.sets.RemovePostFromSet(ctx, auth.FromContext(ctx), postID, setID); err != nil {
		return nil, s.toStatus(ctx, err)
	}
	return &api.Empty{}, nil
}

func (s *GRPCServer) GetPostSets(ctx context.Context, req *api.GetPostSetsRequest) (*api.GetPostSetsReply, error) {
	postID, err := models.ParsePostID(req.PostID)
	if err != nil {
		return nil, s.toStatus(ctx, err)
	}

	sets, err := s.sets.GetPostSets(ctx, auth.FromContext(ctx), postID)
	if err != nil {
		return nil, s.toStatus(ctx, err)
	}
	return &api.GetPostSetsReply{Sets: toAPIPostSets(sets)}, nil
}

func (s *GRPCServer) GetUserSets(ctx context.Context, req *api.GetUserSetsRequest) (*api.GetUserSetsReply, error) {
	sets, err := s.sets.GetUserSets(ctx, auth.FromContext(ctx), req.Handle)
	if err != nil {
		return nil, s.toStatus(ctx, err)
	}
	return &api.GetUserSetsReply{Sets: toAPISets(sets)}, nil
}

func (s *GRPCServer) Ping(ctx context.Context, req *api.Empty) (*api.PingReply, error) {
	return &api.PingReply{Status: "OK"}, nil
}

func parseEntry(set, post string) (models.SetID, models.PostID, error) {
	setID, err := models.ParseSetID(set)
	if err != nil {
		return 0, 0, err
	}
	postID, err := models.ParsePostID(post)
	if err != nil {
		return 0, 0, err
	}
	return setID, postID, nil
}
