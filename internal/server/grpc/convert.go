package grpc

import (
	"github.com/dmitrijs2005/postsets/internal/api"
	"github.com/dmitrijs2005/postsets/internal/server/models"
)

func idString[T interface{ String() string }](id *T) *string {
	if id == nil {
		return nil
	}
	s := (*id).String()
	return &s
}

func toAPISet(s *models.Set) *api.Set {
	return &api.Set{
		ID:          s.ID.String(),
		Owner:       s.Owner,
		Title:       s.Title,
		Description: s.Description,
		Privacy:     string(s.Privacy),
		Created:     s.Created,
		Updated:     s.Updated,
		Count:       s.Count,
		First:       idString(s.First),
		Last:        idString(s.Last),
	}
}

func toAPISets(sets []*models.Set) []*api.Set {
	out := make([]*api.Set, len(sets))
	for i, s := range sets {
		out[i] = toAPISet(s)
	}
	return out
}

func toAPIPost(p *models.Post) *api.Post {
	out := &api.Post{
		ID:          p.ID.String(),
		Title:       p.Title,
		Description: p.Description,
		Rating:      string(p.Rating),
		Parent:      idString(p.Parent),
		Created:     p.Created,
		Updated:     p.Updated,
		Filename:    p.Filename,
		Uploader:    p.Uploader,
		Privacy:     string(p.Privacy),
	}
	if p.MediaType != nil {
		out.MediaType = &api.MediaType{FileType: p.MediaType.FileType, MimeType: p.MediaType.MimeType}
	}
	if p.Size != nil {
		out.Size = &api.Size{Width: p.Size.Width, Height: p.Size.Height}
	}
	return out
}

func toAPIPosts(posts []*models.Post) []*api.Post {
	out := make([]*api.Post, len(posts))
	for i, p := range posts {
		out[i] = toAPIPost(p)
	}
	return out
}

func toAPIPostSets(sets []*models.PostSet) []*api.PostSet {
	out := make([]*api.PostSet, len(sets))
	for i, ps := range sets {
		out[i] = &api.PostSet{
			Set: toAPISet(ps.Set),
			Neighbors: api.Neighbors{
				Index:  ps.Neighbors.Index,
				Before: toAPIPosts(ps.Neighbors.Before),
				After:  toAPIPosts(ps.Neighbors.After),
			},
		}
	}
	return out
}
