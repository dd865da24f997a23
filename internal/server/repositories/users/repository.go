package users

import "context"

type Repository interface {
	GetIDByHandle(ctx context.Context, handle string) (int64, error)
}
