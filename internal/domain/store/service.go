package store

import "context"

type StoreService interface {
	List(ctx context.Context) ([]StoreResponse, error)
	Get(ctx context.Context, id string) (StoreResponse, error)
	Create(ctx context.Context, req CreateStoreRequest) (StoreResponse, error)
	Update(ctx context.Context, req UpdateStoreRequest) (StoreResponse, error)
	Delete(ctx context.Context, id string) error
}
