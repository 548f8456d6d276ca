package store

import "context"

// StoreRepository scopes every operation to an organization.
type StoreRepository interface {
	Create(ctx context.Context, s Store) (Store, error)
	GetByID(ctx context.Context, id string, organizationID string) (Store, error)
	List(ctx context.Context, organizationID string) ([]Store, error)
	Update(ctx context.Context, s Store) (Store, error)
	Delete(ctx context.Context, id string, organizationID string) error
}
