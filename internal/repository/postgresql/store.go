package postgresql

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/kintai-check/kintai-backend-go/internal/domain/store"
	"github.com/kintai-check/kintai-backend-go/internal/pkg/database"
)

type storeRepositoryImpl struct {
	db *database.DB
}

func NewStoreRepository(db *database.DB) store.StoreRepository {
	return &storeRepositoryImpl{db: db}
}

// Create implements store.StoreRepository.
func (r *storeRepositoryImpl) Create(ctx context.Context, s store.Store) (store.Store, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO stores (organization_id, code, name)
		VALUES ($1, $2, $3)
		RETURNING id, created_at, updated_at
	`
	if err := q.QueryRow(ctx, query, s.OrganizationID, s.Code, s.Name).Scan(&s.ID, &s.CreatedAt, &s.UpdatedAt); err != nil {
		if isUniqueViolation(err) {
			return store.Store{}, store.ErrStoreCodeExists
		}
		return store.Store{}, fmt.Errorf("failed to create store: %w", err)
	}
	return s, nil
}

// GetByID implements store.StoreRepository.
func (r *storeRepositoryImpl) GetByID(ctx context.Context, id string, organizationID string) (store.Store, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT id, organization_id, code, name, created_at, updated_at
		FROM stores
		WHERE id = $1 AND organization_id = $2
	`

	var s store.Store
	err := q.QueryRow(ctx, query, id, organizationID).Scan(
		&s.ID, &s.OrganizationID, &s.Code, &s.Name, &s.CreatedAt, &s.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return store.Store{}, store.ErrStoreNotFound
		}
		return store.Store{}, fmt.Errorf("failed to get store: %w", err)
	}
	return s, nil
}

// List implements store.StoreRepository.
func (r *storeRepositoryImpl) List(ctx context.Context, organizationID string) ([]store.Store, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT id, organization_id, code, name, created_at, updated_at
		FROM stores
		WHERE organization_id = $1
		ORDER BY code
	`
	rows, err := q.Query(ctx, query, organizationID)
	if err != nil {
		return nil, fmt.Errorf("failed to list stores: %w", err)
	}
	defer rows.Close()

	stores := make([]store.Store, 0)
	for rows.Next() {
		var s store.Store
		if err := rows.Scan(&s.ID, &s.OrganizationID, &s.Code, &s.Name, &s.CreatedAt, &s.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan store: %w", err)
		}
		stores = append(stores, s)
	}
	return stores, rows.Err()
}

// Update implements store.StoreRepository.
func (r *storeRepositoryImpl) Update(ctx context.Context, s store.Store) (store.Store, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE stores
		SET code = $1, name = $2, updated_at = NOW()
		WHERE id = $3 AND organization_id = $4
		RETURNING created_at, updated_at
	`
	err := q.QueryRow(ctx, query, s.Code, s.Name, s.ID, s.OrganizationID).Scan(&s.CreatedAt, &s.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return store.Store{}, store.ErrStoreNotFound
		}
		if isUniqueViolation(err) {
			return store.Store{}, store.ErrStoreCodeExists
		}
		return store.Store{}, fmt.Errorf("failed to update store: %w", err)
	}
	return s, nil
}

// Delete implements store.StoreRepository.
func (r *storeRepositoryImpl) Delete(ctx context.Context, id string, organizationID string) error {
	q := GetQuerier(ctx, r.db)

	tag, err := q.Exec(ctx, `DELETE FROM stores WHERE id = $1 AND organization_id = $2`, id, organizationID)
	if err != nil {
		if isForeignKeyViolation(err) {
			return store.ErrStoreHasRecords
		}
		return fmt.Errorf("failed to delete store: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return store.ErrStoreNotFound
	}
	return nil
}
