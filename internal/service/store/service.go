package store

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/kintai-check/kintai-backend-go/internal/domain/store"
	"github.com/kintai-check/kintai-backend-go/internal/domain/user"
	"github.com/kintai-check/kintai-backend-go/internal/pkg/jwt"
	"github.com/kintai-check/kintai-backend-go/internal/pkg/validator"
)

type StoreServiceImpl struct {
	store.StoreRepository
}

func NewStoreService(storeRepo store.StoreRepository) store.StoreService {
	return &StoreServiceImpl{StoreRepository: storeRepo}
}

func adminClaims(ctx context.Context) (jwt.Claims, error) {
	claims, err := jwt.ClaimsFromContext(ctx)
	if err != nil {
		return jwt.Claims{}, fmt.Errorf("failed to extract claims from context: %w", err)
	}
	if !user.HasPermission(claims.Role, user.PermissionStoresManage) {
		return jwt.Claims{}, user.ErrAdminAccessRequired
	}
	return claims, nil
}

// List implements store.StoreService. Store managers only see their own store.
func (s *StoreServiceImpl) List(ctx context.Context) ([]store.StoreResponse, error) {
	claims, err := jwt.ClaimsFromContext(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to extract claims from context: %w", err)
	}

	stores, err := s.StoreRepository.List(ctx, claims.OrganizationID)
	if err != nil {
		return nil, fmt.Errorf("failed to list stores: %w", err)
	}

	responses := make([]store.StoreResponse, 0, len(stores))
	for _, st := range stores {
		if claims.IsStoreScoped() && st.ID != *claims.StoreID {
			continue
		}
		responses = append(responses, store.ToResponse(st))
	}
	return responses, nil
}

// Get implements store.StoreService.
func (s *StoreServiceImpl) Get(ctx context.Context, id string) (store.StoreResponse, error) {
	claims, err := jwt.ClaimsFromContext(ctx)
	if err != nil {
		return store.StoreResponse{}, fmt.Errorf("failed to extract claims from context: %w", err)
	}
	if !validator.IsValidUUID(id) {
		return store.StoreResponse{}, store.ErrStoreNotFound
	}
	if claims.IsStoreScoped() && id != *claims.StoreID {
		return store.StoreResponse{}, store.ErrStoreNotFound
	}

	st, err := s.StoreRepository.GetByID(ctx, id, claims.OrganizationID)
	if err != nil {
		return store.StoreResponse{}, err
	}
	return store.ToResponse(st), nil
}

// Create implements store.StoreService.
func (s *StoreServiceImpl) Create(ctx context.Context, req store.CreateStoreRequest) (store.StoreResponse, error) {
	claims, err := adminClaims(ctx)
	if err != nil {
		return store.StoreResponse{}, err
	}
	if err := req.Validate(); err != nil {
		return store.StoreResponse{}, err
	}

	st, err := s.StoreRepository.Create(ctx, store.Store{
		OrganizationID: claims.OrganizationID,
		Code:           strings.TrimSpace(req.Code),
		Name:           strings.TrimSpace(req.Name),
	})
	if err != nil {
		return store.StoreResponse{}, err
	}

	slog.Info("store created", "store_id", st.ID, "organization_id", claims.OrganizationID)
	return store.ToResponse(st), nil
}

// Update implements store.StoreService. Only provided fields change.
func (s *StoreServiceImpl) Update(ctx context.Context, req store.UpdateStoreRequest) (store.StoreResponse, error) {
	claims, err := adminClaims(ctx)
	if err != nil {
		return store.StoreResponse{}, err
	}
	if err := req.Validate(); err != nil {
		return store.StoreResponse{}, err
	}

	st, err := s.StoreRepository.GetByID(ctx, req.ID, claims.OrganizationID)
	if err != nil {
		return store.StoreResponse{}, err
	}
	if req.Code != nil {
		st.Code = strings.TrimSpace(*req.Code)
	}
	if req.Name != nil {
		st.Name = strings.TrimSpace(*req.Name)
	}

	updated, err := s.StoreRepository.Update(ctx, st)
	if err != nil {
		return store.StoreResponse{}, err
	}
	return store.ToResponse(updated), nil
}

// Delete implements store.StoreService.
func (s *StoreServiceImpl) Delete(ctx context.Context, id string) error {
	claims, err := adminClaims(ctx)
	if err != nil {
		return err
	}
	if !validator.IsValidUUID(id) {
		return store.ErrStoreNotFound
	}

	if err := s.StoreRepository.Delete(ctx, id, claims.OrganizationID); err != nil {
		return err
	}

	slog.Info("store deleted", "store_id", id, "organization_id", claims.OrganizationID)
	return nil
}
