package store

import (
	"time"

	"github.com/kintai-check/kintai-backend-go/internal/pkg/validator"
)

type CreateStoreRequest struct {
	Code string `json:"code"`
	Name string `json:"name"`
}

func (r *CreateStoreRequest) Validate() error {
	var errs validator.ValidationErrors
	errs.CheckText("code", r.Code, true, 50)
	errs.CheckText("name", r.Name, true, 100)
	return errs.Err()
}

type UpdateStoreRequest struct {
	ID   string  `json:"-"`
	Code *string `json:"code"`
	Name *string `json:"name"`
}

func (r *UpdateStoreRequest) Validate() error {
	var errs validator.ValidationErrors
	if !validator.IsValidUUID(r.ID) {
		errs.Add("id", "id must be a valid UUID")
	}
	if r.Code != nil {
		errs.CheckText("code", *r.Code, true, 50)
	}
	if r.Name != nil {
		errs.CheckText("name", *r.Name, true, 100)
	}
	return errs.Err()
}

type StoreResponse struct {
	ID        string    `json:"id"`
	Code      string    `json:"code"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func ToResponse(s Store) StoreResponse {
	return StoreResponse{
		ID:        s.ID,
		Code:      s.Code,
		Name:      s.Name,
		CreatedAt: s.CreatedAt,
		UpdatedAt: s.UpdatedAt,
	}
}
