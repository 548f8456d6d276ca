package store

import "errors"

var (
	ErrStoreNotFound   = errors.New("store not found")
	ErrStoreCodeExists = errors.New("store code already exists")
	ErrStoreHasRecords = errors.New("store still has employees assigned")
)
