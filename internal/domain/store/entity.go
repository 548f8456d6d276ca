package store

import "time"

type Store struct {
	ID             string
	OrganizationID string
	Code           string
	Name           string
	CreatedAt      time.Time
	UpdatedAt      time.Time
}
