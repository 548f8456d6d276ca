package organization

import "context"

type OrganizationRepository interface {
	GetByID(ctx context.Context, id string) (Organization, error)

	// ListIDs returns every organization id; used by scheduled jobs
	ListIDs(ctx context.Context) ([]string, error)
}
