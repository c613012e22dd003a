package team

import "context"

// Repository describes team and alias persistence needs from use cases.
type Repository interface {
	ListBySport(ctx context.Context, sport string) ([]Team, error)
	GetByID(ctx context.Context, teamID string) (Team, bool, error)
	Create(ctx context.Context, t Team) error

	ListAliases(ctx context.Context, sport string) ([]Alias, error)
	CreateAlias(ctx context.Context, a Alias) error
}
