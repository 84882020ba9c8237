package ports

import (
	"context"
	"load-planning-service/internal/domain"
)

// Port: read access to confirmed matches and the company directory.
type MatchRepository interface {
	// Retrieve all confirmed matches, billed or not.
	ListMatches(ctx context.Context) ([]domain.Match, error)
	// Retrieve the company directory.
	ListCompanies(ctx context.Context) ([]domain.Company, error)
}
