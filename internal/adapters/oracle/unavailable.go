package oracle

import (
	"context"
	"errors"

	"load-planning-service/internal/ports"
)

var ErrNotConfigured = errors.New("planning oracle is not configured")

// Unavailable stands in when no oracle credentials are configured.
type Unavailable struct{}

func (Unavailable) Available() bool { return false }

func (Unavailable) Propose(context.Context, ports.OracleRequest) (string, error) {
	return "", ErrNotConfigured
}
