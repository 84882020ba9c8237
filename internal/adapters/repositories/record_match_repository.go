package repositories

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"load-planning-service/internal/domain"
	"load-planning-service/internal/ports"

	"go.uber.org/zap"
)

// RecordMatchRepository implements the MatchRepository port on top of any
// RecordStore by decoding its JSON records into domain types.
//
// Matches whose demand or stock snapshot is missing are completed from the
// demand and stock records they reference.
type RecordMatchRepository struct {
	Store ports.RecordStore
}

func NewRecordMatchRepository(store ports.RecordStore) *RecordMatchRepository {
	return &RecordMatchRepository{Store: store}
}

// Return all confirmed matches, billed or not, in insertion order.
func (r *RecordMatchRepository) ListMatches(ctx context.Context) ([]domain.Match, error) {
	if r.Store == nil {
		return nil, errors.New("record match repository: store is nil")
	}

	records, err := r.Store.List(ctx, ports.RecordMatches)
	if err != nil {
		return nil, fmt.Errorf("list matches: %w", err)
	}

	matches := make([]domain.Match, 0, len(records))
	needDemands, needStock := false, false
	for _, rec := range records {
		var m domain.Match
		if err := json.Unmarshal(rec.Body, &m); err != nil {
			return nil, fmt.Errorf("list matches: decode match key=%q: %w", rec.Key, err)
		}
		if m.ID == "" {
			m.ID = rec.Key
		}
		needDemands = needDemands || (m.Demand.ID == "" && m.DemandID != "")
		needStock = needStock || (m.Stock.ID == "" && m.StockID != "")
		matches = append(matches, m)
	}

	if needDemands {
		demands, err := decodeAll[domain.DemandItem](ctx, r.Store, ports.RecordDemands)
		if err != nil {
			return nil, fmt.Errorf("list matches: %w", err)
		}
		for i := range matches {
			if d, ok := demands[matches[i].DemandID]; ok && matches[i].Demand.ID == "" {
				matches[i].Demand = d
			}
		}
	}

	if needStock {
		stock, err := decodeAll[domain.StockItem](ctx, r.Store, ports.RecordStock)
		if err != nil {
			return nil, fmt.Errorf("list matches: %w", err)
		}
		for i := range matches {
			if s, ok := stock[matches[i].StockID]; ok && matches[i].Stock.ID == "" {
				matches[i].Stock = s
			}
		}
	}

	for _, m := range matches {
		if m.Demand.ID == "" || m.Stock.ID == "" {
			zap.L().Warn("match references unknown demand or stock",
				zap.String("match_id", m.ID),
				zap.String("demand_id", m.DemandID),
				zap.String("stock_id", m.StockID),
			)
		}
	}

	return matches, nil
}

// Return the company directory in insertion order.
func (r *RecordMatchRepository) ListCompanies(ctx context.Context) ([]domain.Company, error) {
	if r.Store == nil {
		return nil, errors.New("record match repository: store is nil")
	}

	records, err := r.Store.List(ctx, ports.RecordCompanies)
	if err != nil {
		return nil, fmt.Errorf("list companies: %w", err)
	}

	companies := make([]domain.Company, 0, len(records))
	for _, rec := range records {
		var c domain.Company
		if err := json.Unmarshal(rec.Body, &c); err != nil {
			return nil, fmt.Errorf("list companies: decode company key=%q: %w", rec.Key, err)
		}
		if c.ID == "" {
			c.ID = rec.Key
		}
		companies = append(companies, c)
	}

	return companies, nil
}

// decodeAll loads every record of kind into a map keyed by record key.
func decodeAll[T any](ctx context.Context, store ports.RecordStore, kind ports.RecordKind) (map[string]T, error) {
	records, err := store.List(ctx, kind)
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", kind, err)
	}

	out := make(map[string]T, len(records))
	for _, rec := range records {
		var v T
		if err := json.Unmarshal(rec.Body, &v); err != nil {
			return nil, fmt.Errorf("load %s: decode key=%q: %w", kind, rec.Key, err)
		}
		out[rec.Key] = v
	}
	return out, nil
}
