package handlers

import (
	"net/http"

	"load-planning-service/internal/api/dto"
	"load-planning-service/internal/domain"
	"load-planning-service/internal/ports"

	"go.uber.org/zap"
)

// MatchHandler exposes read-only match and company directory endpoints.
type MatchHandler struct {
	Repo ports.MatchRepository
}

// ListMatches returns the unbilled matches awaiting shipment.
func (h *MatchHandler) ListMatches(w http.ResponseWriter, r *http.Request) {
	if !allowMethod(w, r, http.MethodGet) {
		return
	}

	all, err := h.Repo.ListMatches(r.Context())
	if err != nil {
		zap.L().Error("list matches failed", zap.Error(err))
		writeError(w, r, http.StatusInternalServerError, "internal server error")
		return
	}

	matches := domain.UnbilledMatches(all)
	res := dto.ListMatchesResponse{Matches: make([]dto.MatchResponse, 0, len(matches))}
	for _, m := range matches {
		item := dto.MatchResponse{
			ID:               m.ID,
			DemandID:         m.DemandID,
			StockID:          m.StockID,
			ProductName:      m.ItemName(),
			Quantity:         m.Demand.Quantity,
			VolumeM3:         m.VolumeM3(),
			PickupCompany:    m.PickupCompanyName(),
			DropoffCompany:   m.DropoffCompanyName(),
			CommissionRate:   m.CommissionRate,
			CommissionAmount: m.CommissionAmount,
		}
		if !m.MatchedAt.IsZero() {
			t := m.MatchedAt
			item.MatchedAt = &t
		}
		res.Matches = append(res.Matches, item)
	}

	writeJSON(w, r, http.StatusOK, res)
}

func (h *MatchHandler) ListCompanies(w http.ResponseWriter, r *http.Request) {
	if !allowMethod(w, r, http.MethodGet) {
		return
	}

	companies, err := h.Repo.ListCompanies(r.Context())
	if err != nil {
		zap.L().Error("list companies failed", zap.Error(err))
		writeError(w, r, http.StatusInternalServerError, "internal server error")
		return
	}

	res := dto.ListCompaniesResponse{Companies: make([]dto.CompanyResponse, 0, len(companies))}
	for _, c := range companies {
		res.Companies = append(res.Companies, dto.CompanyResponse{
			ID:      c.ID,
			Name:    c.CompanyName,
			Role:    string(c.Role),
			Address: c.AddressLine(),
		})
	}

	writeJSON(w, r, http.StatusOK, res)
}
