package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

type MatchResponse struct {
	ID               string          `json:"id"`
	DemandID         string          `json:"demand_id"`
	StockID          string          `json:"stock_id"`
	ProductName      string          `json:"product_name"`
	Quantity         int             `json:"quantity"`
	VolumeM3         float64         `json:"volume_m3"`
	PickupCompany    string          `json:"pickup_company"`
	DropoffCompany   string          `json:"dropoff_company"`
	CommissionRate   float64         `json:"commission_rate"`
	CommissionAmount decimal.Decimal `json:"commission_amount"`
	MatchedAt        *time.Time      `json:"matched_at"`
}

type ListMatchesResponse struct {
	Matches []MatchResponse `json:"matches"`
}

type CompanyResponse struct {
	ID      string `json:"id"`
	Name    string `json:"company_name"`
	Role    string `json:"role"`
	Address string `json:"address"`
}

type ListCompaniesResponse struct {
	Companies []CompanyResponse `json:"companies"`
}
