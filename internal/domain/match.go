package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// DemandItem is a customer's request for timber.
type DemandItem struct {
	ID             string    `json:"id"`
	ProductName    string    `json:"productName"`
	DiameterFromCm float64   `json:"diameterFrom"`
	DiameterToCm   float64   `json:"diameterTo"`
	LengthM        float64   `json:"length"`
	Quantity       int       `json:"quantity"`
	VolumeM3       float64   `json:"cubicMeters"`
	Notes          string    `json:"notes,omitempty"`
	Status         string    `json:"status,omitempty"`
	SubmittedAt    time.Time `json:"submissionDate"`
	CompanyID      string    `json:"submittedByCompanyId"`
	CompanyName    string    `json:"submittedByCompanyName,omitempty"`
}

// StockItem is timber offered by a manufacturer.
type StockItem struct {
	ID             string    `json:"id"`
	ProductName    string    `json:"productName"`
	DiameterFromCm float64   `json:"diameterFrom"`
	DiameterToCm   float64   `json:"diameterTo"`
	LengthM        float64   `json:"length"`
	Quantity       int       `json:"quantity"`
	VolumeM3       float64   `json:"cubicMeters"`
	Price          string    `json:"price,omitempty"`
	Notes          string    `json:"notes,omitempty"`
	Status         string    `json:"status,omitempty"`
	UploadedAt     time.Time `json:"uploadDate"`
	CompanyID      string    `json:"uploadedByCompanyId"`
	CompanyName    string    `json:"uploadedByCompanyName,omitempty"`
}

// Match is a confirmed pairing of a demand with stock, awaiting shipment.
// Billed stays false until the match is invoiced. Synthetic marks
// placeholder matches generated for planning; their IDs carry the
// MOCK-CONF- prefix.
type Match struct {
	ID               string          `json:"id"`
	DemandID         string          `json:"demandId"`
	Demand           DemandItem      `json:"demandDetails"`
	StockID          string          `json:"stockId"`
	Stock            StockItem       `json:"stockDetails"`
	MatchedAt        time.Time       `json:"matchDate"`
	CommissionRate   float64         `json:"commissionRate"`
	CommissionAmount decimal.Decimal `json:"commissionAmount"`
	Billed           bool            `json:"billed"`
	Synthetic        bool            `json:"synthetic,omitempty"`
}

// UnbilledMatches returns the matches still awaiting shipment, in order.
func UnbilledMatches(matches []Match) []Match {
	out := make([]Match, 0, len(matches))
	for _, m := range matches {
		if !m.Billed {
			out = append(out, m)
		}
	}
	return out
}

// Pickup side is the manufacturer that uploaded the stock.
func (m Match) PickupCompanyID() string   { return m.Stock.CompanyID }
func (m Match) PickupCompanyName() string { return m.Stock.CompanyName }

// Drop-off side is the customer that submitted the demand.
func (m Match) DropoffCompanyID() string   { return m.Demand.CompanyID }
func (m Match) DropoffCompanyName() string { return m.Demand.CompanyName }

// ItemName prefers the stock product name, then the demand's.
func (m Match) ItemName() string {
	if m.Stock.ProductName != "" {
		return m.Stock.ProductName
	}
	return m.Demand.ProductName
}

// VolumeM3 is the shipped volume: the stock volume when known, else the demand's.
func (m Match) VolumeM3() float64 {
	if m.Stock.VolumeM3 > 0 {
		return m.Stock.VolumeM3
	}
	if m.Demand.VolumeM3 > 0 {
		return m.Demand.VolumeM3
	}
	return 0
}
